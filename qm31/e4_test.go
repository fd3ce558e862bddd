// Copyright 2020 ConsenSys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package qm31

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func genE4() gopter.Gen {
	return gopter.CombineGens(gen.UInt32(), gen.UInt32(), gen.UInt32(), gen.UInt32()).
		Map(func(vs []interface{}) E4 {
			return NewE4(vs[0].(uint32), vs[1].(uint32), vs[2].(uint32), vs[3].(uint32))
		})
}

func TestE4Ops(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500

	properties := gopter.NewProperties(parameters)

	properties.Property("mul is associative", prop.ForAll(
		func(a, b, c E4) bool {
			var l, r E4
			l.Mul(&a, &b).Mul(&l, &c)
			r.Mul(&b, &c)
			r.Mul(&a, &r)
			return l.Equal(&r)
		},
		genE4(), genE4(), genE4(),
	))

	properties.Property("mul distributes over add", prop.ForAll(
		func(a, b, c E4) bool {
			var l, r, t0, t1 E4
			l.Add(&a, &b).Mul(&l, &c)
			t0.Mul(&a, &c)
			t1.Mul(&b, &c)
			r.Add(&t0, &t1)
			return l.Equal(&r)
		},
		genE4(), genE4(), genE4(),
	))

	properties.Property("x * 1/x == 1", prop.ForAll(
		func(a E4) bool {
			if a.IsZero() {
				return true
			}
			var inv, prod, one E4
			inv.Inverse(&a)
			prod.Mul(&a, &inv)
			one.SetOne()
			return prod.Equal(&one)
		},
		genE4(),
	))

	properties.Property("conjugation is multiplicative", prop.ForAll(
		func(a, b E4) bool {
			var ab, l, ca, cb, r E4
			ab.Mul(&a, &b)
			l.Conjugate(&ab)
			ca.Conjugate(&a)
			cb.Conjugate(&b)
			r.Mul(&ca, &cb)
			return l.Equal(&r)
		},
		genE4(), genE4(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestE4CoordsRoundtrip(t *testing.T) {
	x := NewE4(1, 2, 3, 4)
	c := x.Coords()
	var y E4
	y.FromCoords(c[0], c[1], c[2], c[3])
	require.True(t, x.Equal(&y))
}

func TestPowers(t *testing.T) {
	x := NewE4(5, 6, 7, 8)
	p := Powers(x, 5)
	var one E4
	one.SetOne()
	require.True(t, p[0].Equal(&one))
	for i := 1; i < len(p); i++ {
		var expect E4
		expect.Mul(&p[i-1], &x)
		require.True(t, p[i].Equal(&expect), "mismatch at %d", i)
	}
}

func TestE4BatchInvert(t *testing.T) {
	v := make([]E4, 63)
	for i := range v {
		v[i].SetRandom()
	}
	inv := BatchInvert(v)
	var one, prod E4
	one.SetOne()
	for i := range v {
		prod.Mul(&v[i], &inv[i])
		require.True(t, prod.Equal(&one), "mismatch at %d", i)
	}
}
