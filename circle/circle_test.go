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

package circle

import (
	"testing"

	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/qm31"
	"github.com/consensys/circle-stark/utils"
	"github.com/stretchr/testify/require"
)

func TestGenOnCircle(t *testing.T) {
	var x2, y2, s, one m31.Element
	x2.Square(&Gen.X)
	y2.Square(&Gen.Y)
	s.Add(&x2, &y2)
	one.SetOne()
	require.True(t, s.Equal(&one))
}

func TestGenOrder(t *testing.T) {
	// 2³⁰·Gen is the half turn, 2³¹·Gen is the identity.
	var h, id Point
	h.MulScalar(&Gen, 1<<30)
	var minusOne m31.Element
	minusOne.SetUint32(m31.Modulus - 1)
	require.True(t, h.X.Equal(&minusOne))
	require.True(t, h.Y.IsZero())

	id.Double(&h)
	identity := Identity()
	require.True(t, id.Equal(&identity))
}

func TestYSignPattern(t *testing.T) {
	// Over any 4 consecutive bit-reversed domain points the y signs are
	// (+, -, -, +).
	domain := NewCanonicCoset(5).CircleDomain()
	n := domain.Size()
	for q := 0; q < n/4; q++ {
		p0 := domain.At(utils.BitReverseIndex(4*q, domain.LogSize()))
		p1 := domain.At(utils.BitReverseIndex(4*q+1, domain.LogSize()))
		p2 := domain.At(utils.BitReverseIndex(4*q+2, domain.LogSize()))
		p3 := domain.At(utils.BitReverseIndex(4*q+3, domain.LogSize()))

		var negY m31.Element
		negY.Neg(&p0.Y)
		require.True(t, p1.Y.Equal(&negY), "quad %d", q)
		require.True(t, p2.Y.Equal(&negY), "quad %d", q)
		require.True(t, p3.Y.Equal(&p0.Y), "quad %d", q)

		// And x flips sign between the pairs.
		var negX m31.Element
		negX.Neg(&p0.X)
		require.True(t, p1.X.Equal(&p0.X), "quad %d", q)
		require.True(t, p2.X.Equal(&negX), "quad %d", q)
		require.True(t, p3.X.Equal(&negX), "quad %d", q)
	}
}

func TestDomainSplit(t *testing.T) {
	domain := NewCanonicCoset(6).CircleDomain()
	subdomain, shifts := domain.Split(2)
	require.Equal(t, domain.Size()/4, subdomain.Size())
	require.Len(t, shifts, 4)

	// The shifted subdomains partition the domain.
	seen := make(map[PointIndex]bool)
	for _, s := range shifts {
		shifted := subdomain.Shift(s)
		for i := 0; i < shifted.Size(); i++ {
			idx := shifted.IndexAt(i)
			require.False(t, seen[idx])
			seen[idx] = true
		}
	}
	for i := 0; i < domain.Size(); i++ {
		require.True(t, seen[domain.IndexAt(i)])
	}
}

func TestCanonicDomainMatchesCoset(t *testing.T) {
	// The circle domain holds the same points as the canonic coset.
	c := NewCanonicCoset(5)
	d := c.CircleDomain()
	inCoset := make(map[PointIndex]bool)
	for i := 0; i < c.Size(); i++ {
		inCoset[c.Coset.IndexAt(i)] = true
	}
	for i := 0; i < d.Size(); i++ {
		require.True(t, inCoset[d.IndexAt(i)], "index %d", i)
	}
}

func TestCosetVanishing(t *testing.T) {
	c := NewCanonicCoset(4).Coset
	for i := 0; i < c.Size(); i++ {
		v := CosetVanishing(c, c.At(i))
		require.True(t, v.IsZero(), "row %d", i)
	}
	// Nonzero outside the coset.
	other := Subgroup(4)
	v := CosetVanishing(c, other.At(1))
	require.False(t, v.IsZero())
}

func TestSecurePointFromT(t *testing.T) {
	p := SecurePointFromT(qm31.NewE4(1, 2, 3, 4))
	var x2, y2, s, one qm31.E4
	x2.Square(&p.X)
	y2.Square(&p.Y)
	s.Add(&x2, &y2)
	one.SetOne()
	require.True(t, s.Equal(&one))

	// Conjugation preserves the circle.
	var q SecurePoint
	q.Conjugate(&p)
	x2.Square(&q.X)
	y2.Square(&q.Y)
	s.Add(&x2, &y2)
	require.True(t, s.Equal(&one))
}

func TestPairVanishing(t *testing.T) {
	z := SecurePointFromT(qm31.NewE4(9, 8, 7, 6))
	var zbar SecurePoint
	zbar.Conjugate(&z)
	v1 := PairVanishing(z, zbar, z)
	require.True(t, v1.IsZero())
	v2 := PairVanishing(z, zbar, zbar)
	require.True(t, v2.IsZero())
	other := SecurePointFromT(qm31.NewE4(1, 0, 0, 0))
	v3 := PairVanishing(z, zbar, other)
	require.False(t, v3.IsZero())
}
