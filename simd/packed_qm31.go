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

package simd

import (
	"github.com/consensys/circle-stark/qm31"
)

// PackedE2 is a vector of NLanes E2 elements, stored as two coordinate
// vectors.
type PackedE2 struct {
	A0, A1 PackedM31
}

// PackedE4 is a vector of NLanes E4 elements, stored as four coordinate
// vectors in the (1, i, u, iu) basis.
type PackedE4 struct {
	B0, B1 PackedE2
}

// BroadcastE4 returns a vector with all lanes set to v.
func BroadcastE4(v qm31.E4) PackedE4 {
	return PackedE4{
		B0: PackedE2{A0: BroadcastM31(v.B0.A0), A1: BroadcastM31(v.B0.A1)},
		B1: PackedE2{A0: BroadcastM31(v.B1.A0), A1: BroadcastM31(v.B1.A1)},
	}
}

// FromE4Lanes packs NLanes scalar values into a vector.
func FromE4Lanes(vs [NLanes]qm31.E4) PackedE4 {
	var z PackedE4
	for i, v := range vs {
		z.B0.A0[i] = v.B0.A0
		z.B0.A1[i] = v.B0.A1
		z.B1.A0[i] = v.B1.A0
		z.B1.A1[i] = v.B1.A1
	}
	return z
}

// At returns lane i of z.
func (z *PackedE4) At(i int) qm31.E4 {
	var v qm31.E4
	v.FromCoords(z.B0.A0[i], z.B0.A1[i], z.B1.A0[i], z.B1.A1[i])
	return v
}

// SetLane sets lane i of z to v.
func (z *PackedE4) SetLane(i int, v qm31.E4) {
	z.B0.A0[i] = v.B0.A0
	z.B0.A1[i] = v.B0.A1
	z.B1.A0[i] = v.B1.A0
	z.B1.A1[i] = v.B1.A1
}

// Add sets z = x + y lanewise and returns z.
func (z *PackedE2) Add(x, y *PackedE2) *PackedE2 {
	z.A0.Add(&x.A0, &y.A0)
	z.A1.Add(&x.A1, &y.A1)
	return z
}

// Sub sets z = x - y lanewise and returns z.
func (z *PackedE2) Sub(x, y *PackedE2) *PackedE2 {
	z.A0.Sub(&x.A0, &y.A0)
	z.A1.Sub(&x.A1, &y.A1)
	return z
}

// Neg sets z = -x lanewise and returns z.
func (z *PackedE2) Neg(x *PackedE2) *PackedE2 {
	z.A0.Neg(&x.A0)
	z.A1.Neg(&x.A1)
	return z
}

// Mul sets z = x * y lanewise and returns z.
func (z *PackedE2) Mul(x, y *PackedE2) *PackedE2 {
	// Karatsuba over i² = -1, as in the scalar tower.
	var v0, v1, s0, s1, t PackedM31
	v0.Mul(&x.A0, &y.A0)
	v1.Mul(&x.A1, &y.A1)
	s0.Add(&x.A0, &x.A1)
	s1.Add(&y.A0, &y.A1)
	t.Mul(&s0, &s1)
	z.A1.Sub(&t, &v0)
	z.A1.Sub(&z.A1, &v1)
	z.A0.Sub(&v0, &v1)
	return z
}

// MulByM31 sets z = x * y lanewise for a base field vector y and returns z.
func (z *PackedE2) MulByM31(x *PackedE2, y *PackedM31) *PackedE2 {
	z.A0.Mul(&x.A0, y)
	z.A1.Mul(&x.A1, y)
	return z
}

// mulPackedByNonResidue sets z = x * (2+i) lanewise.
func mulPackedByNonResidue(z, x *PackedE2) *PackedE2 {
	var d, ix PackedE2
	d.A0.Add(&x.A0, &x.A0)
	d.A1.Add(&x.A1, &x.A1)
	ix.A0.Neg(&x.A1)
	ix.A1 = x.A0
	z.Add(&d, &ix)
	return z
}

// Add sets z = x + y lanewise and returns z.
func (z *PackedE4) Add(x, y *PackedE4) *PackedE4 {
	z.B0.Add(&x.B0, &y.B0)
	z.B1.Add(&x.B1, &y.B1)
	return z
}

// Sub sets z = x - y lanewise and returns z.
func (z *PackedE4) Sub(x, y *PackedE4) *PackedE4 {
	z.B0.Sub(&x.B0, &y.B0)
	z.B1.Sub(&x.B1, &y.B1)
	return z
}

// Neg sets z = -x lanewise and returns z.
func (z *PackedE4) Neg(x *PackedE4) *PackedE4 {
	z.B0.Neg(&x.B0)
	z.B1.Neg(&x.B1)
	return z
}

// Mul sets z = x * y lanewise and returns z.
func (z *PackedE4) Mul(x, y *PackedE4) *PackedE4 {
	// Karatsuba over u² = 2+i, as in the scalar tower.
	var v0, v1, t0, t1 PackedE2
	v0.Mul(&x.B0, &y.B0)
	v1.Mul(&x.B1, &y.B1)
	t0.Add(&x.B0, &x.B1)
	t1.Add(&y.B0, &y.B1)
	t0.Mul(&t0, &t1)
	t0.Sub(&t0, &v0)
	t0.Sub(&t0, &v1)
	mulPackedByNonResidue(&v1, &v1)
	z.B0.Add(&v0, &v1)
	z.B1 = t0
	return z
}

// MulByM31 sets z = x * y lanewise for a base field vector y and returns z.
// This is the mixed product used by the quotient row kernel.
func (z *PackedE4) MulByM31(x *PackedE4, y *PackedM31) *PackedE4 {
	z.B0.MulByM31(&x.B0, y)
	z.B1.MulByM31(&x.B1, y)
	return z
}

// Interleave returns the even/odd interleave of x and y, coordinate-wise.
func (x *PackedE4) Interleave(y *PackedE4) (lo, hi PackedE4) {
	lo.B0.A0, hi.B0.A0 = x.B0.A0.Interleave(&y.B0.A0)
	lo.B0.A1, hi.B0.A1 = x.B0.A1.Interleave(&y.B0.A1)
	lo.B1.A0, hi.B1.A0 = x.B1.A0.Interleave(&y.B1.A0)
	lo.B1.A1, hi.B1.A1 = x.B1.A1.Interleave(&y.B1.A1)
	return lo, hi
}
