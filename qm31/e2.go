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

// Package qm31 implements the degree-2 and degree-4 extensions of the
// Mersenne-31 field used as the secure field of the prover.
package qm31

import "github.com/consensys/circle-stark/m31"

// E2 is the quadratic extension of m31: A0 + A1·i where i² = -1.
type E2 struct {
	A0, A1 m31.Element
}

// NewE2 returns the element a0 + a1·i.
func NewE2(a0, a1 uint32) E2 {
	var z E2
	z.A0.SetUint32(a0)
	z.A1.SetUint32(a1)
	return z
}

// Set sets z to x and returns z.
func (z *E2) Set(x *E2) *E2 {
	z.A0 = x.A0
	z.A1 = x.A1
	return z
}

// SetZero sets z to 0 and returns z.
func (z *E2) SetZero() *E2 {
	z.A0.SetZero()
	z.A1.SetZero()
	return z
}

// SetOne sets z to 1 and returns z.
func (z *E2) SetOne() *E2 {
	z.A0.SetOne()
	z.A1.SetZero()
	return z
}

// SetRandom sets z to a random element and returns z.
func (z *E2) SetRandom() *E2 {
	z.A0.SetRandom()
	z.A1.SetRandom()
	return z
}

// FromBase sets z to the base field element x and returns z.
func (z *E2) FromBase(x *m31.Element) *E2 {
	z.A0 = *x
	z.A1.SetZero()
	return z
}

// IsZero returns true if z equals 0.
func (z *E2) IsZero() bool {
	return z.A0.IsZero() && z.A1.IsZero()
}

// Equal returns true if z equals x.
func (z *E2) Equal(x *E2) bool {
	return z.A0.Equal(&x.A0) && z.A1.Equal(&x.A1)
}

// String puts the E2 element in string form.
func (z *E2) String() string {
	return z.A0.String() + "+" + z.A1.String() + "*i"
}

// Add sets z = x + y and returns z.
func (z *E2) Add(x, y *E2) *E2 {
	z.A0.Add(&x.A0, &y.A0)
	z.A1.Add(&x.A1, &y.A1)
	return z
}

// Sub sets z = x - y and returns z.
func (z *E2) Sub(x, y *E2) *E2 {
	z.A0.Sub(&x.A0, &y.A0)
	z.A1.Sub(&x.A1, &y.A1)
	return z
}

// Neg sets z = -x and returns z.
func (z *E2) Neg(x *E2) *E2 {
	z.A0.Neg(&x.A0)
	z.A1.Neg(&x.A1)
	return z
}

// Double sets z = 2x and returns z.
func (z *E2) Double(x *E2) *E2 {
	z.A0.Double(&x.A0)
	z.A1.Double(&x.A1)
	return z
}

// Conjugate sets z = A0 - A1·i and returns z.
func (z *E2) Conjugate(x *E2) *E2 {
	z.A0 = x.A0
	z.A1.Neg(&x.A1)
	return z
}

// Mul sets z = x * y and returns z.
func (z *E2) Mul(x, y *E2) *E2 {
	// Karatsuba over i² = -1
	var v0, v1, s0, s1, t m31.Element
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

// MulByBase sets z = x * y for a base field y and returns z.
func (z *E2) MulByBase(x *E2, y *m31.Element) *E2 {
	z.A0.Mul(&x.A0, y)
	z.A1.Mul(&x.A1, y)
	return z
}

// Square sets z = x * x and returns z.
func (z *E2) Square(x *E2) *E2 {
	// (a+bi)² = (a+b)(a-b) + 2ab·i
	var s, d, t m31.Element
	s.Add(&x.A0, &x.A1)
	d.Sub(&x.A0, &x.A1)
	t.Mul(&x.A0, &x.A1)
	z.A0.Mul(&s, &d)
	z.A1.Double(&t)
	return z
}

// Norm returns a0² + a1², the norm of z over the base field.
func (z *E2) Norm() m31.Element {
	var n, t m31.Element
	n.Square(&z.A0)
	t.Square(&z.A1)
	n.Add(&n, &t)
	return n
}

// Inverse sets z = 1/x and returns z.
func (z *E2) Inverse(x *E2) *E2 {
	n := x.Norm()
	n.Inverse(&n)
	z.A0.Mul(&x.A0, &n)
	z.A1.Neg(&x.A1)
	z.A1.Mul(&z.A1, &n)
	return z
}
