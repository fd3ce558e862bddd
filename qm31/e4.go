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

import "github.com/consensys/circle-stark/m31"

// E4 is the degree-two extension of E2: B0 + B1·u where u² = 2+i.
// It is the secure field of the prover, of order (2³¹-1)⁴.
type E4 struct {
	B0, B1 E2
}

// ExtensionDegree is the degree of E4 over the base field.
const ExtensionDegree = 4

// NewE4 returns the element (a + b·i) + (c + d·i)·u.
func NewE4(a, b, c, d uint32) E4 {
	return E4{B0: NewE2(a, b), B1: NewE2(c, d)}
}

// mulByNonResidue sets z = x * (2+i).
func mulByNonResidue(z, x *E2) *E2 {
	var t E2
	t.Double(x)
	var ix E2
	ix.A0.Neg(&x.A1)
	ix.A1 = x.A0
	z.Add(&t, &ix)
	return z
}

// Set sets z to x and returns z.
func (z *E4) Set(x *E4) *E4 {
	z.B0 = x.B0
	z.B1 = x.B1
	return z
}

// SetZero sets z to 0 and returns z.
func (z *E4) SetZero() *E4 {
	z.B0.SetZero()
	z.B1.SetZero()
	return z
}

// SetOne sets z to 1 and returns z.
func (z *E4) SetOne() *E4 {
	z.B0.SetOne()
	z.B1.SetZero()
	return z
}

// SetRandom sets z to a random element and returns z.
func (z *E4) SetRandom() *E4 {
	z.B0.SetRandom()
	z.B1.SetRandom()
	return z
}

// FromBase sets z to the base field element x and returns z.
func (z *E4) FromBase(x *m31.Element) *E4 {
	z.B0.FromBase(x)
	z.B1.SetZero()
	return z
}

// FromCoords sets z from its four base field coordinates (1, i, u, iu)
// and returns z. This matches the secure-column encoding: a secure column
// is four parallel base columns holding these coordinates.
func (z *E4) FromCoords(a, b, c, d m31.Element) *E4 {
	z.B0.A0 = a
	z.B0.A1 = b
	z.B1.A0 = c
	z.B1.A1 = d
	return z
}

// Coords returns the four base field coordinates of z in the (1, i, u, iu)
// basis.
func (z *E4) Coords() [4]m31.Element {
	return [4]m31.Element{z.B0.A0, z.B0.A1, z.B1.A0, z.B1.A1}
}

// IsZero returns true if z equals 0.
func (z *E4) IsZero() bool {
	return z.B0.IsZero() && z.B1.IsZero()
}

// Equal returns true if z equals x.
func (z *E4) Equal(x *E4) bool {
	return z.B0.Equal(&x.B0) && z.B1.Equal(&x.B1)
}

// String puts the E4 element in string form.
func (z *E4) String() string {
	return "(" + z.B0.String() + ")+(" + z.B1.String() + ")*u"
}

// Add sets z = x + y and returns z.
func (z *E4) Add(x, y *E4) *E4 {
	z.B0.Add(&x.B0, &y.B0)
	z.B1.Add(&x.B1, &y.B1)
	return z
}

// Sub sets z = x - y and returns z.
func (z *E4) Sub(x, y *E4) *E4 {
	z.B0.Sub(&x.B0, &y.B0)
	z.B1.Sub(&x.B1, &y.B1)
	return z
}

// Neg sets z = -x and returns z.
func (z *E4) Neg(x *E4) *E4 {
	z.B0.Neg(&x.B0)
	z.B1.Neg(&x.B1)
	return z
}

// Double sets z = 2x and returns z.
func (z *E4) Double(x *E4) *E4 {
	z.B0.Double(&x.B0)
	z.B1.Double(&x.B1)
	return z
}

// Conjugate sets z to the complex conjugate B0 - B1·u and returns z.
// It is a field automorphism of order two; this is the automorphism used
// for pair-vanishing denominators.
func (z *E4) Conjugate(x *E4) *E4 {
	z.B0 = x.B0
	z.B1.Neg(&x.B1)
	return z
}

// Mul sets z = x * y and returns z.
func (z *E4) Mul(x, y *E4) *E4 {
	// Karatsuba over u² = 2+i
	var v0, v1, t0, t1 E2
	v0.Mul(&x.B0, &y.B0)
	v1.Mul(&x.B1, &y.B1)
	t0.Add(&x.B0, &x.B1)
	t1.Add(&y.B0, &y.B1)
	t0.Mul(&t0, &t1)
	t0.Sub(&t0, &v0)
	t0.Sub(&t0, &v1)
	mulByNonResidue(&v1, &v1)
	z.B0.Add(&v0, &v1)
	z.B1 = t0
	return z
}

// MulByE2 sets z = x * y for an E2 element y and returns z.
func (z *E4) MulByE2(x *E4, y *E2) *E4 {
	yc := *y
	z.B0.Mul(&x.B0, &yc)
	z.B1.Mul(&x.B1, &yc)
	return z
}

// MulByBase sets z = x * y for a base field y and returns z.
func (z *E4) MulByBase(x *E4, y *m31.Element) *E4 {
	z.B0.MulByBase(&x.B0, y)
	z.B1.MulByBase(&x.B1, y)
	return z
}

// Square sets z = x * x and returns z.
func (z *E4) Square(x *E4) *E4 {
	xc := *x
	return z.Mul(&xc, &xc)
}

// Inverse sets z = 1/x and returns z.
func (z *E4) Inverse(x *E4) *E4 {
	// 1/(b0 + b1·u) = (b0 - b1·u) / (b0² - (2+i)·b1²)
	var d, t E2
	d.Square(&x.B0)
	t.Square(&x.B1)
	mulByNonResidue(&t, &t)
	d.Sub(&d, &t)
	d.Inverse(&d)
	z.B0.Mul(&x.B0, &d)
	z.B1.Neg(&x.B1)
	z.B1.Mul(&z.B1, &d)
	return z
}

// Exp sets z = x^e and returns z.
func (z *E4) Exp(x E4, e uint64) *E4 {
	var res E4
	res.SetOne()
	for i := 63; i >= 0; i-- {
		res.Square(&res)
		if (e>>uint(i))&1 == 1 {
			res.Mul(&res, &x)
		}
	}
	return z.Set(&res)
}

// CombineCoordValues combines four secure field values carrying the
// coordinate parts of an element: v0 + v1·i + v2·u + v3·iu. With base
// field inputs this inverts Coords.
func CombineCoordValues(v [ExtensionDegree]E4) E4 {
	basis := [ExtensionDegree]E4{
		NewE4(1, 0, 0, 0),
		NewE4(0, 1, 0, 0),
		NewE4(0, 0, 1, 0),
		NewE4(0, 0, 0, 1),
	}
	var res, t E4
	for k := range v {
		t.Mul(&v[k], &basis[k])
		res.Add(&res, &t)
	}
	return res
}

// Powers returns the first n powers of x: [1, x, x², ...].
func Powers(x E4, n int) []E4 {
	res := make([]E4, n)
	var acc E4
	acc.SetOne()
	for i := 0; i < n; i++ {
		res[i] = acc
		acc.Mul(&acc, &x)
	}
	return res
}

// BatchInvert returns a new slice with the inverses of the input elements,
// using Montgomery's trick with a single E4 inversion. Zero entries are a
// programmer error.
func BatchInvert(a []E4) []E4 {
	res := make([]E4, len(a))
	if len(a) == 0 {
		return res
	}

	var acc E4
	acc.SetOne()
	for i := range a {
		res[i] = acc
		acc.Mul(&acc, &a[i])
	}

	acc.Inverse(&acc)

	for i := len(a) - 1; i >= 0; i-- {
		res[i].Mul(&res[i], &acc)
		acc.Mul(&acc, &a[i])
	}
	return res
}
