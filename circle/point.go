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

// Package circle implements the unit circle group x² + y² = 1 over the
// Mersenne-31 field and its secure field extension, along with the cosets
// and circle domains the prover evaluates on.
package circle

import (
	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/qm31"
)

// Point is an affine point (x, y) with x² + y² = 1 over the base field.
// The group law is complex multiplication of x + iy.
type Point struct {
	X, Y m31.Element
}

// Gen generates the full circle group, of order 2³¹.
var Gen = Point{X: m31.NewElement(2), Y: m31.NewElement(1268011823)}

// Identity returns the group identity (1, 0).
func Identity() Point {
	return Point{X: m31.NewElement(1), Y: m31.NewElement(0)}
}

// Equal returns true if p equals q.
func (p *Point) Equal(q *Point) bool {
	return p.X.Equal(&q.X) && p.Y.Equal(&q.Y)
}

// Add sets z = x + y (complex multiplication) and returns z.
func (z *Point) Add(x, y *Point) *Point {
	var xx, yy, xy, yx m31.Element
	xx.Mul(&x.X, &y.X)
	yy.Mul(&x.Y, &y.Y)
	xy.Mul(&x.X, &y.Y)
	yx.Mul(&x.Y, &y.X)
	z.X.Sub(&xx, &yy)
	z.Y.Add(&xy, &yx)
	return z
}

// Neg sets z = -x, the reflection (x, -y), and returns z.
func (z *Point) Neg(x *Point) *Point {
	z.X = x.X
	z.Y.Neg(&x.Y)
	return z
}

// Sub sets z = x - y and returns z.
func (z *Point) Sub(x, y *Point) *Point {
	var ny Point
	ny.Neg(y)
	return z.Add(x, &ny)
}

// Double sets z = 2x and returns z.
func (z *Point) Double(x *Point) *Point {
	xc := *x
	return z.Add(&xc, &xc)
}

// MulScalar sets z = n·x and returns z.
func (z *Point) MulScalar(x *Point, n uint64) *Point {
	res := Identity()
	base := *x
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			res.Add(&res, &base)
		}
		base.Double(&base)
	}
	*z = res
	return z
}

// DoubleX returns the x-coordinate doubling map 2x² - 1.
func DoubleX(x m31.Element) m31.Element {
	var r m31.Element
	r.Square(&x)
	r.Double(&r)
	var one m31.Element
	one.SetOne()
	r.Sub(&r, &one)
	return r
}

// SecurePoint is a point of the circle over the secure field.
type SecurePoint struct {
	X, Y qm31.E4
}

// SecureFromBase lifts a base field point to the secure field.
func SecureFromBase(p Point) SecurePoint {
	var z SecurePoint
	z.X.FromBase(&p.X)
	z.Y.FromBase(&p.Y)
	return z
}

// Equal returns true if p equals q.
func (p *SecurePoint) Equal(q *SecurePoint) bool {
	return p.X.Equal(&q.X) && p.Y.Equal(&q.Y)
}

// Add sets z = x + y and returns z.
func (z *SecurePoint) Add(x, y *SecurePoint) *SecurePoint {
	var xx, yy, xy, yx qm31.E4
	xx.Mul(&x.X, &y.X)
	yy.Mul(&x.Y, &y.Y)
	xy.Mul(&x.X, &y.Y)
	yx.Mul(&x.Y, &y.X)
	z.X.Sub(&xx, &yy)
	z.Y.Add(&xy, &yx)
	return z
}

// AddBase sets z = x + p for a base field point p and returns z.
func (z *SecurePoint) AddBase(x *SecurePoint, p Point) *SecurePoint {
	q := SecureFromBase(p)
	return z.Add(x, &q)
}

// Neg sets z = -x and returns z.
func (z *SecurePoint) Neg(x *SecurePoint) *SecurePoint {
	z.X = x.X
	z.Y.Neg(&x.Y)
	return z
}

// Conjugate sets z to the coordinate-wise complex conjugate of x and
// returns z. The conjugate of a circle point is a circle point.
func (z *SecurePoint) Conjugate(x *SecurePoint) *SecurePoint {
	z.X.Conjugate(&x.X)
	z.Y.Conjugate(&x.Y)
	return z
}

// DoubleXSecure returns the x-coordinate doubling map 2x² - 1 over the
// secure field.
func DoubleXSecure(x qm31.E4) qm31.E4 {
	var r, one qm31.E4
	r.Square(&x)
	r.Double(&r)
	one.SetOne()
	r.Sub(&r, &one)
	return r
}

// SecurePointFromT returns the circle point with parameter t under the
// rational parameterization ((1-t²)/(1+t²), 2t/(1+t²)). t² = -1 is a
// programmer error. Used to sample out-of-domain points over the secure
// field.
func SecurePointFromT(t qm31.E4) SecurePoint {
	var tt, onePlus, oneMinus, inv, one qm31.E4
	tt.Square(&t)
	one.SetOne()
	onePlus.Add(&one, &tt)
	oneMinus.Sub(&one, &tt)
	inv.Inverse(&onePlus)
	var z SecurePoint
	z.X.Mul(&oneMinus, &inv)
	z.Y.Double(&t)
	z.Y.Mul(&z.Y, &inv)
	return z
}
