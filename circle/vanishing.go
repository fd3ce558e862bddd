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
	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/qm31"
)

// vanishingShift returns the translation mapping the coset onto a standard
// position: half a step past the subgroup, where iterated x-doubling
// vanishes on the whole coset.
func vanishingShift(c Coset) Point {
	var s Point
	var negInitial Point
	negInitial.Neg(&c.Initial)
	half := c.StepSize.Half().ToPoint()
	return *s.Add(&negInitial, &half)
}

// CosetVanishing evaluates the vanishing polynomial of the coset at p.
// Doubling the x-coordinate logSize-1 times evaluates a degree 2^(logSize-1)
// polynomial in x whose zero set contains the shifted coset.
func CosetVanishing(c Coset, p Point) m31.Element {
	shift := vanishingShift(c)
	var q Point
	q.Add(&p, &shift)
	x := q.X
	for i := uint32(1); i < c.LogSize; i++ {
		x = DoubleX(x)
	}
	return x
}

// CosetVanishingSecure evaluates the vanishing polynomial of a base field
// coset at a secure field point.
func CosetVanishingSecure(c Coset, p SecurePoint) qm31.E4 {
	shift := vanishingShift(c)
	var q SecurePoint
	q.AddBase(&p, shift)
	x := q.X
	for i := uint32(1); i < c.LogSize; i++ {
		x = DoubleXSecure(x)
	}
	return x
}

// PairVanishing evaluates at p the unique polynomial linear in (x, y) that
// vanishes at both excluded points.
func PairVanishing(excluded0, excluded1, p SecurePoint) qm31.E4 {
	// (e0.y - e1.y)·p.x + (e1.x - e0.x)·p.y + (e0.x·e1.y - e0.y·e1.x)
	var a, b, c, t, res qm31.E4
	a.Sub(&excluded0.Y, &excluded1.Y)
	b.Sub(&excluded1.X, &excluded0.X)
	c.Mul(&excluded0.X, &excluded1.Y)
	t.Mul(&excluded0.Y, &excluded1.X)
	c.Sub(&c, &t)
	res.Mul(&a, &p.X)
	t.Mul(&b, &p.Y)
	res.Add(&res, &t)
	res.Add(&res, &c)
	return res
}
