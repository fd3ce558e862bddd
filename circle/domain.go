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

// Domain is a circle domain: the union of a half coset and its antipodal
// image, closed under negation. Its natural order enumerates the half coset
// forward, then the negated half coset.
type Domain struct {
	HalfCoset Coset
}

// NewDomain returns the circle domain over the given half coset.
func NewDomain(halfCoset Coset) Domain {
	return Domain{HalfCoset: halfCoset}
}

// LogSize returns the log2 of the domain size.
func (d Domain) LogSize() uint32 {
	return d.HalfCoset.LogSize + 1
}

// Size returns the number of points in the domain.
func (d Domain) Size() int {
	return 1 << d.LogSize()
}

// IndexAt returns the index of the i-th domain point in natural order.
func (d Domain) IndexAt(i int) PointIndex {
	if i < d.HalfCoset.Size() {
		return d.HalfCoset.IndexAt(i)
	}
	return d.HalfCoset.IndexAt(i - d.HalfCoset.Size()).Neg()
}

// At returns the i-th domain point in natural order. Callers typically
// access evaluations through the bit-reversed index instead.
func (d Domain) At(i int) Point {
	return d.IndexAt(i).ToPoint()
}

// Shift returns the domain translated by the given index.
func (d Domain) Shift(offset PointIndex) Domain {
	return NewDomain(d.HalfCoset.Shift(offset))
}

// Split decomposes the domain into a subdomain with a step 2^logParts times
// larger and the 2^logParts shifts whose translated subdomains cover the
// domain.
func (d Domain) Split(logParts uint32) (Domain, []PointIndex) {
	if logParts > d.HalfCoset.LogSize {
		panic("splitting into more parts than domain points")
	}
	subdomain := NewDomain(NewCoset(d.HalfCoset.InitialIndex, d.HalfCoset.LogSize-logParts))
	shifts := make([]PointIndex, 1<<logParts)
	for i := range shifts {
		shifts[i] = d.HalfCoset.StepSize.Mul(uint64(i))
	}
	return subdomain, shifts
}

// CanonicCoset is the coset of the odd multiples of a subgroup generator.
// Canonic cosets index trace rows; their circle domains carry the
// committed evaluations.
type CanonicCoset struct {
	Coset Coset
}

// NewCanonicCoset returns the canonic coset of size 2^logSize.
func NewCanonicCoset(logSize uint32) CanonicCoset {
	if logSize == 0 {
		panic("canonic coset must have at least two points")
	}
	return CanonicCoset{Coset: Odds(logSize)}
}

// LogSize returns the log2 of the coset size.
func (c CanonicCoset) LogSize() uint32 {
	return c.Coset.LogSize
}

// Size returns the number of points in the coset.
func (c CanonicCoset) Size() int {
	return c.Coset.Size()
}

// CircleDomain returns the circle domain holding the same points.
func (c CanonicCoset) CircleDomain() Domain {
	return NewDomain(HalfOdds(c.Coset.LogSize - 1))
}

// Step returns the coset step point.
func (c CanonicCoset) Step() Point {
	return c.Coset.Step
}

// StepSize returns the coset step index.
func (c CanonicCoset) StepSize() PointIndex {
	return c.Coset.StepSize
}

// At returns the i-th coset point.
func (c CanonicCoset) At(i int) Point {
	return c.Coset.At(i)
}
