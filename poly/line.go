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

package poly

import (
	"math/bits"

	"github.com/consensys/circle-stark/circle"
	"github.com/consensys/circle-stark/m31"
)

// LineDomain is the x-coordinate projection of an odd coset. The first
// half of the coset projects to distinct x values; the second half to
// their negations.
type LineDomain struct {
	Coset circle.Coset
}

// NewLineDomain returns the line domain over the given coset.
func NewLineDomain(coset circle.Coset) LineDomain {
	return LineDomain{Coset: coset}
}

// Size returns the number of domain elements.
func (d LineDomain) Size() int {
	return d.Coset.Size()
}

// LogSize returns the log2 of the domain size.
func (d LineDomain) LogSize() uint32 {
	return d.Coset.LogSize
}

// At returns the i-th domain element.
func (d LineDomain) At(i int) m31.Element {
	return d.Coset.At(i).X
}

// Double returns the image of the domain under the doubling map.
func (d LineDomain) Double() LineDomain {
	return LineDomain{Coset: d.Coset.Double()}
}

// LinePoly is a univariate polynomial in the line FFT basis
// {Φ^j(x)^{b_j}}. Coefficients are stored in bit-reversed order: the top
// half of the vector carries the odd part, recursively.
type LinePoly struct {
	Coeffs []m31.Element
}

// NewLinePoly wraps a coefficient vector of power-of-two length.
func NewLinePoly(coeffs []m31.Element) *LinePoly {
	if len(coeffs) == 0 || len(coeffs)&(len(coeffs)-1) != 0 {
		panic("coefficient length must be a power of two")
	}
	return &LinePoly{Coeffs: coeffs}
}

// LogSize returns the log2 of the coefficient count.
func (p *LinePoly) LogSize() uint32 {
	return uint32(bits.TrailingZeros(uint(len(p.Coeffs))))
}

// EvenOddParts splits p into its even and odd parts:
// p(x) = p_e(Φ(x)) + x·p_o(Φ(x)).
func (p *LinePoly) EvenOddParts() (*LinePoly, *LinePoly) {
	half := len(p.Coeffs) / 2
	if half == 0 {
		panic("splitting a constant polynomial")
	}
	return NewLinePoly(p.Coeffs[:half]), NewLinePoly(p.Coeffs[half:])
}

// EvalAtPoint evaluates the polynomial at x.
func (p *LinePoly) EvalAtPoint(x m31.Element) m31.Element {
	factors := make([]m31.Element, p.LogSize())
	for i := range factors {
		factors[i] = x
		x = circle.DoubleX(x)
	}
	return foldBase(p.Coeffs, factors)
}

// foldBase is fold over the base field: the top coefficient half is
// weighted by the first folding factor.
func foldBase(values []m31.Element, factors []m31.Element) m31.Element {
	if len(values) == 1 {
		return values[0]
	}
	half := len(values) / 2
	lhs := foldBase(values[:half], factors[1:])
	rhs := foldBase(values[half:], factors[1:])
	var r m31.Element
	r.Mul(&rhs, &factors[0])
	r.Add(&lhs, &r)
	return r
}
