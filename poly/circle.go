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
	"github.com/consensys/circle-stark/column"
	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/qm31"
	"github.com/consensys/circle-stark/utils"
)

// CircleEvaluation is a column of base field values over a circle domain,
// stored in bit-reversed order: Values[bitrev(i)] = f(domain.At(i)). All
// evaluations in the prover carry this order. NewCircleEvaluation wraps
// values as given and does not reorder or check them; NewCanonicalOrdered
// and the FFTs produce the bit-reversed layout themselves.
type CircleEvaluation struct {
	Domain circle.Domain
	Values *column.Base
}

// NewCircleEvaluation wraps bit-reversed values over a domain.
func NewCircleEvaluation(domain circle.Domain, values *column.Base) *CircleEvaluation {
	if values.Len() != domain.Size() {
		panic("evaluation length does not match domain size")
	}
	return &CircleEvaluation{Domain: domain, Values: values}
}

// NewCanonicalOrdered interprets values as the evaluation over the canonic
// coset in its natural order and returns the bit-reversed evaluation over
// the matching circle domain.
func NewCanonicalOrdered(coset circle.CanonicCoset, values []m31.Element) *CircleEvaluation {
	domain := coset.CircleDomain()
	if len(values) != domain.Size() {
		panic("evaluation length does not match domain size")
	}
	nv := make([]m31.Element, 0, len(values))
	half := len(values) / 2
	for i := 0; i < half; i++ {
		nv = append(nv, values[i<<1])
	}
	for i := 0; i < half; i++ {
		nv = append(nv, values[len(values)-1-(i<<1)])
	}
	utils.BitReverse(nv)
	return NewCircleEvaluation(domain, column.FromSlice(nv))
}

// NaturalValues returns a copy of the values permuted into the natural
// order of the domain.
func (e *CircleEvaluation) NaturalValues() []m31.Element {
	v := e.Values.ToSlice()
	utils.BitReverse(v)
	return v
}

// Interpolate computes the coefficients of the interpolating polynomial,
// precomputing the twiddles for the evaluation domain.
func (e *CircleEvaluation) Interpolate() *CirclePoly {
	return e.InterpolateWithTwiddles(PrecomputeTwiddles(e.Domain.HalfCoset))
}

// InterpolateWithTwiddles computes the coefficients of the interpolating
// polynomial with a shared twiddle tree.
func (e *CircleEvaluation) InterpolateWithTwiddles(tw *TwiddleTree) *CirclePoly {
	values := e.Values.ToSlice()
	interpolateValues(values, e.Domain, tw)
	return &CirclePoly{Coeffs: values}
}

// CirclePoly is a polynomial in the circle FFT basis
// {y^b0 · x^b1 · Φ(x)^b2 · Φ²(x)^b3 · ...}, with coefficient i attached to
// the basis element selected by the bits of i.
type CirclePoly struct {
	Coeffs []m31.Element
}

// NewCirclePoly wraps a coefficient vector of power-of-two length.
func NewCirclePoly(coeffs []m31.Element) *CirclePoly {
	if len(coeffs) == 0 || len(coeffs)&(len(coeffs)-1) != 0 {
		panic("coefficient length must be a power of two")
	}
	return &CirclePoly{Coeffs: coeffs}
}

// LogSize returns the log2 of the coefficient count.
func (p *CirclePoly) LogSize() uint32 {
	return uint32(bits.TrailingZeros(uint(len(p.Coeffs))))
}

// Extend zero-pads the coefficients to the natural size of a domain of the
// given log size.
func (p *CirclePoly) Extend(logSize uint32) *CirclePoly {
	if logSize < p.LogSize() {
		panic("extending to a smaller size")
	}
	coeffs := make([]m31.Element, 1<<logSize)
	copy(coeffs, p.Coeffs)
	return &CirclePoly{Coeffs: coeffs}
}

// Evaluate evaluates the polynomial over the domain, precomputing the
// domain twiddles, and returns the bit-reversed evaluation.
func (p *CirclePoly) Evaluate(domain circle.Domain) *CircleEvaluation {
	return p.EvaluateWithTwiddles(domain, PrecomputeTwiddles(domain.HalfCoset))
}

// EvaluateWithTwiddles evaluates the polynomial over the domain with a
// shared twiddle tree.
func (p *CirclePoly) EvaluateWithTwiddles(domain circle.Domain, tw *TwiddleTree) *CircleEvaluation {
	if len(p.Coeffs) > domain.Size() {
		panic("domain is smaller than the polynomial")
	}
	values := make([]m31.Element, domain.Size())
	copy(values, p.Coeffs)
	evaluateValues(values, domain, tw)
	return NewCircleEvaluation(domain, column.FromSlice(values))
}

// EvalAtPoint evaluates the polynomial at a secure field point.
func (p *CirclePoly) EvalAtPoint(at circle.SecurePoint) qm31.E4 {
	k := p.LogSize()
	if k == 0 {
		var r qm31.E4
		r.FromBase(&p.Coeffs[0])
		return r
	}
	mappings := make([]qm31.E4, 0, k)
	mappings = append(mappings, at.Y)
	if k > 1 {
		mappings = append(mappings, at.X)
		x := at.X
		for i := uint32(2); i < k; i++ {
			x = circle.DoubleXSecure(x)
			mappings = append(mappings, x)
		}
	}
	// fold splits on the top coefficient bit first.
	for i, j := 0, len(mappings)-1; i < j; i, j = i+1, j-1 {
		mappings[i], mappings[j] = mappings[j], mappings[i]
	}
	return fold(p.Coeffs, mappings)
}

// SecureEvaluation is a secure field column over a circle domain in
// bit-reversed order, stored as four base coordinate columns.
type SecureEvaluation struct {
	Domain circle.Domain
	Values *column.Secure
}

// CoordinateEvals splits the secure evaluation into its four base field
// coordinate evaluations.
func (e *SecureEvaluation) CoordinateEvals() [qm31.ExtensionDegree]*CircleEvaluation {
	var res [qm31.ExtensionDegree]*CircleEvaluation
	for i := range res {
		res[i] = NewCircleEvaluation(e.Domain, e.Values.Cols[i])
	}
	return res
}

// SecureCirclePoly is a secure field polynomial stored as four base field
// coordinate polynomials.
type SecureCirclePoly [qm31.ExtensionDegree]*CirclePoly

// EvalAtPoint evaluates the polynomial at a secure field point by
// combining the coordinate evaluations in the (1, i, u, iu) basis.
func (p *SecureCirclePoly) EvalAtPoint(at circle.SecurePoint) qm31.E4 {
	var coords [qm31.ExtensionDegree]qm31.E4
	for i, c := range p {
		coords[i] = c.EvalAtPoint(at)
	}
	return qm31.CombineCoordValues(coords)
}
