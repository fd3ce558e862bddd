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

// Package fri implements the degree-respecting projection, the folding
// primitive of FRI over a line domain.
package fri

import (
	"math/bits"

	"github.com/consensys/circle-stark/circle"
	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/poly"
)

// ApplyDRP performs a degree-respecting projection on bit-reversed
// evaluations over the line domain of matching size: each adjacent pair
// (f(x), f(-x)) folds through the inverse butterfly to
// (f(x) + f(-x)) + α·(f(x) - f(-x))·x⁻¹ = 2·(f_e + α·f_o), where
// 2·f_e = f(x) + f(-x) and 2·f_o = (f(x) - f(-x))·x⁻¹. The result is the
// bit-reversed evaluation of 2·(f_e + α·f_o) over the doubled domain, of
// half the length.
// len(evals) must be a power of two ≥ 2.
func ApplyDRP(evals []m31.Element, alpha m31.Element) []m31.Element {
	n := len(evals)
	if n < 2 || n&(n-1) != 0 {
		panic("evaluation length must be a power of two >= 2")
	}

	domain := poly.NewLineDomain(circle.HalfOdds(uint32(bits.TrailingZeros(uint(n)))))
	xs := BitReversedDomainElements(domain)
	xInvs := m31.BatchInvert(xs)

	res := make([]m31.Element, n/2)
	for i := range res {
		fe, fo := evals[2*i], evals[2*i+1]
		poly.IButterfly(&fe, &fo, &xInvs[i])
		var t m31.Element
		t.Mul(&alpha, &fo)
		res[i].Add(&fe, &t)
	}
	return res
}

// BitReversedDomainElements returns the first half of the domain's
// x-coordinates in bit-reversed order. The elements are produced by
// iteratively doubling the step and extending prefixes, avoiding a
// natural-order pass followed by an explicit bit reversal.
func BitReversedDomainElements(domain poly.LineDomain) []m31.Element {
	n := domain.Size() / 2
	logN := bits.TrailingZeros(uint(n))

	mappings := make([]circle.Point, 0, logN)
	g := domain.Coset.Step
	for i := 0; i < logN; i++ {
		mappings = append(mappings, g)
		g.Double(&g)
	}

	elements := make([]circle.Point, 1, n)
	elements[0] = domain.Coset.Initial
	for seg := 0; len(mappings) > 0; seg++ {
		m := mappings[len(mappings)-1]
		mappings = mappings[:len(mappings)-1]
		for i := 0; i < 1<<seg; i++ {
			var e circle.Point
			e.Add(&m, &elements[i])
			elements = append(elements, e)
		}
	}

	xs := make([]m31.Element, n)
	for i := range elements {
		xs[i] = elements[i].X
	}
	return xs
}
