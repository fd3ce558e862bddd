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

package framework

import (
	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/poly"
	"github.com/consensys/circle-stark/qm31"
	"github.com/consensys/circle-stark/simd"
	"github.com/consensys/circle-stark/utils"
)

// SimdDomainEvaluator evaluates constraints over one packed row of the
// blown-up evaluation domain. Mask values are packed base field vectors
// read straight from the committed trace columns; constraints accumulate
// into RowRes weighted by precomputed random coefficient powers. Division
// by the trace vanishing polynomial is deferred to the caller.
type SimdDomainEvaluator struct {
	// Trace[tree] holds the committed evaluations over the evaluation
	// domain, borrowed read-only.
	Trace             TreeVec[[]*poly.CircleEvaluation]
	VecRow            int
	RandomCoeffPowers []qm31.E4
	DomainLogSize     uint32
	EvalDomainLogSize uint32
	RowRes            simd.PackedE4

	colIndex        []int
	constraintIndex int
}

// NewSimdDomainEvaluator returns an evaluator for the given packed row.
func NewSimdDomainEvaluator(
	trace TreeVec[[]*poly.CircleEvaluation],
	vecRow int,
	randomCoeffPowers []qm31.E4,
	domainLogSize, evalDomainLogSize uint32,
) *SimdDomainEvaluator {
	return &SimdDomainEvaluator{
		Trace:             trace,
		VecRow:            vecRow,
		RandomCoeffPowers: randomCoeffPowers,
		DomainLogSize:     domainLogSize,
		EvalDomainLogSize: evalDomainLogSize,
		colIndex:          make([]int, len(trace)),
	}
}

func (e *SimdDomainEvaluator) NextInteractionMask(interaction int, offsets []int) []Value {
	col := e.Trace[interaction][e.colIndex[interaction]]
	e.colIndex[interaction]++

	res := make([]Value, len(offsets))
	for i, off := range offsets {
		if off == 0 {
			res[i] = col.Values.PackedAt(e.VecRow)
			continue
		}
		// An offset neighbor sits at a different bit-reversed index per
		// lane; gather it lane by lane.
		var v simd.PackedM31
		for lane := 0; lane < simd.NLanes; lane++ {
			row := utils.OffsetBitReversedCircleDomainIndex(
				(e.VecRow<<simd.LogNLanes)+lane,
				e.DomainLogSize,
				e.EvalDomainLogSize,
				off,
			)
			v[lane] = col.Values.At(row)
		}
		res[i] = v
	}
	return res
}

func (e *SimdDomainEvaluator) AddConstraint(constraint ExtValue) {
	coeff := simd.BroadcastE4(e.RandomCoeffPowers[e.constraintIndex])
	e.constraintIndex++
	v := constraint.(simd.PackedE4)
	var term simd.PackedE4
	term.Mul(&v, &coeff)
	e.RowRes.Add(&e.RowRes, &term)
}

func (e *SimdDomainEvaluator) CombineEF(values [4]Value) ExtValue {
	return simd.PackedE4{
		B0: simd.PackedE2{A0: values[0].(simd.PackedM31), A1: values[1].(simd.PackedM31)},
		B1: simd.PackedE2{A0: values[2].(simd.PackedM31), A1: values[3].(simd.PackedM31)},
	}
}

func (e *SimdDomainEvaluator) AddF(x, y Value) Value {
	var r simd.PackedM31
	xv, yv := x.(simd.PackedM31), y.(simd.PackedM31)
	r.Add(&xv, &yv)
	return r
}

func (e *SimdDomainEvaluator) SubF(x, y Value) Value {
	var r simd.PackedM31
	xv, yv := x.(simd.PackedM31), y.(simd.PackedM31)
	r.Sub(&xv, &yv)
	return r
}

func (e *SimdDomainEvaluator) MulF(x, y Value) Value {
	var r simd.PackedM31
	xv, yv := x.(simd.PackedM31), y.(simd.PackedM31)
	r.Mul(&xv, &yv)
	return r
}

func (e *SimdDomainEvaluator) NegF(x Value) Value {
	var r simd.PackedM31
	xv := x.(simd.PackedM31)
	r.Neg(&xv)
	return r
}

func (e *SimdDomainEvaluator) FromBase(v m31.Element) Value {
	return simd.BroadcastM31(v)
}

func (e *SimdDomainEvaluator) AddEF(x, y ExtValue) ExtValue {
	var r simd.PackedE4
	xv, yv := x.(simd.PackedE4), y.(simd.PackedE4)
	r.Add(&xv, &yv)
	return r
}

func (e *SimdDomainEvaluator) SubEF(x, y ExtValue) ExtValue {
	var r simd.PackedE4
	xv, yv := x.(simd.PackedE4), y.(simd.PackedE4)
	r.Sub(&xv, &yv)
	return r
}

func (e *SimdDomainEvaluator) MulEF(x, y ExtValue) ExtValue {
	var r simd.PackedE4
	xv, yv := x.(simd.PackedE4), y.(simd.PackedE4)
	r.Mul(&xv, &yv)
	return r
}

func (e *SimdDomainEvaluator) NegEF(x ExtValue) ExtValue {
	var r simd.PackedE4
	xv := x.(simd.PackedE4)
	r.Neg(&xv)
	return r
}

func (e *SimdDomainEvaluator) ZeroEF() ExtValue {
	return simd.PackedE4{}
}

func (e *SimdDomainEvaluator) FromF(x Value) ExtValue {
	return simd.PackedE4{B0: simd.PackedE2{A0: x.(simd.PackedM31)}}
}

func (e *SimdDomainEvaluator) FromSecure(v qm31.E4) ExtValue {
	return simd.BroadcastE4(v)
}

func (e *SimdDomainEvaluator) MulFBySecure(x Value, v qm31.E4) ExtValue {
	b := simd.BroadcastE4(v)
	xv := x.(simd.PackedM31)
	var r simd.PackedE4
	r.MulByM31(&b, &xv)
	return r
}
