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
	"github.com/consensys/circle-stark/qm31"
)

// PointEvaluator evaluates constraints at an out-of-domain point: mask
// values are secure field elements pulled from a precomputed mask tree in
// declaration order, and every constraint is divided by the trace
// vanishing polynomial before Horner accumulation.
type PointEvaluator struct {
	// Mask[tree][column][offset] holds the sampled mask values.
	Mask         TreeVec[[][]qm31.E4]
	Accumulator  *PointEvaluationAccumulator
	DenomInverse qm31.E4

	colIndex []int
}

// NewPointEvaluator returns an evaluator over the given mask values.
func NewPointEvaluator(mask TreeVec[[][]qm31.E4], accumulator *PointEvaluationAccumulator, denomInverse qm31.E4) *PointEvaluator {
	return &PointEvaluator{
		Mask:         mask,
		Accumulator:  accumulator,
		DenomInverse: denomInverse,
		colIndex:     make([]int, len(mask)),
	}
}

func (e *PointEvaluator) NextInteractionMask(interaction int, offsets []int) []Value {
	vals := e.Mask[interaction][e.colIndex[interaction]]
	e.colIndex[interaction]++
	if len(vals) != len(offsets) {
		panic("mask shape does not match the declared offsets")
	}
	res := make([]Value, len(vals))
	for i, v := range vals {
		res[i] = v
	}
	return res
}

func (e *PointEvaluator) AddConstraint(constraint ExtValue) {
	v := constraint.(qm31.E4)
	v.Mul(&v, &e.DenomInverse)
	e.Accumulator.Accumulate(v)
}

func (e *PointEvaluator) CombineEF(values [4]Value) ExtValue {
	var coords [qm31.ExtensionDegree]qm31.E4
	for k := range coords {
		coords[k] = values[k].(qm31.E4)
	}
	return qm31.CombineCoordValues(coords)
}

func (e *PointEvaluator) AddF(x, y Value) Value {
	var r qm31.E4
	xv, yv := x.(qm31.E4), y.(qm31.E4)
	r.Add(&xv, &yv)
	return r
}

func (e *PointEvaluator) SubF(x, y Value) Value {
	var r qm31.E4
	xv, yv := x.(qm31.E4), y.(qm31.E4)
	r.Sub(&xv, &yv)
	return r
}

func (e *PointEvaluator) MulF(x, y Value) Value {
	var r qm31.E4
	xv, yv := x.(qm31.E4), y.(qm31.E4)
	r.Mul(&xv, &yv)
	return r
}

func (e *PointEvaluator) NegF(x Value) Value {
	var r qm31.E4
	xv := x.(qm31.E4)
	r.Neg(&xv)
	return r
}

func (e *PointEvaluator) FromBase(v m31.Element) Value {
	var r qm31.E4
	r.FromBase(&v)
	return r
}

func (e *PointEvaluator) AddEF(x, y ExtValue) ExtValue { return e.AddF(x, y) }
func (e *PointEvaluator) SubEF(x, y ExtValue) ExtValue { return e.SubF(x, y) }
func (e *PointEvaluator) MulEF(x, y ExtValue) ExtValue { return e.MulF(x, y) }
func (e *PointEvaluator) NegEF(x ExtValue) ExtValue    { return e.NegF(x) }

func (e *PointEvaluator) ZeroEF() ExtValue {
	var r qm31.E4
	return r
}

func (e *PointEvaluator) FromF(x Value) ExtValue { return x }

func (e *PointEvaluator) FromSecure(v qm31.E4) ExtValue { return v }

func (e *PointEvaluator) MulFBySecure(x Value, v qm31.E4) ExtValue {
	var r qm31.E4
	xv := x.(qm31.E4)
	r.Mul(&xv, &v)
	return r
}
