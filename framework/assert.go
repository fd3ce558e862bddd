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
	"fmt"

	"github.com/consensys/circle-stark/circle"
	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/poly"
	"github.com/consensys/circle-stark/qm31"
	"github.com/consensys/circle-stark/utils"
)

// AssertEvaluator checks constraints row by row against an interpolated
// trace: every added constraint must evaluate to zero. Test mode only; it
// catches constraint bugs before any FFT work.
type AssertEvaluator struct {
	// Trace[tree][column] holds evaluations over the trace domain in its
	// natural circle-domain order.
	Trace   TreeVec[[][]m31.Element]
	Row     int
	LogSize uint32

	colIndex []int
}

// NewAssertEvaluator returns an evaluator for one trace row.
func NewAssertEvaluator(trace TreeVec[[][]m31.Element], row int, logSize uint32) *AssertEvaluator {
	return &AssertEvaluator{
		Trace:    trace,
		Row:      row,
		LogSize:  logSize,
		colIndex: make([]int, len(trace)),
	}
}

func (e *AssertEvaluator) NextInteractionMask(interaction int, offsets []int) []Value {
	col := e.Trace[interaction][e.colIndex[interaction]]
	e.colIndex[interaction]++

	size := 1 << e.LogSize
	res := make([]Value, len(offsets))
	for i, off := range offsets {
		row := ((e.Row+off)%size + size) % size
		res[i] = col[utils.CosetIndexToCircleDomainIndex(row, e.LogSize)]
	}
	return res
}

func (e *AssertEvaluator) AddConstraint(constraint ExtValue) {
	v := constraint.(qm31.E4)
	if !v.IsZero() {
		panic(fmt.Sprintf("constraint violated at row %d", e.Row))
	}
}

func (e *AssertEvaluator) CombineEF(values [4]Value) ExtValue {
	var r qm31.E4
	r.FromCoords(values[0].(m31.Element), values[1].(m31.Element), values[2].(m31.Element), values[3].(m31.Element))
	return r
}

func (e *AssertEvaluator) AddF(x, y Value) Value {
	var r m31.Element
	xv, yv := x.(m31.Element), y.(m31.Element)
	r.Add(&xv, &yv)
	return r
}

func (e *AssertEvaluator) SubF(x, y Value) Value {
	var r m31.Element
	xv, yv := x.(m31.Element), y.(m31.Element)
	r.Sub(&xv, &yv)
	return r
}

func (e *AssertEvaluator) MulF(x, y Value) Value {
	var r m31.Element
	xv, yv := x.(m31.Element), y.(m31.Element)
	r.Mul(&xv, &yv)
	return r
}

func (e *AssertEvaluator) NegF(x Value) Value {
	var r m31.Element
	xv := x.(m31.Element)
	r.Neg(&xv)
	return r
}

func (e *AssertEvaluator) FromBase(v m31.Element) Value { return v }

func (e *AssertEvaluator) AddEF(x, y ExtValue) ExtValue {
	var r qm31.E4
	xv, yv := x.(qm31.E4), y.(qm31.E4)
	r.Add(&xv, &yv)
	return r
}

func (e *AssertEvaluator) SubEF(x, y ExtValue) ExtValue {
	var r qm31.E4
	xv, yv := x.(qm31.E4), y.(qm31.E4)
	r.Sub(&xv, &yv)
	return r
}

func (e *AssertEvaluator) MulEF(x, y ExtValue) ExtValue {
	var r qm31.E4
	xv, yv := x.(qm31.E4), y.(qm31.E4)
	r.Mul(&xv, &yv)
	return r
}

func (e *AssertEvaluator) NegEF(x ExtValue) ExtValue {
	var r qm31.E4
	xv := x.(qm31.E4)
	r.Neg(&xv)
	return r
}

func (e *AssertEvaluator) ZeroEF() ExtValue {
	var r qm31.E4
	return r
}

func (e *AssertEvaluator) FromF(x Value) ExtValue {
	var r qm31.E4
	xv := x.(m31.Element)
	r.FromBase(&xv)
	return r
}

func (e *AssertEvaluator) FromSecure(v qm31.E4) ExtValue { return v }

func (e *AssertEvaluator) MulFBySecure(x Value, v qm31.E4) ExtValue {
	var r qm31.E4
	xv := x.(m31.Element)
	r.MulByBase(&v, &xv)
	return r
}

// AssertConstraints evaluates the trace polynomials back onto the trace
// domain and runs the component's constraints on every row, panicking on
// the first violated constraint.
func AssertConstraints(
	tracePolys TreeVec[[]*poly.CirclePoly],
	traceCoset circle.CanonicCoset,
	evaluate func(e EvalAtRow),
) {
	domain := traceCoset.CircleDomain()
	trace := make(TreeVec[[][]m31.Element], len(tracePolys))
	for t, tree := range tracePolys {
		trace[t] = make([][]m31.Element, len(tree))
		for c, p := range tree {
			trace[t][c] = p.Evaluate(domain).NaturalValues()
		}
	}

	for row := 0; row < traceCoset.Size(); row++ {
		evaluate(NewAssertEvaluator(trace, row, traceCoset.LogSize()))
	}
}
