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

// Package logup implements the logarithmic-derivative lookup accumulator:
// multiset lookups between columns enforced through telescoping rational
// sums over an interaction trace.
package logup

import (
	"github.com/consensys/circle-stark/channel"
	"github.com/consensys/circle-stark/framework"
	"github.com/consensys/circle-stark/qm31"
	"github.com/consensys/circle-stark/simd"
)

// LookupElements are the challenge elements combining a looked-up tuple
// into one secure field value: z - Σ alpha^i · tuple[i].
type LookupElements struct {
	Z           qm31.E4
	Alpha       qm31.E4
	AlphaPowers []qm31.E4
}

// DrawLookupElements draws lookup challenges for tuples of up to n
// elements from the channel.
func DrawLookupElements(ch channel.Channel, n int) *LookupElements {
	z := ch.DrawFelt()
	alpha := ch.DrawFelt()
	return &LookupElements{Z: z, Alpha: alpha, AlphaPowers: qm31.Powers(alpha, n)}
}

// Combine combines a tuple of secure field values.
func (l *LookupElements) Combine(values []qm31.E4) qm31.E4 {
	res := l.Z
	for i, v := range values {
		var t qm31.E4
		t.Mul(&l.AlphaPowers[i], &v)
		res.Sub(&res, &t)
	}
	return res
}

// CombinePacked combines a tuple of packed base field values.
func (l *LookupElements) CombinePacked(values []simd.PackedM31) simd.PackedE4 {
	res := simd.BroadcastE4(l.Z)
	for i, v := range values {
		b := simd.BroadcastE4(l.AlphaPowers[i])
		var t simd.PackedE4
		t.MulByM31(&b, &v)
		res.Sub(&res, &t)
	}
	return res
}

// CombineEval combines a tuple of row evaluator values.
func (l *LookupElements) CombineEval(e framework.EvalAtRow, values []framework.Value) framework.ExtValue {
	res := e.FromSecure(l.Z)
	for i, v := range values {
		res = e.SubEF(res, e.MulFBySecure(v, l.AlphaPowers[i]))
	}
	return res
}

type frac struct {
	p, q framework.ExtValue
}

// LogupAtRow tracks the lookup state of one row while a component's
// constraints are evaluated. Each pushed lookup consumes the next secure
// interaction column; Finalize ties the last column to the running
// claimed sum.
type LogupAtRow struct {
	Interaction int
	ClaimedSum  qm31.E4
	// IsFirst is the value of the constant column that is 1 on row 0.
	IsFirst framework.Value

	prevColCumsum framework.ExtValue
	pending       *frac
}

// NewLogupAtRow returns the lookup state for the given interaction tree.
func NewLogupAtRow(interaction int, claimedSum qm31.E4, isFirst framework.Value) *LogupAtRow {
	return &LogupAtRow{Interaction: interaction, ClaimedSum: claimedSum, IsFirst: isFirst}
}

// PushLookup records the contribution numerator / combine(values) and
// issues the constraint tying the previous interaction column to its
// fraction.
func (l *LogupAtRow) PushLookup(e framework.EvalAtRow, numerator framework.ExtValue, values []framework.Value, elements *LookupElements) {
	denom := elements.CombineEval(e, values)
	l.pushFrac(e, numerator, denom)
}

func (l *LogupAtRow) pushFrac(e framework.EvalAtRow, p, q framework.ExtValue) {
	if l.pending != nil {
		l.flushIntermediate(e)
	}
	l.pending = &frac{p: p, q: q}
}

// flushIntermediate constrains the pending fraction against the next
// interaction column: (cur - prev)·q = p, columns accumulating within the
// row.
func (l *LogupAtRow) flushIntermediate(e framework.EvalAtRow) {
	cur := framework.NextExtensionInteractionMask(e, l.Interaction, []int{0})[0]
	diff := e.SubEF(cur, l.prevColCumsumOrZero(e))
	e.AddConstraint(e.SubEF(e.MulEF(diff, l.pending.q), l.pending.p))
	l.prevColCumsum = cur
	l.pending = nil
}

// Finalize constrains the pending fraction against the last interaction
// column, which carries the running sum across rows, anchored to the
// claimed sum through the is-first column.
func (l *LogupAtRow) Finalize(e framework.EvalAtRow) {
	if l.pending == nil {
		panic("finalize called with no pending lookup")
	}
	masks := framework.NextExtensionInteractionMask(e, l.Interaction, []int{0, -1})
	cur, prevRow := masks[0], masks[1]

	// On row 0 the previous row wraps to the last one, which holds the
	// claimed sum; the is-first column adds it back.
	fixed := e.SubEF(cur, prevRow)
	fixed = e.AddEF(fixed, e.MulFBySecure(l.IsFirst, l.ClaimedSum))
	fixed = e.SubEF(fixed, l.prevColCumsumOrZero(e))

	e.AddConstraint(e.SubEF(e.MulEF(fixed, l.pending.q), l.pending.p))
	l.pending = nil
}

func (l *LogupAtRow) prevColCumsumOrZero(e framework.EvalAtRow) framework.ExtValue {
	if l.prevColCumsum == nil {
		return e.ZeroEF()
	}
	return l.prevColCumsum
}
