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
	"sort"

	"github.com/consensys/circle-stark/circle"
	"github.com/consensys/circle-stark/column"
	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/poly"
	"github.com/consensys/circle-stark/qm31"
)

// PointEvaluationAccumulator Horner-folds constraint evaluations at a
// point with a fresh power of the random coefficient per constraint.
type PointEvaluationAccumulator struct {
	randomCoeff  qm31.E4
	accumulation qm31.E4
}

// NewPointEvaluationAccumulator returns an empty accumulator.
func NewPointEvaluationAccumulator(randomCoeff qm31.E4) *PointEvaluationAccumulator {
	return &PointEvaluationAccumulator{randomCoeff: randomCoeff}
}

// Accumulate folds one evaluation into the running combination.
func (a *PointEvaluationAccumulator) Accumulate(v qm31.E4) {
	a.accumulation.Mul(&a.accumulation, &a.randomCoeff)
	a.accumulation.Add(&a.accumulation, &v)
}

// Finalize returns the accumulated combination.
func (a *PointEvaluationAccumulator) Finalize() qm31.E4 {
	return a.accumulation
}

// DomainEvaluationAccumulator collects the packed constraint combinations
// of all components, one secure column per evaluation domain size. The
// random coefficient powers are handed out descending so the whole proof
// folds as a single Horner pass in constraint order.
type DomainEvaluationAccumulator struct {
	randomCoeffPowers []qm31.E4
	next              int
	maxLogSize        uint32
	subAccums         map[uint32]*column.Secure
}

// NewDomainEvaluationAccumulator returns an accumulator for the given
// total constraint count.
func NewDomainEvaluationAccumulator(randomCoeff qm31.E4, maxLogSize uint32, totalConstraints int) *DomainEvaluationAccumulator {
	powers := qm31.Powers(randomCoeff, totalConstraints)
	for i, j := 0, len(powers)-1; i < j; i, j = i+1, j-1 {
		powers[i], powers[j] = powers[j], powers[i]
	}
	return &DomainEvaluationAccumulator{
		randomCoeffPowers: powers,
		maxLogSize:        maxLogSize,
		subAccums:         make(map[uint32]*column.Secure),
	}
}

// ColumnAccumulator is a component's view of the accumulator: the secure
// column for its evaluation domain size and its slice of coefficient
// powers.
type ColumnAccumulator struct {
	Col               *column.Secure
	RandomCoeffPowers []qm31.E4
}

// Columns hands out the accumulator column for one component.
func (a *DomainEvaluationAccumulator) Columns(logSize uint32, nConstraints int) *ColumnAccumulator {
	if a.next+nConstraints > len(a.randomCoeffPowers) {
		panic("more constraints than declared to the accumulator")
	}
	powers := a.randomCoeffPowers[a.next : a.next+nConstraints]
	a.next += nConstraints

	col, ok := a.subAccums[logSize]
	if !ok {
		col = column.SecureZeros(1 << logSize)
		a.subAccums[logSize] = col
	}
	return &ColumnAccumulator{Col: col, RandomCoeffPowers: powers}
}

// Finalize interpolates every sub-accumulation and sums them into one
// secure polynomial of the maximum size.
func (a *DomainEvaluationAccumulator) Finalize() *poly.SecureCirclePoly {
	var res poly.SecureCirclePoly
	for i := range res {
		res[i] = poly.NewCirclePoly(make([]m31.Element, 1<<a.maxLogSize))
	}

	logSizes := make([]uint32, 0, len(a.subAccums))
	for logSize := range a.subAccums {
		logSizes = append(logSizes, logSize)
	}
	sort.Slice(logSizes, func(i, j int) bool { return logSizes[i] < logSizes[j] })

	for _, logSize := range logSizes {
		col := a.subAccums[logSize]
		domain := circle.NewCanonicCoset(logSize).CircleDomain()
		tw := poly.PrecomputeTwiddles(domain.HalfCoset)
		for i := range res {
			p := poly.NewCircleEvaluation(domain, col.Cols[i]).InterpolateWithTwiddles(tw).Extend(a.maxLogSize)
			for k := range p.Coeffs {
				res[i].Coeffs[k].Add(&res[i].Coeffs[k], &p.Coeffs[k])
			}
		}
	}
	return &res
}
