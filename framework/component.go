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
	"github.com/consensys/circle-stark/circle"
	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/poly"
	"github.com/consensys/circle-stark/qm31"
	"github.com/consensys/circle-stark/simd"
	"github.com/consensys/circle-stark/utils"
)

// Component is the boundary between a constraint system and the outer
// prover.
type Component interface {
	NConstraints() int
	MaxConstraintLogDegreeBound() uint32
	TraceLogDegreeBounds() TreeVec[[]uint32]
	MaskPoints(point circle.SecurePoint) TreeVec[[][]circle.SecurePoint]
	EvaluateConstraintQuotientsAtPoint(point circle.SecurePoint, mask TreeVec[[][]qm31.E4], accumulator *PointEvaluationAccumulator)
	EvaluateConstraintQuotientsOnDomain(trace *ComponentTrace, accumulator *DomainEvaluationAccumulator)
}

// ComponentTrace is a component's view of the committed trace: per
// interaction tree, the column evaluations over the blown-up evaluation
// domain, borrowed read-only.
type ComponentTrace struct {
	Evals TreeVec[[]*poly.CircleEvaluation]
}

// FrameworkComponent derives the whole Component contract from a single
// Evaluate function, by driving it through the four row evaluators.
type FrameworkComponent struct {
	LogSize  uint32
	Evaluate func(e EvalAtRow)
}

// Info runs the evaluate function through an InfoEvaluator.
func (c *FrameworkComponent) Info() *InfoEvaluator {
	info := NewInfoEvaluator()
	c.Evaluate(info)
	return info
}

func (c *FrameworkComponent) NConstraints() int {
	return c.Info().NConstraints
}

func (c *FrameworkComponent) MaxConstraintLogDegreeBound() uint32 {
	return c.LogSize + 1
}

func (c *FrameworkComponent) TraceLogDegreeBounds() TreeVec[[]uint32] {
	info := c.Info()
	res := make(TreeVec[[]uint32], len(info.MaskOffsets))
	for t, tree := range info.MaskOffsets {
		res[t] = make([]uint32, len(tree))
		for col := range tree {
			res[t][col] = c.LogSize
		}
	}
	return res
}

func (c *FrameworkComponent) MaskPoints(point circle.SecurePoint) TreeVec[[][]circle.SecurePoint] {
	info := c.Info()
	step := circle.NewCanonicCoset(c.LogSize).StepSize()
	res := make(TreeVec[[][]circle.SecurePoint], len(info.MaskOffsets))
	for t, tree := range info.MaskOffsets {
		res[t] = make([][]circle.SecurePoint, len(tree))
		for col, offsets := range tree {
			pts := make([]circle.SecurePoint, len(offsets))
			for i, off := range offsets {
				var p circle.SecurePoint
				p.AddBase(&point, step.MulSigned(off).ToPoint())
				pts[i] = p
			}
			res[t][col] = pts
		}
	}
	return res
}

func (c *FrameworkComponent) EvaluateConstraintQuotientsAtPoint(
	point circle.SecurePoint,
	mask TreeVec[[][]qm31.E4],
	accumulator *PointEvaluationAccumulator,
) {
	traceCoset := circle.NewCanonicCoset(c.LogSize).Coset
	denom := circle.CosetVanishingSecure(traceCoset, point)
	var denomInverse qm31.E4
	denomInverse.Inverse(&denom)
	c.Evaluate(NewPointEvaluator(mask, accumulator, denomInverse))
}

func (c *FrameworkComponent) EvaluateConstraintQuotientsOnDomain(
	trace *ComponentTrace,
	accumulator *DomainEvaluationAccumulator,
) {
	evalLogSize := c.MaxConstraintLogDegreeBound()
	evalDomain := circle.NewCanonicCoset(evalLogSize).CircleDomain()
	if evalLogSize < simd.LogNLanes {
		panic("evaluation domain too small for packed evaluation")
	}
	accum := accumulator.Columns(evalLogSize, c.NConstraints())

	// Trace-domain vanishing denominators over the evaluation domain,
	// bit-reversed and inverted in one batch.
	traceCoset := circle.NewCanonicCoset(c.LogSize).Coset
	denoms := make([]m31.Element, evalDomain.Size())
	for i := range denoms {
		denoms[i] = circle.CosetVanishing(traceCoset, evalDomain.At(i))
	}
	utils.BitReverse(denoms)
	denomInvs := m31.BatchInvert(denoms)

	for vecRow := 0; vecRow < 1<<(evalLogSize-simd.LogNLanes); vecRow++ {
		eval := NewSimdDomainEvaluator(trace.Evals, vecRow, accum.RandomCoeffPowers, c.LogSize, evalLogSize)
		c.Evaluate(eval)

		var packedInv simd.PackedM31
		copy(packedInv[:], denomInvs[vecRow*simd.NLanes:(vecRow+1)*simd.NLanes])
		var rowRes simd.PackedE4
		rowRes.MulByM31(&eval.RowRes, &packedInv)

		cur := accum.Col.PackedAt(vecRow)
		rowRes.Add(&rowRes, &cur)
		accum.Col.SetPacked(vecRow, rowRes)
	}
}
