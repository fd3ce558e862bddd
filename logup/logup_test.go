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

package logup_test

import (
	"testing"

	"github.com/consensys/circle-stark/channel"
	"github.com/consensys/circle-stark/circle"
	"github.com/consensys/circle-stark/column"
	"github.com/consensys/circle-stark/framework"
	"github.com/consensys/circle-stark/logup"
	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/poly"
	"github.com/consensys/circle-stark/qm31"
	"github.com/consensys/circle-stark/simd"
	"github.com/consensys/circle-stark/utils"
	"github.com/stretchr/testify/require"
)

func TestCombineConsistency(t *testing.T) {
	ch := channel.NewBlake2s([]byte("combine"))
	elements := logup.DrawLookupElements(ch, 3)

	var xs [3]m31.Element
	for i := range xs {
		xs[i].SetRandom()
	}
	var lifted [3]qm31.E4
	for i := range xs {
		lifted[i].FromBase(&xs[i])
	}
	scalar := elements.Combine(lifted[:])

	packedIn := make([]simd.PackedM31, 3)
	for i := range packedIn {
		packedIn[i] = simd.BroadcastM31(xs[i])
	}
	packed := elements.CombinePacked(packedIn)
	for lane := 0; lane < simd.NLanes; lane++ {
		got := packed.At(lane)
		require.True(t, got.Equal(&scalar), "lane %d", lane)
	}
}

// TestLogupCancellation pushes +1/x and -1/x per row: the claimed sum is
// zero, the running sum is zero on every row, and the boundary constraint
// is satisfied.
func TestLogupCancellation(t *testing.T) {
	const logSize = 5
	size := 1 << logSize
	domain := circle.NewCanonicCoset(logSize).CircleDomain()

	xVals := make([]m31.Element, size)
	for i := range xVals {
		xVals[i].SetRandom()
	}
	xCol := column.FromSlice(xVals)

	ch := channel.NewBlake2s([]byte("logup cancellation"))
	elements := logup.DrawLookupElements(ch, 1)

	gen := logup.NewLogupTraceGenerator(logSize)
	nVecRows := size / simd.NLanes

	var one qm31.E4
	one.SetOne()
	onePacked := simd.BroadcastE4(one)
	var negOne qm31.E4
	negOne.Neg(&one)
	negOnePacked := simd.BroadcastE4(negOne)

	cg := gen.NewCol()
	for vecRow := 0; vecRow < nVecRows; vecRow++ {
		q := elements.CombinePacked([]simd.PackedM31{xCol.PackedAt(vecRow)})
		cg.WriteFrac(vecRow, onePacked, q)
	}
	cg.FinalizeCol()

	cg = gen.NewCol()
	for vecRow := 0; vecRow < nVecRows; vecRow++ {
		q := elements.CombinePacked([]simd.PackedM31{xCol.PackedAt(vecRow)})
		cg.WriteFrac(vecRow, negOnePacked, q)
	}
	cg.FinalizeCol()

	interaction, claimedSum := gen.Finalize()
	require.True(t, claimedSum.IsZero())

	// The running sum is zero at every row, the last row included.
	last := interaction[len(interaction)-qm31.ExtensionDegree:]
	for row := 0; row < size; row++ {
		idx := utils.BitReverseIndex(utils.CosetIndexToCircleDomainIndex(row, logSize), logSize)
		var v qm31.E4
		v.FromCoords(
			last[0].Values.At(idx),
			last[1].Values.At(idx),
			last[2].Values.At(idx),
			last[3].Values.At(idx),
		)
		require.True(t, v.IsZero(), "row %d", row)
	}

	// The boundary constraint holds on every row.
	comp := &framework.FrameworkComponent{LogSize: logSize}
	comp.Evaluate = func(e framework.EvalAtRow) {
		isFirst := e.NextInteractionMask(2, []int{0})[0]
		lg := logup.NewLogupAtRow(1, claimedSum, isFirst)
		x := framework.NextTraceMask(e)
		lg.PushLookup(e, e.FromSecure(one), []framework.Value{x}, elements)
		lg.PushLookup(e, e.FromSecure(negOne), []framework.Value{x}, elements)
		lg.Finalize(e)
	}

	require.Equal(t, 2, comp.NConstraints())

	tracePolys := framework.TreeVec[[]*poly.CirclePoly]{
		{poly.NewCircleEvaluation(domain, xCol).Interpolate()},
		interpolateEvals(interaction),
		{logup.GenIsFirst(logSize).Interpolate()},
	}
	framework.AssertConstraints(tracePolys, circle.NewCanonicCoset(logSize), comp.Evaluate)
}

func interpolateEvals(evals []*poly.CircleEvaluation) []*poly.CirclePoly {
	res := make([]*poly.CirclePoly, len(evals))
	for i, e := range evals {
		res[i] = e.Interpolate()
	}
	return res
}
