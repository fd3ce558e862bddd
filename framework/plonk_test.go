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

package framework_test

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
	"github.com/stretchr/testify/require"
)

// plonkCircuit is the arithmetic trace of a fibonacci circuit: gate row i
// computes c = op·(a+b) + (1-op)·a·b over wires (i, i+1, i+2).
type plonkCircuit struct {
	mult, aWire, bWire, cWire, op, aVal, bVal, cVal []m31.Element
}

func genFibonacciPlonkCircuit(logNRows uint32) *plonkCircuit {
	n := 1 << logNRows
	fib := make([]m31.Element, n+2)
	fib[0].SetOne()
	fib[1].SetOne()
	for i := 2; i < len(fib); i++ {
		fib[i].Add(&fib[i-1], &fib[i-2])
	}

	c := &plonkCircuit{
		mult:  make([]m31.Element, n),
		aWire: make([]m31.Element, n),
		bWire: make([]m31.Element, n),
		cWire: make([]m31.Element, n),
		op:    make([]m31.Element, n),
		aVal:  make([]m31.Element, n),
		bVal:  make([]m31.Element, n),
		cVal:  make([]m31.Element, n),
	}
	for i := 0; i < n; i++ {
		c.mult[i].SetUint32(2)
		c.aWire[i].SetUint32(uint32(i))
		c.bWire[i].SetUint32(uint32(i + 1))
		c.cWire[i].SetUint32(uint32(i + 2))
		c.op[i].SetOne()
		c.aVal[i] = fib[i]
		c.bVal[i] = fib[i+1]
		c.cVal[i] = fib[i+2]
	}
	c.mult[n-2].SetOne()
	c.mult[n-1].SetZero()
	return c
}

// plonkComponent is the framework component of the plonk gate plus its
// wire lookups.
type plonkComponent struct {
	framework.FrameworkComponent
	lookupElements *logup.LookupElements
	claimedSum     qm31.E4
}

func newPlonkComponent(logNRows uint32, elements *logup.LookupElements, claimedSum qm31.E4) *plonkComponent {
	c := &plonkComponent{lookupElements: elements, claimedSum: claimedSum}
	c.LogSize = logNRows
	c.Evaluate = func(e framework.EvalAtRow) {
		isFirst := e.NextInteractionMask(2, []int{0})[0]
		lg := logup.NewLogupAtRow(1, c.claimedSum, isFirst)

		aWire := e.NextInteractionMask(2, []int{0})[0]
		bWire := e.NextInteractionMask(2, []int{0})[0]
		cWire := e.NextInteractionMask(2, []int{0})[0]
		op := e.NextInteractionMask(2, []int{0})[0]

		mult := framework.NextTraceMask(e)
		aVal := framework.NextTraceMask(e)
		bVal := framework.NextTraceMask(e)
		cVal := framework.NextTraceMask(e)

		// c = op·(a+b) + (1-op)·a·b
		one := e.FromBase(m31.NewElement(1))
		gate := e.SubF(cVal, e.MulF(op, e.AddF(aVal, bVal)))
		gate = e.SubF(gate, e.MulF(e.MulF(e.SubF(one, op), aVal), bVal))
		e.AddConstraint(e.FromF(gate))

		var oneSecure qm31.E4
		oneSecure.SetOne()
		lg.PushLookup(e, e.FromSecure(oneSecure), []framework.Value{aWire, aVal}, c.lookupElements)
		lg.PushLookup(e, e.FromSecure(oneSecure), []framework.Value{bWire, bVal}, c.lookupElements)
		lg.PushLookup(e, e.FromF(e.NegF(mult)), []framework.Value{cWire, cVal}, c.lookupElements)
		lg.Finalize(e)
	}
	return c
}

// genPlonkInteractionTrace folds the three wire lookups into the
// interaction columns and returns the claimed sum.
func genPlonkInteractionTrace(
	logNRows uint32,
	circuit *plonkCircuit,
	elements *logup.LookupElements,
	trace []*poly.CircleEvaluation,
) ([]*poly.CircleEvaluation, qm31.E4) {
	gen := logup.NewLogupTraceGenerator(logNRows)
	nVecRows := 1 << (logNRows - simd.LogNLanes)

	aWire := column.FromSlice(circuit.aWire)
	bWire := column.FromSlice(circuit.bWire)
	cWire := column.FromSlice(circuit.cWire)
	mult := trace[0]
	aVal := trace[1]
	bVal := trace[2]
	cVal := trace[3]

	var oneSecure qm31.E4
	oneSecure.SetOne()
	onePacked := simd.BroadcastE4(oneSecure)

	cg := gen.NewCol()
	for vecRow := 0; vecRow < nVecRows; vecRow++ {
		q := elements.CombinePacked([]simd.PackedM31{aWire.PackedAt(vecRow), aVal.Values.PackedAt(vecRow)})
		cg.WriteFrac(vecRow, onePacked, q)
	}
	cg.FinalizeCol()

	cg = gen.NewCol()
	for vecRow := 0; vecRow < nVecRows; vecRow++ {
		q := elements.CombinePacked([]simd.PackedM31{bWire.PackedAt(vecRow), bVal.Values.PackedAt(vecRow)})
		cg.WriteFrac(vecRow, onePacked, q)
	}
	cg.FinalizeCol()

	cg = gen.NewCol()
	for vecRow := 0; vecRow < nVecRows; vecRow++ {
		var p simd.PackedM31
		m := mult.Values.PackedAt(vecRow)
		p.Neg(&m)
		q := elements.CombinePacked([]simd.PackedM31{cWire.PackedAt(vecRow), cVal.Values.PackedAt(vecRow)})
		cg.WriteFrac(vecRow, simd.PackedE4{B0: simd.PackedE2{A0: p}}, q)
	}
	cg.FinalizeCol()

	return gen.Finalize()
}

func TestFibonacciPlonk(t *testing.T) {
	const logNRows = 6
	circuit := genFibonacciPlonkCircuit(logNRows)
	domain := circle.NewCanonicCoset(logNRows).CircleDomain()

	// Trace tree: mult, a_val, b_val, c_val, committed in storage order.
	traceTree := []*poly.CircleEvaluation{
		poly.NewCircleEvaluation(domain, column.FromSlice(circuit.mult)),
		poly.NewCircleEvaluation(domain, column.FromSlice(circuit.aVal)),
		poly.NewCircleEvaluation(domain, column.FromSlice(circuit.bVal)),
		poly.NewCircleEvaluation(domain, column.FromSlice(circuit.cVal)),
	}

	// Lookup challenges from the transcript.
	ch := channel.NewBlake2s([]byte("plonk test"))
	elements := logup.DrawLookupElements(ch, 2)

	// Interaction tree.
	interactionTree, claimedSum := genPlonkInteractionTrace(logNRows, circuit, elements, traceTree)

	// Constants tree: is_first and the wiring.
	constantsTree := []*poly.CircleEvaluation{
		logup.GenIsFirst(logNRows),
		poly.NewCircleEvaluation(domain, column.FromSlice(circuit.aWire)),
		poly.NewCircleEvaluation(domain, column.FromSlice(circuit.bWire)),
		poly.NewCircleEvaluation(domain, column.FromSlice(circuit.cWire)),
		poly.NewCircleEvaluation(domain, column.FromSlice(circuit.op)),
	}

	comp := newPlonkComponent(logNRows, elements, claimedSum)

	// Shape inference.
	info := comp.Info()
	require.Equal(t, 4, info.NConstraints)
	require.Len(t, info.MaskOffsets, 3)
	require.Len(t, info.MaskOffsets[0], 4)
	require.Len(t, info.MaskOffsets[1], 3*qm31.ExtensionDegree)
	require.Len(t, info.MaskOffsets[2], 5)

	// Assert path: every row satisfies every constraint.
	tracePolys := framework.TreeVec[[]*poly.CirclePoly]{
		interpolateAll(traceTree),
		interpolateAll(interactionTree),
		interpolateAll(constantsTree),
	}
	framework.AssertConstraints(tracePolys, circle.NewCanonicCoset(logNRows), comp.Evaluate)

	// Domain path and point path agree at an out-of-domain point.
	alpha := ch.DrawFelt()
	evalDomain := circle.NewCanonicCoset(comp.MaxConstraintLogDegreeBound()).CircleDomain()
	trace := &framework.ComponentTrace{Evals: framework.TreeVec[[]*poly.CircleEvaluation]{
		evaluateAll(tracePolys[0], evalDomain),
		evaluateAll(tracePolys[1], evalDomain),
		evaluateAll(tracePolys[2], evalDomain),
	}}

	domAcc := framework.NewDomainEvaluationAccumulator(alpha, comp.MaxConstraintLogDegreeBound(), comp.NConstraints())
	comp.EvaluateConstraintQuotientsOnDomain(trace, domAcc)
	composition := domAcc.Finalize()

	z := circle.SecurePointFromT(ch.DrawFelt())
	mask := sampleMask(comp, tracePolys, z)
	ptAcc := framework.NewPointEvaluationAccumulator(alpha)
	comp.EvaluateConstraintQuotientsAtPoint(z, mask, ptAcc)

	got := composition.EvalAtPoint(z)
	want := ptAcc.Finalize()
	require.True(t, got.Equal(&want))
}

func interpolateAll(evals []*poly.CircleEvaluation) []*poly.CirclePoly {
	tw := poly.PrecomputeTwiddles(evals[0].Domain.HalfCoset)
	res := make([]*poly.CirclePoly, len(evals))
	for i, e := range evals {
		res[i] = e.InterpolateWithTwiddles(tw)
	}
	return res
}

func evaluateAll(polys []*poly.CirclePoly, domain circle.Domain) []*poly.CircleEvaluation {
	tw := poly.PrecomputeTwiddles(domain.HalfCoset)
	res := make([]*poly.CircleEvaluation, len(polys))
	for i, p := range polys {
		res[i] = p.EvaluateWithTwiddles(domain, tw)
	}
	return res
}
