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

package quotient

import (
	"testing"

	"github.com/consensys/circle-stark/circle"
	"github.com/consensys/circle-stark/column"
	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/poly"
	"github.com/consensys/circle-stark/qm31"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var elementComparer = cmp.Comparer(func(a, b m31.Element) bool {
	return a.Equal(&b)
})

// twoColumnSetup builds two columns over the blown-up domain of a canonic
// trace of the given log size, with col0 = i and col1 = 2i over the small
// domain, sampled at an out-of-domain point.
func twoColumnSetup(t *testing.T, logSize uint32) (circle.Domain, []*poly.CircleEvaluation, []ColumnSampleBatch) {
	t.Helper()
	smallDomain := circle.NewCanonicCoset(logSize).CircleDomain()
	domain := circle.NewCanonicCoset(logSize + LogBlowupFactor).CircleDomain()

	e0 := make([]m31.Element, smallDomain.Size())
	e1 := make([]m31.Element, smallDomain.Size())
	for i := range e0 {
		e0[i].SetUint32(uint32(i))
		e1[i].SetUint32(uint32(2 * i))
	}
	p0 := poly.NewCircleEvaluation(smallDomain, column.FromSlice(e0)).Interpolate()
	p1 := poly.NewCircleEvaluation(smallDomain, column.FromSlice(e1)).Interpolate()

	columns := []*poly.CircleEvaluation{p0.Evaluate(domain), p1.Evaluate(domain)}

	z := circle.SecurePointFromT(qm31.NewE4(1, 2, 3, 4))
	samples := []ColumnSampleBatch{{
		Point: z,
		ColumnsAndValues: []ColumnSample{
			{ColumnIndex: 0, Value: p0.EvalAtPoint(z)},
			{ColumnIndex: 1, Value: p1.EvalAtPoint(z)},
		},
	}}
	return domain, columns, samples
}

func TestBackendAgreement(t *testing.T) {
	const logSize = 8
	domain, columns, samples := twoColumnSetup(t, logSize)
	randomCoeff := qm31.NewE4(1, 2, 3, 4)

	scalar := AccumulateScalar(domain, columns, randomCoeff, samples)
	packed := Accumulate(domain, columns, randomCoeff, samples)

	require.Equal(t, domain.Size(), scalar.Values.Len())
	require.Equal(t, domain.Size(), packed.Values.Len())
	if diff := cmp.Diff(scalar.Values.ToSlice(), packed.Values.ToSlice(), elementComparer); diff != "" {
		t.Fatalf("backend mismatch (-scalar +packed):\n%s", diff)
	}
}

func TestEmptySampleBatches(t *testing.T) {
	const logSize = 7
	domain, columns, _ := twoColumnSetup(t, logSize)
	randomCoeff := qm31.NewE4(5, 6, 7, 8)

	for _, res := range []*poly.SecureEvaluation{
		AccumulateScalar(domain, columns, randomCoeff, nil),
		Accumulate(domain, columns, randomCoeff, nil),
	} {
		for i := 0; i < res.Values.Len(); i++ {
			v := res.Values.At(i)
			require.True(t, v.IsZero(), "row %d", i)
		}
	}
}

func TestQuotientLowDegree(t *testing.T) {
	// With correct claimed values the accumulated quotient is a polynomial
	// of degree < domain.size / blowup: the coefficient tail is zero.
	const logSize = 7
	domain, columns, samples := twoColumnSetup(t, logSize)
	randomCoeff := qm31.NewE4(9, 8, 7, 6)

	res := Accumulate(domain, columns, randomCoeff, samples)
	for _, coord := range res.CoordinateEvals() {
		p := coord.Interpolate()
		for i := domain.Size() >> LogBlowupFactor; i < len(p.Coeffs); i++ {
			require.True(t, p.Coeffs[i].IsZero(), "coefficient %d", i)
		}
	}
}

func TestWrongValueBreaksLowDegree(t *testing.T) {
	const logSize = 7
	domain, columns, samples := twoColumnSetup(t, logSize)
	randomCoeff := qm31.NewE4(9, 8, 7, 6)

	var one qm31.E4
	one.SetOne()
	samples[0].ColumnsAndValues[0].Value.Add(&samples[0].ColumnsAndValues[0].Value, &one)

	res := AccumulateScalar(domain, columns, randomCoeff, samples)
	tailIsZero := true
	for _, coord := range res.CoordinateEvals() {
		p := coord.Interpolate()
		for i := domain.Size() >> LogBlowupFactor; i < len(p.Coeffs); i++ {
			if !p.Coeffs[i].IsZero() {
				tailIsZero = false
			}
		}
	}
	require.False(t, tailIsZero)
}
