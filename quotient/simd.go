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
	"time"

	"github.com/consensys/circle-stark/circle"
	"github.com/consensys/circle-stark/column"
	"github.com/consensys/circle-stark/logger"
	"github.com/consensys/circle-stark/poly"
	"github.com/consensys/circle-stark/qm31"
	"github.com/consensys/circle-stark/simd"
	"github.com/consensys/circle-stark/utils"
	"golang.org/x/sync/errgroup"
)

// Accumulate computes the DEEP quotient combination with the packed row
// kernel. The accumulation runs on a subdomain smaller by the blowup
// factor; the result is interpolated and re-evaluated onto each shifted
// subdomain to reconstruct the full bit-reversed output. When every claimed
// value is the true evaluation of its column at the batch point, the output
// is bit-identical to AccumulateScalar; otherwise the output is the
// low-degree extension of the subdomain values and differs from it.
func Accumulate(
	domain circle.Domain,
	columns []*poly.CircleEvaluation,
	randomCoeff qm31.E4,
	sampleBatches []ColumnSampleBatch,
) *poly.SecureEvaluation {
	subdomain, subdomainShifts := domain.Split(LogBlowupFactor)
	if subdomain.LogSize() < simd.LogNLanes+2 {
		panic("subdomain too small for the packed row kernel")
	}

	// The output is traversed in bit-reversed order, so the shift order
	// must be bit-reversed too: the shift bits are the lowest bits of the
	// natural index, hence the highest of the bit-reversed one.
	utils.BitReverse(subdomainShifts)

	start := time.Now()
	values := column.SecureZeros(subdomain.Size())
	constants := quotientConstants(sampleBatches, randomCoeff, subdomain)

	for quadRow := 0; quadRow < 1<<(subdomain.LogSize()-simd.LogNLanes-2); quadRow++ {
		// y values of NLanes domain points in jumps of 4.
		var spacedYs simd.PackedM31
		for i := 0; i < simd.NLanes; i++ {
			idx := (quadRow << (simd.LogNLanes + 2)) + (i << 2)
			spacedYs[i] = subdomain.At(utils.BitReverseIndex(idx, subdomain.LogSize())).Y
		}

		rowAccumulator := AccumulateRowQuotients(sampleBatches, columns, constants, quadRow, spacedYs)
		for i := 0; i < 4; i++ {
			values.SetPacked((quadRow<<2)+i, rowAccumulator[i])
		}
	}
	logger.Logger().Debug().
		Uint32("logSize", subdomain.LogSize()).
		Dur("took", time.Since(start)).
		Msg("quotient accumulation")

	start = time.Now()
	extended := extendToFullDomain(values, subdomain, subdomainShifts, domain)
	logger.Logger().Debug().
		Uint32("logSize", domain.LogSize()).
		Dur("took", time.Since(start)).
		Msg("quotient extension")

	return &poly.SecureEvaluation{Domain: domain, Values: extended}
}

// extendToFullDomain interpolates the four coordinate columns of the
// subdomain accumulation and evaluates them onto every shifted subdomain,
// writing each shift as one contiguous block of the bit-reversed output.
func extendToFullDomain(
	values *column.Secure,
	subdomain circle.Domain,
	subdomainShifts []circle.PointIndex,
	domain circle.Domain,
) *column.Secure {
	tw := poly.PrecomputeTwiddles(subdomain.HalfCoset)
	var subPolys [qm31.ExtensionDegree]*poly.CirclePoly
	for i := range subPolys {
		subPolys[i] = poly.NewCircleEvaluation(subdomain, values.Cols[i]).InterpolateWithTwiddles(tw)
	}

	extended := column.SecureZeros(domain.Size())
	for ci, shift := range subdomainShifts {
		shifted := subdomain.Shift(shift)
		shiftedTw := poly.PrecomputeTwiddles(shifted.HalfCoset)

		// The four coordinates write disjoint output ranges; the result
		// does not depend on their completion order.
		var g errgroup.Group
		blockLen := len(values.Cols[0].Data)
		for i := range subPolys {
			i := i
			g.Go(func() error {
				eval := subPolys[i].EvaluateWithTwiddles(shifted, shiftedTw)
				copy(extended.Cols[i].Data[ci*blockLen:(ci+1)*blockLen], eval.Values.Data)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			panic(err)
		}
	}
	return extended
}

// AccumulateRowQuotients runs the packed kernel over 4·NLanes rows at a
// time, indexed by quadRow.
func AccumulateRowQuotients(
	sampleBatches []ColumnSampleBatch,
	columns []*poly.CircleEvaluation,
	constants *QuotientConstants,
	quadRow int,
	spacedYs simd.PackedM31,
) [4]simd.PackedE4 {
	var rowAccumulator [4]simd.PackedE4
	for b, batch := range sampleBatches {
		var numerator [4]simd.PackedE4
		for j, s := range batch.ColumnsAndValues {
			lc := constants.LineCoeffs[b][j]
			col := columns[s.ColumnIndex]

			var cvalues [4]simd.PackedE4
			cBroadcast := simd.BroadcastE4(lc.C)
			for i := 0; i < 4; i++ {
				packed := col.Values.PackedAt((quadRow << 2) + i)
				cvalues[i].MulByM31(&cBroadcast, &packed)
			}

			// The numerator is the line equation c·value - a·y - b, with
			// the alpha power already folded in, so batching is a sum.
			// 4 consecutive bit-reversed domain points are
			// P, -P, P+H, -P+H with y values y, -y, -y, y; two interleave
			// levels expand a·y to all rows without extra products.
			aBroadcast := simd.BroadcastE4(lc.A)
			var spacedAy, negSpacedAy simd.PackedE4
			spacedAy.MulByM31(&aBroadcast, &spacedYs)
			negSpacedAy.Neg(&spacedAy)
			t0, t1 := spacedAy.Interleave(&negSpacedAy)
			var negT0, negT1 simd.PackedE4
			negT0.Neg(&t0)
			negT1.Neg(&t1)
			t2, t3 := t0.Interleave(&negT0)
			t4, t5 := t1.Interleave(&negT1)
			ay := [4]simd.PackedE4{t2, t3, t4, t5}

			bBroadcast := simd.BroadcastE4(lc.B)
			for i := 0; i < 4; i++ {
				var term simd.PackedE4
				term.Sub(&cvalues[i], &ay[i])
				term.Sub(&term, &bBroadcast)
				numerator[i].Add(&numerator[i], &term)
			}
		}

		batchCoeff := simd.BroadcastE4(constants.BatchRandomCoeffs[b])
		for i := 0; i < 4; i++ {
			di := constants.DenominatorInverses[b].PackedAt((quadRow << 2) + i)
			rowAccumulator[i].Mul(&rowAccumulator[i], &batchCoeff)
			var term simd.PackedE4
			term.Mul(&numerator[i], &di)
			rowAccumulator[i].Add(&rowAccumulator[i], &term)
		}
	}
	return rowAccumulator
}
