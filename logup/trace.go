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

package logup

import (
	"time"

	"github.com/consensys/circle-stark/circle"
	"github.com/consensys/circle-stark/column"
	"github.com/consensys/circle-stark/logger"
	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/poly"
	"github.com/consensys/circle-stark/qm31"
	"github.com/consensys/circle-stark/simd"
	"github.com/consensys/circle-stark/utils"
)

// LogupTraceGenerator builds the interaction trace matching LogupAtRow:
// one secure column per pushed lookup, accumulating within each row, with
// the last column carrying the running sum across rows.
type LogupTraceGenerator struct {
	LogSize uint32
	trace   []*column.Secure
}

// NewLogupTraceGenerator returns a generator for a trace of 2^logSize
// rows.
func NewLogupTraceGenerator(logSize uint32) *LogupTraceGenerator {
	if logSize < simd.LogNLanes {
		panic("trace too small for packed columns")
	}
	return &LogupTraceGenerator{LogSize: logSize}
}

// ColGenerator fills one interaction column as packed fractions.
type ColGenerator struct {
	gen       *LogupTraceGenerator
	numerator *column.Secure
	denom     []simd.PackedE4
}

// NewCol starts the next interaction column.
func (g *LogupTraceGenerator) NewCol() *ColGenerator {
	size := 1 << g.LogSize
	return &ColGenerator{
		gen:       g,
		numerator: column.SecureZeros(size),
		denom:     make([]simd.PackedE4, size/simd.NLanes),
	}
}

// WriteFrac stores the fraction p/q for one packed row.
func (c *ColGenerator) WriteFrac(vecRow int, p, q simd.PackedE4) {
	c.numerator.SetPacked(vecRow, p)
	c.denom[vecRow] = q
}

// FinalizeCol inverts the denominators in one batch and folds the column
// on top of the previous one.
func (c *ColGenerator) FinalizeCol() {
	rows := len(c.denom)
	flat := make([]qm31.E4, 0, rows*simd.NLanes)
	for i := range c.denom {
		for lane := 0; lane < simd.NLanes; lane++ {
			flat = append(flat, c.denom[i].At(lane))
		}
	}
	flatInv := qm31.BatchInvert(flat)

	for vecRow := 0; vecRow < rows; vecRow++ {
		var inv [simd.NLanes]qm31.E4
		copy(inv[:], flatInv[vecRow*simd.NLanes:(vecRow+1)*simd.NLanes])
		invPacked := simd.FromE4Lanes(inv)

		var value simd.PackedE4
		num := c.numerator.PackedAt(vecRow)
		value.Mul(&num, &invPacked)
		if n := len(c.gen.trace); n > 0 {
			prev := c.gen.trace[n-1].PackedAt(vecRow)
			value.Add(&value, &prev)
		}
		c.numerator.SetPacked(vecRow, value)
	}
	c.gen.trace = append(c.gen.trace, c.numerator)
}

// Finalize turns the last column into the running row sum, in the natural
// order of the trace coset, and returns all columns flattened to base
// field evaluations along with the claimed sum.
func (g *LogupTraceGenerator) Finalize() ([]*poly.CircleEvaluation, qm31.E4) {
	if len(g.trace) == 0 {
		panic("no interaction columns were generated")
	}
	start := time.Now()
	size := 1 << g.LogSize
	last := g.trace[len(g.trace)-1]

	var sum qm31.E4
	for row := 0; row < size; row++ {
		idx := storageIndex(row, g.LogSize)
		v := last.At(idx)
		sum.Add(&sum, &v)
		last.Set(idx, sum)
	}
	claimedSum := sum

	domain := circle.NewCanonicCoset(g.LogSize).CircleDomain()
	evals := make([]*poly.CircleEvaluation, 0, len(g.trace)*qm31.ExtensionDegree)
	for _, col := range g.trace {
		for _, coord := range col.Cols {
			evals = append(evals, poly.NewCircleEvaluation(domain, coord))
		}
	}

	logger.Logger().Debug().
		Uint32("logSize", g.LogSize).
		Int("columns", len(g.trace)).
		Dur("took", time.Since(start)).
		Msg("logup interaction trace")

	return evals, claimedSum
}

// storageIndex maps a trace row, in coset order, to its position in the
// bit-reversed circle-domain storage.
func storageIndex(row int, logSize uint32) int {
	return utils.BitReverseIndex(utils.CosetIndexToCircleDomainIndex(row, logSize), logSize)
}

// GenIsFirst returns the constant column holding 1 on the first trace row
// and 0 elsewhere.
func GenIsFirst(logSize uint32) *poly.CircleEvaluation {
	domain := circle.NewCanonicCoset(logSize).CircleDomain()
	col := column.Zeros(domain.Size())
	var one m31.Element
	one.SetOne()
	col.Set(storageIndex(0, logSize), one)
	return poly.NewCircleEvaluation(domain, col)
}
