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

// Package quotient computes the random linear combination of DEEP quotient
// column-line polynomials over a blown-up circle domain. This is the
// arithmetic hot path of the prover.
package quotient

import (
	"github.com/consensys/circle-stark/circle"
	"github.com/consensys/circle-stark/column"
	"github.com/consensys/circle-stark/poly"
	"github.com/consensys/circle-stark/qm31"
	"github.com/consensys/circle-stark/utils"
)

// LogBlowupFactor is the domain expansion exponent. It must equal the rate
// used by the commitment scheme.
const LogBlowupFactor = 1

// ColumnSample is a claimed evaluation of one column at the batch point.
type ColumnSample struct {
	ColumnIndex int
	Value       qm31.E4
}

// ColumnSampleBatch groups the claimed evaluations of a set of columns at
// a single out-of-domain point. Different batches must use different
// points.
type ColumnSampleBatch struct {
	Point            circle.SecurePoint
	ColumnsAndValues []ColumnSample
}

// LineCoeffs are the coefficients (a, b, c) of the column-line polynomial
// c·v - a·y - b interpolating the claimed value at the sample point and its
// conjugate at the conjugate point, pre-scaled by a power of the random
// coefficient so that accumulation across columns is a plain sum.
type LineCoeffs struct {
	A, B, C qm31.E4
}

// QuotientConstants are the per-proof derived inputs of the row kernel,
// immutable once built.
type QuotientConstants struct {
	LineCoeffs          [][]LineCoeffs
	BatchRandomCoeffs   []qm31.E4
	DenominatorInverses []*column.Secure
}

// columnLineCoeffs builds the line coefficients of every sampled column,
// batch by batch. Column j of a batch is scaled by randomCoeff^(j+1).
func columnLineCoeffs(sampleBatches []ColumnSampleBatch, randomCoeff qm31.E4) [][]LineCoeffs {
	res := make([][]LineCoeffs, len(sampleBatches))
	for i, batch := range sampleBatches {
		var alpha qm31.E4
		alpha.SetOne()
		coeffs := make([]LineCoeffs, len(batch.ColumnsAndValues))
		for j, s := range batch.ColumnsAndValues {
			alpha.Mul(&alpha, &randomCoeff)
			coeffs[j] = complexConjugateLineCoeffs(batch.Point, s.Value, alpha)
		}
		res[i] = coeffs
	}
	return res
}

// complexConjugateLineCoeffs returns the unique (a, b, c), scaled by alpha,
// such that c·v - a·y - b vanishes for (y, v) at the sample and at its
// complex conjugate.
func complexConjugateLineCoeffs(point circle.SecurePoint, value, alpha qm31.E4) LineCoeffs {
	var conjPoint circle.SecurePoint
	conjPoint.Conjugate(&point)
	if point.Y.Equal(&conjPoint.Y) {
		panic("cannot evaluate a line through a single point")
	}

	var a, b, c, t qm31.E4
	a.Conjugate(&value)
	a.Sub(&a, &value)
	c.Sub(&conjPoint.Y, &point.Y)
	b.Mul(&value, &c)
	t.Mul(&a, &point.Y)
	b.Sub(&b, &t)

	a.Mul(&a, &alpha)
	b.Mul(&b, &alpha)
	c.Mul(&c, &alpha)
	return LineCoeffs{A: a, B: b, C: c}
}

// batchRandomCoeffs returns, per batch, the coefficient separating it from
// the next batch in the Horner fold: randomCoeff to the number of columns
// in the batch.
func batchRandomCoeffs(sampleBatches []ColumnSampleBatch, randomCoeff qm31.E4) []qm31.E4 {
	res := make([]qm31.E4, len(sampleBatches))
	for i, batch := range sampleBatches {
		res[i].Exp(randomCoeff, uint64(len(batch.ColumnsAndValues)))
	}
	return res
}

// denominatorInverses returns, per batch, the inverted pair-vanishing
// denominators over the domain in bit-reversed order. All (batch, row)
// denominators are inverted in one batched inversion.
func denominatorInverses(sampleBatches []ColumnSampleBatch, domain circle.Domain) []*column.Secure {
	n := domain.Size()
	flat := make([]qm31.E4, 0, len(sampleBatches)*n)
	for _, batch := range sampleBatches {
		var conj circle.SecurePoint
		conj.Conjugate(&batch.Point)
		for row := 0; row < n; row++ {
			p := circle.SecureFromBase(domain.At(utils.BitReverseIndex(row, domain.LogSize())))
			flat = append(flat, circle.PairVanishing(batch.Point, conj, p))
		}
	}
	flatInv := qm31.BatchInvert(flat)

	res := make([]*column.Secure, len(sampleBatches))
	for i := range res {
		col := column.SecureZeros(n)
		for row := 0; row < n; row++ {
			col.Set(row, flatInv[i*n+row])
		}
		res[i] = col
	}
	return res
}

func quotientConstants(sampleBatches []ColumnSampleBatch, randomCoeff qm31.E4, domain circle.Domain) *QuotientConstants {
	return &QuotientConstants{
		LineCoeffs:          columnLineCoeffs(sampleBatches, randomCoeff),
		BatchRandomCoeffs:   batchRandomCoeffs(sampleBatches, randomCoeff),
		DenominatorInverses: denominatorInverses(sampleBatches, domain),
	}
}

// AccumulateScalar is the scalar reference accumulator: it walks the full
// domain row by row. Its output is the bit-exact reference for the packed
// kernel.
func AccumulateScalar(
	domain circle.Domain,
	columns []*poly.CircleEvaluation,
	randomCoeff qm31.E4,
	sampleBatches []ColumnSampleBatch,
) *poly.SecureEvaluation {
	values := column.SecureZeros(domain.Size())
	constants := quotientConstants(sampleBatches, randomCoeff, domain)

	for row := 0; row < domain.Size(); row++ {
		p := domain.At(utils.BitReverseIndex(row, domain.LogSize()))
		values.Set(row, accumulateScalarRow(sampleBatches, columns, constants, row, p))
	}
	return &poly.SecureEvaluation{Domain: domain, Values: values}
}

func accumulateScalarRow(
	sampleBatches []ColumnSampleBatch,
	columns []*poly.CircleEvaluation,
	constants *QuotientConstants,
	row int,
	p circle.Point,
) qm31.E4 {
	var rowAccumulator qm31.E4
	for b, batch := range sampleBatches {
		var numerator qm31.E4
		for j, s := range batch.ColumnsAndValues {
			lc := constants.LineCoeffs[b][j]
			colValue := columns[s.ColumnIndex].Values.At(row)

			// c·value - (a·p.y + b); the alpha powers are already folded
			// into the coefficients, so columns accumulate by addition.
			var v, lt qm31.E4
			v.MulByBase(&lc.C, &colValue)
			lt.MulByBase(&lc.A, &p.Y)
			lt.Add(&lt, &lc.B)
			v.Sub(&v, &lt)
			numerator.Add(&numerator, &v)
		}

		di := constants.DenominatorInverses[b].At(row)
		rowAccumulator.Mul(&rowAccumulator, &constants.BatchRandomCoeffs[b])
		numerator.Mul(&numerator, &di)
		rowAccumulator.Add(&rowAccumulator, &numerator)
	}
	return rowAccumulator
}
