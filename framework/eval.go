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

// Package framework lets a component's algebraic constraints be written
// once, against an abstract row evaluator, and reused for metadata
// inference, out-of-domain point evaluation, packed evaluation over the
// whole domain, and per-row assertion in tests.
package framework

import (
	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/qm31"
)

// Value is an opaque handle to a column value produced by an evaluator:
// the F type of the row algebra. Its representation is owned by the
// evaluator that produced it.
type Value any

// ExtValue is an opaque handle to a secure combination value: the EF type
// of the row algebra, the closure of F under multiplication by secure
// field elements.
type ExtValue any

// EvalAtRow is the abstract row evaluator. A component's Evaluate function
// must perform the same sequence of mask reads and constraint additions on
// every evaluator; the four implementations then agree on the component's
// shape by construction. Mask reads must not depend on mask values.
type EvalAtRow interface {
	// NextInteractionMask advances to the next column of the given
	// interaction tree and returns its values at the given row offsets.
	NextInteractionMask(interaction int, offsets []int) []Value
	// AddConstraint registers a constraint polynomial that must vanish on
	// the trace domain.
	AddConstraint(constraint ExtValue)
	// CombineEF interprets four base values as one extension value,
	// matching the secure-column encoding.
	CombineEF(values [4]Value) ExtValue

	// The F algebra.
	AddF(x, y Value) Value
	SubF(x, y Value) Value
	MulF(x, y Value) Value
	NegF(x Value) Value
	// FromBase lifts a base field constant into F.
	FromBase(v m31.Element) Value

	// The EF algebra.
	AddEF(x, y ExtValue) ExtValue
	SubEF(x, y ExtValue) ExtValue
	MulEF(x, y ExtValue) ExtValue
	NegEF(x ExtValue) ExtValue
	ZeroEF() ExtValue
	// FromF lifts an F value into EF.
	FromF(x Value) ExtValue
	// FromSecure lifts a secure field constant into EF.
	FromSecure(v qm31.E4) ExtValue
	// MulFBySecure multiplies an F value by a secure field constant,
	// landing in EF.
	MulFBySecure(x Value, v qm31.E4) ExtValue
}

// NextTraceMask reads the next column of the first interaction at offset
// zero.
func NextTraceMask(e EvalAtRow) Value {
	return e.NextInteractionMask(0, []int{0})[0]
}

// NextExtensionInteractionMask reads the next secure column of an
// interaction tree: four consecutive base columns combined per offset.
func NextExtensionInteractionMask(e EvalAtRow, interaction int, offsets []int) []ExtValue {
	var cols [qm31.ExtensionDegree][]Value
	for k := range cols {
		cols[k] = e.NextInteractionMask(interaction, offsets)
	}
	res := make([]ExtValue, len(offsets))
	for i := range offsets {
		res[i] = e.CombineEF([4]Value{cols[0][i], cols[1][i], cols[2][i], cols[3][i]})
	}
	return res
}

// TreeVec holds one entry per interaction tree: trace, interaction,
// constants.
type TreeVec[T any] []T
