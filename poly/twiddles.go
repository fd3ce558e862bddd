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

// Package poly implements the circle-domain polynomial engine: evaluations
// in bit-reversed order, interpolation and evaluation through circle FFT
// butterflies, and direct evaluation at secure field points.
package poly

import (
	"time"

	"github.com/consensys/circle-stark/circle"
	"github.com/consensys/circle-stark/logger"
	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/utils"
)

// TwiddleTree holds the line twiddles of a root coset and all its iterated
// doublings, each layer in bit-reversed order, concatenated largest first,
// with a single padding element at the end. The tree is immutable once
// computed and may be shared by any evaluation whose half coset is a
// doubling of the root.
type TwiddleTree struct {
	RootCoset circle.Coset
	Twiddles  []m31.Element
	ITwiddles []m31.Element
}

// PrecomputeTwiddles builds the twiddle tree rooted at the given half
// coset.
func PrecomputeTwiddles(coset circle.Coset) *TwiddleTree {
	start := time.Now()
	root := coset
	tw := make([]m31.Element, 0, coset.Size())
	for coset.LogSize > 0 {
		i0 := len(tw)
		p := coset.Initial
		for i := 0; i < coset.Size()/2; i++ {
			tw = append(tw, p.X)
			p.Add(&p, &coset.Step)
		}
		utils.BitReverse(tw[i0:])
		if coset.LogSize == 1 {
			break
		}
		coset = coset.Double()
	}
	var one m31.Element
	one.SetOne()
	tw = append(tw, one)
	itw := m31.BatchInvert(tw)

	logger.Logger().Debug().
		Uint32("logSize", root.LogSize).
		Dur("took", time.Since(start)).
		Msg("twiddle precompute")

	return &TwiddleTree{RootCoset: root, Twiddles: tw, ITwiddles: itw}
}

// domainLineTwiddles returns, for each line layer of an FFT over the
// domain, its twiddle slice from the tree buffer. Layer 0 is the first
// layer after the circle layer and has the most twiddles.
func domainLineTwiddles(domain circle.Domain, buffer []m31.Element) [][]m31.Element {
	n := domain.HalfCoset.LogSize
	res := make([][]m31.Element, n)
	for i := uint32(0); i < n; i++ {
		l := 1 << i
		res[n-1-i] = buffer[len(buffer)-2*l : len(buffer)-l]
	}
	return res
}

// circleTwiddles returns the y-coordinate twiddles of the circle layer:
// one per antipodal pair, in the bit-reversed order of the half coset.
func circleTwiddles(domain circle.Domain) []m31.Element {
	half := domain.HalfCoset
	ys := make([]m31.Element, half.Size())
	p := half.Initial
	for i := range ys {
		ys[i] = p.Y
		p.Add(&p, &half.Step)
	}
	utils.BitReverse(ys)
	return ys
}
