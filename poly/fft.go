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

package poly

import (
	"github.com/consensys/circle-stark/circle"
	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/qm31"
)

// Butterfly sets (v0, v1) = (v0 + t·v1, v0 - t·v1).
func Butterfly(v0, v1 *m31.Element, t *m31.Element) {
	var tmp m31.Element
	tmp.Mul(v1, t)
	v1.Sub(v0, &tmp)
	v0.Add(v0, &tmp)
}

// IButterfly sets (v0, v1) = (v0 + v1, (v0 - v1)·t). With t the inverse
// twiddle this undoes Butterfly up to a factor of 2.
func IButterfly(v0, v1 *m31.Element, t *m31.Element) {
	tmp := *v0
	v0.Add(&tmp, v1)
	v1.Sub(&tmp, v1)
	v1.Mul(v1, t)
}

// fftLayerLoop applies the butterfly b with twiddle t to block h of layer
// i: pairs (idx, idx + 2^i) for idx in [h·2^(i+1), h·2^(i+1) + 2^i).
func fftLayerLoop(values []m31.Element, i, h int, t m31.Element, b func(v0, v1, t *m31.Element)) {
	for l := 0; l < 1<<i; l++ {
		idx0 := (h << (i + 1)) + l
		idx1 := idx0 + (1 << i)
		b(&values[idx0], &values[idx1], &t)
	}
}

// interpolateValues runs the inverse circle FFT in place: bit-reversed
// evaluations over the domain in, coefficients in the FFT basis out.
func interpolateValues(values []m31.Element, domain circle.Domain, tw *TwiddleTree) {
	if len(values) != domain.Size() {
		panic("evaluation length does not match domain size")
	}
	if !domain.HalfCoset.IsDoublingOf(tw.RootCoset) {
		panic("domain half coset is not a doubling of the twiddle root coset")
	}

	ict := m31.BatchInvert(circleTwiddles(domain))
	for h, t := range ict {
		fftLayerLoop(values, 0, h, t, IButterfly)
	}
	lineTw := domainLineTwiddles(domain, tw.ITwiddles)
	for layer, tws := range lineTw {
		for h, t := range tws {
			fftLayerLoop(values, layer+1, h, t, IButterfly)
		}
	}

	// Each butterfly layer doubles the values; divide out 2^logSize.
	var inv m31.Element
	inv.SetUint32(uint32(domain.Size()))
	inv.Inverse(&inv)
	for i := range values {
		values[i].Mul(&values[i], &inv)
	}
}

// evaluateValues runs the forward circle FFT in place: coefficients in the
// FFT basis in, bit-reversed evaluations over the domain out.
func evaluateValues(values []m31.Element, domain circle.Domain, tw *TwiddleTree) {
	if len(values) != domain.Size() {
		panic("coefficient length does not match domain size")
	}
	if !domain.HalfCoset.IsDoublingOf(tw.RootCoset) {
		panic("domain half coset is not a doubling of the twiddle root coset")
	}

	lineTw := domainLineTwiddles(domain, tw.Twiddles)
	for layer := len(lineTw) - 1; layer >= 0; layer-- {
		for h, t := range lineTw[layer] {
			fftLayerLoop(values, layer+1, h, t, Butterfly)
		}
	}
	ct := circleTwiddles(domain)
	for h, t := range ct {
		fftLayerLoop(values, 0, h, t, Butterfly)
	}
}

// fold evaluates the multilinear-style FFT basis recursion: values split
// at the top bit, the right half weighted by the first folding factor.
func fold(values []m31.Element, factors []qm31.E4) qm31.E4 {
	if len(values) == 1 {
		var r qm31.E4
		r.FromBase(&values[0])
		return r
	}
	half := len(values) / 2
	lhs := fold(values[:half], factors[1:])
	rhs := fold(values[half:], factors[1:])
	var r qm31.E4
	r.Mul(&rhs, &factors[0])
	r.Add(&lhs, &r)
	return r
}
