//go:build gofuzz

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

package m31

import "encoding/binary"

const (
	fuzzInteresting = 1
	fuzzNormal      = 0
	fuzzDiscard     = -1
)

// Fuzz checks field laws on elements decoded from data.
func Fuzz(data []byte) int {
	if len(data) < 8 {
		return fuzzDiscard
	}
	var a, b Element
	a.SetUint32(binary.LittleEndian.Uint32(data))
	b.SetUint32(binary.LittleEndian.Uint32(data[4:]))

	var ab, ba Element
	ab.Mul(&a, &b)
	ba.Mul(&b, &a)
	if !ab.Equal(&ba) {
		panic("mul commutativity check failed")
	}

	var s, d, twiceA Element
	s.Add(&a, &b)
	d.Sub(&s, &b)
	if !d.Equal(&a) {
		panic("add/sub roundtrip check failed")
	}
	twiceA.Double(&a)
	s.Add(&a, &a)
	if !twiceA.Equal(&s) {
		panic("double check failed")
	}

	if !a.IsZero() {
		var inv, one Element
		inv.Inverse(&a)
		one.Mul(&a, &inv)
		if !one.IsOne() {
			panic("inverse check failed")
		}
		return fuzzInteresting
	}
	return fuzzNormal
}
