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

// Package simd provides 16-lane packed field vectors. The lane loops are
// written branch-free over fixed-size arrays so the compiler can vectorize
// them; lane count and semantics are part of the column storage contract.
package simd

import "github.com/consensys/circle-stark/m31"

const (
	// LogNLanes is the log2 of the number of lanes in a packed vector.
	LogNLanes = 4
	// NLanes is the number of lanes in a packed vector.
	NLanes = 1 << LogNLanes
)

// PackedM31 is a vector of NLanes base field elements.
type PackedM31 [NLanes]m31.Element

// BroadcastM31 returns a vector with all lanes set to v.
func BroadcastM31(v m31.Element) PackedM31 {
	var z PackedM31
	for i := range z {
		z[i] = v
	}
	return z
}

// Set sets z to x and returns z.
func (z *PackedM31) Set(x *PackedM31) *PackedM31 {
	*z = *x
	return z
}

// SetZero sets all lanes of z to 0 and returns z.
func (z *PackedM31) SetZero() *PackedM31 {
	*z = PackedM31{}
	return z
}

// Equal returns true if all lanes of z and x are equal.
func (z *PackedM31) Equal(x *PackedM31) bool {
	return *z == *x
}

// Add sets z = x + y lanewise and returns z.
func (z *PackedM31) Add(x, y *PackedM31) *PackedM31 {
	for i := range z {
		z[i].Add(&x[i], &y[i])
	}
	return z
}

// Sub sets z = x - y lanewise and returns z.
func (z *PackedM31) Sub(x, y *PackedM31) *PackedM31 {
	for i := range z {
		z[i].Sub(&x[i], &y[i])
	}
	return z
}

// Mul sets z = x * y lanewise and returns z.
func (z *PackedM31) Mul(x, y *PackedM31) *PackedM31 {
	for i := range z {
		z[i].Mul(&x[i], &y[i])
	}
	return z
}

// Neg sets z = -x lanewise and returns z.
func (z *PackedM31) Neg(x *PackedM31) *PackedM31 {
	for i := range z {
		z[i].Neg(&x[i])
	}
	return z
}

// MulBroadcast sets z = x * y with y broadcast to all lanes and returns z.
func (z *PackedM31) MulBroadcast(x *PackedM31, y *m31.Element) *PackedM31 {
	for i := range z {
		z[i].Mul(&x[i], y)
	}
	return z
}

// Interleave returns the standard even/odd interleave of x and y:
// lo[2i] = x[i], lo[2i+1] = y[i] for the first half of the lanes, and
// hi likewise for the second half.
func (x *PackedM31) Interleave(y *PackedM31) (lo, hi PackedM31) {
	for i := 0; i < NLanes/2; i++ {
		lo[2*i] = x[i]
		lo[2*i+1] = y[i]
		hi[2*i] = x[NLanes/2+i]
		hi[2*i+1] = y[NLanes/2+i]
	}
	return lo, hi
}
