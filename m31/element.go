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

// Package m31 implements arithmetic over the Mersenne prime field of order
// q = 2³¹-1.
//
// Elements are kept reduced in [0, q) in a single uint32 limb; there is no
// Montgomery form.
package m31

import (
	"crypto/rand"
	"encoding/binary"
	"math/bits"
	"strconv"
)

// Modulus is the field characteristic, 2³¹-1.
const Modulus uint32 = 2147483647

// Bits number of bits needed to represent an Element.
const Bits = 31

// Element represents a field element stored reduced in [0, Modulus).
type Element struct {
	z uint32
}

// NewElement returns an Element set to v mod q.
func NewElement(v uint32) Element {
	var e Element
	e.SetUint32(v)
	return e
}

// SetUint32 sets z to v mod q and returns z.
func (z *Element) SetUint32(v uint32) *Element {
	z.z = reduce32(v)
	return z
}

// Set sets z to x and returns z.
func (z *Element) Set(x *Element) *Element {
	z.z = x.z
	return z
}

// SetZero sets z to 0 and returns z.
func (z *Element) SetZero() *Element {
	z.z = 0
	return z
}

// SetOne sets z to 1 and returns z.
func (z *Element) SetOne() *Element {
	z.z = 1
	return z
}

// SetRandom sets z to a uniform random element and returns z.
// It reads from crypto/rand and retries out-of-range samples.
func (z *Element) SetRandom() *Element {
	var buf [4]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic(err)
		}
		v := binary.LittleEndian.Uint32(buf[:]) >> 1
		if v < Modulus {
			z.z = v
			return z
		}
	}
}

// Uint32 returns the canonical representative of z.
func (z *Element) Uint32() uint32 {
	return z.z
}

// IsZero returns true if z equals 0.
func (z *Element) IsZero() bool {
	return z.z == 0
}

// IsOne returns true if z equals 1.
func (z *Element) IsOne() bool {
	return z.z == 1
}

// Equal returns true if z equals x.
func (z *Element) Equal(x *Element) bool {
	return z.z == x.z
}

// Cmp compares z and x as integers in [0, q).
func (z *Element) Cmp(x *Element) int {
	switch {
	case z.z < x.z:
		return -1
	case z.z > x.z:
		return 1
	}
	return 0
}

// String returns the decimal representation of z.
func (z *Element) String() string {
	return strconv.FormatUint(uint64(z.z), 10)
}

// reduce32 reduces v < 2³² into [0, q).
func reduce32(v uint32) uint32 {
	v = (v & Modulus) + (v >> 31)
	if v >= Modulus {
		v -= Modulus
	}
	return v
}

// reduce64 reduces v < 2⁶² into [0, q).
func reduce64(v uint64) uint32 {
	v = (v & uint64(Modulus)) + (v >> 31)
	return reduce32(uint32((v & uint64(Modulus)) + (v >> 31)))
}

// Add sets z = x + y and returns z.
func (z *Element) Add(x, y *Element) *Element {
	z.z = reduce32(x.z + y.z)
	return z
}

// Sub sets z = x - y and returns z.
func (z *Element) Sub(x, y *Element) *Element {
	z.z = reduce32(x.z + Modulus - y.z)
	return z
}

// Neg sets z = -x and returns z.
func (z *Element) Neg(x *Element) *Element {
	z.z = reduce32(Modulus - x.z)
	return z
}

// Double sets z = 2x and returns z.
func (z *Element) Double(x *Element) *Element {
	z.z = reduce32(x.z << 1)
	return z
}

// Mul sets z = x * y and returns z.
func (z *Element) Mul(x, y *Element) *Element {
	z.z = reduce64(uint64(x.z) * uint64(y.z))
	return z
}

// Square sets z = x * x and returns z.
func (z *Element) Square(x *Element) *Element {
	z.z = reduce64(uint64(x.z) * uint64(x.z))
	return z
}

// Exp sets z = x^e and returns z.
func (z *Element) Exp(x Element, e uint64) *Element {
	res := NewElement(1)
	base := x
	for i := 63 - bits.LeadingZeros64(e|1); i >= 0; i-- {
		res.Square(&res)
		if (e>>uint(i))&1 == 1 {
			res.Mul(&res, &base)
		}
	}
	z.z = res.z
	return z
}

// sqn sets z = x^(2^n) and returns z.
func (z *Element) sqn(x *Element, n int) *Element {
	z.Set(x)
	for i := 0; i < n; i++ {
		z.Square(z)
	}
	return z
}

// Inverse sets z = 1/x and returns z, using the fixed addition chain for
// x^(q-2) = x^2147483645. Inverting 0 is a programmer error; the result is 0.
func (z *Element) Inverse(x *Element) *Element {
	var t0, t1, t2, t3, t4, t5 Element
	t0.sqn(x, 2).Mul(&t0, x)
	t1.sqn(&t0, 1).Mul(&t1, &t0)
	t2.sqn(&t1, 3).Mul(&t2, &t0)
	t3.sqn(&t2, 1).Mul(&t3, &t0)
	t4.sqn(&t3, 8).Mul(&t4, &t3)
	t5.sqn(&t4, 8).Mul(&t5, &t3)
	z.sqn(&t5, 7).Mul(z, &t2)
	return z
}

// BatchInvert returns a new slice with the inverses of the input elements,
// using Montgomery's trick: a single field inversion and O(n)
// multiplications. Zero entries are a programmer error.
func BatchInvert(a []Element) []Element {
	res := make([]Element, len(a))
	if len(a) == 0 {
		return res
	}

	var acc Element
	acc.SetOne()
	for i := range a {
		res[i] = acc
		acc.Mul(&acc, &a[i])
	}

	acc.Inverse(&acc)

	for i := len(a) - 1; i >= 0; i-- {
		res[i].Mul(&res[i], &acc)
		acc.Mul(&acc, &a[i])
	}
	return res
}
