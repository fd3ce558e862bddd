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

package circle

// LogOrder is the log2 of the circle group order.
const LogOrder = 31

const indexMask = 1<<LogOrder - 1

// PointIndex is the discrete log of a point with respect to Gen, reduced
// modulo the group order 2³¹. Index arithmetic is exact where point
// arithmetic would lose the discrete log.
type PointIndex uint32

// SubgroupGen returns the index of a generator of the subgroup of order
// 2^logSize.
func SubgroupGen(logSize uint32) PointIndex {
	if logSize > LogOrder {
		panic("subgroup larger than the circle group")
	}
	return PointIndex(1<<(LogOrder-logSize)) & indexMask
}

// Add returns i + j.
func (i PointIndex) Add(j PointIndex) PointIndex {
	return (i + j) & indexMask
}

// Sub returns i - j.
func (i PointIndex) Sub(j PointIndex) PointIndex {
	return (i + (1 << LogOrder) - j) & indexMask
}

// Neg returns -i.
func (i PointIndex) Neg() PointIndex {
	return ((1 << LogOrder) - i) & indexMask
}

// Mul returns n·i.
func (i PointIndex) Mul(n uint64) PointIndex {
	return PointIndex((uint64(i) * n) & indexMask)
}

// MulSigned returns n·i for a signed n.
func (i PointIndex) MulSigned(n int) PointIndex {
	if n >= 0 {
		return i.Mul(uint64(n))
	}
	return i.Mul(uint64(-n)).Neg()
}

// Half returns i/2. i must be even.
func (i PointIndex) Half() PointIndex {
	if i&1 != 0 {
		panic("halving an odd point index")
	}
	return i >> 1
}

// ToPoint returns i·Gen.
func (i PointIndex) ToPoint() Point {
	var p Point
	return *p.MulScalar(&Gen, uint64(i))
}
