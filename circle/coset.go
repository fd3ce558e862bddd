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

// Coset is the set {initial + k·step : k ∈ [0, 2^logSize)}, where step
// generates the subgroup of order 2^logSize.
type Coset struct {
	InitialIndex PointIndex
	Initial      Point
	StepSize     PointIndex
	Step         Point
	LogSize      uint32
}

// NewCoset returns the coset with the given initial index and size.
func NewCoset(initialIndex PointIndex, logSize uint32) Coset {
	stepSize := SubgroupGen(logSize)
	return Coset{
		InitialIndex: initialIndex,
		Initial:      initialIndex.ToPoint(),
		StepSize:     stepSize,
		Step:         stepSize.ToPoint(),
		LogSize:      logSize,
	}
}

// Subgroup returns the subgroup of order 2^logSize as a coset.
func Subgroup(logSize uint32) Coset {
	return NewCoset(0, logSize)
}

// Odds returns the coset of odd multiples of the generator of the subgroup
// of order 2^(logSize+1); this is the canonic coset of size 2^logSize.
func Odds(logSize uint32) Coset {
	return NewCoset(SubgroupGen(logSize+1), logSize)
}

// HalfOdds returns the coset G_{logSize+2} + <G_{logSize}>; it is the half
// coset of the circle domain matching the canonic coset of size
// 2^(logSize+1).
func HalfOdds(logSize uint32) Coset {
	return NewCoset(SubgroupGen(logSize+2), logSize)
}

// Size returns the number of points in the coset.
func (c Coset) Size() int {
	return 1 << c.LogSize
}

// IndexAt returns the index of the i-th coset point.
func (c Coset) IndexAt(i int) PointIndex {
	return c.InitialIndex.Add(c.StepSize.Mul(uint64(i)))
}

// At returns the i-th coset point.
func (c Coset) At(i int) Point {
	var p Point
	var s Point
	s.MulScalar(&c.Step, uint64(i))
	return *p.Add(&c.Initial, &s)
}

// Double returns the image of the coset under the doubling map.
func (c Coset) Double() Coset {
	if c.LogSize == 0 {
		panic("doubling a singleton coset")
	}
	return NewCoset(c.InitialIndex.Mul(2), c.LogSize-1)
}

// Shift returns the coset translated by the given index.
func (c Coset) Shift(offset PointIndex) Coset {
	initial := c.InitialIndex.Add(offset)
	return Coset{
		InitialIndex: initial,
		Initial:      initial.ToPoint(),
		StepSize:     c.StepSize,
		Step:         c.Step,
		LogSize:      c.LogSize,
	}
}

// Equal returns true if the cosets are identical.
func (c Coset) Equal(o Coset) bool {
	return c.InitialIndex == o.InitialIndex && c.StepSize == o.StepSize && c.LogSize == o.LogSize
}

// IsDoublingOf returns true if c is obtained from o by repeated doubling.
func (c Coset) IsDoublingOf(o Coset) bool {
	if c.LogSize > o.LogSize {
		return false
	}
	for o.LogSize > c.LogSize {
		o = o.Double()
	}
	return c.Equal(o)
}
