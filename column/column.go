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

// Package column provides the packed column storage shared by both
// computation backends. Columns are single-producer buffers: created with
// Zeros and filled once, then handed off read-only.
package column

import (
	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/qm31"
	"github.com/consensys/circle-stark/simd"
)

// Base is a column of base field values in packed storage. Length must be a
// multiple of simd.NLanes.
type Base struct {
	Data   []simd.PackedM31
	Length int
}

// Zeros returns a zero column of length n.
func Zeros(n int) *Base {
	if n%simd.NLanes != 0 {
		panic("column length must be a multiple of the lane count")
	}
	return &Base{Data: make([]simd.PackedM31, n/simd.NLanes), Length: n}
}

// FromSlice packs a scalar slice into a column.
func FromSlice(v []m31.Element) *Base {
	c := Zeros(len(v))
	for i, x := range v {
		c.Data[i/simd.NLanes][i%simd.NLanes] = x
	}
	return c
}

// Len returns the column length.
func (c *Base) Len() int {
	return c.Length
}

// At returns the i-th scalar value.
func (c *Base) At(i int) m31.Element {
	return c.Data[i/simd.NLanes][i%simd.NLanes]
}

// Set sets the i-th scalar value.
func (c *Base) Set(i int, v m31.Element) {
	c.Data[i/simd.NLanes][i%simd.NLanes] = v
}

// PackedAt returns the i-th packed row.
func (c *Base) PackedAt(i int) simd.PackedM31 {
	return c.Data[i]
}

// SetPacked sets the i-th packed row.
func (c *Base) SetPacked(i int, v simd.PackedM31) {
	c.Data[i] = v
}

// ToSlice unpacks the column into a scalar slice.
func (c *Base) ToSlice() []m31.Element {
	v := make([]m31.Element, c.Length)
	for i := range v {
		v[i] = c.Data[i/simd.NLanes][i%simd.NLanes]
	}
	return v
}

// Clone returns a deep copy of the column.
func (c *Base) Clone() *Base {
	d := &Base{Data: make([]simd.PackedM31, len(c.Data)), Length: c.Length}
	copy(d.Data, c.Data)
	return d
}

// Secure is a column of secure field values stored as four coordinate
// columns in the (1, i, u, iu) basis.
type Secure struct {
	Cols [qm31.ExtensionDegree]*Base
}

// SecureZeros returns a zero secure column of length n.
func SecureZeros(n int) *Secure {
	var s Secure
	for i := range s.Cols {
		s.Cols[i] = Zeros(n)
	}
	return &s
}

// Len returns the column length.
func (s *Secure) Len() int {
	return s.Cols[0].Len()
}

// At returns the i-th scalar value.
func (s *Secure) At(i int) qm31.E4 {
	var v qm31.E4
	v.FromCoords(s.Cols[0].At(i), s.Cols[1].At(i), s.Cols[2].At(i), s.Cols[3].At(i))
	return v
}

// Set sets the i-th scalar value.
func (s *Secure) Set(i int, v qm31.E4) {
	c := v.Coords()
	for j := range c {
		s.Cols[j].Set(i, c[j])
	}
}

// PackedAt returns the i-th packed row.
func (s *Secure) PackedAt(i int) simd.PackedE4 {
	return simd.PackedE4{
		B0: simd.PackedE2{A0: s.Cols[0].Data[i], A1: s.Cols[1].Data[i]},
		B1: simd.PackedE2{A0: s.Cols[2].Data[i], A1: s.Cols[3].Data[i]},
	}
}

// SetPacked sets the i-th packed row.
func (s *Secure) SetPacked(i int, v simd.PackedE4) {
	s.Cols[0].Data[i] = v.B0.A0
	s.Cols[1].Data[i] = v.B0.A1
	s.Cols[2].Data[i] = v.B1.A0
	s.Cols[3].Data[i] = v.B1.A1
}

// ToSlice unpacks the column into a scalar slice.
func (s *Secure) ToSlice() []qm31.E4 {
	v := make([]qm31.E4, s.Len())
	for i := range v {
		v[i] = s.At(i)
	}
	return v
}
