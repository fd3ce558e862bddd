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

// Package channel implements the Blake2s Fiat-Shamir channel the prover
// draws challenges from. Draws are a pure function of the mixed
// transcript.
package channel

import (
	"encoding/binary"

	"github.com/consensys/circle-stark/m31"
	"github.com/consensys/circle-stark/qm31"
	"golang.org/x/crypto/blake2s"
)

// Channel produces secure field challenges reproducibly from a transcript.
type Channel interface {
	// MixFelts absorbs secure field elements into the transcript.
	MixFelts(felts ...qm31.E4)
	// DrawFelt squeezes one secure field element.
	DrawFelt() qm31.E4
}

// Blake2s is a Blake2s-based channel: the digest chains over everything
// mixed; draws hash the digest with a counter that every mix resets.
type Blake2s struct {
	digest  [blake2s.Size]byte
	counter uint64
}

// NewBlake2s returns a channel seeded with the given bytes.
func NewBlake2s(seed []byte) *Blake2s {
	c := &Blake2s{}
	c.digest = blake2s.Sum256(seed)
	return c
}

// MixFelts absorbs secure field elements into the transcript.
func (c *Blake2s) MixFelts(felts ...qm31.E4) {
	buf := make([]byte, 0, len(c.digest)+16*len(felts))
	buf = append(buf, c.digest[:]...)
	for _, f := range felts {
		for _, coord := range f.Coords() {
			buf = binary.LittleEndian.AppendUint32(buf, coord.Uint32())
		}
	}
	c.digest = blake2s.Sum256(buf)
	c.counter = 0
}

// drawWord squeezes 8 transcript bytes.
func (c *Blake2s) drawWord() uint64 {
	var buf [blake2s.Size + 8]byte
	copy(buf[:], c.digest[:])
	binary.LittleEndian.PutUint64(buf[blake2s.Size:], c.counter)
	c.counter++
	sum := blake2s.Sum256(buf[:])
	return binary.LittleEndian.Uint64(sum[:8])
}

// drawBaseFelt squeezes one base field element, rejecting biased samples.
func (c *Blake2s) drawBaseFelt() m31.Element {
	for {
		v := uint32(c.drawWord()) >> 1
		if v < m31.Modulus {
			return m31.NewElement(v)
		}
	}
}

// DrawFelt squeezes one secure field element.
func (c *Blake2s) DrawFelt() qm31.E4 {
	var z qm31.E4
	z.FromCoords(c.drawBaseFelt(), c.drawBaseFelt(), c.drawBaseFelt(), c.drawBaseFelt())
	return z
}
