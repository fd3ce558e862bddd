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

package channel

import (
	"testing"

	"github.com/consensys/circle-stark/qm31"
	"github.com/stretchr/testify/require"
)

func TestDrawIsReproducible(t *testing.T) {
	a := NewBlake2s([]byte("seed"))
	b := NewBlake2s([]byte("seed"))

	for i := 0; i < 8; i++ {
		x := a.DrawFelt()
		y := b.DrawFelt()
		require.True(t, x.Equal(&y), "draw %d", i)
	}
}

func TestMixChangesDraws(t *testing.T) {
	a := NewBlake2s([]byte("seed"))
	b := NewBlake2s([]byte("seed"))

	b.MixFelts(qm31.NewE4(1, 2, 3, 4))
	x := a.DrawFelt()
	y := b.DrawFelt()
	require.False(t, x.Equal(&y))

	// Mixing the same element resynchronizes the channels.
	a.MixFelts(qm31.NewE4(1, 2, 3, 4))
	b2 := NewBlake2s([]byte("seed"))
	b2.MixFelts(qm31.NewE4(1, 2, 3, 4))
	x = a.DrawFelt()
	y = b2.DrawFelt()
	require.True(t, x.Equal(&y))
}

func TestSuccessiveDrawsDiffer(t *testing.T) {
	c := NewBlake2s([]byte("seed"))
	x := c.DrawFelt()
	y := c.DrawFelt()
	require.False(t, x.Equal(&y))
}
