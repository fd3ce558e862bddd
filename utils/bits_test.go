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

package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitReverseIndex(t *testing.T) {
	require.Equal(t, 0, BitReverseIndex(0, 4))
	require.Equal(t, 8, BitReverseIndex(1, 4))
	require.Equal(t, 4, BitReverseIndex(2, 4))
	require.Equal(t, 12, BitReverseIndex(3, 4))
	for i := 0; i < 16; i++ {
		require.Equal(t, i, BitReverseIndex(BitReverseIndex(i, 4), 4))
	}
}

func TestBitReverse(t *testing.T) {
	v := []int{0, 1, 2, 3, 4, 5, 6, 7}
	BitReverse(v)
	require.Equal(t, []int{0, 4, 2, 6, 1, 5, 3, 7}, v)
}

func TestCosetIndexToCircleDomainIndex(t *testing.T) {
	// Size-8 domain: evens map to the first half forward, odds to the
	// second half backward.
	const logSize = 3
	got := make([]int, 8)
	for k := range got {
		got[k] = CosetIndexToCircleDomainIndex(k, logSize)
	}
	require.Equal(t, []int{0, 7, 1, 6, 2, 5, 3, 4}, got)
}

func TestOffsetBitReversedCircleDomainIndexRoundtrip(t *testing.T) {
	const domainLog, evalLog = 4, 5
	n := 1 << evalLog
	for i := 0; i < n; i++ {
		fwd := OffsetBitReversedCircleDomainIndex(i, domainLog, evalLog, 1)
		back := OffsetBitReversedCircleDomainIndex(fwd, domainLog, evalLog, -1)
		require.Equal(t, i, back, "index %d", i)
	}
	// Zero offset is the identity.
	for i := 0; i < n; i++ {
		require.Equal(t, i, OffsetBitReversedCircleDomainIndex(i, domainLog, evalLog, 0))
	}
}
