// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package track

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSeqWraps(t *testing.T) {
	tr := New()

	assert.Equal(t, byte(1), tr.NextSeq())
	assert.Equal(t, byte(2), tr.NextSeq())

	// drive to the wrap point: no value may repeat within 256 allocations
	seen := map[byte]bool{1: true, 2: true}
	var last byte = 2
	for i := 0; i < 253; i++ {
		s := tr.NextSeq()
		assert.Equal(t, byte(last+1), s)
		assert.False(t, seen[s], "seq %d repeated", s)
		seen[s] = true
		last = s
	}
	assert.Equal(t, byte(255), last)
	assert.Equal(t, byte(0), tr.NextSeq()) // 255 wraps to 0
}

func TestRegisterAck(t *testing.T) {
	tr := New()
	now := time.Now()

	seq := tr.NextSeq()
	out := tr.Register(seq, 0x5F10, "設定控制策略", now)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, 1, tr.Len())

	got, ok := tr.Ack(seq)
	require.True(t, ok)
	assert.Equal(t, out.ID, got.ID)
	assert.Equal(t, uint16(0x5F10), got.Code)
	assert.Equal(t, 0, tr.Len())

	// a second ack for the same seq matches nothing
	_, ok = tr.Ack(seq)
	assert.False(t, ok)
}

func TestDrop(t *testing.T) {
	tr := New()
	seq := tr.NextSeq()
	tr.Register(seq, 0x5F40, "查詢控制策略", time.Now())
	tr.Drop(seq)
	assert.Equal(t, 0, tr.Len())
}

func TestPendingOrdered(t *testing.T) {
	tr := New()
	base := time.Now()
	tr.Register(2, 0x5F48, "b", base.Add(time.Second))
	tr.Register(1, 0x5F40, "a", base)

	p := tr.Pending()
	require.Len(t, p, 2)
	assert.Equal(t, "a", p[0].Desc)
	assert.Equal(t, "b", p[1].Desc)
}

func TestConcurrentAllocation(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	var mu sync.Mutex
	counts := map[byte]int{}

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 32; i++ {
				s := tr.NextSeq()
				mu.Lock()
				counts[s]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// 256 allocations over an 8-bit counter: every value exactly once
	assert.Len(t, counts, 256)
	for s, n := range counts {
		assert.Equal(t, 1, n, "seq %d", s)
	}
}
