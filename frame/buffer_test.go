// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferSingleFrame(t *testing.T) {
	var buf Buffer
	raw := Encode(1, 3, []byte{0x5F, 0x40})

	frames := buf.Feed(raw)
	require.Len(t, frames, 1)
	assert.Equal(t, raw, frames[0])
	assert.Equal(t, 0, buf.Pending())
}

func TestBufferSplitAcrossDatagrams(t *testing.T) {
	var buf Buffer
	payload := make([]byte, 40)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	payload[0], payload[1] = 0x5F, 0x13
	raw := Encode(9, 3, payload) // 50 bytes on wire
	require.Len(t, raw, 50)

	assert.Empty(t, buf.Feed(raw[:20]))
	frames := buf.Feed(raw[20:])
	require.Len(t, frames, 1)
	assert.Equal(t, raw, frames[0])
}

func TestBufferBatchedFrames(t *testing.T) {
	var buf Buffer
	a := Encode(1, 3, []byte{0x5F, 0x40})
	b := EncodeAck(1, 3)
	c := Encode(2, 3, []byte{0x5F, 0x48})

	frames := buf.Feed(append(append(append([]byte(nil), a...), b...), c...))
	require.Len(t, frames, 3)
	assert.Equal(t, a, frames[0])
	assert.Equal(t, b, frames[1])
	assert.Equal(t, c, frames[2])
}

func TestBufferGarbagePrefix(t *testing.T) {
	var buf Buffer
	raw := Encode(1, 3, []byte{0x5F, 0x40})

	data := append([]byte{0x00, 0x13, 0x37, 0xAA, 0x01}, raw...)
	frames := buf.Feed(data)
	require.Len(t, frames, 1)
	assert.Equal(t, raw, frames[0])
}

func TestBufferPureGarbageDropped(t *testing.T) {
	var buf Buffer
	assert.Empty(t, buf.Feed([]byte{0x01, 0x02, 0x03, 0x04}))
	assert.Equal(t, 0, buf.Pending())
}

func TestBufferInterleavedGarbage(t *testing.T) {
	var buf Buffer
	a := Encode(1, 3, []byte{0x5F, 0x40})
	b := EncodeAck(2, 3)

	var data []byte
	data = append(data, 0x10, 0x20)
	data = append(data, a...)
	data = append(data, 0x30)
	data = append(data, b...)

	// feed byte-by-byte: frames must come out whole and in order
	var got [][]byte
	for _, by := range data {
		got = append(got, buf.Feed([]byte{by})...)
	}
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0])
	assert.Equal(t, b, got[1])
}

func TestBufferKeepsTrailingDLE(t *testing.T) {
	var buf Buffer
	raw := EncodeAck(3, 3)

	// garbage then the sync DLE alone: the DLE must survive the sweep
	assert.Empty(t, buf.Feed([]byte{0x10, 0x20, DLE}))
	assert.Equal(t, 1, buf.Pending())

	frames := buf.Feed(raw[1:])
	require.Len(t, frames, 1)
	assert.Equal(t, raw, frames[0])
}

func TestBufferNakFrame(t *testing.T) {
	var buf Buffer
	raw := EncodeNak(4, 3, 0x01)
	frames := buf.Feed(raw)
	require.Len(t, frames, 1)
	assert.Equal(t, raw, frames[0])
}

func TestBufferPartialHeader(t *testing.T) {
	var buf Buffer
	// sync pair only: must wait, not drop
	assert.Empty(t, buf.Feed([]byte{0xAA, 0xBB, 0x01}))
	assert.Equal(t, 3, buf.Pending())
}
