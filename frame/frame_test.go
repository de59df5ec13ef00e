// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package frame

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	assert.Equal(t, byte(0), Checksum(nil))
	assert.Equal(t, byte(0x79), Checksum([]byte{0xAA, 0xDD, 0x05, 0x00, 0x03, 0x00, 0x08}))
}

func TestStuffUnstuff(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		stuffed []byte
	}{
		{"no DLE", []byte{0x5F, 0x40}, []byte{0x5F, 0x40}},
		{"single DLE", []byte{0x5F, 0xAA, 0x01}, []byte{0x5F, 0xAA, 0xAA, 0x01}},
		{"leading DLE", []byte{0xAA}, []byte{0xAA, 0xAA}},
		{"trailing DLE", []byte{0x01, 0xAA}, []byte{0x01, 0xAA, 0xAA}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.stuffed, Stuff(tt.payload))
			assert.Equal(t, tt.payload, Unstuff(tt.stuffed))
		})
	}

	// runs of DLE of every length 1..5
	for n := 1; n <= 5; n++ {
		run := bytes.Repeat([]byte{DLE}, n)
		stuffed := Stuff(run)
		assert.Len(t, stuffed, 2*n)
		assert.Equal(t, run, Unstuff(stuffed))
	}
}

func TestStuffUnstuffRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		payload := make([]byte, rnd.Intn(64))
		for j := range payload {
			if rnd.Intn(3) == 0 {
				payload[j] = DLE
			} else {
				payload[j] = byte(rnd.Intn(256))
			}
		}
		require.Equal(t, payload, Unstuff(Stuff(payload)))
	}
}

func TestEncodeAckVector(t *testing.T) {
	// spec'd round-trip vector for the short-ack shape
	got := Encode(0x05, 0x0003, nil)
	assert.Equal(t, []byte{0xAA, 0xDD, 0x05, 0x00, 0x03, 0x00, 0x08, 0x79}, got)

	fr, err := Decode(got)
	require.NoError(t, err)
	assert.Equal(t, TypeShortAck, fr.Type)
	assert.Equal(t, byte(5), fr.Seq)
	assert.Equal(t, uint16(3), fr.Addr)
	assert.Equal(t, uint16(8), fr.Len)
}

func TestEncodeDecodeMessage(t *testing.T) {
	payload := []byte{0x5F, 0x10, 0x03, 0x3C}
	raw := Encode(0x12, 0x0003, payload)

	assert.Equal(t, byte(DLE), raw[0])
	assert.Equal(t, byte(STX), raw[1])
	assert.Equal(t, len(raw), int(raw[5])<<8|int(raw[6]))

	fr, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, TypeMessage, fr.Type)
	assert.Equal(t, byte(0x12), fr.Seq)
	assert.Equal(t, uint16(3), fr.Addr)
	assert.Equal(t, payload, fr.Payload)
}

func TestEncodeDecodeStuffedPayload(t *testing.T) {
	// control-strategy byte 0xAA must go out as AA AA and come back as one byte
	payload := []byte{0x5F, 0x10, 0xAA, 0x3C}
	raw := Encode(0x01, 0x0003, payload)

	assert.Equal(t, MessageOverhead+5, len(raw)) // one byte of stuffing
	assert.True(t, bytes.Contains(raw[MessageHdrSize:len(raw)-3], []byte{0xAA, 0xAA}))

	fr, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, payload, fr.Payload)
}

func TestEncodeDecodeRandomPayloads(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		payload := make([]byte, 1+rnd.Intn(48))
		for j := range payload {
			payload[j] = byte(rnd.Intn(256))
		}
		fr, err := Decode(Encode(byte(i), uint16(i*3), payload))
		require.NoError(t, err)
		require.Equal(t, payload, fr.Payload)
	}
}

func TestEncodeDecodeNak(t *testing.T) {
	raw := EncodeNak(0x07, 0x0003, 0x02)
	assert.Len(t, raw, NakFrameSize)

	fr, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, TypeNak, fr.Type)
	assert.Equal(t, byte(0x02), fr.Err)
}

func TestDecodeFailures(t *testing.T) {
	good := Encode(0x01, 0x0003, []byte{0x5F, 0x40})

	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"empty", nil, ErrShortFrame},
		{"two bytes", []byte{0xAA, 0xBB}, ErrShortFrame},
		{"no sync", []byte{0x00, 0xBB, 0x01}, ErrBadSync},
		{"unknown type", []byte{0xAA, 0x99, 0x01}, ErrUnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	t.Run("bad checksum", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		bad[len(bad)-1] ^= 0xFF
		_, err := Decode(bad)
		assert.True(t, errors.Is(err, ErrBadChecksum))
	})

	t.Run("bad trailer", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		bad[len(bad)-2] = 0x00 // clobber ETX
		bad[len(bad)-1] = Checksum(bad[:len(bad)-1])
		_, err := Decode(bad)
		assert.True(t, errors.Is(err, ErrBadTrailer))
	})
}

func TestFrameString(t *testing.T) {
	fr, err := Decode(EncodeAck(1, 3))
	require.NoError(t, err)
	assert.Equal(t, "ACK[seq: 0x01, addr: 0x0003]", fr.String())
}
