// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package frame

// Buffer accumulates bytes across datagrams and drains whole frames.
// The counterparty may batch several frames per datagram or split one
// frame over two; Buffer only slices, it never decodes.
//
// The LEN field in the message header is read unstuffed: stuffing
// applies to the info region only and the header never contains a raw
// DLE other than the sync byte itself.
type Buffer struct {
	buf []byte
}

// Feed appends data and returns every complete frame now available.
func (sf *Buffer) Feed(data []byte) [][]byte {
	sf.buf = append(sf.buf, data...)

	var frames [][]byte
	for len(sf.buf) >= 3 {
		start, typ := sf.findStart()
		if start < 0 {
			// no candidate sync: drop the noise, but keep a trailing
			// DLE that may be the first half of a split sync pair
			if last := len(sf.buf) - 1; sf.buf[last] == DLE {
				sf.buf[0] = DLE
				sf.buf = sf.buf[:1]
			} else {
				sf.buf = sf.buf[:0]
			}
			break
		}
		if start > 0 {
			sf.buf = sf.buf[start:]
		}

		var total int
		switch typ {
		case TypeMessage:
			if len(sf.buf) < MessageHdrSize {
				return frames // await more input
			}
			total = int(sf.buf[5])<<8 | int(sf.buf[6])
			if total < MessageOverhead {
				// corrupt LEN; skip the sync pair and rescan
				sf.buf = sf.buf[2:]
				continue
			}
		case TypeShortAck:
			total = AckFrameSize
		default:
			total = NakFrameSize
		}

		if len(sf.buf) < total {
			return frames
		}
		frames = append(frames, append([]byte(nil), sf.buf[:total]...))
		sf.buf = sf.buf[total:]
	}
	return frames
}

// Pending reports how many buffered bytes await completion.
func (sf *Buffer) Pending() int { return len(sf.buf) }

func (sf *Buffer) findStart() (int, Type) {
	for i := 0; i+1 < len(sf.buf); i++ {
		if sf.buf[i] != DLE {
			continue
		}
		switch sf.buf[i+1] {
		case STX:
			return i, TypeMessage
		case ACK:
			return i, TypeShortAck
		case NAK:
			return i, TypeNak
		}
	}
	return -1, 0
}
