// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package track allocates sequence numbers and correlates outstanding
// outbound commands with their short-acks.
package track

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/xid"
)

// Outstanding is one sent command awaiting its short-ack.
type Outstanding struct {
	ID     string // unique id correlating send and ack log entries
	Seq    byte
	Code   uint16
	Desc   string
	SentAt time.Time
}

// Tracker owns the process-wide 8-bit sequence counter and the pending
// table. One mutex guards both so allocation and removal exclude each
// other; there is no retransmission and no timeout-driven reaping.
type Tracker struct {
	mu      sync.Mutex
	seq     uint8
	pending map[byte]Outstanding
}

// New returns an empty tracker; the first allocated sequence is 1.
func New() *Tracker {
	return &Tracker{pending: make(map[byte]Outstanding)}
}

// NextSeq increments and returns the counter, wrapping 255 to 0.
func (sf *Tracker) NextSeq() byte {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	sf.seq++
	return sf.seq
}

// Register records an outbound command under seq.
func (sf *Tracker) Register(seq byte, code uint16, desc string, now time.Time) Outstanding {
	out := Outstanding{
		ID:     xid.New().String(),
		Seq:    seq,
		Code:   code,
		Desc:   desc,
		SentAt: now,
	}
	sf.mu.Lock()
	sf.pending[seq] = out
	sf.mu.Unlock()
	return out
}

// Ack removes and returns the record matching seq, if any.
func (sf *Tracker) Ack(seq byte) (Outstanding, bool) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	out, ok := sf.pending[seq]
	if ok {
		delete(sf.pending, seq)
	}
	return out, ok
}

// Drop discards the record for seq without treating it as acked.
func (sf *Tracker) Drop(seq byte) {
	sf.mu.Lock()
	delete(sf.pending, seq)
	sf.mu.Unlock()
}

// Pending snapshots the outstanding records ordered by send time.
func (sf *Tracker) Pending() []Outstanding {
	sf.mu.Lock()
	out := make([]Outstanding, 0, len(sf.pending))
	for _, v := range sf.pending {
		out = append(out, v)
	}
	sf.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out
}

// Len reports how many commands await their ack.
func (sf *Tracker) Len() int {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return len(sf.pending)
}
