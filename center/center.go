// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package center composes the protocol pipeline: framer, codec,
// parser, builder, renderer and correlation, over one shared socket.
package center

import (
	"context"
	"encoding/hex"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jack-libra/go-tc1592/catalog"
	"github.com/jack-libra/go-tc1592/frame"
	"github.com/jack-libra/go-tc1592/metrics"
	"github.com/jack-libra/go-tc1592/packet"
	"github.com/jack-libra/go-tc1592/track"
)

// Sender writes one datagram; a nil target means the configured
// controller endpoint.
type Sender interface {
	Send(b []byte, to *net.UDPAddr) error
}

// Receiver reads one datagram with a bounded block; a timeout returns
// n == 0 with a nil error.
type Receiver interface {
	Recv(buf []byte) (int, *net.UDPAddr, error)
}

// LastStep is the in-memory cross-command scratch: the most recent
// step report, read when a step-transition report arrives.
type LastStep struct {
	SubPhase int
	Step     int
	Seconds  int
	Valid    bool
}

const logRule = "============================================================"

// Center orchestrates the per-frame pipeline and owns the per-mode
// behaviour. Parsing, ack emission and correlation are identical in
// both modes; only log_modes filtering and the attached driver differ.
type Center struct {
	mode  catalog.Mode
	addr  uint16
	sock  Sender
	buf   frame.Buffer
	track *track.Tracker
	log   logrus.FieldLogger
	met   *metrics.Set

	// onMessage is invoked for every parsed known message, after
	// render and ack; the command driver hooks replies here.
	onMessage func(*packet.Record)

	mu       sync.Mutex
	lastStep LastStep
}

// New wires a center over the given socket. deviceID becomes the
// frame-level address of every outbound message.
func New(mode catalog.Mode, deviceID int, sock Sender, log logrus.FieldLogger, met *metrics.Set) *Center {
	if met == nil {
		met = metrics.New(nil)
	}
	return &Center{
		mode:  mode,
		addr:  uint16(deviceID),
		sock:  sock,
		track: track.New(),
		log:   log,
		met:   met,
	}
}

// Tracker exposes the correlation table for the driver's status view.
func (sf *Center) Tracker() *track.Tracker { return sf.track }

// LastStep returns the remembered step report.
func (sf *Center) LastStep() LastStep {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.lastStep
}

// OnMessage registers the driver callback. Command mode only; the
// receive thread invokes it, so the handler must be short.
func (sf *Center) OnMessage(fn func(*packet.Record)) { sf.onMessage = fn }

// OnDatagram feeds raw bytes through the framer and processes every
// complete frame in arrival order. The ack for frame N goes out before
// frame N+1 is parsed.
func (sf *Center) OnDatagram(data []byte, from *net.UDPAddr) {
	for _, raw := range sf.buf.Feed(data) {
		sf.handleFrame(raw, from)
	}
}

func (sf *Center) handleFrame(raw []byte, from *net.UDPAddr) {
	sf.met.FramesIn.Inc()

	fr, err := frame.Decode(raw)
	if err != nil {
		sf.met.FramesDropped.WithLabelValues(dropReason(err)).Inc()
		sf.log.Warnf("封包解碼失敗: %v (%s)", err, strings.ToUpper(hex.EncodeToString(raw)))
		return
	}

	switch fr.Type {
	case frame.TypeShortAck:
		sf.handleAck(fr)
		return
	case frame.TypeNak:
		sf.met.FramesDropped.WithLabelValues("nak").Inc()
		sf.log.Warnf("收到NAK: Seq=0x%02X, 錯誤=%s", fr.Seq, catalog.SettingError(fr.Err))
		return
	}

	rec, err := packet.Parse(fr, time.Now())
	if err != nil {
		sf.met.FramesDropped.WithLabelValues(dropReason(err)).Inc()
		sf.log.Warnf("封包解析失敗: %v", err)
		return
	}
	sf.met.MessagesParsed.Inc()

	if !rec.Known {
		sf.met.UnknownCommands.Inc()
		sf.log.Warnf("收到未知命令封包: %s", rec.CodeString())
		sf.log.Warnf("封包內容: %s", rec.RawHex)
		return
	}

	sf.updateScratch(rec)

	if rec.Entry.LogsIn(sf.mode) {
		for _, line := range packet.Render(rec) {
			sf.log.Info(line)
		}
		if rec.Code == 0x5F0C {
			if step := sf.LastStep(); step.Valid {
				sf.log.Infof("目前步階秒數: %d 秒", step.Seconds)
			}
		}
	}

	if rec.NeedsAck {
		sf.emitAck(rec, from)
	}

	if sf.onMessage != nil {
		sf.onMessage(rec)
	}
}

func (sf *Center) handleAck(fr frame.Frame) {
	out, ok := sf.track.Ack(fr.Seq)
	if !ok {
		sf.met.AcksUnexpected.Inc()
		sf.log.Warnf("收到未預期的ACK (Seq=0x%02X)", fr.Seq)
		return
	}
	sf.met.AcksMatched.Inc()
	sf.log.Infof("[ACK] 收到確認: Seq=0x%02X, %s [%s]", fr.Seq, out.Desc, out.ID)
}

// emitAck sends exactly one short-ack carrying the incoming frame's
// seq and addr, back to the source of the triggering datagram so
// intermediary relays are preserved.
func (sf *Center) emitAck(rec *packet.Record, from *net.UDPAddr) {
	ack := sf.BuildAck(rec.Seq, rec.Addr)
	if err := sf.sock.Send(ack, from); err != nil {
		sf.met.SendFailures.Inc()
		sf.log.Errorf("發送ACK失敗: %v", err)
		return
	}
	sf.met.AcksEmitted.Inc()
	sf.log.Infof("發送ACK: Seq=0x%02X, 回應封包=%s", rec.Seq, rec.CodeString())
}

// BuildAck builds the short-ack frame for seq/addr.
func (sf *Center) BuildAck(seq byte, addr uint16) []byte {
	return frame.EncodeAck(seq, addr)
}

// SendCommand allocates a sequence number, frames and sends the
// command, and registers it for correlation. A failed send registers
// nothing.
func (sf *Center) SendCommand(code uint16, fields map[string]interface{}, desc string) (byte, error) {
	seq := sf.track.NextSeq()

	raw, err := packet.Build(seq, sf.addr, code, fields)
	if err != nil {
		return 0, err
	}

	if err := sf.sock.Send(raw, nil); err != nil {
		sf.met.SendFailures.Inc()
		return 0, err
	}

	out := sf.track.Register(seq, code, desc, time.Now())
	sf.met.CommandsSent.Inc()

	sf.log.Info(logRule)
	sf.log.Infof("發送指令: %s (SEQ: %d) [%s]", desc, seq, out.ID)
	sf.log.Infof("封包內容: %s", strings.ToUpper(hex.EncodeToString(raw)))
	sf.log.Info(logRule)
	return seq, nil
}

// ReceiveLoop drains the socket until ctx is cancelled. Decode and
// parse failures never leave this loop.
func (sf *Center) ReceiveLoop(ctx context.Context, r Receiver) {
	sf.log.Info("接收線程已啟動")
	buf := make([]byte, 4096)

	for ctx.Err() == nil {
		n, addr, err := r.Recv(buf)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			sf.log.Errorf("接收數據失敗: %v", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if n == 0 {
			continue
		}
		sf.OnDatagram(buf[:n], addr)
	}
	sf.log.Info("接收線程已停止")
}

func (sf *Center) updateScratch(rec *packet.Record) {
	if rec.Code != 0x5F03 {
		return
	}
	step := LastStep{Valid: true}
	if v, ok := rec.Fields["分相序號"].(int); ok {
		step.SubPhase = v
	}
	if v, ok := rec.Fields["步階序號"].(int); ok {
		step.Step = v
	}
	if v, ok := rec.Fields["步階秒數"].(int); ok {
		step.Seconds = v
	}
	sf.mu.Lock()
	sf.lastStep = step
	sf.mu.Unlock()
}

func dropReason(err error) string {
	switch {
	case errors.Is(err, frame.ErrShortFrame):
		return "short_frame"
	case errors.Is(err, frame.ErrBadSync):
		return "bad_sync"
	case errors.Is(err, frame.ErrBadChecksum):
		return "bad_checksum"
	case errors.Is(err, frame.ErrBadTrailer):
		return "bad_trailer"
	case errors.Is(err, frame.ErrUnknownType):
		return "unknown_type"
	case errors.Is(err, catalog.ErrBadLength):
		return "bad_length"
	}
	return "other"
}
