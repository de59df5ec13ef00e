// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package packet

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jack-libra/go-tc1592/catalog"
	"github.com/jack-libra/go-tc1592/frame"
)

// parse failure kinds
var (
	ErrNotMessage      = errors.New("frame is not a message")
	ErrCommandMismatch = errors.New("payload command code mismatch")
)

// Parse decodes a message frame payload against the catalogue.
//
// An unknown command code is not an error: the returned record carries
// the metadata and raw hex with Known false, and the caller keeps
// running. A truncated list stops at the buffer end; hard length
// violations are caught by the entry validator first.
func Parse(fr frame.Frame, now time.Time) (*Record, error) {
	if fr.Type != frame.TypeMessage {
		return nil, ErrNotMessage
	}

	rec := &Record{
		Seq:        fr.Seq,
		Addr:       fr.Addr,
		Length:     fr.Len,
		ReceivedAt: now,
		Fields:     map[string]interface{}{},
		Labels:     map[string]string{},
	}

	payload := fr.Payload
	if len(payload) > 0 {
		rec.RawHex = strings.ToUpper(hex.EncodeToString(frame.Encode(fr.Seq, fr.Addr, payload)))
	}
	if len(payload) < 2 {
		rec.Name = "未定義"
		return rec, nil
	}
	rec.Code = uint16(payload[0])<<8 | uint16(payload[1])

	entry, ok := catalog.Lookup(rec.Code)
	if !ok {
		rec.Name = "未定義"
		return rec, nil
	}

	if err := entry.ValidLength(len(payload)); err != nil {
		return nil, err
	}

	rec.Known = true
	rec.Entry = entry
	rec.Name = entry.Name
	rec.Direction = entry.Direction
	rec.NeedsAck = entry.NeedsAck

	walkFields(entry, payload, rec)
	return rec, nil
}

// walkFields runs the sequential cursor over the payload. The cursor
// starts past the two command-code bytes; a field with a pinned index
// reads there instead without disturbing the cursor chain.
func walkFields(entry *catalog.Entry, payload []byte, rec *Record) {
	i := 2
	for k := range entry.Fields {
		f := &entry.Fields[k]
		idx := i
		if f.Index > 0 {
			idx = f.Index
		}

		value, next := parseField(f, payload, idx, rec.Fields)
		if value == nil {
			rec.Fields[f.Name] = nil
			continue
		}
		rec.Fields[f.Name] = value

		if f.Map != nil {
			if n, ok := value.(int); ok {
				rec.Labels[f.Name] = f.Map.Apply(byte(n))
			}
		}
		if f.Index == 0 {
			i = next
		}
	}
}

// parseField dispatches on the field type and returns the value plus
// the next cursor position. A nil value means the payload ran out.
func parseField(f *catalog.Field, payload []byte, idx int, sofar map[string]interface{}) (interface{}, int) {
	switch f.Type {
	case catalog.U8:
		if idx >= len(payload) {
			return nil, idx
		}
		return int(payload[idx]), idx + 1

	case catalog.U16BE:
		if idx+1 >= len(payload) {
			return nil, idx
		}
		return int(payload[idx])<<8 | int(payload[idx+1]), idx + 2

	case catalog.HardwareStatus:
		if idx+1 >= len(payload) {
			return nil, idx
		}
		v := catalog.HardwareStatusValue(uint16(payload[idx])<<8 | uint16(payload[idx+1]))
		return v, idx + 2

	case catalog.SignalMap:
		if idx >= len(payload) {
			return nil, idx
		}
		return catalog.ParseSignalMap(payload[idx]), idx + 1

	case catalog.SignalStatusList:
		n := resolveCount(f, payload, idx, sofar, 1)
		out := make([]catalog.SignalStatus, 0, n)
		for k := 0; k < n && idx < len(payload); k++ {
			out = append(out, catalog.ParseSignalStatus(payload[idx]))
			idx++
		}
		return out, idx

	case catalog.TimeSegmentList:
		n := resolveCount(f, payload, idx, sofar, 3)
		out := make([]catalog.TimeSegment, 0, n)
		for k := 0; k < n && idx+2 < len(payload); k++ {
			out = append(out, catalog.TimeSegment{
				Hour:   int(payload[idx]),
				Minute: int(payload[idx+1]),
				PlanID: int(payload[idx+2]),
			})
			idx += 3
		}
		return out, idx

	case catalog.WeekdayList:
		n := resolveCount(f, payload, idx, sofar, 1)
		out := make([]int, 0, n)
		for k := 0; k < n && idx < len(payload); k++ {
			out = append(out, int(payload[idx]))
			idx++
		}
		return out, idx

	case catalog.List:
		n := resolveCount(f, payload, idx, sofar, f.Item.Size())
		size := f.Item.Size()
		if size == 0 {
			size = 1
		}
		out := make([]int, 0, n)
		for k := 0; k < n && idx+size-1 < len(payload); k++ {
			if size == 2 {
				out = append(out, int(payload[idx])<<8|int(payload[idx+1]))
			} else {
				out = append(out, int(payload[idx]))
			}
			idx += size
		}
		return out, idx

	case catalog.StructList:
		n := resolveCount(f, payload, idx, sofar, structSize(f.ItemFields))
		out := make([]map[string]int, 0, n)
		for k := 0; k < n; k++ {
			item := map[string]int{}
			for m := range f.ItemFields {
				sub := &f.ItemFields[m]
				size := sub.Type.Size()
				if idx+size-1 >= len(payload) {
					return out, idx
				}
				if size == 2 {
					item[sub.Name] = int(payload[idx])<<8 | int(payload[idx+1])
				} else {
					item[sub.Name] = int(payload[idx])
				}
				idx += size
			}
			out = append(out, item)
		}
		return out, idx
	}
	return nil, idx
}

// resolveCount evaluates the declared count; a zero count means the
// list runs to the end of the payload.
func resolveCount(f *catalog.Field, payload []byte, idx int, sofar map[string]interface{}, itemSize int) int {
	if f.Count.IsZero() {
		if itemSize <= 0 {
			itemSize = 1
		}
		return (len(payload) - idx) / itemSize
	}
	n, err := f.Count.Resolve(sofar)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func structSize(fields []catalog.Field) int {
	total := 0
	for i := range fields {
		total += fields[i].Type.Size()
	}
	return total
}
