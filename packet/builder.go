// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package packet

import (
	"github.com/pkg/errors"

	"github.com/jack-libra/go-tc1592/catalog"
	"github.com/jack-libra/go-tc1592/frame"
)

// build failure kinds
var (
	ErrNotBuildable = errors.New("command is not host-sendable")
	ErrBadValue     = errors.New("field value has the wrong shape")
)

// BuildPayload serializes a field-value map into a logical payload,
// group byte and command byte first, then every declared field present
// in the map, in declared order.
func BuildPayload(code uint16, fields map[string]interface{}) ([]byte, error) {
	entry, ok := catalog.Lookup(code)
	if !ok {
		return nil, errors.Wrap(catalog.ErrUnknownCommand, catalog.CodeString(code))
	}
	if !entry.Buildable() {
		return nil, errors.Wrap(ErrNotBuildable, entry.CodeString())
	}

	payload := []byte{byte(code >> 8), byte(code)}
	for i := range entry.Fields {
		f := &entry.Fields[i]

		v, present := fields[f.Name]
		if !present {
			if f.HasPreset {
				v = f.Preset
			} else {
				continue
			}
		}

		b, err := buildField(f, v)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %s", entry.CodeString(), f.Name)
		}
		payload = append(payload, b...)
	}
	return payload, nil
}

// Build frames a payload with the given sequence number and address.
func Build(seq byte, addr uint16, code uint16, fields map[string]interface{}) ([]byte, error) {
	payload, err := BuildPayload(code, fields)
	if err != nil {
		return nil, err
	}
	return frame.Encode(seq, addr, payload), nil
}

func buildField(f *catalog.Field, v interface{}) ([]byte, error) {
	switch f.Type {
	case catalog.U8, catalog.SignalMap:
		n, ok := v.(int)
		if !ok {
			return nil, ErrBadValue
		}
		return []byte{byte(n)}, nil

	case catalog.U16BE, catalog.HardwareStatus:
		n, ok := v.(int)
		if !ok {
			return nil, ErrBadValue
		}
		return []byte{byte(n >> 8), byte(n)}, nil

	case catalog.List, catalog.SignalStatusList, catalog.WeekdayList:
		items, ok := v.([]int)
		if !ok {
			return nil, ErrBadValue
		}
		size := 1
		if f.Type == catalog.List && f.Item == catalog.U16BE {
			size = 2
		}
		out := make([]byte, 0, len(items)*size)
		for _, n := range items {
			if size == 2 {
				out = append(out, byte(n>>8), byte(n))
			} else {
				out = append(out, byte(n))
			}
		}
		return out, nil

	case catalog.TimeSegmentList:
		segs, ok := v.([]catalog.TimeSegment)
		if !ok {
			return nil, ErrBadValue
		}
		out := make([]byte, 0, len(segs)*3)
		for _, s := range segs {
			out = append(out, byte(s.Hour), byte(s.Minute), byte(s.PlanID))
		}
		return out, nil

	case catalog.StructList:
		items, ok := v.([]map[string]int)
		if !ok {
			return nil, ErrBadValue
		}
		var out []byte
		for _, item := range items {
			for i := range f.ItemFields {
				sub := &f.ItemFields[i]
				n := item[sub.Name]
				if sub.Type.Size() == 2 {
					out = append(out, byte(n>>8), byte(n))
				} else {
					out = append(out, byte(n))
				}
			}
		}
		return out, nil
	}
	return nil, ErrBadValue
}
