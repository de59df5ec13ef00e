// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package catalog

import (
	"fmt"
	"strings"
)

// SignalBits is the 8-bit decomposition of a status byte, bit 0 first.
type SignalBits [8]byte

// BitsOf splits b into its bits, lowest first.
func BitsOf(b byte) SignalBits {
	var bits SignalBits
	for i := 0; i < 8; i++ {
		bits[i] = (b >> uint(i)) & 1
	}
	return bits
}

// SignalMapValue is a signal-map byte with its bit decomposition.
type SignalMapValue struct {
	Raw  byte
	Bits SignalBits
}

// ParseSignalMap decodes one signal-map byte.
func ParseSignalMap(b byte) SignalMapValue {
	return SignalMapValue{Raw: b, Bits: BitsOf(b)}
}

func (sf SignalMapValue) String() string {
	parts := make([]string, 8)
	for i, b := range sf.Bits {
		parts[i] = fmt.Sprintf("%d", b)
	}
	return fmt.Sprintf("0x%02X = [%s]", sf.Raw, strings.Join(parts, ","))
}

// SignalStatus is the per-direction lane-light and pedestrian-light
// state carried in one signal-status byte.
//
// bit0 all-red, bit1 yellow, bit2 green, bit3 left, bit4 straight,
// bit5 right, bit6 pedestrian green, bit7 pedestrian red.
type SignalStatus struct {
	Raw       byte
	AllRed    bool
	Yellow    bool
	Green     bool
	TurnLeft  bool
	Straight  bool
	TurnRight bool
	PedGreen  bool
	PedRed    bool
	PedFlash  bool
}

// ParseSignalStatus decodes one status byte. The pedestrian lights have
// one non-obvious encoding, centralized here and nowhere else: green
// and red both set does not mean a conflict, it means flashing green.
func ParseSignalStatus(b byte) SignalStatus {
	s := SignalStatus{
		Raw:       b,
		AllRed:    b&0x01 != 0,
		Yellow:    b&0x02 != 0,
		Green:     b&0x04 != 0,
		TurnLeft:  b&0x08 != 0,
		Straight:  b&0x10 != 0,
		TurnRight: b&0x20 != 0,
	}
	green := b&0x40 != 0
	red := b&0x80 != 0
	if green && red {
		s.PedFlash = true
	} else {
		s.PedGreen = green
		s.PedRed = red
	}
	return s
}

// String composes the log phrase: vehicle phase, then turn bits, then
// the pedestrian phase, joined with 、.
func (sf SignalStatus) String() string {
	var parts []string

	// the vehicle phase is exclusive, first set bit wins
	switch {
	case sf.AllRed:
		parts = append(parts, "全紅")
	case sf.Yellow:
		parts = append(parts, "黃燈")
	case sf.Green:
		parts = append(parts, "綠燈")
	}

	var turns []string
	if sf.TurnLeft {
		turns = append(turns, "左轉")
	}
	if sf.Straight {
		turns = append(turns, "直行")
	}
	if sf.TurnRight {
		turns = append(turns, "右轉")
	}
	if len(turns) > 0 {
		parts = append(parts, strings.Join(turns, "、"))
	}

	switch {
	case sf.PedFlash:
		parts = append(parts, "行人綠燈閃爍")
	case sf.PedGreen:
		parts = append(parts, "行人綠燈")
	case sf.PedRed:
		parts = append(parts, "行人紅燈")
	}

	if len(parts) == 0 {
		return "無燈號"
	}
	return strings.Join(parts, "、")
}
