// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package catalog

import (
	"fmt"
	"strings"
)

// ControlStrategy is the signalling-mode bitfield of 5F10/5FC0/5F0C.
type ControlStrategy byte

// control strategy bits
const (
	CSFixedTime          ControlStrategy = 1 << iota // 定時控制
	CSDynamic                                        // 動態控制
	CSIntersectionManual                             // 路口手動
	CSCentralManual                                  // 中央手動
	CSPhaseControl                                   // 時相控制
	CSImmediateControl                               // 即時控制
	CSActuated                                       // 觸動控制
	CSSpecialRoute                                   // 特別路線控制
)

var strategyLabels = []struct {
	bit   ControlStrategy
	label string
}{
	{CSFixedTime, "定時控制"},
	{CSDynamic, "動態控制"},
	{CSIntersectionManual, "路口手動"},
	{CSCentralManual, "中央手動"},
	{CSPhaseControl, "時相控制"},
	{CSImmediateControl, "即時控制"},
	{CSActuated, "觸動控制"},
	{CSSpecialRoute, "特別路線控制"},
}

// Labels returns the names of every active bit, low bit first.
func (sf ControlStrategy) Labels() []string {
	var out []string
	for _, v := range strategyLabels {
		if sf&v.bit != 0 {
			out = append(out, v.label)
		}
	}
	return out
}

// String composes active bits as "label、label (0xNN)"; no bits set
// renders as 無設定策略.
func (sf ControlStrategy) String() string {
	labels := sf.Labels()
	if len(labels) == 0 {
		return "無設定策略"
	}
	return fmt.Sprintf("%s (0x%02X)", strings.Join(labels, "、"), byte(sf))
}

// strategyMapping is the catalogue-facing bitfield mapping.
var strategyMapping = &Mapping{Bitfield: func(b byte) string {
	return ControlStrategy(b).String()
}}
