// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package catalog

import (
	"fmt"
	"strings"
)

// HardwareStatusValue is the 16-bit status word of 0F04. Each set bit
// names one active hardware condition.
type HardwareStatusValue uint16

var hardwareStatusLabels = []struct {
	bit   int
	label string
}{
	{0, "電源異常"},
	{1, "燈泡故障"},
	{2, "綠燈衝突"},
	{3, "時鐘異常"},
	{4, "機門開啟"},
	{5, "通訊模組異常"},
	{6, "閃光運轉中"},
	{7, "全紅運轉中"},
	{8, "現場手動操作中"},
	{9, "行人觸動故障"},
	{10, "車輛偵測器故障"},
	{11, "記憶體異常"},
	{12, "保險絲熔斷"},
	{13, "散熱異常"},
	{14, "備用電源運轉"},
	{15, "韌體版本異常"},
}

// Describe expands the status word into one line per active condition;
// a clean word yields the single line 系統正常.
func (sf HardwareStatusValue) Describe() []string {
	var out []string
	for _, v := range hardwareStatusLabels {
		if sf&(1<<uint(v.bit)) != 0 {
			out = append(out, fmt.Sprintf("   狀態 %d: %s", v.bit, v.label))
		}
	}
	if len(out) == 0 {
		out = append(out, "   狀態: 系統正常")
	}
	return out
}

func (sf HardwareStatusValue) String() string {
	return fmt.Sprintf("0x%04X", uint16(sf))
}

// SettingError is the error-code bitfield of the 0F81 reply.
type SettingError byte

var settingErrorLabels = []struct {
	bit   SettingError
	label string
}{
	{0x01, "無此指令"},
	{0x02, "參數範圍錯誤"},
	{0x04, "位元順序錯誤"},
	{0x08, "設備關列錯誤"},
	{0x10, "忙碌中"},
	{0x20, "資料內容錯誤"},
	{0x40, "參數個數超過實體限制"},
	{0x80, "無此項號或實體不存在"},
}

// String composes active error bits as "label、label (0xNN)".
func (sf SettingError) String() string {
	var labels []string
	for _, v := range settingErrorLabels {
		if sf&v.bit != 0 {
			labels = append(labels, v.label)
		}
	}
	if len(labels) == 0 {
		return fmt.Sprintf("無錯誤 (0x%02X)", byte(sf))
	}
	return fmt.Sprintf("%s (0x%02X)", strings.Join(labels, "、"), byte(sf))
}

var settingErrorMapping = &Mapping{Bitfield: func(b byte) string {
	return SettingError(b).String()
}}

// fieldOperateMapping labels the 5F08 field-operation report byte.
var fieldOperateMapping = &Mapping{Enum: map[byte]string{
	0x01: "現場手動",
	0x02: "現場全紅",
	0x40: "現場閃光",
	0x80: "上次現場操作回復",
}}

// beginEndMapping labels the 5F00 execution-state byte.
var beginEndMapping = &Mapping{Enum: map[byte]string{
	0x01: "開始執行",
	0x02: "結束執行",
}}

// stepIDMapping renders a step id, naming the special flash codes and
// passing ordinary step numbers through.
var stepIDMapping = &Mapping{Bitfield: func(b byte) string {
	special := map[byte]string{
		0x9F: "啟動全紅3秒",
		0xAF: "結束全紅",
		0xCF: "回家時間閃光",
		0xDF: "現場操作閃光",
		0xEF: "電源異常閃光",
		0xFF: "時制異常閃光",
	}
	if s, ok := special[b]; ok {
		return fmt.Sprintf("%s (0x%02X)", s, b)
	}
	return fmt.Sprintf("%d", b)
}}
