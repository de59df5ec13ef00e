// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package packet

import (
	"fmt"

	"github.com/jack-libra/go-tc1592/catalog"
)

const renderRule = "============================================================"

// Render produces the stable multi-line log form of a decoded record.
// Fields print in declared catalogue order, one line each; list types
// expand to one line per element, indented for signal-status lists.
func Render(rec *Record) []string {
	lines := []string{
		renderRule,
		fmt.Sprintf("接收 %s 封包: %s", rec.CodeString(), rec.RawHex),
		"=== 封包詳細資訊 ===",
		fmt.Sprintf("序列號 (SEQ): 0x%02X", rec.Seq),
		fmt.Sprintf("控制器編號: %s", rec.ControllerID()),
		fmt.Sprintf("指令: %s", rec.CodeString()),
		fmt.Sprintf("訊息型態: %s", rec.Direction),
	}

	if !rec.Known {
		lines = append(lines, "指令未定義")
	} else {
		for i := range rec.Entry.Fields {
			lines = append(lines, renderField(rec, &rec.Entry.Fields[i])...)
		}
	}

	lines = append(lines,
		fmt.Sprintf("原始資料: %s", rec.RawHex),
		fmt.Sprintf("接收時間: %s", rec.ReceivedAt.Format("2006-01-02T15:04:05")),
		renderRule,
	)
	return lines
}

func renderField(rec *Record, f *catalog.Field) []string {
	v, ok := rec.Fields[f.Name]
	if !ok || v == nil {
		return []string{fmt.Sprintf("%s: -", f.Name)}
	}

	if label, ok := rec.Labels[f.Name]; ok {
		return []string{fmt.Sprintf("%s: %s", f.Name, label)}
	}

	switch val := v.(type) {
	case int:
		if f.Hex {
			if f.Type == catalog.U16BE {
				return []string{fmt.Sprintf("%s: 0x%04X", f.Name, val)}
			}
			return []string{fmt.Sprintf("%s: 0x%02X", f.Name, val)}
		}
		return []string{fmt.Sprintf("%s: %d", f.Name, val)}

	case catalog.SignalMapValue:
		return []string{fmt.Sprintf("%s: %s", f.Name, val)}

	case catalog.HardwareStatusValue:
		lines := []string{fmt.Sprintf("%s: %s", f.Name, val)}
		return append(lines, val.Describe()...)

	case []catalog.SignalStatus:
		var lines []string
		for i, s := range val {
			lines = append(lines, fmt.Sprintf("   方向 %d: %s", i+1, s))
		}
		return lines

	case []catalog.TimeSegment:
		var lines []string
		for i, s := range val {
			lines = append(lines, fmt.Sprintf("時段 %d: %s", i+1, s))
		}
		return lines

	case []int:
		if f.Type == catalog.WeekdayList {
			var lines []string
			for _, n := range val {
				lines = append(lines, fmt.Sprintf("%s: %s", f.Name, catalog.WeekdayName(n)))
			}
			if len(lines) == 0 {
				lines = append(lines, fmt.Sprintf("%s: -", f.Name))
			}
			return lines
		}
		var lines []string
		for i, n := range val {
			lines = append(lines, fmt.Sprintf("%s %d: %d", f.Name, i+1, n))
		}
		return lines
	}

	return []string{fmt.Sprintf("%s: %v", f.Name, v)}
}
