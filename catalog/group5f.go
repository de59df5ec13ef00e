// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package catalog

// 5F group: traffic-signal management. Phase layout, control strategy,
// time plans, day segments, step transitions and field-manual reports.
// Codes and field ordering are controller firmware facts and must not
// be reordered.

func init() {
	register(
		// ---- 主動回報 ----
		&Entry{
			Code:      0x5F00,
			Name:      "控制策略執行回報",
			Desc:      "自動回報控制策略之目前執行內容",
			Direction: AsyncReport,
			LogModes:  []Mode{ModeReceive},
			ExactLen:  4,
			Fields: []Field{
				{Name: "控制策略", Type: U8, Map: strategyMapping},
				{Name: "執行狀態", Type: U8, Map: beginEndMapping},
			},
		},
		&Entry{
			Code:      0x5F03,
			Name:      "步階轉換回報",
			Desc:      "主動回報號誌控制器步階轉換之資料",
			Direction: AsyncReport,
			NeedsAck:  true,
			LogModes:  []Mode{ModeReceive, ModeCommand},
			MinLen:    9,
			Fields: []Field{
				{Name: "時相編號", Type: U8, Hex: true},
				{Name: "號誌位置圖", Type: SignalMap},
				{Name: "信號燈數量", Type: U8, Min: 1, Max: 8},
				{Name: "分相序號", Type: U8},
				{Name: "步階序號", Type: U8, Map: stepIDMapping},
				{Name: "步階秒數", Type: U16BE},
				{Name: "信號狀態", Type: SignalStatusList, Count: FieldRef("信號燈數量")},
			},
		},
		&Entry{
			Code:      0x5F08,
			Name:      "現場操作回報",
			Desc:      "回報號誌控制器現場操作",
			Direction: AsyncReport,
			LogModes:  []Mode{ModeReceive},
			ExactLen:  3,
			Fields: []Field{
				{Name: "現場操作", Type: U8, Map: fieldOperateMapping},
			},
		},
		&Entry{
			Code:      0x5F0C,
			Name:      "時相步階變換回報",
			Desc:      "主動回報現行時相及步階",
			Direction: AsyncReport,
			LogModes:  []Mode{ModeReceive, ModeCommand},
			ExactLen:  5,
			Fields: []Field{
				{Name: "控制策略", Type: U8, Map: strategyMapping},
				{Name: "分相序號", Type: U8},
				{Name: "步階序號", Type: U8, Map: stepIDMapping},
			},
		},

		// ---- 設定 ----
		&Entry{
			Code:      0x5F10,
			Name:      "設定控制策略",
			Desc:      "設定控制策略與有效時間",
			Direction: Setting,
			LogModes:  []Mode{ModeReceive},
			ExactLen:  4,
			Fields: []Field{
				{Name: "控制策略", Type: U8, Map: strategyMapping},
				{Name: "有效時間", Type: U8, Desc: "有效時間（分鐘）"},
			},
			Steps: []Step{
				{
					Prompt: "步驟 {step}/{total}: 輸入控制策略與有效時間（分鐘），空白分隔\n範例: 3 60\n> ",
					Fields: []string{"控制策略", "有效時間"},
				},
				{Confirm: true},
			},
		},
		&Entry{
			Code:      0x5F13,
			Name:      "設定時相排列",
			Desc:      "設定時相排列與各方向信號狀態",
			Direction: Setting,
			LogModes:  []Mode{ModeReceive},
			MinLen:    6,
			Fields: []Field{
				{Name: "時相編號", Type: U8, Input: InputHex, Max: 0xFE, Hex: true},
				{Name: "號誌位置圖", Type: SignalMap, Input: InputBinary},
				{Name: "信號燈數量", Type: U8, Min: 1, Max: 8},
				{Name: "綠燈分相數", Type: U8, Min: 1, Max: 8},
				{Name: "信號狀態", Type: SignalStatusList,
					Count: FieldProduct("信號燈數量", "綠燈分相數")},
			},
			Steps: []Step{
				{
					Prompt: "步驟 {step}/{total}: 輸入時相編號(hex) 號誌位置圖(二進位8碼) 信號燈數量 綠燈分相數\n範例: 40 10101010 8 3\n> ",
					Fields: []string{"時相編號", "號誌位置圖", "信號燈數量", "綠燈分相數"},
				},
				{
					Prompt:    "步驟 {step}/{total}: 輸入 {count} 個信號狀態值（十進位，空白分隔）\n> ",
					ListField: "信號狀態",
				},
				{Confirm: true},
			},
		},
		&Entry{
			Code:      0x5F14,
			Name:      "設定時制計畫參數",
			Desc:      "設定時制計畫之週期、時差與各分相綠燈時間",
			Direction: Setting,
			LogModes:  []Mode{ModeReceive},
			MinLen:    6,
			Fields: []Field{
				{Name: "時制計畫編號", Type: U8},
				{Name: "基準方向", Type: U8},
				{Name: "時相編號", Type: U8, Input: InputHex, Hex: true},
				{Name: "綠燈分相數", Type: U8, Min: 1, Max: 8},
				{Name: "綠燈時間", Type: List, Item: U16BE, Count: FieldRef("綠燈分相數")},
				{Name: "週期秒數", Type: U16BE},
				{Name: "時差秒數", Type: U16BE},
			},
			Steps: []Step{
				{
					Prompt: "步驟 {step}/{total}: 輸入時制計畫編號 基準方向 時相編號(hex) 綠燈分相數\n範例: 1 1 40 3\n> ",
					Fields: []string{"時制計畫編號", "基準方向", "時相編號", "綠燈分相數"},
				},
				{
					Prompt:    "步驟 {step}/{total}: 輸入 {count} 個分相綠燈秒數（空白分隔）\n> ",
					ListField: "綠燈時間",
				},
				{
					Prompt: "步驟 {step}/{total}: 輸入週期秒數與時差秒數\n範例: 120 30\n> ",
					Fields: []string{"週期秒數", "時差秒數"},
				},
				{Confirm: true},
			},
		},
		&Entry{
			Code:      0x5F16,
			Name:      "設定日時段型態",
			Desc:      "設定一般日時段型態",
			Direction: Setting,
			LogModes:  []Mode{ModeReceive},
			MinLen:    4,
			Fields: []Field{
				{Name: "時段型態", Type: U8},
				{Name: "時段數目", Type: U8, Min: 1, Max: 24},
				{Name: "時段列表", Type: TimeSegmentList, Count: FieldRef("時段數目")},
				{Name: "星期數目", Type: U8, Min: 1, Max: 14},
				{Name: "星期列表", Type: WeekdayList, Count: FieldRef("星期數目")},
			},
			Steps: []Step{
				{
					Prompt: "步驟 {step}/{total}: 輸入時段型態與時段數目\n範例: 1 2\n> ",
					Fields: []string{"時段型態", "時段數目"},
				},
				{
					Prompt:    "步驟 {step}/{total}: 輸入 {count} 組時段，每組為 時 分 計畫ID\n範例: 8 0 1 18 0 2\n> ",
					ListField: "時段列表",
				},
				{
					Prompt: "步驟 {step}/{total}: 輸入星期數目\n範例: 5\n> ",
					Fields: []string{"星期數目"},
				},
				{
					Prompt:    "步驟 {step}/{total}: 輸入 {count} 個星期代碼（1..7，隔週 11..17）\n範例: 1 2 3 4 5\n> ",
					ListField: "星期列表",
				},
				{Confirm: true},
			},
		},
		&Entry{
			Code:      0x5F18,
			Name:      "選擇執行時制計畫",
			Desc:      "選擇執行之時制計畫",
			Direction: Setting,
			LogModes:  []Mode{ModeReceive},
			ExactLen:  3,
			Fields: []Field{
				{Name: "時制計畫編號", Type: U8},
			},
			Steps: []Step{
				{
					Prompt: "步驟 {step}/{total}: 輸入時制計畫編號\n範例: 1\n> ",
					Fields: []string{"時制計畫編號"},
				},
				{Confirm: true},
			},
		},
		&Entry{
			Code:      0x5F1C,
			Name:      "設定時相步階變換",
			Desc:      "設定時相或步階變換控制",
			Direction: Setting,
			LogModes:  []Mode{ModeReceive},
			ExactLen:  5,
			Fields: []Field{
				{Name: "分相序號", Type: U8},
				{Name: "步階序號", Type: U8},
				{Name: "有效時間", Type: U8, Desc: "有效時間（分鐘）"},
			},
			Steps: []Step{
				{
					Prompt: "步驟 {step}/{total}: 輸入分相序號 步階序號 有效時間（分鐘）\n範例: 1 2 60\n> ",
					Fields: []string{"分相序號", "步階序號", "有效時間"},
				},
				{Confirm: true},
			},
		},
		&Entry{
			Code:      0x5F3F,
			Name:      "設定傳送類型週期",
			Desc:      "設定傳送類型和傳送週期",
			Direction: Setting,
			LogModes:  []Mode{ModeReceive},
			ExactLen:  4,
			Fields: []Field{
				{Name: "傳送類型", Type: U8},
				{Name: "傳送週期", Type: U8},
			},
			Steps: []Step{
				{
					Prompt: "步驟 {step}/{total}: 輸入傳送類型與傳送週期\n範例: 1 1\n> ",
					Fields: []string{"傳送類型", "傳送週期"},
				},
				{Confirm: true},
			},
		},

		// ---- 查詢 ----
		&Entry{
			Code:      0x5F40,
			Name:      "查詢控制策略",
			Desc:      "查詢目前控制策略",
			Direction: Query,
			LogModes:  []Mode{ModeReceive},
			ExactLen:  2,
			Steps:     []Step{{Confirm: true}},
		},
		&Entry{
			Code:      0x5F43,
			Name:      "查詢時相排列",
			Desc:      "查詢時相排列之設定內容",
			Direction: Query,
			LogModes:  []Mode{ModeReceive},
			ExactLen:  3,
			Fields: []Field{
				{Name: "時相編號", Type: U8, Input: InputHex, Max: 0xFE, Hex: true},
			},
			Steps: []Step{
				{
					Prompt: "步驟 {step}/{total}: 輸入時相編號 (hex, 00~FE)\n範例: 40\n> ",
					Fields: []string{"時相編號"},
				},
				{Confirm: true},
			},
		},
		&Entry{
			Code:      0x5F46,
			Name:      "查詢日時段型態",
			Desc:      "查詢一般日時段型態之設定內容",
			Direction: Query,
			LogModes:  []Mode{ModeReceive},
			MinLen:    3,
			Fields: []Field{
				{Name: "時段型態", Type: U8},
				// 查詢封包的星期列表不帶數目欄位，長度由 LEN 決定
				{Name: "星期列表", Type: WeekdayList},
			},
			Steps: []Step{
				{
					Prompt: "步驟 {step}/{total}: 輸入時段型態\n範例: 1\n> ",
					Fields: []string{"時段型態"},
				},
				{
					Prompt:    "步驟 {step}/{total}: 輸入星期代碼（1..7，隔週 11..17，空白分隔）\n範例: 1 2 3 4 5\n> ",
					ListField: "星期列表",
				},
				{Confirm: true},
			},
		},
		&Entry{
			Code:      0x5F48,
			Name:      "查詢時制計畫",
			Desc:      "查詢目前時制計畫內容",
			Direction: Query,
			LogModes:  []Mode{ModeReceive},
			ExactLen:  2,
			Steps:     []Step{{Confirm: true}},
		},

		// ---- 查詢回報 ----
		&Entry{
			Code:      0x5FC0,
			Name:      "控制策略回報",
			Desc:      "回報目前控制策略",
			Direction: QueryReply,
			NeedsAck:  true,
			LogModes:  []Mode{ModeReceive, ModeCommand},
			ExactLen:  4,
			Fields: []Field{
				{Name: "控制策略", Type: U8, Map: strategyMapping},
				{Name: "有效時間", Type: U8, Desc: "有效時間（分鐘）"},
			},
		},
		&Entry{
			Code:      0x5FC3,
			Name:      "時相排列回報",
			Desc:      "回報時相排列之設定內容",
			Direction: QueryReply,
			NeedsAck:  true,
			LogModes:  []Mode{ModeReceive, ModeCommand},
			MinLen:    6,
			Fields: []Field{
				{Name: "時相編號", Type: U8, Hex: true},
				{Name: "號誌位置圖", Type: SignalMap},
				{Name: "信號燈數量", Type: U8, Min: 1, Max: 8},
				{Name: "綠燈分相數", Type: U8, Min: 1, Max: 8},
				{Name: "信號狀態", Type: SignalStatusList,
					Count: FieldProduct("信號燈數量", "綠燈分相數")},
			},
		},
		&Entry{
			Code:      0x5FC6,
			Name:      "日時段型態回報",
			Desc:      "回報一般日時段型態之設定內容",
			Direction: QueryReply,
			NeedsAck:  true,
			LogModes:  []Mode{ModeReceive, ModeCommand},
			MinLen:    4,
			Fields: []Field{
				{Name: "時段型態", Type: U8},
				{Name: "時段數目", Type: U8},
				{Name: "時段列表", Type: TimeSegmentList, Count: FieldRef("時段數目")},
				{Name: "星期數目", Type: U8},
				{Name: "星期列表", Type: WeekdayList, Count: FieldRef("星期數目")},
			},
		},
		&Entry{
			Code:      0x5FC8,
			Name:      "時制計畫回報",
			Desc:      "回報目前時制計畫內容",
			Direction: QueryReply,
			NeedsAck:  true,
			LogModes:  []Mode{ModeReceive, ModeCommand},
			MinLen:    6,
			Fields: []Field{
				{Name: "時制計畫編號", Type: U8},
				{Name: "基準方向", Type: U8},
				{Name: "時相編號", Type: U8, Hex: true},
				{Name: "綠燈分相數", Type: U8},
				{Name: "綠燈時間", Type: List, Item: U16BE, Count: FieldRef("綠燈分相數")},
				{Name: "週期秒數", Type: U16BE},
				{Name: "時差秒數", Type: U16BE},
			},
		},
	)
}
