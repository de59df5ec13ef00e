// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package catalog

// 0F group: device acknowledgements and hardware status.

func init() {
	register(
		&Entry{
			Code:      0x0F02,
			Name:      "現場手動更改時間回報",
			Desc:      "回報終端設備現場手動更改時間",
			Direction: AsyncReport,
			LogModes:  []Mode{ModeReceive},
			MinLen:    2,
		},
		&Entry{
			Code:      0x0F04,
			Name:      "設備硬體狀態回報",
			Desc:      "現場設備回報硬體狀態",
			Direction: AsyncReport,
			LogModes:  []Mode{ModeReceive},
			ExactLen:  4,
			Fields: []Field{
				{Name: "硬體狀態碼", Type: HardwareStatus},
			},
		},
		&Entry{
			Code:      0x0F10,
			Name:      "重設現場設備",
			Desc:      "重設定現場設備",
			Direction: Setting,
			LogModes:  []Mode{ModeReceive},
			ExactLen:  4,
			Fields: []Field{
				{Name: "確認碼", Type: U16BE, Hex: true, Preset: 0x5252, HasPreset: true},
			},
			Steps: []Step{{Confirm: true}},
		},
		&Entry{
			Code:      0x0F40,
			Name:      "查詢現場設備編號",
			Desc:      "查詢現場設備編號",
			Direction: Query,
			LogModes:  []Mode{ModeReceive},
			ExactLen:  3,
			Fields: []Field{
				{Name: "設備序號", Type: U8},
			},
			Steps: []Step{
				{
					Prompt: "步驟 {step}/{total}: 輸入設備序號\n範例: 0\n> ",
					Fields: []string{"設備序號"},
				},
				{Confirm: true},
			},
		},
		&Entry{
			Code:      0x0F80,
			Name:      "設定回報（有效）",
			Desc:      "回報設定訊息有效",
			Direction: SettingReply,
			NeedsAck:  true,
			LogModes:  []Mode{ModeReceive, ModeCommand},
			MinLen:    4,
			Fields: []Field{
				{Name: "指令ID", Type: U16BE, Hex: true, Desc: "設備碼 + 指令碼"},
			},
		},
		&Entry{
			Code:      0x0F81,
			Name:      "設定/查詢回報（無效）",
			Desc:      "回報設定或查詢訊息無效",
			Direction: SettingReply,
			NeedsAck:  true,
			LogModes:  []Mode{ModeReceive, ModeCommand},
			MinLen:    6,
			Fields: []Field{
				{Name: "指令ID", Type: U16BE, Hex: true, Desc: "設備碼 + 指令碼"},
				{Name: "錯誤碼", Type: U8, Map: settingErrorMapping},
				{Name: "參數編號", Type: U8, Desc: "第一個錯誤參數之位址或數目錯誤值"},
			},
		},
		&Entry{
			Code:      0x0FC0,
			Name:      "現場設備編號回報",
			Desc:      "查詢現場設備編號回報",
			Direction: QueryReply,
			NeedsAck:  true,
			LogModes:  []Mode{ModeReceive, ModeCommand},
			MinLen:    5,
			Fields: []Field{
				{Name: "設備序號", Type: U8},
				{Name: "子設備數目", Type: U8},
				{Name: "子設備序號", Type: U8},
				{Name: "設備編號", Type: U8},
			},
		},
	)
}
