// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package packet

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jack-libra/go-tc1592/catalog"
	"github.com/jack-libra/go-tc1592/frame"
)

var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)

func decodeFrame(t *testing.T, seq byte, addr uint16, payload []byte) frame.Frame {
	t.Helper()
	fr, err := frame.Decode(frame.Encode(seq, addr, payload))
	require.NoError(t, err)
	return fr
}

func TestParse5FC0(t *testing.T) {
	fr := decodeFrame(t, 0x12, 0x0003, []byte{0x5F, 0xC0, 0x03, 0x3C})

	rec, err := Parse(fr, testTime)
	require.NoError(t, err)

	assert.True(t, rec.Known)
	assert.Equal(t, "5FC0", rec.CodeString())
	assert.Equal(t, "TC003", rec.ControllerID())
	assert.True(t, rec.NeedsAck)
	assert.Equal(t, 0x03, rec.Fields["控制策略"])
	assert.Equal(t, 60, rec.Fields["有效時間"])
	assert.Equal(t, "定時控制、動態控制 (0x03)", rec.Labels["控制策略"])
}

func TestParse5F03(t *testing.T) {
	payload := []byte{
		0x5F, 0x03,
		0x40,       // 時相編號
		0xD5,       // 號誌位置圖
		0x04,       // 信號燈數量
		0x01,       // 分相序號
		0x02,       // 步階序號
		0x00, 0x0F, // 步階秒數
		0x81, 0x44, 0x81, 0x41, // 信號狀態
	}
	rec, err := Parse(decodeFrame(t, 0x07, 0x0003, payload), testTime)
	require.NoError(t, err)

	assert.True(t, rec.NeedsAck)
	assert.Equal(t, 0x40, rec.Fields["時相編號"])
	assert.Equal(t, 4, rec.Fields["信號燈數量"])
	assert.Equal(t, 1, rec.Fields["分相序號"])
	assert.Equal(t, 2, rec.Fields["步階序號"])
	assert.Equal(t, 15, rec.Fields["步階秒數"])

	sm, ok := rec.Fields["號誌位置圖"].(catalog.SignalMapValue)
	require.True(t, ok)
	assert.Equal(t, byte(0xD5), sm.Raw)

	status, ok := rec.Fields["信號狀態"].([]catalog.SignalStatus)
	require.True(t, ok)
	require.Len(t, status, 4)
	assert.Equal(t, "全紅、行人紅燈", status[0].String())
	assert.Equal(t, "綠燈、行人綠燈", status[1].String())
	assert.Equal(t, "全紅、行人綠燈", status[3].String())

	lines := Render(rec)
	assert.Contains(t, lines, "   方向 1: 全紅、行人紅燈")
	assert.Contains(t, lines, "   方向 2: 綠燈、行人綠燈")
	assert.Contains(t, lines, "控制器編號: TC003")
}

func TestParse5FC6(t *testing.T) {
	payload := []byte{
		0x5F, 0xC6,
		0x01,             // 時段型態
		0x02,             // 時段數目
		8, 0, 1, 18, 30, 2, // 時段列表
		0x02,  // 星期數目
		1, 12, // 星期列表
	}
	rec, err := Parse(decodeFrame(t, 0x01, 0x0003, payload), testTime)
	require.NoError(t, err)

	segs, ok := rec.Fields["時段列表"].([]catalog.TimeSegment)
	require.True(t, ok)
	require.Len(t, segs, 2)
	assert.Equal(t, catalog.TimeSegment{Hour: 8, Minute: 0, PlanID: 1}, segs[0])
	assert.Equal(t, catalog.TimeSegment{Hour: 18, Minute: 30, PlanID: 2}, segs[1])

	days, ok := rec.Fields["星期列表"].([]int)
	require.True(t, ok)
	assert.Equal(t, []int{1, 12}, days)

	lines := Render(rec)
	assert.Contains(t, lines, "時段 1: 08:00 (計畫ID: 1)")
	assert.Contains(t, lines, "時段 2: 18:30 (計畫ID: 2)")
	assert.Contains(t, lines, "星期列表: 週一")
	assert.Contains(t, lines, "星期列表: 隔週二")
}

func TestParse5FC8(t *testing.T) {
	payload := []byte{
		0x5F, 0xC8,
		0x01, 0x01, 0x40, 0x03,
		0x00, 0x28, 0x00, 0x32, 0x00, 0x3C, // 綠燈時間 ×3
		0x00, 0x78, // 週期
		0x00, 0x1E, // 時差
	}
	rec, err := Parse(decodeFrame(t, 0x02, 0x0003, payload), testTime)
	require.NoError(t, err)

	assert.Equal(t, []int{40, 50, 60}, rec.Fields["綠燈時間"])
	assert.Equal(t, 120, rec.Fields["週期秒數"])
	assert.Equal(t, 30, rec.Fields["時差秒數"])
}

func TestParse0F81(t *testing.T) {
	payload := []byte{0x0F, 0x81, 0x5F, 0x10, 0x02, 0x01}
	rec, err := Parse(decodeFrame(t, 0x09, 0x0003, payload), testTime)
	require.NoError(t, err)

	assert.Equal(t, 0x5F10, rec.Fields["指令ID"])
	assert.Equal(t, 0x02, rec.Fields["錯誤碼"])
	assert.Equal(t, "參數範圍錯誤 (0x02)", rec.Labels["錯誤碼"])
	assert.Equal(t, 1, rec.Fields["參數編號"])
}

func TestParse0F04HardwareStatus(t *testing.T) {
	rec, err := Parse(decodeFrame(t, 0x03, 0x0003, []byte{0x0F, 0x04, 0x00, 0x00}), testTime)
	require.NoError(t, err)

	hs, ok := rec.Fields["硬體狀態碼"].(catalog.HardwareStatusValue)
	require.True(t, ok)
	assert.Equal(t, catalog.HardwareStatusValue(0), hs)
	assert.Contains(t, Render(rec), "   狀態: 系統正常")
}

func TestParseUnknownCommand(t *testing.T) {
	rec, err := Parse(decodeFrame(t, 0x04, 0x0003, []byte{0x5F, 0xFE, 0x01}), testTime)
	require.NoError(t, err)

	assert.False(t, rec.Known)
	assert.False(t, rec.NeedsAck)
	assert.Equal(t, "5FFE", rec.CodeString())
	assert.NotEmpty(t, rec.RawHex)
	assert.Contains(t, Render(rec), "指令未定義")
}

func TestParseBadLength(t *testing.T) {
	// 5FC0 is exactly 4 payload bytes
	_, err := Parse(decodeFrame(t, 0x05, 0x0003, []byte{0x5F, 0xC0, 0x03}), testTime)
	assert.True(t, errors.Is(err, catalog.ErrBadLength))
}

func TestParseTruncatedListIsPartial(t *testing.T) {
	// 5F03 declares 4 status bytes but carries only 2: keep the partial list
	payload := []byte{
		0x5F, 0x03, 0x40, 0xD5, 0x04, 0x01, 0x02, 0x00, 0x0F,
		0x81, 0x44,
	}
	rec, err := Parse(decodeFrame(t, 0x06, 0x0003, payload), testTime)
	require.NoError(t, err)

	status := rec.Fields["信號狀態"].([]catalog.SignalStatus)
	assert.Len(t, status, 2)
}

func TestParseRejectsNonMessage(t *testing.T) {
	fr, err := frame.Decode(frame.EncodeAck(1, 3))
	require.NoError(t, err)
	_, err = Parse(fr, testTime)
	assert.True(t, errors.Is(err, ErrNotMessage))
}
