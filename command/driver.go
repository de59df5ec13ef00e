// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package command drives the interactive command loop: a single-session
// state machine walking the catalogue's steps over terminal lines.
package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/jack-libra/go-tc1592/catalog"
	"github.com/jack-libra/go-tc1592/packet"
	"github.com/jack-libra/go-tc1592/track"
)

// Sender is the slice of the protocol center the driver needs.
type Sender interface {
	SendCommand(code uint16, fields map[string]interface{}, desc string) (byte, error)
	Tracker() *track.Tracker
	OnMessage(fn func(*packet.Record))
}

type historyEntry struct {
	Seq         byte
	Code        uint16
	Desc        string
	Status      string // pending / success / failed
	ErrLabel    string
	SentAt      time.Time
	RespondedAt time.Time
}

// Driver reads newline-terminated token lines and dispatches completed
// sessions to the center. Replies 0F80/0F81 are matched back by seq to
// the originating command.
type Driver struct {
	center  Sender
	out     io.Writer
	clk     clock.Clock
	timeout time.Duration
	tcID    string

	session *Session

	mu      sync.Mutex
	pending map[byte]*historyEntry
	history []*historyEntry
}

// New wires a driver over the center and registers the reply hook.
func New(center Sender, out io.Writer, clk clock.Clock, tcID string) *Driver {
	sf := &Driver{
		center:  center,
		out:     out,
		clk:     clk,
		timeout: SessionTimeout,
		tcID:    tcID,
		pending: map[byte]*historyEntry{},
	}
	center.OnMessage(sf.onReply)
	return sf
}

// Run loops over input lines until EOF, q, or ctx cancellation.
func (sf *Driver) Run(ctx context.Context, in io.Reader) {
	sf.printHelp()
	sf.prompt()

	scanner := bufio.NewScanner(in)
	for ctx.Err() == nil && scanner.Scan() {
		if quit := sf.HandleLine(scanner.Text()); quit {
			return
		}
		sf.prompt()
	}
}

func (sf *Driver) prompt() {
	if sf.session == nil {
		fmt.Fprint(sf.out, "\n請輸入指令 (輸入 'help' 查看說明): ")
	}
}

// HandleLine consumes one input line; true means quit.
func (sf *Driver) HandleLine(line string) bool {
	line = strings.TrimSpace(line)

	if sf.session != nil && sf.session.Expired(sf.clk.Now(), sf.timeout) {
		// stale session: drop it and treat the line as top-level input
		sf.session = nil
	}

	if strings.EqualFold(line, "q") || strings.EqualFold(line, "quit") {
		sf.session = nil
		return true
	}

	if sf.session != nil {
		sf.handleStep(line)
		return false
	}

	switch strings.ToLower(line) {
	case "":
	case "help":
		sf.printHelp()
	case "status":
		sf.printStatus()
	case "history":
		sf.printHistory()
	default:
		sf.startSession(line)
	}
	return false
}

func (sf *Driver) startSession(line string) {
	code, ok := catalog.ParseCode(line)
	if !ok {
		fmt.Fprintf(sf.out, "不支援的指令類型: %s\n", line)
		return
	}
	entry, found := catalog.Lookup(code)
	if !found || !entry.Buildable() {
		fmt.Fprintf(sf.out, "不支援的指令類型: %s\n", strings.ToUpper(line))
		return
	}

	sf.session = NewSession(entry, sf.clk.Now())
	sf.printStep()
}

func (sf *Driver) handleStep(line string) {
	step := sf.session.Current()
	if step == nil {
		sf.session = nil
		return
	}

	if step.Confirm {
		sf.handleConfirm(line)
		return
	}

	if err := sf.collect(step, line); err != nil {
		fmt.Fprintf(sf.out, "%v\n", err)
		sf.printStep() // reprompt the same step
		return
	}

	sf.session.Advance(sf.clk.Now())
	sf.printStep()
}

func (sf *Driver) handleConfirm(line string) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "是", "確認", "ok", "":
		sf.send()
		sf.session = nil
	case "n", "no", "否", "取消", "cancel":
		fmt.Fprintln(sf.out, "指令已取消")
		sf.session = nil
	default:
		fmt.Fprintln(sf.out, "請輸入 y(確認) 或 n(取消)")
	}
}

// collect parses one line of whitespace-separated values against the
// step's fixed fields and trailing list field. Nothing is stored
// unless the whole line validates.
func (sf *Driver) collect(step *catalog.Step, line string) error {
	tokens := strings.Fields(line)
	staged := map[string]interface{}{}

	for i, name := range step.Fields {
		f, ok := sf.session.Entry.FieldByName(name)
		if !ok {
			return fmt.Errorf("未找到字段定義: %s", name)
		}
		if i >= len(tokens) {
			return fmt.Errorf("缺少參數: %s", name)
		}
		v, err := packet.ParseInput(tokens[i], f)
		if err != nil {
			return err
		}
		staged[name] = v
	}
	rest := tokens[len(step.Fields):]

	if step.ListField != "" {
		f, ok := sf.session.Entry.FieldByName(step.ListField)
		if !ok {
			return fmt.Errorf("未找到字段定義: %s", step.ListField)
		}
		v, err := sf.collectList(f, rest, staged)
		if err != nil {
			return err
		}
		staged[step.ListField] = v
	} else if len(rest) > 0 {
		return fmt.Errorf("多餘的參數: %s", strings.Join(rest, " "))
	}

	for k, v := range staged {
		sf.session.Fields[k] = v
	}
	return nil
}

func (sf *Driver) collectList(f *catalog.Field, tokens []string, staged map[string]interface{}) (interface{}, error) {
	perItem := 1
	if f.Type == catalog.TimeSegmentList {
		perItem = 3
	}

	want := -1 // variable length
	if !f.Count.IsZero() {
		merged := map[string]interface{}{}
		for k, v := range sf.session.Fields {
			merged[k] = v
		}
		for k, v := range staged {
			merged[k] = v
		}
		n, err := f.Count.Resolve(merged)
		if err != nil {
			return nil, fmt.Errorf("%s: 無法計算個數", f.Name)
		}
		want = n
	}

	if want >= 0 && len(tokens) != want*perItem {
		return nil, fmt.Errorf("需要 %d 個列表值，但只提供了 %d 個", want*perItem, len(tokens))
	}
	if want < 0 && (len(tokens) == 0 || len(tokens)%perItem != 0) {
		return nil, fmt.Errorf("%s: 參數個數錯誤", f.Name)
	}

	switch f.Type {
	case catalog.TimeSegmentList:
		var segs []catalog.TimeSegment
		item := catalog.Field{Name: f.Name, Type: catalog.U8}
		for i := 0; i+2 < len(tokens); i += 3 {
			h, err := packet.ParseInput(tokens[i], &item)
			if err != nil {
				return nil, err
			}
			m, err := packet.ParseInput(tokens[i+1], &item)
			if err != nil {
				return nil, err
			}
			p, err := packet.ParseInput(tokens[i+2], &item)
			if err != nil {
				return nil, err
			}
			seg := catalog.TimeSegment{Hour: h, Minute: m, PlanID: p}
			if !seg.Valid() {
				return nil, fmt.Errorf("%s: 時段 %s 不合法", f.Name, seg)
			}
			segs = append(segs, seg)
		}
		return segs, nil

	case catalog.WeekdayList:
		var days []int
		item := catalog.Field{Name: f.Name, Type: catalog.U8}
		for _, tok := range tokens {
			v, err := packet.ParseInput(tok, &item)
			if err != nil {
				return nil, err
			}
			if !catalog.ValidWeekday(v) {
				return nil, fmt.Errorf("%s: %d 不是合法星期代碼", f.Name, v)
			}
			days = append(days, v)
		}
		return days, nil
	}

	item := catalog.Field{Name: f.Name, Type: catalog.U8, Input: f.Input}
	if f.Type == catalog.List && f.Item == catalog.U16BE {
		item.Type = catalog.U16BE
	}
	var out []int
	for _, tok := range tokens {
		v, err := packet.ParseInput(tok, &item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// send dispatches the completed session and records it for reply
// correlation. A failed send keeps the session discarded.
func (sf *Driver) send() {
	entry := sf.session.Entry
	desc := fmt.Sprintf("%s %s", entry.CodeString(), entry.Name)

	seq, err := sf.center.SendCommand(entry.Code, sf.session.Fields, desc)
	if err != nil {
		fmt.Fprintf(sf.out, "✗ 發送失敗: %v\n", err)
		return
	}

	he := &historyEntry{
		Seq:    seq,
		Code:   entry.Code,
		Desc:   desc,
		Status: "pending",
		SentAt: sf.clk.Now(),
	}
	sf.mu.Lock()
	sf.pending[seq] = he
	sf.history = append(sf.history, he)
	sf.mu.Unlock()

	fmt.Fprintf(sf.out, "✓ 指令已發送: %s (SEQ: %d)\n", desc, seq)
}

// onReply runs on the receive thread: settings replies resolve the
// originating command by seq.
func (sf *Driver) onReply(rec *packet.Record) {
	if rec.Code != 0x0F80 && rec.Code != 0x0F81 {
		return
	}

	sf.mu.Lock()
	he, ok := sf.pending[rec.Seq]
	if ok {
		delete(sf.pending, rec.Seq)
	}
	sf.mu.Unlock()
	if !ok {
		return
	}

	he.RespondedAt = sf.clk.Now()
	if rec.Code == 0x0F80 {
		he.Status = "success"
		fmt.Fprintf(sf.out, "✓ 指令執行成功: %s\n", he.Desc)
		return
	}
	he.Status = "failed"
	he.ErrLabel = rec.Labels["錯誤碼"]
	fmt.Fprintf(sf.out, "✗ 指令執行失敗: %s (%s)\n", he.Desc, he.ErrLabel)
}

func (sf *Driver) printStep() {
	step := sf.session.Current()
	if step == nil {
		return
	}
	if step.Confirm {
		fmt.Fprint(sf.out, sf.preview())
		return
	}
	fmt.Fprint(sf.out, sf.renderPrompt(step))
}

// renderPrompt substitutes {step}/{total}/{count} and prior field
// values into the catalogue's prompt template.
func (sf *Driver) renderPrompt(step *catalog.Step) string {
	s := step.Prompt
	s = strings.ReplaceAll(s, "{step}", fmt.Sprintf("%d", sf.session.Step))
	s = strings.ReplaceAll(s, "{total}", fmt.Sprintf("%d", len(sf.session.Entry.Steps)))

	if step.ListField != "" {
		if f, ok := sf.session.Entry.FieldByName(step.ListField); ok && !f.Count.IsZero() {
			if n, err := f.Count.Resolve(sf.session.Fields); err == nil {
				s = strings.ReplaceAll(s, "{count}", fmt.Sprintf("%d", n))
			}
		}
	}
	for name, v := range sf.session.Fields {
		if n, ok := v.(int); ok {
			s = strings.ReplaceAll(s, "{"+name+"}", fmt.Sprintf("%d", n))
		}
	}
	return s
}

// preview enumerates the accumulated fields before the send is gated.
func (sf *Driver) preview() string {
	var b strings.Builder
	entry := sf.session.Entry

	fmt.Fprintf(&b, "\n指令: %s\n", entry.CodeString())
	fmt.Fprintf(&b, "描述: %s\n", entry.Desc)
	fmt.Fprintf(&b, "\n已輸入參數:\n")

	for i := range entry.Fields {
		f := &entry.Fields[i]
		v, ok := sf.session.Fields[f.Name]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case int:
			fmt.Fprintf(&b, "  %s: 0x%02X (%d)\n", f.Name, val, val)
		case []int:
			fmt.Fprintf(&b, "  %s: %s\n", f.Name, previewList(val))
		case []catalog.TimeSegment:
			var parts []string
			for _, s := range val {
				parts = append(parts, s.String())
			}
			fmt.Fprintf(&b, "  %s: %s\n", f.Name, strings.Join(parts, ", "))
		}
	}
	fmt.Fprintf(&b, "\n確認發送? [y/n] ")
	return b.String()
}

// previewList truncates long lists to their first five elements.
func previewList(vals []int) string {
	hex := func(ns []int) []string {
		out := make([]string, len(ns))
		for i, n := range ns {
			out[i] = fmt.Sprintf("0x%02X", n)
		}
		return out
	}
	if len(vals) <= 10 {
		return "[" + strings.Join(hex(vals), ", ") + "]"
	}
	return fmt.Sprintf("[%s…] (共 %d 個值)", strings.Join(hex(vals[:5]), ", "), len(vals))
}

func (sf *Driver) printHelp() {
	fmt.Fprintln(sf.out, logRule)
	fmt.Fprintf(sf.out, "交通控制系統指令下傳介面 - %s\n", sf.tcID)
	fmt.Fprintln(sf.out, logRule)
	fmt.Fprintln(sf.out, "可用指令:")
	fmt.Fprintln(sf.out, "  help     - 顯示此說明")
	fmt.Fprintln(sf.out, "  status   - 顯示系統狀態")
	fmt.Fprintln(sf.out, "  history  - 顯示指令歷史")
	fmt.Fprintln(sf.out, "  q        - 退出程式")
	fmt.Fprintln(sf.out, "\n指令下傳: 輸入四位十六進位指令碼後依步驟填入參數")
	for _, e := range catalog.Buildable() {
		fmt.Fprintf(sf.out, "  %s - %s\n", e.CodeString(), e.Name)
	}
	fmt.Fprintln(sf.out, logRule)
}

func (sf *Driver) printStatus() {
	pending := sf.center.Tracker().Pending()

	fmt.Fprintln(sf.out, "\n系統狀態:")
	fmt.Fprintf(sf.out, "  控制器ID: %s\n", sf.tcID)
	fmt.Fprintf(sf.out, "  待處理指令: %d\n", len(pending))

	sf.mu.Lock()
	fmt.Fprintf(sf.out, "  指令歷史: %d\n", len(sf.history))
	sf.mu.Unlock()

	for _, p := range pending {
		fmt.Fprintf(sf.out, "  SEQ %d: %s (發送時間: %s)\n",
			p.Seq, p.Desc, p.SentAt.Format("15:04:05"))
	}
}

func (sf *Driver) printHistory() {
	sf.mu.Lock()
	entries := append([]*historyEntry(nil), sf.history...)
	sf.mu.Unlock()

	if len(entries) == 0 {
		fmt.Fprintln(sf.out, "\n無指令歷史記錄")
		return
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].SentAt.Before(entries[j].SentAt) })
	if len(entries) > 10 {
		entries = entries[len(entries)-10:]
	}

	fmt.Fprintf(sf.out, "\n指令歷史 (最近 %d 筆):\n", len(entries))
	for _, he := range entries {
		icon := "✓"
		if he.Status == "failed" {
			icon = "✗"
		} else if he.Status == "pending" {
			icon = "…"
		}
		fmt.Fprintf(sf.out, "  %s %s (SEQ: %d)\n", icon, he.Desc, he.Seq)
		if he.Status == "failed" && he.ErrLabel != "" {
			fmt.Fprintf(sf.out, "    錯誤: %s\n", he.ErrLabel)
		}
	}
}

const logRule = "============================================================"
