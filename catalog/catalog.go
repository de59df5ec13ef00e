// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package catalog carries the declarative command table of the 1592
// traffic-controller protocol. Every entry is the single source of
// truth for parsing, building, validating, prompting and rendering of
// its command; entries are immutable after init.
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// validation failure kinds
var (
	ErrBadLength       = errors.New("payload length check failed")
	ErrUnknownCommand  = errors.New("command not in catalog")
	ErrCountUnresolved = errors.New("list count field not yet parsed")
)

// Direction tells who originates a command and what it answers.
type Direction uint8

// command directions
const (
	Query        Direction = iota + 1 // host asks
	Setting                           // host sets
	QueryReply                        // controller answers a query
	SettingReply                      // controller acknowledges a setting
	AsyncReport                       // controller reports spontaneously
	AckReply                          // pure acknowledgement shape
)

func (sf Direction) String() string {
	switch sf {
	case Query:
		return "查詢訊息"
	case Setting:
		return "設定訊息"
	case QueryReply:
		return "查詢回報"
	case SettingReply:
		return "設定回報"
	case AsyncReport:
		return "主動回報"
	case AckReply:
		return "回應訊息"
	}
	return "未定義"
}

// Mode is the gateway runtime mode; entries list the modes they log in.
type Mode uint8

// runtime modes
const (
	ModeReceive Mode = iota + 1
	ModeCommand
)

func (sf Mode) String() string {
	if sf == ModeCommand {
		return "command"
	}
	return "receive"
}

// ParseMode maps the CLI flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "receive":
		return ModeReceive, nil
	case "command":
		return ModeCommand, nil
	}
	return 0, errors.Errorf("unknown mode %q", s)
}

// FieldType is the wire shape of one field.
type FieldType uint8

// field types
const (
	U8 FieldType = iota + 1
	U16BE
	List             // homogeneous items, length from Count
	StructList       // fixed-shape sub-records, length from Count
	SignalMap        // one byte plus its 8-bit decomposition
	SignalStatusList // per-direction status bytes, length from Count
	TimeSegmentList  // {hour, minute, plan} triples, length from Count
	WeekdayList      // day codes 1..7 / 11..17, length from Count
	HardwareStatus   // 16-bit status word expanded per bit
)

// Size returns the fixed octet size, or 0 for count-driven types.
func (sf FieldType) Size() int {
	switch sf {
	case U8, SignalMap:
		return 1
	case U16BE, HardwareStatus:
		return 2
	}
	return 0
}

// InputType is the builder-side text representation of a field.
type InputType uint8

// input types
const (
	InputDec InputType = iota // default
	InputHex
	InputBinary
)

// Count resolves a list length against the partially-parsed record:
// a literal, a reference to a prior field, or the product of two.
type Count struct {
	n      int
	field  string
	factor string
}

// Literal is a fixed count.
func Literal(n int) Count { return Count{n: n} }

// FieldRef takes the count from a previously parsed field.
func FieldRef(name string) Count { return Count{field: name} }

// FieldProduct takes the count as the product of two prior fields.
func FieldProduct(a, b string) Count { return Count{field: a, factor: b} }

// IsZero reports an unset count.
func (sf Count) IsZero() bool { return sf.n == 0 && sf.field == "" }

// Resolve evaluates the count against already-parsed field values.
func (sf Count) Resolve(fields map[string]interface{}) (int, error) {
	if sf.field == "" {
		return sf.n, nil
	}
	a, err := intField(fields, sf.field)
	if err != nil {
		return 0, err
	}
	if sf.factor == "" {
		return a, nil
	}
	b, err := intField(fields, sf.factor)
	if err != nil {
		return 0, err
	}
	return a * b, nil
}

func intField(fields map[string]interface{}, name string) (int, error) {
	v, ok := fields[name]
	if !ok {
		return 0, errors.Wrap(ErrCountUnresolved, name)
	}
	n, ok := v.(int)
	if !ok {
		return 0, errors.Wrapf(ErrCountUnresolved, "%s is %T", name, v)
	}
	return n, nil
}

// Mapping turns a raw byte into a display label: either a direct enum
// table or a function composing a label from a bitfield.
type Mapping struct {
	Enum     map[byte]string
	Bitfield func(byte) string
}

// Apply renders b; unknown enum values get a placeholder label.
func (sf *Mapping) Apply(b byte) string {
	if sf.Bitfield != nil {
		return sf.Bitfield(b)
	}
	if s, ok := sf.Enum[b]; ok {
		return s
	}
	return fmt.Sprintf("未知(0x%02X)", b)
}

// Field describes one payload field.
type Field struct {
	Name string
	Type FieldType

	// Index pins the field to a fixed payload offset; zero means the
	// sequential cursor (offsets 0 and 1 are always the command code).
	Index int

	Count      Count     // list length, list types only
	Item       FieldType // list item type, List only
	ItemFields []Field   // StructList sub-record shape

	Input    InputType
	Min, Max int // 0,0 means the full range of the type
	Map      *Mapping
	Hex      bool // render the scalar value as hex
	Desc     string

	// Preset pins the field to a constant the builder always emits;
	// the driver never prompts for it.
	Preset    int
	HasPreset bool
}

// RangeOf returns the effective min/max for input validation.
func (sf *Field) RangeOf() (int, int) {
	if sf.Min == 0 && sf.Max == 0 {
		if sf.Type == U16BE || sf.Type == HardwareStatus {
			return 0, 0xFFFF
		}
		return 0, 0xFF
	}
	return sf.Min, sf.Max
}

// Step is one interactive input step of a buildable command.
type Step struct {
	Prompt    string   // template with {name} placeholders
	Fields    []string // fixed fields collected by this step, in order
	ListField string   // trailing count-driven list field, if any
	Confirm   bool     // confirmation step gating the send
}

// Entry is one immutable catalogue row.
type Entry struct {
	Code      uint16
	Name      string
	Desc      string
	Direction Direction
	NeedsAck  bool
	LogModes  []Mode

	// payload length validation, counted over the destuffed payload
	// including the two command-code bytes; zero means unchecked
	MinLen   int
	ExactLen int

	Fields []Field
	Steps  []Step
}

// Buildable reports whether the entry can be sent by the host.
func (sf *Entry) Buildable() bool {
	return sf.Direction == Query || sf.Direction == Setting
}

// LogsIn reports whether the entry renders in mode m.
func (sf *Entry) LogsIn(m Mode) bool {
	for _, v := range sf.LogModes {
		if v == m {
			return true
		}
	}
	return false
}

// ValidLength checks the payload length against the entry validator.
func (sf *Entry) ValidLength(n int) error {
	if sf.ExactLen > 0 && n != sf.ExactLen {
		return errors.Wrapf(ErrBadLength, "%s: got %d want %d", sf.CodeString(), n, sf.ExactLen)
	}
	if sf.MinLen > 0 && n < sf.MinLen {
		return errors.Wrapf(ErrBadLength, "%s: got %d want >=%d", sf.CodeString(), n, sf.MinLen)
	}
	return nil
}

// FieldByName returns the descriptor declared under name.
func (sf *Entry) FieldByName(name string) (*Field, bool) {
	for i := range sf.Fields {
		if sf.Fields[i].Name == name {
			return &sf.Fields[i], true
		}
	}
	return nil, false
}

// CodeString renders the command code the way logs spell it, "5F03".
func (sf *Entry) CodeString() string { return CodeString(sf.Code) }

// CodeString renders a 16-bit command code as four upper hex digits.
func CodeString(code uint16) string {
	return fmt.Sprintf("%04X", code)
}

// ControllerID renders a device id the way logs spell it, "TC003".
func ControllerID(n int) string {
	return fmt.Sprintf("TC%03d", n)
}

// ParseCode reads a four-hex-digit command code token.
func ParseCode(s string) (uint16, bool) {
	if len(s) != 4 {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.ToUpper(s), 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}

var registry = map[uint16]*Entry{}

func register(entries ...*Entry) {
	for _, e := range entries {
		if _, dup := registry[e.Code]; dup {
			panic(fmt.Sprintf("catalog: duplicate command 0x%04X", e.Code))
		}
		registry[e.Code] = e
	}
}

// Lookup returns the entry for code.
func Lookup(code uint16) (*Entry, bool) {
	e, ok := registry[code]
	return e, ok
}

// All returns every entry ordered by code.
func All() []*Entry {
	out := make([]*Entry, 0, len(registry))
	for _, e := range registry {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Buildable returns every host-sendable entry ordered by code.
func Buildable() []*Entry {
	var out []*Entry
	for _, e := range All() {
		if e.Buildable() {
			out = append(out, e)
		}
	}
	return out
}
