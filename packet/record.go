// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package packet decodes, builds and renders 1592 message payloads,
// driven entirely by the catalog tables.
package packet

import (
	"time"

	"github.com/jack-libra/go-tc1592/catalog"
)

// Record is one decoded message frame. Fields holds the typed values
// keyed by the catalogue field names; Labels holds mapping-composed
// display strings for fields that declare one. For commands outside
// the catalogue only the metadata is filled and Known is false.
type Record struct {
	Seq        byte
	Addr       uint16
	Length     uint16
	Code       uint16
	Name       string
	Direction  catalog.Direction
	NeedsAck   bool
	Known      bool
	RawHex     string
	ReceivedAt time.Time

	Entry  *catalog.Entry
	Fields map[string]interface{}
	Labels map[string]string
}

// ControllerID renders the frame address as the TCnnn controller id.
func (sf *Record) ControllerID() string {
	return catalog.ControllerID(int(sf.Addr))
}

// CodeString renders the command code as four hex digits.
func (sf *Record) CodeString() string { return catalog.CodeString(sf.Code) }
