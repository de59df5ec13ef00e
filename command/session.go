// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package command

import (
	"time"

	"github.com/jack-libra/go-tc1592/catalog"
)

// SessionTimeout is the inactivity window after which a half-built
// command is silently discarded.
const SessionTimeout = 300 * time.Second

// Session is one in-progress multi-step command build. At most one is
// active at a time, touched only by the command thread.
type Session struct {
	Code        uint16
	Entry       *catalog.Entry
	Step        int // 1-based
	Fields      map[string]interface{}
	CreatedAt   time.Time
	LastUpdated time.Time
}

// NewSession opens a session on a buildable entry, seeding any preset
// fields the user never types.
func NewSession(entry *catalog.Entry, now time.Time) *Session {
	fields := map[string]interface{}{}
	for i := range entry.Fields {
		if entry.Fields[i].HasPreset {
			fields[entry.Fields[i].Name] = entry.Fields[i].Preset
		}
	}
	return &Session{
		Code:        entry.Code,
		Entry:       entry,
		Step:        1,
		Fields:      fields,
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// Current returns the step the session is waiting on.
func (sf *Session) Current() *catalog.Step {
	if sf.Step < 1 || sf.Step > len(sf.Entry.Steps) {
		return nil
	}
	return &sf.Entry.Steps[sf.Step-1]
}

// Advance moves to the next step and refreshes the activity stamp.
func (sf *Session) Advance(now time.Time) {
	sf.Step++
	sf.LastUpdated = now
}

// Expired reports whether the session sat inactive past timeout.
func (sf *Session) Expired(now time.Time, timeout time.Duration) bool {
	return now.Sub(sf.LastUpdated) > timeout
}
