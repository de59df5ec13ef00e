// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package metrics instruments the protocol pipeline with Prometheus
// counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Set holds the pipeline counters. Every stage of the receive and
// command paths increments exactly one of them per event.
type Set struct {
	FramesIn        prometheus.Counter
	FramesDropped   *prometheus.CounterVec // by failure kind
	MessagesParsed  prometheus.Counter
	UnknownCommands prometheus.Counter
	AcksEmitted     prometheus.Counter
	AcksMatched     prometheus.Counter
	AcksUnexpected  prometheus.Counter
	CommandsSent    prometheus.Counter
	SendFailures    prometheus.Counter
}

// New builds and registers the counter set.
func New(reg prometheus.Registerer) *Set {
	s := &Set{
		FramesIn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tcgw_frames_in_total",
			Help: "Complete frames sliced from the UDP stream.",
		}),
		FramesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tcgw_frames_dropped_total",
			Help: "Frames rejected by the decoder or parser.",
		}, []string{"reason"}),
		MessagesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tcgw_messages_parsed_total",
			Help: "Message frames decoded against the catalogue.",
		}),
		UnknownCommands: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tcgw_unknown_commands_total",
			Help: "Message frames whose command code is not in the catalogue.",
		}),
		AcksEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tcgw_acks_emitted_total",
			Help: "Short-acks sent back to the controller.",
		}),
		AcksMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tcgw_acks_matched_total",
			Help: "Incoming short-acks matched to an outstanding command.",
		}),
		AcksUnexpected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tcgw_acks_unexpected_total",
			Help: "Incoming short-acks with no outstanding command.",
		}),
		CommandsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tcgw_commands_sent_total",
			Help: "Host commands framed and sent downstream.",
		}),
		SendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tcgw_send_failures_total",
			Help: "Socket send errors.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			s.FramesIn, s.FramesDropped, s.MessagesParsed, s.UnknownCommands,
			s.AcksEmitted, s.AcksMatched, s.AcksUnexpected,
			s.CommandsSent, s.SendFailures,
		)
	}
	return s
}
