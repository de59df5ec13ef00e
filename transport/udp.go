// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package transport wraps the UDP socket behind the narrow contract
// the protocol center needs: datagram in, datagram out.
package transport

import (
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jack-libra/go-tc1592/config"
)

// ErrSendFailed marks a socket write failure.
var ErrSendFailed = errors.New("send failed")

// recvTimeout bounds each blocking read so a shutdown flag is observed
// promptly.
const recvTimeout = time.Second

// UDP is the shared socket: the receive thread reads, either thread
// writes. net.UDPConn supports concurrent send while another goroutine
// is in a read.
type UDP struct {
	conn       *net.UDPConn
	controller *net.UDPAddr
	log        logrus.FieldLogger
}

// Open binds the local endpoint and resolves the controller target.
func Open(dev config.Device, log logrus.FieldLogger) (*UDP, error) {
	local, err := net.ResolveUDPAddr("udp", dev.LocalAddr())
	if err != nil {
		return nil, errors.Wrap(err, "resolve local addr")
	}
	remote, err := net.ResolveUDPAddr("udp", dev.ControllerAddr())
	if err != nil {
		return nil, errors.Wrap(err, "resolve controller addr")
	}
	conn, err := net.ListenUDP("udp", local)
	if err != nil {
		return nil, errors.Wrap(err, "bind")
	}
	log.Infof("開啟UDP連接: %s", dev.LocalAddr())
	return &UDP{conn: conn, controller: remote, log: log}, nil
}

// Send writes one datagram. A nil target sends to the configured
// controller endpoint.
func (sf *UDP) Send(b []byte, to *net.UDPAddr) error {
	if to == nil {
		to = sf.controller
	}
	if _, err := sf.conn.WriteToUDP(b, to); err != nil {
		return errors.Wrap(ErrSendFailed, err.Error())
	}
	return nil
}

// Recv blocks up to one second for a datagram. A timeout returns
// (0, nil, nil) so the caller can poll its shutdown flag.
func (sf *UDP) Recv(buf []byte) (int, *net.UDPAddr, error) {
	if err := sf.conn.SetReadDeadline(time.Now().Add(recvTimeout)); err != nil {
		return 0, nil, err
	}
	n, addr, err := sf.conn.ReadFromUDP(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return 0, nil, nil
		}
		return 0, nil, err
	}
	return n, addr, nil
}

// Close releases the socket; later sends fail with ErrSendFailed.
func (sf *UDP) Close() error {
	sf.log.Info("UDP連接已關閉")
	return sf.conn.Close()
}
