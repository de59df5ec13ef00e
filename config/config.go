// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package config holds the static device-address table: one entry per
// controller, mapping a small device id to its four endpoints.
package config

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jack-libra/go-tc1592/catalog"
)

// Device is the endpoint set of one field controller.
type Device struct {
	ControllerIP   string `yaml:"controller_ip"`
	ControllerPort int    `yaml:"controller_port"`
	LocalIP        string `yaml:"local_ip"`
	LocalPort      int    `yaml:"local_port"`
}

// ControllerAddr renders the downstream target as host:port.
func (sf Device) ControllerAddr() string {
	return fmt.Sprintf("%s:%d", sf.ControllerIP, sf.ControllerPort)
}

// LocalAddr renders the bind address as host:port.
func (sf Device) LocalAddr() string {
	return fmt.Sprintf("%s:%d", sf.LocalIP, sf.LocalPort)
}

// Valid checks the endpoint set is complete.
func (sf Device) Valid() error {
	if sf.ControllerIP == "" || sf.ControllerPort == 0 {
		return errors.New("controller endpoint unset")
	}
	if sf.LocalIP == "" || sf.LocalPort == 0 {
		return errors.New("local endpoint unset")
	}
	return nil
}

// Table maps device ids to their endpoints.
type Table map[int]Device

// builtin is the shipped device table.
var builtin = Table{
	3: {
		ControllerIP:   "192.168.13.89",
		ControllerPort: 7002,
		LocalIP:        "0.0.0.0",
		LocalPort:      5555,
	},
}

// Load returns the device table: the builtin one, or the YAML file at
// path when given.
func Load(path string) (Table, error) {
	if path == "" {
		return builtin, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read device table")
	}
	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, errors.Wrap(err, "parse device table")
	}
	if len(t) == 0 {
		return nil, errors.New("device table is empty")
	}
	return t, nil
}

// Device returns the entry for id.
func (sf Table) Device(id int) (Device, error) {
	d, ok := sf[id]
	if !ok {
		return Device{}, errors.Errorf("device %d not in table", id)
	}
	return d, d.Valid()
}

// ControllerID derives the frame-level controller name from a device
// id, e.g. 3 → TC003.
func ControllerID(id int) string {
	return catalog.ControllerID(id)
}
