// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTable(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)

	d, err := tbl.Device(3)
	require.NoError(t, err)
	assert.Equal(t, "192.168.13.89:7002", d.ControllerAddr())
	assert.Equal(t, "0.0.0.0:5555", d.LocalAddr())

	_, err = tbl.Device(99)
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "devices.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
5:
  controller_ip: 10.0.0.5
  controller_port: 7002
  local_ip: 0.0.0.0
  local_port: 6000
`), 0o644))

	tbl, err := Load(path)
	require.NoError(t, err)

	d, err := tbl.Device(5)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:7002", d.ControllerAddr())
}

func TestLoadBadFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("::not yaml"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestDeviceValid(t *testing.T) {
	assert.Error(t, Device{}.Valid())
	assert.Error(t, Device{ControllerIP: "1.2.3.4", ControllerPort: 7002}.Valid())
	assert.NoError(t, Device{
		ControllerIP: "1.2.3.4", ControllerPort: 7002,
		LocalIP: "0.0.0.0", LocalPort: 5555,
	}.Valid())
}

func TestControllerID(t *testing.T) {
	assert.Equal(t, "TC003", ControllerID(3))
	assert.Equal(t, "TC123", ControllerID(123))
}
