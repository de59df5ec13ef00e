// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package logx

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jack-libra/go-tc1592/catalog"
)

func TestLineFormat(t *testing.T) {
	dir := t.TempDir()
	log, err := Setup(catalog.ModeCommand, dir)
	require.NoError(t, err)

	log.Info("發送指令: 查詢控制策略 (SEQ: 1)")
	log.Warn("收到未知命令封包: 5FFE")

	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)

	line := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - (INFO|WARNING) - .+$`)
	lines := regexp.MustCompile(`\r?\n`).Split(string(raw), -1)
	require.True(t, len(lines) >= 2)
	assert.Regexp(t, line, lines[0])
	assert.Regexp(t, line, lines[1])
	assert.Contains(t, lines[0], "發送指令")
}

func TestAppendAcrossSetups(t *testing.T) {
	dir := t.TempDir()

	log, err := Setup(catalog.ModeCommand, dir)
	require.NoError(t, err)
	log.Info("first")

	log, err = Setup(catalog.ModeCommand, dir)
	require.NoError(t, err)
	log.Info("second")

	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "first")
	assert.Contains(t, string(raw), "second")
}

func TestSetupCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	_, err := Setup(catalog.ModeReceive, dir)
	require.NoError(t, err)
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}
