// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package logx configures the gateway log sink: an append-only text
// file with one fixed-format line per record, plus the console in
// receive mode. Command mode keeps the terminal clean for the prompt
// and logs to the file only.
package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jack-libra/go-tc1592/catalog"
)

// FileName is the append-only log file under the log directory.
const FileName = "traffic_control.log"

// lineFormatter renders "YYYY-MM-DD HH:MM:SS - LEVEL - msg".
type lineFormatter struct{}

func (lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	return []byte(fmt.Sprintf("%s - %s - %s\n",
		e.Time.Format("2006-01-02 15:04:05"),
		strings.ToUpper(e.Level.String()),
		e.Message)), nil
}

// Setup opens the log file and returns the configured logger. The
// *os.File write path is unbuffered, so every record reaches the file
// as it is logged.
func Setup(mode catalog.Mode, dir string) (*logrus.Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create log dir")
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open log file")
	}

	log := logrus.New()
	log.SetFormatter(lineFormatter{})
	log.SetLevel(logrus.InfoLevel)

	var out io.Writer = f
	if mode == catalog.ModeReceive {
		out = io.MultiWriter(f, os.Stdout)
	}
	log.SetOutput(out)
	return log, nil
}
