// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package packet

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/jack-libra/go-tc1592/catalog"
)

// ErrMalformedField rejects a user-typed field value.
var ErrMalformedField = errors.New("malformed field value")

// ParseInput reads one user-typed token per the field's declared input
// type. Decimal requires ASCII digits only; hex accepts an optional 0x
// prefix; binary requires the exact digit count of the field width,
// with the first character naming bit 0.
func ParseInput(s string, f *catalog.Field) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.Wrapf(ErrMalformedField, "%s: 空白輸入", f.Name)
	}

	var v int
	switch f.Input {
	case catalog.InputHex:
		t := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
		n, err := strconv.ParseUint(t, 16, 16)
		if err != nil {
			return 0, errors.Wrapf(ErrMalformedField, "%s: %q 不是十六進位值", f.Name, s)
		}
		v = int(n)

	case catalog.InputBinary:
		width := 8
		if f.Type == catalog.U16BE {
			width = 16
		}
		if len(s) != width {
			return 0, errors.Wrapf(ErrMalformedField, "%s: 二進位輸入須為 %d 碼", f.Name, width)
		}
		for i, c := range s {
			switch c {
			case '1':
				v |= 1 << uint(i)
			case '0':
			default:
				return 0, errors.Wrapf(ErrMalformedField, "%s: %q 不是二進位值", f.Name, s)
			}
		}

	default: // decimal
		for _, c := range s {
			if c < '0' || c > '9' {
				return 0, errors.Wrapf(ErrMalformedField, "%s: %q 不是十進位值", f.Name, s)
			}
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, errors.Wrapf(ErrMalformedField, "%s: %q", f.Name, s)
		}
		v = n
	}

	if err := CheckRange(v, f); err != nil {
		return 0, err
	}
	return v, nil
}

// CheckRange validates v against the field's declared min/max.
func CheckRange(v int, f *catalog.Field) error {
	lo, hi := f.RangeOf()
	if v < lo || v > hi {
		return errors.Wrapf(ErrMalformedField, "%s: %d 超出範圍 %d..%d", f.Name, v, lo, hi)
	}
	return nil
}
