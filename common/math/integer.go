// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package math provides integer math utilities, in particular the
// overflow-checked arithmetic the VM's gas table relies on.
package math

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxUint64 is the maximum value for a uint64.
	MaxUint64 = 1<<64 - 1
)

// SafeAdd returns a+b and checks for overflow. The returned value is
// meaningless if overflow is true.
func SafeAdd(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum < a
}

// SafeSub returns a-b and checks for underflow.
func SafeSub(a, b uint64) (uint64, bool) {
	return a - b, b > a
}

// SafeMul returns a*b and checks for overflow.
func SafeMul(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	c := a * b
	return c, c/b != a
}

// HexOrDecimal64 marshals uint64 as hex and unmarshals hex or decimal, the
// format geth-family genesis/config JSON uses for numeric fields.
type HexOrDecimal64 uint64

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *HexOrDecimal64) UnmarshalText(input []byte) error {
	v, err := ParseUint64(string(input))
	if err != nil {
		return err
	}
	*i = HexOrDecimal64(v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. Surrounding quotes are
// stripped and the rest is parsed as UnmarshalText does, so a JSON literal
// such as null is rejected rather than silently leaving i unchanged.
func (i *HexOrDecimal64) UnmarshalJSON(input []byte) error {
	if len(input) > 1 && input[0] == '"' {
		input = input[1 : len(input)-1]
	}
	return i.UnmarshalText(input)
}

// MarshalText implements encoding.TextMarshaler.
func (i HexOrDecimal64) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("0x%x", uint64(i))), nil
}

// ParseUint64 parses s as a hex ("0x"-prefixed) or decimal uint64. An empty
// string parses to zero, matching the lenient genesis-field convention.
func ParseUint64(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

// MustParseUint64 parses s as ParseUint64 does and panics on error; intended
// for use with values validated ahead of time (constants, test fixtures).
func MustParseUint64(s string) uint64 {
	v, err := ParseUint64(s)
	if err != nil {
		panic(fmt.Sprintf("invalid uint64 %q: %v", s, err))
	}
	return v
}
