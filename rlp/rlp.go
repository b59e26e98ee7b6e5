// Copyright 2014 The go-ethereum Authors
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

// Package rlp implements the recursive length-prefix list encoding spec.md
// §6 requires for block headers and transactions: a single byte below 0x80
// encodes itself; a byte string is prefixed by its length; a list is
// prefixed by the byte-length of its encoded contents, with list prefixes
// distinguished from string prefixes by a different base offset. This is a
// deliberately small, hand-written encoder/decoder over []byte items rather
// than a reflection-based struct codec: the wire format here only ever
// needs to encode two fixed shapes (a header, a transaction), so a compact
// byte-string/list primitive pair is all the determinism spec.md demands
// (see DESIGN.md for why this stays on the standard library).
package rlp

import (
	"errors"
	"fmt"
)

const (
	// offsets per Ethereum's classic RLP encoding, which this package
	// mirrors byte-for-byte.
	strSingleByteMax = 0x7f
	strShortOffset   = 0x80
	strShortMax      = 0xb7
	strLongOffset    = 0xb7
	listShortOffset  = 0xc0
	listShortMax     = 0xf7
	listLongOffset   = 0xf7
)

var (
	ErrMalformed     = errors.New("rlp: malformed input")
	ErrUnexpectedEOF = errors.New("rlp: unexpected end of input")
)

// EncodeBytes appends the length-prefixed encoding of b to dst and returns
// the extended slice.
func EncodeBytes(dst []byte, b []byte) []byte {
	if len(b) == 1 && b[0] <= strSingleByteMax {
		return append(dst, b[0])
	}
	return appendWithLengthPrefix(dst, b, strShortOffset, strLongOffset)
}

// EncodeUint appends the minimal-length big-endian encoding of v (or an
// empty string for v == 0) to dst.
func EncodeUint(dst []byte, v uint64) []byte {
	return EncodeBytes(dst, minimalBigEndian(v))
}

// List encodes a sequence of already-encoded items as an RLP list: the
// items are concatenated and prefixed with their combined length.
func List(items ...[]byte) []byte {
	var body []byte
	for _, it := range items {
		body = append(body, it...)
	}
	return appendWithLengthPrefix(nil, body, listShortOffset, listLongOffset)
}

func appendWithLengthPrefix(dst, body []byte, shortOffset, longOffset byte) []byte {
	n := len(body)
	// Strings and lists alike carry a length of up to 55 bytes in the
	// prefix byte itself (0x80+n or 0xc0+n).
	if n <= 55 {
		dst = append(dst, shortOffset+byte(n))
		return append(dst, body...)
	}
	lenBytes := minimalBigEndian(uint64(n))
	dst = append(dst, longOffset+byte(len(lenBytes)))
	dst = append(dst, lenBytes...)
	return append(dst, body...)
}

func minimalBigEndian(v uint64) []byte {
	if v == 0 {
		return nil
	}
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	i := 0
	for i < 8 && buf[i] == 0 {
		i++
	}
	out := make([]byte, 8-i)
	copy(out, buf[i:])
	return out
}

// Item is one decoded element: either a byte string (IsList == false) or a
// list of further Items.
type Item struct {
	IsList bool
	Bytes  []byte
	List   []Item
}

// DecodeItem decodes a single top-level RLP item from b, returning it and
// the number of bytes consumed.
func DecodeItem(b []byte) (Item, int, error) {
	if len(b) == 0 {
		return Item{}, 0, ErrUnexpectedEOF
	}
	first := b[0]
	switch {
	case first <= strSingleByteMax:
		return Item{Bytes: []byte{first}}, 1, nil

	case first <= strShortMax:
		n := int(first - strShortOffset)
		if len(b) < 1+n {
			return Item{}, 0, ErrUnexpectedEOF
		}
		return Item{Bytes: clone(b[1 : 1+n])}, 1 + n, nil

	case first < listShortOffset:
		lenOfLen := int(first - strLongOffset)
		n, consumed, err := decodeLength(b[1:], lenOfLen)
		if err != nil {
			return Item{}, 0, err
		}
		start := 1 + consumed
		if len(b) < start+n {
			return Item{}, 0, ErrUnexpectedEOF
		}
		return Item{Bytes: clone(b[start : start+n])}, start + n, nil

	case first <= listShortMax:
		n := int(first - listShortOffset)
		if len(b) < 1+n {
			return Item{}, 0, ErrUnexpectedEOF
		}
		items, err := decodeList(b[1 : 1+n])
		if err != nil {
			return Item{}, 0, err
		}
		return Item{IsList: true, List: items}, 1 + n, nil

	default:
		lenOfLen := int(first - listLongOffset)
		n, consumed, err := decodeLength(b[1:], lenOfLen)
		if err != nil {
			return Item{}, 0, err
		}
		start := 1 + consumed
		if len(b) < start+n {
			return Item{}, 0, ErrUnexpectedEOF
		}
		items, err := decodeList(b[start : start+n])
		if err != nil {
			return Item{}, 0, err
		}
		return Item{IsList: true, List: items}, start + n, nil
	}
}

func decodeList(b []byte) ([]Item, error) {
	var items []Item
	for len(b) > 0 {
		item, n, err := DecodeItem(b)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		b = b[n:]
	}
	return items, nil
}

func decodeLength(b []byte, lenOfLen int) (n int, consumed int, err error) {
	if lenOfLen == 0 || lenOfLen > 8 || len(b) < lenOfLen {
		return 0, 0, fmt.Errorf("%w: invalid length prefix", ErrMalformed)
	}
	var v uint64
	for i := 0; i < lenOfLen; i++ {
		v = v<<8 | uint64(b[i])
	}
	return int(v), lenOfLen, nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// AsUint64 interprets a byte-string Item as a big-endian unsigned integer.
func (it Item) AsUint64() (uint64, error) {
	if it.IsList {
		return 0, fmt.Errorf("%w: expected byte string, got list", ErrMalformed)
	}
	if len(it.Bytes) > 8 {
		return 0, fmt.Errorf("%w: integer too large", ErrMalformed)
	}
	var v uint64
	for _, b := range it.Bytes {
		v = v<<8 | uint64(b)
	}
	return v, nil
}
