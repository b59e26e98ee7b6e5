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

// Package common holds the value types shared by every layer of the chain:
// addresses, hashes and the 256-bit word used by the virtual machine.
package common

import (
	"encoding/hex"
	"strings"

	"github.com/holiman/uint256"
)

const (
	// AddressLength is the expected length of an address, in bytes.
	AddressLength = 20
	// HashLength is the expected length of a hash, in bytes.
	HashLength = 32
)

// Address represents the 20-byte address of an Ethereum-style account.
type Address [AddressLength]byte

// BytesToAddress returns Address with value b.
// If b is larger than len(h), b will be cropped from the left.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// SetBytes sets the address to the value of b, left-padding if b is short.
func (a *Address) SetBytes(b []byte) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// Bytes returns the raw bytes of the address.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns a "0x"-prefixed hex string representation of the address.
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

// IsZero reports whether the address is the zero value.
func (a Address) IsZero() bool { return a == Address{} }

// HexToAddress parses a "0x"-prefixed or bare hex string into an Address,
// the counterpart to Hex() used when reading addresses back out of
// genesis files and CLI flags.
func HexToAddress(s string) Address {
	return BytesToAddress(fromHex(s))
}

// Cmp compares two addresses lexicographically.
func (a Address) Cmp(other Address) int {
	for i := range a {
		if a[i] != other[i] {
			if a[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Hash represents the 32-byte output of the chain's content-hash function.
type Hash [HashLength]byte

// BytesToHash returns Hash with value b, left-padding if b is short.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

func (h Hash) IsZero() bool { return h == Hash{} }

// HexToHash parses a "0x"-prefixed or bare hex string into a Hash.
func HexToHash(s string) Hash {
	return BytesToHash(fromHex(s))
}

func fromHex(s string) []byte {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, _ := hex.DecodeString(s)
	return b
}

// Word is the 256-bit unsigned integer that every VM stack slot, memory
// word and storage value is made of. Arithmetic on a Word wraps modulo
// 2**256, matching spec.md's modular arithmetic requirement; it is backed
// by github.com/holiman/uint256, the fixed-width (four uint64 limb) integer
// type the teacher's own dependency graph already carries.
type Word = uint256.Int

// NewWord constructs a Word from a uint64.
func NewWord(v uint64) *Word {
	return new(uint256.Int).SetUint64(v)
}

// WordFromBytes constructs a Word from big-endian bytes. Input longer than
// 32 bytes keeps only its low-order 32 bytes (wrapping modulo 2**256)
// rather than erroring on overflow.
func WordFromBytes(b []byte) *Word {
	return new(uint256.Int).SetBytes(b)
}

// ZeroWord reports whether a Word is identically zero; used throughout the
// VM and World State to recognize "not stored"/zero-value storage slots.
func ZeroWord(w *Word) bool {
	return w == nil || w.IsZero()
}

// PaddedBytes32 returns the big-endian 32-byte representation of a Word,
// the layout MSTORE and storage values use on the wire.
func PaddedBytes32(w *Word) [32]byte {
	return w.Bytes32()
}

// FormatWord renders a Word the way log lines and CLI output do.
func FormatWord(w *Word) string {
	if w == nil {
		return "0x0"
	}
	return w.Hex()
}
