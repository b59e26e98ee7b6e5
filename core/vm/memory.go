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

package vm

import (
	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/params"
)

// stackLimit bounds the VM's operand stack depth (spec.md §3).
const stackLimit = int(params.StackLimit)

// Memory is the VM's linear, byte-addressable scratch space. It grows
// monotonically: Resize never shrinks it, matching spec.md §4.2's "grows
// monotonically on write/read" requirement.
type Memory struct {
	store       []byte
	lastGasCost uint64
}

func newMemory() *Memory {
	return &Memory{}
}

// Len returns the current size of memory, in bytes.
func (m *Memory) Len() int { return len(m.store) }

// Resize grows the memory to size bytes if it is currently smaller. size
// must already be a multiple of 32 (the caller rounds up via toWordSize).
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) < size {
		m.store = append(m.store, make([]byte, size-uint64(len(m.store)))...)
	}
}

// Set writes value into memory starting at offset.
func (m *Memory) Set(offset, size uint64, value []byte) {
	if size == 0 {
		return
	}
	if offset+size > uint64(len(m.store)) {
		return
	}
	copy(m.store[offset:offset+size], value)
}

// Set32 writes val as a 32-byte big-endian word at offset, matching
// MSTORE's semantics.
func (m *Memory) Set32(offset uint64, val *common.Word) {
	if offset+32 > uint64(len(m.store)) {
		return
	}
	b := val.Bytes32()
	copy(m.store[offset:offset+32], b[:])
}

// GetCopy returns a fresh copy of size bytes starting at offset, zero
// padded past the high-water mark.
func (m *Memory) GetCopy(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	out := make([]byte, size)
	if offset > int64(len(m.store)) {
		return out
	}
	end := offset + size
	if end > int64(len(m.store)) {
		end = int64(len(m.store))
	}
	copy(out, m.store[offset:end])
	return out
}

// GetPtr returns a slice into the live backing array; callers must not
// retain it across further memory writes.
func (m *Memory) GetPtr(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	return m.store[offset : offset+size]
}

// Data returns the full backing slice.
func (m *Memory) Data() []byte { return m.store }

// toWordSize returns the number of 32-byte words needed to hold size
// bytes, rounding up.
func toWordSize(size uint64) uint64 {
	if size > 0xFFFFFFFFE0 {
		return 0xFFFFFFFFFFFFFFFF / 32
	}
	return (size + 31) / 32
}

// calcMemSize returns the required memory size (in bytes) to cover the
// range [offset, offset+size), and whether it overflows a uint64.
func calcMemSize(off, l *common.Word) (uint64, bool) {
	if l.IsZero() {
		return 0, false
	}
	if off.BitLen() > 64 || l.BitLen() > 64 {
		return 0, true
	}
	offset, length := off.Uint64(), l.Uint64()
	sum, overflow := offset+length, false
	if sum < offset {
		overflow = true
	}
	return sum, overflow
}
