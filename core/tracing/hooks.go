// Copyright 2024 The go-ethereum Authors
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

// Package tracing defines hooks for observing VM execution without
// altering it: a debugger or an opcode-level test harness can attach a
// Hooks value to an vm.EVM and be called back on every step.
//
// Unlike upstream go-ethereum's tracing package, there is no call-depth
// boundary here (OnEnter/OnExit): spec.md §4.2 gives this VM no
// CALL-family opcode, so a transaction only ever runs one un-nested
// frame, and the opcode step is the only granularity worth exposing.
package tracing

import "github.com/ethcore/chain/common"

// OpContext is the read-only view into the currently executing frame a
// step hook gets: enough to reconstruct what an opcode saw without
// giving the hook any way to mutate it.
type OpContext interface {
	StackData() []*common.Word
	MemoryData() []byte
	Address() common.Address
	Caller() common.Address
}

// Hooks is the set of optional callbacks a caller can attach to a single
// vm.EVM. Every field may be left nil; the interpreter checks before
// calling each one, so an unset Hooks adds no overhead to execution.
type Hooks struct {
	// OnOpcode fires before an opcode executes, once its gas has already
	// been charged. cost is that opcode's own (already-deducted) gas.
	OnOpcode func(pc uint64, op byte, gas, cost uint64, scope OpContext)

	// OnFault fires instead of OnOpcode when dispatching or executing an
	// opcode failed (e.g. stack underflow, out of gas, invalid jump).
	OnFault func(pc uint64, op byte, gas uint64, err error, scope OpContext)
}
