// Copyright 2015 The go-ethereum Authors
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

import "errors"

// List of evm execution errors (spec.md §8's VM failure taxonomy).
var (
	ErrOutOfGas         = errors.New("vm: out of gas")
	ErrStackUnderflow   = errors.New("vm: stack underflow")
	ErrStackOverflow    = errors.New("vm: stack overflow")
	ErrInvalidJump      = errors.New("vm: invalid jump destination")
	ErrInvalidOpcode    = errors.New("vm: invalid opcode")
	ErrGasUintOverflow  = errors.New("vm: gas uint64 overflow")
	ErrMemoryExpansion  = errors.New("vm: memory expansion failed")
	ErrReturnDataOOB    = errors.New("vm: return data out of bounds")
	ErrIncompletePush   = errors.New("vm: push past end of code")
	ErrExecutionReverted = errors.New("vm: execution reverted")
)

// ExecutionRevertedError wraps ErrExecutionReverted together with the
// return data REVERT left behind, so callers can surface it unchanged.
type ExecutionRevertedError struct {
	ReturnData []byte
}

func (e *ExecutionRevertedError) Error() string { return ErrExecutionReverted.Error() }

func (e *ExecutionRevertedError) Unwrap() error { return ErrExecutionReverted }
