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
	"errors"

	"github.com/ethcore/chain/core/types"
)

// ErrWriteProtection is returned when a state-mutating opcode executes
// inside a read-only (static) call.
var ErrWriteProtection = errors.New("vm: write protection")

// errStopToken is an internal control-flow signal, never surfaced past
// Run: it means the frame halted successfully (STOP/RETURN/SELFDESTRUCT).
var errStopToken = errors.New("vm: stop token")

// interpreter runs a single Contract's bytecode against an EVM's State
// (spec.md §4.2's control loop).
type interpreter struct {
	evm      *EVM
	table    *JumpTable
	readOnly bool

	returnData []byte
	logs       []*types.Log
}

func newInterpreter(evm *EVM) *interpreter {
	return &interpreter{evm: evm, table: evm.jumpTable}
}

// Run executes contract.Code against the interpreter's EVM, starting with
// input as calldata. It returns the frame's return data (set by
// RETURN/REVERT) and any execution error.
func (in *interpreter) Run(contract *Contract, input []byte, readOnly bool) ([]byte, error) {
	in.readOnly = readOnly
	contract.Input = input

	if len(contract.Code) == 0 {
		return nil, nil
	}

	var (
		pc     = uint64(0)
		stack  = newStack()
		mem    = newMemory()
		scope  = &scopeContext{Memory: mem, Stack: stack, Contract: contract}
		ret    []byte
		err    error
	)
	defer returnStack(stack)

	for {
		if pc >= uint64(len(contract.Code)) {
			break
		}
		op := OpCode(contract.Code[pc])
		operation := in.table[op]
		if operation == nil {
			return nil, ErrInvalidOpcode
		}

		if err := stack.require(operation.minStack); err != nil {
			in.fault(pc, op, contract.Gas, scope, err)
			return nil, err
		}
		if stack.len() > operation.maxStack {
			in.fault(pc, op, contract.Gas, scope, ErrStackOverflow)
			return nil, ErrStackOverflow
		}
		if in.readOnly && isStateMutating(op) {
			in.fault(pc, op, contract.Gas, scope, ErrWriteProtection)
			return nil, ErrWriteProtection
		}

		var memorySize uint64
		if operation.memorySize != nil {
			size, overflow := operation.memorySize(stack)
			if overflow {
				in.fault(pc, op, contract.Gas, scope, ErrGasUintOverflow)
				return nil, ErrGasUintOverflow
			}
			memorySize = toWordSize(size) * 32
		}

		gasBefore := contract.Gas
		if !contract.UseGas(operation.constantGas) {
			in.fault(pc, op, gasBefore, scope, ErrOutOfGas)
			return nil, ErrOutOfGas
		}
		if operation.dynamicGas != nil {
			dynamicCost, err := operation.dynamicGas(contract, stack, mem, memorySize)
			if err != nil {
				in.fault(pc, op, gasBefore, scope, err)
				return nil, err
			}
			if !contract.UseGas(dynamicCost) {
				in.fault(pc, op, gasBefore, scope, ErrOutOfGas)
				return nil, ErrOutOfGas
			}
		}
		if memorySize > 0 {
			mem.Resize(memorySize)
		}
		in.step(pc, op, contract.Gas, gasBefore-contract.Gas, scope)

		pcBefore := pc
		ret, err = operation.execute(&pc, in, scope)
		if err != nil {
			if err == errStopToken {
				in.returnData = ret
				return ret, nil
			}
			var reverted *ExecutionRevertedError
			if errors.As(err, &reverted) {
				in.returnData = reverted.ReturnData
			}
			return ret, err
		}
		if pc == pcBefore {
			pc++
		}
	}
	return nil, nil
}

// step reports a successful opcode dispatch to the attached tracing
// hooks, if any.
func (in *interpreter) step(pc uint64, op OpCode, gas, cost uint64, scope *scopeContext) {
	if in.evm.Hooks == nil || in.evm.Hooks.OnOpcode == nil {
		return
	}
	in.evm.Hooks.OnOpcode(pc, byte(op), gas, cost, scope)
}

// fault reports a failed opcode dispatch (stack, gas, or write-protection
// error) to the attached tracing hooks, if any.
func (in *interpreter) fault(pc uint64, op OpCode, gas uint64, scope *scopeContext, err error) {
	if in.evm.Hooks == nil || in.evm.Hooks.OnFault == nil {
		return
	}
	in.evm.Hooks.OnFault(pc, byte(op), gas, err, scope)
}

// isStateMutating reports whether op is disallowed inside a STATICCALL-style
// read-only frame.
func isStateMutating(op OpCode) bool {
	switch op {
	case SSTORE, SELFDESTRUCT, LOG0, LOG0 + 1, LOG0 + 2, LOG0 + 3, LOG0 + 4:
		return true
	}
	return false
}
