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

// Package vm is the 256-bit word virtual machine (spec.md §4.2): an
// operand stack, linear memory, storage access and a gas-metered opcode
// dispatch loop, running against a World State under an Environment.
package vm

import (
	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/core/tracing"
	"github.com/ethcore/chain/core/types"
)

// StateDB is the subset of core/state.StateDB the VM needs to read and
// write account state. Defined here, rather than imported, so this
// package has no dependency on core/state's concrete type.
type StateDB interface {
	GetBalance(addr common.Address) *common.Word
	AddBalance(addr common.Address, amount *common.Word)
	GetNonce(addr common.Address) uint64
	GetCode(addr common.Address) []byte
	GetCodeHash(addr common.Address) common.Hash
	GetState(addr common.Address, key common.Hash) *common.Word
	SetState(addr common.Address, key common.Hash, value *common.Word)
	Exist(addr common.Address) bool
	SelfDestruct(addr common.Address)
	HasSelfDestructed(addr common.Address) bool
}

// Environment is the auxiliary, read-only information an executing
// contract observes (spec.md §4.2): `{contract_address, caller, origin,
// value, gasPrice, block{number,timestamp,coinbase,gasLimit}, chainId}`.
type Environment struct {
	Origin   common.Address
	GasPrice uint64

	Coinbase      common.Address
	BlockNumber   uint64
	BlockTime     uint64
	BlockGasLimit uint64
	ChainID       uint64
}

// EVM ties an Environment to a World State and runs Contract code against
// it. An EVM is not safe for concurrent or repeated use across unrelated
// executions; the executor constructs one per transaction.
type EVM struct {
	Environment
	StateDB StateDB

	// Hooks, if non-nil, is called back at each opcode step (core/tracing).
	// Left nil in ordinary block production and validation; a debugger or
	// an opcode-level test attaches one to observe a run without altering it.
	Hooks *tracing.Hooks

	jumpTable *JumpTable
}

// NewEVM constructs an EVM bound to env and statedb.
func NewEVM(env Environment, statedb StateDB) *EVM {
	return &EVM{
		Environment: env,
		StateDB:     statedb,
		jumpTable:   defaultJumpTable,
	}
}

// defaultJumpTable is built once; it never varies per-EVM since this
// chain has no hard-fork opcode schedule (spec.md's Non-goals exclude
// protocol upgrades).
var defaultJumpTable = newJumpTable()

// Result is everything a single VM execution produces: its return data
// (from RETURN/REVERT), the logs it emitted, the gas it consumed, and any
// error. The executor translates a non-nil Err into a failed Receipt.
type Result struct {
	ReturnData []byte
	Logs       []*types.Log
	GasUsed    uint64
	Err        error
}

// Run executes code as contract.Address's code, with input as calldata
// and gas as the budget, and returns the outcome. readOnly mirrors
// STATICCALL's write-protection; this chain's executor always runs with
// readOnly=false since there is no STATICCALL-equivalent top-level entry
// point (spec.md §4.2 describes no CALL opcode -- calls only happen at
// the transaction-executor level).
func (evm *EVM) Run(contract *Contract, input []byte, readOnly bool) *Result {
	gasBefore := contract.Gas
	in := newInterpreter(evm)
	ret, err := in.Run(contract, input, readOnly)
	return &Result{
		ReturnData: ret,
		Logs:       in.logs,
		GasUsed:    gasBefore - contract.Gas,
		Err:        err,
	}
}
