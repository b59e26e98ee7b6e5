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

// Package params collects the protocol-wide constants the VM's gas table,
// the executor and the block processor all key off of.
package params

const (
	// TxGas is the intrinsic gas cost of a transaction with no data and a
	// non-nil "to" (a plain value transfer), matching the worked example in
	// spec.md §8 scenario 1 (gasLimit 21000).
	TxGas uint64 = 21000
	// TxGasContractCreation is the intrinsic gas cost of a contract-creating
	// transaction.
	TxGasContractCreation uint64 = 53000
	// TxDataZeroGas is the gas cost per zero byte of transaction data.
	TxDataZeroGas uint64 = 4
	// TxDataNonZeroGas is the gas cost per non-zero byte of transaction data.
	TxDataNonZeroGas uint64 = 16

	// MaxCodeSize is the maximum length, in bytes, of contract runtime code
	// that CREATE/CREATE-equivalent execution is allowed to install.
	MaxCodeSize = 24576
	// MaxInitCodeSize is the maximum length of the creation (init) code
	// itself, twice MaxCodeSize as upstream go-ethereum sets it.
	MaxInitCodeSize = 2 * MaxCodeSize

	// CreateDataGas is charged per byte of code returned from a CREATE's
	// init execution when it is installed as the new account's code.
	CreateDataGas uint64 = 200

	// CallCreateDepth is the maximum call/create recursion depth a single
	// top-level transaction's execution may reach.
	CallCreateDepth = 1024

	// StackLimit is the maximum depth of the VM's operand stack (spec.md §3).
	StackLimit = 1024

	// MemoryGas is the per-word linear coefficient of memory-expansion gas.
	MemoryGas uint64 = 3
	// QuadCoeffDiv is the divisor of the quadratic memory-expansion term.
	QuadCoeffDiv uint64 = 512

	// SstoreSetGas is the flat cost of an SSTORE, per spec.md §4.2 ("SSTORE
	// charges a flat cost; the design does not require full EIP-2200 refund
	// logic").
	SstoreSetGas uint64 = 20000

	// SloadGas is the cost of an SLOAD.
	SloadGas uint64 = 200

	// Sha3Gas is the base cost of the KECCAK256/SHA3 opcode.
	Sha3Gas uint64 = 30
	// Sha3WordGas is the per-word cost of hashing with KECCAK256/SHA3.
	Sha3WordGas uint64 = 6

	// CopyGas is the per-word cost of the *COPY family of opcodes.
	CopyGas uint64 = 3

	// LogGas is the base cost of a LOG opcode.
	LogGas uint64 = 375
	// LogTopicGas is the per-topic cost of a LOG opcode.
	LogTopicGas uint64 = 375
	// LogDataGas is the per-byte cost of a LOG opcode's data.
	LogDataGas uint64 = 8

	// JumpdestGas is the cost of a JUMPDEST no-op.
	JumpdestGas uint64 = 1

	// GasQuickStep/GasFastestStep/etc. are the generic per-tier costs the
	// jump table assigns opcodes that don't need a bespoke gas function.
	GasQuickStep   uint64 = 2
	GasFastestStep uint64 = 3
	GasFastStep    uint64 = 5
	GasMidStep     uint64 = 8
	GasSlowStep    uint64 = 10
	GasExtStep     uint64 = 20

	// ExpGas is the base cost of EXP; ExpByteGas is charged per byte of the
	// exponent.
	ExpGas     uint64 = 10
	ExpByteGas uint64 = 10
)
