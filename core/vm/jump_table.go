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

package vm

import (
	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/params"
)

// executionFunc runs a single opcode. pc advances by the interpreter
// unless the opcode itself repositions it (JUMP/JUMPI).
type executionFunc func(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error)

// memorySizeFunc returns the number of bytes memory must grow to before
// the operation runs, and whether computing that size overflowed.
type memorySizeFunc func(*Stack) (uint64, bool)

// operation is one entry of the opcode dispatch table (spec.md §290:
// "runtime polymorphism of opcodes... a dispatch table of function values").
type operation struct {
	execute     executionFunc
	constantGas uint64
	dynamicGas  gasFunc
	minStack    int
	maxStack    int
	memorySize  memorySizeFunc
}

// scopeContext bundles the per-call mutable execution state an
// executionFunc needs.
type scopeContext struct {
	Memory   *Memory
	Stack    *Stack
	Contract *Contract
}

// StackData, MemoryData, Contract and Caller satisfy tracing.OpContext,
// letting a scopeContext be handed directly to a tracing hook.
func (s *scopeContext) StackData() []*common.Word { return s.Stack.Data() }
func (s *scopeContext) MemoryData() []byte        { return s.Memory.Data() }
func (s *scopeContext) Address() common.Address   { return s.Contract.Address }
func (s *scopeContext) Caller() common.Address    { return s.Contract.Caller }

type JumpTable [256]*operation

func memSizeStack(pos int, sizePos int) memorySizeFunc {
	return func(stack *Stack) (uint64, bool) {
		size, overflow := calcMemSize(stack.Back(pos), stack.Back(sizePos))
		if overflow {
			return 0, true
		}
		return size, false
	}
}

// newJumpTable builds the opcode dispatch table (spec.md §4.2).
func newJumpTable() *JumpTable {
	var jt JumpTable

	jt[STOP] = &operation{execute: opStop, constantGas: 0, minStack: 0, maxStack: 1024}
	jt[ADD] = &operation{execute: opAdd, constantGas: params.GasFastestStep, minStack: 2, maxStack: 1024}
	jt[MUL] = &operation{execute: opMul, constantGas: params.GasFastStep, minStack: 2, maxStack: 1024}
	jt[SUB] = &operation{execute: opSub, constantGas: params.GasFastestStep, minStack: 2, maxStack: 1024}
	jt[DIV] = &operation{execute: opDiv, constantGas: params.GasFastStep, minStack: 2, maxStack: 1024}
	jt[SDIV] = &operation{execute: opSdiv, constantGas: params.GasFastStep, minStack: 2, maxStack: 1024}
	jt[MOD] = &operation{execute: opMod, constantGas: params.GasFastStep, minStack: 2, maxStack: 1024}
	jt[SMOD] = &operation{execute: opSmod, constantGas: params.GasFastStep, minStack: 2, maxStack: 1024}
	jt[ADDMOD] = &operation{execute: opAddmod, constantGas: params.GasMidStep, minStack: 3, maxStack: 1024}
	jt[MULMOD] = &operation{execute: opMulmod, constantGas: params.GasMidStep, minStack: 3, maxStack: 1024}
	jt[EXP] = &operation{execute: opExp, constantGas: params.ExpGas, dynamicGas: gasExp, minStack: 2, maxStack: 1024}
	jt[SIGNEXTEND] = &operation{execute: opSignExtend, constantGas: params.GasFastStep, minStack: 2, maxStack: 1024}

	jt[LT] = &operation{execute: opLt, constantGas: params.GasFastestStep, minStack: 2, maxStack: 1024}
	jt[GT] = &operation{execute: opGt, constantGas: params.GasFastestStep, minStack: 2, maxStack: 1024}
	jt[SLT] = &operation{execute: opSlt, constantGas: params.GasFastestStep, minStack: 2, maxStack: 1024}
	jt[SGT] = &operation{execute: opSgt, constantGas: params.GasFastestStep, minStack: 2, maxStack: 1024}
	jt[EQ] = &operation{execute: opEq, constantGas: params.GasFastestStep, minStack: 2, maxStack: 1024}
	jt[ISZERO] = &operation{execute: opIszero, constantGas: params.GasFastestStep, minStack: 1, maxStack: 1024}
	jt[AND] = &operation{execute: opAnd, constantGas: params.GasFastestStep, minStack: 2, maxStack: 1024}
	jt[OR] = &operation{execute: opOr, constantGas: params.GasFastestStep, minStack: 2, maxStack: 1024}
	jt[XOR] = &operation{execute: opXor, constantGas: params.GasFastestStep, minStack: 2, maxStack: 1024}
	jt[NOT] = &operation{execute: opNot, constantGas: params.GasFastestStep, minStack: 1, maxStack: 1024}
	jt[BYTE] = &operation{execute: opByte, constantGas: params.GasFastestStep, minStack: 2, maxStack: 1024}
	jt[SHL] = &operation{execute: opShl, constantGas: params.GasFastestStep, minStack: 2, maxStack: 1024}
	jt[SHR] = &operation{execute: opShr, constantGas: params.GasFastestStep, minStack: 2, maxStack: 1024}
	jt[SAR] = &operation{execute: opSar, constantGas: params.GasFastestStep, minStack: 2, maxStack: 1024}

	jt[KECCAK256] = &operation{execute: opSha3, constantGas: params.Sha3Gas, dynamicGas: gasSha3, minStack: 2, maxStack: 1024, memorySize: memSizeStack(0, 1)}

	jt[ADDRESS] = &operation{execute: opAddress, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[BALANCE] = &operation{execute: opBalance, constantGas: params.GasExtStep, minStack: 1, maxStack: 1024}
	jt[ORIGIN] = &operation{execute: opOrigin, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[CALLER] = &operation{execute: opCaller, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[CALLVALUE] = &operation{execute: opCallValue, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[CALLDATALOAD] = &operation{execute: opCallDataLoad, constantGas: params.GasFastestStep, minStack: 1, maxStack: 1024}
	jt[CALLDATASIZE] = &operation{execute: opCallDataSize, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[CALLDATACOPY] = &operation{execute: opCallDataCopy, constantGas: params.GasFastestStep, dynamicGas: gasCallDataCopy, minStack: 3, maxStack: 1024, memorySize: memSizeStack(0, 2)}
	jt[CODESIZE] = &operation{execute: opCodeSize, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[CODECOPY] = &operation{execute: opCodeCopy, constantGas: params.GasFastestStep, dynamicGas: gasCodeCopy, minStack: 3, maxStack: 1024, memorySize: memSizeStack(0, 2)}
	jt[GASPRICE] = &operation{execute: opGasprice, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[EXTCODESIZE] = &operation{execute: opExtCodeSize, constantGas: params.GasExtStep, minStack: 1, maxStack: 1024}
	jt[EXTCODECOPY] = &operation{execute: opExtCodeCopy, constantGas: params.GasExtStep, dynamicGas: gasExtCodeCopy, minStack: 4, maxStack: 1024, memorySize: memSizeStack(1, 3)}
	jt[EXTCODEHASH] = &operation{execute: opExtCodeHash, constantGas: params.GasExtStep, minStack: 1, maxStack: 1024}
	jt[RETURNDATASIZE] = &operation{execute: opReturnDataSize, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[RETURNDATACOPY] = &operation{execute: opReturnDataCopy, constantGas: params.GasFastestStep, dynamicGas: gasReturnDataCopy, minStack: 3, maxStack: 1024, memorySize: memSizeStack(0, 2)}

	jt[COINBASE] = &operation{execute: opCoinbase, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[TIMESTAMP] = &operation{execute: opTimestamp, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[NUMBER] = &operation{execute: opNumber, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[GASLIMIT] = &operation{execute: opGasLimit, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[CHAINID] = &operation{execute: opChainID, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[SELFBALANCE] = &operation{execute: opSelfBalance, constantGas: params.GasFastStep, minStack: 0, maxStack: 1023}

	jt[POP] = &operation{execute: opPop, constantGas: params.GasQuickStep, minStack: 1, maxStack: 1024}
	jt[MLOAD] = &operation{execute: opMload, constantGas: params.GasFastestStep, dynamicGas: gasMLoad, minStack: 1, maxStack: 1024, memorySize: memSizeConst(0, 32)}
	jt[MSTORE] = &operation{execute: opMstore, constantGas: params.GasFastestStep, dynamicGas: gasMStore, minStack: 2, maxStack: 1024, memorySize: memSizeConst(0, 32)}
	jt[MSTORE8] = &operation{execute: opMstore8, constantGas: params.GasFastestStep, dynamicGas: gasMStore, minStack: 2, maxStack: 1024, memorySize: memSizeConst(0, 1)}
	jt[SLOAD] = &operation{execute: opSload, constantGas: params.SloadGas, minStack: 1, maxStack: 1024}
	jt[SSTORE] = &operation{execute: opSstore, dynamicGas: gasSStore, minStack: 2, maxStack: 1024}
	jt[JUMP] = &operation{execute: opJump, constantGas: params.GasMidStep, minStack: 1, maxStack: 1024}
	jt[JUMPI] = &operation{execute: opJumpi, constantGas: params.GasSlowStep, minStack: 2, maxStack: 1024}
	jt[PC] = &operation{execute: opPc, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[MSIZE] = &operation{execute: opMsize, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[GAS] = &operation{execute: opGas, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	jt[JUMPDEST] = &operation{execute: opJumpdest, constantGas: params.JumpdestGas, minStack: 0, maxStack: 1024}

	jt[PUSH0] = &operation{execute: opPush0, constantGas: params.GasQuickStep, minStack: 0, maxStack: 1023}
	for i := 1; i <= 32; i++ {
		jt[int(PUSH1)+i-1] = &operation{execute: makePush(i), constantGas: params.GasFastestStep, minStack: 0, maxStack: 1023}
	}
	for i := 1; i <= 16; i++ {
		jt[int(DUP1)+i-1] = &operation{execute: makeDup(i), constantGas: params.GasFastestStep, minStack: i, maxStack: 1024}
	}
	for i := 1; i <= 16; i++ {
		jt[int(SWAP1)+i-1] = &operation{execute: makeSwap(i), constantGas: params.GasFastestStep, minStack: i + 1, maxStack: 1024}
	}
	for i := 0; i <= 4; i++ {
		jt[int(LOG0)+i] = &operation{
			execute:     makeLog(i),
			dynamicGas:  makeGasLog(uint64(i)),
			constantGas: params.LogGas,
			minStack:    2 + i,
			maxStack:    1024,
			memorySize:  memSizeStack(0, 1),
		}
	}

	jt[RETURN] = &operation{execute: opReturn, minStack: 2, maxStack: 1024, memorySize: memSizeStack(0, 1)}
	jt[REVERT] = &operation{execute: opRevert, minStack: 2, maxStack: 1024, memorySize: memSizeStack(0, 1)}
	jt[SELFDESTRUCT] = &operation{execute: opSelfdestruct, constantGas: params.GasFastStep, minStack: 1, maxStack: 1024}

	return &jt
}

// memSizeConst requests a fixed-length range [stack.Back(pos), +length)
// rather than one whose length is itself a stack operand.
func memSizeConst(pos int, length uint64) memorySizeFunc {
	return func(stack *Stack) (uint64, bool) {
		offset := stack.Back(pos)
		if offset.BitLen() > 64 {
			return 0, true
		}
		off := offset.Uint64()
		sum := off + length
		if sum < off {
			return 0, true
		}
		return sum, false
	}
}
