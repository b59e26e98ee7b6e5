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
	"testing"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/core/rawdb"
	"github.com/ethcore/chain/core/state"
	"github.com/ethcore/chain/core/tracing"
	"github.com/ethcore/chain/ethdb/memorydb"
	"github.com/stretchr/testify/require"
)

func newTestEVM(t *testing.T) (*EVM, *state.StateDB, common.Address) {
	t.Helper()
	db := state.New(memorydb.New())
	evm := NewEVM(Environment{
		GasPrice:      1,
		BlockNumber:   1,
		BlockTime:     1000,
		BlockGasLimit: 8_000_000,
		ChainID:       1337,
	}, db)
	addr := common.BytesToAddress([]byte("contract"))
	return evm, db, addr
}

func run(t *testing.T, code []byte, gas uint64) *Result {
	t.Helper()
	evm, _, addr := newTestEVM(t)
	contract := NewContract(common.BytesToAddress([]byte("caller")), addr, new(common.Word), gas)
	contract.SetCode(common.Hash{}, code)
	return evm.Run(contract, nil, false)
}

func TestAddAndReturn(t *testing.T) {
	// PUSH1 2 PUSH1 3 ADD PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	code := []byte{
		byte(PUSH1), 2,
		byte(PUSH1), 3,
		byte(ADD),
		byte(PUSH1), 0,
		byte(MSTORE),
		byte(PUSH1), 32,
		byte(PUSH1), 0,
		byte(RETURN),
	}
	res := run(t, code, 100000)
	require.NoError(t, res.Err)
	require.Equal(t, common.NewWord(5).Bytes32(), [32]byte(common.BytesToHash(res.ReturnData)))
}

func TestDivModZeroNoTrap(t *testing.T) {
	// PUSH1 0 PUSH1 5 DIV PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	code := []byte{
		byte(PUSH1), 0,
		byte(PUSH1), 5,
		byte(DIV),
		byte(PUSH1), 0,
		byte(MSTORE),
		byte(PUSH1), 32,
		byte(PUSH1), 0,
		byte(RETURN),
	}
	res := run(t, code, 100000)
	require.NoError(t, res.Err)
	require.True(t, common.NewWord(0).Eq(common.WordFromBytes(res.ReturnData)))
}

func TestStopHaltsSuccessfully(t *testing.T) {
	res := run(t, []byte{byte(STOP)}, 100000)
	require.NoError(t, res.Err)
	require.Nil(t, res.ReturnData)
}

func TestRevertPreservesReturnData(t *testing.T) {
	// PUSH1 42 PUSH1 0 MSTORE PUSH1 32 PUSH1 0 REVERT
	code := []byte{
		byte(PUSH1), 42,
		byte(PUSH1), 0,
		byte(MSTORE),
		byte(PUSH1), 32,
		byte(PUSH1), 0,
		byte(REVERT),
	}
	res := run(t, code, 100000)
	require.Error(t, res.Err)
	require.ErrorIs(t, res.Err, ErrExecutionReverted)
	require.True(t, common.NewWord(42).Eq(common.WordFromBytes(res.ReturnData)))
}

func TestStackUnderflow(t *testing.T) {
	res := run(t, []byte{byte(ADD)}, 100000)
	require.ErrorIs(t, res.Err, ErrStackUnderflow)
}

func TestOutOfGas(t *testing.T) {
	code := []byte{byte(PUSH1), 1, byte(PUSH1), 2, byte(ADD)}
	res := run(t, code, 2)
	require.ErrorIs(t, res.Err, ErrOutOfGas)
}

func TestPush32AtEndOfCodeReverts(t *testing.T) {
	code := []byte{byte(PUSH1) + 31} // PUSH32 with zero bytes of data following
	res := run(t, code, 100000)
	require.ErrorIs(t, res.Err, ErrIncompletePush)
}

func TestJumpIntoPushDataIsInvalid(t *testing.T) {
	// PUSH1 4 JUMP ; PUSH2 <JUMPDEST-byte> <anything> -- byte 4 happens to
	// equal JUMPDEST's opcode but is the immediate data of the PUSH2 at
	// byte 3, so it is not a valid jump target (spec.md §8).
	code := []byte{
		byte(PUSH1), 4,
		byte(JUMP),
		byte(PUSH2), byte(JUMPDEST), 0,
	}
	res := run(t, code, 100000)
	require.ErrorIs(t, res.Err, ErrInvalidJump)
}

func TestJumpToValidDestination(t *testing.T) {
	// PUSH1 4 JUMP JUMPDEST STOP -- jumps over a byte it must not execute.
	code := []byte{
		byte(PUSH1), 4,
		byte(JUMP),
		byte(INVALID),
		byte(JUMPDEST),
		byte(STOP),
	}
	res := run(t, code, 100000)
	require.NoError(t, res.Err)
}

func TestSloadSstoreRoundTrip(t *testing.T) {
	evm, db, addr := newTestEVM(t)
	// PUSH1 7 PUSH1 0 SSTORE PUSH1 0 SLOAD PUSH1 0 MSTORE PUSH1 32 PUSH1 0 RETURN
	code := []byte{
		byte(PUSH1), 7,
		byte(PUSH1), 0,
		byte(SSTORE),
		byte(PUSH1), 0,
		byte(SLOAD),
		byte(PUSH1), 0,
		byte(MSTORE),
		byte(PUSH1), 32,
		byte(PUSH1), 0,
		byte(RETURN),
	}
	contract := NewContract(common.BytesToAddress([]byte("caller")), addr, new(common.Word), 100000)
	contract.SetCode(common.Hash{}, code)
	res := evm.Run(contract, nil, false)
	require.NoError(t, res.Err)
	require.True(t, common.NewWord(7).Eq(common.WordFromBytes(res.ReturnData)))
	require.True(t, common.NewWord(7).Eq(db.GetState(addr, common.Hash{})))
}

func TestCalldataLoadPadsWithZeros(t *testing.T) {
	evm, _, addr := newTestEVM(t)
	code := []byte{
		byte(PUSH1), 0,
		byte(CALLDATALOAD),
		byte(PUSH1), 0,
		byte(MSTORE),
		byte(PUSH1), 32,
		byte(PUSH1), 0,
		byte(RETURN),
	}
	contract := NewContract(common.BytesToAddress([]byte("caller")), addr, new(common.Word), 100000)
	contract.SetCode(common.Hash{}, code)
	res := evm.Run(contract, []byte{0xff}, false)
	require.NoError(t, res.Err)
	want := make([]byte, 32)
	want[0] = 0xff
	require.Equal(t, want, res.ReturnData)
}

func TestLogEmitsEvent(t *testing.T) {
	evm, _, addr := newTestEVM(t)
	// PUSH1 1 PUSH1 0 MSTORE PUSH1 32 PUSH1 0 LOG0
	code := []byte{
		byte(PUSH1), 1,
		byte(PUSH1), 0,
		byte(MSTORE),
		byte(PUSH1), 32,
		byte(PUSH1), 0,
		byte(LOG0),
	}
	contract := NewContract(common.BytesToAddress([]byte("caller")), addr, new(common.Word), 100000)
	contract.SetCode(common.Hash{}, code)
	res := evm.Run(contract, nil, false)
	require.NoError(t, res.Err)
	require.Len(t, res.Logs, 1)
	require.Equal(t, addr, res.Logs[0].Address)
}

func TestSelfdestructTransfersBalanceAndRemovesAccount(t *testing.T) {
	evm, db, addr := newTestEVM(t)
	db.AddBalance(addr, common.NewWord(10))
	beneficiary := common.BytesToAddress([]byte("ben"))

	code := []byte{
		byte(PUSH1) + 2, 'b', 'e', 'n', // PUSH3 "ben"; BytesToAddress left-pads it to the beneficiary
		byte(SELFDESTRUCT),
	}
	contract := NewContract(common.BytesToAddress([]byte("caller")), addr, new(common.Word), 100000)
	contract.SetCode(common.Hash{}, code)
	res := evm.Run(contract, nil, false)
	require.NoError(t, res.Err)
	require.True(t, db.HasSelfDestructed(addr))
	require.True(t, common.NewWord(10).Eq(db.GetBalance(beneficiary)))
}

func TestReadOnlyRejectsSstore(t *testing.T) {
	evm, _, addr := newTestEVM(t)
	code := []byte{
		byte(PUSH1), 1,
		byte(PUSH1), 0,
		byte(SSTORE),
	}
	contract := NewContract(common.BytesToAddress([]byte("caller")), addr, new(common.Word), 100000)
	contract.SetCode(common.Hash{}, code)
	res := evm.Run(contract, nil, true)
	require.ErrorIs(t, res.Err, ErrWriteProtection)
}

func TestRawdbStorageKeyNonEmpty(t *testing.T) {
	addr := common.BytesToAddress([]byte("x"))
	key := common.BytesToHash([]byte("slot"))
	require.NotEmpty(t, rawdb.StorageKey(addr, key))
}

func TestHooksObserveEveryOpcode(t *testing.T) {
	evm, _, addr := newTestEVM(t)
	code := []byte{
		byte(PUSH1), 2,
		byte(PUSH1), 3,
		byte(ADD),
		byte(POP),
		byte(STOP),
	}
	contract := NewContract(common.BytesToAddress([]byte("caller")), addr, new(common.Word), 100000)
	contract.SetCode(common.Hash{}, code)

	var seen []OpCode
	var faulted bool
	evm.Hooks = &tracing.Hooks{
		OnOpcode: func(pc uint64, op byte, gas, cost uint64, scope tracing.OpContext) {
			seen = append(seen, OpCode(op))
			require.Equal(t, addr, scope.Address())
		},
		OnFault: func(pc uint64, op byte, gas uint64, err error, scope tracing.OpContext) {
			faulted = true
		},
	}

	res := evm.Run(contract, nil, false)
	require.NoError(t, res.Err)
	require.False(t, faulted)
	require.Equal(t, []OpCode{PUSH1, PUSH1, ADD, POP, STOP}, seen)
}

func TestHooksObserveFault(t *testing.T) {
	evm, _, addr := newTestEVM(t)
	contract := NewContract(common.BytesToAddress([]byte("caller")), addr, new(common.Word), 100000)
	contract.SetCode(common.Hash{}, []byte{byte(ADD)}) // empty stack: underflow

	var faultOp OpCode
	evm.Hooks = &tracing.Hooks{
		OnFault: func(pc uint64, op byte, gas uint64, err error, scope tracing.OpContext) {
			faultOp = OpCode(op)
		},
	}

	res := evm.Run(contract, nil, false)
	require.Error(t, res.Err)
	require.Equal(t, ADD, faultOp)
}
