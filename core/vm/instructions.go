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
	"github.com/ethcore/chain/core/types"
	"github.com/ethcore/chain/crypto"
)

func opStop(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	return nil, errStopToken
}

func opAdd(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Add(&x, y)
	return nil, nil
}

func opMul(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Mul(&x, y)
	return nil, nil
}

func opSub(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Sub(&x, y)
	return nil, nil
}

func opDiv(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Div(&x, y)
	return nil, nil
}

func opSdiv(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.SDiv(&x, y)
	return nil, nil
}

func opMod(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Mod(&x, y)
	return nil, nil
}

func opSmod(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.SMod(&x, y)
	return nil, nil
}

func opAddmod(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y, z := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.peek()
	z.AddMod(&x, &y, z)
	return nil, nil
}

func opMulmod(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y, z := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.peek()
	z.MulMod(&x, &y, z)
	return nil, nil
}

func opExp(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	base, exponent := scope.Stack.pop(), scope.Stack.peek()
	exponent.Exp(&base, exponent)
	return nil, nil
}

func opSignExtend(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	back, num := scope.Stack.pop(), scope.Stack.peek()
	num.ExtendSign(num, &back)
	return nil, nil
}

func opLt(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opGt(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSlt(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSgt(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opEq(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opIszero(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x := scope.Stack.peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, nil
}

func opAnd(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.And(&x, y)
	return nil, nil
}

func opOr(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Or(&x, y)
	return nil, nil
}

func opXor(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x, y := scope.Stack.pop(), scope.Stack.peek()
	y.Xor(&x, y)
	return nil, nil
}

func opNot(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x := scope.Stack.peek()
	x.Not(x)
	return nil, nil
}

func opByte(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	th, val := scope.Stack.pop(), scope.Stack.peek()
	val.Byte(&th)
	return nil, nil
}

func opShl(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	shift, value := scope.Stack.pop(), scope.Stack.peek()
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opShr(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	shift, value := scope.Stack.pop(), scope.Stack.peek()
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opSar(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	shift, value := scope.Stack.pop(), scope.Stack.peek()
	if shift.GtUint64(255) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			value.SetAllOne()
		}
		return nil, nil
	}
	n := uint(shift.Uint64())
	value.SRsh(value, n)
	return nil, nil
}

func opSha3(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	offset, size := scope.Stack.pop(), scope.Stack.peek()
	data := scope.Memory.GetPtr(int64(offset.Uint64()), int64(size.Uint64()))
	hash := crypto.Keccak256(data)
	size.SetBytes(hash)
	return nil, nil
}

func opAddress(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).SetBytes(scope.Contract.Address.Bytes()))
	return nil, nil
}

func opBalance(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	slot := scope.Stack.peek()
	addr := common.BytesToAddress(slot.Bytes())
	slot.Set(in.evm.StateDB.GetBalance(addr))
	return nil, nil
}

func opOrigin(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).SetBytes(in.evm.Origin.Bytes()))
	return nil, nil
}

func opCaller(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).SetBytes(scope.Contract.Caller.Bytes()))
	return nil, nil
}

func opCallValue(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).Set(scope.Contract.Value))
	return nil, nil
}

func opCallDataLoad(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	x := scope.Stack.peek()
	if offset, overflow := x.Uint64WithOverflow(); !overflow {
		data := getData(scope.Contract.Input, offset, 32)
		x.SetBytes(data)
	} else {
		x.Clear()
	}
	return nil, nil
}

func opCallDataSize(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).SetUint64(uint64(len(scope.Contract.Input))))
	return nil, nil
}

func opCallDataCopy(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	memOffset, dataOffset, length := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	dataOffset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		dataOffset64 = 0xffffffffffffffff
	}
	data := getData(scope.Contract.Input, dataOffset64, length.Uint64())
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opCodeSize(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).SetUint64(uint64(len(scope.Contract.Code))))
	return nil, nil
}

func opCodeCopy(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	memOffset, codeOffset, length := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	codeOffset64, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		codeOffset64 = 0xffffffffffffffff
	}
	data := getData(scope.Contract.Code, codeOffset64, length.Uint64())
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opGasprice(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).SetUint64(in.evm.GasPrice))
	return nil, nil
}

func opExtCodeSize(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	slot := scope.Stack.peek()
	addr := common.BytesToAddress(slot.Bytes())
	slot.SetUint64(uint64(len(in.evm.StateDB.GetCode(addr))))
	return nil, nil
}

func opExtCodeCopy(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	slot := scope.Stack.pop()
	addr := common.BytesToAddress(slot.Bytes())
	memOffset, codeOffset, length := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	codeOffset64, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		codeOffset64 = 0xffffffffffffffff
	}
	code := in.evm.StateDB.GetCode(addr)
	data := getData(code, codeOffset64, length.Uint64())
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opExtCodeHash(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	slot := scope.Stack.peek()
	addr := common.BytesToAddress(slot.Bytes())
	if !in.evm.StateDB.Exist(addr) {
		slot.Clear()
		return nil, nil
	}
	slot.SetBytes(in.evm.StateDB.GetCodeHash(addr).Bytes())
	return nil, nil
}

func opReturnDataSize(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).SetUint64(uint64(len(in.returnData))))
	return nil, nil
}

func opReturnDataCopy(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	memOffset, dataOffset, length := scope.Stack.pop(), scope.Stack.pop(), scope.Stack.pop()
	offset64, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		return nil, ErrReturnDataOOB
	}
	end := dataOffset.Add(&dataOffset, &length)
	end64, overflow := end.Uint64WithOverflow()
	if overflow || uint64(len(in.returnData)) < end64 {
		return nil, ErrReturnDataOOB
	}
	scope.Memory.Set(memOffset.Uint64(), length.Uint64(), in.returnData[offset64:end64])
	return nil, nil
}

func opCoinbase(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).SetBytes(in.evm.Coinbase.Bytes()))
	return nil, nil
}

func opTimestamp(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).SetUint64(in.evm.BlockTime))
	return nil, nil
}

func opNumber(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).SetUint64(in.evm.BlockNumber))
	return nil, nil
}

func opGasLimit(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).SetUint64(in.evm.BlockGasLimit))
	return nil, nil
}

func opChainID(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).SetUint64(in.evm.ChainID))
	return nil, nil
}

func opSelfBalance(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(in.evm.StateDB.GetBalance(scope.Contract.Address))
	return nil, nil
}

func opPop(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.pop()
	return nil, nil
}

func opMload(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	v := scope.Stack.peek()
	offset := v.Uint64()
	v.SetBytes(scope.Memory.GetPtr(int64(offset), 32))
	return nil, nil
}

func opMstore(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	mStart, val := scope.Stack.pop(), scope.Stack.pop()
	scope.Memory.Set32(mStart.Uint64(), &val)
	return nil, nil
}

func opMstore8(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	off, val := scope.Stack.pop(), scope.Stack.pop()
	scope.Memory.store[off.Uint64()] = byte(val.Uint64())
	return nil, nil
}

func opSload(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	loc := scope.Stack.peek()
	hash := common.Hash(loc.Bytes32())
	loc.Set(in.evm.StateDB.GetState(scope.Contract.Address, hash))
	return nil, nil
}

func opSstore(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	if in.readOnly {
		return nil, ErrWriteProtection
	}
	loc, val := scope.Stack.pop(), scope.Stack.pop()
	in.evm.StateDB.SetState(scope.Contract.Address, common.Hash(loc.Bytes32()), &val)
	return nil, nil
}

func opJump(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	dest := scope.Stack.pop()
	if !scope.Contract.validJumpdest(&dest) {
		return nil, ErrInvalidJump
	}
	*pc = dest.Uint64()
	return nil, nil
}

func opJumpi(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	dest, cond := scope.Stack.pop(), scope.Stack.pop()
	if cond.IsZero() {
		return nil, nil
	}
	if !scope.Contract.validJumpdest(&dest) {
		return nil, ErrInvalidJump
	}
	*pc = dest.Uint64()
	return nil, nil
}

func opPc(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).SetUint64(*pc))
	return nil, nil
}

func opMsize(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).SetUint64(uint64(scope.Memory.Len())))
	return nil, nil
}

func opGas(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word).SetUint64(scope.Contract.Gas))
	return nil, nil
}

func opJumpdest(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	return nil, nil
}

func opPush0(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	scope.Stack.push(new(common.Word))
	return nil, nil
}

// makePush builds the handler for PUSH1..PUSH32. Per spec.md §8, a push
// that runs past the end of the code (no room for its full immediate data)
// reverts rather than zero-padding.
func makePush(size int) executionFunc {
	return func(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
		codeLen := len(scope.Contract.Code)
		start := int(*pc) + 1
		end := start + size
		if end > codeLen {
			return nil, ErrIncompletePush
		}
		integer := new(common.Word)
		scope.Stack.push(integer.SetBytes(scope.Contract.Code[start:end]))
		*pc = uint64(end)
		return nil, nil
	}
}

func makeDup(n int) executionFunc {
	return func(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
		return nil, scope.Stack.dup(n)
	}
}

func makeSwap(n int) executionFunc {
	return func(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
		scope.Stack.swap(n)
		return nil, nil
	}
}

func makeLog(topicCount int) executionFunc {
	return func(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
		if in.readOnly {
			return nil, ErrWriteProtection
		}
		mStart, mSize := scope.Stack.pop(), scope.Stack.pop()
		topics := make([]common.Hash, topicCount)
		for i := 0; i < topicCount; i++ {
			addr := scope.Stack.pop()
			topics[i] = common.Hash(addr.Bytes32())
		}
		data := scope.Memory.GetCopy(int64(mStart.Uint64()), int64(mSize.Uint64()))
		in.logs = append(in.logs, &types.Log{
			Address: scope.Contract.Address,
			Topics:  topics,
			Data:    data,
		})
		return nil, nil
	}
}

func opReturn(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	offset, size := scope.Stack.pop(), scope.Stack.pop()
	ret := scope.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))
	return ret, errStopToken
}

func opRevert(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	offset, size := scope.Stack.pop(), scope.Stack.pop()
	ret := scope.Memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64()))
	return ret, &ExecutionRevertedError{ReturnData: ret}
}

func opSelfdestruct(pc *uint64, in *interpreter, scope *scopeContext) ([]byte, error) {
	if in.readOnly {
		return nil, ErrWriteProtection
	}
	beneficiarySlot := scope.Stack.pop()
	beneficiary := common.BytesToAddress(beneficiarySlot.Bytes())
	balance := in.evm.StateDB.GetBalance(scope.Contract.Address)
	in.evm.StateDB.AddBalance(beneficiary, balance)
	in.evm.StateDB.SelfDestruct(scope.Contract.Address)
	return nil, errStopToken
}

// getData returns a length-byte window of data starting at offset,
// zero-padding past the end (spec.md §4.2's calldata/code-copy padding
// rule).
func getData(data []byte, offset, length uint64) []byte {
	if offset > uint64(len(data)) {
		offset = uint64(len(data))
	}
	end := offset + length
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	out := make([]byte, length)
	copy(out, data[offset:end])
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
