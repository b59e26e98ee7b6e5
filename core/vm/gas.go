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
	"github.com/ethcore/chain/common/math"
	"github.com/ethcore/chain/params"
)

// gasFunc computes the dynamic (operand-dependent) portion of an
// operation's gas cost. memorySize is the number of bytes memory would
// need to grow to after this operation, already computed by the
// operation's memorySize function.
type gasFunc func(contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error)

// memoryGasCost charges the quadratic cost of growing memory to
// newMemSize bytes, relative to what has already been charged for
// (mem.lastGasCost), matching spec.md §4.2's memory model.
func memoryGasCost(mem *Memory, newMemSize uint64) (uint64, error) {
	if newMemSize == 0 {
		return 0, nil
	}
	if newMemSize > 0x1FFFFFFFE0 {
		return 0, ErrGasUintOverflow
	}
	newMemSizeWords := toWordSize(newMemSize)
	newMemSize = newMemSizeWords * 32

	if newMemSize > uint64(mem.Len()) {
		square := newMemSizeWords * newMemSizeWords
		linCoef := newMemSizeWords * params.MemoryGas
		quadCoef := square / params.QuadCoeffDiv
		newTotalFee := linCoef + quadCoef

		fee := newTotalFee - mem.lastGasCost
		mem.lastGasCost = newTotalFee
		return fee, nil
	}
	return 0, nil
}

func memoryCopierGas(stackpos int) gasFunc {
	return func(contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
		gas, err := memoryGasCost(mem, memorySize)
		if err != nil {
			return 0, err
		}
		words, overflow := stack.Back(stackpos).Uint64WithOverflow()
		if overflow {
			return 0, ErrGasUintOverflow
		}
		wordGas, overflow := math.SafeMul(toWordSize(words), params.CopyGas)
		if overflow {
			return 0, ErrGasUintOverflow
		}
		total, overflow := math.SafeAdd(gas, wordGas)
		if overflow {
			return 0, ErrGasUintOverflow
		}
		return total, nil
	}
}

var (
	gasCallDataCopy   = memoryCopierGas(2)
	gasCodeCopy       = memoryCopierGas(2)
	gasExtCodeCopy    = memoryCopierGas(3)
	gasReturnDataCopy = memoryCopierGas(2)
)

func gasMLoad(contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}

func gasMStore(contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}

// gasSStore is a flat cost, per spec.md §4.2: "the design does not require
// the full EIP-2200 refund logic".
func gasSStore(contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return params.SstoreSetGas, nil
}

func gasSha3(contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	size, overflow := stack.Back(1).Uint64WithOverflow()
	if overflow {
		return 0, ErrGasUintOverflow
	}
	wordGas, overflow := math.SafeMul(toWordSize(size), params.Sha3WordGas)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	total, overflow := math.SafeAdd(gas, wordGas)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return total, nil
}

func gasExp(contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	expBytes := (stack.Back(1).BitLen() + 7) / 8
	gas, overflow := math.SafeMul(uint64(expBytes), params.ExpByteGas)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

func makeGasLog(topics uint64) gasFunc {
	return func(contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
		gas, err := memoryGasCost(mem, memorySize)
		if err != nil {
			return 0, err
		}
		requestedSize, overflow := stack.Back(1).Uint64WithOverflow()
		if overflow {
			return 0, ErrGasUintOverflow
		}

		topicGas, overflow := math.SafeMul(topics, params.LogTopicGas)
		if overflow {
			return 0, ErrGasUintOverflow
		}
		if gas, overflow = math.SafeAdd(gas, topicGas); overflow {
			return 0, ErrGasUintOverflow
		}

		dataGas, overflow := math.SafeMul(requestedSize, params.LogDataGas)
		if overflow {
			return 0, ErrGasUintOverflow
		}
		if gas, overflow = math.SafeAdd(gas, dataGas); overflow {
			return 0, ErrGasUintOverflow
		}
		return gas, nil
	}
}
