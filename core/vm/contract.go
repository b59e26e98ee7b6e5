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

import "github.com/ethcore/chain/common"

// Contract is the scoped execution environment for a single VM run: the
// code being executed, the calldata it was invoked with, and the gas
// budget it has left (spec.md §4.2's "Environment").
type Contract struct {
	Caller  common.Address
	Address common.Address
	Code    []byte
	CodeHash common.Hash
	Input   []byte

	Gas   uint64
	Value *common.Word
}

// NewContract returns a Contract ready to execute code against address
// self, called by caller, carrying value and an upfront gas budget.
func NewContract(caller, self common.Address, value *common.Word, gas uint64) *Contract {
	if value == nil {
		value = new(common.Word)
	}
	return &Contract{Caller: caller, Address: self, Value: value, Gas: gas}
}

// SetCode attaches the executing bytecode and its content hash.
func (c *Contract) SetCode(codeHash common.Hash, code []byte) {
	c.Code = code
	c.CodeHash = codeHash
}

// UseGas deducts amount from the contract's remaining gas. It reports
// false (without mutating Gas) if the budget cannot cover it.
func (c *Contract) UseGas(amount uint64) bool {
	if c.Gas < amount {
		return false
	}
	c.Gas -= amount
	return true
}

// validJumpdest reports whether dest is a JUMPDEST opcode in c.Code that
// is not itself inside the immediate-data of a preceding PUSHn (spec.md
// §8: "JUMP to a byte that is JUMPDEST's opcode but lies inside PUSH data
// -> invalid jump").
func (c *Contract) validJumpdest(dest *common.Word) bool {
	udest, overflow := dest.Uint64WithOverflow()
	if overflow || udest >= uint64(len(c.Code)) {
		return false
	}
	if OpCode(c.Code[udest]) != JUMPDEST {
		return false
	}
	return c.isCode(udest)
}

// isCode reports whether position udest is a genuine instruction start,
// as opposed to bytes that are the immediate operand of an earlier PUSHn.
func (c *Contract) isCode(udest uint64) bool {
	var i uint64
	for i < udest {
		op := OpCode(c.Code[i])
		if op.IsPush() {
			i += uint64(op.PushSize()) + 1
			continue
		}
		i++
	}
	return i == udest
}
