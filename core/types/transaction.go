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

// Package types holds the chain's value objects: transactions, receipts,
// logs and blocks. Unlike upstream go-ethereum, this package has no tx
// envelope/type hierarchy (LegacyTx/DynamicFeeTx/BlobTx) -- spec.md's
// Non-goals exclude EIP-1559 fee markets and there is only ever one
// transaction shape, matching the field list spec.md §6 specifies.
package types

import (
	"sync/atomic"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/crypto"
	"github.com/ethcore/chain/rlp"
)

// Transaction is the chain's single transaction shape (spec.md §3, §6).
// A nil To means contract creation.
type Transaction struct {
	From     common.Address
	To       *common.Address
	Value    *common.Word
	GasLimit uint64
	GasPrice uint64
	Nonce    uint64
	Data     []byte

	hash atomic.Pointer[common.Hash]
}

// NewTransaction constructs a Transaction. to == nil means a contract
// creation.
func NewTransaction(from common.Address, to *common.Address, value *common.Word, gasLimit, gasPrice, nonce uint64, data []byte) *Transaction {
	return &Transaction{
		From:     from,
		To:       to,
		Value:    value,
		GasLimit: gasLimit,
		GasPrice: gasPrice,
		Nonce:    nonce,
		Data:     append([]byte(nil), data...),
	}
}

// IsCreation reports whether this transaction creates a contract.
func (tx *Transaction) IsCreation() bool { return tx.To == nil }

// Hash returns the transaction's deterministic content hash (spec.md §6),
// computing and caching it on first use.
func (tx *Transaction) Hash() common.Hash {
	if p := tx.hash.Load(); p != nil {
		return *p
	}
	h := crypto.Keccak256Hash(EncodeTransaction(tx))
	tx.hash.Store(&h)
	return h
}

// Cost returns value + gasLimit*gasPrice, the balance the sender must hold
// for the transaction to be admissible (spec.md §4.3 step 1).
func (tx *Transaction) Cost() *common.Word {
	gasCost := new(common.Word).SetUint64(tx.GasLimit)
	gasCost.Mul(gasCost, new(common.Word).SetUint64(tx.GasPrice))
	total := new(common.Word)
	if tx.Value != nil {
		total.Set(tx.Value)
	}
	return total.Add(total, gasCost)
}
