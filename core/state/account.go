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

// Package state implements the World State (spec.md §4.1): an
// address-keyed mapping to accounts with nested snapshot/revert/commit,
// backed by an opaque key-value store.
package state

import (
	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/crypto"
	"github.com/ethcore/chain/rlp"
)

// EmptyCodeHash is the hash of an account with no code.
var EmptyCodeHash = crypto.Keccak256Hash(nil)

// Account is the per-address record the World State owns (spec.md §3):
// nonce, balance, and code. Storage is kept out of line, slot by slot,
// under the storage: key prefix.
type Account struct {
	Nonce   uint64
	Balance *common.Word
	Code    []byte
}

// encode renders the account as a canonical length-prefix list: nonce,
// balance, code.
func (a *Account) encode() []byte {
	balance := new(common.Word)
	if a.Balance != nil {
		balance.Set(a.Balance)
	}
	return rlp.List(
		rlp.EncodeUint(nil, a.Nonce),
		rlp.EncodeBytes(nil, balance.Bytes()),
		rlp.EncodeBytes(nil, a.Code),
	)
}

func decodeAccount(b []byte) (Account, error) {
	item, _, err := rlp.DecodeItem(b)
	if err != nil {
		return Account{}, err
	}
	if !item.IsList || len(item.List) != 3 {
		return Account{}, rlp.ErrMalformed
	}
	nonce, err := item.List[0].AsUint64()
	if err != nil {
		return Account{}, err
	}
	return Account{
		Nonce:   nonce,
		Balance: common.WordFromBytes(item.List[1].Bytes),
		Code:    append([]byte(nil), item.List[2].Bytes...),
	}, nil
}

// CodeHash returns the keccak256 hash of the account's code.
func (a *Account) CodeHash() common.Hash {
	if len(a.Code) == 0 {
		return EmptyCodeHash
	}
	return crypto.Keccak256Hash(a.Code)
}

// IsEmpty reports whether the account is indistinguishable from one that
// was never touched: zero nonce, zero balance, no code.
func (a *Account) IsEmpty() bool {
	return a.Nonce == 0 && common.ZeroWord(a.Balance) && len(a.Code) == 0
}
