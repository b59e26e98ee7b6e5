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

package state

import (
	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/core/rawdb"
	"github.com/ethcore/chain/crypto"
)

// stateObject is the in-memory representation of a single account while it
// is being read or mutated. Storage reads are cached in originStorage;
// writes go to dirtyStorage until Finalize flushes them.
type stateObject struct {
	db      *StateDB
	address common.Address
	data    Account

	code []byte

	originStorage map[common.Hash]*common.Word
	dirtyStorage  map[common.Hash]*common.Word

	selfDestructed bool
	created        bool
}

func newObject(db *StateDB, addr common.Address, data Account) *stateObject {
	if data.Balance == nil {
		data.Balance = new(common.Word)
	}
	return &stateObject{
		db:            db,
		address:       addr,
		data:          data,
		code:          data.Code,
		originStorage: make(map[common.Hash]*common.Word),
		dirtyStorage:  make(map[common.Hash]*common.Word),
	}
}

func (o *stateObject) empty() bool {
	return o.data.Nonce == 0 && common.ZeroWord(o.data.Balance) && len(o.code) == 0
}

// --- balance ---

func (o *stateObject) Balance() *common.Word { return o.data.Balance }

func (o *stateObject) setBalance(amount *common.Word) {
	o.data.Balance = amount
}

func (o *stateObject) AddBalance(amount *common.Word) {
	if common.ZeroWord(amount) {
		return
	}
	o.SetBalance(new(common.Word).Add(o.data.Balance, amount))
}

func (o *stateObject) SubBalance(amount *common.Word) {
	if common.ZeroWord(amount) {
		return
	}
	o.SetBalance(new(common.Word).Sub(o.data.Balance, amount))
}

func (o *stateObject) SetBalance(amount *common.Word) {
	o.db.journal.append(balanceChange{
		account: &o.address,
		prev:    new(common.Word).Set(o.data.Balance),
	})
	o.setBalance(amount)
}

// --- nonce ---

func (o *stateObject) Nonce() uint64 { return o.data.Nonce }

func (o *stateObject) setNonce(nonce uint64) { o.data.Nonce = nonce }

func (o *stateObject) SetNonce(nonce uint64) {
	o.db.journal.append(nonceChange{account: &o.address, prev: o.data.Nonce})
	o.setNonce(nonce)
}

// --- code ---

func (o *stateObject) Code() []byte { return o.code }

func (o *stateObject) CodeHash() common.Hash {
	if len(o.code) == 0 {
		return EmptyCodeHash
	}
	return crypto.Keccak256Hash(o.code)
}

func (o *stateObject) setCode(code []byte) {
	o.code = code
	o.data.Code = code
}

func (o *stateObject) SetCode(code []byte) {
	o.db.journal.append(codeChange{
		account:  &o.address,
		prevCode: o.code,
	})
	o.setCode(code)
}

// --- storage ---

func (o *stateObject) GetState(key common.Hash) *common.Word {
	if v, dirty := o.dirtyStorage[key]; dirty {
		return v
	}
	return o.GetCommittedState(key)
}

func (o *stateObject) GetCommittedState(key common.Hash) *common.Word {
	if v, ok := o.originStorage[key]; ok {
		return v
	}
	raw, err := o.db.db.Get(rawdb.StorageKey(o.address, key))
	v := new(common.Word)
	if err == nil {
		v = common.WordFromBytes(raw)
	}
	o.originStorage[key] = v
	return v
}

func (o *stateObject) setState(key common.Hash, value *common.Word) {
	o.dirtyStorage[key] = value
}

func (o *stateObject) SetState(key common.Hash, value *common.Word) {
	prev := o.GetState(key)
	if prev.Eq(value) {
		return
	}
	o.db.journal.append(storageChange{
		account:  &o.address,
		key:      key,
		prevalue: prev,
	})
	o.setState(key, value)
}

// dirtyStorageKeys returns keys modified since the last Finalize, for
// deterministic state-root computation.
func (o *stateObject) dirtyStorageKeys() []common.Hash {
	keys := make([]common.Hash, 0, len(o.dirtyStorage))
	for k := range o.dirtyStorage {
		keys = append(keys, k)
	}
	return keys
}
