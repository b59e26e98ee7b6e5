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
	"sort"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/core/rawdb"
	"github.com/ethcore/chain/crypto"
	"github.com/ethcore/chain/ethdb"
)

// accountCacheBytes sizes the fastcache instance that shields the backing
// store from repeated account reads within a block.
const accountCacheBytes = 8 * 1024 * 1024

// revision records the journal length at the moment a snapshot was taken,
// so RevertToSnapshot can replay the journal backwards to exactly that
// point (spec.md §4.1).
type revision struct {
	id           int
	journalIndex int
}

// StateDB is the World State (spec.md §4.1): an address-keyed mapping to
// accounts with nested snapshot/revert/commit, backed by db. Reads flow
// through an account cache before reaching the store; writes are buffered
// in stateObjects and only reach the store on Finalize.
type StateDB struct {
	db    ethdb.KeyValueStore
	cache *fastcache.Cache

	stateObjects map[common.Address]*stateObject

	journal        *journal
	validRevisions []revision
	nextRevisionID int
}

// New constructs a World State reading from and writing to db.
func New(db ethdb.KeyValueStore) *StateDB {
	return &StateDB{
		db:           db,
		cache:        fastcache.New(accountCacheBytes),
		stateObjects: make(map[common.Address]*stateObject),
		journal:      newJournal(),
	}
}

func (s *StateDB) getStateObject(addr common.Address) *stateObject {
	if obj, ok := s.stateObjects[addr]; ok {
		return obj
	}
	var acct Account
	if cached, ok := s.cache.HasGet(nil, addr.Bytes()); ok {
		decoded, err := decodeAccount(cached)
		if err == nil {
			acct = decoded
		}
	} else if raw, err := s.db.Get(rawdb.AccountKey(addr)); err == nil {
		decoded, err := decodeAccount(raw)
		if err != nil {
			return nil
		}
		acct = decoded
		s.cache.Set(addr.Bytes(), raw)
	} else {
		return nil
	}
	obj := newObject(s, addr, acct)
	s.stateObjects[addr] = obj
	return obj
}

// getOrNewStateObject returns the existing object at addr, lazily
// materializing an empty one on first touch (spec.md §3: "created lazily
// on first balance/nonce/code touch").
func (s *StateDB) getOrNewStateObject(addr common.Address) *stateObject {
	obj := s.getStateObject(addr)
	if obj == nil {
		obj = s.createObject(addr)
	}
	return obj
}

func (s *StateDB) createObject(addr common.Address) *stateObject {
	obj := newObject(s, addr, Account{Balance: new(common.Word)})
	obj.created = true
	s.journal.append(createObjectChange{account: &addr})
	s.stateObjects[addr] = obj
	return obj
}

// CreateAccount materializes a fresh account at addr, carrying over any
// prior balance (used by contract creation, spec.md §4.3 step 5a).
func (s *StateDB) CreateAccount(addr common.Address) {
	prev := s.getStateObject(addr)
	newObj := s.createObject(addr)
	if prev != nil {
		newObj.setBalance(prev.Balance())
	}
}

// Exist reports whether the given account exists in the World State.
func (s *StateDB) Exist(addr common.Address) bool {
	return s.getStateObject(addr) != nil
}

// Empty reports whether the given account is empty, per EIP-161 (zero
// nonce, zero balance, no code) -- used to decide whether a
// zero-value transfer materializes a new account.
func (s *StateDB) Empty(addr common.Address) bool {
	obj := s.getStateObject(addr)
	return obj == nil || obj.empty()
}

// --- balance ---

func (s *StateDB) GetBalance(addr common.Address) *common.Word {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.Balance()
	}
	return new(common.Word)
}

func (s *StateDB) AddBalance(addr common.Address, amount *common.Word) {
	s.getOrNewStateObject(addr).AddBalance(amount)
}

// SubBalance debits amount from addr's balance. Returns ErrInsufficientBalance
// without mutating state if the account cannot cover it.
func (s *StateDB) SubBalance(addr common.Address, amount *common.Word) error {
	obj := s.getOrNewStateObject(addr)
	if obj.Balance().Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	obj.SubBalance(amount)
	return nil
}

// --- nonce ---

func (s *StateDB) GetNonce(addr common.Address) uint64 {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.Nonce()
	}
	return 0
}

func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	s.getOrNewStateObject(addr).SetNonce(nonce)
}

// --- code ---

func (s *StateDB) GetCode(addr common.Address) []byte {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.Code()
	}
	return nil
}

func (s *StateDB) GetCodeHash(addr common.Address) common.Hash {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.CodeHash()
	}
	return common.Hash{}
}

func (s *StateDB) SetCode(addr common.Address, code []byte) {
	s.getOrNewStateObject(addr).SetCode(code)
}

// --- storage ---

func (s *StateDB) GetState(addr common.Address, key common.Hash) *common.Word {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.GetState(key)
	}
	return new(common.Word)
}

func (s *StateDB) GetCommittedState(addr common.Address, key common.Hash) *common.Word {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.GetCommittedState(key)
	}
	return new(common.Word)
}

// SetState writes a storage slot. A zero value is equivalent to "not
// stored" (spec.md §3); it is still journaled like any other write so
// revert restores the prior value.
func (s *StateDB) SetState(addr common.Address, key common.Hash, value *common.Word) {
	s.getOrNewStateObject(addr).SetState(key, value)
}

// --- self-destruct ---

func (s *StateDB) SelfDestruct(addr common.Address) {
	obj := s.getStateObject(addr)
	if obj == nil {
		return
	}
	s.journal.append(selfDestructChange{
		account:     &addr,
		prev:        obj.selfDestructed,
		prevBalance: new(common.Word).Set(obj.Balance()),
	})
	obj.selfDestructed = true
	obj.setBalance(new(common.Word))
}

func (s *StateDB) HasSelfDestructed(addr common.Address) bool {
	obj := s.getStateObject(addr)
	return obj != nil && obj.selfDestructed
}

// --- snapshot / revert / commit (spec.md §4.1) ---

// Snapshot opens a new nested checkpoint and returns its id. Snapshots are
// LIFO-nested: RevertToSnapshot(id) undoes everything recorded since this
// call and invalidates every snapshot opened after it; Commit(id) simply
// discards the checkpoint, leaving its mutations visible to outer snapshots.
func (s *StateDB) Snapshot() int {
	id := s.nextRevisionID
	s.nextRevisionID++
	s.validRevisions = append(s.validRevisions, revision{id: id, journalIndex: s.journal.length()})
	return id
}

// RevertToSnapshot restores the World State to exactly the point snapshot
// id was taken, and invalidates it and every snapshot opened afterward.
func (s *StateDB) RevertToSnapshot(id int) error {
	idx := sort.Search(len(s.validRevisions), func(i int) bool {
		return s.validRevisions[i].id >= id
	})
	if idx == len(s.validRevisions) || s.validRevisions[idx].id != id {
		return ErrSnapshotNotFound
	}
	journalIndex := s.validRevisions[idx].journalIndex
	s.journal.revert(s, journalIndex)
	s.validRevisions = s.validRevisions[:idx]
	return nil
}

// Commit discards the checkpoint at id without rolling anything back.
// Outer snapshots can still revert further, undoing these mutations too.
func (s *StateDB) Commit(id int) error {
	idx := sort.Search(len(s.validRevisions), func(i int) bool {
		return s.validRevisions[i].id >= id
	})
	if idx == len(s.validRevisions) || s.validRevisions[idx].id != id {
		return ErrSnapshotNotFound
	}
	s.validRevisions = append(s.validRevisions[:idx], s.validRevisions[idx+1:]...)
	return nil
}

// Finalize flushes every touched account and its dirty storage to the
// backing store, and returns the deterministic content-hash commitment to
// the modified state (spec.md §4.4's stateRoot). It is called once per
// block, after every transaction in the block has committed or reverted --
// not per-transaction.
func (s *StateDB) Finalize() (common.Hash, error) {
	addrs := make([]common.Address, 0, len(s.journal.dirties))
	for addr := range s.journal.dirties {
		if _, ok := s.stateObjects[addr]; ok {
			addrs = append(addrs, addr)
		}
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Cmp(addrs[j]) < 0 })

	batch := s.db.NewBatch()
	var commitment []byte
	for _, addr := range addrs {
		obj := s.stateObjects[addr]

		if obj.selfDestructed {
			if err := batch.Delete(rawdb.AccountKey(addr)); err != nil {
				return common.Hash{}, err
			}
			s.cache.Del(addr.Bytes())
			delete(s.stateObjects, addr)
			commitment = append(commitment, addr.Bytes()...)
			continue
		}

		keys := obj.dirtyStorageKeys()
		sort.Slice(keys, func(i, j int) bool { return string(keys[i][:]) < string(keys[j][:]) })
		for _, key := range keys {
			value := obj.dirtyStorage[key]
			obj.originStorage[key] = value
			if common.ZeroWord(value) {
				if err := batch.Delete(rawdb.StorageKey(addr, key)); err != nil {
					return common.Hash{}, err
				}
			} else {
				padded := common.PaddedBytes32(value)
				if err := batch.Put(rawdb.StorageKey(addr, key), padded[:]); err != nil {
					return common.Hash{}, err
				}
			}
			commitment = append(commitment, key.Bytes()...)
		}
		obj.dirtyStorage = make(map[common.Hash]*common.Word)

		encoded := obj.data.encode()
		if err := batch.Put(rawdb.AccountKey(addr), encoded); err != nil {
			return common.Hash{}, err
		}
		s.cache.Set(addr.Bytes(), encoded)
		commitment = append(commitment, addr.Bytes()...)
		commitment = append(commitment, encoded...)
	}
	if err := batch.Write(); err != nil {
		return common.Hash{}, err
	}

	s.stateObjects = make(map[common.Address]*stateObject)
	s.journal = newJournal()
	s.validRevisions = nil
	s.nextRevisionID = 0

	return crypto.Keccak256Hash(commitment), nil
}
