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

package state

import "github.com/ethcore/chain/common"

// journalEntry is a reversible modification recorded during the life of a
// StateDB. Every mutating method on a stateObject appends one before
// changing anything, so RevertToSnapshot can walk backwards through them.
type journalEntry interface {
	revert(*StateDB)
	dirtied() *common.Address
}

// journal is the ordered log of every state modification performed since
// the StateDB was created or last reset.
type journal struct {
	entries []journalEntry
	dirties map[common.Address]int // address -> number of dirtying entries
}

func newJournal() *journal {
	return &journal{dirties: make(map[common.Address]int)}
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
	if addr := entry.dirtied(); addr != nil {
		j.dirties[*addr]++
	}
}

// revert undoes all journal entries from the end back to snapshot index.
func (j *journal) revert(s *StateDB, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].revert(s)
		if addr := j.entries[i].dirtied(); addr != nil {
			if j.dirties[*addr]--; j.dirties[*addr] == 0 {
				delete(j.dirties, *addr)
			}
		}
	}
	j.entries = j.entries[:snapshot]
}

func (j *journal) length() int { return len(j.entries) }

type (
	createObjectChange struct {
		account *common.Address
	}
	balanceChange struct {
		account *common.Address
		prev    *common.Word
	}
	nonceChange struct {
		account *common.Address
		prev    uint64
	}
	codeChange struct {
		account  *common.Address
		prevCode []byte
	}
	storageChange struct {
		account  *common.Address
		key      common.Hash
		prevalue *common.Word
	}
	selfDestructChange struct {
		account     *common.Address
		prev        bool
		prevBalance *common.Word
	}
)

func (ch createObjectChange) revert(s *StateDB) {
	delete(s.stateObjects, *ch.account)
}
func (ch createObjectChange) dirtied() *common.Address { return ch.account }

func (ch balanceChange) revert(s *StateDB) {
	s.getStateObject(*ch.account).setBalance(ch.prev)
}
func (ch balanceChange) dirtied() *common.Address { return ch.account }

func (ch nonceChange) revert(s *StateDB) {
	s.getStateObject(*ch.account).setNonce(ch.prev)
}
func (ch nonceChange) dirtied() *common.Address { return ch.account }

func (ch codeChange) revert(s *StateDB) {
	s.getStateObject(*ch.account).setCode(ch.prevCode)
}
func (ch codeChange) dirtied() *common.Address { return ch.account }

func (ch storageChange) revert(s *StateDB) {
	s.getStateObject(*ch.account).setState(ch.key, ch.prevalue)
}
func (ch storageChange) dirtied() *common.Address { return ch.account }

func (ch selfDestructChange) revert(s *StateDB) {
	obj := s.getStateObject(*ch.account)
	obj.selfDestructed = ch.prev
	obj.setBalance(ch.prevBalance)
}
func (ch selfDestructChange) dirtied() *common.Address { return ch.account }
