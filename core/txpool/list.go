// Copyright 2015 The go-ethereum Authors
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

package txpool

import (
	"sort"
	"time"

	"github.com/ethcore/chain/core/types"
)

// poolEntry wraps a pooled transaction with the bookkeeping the pool needs
// beyond what the transaction itself carries: a pool-wide arrival sequence
// number (spec.md §4.6's "priority") and the wall-clock time it was
// admitted, used by remove_old_transactions' age sweep.
type poolEntry struct {
	tx      *types.Transaction
	arrival uint64
	addedAt time.Time
}

// sortedList keeps one sender's pooled transactions ordered by nonce, the
// layout both the pending and queued buckets use. Grounded on the
// nonce-ordered per-sender list idiom common to every go-ethereum-style
// pool implementation in the retrieval pack (e.g. txSortedList).
type sortedList struct {
	items []*poolEntry
}

func (l *sortedList) add(e *poolEntry) {
	nonce := e.tx.Nonce
	idx := sort.Search(len(l.items), func(i int) bool {
		return l.items[i].tx.Nonce >= nonce
	})
	if idx < len(l.items) && l.items[idx].tx.Nonce == nonce {
		l.items[idx] = e
		return
	}
	l.items = append(l.items, nil)
	copy(l.items[idx+1:], l.items[idx:])
	l.items[idx] = e
}

func (l *sortedList) remove(nonce uint64) *poolEntry {
	for i, e := range l.items {
		if e.tx.Nonce == nonce {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return e
		}
	}
	return nil
}

func (l *sortedList) get(nonce uint64) *poolEntry {
	for _, e := range l.items {
		if e.tx.Nonce == nonce {
			return e
		}
	}
	return nil
}

func (l *sortedList) len() int { return len(l.items) }

// last returns the highest-nonce entry, or nil if the list is empty.
func (l *sortedList) last() *poolEntry {
	if len(l.items) == 0 {
		return nil
	}
	return l.items[len(l.items)-1]
}

// takeReady pops and returns every entry whose nonce is sequential
// starting from nextNonce, in nonce order (used to promote queued
// transactions once the gap before them closes).
func (l *sortedList) takeReady(nextNonce uint64) []*poolEntry {
	var ready []*poolEntry
	i := 0
	for ; i < len(l.items); i++ {
		if l.items[i].tx.Nonce != nextNonce {
			break
		}
		ready = append(ready, l.items[i])
		nextNonce++
	}
	if i > 0 {
		l.items = l.items[i:]
	}
	return ready
}
