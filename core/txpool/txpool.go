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

// Package txpool buffers admissible transactions between submission and
// block inclusion (spec.md §4.6): a pending bucket of nonce-ready
// transactions and a queued bucket of future-nonce ones, ordered admission
// rules, gas-price eviction under capacity pressure, and age-based pruning.
package txpool

import (
	"encoding/binary"
	"sort"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gammazero/deque"
	"github.com/holiman/bloomfilter/v2"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/core/types"
	"github.com/ethcore/chain/log"
)

// StateReader is the sender-nonce view the pool validates admission and
// drives promotion against. core/state.StateDB satisfies this directly.
type StateReader interface {
	GetNonce(addr common.Address) uint64
}

// Config holds the tunables spec.md §4.6 names.
type Config struct {
	MinGasPrice            uint64
	BlockGasLimit          uint64
	MaxAccountTransactions int
	MaxPoolSize            int
	TransactionTimeout     time.Duration
}

// DefaultConfig returns the pool's out-of-the-box tunables.
func DefaultConfig() Config {
	return Config{
		MinGasPrice:            1,
		BlockGasLimit:          8_000_000,
		MaxAccountTransactions: 64,
		MaxPoolSize:            4096,
		TransactionTimeout:     3 * time.Hour,
	}
}

// TxPool is the transaction pool (spec.md §4.6).
type TxPool struct {
	config Config
	state  StateReader

	mu      sync.RWMutex
	pending map[common.Address]*sortedList
	queued  map[common.Address]*sortedList
	byHash  map[common.Hash]*poolEntry
	sender  map[common.Hash]common.Address

	known mapset.Set[common.Hash] // O(1) membership check ahead of the exact byHash lookup
	seen  *bloomfilter.Filter     // probabilistic pre-filter: a miss here is conclusive

	evict *evictHeap // eviction candidates, ordered by (gasPrice, arrival)

	arrival    *deque.Deque[common.Hash] // hashes in admission order, for age sweeps
	nextArrival uint64
}

// New constructs an empty pool reading sender nonces from state.
func New(config Config, state StateReader) *TxPool {
	seen, err := bloomfilter.NewOptimal(uint64(config.MaxPoolSize*8+1024), 0.001)
	if err != nil {
		// NewOptimal only errors on a non-positive capacity; config always
		// supplies a positive MaxPoolSize, so fall back defensively rather
		// than panic on a malformed Config.
		seen, _ = bloomfilter.NewOptimal(1024, 0.001)
	}
	return &TxPool{
		config:  config,
		state:   state,
		pending: make(map[common.Address]*sortedList),
		queued:  make(map[common.Address]*sortedList),
		byHash:  make(map[common.Hash]*poolEntry),
		sender:  make(map[common.Hash]common.Address),
		known:   mapset.NewSet[common.Hash](),
		seen:    seen,
		evict:   newEvictHeap(),
		arrival: deque.New[common.Hash](),
	}
}

func hashFingerprint(h common.Hash) uint64 {
	return binary.BigEndian.Uint64(h[:8])
}

// Add admits tx into the pool, applying spec.md §4.6's ordered rules in
// sequence. A non-nil error means tx was rejected and the pool is
// unchanged.
func (p *TxPool) Add(tx *types.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if tx.GasPrice < p.config.MinGasPrice {
		return ErrUnderpriced
	}
	if tx.GasLimit > p.config.BlockGasLimit {
		return ErrGasLimitTooHigh
	}
	if tx.GasLimit == 0 {
		return ErrGasLimitZero
	}
	if tx.From.IsZero() {
		return ErrNoSender
	}

	hash := tx.Hash()
	if p.seen.ContainsHash(hashFingerprint(hash)) && p.known.Contains(hash) {
		return ErrAlreadyKnown
	}

	from := tx.From
	if p.accountCount(from) >= p.config.MaxAccountTransactions {
		return ErrAccountLimit
	}

	stateNonce := p.state.GetNonce(from)
	if tx.Nonce < stateNonce {
		return ErrNonceTooLow
	}

	entry := &poolEntry{tx: tx, arrival: p.nextArrival, addedAt: time.Now()}
	p.nextArrival++

	if tx.Nonce == stateNonce {
		p.bucket(p.pending, from).add(entry)
	} else {
		p.bucket(p.queued, from).add(entry)
	}

	p.known.Add(hash)
	p.seen.AddHash(hashFingerprint(hash))
	p.byHash[hash] = entry
	p.sender[hash] = from
	p.evict.add(hash, tx.GasPrice, entry.arrival)
	p.arrival.PushBack(hash)

	p.enforceCapacity()
	return nil
}

func (p *TxPool) bucket(m map[common.Address]*sortedList, addr common.Address) *sortedList {
	l, ok := m[addr]
	if !ok {
		l = &sortedList{}
		m[addr] = l
	}
	return l
}

func (p *TxPool) accountCount(addr common.Address) int {
	n := 0
	if l, ok := p.pending[addr]; ok {
		n += l.len()
	}
	if l, ok := p.queued[addr]; ok {
		n += l.len()
	}
	return n
}

// enforceCapacity evicts the globally lowest-gas-price entries (ties
// broken by oldest arrival) until the pool is back at or under
// MaxPoolSize (spec.md §4.6 step 8).
func (p *TxPool) enforceCapacity() {
	for len(p.byHash) > p.config.MaxPoolSize {
		hash, ok := p.evict.popVictim()
		if !ok {
			return
		}
		p.removeLocked(hash)
		log.Debug("txpool: evicted transaction over capacity", "hash", hash)
	}
}

// Remove deletes the given transaction hashes from the pool and attempts
// to promote each affected sender's queued transactions into pending
// (spec.md §4.6: "After removals, attempt to promote queued entries of
// the affected senders whose nonce now matches the expected next nonce").
func (p *TxPool) Remove(hashes []common.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()

	affected := make(map[common.Address]struct{})
	for _, hash := range hashes {
		if from, ok := p.sender[hash]; ok {
			affected[from] = struct{}{}
		}
		p.removeLocked(hash)
	}
	for from := range affected {
		p.promote(from)
	}
}

// removeLocked deletes hash from every index; callers must hold p.mu.
func (p *TxPool) removeLocked(hash common.Hash) {
	entry, ok := p.byHash[hash]
	if !ok {
		return
	}
	from := p.sender[hash]
	if l, ok := p.pending[from]; ok {
		l.remove(entry.tx.Nonce)
		if l.len() == 0 {
			delete(p.pending, from)
		}
	}
	if l, ok := p.queued[from]; ok {
		l.remove(entry.tx.Nonce)
		if l.len() == 0 {
			delete(p.queued, from)
		}
	}
	delete(p.byHash, hash)
	delete(p.sender, hash)
	p.known.Remove(hash)
	p.evict.markRemoved(hash)
}

// promote moves from's queued transactions into pending while their nonce
// sequence stays unbroken after the bucket's current tail.
func (p *TxPool) promote(from common.Address) {
	queued, ok := p.queued[from]
	if !ok || queued.len() == 0 {
		return
	}
	next := p.state.GetNonce(from)
	if pend, ok := p.pending[from]; ok {
		if last := pend.last(); last != nil {
			next = last.tx.Nonce + 1
		}
	}
	ready := queued.takeReady(next)
	if len(ready) == 0 {
		return
	}
	pend := p.bucket(p.pending, from)
	for _, e := range ready {
		pend.add(e)
	}
	if queued.len() == 0 {
		delete(p.queued, from)
	}
}

// Get returns the pooled transaction for hash, or nil if unknown.
func (p *TxPool) Get(hash common.Hash) *types.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if e, ok := p.byHash[hash]; ok {
		return e.tx
	}
	return nil
}

// Count returns the total number of pooled transactions.
func (p *TxPool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byHash)
}

// PendingCount returns the number of pending (block-eligible) transactions.
func (p *TxPool) PendingCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, l := range p.pending {
		n += l.len()
	}
	return n
}

// QueuedCount returns the number of queued (nonce-gapped) transactions.
func (p *TxPool) QueuedCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, l := range p.queued {
		n += l.len()
	}
	return n
}

// TransactionsForBlock returns pending transactions ordered by descending
// gas price, ties broken by ascending arrival priority, stopping once
// including the next one would push cumulative gas past gasLimit (spec.md
// §4.4 step 2 / §4.6).
func (p *TxPool) TransactionsForBlock(gasLimit uint64) []*types.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var all []*poolEntry
	for _, l := range p.pending {
		all = append(all, l.items...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].tx.GasPrice != all[j].tx.GasPrice {
			return all[i].tx.GasPrice > all[j].tx.GasPrice
		}
		return all[i].arrival < all[j].arrival
	})

	var (
		result        []*types.Transaction
		cumulativeGas uint64
	)
	for _, e := range all {
		if cumulativeGas+e.tx.GasLimit > gasLimit {
			break
		}
		cumulativeGas += e.tx.GasLimit
		result = append(result, e.tx)
	}
	return result
}

// RemoveOldTransactions evicts every pooled transaction whose age exceeds
// TransactionTimeout (spec.md §4.6). Admission order and age are the same
// order, so the arrival deque is swept from the front and stops at the
// first still-fresh entry.
func (p *TxPool) RemoveOldTransactions() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	for p.arrival.Len() > 0 {
		hash := p.arrival.Front()
		entry, ok := p.byHash[hash]
		if !ok {
			// Already removed by another path; drop the stale arrival marker.
			p.arrival.PopFront()
			continue
		}
		if now.Sub(entry.addedAt) <= p.config.TransactionTimeout {
			return
		}
		p.arrival.PopFront()
		p.removeLocked(hash)
		log.Debug("txpool: pruned aged transaction", "hash", hash)
	}
}
