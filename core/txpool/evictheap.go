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
	"container/heap"

	"github.com/ethcore/chain/common"
)

// evictEntry is one candidate for eviction: the lowest-gasPrice,
// oldest-arrival entries sort to the front (spec.md §4.6 step 8: "evict
// the globally lowest-gas-price entries, ties broken by oldest arrival").
type evictEntry struct {
	hash    common.Hash
	price   uint64
	arrival uint64
	removed bool // lazy deletion: set once the hash leaves the pool by any other path
	index   int
}

// evictHeap is a min-heap over every pooled transaction's (price, arrival),
// used only to pick eviction victims when the pool is over capacity.
// Entries are never eagerly removed when a transaction leaves the pool by
// another path (inclusion, promotion is a no-op here, explicit Remove) --
// they are marked removed and skipped lazily on Pop, the same lazy-deletion
// idiom the pack's price-ordered heaps use.
type evictHeap struct {
	items []*evictEntry
	index map[common.Hash]*evictEntry
}

func newEvictHeap() *evictHeap {
	return &evictHeap{index: make(map[common.Hash]*evictEntry)}
}

func (h evictHeap) Len() int { return len(h.items) }

func (h evictHeap) Less(i, j int) bool {
	if h.items[i].price != h.items[j].price {
		return h.items[i].price < h.items[j].price
	}
	return h.items[i].arrival < h.items[j].arrival
}

func (h evictHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

func (h *evictHeap) Push(x any) {
	e := x.(*evictEntry)
	e.index = len(h.items)
	h.items = append(h.items, e)
}

func (h *evictHeap) Pop() any {
	old := h.items
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	h.items = old[:n-1]
	return e
}

func (h *evictHeap) add(hash common.Hash, price, arrival uint64) {
	e := &evictEntry{hash: hash, price: price, arrival: arrival}
	h.index[hash] = e
	heap.Push(h, e)
}

// markRemoved tombstones hash so a later popVictim skips it instead of
// evicting an already-gone transaction.
func (h *evictHeap) markRemoved(hash common.Hash) {
	if e, ok := h.index[hash]; ok {
		e.removed = true
		delete(h.index, hash)
	}
}

// popVictim returns the hash of the lowest-price, oldest-arrival
// transaction still live in the pool, or the zero hash if none remain.
func (h *evictHeap) popVictim() (common.Hash, bool) {
	for h.Len() > 0 {
		e := heap.Pop(h).(*evictEntry)
		if e.removed {
			continue
		}
		delete(h.index, e.hash)
		return e.hash, true
	}
	return common.Hash{}, false
}
