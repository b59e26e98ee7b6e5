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

package poa

import "github.com/ethcore/chain/core/types"

// Decision is the outcome of evaluating a candidate block against the
// current chain tip.
type Decision int

const (
	// Ignore means the candidate must be discarded: it is not longer than
	// the tip, or its parent is ambiguous at the tip's height.
	Ignore Decision = iota
	// Extend means the candidate directly extends the current tip.
	Extend
	// Reorg means the candidate is longer than the tip via a different
	// ancestry; the caller must locate the common ancestor and replay.
	Reorg
)

// ShouldReorg implements spec.md §4.5's fork-choice table.
func ShouldReorg(newBlock *types.Block, tip *types.Block) Decision {
	if newBlock.Header.Number <= tip.Header.Number {
		return Ignore
	}
	if newBlock.Header.ParentHash == tip.Hash() {
		return Extend
	}
	if newBlock.Header.Number == tip.Header.Number+1 {
		return Ignore
	}
	return Reorg
}
