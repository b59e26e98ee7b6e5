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

// Package poa implements the round-robin proof-of-authority consensus
// engine (spec.md §4.5): validator rotation, header validation and
// signing, liveness accounting, and fork choice.
package poa

import (
	"sync"
	"time"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/core/types"
	"github.com/ethcore/chain/log"
)

// Validator is one member of the authority set.
type Validator struct {
	Address         common.Address
	Active          bool
	MissedBlocks    uint64
	LastBlockNumber uint64
}

// Config holds the rotation tunables spec.md §6 names.
type Config struct {
	// InactivityThreshold is the missed-block count that deactivates a
	// validator (default 10).
	InactivityThreshold uint64

	// BlockTime is the minimum required spacing between a block and its
	// parent's timestamp, in seconds.
	BlockTime uint64

	// Now returns the current wall-clock time; overridable in tests so
	// header-timestamp validation is deterministic.
	Now func() time.Time
}

// DefaultConfig returns the engine's out-of-the-box tunables.
func DefaultConfig() Config {
	return Config{
		InactivityThreshold: 10,
		BlockTime:           1,
		Now:                 time.Now,
	}
}

// ValidatorSet is the PoA engine's authority state: an ordered set of
// validators plus a rotation pointer. The zero value is not usable; build
// one with NewValidatorSet.
type ValidatorSet struct {
	config Config

	mu         sync.RWMutex
	validators []*Validator
	index      map[common.Address]int

	// turn is the slot index NextValidator starts scanning from. It
	// trails the most recent block's actual producer (turn =
	// producerIndex+1), not the expected one, so a validator who is
	// skipped keeps its turn open across misses until it either produces
	// or is deactivated (spec.md §8 scenario 5). Genesis fixes the first
	// configured validator (index 0) outside the rotation entirely, so
	// turn starts at 1.
	turn int
}

// NewValidatorSet constructs a validator set from the ordered initial
// authority list. addrs must be non-empty and free of duplicates.
func NewValidatorSet(config Config, addrs []common.Address) *ValidatorSet {
	if config.Now == nil {
		config.Now = time.Now
	}
	vs := &ValidatorSet{
		config: config,
		index:  make(map[common.Address]int, len(addrs)),
	}
	for _, addr := range addrs {
		vs.validators = append(vs.validators, &Validator{Address: addr, Active: true})
		vs.index[addr] = len(vs.validators) - 1
	}
	if len(vs.validators) > 1 {
		vs.turn = 1
	}
	return vs
}

// Genesis returns the validator fixed as block 0's producer: the first
// configured authority, independent of rotation state (spec.md §4.5).
func (vs *ValidatorSet) Genesis() (common.Address, bool) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	if len(vs.validators) == 0 {
		return common.Address{}, false
	}
	return vs.validators[0].Address, true
}

// eligible reports whether v may currently produce blocks.
func eligible(v *Validator, threshold uint64) bool {
	return v.Active && v.MissedBlocks < threshold
}

// NextValidator returns the address expected to produce the next block:
// the first eligible validator found scanning forward from the rotation
// pointer, wrapping at most once around the set. Callers must hold no
// lock; NextValidator is read-only and does not advance the pointer.
func (vs *ValidatorSet) NextValidator() (common.Address, bool) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return vs.nextValidatorLocked()
}

func (vs *ValidatorSet) nextValidatorLocked() (common.Address, bool) {
	n := len(vs.validators)
	if n == 0 {
		return common.Address{}, false
	}
	start := vs.turn % n
	for i := 0; i < n; i++ {
		v := vs.validators[(start+i)%n]
		if eligible(v, vs.config.InactivityThreshold) {
			return v.Address, true
		}
	}
	return common.Address{}, false
}

// UpdateValidatorState processes a newly observed block (spec.md §4.5):
// the producer's liveness resets, and the validator who was expected to
// produce this height but didn't gets charged a missed block. The
// rotation pointer then follows the actual producer, not the expected
// validator, so a validator that keeps getting skipped holds its slot
// open until it is either produced for or deactivated.
func (vs *ValidatorSet) UpdateValidatorState(block *types.Block) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	n := len(vs.validators)
	if n == 0 {
		return
	}

	producerAddr := block.Header.Validator
	number := block.Header.Number

	expectedAddr, hasExpected := vs.nextValidatorLocked()
	if hasExpected && expectedAddr != producerAddr {
		if idx, ok := vs.index[expectedAddr]; ok {
			expected := vs.validators[idx]
			expected.MissedBlocks++
			if expected.MissedBlocks >= vs.config.InactivityThreshold {
				expected.Active = false
				log.Debug("poa: validator deactivated for inactivity", "validator", expected.Address, "missed", expected.MissedBlocks)
			}
		}
	}

	producerIdx, ok := vs.index[producerAddr]
	if !ok {
		// Unknown producer: nothing to credit, but the rotation must still
		// advance past this height to avoid getting stuck.
		vs.turn = (vs.turn + 1) % n
		return
	}
	producer := vs.validators[producerIdx]
	producer.LastBlockNumber = number
	producer.MissedBlocks = 0
	vs.turn = (producerIdx + 1) % n
}

// AddValidator admits a new authority. Duplicates are rejected.
func (vs *ValidatorSet) AddValidator(addr common.Address) error {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if _, exists := vs.index[addr]; exists {
		return ErrDuplicateValidator
	}
	vs.validators = append(vs.validators, &Validator{Address: addr, Active: true})
	vs.index[addr] = len(vs.validators) - 1
	return nil
}

// RemoveValidator retires an authority. Removing an unknown address
// returns ErrUnknownValidator rather than silently succeeding, so callers
// can distinguish a no-op from an actual removal.
func (vs *ValidatorSet) RemoveValidator(addr common.Address) error {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	idx, ok := vs.index[addr]
	if !ok {
		return ErrUnknownValidator
	}
	vs.validators = append(vs.validators[:idx], vs.validators[idx+1:]...)
	delete(vs.index, addr)
	for a, i := range vs.index {
		if i > idx {
			vs.index[a] = i - 1
		}
	}
	if idx < vs.turn {
		vs.turn--
	}
	if n := len(vs.validators); n > 0 {
		vs.turn %= n
	} else {
		vs.turn = 0
	}
	return nil
}

// Get returns a copy of the validator entry for addr, if present.
func (vs *ValidatorSet) Get(addr common.Address) (Validator, bool) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	idx, ok := vs.index[addr]
	if !ok {
		return Validator{}, false
	}
	return *vs.validators[idx], true
}

// Validators returns a snapshot of the current ordered authority list.
func (vs *ValidatorSet) Validators() []Validator {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	out := make([]Validator, len(vs.validators))
	for i, v := range vs.validators {
		out[i] = *v
	}
	return out
}
