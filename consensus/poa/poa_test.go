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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/core/types"
	"github.com/ethcore/chain/crypto"
)

func addr(name string) common.Address { return common.BytesToAddress([]byte(name)) }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.InactivityThreshold = 2
	cfg.BlockTime = 1
	cfg.Now = func() time.Time { return time.Unix(1_000_000, 0) }
	return cfg
}

func blockAt(number uint64, validator common.Address, parentHash common.Hash, timestamp uint64) *types.Block {
	header := &types.Header{
		ParentHash: parentHash,
		Number:     number,
		Timestamp:  timestamp,
		Validator:  validator,
		Signature:  []byte{0x01},
		GasLimit:   8_000_000,
	}
	return types.NewBlock(header, nil)
}

func TestNextValidatorRotatesRoundRobin(t *testing.T) {
	v0, v1, v2 := addr("v0"), addr("v1"), addr("v2")
	vs := NewValidatorSet(testConfig(), []common.Address{v0, v1, v2})

	next, ok := vs.NextValidator()
	require.True(t, ok)
	require.Equal(t, v1, next, "turn starts at index 1, genesis having fixed index 0")
}

func TestUpdateValidatorStateAdvancesTurnPastActualProducer(t *testing.T) {
	v0, v1, v2 := addr("v0"), addr("v1"), addr("v2")
	vs := NewValidatorSet(testConfig(), []common.Address{v0, v1, v2})

	block1 := blockAt(1, v1, common.Hash{}, 10)
	vs.UpdateValidatorState(block1)

	next, ok := vs.NextValidator()
	require.True(t, ok)
	require.Equal(t, v2, next)

	entry, ok := vs.Get(v1)
	require.True(t, ok)
	require.Equal(t, uint64(1), entry.LastBlockNumber)
	require.Equal(t, uint64(0), entry.MissedBlocks)
}

func TestValidatorDeactivatesAfterMissingThresholdBlocks(t *testing.T) {
	// spec.md §8 scenario 5: three validators, threshold 2. Blocks 1 and 2
	// are produced by v0 and v2, skipping v1 both times it's v1's turn.
	v0, v1, v2 := addr("v0"), addr("v1"), addr("v2")
	vs := NewValidatorSet(testConfig(), []common.Address{v0, v1, v2})

	expected, ok := vs.NextValidator()
	require.True(t, ok)
	require.Equal(t, v1, expected, "block 1 is v1's turn")

	block1 := blockAt(1, v0, common.Hash{}, 10)
	vs.UpdateValidatorState(block1)

	entry, _ := vs.Get(v1)
	require.Equal(t, uint64(1), entry.MissedBlocks)
	require.True(t, entry.Active)

	expected, ok = vs.NextValidator()
	require.True(t, ok)
	require.Equal(t, v1, expected, "v1 holds its turn open until it produces or deactivates")

	block2 := blockAt(2, v2, block1.Hash(), 11)
	vs.UpdateValidatorState(block2)

	entry, _ = vs.Get(v1)
	require.Equal(t, uint64(2), entry.MissedBlocks)
	require.False(t, entry.Active, "missed blocks reached the threshold")

	for i := 0; i < 3; i++ {
		next, ok := vs.NextValidator()
		require.True(t, ok)
		require.NotEqual(t, v1, next, "a deactivated validator is never returned")
	}
}

func TestAddValidatorRejectsDuplicate(t *testing.T) {
	v0 := addr("v0")
	vs := NewValidatorSet(testConfig(), []common.Address{v0})
	require.ErrorIs(t, vs.AddValidator(v0), ErrDuplicateValidator)
}

func TestRemoveValidatorRejectsUnknown(t *testing.T) {
	v0 := addr("v0")
	vs := NewValidatorSet(testConfig(), []common.Address{v0})
	require.ErrorIs(t, vs.RemoveValidator(addr("ghost")), ErrUnknownValidator)
}

func TestRemoveValidatorShrinksSetAndFixesTurn(t *testing.T) {
	v0, v1, v2 := addr("v0"), addr("v1"), addr("v2")
	vs := NewValidatorSet(testConfig(), []common.Address{v0, v1, v2})

	require.NoError(t, vs.RemoveValidator(v0))
	require.Len(t, vs.Validators(), 2)

	next, ok := vs.NextValidator()
	require.True(t, ok)
	require.Contains(t, []common.Address{v1, v2}, next)
}

func TestSignHeaderProducesRecoverableSignature(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	validator := crypto.PubkeyToAddress(key.PubKey())

	header := &types.Header{Number: 1, Validator: validator, GasLimit: 8_000_000}
	require.NoError(t, SignHeader(header, key))
	require.NotEmpty(t, header.Signature)

	recovered, err := RecoverSigner(header)
	require.NoError(t, err)
	require.Equal(t, validator, recovered)
}

func TestValidateHeaderAcceptsWellFormedSuccessor(t *testing.T) {
	v0, v1 := addr("v0"), addr("v1")
	vs := NewValidatorSet(testConfig(), []common.Address{v0, v1})

	parent := &types.Header{Number: 0, Timestamp: 999_999}
	header := &types.Header{
		ParentHash: parent.Hash(),
		Number:     1,
		Timestamp:  1_000_000,
		Validator:  v1,
		Signature:  []byte{0x01},
	}
	require.NoError(t, vs.ValidateHeader(header, parent))
}

func TestValidateHeaderRejectsWrongValidator(t *testing.T) {
	v0, v1 := addr("v0"), addr("v1")
	vs := NewValidatorSet(testConfig(), []common.Address{v0, v1})

	parent := &types.Header{Number: 0, Timestamp: 999_999}
	header := &types.Header{
		Number:    1,
		Timestamp: 1_000_000,
		Validator: v0,
		Signature: []byte{0x01},
	}
	require.ErrorIs(t, vs.ValidateHeader(header, parent), ErrUnexpectedValidator)
}

func TestValidateHeaderRejectsEmptySignature(t *testing.T) {
	v0, v1 := addr("v0"), addr("v1")
	vs := NewValidatorSet(testConfig(), []common.Address{v0, v1})

	parent := &types.Header{Number: 0, Timestamp: 999_999}
	header := &types.Header{
		Number:    1,
		Timestamp: 1_000_000,
		Validator: v1,
	}
	require.ErrorIs(t, vs.ValidateHeader(header, parent), ErrEmptySignature)
}

func TestValidateHeaderRejectsNonIncreasingTimestamp(t *testing.T) {
	v0, v1 := addr("v0"), addr("v1")
	vs := NewValidatorSet(testConfig(), []common.Address{v0, v1})

	parent := &types.Header{Number: 0, Timestamp: 1_000_000}
	header := &types.Header{
		Number:    1,
		Timestamp: 1_000_000,
		Validator: v1,
		Signature: []byte{0x01},
	}
	require.ErrorIs(t, vs.ValidateHeader(header, parent), ErrTimestampNotIncreasing)
}

func TestShouldReorgTable(t *testing.T) {
	tip := blockAt(5, addr("v0"), common.Hash{}, 5)

	shorter := blockAt(4, addr("v1"), tip.Hash(), 6)
	require.Equal(t, Ignore, ShouldReorg(shorter, tip))

	extension := blockAt(6, addr("v1"), tip.Hash(), 6)
	require.Equal(t, Extend, ShouldReorg(extension, tip))

	ambiguous := blockAt(6, addr("v1"), common.Hash{0xff}, 6)
	require.Equal(t, Ignore, ShouldReorg(ambiguous, tip))

	deeper := blockAt(7, addr("v1"), common.Hash{0xff}, 6)
	require.Equal(t, Reorg, ShouldReorg(deeper, tip))
}
