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
	"testing"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/core/types"
	"github.com/stretchr/testify/require"
)

type fakeState struct {
	nonces map[common.Address]uint64
}

func newFakeState() *fakeState { return &fakeState{nonces: make(map[common.Address]uint64)} }

func (s *fakeState) GetNonce(addr common.Address) uint64 { return s.nonces[addr] }

func newTx(from common.Address, nonce uint64, gasPrice uint64) *types.Transaction {
	to := common.BytesToAddress([]byte("recipient"))
	return types.NewTransaction(from, &to, common.NewWord(0), 21000, gasPrice, nonce, nil)
}

func TestAddPlacesMatchingNonceInPending(t *testing.T) {
	state := newFakeState()
	pool := New(DefaultConfig(), state)
	alice := common.BytesToAddress([]byte("alice"))

	require.NoError(t, pool.Add(newTx(alice, 0, 5)))
	require.Equal(t, 1, pool.PendingCount())
	require.Equal(t, 0, pool.QueuedCount())
}

func TestAddPlacesFutureNonceInQueued(t *testing.T) {
	state := newFakeState()
	pool := New(DefaultConfig(), state)
	alice := common.BytesToAddress([]byte("alice"))

	require.NoError(t, pool.Add(newTx(alice, 1, 5)))
	require.Equal(t, 0, pool.PendingCount())
	require.Equal(t, 1, pool.QueuedCount())
}

func TestAddRejectsStaleNonce(t *testing.T) {
	state := newFakeState()
	alice := common.BytesToAddress([]byte("alice"))
	state.nonces[alice] = 5
	pool := New(DefaultConfig(), state)

	err := pool.Add(newTx(alice, 2, 5))
	require.ErrorIs(t, err, ErrNonceTooLow)
}

func TestAddRejectsUnderpriced(t *testing.T) {
	state := newFakeState()
	alice := common.BytesToAddress([]byte("alice"))
	cfg := DefaultConfig()
	cfg.MinGasPrice = 10
	pool := New(cfg, state)

	err := pool.Add(newTx(alice, 0, 5))
	require.ErrorIs(t, err, ErrUnderpriced)
}

func TestAddRejectsDuplicateHash(t *testing.T) {
	state := newFakeState()
	alice := common.BytesToAddress([]byte("alice"))
	pool := New(DefaultConfig(), state)
	tx := newTx(alice, 0, 5)

	require.NoError(t, pool.Add(tx))
	require.ErrorIs(t, pool.Add(tx), ErrAlreadyKnown)
}

func TestAddRejectsOverAccountLimit(t *testing.T) {
	state := newFakeState()
	alice := common.BytesToAddress([]byte("alice"))
	cfg := DefaultConfig()
	cfg.MaxAccountTransactions = 1
	pool := New(cfg, state)

	require.NoError(t, pool.Add(newTx(alice, 0, 5)))
	err := pool.Add(newTx(alice, 1, 5))
	require.ErrorIs(t, err, ErrAccountLimit)
}

func TestNonceGapPromotionHappensOnlyAfterRemoval(t *testing.T) {
	state := newFakeState()
	alice := common.BytesToAddress([]byte("alice"))
	pool := New(DefaultConfig(), state)

	txNonce1 := newTx(alice, 1, 5)
	require.NoError(t, pool.Add(txNonce1))
	require.Equal(t, 1, pool.QueuedCount())

	txNonce0 := newTx(alice, 0, 5)
	require.NoError(t, pool.Add(txNonce0))
	require.Equal(t, 1, pool.PendingCount(), "nonce 0 enters pending immediately")
	require.Equal(t, 1, pool.QueuedCount(), "nonce 1 must stay queued until nonce 0 is removed")

	state.nonces[alice] = 1
	pool.Remove([]common.Hash{txNonce0.Hash()})

	require.Equal(t, 1, pool.PendingCount(), "nonce 1 promotes once nonce 0 leaves the pool")
	require.Equal(t, 0, pool.QueuedCount())
}

func TestTransactionsForBlockOrdersByGasPriceThenArrival(t *testing.T) {
	state := newFakeState()
	alice := common.BytesToAddress([]byte("alice"))
	bob := common.BytesToAddress([]byte("bob"))
	pool := New(DefaultConfig(), state)

	cheap := newTx(alice, 0, 1)
	expensive := newTx(bob, 0, 10)
	require.NoError(t, pool.Add(cheap))
	require.NoError(t, pool.Add(expensive))

	ordered := pool.TransactionsForBlock(1_000_000)
	require.Len(t, ordered, 2)
	require.Equal(t, expensive.Hash(), ordered[0].Hash())
	require.Equal(t, cheap.Hash(), ordered[1].Hash())
}

func TestTransactionsForBlockStopsAtGasLimit(t *testing.T) {
	state := newFakeState()
	alice := common.BytesToAddress([]byte("alice"))
	bob := common.BytesToAddress([]byte("bob"))
	pool := New(DefaultConfig(), state)

	require.NoError(t, pool.Add(newTx(alice, 0, 5)))
	require.NoError(t, pool.Add(newTx(bob, 0, 3)))

	ordered := pool.TransactionsForBlock(21000)
	require.Len(t, ordered, 1)
}

func TestCapacityEvictsLowestGasPrice(t *testing.T) {
	state := newFakeState()
	cfg := DefaultConfig()
	cfg.MaxPoolSize = 1
	pool := New(cfg, state)

	lowPrice := newTx(common.BytesToAddress([]byte("alice")), 0, 1)
	highPrice := newTx(common.BytesToAddress([]byte("bob")), 0, 100)

	require.NoError(t, pool.Add(lowPrice))
	require.NoError(t, pool.Add(highPrice))

	require.Equal(t, 1, pool.Count())
	require.Nil(t, pool.Get(lowPrice.Hash()), "lower-priced entry must be evicted")
	require.NotNil(t, pool.Get(highPrice.Hash()))
}

func TestRemoveOldTransactionsPrunesExpiredEntries(t *testing.T) {
	state := newFakeState()
	cfg := DefaultConfig()
	cfg.TransactionTimeout = 0
	pool := New(cfg, state)
	alice := common.BytesToAddress([]byte("alice"))

	tx := newTx(alice, 0, 5)
	require.NoError(t, pool.Add(tx))
	pool.RemoveOldTransactions()
	require.Equal(t, 0, pool.Count())
}
