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

package chain

import (
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/consensus/poa"
	"github.com/ethcore/chain/core/blockproc"
	"github.com/ethcore/chain/core/txpool"
	"github.com/ethcore/chain/core/types"
	"github.com/ethcore/chain/crypto"
	"github.com/ethcore/chain/ethdb/memorydb"
)

// TestMain checks that exercising a Manager (genesis commit, block
// production, reorgs) across this file's tests leaves no goroutine
// running past the test binary's exit.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func weiPerEth() *common.Word {
	w := common.NewWord(1)
	ten := common.NewWord(10)
	for i := 0; i < 18; i++ {
		w.Mul(w, ten)
	}
	return w
}

func fixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}

// singleValidatorChain builds a Manager over a fresh in-memory database,
// a one-member validator set (so consensus's expected-producer check
// never depends on history), and a real pool. alloc is applied at
// bootstrap.
func singleValidatorChain(t *testing.T, key *secp256k1.PrivateKey, validator common.Address, alloc GenesisAlloc) *Manager {
	t.Helper()
	db := memorydb.New()
	cfg := DefaultConfig()
	cfg.GasLimit = 8_000_000
	cfg.Validators = []common.Address{validator}

	poaCfg := poa.DefaultConfig()
	poaCfg.BlockTime = 1
	poaCfg.Now = fixedClock(2_000_000)
	validators := poa.NewValidatorSet(poaCfg, []common.Address{validator})

	poolCfg := txpool.DefaultConfig()
	poolCfg.BlockGasLimit = cfg.GasLimit

	mgr := New(db, cfg, validators, nil, key)
	// Stamp produced blocks from a clock that starts just after the
	// validator set's fixed clock and advances one second per block, so a
	// header one manager produces passes another manager's timestamp checks.
	var ticks int64
	mgr.processor = blockproc.New(blockproc.Config{GasLimit: cfg.GasLimit, ChainID: cfg.ChainID, Now: func() time.Time {
		ticks++
		return time.Unix(2_000_000+ticks, 0)
	}}, validators, key)
	// mgr.State is a method value: it resolves through mgr on every call,
	// so the pool always reads the live nonce even though state is nil
	// until Bootstrap runs.
	mgr.pool = txpool.New(poolCfg, stateReaderFunc(func(addr common.Address) uint64 {
		return mgr.State().GetNonce(addr)
	}))

	require.NoError(t, mgr.Bootstrap(&Genesis{Config: cfg, Timestamp: 1_000_000, Alloc: alloc}))
	return mgr
}

// stateReaderFunc adapts a function to txpool's StateReader interface.
type stateReaderFunc func(addr common.Address) uint64

func (f stateReaderFunc) GetNonce(addr common.Address) uint64 { return f(addr) }

func newKeyAndAddr(t *testing.T) (*secp256k1.PrivateKey, common.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, crypto.PubkeyToAddress(key.PubKey())
}

func TestBootstrapCommitsGenesisAndAppliesAllocation(t *testing.T) {
	key, v0 := newKeyAndAddr(t)
	alice := common.BytesToAddress([]byte("alice"))
	alloc := GenesisAlloc{alice: {Balance: new(common.Word).Mul(weiPerEth(), common.NewWord(100))}}

	mgr := singleValidatorChain(t, key, v0, alloc)

	require.Equal(t, uint64(0), mgr.Tip().Header.Number)
	require.Equal(t, mgr.Genesis().Hash(), mgr.Tip().Hash())
	require.Equal(t, 0, new(common.Word).Mul(weiPerEth(), common.NewWord(100)).Cmp(mgr.State().GetBalance(alice)))
}

func TestProduceAppendsBlockAndUpdatesTip(t *testing.T) {
	key, v0 := newKeyAndAddr(t)
	alice := common.BytesToAddress([]byte("alice"))
	bob := common.BytesToAddress([]byte("bob"))
	alloc := GenesisAlloc{alice: {Balance: new(common.Word).Mul(weiPerEth(), common.NewWord(100))}}

	mgr := singleValidatorChain(t, key, v0, alloc)

	tx := types.NewTransaction(alice, &bob, weiPerEth(), 21000, 1, 0, nil)
	require.NoError(t, mgr.pool.Add(tx))

	block, receipts, err := mgr.Produce()
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	require.Equal(t, uint64(1), block.Header.Number)
	require.Equal(t, block.Hash(), mgr.Tip().Hash())
	require.Equal(t, 0, weiPerEth().Cmp(mgr.State().GetBalance(bob)))
}

func TestAddBlockAppliesExternallyProducedBlock(t *testing.T) {
	key, v0 := newKeyAndAddr(t)
	alice := common.BytesToAddress([]byte("alice"))
	alloc := GenesisAlloc{alice: {Balance: weiPerEth()}}

	producer := singleValidatorChain(t, key, v0, alloc)
	follower := singleValidatorChain(t, key, v0, alloc)
	require.Equal(t, producer.Genesis().Hash(), follower.Genesis().Hash())

	block, _, err := producer.Produce()
	require.NoError(t, err)

	require.NoError(t, follower.AddBlock(block))
	require.Equal(t, block.Hash(), follower.Tip().Hash())
}

func TestAddBlockRejectsUnknownParent(t *testing.T) {
	key, v0 := newKeyAndAddr(t)
	mgr := singleValidatorChain(t, key, v0, nil)

	header := &types.Header{ParentHash: common.Hash{0xff}, Number: 1, Timestamp: 2_000_001, Validator: v0, Signature: []byte{0x01}, GasLimit: 8_000_000}
	require.ErrorIs(t, mgr.AddBlock(types.NewBlock(header, nil)), ErrUnknownParent)
}

func TestReorgRestoresTransactionsAndSwitchesBranch(t *testing.T) {
	key, v0 := newKeyAndAddr(t)
	alice := common.BytesToAddress([]byte("alice"))
	bob := common.BytesToAddress([]byte("bob"))
	alloc := GenesisAlloc{alice: {Balance: weiPerEth()}}

	testMgr := singleValidatorChain(t, key, v0, alloc)
	altMgr := singleValidatorChain(t, key, v0, alloc)
	require.Equal(t, testMgr.Genesis().Hash(), altMgr.Genesis().Hash())

	tx := types.NewTransaction(alice, &bob, weiPerEth(), 21000, 1, 0, nil)
	require.NoError(t, testMgr.pool.Add(tx))
	shortBlock, _, err := testMgr.Produce()
	require.NoError(t, err)
	require.Equal(t, shortBlock.Hash(), testMgr.Tip().Hash())
	require.Equal(t, 0, weiPerEth().Cmp(testMgr.State().GetBalance(bob)))

	var longChain []*types.Block
	for i := 0; i < 3; i++ {
		block, _, err := altMgr.Produce()
		require.NoError(t, err)
		longChain = append(longChain, block)
	}

	require.ErrorIs(t, testMgr.AddBlock(longChain[0]), ErrStaleBlock)
	require.ErrorIs(t, testMgr.AddBlock(longChain[1]), ErrStaleBlock)
	require.NoError(t, testMgr.AddBlock(longChain[2]))

	require.Equal(t, longChain[2].Hash(), testMgr.Tip().Hash())
	require.Equal(t, uint64(0), testMgr.State().GetBalance(bob).Uint64())
	require.Equal(t, 0, weiPerEth().Cmp(testMgr.State().GetBalance(alice)))
	require.NotNil(t, testMgr.pool.Get(tx.Hash()), "orphaned transaction should be restored to the pool")
}
