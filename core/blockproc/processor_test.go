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

package blockproc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/consensus/poa"
	"github.com/ethcore/chain/core/state"
	"github.com/ethcore/chain/core/types"
	"github.com/ethcore/chain/crypto"
	"github.com/ethcore/chain/ethdb/memorydb"
)

func fixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}

// fakePool is a minimal Pool: one fixed batch of candidates, plus a record
// of which hashes Remove was asked to prune.
type fakePool struct {
	candidates []*types.Transaction
	removed    []common.Hash
}

func (p *fakePool) TransactionsForBlock(gasLimit uint64) []*types.Transaction {
	var out []*types.Transaction
	var cumulative uint64
	for _, tx := range p.candidates {
		if cumulative+tx.GasLimit > gasLimit {
			continue
		}
		cumulative += tx.GasLimit
		out = append(out, tx)
	}
	return out
}

func (p *fakePool) Remove(hashes []common.Hash) { p.removed = append(p.removed, hashes...) }

func weiPerEth() *common.Word {
	w := common.NewWord(1)
	ten := common.NewWord(10)
	for i := 0; i < 18; i++ {
		w.Mul(w, ten)
	}
	return w
}

func newSingleValidatorProcessor(t *testing.T) (*Processor, common.Address, *poa.ValidatorSet) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	validator := crypto.PubkeyToAddress(key.PubKey())

	poaCfg := poa.DefaultConfig()
	poaCfg.BlockTime = 1
	poaCfg.Now = fixedClock(2_000_000)
	validators := poa.NewValidatorSet(poaCfg, []common.Address{validator})

	config := Config{GasLimit: 8_000_000, ChainID: 1337, Now: fixedClock(2_000_000)}
	return New(config, validators, key), validator, validators
}

func TestProduceAssemblesSignsAndPrunesPool(t *testing.T) {
	db := state.New(memorydb.New())
	alice := common.BytesToAddress([]byte("alice"))
	bob := common.BytesToAddress([]byte("bob"))
	db.AddBalance(alice, new(common.Word).Mul(weiPerEth(), common.NewWord(100)))

	tx := types.NewTransaction(alice, &bob, weiPerEth(), 21000, 1, 0, nil)
	pool := &fakePool{candidates: []*types.Transaction{tx}}

	proc, validator, _ := newSingleValidatorProcessor(t)
	parent := &types.Header{Number: 0, Timestamp: 1_000_000}

	block, receipts, err := proc.Produce(db, pool, parent)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	require.Equal(t, types.ReceiptStatusSuccess, receipts[0].Status)
	require.Equal(t, uint64(21000), block.Header.GasUsed)
	require.Equal(t, validator, block.Header.Validator)
	require.NotEmpty(t, block.Header.Signature)
	require.Equal(t, parent.Hash(), block.Header.ParentHash)
	require.Equal(t, []common.Hash{tx.Hash()}, pool.removed)

	entry, ok := validatorEntry(t, proc, validator)
	require.True(t, ok)
	require.Equal(t, uint64(1), entry.LastBlockNumber)
}

func validatorEntry(t *testing.T, proc *Processor, addr common.Address) (poa.Validator, bool) {
	t.Helper()
	return proc.validators.Get(addr)
}

func TestProduceExcludesTransactionOverGasLimit(t *testing.T) {
	db := state.New(memorydb.New())
	alice := common.BytesToAddress([]byte("alice"))
	bob := common.BytesToAddress([]byte("bob"))
	db.AddBalance(alice, new(common.Word).Mul(weiPerEth(), common.NewWord(100)))

	tx := types.NewTransaction(alice, &bob, weiPerEth(), 21000, 1, 0, nil)
	pool := &fakePool{candidates: []*types.Transaction{tx}}

	proc, _, _ := newSingleValidatorProcessor(t)
	proc.config.GasLimit = 20000 // below the single candidate's gasLimit
	parent := &types.Header{Number: 0, Timestamp: 1_000_000}

	block, receipts, err := proc.Produce(db, pool, parent)
	require.NoError(t, err)
	require.Empty(t, receipts)
	require.Empty(t, block.Transactions)
	require.Empty(t, pool.removed)
}

func TestProduceThenValidateAndApplyAgree(t *testing.T) {
	producerDB := state.New(memorydb.New())
	alice := common.BytesToAddress([]byte("alice"))
	bob := common.BytesToAddress([]byte("bob"))
	producerDB.AddBalance(alice, new(common.Word).Mul(weiPerEth(), common.NewWord(100)))

	tx := types.NewTransaction(alice, &bob, weiPerEth(), 21000, 1, 0, nil)
	pool := &fakePool{candidates: []*types.Transaction{tx}}

	proc, _, _ := newSingleValidatorProcessor(t)
	parent := &types.Header{Number: 0, Timestamp: 1_000_000}

	block, produceReceipts, err := proc.Produce(producerDB, pool, parent)
	require.NoError(t, err)

	followerDB := state.New(memorydb.New())
	followerDB.AddBalance(alice, new(common.Word).Mul(weiPerEth(), common.NewWord(100)))

	receipts, err := proc.ValidateAndApply(followerDB, block, parent)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	require.Equal(t, produceReceipts[0].Status, receipts[0].Status)
	require.Equal(t, produceReceipts[0].GasUsed, receipts[0].GasUsed)
	require.Equal(t, 0, weiPerEth().Cmp(followerDB.GetBalance(bob)))
}

func TestValidateAndApplyRejectsGasLimitMismatch(t *testing.T) {
	proc, validator, _ := newSingleValidatorProcessor(t)
	parent := &types.Header{Number: 0, Timestamp: 1_000_000}
	header := &types.Header{
		ParentHash: parent.Hash(),
		Number:     1,
		Timestamp:  1_000_001,
		Validator:  validator,
		Signature:  []byte{0x01},
		GasLimit:   1,
	}
	block := types.NewBlock(header, nil)

	db := state.New(memorydb.New())
	_, err := proc.ValidateAndApply(db, block, parent)
	require.ErrorIs(t, err, ErrGasLimitMismatch)
}

func TestValidateAndApplyRejectsDuplicateTransaction(t *testing.T) {
	proc, validator, _ := newSingleValidatorProcessor(t)
	alice := common.BytesToAddress([]byte("alice"))
	bob := common.BytesToAddress([]byte("bob"))
	tx := types.NewTransaction(alice, &bob, weiPerEth(), 21000, 1, 0, nil)

	parent := &types.Header{Number: 0, Timestamp: 1_000_000}
	header := &types.Header{
		ParentHash: parent.Hash(),
		Number:     1,
		Timestamp:  1_000_001,
		Validator:  validator,
		Signature:  []byte{0x01},
		GasLimit:   8_000_000,
		GasUsed:    42000,
	}
	block := types.NewBlock(header, []*types.Transaction{tx, tx})

	db := state.New(memorydb.New())
	_, err := proc.ValidateAndApply(db, block, parent)
	require.ErrorIs(t, err, ErrDuplicateTransaction)
}
