package rawdb

import (
	"testing"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/core/types"
	"github.com/ethcore/chain/ethdb/memorydb"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	db := memorydb.New()
	h := &types.Header{Number: 1, GasLimit: 8_000_000, Timestamp: 100}
	require.NoError(t, WriteHeader(db, h))

	got, err := ReadHeader(db, h.Hash())
	require.NoError(t, err)
	require.Equal(t, h.Hash(), got.Hash())
}

func TestBlockAndTransactionLookup(t *testing.T) {
	db := memorydb.New()
	to := common.BytesToAddress([]byte("bob"))
	tx := types.NewTransaction(common.BytesToAddress([]byte("alice")), &to, common.NewWord(50), 21000, 1, 0, nil)
	b := types.NewBlock(&types.Header{Number: 1}, []*types.Transaction{tx})

	require.NoError(t, WriteBlock(db, b))
	require.NoError(t, WriteCanonicalNumber(db, b.NumberU64(), b.Hash()))

	gotHash, ok := ReadCanonicalHash(db, 1)
	require.True(t, ok)
	require.Equal(t, b.Hash(), gotHash)

	gotTx, blockHash, idx, err := ReadTransaction(db, tx.Hash())
	require.NoError(t, err)
	require.Equal(t, b.Hash(), blockHash)
	require.Equal(t, uint64(0), idx)
	require.Equal(t, tx.Hash(), gotTx.Hash())
}

func TestChainTip(t *testing.T) {
	db := memorydb.New()
	_, _, ok := ReadChainTip(db)
	require.False(t, ok)

	h := common.BytesToHash([]byte("tip"))
	require.NoError(t, WriteChainTip(db, h, 42))

	gotHash, gotNum, ok := ReadChainTip(db)
	require.True(t, ok)
	require.Equal(t, h, gotHash)
	require.Equal(t, uint64(42), gotNum)
}
