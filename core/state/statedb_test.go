package state

import (
	"testing"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/core/rawdb"
	"github.com/ethcore/chain/ethdb/memorydb"
	"github.com/stretchr/testify/require"
)

func newTestStateDB() *StateDB {
	return New(memorydb.New())
}

func TestSnapshotRevertIsNoOp(t *testing.T) {
	s := newTestStateDB()
	addr := common.BytesToAddress([]byte("alice"))
	s.AddBalance(addr, common.NewWord(100))
	before := s.GetBalance(addr).Clone()

	id := s.Snapshot()
	s.AddBalance(addr, common.NewWord(50))
	s.SetNonce(addr, 7)
	require.NoError(t, s.RevertToSnapshot(id))

	require.True(t, before.Eq(s.GetBalance(addr)))
	require.Equal(t, uint64(0), s.GetNonce(addr))
}

func TestSnapshotCommitKeepsMutationsVisible(t *testing.T) {
	s := newTestStateDB()
	addr := common.BytesToAddress([]byte("alice"))

	id := s.Snapshot()
	s.AddBalance(addr, common.NewWord(100))
	require.NoError(t, s.Commit(id))

	require.True(t, common.NewWord(100).Eq(s.GetBalance(addr)))
}

func TestNestedSnapshotOuterRevertUndoesCommittedInner(t *testing.T) {
	s := newTestStateDB()
	addr := common.BytesToAddress([]byte("alice"))

	outer := s.Snapshot()
	inner := s.Snapshot()
	s.AddBalance(addr, common.NewWord(100))
	require.NoError(t, s.Commit(inner))

	s.AddBalance(addr, common.NewWord(1))
	require.NoError(t, s.RevertToSnapshot(outer))

	require.True(t, common.ZeroWord(s.GetBalance(addr)))
}

func TestRevertInvalidatesNewerSnapshots(t *testing.T) {
	s := newTestStateDB()
	addr := common.BytesToAddress([]byte("alice"))

	outer := s.Snapshot()
	inner := s.Snapshot()
	s.AddBalance(addr, common.NewWord(1))
	require.NoError(t, s.RevertToSnapshot(outer))

	require.ErrorIs(t, s.RevertToSnapshot(inner), ErrSnapshotNotFound)
}

func TestUnknownSnapshotErrors(t *testing.T) {
	s := newTestStateDB()
	require.ErrorIs(t, s.RevertToSnapshot(99), ErrSnapshotNotFound)
	require.ErrorIs(t, s.Commit(99), ErrSnapshotNotFound)
}

func TestSubBalanceInsufficientFunds(t *testing.T) {
	s := newTestStateDB()
	addr := common.BytesToAddress([]byte("alice"))
	s.AddBalance(addr, common.NewWord(10))

	err := s.SubBalance(addr, common.NewWord(20))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.True(t, common.NewWord(10).Eq(s.GetBalance(addr)))
}

func TestFinalizePersistsAcrossInstances(t *testing.T) {
	db := memorydb.New()
	s := New(db)
	addr := common.BytesToAddress([]byte("alice"))
	s.SetNonce(addr, 3)
	s.AddBalance(addr, common.NewWord(42))
	s.SetState(addr, common.BytesToHash([]byte("slot")), common.NewWord(7))

	root1, err := s.Finalize()
	require.NoError(t, err)

	s2 := New(db)
	require.Equal(t, uint64(3), s2.GetNonce(addr))
	require.True(t, common.NewWord(42).Eq(s2.GetBalance(addr)))
	require.True(t, common.NewWord(7).Eq(s2.GetState(addr, common.BytesToHash([]byte("slot")))))

	root2, err := s2.Finalize()
	require.NoError(t, err)
	require.Equal(t, root1, root2, "re-finalizing identical state must agree on the root")
}

func TestStorageSlotZeroElided(t *testing.T) {
	db := memorydb.New()
	s := New(db)
	addr := common.BytesToAddress([]byte("alice"))
	slot := common.BytesToHash([]byte("slot"))
	s.SetState(addr, slot, common.NewWord(5))
	s.SetState(addr, slot, common.NewWord(0))
	_, err := s.Finalize()
	require.NoError(t, err)

	has, _ := db.Has(rawdb.StorageKey(addr, slot))
	require.False(t, has)
}

func TestSelfDestructRemovesAccount(t *testing.T) {
	db := memorydb.New()
	s := New(db)
	addr := common.BytesToAddress([]byte("alice"))
	s.AddBalance(addr, common.NewWord(5))
	s.SelfDestruct(addr)
	require.True(t, s.HasSelfDestructed(addr))

	_, err := s.Finalize()
	require.NoError(t, err)

	s2 := New(db)
	require.False(t, s2.Exist(addr))
}

func TestEmptyAccount(t *testing.T) {
	s := newTestStateDB()
	addr := common.BytesToAddress([]byte("alice"))
	require.True(t, s.Empty(addr))
	s.SetNonce(addr, 1)
	require.False(t, s.Empty(addr))
}
