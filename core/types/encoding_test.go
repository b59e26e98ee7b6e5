package types

import (
	"testing"

	"github.com/ethcore/chain/common"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := &Header{
		ParentHash:       common.BytesToHash([]byte("parent")),
		Number:           7,
		Timestamp:        1234,
		StateRoot:        common.BytesToHash([]byte("state")),
		TransactionsRoot: common.BytesToHash([]byte("txs")),
		ReceiptsRoot:     common.BytesToHash([]byte("receipts")),
		Validator:        common.BytesToAddress([]byte("validator")),
		Signature:        []byte("sig"),
		GasLimit:         8_000_000,
		GasUsed:          21000,
		ExtraData:        []byte("extra"),
	}
	encoded := EncodeHeader(h)
	decoded, err := DecodeHeader(encoded)
	require.NoError(t, err)
	require.Equal(t, h.ParentHash, decoded.ParentHash)
	require.Equal(t, h.Number, decoded.Number)
	require.Equal(t, h.Timestamp, decoded.Timestamp)
	require.Equal(t, h.StateRoot, decoded.StateRoot)
	require.Equal(t, h.TransactionsRoot, decoded.TransactionsRoot)
	require.Equal(t, h.ReceiptsRoot, decoded.ReceiptsRoot)
	require.Equal(t, h.Validator, decoded.Validator)
	require.Equal(t, h.Signature, decoded.Signature)
	require.Equal(t, h.GasLimit, decoded.GasLimit)
	require.Equal(t, h.GasUsed, decoded.GasUsed)
	require.Equal(t, h.ExtraData, decoded.ExtraData)
}

func TestTransactionsRootDeterministic(t *testing.T) {
	to := common.BytesToAddress([]byte("bob"))
	tx1 := NewTransaction(common.BytesToAddress([]byte("alice")), &to, common.NewWord(100), 21000, 1, 0, nil)
	tx2 := NewTransaction(common.BytesToAddress([]byte("alice")), &to, common.NewWord(100), 21000, 1, 0, nil)

	require.Equal(t, TransactionsRoot([]*Transaction{tx1}), TransactionsRoot([]*Transaction{tx2}))
	require.Equal(t, tx1.Hash(), tx2.Hash())
}

func TestCreationHasNilTo(t *testing.T) {
	tx := NewTransaction(common.BytesToAddress([]byte("alice")), nil, common.NewWord(0), 100000, 1, 0, []byte{0x60, 0x00})
	require.True(t, tx.IsCreation())
}

func TestSigningHashExcludesSignature(t *testing.T) {
	h := &Header{Number: 1, GasLimit: 8_000_000}
	before := h.SigningHash()
	h.Signature = []byte("some-signature")
	after := h.SigningHash()
	require.Equal(t, before, after)
	require.NotEqual(t, before, h.Hash())
}
