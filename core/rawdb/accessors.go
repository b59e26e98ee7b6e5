package rawdb

import (
	"encoding/binary"
	"strconv"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/core/types"
	"github.com/ethcore/chain/ethdb"
)

// WriteHeader persists a header under header:<hash>.
func WriteHeader(db ethdb.KeyValueWriter, h *types.Header) error {
	return db.Put(headerKey(h.Hash()), types.EncodeHeader(h))
}

// ReadHeader loads the header stored at hash, or nil if absent.
func ReadHeader(db ethdb.KeyValueReader, hash common.Hash) (*types.Header, error) {
	data, err := db.Get(headerKey(hash))
	if err != nil {
		return nil, nil //nolint:nilerr // absent key is not an error to callers
	}
	return types.DecodeHeader(data)
}

// WriteBlock persists a block's transaction list under block:<hash> and
// indexes each transaction for lookup by hash.
func WriteBlock(db ethdb.KeyValueWriter, b *types.Block) error {
	if err := db.Put(blockKey(b.Hash()), types.EncodeTransactionList(b.Transactions)); err != nil {
		return err
	}
	for i, tx := range b.Transactions {
		if err := db.Put(transactionKey(tx.Hash()), types.EncodeTransaction(tx)); err != nil {
			return err
		}
		if err := db.Put(txBlockKey(tx.Hash()), b.Hash().Bytes()); err != nil {
			return err
		}
		idx := make([]byte, 8)
		binary.BigEndian.PutUint64(idx, uint64(i))
		if err := db.Put(txIndexKey(tx.Hash()), idx); err != nil {
			return err
		}
	}
	return nil
}

// ReadBlock reassembles a block from its header and transaction list, or
// returns nil if either is absent.
func ReadBlock(db ethdb.KeyValueReader, hash common.Hash) (*types.Block, error) {
	header, err := ReadHeader(db, hash)
	if err != nil || header == nil {
		return nil, err
	}
	data, err := db.Get(blockKey(hash))
	if err != nil {
		return nil, nil //nolint:nilerr // absent key is not an error to callers
	}
	txs, err := types.DecodeTransactionList(data)
	if err != nil {
		return nil, err
	}
	return types.NewBlock(header, txs), nil
}

// WriteCanonicalNumber records hash as the canonical block at number.
func WriteCanonicalNumber(db ethdb.KeyValueWriter, number uint64, hash common.Hash) error {
	return db.Put(blockByNumberKey(number), hash.Bytes())
}

// ReadCanonicalHash returns the canonical block hash at number, if any.
func ReadCanonicalHash(db ethdb.KeyValueReader, number uint64) (common.Hash, bool) {
	data, err := db.Get(blockByNumberKey(number))
	if err != nil || len(data) != common.HashLength {
		return common.Hash{}, false
	}
	return common.BytesToHash(data), true
}

// WriteReceipts persists a block's receipts under metadata:<hash>.
func WriteReceipts(db ethdb.KeyValueWriter, blockHash common.Hash, receipts []*types.Receipt) error {
	return db.Put(metadataKey(blockHash), types.EncodeReceiptList(receipts))
}

// ReadTransaction loads a transaction by hash, along with the hash of the
// block it was included in and its index within that block.
func ReadTransaction(db ethdb.KeyValueReader, hash common.Hash) (*types.Transaction, common.Hash, uint64, error) {
	blockHash, err := db.Get(txBlockKey(hash))
	if err != nil {
		return nil, common.Hash{}, 0, err
	}
	idxBytes, err := db.Get(txIndexKey(hash))
	if err != nil {
		return nil, common.Hash{}, 0, err
	}
	txData, err := db.Get(transactionKey(hash))
	if err != nil {
		return nil, common.Hash{}, 0, err
	}
	tx, err := types.DecodeTransaction(txData)
	if err != nil {
		return nil, common.Hash{}, 0, err
	}
	return tx, common.BytesToHash(blockHash), binary.BigEndian.Uint64(idxBytes), nil
}

// WriteChainTip records the current canonical tip.
func WriteChainTip(db ethdb.KeyValueWriter, hash common.Hash, number uint64) error {
	if err := db.Put(chainTipKey, hash.Bytes()); err != nil {
		return err
	}
	return db.Put(chainTipNumberKey, []byte(strconv.FormatUint(number, 10)))
}

// ReadChainTip returns the current canonical tip hash and number, or ok=false
// if the chain is empty (no genesis written yet).
func ReadChainTip(db ethdb.KeyValueReader) (hash common.Hash, number uint64, ok bool) {
	h, err := db.Get(chainTipKey)
	if err != nil || len(h) != common.HashLength {
		return common.Hash{}, 0, false
	}
	n, err := db.Get(chainTipNumberKey)
	if err != nil {
		return common.Hash{}, 0, false
	}
	num, err := strconv.ParseUint(string(n), 10, 64)
	if err != nil {
		return common.Hash{}, 0, false
	}
	return common.BytesToHash(h), num, true
}
