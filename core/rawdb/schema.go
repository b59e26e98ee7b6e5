// Package rawdb maps the chain's domain objects onto the opaque key-value
// store (spec.md §6): block/header/transaction/receipt/account/storage
// records addressed by the ASCII-prefixed keys spec.md §6 names.
package rawdb

import (
	"encoding/hex"
	"strconv"

	"github.com/ethcore/chain/common"
)

var (
	chainTipKey       = []byte("chainTip")
	chainTipNumberKey = []byte("chainTipNumber")
)

func headerKey(hash common.Hash) []byte {
	return []byte("header:" + hex.EncodeToString(hash.Bytes()))
}

func blockKey(hash common.Hash) []byte {
	return []byte("block:" + hex.EncodeToString(hash.Bytes()))
}

func blockByNumberKey(number uint64) []byte {
	return []byte("blockByNumber:" + strconv.FormatUint(number, 10))
}

func metadataKey(hash common.Hash) []byte {
	return []byte("metadata:" + hex.EncodeToString(hash.Bytes()))
}

func transactionKey(hash common.Hash) []byte {
	return []byte("transaction:" + hex.EncodeToString(hash.Bytes()))
}

func txBlockKey(hash common.Hash) []byte {
	return []byte("txBlock:" + hex.EncodeToString(hash.Bytes()))
}

func txIndexKey(hash common.Hash) []byte {
	return []byte("txIndex:" + hex.EncodeToString(hash.Bytes()))
}

// AccountKey and StorageKey are exported for core/state's World State, the
// other consumer of this key schema.
func AccountKey(addr common.Address) []byte {
	return []byte("account:" + hex.EncodeToString(addr.Bytes()))
}

func StorageKey(addr common.Address, slot common.Hash) []byte {
	return []byte("storage:" + hex.EncodeToString(addr.Bytes()) + ":" + hex.EncodeToString(slot.Bytes()))
}
