// Copyright 2014 The go-ethereum Authors
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

package types

import (
	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/crypto"
	"github.com/ethcore/chain/rlp"
)

// EncodeHeader renders a header as the canonical length-prefix list
// spec.md §6 specifies, field order: parentHash, number, timestamp,
// stateRoot, transactionsRoot, receiptsRoot, validator, signature,
// gasLimit, gasUsed, extraData.
func EncodeHeader(h *Header) []byte {
	return rlp.List(
		rlp.EncodeBytes(nil, h.ParentHash.Bytes()),
		rlp.EncodeUint(nil, h.Number),
		rlp.EncodeUint(nil, h.Timestamp),
		rlp.EncodeBytes(nil, h.StateRoot.Bytes()),
		rlp.EncodeBytes(nil, h.TransactionsRoot.Bytes()),
		rlp.EncodeBytes(nil, h.ReceiptsRoot.Bytes()),
		rlp.EncodeBytes(nil, h.Validator.Bytes()),
		rlp.EncodeBytes(nil, h.Signature),
		rlp.EncodeUint(nil, h.GasLimit),
		rlp.EncodeUint(nil, h.GasUsed),
		rlp.EncodeBytes(nil, h.ExtraData),
	)
}

// EncodeTransaction renders a transaction as the canonical length-prefix
// list spec.md §6 specifies, field order: from, to, value, gasLimit,
// gasPrice, nonce, data. "to" is 20 zero bytes for a creation.
func EncodeTransaction(tx *Transaction) []byte {
	to := common.Address{}
	if tx.To != nil {
		to = *tx.To
	}
	value := new(common.Word)
	if tx.Value != nil {
		value.Set(tx.Value)
	}
	return rlp.List(
		rlp.EncodeBytes(nil, tx.From.Bytes()),
		rlp.EncodeBytes(nil, to.Bytes()),
		rlp.EncodeBytes(nil, value.Bytes()),
		rlp.EncodeUint(nil, tx.GasLimit),
		rlp.EncodeUint(nil, tx.GasPrice),
		rlp.EncodeUint(nil, tx.Nonce),
		rlp.EncodeBytes(nil, tx.Data),
	)
}

// EncodeTransactionList renders an ordered list of transactions as a single
// RLP list of their individual encodings, the input to transactionsRoot.
func EncodeTransactionList(txs []*Transaction) []byte {
	items := make([][]byte, 0, len(txs))
	for _, tx := range txs {
		items = append(items, rlp.EncodeBytes(nil, EncodeTransaction(tx)))
	}
	return rlp.List(items...)
}

// EncodeReceiptList renders an ordered list of receipts as a single RLP
// list, the input to receiptsRoot.
func EncodeReceiptList(receipts []*Receipt) []byte {
	items := make([][]byte, 0, len(receipts))
	for _, r := range receipts {
		items = append(items, rlp.EncodeBytes(nil, encodeReceipt(r)))
	}
	return rlp.List(items...)
}

func encodeReceipt(r *Receipt) []byte {
	contractAddr := common.Address{}
	if r.ContractAddress != nil {
		contractAddr = *r.ContractAddress
	}
	logItems := make([][]byte, 0, len(r.Logs))
	for _, lg := range r.Logs {
		logItems = append(logItems, rlp.EncodeBytes(nil, encodeLog(lg)))
	}
	return rlp.List(
		rlp.EncodeBytes(nil, r.TxHash.Bytes()),
		rlp.EncodeUint(nil, r.BlockNumber),
		rlp.EncodeUint(nil, r.GasUsed),
		rlp.EncodeUint(nil, r.CumulativeGasUsed),
		rlp.EncodeBytes(nil, contractAddr.Bytes()),
		rlp.List(logItems...),
		rlp.EncodeUint(nil, r.Status),
	)
}

func encodeLog(lg *Log) []byte {
	topicItems := make([][]byte, 0, len(lg.Topics))
	for _, t := range lg.Topics {
		topicItems = append(topicItems, rlp.EncodeBytes(nil, t.Bytes()))
	}
	return rlp.List(
		rlp.EncodeBytes(nil, lg.Address.Bytes()),
		rlp.List(topicItems...),
		rlp.EncodeBytes(nil, lg.Data),
	)
}

// TransactionsRoot computes the deterministic commitment to an ordered
// transaction list (spec.md §3, §4.4, §8): a content hash of the canonical
// encoding, so recomputing on the same inputs yields the same root
// bit-for-bit and two independently produced blocks from the same pool and
// pre-state agree.
func TransactionsRoot(txs []*Transaction) common.Hash {
	return crypto.Keccak256Hash(EncodeTransactionList(txs))
}

// ReceiptsRoot computes the deterministic commitment to an ordered receipt
// list.
func ReceiptsRoot(receipts []*Receipt) common.Hash {
	return crypto.Keccak256Hash(EncodeReceiptList(receipts))
}

// DecodeHeader parses a header previously produced by EncodeHeader. Encode
// then DecodeHeader round-trips to an equal header, field-for-field
// (spec.md §8).
func DecodeHeader(b []byte) (*Header, error) {
	item, _, err := rlp.DecodeItem(b)
	if err != nil {
		return nil, err
	}
	if !item.IsList || len(item.List) != 11 {
		return nil, rlp.ErrMalformed
	}
	f := item.List
	number, err := f[1].AsUint64()
	if err != nil {
		return nil, err
	}
	timestamp, err := f[2].AsUint64()
	if err != nil {
		return nil, err
	}
	gasLimit, err := f[8].AsUint64()
	if err != nil {
		return nil, err
	}
	gasUsed, err := f[9].AsUint64()
	if err != nil {
		return nil, err
	}
	return &Header{
		ParentHash:       common.BytesToHash(f[0].Bytes),
		Number:           number,
		Timestamp:        timestamp,
		StateRoot:        common.BytesToHash(f[3].Bytes),
		TransactionsRoot: common.BytesToHash(f[4].Bytes),
		ReceiptsRoot:     common.BytesToHash(f[5].Bytes),
		Validator:        common.BytesToAddress(f[6].Bytes),
		Signature:        append([]byte(nil), f[7].Bytes...),
		GasLimit:         gasLimit,
		GasUsed:          gasUsed,
		ExtraData:        append([]byte(nil), f[10].Bytes...),
	}, nil
}

// DecodeTransactionList parses a transaction list previously produced by
// EncodeTransactionList.
func DecodeTransactionList(b []byte) ([]*Transaction, error) {
	item, _, err := rlp.DecodeItem(b)
	if err != nil {
		return nil, err
	}
	if !item.IsList {
		return nil, rlp.ErrMalformed
	}
	txs := make([]*Transaction, 0, len(item.List))
	for _, elem := range item.List {
		tx, err := DecodeTransaction(elem.Bytes)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// DecodeTransaction parses a transaction previously produced by
// EncodeTransaction. A zero "to" field decodes back to a nil To (creation).
func DecodeTransaction(b []byte) (*Transaction, error) {
	item, _, err := rlp.DecodeItem(b)
	if err != nil {
		return nil, err
	}
	if !item.IsList || len(item.List) != 7 {
		return nil, rlp.ErrMalformed
	}
	f := item.List
	gasLimit, err := f[3].AsUint64()
	if err != nil {
		return nil, err
	}
	gasPrice, err := f[4].AsUint64()
	if err != nil {
		return nil, err
	}
	nonce, err := f[5].AsUint64()
	if err != nil {
		return nil, err
	}
	tx := &Transaction{
		From:     common.BytesToAddress(f[0].Bytes),
		Value:    common.WordFromBytes(f[2].Bytes),
		GasLimit: gasLimit,
		GasPrice: gasPrice,
		Nonce:    nonce,
		Data:     append([]byte(nil), f[6].Bytes...),
	}
	if to := common.BytesToAddress(f[1].Bytes); !to.IsZero() {
		tx.To = &to
	}
	return tx, nil
}
