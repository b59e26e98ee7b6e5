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
	"sync/atomic"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/crypto"
)

// Header is a block header (spec.md §3). It is immutable once signed.
type Header struct {
	ParentHash       common.Hash
	Number           uint64
	Timestamp        uint64
	StateRoot        common.Hash
	TransactionsRoot common.Hash
	ReceiptsRoot     common.Hash
	Validator        common.Address
	Signature        []byte
	GasLimit         uint64
	GasUsed          uint64
	ExtraData        []byte

	hash atomic.Pointer[common.Hash]
}

// Hash returns the header's deterministic content hash, used as
// parentHash by its child and as the block's identity.
func (h *Header) Hash() common.Hash {
	if p := h.hash.Load(); p != nil {
		return *p
	}
	hash := crypto.Keccak256Hash(EncodeHeader(h))
	h.hash.Store(&hash)
	return hash
}

// SigningHash returns the hash signed by the PoA validator: the header's
// content hash computed with the Signature field cleared, so the signature
// itself commits to every other field without self-reference.
func (h *Header) SigningHash() common.Hash {
	unsigned := *h
	unsigned.Signature = nil
	unsigned.hash = atomic.Pointer[common.Hash]{}
	return crypto.Keccak256Hash(EncodeHeader(&unsigned))
}

// Block is a header plus its ordered transactions (spec.md §3). Immutable
// once added to the chain.
type Block struct {
	Header       *Header
	Transactions []*Transaction
}

// NewBlock constructs a Block from a header and its transactions.
func NewBlock(header *Header, txs []*Transaction) *Block {
	return &Block{Header: header, Transactions: txs}
}

func (b *Block) Hash() common.Hash    { return b.Header.Hash() }
func (b *Block) NumberU64() uint64    { return b.Header.Number }
func (b *Block) ParentHash() common.Hash { return b.Header.ParentHash }
