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
	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/core/types"
)

// GenesisAccount is one entry of the genesis allocation map (spec.md §4.7):
// address -> {balance, nonce, code, storage}.
type GenesisAccount struct {
	Balance *common.Word
	Nonce   uint64
	Code    []byte
	Storage map[common.Hash]*common.Word
}

// GenesisAlloc is the full genesis allocation map.
type GenesisAlloc map[common.Address]GenesisAccount

// Genesis specifies everything needed to bootstrap a chain from block zero
// (spec.md §4.7): the validator set, block-time, and gas limit live in
// Config; Alloc seeds World State before the first block is produced.
type Genesis struct {
	Config    Config
	Timestamp uint64
	ExtraData []byte
	Alloc     GenesisAlloc
}

// applyTo materializes the allocation into statedb, account by account.
func (g *Genesis) applyTo(statedb GenesisStateDB) {
	for addr, account := range g.Alloc {
		statedb.CreateAccount(addr)
		if account.Balance != nil {
			statedb.AddBalance(addr, account.Balance)
		}
		if account.Nonce > 0 {
			statedb.SetNonce(addr, account.Nonce)
		}
		if len(account.Code) > 0 {
			statedb.SetCode(addr, account.Code)
		}
		for key, val := range account.Storage {
			statedb.SetState(addr, key, val)
		}
	}
}

// GenesisStateDB is the narrow World State surface genesis allocation needs.
type GenesisStateDB interface {
	CreateAccount(addr common.Address)
	AddBalance(addr common.Address, amount *common.Word)
	SetNonce(addr common.Address, nonce uint64)
	SetCode(addr common.Address, code []byte)
	SetState(addr common.Address, key common.Hash, value *common.Word)
}

// toBlock builds the unsigned genesis header and block. Genesis has no
// parent and is never signed or validated against a predecessor -- spec.md
// §4.7 fixes it as the chain's trusted starting point.
func (g *Genesis) toBlock(stateRoot common.Hash) *types.Block {
	header := &types.Header{
		Number:           0,
		Timestamp:        g.Timestamp,
		StateRoot:        stateRoot,
		TransactionsRoot: types.TransactionsRoot(nil),
		ReceiptsRoot:     types.ReceiptsRoot(nil),
		GasLimit:         g.Config.GasLimit,
		ExtraData:        g.ExtraData,
	}
	if len(g.Config.Validators) > 0 {
		header.Validator = g.Config.Validators[0]
	}
	return types.NewBlock(header, nil)
}
