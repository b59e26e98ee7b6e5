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

package types

import "github.com/ethcore/chain/common"

// Receipt status codes (spec.md §3).
const (
	ReceiptStatusFailed  = uint64(0)
	ReceiptStatusSuccess = uint64(1)
)

// Log is a single event emitted by a contract during execution (spec.md §3).
type Log struct {
	Address common.Address
	Topics  []common.Hash // 0-4 entries
	Data    []byte
}

// Receipt is the structured result of one transaction's execution within a
// block (spec.md §3).
type Receipt struct {
	TxHash            common.Hash
	BlockNumber       uint64
	GasUsed           uint64
	CumulativeGasUsed uint64
	ContractAddress   *common.Address // set only on successful creation
	Logs              []*Log
	Status            uint64
}

// Failed reports whether the receipt records a failed execution.
func (r *Receipt) Failed() bool { return r.Status == ReceiptStatusFailed }
