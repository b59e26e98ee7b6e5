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
	"time"

	"github.com/ethcore/chain/common"
)

// Config collects every option spec.md §6 says the chain manager
// recognizes, read from a node's TOML or YAML configuration file.
type Config struct {
	ChainID    uint64           `toml:"chainId" yaml:"chainId"`
	BlockTime  uint64           `toml:"blockTime" yaml:"blockTime"`
	GasLimit   uint64           `toml:"gasLimit" yaml:"gasLimit"`
	Validators []common.Address `toml:"validators" yaml:"validators"`

	MinGasPrice            uint64        `toml:"minGasPrice" yaml:"minGasPrice"`
	MaxPoolSize            int           `toml:"maxPoolSize" yaml:"maxPoolSize"`
	MaxAccountTransactions int           `toml:"maxAccountTransactions" yaml:"maxAccountTransactions"`
	TransactionTimeout     time.Duration `toml:"transactionTimeout" yaml:"transactionTimeout"`

	InactivityThreshold uint64 `toml:"inactivityThreshold" yaml:"inactivityThreshold"`
}

// DefaultConfig returns the out-of-the-box tunables used when a node config
// file omits a field.
func DefaultConfig() Config {
	return Config{
		ChainID:                1337,
		BlockTime:              1,
		GasLimit:               8_000_000,
		MinGasPrice:            1,
		MaxPoolSize:            4096,
		MaxAccountTransactions: 64,
		TransactionTimeout:     3 * time.Hour,
		InactivityThreshold:    10,
	}
}
