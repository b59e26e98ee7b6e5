// Copyright 2016 The go-ethereum Authors
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

package params

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/ethcore/chain/common"
)

// ChainConfig is every option spec.md §6 says "the chain manager" must
// recognize. Its fields carry TOML tags, but no loader in this module
// decodes into it: cmd/chaincli's loadConfig decodes chain.Config instead.
type ChainConfig struct {
	// ChainID is included in the execution environment and identifies the
	// chain to signature/replay-protection schemes.
	ChainID uint64 `toml:"chain_id"`

	// BlockTime is the minimum parent-child header timestamp spacing, in
	// seconds.
	BlockTime time.Duration `toml:"-"`
	BlockTimeSeconds uint64 `toml:"block_time_seconds"`

	// GasLimit is the per-block gas limit; it must be identical across all
	// produced blocks.
	GasLimit uint64 `toml:"gas_limit"`

	// Validators is the ordered initial authority set.
	Validators []common.Address `toml:"-"`
	ValidatorsHex []string `toml:"validators"`

	// MinGasPrice is the pool admission floor.
	MinGasPrice uint64 `toml:"min_gas_price"`

	// MaxPoolSize and MaxAccountTransactions bound pool capacity.
	MaxPoolSize            int `toml:"max_pool_size"`
	MaxAccountTransactions int `toml:"max_account_transactions"`

	// TransactionTimeout is the pool entry age-out, in seconds.
	TransactionTimeout time.Duration `toml:"-"`
	TransactionTimeoutSeconds uint64 `toml:"transaction_timeout_seconds"`

	// InactivityThreshold is the missed-block count that deactivates a
	// validator.
	InactivityThreshold uint64 `toml:"inactivity_threshold"`

	// GenesisTimestamp seeds block 0's header timestamp.
	GenesisTimestamp uint64 `toml:"genesis_timestamp"`
}

// Normalize fills in the derived (non-TOML) fields after decode: it parses
// ValidatorsHex into Validators and converts the *Seconds fields into
// time.Duration.
func (c *ChainConfig) Normalize() error {
	c.BlockTime = time.Duration(c.BlockTimeSeconds) * time.Second
	c.TransactionTimeout = time.Duration(c.TransactionTimeoutSeconds) * time.Second

	c.Validators = make([]common.Address, 0, len(c.ValidatorsHex))
	for _, h := range c.ValidatorsHex {
		addr, err := parseAddressHex(h)
		if err != nil {
			return err
		}
		c.Validators = append(c.Validators, addr)
	}
	return nil
}

func parseAddressHex(s string) (common.Address, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(b), nil
}

// DefaultChainConfig returns sane defaults for local development and tests.
func DefaultChainConfig() *ChainConfig {
	cfg := &ChainConfig{
		ChainID:                   1337,
		BlockTimeSeconds:          2,
		GasLimit:                  8_000_000,
		MinGasPrice:               1,
		MaxPoolSize:               4096,
		MaxAccountTransactions:    64,
		TransactionTimeoutSeconds: 3 * 60 * 60,
		InactivityThreshold:       10,
	}
	_ = cfg.Normalize()
	return cfg
}
