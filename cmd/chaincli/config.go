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

package main

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"unicode"

	"github.com/naoina/toml"
	"gopkg.in/yaml.v3"

	"github.com/ethcore/chain/chain"
	"github.com/ethcore/chain/common"
)

// tomlSettings customizes the naoina/toml decoder the same way upstream
// go-ethereum's cmd/utils/config.go does: keys are matched exactly as
// written (case-sensitively), and an unrecognized key in the file is a hard error
// rather than being silently ignored.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		link := ""
		if unicode.IsUpper(rune(field[0])) && rt.Kind() == reflect.Struct {
			link = fmt.Sprintf(", see %s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// loadConfig reads a chain.Config from a TOML or YAML file, chosen by
// extension (spec.md §6 names both as acceptable configuration formats).
func loadConfig(path string) (chain.Config, error) {
	cfg := chain.DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(&cfg)
	default:
		err = tomlSettings.NewDecoder(f).Decode(&cfg)
	}
	return cfg, err
}

// genesisAccountFile is the on-disk (hex-string) shape of one
// chain.GenesisAccount entry; config file formats have no native notion of
// a common.Word or common.Hash, so the file works in strings and
// genesisFile.alloc converts them.
type genesisAccountFile struct {
	Balance string            `toml:"balance" yaml:"balance"`
	Nonce   uint64            `toml:"nonce" yaml:"nonce"`
	Code    string            `toml:"code" yaml:"code"`
	Storage map[string]string `toml:"storage" yaml:"storage"`
}

// genesisFile is the on-disk shape of chain.Genesis.
type genesisFile struct {
	Timestamp uint64                        `toml:"timestamp" yaml:"timestamp"`
	ExtraData string                        `toml:"extraData" yaml:"extraData"`
	Alloc     map[string]genesisAccountFile `toml:"alloc" yaml:"alloc"`
}

func loadGenesis(path string, cfg chain.Config) (*chain.Genesis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var gf genesisFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(&gf)
	default:
		err = tomlSettings.NewDecoder(f).Decode(&gf)
	}
	if err != nil {
		return nil, err
	}

	alloc := make(chain.GenesisAlloc, len(gf.Alloc))
	for addrHex, acc := range gf.Alloc {
		var balance *common.Word
		if acc.Balance != "" {
			balance = common.WordFromBytes(mustHexBytes(acc.Balance))
		}
		storage := make(map[common.Hash]*common.Word, len(acc.Storage))
		for keyHex, valHex := range acc.Storage {
			storage[common.HexToHash(keyHex)] = common.WordFromBytes(mustHexBytes(valHex))
		}
		alloc[common.HexToAddress(addrHex)] = chain.GenesisAccount{
			Balance: balance,
			Nonce:   acc.Nonce,
			Code:    mustHexBytes(acc.Code),
			Storage: storage,
		}
	}

	return &chain.Genesis{
		Config:    cfg,
		Timestamp: gf.Timestamp,
		ExtraData: []byte(gf.ExtraData),
		Alloc:     alloc,
	}, nil
}

// mustHexBytes decodes a decimal or "0x"-prefixed hex string into bytes.
// An empty string decodes to nil. Genesis balances read naturally as
// plain decimal in a config file, so a value with no "0x" prefix is
// parsed as decimal digits rather than as hex.
func mustHexBytes(s string) []byte {
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "0x") {
		s = s[2:]
		if len(s)%2 == 1 {
			s = "0" + s
		}
		b, _ := hex.DecodeString(s)
		return b
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil
	}
	return n.Bytes()
}
