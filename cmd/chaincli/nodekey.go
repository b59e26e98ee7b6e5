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
	"os"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/ethcore/chain/crypto"
	"github.com/ethcore/chain/log"
)

// loadOrCreateNodeKey reads the validator signing key from path, or
// generates and persists a new one if no file exists yet. The file holds
// the 32-byte private key scalar as hex, mirroring the "nodekey" file
// every go-ethereum node keeps next to its chain data.
func loadOrCreateNodeKey(path string) (*secp256k1.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		raw, err := hex.DecodeString(string(data))
		if err != nil {
			return nil, err
		}
		return secp256k1.PrivKeyFromBytes(raw), nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key.Serialize())), 0600); err != nil {
		return nil, err
	}
	log.Info("chaincli: generated new validator key", "path", path, "address", crypto.PubkeyToAddress(key.PubKey()).Hex())
	return key, nil
}
