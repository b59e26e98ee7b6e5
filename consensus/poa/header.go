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

package poa

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/core/types"
	"github.com/ethcore/chain/crypto"
)

// futureTolerance bounds how far ahead of the local clock a header's
// timestamp may sit before it is rejected (spec.md §4.4).
const futureTolerance = 60 // seconds

// ValidateHeader enforces spec.md §4.5's validator-identity, timestamp,
// and signature rules for a non-genesis header against its parent.
// Structural checks that belong to the block processor (gas accounting,
// transaction roots, duplicate hashes) are its responsibility, not this
// engine's.
func (vs *ValidatorSet) ValidateHeader(header, parent *types.Header) error {
	if header.Number != parent.Number+1 {
		return ErrWrongBlockNumber
	}

	expected, ok := vs.NextValidator()
	if !ok || header.Validator != expected {
		return ErrUnexpectedValidator
	}

	if header.Timestamp <= parent.Timestamp {
		return ErrTimestampNotIncreasing
	}
	if header.Timestamp-parent.Timestamp < vs.config.BlockTime {
		return ErrTimestampTooSoon
	}
	if now := uint64(vs.config.Now().Unix()); header.Timestamp > now+futureTolerance {
		return ErrTimestampInFuture
	}

	if len(header.Signature) == 0 {
		return ErrEmptySignature
	}
	return nil
}

// SignHeader produces a signature over header's signing hash with the
// given validator key and stores it on the header, satisfying spec.md
// §4.5's requirement that the signature be present and a deterministic
// function of the header bytes. It must be called before the header's
// Hash() is first read, since that hash is cached.
func SignHeader(header *types.Header, key *secp256k1.PrivateKey) error {
	sig, err := crypto.Sign(header.SigningHash().Bytes(), key)
	if err != nil {
		return err
	}
	header.Signature = sig
	return nil
}

// RecoverSigner returns the address that produced header's signature, for
// callers that want to cross-check a signature against the claimed
// Validator field rather than merely checking it is non-empty.
func RecoverSigner(header *types.Header) (common.Address, error) {
	return crypto.SigToAddress(header.SigningHash().Bytes(), header.Signature)
}
