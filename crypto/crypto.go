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

// Package crypto supplies the two primitives the chain treats as external
// collaborators per spec.md §6: a fixed 32-byte content hash (Keccak256,
// used for transaction/block identity and RLP-style root commitments) and a
// secp256k1 signature used to back PoA header signing. Per spec.md's
// Non-goals, signature verification here is not held to consensus-grade
// cryptographic auditing; it only needs to be "present and a function of
// the header bytes" (spec.md §4.5, §9).
package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethcore/chain/common"
)

// DigestLength is the length of a Keccak256 hash, in bytes.
const DigestLength = 32

// Keccak256 calculates and returns the Keccak256 hash of the input data,
// concatenating all of its arguments before hashing.
func Keccak256(data ...[]byte) []byte {
	b := make([]byte, DigestLength)
	d := NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	d.Read(b)
	return b
}

// Keccak256Hash calculates and returns the Keccak256 hash of the input
// data, converting it to an internal Hash data structure.
func Keccak256Hash(data ...[]byte) (h common.Hash) {
	d := NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	d.Read(h[:])
	return h
}

// GenerateKey creates a new random secp256k1 private key, used by the PoA
// layer and by tests to mint validator identities.
func GenerateKey() (*secp256k1.PrivateKey, error) {
	return secp256k1.GeneratePrivateKey()
}

// PubkeyToAddress derives the 20-byte address belonging to a public key:
// the low 20 bytes of the Keccak256 hash of its uncompressed, prefix-byte
// stripped encoding, exactly as upstream go-ethereum does.
func PubkeyToAddress(pub *secp256k1.PublicKey) common.Address {
	raw := pub.SerializeUncompressed()
	return common.BytesToAddress(Keccak256(raw[1:])[12:])
}

// Sign signs the 32-byte hash with the given private key, returning a
// 65-byte [R || S || V] signature. It does not hash the input; callers
// must supply a digest (e.g. the output of Keccak256Hash).
func Sign(hash []byte, priv *secp256k1.PrivateKey) ([]byte, error) {
	if len(hash) != DigestLength {
		return nil, fmt.Errorf("crypto: hash is required to be exactly %d bytes (%d)", DigestLength, len(hash))
	}
	sig := ecdsa.SignCompact(priv, hash, false)
	if len(sig) != 65 {
		return nil, errors.New("crypto: unexpected signature length")
	}
	// ecdsa.SignCompact returns [V || R || S] with V in {27,28}; the rest
	// of this codebase (and Ecrecover in ecrecover.go) standardizes on [R || S || V].
	out := make([]byte, 65)
	copy(out, sig[1:])
	out[64] = sig[0] - 27
	return out, nil
}

// VerifySignature checks that sig is a valid signature of hash recoverable
// to the given uncompressed public key bytes.
func VerifySignature(pubkey, hash, sig []byte) bool {
	recovered, err := Ecrecover(hash, sig)
	if err != nil {
		return false
	}
	if len(recovered) != len(pubkey) {
		return false
	}
	for i := range recovered {
		if recovered[i] != pubkey[i] {
			return false
		}
	}
	return true
}

// SigToAddress recovers the address that produced sig over hash, combining
// Ecrecover and PubkeyToAddress the way callers that only care about the
// signer's identity (rather than its raw public key) want it.
func SigToAddress(hash, sig []byte) (common.Address, error) {
	pub, err := sigToPub(hash, sig)
	if err != nil {
		return common.Address{}, err
	}
	return PubkeyToAddress(pub), nil
}

// CreateAddress derives a deterministic contract address from the creating
// account and its nonce as it stood before the creation's nonce increment,
// per spec.md §4.3/§6: hash(sender_bytes || minimal-big-endian(nonce))
// truncated to the last 20 bytes.
func CreateAddress(sender common.Address, nonce uint64) common.Address {
	nonceBytes := minimalBigEndian(nonce)
	return common.BytesToAddress(Keccak256(sender.Bytes(), nonceBytes)[12:])
}

// minimalBigEndian returns the minimal-length big-endian encoding of v,
// with v == 0 encoding to an empty byte slice -- matching the length-prefix
// wire format's treatment of integers (spec.md §6).
func minimalBigEndian(v uint64) []byte {
	if v == 0 {
		return nil
	}
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	i := 0
	for i < 8 && buf[i] == 0 {
		i++
	}
	return buf[i:]
}

// RandomBytes returns n cryptographically random bytes; used by tests that
// need distinct fixture addresses/hashes without hand-picking them.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}
