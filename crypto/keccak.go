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

package crypto

import "golang.org/x/crypto/sha3"

// KeccakState wraps the sha3.state, exposing the Read method to allow for
// arbitrary-length output from Keccak without a copy, the way upstream
// go-ethereum's crypto package does.
type KeccakState interface {
	Write(p []byte) (n int, err error)
	Sum(b []byte) []byte
	Read(p []byte) (n int, err error)
}

// NewLegacyKeccak256 creates a new Keccak256 hasher.
func NewLegacyKeccak256() KeccakState {
	return sha3.NewLegacyKeccak256().(KeccakState)
}
