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

package executor

import "errors"

// Failure taxonomy for transaction admission and execution (spec.md §4.3).
// ErrSenderNotFound, ErrGasLimitTooLow, ErrInvalidNonce and
// ErrInsufficientBalance reject a transaction before it touches state and
// are returned by Execute as errors. ErrAccountCollision, ErrVMReverted and
// ErrOutOfGas arise after validation and end in a failed Receipt rather
// than aborting the block.
var (
	ErrInvalidNonce        = errors.New("executor: invalid nonce")
	ErrInsufficientBalance = errors.New("executor: insufficient balance")
	ErrGasLimitTooLow      = errors.New("executor: gas limit too low")
	ErrAccountCollision    = errors.New("executor: account collision")
	ErrSenderNotFound      = errors.New("executor: sender account does not exist")
	ErrVMReverted          = errors.New("executor: vm execution reverted")
	ErrOutOfGas            = errors.New("executor: out of gas")
)
