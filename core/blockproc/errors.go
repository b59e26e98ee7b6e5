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

package blockproc

import "errors"

// Structural/consensus validation failures (spec.md §4.4): any of these
// rejects the block outright, unlike a failed transaction's receipt.
var (
	ErrNoEligibleValidator    = errors.New("blockproc: no eligible validator to produce a block")
	ErrParentNumberMismatch   = errors.New("blockproc: header number is not parent number + 1")
	ErrGasLimitMismatch       = errors.New("blockproc: header gas limit does not match chain config")
	ErrGasUsedExceedsLimit    = errors.New("blockproc: header gas used exceeds gas limit")
	ErrGasUsedMismatch        = errors.New("blockproc: header gas used does not match included transactions")
	ErrDuplicateTransaction   = errors.New("blockproc: duplicate transaction hash in block")
	ErrTransactionsRootMismatch = errors.New("blockproc: recomputed transactions root does not match header")
	ErrReceiptsRootMismatch   = errors.New("blockproc: recomputed receipts root does not match header")
	ErrStateRootMismatch      = errors.New("blockproc: recomputed state root does not match header")
	ErrTransactionRejected    = errors.New("blockproc: transaction failed pre-state validation")
	ErrNoSigningKey           = errors.New("blockproc: processor has no signing key configured")
)
