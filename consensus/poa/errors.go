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

import "errors"

var (
	// ErrDuplicateValidator is returned by AddValidator for an address
	// already in the set.
	ErrDuplicateValidator = errors.New("poa: validator already present")

	// ErrUnknownValidator is returned by RemoveValidator for an address
	// not in the set.
	ErrUnknownValidator = errors.New("poa: unknown validator")

	// ErrNoEligibleValidator describes the case where every validator is
	// inactive or over the inactivity threshold. NextValidator reports
	// that case by returning false rather than this error.
	ErrNoEligibleValidator = errors.New("poa: no eligible validator")

	ErrWrongBlockNumber      = errors.New("poa: header number is not parent number + 1")
	ErrUnexpectedValidator   = errors.New("poa: header validator is not the expected validator for this height")
	ErrEmptySignature        = errors.New("poa: header signature is empty")
	ErrTimestampNotIncreasing = errors.New("poa: header timestamp does not exceed parent timestamp")
	ErrTimestampTooSoon      = errors.New("poa: header timestamp is before the minimum block-time spacing")
	ErrTimestampInFuture     = errors.New("poa: header timestamp is too far in the future")
)
