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

// Package blockproc assembles and validates blocks (spec.md §4.4): drain
// eligible transactions from the pool, execute them in order against
// World State, construct and sign the header, and -- symmetrically --
// replay a received block's transactions to validate and apply it.
package blockproc

import (
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/consensus/poa"
	"github.com/ethcore/chain/core/executor"
	"github.com/ethcore/chain/core/types"
	"github.com/ethcore/chain/log"
)

// StateDB is the World State surface the processor needs: everything the
// executor needs per-transaction, plus the block-closing Finalize that
// computes the stateRoot commitment (spec.md §4.1/§4.4).
type StateDB interface {
	executor.StateDB
	Finalize() (common.Hash, error)
}

// TransactionSource is the pool's block-assembly surface.
type TransactionSource interface {
	TransactionsForBlock(gasLimit uint64) []*types.Transaction
}

// Pool is the pool's full surface the processor drives: drain candidates
// for a new block, then prune them once included.
type Pool interface {
	TransactionSource
	Remove(hashes []common.Hash)
}

// Config holds the chain-wide constants a produced or validated block
// must respect (spec.md §6).
type Config struct {
	GasLimit uint64
	ChainID  uint64

	// Now returns the current wall-clock time; overridable in tests.
	Now func() time.Time
}

// Processor assembles new blocks and validates/applies received ones. It
// is stateless apart from its configuration and the validator set and
// signing key it was built with (spec.md §9: the processor holds no
// back-references, only transient per-call arguments).
type Processor struct {
	config     Config
	validators *poa.ValidatorSet
	signerKey  *secp256k1.PrivateKey
}

// New constructs a Processor. signerKey may be nil for a node that only
// validates and applies blocks produced by others, never its own.
func New(config Config, validators *poa.ValidatorSet, signerKey *secp256k1.PrivateKey) *Processor {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Processor{config: config, validators: validators, signerKey: signerKey}
}

// Produce assembles, executes, and signs a new block on top of parent
// (spec.md §4.4's block creation algorithm). On success the pool has
// already had the included transactions' hashes removed and statedb
// holds the new block's post-state.
func (p *Processor) Produce(statedb StateDB, pool Pool, parent *types.Header) (*types.Block, []*types.Receipt, error) {
	if p.signerKey == nil {
		return nil, nil, ErrNoSigningKey
	}
	validator, ok := p.validators.NextValidator()
	if !ok {
		return nil, nil, ErrNoEligibleValidator
	}

	// 1. No block-wide snapshot is needed here: each candidate's own
	// Execute call is already atomic (it commits or reverts itself), and
	// assembly never aborts the whole block -- a candidate that fails
	// pre-state validation at this point in the sequence is simply left
	// out, never replayed against a rolled-back state.
	env := executor.Environment{
		Coinbase:      validator,
		BlockNumber:   parent.Number + 1,
		BlockTime:     uint64(p.config.Now().Unix()),
		BlockGasLimit: p.config.GasLimit,
		ChainID:       p.config.ChainID,
	}

	// 2. Pull candidates, already ordered by descending gasPrice with
	// ties broken by ascending arrival.
	candidates := pool.TransactionsForBlock(p.config.GasLimit)

	var (
		included      []*types.Transaction
		receipts      []*types.Receipt
		cumulativeGas uint64
	)
	// 3. Execute each candidate in order, stopping once the next one
	// would exceed the block gas limit. A transaction that fails
	// pre-state validation at this point in the sequence (e.g. a nonce
	// already consumed by an earlier transaction in this same block) is
	// simply left out of the block rather than aborting assembly --
	// production never fails outright, it only produces a smaller block.
	for _, tx := range candidates {
		if cumulativeGas+tx.GasLimit > p.config.GasLimit {
			break
		}
		receipt, err := executor.Execute(statedb, env, tx)
		if err != nil {
			log.Debug("blockproc: excluding transaction from block", "hash", tx.Hash(), "err", err)
			continue
		}
		cumulativeGas += tx.GasLimit
		receipt.CumulativeGasUsed = cumulativeGas
		included = append(included, tx)
		receipts = append(receipts, receipt)
	}

	// 4. Finalize flushes the block's accumulated state changes and
	// returns their content-hash commitment -- the block-closing act;
	// there is no separate outer Commit to call afterward.
	stateRoot, err := statedb.Finalize()
	if err != nil {
		return nil, nil, err
	}
	transactionsRoot := types.TransactionsRoot(included)
	receiptsRoot := types.ReceiptsRoot(receipts)

	// 5. Construct the header.
	header := &types.Header{
		ParentHash:       parent.Hash(),
		Number:           parent.Number + 1,
		Timestamp:        env.BlockTime,
		StateRoot:        stateRoot,
		TransactionsRoot: transactionsRoot,
		ReceiptsRoot:     receiptsRoot,
		Validator:        validator,
		GasLimit:         p.config.GasLimit,
		GasUsed:          cumulativeGas,
	}

	// 6. Ask consensus to sign the header.
	if err := poa.SignHeader(header, p.signerKey); err != nil {
		return nil, nil, err
	}

	block := types.NewBlock(header, included)

	// 7. Prune the pool and update validator liveness.
	hashes := make([]common.Hash, len(included))
	for i, tx := range included {
		hashes[i] = tx.Hash()
	}
	pool.Remove(hashes)
	p.validators.UpdateValidatorState(block)

	return block, receipts, nil
}

// Replay re-executes an already-accepted block's transactions against
// statedb to rebuild its post-state, without re-checking header or root
// invariants or touching validator liveness. A chain manager uses this to
// re-derive World State for a block it has already validated once --
// typically while rebuilding the state at a reorg's common ancestor, since
// the flat account store has no way to address an older block's state
// directly (spec.md §4.7).
func (p *Processor) Replay(statedb StateDB, block *types.Block) error {
	env := executor.Environment{
		Coinbase:      block.Header.Validator,
		BlockNumber:   block.Header.Number,
		BlockTime:     block.Header.Timestamp,
		BlockGasLimit: block.Header.GasLimit,
		ChainID:       p.config.ChainID,
	}
	for _, tx := range block.Transactions {
		if _, err := executor.Execute(statedb, env, tx); err != nil {
			return err
		}
	}
	_, err := statedb.Finalize()
	return err
}

// ValidateAndApply replays a received block's transactions against
// statedb, enforcing spec.md §4.4's block validation rules, and leaves
// statedb holding the block's post-state on success. On any failure found
// before Finalize runs statedb is left exactly as it was found; a
// state-root mismatch is only detected after Finalize has flushed the
// block's changes, so statedb then already holds them.
func (p *Processor) ValidateAndApply(statedb StateDB, block *types.Block, parent *types.Header) ([]*types.Receipt, error) {
	header := block.Header

	if header.Number != parent.Number+1 {
		return nil, ErrParentNumberMismatch
	}
	if header.GasLimit != p.config.GasLimit {
		return nil, ErrGasLimitMismatch
	}
	if header.GasUsed > header.GasLimit {
		return nil, ErrGasUsedExceedsLimit
	}

	seen := make(map[common.Hash]struct{}, len(block.Transactions))
	var gasSum uint64
	for _, tx := range block.Transactions {
		hash := tx.Hash()
		if _, dup := seen[hash]; dup {
			return nil, ErrDuplicateTransaction
		}
		seen[hash] = struct{}{}
		gasSum += tx.GasLimit
	}
	if gasSum != header.GasUsed {
		return nil, ErrGasUsedMismatch
	}
	if types.TransactionsRoot(block.Transactions) != header.TransactionsRoot {
		return nil, ErrTransactionsRootMismatch
	}

	if err := p.validators.ValidateHeader(header, parent); err != nil {
		return nil, err
	}

	snap := statedb.Snapshot()

	env := executor.Environment{
		Coinbase:      header.Validator,
		BlockNumber:   header.Number,
		BlockTime:     header.Timestamp,
		BlockGasLimit: header.GasLimit,
		ChainID:       p.config.ChainID,
	}

	receipts := make([]*types.Receipt, 0, len(block.Transactions))
	var cumulativeGas uint64
	for _, tx := range block.Transactions {
		receipt, err := executor.Execute(statedb, env, tx)
		if err != nil {
			// A transaction that fails pre-state validation inside a
			// received block is a structural failure, not a recoverable
			// per-transaction one: a correct producer would never have
			// included it (spec.md §4.4's "each transaction
			// independently passes pre-state validation").
			if rerr := statedb.RevertToSnapshot(snap); rerr != nil {
				return nil, rerr
			}
			return nil, ErrTransactionRejected
		}
		cumulativeGas += tx.GasLimit
		receipt.CumulativeGasUsed = cumulativeGas
		receipts = append(receipts, receipt)
	}

	if types.ReceiptsRoot(receipts) != header.ReceiptsRoot {
		if rerr := statedb.RevertToSnapshot(snap); rerr != nil {
			return nil, rerr
		}
		return nil, ErrReceiptsRootMismatch
	}

	// Finalize is the block-closing act: it flushes every touched
	// account to the backing store and, past this point, the snapshot
	// taken above is no longer available to revert through. A state-root
	// mismatch here means a correctly-structured, correctly-signed block
	// still disagrees with this node's own replay of it -- a consensus
	// fault rather than a recoverable validation rejection, so unlike
	// every check above it cannot be undone by reverting.
	stateRoot, err := statedb.Finalize()
	if err != nil {
		return nil, err
	}
	if stateRoot != header.StateRoot {
		return nil, ErrStateRootMismatch
	}

	p.validators.UpdateValidatorState(block)
	return receipts, nil
}
