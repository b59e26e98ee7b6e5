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

// Package chain orchestrates bootstrap, block append, and shallow reorg on
// top of World State, the transaction pool, and PoA consensus (spec.md
// §4.7). It is the one component that owns and mutates World State; every
// other package only ever touches it through a Manager call.
package chain

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/consensus/poa"
	"github.com/ethcore/chain/core/blockproc"
	"github.com/ethcore/chain/core/rawdb"
	"github.com/ethcore/chain/core/state"
	"github.com/ethcore/chain/core/types"
	"github.com/ethcore/chain/ethdb"
	"github.com/ethcore/chain/log"
)

// Pool is the subset of core/txpool.TxPool the chain manager drives: pull
// candidates and prune them on block production (blockproc.Pool), plus
// restore transactions orphaned by a reorg.
type Pool interface {
	blockproc.Pool
	Add(tx *types.Transaction) error
}

// Manager is the chain manager (spec.md §4.7). Per spec.md §5 it carries
// no internal locking: there is one logical execution context, and it is
// the caller's job to serialize calls into a Manager the same way it
// serializes everything else in the core.
type Manager struct {
	db         ethdb.KeyValueStore
	config     Config
	processor  *blockproc.Processor
	validators *poa.ValidatorSet
	pool       Pool

	genesis *types.Block

	// headers and blocks index every block this manager has accepted,
	// canonical or not -- a competing branch must stay resolvable so a
	// later block extending it can still trigger a reorg decision.
	headers map[common.Hash]*types.Header
	blocks  map[common.Hash]*types.Block

	tip   *types.Block
	state *state.StateDB
}

// New wires a chain manager around a validator set and pool that the
// caller already constructed, plus a signing key if this node produces
// blocks (nil for a validate-only node).
func New(db ethdb.KeyValueStore, config Config, validators *poa.ValidatorSet, pool Pool, signerKey *secp256k1.PrivateKey) *Manager {
	processor := blockproc.New(blockproc.Config{GasLimit: config.GasLimit, ChainID: config.ChainID}, validators, signerKey)
	return &Manager{
		db:         db,
		config:     config,
		processor:  processor,
		validators: validators,
		pool:       pool,
		headers:    make(map[common.Hash]*types.Header),
		blocks:     make(map[common.Hash]*types.Block),
	}
}

// Bootstrap loads the chain already stored in db, or -- if db holds no
// chain tip yet -- commits genesis and starts a new one (spec.md §4.7).
func (m *Manager) Bootstrap(genesis *Genesis) error {
	if hash, _, ok := rawdb.ReadChainTip(m.db); ok {
		return m.loadFromStorage(hash)
	}
	if genesis == nil {
		return ErrNoGenesisStored
	}
	return m.commitGenesis(genesis)
}

func (m *Manager) commitGenesis(genesis *Genesis) error {
	statedb := state.New(m.db)
	genesis.applyTo(statedb)
	stateRoot, err := statedb.Finalize()
	if err != nil {
		return err
	}
	block := genesis.toBlock(stateRoot)
	hash := block.Hash()

	if err := rawdb.WriteHeader(m.db, block.Header); err != nil {
		return err
	}
	if err := rawdb.WriteBlock(m.db, block); err != nil {
		return err
	}
	if err := rawdb.WriteReceipts(m.db, hash, nil); err != nil {
		return err
	}
	if err := rawdb.WriteCanonicalNumber(m.db, 0, hash); err != nil {
		return err
	}
	if err := rawdb.WriteChainTip(m.db, hash, 0); err != nil {
		return err
	}

	m.genesis = block
	m.headers[hash] = block.Header
	m.blocks[hash] = block
	m.tip = block
	m.state = statedb
	log.Info("chain: genesis committed", "hash", hash, "validator", block.Header.Validator)
	return nil
}

// loadFromStorage re-establishes in-memory indices for the canonical chain
// ending at tipHash. World State itself needs no replay: every account it
// holds was already flushed to db by the Finalize call that closed the
// block which last touched it.
func (m *Manager) loadFromStorage(tipHash common.Hash) error {
	cur, err := rawdb.ReadBlock(m.db, tipHash)
	if err != nil || cur == nil {
		return ErrNoGenesisStored
	}
	for {
		m.headers[cur.Hash()] = cur.Header
		m.blocks[cur.Hash()] = cur
		if cur.Header.Number == 0 {
			m.genesis = cur
			break
		}
		parent, err := rawdb.ReadBlock(m.db, cur.Header.ParentHash)
		if err != nil || parent == nil {
			return ErrMissingAncestor
		}
		cur = parent
	}
	tip, err := rawdb.ReadBlock(m.db, tipHash)
	if err != nil || tip == nil {
		return ErrNoGenesisStored
	}
	m.tip = tip
	m.state = state.New(m.db)
	log.Info("chain: loaded from storage", "tip", tipHash, "number", tip.Header.Number)
	return nil
}

// Tip returns the current canonical head.
func (m *Manager) Tip() *types.Block { return m.tip }

// Genesis returns the genesis block.
func (m *Manager) Genesis() *types.Block { return m.genesis }

// State returns the World State backing the current tip.
func (m *Manager) State() *state.StateDB { return m.state }

// Produce assembles, signs, and appends a new block on top of the current
// tip, the node acting as the block's producer.
func (m *Manager) Produce() (*types.Block, []*types.Receipt, error) {
	block, receipts, err := m.processor.Produce(m.state, m.pool, m.tip.Header)
	if err != nil {
		return nil, nil, err
	}
	if err := m.persist(block, receipts); err != nil {
		return nil, nil, err
	}
	if err := m.setTip(block); err != nil {
		return nil, nil, err
	}
	return block, receipts, nil
}

// AddBlock admits a block observed from elsewhere (spec.md §4.7): fetch its
// parent, validate it, and consult fork choice. An extension is applied
// and persisted immediately; a reorg walks back to the common ancestor
// first; a block that neither extends nor beats the current tip is
// recorded (so a later block built on it can still trigger a reorg) but
// left unapplied, and reported as stale.
func (m *Manager) AddBlock(block *types.Block) error {
	hash := block.Hash()
	if _, known := m.blocks[hash]; known {
		return nil
	}
	parentHeader, ok := m.headers[block.Header.ParentHash]
	if !ok {
		return ErrUnknownParent
	}
	if err := m.validators.ValidateHeader(block.Header, parentHeader); err != nil {
		return err
	}

	m.headers[hash] = block.Header
	m.blocks[hash] = block

	switch poa.ShouldReorg(block, m.tip) {
	case poa.Ignore:
		return ErrStaleBlock
	case poa.Extend:
		receipts, err := m.processor.ValidateAndApply(m.state, block, parentHeader)
		if err != nil {
			return err
		}
		if err := m.persist(block, receipts); err != nil {
			return err
		}
		if err := m.setTip(block); err != nil {
			return err
		}
		m.pool.Remove(txHashes(block.Transactions))
		return nil
	default: // poa.Reorg
		return m.reorg(block)
	}
}

// reorg walks back from the current tip to the common ancestor with
// newTip, restores the abandoned blocks' transactions to the pool, then
// replays and applies the new branch in order (spec.md §4.7 scenario 6).
func (m *Manager) reorg(newTip *types.Block) error {
	ancestor, removed, apply, err := m.commonAncestor(m.tip, newTip)
	if err != nil {
		return err
	}

	for _, blk := range removed {
		for _, tx := range blk.Transactions {
			if err := m.pool.Add(tx); err != nil {
				log.Debug("chain: transaction not re-admitted after reorg", "hash", tx.Hash(), "err", err)
			}
		}
	}

	statedb, err := m.stateAt(ancestor)
	if err != nil {
		return err
	}

	parent := ancestor
	for _, blk := range apply {
		receipts, err := m.processor.ValidateAndApply(statedb, blk, parent)
		if err != nil {
			return fmt.Errorf("chain: reorg failed replaying block %d: %w", blk.Header.Number, err)
		}
		if err := m.persist(blk, receipts); err != nil {
			return err
		}
		m.pool.Remove(txHashes(blk.Transactions))
		parent = blk.Header
	}

	m.state = statedb
	log.Info("chain: reorg complete", "ancestor", ancestor.Number, "newTip", newTip.Hash())
	return m.setTip(newTip)
}

// commonAncestor finds the header both a and b descend from, along with
// a's blocks above it (tip-first, to restore to the pool) and b's blocks
// above it (ancestor-first, ready to replay in order).
func (m *Manager) commonAncestor(a, b *types.Block) (*types.Header, []*types.Block, []*types.Block, error) {
	var removed, apply []*types.Block
	aCur, bCur := a, b

	for aCur.Header.Number > bCur.Header.Number {
		removed = append(removed, aCur)
		parent, ok := m.blocks[aCur.Header.ParentHash]
		if !ok {
			return nil, nil, nil, ErrMissingAncestor
		}
		aCur = parent
	}
	for bCur.Header.Number > aCur.Header.Number {
		apply = append(apply, bCur)
		parent, ok := m.blocks[bCur.Header.ParentHash]
		if !ok {
			return nil, nil, nil, ErrMissingAncestor
		}
		bCur = parent
	}
	for aCur.Hash() != bCur.Hash() {
		removed = append(removed, aCur)
		apply = append(apply, bCur)
		aParent, ok := m.blocks[aCur.Header.ParentHash]
		if !ok {
			return nil, nil, nil, ErrMissingAncestor
		}
		bParent, ok := m.blocks[bCur.Header.ParentHash]
		if !ok {
			return nil, nil, nil, ErrMissingAncestor
		}
		aCur, bCur = aParent, bParent
	}
	reverseBlocks(apply)
	return aCur.Header, removed, apply, nil
}

// stateAt rebuilds World State as of header by replaying every block from
// genesis forward. The flat account store has no way to address an older
// block's state directly, so a reorg's common ancestor can only be
// recovered by full replay -- acceptable for the shallow reorgs spec.md
// §4.7 scopes this to.
func (m *Manager) stateAt(header *types.Header) (*state.StateDB, error) {
	statedb := state.New(m.db)
	if header.Number == 0 {
		return statedb, nil
	}
	chain, err := m.chainFromGenesis(header)
	if err != nil {
		return nil, err
	}
	for _, blk := range chain {
		if err := m.processor.Replay(statedb, blk); err != nil {
			return nil, fmt.Errorf("chain: replay block %d: %w", blk.Header.Number, err)
		}
	}
	return statedb, nil
}

func (m *Manager) chainFromGenesis(header *types.Header) ([]*types.Block, error) {
	var chain []*types.Block
	cur, ok := m.blocks[header.Hash()]
	if !ok {
		return nil, ErrMissingAncestor
	}
	for cur.Header.Number > 0 {
		chain = append(chain, cur)
		parent, ok := m.blocks[cur.Header.ParentHash]
		if !ok {
			return nil, ErrMissingAncestor
		}
		cur = parent
	}
	reverseBlocks(chain)
	return chain, nil
}

// persist writes a block, its header, and its receipts, and indexes it as
// canonical at its number. It does not move the tip pointer -- callers
// move the tip only once every block up to it has been persisted.
func (m *Manager) persist(block *types.Block, receipts []*types.Receipt) error {
	hash := block.Hash()
	if err := rawdb.WriteHeader(m.db, block.Header); err != nil {
		return err
	}
	if err := rawdb.WriteBlock(m.db, block); err != nil {
		return err
	}
	if err := rawdb.WriteReceipts(m.db, hash, receipts); err != nil {
		return err
	}
	if err := rawdb.WriteCanonicalNumber(m.db, block.Header.Number, hash); err != nil {
		return err
	}
	m.headers[hash] = block.Header
	m.blocks[hash] = block
	return nil
}

func (m *Manager) setTip(block *types.Block) error {
	m.tip = block
	return rawdb.WriteChainTip(m.db, block.Hash(), block.Header.Number)
}

func txHashes(txs []*types.Transaction) []common.Hash {
	hashes := make([]common.Hash, len(txs))
	for i, tx := range txs {
		hashes[i] = tx.Hash()
	}
	return hashes
}

func reverseBlocks(blocks []*types.Block) {
	for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
		blocks[i], blocks[j] = blocks[j], blocks[i]
	}
}
