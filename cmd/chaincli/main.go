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

// Command chaincli bootstraps and drives a single chain.Manager instance
// against a LevelDB-backed store: initialize a new chain from a genesis
// file, or produce a run of blocks on top of one already initialized.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/ethcore/chain/chain"
	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/consensus/poa"
	"github.com/ethcore/chain/core/txpool"
	"github.com/ethcore/chain/crypto"
	"github.com/ethcore/chain/ethdb/leveldb"
	"github.com/ethcore/chain/internal/debug"
	"github.com/ethcore/chain/log"
)

var (
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "Directory holding the node's chain database and validator key",
		Value: "./chaindata",
	}
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to the node's chain.Config file (.toml or .yaml)",
		Value: "./chain.toml",
	}
	genesisFlag = &cli.StringFlag{
		Name:  "genesis",
		Usage: "Path to the genesis allocation file (.toml or .yaml)",
		Value: "./genesis.toml",
	}
	blocksFlag = &cli.IntFlag{
		Name:  "blocks",
		Usage: "Number of blocks to produce before exiting",
		Value: 1,
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "chaincli"
	app.Usage = "bootstrap and drive a proof-of-authority chain"
	app.Commands = []*cli.Command{
		initCommand,
		produceCommand,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.RedString("chaincli: %v", err))
		os.Exit(1)
	}
}

var initCommand = &cli.Command{
	Name:   "init",
	Usage:  "Create a new chain database and commit its genesis block",
	Flags:  append([]cli.Flag{dataDirFlag, configFlag, genesisFlag}, debug.Flags...),
	Action: runInit,
}

var produceCommand = &cli.Command{
	Name:   "produce",
	Usage:  "Produce a run of blocks on top of an already-initialized chain",
	Flags:  append([]cli.Flag{dataDirFlag, configFlag, blocksFlag}, debug.Flags...),
	Action: runProduce,
}

func runInit(ctx *cli.Context) error {
	if err := debug.Setup(ctx); err != nil {
		return err
	}
	defer debug.Exit()

	dataDir := ctx.String(dataDirFlag.Name)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	genesis, err := loadGenesis(ctx.String(genesisFlag.Name), cfg)
	if err != nil {
		return fmt.Errorf("loading genesis: %w", err)
	}

	mgr, _, err := openManager(dataDir, cfg)
	if err != nil {
		return err
	}
	if err := mgr.Bootstrap(genesis); err != nil {
		return fmt.Errorf("bootstrapping genesis: %w", err)
	}

	fmt.Println(color.GreenString("genesis committed: %s", mgr.Genesis().Hash().Hex()))
	return nil
}

func runProduce(ctx *cli.Context) error {
	if err := debug.Setup(ctx); err != nil {
		return err
	}
	defer debug.Exit()

	dataDir := ctx.String(dataDirFlag.Name)
	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	mgr, key, err := openManager(dataDir, cfg)
	if err != nil {
		return err
	}
	if err := mgr.Bootstrap(nil); err != nil {
		return fmt.Errorf("loading chain: %w", err)
	}
	log.Info("chaincli: chain loaded", "tip", mgr.Tip().Hash(), "number", mgr.Tip().Header.Number, "validator", crypto.PubkeyToAddress(key.PubKey()).Hex())

	n := ctx.Int(blocksFlag.Name)
	for i := 0; i < n; i++ {
		// A single-validator chain produces blocks back to back; a
		// multi-validator one would instead wait out its own turn
		// between calls, but that scheduling is a node's job, not this
		// command's -- chaincli is a bootstrap/drive tool, not the node
		// itself.
		block, receipts, err := mgr.Produce()
		if err != nil {
			return fmt.Errorf("producing block %d: %w", mgr.Tip().Header.Number+1, err)
		}
		fmt.Println(color.CyanString("block %d: %s (%d txs)", block.Header.Number, block.Hash().Hex(), len(receipts)))
		time.Sleep(time.Duration(cfg.BlockTime) * time.Second)
	}
	return nil
}

// openManager wires a chain.Manager around a LevelDB store, a
// ValidatorSet built from cfg.Validators, and a real pool, loading (or
// creating) the node's signing key from dataDir/nodekey.
func openManager(dataDir string, cfg chain.Config) (*chain.Manager, *secp256k1.PrivateKey, error) {
	db, err := leveldb.New(filepath.Join(dataDir, "chaindata"), 128, 256)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	key, err := loadOrCreateNodeKey(filepath.Join(dataDir, "nodekey"))
	if err != nil {
		return nil, nil, fmt.Errorf("loading validator key: %w", err)
	}

	poaCfg := poa.DefaultConfig()
	poaCfg.BlockTime = cfg.BlockTime
	poaCfg.InactivityThreshold = cfg.InactivityThreshold
	validators := poa.NewValidatorSet(poaCfg, cfg.Validators)

	var mgr *chain.Manager
	poolCfg := txpool.Config{
		MinGasPrice:            cfg.MinGasPrice,
		BlockGasLimit:          cfg.GasLimit,
		MaxAccountTransactions: cfg.MaxAccountTransactions,
		MaxPoolSize:            cfg.MaxPoolSize,
		TransactionTimeout:     cfg.TransactionTimeout,
	}
	// The pool needs a StateReader before the Manager it belongs to
	// exists; stateReaderFunc closes over the not-yet-assigned mgr
	// variable and only dereferences it once Bootstrap has run.
	pool := txpool.New(poolCfg, stateReaderFunc(func() *chain.Manager { return mgr }))
	mgr = chain.New(db, cfg, validators, pool, key)
	return mgr, key, nil
}

// stateReaderFunc adapts a deferred *chain.Manager lookup to txpool's
// StateReader interface, so the pool can be constructed before the
// Manager that owns it exists.
type stateReaderFunc func() *chain.Manager

func (f stateReaderFunc) GetNonce(addr common.Address) uint64 {
	return f().State().GetNonce(addr)
}
