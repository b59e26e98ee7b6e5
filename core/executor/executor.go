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

// Package executor applies a single transaction to World State (spec.md
// §4.3): validate, snapshot, debit gas, transfer value, branch on call vs
// create, run the VM, refund unused gas, and commit or revert.
package executor

import (
	"errors"

	"github.com/ethcore/chain/common"
	"github.com/ethcore/chain/core/types"
	"github.com/ethcore/chain/core/vm"
	"github.com/ethcore/chain/crypto"
	"github.com/ethcore/chain/log"
	"github.com/ethcore/chain/params"
)

// StateDB is the World State surface the executor needs: vm.StateDB's
// read/write primitives plus the balance debit, nonce increment, account
// creation and snapshot lifecycle that belong to the executor rather than
// the VM (spec.md §4.1/§4.3). core/state.StateDB satisfies this directly.
type StateDB interface {
	vm.StateDB
	CreateAccount(addr common.Address)
	SubBalance(addr common.Address, amount *common.Word) error
	SetNonce(addr common.Address, nonce uint64)
	Snapshot() int
	RevertToSnapshot(id int) error
	Commit(id int) error
}

// Environment carries the block-level context a transaction executes
// under (spec.md §4.2's `{block.number, timestamp, coinbase, gasLimit,
// chainId}`).
type Environment struct {
	Coinbase      common.Address
	BlockNumber   uint64
	BlockTime     uint64
	BlockGasLimit uint64
	ChainID       uint64
}

// IntrinsicGas computes the base cost a transaction owes before any VM
// opcode runs: a flat per-transaction charge (higher for contract
// creation) plus a per-byte charge for its data. spec.md §8 scenario 1's
// gasLimit=21000 for a plain transfer to an empty-code account is exactly
// params.TxGas with no data -- that whole gasLimit is "used" as intrinsic
// gas, not refunded, even though the VM itself does no work.
func IntrinsicGas(tx *types.Transaction) uint64 {
	gas := params.TxGas
	if tx.IsCreation() {
		gas = params.TxGasContractCreation
	}
	for _, b := range tx.Data {
		if b == 0 {
			gas += params.TxDataZeroGas
		} else {
			gas += params.TxDataNonZeroGas
		}
	}
	return gas
}

// Execute runs tx against statedb under env, following spec.md §4.3's six
// steps: validate, snapshot, debit+transfer+nonce, branch call/create,
// refund, commit-or-revert. A non-nil error means tx was rejected before
// any state was touched -- it never entered the block and the caller must
// not account for it. Once past validation, every failure surfaces as a
// failed Receipt instead, per the failure taxonomy's recoverability rule.
func Execute(statedb StateDB, env Environment, tx *types.Transaction) (*types.Receipt, error) {
	sender := tx.From

	// 1. Validate.
	if !statedb.Exist(sender) {
		return nil, ErrSenderNotFound
	}
	if tx.GasLimit == 0 {
		return nil, ErrGasLimitTooLow
	}
	intrinsic := IntrinsicGas(tx)
	if tx.GasLimit < intrinsic {
		return nil, ErrGasLimitTooLow
	}
	if statedb.GetNonce(sender) != tx.Nonce {
		return nil, ErrInvalidNonce
	}
	if statedb.GetBalance(sender).Cmp(tx.Cost()) < 0 {
		return nil, ErrInsufficientBalance
	}

	// 2. Open a snapshot.
	snap := statedb.Snapshot()

	// 3. Debit gas, transfer value (calls only), increment nonce.
	gasCost := new(common.Word).SetUint64(tx.GasLimit)
	gasCost.Mul(gasCost, new(common.Word).SetUint64(tx.GasPrice))
	if err := statedb.SubBalance(sender, gasCost); err != nil {
		return nil, ErrInsufficientBalance
	}
	nonceBefore := tx.Nonce
	statedb.SetNonce(sender, tx.Nonce+1)

	gasRemaining := tx.GasLimit - intrinsic
	receipt := &types.Receipt{
		TxHash:      tx.Hash(),
		BlockNumber: env.BlockNumber,
	}

	var (
		execErr error
		logs    []*types.Log
	)
	// 4. Branch: call or create.
	if tx.IsCreation() {
		var contractAddr common.Address
		contractAddr, logs, gasRemaining, execErr = runCreate(statedb, env, tx, nonceBefore, gasRemaining)
		if execErr == nil {
			receipt.ContractAddress = &contractAddr
		}
	} else {
		logs, gasRemaining, execErr = runCall(statedb, env, tx, gasRemaining)
	}

	gasUsed := tx.GasLimit - gasRemaining

	// 5. Refund unused gas.
	refund := new(common.Word).SetUint64(gasRemaining)
	refund.Mul(refund, new(common.Word).SetUint64(tx.GasPrice))
	statedb.AddBalance(sender, refund)

	// 6. Commit on success; revert on failure but re-apply the gas debit
	// and nonce increment -- the two exceptions spec.md §4.2's
	// state-isolation clause carves out of "no visible side effect".
	if execErr != nil {
		if rerr := statedb.RevertToSnapshot(snap); rerr != nil {
			return nil, rerr
		}
		if serr := statedb.SubBalance(sender, gasCost); serr != nil {
			return nil, serr
		}
		statedb.SetNonce(sender, nonceBefore+1)
		statedb.AddBalance(sender, refund)

		receipt.Status = types.ReceiptStatusFailed
		receipt.GasUsed = gasUsed
		log.Debug("transaction execution failed", "hash", tx.Hash(), "err", execErr)
		return receipt, nil
	}
	if err := statedb.Commit(snap); err != nil {
		return nil, err
	}

	receipt.Status = types.ReceiptStatusSuccess
	receipt.GasUsed = gasUsed
	receipt.Logs = logs
	return receipt, nil
}

// runCall executes a message call. An empty-code recipient succeeds
// trivially (spec.md §4.3 step 4's "if empty, succeed with zero gas used
// and empty return" -- "zero" meaning zero gas beyond the intrinsic
// charge already debited).
func runCall(statedb StateDB, env Environment, tx *types.Transaction, gas uint64) ([]*types.Log, uint64, error) {
	to := *tx.To
	if err := transferValue(statedb, tx.From, to, tx.Value); err != nil {
		return nil, gas, err
	}

	code := statedb.GetCode(to)
	if len(code) == 0 {
		return nil, gas, nil
	}

	contract := vm.NewContract(tx.From, to, tx.Value, gas)
	contract.SetCode(statedb.GetCodeHash(to), code)

	evm := vm.NewEVM(callEnvironment(env, tx), statedb)
	result := evm.Run(contract, tx.Data, false)
	return classify(result, contract.Gas)
}

// runCreate executes a contract-creation transaction. The new address is
// derived from (sender, nonceBefore) and must not already be occupied
// (spec.md §4.3 step 4's Create branch); on success the VM's return data
// becomes the new account's runtime code.
func runCreate(statedb StateDB, env Environment, tx *types.Transaction, nonceBefore uint64, gas uint64) (common.Address, []*types.Log, uint64, error) {
	contractAddr := crypto.CreateAddress(tx.From, nonceBefore)
	if statedb.Exist(contractAddr) {
		return common.Address{}, nil, gas, ErrAccountCollision
	}
	statedb.CreateAccount(contractAddr)
	statedb.SetNonce(contractAddr, 1)

	if err := transferValue(statedb, tx.From, contractAddr, tx.Value); err != nil {
		return common.Address{}, nil, gas, err
	}

	contract := vm.NewContract(tx.From, contractAddr, tx.Value, gas)
	contract.SetCode(common.Hash{}, tx.Data)

	evm := vm.NewEVM(callEnvironment(env, tx), statedb)
	result := evm.Run(contract, nil, false)
	logs, gasRemaining, err := classify(result, contract.Gas)
	if err != nil {
		return common.Address{}, nil, gasRemaining, err
	}

	code := result.ReturnData
	if uint64(len(code)) > params.MaxCodeSize {
		return common.Address{}, nil, gasRemaining, vm.ErrOutOfGas
	}
	deployCost := uint64(len(code)) * params.CreateDataGas
	if deployCost > gasRemaining {
		return common.Address{}, nil, 0, vm.ErrOutOfGas
	}
	statedb.SetCode(contractAddr, code)
	return contractAddr, logs, gasRemaining - deployCost, nil
}

func callEnvironment(env Environment, tx *types.Transaction) vm.Environment {
	return vm.Environment{
		Origin:        tx.From,
		GasPrice:      tx.GasPrice,
		Coinbase:      env.Coinbase,
		BlockNumber:   env.BlockNumber,
		BlockTime:     env.BlockTime,
		BlockGasLimit: env.BlockGasLimit,
		ChainID:       env.ChainID,
	}
}

func transferValue(statedb StateDB, from, to common.Address, value *common.Word) error {
	if value == nil || value.Sign() == 0 {
		return nil
	}
	if err := statedb.SubBalance(from, value); err != nil {
		return err
	}
	statedb.AddBalance(to, value)
	return nil
}

// classify maps a vm.Result onto the executor's own failure taxonomy:
// vm.ErrOutOfGas becomes ErrOutOfGas and vm.ErrExecutionReverted becomes
// ErrVMReverted; any other VM error is passed through unchanged.
func classify(result *vm.Result, gasRemaining uint64) ([]*types.Log, uint64, error) {
	if result.Err == nil {
		return result.Logs, gasRemaining, nil
	}
	if errors.Is(result.Err, vm.ErrOutOfGas) {
		return nil, gasRemaining, ErrOutOfGas
	}
	if errors.Is(result.Err, vm.ErrExecutionReverted) {
		return nil, gasRemaining, ErrVMReverted
	}
	return nil, gasRemaining, result.Err
}
