// Copyright 2025 The genesis Authors
// This file is part of the genesis library.
//
// The genesis library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The genesis library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the genesis library. If not, see <http://www.gnu.org/licenses/>.

package genesis

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
)

// MintResult is the outcome of a successful direct claim.
type MintResult struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash"`
}

// ClaimTransactor is the write surface MintExecutor needs from the
// GenesisNFT binding.
type ClaimTransactor interface {
	Claim(opts *bind.TransactOpts) (*types.Transaction, error)
}

// WalletSigner yields signing options for the connected account; the
// Connector implements it.
type WalletSigner interface {
	Transactor(ctx context.Context) (*bind.TransactOpts, error)
}

// MintExecutor runs the direct-mint flow: the connected wallet signs and
// pays gas for a single claim() call. Phases: idle → confirming (signature
// outstanding) → minting (broadcast, awaiting one confirmation) → done.
type MintExecutor struct {
	StagedTx

	cfg      *Config
	wallet   WalletSigner
	contract ClaimTransactor
	backend  bind.DeployBackend

	resultMu sync.RWMutex
	result   *MintResult
}

// NewMintExecutor wires the executor to a wallet signer, the claim
// contract, and a backend used to await confirmations.
func NewMintExecutor(cfg *Config, wallet WalletSigner, contract ClaimTransactor, backend bind.DeployBackend) *MintExecutor {
	return &MintExecutor{
		cfg:      cfg,
		wallet:   wallet,
		contract: contract,
		backend:  backend,
	}
}

// Result returns the outcome of the last successful attempt, nil if the
// last attempt failed or none was made.
func (m *MintExecutor) Result() *MintResult {
	m.resultMu.RLock()
	defer m.resultMu.RUnlock()
	return m.result
}

// Reset clears phase, error and result before a retry.
func (m *MintExecutor) Reset() {
	m.StagedTx.Reset()
	m.setResult(nil)
}

// Mint submits the claim and waits for one confirmation. It requires a
// connected wallet and a deployed contract. Known failures are remapped
// (declined signature, supply exhausted); the normalized error is both
// recorded on the executor and returned.
func (m *MintExecutor) Mint(ctx context.Context) (*MintResult, error) {
	m.setResult(nil)

	if !m.cfg.ContractDeployed() {
		return nil, ErrContractNotDeployed
	}

	var (
		tx      *types.Transaction
		receipt *types.Receipt
	)
	steps := []Step{
		{Phase: PhaseConfirming, Run: func(ctx context.Context) error {
			opts, err := m.wallet.Transactor(ctx)
			if err != nil {
				return err
			}
			opts.Context = ctx
			tx, err = m.contract.Claim(opts)
			return err
		}},
		{Phase: PhaseMinting, Run: func(ctx context.Context) error {
			var err error
			receipt, err = bind.WaitMined(ctx, m.backend, tx)
			if err != nil {
				return err
			}
			if receipt.Status != types.ReceiptStatusSuccessful {
				return ErrClaimReverted
			}
			return nil
		}},
	}

	if err := m.Execute(ctx, steps, normalizeClaimError); err != nil {
		return nil, err
	}

	result := &MintResult{
		Success: true,
		TxHash:  receipt.TxHash.Hex(),
	}
	m.setResult(result)
	log.Info("Genesis NFT claimed", "tx", result.TxHash)
	return result, nil
}

func (m *MintExecutor) setResult(result *MintResult) {
	m.resultMu.Lock()
	m.result = result
	m.resultMu.Unlock()
}
