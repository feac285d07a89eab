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
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	nftcontract "github.com/team1india/genesis/contracts/genesis"
	"github.com/team1india/genesis/contracts/genesis/contract"
)

// PurchaseResult is the outcome of a successful relayed purchase: both the
// payment and the mint settled on-chain.
type PurchaseResult struct {
	Success         bool   `json:"success"`
	PaymentTxHash   string `json:"paymentTxHash"`
	MintTxHash      string `json:"mintTxHash"`
	FacilitatorName string `json:"facilitatorName"`
	Network         string `json:"network"`
}

// PurchaseExecutor runs the gasless purchase flow: a stablecoin payment
// relayed through the facilitator, then a relayed mint(to, nftType) call.
// Phases: idle → paying → minting → done. The result is only constructed
// when both steps independently report success; a failure at either step
// discards partial progress and surfaces a single error. A payment that
// settled before a failed mint is not refunded or resumed — its hash is
// logged for manual reconciliation.
type PurchaseExecutor struct {
	StagedTx

	cfg   *Config
	relay Facilitator

	resultMu sync.RWMutex
	result   *PurchaseResult
}

// NewPurchaseExecutor wires the executor to a facilitator relay.
func NewPurchaseExecutor(cfg *Config, relay Facilitator) *PurchaseExecutor {
	return &PurchaseExecutor{
		cfg:   cfg,
		relay: relay,
	}
}

// Result returns the outcome of the last successful attempt, nil if the
// last attempt failed or none was made.
func (p *PurchaseExecutor) Result() *PurchaseResult {
	p.resultMu.RLock()
	defer p.resultMu.RUnlock()
	return p.result
}

// Reset clears phase, error and result before a retry.
func (p *PurchaseExecutor) Reset() {
	p.StagedTx.Reset()
	p.setResult(nil)
}

// PurchaseNFT pays the given price to the configured recipient and mints
// one NFT of the given type to the buyer, both through the facilitator.
// nftType is 1-based; price is a decimal stablecoin amount (e.g. "1").
func (p *PurchaseExecutor) PurchaseNFT(ctx context.Context, nftType int, price string, buyer common.Address) (*PurchaseResult, error) {
	p.setResult(nil)

	if !p.cfg.ContractDeployed() {
		return nil, ErrContractNotDeployed
	}
	if nftType < 1 || nftType > nftcontract.NFTTypeCount {
		return nil, ErrInvalidNFTType
	}

	var (
		payment *PayResult
		mint    *ExecuteContractResult
	)
	steps := []Step{
		{Phase: PhasePaying, Run: func(ctx context.Context) error {
			result, err := p.relay.Pay(ctx, &PayRequest{
				Amount:    price,
				Recipient: p.cfg.RecipientAddress.Hex(),
			})
			if err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("genesis: facilitator rejected payment")
			}
			payment = result
			return nil
		}},
		{Phase: PhaseMinting, Run: func(ctx context.Context) error {
			result, err := p.relay.ExecuteContract(ctx, &ExecuteContractRequest{
				ContractAddress: p.cfg.ContractAddress.Hex(),
				FunctionName:    "mint",
				FunctionArgs:    []interface{}{buyer.Hex(), nftType},
				ABI:             json.RawMessage(contract.FacinetNFTABI),
			})
			if err != nil {
				log.Warn("Mint failed after settled payment", "paymentTx", payment.TxHash, "buyer", buyer.Hex(), "err", err)
				return err
			}
			if !result.Success {
				log.Warn("Facilitator rejected mint after settled payment", "paymentTx", payment.TxHash, "buyer", buyer.Hex())
				return fmt.Errorf("genesis: facilitator rejected mint")
			}
			mint = result
			return nil
		}},
	}

	if err := p.Execute(ctx, steps, normalizePurchaseError); err != nil {
		return nil, err
	}

	result := &PurchaseResult{
		Success:         true,
		PaymentTxHash:   payment.TxHash,
		MintTxHash:      mint.TxHash,
		FacilitatorName: payment.Facilitator.Name,
		Network:         payment.Payment.Network,
	}
	p.setResult(result)
	log.Info("NFT purchased", "type", nftType, "paymentTx", result.PaymentTxHash, "mintTx", result.MintTxHash, "facilitator", result.FacilitatorName)
	return result, nil
}

func (p *PurchaseExecutor) setResult(result *PurchaseResult) {
	p.resultMu.Lock()
	p.result = result
	p.resultMu.Unlock()
}
