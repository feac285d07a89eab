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

// Package genesis provides high-level Go bindings for the GenesisNFT and
// FacinetNFT contracts. GenesisNFT is the fixed-supply free-claim
// collection (the caller pays gas); FacinetNFT is the four-type collection
// minted gaslessly through a payment facilitator.
package genesis

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/team1india/genesis/contracts/genesis/contract"
)

// GenesisNFT is a high-level wrapper around the on-chain GenesisNFT
// contract (the free-claim variant).
type GenesisNFT struct {
	abi             abi.ABI
	address         common.Address
	contract        *bind.BoundContract
	contractBackend bind.ContractBackend
	transactOpts    *bind.TransactOpts
}

// NewGenesisNFT connects to an already-deployed GenesisNFT contract.
// transactOpts may be nil for read-only use.
func NewGenesisNFT(opts *bind.TransactOpts, addr common.Address, backend bind.ContractBackend) (*GenesisNFT, error) {
	parsed, err := abi.JSON(strings.NewReader(contract.GenesisNFTABI))
	if err != nil {
		return nil, err
	}
	bound := bind.NewBoundContract(addr, parsed, backend, backend, backend)
	return &GenesisNFT{
		abi:             parsed,
		address:         addr,
		contract:        bound,
		contractBackend: backend,
		transactOpts:    opts,
	}, nil
}

// Address returns the deployed contract address.
func (g *GenesisNFT) Address() common.Address { return g.address }

// ──────────────────────────────────────────────
//  Write methods
// ──────────────────────────────────────────────

// Claim mints one Genesis NFT to the transacting account. The contract
// enforces one claim per wallet and reverts once all 500 are gone.
func (g *GenesisNFT) Claim(opts *bind.TransactOpts) (*types.Transaction, error) {
	if opts == nil {
		opts = g.transactOpts
	}
	return g.contract.Transact(opts, "claim")
}

// ──────────────────────────────────────────────
//  Read methods
// ──────────────────────────────────────────────

// RemainingSupply returns how many Genesis NFTs are still claimable.
func (g *GenesisNFT) RemainingSupply(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	err := g.contract.Call(opts, &out, "remainingSupply")
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// TotalMinted returns how many Genesis NFTs have been claimed so far.
func (g *GenesisNFT) TotalMinted(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	err := g.contract.Call(opts, &out, "totalMinted")
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// MaxSupply returns the immutable collection cap (MAX_SUPPLY).
func (g *GenesisNFT) MaxSupply(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	err := g.contract.Call(opts, &out, "MAX_SUPPLY")
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// TokenURI returns the metadata URI for a token.
func (g *GenesisNFT) TokenURI(opts *bind.CallOpts, tokenId *big.Int) (string, error) {
	var out []interface{}
	err := g.contract.Call(opts, &out, "tokenURI", tokenId)
	if err != nil {
		return "", err
	}
	return out[0].(string), nil
}

// OwnerOf returns the current owner of a token.
func (g *GenesisNFT) OwnerOf(opts *bind.CallOpts, tokenId *big.Int) (common.Address, error) {
	var out []interface{}
	err := g.contract.Call(opts, &out, "ownerOf", tokenId)
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}
