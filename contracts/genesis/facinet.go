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
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/team1india/genesis/contracts/genesis/contract"
)

// NFTTypeCount is the fixed number of item types in the FacinetNFT
// collection. getAvailability always returns exactly this many counts.
const NFTTypeCount = 4

// FacinetNFT is a high-level wrapper around the on-chain FacinetNFT
// contract (the gasless-purchase variant). Mints are normally submitted by
// the facilitator rather than directly, so the write path here exists for
// operator tooling and tests.
type FacinetNFT struct {
	abi             abi.ABI
	address         common.Address
	contract        *bind.BoundContract
	contractBackend bind.ContractBackend
	transactOpts    *bind.TransactOpts
}

// NewFacinetNFT connects to an already-deployed FacinetNFT contract.
// transactOpts may be nil for read-only use.
func NewFacinetNFT(opts *bind.TransactOpts, addr common.Address, backend bind.ContractBackend) (*FacinetNFT, error) {
	parsed, err := abi.JSON(strings.NewReader(contract.FacinetNFTABI))
	if err != nil {
		return nil, err
	}
	bound := bind.NewBoundContract(addr, parsed, backend, backend, backend)
	return &FacinetNFT{
		abi:             parsed,
		address:         addr,
		contract:        bound,
		contractBackend: backend,
		transactOpts:    opts,
	}, nil
}

// Address returns the deployed contract address.
func (f *FacinetNFT) Address() common.Address { return f.address }

// Mint creates one NFT of the given type directly to the recipient.
// The token id is assigned by the contract.
func (f *FacinetNFT) Mint(opts *bind.TransactOpts, to common.Address, nftType *big.Int) (*types.Transaction, error) {
	if opts == nil {
		opts = f.transactOpts
	}
	return f.contract.Transact(opts, "mint", to, nftType)
}

// GetAvailability returns the remaining count for each of the four item
// types, ordered by type index.
func (f *FacinetNFT) GetAvailability(opts *bind.CallOpts) ([NFTTypeCount]*big.Int, error) {
	var out []interface{}
	err := f.contract.Call(opts, &out, "getAvailability")
	if err != nil {
		return [NFTTypeCount]*big.Int{}, err
	}
	return out[0].([NFTTypeCount]*big.Int), nil
}

// IsSoldOut reports whether a given item type has no supply left.
func (f *FacinetNFT) IsSoldOut(opts *bind.CallOpts, nftType *big.Int) (bool, error) {
	var out []interface{}
	err := f.contract.Call(opts, &out, "isSoldOut", nftType)
	if err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

// RemainingSupply returns the remaining count for one item type.
func (f *FacinetNFT) RemainingSupply(opts *bind.CallOpts, nftType *big.Int) (*big.Int, error) {
	var out []interface{}
	err := f.contract.Call(opts, &out, "remainingSupply", nftType)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// MintedCount returns how many of one item type have been minted.
func (f *FacinetNFT) MintedCount(opts *bind.CallOpts, nftType *big.Int) (*big.Int, error) {
	var out []interface{}
	err := f.contract.Call(opts, &out, "mintedCount", nftType)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// TotalMinted returns the total minted across all item types.
func (f *FacinetNFT) TotalMinted(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	err := f.contract.Call(opts, &out, "totalMinted")
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// TokenURI returns the metadata URI for a token.
func (f *FacinetNFT) TokenURI(opts *bind.CallOpts, tokenId *big.Int) (string, error) {
	var out []interface{}
	err := f.contract.Call(opts, &out, "tokenURI", tokenId)
	if err != nil {
		return "", err
	}
	return out[0].(string), nil
}

// OwnerOf returns the current owner of a token.
func (f *FacinetNFT) OwnerOf(opts *bind.CallOpts, tokenId *big.Int) (common.Address, error) {
	var out []interface{}
	err := f.contract.Call(opts, &out, "ownerOf", tokenId)
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}
