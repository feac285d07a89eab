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

// Package contract contains the ABI subsets for the two NFT contract
// variants. These are the minimal interfaces the client needs; regenerate
// full bindings with abigen once the Solidity sources are finalized:
//   abigen --sol contract/genesis.sol --pkg contract --out contract/genesis_gen.go
package contract

// GenesisNFTABI is the ABI subset of the free-claim GenesisNFT contract.
// claim() is the only state-changing entry point; every wallet may claim
// once until MAX_SUPPLY (500) is exhausted.
const GenesisNFTABI = `[
	{
		"inputs": [],
		"name": "claim",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "remainingSupply",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "totalMinted",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "MAX_SUPPLY",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"name": "tokenURI",
		"outputs": [{"name": "", "type": "string"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"name": "ownerOf",
		"outputs": [{"name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// FacinetNFTABI is the ABI subset of the gasless-purchase FacinetNFT
// contract. mint(to, nftType) is called by the facilitator on behalf of
// the buyer; availability is tracked per item type (four types).
const FacinetNFTABI = `[
	{
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "nftType", "type": "uint256"}
		],
		"name": "mint",
		"outputs": [{"name": "tokenId", "type": "uint256"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getAvailability",
		"outputs": [{"name": "", "type": "uint256[4]"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "nftType", "type": "uint256"}],
		"name": "isSoldOut",
		"outputs": [{"name": "", "type": "bool"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "nftType", "type": "uint256"}],
		"name": "remainingSupply",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "nftType", "type": "uint256"}],
		"name": "mintedCount",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "totalMinted",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"name": "tokenURI",
		"outputs": [{"name": "", "type": "string"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"name": "ownerOf",
		"outputs": [{"name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	}
]`
