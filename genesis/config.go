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

// Package genesis implements the wallet-connection and on-chain transaction
// lifecycle for the Genesis NFT demo: a free claim flow where the caller
// pays gas, and a gasless purchase flow relayed through the Facinet
// facilitator.  It manages connection state, supply snapshots, and staged
// mint/purchase attempts; rendering and media are out of scope.
package genesis

import (
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

// ZeroAddress is the sentinel meaning "contract not yet deployed". Both
// the supply readers and every write path treat it as a hard precondition.
var ZeroAddress = common.Address{}

// NativeCurrency describes a chain's gas token for add-chain requests.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// NetworkParams is the wallet_addEthereumChain payload (EIP-3085).
type NetworkParams struct {
	ChainID           string         `json:"chainId"` // hex-encoded
	ChainName         string         `json:"chainName"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls"`
}

// Network describes the single target chain for this deployment.
type Network struct {
	ChainID     *big.Int
	ChainIDHex  string
	Name        string
	RPCURL      string
	Currency    NativeCurrency
	ExplorerURL string
}

// AddChainParams builds the full descriptor a wallet needs to register
// this network.
func (n *Network) AddChainParams() NetworkParams {
	return NetworkParams{
		ChainID:           n.ChainIDHex,
		ChainName:         n.Name,
		NativeCurrency:    n.Currency,
		RPCURLs:           []string{n.RPCURL},
		BlockExplorerURLs: []string{n.ExplorerURL},
	}
}

// FujiNetwork is the Avalanche Fuji C-Chain testnet, the only network this
// demo targets.
var FujiNetwork = &Network{
	ChainID:    big.NewInt(43113),
	ChainIDHex: "0xA869",
	Name:       "Avalanche Fuji C-Chain",
	RPCURL:     "https://api.avax-test.network/ext/bc/C/rpc",
	Currency: NativeCurrency{
		Name:     "Avalanche",
		Symbol:   "AVAX",
		Decimals: 18,
	},
	ExplorerURL: "https://testnet.snowtrace.io",
}

// Collection size defaults.
const (
	// DefaultMaxSupply is the GenesisNFT collection cap (claim variant).
	DefaultMaxSupply = 500

	// DefaultTypeSupply is the per-type cap in the FacinetNFT collection
	// (purchase variant).
	DefaultTypeSupply = 10
)

// DefaultWalletInstallURL is where users without a compatible wallet are
// pointed (Core wallet Chrome Web Store listing).
const DefaultWalletInstallURL = "https://chromewebstore.google.com/detail/core-wallet-crypto-made-e/agoakfejjabomempkjlepdflaleeobhb"

// Config carries everything the connector, readers and executors need.
type Config struct {
	Network *Network

	// ContractAddress is the deployed NFT contract; ZeroAddress means
	// not yet deployed.
	ContractAddress common.Address

	// RecipientAddress receives the stablecoin payment in the purchase
	// variant.
	RecipientAddress common.Address

	// FacilitatorURL is the base URL of the Facinet facilitator API.
	FacilitatorURL string

	// FacilitatorNetwork is the facilitator's name for the target chain,
	// e.g. "avalanche-fuji".
	FacilitatorNetwork string

	MaxSupply  uint64
	TypeSupply uint64

	WalletInstallURL string
}

// NewConfig returns a Config targeting Fuji with addresses and endpoints
// taken from the environment:
//
//	NFT_CONTRACT_ADDRESS       deployed contract (zero address if unset)
//	PAYMENT_RECIPIENT_ADDRESS  purchase-variant payment recipient
//	FACILITATOR_URL            Facinet facilitator base URL
//	RPC_URL                    overrides the default Fuji RPC endpoint
func NewConfig() *Config {
	network := *FujiNetwork
	if rpc := os.Getenv("RPC_URL"); rpc != "" {
		network.RPCURL = rpc
	}
	return &Config{
		Network:            &network,
		ContractAddress:    addressFromEnv("NFT_CONTRACT_ADDRESS"),
		RecipientAddress:   addressFromEnv("PAYMENT_RECIPIENT_ADDRESS"),
		FacilitatorURL:     os.Getenv("FACILITATOR_URL"),
		FacilitatorNetwork: "avalanche-fuji",
		MaxSupply:          DefaultMaxSupply,
		TypeSupply:         DefaultTypeSupply,
		WalletInstallURL:   DefaultWalletInstallURL,
	}
}

func addressFromEnv(key string) common.Address {
	val := os.Getenv(key)
	if val == "" || !common.IsHexAddress(val) {
		return ZeroAddress
	}
	return common.HexToAddress(val)
}

// ContractDeployed reports whether a real contract address is configured.
func (c *Config) ContractDeployed() bool {
	return c.ContractAddress != ZeroAddress
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures.
func (c *Config) Validate() error {
	if c.Network == nil {
		return fmt.Errorf("genesis: config has no target network")
	}
	if c.Network.ChainID == nil || c.Network.ChainID.Sign() <= 0 {
		return fmt.Errorf("genesis: invalid chain id")
	}
	if c.Network.ChainIDHex == "" {
		return fmt.Errorf("genesis: missing hex chain id for wallet requests")
	}
	if c.Network.RPCURL == "" {
		return fmt.Errorf("genesis: missing RPC URL for network %s", c.Network.Name)
	}
	if c.MaxSupply == 0 {
		return fmt.Errorf("genesis: max supply must be positive")
	}
	return nil
}
