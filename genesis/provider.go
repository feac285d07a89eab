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

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// Provider request methods, mirroring the EIP-1193 wallet surface.
const (
	MethodRequestAccounts = "eth_requestAccounts"
	MethodAccounts        = "eth_accounts"
	MethodChainID         = "eth_chainId"
	MethodSwitchChain     = "wallet_switchEthereumChain"
	MethodAddChain        = "wallet_addEthereumChain"
)

// Provider event names.
const (
	// EventAccountsChanged carries a []string of hex addresses; an empty
	// list means the wallet revoked access.
	EventAccountsChanged = "accountsChanged"

	// EventChainChanged carries the new chain id as a hex string.
	EventChainChanged = "chainChanged"
)

// SwitchChainParams is the wallet_switchEthereumChain payload.
type SwitchChainParams struct {
	ChainID string `json:"chainId"` // hex-encoded
}

// Provider is the wallet interface the connector drives. It mirrors the
// EIP-1193 request/subscribe shape so a browser-extension bridge, a remote
// signer, or the local keystore provider are interchangeable — and so
// tests can substitute a mock keyed by method name.
type Provider interface {
	// Request performs a wallet RPC. The result type depends on the
	// method: []string for account methods, a hex string for
	// MethodChainID, nil for the chain-management methods.
	Request(ctx context.Context, method string, params ...interface{}) (interface{}, error)

	// On registers a handler for a wallet event and returns the
	// matching unsubscribe function.
	On(event string, handler func(payload interface{})) (unsubscribe func())
}

// TransactorProvider is implemented by providers that can sign and submit
// transactions themselves (the headless keystore provider does; a
// watch-only bridge would not).
type TransactorProvider interface {
	Provider

	// Transactor returns signing options bound to the given account.
	Transactor(ctx context.Context, from common.Address) (*bind.TransactOpts, error)
}

// ProviderProbe is one strategy for locating a wallet provider in the
// environment. Detect returns nil when the probe finds nothing.
type ProviderProbe struct {
	Name   string
	Detect func() Provider
}

// DetectProvider runs the probes in order and returns the first match,
// or nil if no probe finds a provider.
func DetectProvider(probes []ProviderProbe) Provider {
	for _, probe := range probes {
		if p := probe.Detect(); p != nil {
			log.Debug("Wallet provider detected", "probe", probe.Name)
			return p
		}
	}
	return nil
}
