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
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// ConnectionState is a snapshot of the wallet's relationship to the
// process. IsConnected implies Address is set and ChainID equals the
// configured target chain; IsConnecting excludes IsConnected.
type ConnectionState struct {
	Address           *common.Address `json:"address"`
	ChainID           uint64          `json:"chainId"`
	IsConnected       bool            `json:"isConnected"`
	IsConnecting      bool            `json:"isConnecting"`
	LastError         string          `json:"lastError,omitempty"`
	ShowInstallPrompt bool            `json:"showInstallPrompt,omitempty"`
}

// Connector manages the wallet connection lifecycle: provider detection,
// account access, chain switching, and account/chain change notifications.
// It is the sole writer of the ConnectionState; everything else reads
// snapshots through State.
type Connector struct {
	cfg    *Config
	probes []ProviderProbe

	connectMu  sync.Mutex // serializes connect attempts
	mu         sync.RWMutex
	provider   Provider
	state      ConnectionState
	subscribed bool
	unsubs     []func()
	onResync   func()
}

// NewConnector creates a connector using the given provider-detection
// probes (DefaultProbes when none are supplied).
func NewConnector(cfg *Config, probes ...ProviderProbe) *Connector {
	if len(probes) == 0 {
		probes = DefaultProbes(cfg)
	}
	return &Connector{
		cfg:    cfg,
		probes: probes,
	}
}

// OnResync registers a callback invoked after a chain-changed
// notification, once the connection state has been reset. The browser
// original reloads the page here; a daemon re-reads its chain-dependent
// state instead.
func (c *Connector) OnResync(fn func()) {
	c.mu.Lock()
	c.onResync = fn
	c.mu.Unlock()
}

// State returns the current connection snapshot.
func (c *Connector) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// DismissInstallPrompt clears the install-prompt flag.
func (c *Connector) DismissInstallPrompt() {
	c.mu.Lock()
	c.state.ShowInstallPrompt = false
	c.mu.Unlock()
}

// Connect detects a wallet provider, requests account access, and ensures
// the wallet is on the target chain, switching or registering it as
// needed. It returns the connected address, or nil on any failure — the
// reason lands in State().LastError (or ShowInstallPrompt when no
// provider exists). Connect never panics or returns an error value: every
// failure is recoverable by calling it again.
func (c *Connector) Connect(ctx context.Context) *common.Address {
	if !c.connectMu.TryLock() {
		// A connect attempt is already in flight.
		return nil
	}
	defer c.connectMu.Unlock()

	provider := c.resolveProvider()
	if provider == nil {
		c.mu.Lock()
		c.state.ShowInstallPrompt = true
		c.state.LastError = "Core Wallet not found. Please install Core Wallet."
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	c.state.IsConnecting = true
	c.state.IsConnected = false
	c.state.LastError = ""
	c.state.ShowInstallPrompt = false
	c.mu.Unlock()

	address, err := c.connectFlow(ctx, provider)
	if err != nil {
		msg := err.Error()
		if IsUserRejected(err) {
			msg = MsgUserRejected
		}
		log.Debug("Wallet connect failed", "err", err)
		c.mu.Lock()
		c.state.IsConnecting = false
		c.state.LastError = msg
		c.mu.Unlock()
		return nil
	}

	c.subscribe(provider)

	c.mu.Lock()
	c.state = ConnectionState{
		Address:     address,
		ChainID:     c.cfg.Network.ChainID.Uint64(),
		IsConnected: true,
	}
	c.mu.Unlock()

	log.Info("Wallet connected", "address", address.Hex(), "chain", c.cfg.Network.Name)
	return address
}

func (c *Connector) resolveProvider() Provider {
	c.mu.Lock()
	provider := c.provider
	c.mu.Unlock()
	if provider != nil {
		return provider
	}

	provider = DetectProvider(c.probes)
	if provider == nil {
		return nil
	}
	c.mu.Lock()
	c.provider = provider
	c.mu.Unlock()
	return provider
}

func (c *Connector) connectFlow(ctx context.Context, provider Provider) (*common.Address, error) {
	raw, err := provider.Request(ctx, MethodRequestAccounts)
	if err != nil {
		return nil, err
	}
	accounts, ok := raw.([]string)
	if !ok {
		return nil, fmt.Errorf("genesis: provider returned unexpected account payload %T", raw)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("genesis: wallet authorized no accounts")
	}
	address := common.HexToAddress(accounts[0])

	if err := c.ensureTargetChain(ctx, provider); err != nil {
		return nil, err
	}
	return &address, nil
}

// ensureTargetChain checks the wallet's active chain and switches it to
// the configured network. An unrecognized-chain failure triggers exactly
// one add-chain attempt followed by one retry of the switch; any other
// failure propagates.
func (c *Connector) ensureTargetChain(ctx context.Context, provider Provider) error {
	raw, err := provider.Request(ctx, MethodChainID)
	if err != nil {
		return err
	}
	current, ok := raw.(string)
	if !ok {
		return fmt.Errorf("genesis: provider returned unexpected chain id payload %T", raw)
	}
	if strings.EqualFold(current, c.cfg.Network.ChainIDHex) {
		return nil
	}

	switchParams := SwitchChainParams{ChainID: c.cfg.Network.ChainIDHex}
	_, err = provider.Request(ctx, MethodSwitchChain, switchParams)
	if err == nil {
		return nil
	}
	if !IsUnrecognizedChain(err) {
		return err
	}

	log.Info("Registering target network with wallet", "chain", c.cfg.Network.Name)
	if _, err := provider.Request(ctx, MethodAddChain, c.cfg.Network.AddChainParams()); err != nil {
		return err
	}
	_, err = provider.Request(ctx, MethodSwitchChain, switchParams)
	return err
}

// subscribe registers the account/chain change handlers once per provider.
func (c *Connector) subscribe(provider Provider) {
	c.mu.Lock()
	if c.subscribed {
		c.mu.Unlock()
		return
	}
	c.subscribed = true
	c.mu.Unlock()

	unsubAccounts := provider.On(EventAccountsChanged, c.handleAccountsChanged)
	unsubChain := provider.On(EventChainChanged, c.handleChainChanged)

	c.mu.Lock()
	c.unsubs = append(c.unsubs, unsubAccounts, unsubChain)
	c.mu.Unlock()
}

func (c *Connector) handleAccountsChanged(payload interface{}) {
	accounts, ok := payload.([]string)
	if !ok {
		return
	}
	if len(accounts) == 0 {
		log.Info("Wallet revoked account access")
		c.Disconnect()
		return
	}
	address := common.HexToAddress(accounts[0])
	c.mu.Lock()
	if c.state.Address == nil || *c.state.Address != address {
		log.Info("Wallet account changed", "address", address.Hex())
	}
	c.state.Address = &address
	c.mu.Unlock()
}

func (c *Connector) handleChainChanged(payload interface{}) {
	log.Info("Wallet chain changed, resetting connection state", "chain", payload)
	c.mu.Lock()
	c.state = ConnectionState{}
	resync := c.onResync
	c.mu.Unlock()

	if resync != nil {
		resync()
	}
}

// Disconnect resets the connection state to its default. It is purely
// local: wallets expose no programmatic disconnect.
func (c *Connector) Disconnect() {
	c.mu.Lock()
	c.state = ConnectionState{}
	c.mu.Unlock()
}

// Close disposes the event subscriptions. The connector is unusable
// afterwards.
func (c *Connector) Close() {
	c.mu.Lock()
	unsubs := c.unsubs
	c.unsubs = nil
	c.subscribed = false
	c.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	c.Disconnect()
}

// Transactor returns signing options for the connected account. It fails
// when no wallet is connected or the active provider cannot sign.
func (c *Connector) Transactor(ctx context.Context) (*bind.TransactOpts, error) {
	c.mu.Lock()
	state := c.state
	provider := c.provider
	c.mu.Unlock()

	if !state.IsConnected || state.Address == nil {
		return nil, ErrNotConnected
	}
	signer, ok := provider.(TransactorProvider)
	if !ok {
		return nil, fmt.Errorf("genesis: active wallet provider cannot sign transactions")
	}
	return signer.Transactor(ctx, *state.Address)
}
