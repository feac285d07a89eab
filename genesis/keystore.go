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
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
)

// KeystoreProvider is the headless counterpart of a browser wallet
// extension: accounts come from a go-ethereum keystore directory and
// requests are auto-approved with the configured passphrase. It tracks a
// set of registered networks so chain switch/add requests behave like a
// real wallet, including the 4902 "unrecognized chain" error.
type KeystoreProvider struct {
	ks         *keystore.KeyStore
	passphrase string

	mu       sync.Mutex
	networks map[string]NetworkParams // keyed by lowercase hex chain id
	active   string                   // lowercase hex chain id
	clients  map[string]*ethclient.Client
	subs     map[string]map[int]func(payload interface{})
	nextSub  int

	walletEvents chan accounts.WalletEvent
	walletSub    interface{ Unsubscribe() }
	quit         chan struct{}
}

// NewKeystoreProvider opens the keystore at keydir and registers the given
// network as the provider's active chain.
func NewKeystoreProvider(keydir, passphrase string, network *Network) *KeystoreProvider {
	ks := keystore.NewKeyStore(keydir, keystore.StandardScryptN, keystore.StandardScryptP)
	params := network.AddChainParams()
	active := strings.ToLower(params.ChainID)

	p := &KeystoreProvider{
		ks:           ks,
		passphrase:   passphrase,
		networks:     map[string]NetworkParams{active: params},
		active:       active,
		clients:      make(map[string]*ethclient.Client),
		subs:         make(map[string]map[int]func(payload interface{})),
		walletEvents: make(chan accounts.WalletEvent, 16),
		quit:         make(chan struct{}),
	}

	// Forward keystore wallet arrivals/departures as accountsChanged.
	p.walletSub = ks.Subscribe(p.walletEvents)
	go p.forwardWalletEvents()

	return p
}

// Request implements Provider.
func (p *KeystoreProvider) Request(ctx context.Context, method string, params ...interface{}) (interface{}, error) {
	switch method {
	case MethodRequestAccounts, MethodAccounts:
		return p.accountList(), nil

	case MethodChainID:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.active, nil

	case MethodSwitchChain:
		target, err := switchTarget(params)
		if err != nil {
			return nil, err
		}
		return nil, p.switchChain(target)

	case MethodAddChain:
		if len(params) != 1 {
			return nil, &RPCError{Code: -32602, Message: "wallet_addEthereumChain expects one network descriptor"}
		}
		descriptor, ok := params[0].(NetworkParams)
		if !ok {
			return nil, &RPCError{Code: -32602, Message: "invalid network descriptor"}
		}
		p.addChain(descriptor)
		return nil, nil

	default:
		return nil, &RPCError{Code: -32601, Message: fmt.Sprintf("the method %s does not exist", method)}
	}
}

func switchTarget(params []interface{}) (string, error) {
	if len(params) != 1 {
		return "", &RPCError{Code: -32602, Message: "wallet_switchEthereumChain expects one chain id"}
	}
	switch v := params[0].(type) {
	case SwitchChainParams:
		return strings.ToLower(v.ChainID), nil
	case map[string]interface{}:
		if id, ok := v["chainId"].(string); ok {
			return strings.ToLower(id), nil
		}
	}
	return "", &RPCError{Code: -32602, Message: "invalid chain id parameter"}
}

func (p *KeystoreProvider) switchChain(target string) error {
	p.mu.Lock()
	if _, known := p.networks[target]; !known {
		p.mu.Unlock()
		return &RPCError{
			Code:    CodeUnrecognizedChain,
			Message: fmt.Sprintf("unrecognized chain ID %q; try adding the chain first", target),
		}
	}
	changed := p.active != target
	p.active = target
	p.mu.Unlock()

	if changed {
		p.emit(EventChainChanged, target)
	}
	return nil
}

func (p *KeystoreProvider) addChain(descriptor NetworkParams) {
	key := strings.ToLower(descriptor.ChainID)
	p.mu.Lock()
	p.networks[key] = descriptor
	p.mu.Unlock()
	log.Debug("Network registered with keystore provider", "chain", descriptor.ChainName, "id", descriptor.ChainID)
}

// On implements Provider.
func (p *KeystoreProvider) On(event string, handler func(payload interface{})) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.subs[event] == nil {
		p.subs[event] = make(map[int]func(payload interface{}))
	}
	id := p.nextSub
	p.nextSub++
	p.subs[event][id] = handler

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs[event], id)
	}
}

// Transactor implements TransactorProvider. The account is unlocked with
// the configured passphrase and bound to the active network's chain id.
func (p *KeystoreProvider) Transactor(ctx context.Context, from common.Address) (*bind.TransactOpts, error) {
	account, err := p.ks.Find(accounts.Account{Address: from})
	if err != nil {
		return nil, fmt.Errorf("genesis: account %s not in keystore: %v", from.Hex(), err)
	}
	if err := p.ks.Unlock(account, p.passphrase); err != nil {
		return nil, fmt.Errorf("genesis: failed to unlock %s: %v", from.Hex(), err)
	}
	opts, err := bind.NewKeyStoreTransactorWithChainID(p.ks, account, p.chainID())
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}

// Client returns (and caches) an RPC client for the provider's active
// network.
func (p *KeystoreProvider) Client(ctx context.Context) (*ethclient.Client, error) {
	p.mu.Lock()
	active := p.active
	if client, ok := p.clients[active]; ok {
		p.mu.Unlock()
		return client, nil
	}
	descriptor := p.networks[active]
	p.mu.Unlock()

	if len(descriptor.RPCURLs) == 0 {
		return nil, fmt.Errorf("genesis: no RPC URL registered for chain %s", active)
	}
	client, err := ethclient.DialContext(ctx, descriptor.RPCURLs[0])
	if err != nil {
		return nil, fmt.Errorf("genesis: failed to dial %s: %v", descriptor.RPCURLs[0], err)
	}

	p.mu.Lock()
	p.clients[active] = client
	p.mu.Unlock()
	return client, nil
}

// Close stops event forwarding and disconnects cached RPC clients.
func (p *KeystoreProvider) Close() {
	if p.walletSub != nil {
		p.walletSub.Unsubscribe()
	}
	close(p.quit)
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, client := range p.clients {
		client.Close()
	}
	p.clients = make(map[string]*ethclient.Client)
}

func (p *KeystoreProvider) chainID() *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, _ := new(big.Int).SetString(strings.TrimPrefix(p.active, "0x"), 16)
	return id
}

func (p *KeystoreProvider) accountList() []string {
	all := p.ks.Accounts()
	list := make([]string, 0, len(all))
	for _, account := range all {
		list = append(list, account.Address.Hex())
	}
	return list
}

func (p *KeystoreProvider) emit(event string, payload interface{}) {
	p.mu.Lock()
	handlers := make([]func(payload interface{}), 0, len(p.subs[event]))
	for _, h := range p.subs[event] {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
}

func (p *KeystoreProvider) forwardWalletEvents() {
	for {
		select {
		case <-p.walletEvents:
			p.emit(EventAccountsChanged, p.accountList())
		case <-p.quit:
			return
		}
	}
}

// DefaultProbes returns the ordered provider-detection strategies: an
// explicitly configured keystore first, then the conventional location.
// A probe only matches when the keystore holds at least one account.
func DefaultProbes(cfg *Config) []ProviderProbe {
	passphrase := os.Getenv("KEYSTORE_PASSPHRASE")

	keystoreProbe := func(dir string) func() Provider {
		return func() Provider {
			if dir == "" {
				return nil
			}
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				return nil
			}
			p := NewKeystoreProvider(dir, passphrase, cfg.Network)
			if len(p.ks.Accounts()) == 0 {
				p.Close()
				return nil
			}
			return p
		}
	}

	home, _ := os.UserHomeDir()
	return []ProviderProbe{
		{Name: "env-keystore", Detect: keystoreProbe(os.Getenv("KEYSTORE_DIR"))},
		{Name: "home-keystore", Detect: keystoreProbe(filepath.Join(home, ".genesis", "keystore"))},
	}
}
