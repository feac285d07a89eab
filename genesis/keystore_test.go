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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeystoreProvider(t *testing.T) *KeystoreProvider {
	t.Helper()
	p := NewKeystoreProvider(t.TempDir(), "", FujiNetwork)
	t.Cleanup(p.Close)
	return p
}

func TestKeystoreChainID(t *testing.T) {
	p := testKeystoreProvider(t)

	id, err := p.Request(context.Background(), MethodChainID)
	require.NoError(t, err)
	assert.Equal(t, "0xa869", id)
}

func TestKeystoreSwitchUnknownChain(t *testing.T) {
	p := testKeystoreProvider(t)

	_, err := p.Request(context.Background(), MethodSwitchChain, SwitchChainParams{ChainID: "0x1"})
	require.Error(t, err)
	assert.True(t, IsUnrecognizedChain(err))

	// The active chain is untouched.
	id, err := p.Request(context.Background(), MethodChainID)
	require.NoError(t, err)
	assert.Equal(t, "0xa869", id)
}

func TestKeystoreAddThenSwitch(t *testing.T) {
	p := testKeystoreProvider(t)

	var changedTo string
	unsubscribe := p.On(EventChainChanged, func(payload interface{}) {
		changedTo, _ = payload.(string)
	})
	defer unsubscribe()

	mainnet := NetworkParams{
		ChainID:   "0x1",
		ChainName: "Ethereum Mainnet",
		RPCURLs:   []string{"https://eth.example"},
	}
	_, err := p.Request(context.Background(), MethodAddChain, mainnet)
	require.NoError(t, err)

	_, err = p.Request(context.Background(), MethodSwitchChain, SwitchChainParams{ChainID: "0x1"})
	require.NoError(t, err)
	assert.Equal(t, "0x1", changedTo)

	id, err := p.Request(context.Background(), MethodChainID)
	require.NoError(t, err)
	assert.Equal(t, "0x1", id)
}

func TestKeystoreSwitchToActiveIsSilent(t *testing.T) {
	p := testKeystoreProvider(t)

	fired := false
	defer p.On(EventChainChanged, func(interface{}) { fired = true })()

	_, err := p.Request(context.Background(), MethodSwitchChain, SwitchChainParams{ChainID: "0xA869"})
	require.NoError(t, err)
	assert.False(t, fired)
}

func TestKeystoreEmptyAccounts(t *testing.T) {
	p := testKeystoreProvider(t)

	accounts, err := p.Request(context.Background(), MethodRequestAccounts)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestKeystoreUnknownMethod(t *testing.T) {
	p := testKeystoreProvider(t)

	_, err := p.Request(context.Background(), "eth_signTypedData_v4")
	require.Error(t, err)
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32601, rpcErr.Code)
}

func TestKeystoreUnsubscribe(t *testing.T) {
	p := testKeystoreProvider(t)

	calls := 0
	unsubscribe := p.On(EventChainChanged, func(interface{}) { calls++ })

	p.addChain(NetworkParams{ChainID: "0x1", RPCURLs: []string{"https://eth.example"}})
	require.NoError(t, p.switchChain("0x1"))
	assert.Equal(t, 1, calls)

	unsubscribe()
	require.NoError(t, p.switchChain("0xa869"))
	assert.Equal(t, 1, calls)
}

func TestDefaultProbesSkipMissingDirs(t *testing.T) {
	t.Setenv("KEYSTORE_DIR", "")
	t.Setenv("HOME", t.TempDir())

	for _, probe := range DefaultProbes(NewConfig()) {
		assert.Nil(t, probe.Detect(), "probe %s should not match", probe.Name)
	}
}
