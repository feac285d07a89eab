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
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSigner struct {
	err error
}

func (m *mockSigner) Transactor(ctx context.Context) (*bind.TransactOpts, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &bind.TransactOpts{From: common.HexToAddress(testAccount)}, nil
}

type mockClaimContract struct {
	tx  *types.Transaction
	err error
}

func (m *mockClaimContract) Claim(opts *bind.TransactOpts) (*types.Transaction, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tx, nil
}

// mockBackend satisfies bind.DeployBackend; WaitMined returns on the first
// poll since the receipt is available immediately.
type mockBackend struct {
	receipt *types.Receipt
	err     error
}

func (m *mockBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.receipt, nil
}

func (m *mockBackend) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x01}, nil
}

func claimFixture(status uint64) (*mockClaimContract, *mockBackend) {
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    7,
		To:       &common.Address{0x42},
		Gas:      150000,
		GasPrice: big.NewInt(25000000000),
	})
	receipt := &types.Receipt{
		Status: status,
		TxHash: tx.Hash(),
	}
	return &mockClaimContract{tx: tx}, &mockBackend{receipt: receipt}
}

func TestMintSuccess(t *testing.T) {
	contract, backend := claimFixture(types.ReceiptStatusSuccessful)
	m := NewMintExecutor(deployedConfig(), &mockSigner{}, contract, backend)

	result, err := m.Mint(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Success)
	assert.Equal(t, contract.tx.Hash().Hex(), result.TxHash)
	assert.Equal(t, PhaseDone, m.Phase())
	assert.False(t, m.Loading())
	assert.NoError(t, m.Err())
	assert.Equal(t, result, m.Result())
}

func TestMintRequiresDeployedContract(t *testing.T) {
	contract, backend := claimFixture(types.ReceiptStatusSuccessful)
	cfg := NewConfig()
	cfg.ContractAddress = ZeroAddress
	m := NewMintExecutor(cfg, &mockSigner{}, contract, backend)

	result, err := m.Mint(context.Background())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrContractNotDeployed)
	assert.Equal(t, PhaseIdle, m.Phase())
}

func TestMintUserRejected(t *testing.T) {
	contract, backend := claimFixture(types.ReceiptStatusSuccessful)
	contract.err = &RPCError{Code: CodeUserRejected, Message: "User rejected the request."}
	m := NewMintExecutor(deployedConfig(), &mockSigner{}, contract, backend)

	result, err := m.Mint(context.Background())
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, MsgUserRejected, err.Error())

	// The decline happened at the signature prompt.
	assert.Equal(t, PhaseConfirming, m.Phase())
	assert.Nil(t, m.Result())
}

func TestMintSoldOut(t *testing.T) {
	contract, backend := claimFixture(types.ReceiptStatusSuccessful)
	contract.err = errors.New("execution reverted: All 500 NFTs have been claimed")
	m := NewMintExecutor(deployedConfig(), &mockSigner{}, contract, backend)

	result, err := m.Mint(context.Background())
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, MsgSoldOut, err.Error())
	assert.Nil(t, m.Result())
}

func TestMintRevertedReceipt(t *testing.T) {
	contract, backend := claimFixture(types.ReceiptStatusFailed)
	m := NewMintExecutor(deployedConfig(), &mockSigner{}, contract, backend)

	result, err := m.Mint(context.Background())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrClaimReverted)
	assert.Equal(t, PhaseMinting, m.Phase())
}

func TestMintSignerFailurePropagates(t *testing.T) {
	contract, backend := claimFixture(types.ReceiptStatusSuccessful)
	signer := &mockSigner{err: ErrNotConnected}
	m := NewMintExecutor(deployedConfig(), signer, contract, backend)

	result, err := m.Mint(context.Background())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestMintResultErrorExclusive(t *testing.T) {
	contract, backend := claimFixture(types.ReceiptStatusSuccessful)
	m := NewMintExecutor(deployedConfig(), &mockSigner{}, contract, backend)

	_, err := m.Mint(context.Background())
	require.NoError(t, err)
	require.NotNil(t, m.Result())

	// A failing retry clears the stale result before recording the error.
	contract.err = errors.New("nonce too low")
	_, err = m.Mint(context.Background())
	require.Error(t, err)
	assert.Nil(t, m.Result())
	assert.Error(t, m.Err())
}

func TestMintReset(t *testing.T) {
	contract, backend := claimFixture(types.ReceiptStatusSuccessful)
	m := NewMintExecutor(deployedConfig(), &mockSigner{}, contract, backend)

	_, err := m.Mint(context.Background())
	require.NoError(t, err)

	m.Reset()
	assert.Equal(t, PhaseIdle, m.Phase())
	assert.NoError(t, m.Err())
	assert.Nil(t, m.Result())
}
