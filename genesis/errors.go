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
	"errors"
	"fmt"
	"strings"
)

// Errors returned by the connector and executors.
var (
	ErrNoProvider          = errors.New("genesis: no compatible wallet provider found")
	ErrNotConnected        = errors.New("genesis: wallet is not connected")
	ErrContractNotDeployed = errors.New("genesis: NFT contract address is not configured")
	ErrInvalidNFTType      = errors.New("genesis: NFT type out of range")
	ErrClaimReverted       = errors.New("genesis: claim transaction reverted")
)

// Fixed user-facing messages substituted for known failure modes.
const (
	MsgUserRejected = "Transaction was rejected in your wallet."
	MsgSoldOut      = "All 500 NFTs have been claimed. Collection is sold out!"
)

// EIP-1193 provider error codes the connector reacts to.
const (
	CodeUserRejected      = 4001
	CodeUnrecognizedChain = 4902
)

// RPCError is a provider-level error carrying an EIP-1193/JSON-RPC code.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// IsUserRejected reports whether err means the user declined a signature
// or account-access prompt.
func IsUserRejected(err error) bool {
	if err == nil {
		return false
	}
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) && rpcErr.Code == CodeUserRejected {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "user rejected") || strings.Contains(msg, "ACTION_REJECTED")
}

// IsUnrecognizedChain reports whether err is the distinguished "chain not
// added to wallet" error that triggers an add-chain attempt.
func IsUnrecognizedChain(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == CodeUnrecognizedChain
}

// normalizeClaimError remaps known claim failures to their fixed messages
// and passes everything else through verbatim.
func normalizeClaimError(err error) error {
	if err == nil {
		return nil
	}
	if IsUserRejected(err) {
		return errors.New(MsgUserRejected)
	}
	if strings.Contains(err.Error(), "All 500") {
		return errors.New(MsgSoldOut)
	}
	return err
}

// normalizePurchaseError remaps a declined signature to the fixed message;
// facilitator-side failures pass through as-is.
func normalizePurchaseError(err error) error {
	if err == nil {
		return nil
	}
	if IsUserRejected(err) {
		return errors.New(MsgUserRejected)
	}
	return err
}
