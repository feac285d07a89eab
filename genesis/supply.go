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
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/log"

	nftcontract "github.com/team1india/genesis/contracts/genesis"
)

// SupplySnapshot is the last successfully read claim-variant supply state.
// Before the first read it holds the optimistic default of full
// availability.
type SupplySnapshot struct {
	Remaining   uint64 `json:"remaining"`
	TotalMinted uint64 `json:"totalMinted"`
	MaxSupply   uint64 `json:"maxSupply"`
}

// genesisSupplyCaller is the read surface SupplyReader needs from the
// GenesisNFT binding.
type genesisSupplyCaller interface {
	RemainingSupply(opts *bind.CallOpts) (*big.Int, error)
	TotalMinted(opts *bind.CallOpts) (*big.Int, error)
	MaxSupply(opts *bind.CallOpts) (*big.Int, error)
}

// SupplyReader reports remaining/minted supply for the claim variant. It
// needs no connected wallet — reads go through a plain RPC endpoint. A
// failed refresh keeps the previous snapshot; a configured zero contract
// address skips the network entirely.
type SupplyReader struct {
	cfg    *Config
	caller genesisSupplyCaller

	mu       sync.RWMutex
	snapshot SupplySnapshot
	loading  bool
}

// NewSupplyReader creates a reader over the given contract binding. The
// binding may be nil when the contract is not yet deployed.
func NewSupplyReader(cfg *Config, caller genesisSupplyCaller) *SupplyReader {
	return &SupplyReader{
		cfg:    cfg,
		caller: caller,
		snapshot: SupplySnapshot{
			Remaining: cfg.MaxSupply,
			MaxSupply: cfg.MaxSupply,
		},
	}
}

// Snapshot returns the last successful read (or the optimistic default).
func (r *SupplyReader) Snapshot() SupplySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Loading reports whether a refresh is in flight.
func (r *SupplyReader) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loading
}

// Refresh re-reads the supply counters and atomically replaces the
// snapshot. Errors are logged, never surfaced: the previous snapshot
// stays in place. The updated (or retained) snapshot is returned.
func (r *SupplyReader) Refresh(ctx context.Context) SupplySnapshot {
	if !r.cfg.ContractDeployed() || r.caller == nil {
		return r.Snapshot()
	}

	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.loading = false
		r.mu.Unlock()
	}()

	opts := &bind.CallOpts{Context: ctx}
	remaining, err := r.caller.RemainingSupply(opts)
	if err != nil {
		log.Warn("Failed to read remaining supply", "err", err)
		return r.Snapshot()
	}
	minted, err := r.caller.TotalMinted(opts)
	if err != nil {
		log.Warn("Failed to read total minted", "err", err)
		return r.Snapshot()
	}
	maxSupply, err := r.caller.MaxSupply(opts)
	if err != nil {
		log.Warn("Failed to read max supply", "err", err)
		return r.Snapshot()
	}

	snapshot := SupplySnapshot{
		Remaining:   remaining.Uint64(),
		TotalMinted: minted.Uint64(),
		MaxSupply:   maxSupply.Uint64(),
	}
	r.mu.Lock()
	r.snapshot = snapshot
	r.mu.Unlock()
	return snapshot
}

// AvailabilitySnapshot is the purchase-variant counterpart: remaining
// count per item type, fixed arity.
type AvailabilitySnapshot struct {
	Remaining [nftcontract.NFTTypeCount]uint64 `json:"remaining"`
}

// availabilityCaller is the read surface AvailabilityReader needs from
// the FacinetNFT binding.
type availabilityCaller interface {
	GetAvailability(opts *bind.CallOpts) ([nftcontract.NFTTypeCount]*big.Int, error)
}

// AvailabilityReader reports per-type remaining supply for the purchase
// variant, with the same stale-on-error and zero-address semantics as
// SupplyReader.
type AvailabilityReader struct {
	cfg    *Config
	caller availabilityCaller

	mu       sync.RWMutex
	snapshot AvailabilitySnapshot
	loading  bool
}

// NewAvailabilityReader creates a reader over the given contract binding.
// The binding may be nil when the contract is not yet deployed.
func NewAvailabilityReader(cfg *Config, caller availabilityCaller) *AvailabilityReader {
	var snapshot AvailabilitySnapshot
	for i := range snapshot.Remaining {
		snapshot.Remaining[i] = cfg.TypeSupply
	}
	return &AvailabilityReader{
		cfg:      cfg,
		caller:   caller,
		snapshot: snapshot,
	}
}

// Snapshot returns the last successful read (or the optimistic default).
func (r *AvailabilityReader) Snapshot() AvailabilitySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Loading reports whether a refresh is in flight.
func (r *AvailabilityReader) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loading
}

// Refresh re-reads per-type availability. Errors retain the previous
// snapshot, log-only.
func (r *AvailabilityReader) Refresh(ctx context.Context) AvailabilitySnapshot {
	if !r.cfg.ContractDeployed() || r.caller == nil {
		return r.Snapshot()
	}

	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.loading = false
		r.mu.Unlock()
	}()

	availability, err := r.caller.GetAvailability(&bind.CallOpts{Context: ctx})
	if err != nil {
		log.Warn("Failed to read NFT availability", "err", err)
		return r.Snapshot()
	}

	var snapshot AvailabilitySnapshot
	for i, count := range availability {
		snapshot.Remaining[i] = count.Uint64()
	}
	r.mu.Lock()
	r.snapshot = snapshot
	r.mu.Unlock()
	return snapshot
}
