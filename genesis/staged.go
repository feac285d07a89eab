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
	"sync"
)

// Phase is the progress indicator for a staged transaction attempt.
// Phases only move forward within one attempt; Reset returns to PhaseIdle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseConfirming Phase = "confirming" // wallet signature prompt outstanding
	PhasePaying     Phase = "paying"     // relayed payment in flight
	PhaseMinting    Phase = "minting"    // mint broadcast, awaiting confirmation
	PhaseDone       Phase = "done"
)

// Step is one sequential unit of a staged transaction: the phase to report
// while it runs, and the operation itself.
type Step struct {
	Phase Phase
	Run   func(ctx context.Context) error
}

// StagedTx runs an ordered list of steps while tracking phase, loading and
// error state. Both executor variants embed it; they differ only in their
// step lists and result payloads. At most one of error/result is ever set:
// a failing step records the (normalized) error and the executor clears
// its result.
type StagedTx struct {
	mu      sync.RWMutex
	phase   Phase
	loading bool
	err     error
}

// Phase returns the current phase (PhaseIdle before any attempt).
func (s *StagedTx) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.phase == "" {
		return PhaseIdle
	}
	return s.phase
}

// Loading reports whether an attempt is in flight.
func (s *StagedTx) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error recorded by the last attempt, if any.
func (s *StagedTx) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Reset returns the phase to idle and clears the recorded error, readying
// the next attempt.
func (s *StagedTx) Reset() {
	s.mu.Lock()
	s.phase = PhaseIdle
	s.loading = false
	s.err = nil
	s.mu.Unlock()
}

// Execute runs the steps strictly in order, stopping at the first failure.
// The failing step's error is passed through normalize (identity when
// nil), recorded, and returned so the caller can drive its own error
// surface. On success the phase ends at PhaseDone.
func (s *StagedTx) Execute(ctx context.Context, steps []Step, normalize func(error) error) error {
	s.mu.Lock()
	s.phase = PhaseIdle
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	for _, step := range steps {
		s.setPhase(step.Phase)
		if err := step.Run(ctx); err != nil {
			if normalize != nil {
				err = normalize(err)
			}
			s.mu.Lock()
			s.err = err
			s.loading = false
			s.mu.Unlock()
			return err
		}
	}

	s.mu.Lock()
	s.phase = PhaseDone
	s.loading = false
	s.mu.Unlock()
	return nil
}

func (s *StagedTx) setPhase(phase Phase) {
	s.mu.Lock()
	s.phase = phase
	s.mu.Unlock()
}
