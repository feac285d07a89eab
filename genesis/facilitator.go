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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FacilitatorInfo identifies the relay that executed an operation.
type FacilitatorInfo struct {
	Name string `json:"name"`
}

// PaymentInfo carries the network a payment settled on.
type PaymentInfo struct {
	Network string `json:"network"`
}

// PayRequest asks the facilitator to execute a gasless stablecoin payment.
type PayRequest struct {
	Network   string `json:"network,omitempty"`
	Amount    string `json:"amount"`
	Recipient string `json:"recipient"`
}

// PayResult is the facilitator's response to a payment.
type PayResult struct {
	Success     bool            `json:"success"`
	TxHash      string          `json:"txHash"`
	Facilitator FacilitatorInfo `json:"facilitator"`
	Payment     PaymentInfo     `json:"payment"`
}

// ExecuteContractRequest asks the facilitator to relay an arbitrary
// contract call, paying gas itself.
type ExecuteContractRequest struct {
	Network         string          `json:"network,omitempty"`
	ContractAddress string          `json:"contractAddress"`
	FunctionName    string          `json:"functionName"`
	FunctionArgs    []interface{}   `json:"functionArgs"`
	ABI             json.RawMessage `json:"abi"`
}

// ExecuteContractResult is the facilitator's response to a contract call.
type ExecuteContractResult struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash"`
}

// Facilitator is the gas-sponsoring relay interface the purchase executor
// drives: a payment primitive and a generic contract-execution primitive.
type Facilitator interface {
	Pay(ctx context.Context, req *PayRequest) (*PayResult, error)
	ExecuteContract(ctx context.Context, req *ExecuteContractRequest) (*ExecuteContractResult, error)
}

// FacinetClient talks to the Facinet facilitator HTTP API. Every call
// carries a fresh Idempotency-Key so a retried request cannot double-spend
// on the facilitator side.
type FacinetClient struct {
	baseURL    string
	network    string
	httpClient *http.Client
}

// NewFacinetClient creates a client for the facilitator at baseURL,
// operating on the given facilitator network name (e.g. "avalanche-fuji").
func NewFacinetClient(baseURL, network string) *FacinetClient {
	return &FacinetClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		network: network,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Pay executes a gasless stablecoin payment through the facilitator.
func (c *FacinetClient) Pay(ctx context.Context, req *PayRequest) (*PayResult, error) {
	body := *req
	body.Network = c.network

	var result PayResult
	if err := c.post(ctx, "/pay", &body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExecuteContract relays a contract call through the facilitator.
func (c *FacinetClient) ExecuteContract(ctx context.Context, req *ExecuteContractRequest) (*ExecuteContractResult, error) {
	body := *req
	body.Network = c.network

	var result ExecuteContractResult
	if err := c.post(ctx, "/execute-contract", &body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *FacinetClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("genesis: failed to encode facilitator request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("genesis: facilitator request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("genesis: failed to read facilitator response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("genesis: facilitator returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("genesis: facilitator returned %d", resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("genesis: failed to decode facilitator response: %v", err)
	}
	return nil
}
