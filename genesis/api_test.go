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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T, api *API) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api.Install(router)
	return router
}

func testAPI(t *testing.T) (*API, *mockProvider, *mockFacilitator) {
	t.Helper()
	cfg := purchaseConfig()
	provider := newMockProvider("0xA869", testAccount)
	wallet := NewConnector(cfg, ProviderProbe{
		Name:   "mock",
		Detect: func() Provider { return provider },
	})
	t.Cleanup(wallet.Close)

	contract, backend := claimFixture(types.ReceiptStatusSuccessful)
	relay := happyFacilitator()

	api := &API{
		Config:       cfg,
		Wallet:       wallet,
		Supply:       NewSupplyReader(cfg, &mockSupplyCaller{remaining: 500, maxSupply: 500}),
		Availability: NewAvailabilityReader(cfg, &mockAvailabilityCaller{remaining: [4]int64{10, 10, 10, 10}}),
		Mint:         NewMintExecutor(cfg, wallet, contract, backend),
		Purchase:     NewPurchaseExecutor(cfg, relay),
	}
	return api, provider, relay
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAPIStatus(t *testing.T) {
	api, _, _ := testAPI(t)
	router := testRouter(t, api)

	w := doJSON(router, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Avalanche Fuji C-Chain", body["network"])
	assert.Equal(t, float64(43113), body["chainId"])
	assert.Equal(t, true, body["contractDeployed"])
}

func TestAPIConnectFlow(t *testing.T) {
	api, _, _ := testAPI(t)
	router := testRouter(t, api)

	w := doJSON(router, http.MethodPost, "/api/v1/wallet/connect", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Wallet ConnectionState `json:"wallet"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Wallet.IsConnected)
	require.NotNil(t, body.Wallet.Address)
	assert.Equal(t, testAccount, body.Wallet.Address.Hex())

	w = doJSON(router, http.MethodPost, "/api/v1/wallet/disconnect", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Wallet.IsConnected)
}

func TestAPIConnectNoProviderPrompt(t *testing.T) {
	api, _, _ := testAPI(t)
	api.Wallet = NewConnector(api.Config, ProviderProbe{
		Name:   "empty",
		Detect: func() Provider { return nil },
	})
	router := testRouter(t, api)

	w := doJSON(router, http.MethodPost, "/api/v1/wallet/connect", "")
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/wallet/dismiss-install-prompt", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Wallet ConnectionState `json:"wallet"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Wallet.ShowInstallPrompt)
}

func TestAPISupplyRoutes(t *testing.T) {
	api, _, _ := testAPI(t)
	router := testRouter(t, api)

	w := doJSON(router, http.MethodGet, "/api/v1/supply", "")
	require.Equal(t, http.StatusOK, w.Code)
	var supply SupplySnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &supply))
	assert.Equal(t, uint64(500), supply.Remaining)

	w = doJSON(router, http.MethodGet, "/api/v1/availability", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAPIClaimLifecycle(t *testing.T) {
	api, _, _ := testAPI(t)
	router := testRouter(t, api)

	w := doJSON(router, http.MethodPost, "/api/v1/claim", "")
	require.Equal(t, http.StatusOK, w.Code)
	var result MintResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.TxHash)

	w = doJSON(router, http.MethodGet, "/api/v1/claim", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "done", status["phase"])
	assert.NotNil(t, status["result"])

	w = doJSON(router, http.MethodPost, "/api/v1/claim/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodGet, "/api/v1/claim", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "idle", status["phase"])
	assert.Nil(t, status["result"])
}

func TestAPIPurchaseValidation(t *testing.T) {
	api, _, _ := testAPI(t)
	router := testRouter(t, api)

	// Missing required fields.
	w := doJSON(router, http.MethodPost, "/api/v1/purchase", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No buyer and no connected wallet.
	w = doJSON(router, http.MethodPost, "/api/v1/purchase", `{"nftType":1,"price":"1"}`)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/purchase", `{"nftType":1,"price":"1","buyer":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIPurchaseWithExplicitBuyer(t *testing.T) {
	api, _, relay := testAPI(t)
	router := testRouter(t, api)

	body := `{"nftType":2,"price":"1","buyer":"` + testAccount + `"}`
	w := doJSON(router, http.MethodPost, "/api/v1/purchase", body)
	require.Equal(t, http.StatusOK, w.Code)

	var result PurchaseResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "0xpay", result.PaymentTxHash)
	assert.Equal(t, "0xmint", result.MintTxHash)
	require.NotNil(t, relay.execReq)
	assert.Equal(t, []interface{}{testBuyer.Hex(), 2}, relay.execReq.FunctionArgs)
}

func TestAPIUnconfiguredVariants(t *testing.T) {
	api, _, _ := testAPI(t)
	api.Mint = nil
	api.Purchase = nil
	router := testRouter(t, api)

	for _, path := range []string{"/api/v1/claim", "/api/v1/purchase"} {
		w := doJSON(router, http.MethodPost, path, `{"nftType":1,"price":"1"}`)
		assert.Equal(t, http.StatusNotImplemented, w.Code, path)
	}
}
