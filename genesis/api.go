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
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// API exposes the demo surface over HTTP: connection state, supply
// snapshots, and the claim/purchase flows. Readers and executors may be
// nil when the corresponding variant is not configured; their routes then
// answer 501.
type API struct {
	Config       *Config
	Wallet       *Connector
	Supply       *SupplyReader
	Availability *AvailabilityReader
	Mint         *MintExecutor
	Purchase     *PurchaseExecutor
}

// Install registers the API routes with gin.
func (a *API) Install(r *gin.Engine) {
	r.GET("/api/v1/status", a.statusHandler)

	r.POST("/api/v1/wallet/connect", a.connectHandler)
	r.POST("/api/v1/wallet/disconnect", a.disconnectHandler)
	r.POST("/api/v1/wallet/dismiss-install-prompt", a.dismissInstallPromptHandler)

	r.GET("/api/v1/supply", a.supplyHandler)
	r.GET("/api/v1/availability", a.availabilityHandler)

	r.POST("/api/v1/claim", a.claimHandler)
	r.GET("/api/v1/claim", a.claimStatusHandler)
	r.POST("/api/v1/claim/reset", a.claimResetHandler)

	r.POST("/api/v1/purchase", a.purchaseHandler)
	r.GET("/api/v1/purchase", a.purchaseStatusHandler)
	r.POST("/api/v1/purchase/reset", a.purchaseResetHandler)
}

func renderError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func (a *API) statusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"wallet":           a.Wallet.State(),
		"network":          a.Config.Network.Name,
		"chainId":          a.Config.Network.ChainID.Uint64(),
		"contractAddress":  a.Config.ContractAddress.Hex(),
		"contractDeployed": a.Config.ContractDeployed(),
		"explorerUrl":      a.Config.Network.ExplorerURL,
		"walletInstallUrl": a.Config.WalletInstallURL,
	})
}

func (a *API) connectHandler(c *gin.Context) {
	address := a.Wallet.Connect(c.Request.Context())
	state := a.Wallet.State()
	if address == nil {
		status := http.StatusBadGateway
		if state.ShowInstallPrompt {
			status = http.StatusPreconditionFailed
		}
		c.JSON(status, gin.H{"wallet": state})
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": state})
}

func (a *API) disconnectHandler(c *gin.Context) {
	a.Wallet.Disconnect()
	c.JSON(http.StatusOK, gin.H{"wallet": a.Wallet.State()})
}

func (a *API) dismissInstallPromptHandler(c *gin.Context) {
	a.Wallet.DismissInstallPrompt()
	c.JSON(http.StatusOK, gin.H{"wallet": a.Wallet.State()})
}

func (a *API) supplyHandler(c *gin.Context) {
	if a.Supply == nil {
		renderError(c, http.StatusNotImplemented, "claim variant not configured")
		return
	}
	c.JSON(http.StatusOK, a.Supply.Refresh(c.Request.Context()))
}

func (a *API) availabilityHandler(c *gin.Context) {
	if a.Availability == nil {
		renderError(c, http.StatusNotImplemented, "purchase variant not configured")
		return
	}
	c.JSON(http.StatusOK, a.Availability.Refresh(c.Request.Context()))
}

func (a *API) claimHandler(c *gin.Context) {
	if a.Mint == nil {
		renderError(c, http.StatusNotImplemented, "claim variant not configured")
		return
	}
	result, err := a.Mint.Mint(c.Request.Context())
	if err != nil {
		renderError(c, http.StatusBadGateway, err.Error())
		return
	}
	if a.Supply != nil {
		a.Supply.Refresh(c.Request.Context())
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) claimStatusHandler(c *gin.Context) {
	if a.Mint == nil {
		renderError(c, http.StatusNotImplemented, "claim variant not configured")
		return
	}
	status := executorStatus(a.Mint.Phase(), a.Mint.Loading(), a.Mint.Err())
	if result := a.Mint.Result(); result != nil {
		status["result"] = result
	}
	c.JSON(http.StatusOK, status)
}

func (a *API) claimResetHandler(c *gin.Context) {
	if a.Mint == nil {
		renderError(c, http.StatusNotImplemented, "claim variant not configured")
		return
	}
	a.Mint.Reset()
	c.JSON(http.StatusOK, gin.H{"phase": a.Mint.Phase()})
}

type purchaseRequest struct {
	NFTType int    `json:"nftType" binding:"required"`
	Price   string `json:"price" binding:"required"`
	Buyer   string `json:"buyer"`
}

func (a *API) purchaseHandler(c *gin.Context) {
	if a.Purchase == nil {
		renderError(c, http.StatusNotImplemented, "purchase variant not configured")
		return
	}

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, http.StatusBadRequest, err.Error())
		return
	}

	var buyer common.Address
	switch {
	case req.Buyer != "":
		if !common.IsHexAddress(req.Buyer) {
			renderError(c, http.StatusBadRequest, "invalid buyer address")
			return
		}
		buyer = common.HexToAddress(req.Buyer)
	default:
		state := a.Wallet.State()
		if !state.IsConnected {
			renderError(c, http.StatusPreconditionFailed, ErrNotConnected.Error())
			return
		}
		buyer = *state.Address
	}

	result, err := a.Purchase.PurchaseNFT(c.Request.Context(), req.NFTType, req.Price, buyer)
	if err != nil {
		renderError(c, http.StatusBadGateway, err.Error())
		return
	}
	if a.Availability != nil {
		a.Availability.Refresh(c.Request.Context())
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) purchaseStatusHandler(c *gin.Context) {
	if a.Purchase == nil {
		renderError(c, http.StatusNotImplemented, "purchase variant not configured")
		return
	}
	status := executorStatus(a.Purchase.Phase(), a.Purchase.Loading(), a.Purchase.Err())
	if result := a.Purchase.Result(); result != nil {
		status["result"] = result
	}
	c.JSON(http.StatusOK, status)
}

func (a *API) purchaseResetHandler(c *gin.Context) {
	if a.Purchase == nil {
		renderError(c, http.StatusNotImplemented, "purchase variant not configured")
		return
	}
	a.Purchase.Reset()
	c.JSON(http.StatusOK, gin.H{"phase": a.Purchase.Phase()})
}

func executorStatus(phase Phase, loading bool, err error) gin.H {
	status := gin.H{
		"phase":   phase,
		"loading": loading,
	}
	if err != nil {
		status["error"] = err.Error()
	}
	return status
}
