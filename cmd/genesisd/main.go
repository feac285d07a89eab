// Copyright 2025 The genesis Authors
// This file is part of genesis.
//
// genesis is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// genesis is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with genesis. If not, see <http://www.gnu.org/licenses/>.

// genesisd boots the Genesis NFT demo service.
//
// It connects to the Avalanche Fuji C-Chain, wires up the NFT contract
// bindings and the Facinet facilitator client, and exposes the claim and
// purchase flows over HTTP.
//
// Usage:
//   genesisd --contract <address> [--rpc <endpoint>] [--keystore <dir>]
//            [--facilitator <url>] [--recipient <address>] [--listen <addr>]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/gin-gonic/gin"
	cli "gopkg.in/urfave/cli.v1"

	nftcontract "github.com/team1india/genesis/contracts/genesis"
	"github.com/team1india/genesis/genesis"
)

var (
	app = cli.NewApp()

	// Flags
	rpcFlag = cli.StringFlag{
		Name:  "rpc",
		Usage: "Avalanche C-Chain JSON-RPC endpoint (overrides RPC_URL)",
	}
	contractFlag = cli.StringFlag{
		Name:  "contract",
		Usage: "Deployed NFT contract address (overrides NFT_CONTRACT_ADDRESS)",
	}
	recipientFlag = cli.StringFlag{
		Name:  "recipient",
		Usage: "Payment recipient address for the purchase variant (overrides PAYMENT_RECIPIENT_ADDRESS)",
	}
	facilitatorFlag = cli.StringFlag{
		Name:  "facilitator",
		Usage: "Facinet facilitator base URL; enables the gasless purchase flow (overrides FACILITATOR_URL)",
	}
	keystoreFlag = cli.StringFlag{
		Name:  "keystore",
		Usage: "Keystore directory for the headless wallet (default: probe KEYSTORE_DIR, then ~/.genesis/keystore)",
	}
	listenFlag = cli.StringFlag{
		Name:  "listen",
		Usage: "HTTP listen address for the demo API",
		Value: ":8560",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "loglevel",
		Usage: "Log verbosity (trace, debug, info, warn, error, crit)",
		Value: "info",
	}
)

func init() {
	app.Name = "genesisd"
	app.Usage = "Genesis NFT claim/purchase demo service"
	app.Version = "0.1.0"
	app.Action = run
	app.Flags = []cli.Flag{
		rpcFlag,
		contractFlag,
		recipientFlag,
		facilitatorFlag,
		keystoreFlag,
		listenFlag,
		logLevelFlag,
	}
	app.Commands = []cli.Command{
		{
			Name:   "info",
			Usage:  "Print contract and supply information",
			Action: infoCmd,
			Flags: []cli.Flag{
				rpcFlag,
				contractFlag,
				logLevelFlag,
			},
		},
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(ctx *cli.Context) error {
	lvl, err := log.LvlFromString(ctx.String("loglevel"))
	if err != nil {
		return err
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.TerminalFormat(true))))
	return nil
}

func buildConfig(ctx *cli.Context) (*genesis.Config, error) {
	cfg := genesis.NewConfig()
	if rpc := ctx.GlobalString("rpc"); rpc != "" {
		cfg.Network.RPCURL = rpc
	}
	if addr := ctx.GlobalString("contract"); addr != "" {
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid --contract address: %s", addr)
		}
		cfg.ContractAddress = common.HexToAddress(addr)
	}
	if addr := ctx.GlobalString("recipient"); addr != "" {
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid --recipient address: %s", addr)
		}
		cfg.RecipientAddress = common.HexToAddress(addr)
	}
	if url := ctx.GlobalString("facilitator"); url != "" {
		cfg.FacilitatorURL = url
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}
	cfg, err := buildConfig(ctx)
	if err != nil {
		return err
	}

	if !cfg.ContractDeployed() {
		log.Warn("NFT contract address not configured, chain operations disabled")
	}

	client, err := ethclient.Dial(cfg.Network.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %v", cfg.Network.RPCURL, err)
	}
	defer client.Close()

	genesisNFT, err := nftcontract.NewGenesisNFT(nil, cfg.ContractAddress, client)
	if err != nil {
		return err
	}
	facinetNFT, err := nftcontract.NewFacinetNFT(nil, cfg.ContractAddress, client)
	if err != nil {
		return err
	}

	var probes []genesis.ProviderProbe
	if dir := ctx.GlobalString("keystore"); dir != "" {
		probes = append(probes, genesis.ProviderProbe{
			Name: "flag-keystore",
			Detect: func() genesis.Provider {
				return genesis.NewKeystoreProvider(dir, os.Getenv("KEYSTORE_PASSPHRASE"), cfg.Network)
			},
		})
	}
	wallet := genesis.NewConnector(cfg, probes...)
	defer wallet.Close()

	supply := genesis.NewSupplyReader(cfg, genesisNFT)
	availability := genesis.NewAvailabilityReader(cfg, facinetNFT)
	mint := genesis.NewMintExecutor(cfg, wallet, genesisNFT, client)

	var purchase *genesis.PurchaseExecutor
	if cfg.FacilitatorURL != "" {
		relay := genesis.NewFacinetClient(cfg.FacilitatorURL, cfg.FacilitatorNetwork)
		purchase = genesis.NewPurchaseExecutor(cfg, relay)
	} else {
		log.Warn("No facilitator URL configured, gasless purchase flow disabled")
	}

	// After a wallet chain change everything chain-dependent is re-read.
	wallet.OnResync(func() {
		supply.Refresh(context.Background())
		availability.Refresh(context.Background())
	})

	supply.Refresh(context.Background())
	availability.Refresh(context.Background())

	api := &genesis.API{
		Config:       cfg,
		Wallet:       wallet,
		Supply:       supply,
		Availability: availability,
		Mint:         mint,
		Purchase:     purchase,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.Install(router)

	log.Info("Genesis demo service starting",
		"rpc", cfg.Network.RPCURL,
		"contract", cfg.ContractAddress.Hex(),
		"facilitator", cfg.FacilitatorURL,
		"listen", ctx.String("listen"),
	)
	return router.Run(ctx.String("listen"))
}

func infoCmd(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}
	cfg, err := buildConfig(ctx)
	if err != nil {
		return err
	}
	if !cfg.ContractDeployed() {
		return fmt.Errorf("--contract flag (or NFT_CONTRACT_ADDRESS) is required")
	}

	client, err := ethclient.Dial(cfg.Network.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %v", cfg.Network.RPCURL, err)
	}
	defer client.Close()

	genesisNFT, err := nftcontract.NewGenesisNFT(nil, cfg.ContractAddress, client)
	if err != nil {
		return err
	}

	opts := &bind.CallOpts{Context: context.Background()}
	remaining, err := genesisNFT.RemainingSupply(opts)
	if err != nil {
		return fmt.Errorf("failed to read remaining supply: %v", err)
	}
	minted, err := genesisNFT.TotalMinted(opts)
	if err != nil {
		return fmt.Errorf("failed to read total minted: %v", err)
	}
	maxSupply, err := genesisNFT.MaxSupply(opts)
	if err != nil {
		return fmt.Errorf("failed to read max supply: %v", err)
	}

	log.Info("GenesisNFT contract info",
		"address", cfg.ContractAddress.Hex(),
		"network", cfg.Network.Name,
		"remaining", remaining,
		"minted", minted,
		"maxSupply", maxSupply,
	)
	return nil
}
