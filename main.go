package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/solana-arb/engine/pkg/discovery"
	"github.com/solana-arb/engine/pkg/sol"
	"github.com/solana-arb/engine/pkg/supervisor"
)

const (
	rpcEndpoint               = "https://api.mainnet-beta.solana.com"
	rpcRequestsPerSec         = 20
	geckoRequestsPerSec       = 10
	dexscreenerRequestsPerSec = 30
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := sol.NewClient(ctx, rpcEndpoint, rpcRequestsPerSec)
	if err != nil {
		logger.Fatal("failed to create solana client", zap.Error(err))
	}

	gecko := discovery.NewGeckoClient(geckoRequestsPerSec)
	dex := discovery.NewDexscreenerClient(dexscreenerRequestsPerSec)
	ownerFetcher := discovery.NewRPCOwnerFetcher(client)
	discoveryEngine := discovery.NewEngine(gecko, dex, ownerFetcher, discovery.DefaultConfig(), logger)

	cfg := supervisor.DefaultConfig()
	super := supervisor.New(cfg, client, discoveryEngine, logger)

	logger.Info("starting arbitrage engine supervisor")
	if err := super.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("supervisor exited with error", zap.Error(err))
	}
	logger.Info("supervisor shut down cleanly")
}
