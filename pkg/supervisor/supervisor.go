// Package supervisor wires the ingestion driver, cycle detector, amount
// optimizer, and discovery engine into the bot's long-running process: one
// synchronous discovery pass at startup, a background goroutine refreshing
// the market list every 15 minutes, and a 60-second main loop that ingests,
// detects, optimizes, and simulates against whatever market list is
// current at the top of that tick.
package supervisor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/solana-arb/engine/pkg/arb"
	"github.com/solana-arb/engine/pkg/discovery"
	"github.com/solana-arb/engine/pkg/graph"
	"github.com/solana-arb/engine/pkg/ingest"
	"github.com/solana-arb/engine/pkg/poolstate"
)

const (
	mainLoopInterval      = 60 * time.Second
	discoveryLoopInterval = 15 * time.Minute

	detectMinHops         = 2
	detectMaxHops         = 5
	detectMinProfitBps    = 50
	optimizeMaxCapital    = 2_000_000_000
	optimizeCapitalPct    = 20
	optimizeMinProfitLamp = 500_000
)

// Config tunes a Supervisor's run cadence and capital bounds. Loading it
// from env/file/flags is out of scope; callers construct it directly.
type Config struct {
	StartMint          solana.PublicKey
	StaticMarkets      []solana.PublicKey
	MainLoopInterval   time.Duration
	DiscoveryInterval  time.Duration
	MaxCapitalLamports int64
	CapitalPercent     int64
	MinProfitLamports  int64
}

// DefaultConfig returns a Config seeded with the prototype's constants,
// rooted at wrapped SOL.
func DefaultConfig() Config {
	return Config{
		StartMint:          poolstate.WrappedSOLMint,
		MainLoopInterval:   mainLoopInterval,
		DiscoveryInterval:  discoveryLoopInterval,
		MaxCapitalLamports: optimizeMaxCapital,
		CapitalPercent:     optimizeCapitalPct,
		MinProfitLamports:  optimizeMinProfitLamp,
	}
}

// Supervisor owns the process's long-running loops.
type Supervisor struct {
	cfg       Config
	graph     *graph.PriceGraph
	driver    *ingest.Driver
	registry  *Registry
	optimizer *arb.AmountOptimizer
	simulator *arb.Simulator
	discovery *discovery.Engine
	logger    *zap.Logger

	markets atomic.Pointer[[]solana.PublicKey]
}

// New builds a Supervisor. discoveryEngine may be nil, in which case the
// market list never refreshes beyond cfg.StaticMarkets.
func New(cfg Config, fetcher ingest.AccountFetcher, discoveryEngine *discovery.Engine, logger *zap.Logger) *Supervisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := graph.New()
	s := &Supervisor{
		cfg:       cfg,
		graph:     g,
		driver:    ingest.NewDriver(fetcher, g, logger),
		registry:  NewRegistry(fetcher, logger),
		optimizer: arb.NewAmountOptimizer(g, logger),
		simulator: arb.NewSimulator(),
		discovery: discoveryEngine,
		logger:    logger,
	}
	s.markets.Store(&cfg.StaticMarkets)
	return s
}

// Run blocks until ctx is canceled, running the startup discovery pass,
// the background discovery loop, and the 60-second main loop.
func (s *Supervisor) Run(ctx context.Context) error {
	s.bootstrapMarkets(ctx)

	discoveryDone := make(chan struct{})
	go func() {
		defer close(discoveryDone)
		s.discoveryLoop(ctx)
	}()

	s.mainLoop(ctx)
	<-discoveryDone
	return ctx.Err()
}

// bootstrapMarkets runs one synchronous discovery pass at startup. On
// failure it logs and falls back to the configured static market list,
// already installed by New.
func (s *Supervisor) bootstrapMarkets(ctx context.Context) {
	if s.discovery == nil {
		s.logger.Info("no discovery engine configured, using static market list",
			zap.Int("markets", len(s.cfg.StaticMarkets)))
		return
	}
	if err := s.refreshMarkets(ctx); err != nil {
		s.logger.Warn("startup discovery failed, falling back to static market list",
			zap.Error(err), zap.Int("static_markets", len(s.cfg.StaticMarkets)))
	}
}

func (s *Supervisor) discoveryLoop(ctx context.Context) {
	if s.discovery == nil {
		return
	}
	ticker := time.NewTicker(s.cfg.DiscoveryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.refreshMarkets(ctx); err != nil {
				s.logger.Warn("periodic discovery failed, keeping current market list", zap.Error(err))
			}
		}
	}
}

func (s *Supervisor) refreshMarkets(ctx context.Context) error {
	results, err := s.discovery.RunDiscovery(ctx)
	if err != nil {
		return err
	}
	if err := s.discovery.SaveResults(results); err != nil {
		s.logger.Warn("failed to persist discovery results", zap.Error(err))
	}
	markets := discovery.ConvertToMarkets(results)
	keys := make([]solana.PublicKey, 0, len(markets))
	for _, addr := range markets {
		key, err := solana.PublicKeyFromBase58(addr)
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}
	s.markets.Store(&keys)
	s.logger.Info("market list refreshed", zap.Int("markets", len(keys)))
	return nil
}

func (s *Supervisor) mainLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.MainLoopInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick reads the current market list once, rebuilds the inventory and
// ingests every mint, then runs detection, optimization, and the
// simulation stub over whatever cycles surface.
func (s *Supervisor) tick(ctx context.Context) {
	marketsPtr := s.markets.Load()
	if marketsPtr == nil || len(*marketsPtr) == 0 {
		s.logger.Warn("tick skipped: empty market list")
		return
	}
	markets := *marketsPtr

	inventory, err := s.registry.Build(ctx, markets)
	if err != nil {
		s.logger.Warn("tick aborted: failed to classify market list", zap.Error(err))
		return
	}

	for mint, data := range inventory {
		if err := s.driver.IngestMint(ctx, *data); err != nil {
			s.logger.Warn("mint ingestion failed", zap.String("mint", mint.String()), zap.Error(err))
		}
	}

	cycles := arb.FindNegativeCycles(s.graph, s.cfg.StartMint, detectMinHops, detectMaxHops, detectMinProfitBps)
	for i := range cycles {
		cycle := &cycles[i]
		if _, ok := s.optimizer.OptimizeAmount(cycle, s.cfg.MaxCapitalLamports, s.cfg.CapitalPercent, s.cfg.MinProfitLamports); !ok {
			continue
		}
		result := s.simulator.Simulate(cycle)
		if !result.Success {
			continue
		}
		s.logger.Info("profitable cycle detected",
			zap.Int("hops", cycle.TotalHops),
			zap.Int64("profit_bps", cycle.TotalProfitBps),
			zap.Int64("profit_lamports", result.ActualProfitLamports),
			zap.Int64("compute_units", result.ComputeUnits))
	}
}
