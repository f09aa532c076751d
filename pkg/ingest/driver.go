// Package ingest fans a per-mint pool inventory out across every AMM family,
// refreshes each pool's live price, and replaces that mint's edge set in the
// shared price graph.
package ingest

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/solana-arb/engine/pkg/arb"
	"github.com/solana-arb/engine/pkg/arberr"
	"github.com/solana-arb/engine/pkg/graph"
	"github.com/solana-arb/engine/pkg/poolstate"
	"github.com/solana-arb/engine/pkg/price"
)

// maxConcurrentFamilies bounds how many AMM families a single mint's tick
// processes at once. There are 15 families; this keeps a single mint's fan-out
// from starving the RPC rate limiter that every family goroutine shares.
const maxConcurrentFamilies = 8

// AccountFetcher is the read-only subset of sol.Client the ingestion driver
// needs. Defining it here (rather than depending on *sol.Client directly)
// keeps the driver testable with a fake.
type AccountFetcher interface {
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	GetMultipleAccountsWithOpts(ctx context.Context, accounts []solana.PublicKey) (*rpc.GetMultipleAccountsResult, error)
}

// Driver refreshes one mint's pool edges per tick.
type Driver struct {
	fetcher AccountFetcher
	graph   *graph.PriceGraph
	logger  *zap.Logger
}

// NewDriver builds a Driver. A nil logger installs a no-op logger.
func NewDriver(fetcher AccountFetcher, g *graph.PriceGraph, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{fetcher: fetcher, graph: g, logger: logger}
}

// IngestMint refreshes every family of pools in data and replaces the
// mint's edge list in the graph with whatever priced successfully. A
// per-pool failure is logged and that pool is dropped; only a fetcher-level
// fault across every family aborts the tick.
func (d *Driver) IngestMint(ctx context.Context, data arb.MintPoolData) error {
	type familyResult struct {
		edges []graph.Edge
		err   error
	}

	families := []func(context.Context) ([]graph.Edge, error){
		func(ctx context.Context) ([]graph.Edge, error) {
			return d.processVaultPairPools(ctx, data.RaydiumV4Pools, arb.DexRaydiumV4, data.TokenProgram)
		},
		func(ctx context.Context) ([]graph.Edge, error) {
			return d.processVaultPairPools(ctx, data.RaydiumCPPools, arb.DexRaydiumCP, data.TokenProgram)
		},
		func(ctx context.Context) ([]graph.Edge, error) {
			return d.processVaultPairPools(ctx, data.PumpPools, arb.DexPump, data.TokenProgram)
		},
		func(ctx context.Context) ([]graph.Edge, error) {
			return d.processVaultPairPools(ctx, data.MeteoraDAMMPools, arb.DexMeteoraDAMM, data.TokenProgram)
		},
		func(ctx context.Context) ([]graph.Edge, error) {
			return d.processVaultPairPools(ctx, data.MeteoraDAMMv2Pools, arb.DexMeteoraDAMMv2, data.TokenProgram)
		},
		func(ctx context.Context) ([]graph.Edge, error) {
			return d.processVaultPairPools(ctx, data.VertigoPools, arb.DexVertigo, data.TokenProgram)
		},
		func(ctx context.Context) ([]graph.Edge, error) {
			return d.processVaultPairPools(ctx, data.HumidifiPools, arb.DexHumidifi, data.TokenProgram)
		},
		func(ctx context.Context) ([]graph.Edge, error) {
			return d.processVaultPairPools(ctx, data.SolfiPools, arb.DexSolfi, data.TokenProgram)
		},
		func(ctx context.Context) ([]graph.Edge, error) {
			return d.processDAOPools(ctx, data.FutarchyPools, data.TokenProgram)
		},
		func(ctx context.Context) ([]graph.Edge, error) {
			return d.processCLMMPools(ctx, data.RaydiumCLMMPools, arb.DexRaydiumCLMM, data.TokenProgram)
		},
		func(ctx context.Context) ([]graph.Edge, error) {
			return d.processCLMMPools(ctx, data.WhirlpoolPools, arb.DexWhirlpool, data.TokenProgram)
		},
		func(ctx context.Context) ([]graph.Edge, error) {
			return d.processCLMMFork(ctx, data.PancakeSwapPools, arb.DexPancakeSwap, poolstate.PancakeSwapCLMMProgramID, data.TokenProgram)
		},
		func(ctx context.Context) ([]graph.Edge, error) {
			return d.processCLMMFork(ctx, data.ByrealPools, arb.DexByreal, poolstate.ByrealProgramID, data.TokenProgram)
		},
		func(ctx context.Context) ([]graph.Edge, error) {
			return d.processDLMMPairs(ctx, data.DLMMPairs, data.TokenProgram)
		},
		func(ctx context.Context) ([]graph.Edge, error) {
			return d.processHeavenPools(ctx, data.HeavenPools, data.TokenProgram)
		},
	}

	results := make([]familyResult, len(families))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFamilies)
	for i, fn := range families {
		i, fn := i, fn
		g.Go(func() error {
			edges, err := fn(ctx)
			results[i] = familyResult{edges: edges, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var allEdges []graph.Edge
	inverseByNative := make(map[solana.PublicKey][]graph.Edge)
	faults := 0
	for _, r := range results {
		if r.err != nil {
			faults++
			d.logger.Warn("family ingestion failed", zap.String("mint", data.Mint.String()), zap.Error(r.err))
			continue
		}
		for _, e := range r.edges {
			e.Payload.InverseFeeBps = e.Payload.FeeBps
			allEdges = append(allEdges, e)
			inverseByNative[e.ToMint] = append(inverseByNative[e.ToMint], graph.Edge{
				ToMint: data.Mint,
				Payload: arb.PoolEdge{
					PoolID:        e.Payload.PoolID,
					DexKind:       e.Payload.DexKind,
					Price:         invertPrice(e.Payload.Price),
					LiquidityUSD:  e.Payload.LiquidityUSD,
					FeeBps:        e.Payload.FeeBps,
					InverseFeeBps: e.Payload.FeeBps,
					TokenProgram:  e.Payload.TokenProgram,
				},
			})
		}
	}
	if faults == len(families) {
		return arberr.Wrap(arberr.CategoryTransport, arberr.ErrEmptyMarketList)
	}

	// Forward edges live entirely under data.Mint, so a wholesale replace is
	// safe here. The native mint's bucket is shared across every other
	// mint's ingestion pass, so its inverse edges are replaced scoped to
	// (native, data.Mint) pairs rather than clobbering the whole bucket.
	d.graph.ReplaceMint(data.Mint, allEdges)
	for native, edges := range inverseByNative {
		d.graph.ReplaceEdgesBetween(native, data.Mint, edges)
	}
	return nil
}

// invertPrice returns the reciprocal of a forward swap price for the
// opposite direction's edge. A non-positive price has no sane reciprocal
// and yields a zero-price edge, which the detector's positive-rate relaxation
// will simply never select.
func invertPrice(price float64) float64 {
	if price <= 0 {
		return 0
	}
	return 1 / price
}

// vaultAccount is the reserve balance and owning mint of one SPL token
// vault, both read from the same fetched account buffer.
type vaultAccount struct {
	reserve uint64
	mint    solana.PublicKey
}

func (d *Driver) fetchVaultAccounts(ctx context.Context, accounts []solana.PublicKey) (map[solana.PublicKey]vaultAccount, error) {
	if len(accounts) == 0 {
		return nil, nil
	}
	result, err := d.fetcher.GetMultipleAccountsWithOpts(ctx, accounts)
	if err != nil {
		return nil, arberr.Wrap(arberr.CategoryTransport, err)
	}
	out := make(map[solana.PublicKey]vaultAccount, len(accounts))
	for i, account := range result.Value {
		if account == nil {
			continue
		}
		data := account.Data.GetBinary()
		out[accounts[i]] = vaultAccount{reserve: poolstate.ReadTokenReserve(data), mint: poolstate.ReadTokenMint(data)}
	}
	return out, nil
}

func (d *Driver) processVaultPairPools(ctx context.Context, pools []arb.VaultPairRef, kind arb.DexKind, tokenProgram solana.PublicKey) ([]graph.Edge, error) {
	if len(pools) == 0 {
		return nil, nil
	}
	accounts := make([]solana.PublicKey, 0, len(pools)*2)
	for _, p := range pools {
		accounts = append(accounts, p.TokenVault, p.NativeVault)
	}
	vaults, err := d.fetchVaultAccounts(ctx, accounts)
	if err != nil {
		return nil, err
	}

	edges := make([]graph.Edge, 0, len(pools))
	for _, p := range pools {
		tokenVault := vaults[p.TokenVault]
		nativeVault := vaults[p.NativeVault]
		if nativeVault.reserve == 0 {
			d.logger.Debug("skipping pool with zero native reserve", zap.String("pool", p.Pool.String()))
			continue
		}
		edges = append(edges, graph.Edge{
			ToMint: nativeVault.mint,
			Payload: arb.PoolEdge{
				PoolID:       p.Pool,
				DexKind:      kind,
				Price:        price.ConstantProduct(tokenVault.reserve, nativeVault.reserve),
				LiquidityUSD: float64(nativeVault.reserve) / 1e9 * arb.RefPriceUSD,
				FeeBps:       kind.FeeBps(),
				TokenProgram: tokenProgram,
			},
		})
	}
	return edges, nil
}

func (d *Driver) processDAOPools(ctx context.Context, pools []arb.DAORef, tokenProgram solana.PublicKey) ([]graph.Edge, error) {
	if len(pools) == 0 {
		return nil, nil
	}
	vaultPairs := make([]arb.VaultPairRef, 0, len(pools))
	for _, p := range pools {
		vaultPairs = append(vaultPairs, arb.VaultPairRef{Pool: p.DAO, TokenVault: p.TokenVault, NativeVault: p.NativeVault})
	}
	return d.processVaultPairPools(ctx, vaultPairs, arb.DexFutarchy, tokenProgram)
}

func (d *Driver) processCLMMPools(ctx context.Context, pools []arb.StateRef, kind arb.DexKind, tokenProgram solana.PublicKey) ([]graph.Edge, error) {
	edges := make([]graph.Edge, 0, len(pools))
	for _, p := range pools {
		result, err := d.fetcher.GetAccountInfoWithOpts(ctx, p.Pool)
		if err != nil || result == nil || result.Value == nil {
			d.logger.Debug("skipping unreadable clmm pool", zap.String("pool", p.Pool.String()))
			continue
		}
		data := result.Value.Data.GetBinary()
		if len(data) > 8 {
			data = data[8:]
		}
		var layout *poolstate.RaydiumCLMMLayout
		if kind == arb.DexWhirlpool {
			wp, err := poolstate.DecodeOrcaWhirlpool(result.Value.Data.GetBinary())
			if err != nil {
				continue
			}
			layout = &poolstate.RaydiumCLMMLayout{SqrtPriceX64: wp.SqrtPriceX64, TickCurrent: wp.TickCurrent}
		} else {
			layout, err = poolstate.DecodeRaydiumCLMM(data)
			if err != nil {
				continue
			}
		}
		edges = append(edges, graph.Edge{
			ToMint: poolstate.WrappedSOLMint,
			Payload: arb.PoolEdge{
				PoolID:       p.Pool,
				DexKind:      kind,
				Price:        price.CLMM(layout.SqrtPriceX64),
				FeeBps:       kind.FeeBps(),
				TokenProgram: tokenProgram,
			},
		})
	}
	return edges, nil
}

func (d *Driver) processCLMMFork(ctx context.Context, pools []arb.StateRef, kind arb.DexKind, expectedProgram solana.PublicKey, tokenProgram solana.PublicKey) ([]graph.Edge, error) {
	edges := make([]graph.Edge, 0, len(pools))
	for _, p := range pools {
		result, err := d.fetcher.GetAccountInfoWithOpts(ctx, p.Pool)
		if err != nil || result == nil || result.Value == nil {
			continue
		}
		data := result.Value.Data.GetBinary()
		if len(data) > 8 {
			data = data[8:]
		}
		layout, err := poolstate.DecodeCLMMFork(result.Value.Owner, expectedProgram, data)
		if err != nil {
			d.logger.Debug("skipping clmm fork pool", zap.String("pool", p.Pool.String()), zap.Error(err))
			continue
		}
		edges = append(edges, graph.Edge{
			ToMint: poolstate.WrappedSOLMint,
			Payload: arb.PoolEdge{
				PoolID:       p.Pool,
				DexKind:      kind,
				Price:        price.CLMM(layout.SqrtPriceX64),
				FeeBps:       kind.FeeBps(),
				TokenProgram: tokenProgram,
			},
		})
	}
	return edges, nil
}

func (d *Driver) processDLMMPairs(ctx context.Context, pools []arb.StateRef, tokenProgram solana.PublicKey) ([]graph.Edge, error) {
	edges := make([]graph.Edge, 0, len(pools))
	for _, p := range pools {
		result, err := d.fetcher.GetAccountInfoWithOpts(ctx, p.Pool)
		if err != nil || result == nil || result.Value == nil {
			continue
		}
		layout, err := poolstate.DecodeMeteoraDLMM(result.Value.Data.GetBinary())
		if err != nil {
			continue
		}
		edges = append(edges, graph.Edge{
			ToMint: poolstate.WrappedSOLMint,
			Payload: arb.PoolEdge{
				PoolID:       p.Pool,
				DexKind:      arb.DexMeteoraDLMM,
				Price:        price.DynamicBin(layout.BinStep, layout.ActiveID),
				FeeBps:       arb.DexMeteoraDLMM.FeeBps(),
				TokenProgram: tokenProgram,
			},
		})
	}
	return edges, nil
}

func (d *Driver) processHeavenPools(ctx context.Context, pools []arb.HeavenRef, tokenProgram solana.PublicKey) ([]graph.Edge, error) {
	edges := make([]graph.Edge, 0, len(pools))
	for _, p := range pools {
		result, err := d.fetcher.GetAccountInfoWithOpts(ctx, p.Pool)
		if err != nil || result == nil || result.Value == nil {
			continue
		}
		layout, err := poolstate.DecodeHeaven(result.Value.Data.GetBinary())
		if err != nil || layout.ReserveA == 0 {
			continue
		}
		edges = append(edges, graph.Edge{
			ToMint: p.BaseMint,
			Payload: arb.PoolEdge{
				PoolID:       p.Pool,
				DexKind:      arb.DexHeaven,
				Price:        price.ConstantProduct(layout.ReserveA, layout.ReserveB),
				FeeBps:       arb.DexHeaven.FeeBps(),
				TokenProgram: tokenProgram,
			},
		})
	}
	return edges, nil
}
