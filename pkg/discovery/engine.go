package discovery

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/solana-arb/engine/pkg/poolstate"
)

// concurrentVerifications bounds how many tokens are resolved against
// Dexscreener and verified on-chain at once.
const concurrentVerifications = 5

// rpcVerifyDelay is the pause after each on-chain ownership check, matching
// the prototype's fixed inter-request spacing on top of the rate limiter
// already enforced by the RPC client itself.
const rpcVerifyDelay = 200 * time.Millisecond

// AccountOwnerFetcher is the minimal capability discovery needs from an RPC
// client: read an account's owning program.
type AccountOwnerFetcher interface {
	GetAccountOwner(ctx context.Context, account solana.PublicKey) (solana.PublicKey, error)
}

// Engine runs the harvest → dedupe → resolve → verify → filter → emit
// pipeline that produces a DiscoveredPools document.
type Engine struct {
	gecko   *GeckoClient
	dex     *DexscreenerClient
	fetcher AccountOwnerFetcher
	config  Config
	logger  *zap.Logger
}

// NewEngine builds an Engine. A nil logger installs a no-op logger.
func NewEngine(gecko *GeckoClient, dex *DexscreenerClient, fetcher AccountOwnerFetcher, config Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{gecko: gecko, dex: dex, fetcher: fetcher, config: config, logger: logger}
}

// RunDiscovery executes one full discovery pass and returns the resulting
// document without writing it to disk; callers that want persistence call
// SaveResults separately.
func (e *Engine) RunDiscovery(ctx context.Context) (*DiscoveredPools, error) {
	trending, err := e.gecko.FetchPools(ctx, "networks/"+solanaNetwork+"/trending_pools")
	if err != nil {
		return nil, err
	}
	top, err := e.gecko.FetchPools(ctx, "networks/"+solanaNetwork+"/pools")
	if err != nil {
		return nil, err
	}

	candidates := dedupeTokens(append(trending, top...))
	e.logger.Info("discovery harvested candidate tokens", zap.Int("count", len(candidates)))

	results := make([]*DiscoveredToken, len(candidates))
	sem := semaphore.NewWeighted(concurrentVerifications)
	var wg sync.WaitGroup
	for i, token := range candidates {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			defer sem.Release(1)
			found, err := e.resolveToken(ctx, token)
			if err != nil {
				e.logger.Debug("token resolution failed", zap.String("token", token), zap.Error(err))
				return
			}
			results[i] = found
		}(i, token)
	}
	wg.Wait()

	var tokens []DiscoveredToken
	for _, r := range results {
		if r != nil && len(r.Pools) >= 2 {
			tokens = append(tokens, *r)
		}
	}
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].TotalLiquidity > tokens[j].TotalLiquidity
	})

	out := &DiscoveredPools{
		Timestamp:  time.Now().Unix(),
		TokenCount: len(tokens),
		Tokens:     tokens,
	}
	e.logger.Info("discovery run complete", zap.Int("token_count", out.TokenCount))
	return out, nil
}

func dedupeTokens(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, addr := range raw {
		addr = strings.TrimPrefix(addr, "solana_")
		if addr == "" || seen[addr] {
			continue
		}
		if isDenylistedAddress(addr) {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}

// isDenylistedAddress decodes addr as raw base58 first, rejecting anything
// that isn't a well-formed 32-byte key before paying for the solana-go
// typed parse.
func isDenylistedAddress(addr string) bool {
	raw, err := base58.Decode(addr)
	if err != nil || len(raw) != solana.PublicKeyLength {
		return true
	}
	return poolstate.IsDenylisted(solana.PublicKeyFromBytes(raw))
}

func (e *Engine) resolveToken(ctx context.Context, tokenAddr string) (*DiscoveredToken, error) {
	pairs, err := e.dex.FetchPairs(ctx, tokenAddr)
	if err != nil {
		return nil, err
	}

	var verified []DiscoveredPool
	tokenName, tokenSymbol := "Unknown", "UNK"

	for _, pair := range pairs {
		solSide, name, symbol, ok := classifySolPair(pair)
		if !ok {
			continue
		}
		tokenName, tokenSymbol = name, symbol

		pairKey, err := solana.PublicKeyFromBase58(pair.PairAddress)
		if err != nil {
			continue
		}
		owner, err := e.fetcher.GetAccountOwner(ctx, pairKey)
		if err != nil {
			continue
		}
		time.Sleep(rpcVerifyDelay)
		if !poolstate.IsWhitelistedProgram(owner) {
			continue
		}

		liq, vol := 0.0, 0.0
		if pair.Liquidity != nil {
			liq = pair.Liquidity.USD
		}
		if pair.Volume != nil {
			vol = pair.Volume.H24
		}
		if liq < e.config.MinLiquidityUSD || vol < e.config.MinVolumeH24 {
			continue
		}

		verified = append(verified, DiscoveredPool{
			PoolAddress:  pair.PairAddress,
			DexType:      ownerDexType(owner),
			ProgramID:    owner.String(),
			LiquidityUSD: liq,
			VolumeH24:    vol,
			SolSide:      solSide,
		})
	}

	if len(verified) < 2 {
		return nil, nil
	}
	sort.Slice(verified, func(i, j int) bool { return verified[i].LiquidityUSD > verified[j].LiquidityUSD })

	total := 0.0
	for _, p := range verified {
		total += p.LiquidityUSD
	}

	return &DiscoveredToken{
		TokenAddress:   tokenAddr,
		TokenName:      tokenName,
		TokenSymbol:    tokenSymbol,
		TotalLiquidity: total,
		Pools:          verified,
	}, nil
}

// classifySolPair reports whether pair has wrapped SOL on one side, which
// side it's on, and the pair's base-token display name/symbol (defaulting to
// "Unknown"/"UNK" when absent).
func classifySolPair(pair DexscreenerPair) (solSide, name, symbol string, ok bool) {
	if pair.BaseToken == nil || pair.QuoteToken == nil {
		return "", "", "", false
	}
	name = orDefault(pair.BaseToken.Name, "Unknown")
	symbol = orDefault(pair.BaseToken.Symbol, "UNK")
	switch {
	case pair.BaseToken.Address == poolstate.WrappedSOLMint.String():
		return "base", name, symbol, true
	case pair.QuoteToken.Address == poolstate.WrappedSOLMint.String():
		return "quote", name, symbol, true
	default:
		return "", "", "", false
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func ownerDexType(owner solana.PublicKey) string {
	switch owner {
	case poolstate.RaydiumV4ProgramID:
		return "raydium-v4"
	case poolstate.RaydiumCLMMProgramID:
		return "raydium-clmm"
	case poolstate.RaydiumCPProgramID:
		return "raydium-cp"
	case poolstate.MeteoraDLMMProgramID:
		return "meteora-dlmm"
	case poolstate.MeteoraDAMMProgramID:
		return "meteora-damm-v2"
	case poolstate.OrcaWhirlpoolProgramID:
		return "orca-whirlpool"
	case poolstate.PumpAMMProgramID:
		return "pump"
	default:
		return "unknown"
	}
}

// SaveResults writes results to the engine's configured output file via a
// write-to-temp-then-rename, so a reader never observes a partially written
// document.
func (e *Engine) SaveResults(results *DiscoveredPools) error {
	body, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(e.config.OutputFile)
	tmp, err := os.CreateTemp(dir, ".discovered_pools-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, e.config.OutputFile)
}

// LoadResults reads a previously saved DiscoveredPools document, returning
// (nil, nil) if no file exists yet.
func (e *Engine) LoadResults() (*DiscoveredPools, error) {
	body, err := os.ReadFile(e.config.OutputFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out DiscoveredPools
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConvertToMarkets flattens a DiscoveredPools document into the flat pool
// address list the supervisor uses as its market list.
func ConvertToMarkets(pools *DiscoveredPools) []string {
	var out []string
	for _, token := range pools.Tokens {
		for _, pool := range token.Pools {
			out = append(out, pool.PoolAddress)
		}
	}
	return out
}
