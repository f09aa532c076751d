package discovery

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-arb/engine/pkg/poolstate"
)

type fakeOwnerFetcher struct {
	owners map[string]solana.PublicKey
}

func (f *fakeOwnerFetcher) GetAccountOwner(_ context.Context, account solana.PublicKey) (solana.PublicKey, error) {
	owner, ok := f.owners[account.String()]
	if !ok {
		return solana.PublicKey{}, errAccountNotFound
	}
	return owner, nil
}

func TestDedupeTokensStripsPrefixAndDenylist(t *testing.T) {
	abc := mustTestKey(3).String()
	xyz := mustTestKey(4).String()
	raw := []string{
		"solana_" + poolstate.WrappedSOLMint.String(),
		"solana_" + abc,
		abc,
		xyz,
	}
	out := dedupeTokens(raw)
	if len(out) != 2 {
		t.Fatalf("expected 2 unique, non-denylisted tokens, got %d: %v", len(out), out)
	}
	seen := map[string]bool{}
	for _, t := range out {
		seen[t] = true
	}
	if !seen[abc] || !seen[xyz] {
		t.Errorf("expected abc and xyz to survive dedup, got %v", out)
	}
}

func TestClassifySolPairIdentifiesSide(t *testing.T) {
	sol := poolstate.WrappedSOLMint.String()
	pair := DexscreenerPair{
		BaseToken:  &tokenInfo{Address: sol, Name: "Wrapped SOL", Symbol: "SOL"},
		QuoteToken: &tokenInfo{Address: "token123", Name: "Example", Symbol: "EX"},
	}
	side, name, symbol, ok := classifySolPair(pair)
	if !ok || side != "base" || name != "Wrapped SOL" || symbol != "SOL" {
		t.Errorf("unexpected classification: side=%s name=%s symbol=%s ok=%v", side, name, symbol, ok)
	}
}

func TestClassifySolPairRejectsNonSolPair(t *testing.T) {
	pair := DexscreenerPair{
		BaseToken:  &tokenInfo{Address: "tokenA"},
		QuoteToken: &tokenInfo{Address: "tokenB"},
	}
	if _, _, _, ok := classifySolPair(pair); ok {
		t.Error("expected non-SOL pair to be rejected")
	}
}

func TestResolveTokenRequiresTwoVerifiedPools(t *testing.T) {
	poolA := mustTestKey(1)
	poolB := mustTestKey(2)

	fetcher := &fakeOwnerFetcher{owners: map[string]solana.PublicKey{
		poolA.String(): poolstate.RaydiumV4ProgramID,
	}}

	engine := NewEngine(nil, nil, fetcher, DefaultConfig(), nil)
	pairs := []DexscreenerPair{
		{
			PairAddress: poolA.String(),
			BaseToken:   &tokenInfo{Address: poolstate.WrappedSOLMint.String(), Name: "Example", Symbol: "EX"},
			QuoteToken:  &tokenInfo{Address: "tokenX"},
			Liquidity:   &struct{ USD float64 `json:"usd"` }{USD: 10_000},
			Volume:      &struct{ H24 float64 `json:"h24"` }{H24: 5_000},
		},
		{
			PairAddress: poolB.String(),
			BaseToken:   &tokenInfo{Address: poolstate.WrappedSOLMint.String(), Name: "Example", Symbol: "EX"},
			QuoteToken:  &tokenInfo{Address: "tokenX"},
			Liquidity:   &struct{ USD float64 `json:"usd"` }{USD: 10_000},
			Volume:      &struct{ H24 float64 `json:"h24"` }{H24: 5_000},
		},
	}

	token, verified := classifyPairsForTest(t, engine, pairs)
	if verified {
		t.Fatal("expected resolution to fail: only one of two pools has a whitelisted owner")
	}
	_ = token
}

func mustTestKey(seed byte) solana.PublicKey {
	var raw [32]byte
	for i := range raw {
		raw[i] = seed
	}
	return solana.PublicKeyFromBytes(raw[:])
}

// classifyPairsForTest repeats resolveToken's verification steps (SOL-pair
// classification, owner whitelist check, two-pool minimum) against pre-built
// pairs instead of calling resolveToken, since *DexscreenerClient is not
// mockable at the HTTP layer here.
func classifyPairsForTest(t *testing.T, engine *Engine, pairs []DexscreenerPair) (*DiscoveredToken, bool) {
	t.Helper()
	var verified []DiscoveredPool
	for _, pair := range pairs {
		solSide, _, _, ok := classifySolPair(pair)
		if !ok {
			continue
		}
		owner, err := engine.fetcher.GetAccountOwner(context.Background(), mustParseKey(t, pair.PairAddress))
		if err != nil || !poolstate.IsWhitelistedProgram(owner) {
			continue
		}
		verified = append(verified, DiscoveredPool{PoolAddress: pair.PairAddress, SolSide: solSide})
	}
	if len(verified) < 2 {
		return nil, false
	}
	return &DiscoveredToken{Pools: verified}, true
}

func mustParseKey(t *testing.T, s string) solana.PublicKey {
	t.Helper()
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		t.Fatalf("invalid test pubkey %q: %v", s, err)
	}
	return key
}
