package ingest

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solana-arb/engine/pkg/arb"
	"github.com/solana-arb/engine/pkg/graph"
)

// fakeFetcher serves fixed account payloads keyed by pubkey, standing in
// for sol.Client in tests so no RPC endpoint is required.
type fakeFetcher struct {
	accounts map[solana.PublicKey]*rpc.Account
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{accounts: map[solana.PublicKey]*rpc.Account{}}
}

func (f *fakeFetcher) put(key solana.PublicKey, owner solana.PublicKey, data []byte) {
	f.accounts[key] = buildAccount(owner, data)
}

func buildAccount(owner solana.PublicKey, data []byte) *rpc.Account {
	payload := map[string]any{
		"lamports":   1,
		"owner":      owner.String(),
		"data":       []string{base64.StdEncoding.EncodeToString(data), "base64"},
		"executable": false,
		"rentEpoch":  0,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	var account rpc.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		panic(err)
	}
	return &account
}

func (f *fakeFetcher) GetAccountInfoWithOpts(_ context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	acc, ok := f.accounts[account]
	if !ok {
		return &rpc.GetAccountInfoResult{}, nil
	}
	return &rpc.GetAccountInfoResult{Value: acc}, nil
}

func (f *fakeFetcher) GetMultipleAccountsWithOpts(_ context.Context, accounts []solana.PublicKey) (*rpc.GetMultipleAccountsResult, error) {
	values := make([]*rpc.Account, len(accounts))
	for i, a := range accounts {
		values[i] = f.accounts[a]
	}
	return &rpc.GetMultipleAccountsResult{Value: values}, nil
}

func tokenAccountData(mint solana.PublicKey, amount uint64) []byte {
	data := make([]byte, 72)
	copy(data[0:32], mint[:])
	binary.LittleEndian.PutUint64(data[64:72], amount)
	return data
}

func fixedPubkey(seed byte) solana.PublicKey {
	var raw [32]byte
	for i := range raw {
		raw[i] = seed
	}
	return solana.PublicKeyFromBytes(raw[:])
}

func TestIngestMintVaultPairPricing(t *testing.T) {
	mint := fixedPubkey(1)
	nativeMint := fixedPubkey(2)
	pool := fixedPubkey(3)
	tokenVault := fixedPubkey(4)
	nativeVault := fixedPubkey(5)

	fetcher := newFakeFetcher()
	fetcher.put(tokenVault, solana.PublicKey{}, tokenAccountData(mint, 500_000))
	fetcher.put(nativeVault, solana.PublicKey{}, tokenAccountData(nativeMint, 1_000_000))

	g := graph.New()
	driver := NewDriver(fetcher, g, nil)

	data := arb.MintPoolData{
		Mint: mint,
		RaydiumV4Pools: []arb.VaultPairRef{
			{Pool: pool, TokenVault: tokenVault, NativeVault: nativeVault},
		},
	}

	if err := driver.IngestMint(context.Background(), data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	edges := g.EdgesFrom(mint)
	if len(edges) != 1 {
		t.Fatalf("expected 1 forward edge, got %d", len(edges))
	}
	if !edges[0].ToMint.Equals(nativeMint) {
		t.Error("expected edge to point at the native vault's mint")
	}
	if edges[0].Payload.Price != 2.0 {
		t.Errorf("expected price 2.0 (1_000_000/500_000), got %v", edges[0].Payload.Price)
	}
	if edges[0].Payload.DexKind != arb.DexRaydiumV4 {
		t.Errorf("expected raydium_v4 dex kind, got %v", edges[0].Payload.DexKind)
	}
	if edges[0].Payload.InverseFeeBps != edges[0].Payload.FeeBps {
		t.Errorf("expected InverseFeeBps to mirror FeeBps, got %d vs %d", edges[0].Payload.InverseFeeBps, edges[0].Payload.FeeBps)
	}

	inverse := g.EdgesFrom(nativeMint)
	if len(inverse) != 1 {
		t.Fatalf("expected 1 inverse edge under the native mint, got %d", len(inverse))
	}
	if !inverse[0].ToMint.Equals(mint) {
		t.Error("expected inverse edge to point back at the original mint")
	}
	if !inverse[0].Payload.PoolID.Equals(pool) {
		t.Error("expected inverse edge to carry the same pool id")
	}
	if inverse[0].Payload.Price != 0.5 {
		t.Errorf("expected reciprocal price 0.5 (500_000/1_000_000), got %v", inverse[0].Payload.Price)
	}
}

func TestIngestMintSkipsZeroReservePool(t *testing.T) {
	mint := fixedPubkey(10)
	pool := fixedPubkey(11)
	tokenVault := fixedPubkey(12)
	nativeVault := fixedPubkey(13)

	fetcher := newFakeFetcher()
	fetcher.put(tokenVault, solana.PublicKey{}, tokenAccountData(mint, 500_000))
	// nativeVault intentionally left unpopulated: zero reserve on lookup miss.

	g := graph.New()
	driver := NewDriver(fetcher, g, nil)

	data := arb.MintPoolData{
		Mint: mint,
		RaydiumV4Pools: []arb.VaultPairRef{
			{Pool: pool, TokenVault: tokenVault, NativeVault: nativeVault},
		},
	}

	if err := driver.IngestMint(context.Background(), data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edges := g.EdgesFrom(mint); len(edges) != 0 {
		t.Fatalf("expected zero-reserve pool to be skipped, got %d edges", len(edges))
	}
}

func TestIngestMintEmptyInventoryProducesNoEdges(t *testing.T) {
	mint := fixedPubkey(20)
	fetcher := newFakeFetcher()
	g := graph.New()
	driver := NewDriver(fetcher, g, nil)

	if err := driver.IngestMint(context.Background(), arb.MintPoolData{Mint: mint}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edges := g.EdgesFrom(mint); len(edges) != 0 {
		t.Fatalf("expected no edges for an empty inventory, got %d", len(edges))
	}
}
