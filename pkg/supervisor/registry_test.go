package supervisor

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solana-arb/engine/pkg/poolstate"
)

type fakeFetcher struct {
	accounts map[solana.PublicKey]*rpc.Account
}

func newFakeFetcher() *fakeFetcher { return &fakeFetcher{accounts: map[solana.PublicKey]*rpc.Account{}} }

func (f *fakeFetcher) put(key, owner solana.PublicKey, data []byte) {
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
	f.accounts[key] = &account
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

func testKey(seed byte) solana.PublicKey {
	var raw [32]byte
	for i := range raw {
		raw[i] = seed
	}
	return solana.PublicKeyFromBytes(raw[:])
}

func raydiumV4Data(coinVault, pcVault, coinMint, pcMint solana.PublicKey) []byte {
	data := make([]byte, 464)
	copy(data[336:368], coinVault[:])
	copy(data[368:400], pcVault[:])
	copy(data[400:432], coinMint[:])
	copy(data[432:464], pcMint[:])
	return data
}

func TestRegistryBuildClassifiesRaydiumV4Pool(t *testing.T) {
	pool := testKey(1)
	coinVault, pcVault := testKey(2), testKey(3)
	tokenMint := testKey(4)

	fetcher := newFakeFetcher()
	fetcher.put(pool, poolstate.RaydiumV4ProgramID,
		raydiumV4Data(coinVault, pcVault, poolstate.WrappedSOLMint, tokenMint))

	reg := NewRegistry(fetcher, nil)
	inventory, err := reg.Build(context.Background(), []solana.PublicKey{pool})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	md, ok := inventory[tokenMint]
	if !ok {
		t.Fatalf("expected inventory keyed by the non-SOL mint %s", tokenMint)
	}
	if len(md.RaydiumV4Pools) != 1 {
		t.Fatalf("expected 1 raydium v4 pool, got %d", len(md.RaydiumV4Pools))
	}
	ref := md.RaydiumV4Pools[0]
	if !ref.Pool.Equals(pool) || !ref.TokenVault.Equals(pcVault) || !ref.NativeVault.Equals(coinVault) {
		t.Errorf("unexpected vault assignment: %+v", ref)
	}
}

func TestRegistryBuildSkipsNonSolPairedPool(t *testing.T) {
	pool := testKey(10)
	coinVault, pcVault := testKey(11), testKey(12)
	mintA, mintB := testKey(13), testKey(14)

	fetcher := newFakeFetcher()
	fetcher.put(pool, poolstate.RaydiumV4ProgramID, raydiumV4Data(coinVault, pcVault, mintA, mintB))

	reg := NewRegistry(fetcher, nil)
	_, err := reg.Build(context.Background(), []solana.PublicKey{pool})
	if err == nil {
		t.Fatal("expected an empty-inventory error since the only pool isn't SOL-paired")
	}
}

func TestRegistryBuildSkipsUnrecognizedOwner(t *testing.T) {
	pool := testKey(20)
	fetcher := newFakeFetcher()
	fetcher.put(pool, testKey(99), make([]byte, 464))

	reg := NewRegistry(fetcher, nil)
	_, err := reg.Build(context.Background(), []solana.PublicKey{pool})
	if err == nil {
		t.Fatal("expected an empty-inventory error for an unrecognized program owner")
	}
}

func TestRegistryBuildEmptyAddrsErrors(t *testing.T) {
	reg := NewRegistry(newFakeFetcher(), nil)
	if _, err := reg.Build(context.Background(), nil); err == nil {
		t.Fatal("expected an error for an empty address list")
	}
}
