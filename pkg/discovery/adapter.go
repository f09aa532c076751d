package discovery

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var errAccountNotFound = errors.New("discovery: account not found")

// rpcAccountInfoFetcher is the single RPC method RPCOwnerFetcher needs from
// a client such as sol.Client or pkg/ingest's AccountFetcher.
type rpcAccountInfoFetcher interface {
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
}

// RPCOwnerFetcher adapts a raw account-info RPC method into the
// AccountOwnerFetcher capability the discovery engine verifies pools with.
type RPCOwnerFetcher struct {
	client rpcAccountInfoFetcher
}

// NewRPCOwnerFetcher wraps client for on-chain ownership verification.
func NewRPCOwnerFetcher(client rpcAccountInfoFetcher) *RPCOwnerFetcher {
	return &RPCOwnerFetcher{client: client}
}

// GetAccountOwner returns the program that owns account.
func (f *RPCOwnerFetcher) GetAccountOwner(ctx context.Context, account solana.PublicKey) (solana.PublicKey, error) {
	result, err := f.client.GetAccountInfoWithOpts(ctx, account)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if result == nil || result.Value == nil {
		return solana.PublicKey{}, errAccountNotFound
	}
	return result.Value.Owner, nil
}
