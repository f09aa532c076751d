package sol

import (
	"context"

	"github.com/gagliardetto/solana-go/rpc"
)

// Client wraps the RPC connection used for account reads. The engine only
// ever reads account state; it never signs or submits transactions.
type Client struct {
	rpcClient   *rpc.Client
	rateLimiter *RateLimiter
}

// NewClient creates a new Solana client with custom rate limiting.
func NewClient(ctx context.Context, endpoint string, reqLimitPerSecond int) (*Client, error) {
	c := &Client{
		rpcClient:   rpc.New(endpoint),
		rateLimiter: NewRateLimiter(reqLimitPerSecond),
	}
	return c, nil
}
