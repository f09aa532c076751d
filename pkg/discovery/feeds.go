package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	geckoAPIBase       = "https://api.geckoterminal.com/api/v2"
	dexscreenerAPIBase = "https://api.dexscreener.com/token-pairs/v1"
	solanaNetwork      = "solana"
	httpTimeout        = 30 * time.Second
)

// geckoPool is the subset of a GeckoTerminal pool entry discovery needs:
// the pool's base token.
type geckoPool struct {
	Relationships *struct {
		BaseToken struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"base_token"`
	} `json:"relationships"`
}

type geckoResponse struct {
	Data []geckoPool `json:"data"`
}

// GeckoClient fetches candidate pool lists from GeckoTerminal, rate-limited
// to stay under the public API's anonymous-tier ceiling.
type GeckoClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewGeckoClient builds a GeckoClient capped at requestsPerSecond.
func NewGeckoClient(requestsPerSecond int) *GeckoClient {
	return &GeckoClient{
		httpClient: &http.Client{Timeout: httpTimeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// FetchPools retrieves one GeckoTerminal pool-listing endpoint (trending or
// top pools), tolerating a 404 as an empty page.
func (c *GeckoClient) FetchPools(ctx context.Context, endpoint string) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/%s", geckoAPIBase, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("discovery: gecko request to %s failed with status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var parsed geckoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("discovery: decoding gecko response: %w", err)
	}

	tokens := make([]string, 0, len(parsed.Data))
	for _, pool := range parsed.Data {
		if pool.Relationships == nil {
			continue
		}
		tokens = append(tokens, pool.Relationships.BaseToken.Data.ID)
	}
	return tokens, nil
}

// DexscreenerPair is one trading pair Dexscreener reports for a token.
type DexscreenerPair struct {
	PairAddress string `json:"pairAddress"`
	Liquidity   *struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Volume *struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	BaseToken  *tokenInfo `json:"baseToken"`
	QuoteToken *tokenInfo `json:"quoteToken"`
}

type tokenInfo struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// DexscreenerClient resolves per-token trading pairs, rate-limited to the
// public API's anonymous-tier ceiling.
type DexscreenerClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewDexscreenerClient builds a DexscreenerClient capped at requestsPerSecond.
func NewDexscreenerClient(requestsPerSecond int) *DexscreenerClient {
	return &DexscreenerClient{
		httpClient: &http.Client{Timeout: httpTimeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// FetchPairs retrieves every known trading pair for tokenAddress.
func (c *DexscreenerClient) FetchPairs(ctx context.Context, tokenAddress string) ([]DexscreenerPair, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/%s/%s", dexscreenerAPIBase, solanaNetwork, tokenAddress)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("discovery: dexscreener request for %s failed with status %d", tokenAddress, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var pairs []DexscreenerPair
	if err := json.Unmarshal(body, &pairs); err != nil {
		return nil, fmt.Errorf("discovery: decoding dexscreener response: %w", err)
	}
	return pairs, nil
}
