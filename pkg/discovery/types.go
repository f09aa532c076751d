// Package discovery harvests candidate SOL-paired tokens from public market
// aggregators, verifies each candidate pool's on-chain program ownership,
// and emits a filtered, liquidity-sorted inventory the bot supervisor loads
// as its market list.
package discovery

// DiscoveredPools is the root document written to the output file and
// reloaded by the supervisor at startup.
type DiscoveredPools struct {
	Timestamp  int64             `json:"timestamp"`
	TokenCount int               `json:"token_count"`
	Tokens     []DiscoveredToken `json:"tokens"`
}

// DiscoveredToken groups every verified pool found for one token, along
// with that token's aggregate liquidity across those pools.
type DiscoveredToken struct {
	TokenAddress   string           `json:"token_address"`
	TokenName      string           `json:"token_name"`
	TokenSymbol    string           `json:"token_symbol"`
	TotalLiquidity float64          `json:"total_liquidity"`
	Pools          []DiscoveredPool `json:"pools"`
}

// DiscoveredPool is one verified SOL-paired pool.
type DiscoveredPool struct {
	PoolAddress string  `json:"pool_address"`
	DexType     string  `json:"dex_type"`
	ProgramID   string  `json:"program_id"`
	LiquidityUSD float64 `json:"liquidity_usd"`
	VolumeH24   float64 `json:"volume_h24"`
	SolSide     string  `json:"sol_side"`
}

// Config tunes discovery's run cadence and acceptance thresholds.
type Config struct {
	Enabled         bool
	IntervalMinutes int
	MinLiquidityUSD float64
	MinVolumeH24    float64
	OutputFile      string
}

// DefaultConfig returns the engine's stock tuning.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		IntervalMinutes: 15,
		MinLiquidityUSD: 5000.0,
		MinVolumeH24:    1000.0,
		OutputFile:      "discovered_pools.json",
	}
}
