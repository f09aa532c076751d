// Package arb holds the core domain types of the arbitrage engine (pool
// edges, swap legs, cycles, per-mint pool inventories), the cycle detector,
// the amount optimizer, and the simulator stub. The price graph itself
// lives in pkg/graph.
package arb

import (
	"github.com/gagliardetto/solana-go"
)

// DexKind tags the AMM family a PoolEdge was derived from. The set is
// closed; adding a family means adding both a decoder in pkg/poolstate and
// a case in the ingestion driver's dispatch table.
type DexKind string

const (
	DexRaydiumV4       DexKind = "raydium_v4"
	DexRaydiumCP       DexKind = "raydium_cp"
	DexRaydiumCLMM     DexKind = "raydium_clmm"
	DexMeteoraDLMM     DexKind = "meteora_dlmm"
	DexMeteoraDAMM     DexKind = "meteora_damm"
	DexMeteoraDAMMv2   DexKind = "meteora_damm_v2"
	DexWhirlpool       DexKind = "whirlpool"
	DexPump            DexKind = "pump"
	DexVertigo         DexKind = "vertigo"
	DexHeaven          DexKind = "heaven"
	DexFutarchy        DexKind = "futarchy"
	DexHumidifi        DexKind = "humidifi"
	DexPancakeSwap     DexKind = "pancakeswap"
	DexByreal          DexKind = "byreal"
	DexSolfi           DexKind = "solfi"
)

// FeeBps returns the fixed fee, in basis points, charged by a DexKind. The
// values are part of the compatibility surface with downstream profit math
// and must not change independently of a deliberate protocol-fee update.
func (k DexKind) FeeBps() uint32 {
	switch k {
	case DexRaydiumV4:
		return 25
	case DexRaydiumCP:
		return 5
	case DexRaydiumCLMM:
		return 5
	case DexMeteoraDLMM:
		return 5
	case DexMeteoraDAMM:
		return 10
	case DexMeteoraDAMMv2:
		return 8
	case DexWhirlpool:
		return 2
	case DexPump:
		return 100
	case DexVertigo:
		return 15
	case DexHeaven:
		return 20
	case DexFutarchy:
		return 25
	case DexHumidifi:
		return 12
	case DexPancakeSwap:
		return 5
	case DexByreal:
		return 5
	case DexSolfi:
		return 20
	default:
		return 0
	}
}

// PoolEdge is a directed swap edge, keyed implicitly by the source mint it
// is stored under in a PriceGraph bucket.
type PoolEdge struct {
	PoolID        solana.PublicKey
	DexKind       DexKind
	Price         float64
	LiquidityUSD  float64
	FeeBps        uint32
	InverseFeeBps uint32
	TokenProgram  solana.PublicKey
}

// SwapLeg is a concrete realization of one edge for a specific input amount.
type SwapLeg struct {
	FromMint            solana.PublicKey
	ToMint              solana.PublicKey
	PoolID              solana.PublicKey
	DexKind             DexKind
	AmountIn            int64
	EstimatedAmountOut  int64
}

// ArbitrageCycle is an ordered sequence of swap legs that returns to its
// starting mint.
type ArbitrageCycle struct {
	Legs                    []SwapLeg
	TotalProfitBps          int64
	EstimatedProfitLamports int64
	TotalHops               int
}

// RefPriceUSD is the fixed reference price, in USD, used to estimate pool
// liquidity. A real deployment would plumb a live oracle; the engine's
// optimizer only ever consumes liquidity as a ratio against trade size, so
// the exact magnitude does not affect cycle selection.
const RefPriceUSD = 200.0
