package arb

import (
	"cosmossdk.io/math"
	"go.uber.org/zap"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-arb/engine/pkg/graph"
)

// minTradeLamports is the binary search's lower bound, 0.001 native units.
const minTradeLamports = 1_000_000

// binarySearchRounds bounds the optimizer's convergence; 20 rounds halve
// the search interval 20 times, so with the default 400_000_000-lamport cap
// the final interval is still a few hundred lamports wide.
const binarySearchRounds = 20

// AmountOptimizer finds the input amount that maximizes a cycle's profit
// under a liquidity-aware slippage model, subject to a capital cap.
type AmountOptimizer struct {
	graph  *graph.PriceGraph
	logger *zap.Logger
}

// NewAmountOptimizer returns an optimizer reading prices from g.
func NewAmountOptimizer(g *graph.PriceGraph, logger *zap.Logger) *AmountOptimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmountOptimizer{graph: g, logger: logger}
}

// OptimizeAmount binary-searches for the trade size, within
// [minTradeLamports, maxCapitalLamports*capitalPercent/100], that maximizes
// cycle's profit while clearing minProfitLamports. On success it mutates
// cycle's legs in place (AmountIn/EstimatedAmountOut per leg) and returns
// the chosen initial amount; on failure it returns (0, false) and leaves
// cycle untouched.
func (o *AmountOptimizer) OptimizeAmount(cycle *ArbitrageCycle, maxCapitalLamports, capitalPercent, minProfitLamports int64) (int64, bool) {
	maxAmount := (maxCapitalLamports * capitalPercent) / 100

	low := int64(minTradeLamports)
	high := maxAmount
	if high < low {
		return 0, false
	}

	var bestAmount, bestProfit int64

	for i := 0; i < binarySearchRounds; i++ {
		mid := (low + high) / 2

		profit, ok := o.simulateCycleWithAmount(cycle, mid)
		if ok && profit > bestProfit && profit > minProfitLamports {
			bestProfit = profit
			bestAmount = mid
			low = mid
		} else {
			high = mid
		}
	}

	if bestAmount <= 0 || bestProfit <= minProfitLamports {
		return 0, false
	}

	o.updateLegAmounts(cycle, bestAmount)
	o.logger.Debug("optimized cycle amount",
		zap.Int64("initial_amount_lamports", bestAmount),
		zap.Int64("profit_lamports", cycle.EstimatedProfitLamports),
	)
	return bestAmount, true
}

func (o *AmountOptimizer) simulateCycleWithAmount(cycle *ArbitrageCycle, initialAmount int64) (int64, bool) {
	currentAmount := initialAmount

	for _, leg := range cycle.Legs {
		edge, ok := o.findEdgeInGraph(leg)
		if !ok {
			return 0, false
		}

		slippageBps := o.calculateSlippageBps(currentAmount, leg.PoolID)
		effectiveFeeBps := int64(edge.FeeBps) + slippageBps

		feeAdjusted := applyFeeBps(currentAmount, effectiveFeeBps)
		currentAmount = int64(float64(feeAdjusted) * edge.Price)
		if currentAmount <= 0 {
			return 0, false
		}
	}

	if currentAmount > initialAmount {
		return currentAmount - initialAmount, true
	}
	return 0, false
}

// findEdgeInGraph resolves a reconstructed leg back to its live PoolEdge by
// scanning the edges installed under the leg's source mint for a matching
// pool id and dex kind.
func (o *AmountOptimizer) findEdgeInGraph(leg SwapLeg) (PoolEdge, bool) {
	for _, e := range o.graph.EdgesFrom(leg.FromMint) {
		if e.Payload.PoolID.Equals(leg.PoolID) && e.Payload.DexKind == leg.DexKind {
			return e.Payload, true
		}
	}
	return PoolEdge{}, false
}

// calculateSlippageBps derives a dynamic slippage estimate from a pool's
// reported liquidity: the bigger a trade is relative to the pool, the more
// slippage it costs, floored at 10 bps and capped at 100 bps. Pools no
// longer present in the graph fall back to a flat 50 bps.
func (o *AmountOptimizer) calculateSlippageBps(amountIn int64, poolID solana.PublicKey) int64 {
	var found *PoolEdge
	o.graph.IterAll(func(_ solana.PublicKey, e graph.Edge) {
		if found != nil {
			return
		}
		if e.Payload.PoolID.Equals(poolID) {
			payload := e.Payload
			found = &payload
		}
	})

	if found == nil {
		o.logger.Debug("pool not found in graph for slippage calculation", zap.String("pool", poolID.String()))
		return 50
	}

	tradeSizeUSD := (float64(amountIn) / 1e9) * RefPriceUSD
	poolLiquidityUSD := found.LiquidityUSD
	if poolLiquidityUSD < 1.0 {
		poolLiquidityUSD = 1.0
	}

	liquidityRatio := tradeSizeUSD / poolLiquidityUSD
	dynamicSlippage := int64(liquidityRatio*0.5*100.0 + 0.5)

	totalSlippage := 10 + dynamicSlippage
	if totalSlippage > 100 {
		totalSlippage = 100
	}
	return totalSlippage
}

// applyFeeBps deducts feeBps from amount using arbitrary-precision integer
// arithmetic, matching the teacher's minAmountOut bps calculation, so a
// leg's fee deduction never loses precision to an intermediate float64.
func applyFeeBps(amount, feeBps int64) int64 {
	if feeBps >= 10_000 {
		return 0
	}
	adjusted := math.NewInt(amount).Mul(math.NewInt(10_000 - feeBps)).Quo(math.NewInt(10_000))
	return adjusted.Int64()
}

func (o *AmountOptimizer) updateLegAmounts(cycle *ArbitrageCycle, initialAmount int64) {
	currentAmount := initialAmount

	for i := range cycle.Legs {
		leg := &cycle.Legs[i]
		leg.AmountIn = currentAmount

		edge, ok := o.findEdgeInGraph(*leg)
		if !ok {
			leg.EstimatedAmountOut = 0
			continue
		}

		slippageBps := o.calculateSlippageBps(currentAmount, leg.PoolID)
		effectiveFeeBps := int64(edge.FeeBps) + slippageBps

		feeAdjusted := applyFeeBps(currentAmount, effectiveFeeBps)
		currentAmount = int64(float64(feeAdjusted) * edge.Price)
		leg.EstimatedAmountOut = currentAmount
	}

	profit := currentAmount - initialAmount
	if profit < 0 {
		profit = 0
	}
	cycle.EstimatedProfitLamports = profit
}
