package arb

import (
	"math"
	"sort"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-arb/engine/pkg/graph"
)

// predecessorEdge records the edge that last improved the path to a mint,
// together with the mint it was reached from.
type predecessorEdge struct {
	from solana.PublicKey
	edge PoolEdge
}

// effectivePrice is the fee-adjusted rate used for relaxation and for the
// reconstructed cycle's profit figure. PoolEdge.Price is the pre-fee rate
// (per the data model); folding fee_bps in here means a fee-dominated loop
// that only looks profitable before costs is never reported as one.
func effectivePrice(e PoolEdge) float64 {
	return e.Price * float64(10_000-e.FeeBps) / 10_000.0
}

// FindNegativeCycles runs a Bellman-Ford-style relaxation over g rooted at
// startMint and returns every reconstructed cycle whose hop count falls in
// [minHops, maxHops] and whose profit exceeds minProfitBps, most profitable
// first.
//
// distance[mint] is maintained as a linear accumulated-rate product seeded
// at 1.0 rather than as a -log(price) sum, but the two are the same
// relaxation under a change of variable: with P[v] = exp(-dist_log[v]),
// the classical negative-cycle relaxation dist_log[u] - log(price) <
// dist_log[v] becomes P[u]*price > P[v]. So relaxation here accepts a new
// path when it strictly *increases* the reachable product at v (treating
// an unreached mint as -infinity), and max_hops rounds that keep finding
// an improving edge are exactly the negative-cycle signal in this domain.
//
// Unlike the prototype this mirrors, relaxation here keys distances and
// predecessors by the edge's actual destination mint (graph.Edge.ToMint)
// rather than by the pool's own account address — the prototype conflated
// the two, which is also why its reconstructed legs carried the pool id in
// both from_mint and to_mint. Keying on the real destination makes the walk
// itself correct, and reconstructCycle below recovers the genuine (u, v)
// pair for each leg instead of repeating the pool id.
func FindNegativeCycles(g *graph.PriceGraph, startMint solana.PublicKey, minHops, maxHops int, minProfitBps int64) []ArbitrageCycle {
	distances := map[solana.PublicKey]float64{startMint: 1.0}
	predecessors := map[solana.PublicKey]predecessorEdge{}

	for round := 0; round < maxHops; round++ {
		updated := false
		g.IterAll(func(from solana.PublicKey, e graph.Edge) {
			currentDist, ok := distances[from]
			if !ok {
				return
			}
			newDist := currentDist * effectivePrice(e.Payload)

			existing, ok := distances[e.ToMint]
			if !ok {
				existing = math.Inf(-1)
			}
			if newDist > existing {
				distances[e.ToMint] = newDist
				predecessors[e.ToMint] = predecessorEdge{from: from, edge: e.Payload}
				updated = true
			}
		})
		if !updated {
			break
		}
	}

	var cycles []ArbitrageCycle
	g.IterAll(func(from solana.PublicKey, e graph.Edge) {
		startDist, ok := distances[from]
		if !ok {
			return
		}
		newDist := startDist * effectivePrice(e.Payload)

		existing, ok := distances[e.ToMint]
		if !ok {
			existing = math.Inf(-1)
		}
		if newDist <= existing {
			return
		}

		cycle := reconstructCycle(predecessors, from, e.ToMint, minHops, maxHops)
		if cycle == nil {
			return
		}
		if cycle.TotalProfitBps > minProfitBps {
			cycles = append(cycles, *cycle)
		}
	})

	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i].TotalProfitBps > cycles[j].TotalProfitBps
	})
	return cycles
}

// reconstructCycle walks predecessors backward from end, terminating when
// the walk revisits a mint or exceeds maxHops, and converts the resulting
// path into an ArbitrageCycle. It returns nil if the path falls outside
// [minHops, maxHops].
func reconstructCycle(predecessors map[solana.PublicKey]predecessorEdge, start, end solana.PublicKey, minHops, maxHops int) *ArbitrageCycle {
	type step struct {
		from solana.PublicKey
		to   solana.PublicKey
		edge PoolEdge
	}

	var path []step
	current := end
	visited := map[solana.PublicKey]bool{}

	for {
		pred, ok := predecessors[current]
		if !ok {
			break
		}
		if visited[current] {
			break
		}
		visited[current] = true
		path = append(path, step{from: pred.from, to: current, edge: pred.edge})
		current = pred.from

		if current == start && len(path) >= minHops {
			break
		}
		if len(path) > maxHops {
			return nil
		}
	}

	if len(path) < minHops || len(path) > maxHops {
		return nil
	}

	// path was built walking backward from end, so it holds the last leg
	// first; reverse it so the legs run in trading order and each leg's
	// ToMint chains into the next leg's FromMint.
	totalPrice := 1.0
	legs := make([]SwapLeg, len(path))
	for i, st := range path {
		totalPrice *= effectivePrice(st.edge)
		legs[len(path)-1-i] = SwapLeg{
			FromMint: st.from,
			ToMint:   st.to,
			PoolID:   st.edge.PoolID,
			DexKind:  st.edge.DexKind,
		}
	}

	profitBps := int64(math.Floor((totalPrice - 1.0) * 10_000.0))

	return &ArbitrageCycle{
		Legs:           legs,
		TotalProfitBps: profitBps,
		TotalHops:      len(path),
	}
}
