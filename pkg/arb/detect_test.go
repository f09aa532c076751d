package arb

import (
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-arb/engine/pkg/graph"
)

func seedMint(seed byte) solana.PublicKey {
	var raw [32]byte
	for i := range raw {
		raw[i] = seed
	}
	return solana.PublicKeyFromBytes(raw[:])
}

// assertClosedWalk asserts cycle.Legs forms an unbroken walk that returns to
// its own starting mint: each leg's ToMint feeds the next leg's FromMint,
// and the final leg closes back to the first leg's FromMint. The detector
// can report the same underlying cycle starting from any of its mints, so
// this does not pin a particular start.
func assertClosedWalk(t *testing.T, cycle ArbitrageCycle) {
	t.Helper()
	if len(cycle.Legs) == 0 {
		t.Fatal("expected at least one leg")
	}
	for i := 0; i < len(cycle.Legs)-1; i++ {
		if !cycle.Legs[i].ToMint.Equals(cycle.Legs[i+1].FromMint) {
			t.Errorf("leg %d's to_mint (%s) does not chain into leg %d's from_mint (%s)",
				i, cycle.Legs[i].ToMint, i+1, cycle.Legs[i+1].FromMint)
		}
	}
	last := cycle.Legs[len(cycle.Legs)-1]
	if !last.ToMint.Equals(cycle.Legs[0].FromMint) {
		t.Errorf("expected the last leg to close back to the first leg's from_mint, got %s vs %s", last.ToMint, cycle.Legs[0].FromMint)
	}
}

func TestFindNegativeCyclesTriangularArbitrage(t *testing.T) {
	g := graph.New()
	a, b, c := seedMint(1), seedMint(2), seedMint(3)

	g.AddEdge(a, b, PoolEdge{PoolID: seedMint(11), Price: 1.010})
	g.AddEdge(b, c, PoolEdge{PoolID: seedMint(12), Price: 1.010})
	g.AddEdge(c, a, PoolEdge{PoolID: seedMint(13), Price: 1.000})

	cycles := FindNegativeCycles(g, a, 2, 5, 50)
	if len(cycles) == 0 {
		t.Fatal("expected at least 1 cycle")
	}
	var sawExpectedProfit bool
	for _, cyc := range cycles {
		assertClosedWalk(t, cyc)
		if cyc.TotalHops != 3 {
			t.Errorf("expected 3 hops, got %d", cyc.TotalHops)
		}
		if cyc.TotalProfitBps == 201 {
			sawExpectedProfit = true
		}
	}
	if !sawExpectedProfit {
		t.Errorf("expected some cycle with profit_bps = 201, got %+v", cycles)
	}
}

func TestFindNegativeCyclesBelowThreshold(t *testing.T) {
	g := graph.New()
	a, b, c := seedMint(1), seedMint(2), seedMint(3)

	g.AddEdge(a, b, PoolEdge{PoolID: seedMint(11), Price: 1.010})
	g.AddEdge(b, c, PoolEdge{PoolID: seedMint(12), Price: 1.010})
	g.AddEdge(c, a, PoolEdge{PoolID: seedMint(13), Price: 0.995})

	cycles := FindNegativeCycles(g, a, 2, 5, 200)
	if len(cycles) != 0 {
		t.Fatalf("expected no cycles above a 200 bps threshold, got %d: %+v", len(cycles), cycles)
	}
}

func TestFindNegativeCyclesFeeDominated(t *testing.T) {
	g := graph.New()
	a, b := seedMint(1), seedMint(2)

	g.AddEdge(a, b, PoolEdge{PoolID: seedMint(21), Price: 2.00, FeeBps: 30})
	g.AddEdge(b, a, PoolEdge{PoolID: seedMint(22), Price: 0.505, FeeBps: 30})

	cycles := FindNegativeCycles(g, a, 2, 2, 0)
	if len(cycles) == 0 {
		t.Fatal("expected at least 1 cycle")
	}
	// Fees eat almost all of the raw 2.00*0.505=1.01 edge, leaving a thin
	// double-digit-bps margin rather than the ~100 bps the unfee-adjusted
	// product would suggest.
	for _, cyc := range cycles {
		assertClosedWalk(t, cyc)
		if cyc.TotalProfitBps <= 0 || cyc.TotalProfitBps >= 100 {
			t.Errorf("expected a thin fee-dominated profit margin, got %d bps", cyc.TotalProfitBps)
		}
	}
}

func TestFindNegativeCyclesRespectsHopBounds(t *testing.T) {
	g := graph.New()
	a, b, c := seedMint(1), seedMint(2), seedMint(3)

	g.AddEdge(a, b, PoolEdge{PoolID: seedMint(11), Price: 1.010})
	g.AddEdge(b, c, PoolEdge{PoolID: seedMint(12), Price: 1.010})
	g.AddEdge(c, a, PoolEdge{PoolID: seedMint(13), Price: 1.000})

	// minHops above the cycle's actual length excludes it entirely.
	cycles := FindNegativeCycles(g, a, 4, 5, 0)
	if len(cycles) != 0 {
		t.Fatalf("expected no cycles once min_hops exceeds the cycle length, got %d", len(cycles))
	}
}
