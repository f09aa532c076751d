package graph_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-arb/engine/pkg/arb"
	"github.com/solana-arb/engine/pkg/graph"
)

func testMint(seed byte) solana.PublicKey {
	var raw [32]byte
	for i := range raw {
		raw[i] = seed
	}
	return solana.PublicKeyFromBytes(raw[:])
}

func TestAddEdgeIsReadableFromBothDirections(t *testing.T) {
	g := graph.New()
	a, b := testMint(1), testMint(2)
	pool := testMint(3)

	g.AddEdge(a, b, arb.PoolEdge{PoolID: pool, Price: 1.5})
	g.AddEdge(b, a, arb.PoolEdge{PoolID: pool, Price: 1 / 1.5})

	forward := g.EdgesFrom(a)
	if len(forward) != 1 || !forward[0].ToMint.Equals(b) {
		t.Fatalf("expected 1 edge a->b, got %+v", forward)
	}
	backward := g.EdgesFrom(b)
	if len(backward) != 1 || !backward[0].ToMint.Equals(a) {
		t.Fatalf("expected 1 edge b->a, got %+v", backward)
	}
}

func TestReplaceMintWholesaleReplace(t *testing.T) {
	g := graph.New()
	mint := testMint(10)
	other := testMint(11)

	g.ReplaceMint(mint, []graph.Edge{{ToMint: other, Payload: arb.PoolEdge{Price: 1.0}}})
	if len(g.EdgesFrom(mint)) != 1 {
		t.Fatalf("expected 1 edge after first replace")
	}

	g.ReplaceMint(mint, []graph.Edge{{ToMint: other, Payload: arb.PoolEdge{Price: 2.0}}, {ToMint: other, Payload: arb.PoolEdge{Price: 3.0}}})
	edges := g.EdgesFrom(mint)
	if len(edges) != 2 {
		t.Fatalf("expected the second replace to wholesale-replace the bucket, got %d edges", len(edges))
	}

	g.ReplaceMint(mint, nil)
	if len(g.EdgesFrom(mint)) != 0 {
		t.Fatal("expected an empty edge list to clear the bucket")
	}
}

func TestReplaceEdgesBetweenScopesToSourceMint(t *testing.T) {
	g := graph.New()
	native := testMint(20)
	mintA := testMint(21)
	mintB := testMint(22)

	g.ReplaceEdgesBetween(native, mintA, []graph.Edge{{ToMint: mintA, Payload: arb.PoolEdge{Price: 1.0}}})
	g.ReplaceEdgesBetween(native, mintB, []graph.Edge{{ToMint: mintB, Payload: arb.PoolEdge{Price: 2.0}}})

	edges := g.EdgesFrom(native)
	if len(edges) != 2 {
		t.Fatalf("expected edges toward both mintA and mintB to coexist, got %d", len(edges))
	}

	// Refreshing mintA's contribution must not disturb mintB's.
	g.ReplaceEdgesBetween(native, mintA, []graph.Edge{{ToMint: mintA, Payload: arb.PoolEdge{Price: 1.5}}})
	edges = g.EdgesFrom(native)
	if len(edges) != 2 {
		t.Fatalf("expected mintB's edge to survive a refresh of mintA's, got %d edges", len(edges))
	}
	var sawA, sawB bool
	for _, e := range edges {
		switch {
		case e.ToMint.Equals(mintA):
			sawA = true
			if e.Payload.Price != 1.5 {
				t.Errorf("expected mintA's edge to reflect the refreshed price, got %v", e.Payload.Price)
			}
		case e.ToMint.Equals(mintB):
			sawB = true
			if e.Payload.Price != 2.0 {
				t.Errorf("expected mintB's edge untouched, got %v", e.Payload.Price)
			}
		}
	}
	if !sawA || !sawB {
		t.Fatalf("expected edges toward both mints, sawA=%v sawB=%v", sawA, sawB)
	}

	// Replacing with an empty slice clears just that pair, not the others.
	g.ReplaceEdgesBetween(native, mintA, nil)
	edges = g.EdgesFrom(native)
	if len(edges) != 1 || !edges[0].ToMint.Equals(mintB) {
		t.Fatalf("expected only mintB's edge to remain, got %+v", edges)
	}
}

func TestClearMintAndMints(t *testing.T) {
	g := graph.New()
	a, b := testMint(30), testMint(31)
	g.AddEdge(a, b, arb.PoolEdge{Price: 1.0})

	mints := g.Mints()
	if len(mints) != 1 || !mints[0].Equals(a) {
		t.Fatalf("expected exactly mint a to be listed, got %+v", mints)
	}

	g.ClearMint(a)
	if len(g.EdgesFrom(a)) != 0 {
		t.Fatal("expected ClearMint to empty the bucket")
	}
	if len(g.Mints()) != 0 {
		t.Fatal("expected no mints to remain after ClearMint")
	}
}

func TestIterAllVisitsEveryBucket(t *testing.T) {
	g := graph.New()
	a, b, c := testMint(40), testMint(41), testMint(42)
	g.AddEdge(a, b, arb.PoolEdge{Price: 1.0})
	g.AddEdge(b, c, arb.PoolEdge{Price: 1.0})

	seen := map[solana.PublicKey]bool{}
	g.IterAll(func(from solana.PublicKey, _ graph.Edge) {
		seen[from] = true
	})
	if !seen[a] || !seen[b] {
		t.Fatalf("expected IterAll to visit both source mints, got %+v", seen)
	}
}
