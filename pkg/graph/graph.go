// Package graph implements the concurrent price graph: a mapping from
// source mint to its outgoing PoolEdge list, sharded by key so that
// independent buckets can be read and written without contending on a
// single global lock.
//
// The teacher repo and the rest of the retrieval pack carry no
// sharded-concurrent-map library (the prototype this engine is modeled on
// relies on a Rust crate with no Go analogue in the corpus), so the bucket
// striping below is hand-rolled on top of sync.RWMutex rather than pulled
// in from a dependency.
package graph

import (
	"hash/fnv"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-arb/engine/pkg/arb"
)

const shardCount = 32

// Edge pairs a PoolEdge's destination mint with its payload. The data
// model in the domain package describes PoolEdge as the value stored under
// a source mint; the destination has to travel with it somewhere for the
// cycle detector to relax distances correctly, so the graph's bucket
// element is this pair rather than a bare PoolEdge.
type Edge struct {
	ToMint solana.PublicKey
	Payload arb.PoolEdge
}

type shard struct {
	mu      sync.RWMutex
	buckets map[solana.PublicKey][]Edge
}

// PriceGraph is the long-lived, process-wide structure shared read-only by
// the detector and optimizer during a tick and mutated by the ingestion
// driver between ticks.
type PriceGraph struct {
	shards [shardCount]*shard
}

// New returns an empty PriceGraph.
func New() *PriceGraph {
	g := &PriceGraph{}
	for i := range g.shards {
		g.shards[i] = &shard{buckets: make(map[solana.PublicKey][]Edge)}
	}
	return g
}

func shardIndex(mint solana.PublicKey) int {
	h := fnv.New32a()
	h.Write(mint[:])
	return int(h.Sum32() % shardCount)
}

func (g *PriceGraph) shardFor(mint solana.PublicKey) *shard {
	return g.shards[shardIndex(mint)]
}

// AddEdge appends edge to the list under from. It never deduplicates; the
// ingestion driver is responsible for clearing stale state between ticks.
func (g *PriceGraph) AddEdge(from, to solana.PublicKey, edge arb.PoolEdge) {
	s := g.shardFor(from)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[from] = append(s.buckets[from], Edge{ToMint: to, Payload: edge})
}

// EdgesOf returns the PoolEdge payloads installed under mint.
func (g *PriceGraph) EdgesOf(mint solana.PublicKey) []arb.PoolEdge {
	s := g.shardFor(mint)
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket := s.buckets[mint]
	out := make([]arb.PoolEdge, len(bucket))
	for i, e := range bucket {
		out[i] = e.Payload
	}
	return out
}

// EdgesFrom returns the full (to_mint, PoolEdge) pairs installed under
// mint. Used by the cycle detector and the amount optimizer, which need
// the destination mint to relax distances and to look edges back up.
func (g *PriceGraph) EdgesFrom(mint solana.PublicKey) []Edge {
	s := g.shardFor(mint)
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket := s.buckets[mint]
	out := make([]Edge, len(bucket))
	copy(out, bucket)
	return out
}

// ReplaceMint clears mint's bucket and installs edges in its place under a
// single shard lock, satisfying the "previous edges are replaced wholesale"
// semantics the ingestion driver relies on between ticks.
func (g *PriceGraph) ReplaceMint(mint solana.PublicKey, edges []Edge) {
	s := g.shardFor(mint)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(edges) == 0 {
		delete(s.buckets, mint)
		return
	}
	fresh := make([]Edge, len(edges))
	copy(fresh, edges)
	s.buckets[mint] = fresh
}

// ReplaceEdgesBetween clears every edge currently installed under from whose
// destination is to, then installs edges in their place under a single
// shard lock. This is how the ingestion driver maintains the native mint's
// inverse edges: that bucket accumulates contributions from many different
// mints' ingestion passes, so a full ReplaceMint there would wipe out every
// other mint's edges. Scoping the replace to the (from, to) pair lets each
// mint's pass own only its own slice of the native bucket.
func (g *PriceGraph) ReplaceEdgesBetween(from, to solana.PublicKey, edges []Edge) {
	s := g.shardFor(from)
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]Edge, 0, len(s.buckets[from]))
	for _, e := range s.buckets[from] {
		if !e.ToMint.Equals(to) {
			kept = append(kept, e)
		}
	}
	kept = append(kept, edges...)
	if len(kept) == 0 {
		delete(s.buckets, from)
		return
	}
	s.buckets[from] = kept
}

// ClearMint empties the bucket for mint. The ingestion driver does not call
// it; it drops stale pools by replacing a mint's bucket via ReplaceMint.
func (g *PriceGraph) ClearMint(mint solana.PublicKey) {
	s := g.shardFor(mint)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, mint)
}

// IterAll calls fn once per (from_mint, Edge) pair across every shard. Each
// shard is visited under its own read lock, so the overall traversal sees
// a consistent snapshot per source key but not necessarily across keys.
func (g *PriceGraph) IterAll(fn func(from solana.PublicKey, edge Edge)) {
	for _, s := range g.shards {
		s.mu.RLock()
		for from, bucket := range s.buckets {
			for _, e := range bucket {
				fn(from, e)
			}
		}
		s.mu.RUnlock()
	}
}

// Mints returns every source mint that currently has at least one edge.
func (g *PriceGraph) Mints() []solana.PublicKey {
	var out []solana.PublicKey
	for _, s := range g.shards {
		s.mu.RLock()
		for from := range s.buckets {
			out = append(out, from)
		}
		s.mu.RUnlock()
	}
	return out
}
