// Package arberr defines the sentinel error categories shared across the
// ingestion, detection, and discovery layers.
package arberr

import "errors"

// Category tags an error with one of the taxonomy buckets used for logging
// and for propagation-policy decisions (swallow locally, abort tick, retry).
type Category string

const (
	CategoryTransport     Category = "transport"
	CategoryRateLimit     Category = "rate_limit"
	CategoryDecode        Category = "decode"
	CategoryConfig        Category = "config"
	CategoryLiquidity     Category = "liquidity"
	CategoryNotImplemented Category = "not_implemented"
)

var (
	// ErrMalformedLayout is returned by a pool-layout decoder when the
	// account buffer is shorter than the last required offset plus 32 bytes.
	ErrMalformedLayout = errors.New("arberr: malformed account layout")

	// ErrOwnerMismatch is returned when a fork's on-chain owner program
	// does not match the whitelisted program identifier for that family.
	ErrOwnerMismatch = errors.New("arberr: account owner does not match expected program")

	// ErrZeroLiquidity names a pool whose native-side reserve is zero,
	// making price derivation meaningless. The ingestion driver skips such
	// pools without returning this error.
	ErrZeroLiquidity = errors.New("arberr: zero native-side liquidity")

	// ErrEdgeNotFound names a cycle leg that no longer has a corresponding
	// edge in the live graph. The optimizer reports that case as a false
	// result rather than returning this error.
	ErrEdgeNotFound = errors.New("arberr: edge not found in graph")

	// ErrSimulationFailed is carried by the simulator stub's result when a
	// cycle's estimated profit is not positive.
	ErrSimulationFailed = errors.New("arberr: simulation step failed")

	// ErrNotImplemented is returned by the simulator's full on-chain
	// simulation entry point, which has no implementation yet.
	ErrNotImplemented = errors.New("arberr: not implemented")

	// ErrEmptyMarketList is returned when there is nothing to ingest: the
	// registry is given no market addresses or classifies none of them, or
	// every family of a mint's ingestion pass fails.
	ErrEmptyMarketList = errors.New("arberr: market list is empty")

	// ErrUnsupportedProgram is returned when a pool account's owner does
	// not match any family the registry knows how to classify.
	ErrUnsupportedProgram = errors.New("arberr: pool owner is not a recognized AMM program")

	// ErrNotSolPaired is returned when a decoded pool's two mints include
	// neither wrapped SOL, so it cannot be keyed into a SOL-paired mint
	// inventory.
	ErrNotSolPaired = errors.New("arberr: pool is not SOL-paired")
)

// Wrapped pairs an error with its taxonomy category for structured logging.
type Wrapped struct {
	Category Category
	Err      error
}

func (w *Wrapped) Error() string {
	return string(w.Category) + ": " + w.Err.Error()
}

func (w *Wrapped) Unwrap() error {
	return w.Err
}

// Wrap tags err with category, or returns nil if err is nil.
func Wrap(category Category, err error) error {
	if err == nil {
		return nil
	}
	return &Wrapped{Category: category, Err: err}
}
