package poolstate

import (
	"github.com/gagliardetto/solana-go"

	"github.com/solana-arb/engine/pkg/arberr"
)

// HeavenLayout is the subset of a Heaven pool account needed for price
// derivation. Heaven stores its reserves directly on the pool account
// rather than in separate SPL token vaults, per SPEC_FULL.md's note on
// reserve_a/reserve_b fields — grounded on the generic constant-product
// dispatch original_source/engine/graph.rs uses for pools that carry their
// own balances inline.
type HeavenLayout struct {
	BaseMint  solana.PublicKey
	QuoteMint solana.PublicKey
	ReserveA  uint64
	ReserveB  uint64
}

const (
	heavenBaseMintOffset  = 8
	heavenQuoteMintOffset = 40
	heavenReserveAOffset  = 72
	heavenReserveBOffset  = 80
)

// DecodeHeaven reads a Heaven pool account.
func DecodeHeaven(data []byte) (*HeavenLayout, error) {
	if len(data) < heavenReserveBOffset+8 {
		return nil, arberr.Wrap(arberr.CategoryDecode, arberr.ErrMalformedLayout)
	}
	return &HeavenLayout{
		BaseMint:  readPubkey(data, heavenBaseMintOffset),
		QuoteMint: readPubkey(data, heavenQuoteMintOffset),
		ReserveA:  leUint64(data[heavenReserveAOffset : heavenReserveAOffset+8]),
		ReserveB:  leUint64(data[heavenReserveBOffset : heavenReserveBOffset+8]),
	}, nil
}
