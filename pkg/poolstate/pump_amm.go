package poolstate

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/solana-arb/engine/pkg/arberr"
)

// PumpAMMLayout is the subset of a Pump AMM pool account needed for price
// derivation, grounded on pkg/pool/pump/amm.go's PoolDataSize/offset
// constants.
type PumpAMMLayout struct {
	BaseMint  solana.PublicKey
	QuoteMint solana.PublicKey
}

// pumpAMMAccount mirrors the teacher's PumpAMMPool wire struct up through
// QuoteMint; Discriminator is decoded like any other field so the cursor
// moves past the leading 8 bytes before PoolBump is read.
type pumpAMMAccount struct {
	Discriminator [8]uint8
	PoolBump      uint8
	Index         uint16
	Creator       solana.PublicKey
	BaseMint      solana.PublicKey
	QuoteMint     solana.PublicKey
}

const (
	pumpAMMBaseMintOffset  = 43
	pumpAMMQuoteMintOffset = 75
	pumpAMMPoolDataSize    = 211
)

// DecodePumpAMM reads a Pump AMM pool account.
func DecodePumpAMM(data []byte) (*PumpAMMLayout, error) {
	if err := requireLen(data, pumpAMMQuoteMintOffset); err != nil {
		return nil, err
	}
	var raw pumpAMMAccount
	if err := bin.NewBinDecoder(data).Decode(&raw); err != nil {
		return nil, arberr.Wrap(arberr.CategoryDecode, err)
	}
	return &PumpAMMLayout{
		BaseMint:  raw.BaseMint,
		QuoteMint: raw.QuoteMint,
	}, nil
}
