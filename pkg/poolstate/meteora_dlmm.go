package poolstate

import (
	"github.com/gagliardetto/solana-go"

	"github.com/solana-arb/engine/pkg/arberr"
)

// MeteoraDLMMLayout is the subset of a Meteora DLMM pair account needed for
// price derivation: the two mints and the dynamic-bin state.
type MeteoraDLMMLayout struct {
	TokenXMint solana.PublicKey
	TokenYMint solana.PublicKey
	ReserveX   solana.PublicKey
	ReserveY   solana.PublicKey
	ActiveID   int32
	BinStep    uint16
}

const (
	dlmmActiveIDOffset   = 76
	dlmmBinStepOffset    = 80
	dlmmTokenXMintOffset = 88
	dlmmTokenYMintOffset = 120
	dlmmReserveXOffset   = 152
	dlmmReserveYOffset   = 184
)

// DecodeMeteoraDLMM reads a Meteora DLMM pair account. The field offsets
// (activeId@76, binStep@80, tokenXMint@88, tokenYMint@120) come from
// walking the on-chain struct's parameters/vParameters header byte by
// byte, matching the teacher's dlmm.go Offset() helper exactly. They are
// counted from the start of the account, 8-byte anchor discriminator
// included, so data is the full account buffer.
func DecodeMeteoraDLMM(data []byte) (*MeteoraDLMMLayout, error) {
	if len(data) < dlmmReserveYOffset+32 {
		return nil, arberr.Wrap(arberr.CategoryDecode, arberr.ErrMalformedLayout)
	}
	return &MeteoraDLMMLayout{
		TokenXMint: readPubkey(data, dlmmTokenXMintOffset),
		TokenYMint: readPubkey(data, dlmmTokenYMintOffset),
		ReserveX:   readPubkey(data, dlmmReserveXOffset),
		ReserveY:   readPubkey(data, dlmmReserveYOffset),
		ActiveID:   int32(leUint32(data[dlmmActiveIDOffset : dlmmActiveIDOffset+4])),
		BinStep:    leUint16(data[dlmmBinStepOffset : dlmmBinStepOffset+2]),
	}, nil
}
