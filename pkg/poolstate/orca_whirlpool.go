package poolstate

import (
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/solana-arb/engine/pkg/arberr"
)

// OrcaWhirlpoolLayout is the subset of an Orca Whirlpool account needed for
// price derivation. The teacher pack carries no Whirlpool decoder, so these
// offsets are an assumption: Whirlpool's Anchor account shape is publicly
// documented (whirlpools_config@8, whirlpool_bump@40, tick_spacing@41,
// fee_rate@45, sqrt_price@65, tick_current_index@81, token_mint_a@101,
// token_vault_a@133, token_mint_b@181, token_vault_b@213), and the
// constants below use those absolute offsets, counted from the start of
// the account including its 8-byte discriminator (see DESIGN.md assumption
// entry — no mainnet sample account was available in the retrieval pack to
// cross-check byte-for-byte).
type OrcaWhirlpoolLayout struct {
	TokenMintA   solana.PublicKey
	TokenMintB   solana.PublicKey
	TokenVaultA  solana.PublicKey
	TokenVaultB  solana.PublicKey
	SqrtPriceX64 uint128.Uint128
	TickCurrent  int32
}

const (
	whirlpoolSqrtPriceOffset    = 65
	whirlpoolTickCurrentOffset  = 81
	whirlpoolTokenMintAOffset   = 101
	whirlpoolTokenVaultAOffset  = 133
	whirlpoolTokenMintBOffset   = 181
	whirlpoolTokenVaultBOffset  = 213
)

// DecodeOrcaWhirlpool reads an Orca Whirlpool account. data is the full
// account buffer, 8-byte anchor discriminator included.
func DecodeOrcaWhirlpool(data []byte) (*OrcaWhirlpoolLayout, error) {
	if len(data) < whirlpoolTokenVaultBOffset+32 {
		return nil, arberr.Wrap(arberr.CategoryDecode, arberr.ErrMalformedLayout)
	}
	return &OrcaWhirlpoolLayout{
		TokenMintA:   readPubkey(data, whirlpoolTokenMintAOffset),
		TokenMintB:   readPubkey(data, whirlpoolTokenMintBOffset),
		TokenVaultA:  readPubkey(data, whirlpoolTokenVaultAOffset),
		TokenVaultB:  readPubkey(data, whirlpoolTokenVaultBOffset),
		SqrtPriceX64: uint128.FromBytes(data[whirlpoolSqrtPriceOffset : whirlpoolSqrtPriceOffset+16]),
		TickCurrent:  int32(leUint32(data[whirlpoolTickCurrentOffset : whirlpoolTickCurrentOffset+4])),
	}, nil
}
