package poolstate

import "github.com/gagliardetto/solana-go"

// VaultPairLayout is the shared shape of every constant-product family that
// exposes its two mints and two vaults at fixed offsets: Meteora DAMM v1/v2,
// Solfi, and the generic Vertigo/Futarchy/Humidifi families.
type VaultPairLayout struct {
	BaseMint  solana.PublicKey
	QuoteMint solana.PublicKey
	BaseVault solana.PublicKey
	QuoteVault solana.PublicKey
}

const (
	dammV2BaseMintOffset  = 168
	dammV2QuoteMintOffset = 200
	dammV2BaseVaultOffset = 232
	dammV2QuoteVaultOffset = 264
)

// DecodeMeteoraDAMMv2 reads a Meteora dynamic-AMM v2 pool account, per
// original_source/dex/meteora/dammv2_info.rs's offsets.
func DecodeMeteoraDAMMv2(data []byte) (*VaultPairLayout, error) {
	return decodeVaultPair(data, dammV2BaseMintOffset, dammV2QuoteMintOffset, dammV2BaseVaultOffset, dammV2QuoteVaultOffset)
}

// DecodeMeteoraDAMMv1 reads a Meteora dynamic-AMM (v1) pool account. The
// teacher pack ships no v1 decoder; v1 is grounded on the v2 shape per
// SPEC_FULL.md's note, since original_source/engine/graph.rs's
// process_meteora_damm_pools dispatches both versions through the same
// vault-pair price derivation.
func DecodeMeteoraDAMMv1(data []byte) (*VaultPairLayout, error) {
	return decodeVaultPair(data, dammV2BaseMintOffset, dammV2QuoteMintOffset, dammV2BaseVaultOffset, dammV2QuoteVaultOffset)
}

const (
	solfiBaseMintOffset   = 2664
	solfiQuoteMintOffset  = 2696
	solfiBaseVaultOffset  = 2736
	solfiQuoteVaultOffset = 2768
)

// DecodeSolfi reads a Solfi pool account, per spec.md §6's fixed offsets.
func DecodeSolfi(data []byte) (*VaultPairLayout, error) {
	return decodeVaultPair(data, solfiBaseMintOffset, solfiQuoteMintOffset, solfiBaseVaultOffset, solfiQuoteVaultOffset)
}

func decodeVaultPair(data []byte, baseMintOff, quoteMintOff, baseVaultOff, quoteVaultOff int) (*VaultPairLayout, error) {
	last := baseMintOff
	for _, off := range []int{quoteMintOff, baseVaultOff, quoteVaultOff} {
		if off > last {
			last = off
		}
	}
	if err := requireLen(data, last); err != nil {
		return nil, err
	}
	return &VaultPairLayout{
		BaseMint:   readPubkey(data, baseMintOff),
		QuoteMint:  readPubkey(data, quoteMintOff),
		BaseVault:  readPubkey(data, baseVaultOff),
		QuoteVault: readPubkey(data, quoteVaultOff),
	}, nil
}
