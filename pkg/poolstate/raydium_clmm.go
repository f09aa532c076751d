package poolstate

import (
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/solana-arb/engine/pkg/arberr"
)

// RaydiumCLMMLayout is the subset of a Raydium CLMM pool state account
// needed for price derivation, matching the field order of the teacher's
// clmmPool.go (discriminator already stripped by the caller).
type RaydiumCLMMLayout struct {
	TokenMint0   solana.PublicKey
	TokenMint1   solana.PublicKey
	TokenVault0  solana.PublicKey
	TokenVault1  solana.PublicKey
	SqrtPriceX64 uint128.Uint128
	TickCurrent  int32
}

const (
	clmmBumpOffset         = 0
	clmmAmmConfigOffset    = 1
	clmmOwnerOffset        = 33
	clmmTokenMint0Offset   = 65
	clmmTokenMint1Offset   = 97
	clmmTokenVault0Offset  = 129
	clmmTokenVault1Offset  = 161
	clmmObservationOffset  = 193
	clmmMintDecimals0Off   = 225
	clmmMintDecimals1Off   = 226
	clmmTickSpacingOffset  = 227
	clmmLiquidityOffset    = 229
	clmmSqrtPriceX64Offset = 245
	clmmTickCurrentOffset  = 261
)

// DecodeRaydiumCLMM reads a Raydium CLMM pool state account. data must
// already have its 8-byte anchor discriminator stripped by the caller.
func DecodeRaydiumCLMM(data []byte) (*RaydiumCLMMLayout, error) {
	if len(data) < clmmTickCurrentOffset+4 {
		return nil, arberr.Wrap(arberr.CategoryDecode, arberr.ErrMalformedLayout)
	}
	return &RaydiumCLMMLayout{
		TokenMint0:   readPubkey(data, clmmTokenMint0Offset),
		TokenMint1:   readPubkey(data, clmmTokenMint1Offset),
		TokenVault0:  readPubkey(data, clmmTokenVault0Offset),
		TokenVault1:  readPubkey(data, clmmTokenVault1Offset),
		SqrtPriceX64: uint128.FromBytes(data[clmmSqrtPriceX64Offset : clmmSqrtPriceX64Offset+16]),
		TickCurrent:  int32(leUint32(data[clmmTickCurrentOffset : clmmTickCurrentOffset+4])),
	}, nil
}

// DecodeCLMMFork decodes a CLMM-compatible fork account (PancakeSwap,
// Byreal) after verifying owner matches the fork's own program id, not
// Raydium's — forks share Raydium's byte layout but must never be decoded
// as if they were a genuine Raydium pool.
func DecodeCLMMFork(owner, expectedProgram solana.PublicKey, data []byte) (*RaydiumCLMMLayout, error) {
	if !owner.Equals(expectedProgram) {
		return nil, arberr.Wrap(arberr.CategoryDecode, arberr.ErrOwnerMismatch)
	}
	return DecodeRaydiumCLMM(data)
}
