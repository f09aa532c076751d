package poolstate

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/solana-arb/engine/pkg/arberr"
)

// RaydiumCPLayout is the Raydium CPMM pool state account, matching the
// teacher's cpmmPool.go field order exactly.
type RaydiumCPLayout struct {
	AmmConfig      solana.PublicKey
	PoolCreator    solana.PublicKey
	Token0Vault    solana.PublicKey
	Token1Vault    solana.PublicKey
	LpMint         solana.PublicKey
	Token0Mint     solana.PublicKey
	Token1Mint     solana.PublicKey
	Token0Program  solana.PublicKey
	Token1Program  solana.PublicKey
	ObservationKey solana.PublicKey
}

// raydiumCPAccount mirrors RaydiumCPLayout plus the leading 8-byte anchor
// discriminator, so the borsh decoder can walk the account buffer directly
// instead of requiring hand-computed byte offsets.
type raydiumCPAccount struct {
	Discriminator  [8]byte
	AmmConfig      solana.PublicKey
	PoolCreator    solana.PublicKey
	Token0Vault    solana.PublicKey
	Token1Vault    solana.PublicKey
	LpMint         solana.PublicKey
	Token0Mint     solana.PublicKey
	Token1Mint     solana.PublicKey
	Token0Program  solana.PublicKey
	Token1Program  solana.PublicKey
	ObservationKey solana.PublicKey
}

const (
	raydiumCPToken0MintOffset     = 168
	raydiumCPToken1MintOffset     = 200
	raydiumCPObservationKeyOffset = 296
)

// DecodeRaydiumCP reads a Raydium CPMM pool state account.
func DecodeRaydiumCP(data []byte) (*RaydiumCPLayout, error) {
	if err := requireLen(data, raydiumCPObservationKeyOffset); err != nil {
		return nil, err
	}
	var raw raydiumCPAccount
	if err := bin.NewBinDecoder(data).Decode(&raw); err != nil {
		return nil, arberr.Wrap(arberr.CategoryDecode, err)
	}
	return &RaydiumCPLayout{
		AmmConfig:      raw.AmmConfig,
		PoolCreator:    raw.PoolCreator,
		Token0Vault:    raw.Token0Vault,
		Token1Vault:    raw.Token1Vault,
		LpMint:         raw.LpMint,
		Token0Mint:     raw.Token0Mint,
		Token1Mint:     raw.Token1Mint,
		Token0Program:  raw.Token0Program,
		Token1Program:  raw.Token1Program,
		ObservationKey: raw.ObservationKey,
	}, nil
}
