package poolstate

import "github.com/gagliardetto/solana-go"

// RaydiumV4Layout is the subset of a Raydium V4 AMM account needed for
// price derivation: the two token vaults and the two mints.
type RaydiumV4Layout struct {
	CoinVault solana.PublicKey
	PcVault   solana.PublicKey
	CoinMint  solana.PublicKey
	PcMint    solana.PublicKey
}

const (
	raydiumV4CoinVaultOffset = 336
	raydiumV4PcVaultOffset   = 368
	raydiumV4CoinMintOffset  = 400
	raydiumV4PcMintOffset    = 432
)

// DecodeRaydiumV4 reads a Raydium V4 AMM account, grounded on the
// fixed-offset layout also used by the teacher's ammPool.go.
func DecodeRaydiumV4(data []byte) (*RaydiumV4Layout, error) {
	if err := requireLen(data, raydiumV4PcMintOffset); err != nil {
		return nil, err
	}
	return &RaydiumV4Layout{
		CoinVault: readPubkey(data, raydiumV4CoinVaultOffset),
		PcVault:   readPubkey(data, raydiumV4PcVaultOffset),
		CoinMint:  readPubkey(data, raydiumV4CoinMintOffset),
		PcMint:    readPubkey(data, raydiumV4PcMintOffset),
	}, nil
}
