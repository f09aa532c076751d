package arb

import "github.com/gagliardetto/solana-go"

// VaultPairRef identifies a constant-product pool by its two token-vault
// accounts, one on the mint's side and one on the native token's side.
type VaultPairRef struct {
	Pool         solana.PublicKey
	TokenVault   solana.PublicKey
	NativeVault  solana.PublicKey
}

// StateRef identifies a pool whose price is derived by decoding a single
// pool-state account (concentrated-liquidity families, dynamic-bin pairs).
type StateRef struct {
	Pool      solana.PublicKey
	TokenMint solana.PublicKey
}

// DAORef identifies a futarchy-style pool keyed on a DAO account rather
// than a conventional pool account.
type DAORef struct {
	DAO         solana.PublicKey
	TokenVault  solana.PublicKey
	NativeVault solana.PublicKey
}

// HeavenRef identifies a Heaven-style pool, which exposes both of its
// mints directly rather than requiring them to be inferred from vaults.
type HeavenRef struct {
	Pool      solana.PublicKey
	TokenMint solana.PublicKey
	BaseMint  solana.PublicKey
}

// MintPoolData is the per-token inventory of known pools, partitioned by
// AMM family, that the ingestion driver consumes on each tick.
type MintPoolData struct {
	Mint         solana.PublicKey
	TokenProgram solana.PublicKey

	RaydiumV4Pools     []VaultPairRef
	RaydiumCPPools     []VaultPairRef
	PumpPools          []VaultPairRef
	MeteoraDAMMPools   []VaultPairRef
	MeteoraDAMMv2Pools []VaultPairRef
	VertigoPools       []VaultPairRef
	HumidifiPools      []VaultPairRef
	SolfiPools         []VaultPairRef
	FutarchyPools      []DAORef

	RaydiumCLMMPools []StateRef
	WhirlpoolPools   []StateRef
	PancakeSwapPools []StateRef
	ByrealPools      []StateRef
	DLMMPairs        []StateRef

	HeavenPools []HeavenRef
}
