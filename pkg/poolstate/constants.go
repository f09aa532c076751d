// Package poolstate decodes the fixed-offset on-chain account layouts for
// every supported AMM family into uniform typed records. Every decoder is a
// pure function over an opaque account buffer; none of them touch the
// network.
package poolstate

import "github.com/gagliardetto/solana-go"

// Whitelisted AMM program identifiers, exact strings required for
// discovery's owner-verification step and for this package's own
// fork-ownership checks (PancakeSwap/Byreal reuse the Raydium CLMM decoder
// but must first prove the account they fetched is actually owned by their
// own program id, not Raydium's).
var (
	RaydiumV4ProgramID   = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	RaydiumCLMMProgramID = solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK")
	RaydiumCPProgramID   = solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")
	MeteoraDLMMProgramID = solana.MustPublicKeyFromBase58("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")
	MeteoraDAMMProgramID = solana.MustPublicKeyFromBase58("Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB")
	OrcaWhirlpoolProgramID = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")
	PumpAMMProgramID     = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")
)

// PancakeSwapCLMMProgramID and ByrealProgramID identify the two CLMM forks
// ingestion handles alongside Raydium's own CLMM program. Neither id is
// among the 7 discovery whitelists (spec.md §6); they're an ingestion-side
// addition for families original_source/engine/graph.rs dispatches on
// (process_pancakeswap_pools, process_byreal_pools) but that spec.md's
// distillation dropped. No verified mainnet address for either program
// appears anywhere in the retrieval pack, so these are documented
// placeholder assumptions (see DESIGN.md) rather than confirmed values.
var (
	PancakeSwapCLMMProgramID = solana.MustPublicKeyFromBase58("HpNfyc2Saw7RKkQd8nEF4MpjQzSeVJwd6qFVbhX84VTA")
	ByrealProgramID          = solana.MustPublicKeyFromBase58("REALQqNEomaSjQniPgqxGyVGAkEMYz5v1ed2fVXKvmN")
)

// SolfiProgramID, VertigoProgramID, FutarchyProgramID, HumidifiProgramID,
// and HeavenProgramID identify the five remaining families this package
// has a decoder for (DecodeSolfi in meteora_damm.go, generic_cp.go,
// heaven.go) but whose program
// ids never surface anywhere in the retrieval pack either — the original
// prototype names these families (engine/types.rs's DexKind enum) without
// ever recording the on-chain addresses that own them. Same placeholder
// status as the two CLMM forks above (see DESIGN.md).
var (
	SolfiProgramID    = solana.MustPublicKeyFromBase58("SoLFiHG9TfgtdUXUjWAxi3LtvYtGzqf19PQDWvVK9Ak")
	VertigoProgramID  = solana.MustPublicKeyFromBase58("VrTGoBuPvDAwDLSuLGBv9wS4yYpVBXXjXZqoEhWvSDr")
	FutarchyProgramID = solana.MustPublicKeyFromBase58("FutGVhqHxaLWpxUdhTzmdY5EPjYHFP3a2KwwrUnjGRJE")
	HumidifiProgramID = solana.MustPublicKeyFromBase58("HumidFiaUdTGsJRUTCcAXC3ntMpD5Z1vRLVAhzVCKS29")
	HeavenProgramID   = solana.MustPublicKeyFromBase58("HEAVENoP2qxoeuF8Dj2oT1GHEnu49U5mJYkdeC8dHBFn")
)

// WhitelistedProgramIDs is the full 7-entry set discovery checks pool
// owners against.
var WhitelistedProgramIDs = []solana.PublicKey{
	RaydiumV4ProgramID,
	RaydiumCLMMProgramID,
	RaydiumCPProgramID,
	MeteoraDLMMProgramID,
	MeteoraDAMMProgramID,
	OrcaWhirlpoolProgramID,
	PumpAMMProgramID,
}

// IsWhitelistedProgram reports whether owner is one of the 7 whitelisted
// AMM program identifiers.
func IsWhitelistedProgram(owner solana.PublicKey) bool {
	for _, id := range WhitelistedProgramIDs {
		if owner.Equals(id) {
			return true
		}
	}
	return false
}

// Denylisted mints: native wrapped-SOL and the two major stablecoins.
// Discovery strips any token address matching these from its candidate set.
var (
	WrappedSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	USDCMint       = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	USDTMint       = solana.MustPublicKeyFromBase58("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")
)

// DenylistedMints lists every mint address discovery must strip from its
// candidate token set.
var DenylistedMints = []solana.PublicKey{WrappedSOLMint, USDCMint, USDTMint}

// IsDenylisted reports whether mint is the wrapped-native token or one of
// the two stablecoins.
func IsDenylisted(mint solana.PublicKey) bool {
	for _, id := range DenylistedMints {
		if mint.Equals(id) {
			return true
		}
	}
	return false
}

// reserveOffset is the byte offset, within a token account's data, of the
// little-endian u64 balance word.
const (
	tokenAccountMintOffset = 0
	reserveOffset          = 64
)

// ReadTokenReserve extracts a token account's balance. Accounts shorter
// than reserveOffset+8 bytes yield zero, matching the data model's "too
// short to contain a reserve" convention.
func ReadTokenReserve(data []byte) uint64 {
	if len(data) < reserveOffset+8 {
		return 0
	}
	return leUint64(data[reserveOffset : reserveOffset+8])
}

// ReadTokenMint extracts the mint a token account belongs to. SPL token
// accounts carry their mint as the first 32 bytes, ahead of the owner and
// the amount ReadTokenReserve reads at offset 64.
func ReadTokenMint(data []byte) solana.PublicKey {
	if len(data) < tokenAccountMintOffset+32 {
		return solana.PublicKey{}
	}
	return readPubkey(data, tokenAccountMintOffset)
}
