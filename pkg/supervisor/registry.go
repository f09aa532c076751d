package supervisor

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/solana-arb/engine/pkg/arb"
	"github.com/solana-arb/engine/pkg/arberr"
	"github.com/solana-arb/engine/pkg/ingest"
	"github.com/solana-arb/engine/pkg/poolstate"
)

// Registry turns a flat list of pool addresses — the supervisor's market
// list — into the per-mint pool inventory the ingestion driver consumes,
// by fetching each pool account once and classifying it by its owning
// program. This is the Go-native counterpart to the prototype's
// market-config-driven bootstrap: rather than requiring each pool to be
// hand-tagged with a dex type in a config file, ownership alone identifies
// the family, the same check discovery already performs when verifying a
// candidate pool.
type Registry struct {
	fetcher ingest.AccountFetcher
	logger  *zap.Logger
}

// NewRegistry returns a Registry reading pool accounts through fetcher.
func NewRegistry(fetcher ingest.AccountFetcher, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{fetcher: fetcher, logger: logger}
}

// Build classifies every pool in addrs and returns the resulting per-mint
// inventory, keyed by each pool's SOL-paired token mint. Pools that fail
// to decode or whose owner isn't a recognized program are skipped and
// logged, never aborting the whole build.
func (r *Registry) Build(ctx context.Context, addrs []solana.PublicKey) (map[solana.PublicKey]*arb.MintPoolData, error) {
	if len(addrs) == 0 {
		return nil, arberr.Wrap(arberr.CategoryTransport, arberr.ErrEmptyMarketList)
	}
	result, err := r.fetcher.GetMultipleAccountsWithOpts(ctx, addrs)
	if err != nil {
		return nil, arberr.Wrap(arberr.CategoryTransport, err)
	}

	out := make(map[solana.PublicKey]*arb.MintPoolData)
	mintData := func(mint solana.PublicKey) *arb.MintPoolData {
		md, ok := out[mint]
		if !ok {
			md = &arb.MintPoolData{Mint: mint, TokenProgram: solana.TokenProgramID}
			out[mint] = md
		}
		return md
	}

	for i, account := range result.Value {
		if account == nil {
			continue
		}
		pool := addrs[i]
		data := account.Data.GetBinary()
		if err := r.classify(pool, account.Owner, data, mintData); err != nil {
			r.logger.Debug("pool classification skipped",
				zap.String("pool", pool.String()), zap.Error(err))
		}
	}
	if len(out) == 0 {
		return nil, arberr.Wrap(arberr.CategoryTransport, arberr.ErrEmptyMarketList)
	}
	return out, nil
}

func (r *Registry) classify(pool, owner solana.PublicKey, data []byte, mintData func(solana.PublicKey) *arb.MintPoolData) error {
	switch owner {
	case poolstate.RaydiumV4ProgramID:
		layout, err := poolstate.DecodeRaydiumV4(data)
		if err != nil {
			return err
		}
		return addVaultPair(mintData, pool, layout.CoinMint, layout.PcMint, layout.CoinVault, layout.PcVault,
			func(md *arb.MintPoolData, ref arb.VaultPairRef) { md.RaydiumV4Pools = append(md.RaydiumV4Pools, ref) })

	case poolstate.RaydiumCPProgramID:
		layout, err := poolstate.DecodeRaydiumCP(data)
		if err != nil {
			return err
		}
		return addVaultPair(mintData, pool, layout.Token0Mint, layout.Token1Mint, layout.Token0Vault, layout.Token1Vault,
			func(md *arb.MintPoolData, ref arb.VaultPairRef) { md.RaydiumCPPools = append(md.RaydiumCPPools, ref) })

	case poolstate.MeteoraDAMMProgramID:
		layout, err := poolstate.DecodeMeteoraDAMMv2(data)
		if err != nil {
			return err
		}
		return addVaultPair(mintData, pool, layout.BaseMint, layout.QuoteMint, layout.BaseVault, layout.QuoteVault,
			func(md *arb.MintPoolData, ref arb.VaultPairRef) { md.MeteoraDAMMv2Pools = append(md.MeteoraDAMMv2Pools, ref) })

	case poolstate.SolfiProgramID:
		layout, err := poolstate.DecodeSolfi(data)
		if err != nil {
			return err
		}
		return addVaultPair(mintData, pool, layout.BaseMint, layout.QuoteMint, layout.BaseVault, layout.QuoteVault,
			func(md *arb.MintPoolData, ref arb.VaultPairRef) { md.SolfiPools = append(md.SolfiPools, ref) })

	case poolstate.VertigoProgramID:
		return r.classifyGenericCP(poolstate.FamilyVertigo, mintData, pool, data,
			func(md *arb.MintPoolData, ref arb.VaultPairRef) { md.VertigoPools = append(md.VertigoPools, ref) })

	case poolstate.HumidifiProgramID:
		return r.classifyGenericCP(poolstate.FamilyHumidifi, mintData, pool, data,
			func(md *arb.MintPoolData, ref arb.VaultPairRef) { md.HumidifiPools = append(md.HumidifiPools, ref) })

	case poolstate.FutarchyProgramID:
		layout, err := poolstate.DecodeGenericCP(poolstate.FamilyFutarchy, data)
		if err != nil {
			return err
		}
		return addDAO(mintData, pool, layout.BaseMint, layout.QuoteMint, layout.BaseVault, layout.QuoteVault)

	case poolstate.RaydiumCLMMProgramID:
		layout, err := poolstate.DecodeRaydiumCLMM(stripDiscriminator(data))
		if err != nil {
			return err
		}
		return addState(mintData, pool, layout.TokenMint0, layout.TokenMint1,
			func(md *arb.MintPoolData, ref arb.StateRef) { md.RaydiumCLMMPools = append(md.RaydiumCLMMPools, ref) })

	case poolstate.OrcaWhirlpoolProgramID:
		layout, err := poolstate.DecodeOrcaWhirlpool(data)
		if err != nil {
			return err
		}
		return addState(mintData, pool, layout.TokenMintA, layout.TokenMintB,
			func(md *arb.MintPoolData, ref arb.StateRef) { md.WhirlpoolPools = append(md.WhirlpoolPools, ref) })

	case poolstate.MeteoraDLMMProgramID:
		layout, err := poolstate.DecodeMeteoraDLMM(data)
		if err != nil {
			return err
		}
		return addState(mintData, pool, layout.TokenXMint, layout.TokenYMint,
			func(md *arb.MintPoolData, ref arb.StateRef) { md.DLMMPairs = append(md.DLMMPairs, ref) })

	case poolstate.PancakeSwapCLMMProgramID:
		layout, err := poolstate.DecodeCLMMFork(owner, poolstate.PancakeSwapCLMMProgramID, stripDiscriminator(data))
		if err != nil {
			return err
		}
		return addState(mintData, pool, layout.TokenMint0, layout.TokenMint1,
			func(md *arb.MintPoolData, ref arb.StateRef) { md.PancakeSwapPools = append(md.PancakeSwapPools, ref) })

	case poolstate.ByrealProgramID:
		layout, err := poolstate.DecodeCLMMFork(owner, poolstate.ByrealProgramID, stripDiscriminator(data))
		if err != nil {
			return err
		}
		return addState(mintData, pool, layout.TokenMint0, layout.TokenMint1,
			func(md *arb.MintPoolData, ref arb.StateRef) { md.ByrealPools = append(md.ByrealPools, ref) })

	case poolstate.PumpAMMProgramID:
		layout, err := poolstate.DecodePumpAMM(data)
		if err != nil {
			return err
		}
		baseVault, _, err := solana.FindAssociatedTokenAddress(pool, layout.BaseMint)
		if err != nil {
			return err
		}
		quoteVault, _, err := solana.FindAssociatedTokenAddress(pool, layout.QuoteMint)
		if err != nil {
			return err
		}
		return addVaultPair(mintData, pool, layout.BaseMint, layout.QuoteMint, baseVault, quoteVault,
			func(md *arb.MintPoolData, ref arb.VaultPairRef) { md.PumpPools = append(md.PumpPools, ref) })

	case poolstate.HeavenProgramID:
		layout, err := poolstate.DecodeHeaven(data)
		if err != nil {
			return err
		}
		return addHeaven(mintData, pool, layout.BaseMint, layout.QuoteMint)

	default:
		return arberr.Wrap(arberr.CategoryDecode, arberr.ErrUnsupportedProgram)
	}
}

// classifyGenericCP handles the smaller constant-product forks that share
// decodeVaultPair's shape (Vertigo, Humidifi) with vaults carried directly
// in the pool account, same as Meteora DAMM v2 and Solfi. Futarchy uses the
// same decoder but is classified separately through addDAO.
func (r *Registry) classifyGenericCP(family poolstate.GenericCPFamily, mintData func(solana.PublicKey) *arb.MintPoolData, pool solana.PublicKey, data []byte, append func(*arb.MintPoolData, arb.VaultPairRef)) error {
	layout, err := poolstate.DecodeGenericCP(family, data)
	if err != nil {
		return err
	}
	return addVaultPair(mintData, pool, layout.BaseMint, layout.QuoteMint, layout.BaseVault, layout.QuoteVault, append)
}

// stripDiscriminator removes the 8-byte Anchor discriminator CLMM-family
// accounts carry ahead of their typed fields, matching the ingestion
// driver's own convention for the same account families.
func stripDiscriminator(data []byte) []byte {
	if len(data) > 8 {
		return data[8:]
	}
	return data
}

func addVaultPair(mintData func(solana.PublicKey) *arb.MintPoolData, pool, mintA, mintB, vaultA, vaultB solana.PublicKey, appendRef func(*arb.MintPoolData, arb.VaultPairRef)) error {
	switch {
	case mintA.Equals(poolstate.WrappedSOLMint):
		appendRef(mintData(mintB), arb.VaultPairRef{Pool: pool, TokenVault: vaultB, NativeVault: vaultA})
	case mintB.Equals(poolstate.WrappedSOLMint):
		appendRef(mintData(mintA), arb.VaultPairRef{Pool: pool, TokenVault: vaultA, NativeVault: vaultB})
	default:
		return arberr.Wrap(arberr.CategoryDecode, arberr.ErrNotSolPaired)
	}
	return nil
}

func addState(mintData func(solana.PublicKey) *arb.MintPoolData, pool, mintA, mintB solana.PublicKey, appendRef func(*arb.MintPoolData, arb.StateRef)) error {
	switch {
	case mintA.Equals(poolstate.WrappedSOLMint):
		appendRef(mintData(mintB), arb.StateRef{Pool: pool, TokenMint: mintB})
	case mintB.Equals(poolstate.WrappedSOLMint):
		appendRef(mintData(mintA), arb.StateRef{Pool: pool, TokenMint: mintA})
	default:
		return arberr.Wrap(arberr.CategoryDecode, arberr.ErrNotSolPaired)
	}
	return nil
}

func addDAO(mintData func(solana.PublicKey) *arb.MintPoolData, pool, mintA, mintB, vaultA, vaultB solana.PublicKey) error {
	switch {
	case mintA.Equals(poolstate.WrappedSOLMint):
		md := mintData(mintB)
		md.FutarchyPools = append(md.FutarchyPools, arb.DAORef{DAO: pool, TokenVault: vaultB, NativeVault: vaultA})
	case mintB.Equals(poolstate.WrappedSOLMint):
		md := mintData(mintA)
		md.FutarchyPools = append(md.FutarchyPools, arb.DAORef{DAO: pool, TokenVault: vaultA, NativeVault: vaultB})
	default:
		return arberr.Wrap(arberr.CategoryDecode, arberr.ErrNotSolPaired)
	}
	return nil
}

// addHeaven keys the ref under whichever decoded mint is not wrapped SOL,
// matching the ingestion driver's HeavenRef convention: TokenMint is the
// mint the resulting MintPoolData lives under, BaseMint is the edge's
// ToMint target (processHeavenPools uses p.BaseMint directly).
func addHeaven(mintData func(solana.PublicKey) *arb.MintPoolData, pool, decodedBaseMint, decodedQuoteMint solana.PublicKey) error {
	switch {
	case decodedBaseMint.Equals(poolstate.WrappedSOLMint):
		md := mintData(decodedQuoteMint)
		md.HeavenPools = append(md.HeavenPools, arb.HeavenRef{Pool: pool, TokenMint: decodedQuoteMint, BaseMint: decodedBaseMint})
	case decodedQuoteMint.Equals(poolstate.WrappedSOLMint):
		md := mintData(decodedBaseMint)
		md.HeavenPools = append(md.HeavenPools, arb.HeavenRef{Pool: pool, TokenMint: decodedBaseMint, BaseMint: decodedQuoteMint})
	default:
		return arberr.Wrap(arberr.CategoryDecode, arberr.ErrNotSolPaired)
	}
	return nil
}
