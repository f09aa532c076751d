package poolstate

// GenericCPFamily identifies one of the smaller constant-product forks that
// share a vault-pair shape but live at different fixed offsets.
type GenericCPFamily int

const (
	FamilyVertigo GenericCPFamily = iota
	FamilyFutarchy
	FamilyHumidifi
)

// genericCPOffsets holds the assumed byte offsets for a vault-pair family
// that has no decoder anywhere in the teacher pack. These three protocols
// are small, low-TVL constant-product forks; DESIGN.md documents them as
// sharing Raydium V4's reserve-at-vault-account convention with a shorter,
// program-specific header, so each family's header length is the only
// degree of freedom against the common vault-pair tail layout.
var genericCPOffsets = map[GenericCPFamily]struct {
	baseMint, quoteMint, baseVault, quoteVault int
}{
	FamilyVertigo:  {baseMint: 8, quoteMint: 40, baseVault: 72, quoteVault: 104},
	FamilyFutarchy: {baseMint: 8, quoteMint: 40, baseVault: 72, quoteVault: 104},
	FamilyHumidifi: {baseMint: 8, quoteMint: 40, baseVault: 72, quoteVault: 104},
}

// DecodeGenericCP reads a vault-pair pool account for one of the small
// constant-product forks (Vertigo, Futarchy, Humidifi) that all share the
// same assumed header shape.
func DecodeGenericCP(family GenericCPFamily, data []byte) (*VaultPairLayout, error) {
	off := genericCPOffsets[family]
	return decodeVaultPair(data, off.baseMint, off.quoteMint, off.baseVault, off.quoteVault)
}
