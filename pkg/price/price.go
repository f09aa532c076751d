// Package price implements the scalar exchange-rate formulas shared by all
// AMM families: constant-product reserves, concentrated-liquidity
// sqrt-price, and dynamic-bin active-bin index.
package price

import (
	"math"

	"lukechampine.com/uint128"
)

// ConstantProduct returns the destination-per-source exchange rate implied
// by two token-vault reserves, before fees.
func ConstantProduct(sourceReserve, destReserve uint64) float64 {
	if sourceReserve == 0 {
		return 0
	}
	return float64(destReserve) / float64(sourceReserve)
}

// CLMM returns price = (sqrt_price / 2^64)^2 for a concentrated-liquidity
// pool's Q64.64 sqrt-price.
func CLMM(sqrtPriceX64 uint128.Uint128) float64 {
	sqrtPrice, _ := sqrtPriceX64.Big().Float64()
	sqrtPrice /= math.Pow(2, 64)
	return sqrtPrice * sqrtPrice
}

// DynamicBin returns price = (1 + bin_step/10000)^active_bin.
//
// active_bin is a signed exponent; a plain math.Pow on a negative exponent
// is numerically fine for float64 bases near 1, but the source computes it
// via exponentiation-by-squaring on the absolute value with a reciprocal
// for negative exponents, so this mirrors that path rather than handing the
// whole thing to math.Pow.
func DynamicBin(binStep uint16, activeBin int32) float64 {
	base := 1.0 + float64(binStep)/10_000.0
	negative := activeBin < 0
	n := activeBin
	if negative {
		n = -n
	}
	result := powBySquaring(base, uint32(n))
	if negative {
		return 1.0 / result
	}
	return result
}

func powBySquaring(base float64, exp uint32) float64 {
	result := 1.0
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}
