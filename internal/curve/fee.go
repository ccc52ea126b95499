// =============================
// File: internal/curve/fee.go
// =============================
package curve

import (
	"math"
	"math/big"
)

const basisPointDenominator = 10_000

// FeeByBasisPoints computes ceil(amount * bps / 10000) with a 128-bit
// intermediate product. Rounding up means a non-zero taxable amount
// never pays a zero fee when bps > 0.
func FeeByBasisPoints(amount, bps uint64) uint64 {
	if amount == 0 || bps == 0 {
		return 0
	}
	return mulDivCeil(amount, bps, basisPointDenominator)
}

// TotalFee returns the platform fee plus, when eligible, the creator
// fee for the given trade amount. A curve pays the creator fee if it is
// freshly created or carries a non-default creator key; pre-existing
// curves without a recorded creator are exempt.
func TotalFee(p *Params, state *BondingCurve, amount uint64, fresh bool) uint64 {
	fee := FeeByBasisPoints(amount, p.FeeBasisPoints)
	if fresh || !state.Creator.IsZero() {
		fee += FeeByBasisPoints(amount, p.CreatorFeeBasisPoints)
	}
	return fee
}

// mulDivFloor computes floor(a * b / den) without overflowing the
// intermediate product. Results that do not fit a uint64 saturate.
func mulDivFloor(a, b, den uint64) uint64 {
	num := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	num.Div(num, new(big.Int).SetUint64(den))
	if !num.IsUint64() {
		return math.MaxUint64
	}
	return num.Uint64()
}

// swapOutput computes floor(reserveOut * amountIn / (reserveIn + amountIn))
// entirely in big.Int: the denominator sum itself can exceed a uint64 on
// extreme inputs, so it must not be narrowed before the division.
func swapOutput(reserveOut, amountIn, reserveIn uint64) uint64 {
	num := new(big.Int).Mul(new(big.Int).SetUint64(reserveOut), new(big.Int).SetUint64(amountIn))
	den := new(big.Int).Add(new(big.Int).SetUint64(reserveIn), new(big.Int).SetUint64(amountIn))
	num.Div(num, den)
	if !num.IsUint64() {
		return math.MaxUint64
	}
	return num.Uint64()
}

// mulDivCeil computes ceil(a * b / den), saturating like mulDivFloor.
func mulDivCeil(a, b, den uint64) uint64 {
	num := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	num.Add(num, new(big.Int).SetUint64(den-1))
	num.Div(num, new(big.Int).SetUint64(den))
	if !num.IsUint64() {
		return math.MaxUint64
	}
	return num.Uint64()
}

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
