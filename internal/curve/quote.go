// =============================
// File: internal/curve/quote.go
// =============================

// Package curve implements the pump.fun constant-product pricing engine:
// decoding bonding curve account state and quoting buys and sells with
// exact integer arithmetic. All quote functions are pure and safe for
// concurrent use; they never mutate the supplied state.
package curve

import "math"

// Unachievable is the sentinel returned by SolForTokens when the
// requested amount would drain the curve to its virtual-reserve limit,
// which no finite input can reach. Callers must check for it before
// treating the result as a cost.
const Unachievable = math.MaxUint64

// Curve selects the state a quote runs against: an existing on-chain
// snapshot, or a freshly created curve synthesized from Params. The
// distinction is part of the fee rule, so it is explicit at the call
// boundary rather than an implicit nil default.
type Curve struct {
	state *BondingCurve
}

// Fresh quotes against a curve that does not exist on chain yet.
func Fresh() Curve { return Curve{} }

// Existing quotes against a decoded bonding curve snapshot. The state
// must be non-nil: a not-yet-created curve is expressed with Fresh, not
// with a nil snapshot.
func Existing(state *BondingCurve) Curve {
	if state == nil {
		panic("curve: Existing requires a non-nil state")
	}
	return Curve{state: state}
}

// resolve returns the effective state and whether it was synthesized.
func (c Curve) resolve(p *Params) (*BondingCurve, bool) {
	if c.state != nil {
		return c.state, false
	}
	return p.NewBondingCurve(), true
}

// TokensForSol quotes a buy: how many token units solAmount lamports
// purchases. The total fee is deducted from the input before applying
// the constant-product formula, and the output is capped at the curve's
// real token reserves.
func TokensForSol(p *Params, c Curve, solAmount uint64) uint64 {
	if solAmount == 0 {
		return 0
	}

	state, fresh := c.resolve(p)
	if state.VirtualTokenReserves == 0 {
		// Migrated curve: no longer priceable under this model.
		return 0
	}

	fee := TotalFee(p, state, solAmount, fresh)
	solAfterFee := saturatingSub(solAmount, fee)
	if solAfterFee == 0 {
		return 0
	}

	tokensOut := swapOutput(state.VirtualTokenReserves, solAfterFee, state.VirtualSolReserves)
	if tokensOut > state.RealTokenReserves {
		tokensOut = state.RealTokenReserves
	}
	return tokensOut
}

// SolForTokens quotes the inverse buy: the lamports needed to purchase
// tokenAmount token units. The cost is rounded up by one lamport so a
// real trade funded with it cannot fail short, and the total fee is
// added on top of the cost. Returns Unachievable when the request would
// exhaust the virtual token reserves.
func SolForTokens(p *Params, c Curve, tokenAmount uint64) uint64 {
	if tokenAmount == 0 {
		return 0
	}

	state, fresh := c.resolve(p)
	if state.VirtualTokenReserves == 0 {
		return 0
	}

	capped := tokenAmount
	if capped > state.RealTokenReserves {
		capped = state.RealTokenReserves
	}

	denominator := saturatingSub(state.VirtualTokenReserves, capped)
	if denominator == 0 {
		return Unachievable
	}

	solCost := saturatingAdd(mulDivFloor(state.VirtualSolReserves, capped, denominator), 1)
	return saturatingAdd(solCost, TotalFee(p, state, solCost, fresh))
}

// SolFromTokens quotes a sell: the lamports received for tokenAmount
// token units, net of fees.
func SolFromTokens(p *Params, c Curve, tokenAmount uint64) uint64 {
	if tokenAmount == 0 {
		return 0
	}

	state, fresh := c.resolve(p)
	if state.VirtualTokenReserves == 0 || state.VirtualSolReserves == 0 {
		return 0
	}

	solOut := swapOutput(state.VirtualSolReserves, tokenAmount, state.VirtualTokenReserves)
	return saturatingSub(solOut, TotalFee(p, state, solOut, fresh))
}

// SellBreakdown quotes a sell against a known on-chain curve and
// returns both the net proceeds and the fee withheld, for callers that
// display or bound the two figures separately. The curve is always
// treated as pre-existing, so the fresh-curve fee rule never applies.
func SellBreakdown(p *Params, state *BondingCurve, tokenAmount uint64) (netSol, fee uint64) {
	if tokenAmount == 0 {
		return 0, 0
	}
	if state.VirtualTokenReserves == 0 || state.VirtualSolReserves == 0 {
		return 0, 0
	}

	grossSol := swapOutput(state.VirtualSolReserves, tokenAmount, state.VirtualTokenReserves)
	fee = TotalFee(p, state, grossSol, false)
	return saturatingSub(grossSol, fee), fee
}
