// =============================
// File: internal/curve/params.go
// =============================
package curve

// Params holds the protocol-wide constants that seed every freshly
// created bonding curve. They are read from the pump.fun global account
// (or defaulted) once at startup and passed explicitly into every
// pricing call.
type Params struct {
	InitialVirtualTokenReserves uint64
	InitialVirtualSolReserves   uint64
	InitialRealTokenReserves    uint64
	TokenTotalSupply            uint64
	FeeBasisPoints              uint64
	CreatorFeeBasisPoints       uint64
}

// DefaultParams returns the mainnet pump.fun global values.
func DefaultParams() *Params {
	return &Params{
		InitialVirtualTokenReserves: 1_073_000_000_000_000, // 1.073B tokens (6 decimals)
		InitialVirtualSolReserves:   30_000_000_000,        // 30 SOL in lamports
		InitialRealTokenReserves:    793_100_000_000_000,   // 793.1M tokens
		TokenTotalSupply:            1_000_000_000_000_000, // 1B tokens
		FeeBasisPoints:              100,                   // 1%
		CreatorFeeBasisPoints:       100,                   // 1%
	}
}

// NewBondingCurve synthesizes the state of a just-created curve: virtual
// reserves at their initial values, no real SOL custodied yet, no
// recorded creator.
func (p *Params) NewBondingCurve() *BondingCurve {
	return &BondingCurve{
		VirtualTokenReserves: p.InitialVirtualTokenReserves,
		VirtualSolReserves:   p.InitialVirtualSolReserves,
		RealTokenReserves:    p.InitialRealTokenReserves,
		RealSolReserves:      0,
		TokenTotalSupply:     p.TokenTotalSupply,
		Complete:             false,
	}
}
