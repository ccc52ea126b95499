// =============================
// File: internal/curve/state.go
// =============================
package curve

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ErrMalformedAccount is returned when bonding curve account data is
// shorter than the fixed on-chain layout.
var ErrMalformedAccount = errors.New("malformed bonding curve account")

// Bonding curve account layout, little-endian. The 8-byte Anchor
// discriminator at offset 0 is not interpreted.
const (
	virtualTokenReservesOffset = 8
	virtualSolReservesOffset   = 16
	realTokenReservesOffset    = 24
	realSolReservesOffset      = 32
	tokenTotalSupplyOffset     = 40
	completeOffset             = 48
	creatorOffset              = 49

	// AccountSize is the full serialized size of a bonding curve account.
	AccountSize = creatorOffset + 32 // 81 bytes
)

// BondingCurve is a read-only snapshot of a bonding curve account.
type BondingCurve struct {
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
	Creator              solana.PublicKey
}

// DecodeBondingCurve parses raw account data into a BondingCurve.
// Values are trusted as-is; only the length is validated.
func DecodeBondingCurve(data []byte) (*BondingCurve, error) {
	if len(data) < AccountSize {
		return nil, fmt.Errorf("%w: %d bytes, want at least %d", ErrMalformedAccount, len(data), AccountSize)
	}

	state := &BondingCurve{
		VirtualTokenReserves: binary.LittleEndian.Uint64(data[virtualTokenReservesOffset:]),
		VirtualSolReserves:   binary.LittleEndian.Uint64(data[virtualSolReservesOffset:]),
		RealTokenReserves:    binary.LittleEndian.Uint64(data[realTokenReservesOffset:]),
		RealSolReserves:      binary.LittleEndian.Uint64(data[realSolReservesOffset:]),
		TokenTotalSupply:     binary.LittleEndian.Uint64(data[tokenTotalSupplyOffset:]),
		Complete:             data[completeOffset] != 0,
		Creator:              solana.PublicKeyFromBytes(data[creatorOffset : creatorOffset+32]),
	}
	return state, nil
}
