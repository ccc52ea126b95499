// =============================
// File: internal/pump/instructions.go
// =============================
package pump

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Anchor instruction discriminators from the pump.fun IDL.
var (
	buyDiscriminator  = []byte{102, 6, 61, 18, 1, 218, 235, 234}
	sellDiscriminator = []byte{51, 230, 133, 164, 1, 127, 131, 173}
)

// BuyAccounts lists every account of the buy instruction, in program
// order.
type BuyAccounts struct {
	Global                  solana.PublicKey
	FeeRecipient            solana.PublicKey
	Mint                    solana.PublicKey
	BondingCurve            solana.PublicKey
	AssociatedBondingCurve  solana.PublicKey
	AssociatedUser          solana.PublicKey
	User                    solana.PublicKey
	TokenProgram            solana.PublicKey
	CreatorVault            solana.PublicKey
	GlobalVolumeAccumulator solana.PublicKey
	UserVolumeAccumulator   solana.PublicKey
}

// BuildBuyInstruction encodes a buy of an exact token amount with a
// SOL cost ceiling. Data layout: discriminator, amount u64 LE,
// max_sol_cost u64 LE, then track_volume as Option<bool>.
func BuildBuyInstruction(accounts BuyAccounts, amount, maxSolCost uint64, trackVolume bool) solana.Instruction {
	data := make([]byte, 0, 26)
	data = append(data, buyDiscriminator...)
	data = binary.LittleEndian.AppendUint64(data, amount)
	data = binary.LittleEndian.AppendUint64(data, maxSolCost)
	data = append(data, 1) // Option tag: Some
	if trackVolume {
		data = append(data, 1)
	} else {
		data = append(data, 0)
	}

	// Account list must be in the exact order expected by the program.
	metas := []*solana.AccountMeta{
		{PublicKey: accounts.Global, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.FeeRecipient, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.Mint, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.BondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.AssociatedBondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.AssociatedUser, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.User, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.TokenProgram, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.CreatorVault, IsSigner: false, IsWritable: true},
		{PublicKey: EventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: ProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.GlobalVolumeAccumulator, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.UserVolumeAccumulator, IsSigner: false, IsWritable: true},
		{PublicKey: FeeConfig, IsSigner: false, IsWritable: false},
		{PublicKey: FeeProgram, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(ProgramID, metas, data)
}

// SellAccounts lists every account of the sell instruction, in program
// order.
type SellAccounts struct {
	Global                 solana.PublicKey
	FeeRecipient           solana.PublicKey
	Mint                   solana.PublicKey
	BondingCurve           solana.PublicKey
	AssociatedBondingCurve solana.PublicKey
	AssociatedUser         solana.PublicKey
	User                   solana.PublicKey
	CreatorVault           solana.PublicKey
	TokenProgram           solana.PublicKey
}

// BuildSellInstruction encodes a sell of an exact token amount with a
// minimum SOL output for slippage protection. Data layout:
// discriminator, amount u64 LE, min_sol_output u64 LE.
func BuildSellInstruction(accounts SellAccounts, amount, minSolOutput uint64) solana.Instruction {
	data := make([]byte, 0, 24)
	data = append(data, sellDiscriminator...)
	data = binary.LittleEndian.AppendUint64(data, amount)
	data = binary.LittleEndian.AppendUint64(data, minSolOutput)

	// Account list must be in the exact order expected by the program.
	metas := []*solana.AccountMeta{
		{PublicKey: accounts.Global, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.FeeRecipient, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.Mint, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.BondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.AssociatedBondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.AssociatedUser, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.User, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.CreatorVault, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.TokenProgram, IsSigner: false, IsWritable: false},
		{PublicKey: EventAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: ProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: FeeConfig, IsSigner: false, IsWritable: false},
		{PublicKey: FeeProgram, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(ProgramID, metas, data)
}
