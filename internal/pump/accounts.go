// =============================
// File: internal/pump/accounts.go
// =============================
package pump

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Known pump.fun protocol addresses on mainnet.
var (
	// ProgramID is the pump.fun bonding curve program.
	ProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

	// GlobalAddress holds the protocol-wide parameters account.
	GlobalAddress = solana.MustPublicKeyFromBase58("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf")

	// EventAuthority for the pump.fun program.
	EventAuthority = solana.MustPublicKeyFromBase58("Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1")

	// FeeRecipient receives the platform fee on buys and sells.
	FeeRecipient = solana.MustPublicKeyFromBase58("CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM")

	// FeeProgram and FeeConfig back the protocol fee accounting.
	FeeProgram = solana.MustPublicKeyFromBase58("pfeeUxB6jkeY1Hxd7CsFCAjcbHA9rWtchMGdZ6VojVZ")
	FeeConfig  = solana.MustPublicKeyFromBase58("8Wf5TiAheLUqBrKXeYg2JtAFFMWtKdG2BSFgqUcPVwTt")
)

// DeriveBondingCurve returns the bonding curve PDA for a token mint.
func DeriveBondingCurve(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("bonding-curve"), mint.Bytes()},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive bonding curve: %w", err)
	}
	return addr, nil
}

// DeriveCreatorVault returns the PDA that accrues creator fees.
func DeriveCreatorVault(creator solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("creator-vault"), creator.Bytes()},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive creator vault: %w", err)
	}
	return addr, nil
}

// DeriveGlobalVolumeAccumulator returns the protocol-wide volume PDA.
func DeriveGlobalVolumeAccumulator() (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("global_volume_accumulator")},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive global volume accumulator: %w", err)
	}
	return addr, nil
}

// DeriveUserVolumeAccumulator returns the per-user volume PDA.
func DeriveUserVolumeAccumulator(user solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("user_volume_accumulator"), user.Bytes()},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive user volume accumulator: %w", err)
	}
	return addr, nil
}

// DeriveAssociatedTokenAccount returns the ATA for owner and mint under
// the given token program (classic or Token-2022).
func DeriveAssociatedTokenAccount(owner, mint, tokenProgram solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{owner.Bytes(), tokenProgram.Bytes(), mint.Bytes()},
		solana.SPLAssociatedTokenAccountProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive associated token account: %w", err)
	}
	return addr, nil
}
