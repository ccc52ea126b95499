// =============================
// File: internal/pump/instructions_test.go
// =============================
package pump

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuyAccounts() BuyAccounts {
	return BuyAccounts{
		Global:                  GlobalAddress,
		FeeRecipient:            FeeRecipient,
		Mint:                    solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
		BondingCurve:            solana.NewWallet().PublicKey(),
		AssociatedBondingCurve:  solana.NewWallet().PublicKey(),
		AssociatedUser:          solana.NewWallet().PublicKey(),
		User:                    solana.NewWallet().PublicKey(),
		TokenProgram:            solana.TokenProgramID,
		CreatorVault:            solana.NewWallet().PublicKey(),
		GlobalVolumeAccumulator: solana.NewWallet().PublicKey(),
		UserVolumeAccumulator:   solana.NewWallet().PublicKey(),
	}
}

func TestBuildBuyInstructionData(t *testing.T) {
	accounts := testBuyAccounts()
	ix := BuildBuyInstruction(accounts, 123_456_789, 987_654_321, true)

	assert.Equal(t, ProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 26)

	assert.Equal(t, []byte{102, 6, 61, 18, 1, 218, 235, 234}, data[:8])
	assert.Equal(t, uint64(123_456_789), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint64(987_654_321), binary.LittleEndian.Uint64(data[16:24]))
	assert.Equal(t, byte(1), data[24], "option tag must be Some")
	assert.Equal(t, byte(1), data[25], "track_volume value")

	ix = BuildBuyInstruction(accounts, 1, 2, false)
	data, err = ix.Data()
	require.NoError(t, err)
	assert.Equal(t, byte(1), data[24])
	assert.Equal(t, byte(0), data[25])
}

func TestBuildBuyInstructionAccounts(t *testing.T) {
	accounts := testBuyAccounts()
	ix := BuildBuyInstruction(accounts, 1, 1, true)

	metas := ix.Accounts()
	require.Len(t, metas, 16)

	expected := []struct {
		key      solana.PublicKey
		signer   bool
		writable bool
	}{
		{accounts.Global, false, false},
		{accounts.FeeRecipient, false, true},
		{accounts.Mint, false, false},
		{accounts.BondingCurve, false, true},
		{accounts.AssociatedBondingCurve, false, true},
		{accounts.AssociatedUser, false, true},
		{accounts.User, true, true},
		{solana.SystemProgramID, false, false},
		{accounts.TokenProgram, false, false},
		{accounts.CreatorVault, false, true},
		{EventAuthority, false, false},
		{ProgramID, false, false},
		{accounts.GlobalVolumeAccumulator, false, true},
		{accounts.UserVolumeAccumulator, false, true},
		{FeeConfig, false, false},
		{FeeProgram, false, false},
	}
	for i, want := range expected {
		assert.Equal(t, want.key, metas[i].PublicKey, "account %d", i)
		assert.Equal(t, want.signer, metas[i].IsSigner, "account %d signer", i)
		assert.Equal(t, want.writable, metas[i].IsWritable, "account %d writable", i)
	}
}

func TestBuildSellInstruction(t *testing.T) {
	accounts := SellAccounts{
		Global:                 GlobalAddress,
		FeeRecipient:           FeeRecipient,
		Mint:                   solana.NewWallet().PublicKey(),
		BondingCurve:           solana.NewWallet().PublicKey(),
		AssociatedBondingCurve: solana.NewWallet().PublicKey(),
		AssociatedUser:         solana.NewWallet().PublicKey(),
		User:                   solana.NewWallet().PublicKey(),
		CreatorVault:           solana.NewWallet().PublicKey(),
		TokenProgram:           solana.TokenProgramID,
	}
	ix := BuildSellInstruction(accounts, 555, 777)

	assert.Equal(t, ProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 24)
	assert.Equal(t, []byte{51, 230, 133, 164, 1, 127, 131, 173}, data[:8])
	assert.Equal(t, uint64(555), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint64(777), binary.LittleEndian.Uint64(data[16:24]))

	metas := ix.Accounts()
	require.Len(t, metas, 14)
	assert.Equal(t, accounts.Global, metas[0].PublicKey)
	assert.Equal(t, solana.SystemProgramID, metas[7].PublicKey)
	assert.Equal(t, accounts.CreatorVault, metas[8].PublicKey)
	assert.True(t, metas[8].IsWritable)
	assert.Equal(t, accounts.TokenProgram, metas[9].PublicKey)
	assert.Equal(t, EventAuthority, metas[10].PublicKey)
	assert.Equal(t, ProgramID, metas[11].PublicKey)
	assert.Equal(t, FeeConfig, metas[12].PublicKey)
	assert.Equal(t, FeeProgram, metas[13].PublicKey)
	assert.True(t, metas[6].IsSigner, "user must sign")
}
