// =============================
// File: internal/wallet/wallet.go
// =============================

// Package wallet holds the signing keypair and associated token
// account derivation for the trade layer.
package wallet

import (
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// Wallet is a Solana keypair with a cache of derived ATAs.
type Wallet struct {
	PrivateKey solana.PrivateKey
	PublicKey  solana.PublicKey

	mu       sync.Mutex
	ataCache map[string]solana.PublicKey
}

// New creates a wallet from a base58-encoded private key.
func New(privateKeyBase58 string) (*Wallet, error) {
	privateKeyBytes, err := base58.Decode(privateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(privateKeyBytes) != 64 {
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(privateKeyBytes))
	}
	privateKey := solana.PrivateKey(privateKeyBytes)
	return &Wallet{
		PrivateKey: privateKey,
		PublicKey:  privateKey.PublicKey(),
		ataCache:   make(map[string]solana.PublicKey),
	}, nil
}

// SignTransaction signs the transaction with the wallet's key.
func (w *Wallet) SignTransaction(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.PublicKey) {
			return &w.PrivateKey
		}
		return nil
	})
	return err
}

// GetATA returns the wallet's associated token account for mint under
// the given token program, caching derivations.
func (w *Wallet) GetATA(mint, tokenProgram solana.PublicKey) (solana.PublicKey, error) {
	cacheKey := mint.String() + "/" + tokenProgram.String()

	w.mu.Lock()
	defer w.mu.Unlock()
	if ata, ok := w.ataCache[cacheKey]; ok {
		return ata, nil
	}

	ata, _, err := solana.FindProgramAddress(
		[][]byte{w.PublicKey.Bytes(), tokenProgram.Bytes(), mint.Bytes()},
		solana.SPLAssociatedTokenAccountProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive associated token account: %w", err)
	}
	w.ataCache[cacheKey] = ata
	return ata, nil
}

// CreateATAIdempotentInstruction builds a CreateIdempotent instruction
// for the wallet's ATA, a no-op when the account already exists.
func (w *Wallet) CreateATAIdempotentInstruction(mint, tokenProgram solana.PublicKey) (solana.Instruction, error) {
	ata, err := w.GetATA(mint, tokenProgram)
	if err != nil {
		return nil, err
	}

	metas := []*solana.AccountMeta{
		{PublicKey: w.PublicKey, IsSigner: true, IsWritable: true},
		{PublicKey: ata, IsSigner: false, IsWritable: true},
		{PublicKey: w.PublicKey, IsSigner: false, IsWritable: false},
		{PublicKey: mint, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: tokenProgram, IsSigner: false, IsWritable: false},
	}

	// Instruction index 1 = CreateIdempotent.
	return solana.NewInstruction(solana.SPLAssociatedTokenAccountProgramID, metas, []byte{1}), nil
}
