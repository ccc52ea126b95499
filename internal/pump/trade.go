// =============================
// File: internal/pump/trade.go
// =============================
package pump

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-quoter/internal/solbc"
	"github.com/rovshanmuradov/pump-quoter/internal/wallet"
)

// txFeeReserve is kept on top of the trade budget for network fees.
const txFeeReserve = 10_000_000 // 0.01 SOL

// TradeClient is the ledger surface the trader needs beyond account
// fetching. *solbc.Client implements it.
type TradeClient interface {
	AccountFetcher
	FetchAccountOwner(ctx context.Context, pubkey solana.PublicKey) (solana.PublicKey, error)
	GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error)
	GetRecentBlockhash(ctx context.Context) (solana.Hash, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*rpc.SimulateTransactionResponse, error)
}

var _ TradeClient = (*solbc.Client)(nil)

// Trader builds, simulates and optionally submits pump.fun buy/sell
// transactions.
type Trader struct {
	client TradeClient
	wallet *wallet.Wallet
	logger *zap.Logger
}

// NewTrader creates a trader bound to a client and wallet.
func NewTrader(client TradeClient, w *wallet.Wallet, logger *zap.Logger) *Trader {
	return &Trader{
		client: client,
		wallet: w,
		logger: logger.Named("pump-trader"),
	}
}

// tradeAccounts is everything both trade directions need to address.
type tradeAccounts struct {
	tokenProgram           solana.PublicKey
	bondingCurve           solana.PublicKey
	associatedBondingCurve solana.PublicKey
	associatedUser         solana.PublicKey
	creatorVault           solana.PublicKey
}

// resolveAccounts derives the full account set for a trade on mint,
// reading the mint owner (token program) and the curve creator from
// the ledger.
func (t *Trader) resolveAccounts(ctx context.Context, mint solana.PublicKey) (*tradeAccounts, error) {
	tokenProgram := solana.TokenProgramID
	owner, err := t.client.FetchAccountOwner(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mint account: %w", err)
	}
	if owner.Equals(solana.Token2022ProgramID) {
		tokenProgram = solana.Token2022ProgramID
	}

	bondingCurve, err := DeriveBondingCurve(mint)
	if err != nil {
		return nil, err
	}

	state, err := FetchBondingCurve(ctx, t.client, mint, t.logger)
	if err != nil {
		return nil, err
	}

	creatorVault, err := DeriveCreatorVault(state.Creator)
	if err != nil {
		return nil, err
	}

	associatedBondingCurve, err := DeriveAssociatedTokenAccount(bondingCurve, mint, tokenProgram)
	if err != nil {
		return nil, err
	}

	associatedUser, err := t.wallet.GetATA(mint, tokenProgram)
	if err != nil {
		return nil, err
	}

	return &tradeAccounts{
		tokenProgram:           tokenProgram,
		bondingCurve:           bondingCurve,
		associatedBondingCurve: associatedBondingCurve,
		associatedUser:         associatedUser,
		creatorVault:           creatorVault,
	}, nil
}

// Buy purchases an exact token amount, paying at most maxSolCost
// lamports. The transaction is always simulated first; it is submitted
// only when send is true. Returns the submission signature, or the zero
// signature for a simulate-only run.
func (t *Trader) Buy(ctx context.Context, mint solana.PublicKey, tokenAmount, maxSolCost uint64, send bool) (solana.Signature, error) {
	balance, err := t.client.GetBalance(ctx, t.wallet.PublicKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get wallet balance: %w", err)
	}
	if balance < maxSolCost+txFeeReserve {
		return solana.Signature{}, fmt.Errorf("insufficient balance: have %d lamports, need %d", balance, maxSolCost+txFeeReserve)
	}

	accounts, err := t.resolveAccounts(ctx, mint)
	if err != nil {
		return solana.Signature{}, err
	}

	globalVolume, err := DeriveGlobalVolumeAccumulator()
	if err != nil {
		return solana.Signature{}, err
	}
	userVolume, err := DeriveUserVolumeAccumulator(t.wallet.PublicKey)
	if err != nil {
		return solana.Signature{}, err
	}

	buyIx := BuildBuyInstruction(BuyAccounts{
		Global:                  GlobalAddress,
		FeeRecipient:            FeeRecipient,
		Mint:                    mint,
		BondingCurve:            accounts.bondingCurve,
		AssociatedBondingCurve:  accounts.associatedBondingCurve,
		AssociatedUser:          accounts.associatedUser,
		User:                    t.wallet.PublicKey,
		TokenProgram:            accounts.tokenProgram,
		CreatorVault:            accounts.creatorVault,
		GlobalVolumeAccumulator: globalVolume,
		UserVolumeAccumulator:   userVolume,
	}, tokenAmount, maxSolCost, true)

	instructions := []solana.Instruction{buyIx}

	// Create the user's ATA up front when it does not exist yet.
	if _, err := t.client.FetchAccountData(ctx, accounts.associatedUser); err != nil {
		if !errors.Is(err, solbc.ErrAccountNotFound) {
			return solana.Signature{}, err
		}
		createIx, err := t.wallet.CreateATAIdempotentInstruction(mint, accounts.tokenProgram)
		if err != nil {
			return solana.Signature{}, err
		}
		instructions = []solana.Instruction{createIx, buyIx}
	}

	t.logger.Info("Prepared buy transaction",
		zap.String("mint", mint.String()),
		zap.Uint64("token_amount", tokenAmount),
		zap.Uint64("max_sol_cost", maxSolCost),
		zap.Bool("send", send))

	return t.execute(ctx, instructions, send)
}

// Sell disposes an exact token amount, requiring at least minSolOutput
// lamports. Simulation-first semantics match Buy.
func (t *Trader) Sell(ctx context.Context, mint solana.PublicKey, tokenAmount, minSolOutput uint64, send bool) (solana.Signature, error) {
	accounts, err := t.resolveAccounts(ctx, mint)
	if err != nil {
		return solana.Signature{}, err
	}

	sellIx := BuildSellInstruction(SellAccounts{
		Global:                 GlobalAddress,
		FeeRecipient:           FeeRecipient,
		Mint:                   mint,
		BondingCurve:           accounts.bondingCurve,
		AssociatedBondingCurve: accounts.associatedBondingCurve,
		AssociatedUser:         accounts.associatedUser,
		User:                   t.wallet.PublicKey,
		CreatorVault:           accounts.creatorVault,
		TokenProgram:           accounts.tokenProgram,
	}, tokenAmount, minSolOutput)

	t.logger.Info("Prepared sell transaction",
		zap.String("mint", mint.String()),
		zap.Uint64("token_amount", tokenAmount),
		zap.Uint64("min_sol_output", minSolOutput),
		zap.Bool("send", send))

	return t.execute(ctx, []solana.Instruction{sellIx}, send)
}

// execute signs the instructions, simulates the transaction, and
// submits it when send is true.
func (t *Trader) execute(ctx context.Context, instructions []solana.Instruction, send bool) (solana.Signature, error) {
	blockhash, err := t.client.GetRecentBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(t.wallet.PublicKey))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to create transaction: %w", err)
	}
	if err := t.wallet.SignTransaction(tx); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	simulation, err := t.client.SimulateTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to simulate transaction: %w", err)
	}
	if simulation.Value != nil && simulation.Value.Err != nil {
		t.logger.Error("Transaction simulation failed",
			zap.Any("error", simulation.Value.Err),
			zap.Strings("logs", simulation.Value.Logs))
		return solana.Signature{}, fmt.Errorf("transaction simulation failed: %v", simulation.Value.Err)
	}

	if !send {
		t.logger.Info("Simulation successful, transaction not sent")
		return solana.Signature{}, nil
	}

	sig, err := t.client.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	t.logger.Info("Transaction sent", zap.String("signature", sig.String()))
	return sig, nil
}
