// =============================
// File: internal/solbc/client.go
// =============================

// Package solbc is a thin adapter over the solana-go RPC client,
// exposing just the calls the quoter needs.
package solbc

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

var (
	// ErrAccountNotFound is returned when the ledger has no account at
	// the requested address.
	ErrAccountNotFound = errors.New("account not found")
)

// Client wraps a solana-go RPC client with logging.
type Client struct {
	rpc    *rpc.Client
	logger *zap.Logger
}

// NewClient creates a client for the given RPC endpoint.
func NewClient(rpcURL string, logger *zap.Logger) *Client {
	return &Client{
		rpc:    rpc.New(rpcURL),
		logger: logger.Named("solbc-client"),
	}
}

// FetchAccountData returns the raw bytes of an account, or
// ErrAccountNotFound when the account does not exist.
func (c *Client) FetchAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error) {
	result, err := c.rpc.GetAccountInfo(ctx, pubkey)
	if err != nil {
		c.logger.Debug("GetAccountInfo error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, pubkey)
		}
		return nil, err
	}
	if result == nil || result.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, pubkey)
	}
	return result.Value.Data.GetBinary(), nil
}

// FetchAccountOwner returns the owner program of an account.
func (c *Client) FetchAccountOwner(ctx context.Context, pubkey solana.PublicKey) (solana.PublicKey, error) {
	result, err := c.rpc.GetAccountInfo(ctx, pubkey)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrAccountNotFound, pubkey)
		}
		return solana.PublicKey{}, err
	}
	if result == nil || result.Value == nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrAccountNotFound, pubkey)
	}
	return result.Value.Owner, nil
}

// GetBalance returns the lamport balance of an account.
func (c *Client) GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error) {
	result, err := c.rpc.GetBalance(ctx, pubkey, rpc.CommitmentConfirmed)
	if err != nil {
		c.logger.Debug("GetBalance error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		return 0, err
	}
	return result.Value, nil
}

// GetRecentBlockhash returns the latest blockhash.
func (c *Client) GetRecentBlockhash(ctx context.Context) (solana.Hash, error) {
	result, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		c.logger.Error("GetRecentBlockhash error", zap.Error(err))
		return solana.Hash{}, err
	}
	return result.Value.Blockhash, nil
}

// SendTransaction submits a signed transaction.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransaction(ctx, tx)
	if err != nil {
		c.logger.Error("SendTransaction error", zap.Error(err))
		return solana.Signature{}, err
	}
	return sig, nil
}

// SimulateTransaction runs a transaction against current ledger state
// without submitting it.
func (c *Client) SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*rpc.SimulateTransactionResponse, error) {
	result, err := c.rpc.SimulateTransaction(ctx, tx)
	if err != nil {
		c.logger.Error("SimulateTransaction error", zap.Error(err))
		return nil, err
	}
	return result, nil
}
