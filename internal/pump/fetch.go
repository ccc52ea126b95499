// =============================
// File: internal/pump/fetch.go
// =============================
package pump

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-quoter/internal/curve"
	"github.com/rovshanmuradov/pump-quoter/internal/solbc"
)

// AccountFetcher is the ledger boundary the quoter consumes: given an
// address it returns the raw account bytes. *solbc.Client implements it.
type AccountFetcher interface {
	FetchAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error)
}

const (
	fetchRetryInitialInterval = 200 * time.Millisecond
	fetchRetryMaxTries        = 3
)

// fetchWithRetry wraps an account fetch in exponential backoff. A
// missing account is permanent (the token never existed or migrated),
// only transport errors are retried.
func fetchWithRetry(ctx context.Context, fetcher AccountFetcher, addr solana.PublicKey, logger *zap.Logger) ([]byte, error) {
	backoffPolicy := backoff.NewExponentialBackOff()
	backoffPolicy.InitialInterval = fetchRetryInitialInterval

	notify := func(err error, duration time.Duration) {
		logger.Debug("Retrying account fetch",
			zap.String("address", addr.String()),
			zap.Duration("backoff", duration),
			zap.Error(err))
	}

	operation := func() ([]byte, error) {
		data, err := fetcher.FetchAccountData(ctx, addr)
		if errors.Is(err, solbc.ErrAccountNotFound) {
			return nil, backoff.Permanent(err)
		}
		return data, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoffPolicy),
		backoff.WithMaxTries(fetchRetryMaxTries),
		backoff.WithNotify(notify))
}

// FetchBondingCurve fetches and decodes the bonding curve account for a
// token mint.
func FetchBondingCurve(ctx context.Context, fetcher AccountFetcher, mint solana.PublicKey, logger *zap.Logger) (*curve.BondingCurve, error) {
	addr, err := DeriveBondingCurve(mint)
	if err != nil {
		return nil, err
	}

	data, err := fetchWithRetry(ctx, fetcher, addr, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bonding curve for %s: %w", mint, err)
	}

	state, err := curve.DecodeBondingCurve(data)
	if err != nil {
		return nil, err
	}

	logger.Debug("Fetched bonding curve",
		zap.String("mint", mint.String()),
		zap.String("address", addr.String()),
		zap.Uint64("virtual_token_reserves", state.VirtualTokenReserves),
		zap.Uint64("virtual_sol_reserves", state.VirtualSolReserves),
		zap.Bool("complete", state.Complete))

	return state, nil
}

// Global account layout: 8-byte discriminator, initialized flag,
// authority and fee recipient keys, then the u64 parameter block.
const (
	globalReservesOffset = 8 + 1 + 32 + 32
	globalMinSize        = globalReservesOffset + 5*8
)

// DecodeGlobal parses the pump.fun global account into pricing
// parameters. The creator fee rate lives past the stable layout, so it
// keeps the protocol default.
func DecodeGlobal(data []byte) (*curve.Params, error) {
	if len(data) < globalMinSize {
		return nil, fmt.Errorf("%w: global account %d bytes, want at least %d",
			curve.ErrMalformedAccount, len(data), globalMinSize)
	}

	params := curve.DefaultParams()
	offset := globalReservesOffset
	params.InitialVirtualTokenReserves = binary.LittleEndian.Uint64(data[offset:])
	offset += 8
	params.InitialVirtualSolReserves = binary.LittleEndian.Uint64(data[offset:])
	offset += 8
	params.InitialRealTokenReserves = binary.LittleEndian.Uint64(data[offset:])
	offset += 8
	params.TokenTotalSupply = binary.LittleEndian.Uint64(data[offset:])
	offset += 8
	params.FeeBasisPoints = binary.LittleEndian.Uint64(data[offset:])

	return params, nil
}

// FetchParams fetches the global account and decodes it into Params.
func FetchParams(ctx context.Context, fetcher AccountFetcher, logger *zap.Logger) (*curve.Params, error) {
	data, err := fetchWithRetry(ctx, fetcher, GlobalAddress, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch global account: %w", err)
	}

	params, err := DecodeGlobal(data)
	if err != nil {
		return nil, err
	}

	logger.Debug("Fetched global parameters",
		zap.Uint64("initial_virtual_token_reserves", params.InitialVirtualTokenReserves),
		zap.Uint64("initial_virtual_sol_reserves", params.InitialVirtualSolReserves),
		zap.Uint64("fee_basis_points", params.FeeBasisPoints))

	return params, nil
}
