// =============================
// File: internal/pump/quoter.go
// =============================

// Package pump is the pump.fun protocol layer: account addresses and
// PDA derivation, on-chain state fetching, quote orchestration, and
// buy/sell instruction construction.
package pump

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/pump-quoter/internal/curve"
)

// Quoter computes buy/sell quotes for live tokens by combining fetched
// bonding curve state with the pricing engine. It holds no mutable
// state and is safe for concurrent use.
type Quoter struct {
	fetcher AccountFetcher
	params  *curve.Params // nil means fetch from the global account per quote
	logger  *zap.Logger
}

// NewQuoter creates a quoter. Pass nil params to have each quote read
// the protocol parameters from the global account alongside the curve.
func NewQuoter(fetcher AccountFetcher, params *curve.Params, logger *zap.Logger) *Quoter {
	return &Quoter{
		fetcher: fetcher,
		params:  params,
		logger:  logger.Named("pump-quoter"),
	}
}

// BuyQuote is the result of quoting a buy for an exact SOL input.
type BuyQuote struct {
	Tokens      uint64 // token units received
	SolAfterFee uint64 // lamports reaching the curve after fees
	Fee         uint64 // total fee withheld from the input
}

// SellQuote is the result of quoting a sell for an exact token input.
type SellQuote struct {
	NetSol uint64 // lamports received after fees
	Fee    uint64 // total fee withheld from the gross proceeds
}

// snapshot fetches the bonding curve for the mint and, when the quoter
// has no pinned parameters, the global account, in parallel.
func (q *Quoter) snapshot(ctx context.Context, mint solana.PublicKey) (*curve.Params, *curve.BondingCurve, error) {
	params := q.params
	var state *curve.BondingCurve

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		state, err = FetchBondingCurve(gctx, q.fetcher, mint, q.logger)
		return err
	})
	if params == nil {
		g.Go(func() error {
			var err error
			params, err = FetchParams(gctx, q.fetcher, q.logger)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return params, state, nil
}

// QuoteBuy quotes how many tokens solAmount lamports buys right now.
func (q *Quoter) QuoteBuy(ctx context.Context, mint solana.PublicKey, solAmount uint64) (*BuyQuote, error) {
	params, state, err := q.snapshot(ctx, mint)
	if err != nil {
		return nil, err
	}

	tokens := curve.TokensForSol(params, curve.Existing(state), solAmount)
	fee := curve.TotalFee(params, state, solAmount, false)
	var solAfterFee uint64
	if fee < solAmount {
		solAfterFee = solAmount - fee
	}

	q.logger.Debug("Buy quote",
		zap.String("mint", mint.String()),
		zap.Uint64("sol_amount", solAmount),
		zap.Uint64("tokens", tokens),
		zap.Uint64("fee", fee))

	return &BuyQuote{Tokens: tokens, SolAfterFee: solAfterFee, Fee: fee}, nil
}

// QuoteSell quotes the net SOL proceeds and fee for selling tokenAmount
// token units right now.
func (q *Quoter) QuoteSell(ctx context.Context, mint solana.PublicKey, tokenAmount uint64) (*SellQuote, error) {
	params, state, err := q.snapshot(ctx, mint)
	if err != nil {
		return nil, err
	}

	netSol, fee := curve.SellBreakdown(params, state, tokenAmount)

	q.logger.Debug("Sell quote",
		zap.String("mint", mint.String()),
		zap.Uint64("token_amount", tokenAmount),
		zap.Uint64("net_sol", netSol),
		zap.Uint64("fee", fee))

	return &SellQuote{NetSol: netSol, Fee: fee}, nil
}

// QuoteBuyCost quotes the total lamports (fees included) needed to buy
// an exact token amount. curve.Unachievable means the request would
// drain the curve past its virtual-reserve limit.
func (q *Quoter) QuoteBuyCost(ctx context.Context, mint solana.PublicKey, tokenAmount uint64) (uint64, error) {
	params, state, err := q.snapshot(ctx, mint)
	if err != nil {
		return 0, err
	}
	return curve.SolForTokens(params, curve.Existing(state), tokenAmount), nil
}
