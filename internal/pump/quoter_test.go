// =============================
// File: internal/pump/quoter_test.go
// =============================
package pump

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-quoter/internal/curve"
	"github.com/rovshanmuradov/pump-quoter/internal/solbc"
)

// stubFetcher serves canned account bytes by address.
type stubFetcher struct {
	accounts map[solana.PublicKey][]byte
	calls    map[solana.PublicKey]int
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		accounts: make(map[solana.PublicKey][]byte),
		calls:    make(map[solana.PublicKey]int),
	}
}

func (s *stubFetcher) FetchAccountData(_ context.Context, pubkey solana.PublicKey) ([]byte, error) {
	s.calls[pubkey]++
	data, ok := s.accounts[pubkey]
	if !ok {
		return nil, solbc.ErrAccountNotFound
	}
	return data, nil
}

// encodeCurveAccount lays out a bonding curve account the way the
// program stores it.
func encodeCurveAccount(state *curve.BondingCurve) []byte {
	data := make([]byte, curve.AccountSize)
	binary.LittleEndian.PutUint64(data[8:], state.VirtualTokenReserves)
	binary.LittleEndian.PutUint64(data[16:], state.VirtualSolReserves)
	binary.LittleEndian.PutUint64(data[24:], state.RealTokenReserves)
	binary.LittleEndian.PutUint64(data[32:], state.RealSolReserves)
	binary.LittleEndian.PutUint64(data[40:], state.TokenTotalSupply)
	if state.Complete {
		data[48] = 1
	}
	copy(data[49:], state.Creator.Bytes())
	return data
}

// encodeGlobalAccount lays out the global account prefix and the five
// u64 parameters the quoter reads.
func encodeGlobalAccount(p *curve.Params) []byte {
	data := make([]byte, globalMinSize)
	offset := globalReservesOffset
	binary.LittleEndian.PutUint64(data[offset:], p.InitialVirtualTokenReserves)
	binary.LittleEndian.PutUint64(data[offset+8:], p.InitialVirtualSolReserves)
	binary.LittleEndian.PutUint64(data[offset+16:], p.InitialRealTokenReserves)
	binary.LittleEndian.PutUint64(data[offset+24:], p.TokenTotalSupply)
	binary.LittleEndian.PutUint64(data[offset+32:], p.FeeBasisPoints)
	return data
}

func registerCurve(t *testing.T, stub *stubFetcher, mint solana.PublicKey, state *curve.BondingCurve) {
	t.Helper()
	addr, err := DeriveBondingCurve(mint)
	require.NoError(t, err)
	stub.accounts[addr] = encodeCurveAccount(state)
}

func TestQuoteBuyWithPinnedParams(t *testing.T) {
	params := curve.DefaultParams()
	state := params.NewBondingCurve()
	mint := solana.NewWallet().PublicKey()

	stub := newStubFetcher()
	registerCurve(t, stub, mint, state)

	quoter := NewQuoter(stub, params, zap.NewNop())

	solAmount := uint64(1_000_000_000)
	quote, err := quoter.QuoteBuy(context.Background(), mint, solAmount)
	require.NoError(t, err)

	wantTokens := curve.TokensForSol(params, curve.Existing(state), solAmount)
	wantFee := curve.TotalFee(params, state, solAmount, false)
	assert.Equal(t, wantTokens, quote.Tokens)
	assert.Equal(t, wantFee, quote.Fee)
	assert.Equal(t, solAmount-wantFee, quote.SolAfterFee)
	assert.Positive(t, quote.Tokens)

	// Pinned parameters must never hit the global account.
	assert.Zero(t, stub.calls[GlobalAddress])
}

func TestQuoteBuyFetchesGlobal(t *testing.T) {
	params := curve.DefaultParams()
	params.FeeBasisPoints = 200

	state := params.NewBondingCurve()
	state.Creator = solana.PublicKey{} // creator fee not applicable
	mint := solana.NewWallet().PublicKey()

	stub := newStubFetcher()
	registerCurve(t, stub, mint, state)
	stub.accounts[GlobalAddress] = encodeGlobalAccount(params)

	quoter := NewQuoter(stub, nil, zap.NewNop())

	solAmount := uint64(500_000_000)
	quote, err := quoter.QuoteBuy(context.Background(), mint, solAmount)
	require.NoError(t, err)

	// 2% platform fee, rounded up, no creator fee.
	assert.Equal(t, uint64(10_000_000), quote.Fee)
	assert.Equal(t, 1, stub.calls[GlobalAddress])
}

func TestQuoteSell(t *testing.T) {
	params := curve.DefaultParams()
	state := params.NewBondingCurve()
	mint := solana.NewWallet().PublicKey()

	stub := newStubFetcher()
	registerCurve(t, stub, mint, state)

	quoter := NewQuoter(stub, params, zap.NewNop())

	tokenAmount := uint64(10_000_000_000)
	quote, err := quoter.QuoteSell(context.Background(), mint, tokenAmount)
	require.NoError(t, err)

	wantNet, wantFee := curve.SellBreakdown(params, state, tokenAmount)
	assert.Equal(t, wantNet, quote.NetSol)
	assert.Equal(t, wantFee, quote.Fee)
	assert.Positive(t, quote.NetSol)
}

func TestQuoteBuyCost(t *testing.T) {
	params := curve.DefaultParams()
	state := params.NewBondingCurve()
	mint := solana.NewWallet().PublicKey()

	stub := newStubFetcher()
	registerCurve(t, stub, mint, state)

	quoter := NewQuoter(stub, params, zap.NewNop())

	cost, err := quoter.QuoteBuyCost(context.Background(), mint, 1_000_000_000)
	require.NoError(t, err)
	assert.Positive(t, cost)
	assert.NotEqual(t, uint64(curve.Unachievable), cost)
}

func TestQuoteBuyCostUnachievable(t *testing.T) {
	params := curve.DefaultParams()
	state := params.NewBondingCurve()
	state.RealTokenReserves = state.VirtualTokenReserves
	mint := solana.NewWallet().PublicKey()

	stub := newStubFetcher()
	registerCurve(t, stub, mint, state)

	quoter := NewQuoter(stub, params, zap.NewNop())

	// Buying every virtual token would drive the denominator to zero.
	cost, err := quoter.QuoteBuyCost(context.Background(), mint, state.VirtualTokenReserves)
	require.NoError(t, err)
	assert.Equal(t, uint64(curve.Unachievable), cost)
}

func TestQuoteMissingCurve(t *testing.T) {
	stub := newStubFetcher()
	quoter := NewQuoter(stub, curve.DefaultParams(), zap.NewNop())

	_, err := quoter.QuoteBuy(context.Background(), solana.NewWallet().PublicKey(), 1_000_000)
	require.Error(t, err)
	assert.ErrorIs(t, err, solbc.ErrAccountNotFound)
}

func TestMigratedCurveQuotesZero(t *testing.T) {
	params := curve.DefaultParams()
	state := &curve.BondingCurve{Complete: true} // reserves drained after migration
	mint := solana.NewWallet().PublicKey()

	stub := newStubFetcher()
	registerCurve(t, stub, mint, state)

	quoter := NewQuoter(stub, params, zap.NewNop())

	buyQuote, err := quoter.QuoteBuy(context.Background(), mint, 1_000_000_000)
	require.NoError(t, err)
	assert.Zero(t, buyQuote.Tokens)

	sellQuote, err := quoter.QuoteSell(context.Background(), mint, 1_000_000_000)
	require.NoError(t, err)
	assert.Zero(t, sellQuote.NetSol)
}
