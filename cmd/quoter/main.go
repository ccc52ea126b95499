// =============================
// File: cmd/quoter/main.go
// =============================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-quoter/internal/config"
	"github.com/rovshanmuradov/pump-quoter/internal/curve"
	"github.com/rovshanmuradov/pump-quoter/internal/logger"
	"github.com/rovshanmuradov/pump-quoter/internal/pump"
	"github.com/rovshanmuradov/pump-quoter/internal/solbc"
	"github.com/rovshanmuradov/pump-quoter/internal/wallet"
)

const quoteTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	mintFlag := flag.String("mint", "", "token mint address (overrides config)")
	buyLamports := flag.Uint64("buy", 1_000_000_000, "SOL input in lamports to quote a buy for")
	sellTokens := flag.Uint64("sell", 0, "token amount to quote a sell for")
	costOfTokens := flag.Uint64("cost-of", 0, "token amount to quote the full buy cost for")
	tradeSide := flag.String("trade", "", "execute a trade instead of quoting: buy or sell")
	tradeTokens := flag.Uint64("tokens", 0, "exact token amount for -trade")
	tradeLimit := flag.Uint64("limit", 0, "max SOL cost (buy) or min SOL output (sell) in lamports for -trade")
	send := flag.Bool("send", false, "submit the trade after a successful simulation")
	flag.Parse()

	cfg := &config.Config{
		RPCURL:  config.DefaultRPCURL,
		LogFile: config.DefaultLogFile,
	}
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *mintFlag != "" {
		cfg.Mint = *mintFlag
	}
	if err := config.ValidateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Mint == "" {
		fmt.Fprintln(os.Stderr, "a mint address is required (flag -mint or config)")
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     100,
		MaxAge:      7,
		MaxBackups:  3,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	mint, err := solana.PublicKeyFromBase58(cfg.Mint)
	if err != nil {
		log.Fatal("Invalid mint address", zap.String("mint", cfg.Mint), zap.Error(err))
	}

	client := solbc.NewClient(cfg.RPCURL, log)

	if *tradeSide != "" {
		runTrade(log, client, cfg, mint, *tradeSide, *tradeTokens, *tradeLimit, *send)
		return
	}

	// Pinned default parameters unless the config asks for the live
	// global account on every quote.
	var params *curve.Params
	if !cfg.FetchGlobal {
		params = curve.DefaultParams()
	}
	quoter := pump.NewQuoter(client, params, log)

	ctx, cancel := context.WithTimeout(context.Background(), quoteTimeout)
	defer cancel()

	log.Info("Quoting token",
		zap.String("mint", mint.String()),
		zap.String("rpc", cfg.RPCURL))

	buyQuote, err := quoter.QuoteBuy(ctx, mint, *buyLamports)
	if err != nil {
		log.Fatal("Buy quote failed", zap.Error(err))
	}
	log.Info("Buy quote",
		zap.Uint64("sol_in", *buyLamports),
		zap.Uint64("tokens_out", buyQuote.Tokens),
		zap.Uint64("sol_after_fee", buyQuote.SolAfterFee),
		zap.Uint64("fee", buyQuote.Fee))

	if *sellTokens > 0 {
		sellQuote, err := quoter.QuoteSell(ctx, mint, *sellTokens)
		if err != nil {
			log.Fatal("Sell quote failed", zap.Error(err))
		}
		log.Info("Sell quote",
			zap.Uint64("tokens_in", *sellTokens),
			zap.Uint64("net_sol", sellQuote.NetSol),
			zap.Uint64("fee", sellQuote.Fee))
	}

	if *costOfTokens > 0 {
		cost, err := quoter.QuoteBuyCost(ctx, mint, *costOfTokens)
		if err != nil {
			log.Fatal("Buy cost quote failed", zap.Error(err))
		}
		if cost == curve.Unachievable {
			log.Warn("Requested token amount exceeds what the curve can sell",
				zap.Uint64("tokens", *costOfTokens))
		} else {
			log.Info("Buy cost quote",
				zap.Uint64("tokens", *costOfTokens),
				zap.Uint64("total_sol_cost", cost))
		}
	}
}

// runTrade builds and simulates a buy or sell, submitting it only when
// send is set.
func runTrade(log *zap.Logger, client *solbc.Client, cfg *config.Config, mint solana.PublicKey, side string, tokens, limit uint64, send bool) {
	if side != "buy" && side != "sell" {
		log.Fatal("Unknown trade side, want buy or sell", zap.String("side", side))
	}
	if tokens == 0 {
		log.Fatal("A non-zero -tokens amount is required for trading")
	}
	if cfg.PrivateKey == "" {
		log.Fatal("A private key is required for trading (config private_key or PUMP_QUOTER_PRIVATE_KEY)")
	}

	w, err := wallet.New(cfg.PrivateKey)
	if err != nil {
		log.Fatal("Failed to load wallet", zap.Error(err))
	}
	trader := pump.NewTrader(client, w, log)

	ctx, cancel := context.WithTimeout(context.Background(), quoteTimeout)
	defer cancel()

	var sig solana.Signature
	switch side {
	case "buy":
		sig, err = trader.Buy(ctx, mint, tokens, limit, send)
	case "sell":
		sig, err = trader.Sell(ctx, mint, tokens, limit, send)
	}
	if err != nil {
		log.Fatal("Trade failed", zap.Error(err))
	}

	if send {
		log.Info("Trade submitted", zap.String("signature", sig.String()))
	} else {
		log.Info("Trade simulated successfully, not submitted")
	}
}
