// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
)

type Config struct {
	RPCURL       string `mapstructure:"rpc_url"`
	Mint         string `mapstructure:"mint"`
	PrivateKey   string `mapstructure:"private_key"`
	FetchGlobal  bool   `mapstructure:"fetch_global"`
	DebugLogging bool   `mapstructure:"debug_logging"`
	LogFile      string `mapstructure:"log_file"`
}

const (
	DefaultRPCURL  = "https://api.mainnet-beta.solana.com"
	DefaultLogFile = "quoter.log"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("rpc_url", DefaultRPCURL)
	v.SetDefault("log_file", DefaultLogFile)
	v.SetDefault("fetch_global", false)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvironmentVariables(v, &cfg)

	return &cfg, ValidateConfig(&cfg)
}

func ValidateConfig(cfg *Config) error {
	if cfg.RPCURL == "" {
		return errors.New("rpc_url is required")
	}
	parsed, err := url.Parse(cfg.RPCURL)
	if err != nil || !strings.HasPrefix(parsed.Scheme, "http") {
		return errors.New("invalid RPC URL protocol")
	}
	if cfg.Mint != "" {
		if _, err := solana.PublicKeyFromBase58(cfg.Mint); err != nil {
			return errors.New("invalid mint address")
		}
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix("PUMP_QUOTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if envRPC := v.GetString("RPC_URL"); envRPC != "" {
		cfg.RPCURL = envRPC
	}
	if envKey := v.GetString("PRIVATE_KEY"); envKey != "" {
		cfg.PrivateKey = envKey
	}
	if envMint := v.GetString("MINT"); envMint != "" {
		cfg.Mint = envMint
	}
}
