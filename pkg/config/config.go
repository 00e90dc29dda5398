// Package config loads configs/config.yml through viper. Secrets are read
// from the environment only.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"nexushub_back/pkg/chain"
	"nexushub_back/pkg/submitter"
)

type Config struct {
	Port    string
	Log     Log
	HTTP    HTTP
	Chain   Chain
	Tx      Tx
	Notify  Notify
	Balance Balance
	Price   Price
	Mail    Mail
	DB      DB
}

type Log struct {
	Level string
}

type HTTP struct {
	Origins []string
}

type Chain struct {
	Kind         string
	ID           int64
	RPCURL       string        `mapstructure:"rpc_url"`
	TronAPIURL   string        `mapstructure:"tron_api_url"`
	TronAPIKey   string        `mapstructure:"-"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type Tx struct {
	Mode         string
	SignDelay    time.Duration `mapstructure:"sign_delay"`
	ConfirmDelay time.Duration `mapstructure:"confirm_delay"`
	SignerKey    string        `mapstructure:"-"`
}

type Notify struct {
	Duration time.Duration
}

type Balance struct {
	Timeout time.Duration
	TTL     time.Duration
}

type Price struct {
	Enabled  bool
	BaseURL  string `mapstructure:"base_url"`
	Currency string
	TTL      time.Duration
	APIKey   string `mapstructure:"-"`
}

type Mail struct {
	Enabled   bool
	From      string
	To        string
	APIKey    string `mapstructure:"-"`
	SecretKey string `mapstructure:"-"`
}

type DB struct {
	Enabled  bool
	Host     string
	Port     string
	Username string
	DBName   string
	SSLMode  string
	Password string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("log.level", "info")
	v.SetDefault("chain.kind", chain.KindEVM)
	v.SetDefault("chain.id", chain.Sepolia)
	v.SetDefault("chain.tron_api_url", "https://api.trongrid.io")
	v.SetDefault("chain.poll_interval", "4s")
	v.SetDefault("tx.mode", submitter.ModeMock)
	v.SetDefault("tx.sign_delay", submitter.DefaultSignDelay)
	v.SetDefault("tx.confirm_delay", submitter.DefaultConfirmDelay)
	v.SetDefault("notify.duration", "3200ms")
	v.SetDefault("balance.timeout", "15s")
	v.SetDefault("balance.ttl", "30s")
	v.SetDefault("price.currency", "usd")
	v.SetDefault("price.ttl", "10m")
	v.SetDefault("db.sslmode", "disable")
}

// Load reads config.yml from dir. A missing file leaves the defaults in place.
func Load(dir string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}

	cfg.Chain.Kind = strings.ToLower(cfg.Chain.Kind)
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	cfg.DB.Password = os.Getenv("DB_PASSWORD")
	cfg.Tx.SignerKey = os.Getenv("SIGNER_PRIVATE_KEY")
	cfg.Chain.TronAPIKey = os.Getenv("TRON_PRO_API_KEY")
	cfg.Price.APIKey = os.Getenv("COINGECKO_API_KEY")
	cfg.Mail.APIKey = os.Getenv("MAILJET_API_KEY")
	cfg.Mail.SecretKey = os.Getenv("MAILJET_SECRET_KEY")

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Chain.Kind {
	case chain.KindEVM, chain.KindTron:
	default:
		return errors.Wrapf(chain.ErrUnsupportedChain, "chain.kind %q", c.Chain.Kind)
	}
	switch c.Tx.Mode {
	case submitter.ModeMock:
	case submitter.ModeEVM:
		if c.Chain.Kind != chain.KindEVM {
			return errors.New("tx.mode evm requires chain.kind evm")
		}
		if c.Tx.SignerKey == "" {
			return errors.New("tx.mode evm requires SIGNER_PRIVATE_KEY")
		}
	default:
		return errors.Errorf("unknown tx.mode %q", c.Tx.Mode)
	}
	if c.Mail.Enabled && (c.Mail.APIKey == "" || c.Mail.SecretKey == "") {
		return errors.New("mail.enabled requires MAILJET_API_KEY and MAILJET_SECRET_KEY")
	}
	return nil
}
