package j832

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/tansive/j832-go/internal/validation"
	"gopkg.in/yaml.v3"
)

// Config holds everything needed to construct a Client. A Config without a
// SigningKey yields a read-only client.
type Config struct {
	// JSON-RPC endpoint of the chain, e.g. http://127.0.0.1:8545
	Endpoint string `toml:"endpoint" yaml:"endpoint" json:"endpoint" env:"J832_PROVIDER_URL" validate:"required,url,startswith=http://|startswith=https://|startswith=ws://|startswith=wss://"`

	// Address of the deployed J832 contract
	ContractAddress string `toml:"contract_address" yaml:"contractAddress" json:"contractAddress" env:"J832_CONTRACT_ADDRESS" validate:"required,eth_addr"`

	// 0x-prefixed 32-byte secp256k1 private key
	SigningKey string `toml:"signing_key" yaml:"signingKey" json:"signingKey" env:"J832_SIGNER_KEY" validate:"omitempty,hexsecret"`

	// Reserved. Accepted and carried but not used by any call.
	APIKey string `toml:"api_key" yaml:"apiKey" json:"apiKey" env:"J832_API_KEY"`

	// How often a submitted transaction's receipt is polled. Zero uses the default.
	ReceiptPollInterval time.Duration `toml:"receipt_poll_interval" yaml:"receiptPollInterval" json:"receiptPollInterval" env:"J832_RECEIPT_POLL_INTERVAL" validate:"gte=0"`

	// When set, accepted writes are recorded in a signed local journal.
	JournalPath string `toml:"journal_path" yaml:"journalPath" json:"journalPath" env:"J832_JOURNAL_PATH"`
}

// Validate checks the configuration the way the constructor does. It
// performs no I/O.
func (c *Config) Validate() error {
	err := validation.V().Struct(c)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return ErrConfiguration.Err(err)
	}
	fe := ve[0]
	switch fe.StructField() {
	case "Endpoint":
		if fe.Tag() == "required" {
			return ErrMissingEndpoint
		}
		return ErrInvalidEndpoint.Suffix(c.Endpoint)
	case "ContractAddress":
		if fe.Tag() == "required" {
			return ErrMissingContract
		}
		return ErrInvalidContract.Suffix(c.ContractAddress)
	case "SigningKey":
		// never echo the key
		return ErrInvalidSigningKey
	default:
		return ErrConfiguration.Msg("invalid " + fe.Field())
	}
}

func (c *Config) readOnly() bool {
	return c.SigningKey == ""
}

// LoadConfig reads a TOML or YAML configuration file, chosen by extension,
// and validates it.
func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		return nil, ErrConfigFile.Msg("config filename is required")
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, ErrConfigFile.MsgErr("error reading config file", err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml", ".conf":
		if _, err := toml.Decode(string(content), cfg); err != nil {
			return nil, ErrConfigFile.MsgErr("error parsing config file", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, ErrConfigFile.MsgErr("error parsing config file", err)
		}
	default:
		return nil, ErrConfigFile.Msg("unsupported config file type: " + filepath.Ext(filename))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFromEnv reads the configuration from J832_* environment variables
// and validates it.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, ErrConfigFile.MsgErr("error parsing environment", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
