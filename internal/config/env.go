package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: WalletSeed may be empty - the CLI then falls back to WalletSeedFile or a prompt.
type Config struct {
	IndexerURL     string `envconfig:"INDEXER_URL" default:"https://indexer.testnet-02.midnight.network/api/v1/graphql"`
	IndexerWSURL   string `envconfig:"INDEXER_WS_URL" default:"wss://indexer.testnet-02.midnight.network/api/v1/graphql/ws"`
	NodeURL        string `envconfig:"NODE_URL" default:"https://rpc.testnet-02.midnight.network"`
	ProofServerURL string `envconfig:"PROOF_SERVER_URL" default:"http://127.0.0.1:6300"`
	APIURL         string `envconfig:"API_URL" default:"http://localhost:3001"`
	NetworkID      string `envconfig:"NETWORK_ID" default:"TestNet"`

	WalletRPCURL   string `envconfig:"WALLET_RPC_URL" default:"http://127.0.0.1:9944"`
	WalletWSURL    string `envconfig:"WALLET_WS_URL" default:"ws://127.0.0.1:9944/ws"`
	WalletSeed     string `envconfig:"WALLET_SEED"`
	WalletSeedFile string `envconfig:"WALLET_SEED_FILE"`

	DeploymentPath string   `envconfig:"DEPLOYMENT_PATH" default:"deployment.json"`
	Port           string   `envconfig:"PORT" default:"3001"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`

	SyncFirstTimeout time.Duration `envconfig:"SYNC_FIRST_TIMEOUT" default:"5m"`
	SyncEachTimeout  time.Duration `envconfig:"SYNC_EACH_TIMEOUT" default:"2m"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`
}

// cfg is the global configuration instance
var cfg *Config

// ErrNotTerminal is returned by PromptSecret when stdin cannot hide input
var ErrNotTerminal = errors.New("stdin is not a terminal")

// Load reads configuration from environment variables without touching the global instance.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if c.SyncFirstTimeout <= 0 || c.SyncEachTimeout <= 0 {
		return nil, errors.New("sync timeouts must be positive")
	}
	return c, nil
}

// Init loads configuration from environment variables.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// PromptSecret prompts the user for a secret in the terminal.
// The input is read without echoing (hidden input).
// Caller must zero the returned slice after use.
func PromptSecret(label string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("%w: run the app interactively to enter %s", ErrNotTerminal, strings.ToLower(label))
	}
	fmt.Fprintf(os.Stderr, "Enter %s: ", label)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", label, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", label)
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}
