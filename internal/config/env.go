package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Wallet provider kinds accepted in WALLET_PROVIDER
const (
	ProviderKeystore = "keystore"
	ProviderClef     = "clef"
	ProviderNone     = "none"
)

// Config contains all configuration parameters for the application.
// Note: Password is prompted at runtime and stored in memory - use GetWalletPasswordBytes()
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"` // text or json

	EthRPCURL       string `envconfig:"ETH_RPC_URL" default:"ws://127.0.0.1:8545"`
	ChainID         int64  `envconfig:"CHAIN_ID" default:"0"` // 0 = ask the node
	ContractAddress string `envconfig:"CONTRACT_ADDRESS" default:"0xd31cA6d8c9FeAa0C07514Aa634451a7DC14901BE"`
	GasLimit        uint64 `envconfig:"GAS_LIMIT" default:"300000"`
	PollInterval    int    `envconfig:"POLL_INTERVAL_SECONDS" default:"15"`

	WalletProvider string `envconfig:"WALLET_PROVIDER" default:"keystore"`
	WalletFilePath string `envconfig:"WALLET_FILE_PATH"`
	ClefURL        string `envconfig:"CLEF_URL" default:"http://127.0.0.1:8550"`

	CountriesURL string `envconfig:"COUNTRIES_URL" default:"https://restcountries.com/v3.1/all?fields=cca2,name,demonyms,flags,flag"`
	GiphyAPIKey  string `envconfig:"GIPHY_API_KEY" default:"63rZnjUDKyyA0VowUPteomkmEBGDON9m"`
	GiphyGifID   string `envconfig:"GIPHY_GIF_ID" default:"fpXxIjftmkk9y"`
	HTTPTimeout  int    `envconfig:"HTTP_TIMEOUT_SECONDS" default:"15"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads .env files (if any) and then configuration from environment variables.
func Init() error {
	// Missing .env is fine, the process environment is used as is
	_ = godotenv.Load()

	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Load reads configuration from the environment without touching the global instance.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks values envconfig cannot check by itself
func (c *Config) Validate() error {
	switch c.WalletProvider {
	case ProviderKeystore, ProviderClef, ProviderNone:
	default:
		return fmt.Errorf("WALLET_PROVIDER must be one of %s, %s, %s", ProviderKeystore, ProviderClef, ProviderNone)
	}
	if !ethcommon.IsHexAddress(c.ContractAddress) {
		return fmt.Errorf("CONTRACT_ADDRESS is not a valid address: %q", c.ContractAddress)
	}
	if c.GasLimit == 0 {
		return errors.New("GAS_LIMIT must be greater than 0")
	}
	if c.PollInterval <= 0 {
		return errors.New("POLL_INTERVAL_SECONDS must be greater than 0")
	}
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

// HTTPTimeoutDuration returns the timeout for outgoing REST calls
func (c *Config) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// PollIntervalDuration returns the log polling interval for HTTP RPC endpoints
func (c *Config) PollIntervalDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

var passwordBytes []byte

// PromptForPassword prompts the user for the wallet password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	raw, err := ReadPassword("Enter wallet password: ")
	if err != nil {
		return err
	}
	passwordBytes = raw
	return nil
}

// ReadPassword reads a non-empty password from the terminal without echo.
func ReadPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}

// GetWalletPasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetWalletPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}

// ClearWalletPassword zeroes and drops the password stored by PromptForPassword.
func ClearWalletPassword() {
	clear(passwordBytes)
	passwordBytes = nil
}
