package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"stablepay/crypto"
	"stablepay/native/settlement"
)

// Config describes the runnable settlement daemon. Addresses are bech32
// encoded principals.
type Config struct {
	DataDir        string   `toml:"DataDir"`
	StorageBackend string   `toml:"StorageBackend"`
	CustodyAddress string   `toml:"CustodyAddress"`
	AdminAddress   string   `toml:"AdminAddress"`
	FeeRecipient   string   `toml:"FeeRecipient"`
	FeeBps         uint32   `toml:"FeeBps"`
	RewardRate     uint32   `toml:"RewardRate"`
	Assets         []string `toml:"Assets"`
}

// Default returns the baseline configuration: an in-memory store, a 0.5% fee,
// one reward credit per $100 of volume, and the stable unit registered.
func Default() *Config {
	return &Config{
		DataDir:        "./settled-data",
		StorageBackend: "memory",
		FeeBps:         50,
		RewardRate:     1,
		Assets:         []string{"ZUSD"},
	}
}

// Load loads the configuration from the given path. A missing file yields the
// defaults so development setups work without one.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the decoded configuration for internal consistency.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config: nil config")
	}
	if c.FeeBps > settlement.MaxFeeBps {
		return fmt.Errorf("config: FeeBps %d exceeds ceiling %d", c.FeeBps, settlement.MaxFeeBps)
	}
	for _, field := range []struct {
		name  string
		value string
	}{
		{"CustodyAddress", c.CustodyAddress},
		{"AdminAddress", c.AdminAddress},
		{"FeeRecipient", c.FeeRecipient},
	} {
		if strings.TrimSpace(field.value) == "" {
			continue
		}
		if _, err := crypto.DecodeAddress(field.value); err != nil {
			return fmt.Errorf("config: %s: %w", field.name, err)
		}
	}
	if len(c.Assets) == 0 {
		return fmt.Errorf("config: at least one settlement asset required")
	}
	return nil
}

// Principal decodes one of the configured addresses into its raw 20-byte
// form.
func Principal(encoded string) ([20]byte, error) {
	var out [20]byte
	addr, err := crypto.DecodeAddress(encoded)
	if err != nil {
		return out, err
	}
	copy(out[:], addr.Bytes())
	return out, nil
}
