package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the enricher
type Config struct {
	Inventory InventoryConfig
	Facts     FactsConfig
	Units     UnitsConfig
	Ledger    LedgerConfig
	Enrich    EnrichConfig
}

// InventoryConfig holds inventory backend API configuration
type InventoryConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// FactsConfig holds open product database configuration
type FactsConfig struct {
	PrimaryURL        string        `mapstructure:"primary_url"`
	SecondaryURL      string        `mapstructure:"secondary_url"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// UnitsConfig names the four recognized units. They must already exist in
// the inventory backend's quantity unit list.
type UnitsConfig struct {
	Gram       string `mapstructure:"gram"`
	Kilogram   string `mapstructure:"kilogram"`
	Milliliter string `mapstructure:"milliliter"`
	Liter      string `mapstructure:"liter"`
}

// LedgerConfig holds the processed-barcode ledger configuration
type LedgerConfig struct {
	Path string `mapstructure:"path"`
}

// EnrichConfig holds pipeline behavior toggles
type EnrichConfig struct {
	// ConfirmConversions gates deriving a new unit conversion behind an
	// interactive yes/no prompt instead of adding it automatically.
	ConfirmConversions bool `mapstructure:"confirm_conversions"`
}

// Load loads configuration from an optional config file and environment
// variables. An explicit path overrides the search paths.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/pantrylens/")
	}

	v.SetEnvPrefix("PANTRYLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// A missing config file is fine unless one was named explicitly; env
	// vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if path != "" || !notFound {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. The empty defaults make
// viper aware of the required keys so AutomaticEnv can fill them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("inventory.base_url", "")
	v.SetDefault("inventory.api_key", "")
	v.SetDefault("inventory.timeout", "30s")

	v.SetDefault("facts.primary_url", "https://world.openfoodfacts.org")
	v.SetDefault("facts.secondary_url", "https://world.openbeautyfacts.org")
	v.SetDefault("facts.requests_per_second", 1.5)
	v.SetDefault("facts.burst", 5)
	v.SetDefault("facts.timeout", "30s")

	v.SetDefault("units.gram", "Gram")
	v.SetDefault("units.kilogram", "Kilogram")
	v.SetDefault("units.milliliter", "Millilitre")
	v.SetDefault("units.liter", "Litre")

	v.SetDefault("ledger.path", "./processed_barcodes.txt")

	v.SetDefault("enrich.confirm_conversions", true)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Inventory.BaseURL == "" {
		return fmt.Errorf("inventory base URL is required (set PANTRYLENS_INVENTORY_BASE_URL)")
	}
	if config.Inventory.APIKey == "" {
		return fmt.Errorf("inventory API key is required (set PANTRYLENS_INVENTORY_API_KEY)")
	}

	for name, value := range map[string]string{
		"units.gram":       config.Units.Gram,
		"units.kilogram":   config.Units.Kilogram,
		"units.milliliter": config.Units.Milliliter,
		"units.liter":      config.Units.Liter,
	} {
		if value == "" {
			return fmt.Errorf("unit name %s must not be empty", name)
		}
	}

	if config.Facts.RequestsPerSecond <= 0 {
		return fmt.Errorf("facts requests per second must be positive, got: %v", config.Facts.RequestsPerSecond)
	}
	if config.Ledger.Path == "" {
		return fmt.Errorf("ledger path must not be empty")
	}

	return nil
}
