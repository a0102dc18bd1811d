package genesis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"assetgov/pkg/domain"
)

// Module types the bootstrap knows how to build.
const (
	ModuleSupplyLimit     = "supply_limit"
	ModuleMaxBalance      = "max_balance"
	ModuleCountryAllow    = "country_allow"
	ModuleCountryRestrict = "country_restrict"
)

// Config seeds an empty substrate: who administers the platform, which
// version the reference registry starts at and which rule modules exist.
type Config struct {
	Admin   domain.Address `yaml:"admin"`
	Version domain.Version `yaml:"version"`
	Modules []ModuleConfig `yaml:"modules"`
}

type ModuleConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Load reads and validates a genesis file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse genesis file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default is used when no genesis file is configured: version 1.0.0 and one
// module of each built-in type.
func Default(admin domain.Address) *Config {
	return &Config{
		Admin:   admin,
		Version: domain.Version{Major: 1},
		Modules: []ModuleConfig{
			{Name: "supply-limit", Type: ModuleSupplyLimit},
			{Name: "max-balance", Type: ModuleMaxBalance},
			{Name: "country-allow", Type: ModuleCountryAllow},
			{Name: "country-restrict", Type: ModuleCountryRestrict},
		},
	}
}

func (c *Config) Validate() error {
	if c.Admin.IsZero() {
		return fmt.Errorf("genesis: admin is required")
	}
	if (c.Version == domain.Version{}) {
		return fmt.Errorf("genesis: version 0.0.0 is reserved")
	}
	seen := make(map[string]struct{}, len(c.Modules))
	for _, m := range c.Modules {
		if m.Name == "" {
			return fmt.Errorf("genesis: module name is required")
		}
		if _, dup := seen[m.Name]; dup {
			return fmt.Errorf("genesis: module %q declared twice", m.Name)
		}
		seen[m.Name] = struct{}{}
		switch m.Type {
		case ModuleSupplyLimit, ModuleMaxBalance, ModuleCountryAllow, ModuleCountryRestrict:
		default:
			return fmt.Errorf("genesis: module %q has unknown type %q", m.Name, m.Type)
		}
	}
	return nil
}
