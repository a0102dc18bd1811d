package deployment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"assetgov/internal/capability"
	"assetgov/internal/chain"
	"assetgov/internal/compliance"
	"assetgov/internal/compliance/modules"
	"assetgov/internal/eligibility"
	"assetgov/pkg/domain"
)

// Capacity limits of one deployment.
const (
	MaxIssuers = 5
	MaxTopics  = 5
	MaxAgents  = 5
	MaxModules = 30
)

// AssetConfig describes the asset side of a suite. A non-zero
// EligibilityStorage reuses an existing storage instead of deploying one.
// ComplianceSettings[i] is forwarded to ComplianceModules[i].
type AssetConfig struct {
	Owner              domain.Address   `json:"owner" yaml:"owner"`
	Name               string           `json:"name" yaml:"name"`
	Symbol             string           `json:"symbol" yaml:"symbol"`
	Decimals           uint8            `json:"decimals" yaml:"decimals"`
	EligibilityStorage domain.Address   `json:"eligibility_storage" yaml:"eligibility_storage"`
	RegistryAgents     []domain.Address `json:"registry_agents" yaml:"registry_agents"`
	AssetAgents        []domain.Address `json:"asset_agents" yaml:"asset_agents"`
	ComplianceModules  []domain.Address `json:"compliance_modules" yaml:"compliance_modules"`
	ComplianceSettings []modules.Call   `json:"compliance_settings" yaml:"compliance_settings"`
}

// EligibilityConfig lists the required topics and the trusted issuers.
// IssuerTopics[i] holds the topics Issuers[i] is trusted for.
type EligibilityConfig struct {
	Topics       []uint64         `json:"topics" yaml:"topics"`
	Issuers      []domain.Address `json:"issuers" yaml:"issuers"`
	IssuerTopics [][]uint64       `json:"issuer_topics" yaml:"issuer_topics"`
}

func (ac AssetConfig) reusesStorage() bool {
	return !ac.EligibilityStorage.IsZero()
}

// validate runs every check that needs no mutation. The order is part of the
// contract: callers see the first failing rule.
func (c *Coordinator) validate(ctx context.Context, key string, ac AssetConfig, ec EligibilityConfig) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	if _, err := c.lookup(ctx, key); err == nil {
		return fmt.Errorf("%q: %w", key, ErrKeyAlreadyUsed)
	} else if !errors.Is(err, ErrKeyNotFound) {
		return err
	}
	if len(ec.Issuers) != len(ec.IssuerTopics) {
		return ErrInvalidClaimPattern
	}
	if len(ec.Issuers) > MaxIssuers {
		return fmt.Errorf("%d issuers: %w", len(ec.Issuers), ErrTooManyIssuers)
	}
	if len(ec.Topics) > MaxTopics {
		return fmt.Errorf("%d topics: %w", len(ec.Topics), ErrTooManyTopics)
	}
	if len(ac.RegistryAgents) > MaxAgents || len(ac.AssetAgents) > MaxAgents {
		return ErrTooManyAgents
	}
	if len(ac.ComplianceModules) > MaxModules {
		return fmt.Errorf("%d modules: %w", len(ac.ComplianceModules), ErrTooManyModules)
	}
	if len(ac.ComplianceSettings) > len(ac.ComplianceModules) {
		return ErrInvalidCompliancePattern
	}

	if ac.Owner.IsZero() {
		return fmt.Errorf("owner: %w", ErrZeroAddress)
	}
	if strings.TrimSpace(ac.Name) == "" || strings.TrimSpace(ac.Symbol) == "" {
		return ErrInvalidAssetConfig
	}
	for _, agent := range append(append([]domain.Address{}, ac.RegistryAgents...), ac.AssetAgents...) {
		if agent.IsZero() {
			return fmt.Errorf("agent: %w", ErrZeroAddress)
		}
	}
	for _, issuer := range ec.Issuers {
		if issuer.IsZero() {
			return fmt.Errorf("issuer: %w", ErrZeroAddress)
		}
	}
	for _, m := range ac.ComplianceModules {
		if _, err := chain.Resolve[compliance.Module](c.chain, m); err != nil {
			return fmt.Errorf("%s: %w", m, ErrUnknownModule)
		}
	}
	if ac.reusesStorage() {
		if _, err := chain.Resolve[*eligibility.Storage](c.chain, ac.EligibilityStorage); err != nil {
			return fmt.Errorf("%s: %w", ac.EligibilityStorage, ErrStorageNotFound)
		}
		if !c.auth.HasCapability(ctx, ac.Owner, capability.Owner(ac.EligibilityStorage)) {
			return fmt.Errorf("%s: %w", ac.EligibilityStorage, ErrStorageNotOwned)
		}
	}
	if _, err := c.referenceRegistry(); err != nil {
		return err
	}
	return nil
}
