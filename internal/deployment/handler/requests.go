package handler

import (
	"strings"

	"assetgov/internal/compliance/modules"
	"assetgov/internal/deployment"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/httputil"
)

// DeployRequest is the body for POST /deployments.
type DeployRequest struct {
	Key         string             `json:"key"`
	Asset       AssetRequest       `json:"asset"`
	Eligibility EligibilityRequest `json:"eligibility"`

	assetConfig       deployment.AssetConfig
	eligibilityConfig deployment.EligibilityConfig
}

type AssetRequest struct {
	Owner              string         `json:"owner"`
	Name               string         `json:"name"`
	Symbol             string         `json:"symbol"`
	Decimals           uint8          `json:"decimals"`
	EligibilityStorage string         `json:"eligibility_storage,omitempty"`
	RegistryAgents     []string       `json:"registry_agents,omitempty"`
	AssetAgents        []string       `json:"asset_agents,omitempty"`
	ComplianceModules  []string       `json:"compliance_modules,omitempty"`
	ComplianceSettings []modules.Call `json:"compliance_settings,omitempty"`
}

type EligibilityRequest struct {
	Topics       []uint64   `json:"topics,omitempty"`
	Issuers      []string   `json:"issuers,omitempty"`
	IssuerTopics [][]uint64 `json:"issuer_topics,omitempty"`
}

// Normalize trims the key and names before validation, so " alpha " and
// "alpha" burn the same key. Address lists reach the coordinator with their
// length and order intact; it owns the agent limits.
func (r *DeployRequest) Normalize() {
	r.Key = strings.TrimSpace(r.Key)
	r.Asset.Name = strings.TrimSpace(r.Asset.Name)
	r.Asset.Symbol = strings.TrimSpace(r.Asset.Symbol)
}

// Validate implements httputil.Validatable. Capacity limits are left to the
// coordinator so the refusal order stays in one place.
func (r *DeployRequest) Validate() error {
	if r.Key == "" {
		return dErrors.New(dErrors.CodeValidation, "key is required")
	}
	owner, err := httputil.RequiredAddress("asset.owner", r.Asset.Owner)
	if err != nil {
		return err
	}
	ac := deployment.AssetConfig{
		Owner:              owner,
		Name:               r.Asset.Name,
		Symbol:             r.Asset.Symbol,
		Decimals:           r.Asset.Decimals,
		ComplianceSettings: r.Asset.ComplianceSettings,
	}
	if strings.TrimSpace(r.Asset.EligibilityStorage) != "" {
		if ac.EligibilityStorage, err = httputil.RequiredAddress("asset.eligibility_storage", r.Asset.EligibilityStorage); err != nil {
			return err
		}
	}
	if ac.RegistryAgents, err = parseAddresses("asset.registry_agents", r.Asset.RegistryAgents); err != nil {
		return err
	}
	if ac.AssetAgents, err = parseAddresses("asset.asset_agents", r.Asset.AssetAgents); err != nil {
		return err
	}
	if ac.ComplianceModules, err = parseAddresses("asset.compliance_modules", r.Asset.ComplianceModules); err != nil {
		return err
	}

	ec := deployment.EligibilityConfig{
		Topics:       r.Eligibility.Topics,
		IssuerTopics: r.Eligibility.IssuerTopics,
	}
	if ec.Issuers, err = parseAddresses("eligibility.issuers", r.Eligibility.Issuers); err != nil {
		return err
	}
	r.assetConfig, r.eligibilityConfig = ac, ec
	return nil
}

func parseAddresses(field string, raw []string) ([]domain.Address, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]domain.Address, 0, len(raw))
	for _, s := range raw {
		addr, err := httputil.RequiredAddress(field, s)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

// ProposalRequest is the body for POST /components/{component}/ownership/proposal.
type ProposalRequest struct {
	Owner string `json:"owner"`

	parsed domain.Address
}

// Validate implements httputil.Validatable.
func (r *ProposalRequest) Validate() error {
	addr, err := httputil.RequiredAddress("owner", r.Owner)
	if err != nil {
		return err
	}
	r.parsed = addr
	return nil
}

// ReferenceRequest is the body for PUT /coordinator/reference.
type ReferenceRequest struct {
	Registry string `json:"registry"`

	parsed domain.Address
}

// Validate implements httputil.Validatable.
func (r *ReferenceRequest) Validate() error {
	addr, err := httputil.RequiredAddress("registry", r.Registry)
	if err != nil {
		return err
	}
	r.parsed = addr
	return nil
}
