package handler

import (
	"strings"

	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
)

// AddVersionRequest is the body for POST /registries/{registry}/versions.
type AddVersionRequest struct {
	Version string        `json:"version"`
	Bundle  domain.Bundle `json:"bundle"`
	Promote bool          `json:"promote"`

	parsedVersion domain.Version
}

// Validate implements httputil.Validatable.
func (r *AddVersionRequest) Validate() error {
	v, err := parseVersion(r.Version)
	if err != nil {
		return err
	}
	if r.Bundle.IsEmpty() {
		return dErrors.New(dErrors.CodeValidation, "bundle is required")
	}
	r.parsedVersion = v
	return nil
}

func (r *AddVersionRequest) ParsedVersion() domain.Version {
	return r.parsedVersion
}

// PromoteRequest is the body for PUT /registries/{registry}/active-version.
type PromoteRequest struct {
	Version string `json:"version"`

	parsedVersion domain.Version
}

// Validate implements httputil.Validatable.
func (r *PromoteRequest) Validate() error {
	v, err := parseVersion(r.Version)
	if err != nil {
		return err
	}
	r.parsedVersion = v
	return nil
}

func (r *PromoteRequest) ParsedVersion() domain.Version {
	return r.parsedVersion
}

// MigrateRequest is the body for POST /registries/{registry}/migrations.
// An empty new_authority asks the registry to derive a private one.
type MigrateRequest struct {
	Asset        string `json:"asset"`
	NewAuthority string `json:"new_authority,omitempty"`

	parsedAsset     domain.Address
	parsedAuthority domain.Address
}

// Validate implements httputil.Validatable.
func (r *MigrateRequest) Validate() error {
	r.Asset = strings.TrimSpace(r.Asset)
	if r.Asset == "" {
		return dErrors.New(dErrors.CodeValidation, "asset is required")
	}
	asset, err := domain.ParseAddress(r.Asset)
	if err != nil {
		return err
	}
	if asset.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "asset must not be the zero address")
	}
	r.parsedAsset = asset

	r.NewAuthority = strings.TrimSpace(r.NewAuthority)
	if r.NewAuthority != "" {
		authority, err := domain.ParseAddress(r.NewAuthority)
		if err != nil {
			return err
		}
		r.parsedAuthority = authority
	}
	return nil
}

func (r *MigrateRequest) ParsedAsset() domain.Address {
	return r.parsedAsset
}

func (r *MigrateRequest) ParsedAuthority() domain.Address {
	return r.parsedAuthority
}

func parseVersion(s string) (domain.Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Version{}, dErrors.New(dErrors.CodeValidation, "version is required")
	}
	return domain.ParseVersion(s)
}
