package versions

import (
	"context"

	"assetgov/internal/versions/store"
	"assetgov/pkg/domain"
)

// View is a read-only snapshot of a registry.
type View struct {
	Address       domain.Address  `json:"address"`
	Reference     bool            `json:"reference"`
	ActiveVersion *domain.Version `json:"active_version,omitempty"`
	ActiveBundle  *domain.Bundle  `json:"active_bundle,omitempty"`
	Coordinator   domain.Address  `json:"coordinator"`
	Factory       domain.Address  `json:"factory"`
	Versions      []store.Entry   `json:"versions"`
}

// Snapshot builds a View of r.
func (r *Registry) Snapshot(ctx context.Context) (*View, error) {
	entries, err := r.Versions(ctx)
	if err != nil {
		return nil, err
	}
	v := &View{
		Address:     r.address,
		Reference:   r.reference,
		Coordinator: r.coordinator,
		Factory:     r.factory,
		Versions:    entries,
	}
	if r.hasActive {
		active, bundle := r.active, r.activeBundle
		v.ActiveVersion = &active
		v.ActiveBundle = &bundle
	}
	return v, nil
}
