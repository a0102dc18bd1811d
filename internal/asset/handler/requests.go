package handler

import (
	"strings"

	"assetgov/internal/asset"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/httputil"
)

// MovementRequest is the body for mints, burns and transfers. Which
// addresses are required depends on the route.
type MovementRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`

	parsedFrom domain.Address
	parsedTo   domain.Address
}

func (r *MovementRequest) Normalize() {
	r.From = strings.TrimSpace(r.From)
	r.To = strings.TrimSpace(r.To)
}

// Validate implements httputil.Validatable. Addresses that are present must
// parse; the handler decides which ones it needs.
func (r *MovementRequest) Validate() error {
	if r.Amount == 0 {
		return asset.ErrZeroAmount
	}
	var err error
	if r.From != "" {
		if r.parsedFrom, err = httputil.RequiredAddress("from", r.From); err != nil {
			return err
		}
	}
	if r.To != "" {
		if r.parsedTo, err = httputil.RequiredAddress("to", r.To); err != nil {
			return err
		}
	}
	return nil
}

func (r *MovementRequest) require(from, to bool) error {
	if from && r.parsedFrom.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "from is required")
	}
	if to && r.parsedTo.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "to is required")
	}
	return nil
}

// PausedRequest is the body for PUT /assets/{asset}/paused.
type PausedRequest struct {
	Paused *bool `json:"paused"`
}

// Validate implements httputil.Validatable.
func (r *PausedRequest) Validate() error {
	if r.Paused == nil {
		return dErrors.New(dErrors.CodeValidation, "paused is required")
	}
	return nil
}

// ReferenceRequest is the body for the routes that repoint the asset at
// another engine or registry.
type ReferenceRequest struct {
	Address string `json:"address"`

	parsed domain.Address
}

// Validate implements httputil.Validatable.
func (r *ReferenceRequest) Validate() error {
	addr, err := httputil.RequiredAddress("address", r.Address)
	if err != nil {
		return err
	}
	r.parsed = addr
	return nil
}
