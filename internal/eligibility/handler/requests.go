package handler

import (
	"strconv"
	"strings"

	"assetgov/internal/eligibility"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/httputil"
)

// RegisterHolderRequest is the body for POST /eligibility/{registry}/holders.
type RegisterHolderRequest struct {
	Holder  string `json:"holder"`
	Country string `json:"country"`

	parsedHolder  domain.Address
	parsedCountry domain.Country
}

func (r *RegisterHolderRequest) Normalize() {
	r.Holder = strings.TrimSpace(r.Holder)
	r.Country = strings.TrimSpace(r.Country)
}

// Validate implements httputil.Validatable.
func (r *RegisterHolderRequest) Validate() error {
	holder, err := httputil.RequiredAddress("holder", r.Holder)
	if err != nil {
		return err
	}
	country, err := parseCountry(r.Country)
	if err != nil {
		return err
	}
	r.parsedHolder, r.parsedCountry = holder, country
	return nil
}

func (r *RegisterHolderRequest) ParsedHolder() domain.Address { return r.parsedHolder }

func (r *RegisterHolderRequest) ParsedCountry() domain.Country { return r.parsedCountry }

// UpdateCountryRequest is the body for PATCH /eligibility/{registry}/holders/{holder}.
type UpdateCountryRequest struct {
	Country string `json:"country"`

	parsedCountry domain.Country
}

// Validate implements httputil.Validatable.
func (r *UpdateCountryRequest) Validate() error {
	country, err := parseCountry(strings.TrimSpace(r.Country))
	if err != nil {
		return err
	}
	r.parsedCountry = country
	return nil
}

func (r *UpdateCountryRequest) ParsedCountry() domain.Country { return r.parsedCountry }

// ClaimRequest is the body for POST /eligibility/{registry}/holders/{holder}/claims.
type ClaimRequest struct {
	Topic *uint64 `json:"topic"`
}

// Validate implements httputil.Validatable.
func (r *ClaimRequest) Validate() error {
	if r.Topic == nil {
		return dErrors.New(dErrors.CodeValidation, "topic is required")
	}
	return nil
}

// TopicRequest is the body for POST /topic-lists/{list}/topics.
type TopicRequest struct {
	Topic *uint64 `json:"topic"`
}

// Validate implements httputil.Validatable.
func (r *TopicRequest) Validate() error {
	if r.Topic == nil {
		return dErrors.New(dErrors.CodeValidation, "topic is required")
	}
	return nil
}

// IssuerRequest is the body for PUT /issuer-lists/{list}/issuers/{issuer}.
type IssuerRequest struct {
	Topics []uint64 `json:"topics"`
}

// Validate implements httputil.Validatable.
func (r *IssuerRequest) Validate() error {
	if len(r.Topics) == 0 {
		return eligibility.ErrNoIssuerTopics
	}
	if len(r.Topics) > eligibility.MaxTopics {
		return eligibility.ErrTooManyTopics
	}
	return nil
}

// LinkRequest is the body for POST /storages/{storage}/links.
type LinkRequest struct {
	Registry string `json:"registry"`

	parsedRegistry domain.Address
}

// Validate implements httputil.Validatable.
func (r *LinkRequest) Validate() error {
	addr, err := httputil.RequiredAddress("registry", r.Registry)
	if err != nil {
		return err
	}
	r.parsedRegistry = addr
	return nil
}

func (r *LinkRequest) ParsedRegistry() domain.Address { return r.parsedRegistry }

func parseCountry(raw string) (domain.Country, error) {
	if raw == "" {
		return 0, dErrors.New(dErrors.CodeValidation, "country is required")
	}
	return domain.ParseCountry(raw)
}

func parseTopic(raw string) (uint64, error) {
	topic, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "topic must be an unsigned integer")
	}
	return topic, nil
}
