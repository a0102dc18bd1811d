// Package eligibility holds the identity side of a suite: the required claim
// topics, the trusted issuers, the identity storage that several suites may
// share, and the registry that answers whether a holder may hold the asset.
//
// Claims are recorded, not verified; proving them is the issuers' business.
package eligibility

import (
	"context"

	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
)

const (
	// MaxTopics bounds the required claim topics of one topic list.
	MaxTopics = 15
	// MaxIssuers bounds the trusted issuers of one issuer list.
	MaxIssuers = 50
	// MaxLinkedRegistries bounds the registries sharing one storage.
	MaxLinkedRegistries = 300
)

var (
	ErrNotOwner                = dErrors.New(dErrors.CodeForbidden, "caller does not own the component")
	ErrNotAgent                = dErrors.New(dErrors.CodeForbidden, "caller is not an agent of the registry")
	ErrNotLinked               = dErrors.New(dErrors.CodeForbidden, "caller is not a registry linked to the storage")
	ErrUntrustedIssuer         = dErrors.New(dErrors.CodeForbidden, "issuer is not trusted for the topic")
	ErrZeroAddress             = dErrors.New(dErrors.CodeValidation, "address cannot be zero")
	ErrInvalidCountry          = dErrors.New(dErrors.CodeValidation, "invalid country code")
	ErrTopicExists             = dErrors.New(dErrors.CodeConflict, "topic already required")
	ErrTopicMissing            = dErrors.New(dErrors.CodeNotFound, "topic not required")
	ErrTooManyTopics           = dErrors.New(dErrors.CodeValidation, "too many claim topics")
	ErrIssuerExists            = dErrors.New(dErrors.CodeConflict, "issuer already trusted")
	ErrIssuerMissing           = dErrors.New(dErrors.CodeNotFound, "issuer not trusted")
	ErrTooManyIssuers          = dErrors.New(dErrors.CodeValidation, "too many trusted issuers")
	ErrNoIssuerTopics          = dErrors.New(dErrors.CodeValidation, "issuer needs at least one claim topic")
	ErrAlreadyLinked           = dErrors.New(dErrors.CodeConflict, "registry already linked")
	ErrTooManyLinkedRegistries = dErrors.New(dErrors.CodeValidation, "storage cannot link more registries")
	ErrHolderExists            = dErrors.New(dErrors.CodeConflict, "holder already registered")
	ErrHolderMissing           = dErrors.New(dErrors.CodeNotFound, "holder not registered")
	ErrClaimMissing            = dErrors.New(dErrors.CodeNotFound, "claim not recorded")
	ErrNotWired                = dErrors.New(dErrors.CodeInvariantViolation, "registry is missing a storage, topic list or issuer list")
)

// Claim is an issuer's attestation that a holder satisfies a topic.
type Claim struct {
	Topic  uint64         `json:"topic"`
	Issuer domain.Address `json:"issuer"`
}

// TopicListCode is the behaviour behind a topic list front.
type TopicListCode interface {
	AddTopic(ctx context.Context, l *TopicList, caller domain.Address, topic uint64) error
	RemoveTopic(ctx context.Context, l *TopicList, caller domain.Address, topic uint64) error
}

// IssuerListCode is the behaviour behind an issuer list front.
type IssuerListCode interface {
	AddIssuer(ctx context.Context, l *IssuerList, caller, issuer domain.Address, topics []uint64) error
	RemoveIssuer(ctx context.Context, l *IssuerList, caller, issuer domain.Address) error
}

// StorageCode is the behaviour behind an identity storage front.
type StorageCode interface {
	LinkRegistry(ctx context.Context, st *Storage, caller, registry domain.Address) error
	UnlinkRegistry(ctx context.Context, st *Storage, caller, registry domain.Address) error
	PutIdentity(ctx context.Context, st *Storage, caller, holder domain.Address, country domain.Country) error
	RemoveIdentity(ctx context.Context, st *Storage, caller, holder domain.Address) error
	PutClaim(ctx context.Context, st *Storage, caller, holder domain.Address, claim Claim) error
	DeleteClaim(ctx context.Context, st *Storage, caller, holder domain.Address, claim Claim) error
}

// RegistryCode is the behaviour behind an eligibility registry front.
type RegistryCode interface {
	RegisterHolder(ctx context.Context, r *Registry, caller, holder domain.Address, country domain.Country) error
	UpdateCountry(ctx context.Context, r *Registry, caller, holder domain.Address, country domain.Country) error
	DeleteHolder(ctx context.Context, r *Registry, caller, holder domain.Address) error
	AddClaim(ctx context.Context, r *Registry, caller, holder domain.Address, topic uint64) error
	RemoveClaim(ctx context.Context, r *Registry, caller, holder domain.Address, claim Claim) error
	Wire(ctx context.Context, r *Registry, caller domain.Address, links Links) error
	IsEligible(r *Registry, holder domain.Address) bool
}

// Links names the components a registry reads from. Zero fields are left
// unchanged by Wire.
type Links struct {
	Storage    domain.Address `json:"storage"`
	TopicList  domain.Address `json:"topic_list"`
	IssuerList domain.Address `json:"issuer_list"`
}
