package eligibility

import (
	"context"

	"assetgov/internal/chain"
	"assetgov/internal/indirection"
	"assetgov/pkg/domain"
)

// Registry answers whether a holder may hold the asset and where the holder
// is based. Agents register holders; trusted issuers add claims.
type Registry struct {
	chain      *chain.Chain
	front      *indirection.Front
	storage    domain.Address
	topicList  domain.Address
	issuerList domain.Address
}

func NewRegistry(c *chain.Chain, front *indirection.Front) *Registry {
	return &Registry{chain: c, front: front}
}

func (r *Registry) Front() *indirection.Front { return r.front }

func (r *Registry) Address() domain.Address { return r.front.Address() }

// Links returns the components the registry reads from.
func (r *Registry) Links() Links {
	return Links{Storage: r.storage, TopicList: r.topicList, IssuerList: r.issuerList}
}

func (r *Registry) resolve() (*Storage, *TopicList, *IssuerList, error) {
	st, err := chain.Resolve[*Storage](r.chain, r.storage)
	if err != nil {
		return nil, nil, nil, ErrNotWired
	}
	topics, err := chain.Resolve[*TopicList](r.chain, r.topicList)
	if err != nil {
		return nil, nil, nil, ErrNotWired
	}
	issuers, err := chain.Resolve[*IssuerList](r.chain, r.issuerList)
	if err != nil {
		return nil, nil, nil, ErrNotWired
	}
	return st, topics, issuers, nil
}

// CountryOf returns holder's jurisdiction from the linked storage.
func (r *Registry) CountryOf(holder domain.Address) (domain.Country, bool) {
	st, err := chain.Resolve[*Storage](r.chain, r.storage)
	if err != nil {
		return 0, false
	}
	return st.CountryOf(holder)
}

// Contains reports whether holder is registered in the linked storage.
func (r *Registry) Contains(holder domain.Address) bool {
	st, err := chain.Resolve[*Storage](r.chain, r.storage)
	return err == nil && st.Contains(holder)
}

// IsEligible is false whenever the behaviour cannot be resolved.
func (r *Registry) IsEligible(holder domain.Address) bool {
	code, err := indirection.Code[RegistryCode](r.front)
	if err != nil {
		return false
	}
	return code.IsEligible(r, holder)
}

func (r *Registry) code() (RegistryCode, error) {
	return indirection.Code[RegistryCode](r.front)
}

func (r *Registry) RegisterHolder(ctx context.Context, caller, holder domain.Address, country domain.Country) error {
	code, err := r.code()
	if err != nil {
		return err
	}
	return code.RegisterHolder(ctx, r, caller, holder, country)
}

func (r *Registry) UpdateCountry(ctx context.Context, caller, holder domain.Address, country domain.Country) error {
	code, err := r.code()
	if err != nil {
		return err
	}
	return code.UpdateCountry(ctx, r, caller, holder, country)
}

func (r *Registry) DeleteHolder(ctx context.Context, caller, holder domain.Address) error {
	code, err := r.code()
	if err != nil {
		return err
	}
	return code.DeleteHolder(ctx, r, caller, holder)
}

// AddClaim records that caller, acting as an issuer, attests topic for holder.
func (r *Registry) AddClaim(ctx context.Context, caller, holder domain.Address, topic uint64) error {
	code, err := r.code()
	if err != nil {
		return err
	}
	return code.AddClaim(ctx, r, caller, holder, topic)
}

func (r *Registry) RemoveClaim(ctx context.Context, caller, holder domain.Address, claim Claim) error {
	code, err := r.code()
	if err != nil {
		return err
	}
	return code.RemoveClaim(ctx, r, caller, holder, claim)
}

// Wire points the registry at its storage, topic list and issuer list.
func (r *Registry) Wire(ctx context.Context, caller domain.Address, links Links) error {
	code, err := r.code()
	if err != nil {
		return err
	}
	return code.Wire(ctx, r, caller, links)
}
