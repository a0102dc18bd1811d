package eligibility

import (
	"context"
	"fmt"
	"slices"

	"assetgov/internal/capability"
	"assetgov/pkg/domain"
	"assetgov/pkg/platform/tx"
)

// Logic is the standard eligibility behaviour. One value serves all four
// eligibility kinds; deploy it at each of their bundle slots.
type Logic struct {
	auth capability.Checker
}

func NewLogic(auth capability.Checker) *Logic {
	return &Logic{auth: auth}
}

var (
	_ TopicListCode  = (*Logic)(nil)
	_ IssuerListCode = (*Logic)(nil)
	_ StorageCode    = (*Logic)(nil)
	_ RegistryCode   = (*Logic)(nil)
)

func (l *Logic) requireOwner(ctx context.Context, resource, caller domain.Address) error {
	if caller.IsZero() || !l.auth.HasCapability(ctx, caller, capability.Owner(resource)) {
		return ErrNotOwner
	}
	return nil
}

// Registry agents are either explicit agents or the registry's owner.
func (l *Logic) requireAgent(ctx context.Context, r *Registry, caller domain.Address) error {
	if caller.IsZero() {
		return ErrNotAgent
	}
	if l.auth.HasCapability(ctx, caller, capability.Agent(r.Address())) ||
		l.auth.HasCapability(ctx, caller, capability.Owner(r.Address())) {
		return nil
	}
	return ErrNotAgent
}

func (l *Logic) AddTopic(ctx context.Context, tl *TopicList, caller domain.Address, topic uint64) error {
	if err := l.requireOwner(ctx, tl.Address(), caller); err != nil {
		return err
	}
	if slices.Contains(tl.topics, topic) {
		return fmt.Errorf("topic %d: %w", topic, ErrTopicExists)
	}
	if len(tl.topics) >= MaxTopics {
		return ErrTooManyTopics
	}
	tx.Set(ctx, &tl.topics, append(slices.Clone(tl.topics), topic))
	return nil
}

func (l *Logic) RemoveTopic(ctx context.Context, tl *TopicList, caller domain.Address, topic uint64) error {
	if err := l.requireOwner(ctx, tl.Address(), caller); err != nil {
		return err
	}
	i := slices.Index(tl.topics, topic)
	if i < 0 {
		return fmt.Errorf("topic %d: %w", topic, ErrTopicMissing)
	}
	tx.Set(ctx, &tl.topics, slices.Delete(slices.Clone(tl.topics), i, i+1))
	return nil
}

// AddIssuer trusts issuer for topics, replacing its topics if it is already
// trusted.
func (l *Logic) AddIssuer(ctx context.Context, il *IssuerList, caller, issuer domain.Address, topics []uint64) error {
	if err := l.requireOwner(ctx, il.Address(), caller); err != nil {
		return err
	}
	if issuer.IsZero() {
		return ErrZeroAddress
	}
	if len(topics) == 0 {
		return ErrNoIssuerTopics
	}
	topics = slices.Compact(slices.Sorted(slices.Values(topics)))
	if len(topics) > MaxTopics {
		return ErrTooManyTopics
	}
	if _, ok := il.issuers[issuer]; !ok {
		if len(il.order) >= MaxIssuers {
			return ErrTooManyIssuers
		}
		tx.Set(ctx, &il.order, append(slices.Clone(il.order), issuer))
	}
	tx.Put(ctx, il.issuers, issuer, topics)
	return nil
}

func (l *Logic) RemoveIssuer(ctx context.Context, il *IssuerList, caller, issuer domain.Address) error {
	if err := l.requireOwner(ctx, il.Address(), caller); err != nil {
		return err
	}
	if _, ok := il.issuers[issuer]; !ok {
		return fmt.Errorf("%s: %w", issuer, ErrIssuerMissing)
	}
	i := slices.Index(il.order, issuer)
	tx.Set(ctx, &il.order, slices.Delete(slices.Clone(il.order), i, i+1))
	tx.Delete(ctx, il.issuers, issuer)
	return nil
}

func (l *Logic) LinkRegistry(ctx context.Context, st *Storage, caller, registry domain.Address) error {
	if err := l.requireOwner(ctx, st.Address(), caller); err != nil {
		return err
	}
	if registry.IsZero() {
		return ErrZeroAddress
	}
	if st.IsLinked(registry) {
		return fmt.Errorf("%s: %w", registry, ErrAlreadyLinked)
	}
	if len(st.linked) >= MaxLinkedRegistries {
		return ErrTooManyLinkedRegistries
	}
	tx.Set(ctx, &st.linked, append(slices.Clone(st.linked), registry))
	return nil
}

func (l *Logic) UnlinkRegistry(ctx context.Context, st *Storage, caller, registry domain.Address) error {
	if err := l.requireOwner(ctx, st.Address(), caller); err != nil {
		return err
	}
	i := slices.Index(st.linked, registry)
	if i < 0 {
		return fmt.Errorf("%s: %w", registry, ErrNotLinked)
	}
	tx.Set(ctx, &st.linked, slices.Delete(slices.Clone(st.linked), i, i+1))
	return nil
}

func (l *Logic) requireLinked(st *Storage, caller domain.Address) error {
	if !st.IsLinked(caller) {
		return ErrNotLinked
	}
	return nil
}

// PutIdentity registers holder or moves it to country.
func (l *Logic) PutIdentity(ctx context.Context, st *Storage, caller, holder domain.Address, country domain.Country) error {
	if err := l.requireLinked(st, caller); err != nil {
		return err
	}
	if holder.IsZero() {
		return ErrZeroAddress
	}
	if !country.Valid() {
		return ErrInvalidCountry
	}
	if id, ok := st.identities[holder]; ok {
		tx.Set(ctx, &id.country, country)
		return nil
	}
	tx.Put(ctx, st.identities, holder, &identity{country: country, claims: make(map[Claim]struct{})})
	return nil
}

func (l *Logic) RemoveIdentity(ctx context.Context, st *Storage, caller, holder domain.Address) error {
	if err := l.requireLinked(st, caller); err != nil {
		return err
	}
	if !st.Contains(holder) {
		return fmt.Errorf("%s: %w", holder, ErrHolderMissing)
	}
	tx.Delete(ctx, st.identities, holder)
	return nil
}

func (l *Logic) PutClaim(ctx context.Context, st *Storage, caller, holder domain.Address, claim Claim) error {
	if err := l.requireLinked(st, caller); err != nil {
		return err
	}
	id, ok := st.identities[holder]
	if !ok {
		return fmt.Errorf("%s: %w", holder, ErrHolderMissing)
	}
	tx.Put(ctx, id.claims, claim, struct{}{})
	return nil
}

func (l *Logic) DeleteClaim(ctx context.Context, st *Storage, caller, holder domain.Address, claim Claim) error {
	if err := l.requireLinked(st, caller); err != nil {
		return err
	}
	if !st.HasClaim(holder, claim) {
		return ErrClaimMissing
	}
	tx.Delete(ctx, st.identities[holder].claims, claim)
	return nil
}

func (l *Logic) RegisterHolder(ctx context.Context, r *Registry, caller, holder domain.Address, country domain.Country) error {
	if err := l.requireAgent(ctx, r, caller); err != nil {
		return err
	}
	st, _, _, err := r.resolve()
	if err != nil {
		return err
	}
	if st.Contains(holder) {
		return fmt.Errorf("%s: %w", holder, ErrHolderExists)
	}
	return st.PutIdentity(ctx, r.Address(), holder, country)
}

func (l *Logic) UpdateCountry(ctx context.Context, r *Registry, caller, holder domain.Address, country domain.Country) error {
	if err := l.requireAgent(ctx, r, caller); err != nil {
		return err
	}
	st, _, _, err := r.resolve()
	if err != nil {
		return err
	}
	if !st.Contains(holder) {
		return fmt.Errorf("%s: %w", holder, ErrHolderMissing)
	}
	return st.PutIdentity(ctx, r.Address(), holder, country)
}

func (l *Logic) DeleteHolder(ctx context.Context, r *Registry, caller, holder domain.Address) error {
	if err := l.requireAgent(ctx, r, caller); err != nil {
		return err
	}
	st, _, _, err := r.resolve()
	if err != nil {
		return err
	}
	return st.RemoveIdentity(ctx, r.Address(), holder)
}

func (l *Logic) AddClaim(ctx context.Context, r *Registry, caller, holder domain.Address, topic uint64) error {
	st, _, issuers, err := r.resolve()
	if err != nil {
		return err
	}
	if !issuers.IsTrusted(caller, topic) {
		return fmt.Errorf("topic %d: %w", topic, ErrUntrustedIssuer)
	}
	return st.PutClaim(ctx, r.Address(), holder, Claim{Topic: topic, Issuer: caller})
}

// RemoveClaim is open to the issuer that made the claim and to agents.
func (l *Logic) RemoveClaim(ctx context.Context, r *Registry, caller, holder domain.Address, claim Claim) error {
	if caller != claim.Issuer {
		if err := l.requireAgent(ctx, r, caller); err != nil {
			return err
		}
	}
	st, _, _, err := r.resolve()
	if err != nil {
		return err
	}
	return st.DeleteClaim(ctx, r.Address(), holder, claim)
}

func (l *Logic) Wire(ctx context.Context, r *Registry, caller domain.Address, links Links) error {
	if err := l.requireOwner(ctx, r.Address(), caller); err != nil {
		return err
	}
	if !links.Storage.IsZero() {
		tx.Set(ctx, &r.storage, links.Storage)
	}
	if !links.TopicList.IsZero() {
		tx.Set(ctx, &r.topicList, links.TopicList)
	}
	if !links.IssuerList.IsZero() {
		tx.Set(ctx, &r.issuerList, links.IssuerList)
	}
	return nil
}

// IsEligible requires a registered holder carrying, for every required
// topic, a claim from an issuer the issuer list trusts for that topic.
func (l *Logic) IsEligible(r *Registry, holder domain.Address) bool {
	st, topics, issuers, err := r.resolve()
	if err != nil || !st.Contains(holder) {
		return false
	}
	claims := st.Claims(holder)
	for _, topic := range topics.Topics() {
		satisfied := slices.ContainsFunc(claims, func(c Claim) bool {
			return c.Topic == topic && issuers.IsTrusted(c.Issuer, topic)
		})
		if !satisfied {
			return false
		}
	}
	return true
}
