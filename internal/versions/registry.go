// Package versions holds the version registries: the insert-once map from
// version to implementation bundle, the active version pointer, auxiliary
// registries bootstrapped from the reference one, and suite authority migration.
//
// Registry methods assume they run inside a chain operation; the service
// package wraps them in chain.Execute.
package versions

import (
	"context"
	"errors"
	"fmt"

	"assetgov/internal/capability"
	"assetgov/internal/chain"
	"assetgov/internal/indirection"
	"assetgov/internal/versions/store"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/sentinel"
	"assetgov/pkg/platform/tx"
)

// BundleStore persists the insert-once version map of one registry.
type BundleStore interface {
	Insert(ctx context.Context, v domain.Version, b domain.Bundle) error
	Get(ctx context.Context, v domain.Version) (domain.Bundle, error)
	List(ctx context.Context) ([]store.Entry, error)
}

// SuiteSource is implemented by assets; it reports the suite they anchor.
type SuiteSource interface {
	Suite() (domain.Suite, error)
}

// ReferenceLocator is implemented by the deployment coordinator; it names the
// registry new suites are deployed against.
type ReferenceLocator interface {
	ReferenceRegistry() domain.Address
}

// Registry is one version registry, reference or auxiliary.
type Registry struct {
	chain     *chain.Chain
	auth      capability.Checker
	address   domain.Address
	reference bool
	bundles   BundleStore

	active       domain.Version
	activeBundle domain.Bundle
	hasActive    bool

	coordinator domain.Address
	factory     domain.Address
}

// NewRegistry builds a registry. Whether it is the reference is fixed here.
func NewRegistry(c *chain.Chain, auth capability.Checker, address domain.Address, reference bool, bundles BundleStore) *Registry {
	if bundles == nil {
		bundles = store.NewInMemory()
	}
	return &Registry{
		chain:     c,
		auth:      auth,
		address:   address,
		reference: reference,
		bundles:   bundles,
	}
}

func (r *Registry) Address() domain.Address     { return r.address }
func (r *Registry) IsReference() bool           { return r.reference }
func (r *Registry) Coordinator() domain.Address { return r.coordinator }
func (r *Registry) Factory() domain.Address     { return r.factory }

// ActiveVersion returns the active version, if one was ever promoted.
func (r *Registry) ActiveVersion() (domain.Version, bool) {
	return r.active, r.hasActive
}

// ActiveBundle returns the bundle of the active version.
func (r *Registry) ActiveBundle() (domain.Bundle, bool) {
	return r.activeBundle, r.hasActive
}

// Bundle returns the bundle recorded under v.
func (r *Registry) Bundle(ctx context.Context, v domain.Version) (domain.Bundle, error) {
	b, err := r.bundles.Get(ctx, v)
	if errors.Is(err, sentinel.ErrNotFound) {
		return domain.Bundle{}, fmt.Errorf("%s: %w", v, ErrUnknownVersion)
	}
	if err != nil {
		return domain.Bundle{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load bundle")
	}
	return b, nil
}

// Versions lists every recorded version in ascending order.
func (r *Registry) Versions(ctx context.Context) ([]store.Entry, error) {
	entries, err := r.bundles.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list bundles")
	}
	return entries, nil
}

// CurrentReference resolves the reference registry through the coordinator.
// A reference registry with no coordinator yet is its own reference.
func (r *Registry) CurrentReference() domain.Address {
	if !r.coordinator.IsZero() {
		if loc, err := chain.Resolve[ReferenceLocator](r.chain, r.coordinator); err == nil {
			if ref := loc.ReferenceRegistry(); !ref.IsZero() {
				return ref
			}
		}
	}
	if r.reference {
		return r.address
	}
	return domain.ZeroAddress
}

// AddVersion records b under v. Reference registry only.
func (r *Registry) AddVersion(ctx context.Context, caller domain.Address, v domain.Version, b domain.Bundle) error {
	if err := r.checkAdd(ctx, caller, v, b); err != nil {
		return err
	}
	return r.insert(ctx, v, b)
}

// Promote makes an already recorded version the active one.
func (r *Registry) Promote(ctx context.Context, caller domain.Address, v domain.Version) error {
	if err := r.requireAdmin(ctx, caller); err != nil {
		return err
	}
	b, err := r.Bundle(ctx, v)
	if err != nil {
		return err
	}
	if r.hasActive && r.active == v {
		return fmt.Errorf("%s: %w", v, ErrAlreadyActive)
	}
	r.activate(ctx, v, b)
	return nil
}

// AddAndPromote records and activates v as one administrative action.
func (r *Registry) AddAndPromote(ctx context.Context, caller domain.Address, v domain.Version, b domain.Bundle) error {
	if err := r.checkAdd(ctx, caller, v, b); err != nil {
		return err
	}
	if err := r.insert(ctx, v, b); err != nil {
		return err
	}
	r.activate(ctx, v, b)
	return nil
}

// Fetch copies the reference registry's bundle for v. Auxiliary registries
// only; each version can be fetched once.
func (r *Registry) Fetch(ctx context.Context, v domain.Version) (domain.Bundle, error) {
	if r.reference {
		return domain.Bundle{}, ErrIsReference
	}
	if _, err := r.bundles.Get(ctx, v); err == nil {
		return domain.Bundle{}, fmt.Errorf("%s: %w", v, ErrAlreadyFetched)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return domain.Bundle{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load bundle")
	}

	ref, err := r.referenceRegistry()
	if err != nil {
		return domain.Bundle{}, err
	}
	b, err := ref.Bundle(ctx, v)
	if err != nil {
		return domain.Bundle{}, err
	}
	if err := r.insert(ctx, v, b); err != nil {
		return domain.Bundle{}, err
	}
	return b, nil
}

// SetCoordinator records the coordinator the reference registry serves. The
// coordinator must already name this registry as its reference.
func (r *Registry) SetCoordinator(ctx context.Context, caller, coordinator domain.Address) error {
	if err := r.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if !r.reference {
		return ErrNotReference
	}
	if coordinator.IsZero() {
		return ErrZeroAddress
	}
	loc, err := chain.Resolve[ReferenceLocator](r.chain, coordinator)
	if err != nil || loc.ReferenceRegistry() != r.address {
		return ErrCoordinatorTarget
	}
	tx.Set(ctx, &r.coordinator, coordinator)
	return nil
}

// SetFactory records the auxiliary factory. Reference registry only.
func (r *Registry) SetFactory(ctx context.Context, caller, factory domain.Address) error {
	if err := r.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if !r.reference {
		return ErrNotReference
	}
	if factory.IsZero() {
		return ErrZeroAddress
	}
	if _, err := chain.Resolve[*Factory](r.chain, factory); err != nil {
		return fmt.Errorf("factory %s: %w", factory, ErrNoFactory)
	}
	tx.Set(ctx, &r.factory, factory)
	return nil
}

// MigrateSuite repoints every component of asset's suite to newAuthority and
// returns the authority actually used. A zero newAuthority asks the reference
// registry to derive a fresh auxiliary registry administered by caller.
//
// All preconditions, including each front's own repoint checks, are verified
// before the first pointer moves. The shared storage component moves only if
// it still points at this registry.
func (r *Registry) MigrateSuite(ctx context.Context, caller, asset, newAuthority domain.Address) (domain.Address, error) {
	if asset.IsZero() {
		return domain.ZeroAddress, ErrZeroAddress
	}
	fronts, err := r.suiteFronts(asset)
	if err != nil {
		return domain.ZeroAddress, err
	}
	for _, f := range fronts {
		if !r.auth.HasCapability(ctx, caller, capability.Owner(f.Address())) {
			return domain.ZeroAddress, fmt.Errorf("%s: %w", f, ErrNotSuiteOwner)
		}
	}

	if newAuthority.IsZero() {
		if !r.reference {
			return domain.ZeroAddress, ErrNotReference
		}
		factory, err := chain.Resolve[*Factory](r.chain, r.factory)
		if err != nil {
			return domain.ZeroAddress, ErrNoFactory
		}
		newAuthority, err = factory.Deploy(ctx, r.address, caller)
		if err != nil {
			return domain.ZeroAddress, err
		}
	} else if err := r.checkTarget(newAuthority); err != nil {
		return domain.ZeroAddress, err
	}

	repoint := make([]*indirection.Front, 0, len(fronts))
	for _, f := range fronts {
		if f.Kind() == domain.KindEligibilityStorage && f.Authority() != r.address {
			continue
		}
		if err := f.CheckSetAuthority(r.address, newAuthority); err != nil {
			return domain.ZeroAddress, fmt.Errorf("%s: %w", f, err)
		}
		repoint = append(repoint, f)
	}
	for _, f := range repoint {
		if err := f.SetAuthority(ctx, r.address, newAuthority); err != nil {
			return domain.ZeroAddress, fmt.Errorf("%s: %w", f, err)
		}
	}
	return newAuthority, nil
}

func (r *Registry) checkTarget(target domain.Address) error {
	reg, err := chain.Resolve[*Registry](r.chain, target)
	if err != nil {
		return fmt.Errorf("%s: %w", target, ErrInvalidAuthority)
	}
	mine, ok := r.ActiveVersion()
	if !ok {
		return ErrNoActiveVersion
	}
	theirs, ok := reg.ActiveVersion()
	if !ok || theirs.Key() != mine.Key() {
		return ErrVersionMismatch
	}
	ref := r.CurrentReference()
	if reg.reference && target != ref {
		return ErrReferenceTarget
	}
	if target != ref && !r.deployedByFactory(target) {
		return fmt.Errorf("%s: %w", target, ErrInvalidAuthority)
	}
	return nil
}

func (r *Registry) deployedByFactory(addr domain.Address) bool {
	if r.factory.IsZero() {
		return false
	}
	f, err := chain.Resolve[*Factory](r.chain, r.factory)
	if err != nil {
		return false
	}
	return f.DeployedByFactory(addr)
}

func (r *Registry) suiteFronts(asset domain.Address) ([]*indirection.Front, error) {
	src, err := chain.Resolve[SuiteSource](r.chain, asset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", asset, ErrUnknownAsset)
	}
	suite, err := src.Suite()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", asset, err)
	}
	fronts := make([]*indirection.Front, 0, len(domain.ComponentKinds))
	for _, kind := range domain.ComponentKinds {
		comp, err := chain.Resolve[indirection.Component](r.chain, suite.Component(kind))
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", kind, suite.Component(kind), ErrUnknownAsset)
		}
		fronts = append(fronts, comp.Front())
	}
	return fronts, nil
}

func (r *Registry) referenceRegistry() (*Registry, error) {
	addr := r.CurrentReference()
	if addr.IsZero() {
		return nil, ErrNoReference
	}
	ref, err := chain.Resolve[*Registry](r.chain, addr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", addr, ErrNoReference)
	}
	return ref, nil
}

func (r *Registry) checkAdd(ctx context.Context, caller domain.Address, v domain.Version, b domain.Bundle) error {
	if err := r.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if !r.reference {
		return ErrNotReference
	}
	if _, err := r.bundles.Get(ctx, v); err == nil {
		return fmt.Errorf("%s: %w", v, ErrDuplicateVersion)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load bundle")
	}
	if !b.Valid() {
		return fmt.Errorf("missing %v: %w", b.MissingSlots(), ErrIncompleteBundle)
	}
	return nil
}

func (r *Registry) insert(ctx context.Context, v domain.Version, b domain.Bundle) error {
	err := r.bundles.Insert(ctx, v, b)
	if errors.Is(err, sentinel.ErrAlreadyUsed) {
		return fmt.Errorf("%s: %w", v, ErrDuplicateVersion)
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store bundle")
	}
	return nil
}

func (r *Registry) activate(ctx context.Context, v domain.Version, b domain.Bundle) {
	tx.Set(ctx, &r.active, v)
	tx.Set(ctx, &r.activeBundle, b)
	tx.Set(ctx, &r.hasActive, true)
}

func (r *Registry) requireAdmin(ctx context.Context, caller domain.Address) error {
	if err := capability.Require(ctx, r.auth, caller, capability.Admin(r.address)); err != nil {
		return ErrUnauthorized
	}
	return nil
}
