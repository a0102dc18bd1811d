// Package indirection implements the per-component front. A front holds no
// behavior of its own: each call resolves authority -> active bundle -> slot
// -> implementation code, so upgrading a deployed component means repointing
// its authority or promoting a version, never redeploying it.
package indirection

import (
	"context"
	"fmt"

	"assetgov/internal/chain"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/tx"
)

var (
	ErrUnauthorized     = dErrors.New(dErrors.CodeForbidden, "caller is not the current authority")
	ErrZeroAddress      = dErrors.New(dErrors.CodeValidation, "authority cannot be the zero address")
	ErrInvalidAuthority = dErrors.New(dErrors.CodeValidation, "authority does not expose a complete active bundle")
	ErrNoImplementation = dErrors.New(dErrors.CodeInvariantViolation, "authority resolves no implementation for this component")
)

// BundleSource is anything that can act as an authority.
type BundleSource interface {
	ActiveBundle() (domain.Bundle, bool)
}

// Component is implemented by every deployed suite component.
type Component interface {
	Front() *Front
}

// Front is the indirection record of one deployed component.
type Front struct {
	chain     *chain.Chain
	address   domain.Address
	kind      domain.ComponentKind
	authority domain.Address
}

// NewFront validates the initial authority and builds a front. The front is
// not placed in the address space; the owning component does that.
func NewFront(c *chain.Chain, address domain.Address, kind domain.ComponentKind, authority domain.Address) (*Front, error) {
	f := &Front{chain: c, address: address, kind: kind}
	if err := f.validateTarget(authority); err != nil {
		return nil, err
	}
	f.authority = authority
	return f, nil
}

func (f *Front) Address() domain.Address { return f.address }

func (f *Front) Kind() domain.ComponentKind { return f.kind }

// Authority returns the registry currently resolving this component.
func (f *Front) Authority() domain.Address { return f.authority }

func (f *Front) String() string { return fmt.Sprintf("%s@%s", f.kind, f.address) }

// CheckSetAuthority reports whether SetAuthority would succeed, without
// changing anything.
func (f *Front) CheckSetAuthority(caller, newAuthority domain.Address) error {
	if caller != f.authority {
		return ErrUnauthorized
	}
	return f.validateTarget(newAuthority)
}

// SetAuthority repoints the front. Only the current authority may call it,
// and only towards an authority whose active bundle is complete.
func (f *Front) SetAuthority(ctx context.Context, caller, newAuthority domain.Address) error {
	if err := f.CheckSetAuthority(caller, newAuthority); err != nil {
		return err
	}
	tx.Set(ctx, &f.authority, newAuthority)
	return nil
}

// Implementation resolves the code address currently serving this component.
func (f *Front) Implementation() (domain.Address, error) {
	src, err := chain.Resolve[BundleSource](f.chain, f.authority)
	if err != nil {
		return domain.ZeroAddress, fmt.Errorf("%s: %w", f, ErrNoImplementation)
	}
	bundle, ok := src.ActiveBundle()
	if !ok {
		return domain.ZeroAddress, fmt.Errorf("%s: %w", f, ErrNoImplementation)
	}
	impl := bundle.Slot(f.kind)
	if impl.IsZero() {
		return domain.ZeroAddress, fmt.Errorf("%s: %w", f, ErrNoImplementation)
	}
	return impl, nil
}

func (f *Front) validateTarget(authority domain.Address) error {
	if authority.IsZero() {
		return ErrZeroAddress
	}
	src, err := chain.Resolve[BundleSource](f.chain, authority)
	if err != nil {
		return ErrInvalidAuthority
	}
	bundle, ok := src.ActiveBundle()
	if !ok || !bundle.Valid() {
		return ErrInvalidAuthority
	}
	return nil
}

// Code resolves the implementation behind f as T.
func Code[T any](f *Front) (T, error) {
	var zero T
	impl, err := f.Implementation()
	if err != nil {
		return zero, err
	}
	code, err := chain.Resolve[T](f.chain, impl)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", f, err)
	}
	return code, nil
}
