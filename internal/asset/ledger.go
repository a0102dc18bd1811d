package asset

import (
	"context"
	"fmt"

	"assetgov/internal/capability"
	"assetgov/internal/chain"
	"assetgov/internal/compliance"
	"assetgov/internal/eligibility"
	"assetgov/pkg/domain"
	"assetgov/pkg/platform/tx"
)

// Ledger is the standard asset behaviour. Deploy it at the asset slot of a
// bundle.
type Ledger struct {
	auth capability.Checker
}

func NewLedger(auth capability.Checker) *Ledger {
	return &Ledger{auth: auth}
}

var _ Code = (*Ledger)(nil)

func (l *Ledger) requireOwner(ctx context.Context, a *Asset, caller domain.Address) error {
	if caller.IsZero() || !l.auth.HasCapability(ctx, caller, capability.Owner(a.Address())) {
		return ErrNotOwner
	}
	return nil
}

func (l *Ledger) requireAgent(ctx context.Context, a *Asset, caller domain.Address) error {
	if caller.IsZero() || !l.auth.HasCapability(ctx, caller, capability.Agent(a.Address())) {
		return ErrNotAgent
	}
	return nil
}

// admit runs the receiving side of every incoming balance change: the
// receiver must be eligible and, unless skipCheck is set, the engine must
// approve.
func (l *Ledger) admit(ctx context.Context, a *Asset, from, to domain.Address, amount uint64, skipCheck bool) (*compliance.Engine, error) {
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	if to.IsZero() {
		return nil, ErrZeroAddress
	}
	reg, err := a.eligibility()
	if err != nil {
		return nil, err
	}
	engine, err := a.engine()
	if err != nil {
		return nil, err
	}
	if !reg.IsEligible(to) {
		return nil, fmt.Errorf("%s: %w", to, ErrNotEligible)
	}
	if skipCheck {
		return engine, nil
	}
	verdict, err := engine.Evaluate(ctx, from, to, amount)
	if err != nil {
		return nil, err
	}
	if !verdict.Allowed {
		return nil, fmt.Errorf("%w by %v", ErrComplianceDenied, verdict.DeniedBy)
	}
	return engine, nil
}

func (l *Ledger) Mint(ctx context.Context, a *Asset, caller, to domain.Address, amount uint64) error {
	if err := l.requireAgent(ctx, a, caller); err != nil {
		return err
	}
	engine, err := l.admit(ctx, a, domain.ZeroAddress, to, amount, false)
	if err != nil {
		return err
	}
	if a.supply+amount < a.supply {
		return ErrSupplyOverflow
	}
	tx.Set(ctx, &a.supply, a.supply+amount)
	tx.Put(ctx, a.balances, to, a.balances[to]+amount)
	return engine.Minted(ctx, a.Address(), to, amount)
}

// Burn is not subject to the compliance verdict; agents must be able to
// remove holdings from any holder. Modules still hear about it.
func (l *Ledger) Burn(ctx context.Context, a *Asset, caller, from domain.Address, amount uint64) error {
	if err := l.requireAgent(ctx, a, caller); err != nil {
		return err
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	if a.balances[from] < amount {
		return fmt.Errorf("%s: %w", from, ErrInsufficientBalance)
	}
	engine, err := a.engine()
	if err != nil {
		return err
	}
	tx.Set(ctx, &a.supply, a.supply-amount)
	l.debit(ctx, a, from, amount)
	return engine.Burned(ctx, a.Address(), from, amount)
}

func (l *Ledger) Transfer(ctx context.Context, a *Asset, caller, to domain.Address, amount uint64) error {
	if a.paused {
		return ErrPaused
	}
	if caller.IsZero() {
		return ErrZeroAddress
	}
	return l.move(ctx, a, caller, to, amount, false)
}

// ForcedTransfer skips the compliance verdict but not the receiver's
// eligibility.
func (l *Ledger) ForcedTransfer(ctx context.Context, a *Asset, caller, from, to domain.Address, amount uint64) error {
	if err := l.requireAgent(ctx, a, caller); err != nil {
		return err
	}
	return l.move(ctx, a, from, to, amount, true)
}

func (l *Ledger) move(ctx context.Context, a *Asset, from, to domain.Address, amount uint64, forced bool) error {
	if a.balances[from] < amount {
		return fmt.Errorf("%s: %w", from, ErrInsufficientBalance)
	}
	engine, err := l.admit(ctx, a, from, to, amount, forced)
	if err != nil {
		return err
	}
	l.debit(ctx, a, from, amount)
	tx.Put(ctx, a.balances, to, a.balances[to]+amount)
	return engine.Transferred(ctx, a.Address(), from, to, amount)
}

func (l *Ledger) debit(ctx context.Context, a *Asset, holder domain.Address, amount uint64) {
	if left := a.balances[holder] - amount; left > 0 {
		tx.Put(ctx, a.balances, holder, left)
		return
	}
	tx.Delete(ctx, a.balances, holder)
}

func (l *Ledger) SetPaused(ctx context.Context, a *Asset, caller domain.Address, paused bool) error {
	if err := l.requireAgent(ctx, a, caller); err != nil {
		return err
	}
	tx.Set(ctx, &a.paused, paused)
	return nil
}

// SetCompliance moves the asset to engine. The previous engine is released
// if it still serves this asset; the new one is bound unless its owner has
// already bound it here.
func (l *Ledger) SetCompliance(ctx context.Context, a *Asset, caller, engine domain.Address) error {
	if err := l.requireOwner(ctx, a, caller); err != nil {
		return err
	}
	if engine.IsZero() {
		return ErrZeroAddress
	}
	next, err := chain.Resolve[*compliance.Engine](a.chain, engine)
	if err != nil {
		return fmt.Errorf("compliance %s: %w", engine, err)
	}
	if prev, err := a.engine(); err == nil && prev.Asset() == a.Address() && prev.Address() != engine {
		if err := prev.UnbindAsset(ctx, a.Address(), a.Address()); err != nil {
			return err
		}
	}
	if next.Asset() != a.Address() {
		if err := next.BindAsset(ctx, a.Address(), a.Address()); err != nil {
			return err
		}
	}
	tx.Set(ctx, &a.compliance, engine)
	return nil
}

func (l *Ledger) SetEligibilityRegistry(ctx context.Context, a *Asset, caller, registry domain.Address) error {
	if err := l.requireOwner(ctx, a, caller); err != nil {
		return err
	}
	if registry.IsZero() {
		return ErrZeroAddress
	}
	if _, err := chain.Resolve[*eligibility.Registry](a.chain, registry); err != nil {
		return fmt.Errorf("eligibility registry %s: %w", registry, err)
	}
	tx.Set(ctx, &a.registry, registry)
	return nil
}
