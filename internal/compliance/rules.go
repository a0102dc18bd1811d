package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"assetgov/internal/capability"
	"assetgov/internal/compliance/metrics"
	"assetgov/internal/compliance/modules"
	"assetgov/pkg/domain"
	"assetgov/pkg/platform/tx"
)

// Rules is the standard compliance implementation.
type Rules struct {
	auth    capability.Checker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type RulesOption func(*Rules)

func WithLogger(logger *slog.Logger) RulesOption {
	return func(r *Rules) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) RulesOption {
	return func(r *Rules) {
		r.metrics = m
	}
}

// NewRules constructs the implementation. Deploy it at the compliance slot of
// a bundle.
func NewRules(auth capability.Checker, opts ...RulesOption) *Rules {
	r := &Rules{auth: auth}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

func (r *Rules) requireOwner(ctx context.Context, e *Engine, caller domain.Address) error {
	if caller.IsZero() || !r.auth.HasCapability(ctx, caller, capability.Owner(e.Address())) {
		return ErrNotOwner
	}
	return nil
}

func (r *Rules) BindModule(ctx context.Context, e *Engine, caller, module domain.Address) error {
	if err := r.requireOwner(ctx, e, caller); err != nil {
		return err
	}
	if module.IsZero() {
		return ErrZeroAddress
	}
	if e.IsModuleBound(module) {
		return fmt.Errorf("%s: %w", module, ErrAlreadyBound)
	}
	if len(e.modules) >= MaxModules {
		return ErrTooManyModules
	}
	m, err := e.module(module)
	if err != nil {
		return fmt.Errorf("%s: %w", module, err)
	}
	if !m.Shareable() && !m.CanBind(ctx, e) {
		return fmt.Errorf("%s: %w", m.Name(), ErrModuleCannotBind)
	}
	if err := m.OnBind(ctx, e); err != nil {
		return fmt.Errorf("bind %s: %w", m.Name(), err)
	}
	tx.Set(ctx, &e.modules, append(slices.Clone(e.modules), module))
	return nil
}

func (r *Rules) UnbindModule(ctx context.Context, e *Engine, caller, module domain.Address) error {
	if err := r.requireOwner(ctx, e, caller); err != nil {
		return err
	}
	idx := slices.Index(e.modules, module)
	if idx < 0 {
		return fmt.Errorf("%s: %w", module, ErrNotBound)
	}
	m, err := e.module(module)
	if err != nil {
		return fmt.Errorf("%s: %w", module, err)
	}
	if err := m.OnUnbind(ctx, e); err != nil {
		return fmt.Errorf("unbind %s: %w", m.Name(), err)
	}
	tx.Set(ctx, &e.modules, slices.Delete(slices.Clone(e.modules), idx, idx+1))
	return nil
}

// BindAsset attaches the engine to an asset. The owner may bind at any time;
// an asset may bind itself only while the engine serves no asset.
func (r *Rules) BindAsset(ctx context.Context, e *Engine, caller, asset domain.Address) error {
	if asset.IsZero() {
		return ErrZeroAddress
	}
	if r.requireOwner(ctx, e, caller) != nil {
		if caller != asset {
			return ErrNotOwner
		}
		if !e.asset.IsZero() {
			return fmt.Errorf("%s: %w", e.asset, ErrAssetAlreadyBound)
		}
	}
	tx.Set(ctx, &e.asset, asset)
	return nil
}

func (r *Rules) UnbindAsset(ctx context.Context, e *Engine, caller, asset domain.Address) error {
	if caller != asset && r.requireOwner(ctx, e, caller) != nil {
		return ErrNotOwner
	}
	if asset.IsZero() || e.asset != asset {
		return fmt.Errorf("%s: %w", asset, ErrAssetNotBound)
	}
	tx.Set(ctx, &e.asset, domain.ZeroAddress)
	return nil
}

// Evaluate polls every bound module. The verdict is the conjunction of their
// answers; a module that cannot be resolved counts as a refusal.
func (r *Rules) Evaluate(ctx context.Context, e *Engine, from, to domain.Address, amount uint64) Verdict {
	v := Verdict{Allowed: true}
	for _, addr := range e.modules {
		m, err := e.module(addr)
		if err != nil || !m.Check(ctx, e, from, to, amount) {
			v.Allowed = false
			v.DeniedBy = append(v.DeniedBy, addr)
			if err == nil {
				r.metrics.IncModuleDenial(m.Name())
			}
		}
	}
	r.metrics.ObserveCheck(v.Allowed)
	return v
}

// Notify runs each module's hook in its own savepoint. A failing hook is
// undone and logged; it never fails the committed change.
func (r *Rules) Notify(ctx context.Context, e *Engine, caller domain.Address, n Notification) error {
	if e.asset.IsZero() || caller != e.asset {
		return ErrNotAsset
	}
	for _, addr := range e.modules {
		m, err := e.module(addr)
		if err != nil {
			r.hookFailed(ctx, e, addr.Hex(), n.Hook, err)
			continue
		}
		err = tx.Savepoint(ctx, func(ctx context.Context) error {
			switch n.Hook {
			case HookTransferred:
				return m.Transferred(ctx, e, n.From, n.To, n.Amount)
			case HookMinted:
				return m.Minted(ctx, e, n.To, n.Amount)
			case HookBurned:
				return m.Burned(ctx, e, n.From, n.Amount)
			default:
				return fmt.Errorf("unknown hook %q", n.Hook)
			}
		})
		if err != nil {
			r.hookFailed(ctx, e, m.Name(), n.Hook, err)
		}
	}
	return nil
}

func (r *Rules) hookFailed(ctx context.Context, e *Engine, module string, hook Hook, err error) {
	r.logger.WarnContext(ctx, "compliance hook failed",
		"engine", e.Address().Hex(),
		"module", module,
		"hook", string(hook),
		"error", err,
	)
	r.metrics.IncHookFailure(module, string(hook))
}

func (r *Rules) Forward(ctx context.Context, e *Engine, caller, module domain.Address, call modules.Call) error {
	if err := r.requireOwner(ctx, e, caller); err != nil {
		return err
	}
	if !e.IsModuleBound(module) {
		return fmt.Errorf("%s: %w", module, ErrNotBound)
	}
	m, err := e.module(module)
	if err != nil {
		return fmt.Errorf("%s: %w", module, err)
	}
	return m.Call(ctx, e.Address(), call)
}
