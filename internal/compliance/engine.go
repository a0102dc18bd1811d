// Package compliance holds the compliance engine: an ordered set of rule
// modules that must unanimously approve a transfer before the bound asset
// commits it, and that are notified after the asset commits.
package compliance

import (
	"context"
	"slices"

	"assetgov/internal/chain"
	"assetgov/internal/compliance/modules"
	"assetgov/internal/indirection"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
)

// MaxModules bounds the modules bound to one engine.
const MaxModules = 25

var (
	ErrNotOwner          = dErrors.New(dErrors.CodeForbidden, "caller does not own the compliance engine")
	ErrNotAsset          = dErrors.New(dErrors.CodeForbidden, "only the bound asset may notify the engine")
	ErrAlreadyBound      = dErrors.New(dErrors.CodeConflict, "module already bound")
	ErrNotBound          = dErrors.New(dErrors.CodeConflict, "module not bound")
	ErrTooManyModules    = dErrors.New(dErrors.CodeValidation, "engine cannot bind more modules")
	ErrModuleCannotBind  = dErrors.New(dErrors.CodeConflict, "module refuses to bind to this engine")
	ErrUnknownModule     = dErrors.New(dErrors.CodeNotFound, "no module deployed at address")
	ErrZeroAddress       = dErrors.New(dErrors.CodeValidation, "address cannot be zero")
	ErrAssetAlreadyBound = dErrors.New(dErrors.CodeConflict, "engine already serves an asset")
	ErrAssetNotBound     = dErrors.New(dErrors.CodeConflict, "asset is not bound to this engine")
)

// Module is a pluggable transfer rule. The built-in ones live in the modules
// package.
type Module interface {
	Name() string
	Shareable() bool
	CanBind(ctx context.Context, eng modules.Engine) bool
	IsBound(engine domain.Address) bool
	OnBind(ctx context.Context, eng modules.Engine) error
	OnUnbind(ctx context.Context, eng modules.Engine) error
	Check(ctx context.Context, eng modules.Engine, from, to domain.Address, amount uint64) bool
	Transferred(ctx context.Context, eng modules.Engine, from, to domain.Address, amount uint64) error
	Minted(ctx context.Context, eng modules.Engine, to domain.Address, amount uint64) error
	Burned(ctx context.Context, eng modules.Engine, from domain.Address, amount uint64) error
	Call(ctx context.Context, caller domain.Address, call modules.Call) error
	Settings(engine domain.Address) any
}

// Ledger is what the engine reads from the asset it serves.
type Ledger interface {
	BalanceOf(holder domain.Address) uint64
	TotalSupply() uint64
	CountryOf(holder domain.Address) (domain.Country, bool)
}

// Hook names a post-commit notification.
type Hook string

const (
	HookTransferred Hook = "transferred"
	HookMinted      Hook = "minted"
	HookBurned      Hook = "burned"
)

// Notification describes a committed balance change.
type Notification struct {
	Hook   Hook
	From   domain.Address
	To     domain.Address
	Amount uint64
}

// Verdict is the outcome of a transfer check. Allowed holds iff DeniedBy is
// empty.
type Verdict struct {
	Allowed  bool             `json:"allowed"`
	DeniedBy []domain.Address `json:"denied_by,omitempty"`
}

// Code is the compliance implementation an engine front resolves to. It
// operates on the engine's state; the engine itself only holds data.
type Code interface {
	BindModule(ctx context.Context, e *Engine, caller, module domain.Address) error
	UnbindModule(ctx context.Context, e *Engine, caller, module domain.Address) error
	BindAsset(ctx context.Context, e *Engine, caller, asset domain.Address) error
	UnbindAsset(ctx context.Context, e *Engine, caller, asset domain.Address) error
	Evaluate(ctx context.Context, e *Engine, from, to domain.Address, amount uint64) Verdict
	Notify(ctx context.Context, e *Engine, caller domain.Address, n Notification) error
	Forward(ctx context.Context, e *Engine, caller, module domain.Address, call modules.Call) error
}

// Engine is one deployed compliance instance.
type Engine struct {
	chain   *chain.Chain
	front   *indirection.Front
	modules []domain.Address
	asset   domain.Address
}

// NewEngine builds an engine behind front. The caller deploys it.
func NewEngine(c *chain.Chain, front *indirection.Front) *Engine {
	return &Engine{chain: c, front: front}
}

func (e *Engine) Front() *indirection.Front { return e.front }

func (e *Engine) Address() domain.Address { return e.front.Address() }

// Asset returns the asset this engine serves, zero when unbound.
func (e *Engine) Asset() domain.Address { return e.asset }

// Modules returns the bound modules in binding order.
func (e *Engine) Modules() []domain.Address { return slices.Clone(e.modules) }

func (e *Engine) IsModuleBound(module domain.Address) bool {
	return slices.Contains(e.modules, module)
}

func (e *Engine) ledger() (Ledger, bool) {
	if e.asset.IsZero() {
		return nil, false
	}
	l, err := chain.Resolve[Ledger](e.chain, e.asset)
	return l, err == nil
}

func (e *Engine) CountryOf(holder domain.Address) (domain.Country, bool) {
	l, ok := e.ledger()
	if !ok {
		return 0, false
	}
	return l.CountryOf(holder)
}

func (e *Engine) BalanceOf(holder domain.Address) uint64 {
	if l, ok := e.ledger(); ok {
		return l.BalanceOf(holder)
	}
	return 0
}

func (e *Engine) TotalSupply() uint64 {
	if l, ok := e.ledger(); ok {
		return l.TotalSupply()
	}
	return 0
}

func (e *Engine) code() (Code, error) {
	return indirection.Code[Code](e.front)
}

// BindModule appends module to the engine. Only the engine owner may bind.
func (e *Engine) BindModule(ctx context.Context, caller, module domain.Address) error {
	code, err := e.code()
	if err != nil {
		return err
	}
	return code.BindModule(ctx, e, caller, module)
}

// UnbindModule removes module. Its configuration for this engine stays with
// the module.
func (e *Engine) UnbindModule(ctx context.Context, caller, module domain.Address) error {
	code, err := e.code()
	if err != nil {
		return err
	}
	return code.UnbindModule(ctx, e, caller, module)
}

func (e *Engine) BindAsset(ctx context.Context, caller, asset domain.Address) error {
	code, err := e.code()
	if err != nil {
		return err
	}
	return code.BindAsset(ctx, e, caller, asset)
}

func (e *Engine) UnbindAsset(ctx context.Context, caller, asset domain.Address) error {
	code, err := e.code()
	if err != nil {
		return err
	}
	return code.UnbindAsset(ctx, e, caller, asset)
}

// CheckTransfer reports whether every bound module approves the transfer.
func (e *Engine) CheckTransfer(ctx context.Context, from, to domain.Address, amount uint64) (bool, error) {
	v, err := e.Evaluate(ctx, from, to, amount)
	if err != nil {
		return false, err
	}
	return v.Allowed, nil
}

// Evaluate is CheckTransfer with the denying modules named.
func (e *Engine) Evaluate(ctx context.Context, from, to domain.Address, amount uint64) (Verdict, error) {
	code, err := e.code()
	if err != nil {
		return Verdict{}, err
	}
	return code.Evaluate(ctx, e, from, to, amount), nil
}

// Transferred, Minted and Burned notify modules after the asset committed.
// Module failures never surface here; only a caller that is not the bound
// asset gets an error.
func (e *Engine) Transferred(ctx context.Context, caller, from, to domain.Address, amount uint64) error {
	return e.notify(ctx, caller, Notification{Hook: HookTransferred, From: from, To: to, Amount: amount})
}

func (e *Engine) Minted(ctx context.Context, caller, to domain.Address, amount uint64) error {
	return e.notify(ctx, caller, Notification{Hook: HookMinted, To: to, Amount: amount})
}

func (e *Engine) Burned(ctx context.Context, caller, from domain.Address, amount uint64) error {
	return e.notify(ctx, caller, Notification{Hook: HookBurned, From: from, Amount: amount})
}

func (e *Engine) notify(ctx context.Context, caller domain.Address, n Notification) error {
	code, err := e.code()
	if err != nil {
		return err
	}
	return code.Notify(ctx, e, caller, n)
}

// Forward relays an administrative call to a bound module with the engine as
// the caller.
func (e *Engine) Forward(ctx context.Context, caller, module domain.Address, call modules.Call) error {
	code, err := e.code()
	if err != nil {
		return err
	}
	return code.Forward(ctx, e, caller, module, call)
}

func (e *Engine) module(module domain.Address) (Module, error) {
	m, err := chain.Resolve[Module](e.chain, module)
	if err != nil {
		return nil, ErrUnknownModule
	}
	return m, nil
}
