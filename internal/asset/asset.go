// Package asset is the permissioned ledger at the centre of a suite. Every
// mint and transfer is gated by the holder's eligibility and the compliance
// engine's verdict, and the engine is told about each change after it lands.
package asset

import (
	"context"
	"maps"

	"assetgov/internal/chain"
	"assetgov/internal/compliance"
	"assetgov/internal/eligibility"
	"assetgov/internal/indirection"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
)

var (
	ErrNotOwner            = dErrors.New(dErrors.CodeForbidden, "caller does not own the asset")
	ErrNotAgent            = dErrors.New(dErrors.CodeForbidden, "caller is not an agent of the asset")
	ErrPaused              = dErrors.New(dErrors.CodeConflict, "asset is paused")
	ErrZeroAmount          = dErrors.New(dErrors.CodeValidation, "amount must be positive")
	ErrZeroAddress         = dErrors.New(dErrors.CodeValidation, "address cannot be zero")
	ErrInsufficientBalance = dErrors.New(dErrors.CodeConflict, "insufficient balance")
	ErrSupplyOverflow      = dErrors.New(dErrors.CodeValidation, "amount overflows total supply")
	ErrNotEligible         = dErrors.New(dErrors.CodeForbidden, "receiver is not eligible")
	ErrComplianceDenied    = dErrors.New(dErrors.CodeForbidden, "transfer refused by compliance")
	ErrNotWired            = dErrors.New(dErrors.CodeInvariantViolation, "asset has no compliance engine or eligibility registry")
)

// Config names the asset. It is fixed at deployment.
type Config struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
}

// Code is the behaviour behind an asset front.
type Code interface {
	Mint(ctx context.Context, a *Asset, caller, to domain.Address, amount uint64) error
	Burn(ctx context.Context, a *Asset, caller, from domain.Address, amount uint64) error
	Transfer(ctx context.Context, a *Asset, caller, to domain.Address, amount uint64) error
	ForcedTransfer(ctx context.Context, a *Asset, caller, from, to domain.Address, amount uint64) error
	SetPaused(ctx context.Context, a *Asset, caller domain.Address, paused bool) error
	SetCompliance(ctx context.Context, a *Asset, caller, engine domain.Address) error
	SetEligibilityRegistry(ctx context.Context, a *Asset, caller, registry domain.Address) error
}

// Asset holds balances and the suite references. Behaviour is resolved
// through the front on every call.
type Asset struct {
	chain      *chain.Chain
	front      *indirection.Front
	config     Config
	paused     bool
	balances   map[domain.Address]uint64
	supply     uint64
	compliance domain.Address
	registry   domain.Address
}

func New(c *chain.Chain, front *indirection.Front, cfg Config) *Asset {
	return &Asset{
		chain:    c,
		front:    front,
		config:   cfg,
		balances: make(map[domain.Address]uint64),
	}
}

func (a *Asset) Front() *indirection.Front { return a.front }

func (a *Asset) Address() domain.Address { return a.front.Address() }

func (a *Asset) Config() Config { return a.config }

func (a *Asset) Paused() bool { return a.paused }

func (a *Asset) Compliance() domain.Address { return a.compliance }

func (a *Asset) EligibilityRegistry() domain.Address { return a.registry }

func (a *Asset) BalanceOf(holder domain.Address) uint64 { return a.balances[holder] }

func (a *Asset) TotalSupply() uint64 { return a.supply }

// Balances returns a copy of every non-zero balance.
func (a *Asset) Balances() map[domain.Address]uint64 { return maps.Clone(a.balances) }

// CountryOf reads the holder's jurisdiction from the eligibility registry.
func (a *Asset) CountryOf(holder domain.Address) (domain.Country, bool) {
	reg, err := a.eligibility()
	if err != nil {
		return 0, false
	}
	return reg.CountryOf(holder)
}

// Suite follows the asset's references to the other five components.
func (a *Asset) Suite() (domain.Suite, error) {
	if a.compliance.IsZero() || a.registry.IsZero() {
		return domain.Suite{}, ErrNotWired
	}
	reg, err := a.eligibility()
	if err != nil {
		return domain.Suite{}, err
	}
	links := reg.Links()
	return domain.Suite{
		Asset:               a.Address(),
		TopicList:           links.TopicList,
		IssuerList:          links.IssuerList,
		EligibilityStorage:  links.Storage,
		EligibilityRegistry: a.registry,
		Compliance:          a.compliance,
	}, nil
}

func (a *Asset) engine() (*compliance.Engine, error) {
	e, err := chain.Resolve[*compliance.Engine](a.chain, a.compliance)
	if err != nil {
		return nil, ErrNotWired
	}
	return e, nil
}

func (a *Asset) eligibility() (*eligibility.Registry, error) {
	r, err := chain.Resolve[*eligibility.Registry](a.chain, a.registry)
	if err != nil {
		return nil, ErrNotWired
	}
	return r, nil
}

func (a *Asset) code() (Code, error) {
	return indirection.Code[Code](a.front)
}

// Mint creates amount for to. Agents only.
func (a *Asset) Mint(ctx context.Context, caller, to domain.Address, amount uint64) error {
	code, err := a.code()
	if err != nil {
		return err
	}
	return code.Mint(ctx, a, caller, to, amount)
}

// Burn destroys amount held by from. Agents only.
func (a *Asset) Burn(ctx context.Context, caller, from domain.Address, amount uint64) error {
	code, err := a.code()
	if err != nil {
		return err
	}
	return code.Burn(ctx, a, caller, from, amount)
}

// Transfer moves amount from caller to to.
func (a *Asset) Transfer(ctx context.Context, caller, to domain.Address, amount uint64) error {
	code, err := a.code()
	if err != nil {
		return err
	}
	return code.Transfer(ctx, a, caller, to, amount)
}

// ForcedTransfer moves amount between holders on an agent's authority.
func (a *Asset) ForcedTransfer(ctx context.Context, caller, from, to domain.Address, amount uint64) error {
	code, err := a.code()
	if err != nil {
		return err
	}
	return code.ForcedTransfer(ctx, a, caller, from, to, amount)
}

func (a *Asset) SetPaused(ctx context.Context, caller domain.Address, paused bool) error {
	code, err := a.code()
	if err != nil {
		return err
	}
	return code.SetPaused(ctx, a, caller, paused)
}

func (a *Asset) SetCompliance(ctx context.Context, caller, engine domain.Address) error {
	code, err := a.code()
	if err != nil {
		return err
	}
	return code.SetCompliance(ctx, a, caller, engine)
}

func (a *Asset) SetEligibilityRegistry(ctx context.Context, caller, registry domain.Address) error {
	code, err := a.code()
	if err != nil {
		return err
	}
	return code.SetEligibilityRegistry(ctx, a, caller, registry)
}
