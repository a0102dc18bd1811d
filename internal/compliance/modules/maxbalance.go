package modules

import (
	"context"
	"fmt"

	"assetgov/internal/capability"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/tx"
)

var (
	ErrPresetAfterBind     = dErrors.New(dErrors.CodeConflict, "presets are only accepted before the module is bound")
	ErrPresetCompleted     = dErrors.New(dErrors.CodeConflict, "preset already completed for this engine")
	ErrInsufficientBalance = dErrors.New(dErrors.CodeInvariantViolation, "tracked balance lower than the amount moved")
	ErrBalanceOverflow     = dErrors.New(dErrors.CodeInvariantViolation, "tracked balance overflows")
	ErrAlreadyExempt       = dErrors.New(dErrors.CodeConflict, "holder already exempt")
	ErrNotExempt           = dErrors.New(dErrors.CodeConflict, "holder is not exempt")
)

type maxArgs struct {
	Max uint64 `json:"max"`
}

type holderArgs struct {
	Holder domain.Address `json:"holder"`
}

// MaxBalanceSettings is the per-engine view of a MaxBalance module.
type MaxBalanceSettings struct {
	Max             uint64 `json:"max"`
	Exempt          int    `json:"exempt_holders"`
	Tracked         int    `json:"tracked_holders"`
	PresetCompleted bool   `json:"preset_completed"`
}

type balanceState struct {
	max      uint64
	balances map[domain.Address]uint64
	exempt   map[domain.Address]struct{}
	preset   bool
}

// MaxBalance caps how much of an asset one holder may own. It mirrors the
// asset's balances through the transfer hooks, so it can only be bound to an
// engine whose asset has no supply yet, or after the current balances were
// preset by the engine owner. A zero max means no cap.
type MaxBalance struct {
	binding
	auth  capability.Checker
	state map[domain.Address]*balanceState
}

func NewMaxBalance(auth capability.Checker) *MaxBalance {
	return &MaxBalance{
		binding: newBinding(),
		auth:    auth,
		state:   make(map[domain.Address]*balanceState),
	}
}

func (m *MaxBalance) Name() string { return "max_balance" }

func (m *MaxBalance) Shareable() bool { return false }

func (m *MaxBalance) CanBind(_ context.Context, eng Engine) bool {
	if eng.TotalSupply() == 0 {
		return true
	}
	st, ok := m.state[eng.Address()]
	return ok && st.preset
}

func (m *MaxBalance) stateFor(ctx context.Context, engine domain.Address) *balanceState {
	st, ok := m.state[engine]
	if !ok {
		st = &balanceState{
			balances: make(map[domain.Address]uint64),
			exempt:   make(map[domain.Address]struct{}),
		}
		tx.Put(ctx, m.state, engine, st)
	}
	return st
}

// IsExempt reports whether holder is exempt from the cap on engine.
func (m *MaxBalance) IsExempt(engine, holder domain.Address) bool {
	st, ok := m.state[engine]
	if !ok {
		return false
	}
	_, exempt := st.exempt[holder]
	return exempt
}

// Max returns the engine's cap, zero when unset.
func (m *MaxBalance) Max(engine domain.Address) uint64 {
	if st, ok := m.state[engine]; ok {
		return st.max
	}
	return 0
}

// BalanceOf returns the balance tracked for holder on engine.
func (m *MaxBalance) BalanceOf(engine, holder domain.Address) uint64 {
	if st, ok := m.state[engine]; ok {
		return st.balances[holder]
	}
	return 0
}

func (m *MaxBalance) Check(_ context.Context, eng Engine, _, to domain.Address, amount uint64) bool {
	st, ok := m.state[eng.Address()]
	if !ok || st.max == 0 || to.IsZero() {
		return true
	}
	if _, exempt := st.exempt[to]; exempt {
		return true
	}
	next := st.balances[to] + amount
	if next < amount {
		return false
	}
	return next <= st.max
}

func (m *MaxBalance) Transferred(ctx context.Context, eng Engine, from, to domain.Address, amount uint64) error {
	st := m.stateFor(ctx, eng.Address())
	if err := m.debit(ctx, st, from, amount); err != nil {
		return err
	}
	return m.credit(ctx, st, to, amount)
}

func (m *MaxBalance) Minted(ctx context.Context, eng Engine, to domain.Address, amount uint64) error {
	return m.credit(ctx, m.stateFor(ctx, eng.Address()), to, amount)
}

func (m *MaxBalance) Burned(ctx context.Context, eng Engine, from domain.Address, amount uint64) error {
	return m.debit(ctx, m.stateFor(ctx, eng.Address()), from, amount)
}

func (m *MaxBalance) credit(ctx context.Context, st *balanceState, holder domain.Address, amount uint64) error {
	next := st.balances[holder] + amount
	if next < amount {
		return fmt.Errorf("%s: %w", holder, ErrBalanceOverflow)
	}
	tx.Put(ctx, st.balances, holder, next)
	return nil
}

func (m *MaxBalance) debit(ctx context.Context, st *balanceState, holder domain.Address, amount uint64) error {
	current := st.balances[holder]
	if current < amount {
		return fmt.Errorf("%s: %w", holder, ErrInsufficientBalance)
	}
	if current == amount {
		tx.Delete(ctx, st.balances, holder)
		return nil
	}
	tx.Put(ctx, st.balances, holder, current-amount)
	return nil
}

// Call supports set_max_balance, add_exemption, remove_exemption and batch.
func (m *MaxBalance) Call(ctx context.Context, caller domain.Address, call Call) error {
	return m.dispatch(ctx, caller, call, func(ctx context.Context, engine domain.Address, call Call) error {
		switch call.Method {
		case "set_max_balance":
			args, err := decodeArgs[maxArgs](call)
			if err != nil {
				return err
			}
			tx.Set(ctx, &m.stateFor(ctx, engine).max, args.Max)
			return nil
		case "add_exemption":
			args, err := decodeArgs[holderArgs](call)
			if err != nil {
				return err
			}
			st := m.stateFor(ctx, engine)
			if _, ok := st.exempt[args.Holder]; ok {
				return fmt.Errorf("%s: %w", args.Holder, ErrAlreadyExempt)
			}
			tx.Put(ctx, st.exempt, args.Holder, struct{}{})
			return nil
		case "remove_exemption":
			args, err := decodeArgs[holderArgs](call)
			if err != nil {
				return err
			}
			st := m.stateFor(ctx, engine)
			if _, ok := st.exempt[args.Holder]; !ok {
				return fmt.Errorf("%s: %w", args.Holder, ErrNotExempt)
			}
			tx.Delete(ctx, st.exempt, args.Holder)
			return nil
		default:
			return fmt.Errorf("%s: %w", call.Method, ErrUnknownMethod)
		}
	})
}

// Preset records existing balances for an engine whose asset already has
// supply. Only the engine owner may preset, and only before binding.
func (m *MaxBalance) Preset(ctx context.Context, caller, engine domain.Address, balances map[domain.Address]uint64) error {
	if err := m.requirePresetable(ctx, caller, engine); err != nil {
		return err
	}
	st := m.stateFor(ctx, engine)
	for holder, amount := range balances {
		tx.Put(ctx, st.balances, holder, amount)
	}
	return nil
}

// CompletePreset allows the module to bind to engine despite existing supply.
func (m *MaxBalance) CompletePreset(ctx context.Context, caller, engine domain.Address) error {
	if err := m.requirePresetable(ctx, caller, engine); err != nil {
		return err
	}
	tx.Set(ctx, &m.stateFor(ctx, engine).preset, true)
	return nil
}

func (m *MaxBalance) requirePresetable(ctx context.Context, caller, engine domain.Address) error {
	if err := capability.Require(ctx, m.auth, caller, capability.Owner(engine)); err != nil {
		return err
	}
	if m.IsBound(engine) {
		return ErrPresetAfterBind
	}
	if st, ok := m.state[engine]; ok && st.preset {
		return ErrPresetCompleted
	}
	return nil
}

func (m *MaxBalance) Settings(engine domain.Address) any {
	st, ok := m.state[engine]
	if !ok {
		return MaxBalanceSettings{}
	}
	return MaxBalanceSettings{
		Max:             st.max,
		Exempt:          len(st.exempt),
		Tracked:         len(st.balances),
		PresetCompleted: st.preset,
	}
}
