// Package modules holds the built-in rule modules. A module is deployed once
// and may serve many compliance engines; everything it remembers is keyed by
// engine address, and only an engine the module is bound to may configure it.
package modules

import (
	"context"
	"encoding/json"
	"fmt"

	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/tx"
)

// MethodBatch names the call that fans out into sub-calls.
const MethodBatch = "batch"

// MaxBatchCalls bounds the number of sub-calls in one batch.
const MaxBatchCalls = 50

var (
	ErrOnlyBoundEngine = dErrors.New(dErrors.CodeForbidden, "only a bound compliance engine may call this module")
	ErrAlreadyBound    = dErrors.New(dErrors.CodeConflict, "engine already bound to module")
	ErrNotBound        = dErrors.New(dErrors.CodeConflict, "engine not bound to module")
	ErrUnknownMethod   = dErrors.New(dErrors.CodeValidation, "module does not support this method")
	ErrInvalidArgs     = dErrors.New(dErrors.CodeValidation, "invalid call arguments")
	ErrNestedBatch     = dErrors.New(dErrors.CodeValidation, "batches cannot be nested")
	ErrBatchTooLarge   = dErrors.New(dErrors.CodeValidation, "batch exceeds the maximum number of calls")
)

// Engine is the view of a compliance engine a module gets during checks and
// hooks.
type Engine interface {
	Address() domain.Address
	CountryOf(holder domain.Address) (domain.Country, bool)
	BalanceOf(holder domain.Address) uint64
	TotalSupply() uint64
}

// Call is an encoded administrative call. A batch carries its sub-calls in
// Calls and no Args.
type Call struct {
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
	Calls  []Call          `json:"calls,omitempty"`
}

// NewCall encodes args into a Call.
func NewCall(method string, args any) (Call, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return Call{}, fmt.Errorf("encode %s args: %w", method, err)
	}
	return Call{Method: method, Args: raw}, nil
}

// Batch wraps calls into one batch call.
func Batch(calls ...Call) Call {
	return Call{Method: MethodBatch, Calls: calls}
}

func decodeArgs[T any](call Call) (T, error) {
	var args T
	if len(call.Args) == 0 {
		return args, fmt.Errorf("%s: %w", call.Method, ErrInvalidArgs)
	}
	if err := json.Unmarshal(call.Args, &args); err != nil {
		return args, fmt.Errorf("%s: %w: %v", call.Method, ErrInvalidArgs, err)
	}
	return args, nil
}

type applyFunc func(ctx context.Context, engine domain.Address, call Call) error

// binding tracks which engines a module serves and gates every
// administrative call on that set.
type binding struct {
	engines map[domain.Address]struct{}
}

func newBinding() binding {
	return binding{engines: make(map[domain.Address]struct{})}
}

// IsBound reports whether engine is currently bound.
func (b *binding) IsBound(engine domain.Address) bool {
	_, ok := b.engines[engine]
	return ok
}

func (b *binding) OnBind(ctx context.Context, eng Engine) error {
	if b.IsBound(eng.Address()) {
		return ErrAlreadyBound
	}
	tx.Put(ctx, b.engines, eng.Address(), struct{}{})
	return nil
}

// OnUnbind forgets the engine but keeps its configuration; a later rebind
// finds it unchanged.
func (b *binding) OnUnbind(ctx context.Context, eng Engine) error {
	if !b.IsBound(eng.Address()) {
		return ErrNotBound
	}
	tx.Delete(ctx, b.engines, eng.Address())
	return nil
}

// dispatch checks the caller once per call. A batch is checked again for
// every sub-call and applies inside one savepoint, so a rejected sub-call
// leaves none of the earlier ones behind.
func (b *binding) dispatch(ctx context.Context, caller domain.Address, call Call, apply applyFunc) error {
	if !b.IsBound(caller) {
		return ErrOnlyBoundEngine
	}
	if call.Method != MethodBatch {
		return apply(ctx, caller, call)
	}
	if len(call.Calls) == 0 {
		return fmt.Errorf("empty %s: %w", MethodBatch, ErrInvalidArgs)
	}
	if len(call.Calls) > MaxBatchCalls {
		return ErrBatchTooLarge
	}
	return tx.Savepoint(ctx, func(ctx context.Context) error {
		for i, sub := range call.Calls {
			if sub.Method == MethodBatch {
				return fmt.Errorf("call %d: %w", i, ErrNestedBatch)
			}
			if !b.IsBound(caller) {
				return fmt.Errorf("call %d: %w", i, ErrOnlyBoundEngine)
			}
			if err := apply(ctx, caller, sub); err != nil {
				return fmt.Errorf("call %d: %w", i, err)
			}
		}
		return nil
	})
}

// noHooks is embedded by modules that keep no transfer bookkeeping.
type noHooks struct{}

func (noHooks) Transferred(context.Context, Engine, domain.Address, domain.Address, uint64) error {
	return nil
}

func (noHooks) Minted(context.Context, Engine, domain.Address, uint64) error {
	return nil
}

func (noHooks) Burned(context.Context, Engine, domain.Address, uint64) error {
	return nil
}

// setFor returns m[engine], creating it inside the operation when missing.
func setFor[K comparable](ctx context.Context, m map[domain.Address]map[K]struct{}, engine domain.Address) map[K]struct{} {
	inner, ok := m[engine]
	if !ok {
		inner = make(map[K]struct{})
		tx.Put(ctx, m, engine, inner)
	}
	return inner
}
