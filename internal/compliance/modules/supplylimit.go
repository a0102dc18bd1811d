package modules

import (
	"context"
	"fmt"

	"assetgov/pkg/domain"
	"assetgov/pkg/platform/tx"
)

type limitArgs struct {
	Limit uint64 `json:"limit"`
}

// SupplyLimitSettings is the per-engine view of a SupplyLimit module.
type SupplyLimitSettings struct {
	Limit uint64 `json:"limit"`
}

// SupplyLimit refuses mints that would push total supply past the engine's
// limit. A zero limit means no cap.
type SupplyLimit struct {
	binding
	noHooks
	limits map[domain.Address]uint64
}

func NewSupplyLimit() *SupplyLimit {
	return &SupplyLimit{
		binding: newBinding(),
		limits:  make(map[domain.Address]uint64),
	}
}

func (m *SupplyLimit) Name() string { return "supply_limit" }

func (m *SupplyLimit) Shareable() bool { return true }

func (m *SupplyLimit) CanBind(context.Context, Engine) bool { return true }

// Limit returns the engine's supply cap.
func (m *SupplyLimit) Limit(engine domain.Address) uint64 {
	return m.limits[engine]
}

func (m *SupplyLimit) Check(_ context.Context, eng Engine, from, _ domain.Address, amount uint64) bool {
	limit := m.limits[eng.Address()]
	if limit == 0 || !from.IsZero() {
		return true
	}
	supply := eng.TotalSupply()
	return supply+amount >= supply && supply+amount <= limit
}

// Call supports set_supply_limit and batch.
func (m *SupplyLimit) Call(ctx context.Context, caller domain.Address, call Call) error {
	return m.dispatch(ctx, caller, call, func(ctx context.Context, engine domain.Address, call Call) error {
		if call.Method != "set_supply_limit" {
			return fmt.Errorf("%s: %w", call.Method, ErrUnknownMethod)
		}
		args, err := decodeArgs[limitArgs](call)
		if err != nil {
			return err
		}
		tx.Put(ctx, m.limits, engine, args.Limit)
		return nil
	})
}

func (m *SupplyLimit) Settings(engine domain.Address) any {
	return SupplyLimitSettings{Limit: m.limits[engine]}
}
