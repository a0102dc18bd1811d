// Package capability answers "does principal P hold capability C". Every
// authorization decision in the system reduces to HasCapability calls.
package capability

import (
	"context"
	"sort"
	"sync"

	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/tx"
)

// Role is the kind of right a capability grants over a resource.
type Role string

const (
	// RoleAdmin administers registries and coordinators.
	RoleAdmin Role = "admin"
	// RoleOwner owns a deployed component.
	RoleOwner Role = "owner"
	// RoleAgent performs day-to-day actions (registering holders, minting).
	RoleAgent Role = "agent"
)

// Capability is a role scoped to one resource address.
type Capability struct {
	Role     Role
	Resource domain.Address
}

func Admin(resource domain.Address) Capability { return Capability{Role: RoleAdmin, Resource: resource} }
func Owner(resource domain.Address) Capability { return Capability{Role: RoleOwner, Resource: resource} }
func Agent(resource domain.Address) Capability { return Capability{Role: RoleAgent, Resource: resource} }

// ErrMissingCapability is returned by Require.
var ErrMissingCapability = dErrors.New(dErrors.CodeForbidden, "caller lacks the required capability")

// Checker answers capability queries.
type Checker interface {
	HasCapability(ctx context.Context, principal domain.Address, c Capability) bool
}

// Authority can also hand out and withdraw capabilities.
type Authority interface {
	Checker
	Grant(ctx context.Context, principal domain.Address, c Capability)
	Revoke(ctx context.Context, principal domain.Address, c Capability)
	Holders(c Capability) []domain.Address
}

// Require returns ErrMissingCapability unless principal holds c.
func Require(ctx context.Context, checker Checker, principal domain.Address, c Capability) error {
	if principal.IsZero() || !checker.HasCapability(ctx, principal, c) {
		return ErrMissingCapability
	}
	return nil
}

// Table is the in-process Authority. Grants and revocations made inside an
// operation are journaled and disappear if the operation reverts.
type Table struct {
	mu     sync.RWMutex
	grants map[Capability]map[domain.Address]struct{}
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{grants: make(map[Capability]map[domain.Address]struct{})}
}

func (t *Table) HasCapability(_ context.Context, principal domain.Address, c Capability) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.grants[c][principal]
	return ok
}

func (t *Table) Grant(ctx context.Context, principal domain.Address, c Capability) {
	t.mu.Lock()
	defer t.mu.Unlock()
	holders, ok := t.grants[c]
	if !ok {
		holders = make(map[domain.Address]struct{})
		t.grants[c] = holders
	}
	if _, held := holders[principal]; held {
		return
	}
	holders[principal] = struct{}{}
	tx.Record(ctx, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.grants[c], principal)
	})
}

func (t *Table) Revoke(ctx context.Context, principal domain.Address, c Capability) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, held := t.grants[c][principal]; !held {
		return
	}
	delete(t.grants[c], principal)
	tx.Record(ctx, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.grants[c] == nil {
			t.grants[c] = make(map[domain.Address]struct{})
		}
		t.grants[c][principal] = struct{}{}
	})
}

// Holders lists principals holding c in byte order.
func (t *Table) Holders(c Capability) []domain.Address {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.Address, 0, len(t.grants[c]))
	for p := range t.grants[c] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return string(out[i][:]) < string(out[j][:]) })
	return out
}
