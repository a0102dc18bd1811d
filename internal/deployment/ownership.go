package deployment

import (
	"context"
	"fmt"

	"assetgov/internal/capability"
	"assetgov/pkg/domain"
	"assetgov/pkg/platform/tx"
)

// ProposeOwner offers owner on component to newOwner. The capability moves
// only when newOwner accepts. A second proposal replaces the first.
func (c *Coordinator) ProposeOwner(ctx context.Context, caller, component, newOwner domain.Address) error {
	if err := c.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if !c.DeployedByCoordinator(component) {
		return fmt.Errorf("%s: %w", component, ErrNotDeployed)
	}
	if newOwner.IsZero() {
		return fmt.Errorf("new owner: %w", ErrZeroAddress)
	}
	tx.Put(ctx, c.pending, component, newOwner)
	return nil
}

// AcceptOwner completes a proposal. Every previous owner loses the
// capability.
func (c *Coordinator) AcceptOwner(ctx context.Context, caller, component domain.Address) error {
	proposed, ok := c.pending[component]
	if !ok {
		return fmt.Errorf("%s: %w", component, ErrNoPendingOwner)
	}
	if caller != proposed {
		return ErrNotPendingOwner
	}
	owner := capability.Owner(component)
	for _, holder := range c.auth.Holders(owner) {
		if holder != caller {
			c.auth.Revoke(ctx, holder, owner)
		}
	}
	c.auth.Grant(ctx, caller, owner)
	tx.Delete(ctx, c.pending, component)
	return nil
}

func (c *Coordinator) CancelOwnerProposal(ctx context.Context, caller, component domain.Address) error {
	if err := c.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if _, ok := c.pending[component]; !ok {
		return fmt.Errorf("%s: %w", component, ErrNoPendingOwner)
	}
	tx.Delete(ctx, c.pending, component)
	return nil
}

// PendingOwner returns the proposed owner of component, if any.
func (c *Coordinator) PendingOwner(component domain.Address) (domain.Address, bool) {
	owner, ok := c.pending[component]
	return owner, ok
}
