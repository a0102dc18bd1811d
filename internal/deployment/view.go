package deployment

import (
	"fmt"

	"assetgov/internal/capability"
	"assetgov/internal/chain"
	"assetgov/internal/indirection"
	"assetgov/pkg/domain"
)

// ComponentView describes one suite component and who controls it.
type ComponentView struct {
	Address        domain.Address       `json:"address"`
	Kind           domain.ComponentKind `json:"kind"`
	Authority      domain.Address       `json:"authority"`
	Implementation *domain.Address      `json:"implementation,omitempty"`
	Owners         []domain.Address     `json:"owners"`
	PendingOwner   *domain.Address      `json:"pending_owner,omitempty"`
	Coordinated    bool                 `json:"coordinated"`
}

// Component reads the front of any deployed suite component.
func (c *Coordinator) Component(addr domain.Address) (*ComponentView, error) {
	comp, err := chain.Resolve[indirection.Component](c.chain, addr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", addr, ErrUnknownComponent)
	}
	front := comp.Front()
	v := &ComponentView{
		Address:     addr,
		Kind:        front.Kind(),
		Authority:   front.Authority(),
		Owners:      c.auth.Holders(capability.Owner(addr)),
		Coordinated: c.DeployedByCoordinator(addr),
	}
	if impl, err := front.Implementation(); err == nil {
		v.Implementation = &impl
	}
	if owner, ok := c.PendingOwner(addr); ok {
		v.PendingOwner = &owner
	}
	return v, nil
}
