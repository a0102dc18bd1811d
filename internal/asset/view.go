package asset

import "assetgov/pkg/domain"

// View is a read-only snapshot of an asset.
type View struct {
	Address             domain.Address `json:"address"`
	Authority           domain.Address `json:"authority"`
	Config              Config         `json:"config"`
	Paused              bool           `json:"paused"`
	TotalSupply         uint64         `json:"total_supply"`
	Holders             int            `json:"holders"`
	Compliance          domain.Address `json:"compliance"`
	EligibilityRegistry domain.Address `json:"eligibility_registry"`
	Suite               *domain.Suite  `json:"suite,omitempty"`
}

// BalanceView is one holder's position.
type BalanceView struct {
	Asset    domain.Address `json:"asset"`
	Holder   domain.Address `json:"holder"`
	Balance  uint64         `json:"balance"`
	Eligible bool           `json:"eligible"`
}

// Snapshot builds a View of a. Suite is omitted until the asset is wired.
func (a *Asset) Snapshot() *View {
	v := &View{
		Address:             a.Address(),
		Authority:           a.front.Authority(),
		Config:              a.config,
		Paused:              a.paused,
		TotalSupply:         a.supply,
		Holders:             len(a.balances),
		Compliance:          a.compliance,
		EligibilityRegistry: a.registry,
	}
	if s, err := a.Suite(); err == nil {
		v.Suite = &s
	}
	return v
}

// Position describes holder's balance and eligibility.
func (a *Asset) Position(holder domain.Address) *BalanceView {
	bv := &BalanceView{Asset: a.Address(), Holder: holder, Balance: a.balances[holder]}
	if reg, err := a.eligibility(); err == nil {
		bv.Eligible = reg.IsEligible(holder)
	}
	return bv
}
