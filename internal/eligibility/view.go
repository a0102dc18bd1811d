package eligibility

import "assetgov/pkg/domain"

// IssuerView is one trusted issuer and the topics it may attest.
type IssuerView struct {
	Issuer domain.Address `json:"issuer"`
	Topics []uint64       `json:"topics"`
}

// View is a read-only snapshot of a registry and the lists it reads.
type View struct {
	Address   domain.Address `json:"address"`
	Authority domain.Address `json:"authority"`
	Links     Links          `json:"links"`
	Topics    []uint64       `json:"topics"`
	Issuers   []IssuerView   `json:"issuers"`
}

// HolderView is what a registry knows about one holder.
type HolderView struct {
	Holder     domain.Address `json:"holder"`
	Registered bool           `json:"registered"`
	Country    domain.Country `json:"country,omitempty"`
	Claims     []Claim        `json:"claims"`
	Eligible   bool           `json:"eligible"`
}

// Snapshot builds a View of r. Lists the registry cannot resolve are empty.
func (r *Registry) Snapshot() *View {
	v := &View{
		Address:   r.Address(),
		Authority: r.front.Authority(),
		Links:     r.Links(),
		Topics:    []uint64{},
		Issuers:   []IssuerView{},
	}
	_, topics, issuers, err := r.resolve()
	if err != nil {
		return v
	}
	v.Topics = topics.Topics()
	for _, addr := range issuers.Issuers() {
		v.Issuers = append(v.Issuers, IssuerView{Issuer: addr, Topics: issuers.TopicsOf(addr)})
	}
	return v
}

// Holder describes holder as seen through r.
func (r *Registry) Holder(holder domain.Address) *HolderView {
	hv := &HolderView{Holder: holder, Claims: []Claim{}}
	st, _, _, err := r.resolve()
	if err != nil {
		return hv
	}
	if country, ok := st.CountryOf(holder); ok {
		hv.Registered = true
		hv.Country = country
		hv.Claims = st.Claims(holder)
	}
	hv.Eligible = r.IsEligible(holder)
	return hv
}
