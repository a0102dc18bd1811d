package eligibility

import (
	"context"
	"slices"

	"assetgov/internal/indirection"
	"assetgov/pkg/domain"
)

type identity struct {
	country domain.Country
	claims  map[Claim]struct{}
}

// Storage holds holder identities. Several registries may link to one
// storage and write to it; its own authority may differ from theirs.
type Storage struct {
	front      *indirection.Front
	linked     []domain.Address
	identities map[domain.Address]*identity
}

func NewStorage(front *indirection.Front) *Storage {
	return &Storage{front: front, identities: make(map[domain.Address]*identity)}
}

func (st *Storage) Front() *indirection.Front { return st.front }

func (st *Storage) Address() domain.Address { return st.front.Address() }

// LinkedRegistries returns the registries allowed to write, in link order.
func (st *Storage) LinkedRegistries() []domain.Address { return slices.Clone(st.linked) }

func (st *Storage) IsLinked(registry domain.Address) bool {
	return slices.Contains(st.linked, registry)
}

// Contains reports whether holder has an identity.
func (st *Storage) Contains(holder domain.Address) bool {
	_, ok := st.identities[holder]
	return ok
}

// CountryOf returns holder's jurisdiction.
func (st *Storage) CountryOf(holder domain.Address) (domain.Country, bool) {
	id, ok := st.identities[holder]
	if !ok {
		return 0, false
	}
	return id.country, true
}

// HasClaim reports whether holder carries claim.
func (st *Storage) HasClaim(holder domain.Address, claim Claim) bool {
	id, ok := st.identities[holder]
	if !ok {
		return false
	}
	_, has := id.claims[claim]
	return has
}

// Claims lists holder's claims ordered by topic then issuer.
func (st *Storage) Claims(holder domain.Address) []Claim {
	id, ok := st.identities[holder]
	if !ok {
		return nil
	}
	out := make([]Claim, 0, len(id.claims))
	for c := range id.claims {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Claim) int {
		if a.Topic != b.Topic {
			if a.Topic < b.Topic {
				return -1
			}
			return 1
		}
		return slices.Compare(a.Issuer[:], b.Issuer[:])
	})
	return out
}

func (st *Storage) code() (StorageCode, error) {
	return indirection.Code[StorageCode](st.front)
}

func (st *Storage) LinkRegistry(ctx context.Context, caller, registry domain.Address) error {
	code, err := st.code()
	if err != nil {
		return err
	}
	return code.LinkRegistry(ctx, st, caller, registry)
}

// UnlinkRegistry needs the same authorization as LinkRegistry.
func (st *Storage) UnlinkRegistry(ctx context.Context, caller, registry domain.Address) error {
	code, err := st.code()
	if err != nil {
		return err
	}
	return code.UnlinkRegistry(ctx, st, caller, registry)
}

func (st *Storage) PutIdentity(ctx context.Context, caller, holder domain.Address, country domain.Country) error {
	code, err := st.code()
	if err != nil {
		return err
	}
	return code.PutIdentity(ctx, st, caller, holder, country)
}

func (st *Storage) RemoveIdentity(ctx context.Context, caller, holder domain.Address) error {
	code, err := st.code()
	if err != nil {
		return err
	}
	return code.RemoveIdentity(ctx, st, caller, holder)
}

func (st *Storage) PutClaim(ctx context.Context, caller, holder domain.Address, claim Claim) error {
	code, err := st.code()
	if err != nil {
		return err
	}
	return code.PutClaim(ctx, st, caller, holder, claim)
}

func (st *Storage) DeleteClaim(ctx context.Context, caller, holder domain.Address, claim Claim) error {
	code, err := st.code()
	if err != nil {
		return err
	}
	return code.DeleteClaim(ctx, st, caller, holder, claim)
}
