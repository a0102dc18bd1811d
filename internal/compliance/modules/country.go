package modules

import (
	"context"
	"fmt"
	"slices"

	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/tx"
)

// MaxCountries bounds one engine's country list.
const MaxCountries = 195

var (
	ErrInvalidCountry   = dErrors.New(dErrors.CodeValidation, "invalid country code")
	ErrCountryListed    = dErrors.New(dErrors.CodeConflict, "country already listed")
	ErrCountryUnlisted  = dErrors.New(dErrors.CodeConflict, "country not listed")
	ErrTooManyCountries = dErrors.New(dErrors.CodeValidation, "country list is full")
)

type countryArgs struct {
	Country domain.Country `json:"country"`
}

// countryList is a per-engine set of jurisdictions.
type countryList struct {
	binding
	noHooks
	countries map[domain.Address]map[domain.Country]struct{}
}

func newCountryList() countryList {
	return countryList{
		binding:   newBinding(),
		countries: make(map[domain.Address]map[domain.Country]struct{}),
	}
}

func (l *countryList) Shareable() bool { return true }

func (l *countryList) CanBind(context.Context, Engine) bool { return true }

func (l *countryList) contains(engine domain.Address, c domain.Country) bool {
	_, ok := l.countries[engine][c]
	return ok
}

func (l *countryList) add(ctx context.Context, engine domain.Address, call Call) error {
	args, err := decodeArgs[countryArgs](call)
	if err != nil {
		return err
	}
	if !args.Country.Valid() {
		return fmt.Errorf("%d: %w", args.Country, ErrInvalidCountry)
	}
	set := setFor(ctx, l.countries, engine)
	if _, ok := set[args.Country]; ok {
		return fmt.Errorf("%s: %w", args.Country, ErrCountryListed)
	}
	if len(set) >= MaxCountries {
		return ErrTooManyCountries
	}
	tx.Put(ctx, set, args.Country, struct{}{})
	return nil
}

func (l *countryList) remove(ctx context.Context, engine domain.Address, call Call) error {
	args, err := decodeArgs[countryArgs](call)
	if err != nil {
		return err
	}
	if !l.contains(engine, args.Country) {
		return fmt.Errorf("%s: %w", args.Country, ErrCountryUnlisted)
	}
	tx.Delete(ctx, l.countries[engine], args.Country)
	return nil
}

func (l *countryList) list(engine domain.Address) []domain.Country {
	out := make([]domain.Country, 0, len(l.countries[engine]))
	for c := range l.countries[engine] {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// CountrySettings is the per-engine view of a country module.
type CountrySettings struct {
	Countries []domain.Country `json:"countries"`
}

// CountryAllow approves a transfer only when the receiver's jurisdiction is
// on the engine's allow-list. Receivers with no known jurisdiction are
// refused.
type CountryAllow struct {
	countryList
}

func NewCountryAllow() *CountryAllow {
	return &CountryAllow{countryList: newCountryList()}
}

func (m *CountryAllow) Name() string { return "country_allow" }

func (m *CountryAllow) Check(_ context.Context, eng Engine, _, to domain.Address, _ uint64) bool {
	country, ok := eng.CountryOf(to)
	if !ok {
		return false
	}
	return m.contains(eng.Address(), country)
}

// Call supports add_allowed_country, remove_allowed_country and batch.
func (m *CountryAllow) Call(ctx context.Context, caller domain.Address, call Call) error {
	return m.dispatch(ctx, caller, call, func(ctx context.Context, engine domain.Address, call Call) error {
		switch call.Method {
		case "add_allowed_country":
			return m.add(ctx, engine, call)
		case "remove_allowed_country":
			return m.remove(ctx, engine, call)
		default:
			return fmt.Errorf("%s: %w", call.Method, ErrUnknownMethod)
		}
	})
}

// Allowed lists the engine's allowed countries in ascending order.
func (m *CountryAllow) Allowed(engine domain.Address) []domain.Country {
	return m.list(engine)
}

func (m *CountryAllow) Settings(engine domain.Address) any {
	return CountrySettings{Countries: m.list(engine)}
}

// CountryRestrict refuses a transfer when the receiver's jurisdiction is on
// the engine's block-list.
type CountryRestrict struct {
	countryList
}

func NewCountryRestrict() *CountryRestrict {
	return &CountryRestrict{countryList: newCountryList()}
}

func (m *CountryRestrict) Name() string { return "country_restrict" }

func (m *CountryRestrict) Check(_ context.Context, eng Engine, _, to domain.Address, _ uint64) bool {
	country, ok := eng.CountryOf(to)
	if !ok {
		return true
	}
	return !m.contains(eng.Address(), country)
}

// Call supports add_country_restriction, remove_country_restriction and batch.
func (m *CountryRestrict) Call(ctx context.Context, caller domain.Address, call Call) error {
	return m.dispatch(ctx, caller, call, func(ctx context.Context, engine domain.Address, call Call) error {
		switch call.Method {
		case "add_country_restriction":
			return m.add(ctx, engine, call)
		case "remove_country_restriction":
			return m.remove(ctx, engine, call)
		default:
			return fmt.Errorf("%s: %w", call.Method, ErrUnknownMethod)
		}
	})
}

// Restricted lists the engine's blocked countries in ascending order.
func (m *CountryRestrict) Restricted(engine domain.Address) []domain.Country {
	return m.list(engine)
}

func (m *CountryRestrict) Settings(engine domain.Address) any {
	return CountrySettings{Countries: m.list(engine)}
}
