package deployment_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"assetgov/internal/asset"
	"assetgov/internal/capability"
	"assetgov/internal/chain"
	"assetgov/internal/compliance"
	"assetgov/internal/compliance/modules"
	"assetgov/internal/deployment"
	"assetgov/internal/eligibility"
	"assetgov/internal/genesis"
	"assetgov/internal/indirection"
	"assetgov/internal/versions"
	"assetgov/pkg/domain"
)

const kyc = uint64(7)

var (
	admin    = domain.NamedAddress("admin")
	owner    = domain.NamedAddress("owner")
	agent    = domain.NamedAddress("agent")
	issuer   = domain.NamedAddress("issuer")
	alice    = domain.NamedAddress("alice")
	mallory  = domain.NamedAddress("mallory")
	stranger = domain.NamedAddress("stranger")
)

// Justification: the coordinator is the only way suites come into existence.
// Tests pin address determinism, the validation order, all-or-nothing
// wiring, storage reuse and the ownership handover.
type CoordinatorSuite struct {
	suite.Suite
	ctx   context.Context
	chain *chain.Chain
	auth  *capability.Table
	net   *genesis.Network
	coord *deployment.Coordinator
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.chain = chain.New(chain.WithLogger(logger))
	s.auth = capability.NewTable()

	net, err := genesis.Apply(s.ctx, s.chain, s.auth, genesis.Default(admin), genesis.WithLogger(logger))
	s.Require().NoError(err)
	s.net = net
	s.coord, err = chain.Resolve[*deployment.Coordinator](s.chain, net.Coordinator)
	s.Require().NoError(err)
}

func (s *CoordinatorSuite) exec(fn func(ctx context.Context) error) error {
	return s.chain.Execute(s.ctx, fn)
}

func (s *CoordinatorSuite) deploy(key string, ac deployment.AssetConfig, ec deployment.EligibilityConfig) (domain.Suite, error) {
	var out domain.Suite
	err := s.exec(func(ctx context.Context) error {
		var err error
		out, err = s.coord.DeploySuite(ctx, admin, key, ac, ec)
		return err
	})
	return out, err
}

func (s *CoordinatorSuite) mustDeploy(key string, ac deployment.AssetConfig, ec deployment.EligibilityConfig) domain.Suite {
	out, err := s.deploy(key, ac, ec)
	s.Require().NoError(err)
	return out
}

func (s *CoordinatorSuite) module(name string) domain.Address {
	return s.net.Modules[name]
}

func (s *CoordinatorSuite) call(method string, args any) modules.Call {
	c, err := modules.NewCall(method, args)
	s.Require().NoError(err)
	return c
}

func assetConfig() deployment.AssetConfig {
	return deployment.AssetConfig{Owner: owner, Name: "Alpha", Symbol: "ALP", Decimals: 2}
}

func kycOnly() deployment.EligibilityConfig {
	return deployment.EligibilityConfig{
		Topics:       []uint64{kyc},
		Issuers:      []domain.Address{issuer},
		IssuerTopics: [][]uint64{{kyc}},
	}
}

func (s *CoordinatorSuite) assertNothingAt(addrs domain.Suite) {
	for _, addr := range addrs.Components() {
		s.False(s.chain.Exists(addr), "component left at %s", addr)
		s.False(s.coord.DeployedByCoordinator(addr))
	}
}

func (s *CoordinatorSuite) TestScenarioAlpha() {
	addr, err := s.coord.Asset(s.ctx, "alpha")
	s.Require().NoError(err)
	s.True(addr.IsZero())

	got := s.mustDeploy("alpha", assetConfig(), deployment.EligibilityConfig{})

	addr, err = s.coord.Asset(s.ctx, "alpha")
	s.Require().NoError(err)
	s.False(addr.IsZero())
	s.Equal(got.Asset, addr)

	_, err = s.deploy("alpha", assetConfig(), deployment.EligibilityConfig{})
	s.ErrorIs(err, deployment.ErrKeyAlreadyUsed)
}

func (s *CoordinatorSuite) TestDeterministicAddresses() {
	s.Run("same key same addresses on an independent substrate", func() {
		other := chain.New()
		net, err := genesis.Apply(s.ctx, other, capability.NewTable(), genesis.Default(admin))
		s.Require().NoError(err)
		twin, err := chain.Resolve[*deployment.Coordinator](other, net.Coordinator)
		s.Require().NoError(err)

		s.Equal(s.coord.SuiteAddresses("alpha"), twin.SuiteAddresses("alpha"))
	})

	s.Run("keys and kinds never share an address", func() {
		seen := make(map[domain.Address]string)
		for _, key := range []string{"alpha", "beta", "alph"} {
			for _, addr := range s.coord.SuiteAddresses(key).Components() {
				s.NotContains(seen, addr)
				seen[addr] = key
			}
		}
	})

	s.Run("deployment lands on the derived addresses", func() {
		got := s.mustDeploy("gamma", assetConfig(), kycOnly())
		s.Equal(s.coord.SuiteAddresses("gamma"), got)

		rec, err := s.coord.Deployment(s.ctx, "gamma")
		s.Require().NoError(err)
		s.Equal(got, rec.Suite)
		s.False(rec.DeployedAt.IsZero())
	})
}

func (s *CoordinatorSuite) TestValidation() {
	s.mustDeploy("taken", assetConfig(), deployment.EligibilityConfig{})

	many := func(n int, label string) []domain.Address {
		out := make([]domain.Address, n)
		for i := range out {
			out[i] = domain.NamedAddress(label + string(rune('a'+i)))
		}
		return out
	}

	cases := []struct {
		name string
		key  string
		ac   func(*deployment.AssetConfig)
		ec   deployment.EligibilityConfig
		want error
	}{
		{
			name: "empty key",
			key:  " ",
			want: deployment.ErrEmptyKey,
		},
		{
			name: "used key wins over every other problem",
			key:  "taken",
			ec:   deployment.EligibilityConfig{Issuers: many(6, "i")},
			want: deployment.ErrKeyAlreadyUsed,
		},
		{
			name: "claim pattern is checked before the issuer cap",
			key:  "k",
			ec:   deployment.EligibilityConfig{Issuers: many(6, "i"), IssuerTopics: make([][]uint64, 5)},
			want: deployment.ErrInvalidClaimPattern,
		},
		{
			name: "too many issuers",
			key:  "k",
			ec:   deployment.EligibilityConfig{Issuers: many(6, "i"), IssuerTopics: make([][]uint64, 6)},
			want: deployment.ErrTooManyIssuers,
		},
		{
			name: "too many topics",
			key:  "k",
			ec:   deployment.EligibilityConfig{Topics: []uint64{1, 2, 3, 4, 5, 6}},
			want: deployment.ErrTooManyTopics,
		},
		{
			name: "too many registry agents",
			key:  "k",
			ac:   func(ac *deployment.AssetConfig) { ac.RegistryAgents = many(6, "r") },
			want: deployment.ErrTooManyAgents,
		},
		{
			name: "too many asset agents",
			key:  "k",
			ac:   func(ac *deployment.AssetConfig) { ac.AssetAgents = many(6, "a") },
			want: deployment.ErrTooManyAgents,
		},
		{
			name: "module cap is checked before module existence",
			key:  "k",
			ac:   func(ac *deployment.AssetConfig) { ac.ComplianceModules = many(31, "m") },
			want: deployment.ErrTooManyModules,
		},
		{
			name: "more settings than modules",
			key:  "k",
			ac: func(ac *deployment.AssetConfig) {
				ac.ComplianceSettings = []modules.Call{{Method: "set_supply_limit"}}
			},
			want: deployment.ErrInvalidCompliancePattern,
		},
		{
			name: "zero owner",
			key:  "k",
			ac:   func(ac *deployment.AssetConfig) { ac.Owner = domain.ZeroAddress },
			want: deployment.ErrZeroAddress,
		},
		{
			name: "unknown module",
			key:  "k",
			ac:   func(ac *deployment.AssetConfig) { ac.ComplianceModules = many(1, "ghost") },
			want: deployment.ErrUnknownModule,
		},
		{
			name: "unknown storage",
			key:  "k",
			ac:   func(ac *deployment.AssetConfig) { ac.EligibilityStorage = domain.NamedAddress("nowhere") },
			want: deployment.ErrStorageNotFound,
		},
		{
			name: "missing name",
			key:  "k",
			ac:   func(ac *deployment.AssetConfig) { ac.Name = "" },
			want: deployment.ErrInvalidAssetConfig,
		},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			ac := assetConfig()
			if tc.ac != nil {
				tc.ac(&ac)
			}
			_, err := s.deploy(tc.key, ac, tc.ec)
			s.ErrorIs(err, tc.want)
			if tc.key != "taken" {
				s.assertNothingAt(s.coord.SuiteAddresses(tc.key))
			}
		})
	}

	s.Run("only coordinator admins deploy", func() {
		err := s.exec(func(ctx context.Context) error {
			_, err := s.coord.DeploySuite(ctx, mallory, "k", assetConfig(), deployment.EligibilityConfig{})
			return err
		})
		s.ErrorIs(err, deployment.ErrUnauthorized)
	})
}

func (s *CoordinatorSuite) TestWiring() {
	restrict := s.module("country-restrict")
	limit := s.module("supply-limit")

	ac := assetConfig()
	ac.RegistryAgents = []domain.Address{agent}
	ac.AssetAgents = []domain.Address{agent}
	ac.ComplianceModules = []domain.Address{restrict, restrict, limit}
	ac.ComplianceSettings = []modules.Call{
		s.call("add_country_restriction", map[string]uint16{"country": 408}),
		s.call("add_country_restriction", map[string]uint16{"country": 410}),
		s.call("set_supply_limit", map[string]uint64{"limit": 1000}),
	}
	got := s.mustDeploy("alpha", ac, kycOnly())

	a, err := chain.Resolve[*asset.Asset](s.chain, got.Asset)
	s.Require().NoError(err)
	reg, err := chain.Resolve[*eligibility.Registry](s.chain, got.EligibilityRegistry)
	s.Require().NoError(err)
	eng, err := chain.Resolve[*compliance.Engine](s.chain, got.Compliance)
	s.Require().NoError(err)

	s.Run("components are cross referenced", func() {
		s.Equal(got.EligibilityRegistry, a.EligibilityRegistry())
		s.Equal(got.Compliance, a.Compliance())
		s.Equal(got.Asset, eng.Asset())
		s.Equal(eligibility.Links{
			Storage:    got.EligibilityStorage,
			TopicList:  got.TopicList,
			IssuerList: got.IssuerList,
		}, reg.Links())
		derived, err := a.Suite()
		s.Require().NoError(err)
		s.Equal(got, derived)
	})

	s.Run("every front resolves through the reference", func() {
		for _, addr := range got.Components() {
			comp, err := chain.Resolve[indirection.Component](s.chain, addr)
			s.Require().NoError(err)
			s.Equal(s.net.Reference, comp.Front().Authority())
		}
	})

	s.Run("duplicate modules bind once and settings land in order", func() {
		s.Equal([]domain.Address{restrict, limit}, eng.Modules())
		m, err := chain.Resolve[*modules.CountryRestrict](s.chain, restrict)
		s.Require().NoError(err)
		s.Equal([]domain.Country{408, 410}, m.Restricted(got.Compliance))
	})

	s.Run("owner holds every component and the coordinator holds none", func() {
		for _, addr := range got.Components() {
			s.True(s.auth.HasCapability(s.ctx, owner, capability.Owner(addr)))
			s.False(s.auth.HasCapability(s.ctx, s.net.Coordinator, capability.Owner(addr)))
		}
		s.True(s.auth.HasCapability(s.ctx, agent, capability.Agent(got.Asset)))
		s.True(s.auth.HasCapability(s.ctx, agent, capability.Agent(got.EligibilityRegistry)))
		s.True(s.auth.HasCapability(s.ctx, got.Asset, capability.Agent(got.EligibilityRegistry)))
	})

	s.Run("the suite works end to end", func() {
		s.Require().NoError(s.exec(func(ctx context.Context) error {
			s.Require().NoError(reg.RegisterHolder(ctx, agent, alice, 250))
			s.Require().NoError(reg.AddClaim(ctx, issuer, alice, kyc))
			s.Require().NoError(reg.RegisterHolder(ctx, agent, mallory, 408))
			return reg.AddClaim(ctx, issuer, mallory, kyc)
		}))
		s.Require().NoError(s.exec(func(ctx context.Context) error {
			return a.Mint(ctx, agent, alice, 600)
		}))
		s.Equal(uint64(600), a.BalanceOf(alice))

		err := s.exec(func(ctx context.Context) error { return a.Mint(ctx, agent, mallory, 1) })
		s.ErrorIs(err, asset.ErrComplianceDenied)

		err = s.exec(func(ctx context.Context) error { return a.Mint(ctx, agent, alice, 401) })
		s.ErrorIs(err, asset.ErrComplianceDenied)
		s.Equal(uint64(600), a.TotalSupply())
	})
}

func (s *CoordinatorSuite) TestFailedAttemptCanBeRetried() {
	ac := assetConfig()
	ac.ComplianceModules = []domain.Address{s.module("country-restrict")}
	ac.ComplianceSettings = []modules.Call{{Method: "no_such_method"}}

	_, err := s.deploy("beta", ac, kycOnly())
	s.Require().ErrorIs(err, modules.ErrUnknownMethod)

	s.assertNothingAt(s.coord.SuiteAddresses("beta"))
	addr, err := s.coord.Asset(s.ctx, "beta")
	s.Require().NoError(err)
	s.True(addr.IsZero())
	m, err := chain.Resolve[*modules.CountryRestrict](s.chain, s.module("country-restrict"))
	s.Require().NoError(err)
	s.False(m.IsBound(s.coord.SuiteAddresses("beta").Compliance))

	ac.ComplianceSettings = nil
	got := s.mustDeploy("beta", ac, kycOnly())
	s.Equal(s.coord.SuiteAddresses("beta"), got)
}

func (s *CoordinatorSuite) TestStorageReuse() {
	ac := assetConfig()
	ac.RegistryAgents = []domain.Address{agent}
	alpha := s.mustDeploy("alpha", ac, kycOnly())

	s.Run("a stranger cannot attach to the storage", func() {
		other := assetConfig()
		other.Owner = stranger
		other.EligibilityStorage = alpha.EligibilityStorage
		_, err := s.deploy("intruder", other, kycOnly())
		s.ErrorIs(err, deployment.ErrStorageNotOwned)
	})

	ac.EligibilityStorage = alpha.EligibilityStorage
	beta := s.mustDeploy("beta", ac, kycOnly())

	s.Equal(alpha.EligibilityStorage, beta.EligibilityStorage)
	s.NotEqual(s.coord.SuiteAddresses("beta").EligibilityStorage, beta.EligibilityStorage)
	s.False(s.chain.Exists(s.coord.SuiteAddresses("beta").EligibilityStorage))

	st, err := chain.Resolve[*eligibility.Storage](s.chain, alpha.EligibilityStorage)
	s.Require().NoError(err)
	s.ElementsMatch([]domain.Address{alpha.EligibilityRegistry, beta.EligibilityRegistry}, st.LinkedRegistries())
	s.Equal([]domain.Address{owner}, s.auth.Holders(capability.Owner(alpha.EligibilityStorage)))

	alphaReg, err := chain.Resolve[*eligibility.Registry](s.chain, alpha.EligibilityRegistry)
	s.Require().NoError(err)
	betaReg, err := chain.Resolve[*eligibility.Registry](s.chain, beta.EligibilityRegistry)
	s.Require().NoError(err)
	s.Require().NoError(s.exec(func(ctx context.Context) error {
		return betaReg.RegisterHolder(ctx, agent, alice, 250)
	}))
	s.True(alphaReg.Contains(alice))
}

func (s *CoordinatorSuite) TestOwnershipHandover() {
	got := s.mustDeploy("alpha", assetConfig(), deployment.EligibilityConfig{})
	next := domain.NamedAddress("next-owner")

	s.Run("only admins propose", func() {
		err := s.exec(func(ctx context.Context) error {
			return s.coord.ProposeOwner(ctx, owner, got.Asset, next)
		})
		s.ErrorIs(err, deployment.ErrUnauthorized)
	})

	s.Run("foreign components cannot be proposed", func() {
		err := s.exec(func(ctx context.Context) error {
			return s.coord.ProposeOwner(ctx, admin, s.net.Reference, next)
		})
		s.ErrorIs(err, deployment.ErrNotDeployed)
	})

	s.Run("cancelled proposals cannot be accepted", func() {
		s.Require().NoError(s.exec(func(ctx context.Context) error {
			return s.coord.ProposeOwner(ctx, admin, got.Compliance, next)
		}))
		s.Require().NoError(s.exec(func(ctx context.Context) error {
			return s.coord.CancelOwnerProposal(ctx, admin, got.Compliance)
		}))
		err := s.exec(func(ctx context.Context) error {
			return s.coord.AcceptOwner(ctx, next, got.Compliance)
		})
		s.ErrorIs(err, deployment.ErrNoPendingOwner)
	})

	s.Run("the proposed owner takes over", func() {
		s.Require().NoError(s.exec(func(ctx context.Context) error {
			return s.coord.ProposeOwner(ctx, admin, got.Asset, next)
		}))
		err := s.exec(func(ctx context.Context) error {
			return s.coord.AcceptOwner(ctx, mallory, got.Asset)
		})
		s.ErrorIs(err, deployment.ErrNotPendingOwner)

		s.Require().NoError(s.exec(func(ctx context.Context) error {
			return s.coord.AcceptOwner(ctx, next, got.Asset)
		}))
		s.Equal([]domain.Address{next}, s.auth.Holders(capability.Owner(got.Asset)))
		_, pending := s.coord.PendingOwner(got.Asset)
		s.False(pending)

		view, err := s.coord.Component(got.Asset)
		s.Require().NoError(err)
		s.Equal(domain.KindAsset, view.Kind)
		s.Equal(s.net.Reference, view.Authority)
		s.Equal([]domain.Address{next}, view.Owners)
		s.True(view.Coordinated)
		s.Require().NotNil(view.Implementation)
		s.Equal(s.net.Bundle.Asset, *view.Implementation)
	})
}

func (s *CoordinatorSuite) TestMigrationNeedsEveryComponent() {
	got := s.mustDeploy("alpha", assetConfig(), kycOnly())
	ref, err := chain.Resolve[*versions.Registry](s.chain, s.net.Reference)
	s.Require().NoError(err)

	authorities := func() []domain.Address {
		out := make([]domain.Address, 0, 6)
		for _, addr := range got.Components() {
			comp, err := chain.Resolve[indirection.Component](s.chain, addr)
			s.Require().NoError(err)
			out = append(out, comp.Front().Authority())
		}
		return out
	}
	migrate := func() (domain.Address, error) {
		var target domain.Address
		err := s.exec(func(ctx context.Context) error {
			var err error
			target, err = ref.MigrateSuite(ctx, owner, got.Asset, domain.ZeroAddress)
			return err
		})
		return target, err
	}

	s.Require().NoError(s.exec(func(ctx context.Context) error {
		s.auth.Revoke(ctx, owner, capability.Owner(got.IssuerList))
		return nil
	}))
	before := authorities()

	_, err = migrate()
	s.ErrorIs(err, versions.ErrNotSuiteOwner)
	s.Equal(before, authorities())

	s.Require().NoError(s.exec(func(ctx context.Context) error {
		s.auth.Grant(ctx, owner, capability.Owner(got.IssuerList))
		return nil
	}))
	target, err := migrate()
	s.Require().NoError(err)
	for _, authority := range authorities() {
		s.Equal(target, authority)
	}
	aux, err := chain.Resolve[*versions.Registry](s.chain, target)
	s.Require().NoError(err)
	s.False(aux.IsReference())
	active, _ := aux.ActiveVersion()
	s.Equal(s.net.Version, active)
}

func (s *CoordinatorSuite) TestSetReference() {
	err := s.exec(func(ctx context.Context) error {
		return s.coord.SetReference(ctx, admin, s.net.Factory)
	})
	s.ErrorIs(err, deployment.ErrInvalidReference)

	err = s.exec(func(ctx context.Context) error {
		return s.coord.SetReference(ctx, mallory, s.net.Reference)
	})
	s.ErrorIs(err, deployment.ErrUnauthorized)

	s.Require().NoError(s.exec(func(ctx context.Context) error {
		return s.coord.SetReference(ctx, admin, s.net.Reference)
	}))
	s.Equal(s.net.Reference, s.coord.ReferenceRegistry())
}
