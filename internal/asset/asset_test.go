package asset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"assetgov/internal/capability"
	"assetgov/internal/chain"
	"assetgov/internal/compliance"
	"assetgov/internal/compliance/modules"
	"assetgov/internal/eligibility"
	"assetgov/internal/indirection"
	"assetgov/pkg/domain"
)

type fakeAuthority struct{ bundle domain.Bundle }

func (a *fakeAuthority) ActiveBundle() (domain.Bundle, bool) { return a.bundle, true }

const kyc = uint64(1)

var (
	alice   = domain.NamedAddress("alice")
	bob     = domain.NamedAddress("bob")
	mallory = domain.NamedAddress("mallory")
)

// Justification: the asset is where eligibility and compliance become
// binding. Tests pin that refused changes never touch balances, that modules
// hear about committed ones, and that the suite is discoverable from the asset.
type AssetSuite struct {
	suite.Suite
	ctx       context.Context
	chain     *chain.Chain
	auth      *capability.Table
	authority domain.Address
	owner     domain.Address
	agent     domain.Address
	issuer    domain.Address
	asset     *Asset
	engine    *compliance.Engine
	registry  *eligibility.Registry
	storage   *eligibility.Storage
	limit     domain.Address
	restrict  domain.Address
}

func TestAssetSuite(t *testing.T) {
	suite.Run(t, new(AssetSuite))
}

func (s *AssetSuite) SetupTest() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.chain = chain.New(chain.WithLogger(logger))
	s.auth = capability.NewTable()
	s.owner = domain.NamedAddress("owner")
	s.agent = domain.NamedAddress("agent")
	s.issuer = domain.NamedAddress("issuer")
	s.authority = domain.NamedAddress("authority")
	s.limit = domain.NamedAddress("supply-limit")
	s.restrict = domain.NamedAddress("country-restrict")

	bundle := domain.Bundle{
		Asset:               domain.NamedAddress("asset-code"),
		TopicList:           domain.NamedAddress("topics-code"),
		IssuerList:          domain.NamedAddress("issuers-code"),
		EligibilityStorage:  domain.NamedAddress("storage-code"),
		EligibilityRegistry: domain.NamedAddress("registry-code"),
		Compliance:          domain.NamedAddress("compliance-code"),
	}
	logic := eligibility.NewLogic(s.auth)

	s.exec(func(ctx context.Context) error {
		s.Require().NoError(s.chain.Deploy(ctx, s.authority, &fakeAuthority{bundle: bundle}))
		s.Require().NoError(s.chain.Deploy(ctx, bundle.Asset, NewLedger(s.auth)))
		s.Require().NoError(s.chain.Deploy(ctx, bundle.Compliance, compliance.NewRules(s.auth, compliance.WithLogger(logger))))
		for _, addr := range []domain.Address{bundle.TopicList, bundle.IssuerList, bundle.EligibilityStorage, bundle.EligibilityRegistry} {
			s.Require().NoError(s.chain.Deploy(ctx, addr, logic))
		}
		s.Require().NoError(s.chain.Deploy(ctx, s.limit, modules.NewSupplyLimit()))
		s.Require().NoError(s.chain.Deploy(ctx, s.restrict, modules.NewCountryRestrict()))

		topics := eligibility.NewTopicList(s.front(ctx, "topics", domain.KindTopicList))
		issuers := eligibility.NewIssuerList(s.front(ctx, "issuers", domain.KindIssuerList))
		s.storage = eligibility.NewStorage(s.front(ctx, "storage", domain.KindEligibilityStorage))
		s.registry = eligibility.NewRegistry(s.chain, s.front(ctx, "registry", domain.KindEligibilityRegistry))
		s.engine = compliance.NewEngine(s.chain, s.front(ctx, "engine", domain.KindCompliance))
		s.asset = New(s.chain, s.front(ctx, "asset", domain.KindAsset), Config{Name: "Alpha", Symbol: "ALP"})
		for _, c := range []indirection.Component{topics, issuers, s.storage, s.registry, s.engine, s.asset} {
			s.Require().NoError(s.chain.Deploy(ctx, c.Front().Address(), c))
		}

		s.auth.Grant(ctx, s.agent, capability.Agent(s.asset.Address()))
		s.auth.Grant(ctx, s.agent, capability.Agent(s.registry.Address()))
		s.Require().NoError(topics.AddTopic(ctx, s.owner, kyc))
		s.Require().NoError(issuers.AddIssuer(ctx, s.owner, s.issuer, []uint64{kyc}))
		s.Require().NoError(s.storage.LinkRegistry(ctx, s.owner, s.registry.Address()))
		s.Require().NoError(s.registry.Wire(ctx, s.owner, eligibility.Links{
			Storage:    s.storage.Address(),
			TopicList:  topics.Address(),
			IssuerList: issuers.Address(),
		}))
		s.Require().NoError(s.asset.SetEligibilityRegistry(ctx, s.owner, s.registry.Address()))
		s.Require().NoError(s.asset.SetCompliance(ctx, s.owner, s.engine.Address()))
		s.Require().NoError(s.engine.BindModule(ctx, s.owner, s.limit))
		s.Require().NoError(s.engine.BindModule(ctx, s.owner, s.restrict))

		for holder, country := range map[domain.Address]domain.Country{alice: 250, bob: 276, mallory: 408} {
			s.Require().NoError(s.registry.RegisterHolder(ctx, s.agent, holder, country))
			s.Require().NoError(s.registry.AddClaim(ctx, s.issuer, holder, kyc))
		}
		return nil
	})
}

func (s *AssetSuite) front(ctx context.Context, label string, kind domain.ComponentKind) *indirection.Front {
	addr := domain.NamedAddress(label)
	f, err := indirection.NewFront(s.chain, addr, kind, s.authority)
	s.Require().NoError(err)
	s.auth.Grant(ctx, s.owner, capability.Owner(addr))
	return f
}

func (s *AssetSuite) exec(fn func(ctx context.Context) error) {
	s.Require().NoError(s.chain.Execute(s.ctx, fn))
}

func (s *AssetSuite) try(fn func(ctx context.Context) error) error {
	return s.chain.Execute(s.ctx, fn)
}

func (s *AssetSuite) configure(module domain.Address, method string, args any) {
	call, err := modules.NewCall(method, args)
	s.Require().NoError(err)
	s.exec(func(ctx context.Context) error { return s.engine.Forward(ctx, s.owner, module, call) })
}

func (s *AssetSuite) TestMint() {
	s.Run("agents only", func() {
		err := s.try(func(ctx context.Context) error { return s.asset.Mint(ctx, alice, alice, 10) })
		s.ErrorIs(err, ErrNotAgent)
	})

	s.Run("receiver must be eligible", func() {
		err := s.try(func(ctx context.Context) error {
			return s.asset.Mint(ctx, s.agent, domain.NamedAddress("stranger"), 10)
		})
		s.ErrorIs(err, ErrNotEligible)
		s.Zero(s.asset.TotalSupply())
	})

	s.Run("minted", func() {
		s.exec(func(ctx context.Context) error { return s.asset.Mint(ctx, s.agent, alice, 100) })
		s.Equal(uint64(100), s.asset.BalanceOf(alice))
		s.Equal(uint64(100), s.asset.TotalSupply())
	})

	s.Run("supply limit refuses and leaves balances alone", func() {
		s.configure(s.limit, "set_supply_limit", map[string]uint64{"limit": 150})
		err := s.try(func(ctx context.Context) error { return s.asset.Mint(ctx, s.agent, bob, 51) })
		s.ErrorIs(err, ErrComplianceDenied)
		s.Zero(s.asset.BalanceOf(bob))
		s.Equal(uint64(100), s.asset.TotalSupply())

		s.exec(func(ctx context.Context) error { return s.asset.Mint(ctx, s.agent, bob, 50) })
		s.Equal(uint64(150), s.asset.TotalSupply())
	})
}

func (s *AssetSuite) TestTransfer() {
	s.exec(func(ctx context.Context) error { return s.asset.Mint(ctx, s.agent, alice, 100) })

	s.Run("insufficient balance", func() {
		err := s.try(func(ctx context.Context) error { return s.asset.Transfer(ctx, alice, bob, 101) })
		s.ErrorIs(err, ErrInsufficientBalance)
	})

	s.Run("restricted country", func() {
		s.configure(s.restrict, "add_country_restriction", map[string]domain.Country{"country": 408})
		err := s.try(func(ctx context.Context) error { return s.asset.Transfer(ctx, alice, mallory, 10) })
		s.ErrorIs(err, ErrComplianceDenied)
		s.Equal(uint64(100), s.asset.BalanceOf(alice))
	})

	s.Run("forced transfer skips the verdict but not eligibility", func() {
		s.exec(func(ctx context.Context) error { return s.asset.ForcedTransfer(ctx, s.agent, alice, mallory, 10) })
		s.Equal(uint64(10), s.asset.BalanceOf(mallory))

		err := s.try(func(ctx context.Context) error {
			return s.asset.ForcedTransfer(ctx, s.agent, alice, domain.NamedAddress("stranger"), 10)
		})
		s.ErrorIs(err, ErrNotEligible)
	})

	s.Run("paused", func() {
		s.exec(func(ctx context.Context) error { return s.asset.SetPaused(ctx, s.agent, true) })
		err := s.try(func(ctx context.Context) error { return s.asset.Transfer(ctx, alice, bob, 10) })
		s.ErrorIs(err, ErrPaused)
		s.exec(func(ctx context.Context) error { return s.asset.SetPaused(ctx, s.agent, false) })
	})

	s.Run("transferred", func() {
		s.exec(func(ctx context.Context) error { return s.asset.Transfer(ctx, alice, bob, 90) })
		s.Zero(s.asset.BalanceOf(alice))
		s.Equal(uint64(90), s.asset.BalanceOf(bob))
		s.NotContains(s.asset.Balances(), alice)
		s.Equal(uint64(100), s.asset.TotalSupply())
	})
}

func (s *AssetSuite) TestBurn() {
	s.exec(func(ctx context.Context) error { return s.asset.Mint(ctx, s.agent, alice, 100) })

	err := s.try(func(ctx context.Context) error { return s.asset.Burn(ctx, s.agent, alice, 101) })
	s.ErrorIs(err, ErrInsufficientBalance)

	s.exec(func(ctx context.Context) error { return s.asset.Burn(ctx, s.agent, alice, 40) })
	s.Equal(uint64(60), s.asset.BalanceOf(alice))
	s.Equal(uint64(60), s.asset.TotalSupply())
}

func (s *AssetSuite) TestModulesHearCommittedChanges() {
	capModule := domain.NamedAddress("max-balance")
	s.exec(func(ctx context.Context) error {
		if err := s.chain.Deploy(ctx, capModule, modules.NewMaxBalance(s.auth)); err != nil {
			return err
		}
		return s.engine.BindModule(ctx, s.owner, capModule)
	})
	s.configure(capModule, "set_max_balance", map[string]uint64{"max": 100})

	s.exec(func(ctx context.Context) error { return s.asset.Mint(ctx, s.agent, alice, 80) })
	s.exec(func(ctx context.Context) error { return s.asset.Transfer(ctx, alice, bob, 30) })

	m, err := chain.Resolve[*modules.MaxBalance](s.chain, capModule)
	s.Require().NoError(err)
	s.Equal(uint64(50), m.BalanceOf(s.engine.Address(), alice))
	s.Equal(uint64(30), m.BalanceOf(s.engine.Address(), bob))

	err = s.try(func(ctx context.Context) error { return s.asset.Transfer(ctx, alice, bob, 71) })
	s.Error(err)
	err = s.try(func(ctx context.Context) error { return s.asset.Mint(ctx, s.agent, bob, 71) })
	s.ErrorIs(err, ErrComplianceDenied)
}

func (s *AssetSuite) TestNotifyFailureRevertsTheChange() {
	s.exec(func(ctx context.Context) error {
		return s.engine.UnbindAsset(ctx, s.owner, s.asset.Address())
	})
	err := s.try(func(ctx context.Context) error { return s.asset.Mint(ctx, s.agent, alice, 10) })
	s.ErrorIs(err, compliance.ErrNotAsset)
	s.Zero(s.asset.TotalSupply())
	s.Zero(s.asset.BalanceOf(alice))
}

func (s *AssetSuite) TestSuite() {
	got, err := s.asset.Suite()
	s.Require().NoError(err)
	s.Equal(s.asset.Address(), got.Asset)
	s.Equal(s.engine.Address(), got.Compliance)
	s.Equal(s.registry.Address(), got.EligibilityRegistry)
	s.Equal(s.storage.Address(), got.EligibilityStorage)
	s.Equal(domain.NamedAddress("topics"), got.TopicList)
	s.Equal(domain.NamedAddress("issuers"), got.IssuerList)

	country, ok := s.asset.CountryOf(alice)
	s.True(ok)
	s.Equal(domain.Country(250), country)

	var bare *Asset
	s.exec(func(ctx context.Context) error {
		bare = New(s.chain, s.front(ctx, "bare", domain.KindAsset), Config{})
		return s.chain.Deploy(ctx, bare.Address(), bare)
	})
	_, err = bare.Suite()
	s.ErrorIs(err, ErrNotWired)
}

func (s *AssetSuite) TestSetCompliance() {
	var next *compliance.Engine
	s.exec(func(ctx context.Context) error {
		next = compliance.NewEngine(s.chain, s.front(ctx, "engine-2", domain.KindCompliance))
		if err := s.chain.Deploy(ctx, next.Address(), next); err != nil {
			return err
		}
		return s.asset.SetCompliance(ctx, s.owner, next.Address())
	})
	s.Equal(next.Address(), s.asset.Compliance())
	s.Equal(s.asset.Address(), next.Asset())
	s.True(s.engine.Asset().IsZero())

	s.Run("only the owner", func() {
		err := s.try(func(ctx context.Context) error {
			return s.asset.SetCompliance(ctx, s.agent, s.engine.Address())
		})
		s.ErrorIs(err, ErrNotOwner)
	})

	s.Run("failed operation restores the old wiring", func() {
		boom := errors.New("boom")
		err := s.try(func(ctx context.Context) error {
			if err := s.asset.SetCompliance(ctx, s.owner, s.engine.Address()); err != nil {
				return err
			}
			return boom
		})
		s.ErrorIs(err, boom)
		s.Equal(next.Address(), s.asset.Compliance())
		s.True(s.engine.Asset().IsZero())
	})
}
