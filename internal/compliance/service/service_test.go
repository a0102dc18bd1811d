package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"assetgov/internal/capability"
	"assetgov/internal/chain"
	"assetgov/internal/compliance"
	"assetgov/internal/compliance/modules"
	"assetgov/internal/indirection"
	"assetgov/pkg/domain"
	audit "assetgov/pkg/platform/audit"
	"assetgov/pkg/platform/audit/publisher"
	"assetgov/pkg/platform/audit/store/memory"
	"assetgov/pkg/requestcontext"
)

type fakeAuthority struct{ bundle domain.Bundle }

func (a *fakeAuthority) ActiveBundle() (domain.Bundle, bool) { return a.bundle, true }

// Justification: the service is where compliance administration becomes an
// atomic operation with an audit trail. Tests pin that only committed
// operations are audited and that lookups fail with typed errors.
type ServiceSuite struct {
	suite.Suite
	chain   *chain.Chain
	audit   *memory.InMemoryStore
	service *Service
	owner   domain.Address
	engine  domain.Address
	limit   *modules.SupplyLimit
	module  domain.Address
	country domain.Address
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.chain = chain.New(chain.WithLogger(logger))
	auth := capability.NewTable()
	s.audit = memory.NewInMemoryStore()
	s.owner = domain.NamedAddress("owner")
	s.engine = domain.NamedAddress("engine")
	s.module = domain.NamedAddress("supply-limit")
	s.country = domain.NamedAddress("country-allow")
	s.limit = modules.NewSupplyLimit()

	rules := domain.NamedAddress("rules")
	authority := domain.NamedAddress("authority")
	s.Require().NoError(s.chain.Execute(context.Background(), func(ctx context.Context) error {
		s.Require().NoError(s.chain.Deploy(ctx, authority, &fakeAuthority{bundle: domain.Bundle{
			Asset:               domain.NamedAddress("asset-code"),
			TopicList:           domain.NamedAddress("topics-code"),
			IssuerList:          domain.NamedAddress("issuers-code"),
			EligibilityStorage:  domain.NamedAddress("storage-code"),
			EligibilityRegistry: domain.NamedAddress("registry-code"),
			Compliance:          rules,
		}}))
		s.Require().NoError(s.chain.Deploy(ctx, rules, compliance.NewRules(auth)))
		s.Require().NoError(s.chain.Deploy(ctx, s.module, s.limit))
		s.Require().NoError(s.chain.Deploy(ctx, s.country, modules.NewCountryAllow()))
		front, err := indirection.NewFront(s.chain, s.engine, domain.KindCompliance, authority)
		s.Require().NoError(err)
		auth.Grant(ctx, s.owner, capability.Owner(s.engine))
		return s.chain.Deploy(ctx, s.engine, compliance.NewEngine(s.chain, front))
	}))

	s.service = New(s.chain,
		WithLogger(logger),
		WithAuditPublisher(publisher.NewPublisher(s.audit)),
	)
}

func (s *ServiceSuite) as(principal domain.Address) context.Context {
	return requestcontext.WithPrincipal(context.Background(), principal)
}

func (s *ServiceSuite) events() []audit.Event {
	events, err := s.audit.ListBySubject(context.Background(), s.engine.Hex())
	s.Require().NoError(err)
	return events
}

func (s *ServiceSuite) limitCall(n uint64) modules.Call {
	c, err := modules.NewCall("set_supply_limit", map[string]uint64{"limit": n})
	s.Require().NoError(err)
	return c
}

func (s *ServiceSuite) TestBindAndUnbind() {
	s.Run("unknown engine", func() {
		err := s.service.BindModule(s.as(s.owner), domain.NamedAddress("nope"), s.module)
		s.ErrorIs(err, ErrEngineNotFound)
	})

	s.Run("failed bind is not audited", func() {
		err := s.service.BindModule(s.as(domain.NamedAddress("mallory")), s.engine, s.module)
		s.ErrorIs(err, compliance.ErrNotOwner)
		s.Empty(s.events())
	})

	s.Require().NoError(s.service.BindModule(s.as(s.owner), s.engine, s.module))
	s.Require().NoError(s.service.BindModule(s.as(s.owner), s.engine, s.country))
	s.Require().NoError(s.service.UnbindModule(s.as(s.owner), s.engine, s.country))

	events := s.events()
	s.Require().Len(events, 3)
	s.Equal(string(audit.EventModuleBound), events[0].Action)
	s.Equal(s.module.Hex(), events[0].Target)
	s.Equal(string(audit.EventModuleUnbound), events[2].Action)
	s.Equal(audit.CategoryCompliance, events[2].Category)

	view, err := s.service.Engine(context.Background(), s.engine)
	s.Require().NoError(err)
	s.Require().Len(view.Modules, 1)
	s.Equal("supply_limit", view.Modules[0].Name)
	s.Equal(modules.SupplyLimitSettings{}, view.Modules[0].Settings)
}

func (s *ServiceSuite) TestForward() {
	s.Require().NoError(s.service.BindModule(s.as(s.owner), s.engine, s.module))
	s.Require().NoError(s.service.Forward(s.as(s.owner), s.engine, s.module,
		modules.Batch(s.limitCall(42), s.limitCall(43))))
	s.Equal(uint64(43), s.limit.Limit(s.engine))

	events := s.events()
	s.Equal(string(audit.EventModuleCalled), events[len(events)-1].Action)
	s.Equal(modules.MethodBatch, events[len(events)-1].Key)

	s.Run("direct calls from principals are refused", func() {
		err := s.service.CallModule(s.as(s.owner), s.module, modules.Batch(s.limitCall(1)))
		s.ErrorIs(err, modules.ErrOnlyBoundEngine)
		s.Equal(uint64(43), s.limit.Limit(s.engine))
	})

	s.Run("direct empty batch is refused and leaves no trail", func() {
		before := len(s.events())
		err := s.service.CallModule(s.as(s.owner), s.module, modules.Batch())
		s.ErrorIs(err, modules.ErrOnlyBoundEngine)
		s.Len(s.events(), before)
	})

	s.Run("direct call to nothing", func() {
		err := s.service.CallModule(s.as(s.owner), domain.NamedAddress("ghost"), s.limitCall(1))
		s.ErrorIs(err, ErrModuleNotFound)
	})
}

func (s *ServiceSuite) TestCheckTransfer() {
	s.Require().NoError(s.service.BindModule(s.as(s.owner), s.engine, s.country))
	verdict, err := s.service.CheckTransfer(context.Background(), s.engine,
		domain.NamedAddress("alice"), domain.NamedAddress("bob"), 1)
	s.Require().NoError(err)
	s.False(verdict.Allowed, "receiver without jurisdiction")
	s.Equal([]domain.Address{s.country}, verdict.DeniedBy)
}

func (s *ServiceSuite) TestPreset() {
	err := s.service.Preset(s.as(s.owner), s.engine, s.module, nil, true)
	s.ErrorIs(err, ErrNotPresettable)

	err = s.service.Preset(s.as(s.owner), s.engine, domain.NamedAddress("ghost"), nil, true)
	s.ErrorIs(err, ErrModuleNotFound)
}
