package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"assetgov/internal/capability"
	"assetgov/internal/chain"
	"assetgov/internal/deployment"
	"assetgov/internal/genesis"
	"assetgov/pkg/domain"
	audit "assetgov/pkg/platform/audit"
	"assetgov/pkg/platform/audit/publisher"
	"assetgov/pkg/platform/audit/store/memory"
	"assetgov/pkg/requestcontext"
)

var (
	admin = domain.NamedAddress("admin")
	owner = domain.NamedAddress("owner")
	next  = domain.NamedAddress("next-owner")
)

// Justification: transports only reach the coordinator through the service.
// Tests pin which audit events a deployment and an ownership handover leave
// and that refused calls leave none.
type ServiceSuite struct {
	suite.Suite
	chain   *chain.Chain
	net     *genesis.Network
	audit   *memory.InMemoryStore
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.chain = chain.New(chain.WithLogger(logger))
	net, err := genesis.Apply(context.Background(), s.chain, capability.NewTable(), genesis.Default(admin), genesis.WithLogger(logger))
	s.Require().NoError(err)
	s.net = net
	s.audit = memory.NewInMemoryStore()
	s.service = New(s.chain, net.Coordinator,
		WithLogger(logger),
		WithAuditPublisher(publisher.NewPublisher(s.audit)),
	)
}

func (s *ServiceSuite) as(principal domain.Address) context.Context {
	ctx := requestcontext.WithPrincipal(context.Background(), principal)
	return requestcontext.WithRequestID(ctx, "req-7")
}

func (s *ServiceSuite) events(subject domain.Address) []audit.Event {
	events, err := s.audit.ListBySubject(context.Background(), subject.Hex())
	s.Require().NoError(err)
	return events
}

func config() deployment.AssetConfig {
	return deployment.AssetConfig{Owner: owner, Name: "Alpha", Symbol: "ALP"}
}

func (s *ServiceSuite) TestDeploySuite() {
	s.Run("refused deployment leaves no trail", func() {
		_, err := s.service.DeploySuite(s.as(owner), "alpha", config(), deployment.EligibilityConfig{})
		s.ErrorIs(err, deployment.ErrUnauthorized)

		rec, err := s.service.Deployment(context.Background(), "alpha")
		s.ErrorIs(err, deployment.ErrKeyNotFound)
		s.Empty(rec.Key)
	})

	s.Run("deployment is audited against the asset", func() {
		got, err := s.service.DeploySuite(s.as(admin), "alpha", config(), deployment.EligibilityConfig{})
		s.Require().NoError(err)

		events := s.events(got.Asset)
		s.Require().Len(events, 1)
		s.Equal(string(audit.EventSuiteDeployed), events[0].Action)
		s.Equal(admin.Hex(), events[0].Actor)
		s.Equal(owner.Hex(), events[0].Target)
		s.Equal("alpha", events[0].Key)
		s.Equal("req-7", events[0].RequestID)

		rec, err := s.service.Deployment(context.Background(), "alpha")
		s.Require().NoError(err)
		s.Equal(got, rec.Suite)
	})
}

func (s *ServiceSuite) TestOwnershipHandover() {
	got, err := s.service.DeploySuite(s.as(admin), "alpha", config(), deployment.EligibilityConfig{})
	s.Require().NoError(err)

	s.Require().NoError(s.service.ProposeOwner(s.as(admin), got.Compliance, next))
	s.ErrorIs(s.service.AcceptOwner(s.as(owner), got.Compliance), deployment.ErrNotPendingOwner)
	s.Require().NoError(s.service.AcceptOwner(s.as(next), got.Compliance))

	events := s.events(got.Compliance)
	s.Require().Len(events, 2)
	s.Equal(string(audit.EventOwnershipProposed), events[0].Action)
	s.Equal(next.Hex(), events[0].Target)
	s.Equal(string(audit.EventOwnershipAccepted), events[1].Action)
	s.Equal(next.Hex(), events[1].Actor)

	view, err := s.service.Component(context.Background(), got.Compliance)
	s.Require().NoError(err)
	s.Equal([]domain.Address{next}, view.Owners)
	s.Nil(view.PendingOwner)
}

func (s *ServiceSuite) TestCancelOwnerProposal() {
	got, err := s.service.DeploySuite(s.as(admin), "alpha", config(), deployment.EligibilityConfig{})
	s.Require().NoError(err)

	s.ErrorIs(s.service.CancelOwnerProposal(s.as(admin), got.Asset), deployment.ErrNoPendingOwner)
	s.Require().NoError(s.service.ProposeOwner(s.as(admin), got.Asset, next))

	view, err := s.service.Component(context.Background(), got.Asset)
	s.Require().NoError(err)
	s.Require().NotNil(view.PendingOwner)
	s.Equal(next, *view.PendingOwner)

	s.Require().NoError(s.service.CancelOwnerProposal(s.as(admin), got.Asset))
	s.ErrorIs(s.service.AcceptOwner(s.as(next), got.Asset), deployment.ErrNoPendingOwner)
}

func (s *ServiceSuite) TestUnknownComponent() {
	_, err := s.service.Component(context.Background(), domain.NamedAddress("ghost"))
	s.ErrorIs(err, deployment.ErrUnknownComponent)
}

func (s *ServiceSuite) TestMissingCoordinator() {
	svc := New(s.chain, domain.NamedAddress("nowhere"))
	_, err := svc.DeploySuite(s.as(admin), "alpha", config(), deployment.EligibilityConfig{})
	s.ErrorIs(err, ErrCoordinatorNotFound)
}
