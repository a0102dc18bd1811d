// Package service runs coordinator operations as substrate operations and
// reports them through logs, audit events, metrics and spans.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"assetgov/internal/chain"
	"assetgov/internal/deployment"
	"assetgov/internal/deployment/metrics"
	"assetgov/internal/deployment/store"
	"assetgov/internal/platform/tracing"
	"assetgov/pkg/attrs"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	audit "assetgov/pkg/platform/audit"
	"assetgov/pkg/requestcontext"
)

var ErrCoordinatorNotFound = dErrors.New(dErrors.CodeInternal, "deployment coordinator is not deployed")

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service exposes one coordinator to transports. The caller is the principal
// carried in the context.
type Service struct {
	chain          *chain.Chain
	coordinator    domain.Address
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(c *chain.Chain, coordinator domain.Address, opts ...Option) *Service {
	s := &Service{chain: c, coordinator: coordinator, tracer: otel.Tracer("assetgov/deployment")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DeploySuite deploys a suite under key. Refusals raised before any write are
// counted by error code.
func (s *Service) DeploySuite(ctx context.Context, key string, ac deployment.AssetConfig, ec deployment.EligibilityConfig) (domain.Suite, error) {
	caller := requestcontext.Principal(ctx)
	var suite domain.Suite
	err := s.run(ctx, "deploy_suite", func(ctx context.Context, coord *deployment.Coordinator) error {
		var err error
		suite, err = coord.DeploySuite(ctx, caller, key, ac, ec)
		return err
	}, attribute.String("key", key), attribute.Int("modules", len(ac.ComplianceModules)))
	if err != nil {
		s.metrics.IncRejection(string(dErrors.CodeOf(err)))
		return domain.Suite{}, err
	}

	s.metrics.IncSuitesDeployed(!ac.EligibilityStorage.IsZero())
	s.logAudit(ctx, string(audit.EventSuiteDeployed),
		"component", suite.Asset.Hex(),
		"target", ac.Owner.Hex(),
		"key", key,
	)
	return suite, nil
}

// Deployment returns the record stored under key.
func (s *Service) Deployment(ctx context.Context, key string) (store.Record, error) {
	var rec store.Record
	err := s.view(ctx, func(ctx context.Context, coord *deployment.Coordinator) error {
		var err error
		rec, err = coord.Deployment(ctx, key)
		return err
	})
	return rec, err
}

func (s *Service) ProposeOwner(ctx context.Context, component, newOwner domain.Address) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "propose_owner", func(ctx context.Context, coord *deployment.Coordinator) error {
		return coord.ProposeOwner(ctx, caller, component, newOwner)
	}, attribute.String("component", component.Hex()))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventOwnershipProposed),
		"component", component.Hex(),
		"target", newOwner.Hex(),
	)
	return nil
}

func (s *Service) AcceptOwner(ctx context.Context, component domain.Address) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "accept_owner", func(ctx context.Context, coord *deployment.Coordinator) error {
		return coord.AcceptOwner(ctx, caller, component)
	}, attribute.String("component", component.Hex()))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventOwnershipAccepted),
		"component", component.Hex(),
		"target", caller.Hex(),
	)
	return nil
}

func (s *Service) CancelOwnerProposal(ctx context.Context, component domain.Address) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "cancel_owner_proposal", func(ctx context.Context, coord *deployment.Coordinator) error {
		return coord.CancelOwnerProposal(ctx, caller, component)
	}, attribute.String("component", component.Hex()))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventOwnershipCanceled),
		"component", component.Hex(),
	)
	return nil
}

// SetReference points future deployments at registry.
func (s *Service) SetReference(ctx context.Context, registry domain.Address) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "set_reference", func(ctx context.Context, coord *deployment.Coordinator) error {
		return coord.SetReference(ctx, caller, registry)
	}, attribute.String("registry", registry.Hex()))
	if err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "reference registry changed",
			"coordinator", s.coordinator.Hex(),
			"registry", registry.Hex(),
		)
	}
	return nil
}

// Component describes any deployed suite component.
func (s *Service) Component(ctx context.Context, addr domain.Address) (*deployment.ComponentView, error) {
	var view *deployment.ComponentView
	err := s.view(ctx, func(_ context.Context, coord *deployment.Coordinator) error {
		var err error
		view, err = coord.Component(addr)
		return err
	})
	return view, err
}

func (s *Service) resolve() (*deployment.Coordinator, error) {
	coord, err := chain.Resolve[*deployment.Coordinator](s.chain, s.coordinator)
	if err != nil {
		return nil, ErrCoordinatorNotFound
	}
	return coord, nil
}

func (s *Service) view(ctx context.Context, fn func(ctx context.Context, coord *deployment.Coordinator) error) error {
	return s.chain.View(ctx, func(ctx context.Context) error {
		coord, err := s.resolve()
		if err != nil {
			return err
		}
		return fn(ctx, coord)
	})
}

func (s *Service) run(ctx context.Context, op string, fn func(ctx context.Context, coord *deployment.Coordinator) error, extra ...attribute.KeyValue) (err error) {
	start := time.Now()
	ctx, span := tracing.Start(ctx, s.tracer, "deployment."+op,
		append(extra, attribute.String("coordinator", s.coordinator.Hex()))...)
	defer func() {
		tracing.End(span, err)
		s.metrics.ObserveOperation(op, start, err)
	}()
	return s.chain.Execute(ctx, func(ctx context.Context) error {
		coord, err := s.resolve()
		if err != nil {
			return err
		}
		return fn(ctx, coord)
	})
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	principal := requestcontext.Principal(ctx).Hex()
	args := append(attributes, "event", event, "principal", principal, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Actor:     principal,
		Subject:   attrs.ExtractString(attributes, "component"),
		Action:    event,
		Target:    attrs.ExtractString(attributes, "target"),
		Key:       attrs.ExtractString(attributes, "key"),
		RequestID: requestcontext.RequestID(ctx),
	})
}
