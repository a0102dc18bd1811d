// Package service runs version registry operations as substrate operations
// and reports them through logs, audit events, metrics and spans.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"assetgov/internal/chain"
	"assetgov/internal/platform/tracing"
	"assetgov/internal/versions"
	"assetgov/internal/versions/metrics"
	"assetgov/pkg/attrs"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	audit "assetgov/pkg/platform/audit"
	"assetgov/pkg/requestcontext"
)

var ErrRegistryNotFound = dErrors.New(dErrors.CodeNotFound, "registry not found")

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service exposes registry operations to transports. The caller is the
// principal carried in the context.
type Service struct {
	chain          *chain.Chain
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

// New constructs a Service.
func New(c *chain.Chain, opts ...Option) *Service {
	s := &Service{chain: c, tracer: otel.Tracer("assetgov/versions")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddVersion records bundle b under v on the reference registry, activating
// it in the same operation when promote is set.
func (s *Service) AddVersion(ctx context.Context, registry domain.Address, v domain.Version, b domain.Bundle, promote bool) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "add_version", registry, func(ctx context.Context) error {
		reg, err := s.registry(registry)
		if err != nil {
			return err
		}
		if promote {
			return reg.AddAndPromote(ctx, caller, v, b)
		}
		return reg.AddVersion(ctx, caller, v, b)
	}, attribute.String("version", v.String()))
	if err != nil {
		return err
	}

	s.logAudit(ctx, string(audit.EventVersionAdded),
		"registry", registry.Hex(),
		"version", v.String(),
	)
	if promote {
		s.logAudit(ctx, string(audit.EventVersionPromoted),
			"registry", registry.Hex(),
			"version", v.String(),
		)
	}
	return nil
}

// Promote activates an already recorded version.
func (s *Service) Promote(ctx context.Context, registry domain.Address, v domain.Version) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "promote", registry, func(ctx context.Context) error {
		reg, err := s.registry(registry)
		if err != nil {
			return err
		}
		return reg.Promote(ctx, caller, v)
	}, attribute.String("version", v.String()))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventVersionPromoted),
		"registry", registry.Hex(),
		"version", v.String(),
	)
	return nil
}

// Fetch copies v from the reference registry into an auxiliary registry.
func (s *Service) Fetch(ctx context.Context, registry domain.Address, v domain.Version) (domain.Bundle, error) {
	var bundle domain.Bundle
	err := s.run(ctx, "fetch", registry, func(ctx context.Context) error {
		reg, err := s.registry(registry)
		if err != nil {
			return err
		}
		bundle, err = reg.Fetch(ctx, v)
		return err
	}, attribute.String("version", v.String()))
	if err != nil {
		return domain.Bundle{}, err
	}
	s.logAudit(ctx, string(audit.EventVersionFetched),
		"registry", registry.Hex(),
		"version", v.String(),
	)
	return bundle, nil
}

// MigrateSuite moves asset's suite to newAuthority, or to a freshly derived
// auxiliary registry when newAuthority is zero. Returns the authority used.
func (s *Service) MigrateSuite(ctx context.Context, registry, asset, newAuthority domain.Address) (domain.Address, error) {
	caller := requestcontext.Principal(ctx)
	var target domain.Address
	err := s.run(ctx, "migrate_suite", registry, func(ctx context.Context) error {
		reg, err := s.registry(registry)
		if err != nil {
			return err
		}
		target, err = reg.MigrateSuite(ctx, caller, asset, newAuthority)
		return err
	}, attribute.String("asset", asset.Hex()))
	if err != nil {
		return domain.ZeroAddress, err
	}

	if newAuthority.IsZero() {
		s.metrics.IncAuxiliaryRegistries()
	}
	s.metrics.IncSuitesMigrated()
	s.logAudit(ctx, string(audit.EventSuiteMigrated),
		"registry", registry.Hex(),
		"asset", asset.Hex(),
		"target", target.Hex(),
	)
	return target, nil
}

// Registry returns a snapshot of one registry.
func (s *Service) Registry(ctx context.Context, registry domain.Address) (*versions.View, error) {
	var view *versions.View
	err := s.chain.View(ctx, func(ctx context.Context) error {
		reg, err := s.registry(registry)
		if err != nil {
			return err
		}
		view, err = reg.Snapshot(ctx)
		return err
	})
	return view, err
}

func (s *Service) registry(addr domain.Address) (*versions.Registry, error) {
	reg, err := chain.Resolve[*versions.Registry](s.chain, addr)
	if err != nil {
		return nil, ErrRegistryNotFound
	}
	return reg, nil
}

func (s *Service) run(ctx context.Context, op string, registry domain.Address, fn func(ctx context.Context) error, extra ...attribute.KeyValue) (err error) {
	start := time.Now()
	ctx, span := tracing.Start(ctx, s.tracer, "versions."+op,
		append(extra, attribute.String("registry", registry.Hex()))...)
	defer func() {
		tracing.End(span, err)
		s.metrics.ObserveOperation(op, start, err)
	}()
	return s.chain.Execute(ctx, fn)
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
	subject := attrs.ExtractString(attributes, "registry")
	target := attrs.ExtractString(attributes, "target")
	if target == "" {
		target = attrs.ExtractString(attributes, "asset")
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Actor:     principal,
		Subject:   subject,
		Action:    event,
		Target:    target,
		Version:   attrs.ExtractString(attributes, "version"),
		RequestID: requestcontext.RequestID(ctx),
	})
}
