// Package service runs asset operations as substrate operations and reports
// them through logs, audit events, metrics and spans.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"assetgov/internal/asset"
	"assetgov/internal/asset/metrics"
	"assetgov/internal/chain"
	"assetgov/internal/platform/tracing"
	"assetgov/pkg/attrs"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	audit "assetgov/pkg/platform/audit"
	"assetgov/pkg/requestcontext"
)

var ErrAssetNotFound = dErrors.New(dErrors.CodeNotFound, "asset not found")

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service exposes asset operations to transports. The caller is the
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

func New(c *chain.Chain, opts ...Option) *Service {
	s := &Service{chain: c, tracer: otel.Tracer("assetgov/asset")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Mint(ctx context.Context, addr, to domain.Address, amount uint64) error {
	caller := requestcontext.Principal(ctx)
	return s.move(ctx, "mint", audit.EventMinted, addr, domain.ZeroAddress, to, amount, func(ctx context.Context, a *asset.Asset) error {
		return a.Mint(ctx, caller, to, amount)
	})
}

func (s *Service) Burn(ctx context.Context, addr, from domain.Address, amount uint64) error {
	caller := requestcontext.Principal(ctx)
	return s.move(ctx, "burn", audit.EventBurned, addr, from, domain.ZeroAddress, amount, func(ctx context.Context, a *asset.Asset) error {
		return a.Burn(ctx, caller, from, amount)
	})
}

// Transfer moves amount from the principal to to.
func (s *Service) Transfer(ctx context.Context, addr, to domain.Address, amount uint64) error {
	caller := requestcontext.Principal(ctx)
	return s.move(ctx, "transfer", audit.EventTransferred, addr, caller, to, amount, func(ctx context.Context, a *asset.Asset) error {
		return a.Transfer(ctx, caller, to, amount)
	})
}

func (s *Service) ForcedTransfer(ctx context.Context, addr, from, to domain.Address, amount uint64) error {
	caller := requestcontext.Principal(ctx)
	return s.move(ctx, "forced_transfer", audit.EventTransferred, addr, from, to, amount, func(ctx context.Context, a *asset.Asset) error {
		return a.ForcedTransfer(ctx, caller, from, to, amount)
	})
}

func (s *Service) move(ctx context.Context, op string, event audit.AuditEvent, addr, from, to domain.Address, amount uint64, fn func(ctx context.Context, a *asset.Asset) error) error {
	err := s.run(ctx, op, addr, func(ctx context.Context) error {
		a, err := s.asset(addr)
		if err != nil {
			return err
		}
		return fn(ctx, a)
	}, attribute.String("from", from.Hex()), attribute.String("to", to.Hex()), attribute.Int64("amount", int64(amount)))
	switch {
	case errors.Is(err, asset.ErrNotEligible):
		s.metrics.IncRefusal("not_eligible")
	case errors.Is(err, asset.ErrComplianceDenied):
		s.metrics.IncRefusal("compliance")
	}
	if err != nil {
		return err
	}
	s.metrics.AddVolume(op, amount)
	holder := to
	if holder.IsZero() {
		holder = from
	}
	s.logAudit(ctx, string(event),
		"asset", addr.Hex(),
		"holder", holder.Hex(),
		"from", from.Hex(),
		"to", to.Hex(),
		"amount", strconv.FormatUint(amount, 10),
	)
	return nil
}

func (s *Service) SetPaused(ctx context.Context, addr domain.Address, paused bool) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "set_paused", addr, func(ctx context.Context) error {
		a, err := s.asset(addr)
		if err != nil {
			return err
		}
		return a.SetPaused(ctx, caller, paused)
	}, attribute.Bool("paused", paused))
	if err != nil {
		return err
	}
	event := audit.EventUnpaused
	if paused {
		event = audit.EventPaused
	}
	s.logAudit(ctx, string(event), "asset", addr.Hex())
	return nil
}

func (s *Service) SetCompliance(ctx context.Context, addr, engine domain.Address) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "set_compliance", addr, func(ctx context.Context) error {
		a, err := s.asset(addr)
		if err != nil {
			return err
		}
		return a.SetCompliance(ctx, caller, engine)
	}, attribute.String("engine", engine.Hex()))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventComplianceChanged),
		"asset", addr.Hex(),
		"holder", engine.Hex(),
	)
	return nil
}

func (s *Service) SetEligibilityRegistry(ctx context.Context, addr, registry domain.Address) error {
	caller := requestcontext.Principal(ctx)
	return s.run(ctx, "set_eligibility_registry", addr, func(ctx context.Context) error {
		a, err := s.asset(addr)
		if err != nil {
			return err
		}
		return a.SetEligibilityRegistry(ctx, caller, registry)
	}, attribute.String("registry", registry.Hex()))
}

// Asset returns a snapshot of one asset.
func (s *Service) Asset(ctx context.Context, addr domain.Address) (*asset.View, error) {
	var view *asset.View
	err := s.chain.View(ctx, func(ctx context.Context) error {
		a, err := s.asset(addr)
		if err != nil {
			return err
		}
		view = a.Snapshot()
		return nil
	})
	return view, err
}

// Balance returns holder's position in one asset.
func (s *Service) Balance(ctx context.Context, addr, holder domain.Address) (*asset.BalanceView, error) {
	var view *asset.BalanceView
	err := s.chain.View(ctx, func(ctx context.Context) error {
		a, err := s.asset(addr)
		if err != nil {
			return err
		}
		view = a.Position(holder)
		return nil
	})
	return view, err
}

func (s *Service) asset(addr domain.Address) (*asset.Asset, error) {
	a, err := chain.Resolve[*asset.Asset](s.chain, addr)
	if err != nil {
		return nil, ErrAssetNotFound
	}
	return a, nil
}

func (s *Service) run(ctx context.Context, op string, target domain.Address, fn func(ctx context.Context) error, extra ...attribute.KeyValue) (err error) {
	start := time.Now()
	ctx, span := tracing.Start(ctx, s.tracer, "asset."+op,
		append(extra, attribute.String("asset", target.Hex()))...)
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
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Actor:     principal,
		Subject:   attrs.ExtractString(attributes, "asset"),
		Action:    event,
		Target:    attrs.ExtractString(attributes, "holder"),
		Key:       attrs.ExtractString(attributes, "amount"),
		RequestID: requestcontext.RequestID(ctx),
	})
}
