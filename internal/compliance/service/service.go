// Package service runs compliance administration as substrate operations and
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
	"assetgov/internal/compliance"
	"assetgov/internal/compliance/metrics"
	"assetgov/internal/compliance/modules"
	"assetgov/internal/platform/tracing"
	"assetgov/pkg/attrs"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	audit "assetgov/pkg/platform/audit"
	"assetgov/pkg/requestcontext"
)

var (
	ErrEngineNotFound = dErrors.New(dErrors.CodeNotFound, "compliance engine not found")
	ErrModuleNotFound = dErrors.New(dErrors.CodeNotFound, "module not found")
	ErrNotPresettable = dErrors.New(dErrors.CodeValidation, "module does not accept balance presets")
)

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Presetter is implemented by modules that mirror balances and need them
// seeded before binding to an asset with supply.
type Presetter interface {
	Preset(ctx context.Context, caller, engine domain.Address, balances map[domain.Address]uint64) error
	CompletePreset(ctx context.Context, caller, engine domain.Address) error
}

// Service exposes engine administration to transports. The caller is the
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
	s := &Service{chain: c, tracer: otel.Tracer("assetgov/compliance")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) BindModule(ctx context.Context, engine, module domain.Address) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "bind_module", engine, func(ctx context.Context) error {
		e, err := s.engine(engine)
		if err != nil {
			return err
		}
		return e.BindModule(ctx, caller, module)
	}, attribute.String("module", module.Hex()))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventModuleBound),
		"engine", engine.Hex(),
		"module", module.Hex(),
	)
	return nil
}

func (s *Service) UnbindModule(ctx context.Context, engine, module domain.Address) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "unbind_module", engine, func(ctx context.Context) error {
		e, err := s.engine(engine)
		if err != nil {
			return err
		}
		return e.UnbindModule(ctx, caller, module)
	}, attribute.String("module", module.Hex()))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventModuleUnbound),
		"engine", engine.Hex(),
		"module", module.Hex(),
	)
	return nil
}

// Forward relays call to module through engine.
func (s *Service) Forward(ctx context.Context, engine, module domain.Address, call modules.Call) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "forward", engine, func(ctx context.Context) error {
		e, err := s.engine(engine)
		if err != nil {
			return err
		}
		return e.Forward(ctx, caller, module, call)
	}, attribute.String("module", module.Hex()), attribute.String("method", call.Method))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventModuleCalled),
		"engine", engine.Hex(),
		"module", module.Hex(),
		"method", call.Method,
	)
	return nil
}

// CallModule calls module directly with the principal as caller. Modules only
// accept their bound engines, so this succeeds only for principals that are
// engines themselves.
func (s *Service) CallModule(ctx context.Context, module domain.Address, call modules.Call) error {
	caller := requestcontext.Principal(ctx)
	return s.run(ctx, "call_module", module, func(ctx context.Context) error {
		m, err := chain.Resolve[compliance.Module](s.chain, module)
		if err != nil {
			return ErrModuleNotFound
		}
		return m.Call(ctx, caller, call)
	}, attribute.String("method", call.Method))
}

// Preset seeds balances into a mirroring module for engine and optionally
// marks the preset complete.
func (s *Service) Preset(ctx context.Context, engine, module domain.Address, balances map[domain.Address]uint64, complete bool) error {
	caller := requestcontext.Principal(ctx)
	return s.run(ctx, "preset", engine, func(ctx context.Context) error {
		p, err := chain.Resolve[Presetter](s.chain, module)
		if err != nil {
			if !s.chain.Exists(module) {
				return ErrModuleNotFound
			}
			return ErrNotPresettable
		}
		if len(balances) > 0 {
			if err := p.Preset(ctx, caller, engine, balances); err != nil {
				return err
			}
		}
		if complete {
			return p.CompletePreset(ctx, caller, engine)
		}
		return nil
	}, attribute.String("module", module.Hex()))
}

// CheckTransfer evaluates a hypothetical transfer without changing anything.
func (s *Service) CheckTransfer(ctx context.Context, engine, from, to domain.Address, amount uint64) (compliance.Verdict, error) {
	var verdict compliance.Verdict
	err := s.chain.View(ctx, func(ctx context.Context) error {
		e, err := s.engine(engine)
		if err != nil {
			return err
		}
		verdict, err = e.Evaluate(ctx, from, to, amount)
		return err
	})
	return verdict, err
}

// Engine returns a snapshot of one engine.
func (s *Service) Engine(ctx context.Context, engine domain.Address) (*compliance.View, error) {
	var view *compliance.View
	err := s.chain.View(ctx, func(ctx context.Context) error {
		e, err := s.engine(engine)
		if err != nil {
			return err
		}
		view = e.Snapshot()
		return nil
	})
	return view, err
}

func (s *Service) engine(addr domain.Address) (*compliance.Engine, error) {
	e, err := chain.Resolve[*compliance.Engine](s.chain, addr)
	if err != nil {
		return nil, ErrEngineNotFound
	}
	return e, nil
}

func (s *Service) run(ctx context.Context, op string, target domain.Address, fn func(ctx context.Context) error, extra ...attribute.KeyValue) (err error) {
	start := time.Now()
	ctx, span := tracing.Start(ctx, s.tracer, "compliance."+op,
		append(extra, attribute.String("target", target.Hex()))...)
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
		Subject:   attrs.ExtractString(attributes, "engine"),
		Action:    event,
		Target:    attrs.ExtractString(attributes, "module"),
		Key:       attrs.ExtractString(attributes, "method"),
		RequestID: requestcontext.RequestID(ctx),
	})
}
