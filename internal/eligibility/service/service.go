// Package service runs eligibility administration as substrate operations
// and reports it through logs, audit events, metrics and spans.
package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"assetgov/internal/chain"
	"assetgov/internal/eligibility"
	"assetgov/internal/eligibility/metrics"
	"assetgov/internal/platform/tracing"
	"assetgov/pkg/attrs"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	audit "assetgov/pkg/platform/audit"
	"assetgov/pkg/requestcontext"
)

var (
	ErrRegistryNotFound   = dErrors.New(dErrors.CodeNotFound, "eligibility registry not found")
	ErrStorageNotFound    = dErrors.New(dErrors.CodeNotFound, "identity storage not found")
	ErrTopicListNotFound  = dErrors.New(dErrors.CodeNotFound, "topic list not found")
	ErrIssuerListNotFound = dErrors.New(dErrors.CodeNotFound, "issuer list not found")
)

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service exposes eligibility operations to transports. The caller is the
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
	s := &Service{chain: c, tracer: otel.Tracer("assetgov/eligibility")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) RegisterHolder(ctx context.Context, registry, holder domain.Address, country domain.Country) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "register_holder", registry, func(ctx context.Context) error {
		r, err := s.registry(registry)
		if err != nil {
			return err
		}
		return r.RegisterHolder(ctx, caller, holder, country)
	}, attribute.String("holder", holder.Hex()))
	if err != nil {
		return err
	}
	s.metrics.IncHoldersRegistered()
	s.logAudit(ctx, string(audit.EventHolderRegistered),
		"subject", registry.Hex(),
		"target", holder.Hex(),
		"country", country.String(),
	)
	return nil
}

func (s *Service) UpdateCountry(ctx context.Context, registry, holder domain.Address, country domain.Country) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "update_country", registry, func(ctx context.Context) error {
		r, err := s.registry(registry)
		if err != nil {
			return err
		}
		return r.UpdateCountry(ctx, caller, holder, country)
	}, attribute.String("holder", holder.Hex()))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventHolderUpdated),
		"subject", registry.Hex(),
		"target", holder.Hex(),
		"country", country.String(),
	)
	return nil
}

func (s *Service) DeleteHolder(ctx context.Context, registry, holder domain.Address) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "delete_holder", registry, func(ctx context.Context) error {
		r, err := s.registry(registry)
		if err != nil {
			return err
		}
		return r.DeleteHolder(ctx, caller, holder)
	}, attribute.String("holder", holder.Hex()))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventHolderDeleted),
		"subject", registry.Hex(),
		"target", holder.Hex(),
	)
	return nil
}

// AddClaim records a claim on topic for holder. The principal is the issuer.
func (s *Service) AddClaim(ctx context.Context, registry, holder domain.Address, topic uint64) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "add_claim", registry, func(ctx context.Context) error {
		r, err := s.registry(registry)
		if err != nil {
			return err
		}
		return r.AddClaim(ctx, caller, holder, topic)
	}, attribute.String("holder", holder.Hex()), attribute.Int64("topic", int64(topic)))
	if err != nil {
		return err
	}
	key := strconv.FormatUint(topic, 10)
	s.metrics.IncClaimsAdded(key)
	s.logAudit(ctx, string(audit.EventClaimAdded),
		"subject", registry.Hex(),
		"target", holder.Hex(),
		"key", key,
	)
	return nil
}

func (s *Service) RemoveClaim(ctx context.Context, registry, holder domain.Address, claim eligibility.Claim) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "remove_claim", registry, func(ctx context.Context) error {
		r, err := s.registry(registry)
		if err != nil {
			return err
		}
		return r.RemoveClaim(ctx, caller, holder, claim)
	}, attribute.String("holder", holder.Hex()), attribute.Int64("topic", int64(claim.Topic)))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventClaimRemoved),
		"subject", registry.Hex(),
		"target", holder.Hex(),
		"key", strconv.FormatUint(claim.Topic, 10),
		"issuer", claim.Issuer.Hex(),
	)
	return nil
}

func (s *Service) AddTopic(ctx context.Context, list domain.Address, topic uint64) error {
	return s.topicOp(ctx, "add_topic", audit.EventTopicAdded, list, topic, (*eligibility.TopicList).AddTopic)
}

func (s *Service) RemoveTopic(ctx context.Context, list domain.Address, topic uint64) error {
	return s.topicOp(ctx, "remove_topic", audit.EventTopicRemoved, list, topic, (*eligibility.TopicList).RemoveTopic)
}

type topicFunc func(*eligibility.TopicList, context.Context, domain.Address, uint64) error

func (s *Service) topicOp(ctx context.Context, op string, event audit.AuditEvent, list domain.Address, topic uint64, fn topicFunc) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, op, list, func(ctx context.Context) error {
		l, err := chain.Resolve[*eligibility.TopicList](s.chain, list)
		if err != nil {
			return ErrTopicListNotFound
		}
		return fn(l, ctx, caller, topic)
	}, attribute.Int64("topic", int64(topic)))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(event),
		"subject", list.Hex(),
		"key", strconv.FormatUint(topic, 10),
	)
	return nil
}

// AddIssuer trusts issuer for topics, or replaces the topics of an issuer
// that is already trusted.
func (s *Service) AddIssuer(ctx context.Context, list, issuer domain.Address, topics []uint64) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "add_issuer", list, func(ctx context.Context) error {
		l, err := s.issuerList(list)
		if err != nil {
			return err
		}
		return l.AddIssuer(ctx, caller, issuer, topics)
	}, attribute.String("issuer", issuer.Hex()))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventIssuerTrusted),
		"subject", list.Hex(),
		"target", issuer.Hex(),
	)
	return nil
}

func (s *Service) RemoveIssuer(ctx context.Context, list, issuer domain.Address) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "remove_issuer", list, func(ctx context.Context) error {
		l, err := s.issuerList(list)
		if err != nil {
			return err
		}
		return l.RemoveIssuer(ctx, caller, issuer)
	}, attribute.String("issuer", issuer.Hex()))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventIssuerRemoved),
		"subject", list.Hex(),
		"target", issuer.Hex(),
	)
	return nil
}

// LinkRegistry lets registry write identities into storage.
func (s *Service) LinkRegistry(ctx context.Context, storage, registry domain.Address) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "link_registry", storage, func(ctx context.Context) error {
		st, err := s.storage(storage)
		if err != nil {
			return err
		}
		return st.LinkRegistry(ctx, caller, registry)
	}, attribute.String("registry", registry.Hex()))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventRegistryLinked),
		"subject", storage.Hex(),
		"target", registry.Hex(),
	)
	return nil
}

func (s *Service) UnlinkRegistry(ctx context.Context, storage, registry domain.Address) error {
	caller := requestcontext.Principal(ctx)
	err := s.run(ctx, "unlink_registry", storage, func(ctx context.Context) error {
		st, err := s.storage(storage)
		if err != nil {
			return err
		}
		return st.UnlinkRegistry(ctx, caller, registry)
	}, attribute.String("registry", registry.Hex()))
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventRegistryUnlinked),
		"subject", storage.Hex(),
		"target", registry.Hex(),
	)
	return nil
}

// Registry returns a snapshot of one registry.
func (s *Service) Registry(ctx context.Context, registry domain.Address) (*eligibility.View, error) {
	var view *eligibility.View
	err := s.chain.View(ctx, func(ctx context.Context) error {
		r, err := s.registry(registry)
		if err != nil {
			return err
		}
		view = r.Snapshot()
		return nil
	})
	return view, err
}

// Holder returns what registry knows about holder, including eligibility.
func (s *Service) Holder(ctx context.Context, registry, holder domain.Address) (*eligibility.HolderView, error) {
	var view *eligibility.HolderView
	err := s.chain.View(ctx, func(ctx context.Context) error {
		r, err := s.registry(registry)
		if err != nil {
			return err
		}
		view = r.Holder(holder)
		return nil
	})
	return view, err
}

func (s *Service) registry(addr domain.Address) (*eligibility.Registry, error) {
	r, err := chain.Resolve[*eligibility.Registry](s.chain, addr)
	if err != nil {
		return nil, ErrRegistryNotFound
	}
	return r, nil
}

func (s *Service) storage(addr domain.Address) (*eligibility.Storage, error) {
	st, err := chain.Resolve[*eligibility.Storage](s.chain, addr)
	if err != nil {
		return nil, ErrStorageNotFound
	}
	return st, nil
}

func (s *Service) issuerList(addr domain.Address) (*eligibility.IssuerList, error) {
	l, err := chain.Resolve[*eligibility.IssuerList](s.chain, addr)
	if err != nil {
		return nil, ErrIssuerListNotFound
	}
	return l, nil
}

func (s *Service) run(ctx context.Context, op string, target domain.Address, fn func(ctx context.Context) error, extra ...attribute.KeyValue) (err error) {
	start := time.Now()
	ctx, span := tracing.Start(ctx, s.tracer, "eligibility."+op,
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
		Subject:   attrs.ExtractString(attributes, "subject"),
		Action:    event,
		Target:    attrs.ExtractString(attributes, "target"),
		Key:       attrs.ExtractString(attributes, "key"),
		RequestID: requestcontext.RequestID(ctx),
	})
}
