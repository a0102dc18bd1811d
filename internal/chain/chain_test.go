package chain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"assetgov/internal/platform/metrics"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/tx"
)

// =============================================================================
// Substrate Test Suite
// =============================================================================
// Justification: every multi-step operation in the system relies on the
// substrate reverting partial work. These tests pin the all-or-nothing contract.

type ChainSuite struct {
	suite.Suite
	chain *Chain
	ctx   context.Context
}

func TestChainSuite(t *testing.T) {
	suite.Run(t, new(ChainSuite))
}

func (s *ChainSuite) SetupTest() {
	s.chain = New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.ctx = context.Background()
}

type widget struct{ name string }

func (s *ChainSuite) TestDeployAndResolve() {
	addr := domain.NamedAddress("widget")

	err := s.chain.Execute(s.ctx, func(ctx context.Context) error {
		return s.chain.Deploy(ctx, addr, &widget{name: "w"})
	})
	s.Require().NoError(err)

	s.Run("resolves the deployed object", func() {
		w, err := Resolve[*widget](s.chain, addr)
		s.Require().NoError(err)
		s.Equal("w", w.name)
	})

	s.Run("wrong type is rejected", func() {
		_, err := Resolve[*ChainSuite](s.chain, addr)
		s.ErrorIs(err, ErrWrongKind)
	})

	s.Run("unknown address is rejected", func() {
		_, err := Resolve[*widget](s.chain, domain.NamedAddress("nobody"))
		s.ErrorIs(err, ErrNoCode)
	})

	s.Run("occupied address is rejected", func() {
		err := s.chain.Execute(s.ctx, func(ctx context.Context) error {
			return s.chain.Deploy(ctx, addr, &widget{})
		})
		s.ErrorIs(err, ErrAddressInUse)
	})

	s.Run("zero address is rejected", func() {
		err := s.chain.Execute(s.ctx, func(ctx context.Context) error {
			return s.chain.Deploy(ctx, domain.ZeroAddress, &widget{})
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *ChainSuite) TestFailedOperationRevertsEverything() {
	addr := domain.NamedAddress("half-built")
	counter := 0

	err := s.chain.Execute(s.ctx, func(ctx context.Context) error {
		if err := s.chain.Deploy(ctx, addr, &widget{}); err != nil {
			return err
		}
		tx.Set(ctx, &counter, 42)
		return errors.New("later step failed")
	})

	s.Require().Error(err)
	s.False(s.chain.Exists(addr), "deployment must be undone")
	s.Equal(0, counter)

	s.Run("retry at the same address succeeds", func() {
		err := s.chain.Execute(s.ctx, func(ctx context.Context) error {
			return s.chain.Deploy(ctx, addr, &widget{})
		})
		s.NoError(err)
	})
}

func (s *ChainSuite) TestPanicIsRevertedAndReported() {
	counter := 0
	err := s.chain.Execute(s.ctx, func(ctx context.Context) error {
		tx.Set(ctx, &counter, 1)
		panic("boom")
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Equal(0, counter)

	s.Run("substrate remains usable", func() {
		s.NoError(s.chain.Execute(s.ctx, func(context.Context) error { return nil }))
	})
}

func (s *ChainSuite) TestCancelledContextIsRejected() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	ran := false
	err := s.chain.Execute(ctx, func(context.Context) error {
		ran = true
		return nil
	})
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	s.False(ran)
}

func (s *ChainSuite) TestAddressesAreSorted() {
	a := domain.MustParseAddress("0x0000000000000000000000000000000000000002")
	b := domain.MustParseAddress("0x0000000000000000000000000000000000000001")
	s.Require().NoError(s.chain.Execute(s.ctx, func(ctx context.Context) error {
		if err := s.chain.Deploy(ctx, a, &widget{}); err != nil {
			return err
		}
		return s.chain.Deploy(ctx, b, &widget{})
	}))
	s.Equal([]domain.Address{b, a}, s.chain.Addresses())
}

func (s *ChainSuite) TestMetricsRecordOutcomes() {
	m := &metrics.Metrics{
		Operations:    prometheus.NewCounterVec(prometheus.CounterOpts{Name: "ops"}, []string{"outcome"}),
		RevertedSteps: prometheus.NewHistogram(prometheus.HistogramOpts{Name: "steps"}),
		LockWait:      prometheus.NewHistogram(prometheus.HistogramOpts{Name: "wait"}),
		Objects:       prometheus.NewGauge(prometheus.GaugeOpts{Name: "objects"}),
	}
	c := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), WithMetrics(m))

	s.Require().NoError(c.Execute(s.ctx, func(ctx context.Context) error {
		return c.Deploy(ctx, domain.NamedAddress("one"), &widget{})
	}))
	s.Require().Error(c.Execute(s.ctx, func(ctx context.Context) error {
		if err := c.Deploy(ctx, domain.NamedAddress("two"), &widget{}); err != nil {
			return err
		}
		return errors.New("boom")
	}))

	s.Equal(1.0, testutil.ToFloat64(m.Operations.WithLabelValues("committed")))
	s.Equal(1.0, testutil.ToFloat64(m.Operations.WithLabelValues("reverted")))
	s.Equal(1.0, testutil.ToFloat64(m.Objects))
}
