package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	jwttoken "assetgov/internal/jwt_token"
	"assetgov/pkg/domain"
	"assetgov/pkg/platform/httputil"
	"assetgov/pkg/requestcontext"
	"assetgov/pkg/testutil"
)

type whoami struct{}

func (whoami) Register(r chi.Router) {
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"principal":  requestcontext.Principal(r.Context()).Hex(),
			"request_id": requestcontext.RequestID(r.Context()),
		})
	})
}

// Justification: every module sits behind the same middleware chain, so a
// broken router would expose or hide all of them at once.
type RouterSuite struct {
	suite.Suite
	jwt     *jwttoken.JWTService
	healthy error
	router  http.Handler
	admin   domain.Address
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.jwt = jwttoken.NewJWTService("test-key", "assetgov", "assetgov-api")
	s.healthy = nil
	s.admin = domain.NamedAddress("admin")
	s.router = NewRouter(RouterConfig{
		Logger:     logger,
		Validator:  jwttoken.NewJWTServiceAdapter(s.jwt),
		Tokens:     s.jwt,
		AdminToken: "operator-secret",
		Health: []HealthCheck{{Name: "postgres", Check: func(context.Context) error {
			return s.healthy
		}}},
		Modules: []Module{whoami{}},
	})
}

func (s *RouterSuite) TestHealth() {
	s.Run("ok", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))
		s.Equal(http.StatusOK, rr.Code)
		testutil.AssertJSONContains(s.T(), rr, "status", "ok")
	})

	s.Run("degraded", func() {
		s.healthy = errors.New("connection refused")
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))
		s.Equal(http.StatusServiceUnavailable, rr.Code)
		testutil.AssertJSONContains(s.T(), rr, "status", "degraded")
	})
}

func (s *RouterSuite) TestMetricsAreOpen() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/metrics"))
	s.Equal(http.StatusOK, rr.Code)
}

func (s *RouterSuite) TestModulesNeedBearer() {
	s.Run("anonymous", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/whoami"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("authenticated", func() {
		token, err := s.jwt.GenerateAccessToken(s.admin, time.Minute)
		s.Require().NoError(err)
		req := testutil.NewRequest(s.T(), http.MethodGet, "/whoami")
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("X-Request-ID", "req-1")

		rr := testutil.DoRequest(s.router, req)
		s.Require().Equal(http.StatusOK, rr.Code)
		testutil.AssertJSONContains(s.T(), rr, "principal", s.admin.Hex())
		testutil.AssertJSONContains(s.T(), rr, "request_id", "req-1")
		s.Equal("req-1", rr.Header().Get("X-Request-ID"))
	})
}

func (s *RouterSuite) TestIssueToken() {
	body := map[string]any{"principal": s.admin.Hex(), "ttl": "10m"}

	s.Run("admin token required", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/tokens", body)
		s.Equal(http.StatusUnauthorized, testutil.DoRequest(s.router, req).Code)
	})

	s.Run("ttl bounded", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/tokens", map[string]any{"principal": s.admin.Hex(), "ttl": "72h"})
		req.Header.Set("X-Admin-Token", "operator-secret")
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusBadRequest, "validation_error")
	})

	s.Run("issued token authenticates", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/tokens", body)
		req.Header.Set("X-Admin-Token", "operator-secret")
		rr := testutil.DoRequest(s.router, req)
		s.Require().Equal(http.StatusCreated, rr.Code)
		resp := testutil.UnmarshalResponse[TokenResponse](s.T(), rr)
		s.Equal(int64(600), resp.ExpiresIn)

		claims, err := s.jwt.ValidateToken(resp.AccessToken)
		s.Require().NoError(err)
		s.Equal(s.admin.Hex(), claims.Subject)
	})
}
