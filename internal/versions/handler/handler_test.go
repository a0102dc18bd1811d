package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"assetgov/internal/capability"
	"assetgov/internal/chain"
	"assetgov/internal/versions"
	"assetgov/internal/versions/service"
	"assetgov/pkg/domain"
	"assetgov/pkg/testutil"
)

// HandlerSuite drives the registry endpoints against a real service.
// Handler tests validate HTTP concerns: parsing, status mapping, bodies.
type HandlerSuite struct {
	suite.Suite
	router    http.Handler
	admin     domain.Address
	reference domain.Address
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	c := chain.New(chain.WithLogger(logger))
	auth := capability.NewTable()
	s.admin = domain.NamedAddress("admin")
	s.reference = domain.NamedAddress("reference")

	reg := versions.NewRegistry(c, auth, s.reference, true, nil)
	s.Require().NoError(c.Execute(context.Background(), func(ctx context.Context) error {
		auth.Grant(ctx, s.admin, capability.Admin(s.reference))
		return c.Deploy(ctx, s.reference, reg)
	}))

	h := New(service.New(c, service.WithLogger(logger)), logger)
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func bundleBody(label string) domain.Bundle {
	return domain.Bundle{
		Asset:               domain.NamedAddress(label + "/asset"),
		TopicList:           domain.NamedAddress(label + "/topics"),
		IssuerList:          domain.NamedAddress(label + "/issuers"),
		EligibilityStorage:  domain.NamedAddress(label + "/storage"),
		EligibilityRegistry: domain.NamedAddress(label + "/registry"),
		Compliance:          domain.NamedAddress(label + "/compliance"),
	}
}

func (s *HandlerSuite) do(req *http.Request, principal domain.Address) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.WithPrincipal(req, principal))
}

func (s *HandlerSuite) path(suffix string) string {
	return "/registries/" + s.reference.Hex() + suffix
}

func (s *HandlerSuite) TestAddVersion() {
	s.Run("invalid json", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, s.path("/versions"), "not json")
		res := s.do(req, s.admin)
		testutil.AssertStatusAndError(s.T(), res, http.StatusBadRequest, "bad_request")
	})

	s.Run("malformed version", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.path("/versions"), map[string]any{
			"version": "1.two.3",
			"bundle":  bundleBody("a"),
		})
		res := s.do(req, s.admin)
		testutil.AssertStatusAndError(s.T(), res, http.StatusBadRequest, "invalid_input")
	})

	s.Run("malformed registry address", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/registries/nope/versions", map[string]any{
			"version": "1.0.0",
			"bundle":  bundleBody("a"),
		})
		res := s.do(req, s.admin)
		testutil.AssertStatus(s.T(), res, http.StatusBadRequest)
	})

	s.Run("non-admin is forbidden", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.path("/versions"), map[string]any{
			"version": "1.0.0",
			"bundle":  bundleBody("a"),
		})
		res := s.do(req, domain.NamedAddress("mallory"))
		testutil.AssertStatusAndError(s.T(), res, http.StatusForbidden, "forbidden")
	})

	s.Run("admin adds and promotes", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.path("/versions"), map[string]any{
			"version": "1.0.0",
			"bundle":  bundleBody("a"),
			"promote": true,
		})
		res := s.do(req, s.admin)
		s.Require().Equal(http.StatusCreated, res.Code)
		body := testutil.UnmarshalResponse[VersionResponse](s.T(), res)
		s.Equal("1.0.0", body.Version)
		s.True(body.Active)
	})

	s.Run("duplicate conflicts", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.path("/versions"), map[string]any{
			"version": "1.0.0",
			"bundle":  bundleBody("b"),
		})
		res := s.do(req, s.admin)
		testutil.AssertStatusAndError(s.T(), res, http.StatusConflict, "conflict")
	})
}

func (s *HandlerSuite) TestPromoteAndRead() {
	for _, v := range []string{"1.0.0", "1.1.0"} {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.path("/versions"), map[string]any{
			"version": v,
			"bundle":  bundleBody(v),
		})
		s.Require().Equal(http.StatusCreated, s.do(req, s.admin).Code)
	}

	req := testutil.NewJSONRequest(s.T(), http.MethodPut, s.path("/active-version"), map[string]any{"version": "1.1.0"})
	s.Require().Equal(http.StatusOK, s.do(req, s.admin).Code)

	res := s.do(testutil.NewRequest(s.T(), http.MethodGet, s.path("")), s.admin)
	s.Require().Equal(http.StatusOK, res.Code)
	view := testutil.UnmarshalResponse[versions.View](s.T(), res)
	s.True(view.Reference)
	s.Require().NotNil(view.ActiveVersion)
	s.Equal("1.1.0", view.ActiveVersion.String())
	s.Equal(bundleBody("1.1.0"), *view.ActiveBundle)
	s.Len(view.Versions, 2)

	s.Run("unknown version", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPut, s.path("/active-version"), map[string]any{"version": "9.9.9"})
		testutil.AssertStatusAndError(s.T(), s.do(req, s.admin), http.StatusNotFound, "not_found")
	})
}

func (s *HandlerSuite) TestFetchOnReference() {
	req := testutil.NewRequest(s.T(), http.MethodPost, s.path("/versions/1.0.0/fetch"))
	testutil.AssertStatusAndError(s.T(), s.do(req, s.admin), http.StatusForbidden, "forbidden")
}

func (s *HandlerSuite) TestUnknownRegistry() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/registries/"+domain.NamedAddress("ghost").Hex())
	testutil.AssertStatusAndError(s.T(), s.do(req, s.admin), http.StatusNotFound, "not_found")
}

func (s *HandlerSuite) TestMigrateValidation() {
	s.Run("asset required", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.path("/migrations"), map[string]any{})
		testutil.AssertStatusAndError(s.T(), s.do(req, s.admin), http.StatusBadRequest, "validation_error")
	})

	s.Run("unknown asset", func() {
		add := testutil.NewJSONRequest(s.T(), http.MethodPost, s.path("/versions"), map[string]any{
			"version": "1.0.0",
			"bundle":  bundleBody("a"),
			"promote": true,
		})
		s.Require().Equal(http.StatusCreated, s.do(add, s.admin).Code)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.path("/migrations"), map[string]any{
			"asset": domain.NamedAddress("ghost").Hex(),
		})
		testutil.AssertStatusAndError(s.T(), s.do(req, s.admin), http.StatusNotFound, "not_found")
	})
}
