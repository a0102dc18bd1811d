package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"assetgov/internal/eligibility"
	"assetgov/internal/eligibility/handler/mocks"
	"assetgov/pkg/domain"
	"assetgov/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type HandlerSuite struct {
	suite.Suite
	router   http.Handler
	service  *mocks.MockService
	registry domain.Address
	holder   domain.Address
	issuer   domain.Address
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(s.service, logger).Register(r)
	s.router = r
	s.registry = domain.NamedAddress("registry")
	s.holder = domain.NamedAddress("holder")
	s.issuer = domain.NamedAddress("issuer")
}

func (s *HandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, req)
}

func (s *HandlerSuite) holderPath(suffix string) string {
	return "/eligibility/" + s.registry.Hex() + "/holders/" + s.holder.Hex() + suffix
}

func (s *HandlerSuite) TestRegisterHolder() {
	path := "/eligibility/" + s.registry.Hex() + "/holders"

	s.Run("country required", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, path, map[string]string{"holder": s.holder.Hex()})
		testutil.AssertStatusAndError(s.T(), s.do(req), http.StatusBadRequest, "validation_error")
	})

	s.Run("country must be numeric", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, path, map[string]string{"holder": s.holder.Hex(), "country": "FR"})
		testutil.AssertStatusAndError(s.T(), s.do(req), http.StatusBadRequest, "invalid_input")
	})

	s.Run("unlinked registry is forbidden", func() {
		s.service.EXPECT().RegisterHolder(gomock.Any(), s.registry, s.holder, domain.Country(250)).Return(eligibility.ErrNotLinked)
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, path, map[string]string{"holder": s.holder.Hex(), "country": "250"})
		testutil.AssertStatusAndError(s.T(), s.do(req), http.StatusForbidden, "forbidden")
	})

	s.Run("registered", func() {
		s.service.EXPECT().RegisterHolder(gomock.Any(), s.registry, s.holder, domain.Country(250)).Return(nil)
		s.service.EXPECT().Holder(gomock.Any(), s.registry, s.holder).Return(&eligibility.HolderView{
			Holder: s.holder, Registered: true, Country: 250, Claims: []eligibility.Claim{},
		}, nil)
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, path, map[string]string{"holder": " " + s.holder.Hex() + " ", "country": "250"})
		rr := s.do(req)
		s.Require().Equal(http.StatusCreated, rr.Code)
		body := testutil.UnmarshalResponse[eligibility.HolderView](s.T(), rr)
		s.True(body.Registered)
		s.Equal(domain.Country(250), body.Country)
	})
}

func (s *HandlerSuite) TestClaims() {
	s.Run("topic required", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.holderPath("/claims"), map[string]any{})
		testutil.AssertStatusAndError(s.T(), s.do(req), http.StatusBadRequest, "validation_error")
	})

	s.Run("topic zero is a valid topic", func() {
		s.service.EXPECT().AddClaim(gomock.Any(), s.registry, s.holder, uint64(0)).Return(nil)
		s.service.EXPECT().Holder(gomock.Any(), s.registry, s.holder).Return(&eligibility.HolderView{Holder: s.holder}, nil)
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.holderPath("/claims"), map[string]any{"topic": 0})
		s.Equal(http.StatusCreated, s.do(req).Code)
	})

	s.Run("untrusted issuer", func() {
		s.service.EXPECT().AddClaim(gomock.Any(), s.registry, s.holder, uint64(1)).Return(eligibility.ErrUntrustedIssuer)
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.holderPath("/claims"), map[string]any{"topic": 1})
		testutil.AssertStatusAndError(s.T(), s.do(req), http.StatusForbidden, "forbidden")
	})

	s.Run("removal defaults to the principal as issuer", func() {
		s.service.EXPECT().RemoveClaim(gomock.Any(), s.registry, s.holder, eligibility.Claim{Topic: 7, Issuer: s.issuer}).Return(nil)
		req := testutil.WithPrincipal(testutil.NewRequest(s.T(), http.MethodDelete, s.holderPath("/claims/7")), s.issuer)
		s.Equal(http.StatusNoContent, s.do(req).Code)
	})

	s.Run("removal by agent names the issuer", func() {
		s.service.EXPECT().RemoveClaim(gomock.Any(), s.registry, s.holder, eligibility.Claim{Topic: 7, Issuer: s.issuer}).Return(nil)
		req := testutil.NewRequest(s.T(), http.MethodDelete, s.holderPath("/claims/7?issuer="+s.issuer.Hex()))
		s.Equal(http.StatusNoContent, s.do(req).Code)
	})

	s.Run("bad topic", func() {
		req := testutil.NewRequest(s.T(), http.MethodDelete, s.holderPath("/claims/kyc"))
		testutil.AssertStatusAndError(s.T(), s.do(req), http.StatusBadRequest, "invalid_input")
	})
}

func (s *HandlerSuite) TestHolderLifecycle() {
	s.Run("missing holder", func() {
		s.service.EXPECT().UpdateCountry(gomock.Any(), s.registry, s.holder, domain.Country(276)).Return(eligibility.ErrHolderMissing)
		req := testutil.NewJSONRequest(s.T(), http.MethodPatch, s.holderPath(""), map[string]string{"country": "276"})
		testutil.AssertStatusAndError(s.T(), s.do(req), http.StatusNotFound, "not_found")
	})

	s.Run("delete", func() {
		s.service.EXPECT().DeleteHolder(gomock.Any(), s.registry, s.holder).Return(nil)
		req := testutil.NewRequest(s.T(), http.MethodDelete, s.holderPath(""))
		s.Equal(http.StatusNoContent, s.do(req).Code)
	})

	s.Run("get", func() {
		s.service.EXPECT().Holder(gomock.Any(), s.registry, s.holder).Return(&eligibility.HolderView{Holder: s.holder, Eligible: true}, nil)
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, s.holderPath("")))
		s.Require().Equal(http.StatusOK, rr.Code)
		testutil.AssertJSONContains(s.T(), rr, "eligible", true)
	})
}

func (s *HandlerSuite) TestLists() {
	list := domain.NamedAddress("list")

	s.Run("topic list full", func() {
		s.service.EXPECT().AddTopic(gomock.Any(), list, uint64(3)).Return(eligibility.ErrTooManyTopics)
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/topic-lists/"+list.Hex()+"/topics", map[string]any{"topic": 3})
		testutil.AssertStatusAndError(s.T(), s.do(req), http.StatusBadRequest, "validation_error")
	})

	s.Run("trust issuer", func() {
		s.service.EXPECT().AddIssuer(gomock.Any(), list, s.issuer, []uint64{1, 3}).Return(nil)
		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/issuer-lists/"+list.Hex()+"/issuers/"+s.issuer.Hex(), map[string]any{"topics": []uint64{1, 3}})
		s.Equal(http.StatusNoContent, s.do(req).Code)
	})

	s.Run("issuer without topics", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/issuer-lists/"+list.Hex()+"/issuers/"+s.issuer.Hex(), map[string]any{"topics": []uint64{}})
		testutil.AssertStatusAndError(s.T(), s.do(req), http.StatusBadRequest, "validation_error")
	})

	s.Run("link cap", func() {
		storage := domain.NamedAddress("storage")
		s.service.EXPECT().LinkRegistry(gomock.Any(), storage, s.registry).Return(eligibility.ErrTooManyLinkedRegistries)
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/storages/"+storage.Hex()+"/links", map[string]string{"registry": s.registry.Hex()})
		testutil.AssertStatusAndError(s.T(), s.do(req), http.StatusBadRequest, "validation_error")
	})
}
