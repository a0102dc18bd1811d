package httptransport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/httputil"
	"assetgov/pkg/requestcontext"
)

const (
	defaultTokenTTL = time.Hour
	maxTokenTTL     = 24 * time.Hour
)

// TokenIssuer signs access tokens for a principal.
type TokenIssuer interface {
	GenerateAccessToken(principal domain.Address, expiresIn time.Duration) (string, error)
}

// TokenHandler lets operators holding the admin token mint bearer tokens for
// principals.
type TokenHandler struct {
	issuer TokenIssuer
	logger *slog.Logger
}

func NewTokenHandler(issuer TokenIssuer, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{issuer: issuer, logger: logger}
}

func (h *TokenHandler) Register(r chi.Router) {
	r.Post("/admin/tokens", h.HandleIssue)
}

type TokenRequest struct {
	Principal string `json:"principal"`
	TTL       string `json:"ttl,omitempty"`

	principal domain.Address
	ttl       time.Duration
}

func (r *TokenRequest) Validate() error {
	p, err := httputil.RequiredAddress("principal", r.Principal)
	if err != nil {
		return err
	}
	r.principal = p
	r.ttl = defaultTokenTTL
	if ttl := strings.TrimSpace(r.TTL); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 || d > maxTokenTTL {
			return dErrors.New(dErrors.CodeValidation, "ttl must be a positive duration of at most 24h")
		}
		r.ttl = d
	}
	return nil
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (h *TokenHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[TokenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	token, err := h.issuer.GenerateAccessToken(req.principal, req.ttl)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to sign access token",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "sign token"))
		return
	}
	h.logger.InfoContext(ctx, "access token issued",
		"request_id", requestID,
		"principal", req.principal.Hex(),
		"ttl", req.ttl.String(),
		"log_type", "audit",
	)
	httputil.WriteJSON(w, http.StatusCreated, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(req.ttl.Seconds()),
	})
}
