package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"assetgov/internal/deployment"
	"assetgov/internal/deployment/store"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/httputil"
	"assetgov/pkg/requestcontext"
)

// Service defines the coordinator operations exposed over HTTP.
type Service interface {
	DeploySuite(ctx context.Context, key string, ac deployment.AssetConfig, ec deployment.EligibilityConfig) (domain.Suite, error)
	Deployment(ctx context.Context, key string) (store.Record, error)
	ProposeOwner(ctx context.Context, component, newOwner domain.Address) error
	AcceptOwner(ctx context.Context, component domain.Address) error
	CancelOwnerProposal(ctx context.Context, component domain.Address) error
	Component(ctx context.Context, addr domain.Address) (*deployment.ComponentView, error)
	SetReference(ctx context.Context, registry domain.Address) error
}

// Handler wires deployment endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts deployment and component ownership endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/deployments", h.HandleDeploy)
	r.Get("/deployments/{key}", h.HandleGetDeployment)
	r.Put("/coordinator/reference", h.HandleSetReference)
	r.Route("/components/{component}", func(r chi.Router) {
		r.Get("/", h.HandleGetComponent)
		r.Post("/ownership/proposal", h.HandleProposeOwner)
		r.Delete("/ownership/proposal", h.HandleCancelProposal)
		r.Post("/ownership/accept", h.HandleAcceptOwner)
	})
}

func (h *Handler) HandleDeploy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[DeployRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	suite, err := h.service.DeploySuite(ctx, req.Key, req.assetConfig, req.eligibilityConfig)
	if err != nil {
		h.logger.WarnContext(ctx, "deployment failed",
			"request_id", requestID,
			"key", req.Key,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, &DeploymentResponse{Key: req.Key, Suite: suite})
}

func (h *Handler) HandleGetDeployment(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "key is required"))
		return
	}
	rec, err := h.service.Deployment(r.Context(), key)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) HandleSetReference(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ReferenceRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.SetReference(ctx, req.parsed); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleGetComponent(w http.ResponseWriter, r *http.Request) {
	addr, ok := httputil.AddressParam(w, r, "component")
	if !ok {
		return
	}
	h.writeComponent(w, r, addr)
}

func (h *Handler) HandleProposeOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := httputil.AddressParam(w, r, "component")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ProposalRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.ownership(w, r, "ownership proposal failed", addr, func(ctx context.Context) error {
		return h.service.ProposeOwner(ctx, addr, req.parsed)
	})
}

func (h *Handler) HandleCancelProposal(w http.ResponseWriter, r *http.Request) {
	addr, ok := httputil.AddressParam(w, r, "component")
	if !ok {
		return
	}
	h.ownership(w, r, "ownership cancel failed", addr, func(ctx context.Context) error {
		return h.service.CancelOwnerProposal(ctx, addr)
	})
}

// HandleAcceptOwner completes a proposal for the authenticated principal.
func (h *Handler) HandleAcceptOwner(w http.ResponseWriter, r *http.Request) {
	addr, ok := httputil.AddressParam(w, r, "component")
	if !ok {
		return
	}
	h.ownership(w, r, "ownership accept failed", addr, func(ctx context.Context) error {
		return h.service.AcceptOwner(ctx, addr)
	})
}

func (h *Handler) ownership(w http.ResponseWriter, r *http.Request, msg string, addr domain.Address, fn func(ctx context.Context) error) {
	ctx := r.Context()
	if err := fn(ctx); err != nil {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"component", addr.Hex(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.writeComponent(w, r, addr)
}

func (h *Handler) writeComponent(w http.ResponseWriter, r *http.Request, addr domain.Address) {
	view, err := h.service.Component(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}
