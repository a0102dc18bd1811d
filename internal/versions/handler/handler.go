package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"assetgov/internal/versions"
	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
	"assetgov/pkg/platform/httputil"
	"assetgov/pkg/requestcontext"
)

// Service defines the registry operations exposed over HTTP.
type Service interface {
	AddVersion(ctx context.Context, registry domain.Address, v domain.Version, b domain.Bundle, promote bool) error
	Promote(ctx context.Context, registry domain.Address, v domain.Version) error
	Fetch(ctx context.Context, registry domain.Address, v domain.Version) (domain.Bundle, error)
	MigrateSuite(ctx context.Context, registry, asset, newAuthority domain.Address) (domain.Address, error)
	Registry(ctx context.Context, registry domain.Address) (*versions.View, error)
}

// Handler wires registry endpoints to the versions service.
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

// Register mounts registry endpoints on the router. All of them expect an
// authenticated principal.
func (h *Handler) Register(r chi.Router) {
	r.Get("/registries/{registry}", h.HandleGetRegistry)
	r.Post("/registries/{registry}/versions", h.HandleAddVersion)
	r.Put("/registries/{registry}/active-version", h.HandlePromote)
	r.Post("/registries/{registry}/versions/{version}/fetch", h.HandleFetch)
	r.Post("/registries/{registry}/migrations", h.HandleMigrate)
}

// HandleGetRegistry handles GET /registries/{registry}.
func (h *Handler) HandleGetRegistry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	registry, ok := h.registryParam(w, r)
	if !ok {
		return
	}

	view, err := h.service.Registry(ctx, registry)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleAddVersion handles POST /registries/{registry}/versions.
func (h *Handler) HandleAddVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	registry, ok := h.registryParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddVersionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.AddVersion(ctx, registry, req.ParsedVersion(), req.Bundle, req.Promote); err != nil {
		h.logger.WarnContext(ctx, "add version failed",
			"request_id", requestID,
			"registry", registry.Hex(),
			"version", req.Version,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, &VersionResponse{
		Registry: registry,
		Version:  req.ParsedVersion().String(),
		Active:   req.Promote,
	})
}

// HandlePromote handles PUT /registries/{registry}/active-version.
func (h *Handler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	registry, ok := h.registryParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PromoteRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Promote(ctx, registry, req.ParsedVersion()); err != nil {
		h.logger.WarnContext(ctx, "promote failed",
			"request_id", requestID,
			"registry", registry.Hex(),
			"version", req.Version,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &VersionResponse{
		Registry: registry,
		Version:  req.ParsedVersion().String(),
		Active:   true,
	})
}

// HandleFetch handles POST /registries/{registry}/versions/{version}/fetch.
func (h *Handler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	registry, ok := h.registryParam(w, r)
	if !ok {
		return
	}
	v, err := domain.ParseVersion(chi.URLParam(r, "version"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	bundle, err := h.service.Fetch(ctx, registry, v)
	if err != nil {
		h.logger.WarnContext(ctx, "fetch failed",
			"request_id", requestID,
			"registry", registry.Hex(),
			"version", v.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &FetchResponse{
		Registry: registry,
		Version:  v.String(),
		Bundle:   bundle,
	})
}

// HandleMigrate handles POST /registries/{registry}/migrations.
func (h *Handler) HandleMigrate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	registry, ok := h.registryParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[MigrateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	authority, err := h.service.MigrateSuite(ctx, registry, req.ParsedAsset(), req.ParsedAuthority())
	if err != nil {
		h.logger.WarnContext(ctx, "suite migration failed",
			"request_id", requestID,
			"registry", registry.Hex(),
			"asset", req.Asset,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &MigrationResponse{
		Asset:     req.ParsedAsset(),
		Authority: authority,
	})
}

func (h *Handler) registryParam(w http.ResponseWriter, r *http.Request) (domain.Address, bool) {
	registry, err := domain.ParseAddress(chi.URLParam(r, "registry"))
	if err != nil {
		httputil.WriteError(w, err)
		return domain.ZeroAddress, false
	}
	if registry.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "registry must not be the zero address"))
		return domain.ZeroAddress, false
	}
	return registry, true
}
