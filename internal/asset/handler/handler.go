package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"assetgov/internal/asset"
	"assetgov/pkg/domain"
	"assetgov/pkg/platform/httputil"
	"assetgov/pkg/requestcontext"
)

// Service defines the asset operations exposed over HTTP.
type Service interface {
	Mint(ctx context.Context, addr, to domain.Address, amount uint64) error
	Burn(ctx context.Context, addr, from domain.Address, amount uint64) error
	Transfer(ctx context.Context, addr, to domain.Address, amount uint64) error
	ForcedTransfer(ctx context.Context, addr, from, to domain.Address, amount uint64) error
	SetPaused(ctx context.Context, addr domain.Address, paused bool) error
	SetCompliance(ctx context.Context, addr, engine domain.Address) error
	SetEligibilityRegistry(ctx context.Context, addr, registry domain.Address) error
	Asset(ctx context.Context, addr domain.Address) (*asset.View, error)
	Balance(ctx context.Context, addr, holder domain.Address) (*asset.BalanceView, error)
}

// Handler wires asset endpoints to the service.
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

// Register mounts asset endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/assets/{asset}", func(r chi.Router) {
		r.Get("/", h.HandleGetAsset)
		r.Get("/balances/{holder}", h.HandleGetBalance)
		r.Post("/mints", h.HandleMint)
		r.Post("/burns", h.HandleBurn)
		r.Post("/transfers", h.HandleTransfer)
		r.Post("/forced-transfers", h.HandleForcedTransfer)
		r.Put("/paused", h.HandleSetPaused)
		r.Put("/compliance", h.HandleSetCompliance)
		r.Put("/eligibility-registry", h.HandleSetEligibilityRegistry)
	})
}

func (h *Handler) HandleGetAsset(w http.ResponseWriter, r *http.Request) {
	addr, ok := httputil.AddressParam(w, r, "asset")
	if !ok {
		return
	}
	view, err := h.service.Asset(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	addr, ok := httputil.AddressParam(w, r, "asset")
	if !ok {
		return
	}
	holder, ok := httputil.AddressParam(w, r, "holder")
	if !ok {
		return
	}
	view, err := h.service.Balance(r.Context(), addr, holder)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, "mint", false, true, func(ctx context.Context, addr domain.Address, req *MovementRequest) (domain.Address, error) {
		return req.parsedTo, h.service.Mint(ctx, addr, req.parsedTo, req.Amount)
	})
}

func (h *Handler) HandleBurn(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, "burn", true, false, func(ctx context.Context, addr domain.Address, req *MovementRequest) (domain.Address, error) {
		return req.parsedFrom, h.service.Burn(ctx, addr, req.parsedFrom, req.Amount)
	})
}

// HandleTransfer moves units out of the authenticated principal's balance.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, "transfer", false, true, func(ctx context.Context, addr domain.Address, req *MovementRequest) (domain.Address, error) {
		return req.parsedTo, h.service.Transfer(ctx, addr, req.parsedTo, req.Amount)
	})
}

func (h *Handler) HandleForcedTransfer(w http.ResponseWriter, r *http.Request) {
	h.movement(w, r, "forced transfer", true, true, func(ctx context.Context, addr domain.Address, req *MovementRequest) (domain.Address, error) {
		return req.parsedTo, h.service.ForcedTransfer(ctx, addr, req.parsedFrom, req.parsedTo, req.Amount)
	})
}

type movementFunc func(ctx context.Context, addr domain.Address, req *MovementRequest) (domain.Address, error)

// movement decodes a MovementRequest, runs fn and answers with the balance
// of the holder fn names.
func (h *Handler) movement(w http.ResponseWriter, r *http.Request, op string, needFrom, needTo bool, fn movementFunc) {
	ctx := r.Context()
	addr, ok := httputil.AddressParam(w, r, "asset")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[MovementRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := req.require(needFrom, needTo); err != nil {
		httputil.WriteError(w, err)
		return
	}

	holder, err := fn(ctx, addr, req)
	if err != nil {
		h.logFailure(ctx, op+" failed", addr, err)
		httputil.WriteError(w, err)
		return
	}
	view, err := h.service.Balance(ctx, addr, holder)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleSetPaused(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := httputil.AddressParam(w, r, "asset")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PausedRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.SetPaused(ctx, addr, *req.Paused); err != nil {
		h.logFailure(ctx, "pause failed", addr, err)
		httputil.WriteError(w, err)
		return
	}
	h.writeAsset(w, r, addr)
}

func (h *Handler) HandleSetCompliance(w http.ResponseWriter, r *http.Request) {
	h.reference(w, r, "set compliance", h.service.SetCompliance)
}

func (h *Handler) HandleSetEligibilityRegistry(w http.ResponseWriter, r *http.Request) {
	h.reference(w, r, "set eligibility registry", h.service.SetEligibilityRegistry)
}

func (h *Handler) reference(w http.ResponseWriter, r *http.Request, op string, fn func(ctx context.Context, addr, target domain.Address) error) {
	ctx := r.Context()
	addr, ok := httputil.AddressParam(w, r, "asset")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReferenceRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := fn(ctx, addr, req.parsed); err != nil {
		h.logFailure(ctx, op+" failed", addr, err)
		httputil.WriteError(w, err)
		return
	}
	h.writeAsset(w, r, addr)
}

func (h *Handler) writeAsset(w http.ResponseWriter, r *http.Request, addr domain.Address) {
	view, err := h.service.Asset(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) logFailure(ctx context.Context, msg string, addr domain.Address, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"asset", addr.Hex(),
		"error", err,
	)
}
