package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"assetgov/internal/compliance"
	"assetgov/internal/compliance/modules"
	"assetgov/pkg/domain"
	"assetgov/pkg/platform/httputil"
	"assetgov/pkg/requestcontext"
)

// Service defines the compliance operations exposed over HTTP.
type Service interface {
	BindModule(ctx context.Context, engine, module domain.Address) error
	UnbindModule(ctx context.Context, engine, module domain.Address) error
	Forward(ctx context.Context, engine, module domain.Address, call modules.Call) error
	CallModule(ctx context.Context, module domain.Address, call modules.Call) error
	Preset(ctx context.Context, engine, module domain.Address, balances map[domain.Address]uint64, complete bool) error
	CheckTransfer(ctx context.Context, engine, from, to domain.Address, amount uint64) (compliance.Verdict, error)
	Engine(ctx context.Context, engine domain.Address) (*compliance.View, error)
}

// Handler wires engine endpoints to the compliance service.
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

// Register mounts compliance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/engines/{engine}", h.HandleGetEngine)
	r.Post("/engines/{engine}/modules", h.HandleBindModule)
	r.Delete("/engines/{engine}/modules/{module}", h.HandleUnbindModule)
	r.Post("/engines/{engine}/modules/{module}/calls", h.HandleForward)
	r.Post("/engines/{engine}/modules/{module}/presets", h.HandlePreset)
	r.Post("/engines/{engine}/checks", h.HandleCheck)
	r.Post("/modules/{module}/calls", h.HandleCallModule)
}

func (h *Handler) HandleGetEngine(w http.ResponseWriter, r *http.Request) {
	engine, ok := httputil.AddressParam(w, r, "engine")
	if !ok {
		return
	}
	view, err := h.service.Engine(r.Context(), engine)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleBindModule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	engine, ok := httputil.AddressParam(w, r, "engine")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[BindModuleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.BindModule(ctx, engine, req.ParsedModule()); err != nil {
		h.logFailure(ctx, "bind module failed", engine, req.ParsedModule(), err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, &ModuleResponse{Engine: engine, Module: req.ParsedModule(), Bound: true})
}

func (h *Handler) HandleUnbindModule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	engine, ok := httputil.AddressParam(w, r, "engine")
	if !ok {
		return
	}
	module, ok := httputil.AddressParam(w, r, "module")
	if !ok {
		return
	}

	if err := h.service.UnbindModule(ctx, engine, module); err != nil {
		h.logFailure(ctx, "unbind module failed", engine, module, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &ModuleResponse{Engine: engine, Module: module, Bound: false})
}

func (h *Handler) HandleForward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	engine, ok := httputil.AddressParam(w, r, "engine")
	if !ok {
		return
	}
	module, ok := httputil.AddressParam(w, r, "module")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CallRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Forward(ctx, engine, module, req.Call); err != nil {
		h.logFailure(ctx, "forward failed", engine, module, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &CallResponse{Module: module, Method: req.Method, Calls: callCount(req.Call)})
}

func (h *Handler) HandleCallModule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	module, ok := httputil.AddressParam(w, r, "module")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CallRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.CallModule(ctx, module, req.Call); err != nil {
		h.logFailure(ctx, "module call failed", domain.ZeroAddress, module, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &CallResponse{Module: module, Method: req.Method, Calls: callCount(req.Call)})
}

func (h *Handler) HandlePreset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	engine, ok := httputil.AddressParam(w, r, "engine")
	if !ok {
		return
	}
	module, ok := httputil.AddressParam(w, r, "module")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PresetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Preset(ctx, engine, module, req.ParsedBalances(), req.Complete); err != nil {
		h.logFailure(ctx, "preset failed", engine, module, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	engine, ok := httputil.AddressParam(w, r, "engine")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	verdict, err := h.service.CheckTransfer(ctx, engine, req.ParsedFrom(), req.ParsedTo(), req.Amount)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, verdict)
}

func (h *Handler) logFailure(ctx context.Context, msg string, engine, module domain.Address, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"engine", engine.Hex(),
		"module", module.Hex(),
		"error", err,
	)
}

func callCount(c modules.Call) int {
	if c.Method == modules.MethodBatch {
		return len(c.Calls)
	}
	return 1
}
