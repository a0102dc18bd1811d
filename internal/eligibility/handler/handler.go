package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"assetgov/internal/eligibility"
	"assetgov/pkg/domain"
	"assetgov/pkg/platform/httputil"
	"assetgov/pkg/requestcontext"
)

// Service defines the eligibility operations exposed over HTTP.
type Service interface {
	RegisterHolder(ctx context.Context, registry, holder domain.Address, country domain.Country) error
	UpdateCountry(ctx context.Context, registry, holder domain.Address, country domain.Country) error
	DeleteHolder(ctx context.Context, registry, holder domain.Address) error
	AddClaim(ctx context.Context, registry, holder domain.Address, topic uint64) error
	RemoveClaim(ctx context.Context, registry, holder domain.Address, claim eligibility.Claim) error
	AddTopic(ctx context.Context, list domain.Address, topic uint64) error
	RemoveTopic(ctx context.Context, list domain.Address, topic uint64) error
	AddIssuer(ctx context.Context, list, issuer domain.Address, topics []uint64) error
	RemoveIssuer(ctx context.Context, list, issuer domain.Address) error
	LinkRegistry(ctx context.Context, storage, registry domain.Address) error
	UnlinkRegistry(ctx context.Context, storage, registry domain.Address) error
	Registry(ctx context.Context, registry domain.Address) (*eligibility.View, error)
	Holder(ctx context.Context, registry, holder domain.Address) (*eligibility.HolderView, error)
}

// Handler wires eligibility endpoints to the service.
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

// Register mounts eligibility endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/eligibility/{registry}", func(r chi.Router) {
		r.Get("/", h.HandleGetRegistry)
		r.Post("/holders", h.HandleRegisterHolder)
		r.Get("/holders/{holder}", h.HandleGetHolder)
		r.Patch("/holders/{holder}", h.HandleUpdateCountry)
		r.Delete("/holders/{holder}", h.HandleDeleteHolder)
		r.Post("/holders/{holder}/claims", h.HandleAddClaim)
		r.Delete("/holders/{holder}/claims/{topic}", h.HandleRemoveClaim)
	})
	r.Post("/topic-lists/{list}/topics", h.HandleAddTopic)
	r.Delete("/topic-lists/{list}/topics/{topic}", h.HandleRemoveTopic)
	r.Put("/issuer-lists/{list}/issuers/{issuer}", h.HandlePutIssuer)
	r.Delete("/issuer-lists/{list}/issuers/{issuer}", h.HandleRemoveIssuer)
	r.Post("/storages/{storage}/links", h.HandleLink)
	r.Delete("/storages/{storage}/links/{registry}", h.HandleUnlink)
}

func (h *Handler) HandleGetRegistry(w http.ResponseWriter, r *http.Request) {
	registry, ok := httputil.AddressParam(w, r, "registry")
	if !ok {
		return
	}
	view, err := h.service.Registry(r.Context(), registry)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleGetHolder(w http.ResponseWriter, r *http.Request) {
	registry, holder, ok := holderParams(w, r)
	if !ok {
		return
	}
	view, err := h.service.Holder(r.Context(), registry, holder)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleRegisterHolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	registry, ok := httputil.AddressParam(w, r, "registry")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RegisterHolderRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	if err := h.service.RegisterHolder(ctx, registry, req.ParsedHolder(), req.ParsedCountry()); err != nil {
		h.logFailure(ctx, "register holder failed", registry, err)
		httputil.WriteError(w, err)
		return
	}
	h.writeHolder(w, r, http.StatusCreated, registry, req.ParsedHolder())
}

func (h *Handler) HandleUpdateCountry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	registry, holder, ok := holderParams(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateCountryRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	if err := h.service.UpdateCountry(ctx, registry, holder, req.ParsedCountry()); err != nil {
		h.logFailure(ctx, "update country failed", registry, err)
		httputil.WriteError(w, err)
		return
	}
	h.writeHolder(w, r, http.StatusOK, registry, holder)
}

func (h *Handler) HandleDeleteHolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	registry, holder, ok := holderParams(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteHolder(ctx, registry, holder); err != nil {
		h.logFailure(ctx, "delete holder failed", registry, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddClaim records a claim issued by the authenticated principal.
func (h *Handler) HandleAddClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	registry, holder, ok := holderParams(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ClaimRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	if err := h.service.AddClaim(ctx, registry, holder, *req.Topic); err != nil {
		h.logFailure(ctx, "add claim failed", registry, err)
		httputil.WriteError(w, err)
		return
	}
	h.writeHolder(w, r, http.StatusCreated, registry, holder)
}

// HandleRemoveClaim removes the claim on topic issued by the issuer query
// parameter, or by the principal when it is absent.
func (h *Handler) HandleRemoveClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	registry, holder, ok := holderParams(w, r)
	if !ok {
		return
	}
	topic, err := parseTopic(chi.URLParam(r, "topic"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	issuer := requestcontext.Principal(ctx)
	if raw := r.URL.Query().Get("issuer"); raw != "" {
		if issuer, err = httputil.RequiredAddress("issuer", raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	if err := h.service.RemoveClaim(ctx, registry, holder, eligibility.Claim{Topic: topic, Issuer: issuer}); err != nil {
		h.logFailure(ctx, "remove claim failed", registry, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleAddTopic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, ok := httputil.AddressParam(w, r, "list")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[TopicRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.AddTopic(ctx, list, *req.Topic); err != nil {
		h.logFailure(ctx, "add topic failed", list, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleRemoveTopic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, ok := httputil.AddressParam(w, r, "list")
	if !ok {
		return
	}
	topic, err := parseTopic(chi.URLParam(r, "topic"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.RemoveTopic(ctx, list, topic); err != nil {
		h.logFailure(ctx, "remove topic failed", list, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandlePutIssuer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, ok := httputil.AddressParam(w, r, "list")
	if !ok {
		return
	}
	issuer, ok := httputil.AddressParam(w, r, "issuer")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[IssuerRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.AddIssuer(ctx, list, issuer, req.Topics); err != nil {
		h.logFailure(ctx, "trust issuer failed", list, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleRemoveIssuer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, ok := httputil.AddressParam(w, r, "list")
	if !ok {
		return
	}
	issuer, ok := httputil.AddressParam(w, r, "issuer")
	if !ok {
		return
	}
	if err := h.service.RemoveIssuer(ctx, list, issuer); err != nil {
		h.logFailure(ctx, "remove issuer failed", list, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	storage, ok := httputil.AddressParam(w, r, "storage")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[LinkRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.LinkRegistry(ctx, storage, req.ParsedRegistry()); err != nil {
		h.logFailure(ctx, "link registry failed", storage, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleUnlink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	storage, ok := httputil.AddressParam(w, r, "storage")
	if !ok {
		return
	}
	registry, ok := httputil.AddressParam(w, r, "registry")
	if !ok {
		return
	}
	if err := h.service.UnlinkRegistry(ctx, storage, registry); err != nil {
		h.logFailure(ctx, "unlink registry failed", storage, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeHolder answers a successful holder mutation with the fresh view.
func (h *Handler) writeHolder(w http.ResponseWriter, r *http.Request, status int, registry, holder domain.Address) {
	view, err := h.service.Holder(r.Context(), registry, holder)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, status, view)
}

func holderParams(w http.ResponseWriter, r *http.Request) (domain.Address, domain.Address, bool) {
	registry, ok := httputil.AddressParam(w, r, "registry")
	if !ok {
		return domain.ZeroAddress, domain.ZeroAddress, false
	}
	holder, ok := httputil.AddressParam(w, r, "holder")
	if !ok {
		return domain.ZeroAddress, domain.ZeroAddress, false
	}
	return registry, holder, true
}

func (h *Handler) logFailure(ctx context.Context, msg string, target domain.Address, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"target", target.Hex(),
		"error", err,
	)
}
