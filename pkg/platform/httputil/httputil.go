// Package httputil holds the JSON response and request helpers shared by all
// handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"assetgov/pkg/domain"
	dErrors "assetgov/pkg/domain-errors"
)

const maxBodyBytes = 1 << 20

// Validatable is implemented by request bodies that check and parse
// themselves after decoding.
type Validatable interface {
	Validate() error
}

// Normalizable request bodies trim and canonicalize before validation.
type Normalizable interface {
	Normalize()
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status and writes the error body. Internal errors
// never expose their message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := errorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		var de *dErrors.Error
		if errors.As(err, &de) {
			resp.ErrorDescription = de.Message
		}
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}

// DecodeAndPrepare decodes the JSON body into a T, normalizes and validates
// it, and writes the error response itself when anything fails.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid json payload"))
		return nil, false
	}
	if n, ok := any(&req).(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := any(&req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			logger.WarnContext(ctx, "invalid request",
				"request_id", requestID,
				"error", err,
			)
			WriteError(w, err)
			return nil, false
		}
	}
	return &req, true
}

// RequiredAddress parses raw as a non-zero address, naming field in errors.
func RequiredAddress(field, raw string) (domain.Address, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.ZeroAddress, dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	addr, err := domain.ParseAddress(raw)
	if err != nil {
		return domain.ZeroAddress, err
	}
	if addr.IsZero() {
		return domain.ZeroAddress, dErrors.New(dErrors.CodeValidation, field+" must not be the zero address")
	}
	return addr, nil
}

// AddressParam reads a non-zero address from the named route parameter and
// writes the error response itself when it is missing or malformed.
func AddressParam(w http.ResponseWriter, r *http.Request, name string) (domain.Address, bool) {
	addr, err := RequiredAddress(name, chi.URLParam(r, name))
	if err != nil {
		WriteError(w, err)
		return domain.ZeroAddress, false
	}
	return addr, true
}
