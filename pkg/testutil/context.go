package testutil

import (
	"net/http"

	"assetgov/pkg/domain"
	"assetgov/pkg/requestcontext"
)

// WithPrincipal adds the caller address to the request context.
// This simulates what the auth middleware does for authenticated requests.
func WithPrincipal(req *http.Request, principal domain.Address) *http.Request {
	return req.WithContext(requestcontext.WithPrincipal(req.Context(), principal))
}
