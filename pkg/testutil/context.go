package testutil

import (
	"net/http"
	"time"

	"github.com/lawyered0/clawyer/pkg/requestcontext"
)

// WithReviewer adds an authenticated reviewer subject to the request context.
// This simulates what the admin middleware would do for authenticated requests.
func WithReviewer(req *http.Request, reviewer string) *http.Request {
	ctx := requestcontext.WithReviewer(req.Context(), reviewer)
	return req.WithContext(ctx)
}

// WithFixedTime pins the request-scoped clock, so services that read
// requestcontext.Now observe a deterministic timestamp.
func WithFixedTime(req *http.Request, t time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), t)
	return req.WithContext(ctx)
}
