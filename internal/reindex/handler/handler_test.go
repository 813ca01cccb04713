package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/lawyered0/clawyer/internal/reindex"
	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
	"github.com/lawyered0/clawyer/pkg/testutil"
)

type fakeRunner struct {
	summary reindex.Summary
	err     error
	runs    int
}

func (f *fakeRunner) Run(context.Context) (reindex.Summary, error) {
	f.runs++
	return f.summary, f.err
}

func passthroughAdmin(next http.Handler) http.Handler { return next }

func rejectingAdmin(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func newRouter(runner Runner, admin func(http.Handler) http.Handler) http.Handler {
	h := New(runner, slog.New(slog.DiscardHandler), admin)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestHandleReindex(t *testing.T) {
	t.Run("returns run summary", func(t *testing.T) {
		runner := &fakeRunner{summary: reindex.Summary{Seeded: 12, SkippedMatters: 1}}
		router := newRouter(runner, passthroughAdmin)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/conflicts/reindex", nil)
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[reindex.Summary](t, rr)
		assert.Equal(t, 12, resp.Seeded)
		assert.Equal(t, 1, resp.SkippedMatters)
		assert.Equal(t, 1, runner.runs)
	})

	t.Run("surfaces storage failures", func(t *testing.T) {
		runner := &fakeRunner{
			summary: reindex.Summary{Seeded: 3},
			err:     dErrors.New(dErrors.CodeStorage, "seed aborted"),
		}
		router := newRouter(runner, passthroughAdmin)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/conflicts/reindex", nil)
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusServiceUnavailable, string(dErrors.CodeStorage))
	})

	t.Run("requires admin", func(t *testing.T) {
		runner := &fakeRunner{}
		router := newRouter(runner, rejectingAdmin)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/conflicts/reindex", nil)
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, 0, runner.runs)
	})
}
