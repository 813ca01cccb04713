package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawyered0/clawyer/internal/conflicts"
	"github.com/lawyered0/clawyer/internal/intake"
	"github.com/lawyered0/clawyer/pkg/domain"
	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
	"github.com/lawyered0/clawyer/pkg/testutil"
)

type fakeService struct {
	matterResult intake.MatterResult
	matterErr    error
	matterReq    intake.MatterRequest

	clearance    intake.ClearanceRecord
	clearanceErr error
	disposition  intake.Disposition
	reviewer     string
}

func (f *fakeService) CreateMatter(_ context.Context, req intake.MatterRequest) (intake.MatterResult, error) {
	f.matterReq = req
	return f.matterResult, f.matterErr
}

func (f *fakeService) RecordClearance(_ context.Context, _ []string, disposition intake.Disposition, _ []conflicts.ConflictHit, reviewer string) (intake.ClearanceRecord, error) {
	f.disposition = disposition
	f.reviewer = reviewer
	return f.clearance, f.clearanceErr
}

type checkerFunc func(names []string) (conflicts.CheckResult, error)

func (f checkerFunc) Check(_ context.Context, names []string) (conflicts.CheckResult, error) {
	return f(names)
}

type seederFunc func(entry conflicts.SeedEntry) error

func (f seederFunc) SeedEntry(_ context.Context, entry conflicts.SeedEntry) error { return f(entry) }

func passthroughAdmin(next http.Handler) http.Handler { return next }

func newRouter(svc Service) http.Handler {
	h := New(svc, slog.New(slog.DiscardHandler), passthroughAdmin)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func matterBody() MatterCreateRequest {
	return MatterCreateRequest{
		MatterID: "M-2024-007",
		Parties: []PartyPayload{
			{Name: "Acme Corp", Type: "entity", Role: "client", Aliases: []string{"Acme"}},
			{Name: "Jane Doe", Type: "individual", Role: "opposing"},
		},
	}
}

func TestHandleCreateMatter(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &fakeService{matterResult: intake.MatterResult{
			MatterID: "M-2024-007", Hits: []conflicts.ConflictHit{}, Seeded: 2,
		}}
		router := newRouter(svc)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/matters", matterBody())
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[intake.MatterResult](t, rr)
		assert.Equal(t, 2, resp.Seeded)

		require.Len(t, svc.matterReq.Parties, 2)
		assert.Equal(t, domain.MatterID("M-2024-007"), svc.matterReq.MatterID)
		assert.Equal(t, conflicts.RoleOpposing, svc.matterReq.Parties[1].Role)
	})

	t.Run("blocked returns 409 with hits", func(t *testing.T) {
		hit := conflicts.ConflictHit{
			Candidate: "Acme Corp", Party: "Acme Corporation", MatterID: "M-2019-001",
			Role: conflicts.RoleClient, Kind: conflicts.MatchFuzzy, Confidence: 0.6,
		}
		svc := &fakeService{
			matterResult: intake.MatterResult{MatterID: "M-2024-007", Hits: []conflicts.ConflictHit{hit}, Source: conflicts.SourceDB},
			matterErr:    dErrors.New(dErrors.CodeClearanceRequired, "conflict hits require reviewer clearance"),
		}
		router := newRouter(svc)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/matters", matterBody())
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusConflict, string(dErrors.CodeClearanceRequired))
		resp := testutil.UnmarshalResponse[blockedResponse](t, rr)
		require.Len(t, resp.Hits, 1)
		assert.Equal(t, conflicts.MatchFuzzy, resp.Hits[0].Kind)
		assert.Equal(t, conflicts.SourceDB, resp.Source)
	})

	t.Run("declined set returns plain 409", func(t *testing.T) {
		svc := &fakeService{
			matterResult: intake.MatterResult{Hits: []conflicts.ConflictHit{}},
			matterErr:    dErrors.New(dErrors.CodeConflict, "engagement previously declined for this party set"),
		}
		router := newRouter(svc)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/matters", matterBody())
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusConflict, string(dErrors.CodeConflict))
	})

	t.Run("unverifiable check returns 503", func(t *testing.T) {
		svc := &fakeService{
			matterErr: dErrors.New(dErrors.CodeUnverifiable, "store and fallback both unavailable"),
		}
		router := newRouter(svc)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/matters", matterBody())
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusServiceUnavailable, string(dErrors.CodeUnverifiable))
	})

	t.Run("validation", func(t *testing.T) {
		cases := map[string]MatterCreateRequest{
			"missing matter id": {Parties: []PartyPayload{{Name: "X", Type: "entity", Role: "client"}}},
			"no parties":        {MatterID: "M-1"},
			"bad party type":    {MatterID: "M-1", Parties: []PartyPayload{{Name: "X", Type: "robot", Role: "client"}}},
			"bad role":          {MatterID: "M-1", Parties: []PartyPayload{{Name: "X", Type: "entity", Role: "frenemy"}}},
			"nameless party":    {MatterID: "M-1", Parties: []PartyPayload{{Type: "entity", Role: "client"}}},
		}
		for name, body := range cases {
			t.Run(name, func(t *testing.T) {
				router := newRouter(&fakeService{})
				req := testutil.NewJSONRequest(t, http.MethodPost, "/matters", body)
				rr := testutil.DoRequest(router, req)
				testutil.AssertStatus(t, rr, http.StatusBadRequest)
			})
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		router := newRouter(&fakeService{})
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/matters", "{not json")
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestHandleRecordClearance(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &fakeService{clearance: intake.ClearanceRecord{
			ID:          domain.NewClearanceID(),
			Disposition: intake.DispositionWaived,
			Reviewer:    "partner@firm",
		}}
		router := newRouter(svc)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/clearances", ClearanceRequest{
			Names:       []string{"Acme Corp"},
			Disposition: "waived",
			Reviewer:    "partner@firm",
		})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)
		assert.Equal(t, intake.DispositionWaived, svc.disposition)
		assert.Equal(t, "partner@firm", svc.reviewer)
	})

	t.Run("reviewer and time come from the request context", func(t *testing.T) {
		// Real service over the memory store, so the context fallback for
		// the reviewer and the request-scoped clock are actually exercised.
		checker := checkerFunc(func([]string) (conflicts.CheckResult, error) {
			return conflicts.CheckResult{Source: conflicts.SourceDB}, nil
		})
		clearances := intake.NewInMemoryClearanceStore()
		svc := intake.NewService(checker, seederFunc(func(conflicts.SeedEntry) error { return nil }), clearances, slog.New(slog.DiscardHandler), nil)
		router := newRouter(svc)

		fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/clearances", ClearanceRequest{
			Names:       []string{"Acme Corp"},
			Disposition: "clear",
		})
		req = testutil.WithReviewer(req, "managing-partner")
		req = testutil.WithFixedTime(req, fixed)
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[intake.ClearanceRecord](t, rr)
		assert.Equal(t, "managing-partner", resp.Reviewer)
		assert.True(t, resp.CreatedAt.Equal(fixed))
	})

	t.Run("rejects unknown disposition", func(t *testing.T) {
		router := newRouter(&fakeService{})
		req := testutil.NewJSONRequest(t, http.MethodPost, "/clearances", ClearanceRequest{
			Names:       []string{"Acme Corp"},
			Disposition: "maybe",
		})
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("rejects empty names", func(t *testing.T) {
		router := newRouter(&fakeService{})
		req := testutil.NewJSONRequest(t, http.MethodPost, "/clearances", ClearanceRequest{Disposition: "clear"})
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}
