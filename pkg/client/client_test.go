package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masterspeak/internal/model"
	"masterspeak/internal/service"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, New(srv.URL, "test-token")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestClient_GetAnalysesPage(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/analyses", r.URL.Path)
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			writeJSON(w, http.StatusOK, model.Page[model.AnalysisListItem]{
				Items:      []model.AnalysisListItem{{ID: "a1", SpeechTitle: "Keynote"}},
				Total:      11,
				Page:       2,
				PageSize:   10,
				TotalPages: 2,
			})
		})

		page, err := c.GetAnalysesPage(ctx, 2, 10)
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, 11, page.Total)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("rejects bad page locally", func(t *testing.T) {
		c := New("http://unused.invalid", "t")

		_, err := c.GetAnalysesPage(ctx, 0, 20)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "page", verr.Field)

		_, err = c.GetAnalysesPage(ctx, 1, 101)
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "limit", verr.Field)
	})

	t.Run("404 surfaces as APIError", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"request_id": "req-1",
				"error":      map[string]string{"code": "NOT_FOUND", "message": "analysis not found"},
			})
		})

		_, err := c.GetAnalysesPage(ctx, 1, 20)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "NOT_FOUND", apiErr.Code)
		assert.Equal(t, "req-1", apiErr.RequestID)
		assert.True(t, IsNotFound(err))
	})

	t.Run("429 surfaces as RateLimitError", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "12")
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":       "Rate limit exceeded",
				"retry_after": 12,
			})
		})

		_, err := c.GetAnalysesPage(ctx, 1, 20)
		var rateErr *RateLimitError
		require.ErrorAs(t, err, &rateErr)
		assert.Equal(t, 12*time.Second, rateErr.RetryAfter)
	})

	t.Run("unreachable server surfaces as NetworkError", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := New(srv.URL, "t")

		_, err := c.GetAnalysesPage(ctx, 1, 20)
		var netErr *NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.Equal(t, "list_analyses", netErr.Op)
	})
}

func TestClient_GetAnalysis(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/analyses/a1", r.URL.Path)
			writeJSON(w, http.StatusOK, model.Analysis{
				ID:          "a1",
				SpeechTitle: "Keynote",
				Transcript:  "hello",
				Metrics:     &model.AnalysisMetrics{ClarityScore: 8.5, StructureScore: 7},
			})
		})

		a, err := c.GetAnalysis(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "Keynote", a.SpeechTitle)
		require.NotNil(t, a.Metrics)
		assert.Equal(t, 8.5, a.Metrics.ClarityScore)
	})

	t.Run("forbidden", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"error": map[string]string{"code": "ACCESS_DENIED", "message": "you do not have access to this analysis"},
			})
		})

		_, err := c.GetAnalysis(ctx, "a1")
		assert.True(t, IsAccessDenied(err))
	})
}

func TestClient_SearchAnalyses(t *testing.T) {
	ctx := context.Background()

	t.Run("filters serialized", func(t *testing.T) {
		minClarity := 6.5
		start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/analyses/search", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "keynote", q.Get("q"))
			assert.Equal(t, "6.5", q.Get("min_clarity"))
			assert.Equal(t, "2025-01-01T00:00:00Z", q.Get("start_date"))
			assert.Empty(t, q.Get("max_clarity"))
			assert.Equal(t, "1", q.Get("page"))
			assert.Equal(t, "20", q.Get("limit"))

			writeJSON(w, http.StatusOK, model.Page[model.AnalysisListItem]{
				Items: []model.AnalysisListItem{}, Page: 1, PageSize: 20,
			})
		})

		page, err := c.SearchAnalyses(ctx, SearchQuery{
			Query:      "keynote",
			MinClarity: &minClarity,
			StartDate:  &start,
		})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})
}

func TestClient_CreateShareLink(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/share/a1", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(14), body["expires_in_days"])
			assert.Equal(t, true, body["include_transcript"])

			writeJSON(w, http.StatusOK, service.ShareLink{
				ShareURL: "http://api.example/api/v1/share/t1",
				TokenID:  "t1",
			})
		})

		link, err := c.CreateShareLink(ctx, "a1", 14, true)
		require.NoError(t, err)
		assert.Equal(t, "t1", link.TokenID)
	})

	t.Run("rejects out-of-range expiry locally", func(t *testing.T) {
		c := New("http://unused.invalid", "t")

		_, err := c.CreateShareLink(ctx, "a1", 31, false)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "expires_in_days", verr.Field)
	})
}

func TestClient_GetSharedAnalysis(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/share/t1", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, model.SharedAnalysis{
			AnalysisID:  "a1",
			SpeechTitle: "Keynote",
			Feedback:    "Good pacing.",
		})
	})
	// share view never sends credentials
	c.token = ""

	shared, err := c.GetSharedAnalysis(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Keynote", shared.SpeechTitle)
	assert.Empty(t, shared.Transcript)
}

func TestClient_ExportPDF(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/analyses/a1/export", r.URL.Path)
			assert.Equal(t, "pdf", r.URL.Query().Get("format"))
			assert.Equal(t, "true", r.URL.Query().Get("include_transcript"))

			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-1.4 fake"))
		})

		data, err := c.ExportPDF(ctx, "a1", true)
		require.NoError(t, err)
		assert.Equal(t, "%PDF", string(data[:4]))
	})

	t.Run("backend failure", func(t *testing.T) {
		_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error": map[string]string{"code": "EXPORT_FAILED", "message": "export could not be generated"},
			})
		})

		_, err := c.ExportPDF(ctx, "a1", false)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "EXPORT_FAILED", apiErr.Code)
	})
}
