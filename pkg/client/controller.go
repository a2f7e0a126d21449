package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"masterspeak/internal/model"
)

// ListState names the phase a listing view is in. Empty results are not a
// distinct state; StateSuccess with zero items is the empty view.
type ListState int

const (
	StateIdle ListState = iota
	StateLoading
	StateSuccess
	StateError
)

func (s ListState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ListSnapshot is an immutable view of the controller for rendering.
type ListSnapshot struct {
	State      ListState
	Items      []model.AnalysisListItem
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	ErrMessage string
}

// AnalysisLister is the slice of Client the controller needs.
type AnalysisLister interface {
	GetAnalysesPage(ctx context.Context, page, limit int) (*model.Page[model.AnalysisListItem], error)
	SearchAnalyses(ctx context.Context, sq SearchQuery) (*model.Page[model.AnalysisListItem], error)
}

// ListController drives a paginated analyses view. Loads may overlap when
// the user pages or types quickly; only the newest request may update the
// snapshot, older in-flight responses are discarded.
type ListController struct {
	lister AnalysisLister
	logger *zap.Logger

	mu   sync.Mutex
	gen  uint64
	snap ListSnapshot
}

// NewListController creates a controller in the idle state.
func NewListController(lister AnalysisLister, logger *zap.Logger) *ListController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListController{
		lister: lister,
		logger: logger,
		snap:   ListSnapshot{State: StateIdle},
	}
}

// Snapshot returns the current view state.
func (lc *ListController) Snapshot() ListSnapshot {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.snap
}

// LoadPage fetches one page of the listing and updates the snapshot, unless
// a newer load started in the meantime.
func (lc *ListController) LoadPage(ctx context.Context, page, limit int) ListSnapshot {
	gen := lc.beginLoad()

	res, err := lc.lister.GetAnalysesPage(ctx, page, limit)
	return lc.finishLoad(gen, res, err)
}

// Search fetches one page of filtered results and updates the snapshot,
// unless a newer load started in the meantime.
func (lc *ListController) Search(ctx context.Context, sq SearchQuery) ListSnapshot {
	gen := lc.beginLoad()

	res, err := lc.lister.SearchAnalyses(ctx, sq)
	return lc.finishLoad(gen, res, err)
}

func (lc *ListController) beginLoad() uint64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.gen++
	lc.snap.State = StateLoading
	lc.snap.ErrMessage = ""
	return lc.gen
}

func (lc *ListController) finishLoad(gen uint64, res *model.Page[model.AnalysisListItem], err error) ListSnapshot {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if gen != lc.gen {
		// A newer load superseded this one. Its result, success or
		// failure, no longer reflects what the user asked for.
		lc.logger.Debug("stale response discarded", zap.Uint64("gen", gen), zap.Uint64("current", lc.gen))
		return lc.snap
	}

	if err != nil {
		lc.snap.State = StateError
		lc.snap.ErrMessage = userMessage(err)
		return lc.snap
	}

	lc.snap = ListSnapshot{
		State:      StateSuccess,
		Items:      res.Items,
		Total:      res.Total,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
	}
	return lc.snap
}

const genericErrMessage = "Something went wrong. Please try again."

// userMessage maps the error taxonomy to a message safe to render. Unknown
// errors fall back to a generic message rather than leaking internals.
func userMessage(err error) string {
	var (
		verr    *ValidationError
		netErr  *NetworkError
		rateErr *RateLimitError
		apiErr  *APIError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.As(err, &rateErr):
		return fmt.Sprintf("Too many requests. Try again in %.0f seconds.", rateErr.RetryAfter.Seconds())
	case errors.As(err, &netErr):
		return "Could not reach the server. Check your connection and try again."
	case errors.As(err, &apiErr):
		switch apiErr.StatusCode {
		case 401:
			return "Your session has expired. Please sign in again."
		case 403:
			return "You do not have access to these analyses."
		case 404:
			return "Analyses not found."
		}
		return genericErrMessage
	default:
		return genericErrMessage
	}
}
