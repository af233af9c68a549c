package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kindle2notion/internal/entities"
	"github.com/mrlokans/kindle2notion/internal/scheduler"
)

const (
	defaultHistoryLimit = 25
	maxHistoryLimit     = 100
)

type SyncController struct {
	sync    SyncTrigger
	history HistoryReader
}

func NewSyncController(sync SyncTrigger, history HistoryReader) *SyncController {
	return &SyncController{sync: sync, history: history}
}

// Status returns the scheduler state and the last run summary.
// GET /api/sync/status
func (sc *SyncController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, sc.sync.Status())
}

// Trigger starts a sync run in the background.
// POST /api/sync
func (sc *SyncController) Trigger(c *gin.Context) {
	if err := sc.sync.Trigger(); err != nil {
		if errors.Is(err, scheduler.ErrAlreadyRunning) {
			respondError(c, http.StatusConflict, err.Error(), "sync_in_progress")
			return
		}
		if errors.Is(err, scheduler.ErrStopped) {
			respondError(c, http.StatusServiceUnavailable, err.Error(), "shutting_down")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to start sync", "sync_failed")
		return
	}
	respondAccepted(c, "sync started", nil)
}

// History returns recorded book outcomes, most recent first.
// GET /api/sync/history?limit=&offset=
func (sc *SyncController) History(c *gin.Context) {
	if sc.history == nil {
		respondError(c, http.StatusNotFound, "sync history is disabled", "history_disabled")
		return
	}

	limit, ok := parseQueryInt(c, "limit", defaultHistoryLimit)
	if !ok {
		return
	}
	offset, ok := parseQueryInt(c, "offset", 0)
	if !ok {
		return
	}
	if limit == 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}

	events, total, err := sc.history.GetEvents(limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load sync history", "history_failed")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}

// RunResponse lists the book outcomes of one run in processing order.
type RunResponse struct {
	RunID  string               `json:"run_id"`
	Events []entities.SyncEvent `json:"events"`
}

// Run returns every event recorded by a single run.
// GET /api/sync/runs/:id
func (sc *SyncController) Run(c *gin.Context) {
	if sc.history == nil {
		respondError(c, http.StatusNotFound, "sync history is disabled", "history_disabled")
		return
	}

	runID := c.Param("id")
	events, err := sc.history.GetRun(runID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load sync run", "history_failed")
		return
	}
	if len(events) == 0 {
		respondError(c, http.StatusNotFound, "sync run not found", "run_not_found")
		return
	}

	c.JSON(http.StatusOK, RunResponse{RunID: runID, Events: events})
}
