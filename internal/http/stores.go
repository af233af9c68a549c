package http

import (
	"github.com/mrlokans/kindle2notion/internal/entities"
	"github.com/mrlokans/kindle2notion/internal/scheduler"
)

// Each controller depends on the narrowest interface it needs.

// Pinger reports whether the history database is reachable.
type Pinger interface {
	Ping() error
}

// SyncTrigger starts runs and reports the scheduler state.
type SyncTrigger interface {
	Trigger() error
	Status() scheduler.Status
}

// HistoryReader lists recorded sync events.
type HistoryReader interface {
	GetEvents(limit, offset int) ([]entities.SyncEvent, int64, error)
	GetRun(runID string) ([]entities.SyncEvent, error)
}
