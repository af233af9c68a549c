package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/kindle2notion/internal/audit"
	"github.com/mrlokans/kindle2notion/internal/covers"
	"github.com/mrlokans/kindle2notion/internal/database"
	"github.com/mrlokans/kindle2notion/internal/http"
	"github.com/mrlokans/kindle2notion/internal/notion"
	"github.com/mrlokans/kindle2notion/internal/scheduler"
	"github.com/mrlokans/kindle2notion/internal/syncer"
)

// =============================================================================
// Remote Books Database
// =============================================================================

var _ syncer.Store = (*notion.Store)(nil)

// =============================================================================
// Cover Lookup
// =============================================================================

var _ covers.Finder = (*covers.GoogleBooksClient)(nil)
var _ covers.Finder = (*covers.OpenLibraryClient)(nil)

// =============================================================================
// Sync History
// =============================================================================

var _ syncer.Recorder = (*audit.Service)(nil)
var _ http.HistoryReader = (*audit.Service)(nil)
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Scheduling
// =============================================================================

var _ http.SyncTrigger = (*scheduler.SyncScheduler)(nil)
