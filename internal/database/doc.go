// Package database holds the local sync history store.
//
// The history is write-mostly: every book outcome of a run is appended to the
// sync_events table and read back only by the history command and the HTTP
// API. The synchronizer never consults it when deciding what to send.
//
//	db, err := database.NewDatabase("./kindle2notion.db")
//	repo := audit.NewRepository(db.DB)
//
// Domain-specific queries live in sub-packages, each exposing a Repository
// built from a *gorm.DB.
package database
