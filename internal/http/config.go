package http

import "go.uber.org/zap"

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	// Database and History are nil when sync history is disabled.
	Database Pinger
	History  HistoryReader

	Sync SyncTrigger

	Logger  *zap.Logger
	Version string
}
