// Package audit records the outcome of every book sync in the local history database.
package audit

import (
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mrlokans/kindle2notion/internal/database/audit"
	"github.com/mrlokans/kindle2notion/internal/entities"
)

const maxErrorLength = 500

// Service provides high-level sync history functionality.
type Service struct {
	repo *audit.Repository
	log  *zap.Logger
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// RecordSync stores one book outcome. It is synchronous so that events of a
// run are persisted in the order the books were processed.
func (s *Service) RecordSync(event *entities.SyncEvent) error {
	event.ErrorMsg = truncate(event.ErrorMsg, maxErrorLength)
	if event.Status == "" {
		event.Status = entities.AuditStatusSuccess
	}
	return s.repo.LogEvent(event)
}

// GetEvents retrieves paginated sync events, most recent first.
func (s *Service) GetEvents(limit, offset int) ([]entities.SyncEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// GetRun retrieves the events of a single run.
func (s *Service) GetRun(runID string) ([]entities.SyncEvent, error) {
	return s.repo.GetEventsByRun(runID)
}

// GetEventsByTitle retrieves paginated events for one book, most recent first.
func (s *Service) GetEventsByTitle(title string, limit, offset int) ([]entities.SyncEvent, int64, error) {
	return s.repo.GetEventsByTitle(title, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// Prune applies the retention in days. Zero or negative keeps everything.
// Failures are logged, never returned.
func (s *Service) Prune(retentionDays int) {
	if retentionDays <= 0 {
		return
	}
	deleted, err := s.DeleteOldEvents(time.Duration(retentionDays) * 24 * time.Hour)
	if err != nil {
		s.log.Warn("failed to prune sync history", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.log.Info("pruned sync history", zap.Int64("deleted", deleted), zap.Int("retention_days", retentionDays))
	}
}

// truncate shortens a string to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
