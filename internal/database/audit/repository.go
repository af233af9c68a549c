package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/kindle2notion/internal/entities"
)

const defaultLimit = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves a sync event to the database.
func (r *Repository) LogEvent(event *entities.SyncEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetEvents retrieves paginated sync events, most recent first.
func (r *Repository) GetEvents(limit, offset int) ([]entities.SyncEvent, int64, error) {
	return r.page(r.db.Model(&entities.SyncEvent{}), limit, offset)
}

// GetEventsByRun retrieves the events of a single run in the order they were recorded.
func (r *Repository) GetEventsByRun(runID string) ([]entities.SyncEvent, error) {
	var events []entities.SyncEvent
	err := r.db.Where("run_id = ?", runID).Order("id ASC").Find(&events).Error
	return events, err
}

// GetEventsByTitle retrieves paginated events for one book title.
func (r *Repository) GetEventsByTitle(title string, limit, offset int) ([]entities.SyncEvent, int64, error) {
	return r.page(r.db.Model(&entities.SyncEvent{}).Where("title = ?", title), limit, offset)
}

// DeleteOldEvents removes sync events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.SyncEvent{})
	return result.RowsAffected, result.Error
}

func (r *Repository) page(query *gorm.DB, limit, offset int) ([]entities.SyncEvent, int64, error) {
	var events []entities.SyncEvent
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}
