package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/kindle2notion/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.SyncEvent{})
	require.NoError(t, err)

	return db
}

func TestRepository_LogEvent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	event := &entities.SyncEvent{
		RunID:  "run-1",
		Title:  "Dune",
		Author: "Frank Herbert",
		Action: entities.SyncActionCreated,
		Added:  12,
		Status: entities.AuditStatusSuccess,
	}

	err := repo.LogEvent(event)
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_GetEvents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	for i := 0; i < 15; i++ {
		event := &entities.SyncEvent{
			RunID:     "run-1",
			Title:     "Dune",
			Action:    entities.SyncActionUpdated,
			Status:    entities.AuditStatusSuccess,
			CreatedAt: time.Now().Add(time.Duration(-i) * time.Hour),
		}
		require.NoError(t, repo.LogEvent(event))
	}

	t.Run("get all events", func(t *testing.T) {
		events, total, err := repo.GetEvents(50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 15)
	})

	t.Run("pagination", func(t *testing.T) {
		events, total, err := repo.GetEvents(10, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 5)
	})

	t.Run("most recent first", func(t *testing.T) {
		events, _, err := repo.GetEvents(15, 0)
		require.NoError(t, err)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i].CreatedAt.After(events[i-1].CreatedAt))
		}
	})

	t.Run("default limit", func(t *testing.T) {
		events, _, err := repo.GetEvents(0, -5)
		require.NoError(t, err)
		assert.Len(t, events, 15)
	})
}

func TestRepository_GetEventsByRun(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	for _, title := range []string{"Dune", "Emma", "Ulysses"} {
		require.NoError(t, repo.LogEvent(&entities.SyncEvent{RunID: "run-a", Title: title}))
	}
	require.NoError(t, repo.LogEvent(&entities.SyncEvent{RunID: "run-b", Title: "Dune"}))

	events, err := repo.GetEventsByRun("run-a")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Dune", events[0].Title)
	assert.Equal(t, "Ulysses", events[2].Title)
}

func TestRepository_GetEventsByTitle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	require.NoError(t, repo.LogEvent(&entities.SyncEvent{RunID: "1", Title: "Dune"}))
	require.NoError(t, repo.LogEvent(&entities.SyncEvent{RunID: "2", Title: "Dune"}))
	require.NoError(t, repo.LogEvent(&entities.SyncEvent{RunID: "2", Title: "Emma"}))

	events, total, err := repo.GetEventsByTitle("Dune", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, events, 2)
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	for i := 0; i < 5; i++ {
		event := &entities.SyncEvent{
			Title:     "Old",
			CreatedAt: time.Now().Add(-48 * time.Hour),
		}
		require.NoError(t, repo.LogEvent(event))
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.LogEvent(&entities.SyncEvent{Title: "New"}))
	}

	deleted, err := repo.DeleteOldEvents(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(5), deleted)

	events, total, err := repo.GetEvents(50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, e := range events {
		assert.Equal(t, "New", e.Title)
	}
}
