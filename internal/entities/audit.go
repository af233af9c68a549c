package entities

import "time"

type SyncAction string

const (
	SyncActionCreated SyncAction = "created"
	SyncActionUpdated SyncAction = "updated"
	SyncActionSkipped SyncAction = "skipped"
	SyncActionFailed  SyncAction = "failed"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// SyncEvent records the outcome of synchronizing one book during a run.
type SyncEvent struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	RunID         string      `gorm:"index;size:36" json:"run_id"`
	Title         string      `gorm:"index;size:512" json:"title"`
	Author        string      `gorm:"size:256" json:"author"`
	Action        SyncAction  `gorm:"index;size:20" json:"action"`
	Added         int         `json:"added"`
	PreviousCount int         `json:"previous_count"`
	CoverWarning  bool        `json:"cover_warning"`
	Status        AuditStatus `gorm:"size:20" json:"status"`
	ErrorMsg      string      `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`
}

func (SyncEvent) TableName() string {
	return "sync_events"
}
