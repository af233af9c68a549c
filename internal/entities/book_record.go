package entities

import "time"

// Epoch is used in place of a missing "Last Highlighted" value on a remote record.
var Epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// BookRecord is the typed view of one page in the Notion books database.
// Optional properties are pointers; nil means the property was absent or empty.
type BookRecord struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	HighlightCount  *int       `json:"highlight_count,omitempty"`
	LastHighlighted *time.Time `json:"last_highlighted,omitempty"`
	LastSynced      *time.Time `json:"last_synced,omitempty"`
	CoverURL        string     `json:"cover_url,omitempty"`
}

// SyncState returns the bookkeeping values used to decide which clippings are
// new. A record with no count, a zero count or no last-highlighted date is
// treated as never synced: count 0, last highlighted at Epoch.
func (r BookRecord) SyncState() (count int, lastHighlighted time.Time) {
	if r.HighlightCount == nil || *r.HighlightCount == 0 || r.LastHighlighted == nil {
		return 0, Epoch
	}
	return *r.HighlightCount, WallClock(*r.LastHighlighted)
}

// NewBookRecord holds the properties written when a book is first created.
type NewBookRecord struct {
	Title           string
	Author          string
	HighlightCount  int
	LastHighlighted time.Time
	LastSynced      time.Time
}

// BookUpdate holds the properties rewritten after new clippings are appended.
type BookUpdate struct {
	HighlightCount  int
	LastHighlighted time.Time
	LastSynced      time.Time
}

// WallClock drops the location of t and keeps its wall-clock reading as UTC.
// Kindle timestamps carry no zone, so remote dates are compared by reading only.
func WallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
