// Package aggregator renders parsed Kindle clippings into the paragraph text
// written to Notion, one paragraph per clipping.
package aggregator

import (
	"strings"
	"time"
	"unicode"

	"github.com/mrlokans/kindle2notion/internal/entities"
)

const (
	NotePrefix = "> NOTE: \n"

	// DateAddedLayout renders e.g. "Thursday, 29 April 2021 12:31:29 AM".
	DateAddedLayout = "Monday, 02 January 2006 03:04:05 PM"
)

// Aggregate renders every highlight of a single book. The result keeps the
// input order. The returned timestamp is the one of the last dated highlight
// in input order, so callers must pass highlights chronologically. It is zero
// only when no highlight carries a date.
func Aggregate(highlights []entities.Highlight, includeDate bool) ([]entities.FormattedClipping, time.Time) {
	clippings := make([]entities.FormattedClipping, 0, len(highlights))
	var last time.Time

	for _, h := range highlights {
		addedAt := TruncateToMinute(h.AddedAt)
		clippings = append(clippings, entities.FormattedClipping{
			Text:    Render(h, includeDate),
			AddedAt: addedAt,
		})
		if !addedAt.IsZero() {
			last = addedAt
		}
	}

	return clippings, last
}

// Render builds the paragraph text for one highlight.
func Render(h entities.Highlight, includeDate bool) string {
	var b strings.Builder

	if h.IsNote {
		b.WriteString(NotePrefix)
	}

	b.WriteString(h.Text)
	b.WriteString("\n* ")

	if h.Page != "" {
		b.WriteString("Page: ")
		b.WriteString(h.Page)
		b.WriteString(", ")
	}
	if h.Location != "" {
		b.WriteString("Location: ")
		b.WriteString(h.Location)
	}
	if includeDate && h.HasDate() {
		b.WriteString(", Date Added: ")
		b.WriteString(h.AddedAt.Format(DateAddedLayout))
	}

	return strings.TrimRightFunc(b.String(), unicode.IsSpace) + "\n"
}

// TruncateToMinute zeroes seconds and sub-seconds, keeping the location.
// Notion stores dates with minute granularity.
func TruncateToMinute(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}
