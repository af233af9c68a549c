package aggregator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kindle2notion/internal/entities"
)

func exampleHighlights() []entities.Highlight {
	return []entities.Highlight{
		{
			Text:     "This is an example highlight.",
			Page:     "1",
			Location: "100",
			AddedAt:  time.Date(2021, 4, 29, 0, 31, 29, 0, time.UTC),
		},
		{
			Text:     "This is a second example highlight.",
			Page:     "2",
			Location: "200",
			AddedAt:  time.Date(2021, 4, 30, 0, 31, 30, 0, time.UTC),
			IsNote:   true,
		},
	}
}

func TestAggregate_DateDisabled(t *testing.T) {
	clippings, last := Aggregate(exampleHighlights(), false)

	require.Len(t, clippings, 2)
	assert.Equal(t, "This is an example highlight.\n* Page: 1, Location: 100\n", clippings[0].Text)
	assert.Equal(t, time.Date(2021, 4, 29, 0, 31, 0, 0, time.UTC), clippings[0].AddedAt)
	assert.Equal(t, "> NOTE: \nThis is a second example highlight.\n* Page: 2, Location: 200\n", clippings[1].Text)
	assert.Equal(t, time.Date(2021, 4, 30, 0, 31, 0, 0, time.UTC), clippings[1].AddedAt)
	assert.Equal(t, time.Date(2021, 4, 30, 0, 31, 0, 0, time.UTC), last)
}

func TestAggregate_DateEnabled(t *testing.T) {
	clippings, last := Aggregate(exampleHighlights(), true)

	require.Len(t, clippings, 2)
	assert.Equal(t,
		"This is an example highlight.\n* Page: 1, Location: 100, Date Added: Thursday, 29 April 2021 12:31:29 AM\n",
		clippings[0].Text)
	assert.Equal(t,
		"> NOTE: \nThis is a second example highlight.\n* Page: 2, Location: 200, Date Added: Friday, 30 April 2021 12:31:30 AM\n",
		clippings[1].Text)
	assert.Equal(t, time.Date(2021, 4, 30, 0, 31, 0, 0, time.UTC), last)
}

func TestAggregate_PreservesOrderAndLength(t *testing.T) {
	base := time.Date(2022, 1, 1, 10, 0, 0, 0, time.UTC)
	var highlights []entities.Highlight
	for i := 0; i < 25; i++ {
		highlights = append(highlights, entities.Highlight{
			Text:     strings.Repeat("x", i+1),
			Location: "1",
			AddedAt:  base.Add(time.Duration(i) * time.Minute),
		})
	}

	clippings, last := Aggregate(highlights, false)

	require.Len(t, clippings, len(highlights))
	for i, c := range clippings {
		assert.True(t, strings.HasPrefix(c.Text, highlights[i].Text+"\n"), "clipping %d out of order", i)
	}
	assert.Equal(t, base.Add(24*time.Minute), last)
}

func TestAggregate_LastIsLastInInputOrderNotMax(t *testing.T) {
	highlights := []entities.Highlight{
		{Text: "later", AddedAt: time.Date(2023, 5, 2, 8, 0, 0, 0, time.UTC)},
		{Text: "earlier", AddedAt: time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC)},
	}

	_, last := Aggregate(highlights, false)

	assert.Equal(t, time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC), last)
}

func TestAggregate_LastSkipsUndatedClippings(t *testing.T) {
	highlights := []entities.Highlight{
		{Text: "dated", AddedAt: time.Date(2021, 4, 30, 0, 31, 29, 0, time.UTC)},
		{Text: "undated"},
	}

	clippings, last := Aggregate(highlights, true)

	require.Len(t, clippings, 2)
	assert.True(t, clippings[1].AddedAt.IsZero())
	assert.Equal(t, "undated\n*\n", clippings[1].Text)
	assert.Equal(t, time.Date(2021, 4, 30, 0, 31, 0, 0, time.UTC), last)
}

func TestAggregate_AllUndated(t *testing.T) {
	_, last := Aggregate([]entities.Highlight{{Text: "a"}, {Text: "b"}}, false)

	assert.True(t, last.IsZero())
}

func TestAggregate_Idempotent(t *testing.T) {
	first, firstLast := Aggregate(exampleHighlights(), true)
	second, secondLast := Aggregate(exampleHighlights(), true)

	assert.Equal(t, first, second)
	assert.Equal(t, firstLast, secondLast)
}

func TestAggregate_Empty(t *testing.T) {
	clippings, last := Aggregate(nil, true)

	assert.Empty(t, clippings)
	assert.True(t, last.IsZero())
}

func TestAggregate_TruncatesToMinute(t *testing.T) {
	highlights := []entities.Highlight{
		{Text: "a", AddedAt: time.Date(2021, 4, 29, 13, 45, 59, 999999999, time.UTC)},
		{Text: "b", AddedAt: time.Date(2021, 4, 29, 13, 46, 1, 500, time.UTC)},
	}

	clippings, _ := Aggregate(highlights, false)

	for _, c := range clippings {
		assert.Zero(t, c.AddedAt.Second())
		assert.Zero(t, c.AddedAt.Nanosecond())
	}
	assert.Equal(t, 45, clippings[0].AddedAt.Minute())
	assert.Equal(t, 46, clippings[1].AddedAt.Minute())
}

func TestRender(t *testing.T) {
	added := time.Date(2021, 4, 29, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name        string
		highlight   entities.Highlight
		includeDate bool
		expected    string
	}{
		{
			name:      "page only",
			highlight: entities.Highlight{Text: "Quote", Page: "12", AddedAt: added},
			expected:  "Quote\n* Page: 12,\n",
		},
		{
			name:      "location only",
			highlight: entities.Highlight{Text: "Quote", Location: "64-65", AddedAt: added},
			expected:  "Quote\n* Location: 64-65\n",
		},
		{
			name:      "no page and no location",
			highlight: entities.Highlight{Text: "Quote", AddedAt: added},
			expected:  "Quote\n*\n",
		},
		{
			name:        "date without location",
			highlight:   entities.Highlight{Text: "Quote", Page: "3", AddedAt: added},
			includeDate: true,
			expected:    "Quote\n* Page: 3, , Date Added: Thursday, 29 April 2021 03:04:05 PM\n",
		},
		{
			name:        "date enabled but absent",
			highlight:   entities.Highlight{Text: "Quote", Location: "7"},
			includeDate: true,
			expected:    "Quote\n* Location: 7\n",
		},
		{
			name:      "trailing whitespace in text is kept before the metadata line",
			highlight: entities.Highlight{Text: "Quote  ", Location: "7", IsNote: true},
			expected:  "> NOTE: \nQuote  \n* Location: 7\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.highlight, tt.includeDate))
		})
	}
}

func TestRender_DateGating(t *testing.T) {
	h := entities.Highlight{Text: "Quote", Page: "1", Location: "2", AddedAt: time.Now()}

	assert.NotContains(t, Render(h, false), "Date Added:")
	assert.Contains(t, Render(h, true), "Date Added:")
}

func TestRender_NotePrefixOnlyForNotes(t *testing.T) {
	note := entities.Highlight{Text: "A thought", Location: "5", IsNote: true}
	highlight := entities.Highlight{Text: "A thought", Location: "5"}

	assert.True(t, strings.HasPrefix(Render(note, false), NotePrefix))
	assert.False(t, strings.HasPrefix(Render(highlight, false), NotePrefix))
}

func TestTruncateToMinute_KeepsZero(t *testing.T) {
	assert.True(t, TruncateToMinute(time.Time{}).IsZero())
}
