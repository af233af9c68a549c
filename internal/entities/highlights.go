package entities

import (
	"time"
)

// Highlight is a single clipping taken from a Kindle "My Clippings" export.
// Page and Location hold the raw strings Kindle writes ("8", "64-65"); either
// may be empty. A zero AddedAt means the clipping carried no readable date.
type Highlight struct {
	Text     string    `json:"text"`
	Page     string    `json:"page,omitempty"`
	Location string    `json:"location,omitempty"`
	AddedAt  time.Time `json:"added_at"`
	IsNote   bool      `json:"is_note"`
}

// HasDate reports whether the clipping carried an "Added on" timestamp.
func (h Highlight) HasDate() bool {
	return !h.AddedAt.IsZero()
}

// FormattedClipping is the rendered paragraph for one Highlight together with
// its minute-precision timestamp.
type FormattedClipping struct {
	Text    string    `json:"text"`
	AddedAt time.Time `json:"added_at"`
}

type Book struct {
	Title      string      `json:"title"`
	Author     string      `json:"author"`
	Highlights []Highlight `json:"highlights"`
}

// Library is the parsed content of a clippings file: books in the order they
// first appear, unique by title.
type Library struct {
	Books []Book `json:"books"`
}

// TotalHighlights returns the number of clippings across all books.
func (l Library) TotalHighlights() int {
	total := 0
	for _, book := range l.Books {
		total += len(book.Highlights)
	}
	return total
}
