package kindle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mrlokans/kindle2notion/internal/entities"
)

// Entry types in Kindle clippings
type EntryType string

const (
	EntryTypeHighlight EntryType = "highlight"
	EntryTypeNote      EntryType = "note"
	EntryTypeBookmark  EntryType = "bookmark"
)

// ClippingEntry represents a single parsed entry from My Clippings.txt
type ClippingEntry struct {
	Title    string
	Author   string
	Type     EntryType
	Page     string
	Location string
	AddedAt  time.Time
	Text     string
}

// Parser parses Kindle My Clippings.txt format
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

const (
	entrySeparator = "=========="
	byteOrderMark  = "\ufeff"
)

var (
	// Matches: "- Your Highlight on page 8 | Location 64-64 | Added on Tuesday, April 15, 2025 10:16:21 PM"
	// or: "- Your Note on page 31 | Location 307 | Added on Tuesday, April 15, 2025 11:33:26 PM"
	// or: "- Your Highlight at location 784-785 | Added on Saturday, 26 March 2016 18:37:26"
	// or: "- Your Bookmark at location 346 | Added on Saturday, 26 March 2016 15:46:21"
	metadataPattern = regexp.MustCompile(`^- Your (Highlight|Note|Bookmark)`)

	// "on page 8", "on page 207-207", "on page xii"
	pagePattern = regexp.MustCompile(`(?i)\bpage ([0-9ivxlcdm]+(?:-[0-9ivxlcdm]+)?)\b`)

	// "Location 64-64", "location 1406-1407", "at location 784-785"
	locationPattern = regexp.MustCompile(`(?i)\blocation (\d+(?:-\d+)?)`)

	datePatterns = []string{
		"Added on Monday, January 2, 2006 3:04:05 PM",
		"Added on Monday, January 2, 2006 15:04:05",
		"Added on Monday, 2 January 2006 3:04:05 PM",
		"Added on Monday, 2 January 2006 15:04:05",
	}

	// Title with author: "Book Title (Author Name)"
	titleAuthorPattern = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\)\s*$`)
)

// ParseFile opens path and parses it as a clippings file.
func (p *Parser) ParseFile(path string) (entities.Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return entities.Library{}, fmt.Errorf("failed to open clippings file: %w", err)
	}
	defer f.Close()

	return p.Parse(f)
}

// Parse reads a Kindle My Clippings.txt file and groups its clippings by book.
func (p *Parser) Parse(r io.Reader) (entities.Library, error) {
	entries, err := p.ParseEntries(r)
	if err != nil {
		return entities.Library{}, err
	}

	return groupEntriesIntoLibrary(entries), nil
}

// ParseEntries parses individual clipping entries from the reader.
// Bookmarks and entries without text are dropped.
func (p *Parser) ParseEntries(r io.Reader) ([]ClippingEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var entries []ClippingEntry
	var currentLines []string

	flush := func() {
		if len(currentLines) == 0 {
			return
		}
		if entry, err := p.parseEntry(currentLines); err == nil {
			entries = append(entries, *entry)
		}
		currentLines = nil
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == entrySeparator {
			flush()
			continue
		}

		currentLines = append(currentLines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading clippings: %w", err)
	}

	// Handle last entry if file doesn't end with separator
	flush()

	return entries, nil
}

func (p *Parser) parseEntry(lines []string) (*ClippingEntry, error) {
	// Leading blank lines show up after separators in some exports
	for len(lines) > 0 && strings.TrimSpace(strings.TrimPrefix(lines[0], byteOrderMark)) == "" {
		lines = lines[1:]
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("entry too short")
	}

	titleLine := strings.TrimSpace(strings.TrimPrefix(lines[0], byteOrderMark))
	title, author := parseTitleAuthor(titleLine)

	metadataLine := strings.TrimSpace(lines[1])
	if !metadataPattern.MatchString(metadataLine) {
		return nil, fmt.Errorf("invalid metadata line")
	}

	entryType := parseEntryType(metadataLine)
	if entryType == EntryTypeBookmark {
		return nil, fmt.Errorf("bookmark entry")
	}

	text := strings.TrimSpace(strings.Join(lines[2:], "\n"))
	if text == "" {
		return nil, fmt.Errorf("empty content")
	}

	return &ClippingEntry{
		Title:    title,
		Author:   author,
		Type:     entryType,
		Page:     parsePage(metadataLine),
		Location: parseLocation(metadataLine),
		AddedAt:  parseDate(metadataLine),
		Text:     text,
	}, nil
}

func parseTitleAuthor(line string) (title, author string) {
	matches := titleAuthorPattern.FindStringSubmatch(line)
	if len(matches) == 3 {
		return strings.TrimSpace(matches[1]), strings.TrimSpace(matches[2])
	}
	// No author in parentheses, use whole line as title
	return strings.TrimSpace(line), ""
}

func parseEntryType(line string) EntryType {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "your note"):
		return EntryTypeNote
	case strings.Contains(lower, "your bookmark"):
		return EntryTypeBookmark
	default:
		return EntryTypeHighlight
	}
}

func parsePage(line string) string {
	if matches := pagePattern.FindStringSubmatch(line); len(matches) == 2 {
		return matches[1]
	}
	return ""
}

func parseLocation(line string) string {
	if matches := locationPattern.FindStringSubmatch(line); len(matches) == 2 {
		return matches[1]
	}
	return ""
}

func parseDate(line string) time.Time {
	idx := strings.Index(strings.ToLower(line), "added on")
	if idx == -1 {
		return time.Time{}
	}

	dateStr := strings.TrimSpace("Added on" + line[idx+len("added on"):])

	for _, pattern := range datePatterns {
		if t, err := time.Parse(pattern, dateStr); err == nil {
			return t
		}
	}

	return time.Time{}
}

// groupEntriesIntoLibrary groups entries by exact title, keeping the order in
// which titles and clippings first appear. Notes stay separate clippings.
func groupEntriesIntoLibrary(entries []ClippingEntry) entities.Library {
	index := make(map[string]int)
	var library entities.Library

	for _, entry := range entries {
		i, exists := index[entry.Title]
		if !exists {
			i = len(library.Books)
			index[entry.Title] = i
			library.Books = append(library.Books, entities.Book{
				Title:  entry.Title,
				Author: entry.Author,
			})
		}

		library.Books[i].Highlights = append(library.Books[i].Highlights, entities.Highlight{
			Text:     entry.Text,
			Page:     entry.Page,
			Location: entry.Location,
			AddedAt:  entry.AddedAt,
			IsNote:   entry.Type == EntryTypeNote,
		})
	}

	return library
}
