// Package notion stores books in a Notion database: one page per book, one
// paragraph block per clipping.
package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/mrlokans/kindle2notion/internal/entities"
)

// Property names of the books database.
const (
	PropTitle           = "Title"
	PropAuthor          = "Author"
	PropHighlights      = "Highlights"
	PropLastHighlighted = "Last Highlighted"
	PropLastSynced      = "Last Synced"
)

// maxChildrenPerRequest is the Notion API limit for appended blocks.
const maxChildrenPerRequest = 100

type databaseQuerier interface {
	Query(ctx context.Context, id notionapi.DatabaseID, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

type pageService interface {
	Create(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
	Get(ctx context.Context, id notionapi.PageID) (*notionapi.Page, error)
	Update(ctx context.Context, id notionapi.PageID, req *notionapi.PageUpdateRequest) (*notionapi.Page, error)
}

type blockAppender interface {
	AppendChildren(ctx context.Context, id notionapi.BlockID, req *notionapi.AppendBlockChildrenRequest) (*notionapi.AppendBlockChildrenResponse, error)
}

// Store talks to one Notion database through an authenticated API client.
type Store struct {
	databaseID notionapi.DatabaseID
	databases  databaseQuerier
	pages      pageService
	blocks     blockAppender
}

// NewStore creates a Store authenticated with an integration token.
func NewStore(token, databaseID string) *Store {
	client := notionapi.NewClient(notionapi.Token(token))
	return &Store{
		databaseID: notionapi.DatabaseID(databaseID),
		databases:  client.Database,
		pages:      client.Page,
		blocks:     client.Block,
	}
}

// FindBook returns the first page whose title equals title exactly, or nil
// when there is none.
func (s *Store) FindBook(ctx context.Context, title string) (*entities.BookRecord, error) {
	resp, err := s.databases.Query(ctx, s.databaseID, &notionapi.DatabaseQueryRequest{
		Filter: &notionapi.PropertyFilter{
			Property: PropTitle,
			Title:    &notionapi.TextFilterCondition{Equals: title},
		},
		PageSize: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("query database: %w", err)
	}

	if len(resp.Results) == 0 || resp.Results[0].ID == "" {
		return nil, nil
	}

	record := recordFromPage(&resp.Results[0])
	return &record, nil
}

// GetBook retrieves a page by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*entities.BookRecord, error) {
	page, err := s.pages.Get(ctx, notionapi.PageID(id))
	if err != nil {
		return nil, fmt.Errorf("retrieve page %s: %w", id, err)
	}

	record := recordFromPage(page)
	return &record, nil
}

// CreateBook creates an empty page for a book in the database.
func (s *Store) CreateBook(ctx context.Context, book entities.NewBookRecord) (*entities.BookRecord, error) {
	properties := notionapi.Properties{
		PropTitle: &notionapi.TitleProperty{
			Type:  notionapi.PropertyTypeTitle,
			Title: richText(book.Title),
		},
		PropAuthor: &notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(book.Author),
		},
		PropHighlights:      numberProperty(book.HighlightCount),
		PropLastHighlighted: dateProperty(book.LastHighlighted),
		PropLastSynced:      dateProperty(book.LastSynced),
	}

	page, err := s.pages.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: s.databaseID,
		},
		Properties: properties,
	})
	if err != nil {
		return nil, fmt.Errorf("create page for %q: %w", book.Title, err)
	}

	record := recordFromPage(page)
	if record.Title == "" {
		record.Title = book.Title
	}
	return &record, nil
}

// AppendClippings adds one paragraph block per text at the end of the page,
// in order.
func (s *Store) AppendClippings(ctx context.Context, id string, texts []string) error {
	for start := 0; start < len(texts); start += maxChildrenPerRequest {
		end := min(start+maxChildrenPerRequest, len(texts))

		children := make([]notionapi.Block, 0, end-start)
		for _, text := range texts[start:end] {
			children = append(children, paragraph(text))
		}

		_, err := s.blocks.AppendChildren(ctx, notionapi.BlockID(id), &notionapi.AppendBlockChildrenRequest{
			Children: children,
		})
		if err != nil {
			return fmt.Errorf("append blocks to page %s: %w", id, err)
		}
	}
	return nil
}

// UpdateBook rewrites the bookkeeping properties of a page.
func (s *Store) UpdateBook(ctx context.Context, id string, update entities.BookUpdate) error {
	_, err := s.pages.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			PropHighlights:      numberProperty(update.HighlightCount),
			PropLastHighlighted: dateProperty(update.LastHighlighted),
			PropLastSynced:      dateProperty(update.LastSynced),
		},
	})
	if err != nil {
		return fmt.Errorf("update page %s: %w", id, err)
	}
	return nil
}

// SetCover sets an external image as the page cover.
func (s *Store) SetCover(ctx context.Context, id, coverURL string) error {
	_, err := s.pages.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{},
		Cover: &notionapi.Image{
			Type:     notionapi.FileTypeExternal,
			External: &notionapi.FileObject{URL: coverURL},
		},
	})
	if err != nil {
		return fmt.Errorf("set cover of page %s: %w", id, err)
	}
	return nil
}
