package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrlokans/kindle2notion/internal/entities"
)

// fakeStore keeps books in memory and records every call in order.
type fakeStore struct {
	books    map[string]*entities.BookRecord // by ID
	children map[string][]string
	covers   map[string]string
	calls    []string
	nextID   int

	// failOn makes the named operation return err.
	failOn string
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		books:    make(map[string]*entities.BookRecord),
		children: make(map[string][]string),
		covers:   make(map[string]string),
	}
}

func (f *fakeStore) fail(op string) error {
	f.calls = append(f.calls, op)
	if f.failOn == op {
		if f.err != nil {
			return f.err
		}
		return errors.New(op + " failed")
	}
	return nil
}

func (f *fakeStore) seed(record entities.BookRecord, children ...string) {
	copied := record
	f.books[record.ID] = &copied
	f.children[record.ID] = append([]string(nil), children...)
}

func (f *fakeStore) FindBook(_ context.Context, title string) (*entities.BookRecord, error) {
	if err := f.fail("find"); err != nil {
		return nil, err
	}
	for _, b := range f.books {
		if b.Title == title {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetBook(_ context.Context, id string) (*entities.BookRecord, error) {
	if err := f.fail("get"); err != nil {
		return nil, err
	}
	b, ok := f.books[id]
	if !ok {
		return nil, fmt.Errorf("page %s not found", id)
	}
	copied := *b
	return &copied, nil
}

func (f *fakeStore) CreateBook(_ context.Context, book entities.NewBookRecord) (*entities.BookRecord, error) {
	if err := f.fail("create"); err != nil {
		return nil, err
	}
	f.nextID++
	count := book.HighlightCount
	last := book.LastHighlighted
	synced := book.LastSynced
	record := &entities.BookRecord{
		ID:              fmt.Sprintf("page-%d", f.nextID),
		Title:           book.Title,
		Author:          book.Author,
		HighlightCount:  &count,
		LastHighlighted: &last,
		LastSynced:      &synced,
	}
	f.books[record.ID] = record
	copied := *record
	return &copied, nil
}

func (f *fakeStore) AppendClippings(_ context.Context, id string, texts []string) error {
	if err := f.fail("append"); err != nil {
		return err
	}
	f.children[id] = append(f.children[id], texts...)
	return nil
}

func (f *fakeStore) UpdateBook(_ context.Context, id string, update entities.BookUpdate) error {
	if err := f.fail("update"); err != nil {
		return err
	}
	b := f.books[id]
	count := update.HighlightCount
	last := update.LastHighlighted
	synced := update.LastSynced
	b.HighlightCount = &count
	b.LastHighlighted = &last
	b.LastSynced = &synced
	return nil
}

func (f *fakeStore) SetCover(_ context.Context, id, coverURL string) error {
	if err := f.fail("cover"); err != nil {
		return err
	}
	f.covers[id] = coverURL
	return nil
}

func (f *fakeStore) byTitle(title string) *entities.BookRecord {
	for _, b := range f.books {
		if b.Title == title {
			return b
		}
	}
	return nil
}

type fakeCovers struct {
	url   string
	err   error
	calls int
}

func (f *fakeCovers) LookupCover(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.url, f.err
}

type fakeRecorder struct {
	events []*entities.SyncEvent
}

func (f *fakeRecorder) RecordSync(event *entities.SyncEvent) error {
	f.events = append(f.events, event)
	return nil
}
