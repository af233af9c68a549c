// Package syncer reconciles parsed Kindle clippings with the books database:
// it creates a page for a book seen for the first time and appends only the
// clippings added since the page was last synced.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/kindle2notion/internal/covers"
	"github.com/mrlokans/kindle2notion/internal/entities"
)

// ErrTransport marks failures talking to the books database. They abort the run.
var ErrTransport = errors.New("books database request failed")

// Store is the remote books database.
type Store interface {
	// FindBook returns nil, nil when no record has exactly this title.
	FindBook(ctx context.Context, title string) (*entities.BookRecord, error)
	GetBook(ctx context.Context, id string) (*entities.BookRecord, error)
	CreateBook(ctx context.Context, book entities.NewBookRecord) (*entities.BookRecord, error)
	AppendClippings(ctx context.Context, id string, texts []string) error
	UpdateBook(ctx context.Context, id string, update entities.BookUpdate) error
	SetCover(ctx context.Context, id, coverURL string) error
}

// Result describes what one Sync call changed.
type Result struct {
	Action entities.SyncAction
	Added  int
	// PreviousCount is the "Highlights" value the record held before an update.
	PreviousCount int
	CoverURL      string
	// CoverWarning is set when no cover was found and the placeholder was used.
	CoverWarning bool
}

// IsSkipped reports that the book had nothing new to append.
func (r Result) IsSkipped() bool {
	return r.Action == entities.SyncActionSkipped
}

type Synchronizer struct {
	store  Store
	covers covers.Finder
	log    *zap.Logger
	now    func() time.Time
}

type Option func(*Synchronizer)

// WithCoverFinder enables cover lookup for newly created pages.
func WithCoverFinder(finder covers.Finder) Option {
	return func(s *Synchronizer) {
		s.covers = finder
	}
}

// WithClock replaces time.Now for the "Last Synced" value.
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) {
		s.now = now
	}
}

func New(store Store, log *zap.Logger, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store: store,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync writes the clippings of one book. last is the timestamp of the most
// recent clipping as returned by aggregator.Aggregate.
func (s *Synchronizer) Sync(ctx context.Context, title, author string, clippings []entities.FormattedClipping, last time.Time) (Result, error) {
	record, err := s.store.FindBook(ctx, title)
	if err != nil {
		return Result{}, transportError("find book", err)
	}

	if record == nil || record.ID == "" {
		return s.create(ctx, title, author, clippings, last)
	}
	return s.update(ctx, record.ID, clippings, last)
}

func (s *Synchronizer) create(ctx context.Context, title, author string, clippings []entities.FormattedClipping, last time.Time) (Result, error) {
	record, err := s.store.CreateBook(ctx, entities.NewBookRecord{
		Title:           title,
		Author:          author,
		HighlightCount:  len(clippings),
		LastHighlighted: orEpoch(last),
		LastSynced:      s.now(),
	})
	if err != nil {
		return Result{}, transportError("create book", err)
	}

	if len(clippings) > 0 {
		if err := s.store.AppendClippings(ctx, record.ID, texts(clippings)); err != nil {
			return Result{}, transportError("append clippings", err)
		}
	}

	result := Result{
		Action: entities.SyncActionCreated,
		Added:  len(clippings),
	}

	if s.covers != nil {
		result.CoverURL, result.CoverWarning = s.lookupCover(ctx, title, author)
		if err := s.store.SetCover(ctx, record.ID, result.CoverURL); err != nil {
			return Result{}, transportError("set cover", err)
		}
	}

	s.log.Debug("book created",
		zap.String("title", title),
		zap.String("id", record.ID),
		zap.Int("added", result.Added))

	return result, nil
}

func (s *Synchronizer) lookupCover(ctx context.Context, title, author string) (coverURL string, warning bool) {
	coverURL, err := s.covers.LookupCover(ctx, title, author)
	if err == nil && coverURL != "" {
		return coverURL, false
	}
	if err != nil && !errors.Is(err, covers.ErrNotFound) {
		s.log.Warn("cover lookup failed", zap.String("title", title), zap.Error(err))
	}
	return covers.PlaceholderURL, true
}

func (s *Synchronizer) update(ctx context.Context, id string, clippings []entities.FormattedClipping, last time.Time) (Result, error) {
	record, err := s.store.GetBook(ctx, id)
	if err != nil {
		return Result{}, transportError("retrieve book", err)
	}

	previousCount, lastHighlighted := record.SyncState()

	fresh := newerThan(clippings, lastHighlighted)
	if len(fresh) == 0 {
		return Result{Action: entities.SyncActionSkipped, PreviousCount: previousCount}, nil
	}

	if err := s.store.AppendClippings(ctx, id, texts(fresh)); err != nil {
		return Result{}, transportError("append clippings", err)
	}

	// "Highlights" holds the number appended by this sync, not a running total.
	err = s.store.UpdateBook(ctx, id, entities.BookUpdate{
		HighlightCount:  len(fresh),
		LastHighlighted: latest(lastHighlighted, last, fresh),
		LastSynced:      s.now(),
	})
	if err != nil {
		return Result{}, transportError("update book", err)
	}

	s.log.Debug("book updated",
		zap.String("id", id),
		zap.Time("last_highlighted", lastHighlighted),
		zap.Int("added", len(fresh)))

	return Result{
		Action:        entities.SyncActionUpdated,
		Added:         len(fresh),
		PreviousCount: previousCount,
	}, nil
}

// newerThan keeps clippings strictly after since, compared by wall clock.
func newerThan(clippings []entities.FormattedClipping, since time.Time) []entities.FormattedClipping {
	var fresh []entities.FormattedClipping
	for _, c := range clippings {
		if entities.WallClock(c.AddedAt).After(since) {
			fresh = append(fresh, c)
		}
	}
	return fresh
}

// latest returns the value to store as "Last Highlighted" after appending
// fresh. It never moves backwards, so an undated or out-of-order trailing
// clipping cannot make already sent clippings look new again.
func latest(stored, last time.Time, fresh []entities.FormattedClipping) time.Time {
	newest := stored
	if !last.IsZero() && entities.WallClock(last).After(entities.WallClock(newest)) {
		newest = last
	}
	for _, c := range fresh {
		if entities.WallClock(c.AddedAt).After(entities.WallClock(newest)) {
			newest = c.AddedAt
		}
	}
	return newest
}

// orEpoch stands in for a book with no dated clipping.
func orEpoch(t time.Time) time.Time {
	if t.IsZero() {
		return entities.Epoch
	}
	return t
}

func texts(clippings []entities.FormattedClipping) []string {
	out := make([]string, len(clippings))
	for i, c := range clippings {
		out[i] = c.Text
	}
	return out
}

func transportError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}
