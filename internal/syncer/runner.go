package syncer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mrlokans/kindle2notion/internal/aggregator"
	"github.com/mrlokans/kindle2notion/internal/entities"
)

// Recorder keeps the history of book sync outcomes.
type Recorder interface {
	RecordSync(event *entities.SyncEvent) error
}

// Summary counts the outcomes of one run.
type Summary struct {
	RunID         string    `json:"run_id"`
	Books         int       `json:"books"`
	Created       int       `json:"created"`
	Updated       int       `json:"updated"`
	Skipped       int       `json:"skipped"`
	Added         int       `json:"added"`
	CoverWarnings int       `json:"cover_warnings"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Error         string    `json:"error,omitempty"`
}

// Runner synchronizes a whole library, one book at a time in library order.
type Runner struct {
	synchronizer *Synchronizer
	reporter     *Reporter
	recorder     Recorder
	log          *zap.Logger
	includeDate  bool
}

// NewRunner wires a run. recorder may be nil to skip sync history.
func NewRunner(synchronizer *Synchronizer, reporter *Reporter, recorder Recorder, log *zap.Logger, includeDate bool) *Runner {
	return &Runner{
		synchronizer: synchronizer,
		reporter:     reporter,
		recorder:     recorder,
		log:          log,
		includeDate:  includeDate,
	}
}

// Run syncs every book. The first error stops the run; books after it are
// not touched. The returned Summary covers the books processed so far.
func (r *Runner) Run(ctx context.Context, library entities.Library) (Summary, error) {
	summary := Summary{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
	log := r.log.With(zap.String("run_id", summary.RunID))

	r.reporter.Start()

	for _, book := range library.Books {
		if err := ctx.Err(); err != nil {
			return r.finish(log, summary, err)
		}

		clippings, last := aggregator.Aggregate(book.Highlights, r.includeDate)

		r.reporter.Book(book.Title, book.Author)
		result, err := r.synchronizer.Sync(ctx, book.Title, book.Author, clippings, last)
		if err != nil {
			r.record(log, summary.RunID, book, Result{Action: entities.SyncActionFailed}, err)
			return r.finish(log, summary, err)
		}
		r.reporter.Result(result)
		r.record(log, summary.RunID, book, result, nil)

		summary.Books++
		summary.Added += result.Added
		if result.CoverWarning {
			summary.CoverWarnings++
		}
		switch result.Action {
		case entities.SyncActionCreated:
			summary.Created++
		case entities.SyncActionUpdated:
			summary.Updated++
		case entities.SyncActionSkipped:
			summary.Skipped++
		}
	}

	return r.finish(log, summary, nil)
}

// Preview prints what Run would send without contacting the database.
func (r *Runner) Preview(library entities.Library) {
	for _, book := range library.Books {
		clippings, _ := aggregator.Aggregate(book.Highlights, r.includeDate)
		r.reporter.Book(book.Title, book.Author)
		r.reporter.Pending(len(clippings))
	}
}

func (r *Runner) finish(log *zap.Logger, summary Summary, err error) (Summary, error) {
	summary.FinishedAt = time.Now()
	if err != nil {
		summary.Error = err.Error()
		log.Error("sync run aborted", zap.Int("books_done", summary.Books), zap.Error(err))
		return summary, err
	}

	log.Info("sync run finished",
		zap.Int("books", summary.Books),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("added", summary.Added),
		zap.Duration("took", summary.FinishedAt.Sub(summary.StartedAt)))
	return summary, nil
}

func (r *Runner) record(log *zap.Logger, runID string, book entities.Book, result Result, syncErr error) {
	if r.recorder == nil {
		return
	}

	event := &entities.SyncEvent{
		RunID:         runID,
		Title:         book.Title,
		Author:        book.Author,
		Action:        result.Action,
		Added:         result.Added,
		PreviousCount: result.PreviousCount,
		CoverWarning:  result.CoverWarning,
		Status:        entities.AuditStatusSuccess,
	}
	if syncErr != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = syncErr.Error()
	}

	if err := r.recorder.RecordSync(event); err != nil {
		log.Warn("failed to record sync event", zap.String("title", book.Title), zap.Error(err))
	}
}
