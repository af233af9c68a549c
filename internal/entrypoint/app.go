package entrypoint

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/mrlokans/kindle2notion/internal/audit"
	"github.com/mrlokans/kindle2notion/internal/config"
	"github.com/mrlokans/kindle2notion/internal/covers"
	"github.com/mrlokans/kindle2notion/internal/database"
	auditRepo "github.com/mrlokans/kindle2notion/internal/database/audit"
	"github.com/mrlokans/kindle2notion/internal/kindle"
	"github.com/mrlokans/kindle2notion/internal/notion"
	"github.com/mrlokans/kindle2notion/internal/syncer"
)

// App holds everything a sync run needs, built once from the configuration.
type App struct {
	cfg    *config.Config
	log    *zap.Logger
	parser *kindle.Parser
	runner *syncer.Runner

	// db and history are nil when sync history is disabled.
	db      *database.Database
	history *audit.Service
}

// NewApp validates cfg and wires the Notion store, cover lookup, sync history
// and runner. Progress lines are written to out.
func NewApp(cfg *config.Config, log *zap.Logger, out io.Writer) (*App, error) {
	if err := cfg.ValidateForSync(); err != nil {
		return nil, err
	}

	app := &App{
		cfg:    cfg,
		log:    log,
		parser: kindle.NewParser(),
	}

	var recorder syncer.Recorder
	if cfg.Audit.DatabasePath != "" {
		db, err := database.NewDatabase(cfg.Audit.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sync history: %w", err)
		}
		app.db = db
		app.history = audit.NewService(auditRepo.NewRepository(db.DB), log)
		recorder = app.history
	}

	opts := []syncer.Option{}
	if cfg.Export.EnableBookCover {
		finder, err := covers.NewFinder(cfg.Export.CoverProvider)
		if err != nil {
			app.Close()
			return nil, err
		}
		opts = append(opts, syncer.WithCoverFinder(finder))
	}

	store := notion.NewStore(cfg.Notion.Token, cfg.Notion.DatabaseID)
	synchronizer := syncer.New(store, log, opts...)
	app.runner = syncer.NewRunner(synchronizer, syncer.NewReporter(out), recorder, log, cfg.Export.EnableHighlightDate)

	return app, nil
}

// Sync parses the clippings file and synchronizes every book in it.
func (a *App) Sync(ctx context.Context) (syncer.Summary, error) {
	library, err := a.parser.ParseFile(a.cfg.Kindle.ClippingsPath)
	if err != nil {
		return syncer.Summary{}, fmt.Errorf("failed to read clippings: %w", err)
	}

	a.log.Info("clippings parsed",
		zap.String("path", a.cfg.Kindle.ClippingsPath),
		zap.Int("books", len(library.Books)),
		zap.Int("clippings", library.TotalHighlights()))

	summary, err := a.runner.Run(ctx, library)

	if a.history != nil {
		a.history.Prune(a.cfg.Audit.RetentionDays)
	}

	return summary, err
}

// History returns the sync history service, or nil when it is disabled.
func (a *App) History() *audit.Service {
	return a.history
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Preview parses the clippings file and prints how many clippings each book
// would send, without contacting Notion.
func Preview(path string, includeDate bool, out io.Writer, log *zap.Logger) error {
	library, err := kindle.NewParser().ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to read clippings: %w", err)
	}

	runner := syncer.NewRunner(nil, syncer.NewReporter(out), nil, log, includeDate)
	runner.Preview(library)

	fmt.Fprintf(out, "%d books, %d notes/highlights in total.\n", len(library.Books), library.TotalHighlights())
	return nil
}
