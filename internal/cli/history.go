package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrlokans/kindle2notion/internal/audit"
	"github.com/mrlokans/kindle2notion/internal/database"
	auditRepo "github.com/mrlokans/kindle2notion/internal/database/audit"
	"github.com/mrlokans/kindle2notion/internal/entities"
)

const historyTimeLayout = "2006-01-02 15:04"

func newHistoryCommand(v *viper.Viper) *cobra.Command {
	var (
		limit, offset int
		runID, title  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent sync outcomes per book",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(v, cmd.Flags(), map[string]string{"db": "audit_database_path"})
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if runID != "" && title != "" {
				return errors.New("--run and --title cannot be combined")
			}

			cfg, log, err := loadConfig(v)
			if err != nil {
				return err
			}
			if cfg.Audit.DatabasePath == "" {
				return errors.New("sync history is disabled: AUDIT_DATABASE_PATH is empty")
			}

			db, err := database.NewDatabase(cfg.Audit.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()

			history := audit.NewService(auditRepo.NewRepository(db.DB), log)

			var (
				events []entities.SyncEvent
				total  int64
			)
			switch {
			case runID != "":
				events, err = history.GetRun(runID)
				total = int64(len(events))
			case title != "":
				events, total, err = history.GetEventsByTitle(title, limit, offset)
			default:
				events, total, err = history.GetEvents(limit, offset)
			}
			if err != nil {
				return fmt.Errorf("failed to load sync history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No sync history yet.")
				return nil
			}

			fmt.Fprintln(out, renderHistory(events))
			fmt.Fprintf(out, "Showing %d of %d events.\n", len(events), total)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of events to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of most recent events to skip")
	cmd.Flags().StringVar(&runID, "run", "", "Show every event of one sync run")
	cmd.Flags().StringVar(&title, "title", "", "Show events of one book title")
	cmd.Flags().String("db", "", "Path to the sync history database (AUDIT_DATABASE_PATH)")

	return cmd
}

func renderHistory(events []entities.SyncEvent) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("WHEN", "RUN", "BOOK", "ACTION", "PREV", "ADDED", "NOTE")

	for _, e := range events {
		note := e.ErrorMsg
		if note == "" && e.CoverWarning {
			note = "placeholder cover"
		}
		runID := e.RunID
		if len(runID) > 8 {
			runID = runID[:8]
		}
		t.Row(
			e.CreatedAt.Local().Format(historyTimeLayout),
			runID,
			e.Title,
			string(e.Action),
			previous(e),
			strconv.Itoa(e.Added),
			note,
		)
	}
	return t.String()
}

// previous shows the stored count an update started from; other actions have none.
func previous(e entities.SyncEvent) string {
	if e.Action != entities.SyncActionUpdated {
		return "-"
	}
	return strconv.Itoa(e.PreviousCount)
}
