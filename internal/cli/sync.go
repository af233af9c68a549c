package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mrlokans/kindle2notion/internal/entrypoint"
)

// syncFlags maps each command-line flag to its configuration key.
var syncFlags = map[string]string{
	"file":                  "clippings_path",
	"notion-token":          "notion_api_auth_token",
	"database-id":           "notion_database_id",
	"enable-highlight-date": "enable_highlight_date",
	"enable-book-cover":     "enable_book_cover",
	"cover-provider":        "cover_provider",
}

func newSyncCommand(v *viper.Viper, use string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   use,
		Short: "Send new Kindle clippings to Notion",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(v, cmd.Flags(), syncFlags)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(v)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			out := cmd.OutOrStdout()
			if dryRun {
				return entrypoint.Preview(cfg.Kindle.ClippingsPath, cfg.Export.EnableHighlightDate, out, log)
			}

			app, err := entrypoint.NewApp(cfg, log, out)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			_, err = app.Sync(ctx)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringP("file", "f", "", "Path to 'My Clippings.txt' (CLIPPINGS_PATH)")
	flags.String("notion-token", "", "Notion integration token (NOTION_API_AUTH_TOKEN)")
	flags.String("database-id", "", "Notion database ID (NOTION_DATABASE_ID)")
	flags.Bool("enable-highlight-date", true, "Append the date a clipping was added (ENABLE_HIGHLIGHT_DATE)")
	flags.Bool("enable-book-cover", true, "Look up a cover for newly created pages (ENABLE_BOOK_COVER)")
	flags.String("cover-provider", "", "Cover source: google or openlibrary (COVER_PROVIDER)")
	flags.BoolVar(&dryRun, "dry-run", false, "Parse and print what would be sent without contacting Notion")

	return cmd
}

// bindFlags binds flags to configuration keys. Flags the user did not set
// fall back to the environment and then to the defaults.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}
