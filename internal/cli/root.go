// Package cli defines the kindle2notion command tree.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mrlokans/kindle2notion/internal/config"
	"github.com/mrlokans/kindle2notion/internal/logger"
)

// BuildInfo is set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
}

// NewRootCommand returns the command tree. Running it without a subcommand
// performs a sync, so the bare binary behaves like "kindle2notion sync".
func NewRootCommand(info BuildInfo) *cobra.Command {
	v := config.NewViper()

	root := newSyncCommand(v, "kindle2notion")
	root.Short = "Export Kindle highlights and notes to a Notion database"
	root.Long = `Export Kindle highlights and notes to a Notion database.

Every flag can also be set through the environment variable named in its help,
e.g. NOTION_API_AUTH_TOKEN, NOTION_DATABASE_ID or CLIPPINGS_PATH.`
	root.Version = info.Version
	root.SilenceUsage = true

	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (LOG_LEVEL)")
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		newSyncCommand(v, "sync"),
		newServeCommand(v, info),
		newHistoryCommand(v),
		newVersionCommand(info),
	)
	return root
}

// loadConfig builds the configuration and logger for a command.
func loadConfig(v *viper.Viper) (*config.Config, *zap.Logger, error) {
	cfg := config.FromViper(v)
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
