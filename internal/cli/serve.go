package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrlokans/kindle2notion/internal/entrypoint"
	"github.com/mrlokans/kindle2notion/internal/scheduler"
)

var serveFlags = map[string]string{
	"host":     "host",
	"port":     "port",
	"schedule": "sync_schedule",
}

func newServeCommand(v *viper.Viper, info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled syncs and the HTTP status API until interrupted",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(v, cmd.Flags(), serveFlags)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(v)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cmd.Flags().Changed("schedule") {
				cfg.Schedule.Enabled = true
			}
			if cfg.Schedule.Enabled {
				if err := scheduler.ValidateSchedule(cfg.Schedule.Cron); err != nil {
					return err
				}
			}

			return entrypoint.Run(cfg, log, info.Version)
		},
	}

	flags := cmd.Flags()
	flags.String("host", "", "Address to listen on (HOST)")
	flags.Int32("port", 0, "Port to listen on (PORT)")
	flags.String("schedule", "", "Cron schedule; setting it enables scheduled syncs (SYNC_SCHEDULE)")

	return cmd
}
