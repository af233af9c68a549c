package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Notion
		Kindle
		Export
		Audit
		Schedule
		HTTP
		Global
		Log
	}

	Notion struct {
		Token      string `validate:"required"`
		DatabaseID string `validate:"required"`
	}
	Kindle struct {
		ClippingsPath string `validate:"required"`
	}
	Export struct {
		EnableHighlightDate bool
		EnableBookCover     bool
		CoverProvider       string `validate:"oneof=google openlibrary"`
	}
	Audit struct {
		DatabasePath  string // Empty disables sync history
		RetentionDays int    `validate:"gte=0"`
	}
	Schedule struct {
		Enabled bool
		Cron    string // Cron format: "0 * * * *" = hourly
	}
	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Log struct {
		Level      string `validate:"oneof=debug info warn error"`
		File       string // Empty logs to stderr only
		MaxSizeMB  int
		MaxBackups int
	}
)

// NewViper returns a viper instance with defaults and environment lookup set
// up. Callers may bind command-line flags to it before building the Config.
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("notion_api_auth_token", "")
	v.SetDefault("notion_database_id", "")
	v.SetDefault("clippings_path", DefaultClippingsPath)
	v.SetDefault("enable_highlight_date", true)
	v.SetDefault("enable_book_cover", true)
	v.SetDefault("cover_provider", CoverProviderGoogle)
	v.SetDefault("audit_database_path", DefaultAuditDatabasePath)
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("sync_schedule_enabled", false)
	v.SetDefault("sync_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("port", 8188)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 10)
	v.SetDefault("log_max_backups", 3)
	return v
}

func NewConfig() *Config {
	return FromViper(NewViper())
}

func FromViper(v *viper.Viper) *Config {
	return &Config{
		Notion: Notion{
			Token:      v.GetString("NOTION_API_AUTH_TOKEN"),
			DatabaseID: v.GetString("NOTION_DATABASE_ID"),
		},
		Kindle: Kindle{
			ClippingsPath: v.GetString("CLIPPINGS_PATH"),
		},
		Export: Export{
			EnableHighlightDate: v.GetBool("ENABLE_HIGHLIGHT_DATE"),
			EnableBookCover:     v.GetBool("ENABLE_BOOK_COVER"),
			CoverProvider:       v.GetString("COVER_PROVIDER"),
		},
		Audit: Audit{
			DatabasePath:  v.GetString("AUDIT_DATABASE_PATH"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Schedule: Schedule{
			Enabled: v.GetBool("SYNC_SCHEDULE_ENABLED"),
			Cron:    v.GetString("SYNC_SCHEDULE"),
		},
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Log: Log{
			Level:      v.GetString("LOG_LEVEL"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		},
	}
}

// ValidateForSync checks everything a run against Notion needs.
func (c *Config) ValidateForSync() error {
	validate := validator.New()
	for name, section := range map[string]any{
		"notion": c.Notion,
		"kindle": c.Kindle,
		"export": c.Export,
		"audit":  c.Audit,
		"log":    c.Log,
	} {
		if err := validate.Struct(section); err != nil {
			return fmt.Errorf("invalid %s configuration: %w", name, err)
		}
	}
	return nil
}
