package config

const (
	// DefaultAuditDatabasePath is where sync history is kept unless AUDIT_DATABASE_PATH overrides it
	DefaultAuditDatabasePath = "./kindle2notion.db"

	// DefaultClippingsPath is the clippings file location on a Kindle mounted on macOS
	DefaultClippingsPath = "/Volumes/Kindle/documents/My Clippings.txt"

	CoverProviderGoogle      = "google"
	CoverProviderOpenLibrary = "openlibrary"
)
