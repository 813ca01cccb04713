package config

import "os"

// Server captures process-level configuration for the conflict engine.
type Server struct {
	Addr string

	// DBDriver selects the party graph backend: "postgres" for a relational
	// server, "sqlite" for an embedded single-file database.
	DBDriver string
	DBDSN    string

	// WorkspaceRoot is the directory holding per-matter metadata, the
	// external source of truth for reindexing.
	WorkspaceRoot string

	// ConflictsFile is the supplementary global conflicts list, merged into
	// every reindex and used as the degraded fallback source.
	ConflictsFile string

	// FallbackEnabled allows conflict checks to consult ConflictsFile when
	// the store is unreachable or empty.
	FallbackEnabled bool

	// AdminJWTKey guards the administrative endpoints (reindex, single-entry
	// seed). Empty disables admin auth, for development only.
	AdminJWTKey string

	// ReindexOnStart triggers a full reindex when the process boots.
	ReindexOnStart bool
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CONFLICTS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	driver := os.Getenv("CONFLICTS_DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	dsn := os.Getenv("CONFLICTS_DB_DSN")
	if dsn == "" {
		dsn = "file:conflicts.db?_pragma=busy_timeout(5000)"
	}

	workspace := os.Getenv("CONFLICTS_WORKSPACE_ROOT")
	if workspace == "" {
		workspace = "./workspace"
	}

	conflictsFile := os.Getenv("CONFLICTS_FILE")
	if conflictsFile == "" {
		conflictsFile = "./conflicts.yaml"
	}

	return Server{
		Addr:            addr,
		DBDriver:        driver,
		DBDSN:           dsn,
		WorkspaceRoot:   workspace,
		ConflictsFile:   conflictsFile,
		FallbackEnabled: os.Getenv("CONFLICTS_FALLBACK_DISABLED") != "true",
		AdminJWTKey:     os.Getenv("CONFLICTS_ADMIN_JWT_KEY"),
		ReindexOnStart:  os.Getenv("CONFLICTS_REINDEX_ON_START") != "false",
	}
}
