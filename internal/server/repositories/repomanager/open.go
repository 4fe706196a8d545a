package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/filex"
)

var ErrUnsupportedDSN = errors.New("unsupported database dsn")

// Driver names registered by the imported database/sql drivers.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// ResolveDSN picks the database/sql driver for dsn and returns the data source
// name in the form that driver expects.
//
//	postgres://..., postgresql://...  -> pgx
//	sqlite://path, file:..., :memory: -> sqlite
func ResolveDSN(dsn string) (driver, source string, err error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DriverPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		source = strings.TrimPrefix(dsn, "sqlite://")
		if source == "" {
			return "", "", fmt.Errorf("%w: empty sqlite path", ErrUnsupportedDSN)
		}
		return DriverSQLite, source, nil
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return DriverSQLite, dsn, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDSN, redact(dsn))
	}
}

// Open connects to the database named by dsn, checks it is reachable and
// returns the matching RepositoryManager. Migrations are not run.
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	driver, source, err := ResolveDSN(dsn)
	if err != nil {
		return nil, nil, err
	}

	if driver == DriverSQLite && strings.HasPrefix(dsn, "sqlite://") {
		if _, err := filex.EnsureParentDir(sqlitePath(source)); err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", driver, err)
		}
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", driver, err)
	}

	var m RepositoryManager
	switch driver {
	case DriverSQLite:
		// a single connection keeps :memory: databases alive and serializes writers
		db.SetMaxOpenConns(1)
		m = NewSQLiteRepositoryManager()
	default:
		m = NewPostgresRepositoryManager()
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, m, nil
}

// sqlitePath strips query parameters from a sqlite data source.
func sqlitePath(source string) string {
	path, _, _ := strings.Cut(source, "?")
	return path
}

// redact hides everything after the scheme so credentials never reach logs.
func redact(dsn string) string {
	if i := strings.Index(dsn, "://"); i >= 0 {
		return dsn[:i+3] + "..."
	}
	if len(dsn) > 8 {
		return dsn[:8] + "..."
	}
	return dsn
}
