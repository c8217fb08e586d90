package caselog

import (
	"context"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// journalSchema is applied on every Open and must therefore be idempotent.
var journalSchema = []string{
	`CREATE TABLE IF NOT EXISTS case_journal (
		id                   TEXT PRIMARY KEY,
		problem_id           TEXT NOT NULL,
		host_name            TEXT NOT NULL,
		service_display_name TEXT NOT NULL,
		created_at           DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_case_journal_problem_id ON case_journal (problem_id)`,
}

// Journal additionally records every case in an SQLite database.
// It's write-only from this program's perspective and never consulted when deciding on an event.
type Journal struct {
	db     *sqlx.DB
	logger *zap.SugaredLogger
}

// OpenJournal opens (and creates if necessary) the SQLite database at path.
func OpenJournal(ctx context.Context, path string, logger *zap.SugaredLogger) (*Journal, error) {
	// busy_timeout lets concurrent invocations wait for each other instead of failing with SQLITE_BUSY.
	db, err := sqlx.Open("sqlite3", "file:"+path+"?_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrapf(err, "can't open SQLite database %s", path)
	}

	for _, ddl := range journalSchema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			_ = db.Close()

			return nil, errors.Wrapf(err, "can't import schema into SQLite database %s", path)
		}
	}

	return &Journal{db: db, logger: logger}, nil
}

// Record inserts c.
func (j *Journal) Record(ctx context.Context, c *Case) error {
	const stmt = `INSERT INTO case_journal (id, problem_id, host_name, service_display_name, created_at) ` +
		`VALUES (:id, :problem_id, :host_name, :service_display_name, :created_at)`

	if _, err := j.db.NamedExecContext(ctx, stmt, c); err != nil {
		return errors.Wrap(err, "can't record case in journal")
	}

	j.logger.Debugw("Recorded case in journal", zap.Object("case", c))

	return nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
