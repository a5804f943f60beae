package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/customs-invoices/internal/common"
)

const legacyDDL = `
CREATE TABLE IF NOT EXISTS Invoice (
	InvoiceNumber TEXT,
	InvoiceDate TEXT,
	CountryOfOrigin TEXT,
	Supplier TEXT,
	Total TEXT
);
CREATE TABLE IF NOT EXISTS Item (
	InvoiceNumber TEXT,
	PartNumber TEXT,
	Description TEXT,
	Quantity REAL,
	UnitOfMeasure TEXT,
	Cost REAL,
	Weight REAL
);
`

// Store executes rendered statements against the local single-file SQLite
// database. Statements run in autocommit, one at a time, matching the
// original per-statement connection behavior.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenStore opens (and if needed creates) the single-file store at path.
// Use ":memory:" for tests.
func OpenStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.NewAppError("CONNECTION_ERROR", err.Error(), common.ErrConnection)
	}
	if _, err := db.Exec(legacyDDL); err != nil {
		_ = db.Close()
		return nil, common.NewAppError("CONNECTION_ERROR", err.Error(), common.ErrConnection)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Execute runs the header statement followed by each item statement.
// Callers must check BuildStatements' error before executing; an empty
// statement set executes nothing.
func (s *Store) Execute(ctx context.Context, stmts Statements) error {
	if stmts.Header == "" {
		s.logger.Info("legacy.skip.empty_statements")
		return nil
	}
	if err := s.exec(ctx, stmts.Header); err != nil {
		return err
	}
	for i, stmt := range stmts.Items {
		if err := s.exec(ctx, stmt); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func (s *Store) exec(ctx context.Context, stmt string) error {
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		s.logger.Error("legacy.exec_failed", "error", err)
		return common.NewAppError("PERSISTENCE_ERROR", err.Error(), common.ErrPersistence)
	}
	return nil
}

// InvoiceCount reports how many header rows the store holds.
func (s *Store) InvoiceCount(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Invoice`).Scan(&n); err != nil {
		return 0, common.WrapError(err, "count legacy invoices")
	}
	return n, nil
}
