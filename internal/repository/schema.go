package repository

import (
	"context"
	"database/sql"

	"github.com/joseph-ayodele/customs-invoices/internal/common"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS invoices (
	id BIGSERIAL PRIMARY KEY,
	invoice_number TEXT NOT NULL,
	invoice_date TEXT NOT NULL,
	buyer TEXT NOT NULL,
	total DOUBLE PRECISION NOT NULL,
	e_docu TEXT NOT NULL,
	incoterm TEXT NOT NULL,
	lumps TEXT NOT NULL,
	rfc TEXT NOT NULL,
	processed SMALLINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS line_items (
	id BIGSERIAL PRIMARY KEY,
	invoice_id BIGINT NOT NULL REFERENCES invoices(id),
	description TEXT NOT NULL,
	part_number TEXT NOT NULL,
	quantity DOUBLE PRECISION NOT NULL,
	unit_of_measure TEXT NOT NULL,
	unit_cost DOUBLE PRECISION NOT NULL,
	net_weight DOUBLE PRECISION NOT NULL,
	gross_weight DOUBLE PRECISION NOT NULL,
	total DOUBLE PRECISION NOT NULL,
	raw_material DOUBLE PRECISION NOT NULL,
	value_added DOUBLE PRECISION NOT NULL,
	fraction TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_line_items_invoice_id ON line_items(invoice_id);
CREATE INDEX IF NOT EXISTS idx_invoices_invoice_number ON invoices(invoice_number);
`

// EnsureSchema creates the invoice tables when they are missing. Bootstrap
// DDL is serialized across concurrently starting processes with an advisory
// lock.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return common.WrapError(err, "begin schema tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2024071801)); err != nil {
		return common.WrapError(err, "acquire schema lock")
	}
	if _, err := tx.ExecContext(ctx, schemaDDL); err != nil {
		return common.WrapError(err, "execute schema ddl")
	}
	return common.WrapError(tx.Commit(), "commit schema tx")
}
