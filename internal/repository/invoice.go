package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"time"

	"github.com/joseph-ayodele/customs-invoices/internal/common"
	"github.com/joseph-ayodele/customs-invoices/internal/entity"
)

const insertInvoiceSQL = `
INSERT INTO invoices (invoice_number, invoice_date, buyer, total, e_docu, incoterm, lumps, rfc, processed)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// The header id is read back with a session-scoped identity query rather than
// RETURNING, preserving the insert-then-lookup contract of the stored
// procedure era. currval is only defined after the insert in this session.
const currentInvoiceIDSQL = `SELECT currval(pg_get_serial_sequence('invoices', 'id'))`

const insertLineItemSQL = `
INSERT INTO line_items (invoice_id, description, part_number, quantity, unit_of_measure, unit_cost, net_weight, gross_weight, total, raw_material, value_added, fraction)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

type InvoiceRepository interface {
	PersistInvoice(ctx context.Context, inv *entity.Invoice) error
	CountInvoices(ctx context.Context) (int64, error)
}

type invoiceRepository struct {
	db          *sql.DB
	logger      *slog.Logger
	stmtTimeout time.Duration
}

func NewInvoiceRepository(db *sql.DB, stmtTimeout time.Duration, logger *slog.Logger) InvoiceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &invoiceRepository{db: db, logger: logger, stmtTimeout: stmtTimeout}
}

// PersistInvoice writes one header row plus its line items in a single
// transaction on a dedicated connection. The header goes first; its generated
// id keys every item row. Any failure rolls the whole set back, so partial
// invoices never reach storage. An empty input is a defined no-op and opens
// no connection.
func (r *invoiceRepository) PersistInvoice(ctx context.Context, inv *entity.Invoice) error {
	if inv.IsEmpty() {
		r.logger.Info("persist.skip.empty_invoice")
		return nil
	}

	if r.stmtTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.stmtTimeout)
		defer cancel()
	}

	conn, err := r.db.Conn(ctx)
	if err != nil {
		r.logger.Error("persist.connection_failed", "error", err)
		return common.NewAppError("CONNECTION_ERROR", err.Error(), common.ErrConnection)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			r.logger.Warn("persist.connection_close_failed", "error", cerr)
		}
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("persist.begin_failed", "error", err)
		return common.NewAppError("PERSISTENCE_ERROR", err.Error(), common.ErrPersistence)
	}

	invoiceID, err := r.insertAll(ctx, tx, inv)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("persist.rollback_failed", "error", rbErr)
		}
		r.logger.Error("persist.failed",
			"invoice_number", inv.InvoiceNumber,
			"items", len(inv.Items),
			"error", err,
		)
		return common.NewAppError("PERSISTENCE_ERROR", err.Error(), common.ErrPersistence)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("persist.commit_failed", "invoice_number", inv.InvoiceNumber, "error", err)
		return common.NewAppError("PERSISTENCE_ERROR", err.Error(), common.ErrPersistence)
	}

	r.logger.Info("persist.ok",
		"invoice_number", inv.InvoiceNumber,
		"invoice_id", invoiceID,
		"items", len(inv.Items),
	)
	return nil
}

func (r *invoiceRepository) insertAll(ctx context.Context, tx *sql.Tx, inv *entity.Invoice) (int64, error) {
	if _, err := tx.ExecContext(ctx, insertInvoiceSQL,
		inv.InvoiceNumber, inv.InvoiceDate, inv.Buyer, inv.Total,
		inv.EDocu, inv.Incoterm, inv.Lumps, inv.RFC, inv.Processed,
	); err != nil {
		return 0, common.WrapError(err, "insert invoice header")
	}

	var invoiceID int64
	if err := tx.QueryRowContext(ctx, currentInvoiceIDSQL).Scan(&invoiceID); err != nil {
		return 0, common.WrapError(err, "read generated invoice id")
	}

	// insertion order follows the normalized item sequence
	for i, item := range inv.Items {
		if _, err := tx.ExecContext(ctx, insertLineItemSQL,
			invoiceID, item.Description, item.PartNumber, item.Quantity,
			item.UnitOfMeasure, item.UnitCost, item.NetWeight, item.GrossWeight,
			item.Total, item.RawMaterial, item.ValueAdded, item.Fraction,
		); err != nil {
			return 0, common.WrapError(err, "insert line item "+strconv.Itoa(i))
		}
	}
	return invoiceID, nil
}

func (r *invoiceRepository) CountInvoices(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&n); err != nil {
		return 0, common.WrapError(err, "count invoices")
	}
	return n, nil
}
