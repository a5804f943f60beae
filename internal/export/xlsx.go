// Package export renders persisted invoices as an XLSX workbook, one sheet
// for headers and one for line items.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/customs-invoices/internal/entity"
)

var invoiceHeaders = []string{
	"Invoice Number", "Invoice Date", "Buyer", "Total",
	"E-Document", "Incoterm", "Lumps", "RFC", "Processed",
}

var itemHeaders = []string{
	"Invoice Number", "Part Number", "Description", "Quantity",
	"Unit of Measure", "Unit Cost", "Net Weight", "Gross Weight",
	"Total", "Raw Material", "Value Added", "Fraction",
}

// Service produces XLSX bytes for invoice exports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WorkbookBytes renders the given invoices as a two-sheet workbook.
func (s *Service) WorkbookBytes(invoices []*entity.Invoice) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const invSheet = "Invoices"
	const itemSheet = "LineItems"

	if err := f.SetSheetName(f.GetSheetName(0), invSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(itemSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	writeRow(f, invSheet, 1, toCells(invoiceHeaders))
	writeRow(f, itemSheet, 1, toCells(itemHeaders))

	invRow, itemRow := 2, 2
	for _, inv := range invoices {
		writeRow(f, invSheet, invRow, []any{
			inv.InvoiceNumber, inv.InvoiceDate, inv.Buyer, inv.Total,
			inv.EDocu, inv.Incoterm, inv.Lumps, inv.RFC, inv.Processed,
		})
		invRow++

		for _, item := range inv.Items {
			writeRow(f, itemSheet, itemRow, []any{
				inv.InvoiceNumber, item.PartNumber, item.Description, item.Quantity,
				item.UnitOfMeasure, item.UnitCost, item.NetWeight, item.GrossWeight,
				item.Total, item.RawMaterial, item.ValueAdded, item.Fraction,
			})
			itemRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}

	s.logger.Info("export.ok",
		"invoices", len(invoices),
		"rows", invRow-2+itemRow-2,
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func toCells(headers []string) []any {
	out := make([]any, len(headers))
	for i, h := range headers {
		out[i] = h
	}
	return out
}
