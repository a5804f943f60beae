// Package extract turns PDF bytes into the text handed to prompt selection
// and field extraction. The primary path decodes the text layer in-process;
// a pdftotext fallback covers documents the decoder chokes on.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Config for the PDF reader.
type Config struct {
	// Pdftotext is the fallback binary; empty disables the fallback.
	Pdftotext string
	MaxPages  int
}

// Result is the outcome of one extraction.
type Result struct {
	Text       string
	Pages      int
	TokenCount int
	Method     string // "native" or "pdftotext"
}

// Reader extracts the text layer of PDF documents.
type Reader struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewReader(cfg Config, logger *slog.Logger) *Reader {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{cfg: cfg, runner: execRunner{}, logger: logger}
}

// ExtractText reads the text layer of the PDF at path and returns it along
// with an estimated token count for downstream prompt budgeting.
func (r *Reader) ExtractText(ctx context.Context, path string) (Result, error) {
	res, err := r.nativeText(path)
	if err != nil {
		r.logger.Warn("extract.native.failed", "path", path, "error", err)
		res, err = r.pdftotext(ctx, path)
		if err != nil {
			return Result{}, fmt.Errorf("extract text from %s: %w", path, err)
		}
	}
	res.TokenCount = EstimateTokens(res.Text)
	r.logger.Info("extract.ok",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"text_len", len(res.Text),
		"tokens", res.TokenCount,
	)
	return res, nil
}

// IsReadable reports whether the document has a decodable text layer at all.
func (r *Reader) IsReadable(path string) bool {
	res, err := r.nativeText(path)
	return err == nil && strings.TrimSpace(res.Text) != ""
}

func (r *Reader) nativeText(path string) (Result, error) {
	f, doc, err := pdf.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			r.logger.Warn("extract.close.failed", "path", path, "error", cerr)
		}
	}()

	pages := doc.NumPage()
	if r.cfg.MaxPages > 0 && pages > r.cfg.MaxPages {
		pages = r.cfg.MaxPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		txt, err := page.GetPlainText(nil)
		if err != nil {
			return Result{}, fmt.Errorf("decode page %d: %w", i, err)
		}
		if b.Len() > 0 {
			b.WriteString("\f")
		}
		b.WriteString(txt)
	}
	return Result{Text: b.String(), Pages: pages, Method: "native"}, nil
}

func (r *Reader) pdftotext(ctx context.Context, path string) (Result, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := r.runner.Run(ctx, r.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return Result{}, fmt.Errorf("pdftotext: %w (%s)", err, truncate(string(errb), 512))
	}
	text := string(out)
	// A form-feed \f is used as page separator by default
	pages := 1 + strings.Count(text, "\f")
	return Result{Text: text, Pages: pages, Method: "pdftotext"}, nil
}
