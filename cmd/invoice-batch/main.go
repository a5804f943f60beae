package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/joseph-ayodele/customs-invoices/constants"
	"github.com/joseph-ayodele/customs-invoices/internal/common"
	"github.com/joseph-ayodele/customs-invoices/internal/entity"
	"github.com/joseph-ayodele/customs-invoices/internal/export"
	"github.com/joseph-ayodele/customs-invoices/internal/extract"
	"github.com/joseph-ayodele/customs-invoices/internal/legacy"
	"github.com/joseph-ayodele/customs-invoices/internal/llm/openai"
	"github.com/joseph-ayodele/customs-invoices/internal/pipeline"
	"github.com/joseph-ayodele/customs-invoices/internal/repository"
	"github.com/joseph-ayodele/customs-invoices/internal/schema"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir       = flag.String("dir", "", "directory of invoice PDFs to process")
		file      = flag.String("file", "", "single invoice PDF to process")
		out       = flag.String("out", "", "output XLSX file path (optional)")
		useLegacy = flag.Bool("legacy", false, "also write to the local SQLite store")
	)
	flag.Parse()

	if *dir == "" && *file == "" {
		printError("Error: --dir or --file is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *out == "" {
		*out = cfg.Export.OutputPath
	}

	db, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Warn("database close failed", "error", cerr)
		}
	}()

	if err := repository.EnsureSchema(ctx, db); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	repo := repository.NewInvoiceRepository(db, cfg.Database.StatementTimeout, logger)

	var sink pipeline.StatementSink
	if *useLegacy {
		store, err := legacy.OpenStore(cfg.Legacy.Path, logger)
		if err != nil {
			logger.Error("failed to open legacy store", "path", cfg.Legacy.Path, "error", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := store.Close(); cerr != nil {
				logger.Warn("legacy store close failed", "error", cerr)
			}
		}()
		sink = store
		logger.Info("legacy store enabled", "path", cfg.Legacy.Path)
	}

	reader := extract.NewReader(extract.Config{}, logger)
	fields := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	logger.Info("field extraction client initialized", "model", cfg.LLM.Model)

	processor := pipeline.NewProcessor(reader, schema.DefaultRegistry(), fields, repo, sink, logger)

	paths, err := collectPDFs(*dir, *file)
	if err != nil {
		logger.Error("failed to scan input", "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		printError("Error: no PDF files found\n")
		os.Exit(1)
	}
	logger.Info("batch starting", "files", len(paths))

	var (
		processed []*entity.Invoice
		failures  int
	)
	for _, path := range paths {
		res, err := processor.ProcessFile(ctx, path)
		if err != nil {
			logger.Error("file failed", "path", path, "error", err)
			failures++
			continue
		}
		processed = append(processed, res.Invoice)
	}

	if len(processed) > 0 {
		xlsxBytes, err := export.NewService(logger).WorkbookBytes(processed)
		if err != nil {
			logger.Error("failed to render export", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
			logger.Error("failed to write export file", "path", *out, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("batch complete",
		"files", len(paths),
		"processed", len(processed),
		"failures", failures,
		"output_file", *out,
	)

	fmt.Printf("Batch complete!\n")
	fmt.Printf("- Files found: %d\n", len(paths))
	fmt.Printf("- Processed: %d\n", len(processed))
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Output: %s\n", *out)

	if failures > 0 {
		os.Exit(1)
	}
}

// collectPDFs gathers the input set: the single file, or every PDF under dir.
func collectPDFs(dir, file string) ([]string, error) {
	var paths []string
	if file != "" {
		paths = append(paths, file)
	}
	if dir == "" {
		return paths, nil
	}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.AllowedExtensions[ext]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
