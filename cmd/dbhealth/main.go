package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/joseph-ayodele/customs-invoices/internal/common"
	"github.com/joseph-ayodele/customs-invoices/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := common.LoadConfig()
	if cfg.Database.Host == "" || cfg.Database.Database == "" {
		log.Println("ERROR: HOST and DATABASE env vars are required")
		log.Println("  mac/Linux (bash/zsh): export HOST=localhost DATABASE=invoices USER=... PASS=...")
		log.Println("  Windows (PowerShell): $env:HOST='localhost'; $env:DATABASE='invoices'")
		os.Exit(2)
	}

	db, err := repository.Open(ctx, cfg.Database, nil)
	if err != nil {
		log.Fatalf("opening DB: %v", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Printf("ERROR: closing DB: %v", cerr)
		}
	}()

	if err := repository.HealthCheck(ctx, db, 1*time.Second, nil); err != nil {
		log.Fatalf("DB health: FAIL (%v)", err)
	}
	log.Println("DB health: OK")

	if err := repository.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("ensuring schema: %v", err)
	}
	log.Println("schema: OK")

	repo := repository.NewInvoiceRepository(db, cfg.Database.StatementTimeout, nil)
	count, err := repo.CountInvoices(ctx)
	if err != nil {
		log.Fatalf("counting invoices: %v", err)
	}
	log.Printf("invoices count: %d", count)
}
