package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/joseph-ayodele/customs-invoices/internal/common"
)

// Open connects to the primary store through the pgx stdlib driver.
func Open(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database", "host", cfg.Host, "database", cfg.Database)

	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, common.NewAppError("CONNECTION_ERROR", "opening database", common.ErrConnection)
	}

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("failed to reach database", "error", err)
		_ = db.Close()
		return nil, common.NewAppError("CONNECTION_ERROR", err.Error(), common.ErrConnection)
	}

	logger.Info("successfully connected to database")
	return db, nil
}

// HealthCheck pings the store, catching DSN and credential issues early.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		return common.WrapError(err, "database ping")
	}
	logger.Debug("database ping successful")
	return nil
}
