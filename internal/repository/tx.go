// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"log/slog"

	"reso/internal/middleware"
	"reso/internal/models"
	"reso/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique-constraint failure from
// any supported driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// retryable reports whether a failed transaction may be re-run. Domain errors
// and cancellation are final.
func retryable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// inTx runs fn in a transaction. A store failure re-runs it once; a second
// failure is reported as a conflict. fn must reset any captured results.
func inTx(ctx context.Context, db *gorm.DB, op string, fn func(tx *gorm.DB) error) error {
	err := db.WithContext(ctx).Transaction(fn)
	if !retryable(ctx, err) {
		return err
	}

	observability.TxRetries.WithLabelValues(op).Inc()
	middleware.Logger.WarnContext(ctx, "retrying transaction",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)

	err = db.WithContext(ctx).Transaction(fn)
	if !retryable(ctx, err) {
		return err
	}
	return models.NewConflictError("Concurrent update, please retry", err)
}

// decrementFloor is a SQL expression lowering column by n without going below zero.
func decrementFloor(column string, n int) clause.Expr {
	return gorm.Expr("CASE WHEN "+column+" > ? THEN "+column+" - ? ELSE 0 END", n, n)
}
