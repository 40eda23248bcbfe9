package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"TradeFlow/internal/domain/models"
)

const signalsTable = "signals"

// SignalSchema holds the DDL the signal store expects to exist.
var SignalSchema = []string{
	`CREATE TABLE IF NOT EXISTS signals (
		created_at        DateTime,
		asset             String,
		direction         String,
		signal_type       String,
		confidence        Float64,
		entry_price       Float64,
		stop_loss         Float64,
		exit_target1      Float64,
		exit_target2      Float64,
		current_price     Float64,
		volume_ratio      Float64,
		breakout_strength Float64,
		reasoning         String
	) ENGINE = MergeTree()
	ORDER BY (asset, created_at)`,
}

// SignalStore persists scan output to ClickHouse for later review.
type SignalStore struct {
	db *sql.DB
}

// NewSignalStore creates the store. The caller applies SignalSchema first.
func NewSignalStore(db *sql.DB) *SignalStore {
	return &SignalStore{db: db}
}

// StoreBatch inserts all signals in one multi-row statement.
func (s *SignalStore) StoreBatch(ctx context.Context, signals []models.Signal) error {
	if len(signals) == 0 {
		return nil
	}

	values := make([]string, 0, len(signals))
	args := make([]interface{}, 0, len(signals)*13)
	for _, sig := range signals {
		createdAt, err := time.Parse(time.RFC3339, sig.Timestamp)
		if err != nil {
			createdAt = time.Now().UTC()
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			createdAt,
			sig.Asset,
			string(sig.Signal),
			string(sig.SignalType),
			sig.Confidence,
			sig.EntryPrice,
			sig.StopLoss,
			sig.ExitTarget1,
			sig.ExitTarget2,
			sig.CurrentPrice,
			sig.VolumeRatio,
			sig.BreakoutStrength,
			strings.Join(sig.Reasoning, "\n"),
		)
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (created_at, asset, direction, signal_type, confidence, entry_price, stop_loss, exit_target1, exit_target2, current_price, volume_ratio, breakout_strength, reasoning) VALUES %s",
		signalsTable, strings.Join(values, ","),
	)
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert signals: %w", err)
	}
	return nil
}

// Close is a no-op; the connection pool is owned by the app.
func (s *SignalStore) Close() error {
	return nil
}
