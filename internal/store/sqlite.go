package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"finsight/internal/errors"
	"finsight/internal/models"
)

// SQLiteStore implements PredictionStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based prediction store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Latest prediction snapshot per symbol
	CREATE TABLE IF NOT EXISTS predictions (
		symbol TEXT PRIMARY KEY,
		last_close REAL NOT NULL,
		pred_ret_1d REAL NOT NULL,
		pred_close_1d REAL NOT NULL,
		signal TEXT NOT NULL,
		model TEXT NOT NULL,
		computed_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_predictions_computed_at ON predictions(computed_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SavePrediction upserts the snapshot for the prediction's symbol.
func (s *SQLiteStore) SavePrediction(ctx context.Context, pred *models.PredictionResult) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO predictions (symbol, last_close, pred_ret_1d, pred_close_1d, signal, model, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			last_close = excluded.last_close,
			pred_ret_1d = excluded.pred_ret_1d,
			pred_close_1d = excluded.pred_close_1d,
			signal = excluded.signal,
			model = excluded.model,
			computed_at = excluded.computed_at`,
		pred.Symbol, pred.LastClose, pred.PredRet1D, pred.PredClose1,
		string(pred.Signal), pred.Model, pred.ComputedAt.UTC())
	if err != nil {
		return errors.Wrapf(err, "saving prediction for %s", pred.Symbol)
	}
	return nil
}

// GetPrediction returns the stored snapshot for symbol, or
// ErrDataUnavailable when none exists.
func (s *SQLiteStore) GetPrediction(ctx context.Context, symbol string) (*models.PredictionResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT symbol, last_close, pred_ret_1d, pred_close_1d, signal, model, computed_at
		FROM predictions WHERE symbol = ?`, symbol)

	pred, err := scanPrediction(row)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrDataUnavailable, "no stored prediction for %s", symbol)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading prediction for %s", symbol)
	}
	return pred, nil
}

// AllPredictions returns every stored snapshot keyed by symbol.
func (s *SQLiteStore) AllPredictions(ctx context.Context) (map[string]*models.PredictionResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, last_close, pred_ret_1d, pred_close_1d, signal, model, computed_at
		FROM predictions ORDER BY symbol`)
	if err != nil {
		return nil, errors.Wrap(err, "listing predictions")
	}
	defer rows.Close()

	out := make(map[string]*models.PredictionResult)
	for rows.Next() {
		pred, err := scanPrediction(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning prediction row")
		}
		out[pred.Symbol] = pred
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPrediction(row rowScanner) (*models.PredictionResult, error) {
	var pred models.PredictionResult
	var signal string
	var computedAt time.Time
	if err := row.Scan(&pred.Symbol, &pred.LastClose, &pred.PredRet1D,
		&pred.PredClose1, &signal, &pred.Model, &computedAt); err != nil {
		return nil, err
	}
	pred.Signal = models.TradeSignal(signal)
	pred.ComputedAt = computedAt
	return &pred, nil
}
