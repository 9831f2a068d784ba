// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"finsight/internal/models"
)

// PredictionStore persists prediction snapshots so the latest forecast per
// symbol survives restarts. The in-memory TTL cache remains authoritative
// for freshness; the store is a write-through snapshot.
type PredictionStore interface {
	SavePrediction(ctx context.Context, pred *models.PredictionResult) error
	GetPrediction(ctx context.Context, symbol string) (*models.PredictionResult, error)
	AllPredictions(ctx context.Context) (map[string]*models.PredictionResult, error)
	Close() error
}
