// Package providers implements the external data collaborators the engines
// consume: price history, live quotes and statement snapshots.
package providers

import (
	"context"

	"finsight/internal/errors"
	"finsight/internal/models"
)

// PriceProvider fetches daily close-price history.
type PriceProvider interface {
	History(ctx context.Context, symbol string, days int) ([]models.PricePoint, error)
}

// QuoteProvider fetches the best-effort last traded price.
type QuoteProvider interface {
	LastPrice(ctx context.Context, symbol string) (float64, error)
}

// StatementProvider fetches financial statement snapshots.
type StatementProvider interface {
	Statements(ctx context.Context, symbol string) (*models.StatementSnapshot, error)
}

// FallbackQuote tries each provider in order and returns the first price.
type FallbackQuote struct {
	providers []QuoteProvider
}

// NewFallbackQuote chains quote providers by priority.
func NewFallbackQuote(providers ...QuoteProvider) *FallbackQuote {
	return &FallbackQuote{providers: providers}
}

// LastPrice returns the first successful quote from the chain.
func (f *FallbackQuote) LastPrice(ctx context.Context, symbol string) (float64, error) {
	var lastErr error
	for _, p := range f.providers {
		if p == nil {
			continue
		}
		price, err := p.LastPrice(ctx, symbol)
		if err == nil {
			return price, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.ErrDataUnavailable
	}
	return 0, errors.Wrapf(lastErr, "no quote for %s", symbol)
}
