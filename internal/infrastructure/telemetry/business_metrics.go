package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// CatalogMetricsProvider supplies catalog data for periodic metrics
// collection without coupling the telemetry layer to the catalog domain.
type CatalogMetricsProvider interface {
	// GetProductCount returns the total number of products across all owners
	GetProductCount(ctx context.Context) (int64, error)
}

// BusinessMetrics tracks pricing, catalog and authentication activity.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	quoteTotal          *Counter
	quoteMargin         *Histogram
	productCreatedTotal *Counter
	productDeletedTotal *Counter
	loginTotal          *Counter
	registrationTotal   *Counter
	tokenRefreshTotal   *Counter

	catalogSize *Gauge

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewBusinessMetrics creates and registers all business metric instruments.
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	bm := &BusinessMetrics{
		meter:    meter,
		logger:   logger,
		stopChan: make(chan struct{}),
	}

	var err error

	bm.quoteTotal, err = NewCounter(meter,
		"pricing_quote_total",
		"Total number of pricing quotes computed",
		"{quote}")
	if err != nil {
		return nil, err
	}

	bm.quoteMargin, err = NewHistogram(meter, HistogramOpts{
		Name:        "pricing_quote_margin",
		Description: "Distribution of profit margins requested in quotes",
		Unit:        "%",
		Boundaries:  MarginBuckets,
	})
	if err != nil {
		return nil, err
	}

	bm.productCreatedTotal, err = NewCounter(meter,
		"catalog_product_created_total",
		"Total number of products created",
		"{product}")
	if err != nil {
		return nil, err
	}

	bm.productDeletedTotal, err = NewCounter(meter,
		"catalog_product_deleted_total",
		"Total number of products deleted",
		"{product}")
	if err != nil {
		return nil, err
	}

	bm.loginTotal, err = NewCounter(meter,
		"auth_login_total",
		"Total number of login attempts",
		"{attempt}")
	if err != nil {
		return nil, err
	}

	bm.registrationTotal, err = NewCounter(meter,
		"auth_registration_total",
		"Total number of user registrations",
		"{registration}")
	if err != nil {
		return nil, err
	}

	bm.tokenRefreshTotal, err = NewCounter(meter,
		"auth_token_refresh_total",
		"Total number of token refreshes",
		"{refresh}")
	if err != nil {
		return nil, err
	}

	bm.catalogSize, err = NewGauge(meter,
		"catalog_product_count",
		"Current number of products in the catalog",
		"{product}")
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordQuote records one computed pricing quote.
func (bm *BusinessMetrics) RecordQuote(ctx context.Context, margin decimal.Decimal) {
	bm.quoteTotal.Inc(ctx)
	bm.quoteMargin.Record(ctx, margin.InexactFloat64())
}

// RecordProductCreated records one product creation.
func (bm *BusinessMetrics) RecordProductCreated(ctx context.Context) {
	bm.productCreatedTotal.Inc(ctx)
}

// RecordProductDeleted records one product deletion.
func (bm *BusinessMetrics) RecordProductDeleted(ctx context.Context) {
	bm.productDeletedTotal.Inc(ctx)
}

// RecordLogin records a login attempt with its outcome ("success",
// "invalid_credentials", "locked", "deactivated").
func (bm *BusinessMetrics) RecordLogin(ctx context.Context, outcome string) {
	bm.loginTotal.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordRegistration records one completed user registration.
func (bm *BusinessMetrics) RecordRegistration(ctx context.Context) {
	bm.registrationTotal.Inc(ctx)
}

// RecordTokenRefresh records a token refresh with its outcome.
func (bm *BusinessMetrics) RecordTokenRefresh(ctx context.Context, outcome string) {
	bm.tokenRefreshTotal.Inc(ctx, AttrOutcome.String(outcome))
}

// StartPeriodicCollection samples catalog gauges on the given interval
// until StopPeriodicCollection is called or the context is cancelled.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, provider CatalogMetricsProvider, interval time.Duration) {
	if provider == nil {
		bm.logger.Debug("No catalog metrics provider, skipping periodic collection")
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-bm.stopChan:
				return
			case <-ticker.C:
				bm.collectCatalogMetrics(ctx, provider)
			}
		}
	}()
}

// StopPeriodicCollection stops the periodic collector. Safe to call
// multiple times.
func (bm *BusinessMetrics) StopPeriodicCollection() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

func (bm *BusinessMetrics) collectCatalogMetrics(ctx context.Context, provider CatalogMetricsProvider) {
	collectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := provider.GetProductCount(collectCtx)
	if err != nil {
		bm.logger.Warn("Failed to collect catalog size metric", zap.Error(err))
		return
	}

	bm.catalogSize.Record(collectCtx, count)
}
