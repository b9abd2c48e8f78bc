// Package core wires the classification, resolution and matching pipeline
// into a single conversion operation.
package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tuneswap/internal/store"
	"tuneswap/pkg/spotlink"
)

// Converter runs the full conversion pipeline: classify the URL, resolve
// metadata through the extraction chain, select an Apple Music destination.
// A conversion never hard-fails once a reference is produced; the worst
// outcome is a generic regional search URL.
type Converter struct {
	cfg      *Config
	resolver MetadataResolver
	matcher  DestinationFinder
	cache    *store.ResultCache[*ConversionResult]
	stats    StatsRecorder
	metrics  MetricsRecorder
	logger   *zap.Logger
}

// NewConverter creates a converter. cache, stats and metrics may be nil.
func NewConverter(
	cfg *Config,
	resolver MetadataResolver,
	matcher DestinationFinder,
	cache *store.ResultCache[*ConversionResult],
	stats StatsRecorder,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *Converter {
	return &Converter{
		cfg:      cfg,
		resolver: resolver,
		matcher:  matcher,
		cache:    cache,
		stats:    stats,
		metrics:  metrics,
		logger:   logger,
	}
}

// Convert turns a Spotify URL into an Apple Music destination. It returns
// ErrNotConvertible for URLs that don't reference a known item type and
// ErrDisabled when conversion is switched off; every other path yields a
// usable result.
func (c *Converter) Convert(ctx context.Context, rawURL string) (*ConversionResult, error) {
	if !c.cfg.Convert.Enabled {
		return nil, ErrDisabled
	}

	ref := spotlink.Classify(rawURL)
	if ref == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotConvertible, rawURL)
	}

	cacheKey := fmt.Sprintf("%s:%s", ref.Kind, ref.ID)
	if c.cache != nil {
		if cached, ok := c.cache.Get(cacheKey); ok {
			c.logger.Debug("Conversion cache hit", zap.String("key", cacheKey))
			c.recordMetrics(ref, cached, 0)
			return cached, nil
		}
	}

	start := time.Now()

	md, method := c.resolver.Resolve(ctx, ref)
	destination, exact := c.matcher.Destination(ctx, md, ref.Kind, c.cfg.Convert.CountryCode)

	result := &ConversionResult{
		DestinationURL: destination,
		ExactMatch:     exact,
		Reference:      ref,
		Metadata:       md,
		ResolvedBy:     method,
	}

	c.logger.Info("Converted link",
		zap.String("kind", string(ref.Kind)),
		zap.String("id", ref.ID),
		zap.String("title", md.Title),
		zap.String("artist", md.Artist),
		zap.String("resolved_by", method),
		zap.Bool("exact_match", exact),
		zap.Duration("took", time.Since(start)))

	if c.cache != nil {
		c.cache.Add(cacheKey, result)
	}

	if c.stats != nil {
		if err := c.stats.Record(ctx, string(ref.Kind), c.cfg.Convert.CountryCode, exact); err != nil {
			c.logger.Warn("Failed to record conversion stats", zap.Error(err))
		}
	}

	if c.metrics != nil {
		c.metrics.RecordResolverMethod(method)
	}
	c.recordMetrics(ref, result, time.Since(start).Seconds())

	return result, nil
}

func (c *Converter) recordMetrics(ref *spotlink.MediaReference, result *ConversionResult, seconds float64) {
	if c.metrics == nil {
		return
	}

	status := "search"
	if result.ExactMatch {
		status = "exact"
	}
	c.metrics.RecordConversion(string(ref.Kind), status)
	if seconds > 0 {
		c.metrics.RecordConversionSeconds(string(ref.Kind), seconds)
	}
}
