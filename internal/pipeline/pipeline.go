// Package pipeline orchestrates one conversion: load the record dump,
// classify the record table, materialize variables, run the timeseries
// stages, and write the netCDF output.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/seriesnc/internal/config"
	"github.com/couchcryptid/seriesnc/internal/dataset"
	"github.com/couchcryptid/seriesnc/internal/fstd"
	"github.com/couchcryptid/seriesnc/internal/ncout"
	"github.com/couchcryptid/seriesnc/internal/observability"
	"github.com/couchcryptid/seriesnc/internal/series"
)

// Pipeline runs the load-transform-write conversion.
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	started atomic.Bool
}

// New creates a Pipeline with the given configuration and observability.
func New(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{cfg: cfg, logger: logger, metrics: metrics}
}

// CheckReadiness returns nil once the conversion has started processing,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.started.Load() {
		return errors.New("conversion has not started yet")
	}
	return nil
}

// Run executes one conversion. The record table is mutated exactly once by
// classification before any variable exists; every later stage only
// replaces axis-list entries on its own variables.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.metrics.ConversionRunning.Set(1)
	defer p.metrics.ConversionRunning.Set(0)

	store, err := fstd.LoadDump(p.cfg.InputPath)
	if err != nil {
		return err
	}
	p.started.Store(true)
	p.logger.Info("record dump loaded", "path", p.cfg.InputPath, "records", store.Table().Rows())

	series.Classify(store.Table())
	p.countLayouts(store.Table())
	if err := ctx.Err(); err != nil {
		return err
	}

	vars := dataset.Materialize(store, series.MetaRecords)
	p.metrics.VariablesBuilt.Add(float64(len(vars)))
	p.logger.Info("variables materialized", "count", len(vars))

	proc := series.NewProcessor(store, series.Options{
		MomentumVars:       p.cfg.MomentumVars,
		ThermodynamicVars:  p.cfg.ThermodynamicVars,
		MissingBottomLevel: p.cfg.MissingBottomLevel,
		SquashForecasts:    p.cfg.SquashForecasts,
	}, p.logger, p.metrics)
	proc.Apply(vars)
	if err := ctx.Err(); err != nil {
		return err
	}

	writer := ncout.NewWriter(store, p.logger, p.metrics)
	if err := writer.Write(p.cfg.OutputPath, vars); err != nil {
		return err
	}

	elapsed := time.Since(start)
	p.metrics.ConversionDuration.Observe(elapsed.Seconds())
	p.logger.Info("conversion complete",
		"output", p.cfg.OutputPath,
		"variables", len(vars),
		"duration", elapsed.Round(time.Millisecond),
	)
	return nil
}

func (p *Pipeline) countLayouts(t *fstd.Table) {
	for _, layout := range t.Layout {
		p.metrics.RecordsClassified.WithLabelValues(layout.String()).Inc()
	}
}
