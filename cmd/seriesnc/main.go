// Command seriesnc converts a dumped set of station timeseries / vertical
// profile records into a netCDF file.
//
// Usage:
//
//	seriesnc -in records.json -out series.nc \
//	  -profile-momentum-vars UU,VV \
//	  -profile-thermodynamic-vars TT,HU \
//	  -squash-forecasts
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/couchcryptid/seriesnc/internal/adapter/http"
	"github.com/couchcryptid/seriesnc/internal/config"
	"github.com/couchcryptid/seriesnc/internal/observability"
	"github.com/couchcryptid/seriesnc/internal/pipeline"
)

func main() {
	cfg := config.New()

	var momentum, thermo string
	flag.StringVar(&cfg.InputPath, "in", "", "input record dump (JSON)")
	flag.StringVar(&cfg.OutputPath, "out", "", "output netCDF file")
	flag.StringVar(&momentum, "profile-momentum-vars", "", "comma-separated list of variables that use momentum levels")
	flag.StringVar(&thermo, "profile-thermodynamic-vars", "", "comma-separated list of variables that use thermodynamic levels")
	flag.BoolVar(&cfg.MissingBottomLevel, "missing-bottom-profile-level", false, "assume the bottom level of the profile data is missing")
	flag.BoolVar(&cfg.SquashForecasts, "squash-forecasts", false, "merge the forecast axis into an absolute validity-time axis")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "serve /metrics and /healthz on this address while converting")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text, json)")
	flag.Parse()

	cfg.MomentumVars = config.SplitVarList(momentum)
	cfg.ThermodynamicVars = config.SplitVarList(thermo)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		flag.Usage()
		os.Exit(2)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	pipe := pipeline.New(cfg, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, pipe, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("monitoring server failed", "error", err)
			}
		}()
	}

	err := pipe.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("monitoring server shutdown failed", "error", shutdownErr)
		}
		cancel()
	}

	if err != nil {
		logger.Error("conversion failed", "error", err)
		os.Exit(1)
	}
}
