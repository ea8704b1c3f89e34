package series

import (
	"log/slog"

	"github.com/couchcryptid/seriesnc/internal/dataset"
	"github.com/couchcryptid/seriesnc/internal/fstd"
	"github.com/couchcryptid/seriesnc/internal/observability"
)

// Options is the configuration surface of the timeseries stages.
type Options struct {
	// MomentumVars and ThermodynamicVars name the variables whose vertical
	// levels come from the SV and SH records respectively.
	MomentumVars      []string
	ThermodynamicVars []string
	// MissingBottomLevel trims the last element of the SH/SV arrays, for
	// files where the bottom profile level is physically missing.
	MissingBottomLevel bool
	// SquashForecasts merges the forecast-offset axis into an absolute
	// validity-time axis.
	SquashForecasts bool
}

// Processor runs the timeseries post-processing stages over the variable
// list produced by materialization. It mutates variables in place; the list
// itself is never replaced.
type Processor struct {
	store   fstd.Store
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics

	momentumSet map[string]bool
	thermoSet   map[string]bool

	// Extracted axes, nil when the auxiliary record is absent.
	station    *dataset.Var // canonical station name coordinate
	stationDim *dataset.Axis
	strlenDim  *dataset.Axis
	forecast   *dataset.Axis
	momentum   *dataset.Axis
	thermo     *dataset.Axis
}

// NewProcessor creates a Processor over a classified record store.
func NewProcessor(store fstd.Store, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Processor {
	return &Processor{
		store:       store,
		opts:        opts,
		logger:      logger,
		metrics:     metrics,
		momentumSet: nameSet(opts.MomentumVars),
		thermoSet:   nameSet(opts.ThermodynamicVars),
	}
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Apply runs axis extraction, axis remapping, the optional forecast squash,
// and station coordinate binding, in that order. All mutation is in place.
func (p *Processor) Apply(vars []*dataset.Var) {
	p.extractAxes()
	p.remap(vars)
	if p.opts.SquashForecasts {
		p.squash(vars)
	}
	p.bindStations(vars)
}

// varLayout tags one variable with its record convention, from the
// variable's own typvar/grtyp attributes.
func varLayout(v *dataset.Var) fstd.Layout {
	return layoutOf(attrString(v, "typvar"), attrString(v, "grtyp"))
}

func attrString(v *dataset.Var, key string) string {
	if s, ok := v.Attrs[key].(string); ok {
		return s
	}
	return ""
}
