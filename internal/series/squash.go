package series

import (
	"time"

	"github.com/couchcryptid/seriesnc/internal/dataset"
)

// axisPair keys the squashed-axis cache by the identity of the original
// time/forecast axis objects. Axes are shared by pointer across variables
// within one pass, so pointer identity is stable for the cache lifetime.
type axisPair struct {
	time, forecast *dataset.Axis
}

// squash merges the forecast-offset axis of each variable into an absolute
// validity-time axis. Only variables with a single date of origin can be
// squashed: the time and forecast dimensions are not adjacent in this
// layout, so multiple origins cannot be folded into one monotonic axis.
//
// Variables sharing the same (time, forecast) axis pair share one squashed
// axis object and one pair of leadtime/reftime auxiliary coordinates.
func (p *Processor) squash(vars []*dataset.Var) {
	squashed := make(map[axisPair]*dataset.Axis)
	leadtimes := make(map[axisPair]*dataset.Var)
	reftimes := make(map[axisPair]*dataset.Var)

	for _, v := range vars {
		ti := v.AxisIndex("time")
		fi := v.AxisIndex("forecast")
		if ti < 0 || fi < 0 {
			continue
		}
		timeAxis := v.Axes[ti]
		forecastAxis := v.Axes[fi]
		if timeAxis.Len() != 1 {
			p.warnAxis("multi_origin",
				"cannot squash forecasts with multiple dates of origin, leaving forecast axis",
				"variable", v.Name, "origins", timeAxis.Len())
			continue
		}

		v.DropAxis(ti)
		fi = v.AxisIndex("forecast")

		key := axisPair{timeAxis, forecastAxis}
		axis, ok := squashed[key]
		if !ok {
			t0 := timeAxis.Times[0]
			validity := make([]time.Time, forecastAxis.Len())
			for i, hours := range forecastAxis.Values {
				validity[i] = t0.Add(time.Duration(hours * float64(time.Hour)))
			}
			axis = dataset.NewTimeAxis("time", map[string]any{
				"standard_name": "time",
				"long_name":     "Validity time",
				"axis":          "T",
			}, validity)
			squashed[key] = axis
			leadtimes[key] = &dataset.Var{
				Name: "leadtime",
				Attrs: map[string]any{
					"standard_name": "forecast_period",
					"long_name":     "Lead time (since forecast_reference_time)",
					"units":         "hours",
				},
				Axes:   []*dataset.Axis{axis},
				Floats: append([]float64(nil), forecastAxis.Values...),
			}
			reftimes[key] = &dataset.Var{
				Name:  "reftime",
				Attrs: map[string]any{"standard_name": "forecast_reference_time"},
				Times: []time.Time{t0},
			}
		}

		v.Axes[fi] = axis
		v.Deps = append(v.Deps, leadtimes[key], reftimes[key])
		p.metrics.ForecastsSquashed.Inc()
	}
}
