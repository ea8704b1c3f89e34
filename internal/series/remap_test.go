package series

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/seriesnc/internal/dataset"
	"github.com/couchcryptid/seriesnc/internal/fstd"
)

// auxRecords builds the auxiliary records used by the remap tests: three
// stations, three forecast hours, five momentum levels, four thermodynamic
// levels.
func auxRecords() []fstd.Record {
	sv := make([]float32, 5)
	sh := make([]float32, 4)
	for i := range sv {
		sv[i] = 1 - 0.125*float32(i)
	}
	for i := range sh {
		sh[i] = 1 - 0.25*float32(i)
	}
	return []fstd.Record{
		stnsRecord([]string{"ALERT", "EUREKA", "IQALUIT"}, 8, false),
		{Nomvar: "HH", Typvar: "T", Grtyp: "T", NI: 3, NJ: 1, NK: 1,
			DateO: testOrigin, Data: []float32{12, 15, 18}},
		{Nomvar: "SV", Typvar: "T", Grtyp: "T", NI: 5, NJ: 1, NK: 1,
			DateO: testOrigin, Data: sv},
		{Nomvar: "SH", Typvar: "T", Grtyp: "T", NI: 4, NJ: 1, NK: 1,
			DateO: testOrigin, Data: sh},
	}
}

// profileVar builds a '+'-layout variable the way the materializer would:
// station and time outer axes, a degenerate level axis from the zeroed ip1,
// and placeholder j (forecast count) and i (level count) dimensions.
func profileVar(name string, nlev, nfct int) *dataset.Var {
	return &dataset.Var{
		Name:  name,
		Attrs: map[string]any{"typvar": "T", "grtyp": "+"},
		Axes: []*dataset.Axis{
			dataset.NewAxis("station_id", nil, []float64{1, 2, 3}),
			dataset.NewTimeAxis("time", nil, []time.Time{testOrigin}),
			dataset.NewAxis("level", nil, []float64{0}),
			dataset.NewDim("j", nfct),
			dataset.NewDim("i", nlev),
		},
		RecordIDs: []int{0, 1, 2},
		OuterRank: 3,
	}
}

func yVar(name string, n int) *dataset.Var {
	return &dataset.Var{
		Name:  name,
		Attrs: map[string]any{"typvar": "T", "grtyp": "Y"},
		Axes: []*dataset.Axis{
			dataset.NewTimeAxis("time", nil, []time.Time{testOrigin}),
			dataset.NewAxis("level", nil, []float64{0}),
			dataset.NewDim("j", 1),
			dataset.NewDim("i", n),
		},
		RecordIDs: []int{0},
		OuterRank: 2,
	}
}

func TestRemap_SeriesY(t *testing.T) {
	p := newTestProcessor(auxRecords(), Options{})
	p.extractAxes()

	t.Run("i axis becomes the station identity", func(t *testing.T) {
		v := yVar("P0", 3)
		p.remap([]*dataset.Var{v})
		assert.Same(t, p.stationDim, v.Axis("station_id"))
		assert.Equal(t, -1, v.AxisIndex("i"))
	})

	t.Run("length mismatch leaves the i axis alone", func(t *testing.T) {
		v := yVar("P0", 4)
		p.remap([]*dataset.Var{v})
		assert.Equal(t, -1, v.AxisIndex("station_id"))
		assert.Equal(t, 4, v.Axis("i").Len())
	})
}

func TestRemap_ProfilePlus(t *testing.T) {
	opts := Options{MomentumVars: []string{"UU"}, ThermodynamicVars: []string{"TT"}}

	t.Run("drops the degenerate level axis", func(t *testing.T) {
		p := newTestProcessor(auxRecords(), opts)
		p.extractAxes()
		v := profileVar("WW", 5, 3)
		p.remap([]*dataset.Var{v})
		assert.Equal(t, 2, v.OuterRank)
		// The i axis was renamed to level, so exactly one level dim remains.
		assert.Equal(t, []string{"station_id", "time", "forecast", "level"}, v.Dims())
	})

	t.Run("j axis becomes the forecast axis", func(t *testing.T) {
		p := newTestProcessor(auxRecords(), opts)
		p.extractAxes()
		v := profileVar("WW", 5, 3)
		p.remap([]*dataset.Var{v})
		assert.Same(t, p.forecast, v.Axes[2])
	})

	t.Run("momentum variable by exact length", func(t *testing.T) {
		p := newTestProcessor(auxRecords(), opts)
		p.extractAxes()
		v := profileVar("UU", 5, 3)
		p.remap([]*dataset.Var{v})
		assert.Same(t, p.momentum, v.Axes[3])
		assert.Equal(t, 5, v.Attrs["kind"])
	})

	t.Run("thermodynamic variable by exact length", func(t *testing.T) {
		p := newTestProcessor(auxRecords(), opts)
		p.extractAxes()
		v := profileVar("TT", 4, 3)
		p.remap([]*dataset.Var{v})
		assert.Same(t, p.thermo, v.Axes[3])
		assert.Equal(t, 5, v.Attrs["kind"])
	})

	t.Run("single level drops the dimension entirely", func(t *testing.T) {
		p := newTestProcessor(auxRecords(), opts)
		p.extractAxes()
		v := profileVar("TT", 1, 3)
		p.remap([]*dataset.Var{v})
		assert.Equal(t, -1, v.AxisIndex("i"))
		assert.Equal(t, -1, v.AxisIndex("level"))
		assert.Equal(t, []string{"station_id", "time", "forecast"}, v.Dims())
	})

	t.Run("configured mismatch degrades to generic level with warning", func(t *testing.T) {
		p := newTestProcessor(auxRecords(), opts)
		p.extractAxes()
		v := profileVar("TT", 6, 3) // thermo axis has 4 levels
		p.remap([]*dataset.Var{v})

		level := v.Axes[3]
		require.NotNil(t, level)
		assert.True(t, level.IsDim())
		assert.Equal(t, "level", level.Name)
		assert.Equal(t, 6, level.Len())
		assert.Nil(t, v.Attrs["kind"])
		assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.AxisFallbacks.WithLabelValues("thermo_mismatch")))
		assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.AxisFallbacks.WithLabelValues("unknown_vertical")))
	})

	t.Run("unconfigured variables share the cached generic level", func(t *testing.T) {
		p := newTestProcessor(auxRecords(), opts)
		p.extractAxes()
		a := profileVar("WW", 7, 3)
		b := profileVar("QQ", 7, 3)
		p.remap([]*dataset.Var{a, b})

		assert.Same(t, a.Axes[3], b.Axes[3])
		assert.True(t, a.Axes[3].IsDim())
		assert.Equal(t, 7, a.Axes[3].Len())
		assert.Equal(t, 2.0, testutil.ToFloat64(p.metrics.AxisFallbacks.WithLabelValues("unknown_vertical")))
	})
}

func TestRemap_PlainVariableUntouched(t *testing.T) {
	p := newTestProcessor(auxRecords(), Options{})
	p.extractAxes()

	v := &dataset.Var{
		Name:  "GZ",
		Attrs: map[string]any{"typvar": "P", "grtyp": "Z"},
		Axes: []*dataset.Axis{
			dataset.NewTimeAxis("time", nil, []time.Time{testOrigin}),
			dataset.NewAxis("level", nil, []float64{500}),
			dataset.NewDim("j", 3),
			dataset.NewDim("i", 3),
		},
		RecordIDs: []int{0},
		OuterRank: 2,
	}
	p.remap([]*dataset.Var{v})

	assert.Equal(t, []string{"time", "level", "j", "i"}, v.Dims())
}
