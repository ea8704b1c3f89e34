package series

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/seriesnc/internal/dataset"
	"github.com/couchcryptid/seriesnc/internal/fstd"
)

// stationProcessor builds a processor whose canonical stations are
// ["A", "B", "C"] with ids 1, 2, 3.
func stationProcessor() *Processor {
	p := newTestProcessor([]fstd.Record{
		stnsRecord([]string{"A", "B", "C"}, 4, false),
	}, Options{})
	p.extractAxes()
	return p
}

func stationVar(name string, ids []float64) *dataset.Var {
	return &dataset.Var{
		Name:  name,
		Attrs: map[string]any{"typvar": "T", "grtyp": "+"},
		Axes: []*dataset.Axis{
			dataset.NewAxis("station_id", nil, ids),
			dataset.NewDim("level", 5),
		},
		RecordIDs: make([]int, len(ids)),
		OuterRank: 1,
	}
}

func TestBindStations_FullPopulation(t *testing.T) {
	p := stationProcessor()
	axis := dataset.NewAxis("station_id", nil, []float64{1, 2, 3})
	a := stationVar("TT", nil)
	a.Axes[0] = axis
	b := stationVar("HU", nil)
	b.Axes[0] = axis
	a.RecordIDs = []int{0, 1, 2}
	b.RecordIDs = []int{0, 1, 2}

	p.bindStations([]*dataset.Var{a, b})

	// Full population rebinds to the canonical axis and coordinate, shared.
	assert.Same(t, p.stationDim, a.Axes[0])
	assert.Same(t, p.stationDim, b.Axes[0])
	require.Len(t, a.Deps, 1)
	assert.Same(t, p.station, a.Deps[0])
	assert.Same(t, a.Deps[0], b.Deps[0])
}

func TestBindStations_Subset(t *testing.T) {
	p := stationProcessor()
	v := stationVar("TT", []float64{3, 1})

	p.bindStations([]*dataset.Var{v})

	// The variable keeps its own station_id values as the identity axis.
	assert.Equal(t, []float64{3, 1}, v.Axis("station_id").Values)

	require.Len(t, v.Deps, 1)
	coord := v.Deps[0]
	assert.Equal(t, "station", coord.Name)
	assert.Equal(t, []string{"C", "A"}, coord.Strings)
	assert.Same(t, v.Axis("station_id"), coord.Axes[0])
	assert.Same(t, p.strlenDim, coord.Axes[1])
}

func TestBindStations_SubsetSharedPerPopulation(t *testing.T) {
	p := stationProcessor()
	axis := dataset.NewAxis("station_id", nil, []float64{2})
	a := stationVar("TT", nil)
	a.Axes[0] = axis
	a.RecordIDs = []int{0}
	b := stationVar("HU", nil)
	b.Axes[0] = axis
	b.RecordIDs = []int{0}

	p.bindStations([]*dataset.Var{a, b})

	require.Len(t, a.Deps, 1)
	require.Len(t, b.Deps, 1)
	assert.Same(t, a.Deps[0], b.Deps[0])
	assert.Equal(t, []string{"B"}, a.Deps[0].Strings)
}

func TestBindStations_OutOfRangeID(t *testing.T) {
	p := stationProcessor()
	v := stationVar("TT", []float64{5})

	p.bindStations([]*dataset.Var{v})

	assert.Empty(t, v.Deps)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.AxisFallbacks.WithLabelValues("station_subset_oob")))
}

func TestBindStations_NoCanonicalCoordinate(t *testing.T) {
	p := newTestProcessor(nil, Options{})
	p.extractAxes()
	v := stationVar("TT", []float64{1})

	p.bindStations([]*dataset.Var{v})

	assert.Empty(t, v.Deps)
}
