package dataset

import (
	"fmt"
	"sort"
	"time"

	"github.com/couchcryptid/seriesnc/internal/fstd"
)

// Materialize builds the initial variable list from a classified record
// table. Records are grouped by name; each group gets outer axes derived
// from its metadata columns (station id, date of origin, lead time, level
// number) and placeholder "i"/"j" dimensions for the per-record array shape.
// Later stages reinterpret those placeholders; this stage knows nothing about
// what they mean physically.
//
// Names present in skip are auxiliary records (station names, forecast
// hours, vertical levels, grid descriptors) and produce no variable.
func Materialize(store fstd.Store, skip map[string]bool) []*Var {
	t := store.Table()
	cache := newAxisCache()

	var order []string
	groups := make(map[string][]int)
	for row := 0; row < t.Rows(); row++ {
		name := t.Nomvar[row]
		if skip[name] {
			continue
		}
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], row)
	}

	vars := make([]*Var, 0, len(order))
	for _, name := range order {
		vars = append(vars, materializeGroup(t, cache, name, groups[name]))
	}
	return vars
}

// axisCache interns axes by content so identical axes across variable
// groups are one shared object. Later stages key caches by axis identity,
// which only works when equal axes are not silently duplicated.
type axisCache struct {
	axes map[string]*Axis
}

func newAxisCache() *axisCache {
	return &axisCache{axes: make(map[string]*Axis)}
}

func (c *axisCache) intern(key string, build func() *Axis) *Axis {
	if a, ok := c.axes[key]; ok {
		return a
	}
	a := build()
	c.axes[key] = a
	return a
}

func (c *axisCache) dim(name string, n int) *Axis {
	return c.intern(fmt.Sprintf("dim|%s|%d", name, n), func() *Axis {
		return NewDim(name, n)
	})
}

func (c *axisCache) axis(name string, attrs map[string]any, values []float64) *Axis {
	key := fmt.Sprintf("axis|%s|%v", name, values)
	return c.intern(key, func() *Axis {
		return NewAxis(name, attrs, values)
	})
}

func (c *axisCache) timeAxis(name string, attrs map[string]any, times []time.Time) *Axis {
	keys := make([]int64, len(times))
	for i, t := range times {
		keys[i] = t.Unix()
	}
	key := fmt.Sprintf("time|%s|%v", name, keys)
	return c.intern(key, func() *Axis {
		return NewTimeAxis(name, attrs, times)
	})
}

func materializeGroup(t *fstd.Table, cache *axisCache, name string, rows []int) *Var {
	stations := distinctStations(t, rows)
	times := distinctTimes(t, rows)
	forecasts := distinctForecasts(t, rows)
	levels := distinctLevels(t, rows)

	var outer []*Axis
	stationIdx := map[int32]int{}
	if len(stations) > 0 {
		vals := make([]float64, len(stations))
		for i, id := range stations {
			stationIdx[id] = i
			vals[i] = float64(id)
		}
		outer = append(outer, cache.axis("station_id", nil, vals))
	}
	timeIdx := map[int64]int{}
	for i, ts := range times {
		timeIdx[ts.Unix()] = i
	}
	outer = append(outer, cache.timeAxis("time", map[string]any{
		"standard_name": "time",
		"axis":          "T",
	}, times))
	forecastIdx := map[float64]int{}
	if len(forecasts) > 0 {
		for i, f := range forecasts {
			forecastIdx[f] = i
		}
		outer = append(outer, cache.axis("forecast", map[string]any{"units": "hours"}, forecasts))
	}
	levelIdx := map[int32]int{}
	vals := make([]float64, len(levels))
	for i, l := range levels {
		levelIdx[l] = i
		vals[i] = float64(l)
	}
	outer = append(outer, cache.axis("level", nil, vals))

	ids := make([]int, outerSize(outer))
	for i := range ids {
		ids[i] = -1
	}
	for _, row := range rows {
		pos := 0
		if len(stations) > 0 {
			if !t.StationIDValid[row] {
				continue
			}
			pos = pos*len(stations) + stationIdx[t.StationID[row]]
		}
		pos = pos*len(times) + timeIdx[t.DateO[row].Unix()]
		if len(forecasts) > 0 {
			if !t.LeadtimeValid[row] {
				continue
			}
			pos = pos*len(forecasts) + forecastIdx[t.Leadtime[row]]
		}
		pos = pos*len(levels) + levelIdx[t.IP1[row]]
		ids[pos] = row
	}

	first := rows[0]
	axes := outer
	if t.NK[first] > 1 {
		axes = append(axes, cache.dim("k", t.NK[first]))
	}
	axes = append(axes, cache.dim("j", t.NJ[first]))
	axes = append(axes, cache.dim("i", t.NI[first]))

	return &Var{
		Name: name,
		Attrs: map[string]any{
			"typvar": t.Typvar[first],
			"grtyp":  t.Grtyp[first],
		},
		Axes:      axes,
		RecordIDs: ids,
		OuterRank: len(outer),
	}
}

func outerSize(axes []*Axis) int {
	n := 1
	for _, a := range axes {
		n *= a.Len()
	}
	return n
}

func distinctStations(t *fstd.Table, rows []int) []int32 {
	seen := map[int32]bool{}
	var out []int32
	for _, r := range rows {
		if t.StationIDValid[r] && !seen[t.StationID[r]] {
			seen[t.StationID[r]] = true
			out = append(out, t.StationID[r])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func distinctTimes(t *fstd.Table, rows []int) []time.Time {
	seen := map[int64]bool{}
	var out []time.Time
	for _, r := range rows {
		key := t.DateO[r].Unix()
		if !seen[key] {
			seen[key] = true
			out = append(out, t.DateO[r])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func distinctForecasts(t *fstd.Table, rows []int) []float64 {
	seen := map[float64]bool{}
	var out []float64
	for _, r := range rows {
		if t.LeadtimeValid[r] && !seen[t.Leadtime[r]] {
			seen[t.Leadtime[r]] = true
			out = append(out, t.Leadtime[r])
		}
	}
	sort.Float64s(out)
	return out
}

func distinctLevels(t *fstd.Table, rows []int) []int32 {
	seen := map[int32]bool{}
	var out []int32
	for _, r := range rows {
		if !seen[t.IP1[r]] {
			seen[t.IP1[r]] = true
			out = append(out, t.IP1[r])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
