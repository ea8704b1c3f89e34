package series

import (
	"github.com/couchcryptid/seriesnc/internal/dataset"
)

// bindStations attaches station name coordinates to every variable carrying
// a station_id axis. Groups whose station population matches the canonical
// coordinate rebind to it directly (shared, not copied); groups over a
// subset of stations get a one-off coordinate index-selected from the
// canonical names. Station identifiers are 1-based.
func (p *Processor) bindStations(vars []*dataset.Var) {
	if p.station == nil {
		return
	}

	var order []*dataset.Axis
	groups := make(map[*dataset.Axis][]*dataset.Var)
	for _, v := range vars {
		axis := v.Axis("station_id")
		if axis == nil {
			continue
		}
		if _, ok := groups[axis]; !ok {
			order = append(order, axis)
		}
		groups[axis] = append(groups[axis], v)
	}

	for _, axis := range order {
		group := groups[axis]

		if axis.Len() == p.stationDim.Len() {
			for _, v := range group {
				v.Axes[v.AxisIndex("station_id")] = p.stationDim
				v.Deps = append(v.Deps, p.station)
			}
			continue
		}

		coord, ok := p.subsetStationCoord(axis)
		if !ok {
			continue
		}
		for _, v := range group {
			v.Deps = append(v.Deps, coord)
		}
	}
}

// subsetStationCoord builds a station coordinate for a partial or reordered
// station population, selecting canonical names by (id - 1). The group keeps
// its own valued station_id axis as the identity axis; only the name
// coordinate is derived.
func (p *Processor) subsetStationCoord(axis *dataset.Axis) (*dataset.Var, bool) {
	names := make([]string, axis.Len())
	for i, id := range axis.Values {
		idx := int(id) - 1
		if idx < 0 || idx >= len(p.station.Strings) {
			p.warnAxis("station_subset_oob",
				"station id outside the canonical station set, skipping name coordinate",
				"station_id", int(id), "stations", len(p.station.Strings))
			return nil, false
		}
		names[i] = p.station.Strings[idx]
	}
	return &dataset.Var{
		Name:    "station",
		Attrs:   map[string]any{},
		Axes:    []*dataset.Axis{axis, p.strlenDim},
		Strings: names,
	}, true
}
