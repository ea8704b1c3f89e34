package series

import (
	"github.com/couchcryptid/seriesnc/internal/dataset"
	"github.com/couchcryptid/seriesnc/internal/fstd"
)

// remap reinterprets each variable's placeholder axes according to its
// record convention. Station data renames its horizontal axis to the
// station identity; profile data reads its "i"/"j" placeholders as vertical
// level and forecast time. Mismatches never abort a variable; they degrade
// to a warning plus a best-effort anonymous axis.
func (p *Processor) remap(vars []*dataset.Var) {
	// Station data: the anonymous i axis is the station identity.
	for _, v := range vars {
		if varLayout(v) != fstd.LayoutSeriesY {
			continue
		}
		idx := v.AxisIndex("i")
		if idx >= 0 && p.stationDim != nil && v.Axes[idx].Len() == p.stationDim.Len() {
			v.Axes[idx] = p.stationDim
		}
	}

	// Profile data: drop the degenerate level axis inherited from the
	// zeroed ip1 values; it carries no vertical information.
	for _, v := range vars {
		if varLayout(v) != fstd.LayoutProfilePlus {
			continue
		}
		if idx := v.AxisIndex("level"); idx >= 0 && v.Axes[idx].Len() == 1 {
			v.DropAxis(idx)
		}
	}

	// Profile data: j is the forecast time, i the vertical coordinate.
	knownLevels := make(map[int]*dataset.Axis)
	for _, v := range vars {
		if varLayout(v) != fstd.LayoutProfilePlus {
			continue
		}

		if idx := v.AxisIndex("j"); idx >= 0 && p.forecast != nil && v.Axes[idx].Len() == p.forecast.Len() {
			v.Axes[idx] = p.forecast
		}

		idx := v.AxisIndex("i")
		if idx < 0 {
			continue
		}
		nlev := v.Axes[idx].Len()
		if nlev == 1 {
			v.DropAxis(idx)
			continue
		}

		var level *dataset.Axis
		if p.momentumSet[v.Name] && p.momentum != nil {
			if nlev == p.momentum.Len() {
				level = p.momentum
			} else {
				p.warnAxis("momentum_mismatch", "wrong number of momentum levels found in the data",
					"variable", v.Name, "levels", nlev, "momentum", p.momentum.Len())
			}
		}
		if p.thermoSet[v.Name] && p.thermo != nil {
			if nlev == p.thermo.Len() {
				level = p.thermo
			} else {
				p.warnAxis("thermo_mismatch", "wrong number of thermodynamic levels found in the data",
					"variable", v.Name, "levels", nlev, "thermodynamic", p.thermo.Len())
			}
		}

		if level == nil {
			p.warnAxis("unknown_vertical", "unable to find the vertical coordinates",
				"variable", v.Name, "levels", nlev)
			// Anonymous level dimensions are cached by length and shared,
			// so equal-length level sets collapse onto one dimension.
			dim, ok := knownLevels[nlev]
			if !ok {
				dim = dataset.NewDim("level", nlev)
				knownLevels[nlev] = dim
			}
			v.Axes[idx] = dim
			continue
		}

		// Found named vertical levels; record the coordinate kind so later
		// metadata enrichment knows which vertical system applies.
		v.Attrs["kind"] = 5
		v.Axes[idx] = level
	}
}

// warnAxis logs a degraded axis assignment and counts it by reason.
func (p *Processor) warnAxis(reason, msg string, args ...any) {
	p.logger.Warn(msg, args...)
	p.metrics.AxisFallbacks.WithLabelValues(reason).Inc()
}
