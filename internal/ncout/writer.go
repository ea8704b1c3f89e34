// Package ncout serializes the final variable list to a classic netCDF
// file. Dimension and variable names are uniquified here because distinct
// axis objects may legitimately share a name (cached anonymous level
// dimensions, per-group station coordinates); the in-memory model keys
// everything by object identity, the file format by name.
package ncout

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"sort"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"

	"github.com/couchcryptid/seriesnc/internal/dataset"
	"github.com/couchcryptid/seriesnc/internal/fstd"
	"github.com/couchcryptid/seriesnc/internal/observability"
)

const timeUnits = "seconds since 1970-01-01 00:00:00"

// Writer accumulates naming state for one output file.
type Writer struct {
	store   fstd.Store
	logger  *slog.Logger
	metrics *observability.Metrics

	dimNames  map[*dataset.Axis]string
	pureDims  map[string]*dataset.Axis // "name\x00len" -> canonical axis
	usedDims  map[string]bool
	usedVars  map[string]bool
	wroteDeps map[*dataset.Var]string
}

// NewWriter creates a Writer over the record store backing the variables.
func NewWriter(store fstd.Store, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	return &Writer{
		store:     store,
		logger:    logger,
		metrics:   metrics,
		dimNames:  make(map[*dataset.Axis]string),
		pureDims:  make(map[string]*dataset.Axis),
		usedDims:  make(map[string]bool),
		usedVars:  make(map[string]bool),
		wroteDeps: make(map[*dataset.Var]string),
	}
}

// Write serializes the variable list, its shared axes, and its dependent
// coordinates to path.
func (w *Writer) Write(path string, vars []*dataset.Var) error {
	cw, err := cdf.OpenWriter(path)
	if err != nil {
		return fmt.Errorf("open netcdf writer: %w", err)
	}

	history := fmt.Sprintf("created by seriesnc on %s", clock.Now().UTC().Format(time.RFC3339))
	global, err := util.NewOrderedMap(
		[]string{"Conventions", "history"},
		map[string]any{"Conventions": "CF-1.6", "history": history},
	)
	if err != nil {
		return fmt.Errorf("build global attributes: %w", err)
	}
	cw.AddGlobalAttrs(global)

	for _, v := range vars {
		if err := w.writeCoordAxes(cw, v); err != nil {
			return err
		}
		for _, dep := range v.Deps {
			if err := w.writeDep(cw, dep); err != nil {
				return err
			}
		}
		if err := w.writeData(cw, v); err != nil {
			return err
		}
		w.metrics.VariablesWritten.Inc()
	}

	if err := cw.Close(); err != nil {
		return fmt.Errorf("close netcdf writer: %w", err)
	}
	return nil
}

// dimName returns the output dimension name for an axis, assigning one on
// first use. Pure dimensions dedupe by (name, length); valued axes dedupe
// by object identity only, since equal-length axes can hold different
// coordinate values.
func (w *Writer) dimName(a *dataset.Axis) string {
	if name, ok := w.dimNames[a]; ok {
		return name
	}
	if a.IsDim() {
		key := fmt.Sprintf("%s\x00%d", a.Name, a.Len())
		if canon, ok := w.pureDims[key]; ok {
			w.dimNames[a] = w.dimNames[canon]
			return w.dimNames[a]
		}
		w.pureDims[key] = a
	}
	name := uniqueName(a.Name, w.usedDims)
	w.dimNames[a] = name
	return name
}

// writeCoordAxes emits a coordinate variable for every valued axis of v that
// has not been written yet.
func (w *Writer) writeCoordAxes(cw *cdf.CDFWriter, v *dataset.Var) error {
	for _, a := range v.Axes {
		if a.IsDim() {
			w.dimName(a)
			continue
		}
		seen := w.dimNames[a] != ""
		name := w.dimName(a)
		if seen {
			continue
		}
		attrs, values := axisPayload(a)
		am, err := orderedAttrs(attrs)
		if err != nil {
			return fmt.Errorf("coordinate %s: %w", name, err)
		}
		err = cw.AddVar(name, api.Variable{
			Values:     values,
			Dimensions: []string{name},
			Attributes: am,
		})
		if err != nil {
			return fmt.Errorf("write coordinate %s: %w", name, err)
		}
	}
	return nil
}

// axisPayload converts an axis's values to a writable slice, encoding
// timestamps as seconds since the epoch.
func axisPayload(a *dataset.Axis) (map[string]any, []float64) {
	attrs := make(map[string]any, len(a.Attrs)+1)
	for k, val := range a.Attrs {
		attrs[k] = val
	}
	if a.Times != nil {
		attrs["units"] = timeUnits
		values := make([]float64, len(a.Times))
		for i, t := range a.Times {
			values[i] = float64(t.Unix())
		}
		return attrs, values
	}
	return attrs, a.Values
}

// writeDep emits a dependent coordinate variable (station names, leadtime,
// reftime). Deps are shared by pointer across variables and written once.
func (w *Writer) writeDep(cw *cdf.CDFWriter, dep *dataset.Var) error {
	if _, ok := w.wroteDeps[dep]; ok {
		return nil
	}
	if err := w.writeCoordAxes(cw, dep); err != nil {
		return err
	}

	name := uniqueName(dep.Name, w.usedVars)
	w.wroteDeps[dep] = name

	attrs := make(map[string]any, len(dep.Attrs)+1)
	for k, val := range dep.Attrs {
		attrs[k] = val
	}

	var values any
	var dims []string
	switch {
	case dep.Strings != nil:
		// Character coordinate: the writer derives the string-length
		// dimension itself, so only the leading axis is named.
		values = dep.Strings
		dims = []string{w.dimName(dep.Axes[0])}
	case dep.Times != nil && len(dep.Axes) == 0:
		// Scalar reference time.
		attrs["units"] = timeUnits
		values = float64(dep.Times[0].Unix())
	case dep.Times != nil:
		attrs["units"] = timeUnits
		encoded := make([]float64, len(dep.Times))
		for i, t := range dep.Times {
			encoded[i] = float64(t.Unix())
		}
		values = encoded
		dims = w.axisNames(dep.Axes)
	default:
		values = dep.Floats
		dims = w.axisNames(dep.Axes)
	}

	am, err := orderedAttrs(attrs)
	if err != nil {
		return fmt.Errorf("coordinate %s: %w", name, err)
	}
	err = cw.AddVar(name, api.Variable{Values: values, Dimensions: dims, Attributes: am})
	if err != nil {
		return fmt.Errorf("write coordinate %s: %w", name, err)
	}
	return nil
}

// writeData gathers a data variable's values from its backing records and
// emits it. Missing records fill with NaN.
func (w *Writer) writeData(cw *cdf.CDFWriter, v *dataset.Var) error {
	inner := 1
	for _, a := range v.Axes[v.OuterRank:] {
		inner *= a.Len()
	}

	nan := float32(math.NaN())
	flat := make([]float32, len(v.RecordIDs)*inner)
	for r, id := range v.RecordIDs {
		dst := flat[r*inner : (r+1)*inner]
		if id < 0 {
			fill(dst, nan)
			continue
		}
		rec := w.store.Record(id)
		if len(rec.Data) != inner {
			w.logger.Warn("record shape does not match variable shape, filling with NaN",
				"variable", v.Name, "record", rec.Nomvar, "values", len(rec.Data), "want", inner)
			fill(dst, nan)
			continue
		}
		copy(dst, rec.Data)
	}

	attrs := make(map[string]any, len(v.Attrs)+1)
	for k, val := range v.Attrs {
		attrs[k] = val
	}
	attrs["_FillValue"] = nan
	if coords := w.depNames(v); coords != "" {
		attrs["coordinates"] = coords
	}

	name := uniqueName(v.Name, w.usedVars)
	am, err := orderedAttrs(attrs)
	if err != nil {
		return fmt.Errorf("variable %s: %w", name, err)
	}
	err = cw.AddVar(name, api.Variable{
		Values:     nest(flat, v.Shape()),
		Dimensions: w.axisNames(v.Axes),
		Attributes: am,
	})
	if err != nil {
		return fmt.Errorf("write variable %s: %w", name, err)
	}
	return nil
}

// depNames lists the output names of a variable's dependent coordinates,
// for the CF "coordinates" attribute.
func (w *Writer) depNames(v *dataset.Var) string {
	out := ""
	for _, dep := range v.Deps {
		name, ok := w.wroteDeps[dep]
		if !ok {
			continue
		}
		if out != "" {
			out += " "
		}
		out += name
	}
	return out
}

func (w *Writer) axisNames(axes []*dataset.Axis) []string {
	names := make([]string, len(axes))
	for i, a := range axes {
		names[i] = w.dimName(a)
	}
	return names
}

// orderedAttrs converts an attribute map to the writer's ordered form with
// deterministic (sorted) key order.
func orderedAttrs(attrs map[string]any) (*util.OrderedMap, error) {
	if len(attrs) == 0 {
		return util.NewOrderedMap(nil, nil)
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if n, ok := v.(int); ok {
			v = int32(n)
		}
		values[k] = v
	}
	return util.NewOrderedMap(keys, values)
}

func uniqueName(base string, used map[string]bool) string {
	name := base
	for n := 2; used[name]; n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	used[name] = true
	return name
}

func fill(dst []float32, v float32) {
	for i := range dst {
		dst[i] = v
	}
}

// nest reshapes a flat row-major slice into the nested slice-of-slices form
// the netCDF writer expects.
func nest(flat []float32, shape []int) any {
	if len(shape) <= 1 {
		return flat
	}
	n := shape[0]
	if n == 0 {
		return flat
	}
	stride := len(flat) / n
	first := nest(flat[:stride], shape[1:])
	out := reflect.MakeSlice(reflect.SliceOf(reflect.TypeOf(first)), n, n)
	out.Index(0).Set(reflect.ValueOf(first))
	for i := 1; i < n; i++ {
		out.Index(i).Set(reflect.ValueOf(nest(flat[i*stride:(i+1)*stride], shape[1:])))
	}
	return out.Interface()
}
