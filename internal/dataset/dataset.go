// Package dataset holds the generic variable/dimension/axis container model
// shared by the materializer, the timeseries stages, and the netCDF writer.
//
// Axes are immutable once built and shared by pointer across every variable
// that adopts them. A stage never edits a shared axis in place; it replaces
// its own entry in a variable's axis list with a different axis object.
package dataset

import "time"

// Axis is a named 1-D coordinate. A pure dimension has a name and length but
// no values; a valued axis additionally carries ordered float or time values.
type Axis struct {
	Name  string
	Attrs map[string]any

	// Exactly one of Values and Times is set for a valued axis; both are nil
	// for a pure dimension.
	Values []float64
	Times  []time.Time

	length int
}

// NewDim creates a pure dimension of the given length.
func NewDim(name string, n int) *Axis {
	return &Axis{Name: name, length: n}
}

// NewAxis creates a valued axis over float values.
func NewAxis(name string, attrs map[string]any, values []float64) *Axis {
	return &Axis{Name: name, Attrs: attrs, Values: values, length: len(values)}
}

// NewTimeAxis creates a valued axis over timestamps.
func NewTimeAxis(name string, attrs map[string]any, times []time.Time) *Axis {
	return &Axis{Name: name, Attrs: attrs, Times: times, length: len(times)}
}

// Len returns the axis length.
func (a *Axis) Len() int {
	if a.Values != nil {
		return len(a.Values)
	}
	if a.Times != nil {
		return len(a.Times)
	}
	return a.length
}

// IsDim reports whether the axis is a pure dimension (no values).
func (a *Axis) IsDim() bool {
	return a.Values == nil && a.Times == nil
}

// Var is a named array: an ordered axis list (one entry per array dimension),
// attributes, dependent coordinate variables, and either coordinate values
// (Strings/Floats/Times, for coordinate variables) or flat record-index
// backrefs into the metadata table (for data variables).
//
// The leading OuterRank axes are backed by RecordIDs: their length product
// equals len(RecordIDs), and each entry selects the physical record supplying
// that slab (-1 where no record exists). Trailing axes describe dimensions
// within a single record's values.
type Var struct {
	Name  string
	Attrs map[string]any
	Axes  []*Axis
	Deps  []*Var

	Strings []string
	Floats  []float64
	Times   []time.Time

	RecordIDs []int
	OuterRank int
}

// Rank returns the number of array dimensions.
func (v *Var) Rank() int {
	return len(v.Axes)
}

// Dims returns the axis names in order.
func (v *Var) Dims() []string {
	names := make([]string, len(v.Axes))
	for i, a := range v.Axes {
		names[i] = a.Name
	}
	return names
}

// AxisIndex returns the position of the named axis, or -1.
func (v *Var) AxisIndex(name string) int {
	for i, a := range v.Axes {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Axis returns the named axis, or nil.
func (v *Var) Axis(name string) *Axis {
	if i := v.AxisIndex(name); i >= 0 {
		return v.Axes[i]
	}
	return nil
}

// DropAxis removes the axis at position idx. The axis must have length 1, so
// the flat record-index and value layouts are unchanged by the squeeze.
func (v *Var) DropAxis(idx int) {
	if idx < v.OuterRank {
		v.OuterRank--
	}
	v.Axes = append(v.Axes[:idx], v.Axes[idx+1:]...)
}

// Shape returns the axis lengths in order.
func (v *Var) Shape() []int {
	shape := make([]int, len(v.Axes))
	for i, a := range v.Axes {
		shape[i] = a.Len()
	}
	return shape
}

// Size returns the total element count.
func (v *Var) Size() int {
	n := 1
	for _, a := range v.Axes {
		n *= a.Len()
	}
	return n
}
