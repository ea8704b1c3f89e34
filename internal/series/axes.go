package series

import (
	"strings"

	"github.com/couchcryptid/seriesnc/internal/dataset"
	"github.com/couchcryptid/seriesnc/internal/fstd"
)

// charCodeOffset is subtracted from STNS character codes when the first code
// is at or above it. Some files store every code offset by 128; why is not
// understood, and files exist both with and without the offset, so the
// threshold check is kept exactly as observed.
const charCodeOffset = 128

// extractAxes looks up the auxiliary records and converts them into the
// station coordinate, the forecast axis, and the two vertical axes. A
// missing record is not an error; its axis stays nil and downstream stages
// skip it.
func (p *Processor) extractAxes() {
	p.extractStations()
	p.extractForecast()
	p.momentum = p.extractVertical("SV")
	p.thermo = p.extractVertical("SH")
}

// extractStations decodes the STNS record into the canonical station name
// coordinate: a 2-D character array over (station_id, station_strlen).
func (p *Processor) extractStations() {
	rec, ok := p.store.Lookup("STNS")
	if !ok {
		return
	}
	names := DecodeStationNames(rec)
	if len(names) == 0 {
		return
	}

	strlen := rec.NI
	p.stationDim = dataset.NewDim("station_id", len(names))
	p.strlenDim = dataset.NewDim("station_strlen", strlen)
	p.station = &dataset.Var{
		Name:    "station",
		Attrs:   map[string]any{},
		Axes:    []*dataset.Axis{p.stationDim, p.strlenDim},
		Strings: names,
	}
}

// DecodeStationNames converts a STNS record's packed character codes into
// trimmed fixed-width strings, one per station. The record stores one
// station per nj row, ni characters each, i varying fastest. Decoding is
// idempotent over the raw values: the input record is never modified.
func DecodeStationNames(rec *fstd.Record) []string {
	if rec.NI <= 0 || rec.NJ <= 0 || len(rec.Data) < rec.NI*rec.NJ {
		return nil
	}

	offset := float32(0)
	if rec.Data[0] >= charCodeOffset {
		offset = charCodeOffset
	}

	names := make([]string, rec.NJ)
	buf := make([]byte, rec.NI)
	for s := 0; s < rec.NJ; s++ {
		for c := 0; c < rec.NI; c++ {
			buf[c] = byte(rec.Data[c+s*rec.NI] - offset)
		}
		names[s] = strings.TrimRight(string(buf), " \x00")
	}
	return names
}

// extractForecast builds the forecast lead-time axis from the HH record.
// HH stores the hour of validity per forecast step; subtracting the origin
// record's own hour of day yields the lead time in hours.
func (p *Processor) extractForecast() {
	rec, ok := p.store.Lookup("HH")
	if !ok {
		return
	}
	originHour := float64(rec.DateO.Hour())
	values := make([]float64, len(rec.Data))
	for i, h := range rec.Data {
		values[i] = float64(h) - originHour
	}
	p.forecast = dataset.NewAxis("forecast", map[string]any{"units": "hours"}, values)
}

// extractVertical builds one vertical axis from an SH or SV record. The
// record must squeeze to exactly one dimension; anything else is unusable
// and skipped. When the bottom profile level is flagged missing, the last
// element is dropped to match the data.
func (p *Processor) extractVertical(nomvar string) *dataset.Axis {
	rec, ok := p.store.Lookup(nomvar)
	if !ok {
		return nil
	}
	wide := 0
	for _, n := range []int{rec.NI, rec.NJ, rec.NK} {
		if n > 1 {
			wide++
		}
	}
	if wide != 1 {
		return nil
	}

	values := make([]float64, len(rec.Data))
	for i, v := range rec.Data {
		values[i] = float64(v)
	}
	if p.opts.MissingBottomLevel && len(values) > 0 {
		values = values[:len(values)-1]
	}
	return dataset.NewAxis("level", map[string]any{}, values)
}
