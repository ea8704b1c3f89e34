package series

import (
	"github.com/couchcryptid/seriesnc/internal/fstd"
)

// MetaRecords names the auxiliary records consumed by this package. They
// describe axes, not data, and must not be materialized as variables.
var MetaRecords = map[string]bool{
	"STNS": true,
	"HH":   true,
	"SH":   true,
	"SV":   true,
	// Grid descriptor records from the standard conventions.
	"^^": true,
	">>": true,
	"!!": true,
}

// layoutOf tags one typvar/grtyp pair with its record convention.
func layoutOf(typvar, grtyp string) fstd.Layout {
	if typvar != "T" {
		return fstd.LayoutPlain
	}
	switch grtyp {
	case "+":
		return fstd.LayoutProfilePlus
	case "Y", "T":
		return fstd.LayoutSeriesY
	default:
		return fstd.LayoutPlain
	}
}

// Classify tags every row of the record table with its layout and rewrites
// the columns whose header fields are reused by the series conventions:
//
//   - station id is derived from ip3, valid only for profile rows;
//   - lead/ref times are invalidated for all series rows (the header values
//     are meaningless there; forecast info comes from the HH record);
//   - ig1..ig4 and ip1 are zeroed for series rows (they hold per-station
//     coordinates, not grid geometry or vertical levels).
//
// Classify mutates the table in place, once, before any variable is built.
// Rows with malformed or absent codes fail every predicate and pass through
// untouched. There are no error paths.
func Classify(t *fstd.Table) {
	for row := 0; row < t.Rows(); row++ {
		layout := layoutOf(t.Typvar[row], t.Grtyp[row])
		t.Layout[row] = layout

		if layout == fstd.LayoutProfilePlus {
			t.StationID[row] = t.IP3[row]
			t.StationIDValid[row] = true
		} else {
			t.StationID[row] = 0
			t.StationIDValid[row] = false
		}

		if layout == fstd.LayoutPlain {
			continue
		}

		t.LeadtimeValid[row] = false
		t.ReftimeValid[row] = false

		t.IG1[row] = 0
		t.IG2[row] = 0
		t.IG3[row] = 0
		t.IG4[row] = 0
		t.IP1[row] = 0
	}
}
