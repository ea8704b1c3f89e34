package fstd

import "time"

// Layout tags the two documented timeseries record conventions, plus
// everything else. It is decided once per record during classification and
// once per variable during axis remapping; adding a third convention means
// adding a tag here and a case to Classify.
type Layout uint8

const (
	// LayoutPlain is any record that is not timeseries output.
	LayoutPlain Layout = iota
	// LayoutSeriesY is station timeseries data (typvar 'T', grtyp 'Y' or 'T'):
	// ni enumerates horizontal station points, like the usual Y grid.
	LayoutSeriesY
	// LayoutProfilePlus is vertical profile data (typvar 'T', grtyp '+'):
	// ni is the vertical level count, nj the forecast count, and the
	// horizontal points are split one station per record, numbered by ip3.
	LayoutProfilePlus
)

func (l Layout) String() string {
	switch l {
	case LayoutSeriesY:
		return "series-y"
	case LayoutProfilePlus:
		return "profile-plus"
	default:
		return "plain"
	}
}

// Record is one decoded physical record: header metadata plus its unpacked
// values. Values are stored flat in file order, i varying fastest.
type Record struct {
	Nomvar string
	Typvar string
	Grtyp  string

	IP1, IP2, IP3      int32
	IG1, IG2, IG3, IG4 int32
	NI, NJ, NK         int

	// DateO is the date of origin of the forecast.
	DateO time.Time
	// Deet is the timestep length in seconds, Npas the step count.
	// Their product gives the lead time for regular gridded output.
	Deet, Npas int32

	Data []float32
}

// Len returns the number of values the record should carry.
func (r *Record) Len() int {
	return r.NI * r.NJ * r.NK
}

// Table is the column-oriented metadata view of a record set, one row per
// record. Classification mutates it in place exactly once, before any
// variable exists; it is read-only afterwards.
type Table struct {
	Nomvar []string
	Typvar []string
	Grtyp  []string

	IP1, IP2, IP3      []int32
	IG1, IG2, IG3, IG4 []int32
	NI, NJ, NK         []int

	DateO []time.Time

	// Leadtime is the forecast lead in hours (deet*npas), Reftime the date
	// of origin. Both carry validity masks: classification invalidates them
	// for timeseries rows, where the header fields are meaningless.
	Leadtime      []float64
	LeadtimeValid []bool
	Reftime       []time.Time
	ReftimeValid  []bool

	// StationID is derived from ip3 by classification and is valid exactly
	// for profile rows (one station per record).
	StationID      []int32
	StationIDValid []bool

	// Layout is the per-row convention tag set by classification.
	Layout []Layout
}

// NewTable builds the metadata table from a record list. Derived columns
// (station id, masks, layout tags) start in their pre-classification state:
// lead/ref times valid everywhere, station ids invalid everywhere.
func NewTable(recs []Record) *Table {
	n := len(recs)
	t := &Table{
		Nomvar: make([]string, n),
		Typvar: make([]string, n),
		Grtyp:  make([]string, n),
		IP1:    make([]int32, n),
		IP2:    make([]int32, n),
		IP3:    make([]int32, n),
		IG1:    make([]int32, n),
		IG2:    make([]int32, n),
		IG3:    make([]int32, n),
		IG4:    make([]int32, n),
		NI:     make([]int, n),
		NJ:     make([]int, n),
		NK:     make([]int, n),
		DateO:  make([]time.Time, n),

		Leadtime:      make([]float64, n),
		LeadtimeValid: make([]bool, n),
		Reftime:       make([]time.Time, n),
		ReftimeValid:  make([]bool, n),

		StationID:      make([]int32, n),
		StationIDValid: make([]bool, n),

		Layout: make([]Layout, n),
	}
	for i := range recs {
		r := &recs[i]
		t.Nomvar[i] = r.Nomvar
		t.Typvar[i] = r.Typvar
		t.Grtyp[i] = r.Grtyp
		t.IP1[i] = r.IP1
		t.IP2[i] = r.IP2
		t.IP3[i] = r.IP3
		t.IG1[i] = r.IG1
		t.IG2[i] = r.IG2
		t.IG3[i] = r.IG3
		t.IG4[i] = r.IG4
		t.NI[i] = r.NI
		t.NJ[i] = r.NJ
		t.NK[i] = r.NK
		t.DateO[i] = r.DateO
		t.Leadtime[i] = float64(r.Deet) * float64(r.Npas) / 3600.0
		t.LeadtimeValid[i] = true
		t.Reftime[i] = r.DateO
		t.ReftimeValid[i] = true
	}
	return t
}

// Rows returns the number of records in the table.
func (t *Table) Rows() int {
	return len(t.Nomvar)
}

// Store is read-only access to a decoded record set: the metadata table plus
// lookup of individual auxiliary records by name.
type Store interface {
	// Lookup returns the first record with the given nomvar, or false if
	// none exists. Names are matched after trimming trailing blanks.
	Lookup(nomvar string) (*Record, bool)
	// Record returns the record at a table row index.
	Record(i int) *Record
	// Table returns the shared metadata table.
	Table() *Table
}

// MemStore is an in-memory Store over a fully decoded record slice.
type MemStore struct {
	recs  []Record
	table *Table
}

// NewMemStore builds a MemStore and its metadata table.
func NewMemStore(recs []Record) *MemStore {
	return &MemStore{recs: recs, table: NewTable(recs)}
}

func (s *MemStore) Lookup(nomvar string) (*Record, bool) {
	for i := range s.recs {
		if s.recs[i].Nomvar == nomvar {
			return &s.recs[i], true
		}
	}
	return nil, false
}

func (s *MemStore) Record(i int) *Record {
	return &s.recs[i]
}

func (s *MemStore) Table() *Table {
	return s.table
}
