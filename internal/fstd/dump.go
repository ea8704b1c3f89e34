package fstd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// dumpRecord is the JSON wire form of one record in a dump file. The dump is
// produced by an external extractor that has already unpacked the binary
// format; this package only restores it.
type dumpRecord struct {
	Nomvar string    `json:"nomvar"`
	Typvar string    `json:"typvar"`
	Grtyp  string    `json:"grtyp"`
	IP1    int32     `json:"ip1"`
	IP2    int32     `json:"ip2"`
	IP3    int32     `json:"ip3"`
	IG1    int32     `json:"ig1"`
	IG2    int32     `json:"ig2"`
	IG3    int32     `json:"ig3"`
	IG4    int32     `json:"ig4"`
	NI     int       `json:"ni"`
	NJ     int       `json:"nj"`
	NK     int       `json:"nk"`
	DateO  time.Time `json:"dateo"`
	Deet   int32     `json:"deet"`
	Npas   int32     `json:"npas"`
	Data   []float32 `json:"data"`
}

// LoadDump reads a JSON record dump and returns an in-memory store over it.
// Records whose value count does not match ni*nj*nk are rejected.
func LoadDump(path string) (*MemStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record dump: %w", err)
	}
	var dump []dumpRecord
	if err := json.Unmarshal(raw, &dump); err != nil {
		return nil, fmt.Errorf("parse record dump: %w", err)
	}

	recs := make([]Record, 0, len(dump))
	for i, d := range dump {
		r := Record{
			Nomvar: strings.TrimRight(d.Nomvar, " "),
			Typvar: strings.TrimRight(d.Typvar, " "),
			Grtyp:  d.Grtyp,
			IP1:    d.IP1, IP2: d.IP2, IP3: d.IP3,
			IG1: d.IG1, IG2: d.IG2, IG3: d.IG3, IG4: d.IG4,
			NI: d.NI, NJ: d.NJ, NK: d.NK,
			DateO: d.DateO,
			Deet:  d.Deet,
			Npas:  d.Npas,
			Data:  d.Data,
		}
		if r.NK == 0 {
			r.NK = 1
		}
		if len(r.Data) != r.Len() {
			return nil, fmt.Errorf("record %d (%s): %d values, want ni*nj*nk=%d",
				i, r.Nomvar, len(r.Data), r.Len())
		}
		recs = append(recs, r)
	}
	return NewMemStore(recs), nil
}

// WriteDump serializes records to the JSON dump format, for fixture
// generation and round-trip tests.
func WriteDump(path string, recs []Record) error {
	dump := make([]dumpRecord, len(recs))
	for i, r := range recs {
		dump[i] = dumpRecord{
			Nomvar: r.Nomvar,
			Typvar: r.Typvar,
			Grtyp:  r.Grtyp,
			IP1:    r.IP1, IP2: r.IP2, IP3: r.IP3,
			IG1: r.IG1, IG2: r.IG2, IG3: r.IG3, IG4: r.IG4,
			NI: r.NI, NJ: r.NJ, NK: r.NK,
			DateO: r.DateO,
			Deet:  r.Deet,
			Npas:  r.Npas,
			Data:  r.Data,
		}
	}
	raw, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record dump: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write record dump: %w", err)
	}
	return nil
}
