// Command genfixture writes a synthetic record dump exercising both series
// conventions, for demos and manual testing of the converter. It uses the
// real dump codec so the output always matches what seriesnc reads.
//
// Usage:
//
//	go run ./cmd/genfixture -out testdata/series.json
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/couchcryptid/seriesnc/internal/fstd"
)

var origin = time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

const (
	nStations  = 3
	nForecasts = 4
	nLevels    = 5
	strlen     = 8
)

var stationNames = []string{"ALERT", "EUREKA", "IQALUIT"}

func main() {
	out := flag.String("out", "series.json", "output path for the record dump")
	offsetNames := flag.Bool("offset-names", false, "store station name characters with the +128 offset")
	flag.Parse()

	recs := []fstd.Record{
		stnsRecord(*offsetNames),
		hhRecord(),
		verticalRecord("SV"),
		verticalRecord("SH"),
	}
	for s := 1; s <= nStations; s++ {
		recs = append(recs, profileRecord("TT", s, 270), profileRecord("HU", s, 0.004))
	}
	recs = append(recs, ySeriesRecord("P0"))

	if err := fstd.WriteDump(*out, recs); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %d records to %s\n", len(recs), *out)
}

// stnsRecord packs the station names as numeric character codes, one
// station per nj row, ni characters each.
func stnsRecord(offset bool) fstd.Record {
	data := make([]float32, strlen*nStations)
	for s, name := range stationNames {
		for c := 0; c < strlen; c++ {
			ch := byte(' ')
			if c < len(name) {
				ch = name[c]
			}
			code := float32(ch)
			if offset {
				code += 128
			}
			data[c+s*strlen] = code
		}
	}
	return fstd.Record{
		Nomvar: "STNS", Typvar: "T", Grtyp: "T",
		NI: strlen, NJ: nStations, NK: 1,
		DateO: origin, Data: data,
	}
}

// hhRecord stores the hour of validity per forecast step.
func hhRecord() fstd.Record {
	data := make([]float32, nForecasts)
	for i := range data {
		data[i] = float32(origin.Hour() + 3*i)
	}
	return fstd.Record{
		Nomvar: "HH", Typvar: "T", Grtyp: "T",
		NI: nForecasts, NJ: 1, NK: 1,
		DateO: origin, Data: data,
	}
}

// verticalRecord stores a hybrid-style vertical coordinate, one value per
// level.
func verticalRecord(nomvar string) fstd.Record {
	data := make([]float32, nLevels)
	for i := range data {
		data[i] = float32(1.0 - 0.18*float64(i))
	}
	return fstd.Record{
		Nomvar: nomvar, Typvar: "T", Grtyp: "T",
		NI: nLevels, NJ: 1, NK: 1,
		DateO: origin, Data: data,
	}
}

// profileRecord stores one station's profile: ni levels by nj forecasts,
// station number in ip3.
func profileRecord(nomvar string, station int, base float64) fstd.Record {
	data := make([]float32, nLevels*nForecasts)
	for j := 0; j < nForecasts; j++ {
		for i := 0; i < nLevels; i++ {
			data[i+j*nLevels] = float32(base * (1 + 0.01*float64(i) + 0.002*float64(j) + 0.1*math.Sin(float64(station))))
		}
	}
	return fstd.Record{
		Nomvar: nomvar, Typvar: "T", Grtyp: "+",
		IP3: int32(station),
		IG3: 100, IG4: 200,
		NI: nLevels, NJ: nForecasts, NK: 1,
		DateO: origin, Data: data,
	}
}

// ySeriesRecord stores a station timeseries record: ni horizontal points.
func ySeriesRecord(nomvar string) fstd.Record {
	data := make([]float32, nStations)
	for i := range data {
		data[i] = float32(101325 - 40*i)
	}
	return fstd.Record{
		Nomvar: nomvar, Typvar: "T", Grtyp: "Y",
		NI: nStations, NJ: 1, NK: 1,
		DateO: origin, Data: data,
	}
}
