package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"taxi-dashboard/models"
)

// TimeLayout is the timestamp format of the pickup and dropoff columns.
const TimeLayout = "2006-01-02 15:04:05"

var ErrMissingColumn = errors.New("dataset: missing required column")

// RequiredColumns must be present in the header of every source.
var RequiredColumns = []string{"pickup", "dropoff", "distance", "fare", "tip", "total", "payment", "pickup_zone", "dropoff_zone"}

// LoadStats describes how many rows a loader read and how many it dropped
// for missing or malformed values.
type LoadStats struct {
	Read    int
	Dropped int
}

// ReadCSV parses a taxis CSV. A row with an empty cell in any column of the
// header, an unparsable or non-finite value, or a negative distance is
// dropped.
func ReadCSV(r io.Reader) (*Dataset, LoadStats, error) {
	var stats LoadStats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("dataset: reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, stats, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var trips []models.Trip
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("dataset: line %d: %w", stats.Read+2, err)
		}
		stats.Read++

		trip, ok := parseRecord(rec, len(header), cols)
		if !ok {
			stats.Dropped++
			continue
		}
		trips = append(trips, trip)
	}
	return New(trips), stats, nil
}

// Admissible reports whether every numeric field of t is finite and its
// distance is not negative. Loaders drop rows that fail it.
func Admissible(t models.Trip) bool {
	for _, v := range []float64{t.Distance, t.Fare, t.Tip, t.Tolls, t.Total} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return t.Distance >= 0
}

// LoadCSVFile reads a taxis CSV from disk.
func LoadCSVFile(path string) (*Dataset, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, err
	}
	defer f.Close()
	return ReadCSV(f)
}

func parseRecord(rec []string, width int, cols map[string]int) (models.Trip, bool) {
	var t models.Trip
	if len(rec) != width {
		return t, false
	}
	for _, v := range rec {
		if strings.TrimSpace(v) == "" {
			return t, false
		}
	}

	get := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok {
			return "", false
		}
		return strings.TrimSpace(rec[i]), true
	}
	var err error
	num := func(name string) float64 {
		v, ok := get(name)
		if !ok || err != nil {
			return 0
		}
		var f float64
		f, err = strconv.ParseFloat(v, 64)
		return f
	}
	ts := func(name string) time.Time {
		v, _ := get(name)
		if err != nil {
			return time.Time{}
		}
		var tm time.Time
		tm, err = time.Parse(TimeLayout, v)
		return tm
	}

	t.Pickup = ts("pickup")
	t.Dropoff = ts("dropoff")
	t.Distance = num("distance")
	t.Fare = num("fare")
	t.Tip = num("tip")
	t.Tolls = num("tolls")
	t.Total = num("total")
	if v, ok := get("passengers"); ok && err == nil {
		t.Passengers, err = strconv.Atoi(v)
	}
	if err != nil || !Admissible(t) {
		return t, false
	}

	t.Payment, _ = get("payment")
	t.PickupZone, _ = get("pickup_zone")
	t.DropoffZone, _ = get("dropoff_zone")
	t.Color, _ = get("color")
	t.PickupBorough, _ = get("pickup_borough")
	t.DropoffBorough, _ = get("dropoff_borough")
	return t, true
}
