package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"

	"taxi-dashboard/dataset"
	"taxi-dashboard/models"
)

const tripsTable = "taxi_trips"

var tripColumns = []string{
	"pickup", "dropoff", "passengers", "distance", "fare", "tip", "tolls", "total",
	"color", "payment", "pickup_zone", "dropoff_zone", "pickup_borough", "dropoff_borough",
}

const selectTrips = `SELECT pickup, dropoff, passengers, distance, fare, tip, tolls, total,
       color, payment, pickup_zone, dropoff_zone, pickup_borough, dropoff_borough
FROM taxi_trips ORDER BY id`

type nullTrip struct {
	pickup, dropoff                   sql.NullTime
	passengers                        sql.NullInt64
	distance, fare, tip, tolls, total sql.NullFloat64
	color, payment                    sql.NullString
	pickupZone, dropoffZone           sql.NullString
	pickupBorough, dropoffBorough     sql.NullString
}

func (n *nullTrip) dest() []interface{} {
	return []interface{}{
		&n.pickup, &n.dropoff, &n.passengers, &n.distance, &n.fare, &n.tip, &n.tolls, &n.total,
		&n.color, &n.payment, &n.pickupZone, &n.dropoffZone, &n.pickupBorough, &n.dropoffBorough,
	}
}

func (n *nullTrip) trip() (models.Trip, bool) {
	complete := n.pickup.Valid && n.dropoff.Valid && n.passengers.Valid &&
		n.distance.Valid && n.fare.Valid && n.tip.Valid && n.tolls.Valid && n.total.Valid &&
		n.color.Valid && n.payment.Valid && n.pickupZone.Valid && n.dropoffZone.Valid &&
		n.pickupBorough.Valid && n.dropoffBorough.Valid
	if !complete {
		return models.Trip{}, false
	}
	t := models.Trip{
		Pickup:         n.pickup.Time,
		Dropoff:        n.dropoff.Time,
		Passengers:     int(n.passengers.Int64),
		Distance:       n.distance.Float64,
		Fare:           n.fare.Float64,
		Tip:            n.tip.Float64,
		Tolls:          n.tolls.Float64,
		Total:          n.total.Float64,
		Color:          n.color.String,
		Payment:        n.payment.String,
		PickupZone:     n.pickupZone.String,
		DropoffZone:    n.dropoffZone.String,
		PickupBorough:  n.pickupBorough.String,
		DropoffBorough: n.dropoffBorough.String,
	}
	return t, dataset.Admissible(t)
}

// LoadTrips reads the whole taxi_trips table. Rows with a NULL column or a
// NaN/Infinity float8 are dropped, like blank or non-finite cells of the CSV
// source.
func LoadTrips(ctx context.Context, db *sql.DB) (*dataset.Dataset, dataset.LoadStats, error) {
	var stats dataset.LoadStats
	rows, err := db.QueryContext(ctx, selectTrips)
	if err != nil {
		return nil, stats, fmt.Errorf("querying trips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		var n nullTrip
		if err := rows.Scan(n.dest()...); err != nil {
			return nil, stats, fmt.Errorf("scanning trip: %w", err)
		}
		stats.Read++
		t, ok := n.trip()
		if !ok {
			stats.Dropped++
			continue
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, stats, err
	}
	return dataset.New(trips), stats, nil
}

// SeedTrips bulk-loads ds into an empty taxi_trips table with COPY. It
// returns the number of rows written, zero when the table already has data.
func SeedTrips(ctx context.Context, db *sql.DB, ds *dataset.Dataset) (int, error) {
	var existing int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM taxi_trips`).Scan(&existing); err != nil {
		return 0, fmt.Errorf("counting trips: %w", err)
	}
	if existing > 0 {
		log.Printf("taxi_trips already holds %d rows, skipping seed", existing)
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(tripsTable, tripColumns...))
	if err != nil {
		return 0, fmt.Errorf("preparing copy: %w", err)
	}
	for _, t := range ds.Trips() {
		_, err = stmt.ExecContext(ctx,
			t.Pickup, t.Dropoff, t.Passengers, t.Distance, t.Fare, t.Tip, t.Tolls, t.Total,
			t.Color, t.Payment, t.PickupZone, t.DropoffZone, t.PickupBorough, t.DropoffBorough,
		)
		if err != nil {
			stmt.Close()
			return 0, fmt.Errorf("copying trip: %w", err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return 0, fmt.Errorf("flushing copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	log.Printf("Seeded %d trips into %s", ds.Len(), tripsTable)
	return ds.Len(), nil
}
