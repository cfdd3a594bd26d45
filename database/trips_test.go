package database

import (
	"context"
	"errors"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxi-dashboard/dataset"
	"taxi-dashboard/models"
)

var pickup = time.Date(2019, 3, 23, 20, 21, 9, 0, time.UTC)

func TestLoadTrips(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(tripColumns).
		AddRow(pickup, pickup.Add(6*time.Minute), 1, 1.60, 7.0, 2.15, 0.0, 12.95, "yellow", "credit card", "Lenox Hill West", "Midtown East", "Manhattan", "Manhattan").
		AddRow(pickup, pickup.Add(8*time.Minute), 1, 0.79, 5.0, 0.0, 0.0, 9.30, "yellow", nil, "Upper West Side South", "Murray Hill", "Manhattan", "Manhattan").
		AddRow(pickup, pickup.Add(9*time.Minute), 2, 2.10, 9.0, 0.0, 0.0, 12.30, "green", "cash", "Astoria", "Astoria", "Queens", "Queens").
		AddRow(pickup, pickup.Add(7*time.Minute), 1, math.NaN(), 7.0, 0.0, 0.0, 10.30, "yellow", "cash", "Astoria", "Astoria", "Queens", "Queens").
		AddRow(pickup, pickup.Add(7*time.Minute), 1, math.Inf(1), 7.0, 0.0, 0.0, 10.30, "yellow", "cash", "Astoria", "Astoria", "Queens", "Queens").
		AddRow(pickup, pickup.Add(7*time.Minute), 1, 1.10, 7.0, 0.0, 0.0, math.NaN(), "yellow", "cash", "Astoria", "Astoria", "Queens", "Queens")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT pickup, dropoff, passengers")).WillReturnRows(rows)

	ds, stats, err := LoadTrips(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Read)
	assert.Equal(t, 4, stats.Dropped)
	assert.Equal(t, 2.10, ds.MaxDistance())
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "credit card", ds.At(0).Payment)
	assert.Equal(t, 2, ds.At(1).Passengers)
	assert.Equal(t, []string{"cash", "credit card"}, ds.PaymentMethods())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadTrips_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT pickup").WillReturnError(errors.New("relation \"taxi_trips\" does not exist"))
	_, _, err = LoadTrips(context.Background(), db)
	assert.Error(t, err)
}

func TestSeedTrips(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ds := dataset.New([]models.Trip{
		{Pickup: pickup, Dropoff: pickup.Add(5 * time.Minute), Passengers: 1, Distance: 1.2, Fare: 6.5, Total: 9.8, Color: "yellow", Payment: "cash", PickupZone: "A", DropoffZone: "B", PickupBorough: "Manhattan", DropoffBorough: "Manhattan"},
		{Pickup: pickup, Dropoff: pickup.Add(9 * time.Minute), Passengers: 2, Distance: 3.4, Fare: 12.0, Tip: 2.5, Total: 17.8, Color: "green", Payment: "credit card", PickupZone: "C", DropoffZone: "D", PickupBorough: "Queens", DropoffBorough: "Brooklyn"},
	})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM taxi_trips")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`COPY "taxi_trips"`)
	prep.ExpectExec().
		WithArgs(pickup, pickup.Add(5*time.Minute), 1, 1.2, 6.5, 0.0, 0.0, 9.8, "yellow", "cash", "A", "B", "Manhattan", "Manhattan").
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(pickup, pickup.Add(9*time.Minute), 2, 3.4, 12.0, 2.5, 0.0, 17.8, "green", "credit card", "C", "D", "Queens", "Brooklyn").
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, err := SeedTrips(context.Background(), db, ds)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedTrips_SkipsPopulatedTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM taxi_trips")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(156))

	n, err := SeedTrips(context.Background(), db, dataset.New(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrationsEmbedded(t *testing.T) {
	up, err := Migrations.ReadFile("migrations/000001_create_taxi_trips.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS taxi_trips")

	_, err = Migrations.ReadFile("migrations/000001_create_taxi_trips.down.sql")
	assert.NoError(t, err)
}
