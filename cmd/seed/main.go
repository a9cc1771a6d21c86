package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/flynowhq/flynow/config"
	"github.com/flynowhq/flynow/internal/domain"
	"github.com/flynowhq/flynow/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

var airlines = []string{"IndiGo", "Air India", "Vistara", "SpiceJet", "Akasa Air"}

var routes = [][2]string{
	{"DEL", "BOM"}, {"BLR", "DEL"}, {"MAA", "HYD"}, {"CCU", "BLR"}, {"PNQ", "DEL"},
	{"BOM", "GOI"}, {"DEL", "SXR"}, {"BLR", "COK"}, {"JAI", "DEL"}, {"BOM", "UDR"},
}

var prices = []float64{3499.0, 4299.0, 5199.0, 5999.0, 6999.0}

// Seeds demo flights and one demo passenger. Skips entirely when flights
// already exist so re-runs never duplicate data.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := repository.InitSchema(ctx, pool); err != nil {
		logrus.Fatalf("init schema: %v", err)
	}

	flightRepo := repository.NewFlightRepository(pool)
	passengerRepo := repository.NewPassengerRepository(pool)

	existing, err := flightRepo.List(ctx)
	if err != nil {
		logrus.Fatalf("list flights: %v", err)
	}
	if len(existing) > 0 {
		logrus.Info("data already exists, skipping seeding")
		return
	}

	count := cfg.Seed.FlightCount
	if count <= 0 {
		count = 15
	}

	baseTime := time.Now().Truncate(time.Hour).AddDate(0, 0, 1)
	for i := 0; i < count; i++ {
		route := routes[rand.IntN(len(routes))]
		departure := baseTime.Add(time.Duration(6+rand.IntN(115)) * time.Hour)
		arrival := departure.
			Add(time.Duration(1+rand.IntN(4)) * time.Hour).
			Add(time.Duration(rand.IntN(4)*15) * time.Minute)
		total := []int{120, 150, 180}[rand.IntN(3)]

		flight := &domain.Flight{
			FlightNumber:     fmt.Sprintf("FS%d", i+101),
			Airline:          airlines[rand.IntN(len(airlines))],
			DepartureAirport: route[0],
			ArrivalAirport:   route[1],
			DepartureTime:    departure,
			ArrivalTime:      arrival,
			TotalSeats:       total,
			AvailableSeats:   total - rand.IntN(21),
			Price:            prices[rand.IntN(len(prices))],
			Status:           domain.FlightStatusScheduled,
		}
		if err := flightRepo.Create(ctx, flight); err != nil {
			logrus.Fatalf("seed flight %s: %v", flight.FlightNumber, err)
		}
	}

	passenger := &domain.Passenger{
		FirstName:      "Demo",
		LastName:       "User",
		Email:          "demo.user@example.com",
		Phone:          "9999999999",
		PassportNumber: "P1234567",
		DateOfBirth:    time.Date(1998, 5, 20, 0, 0, 0, 0, time.UTC),
	}
	if err := passengerRepo.Create(ctx, passenger); err != nil {
		logrus.Fatalf("seed passenger: %v", err)
	}

	logrus.Infof("seeded %d flights and 1 passenger", count)
}
