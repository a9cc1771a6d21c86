package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flynowhq/flynow/config"
	"github.com/flynowhq/flynow/internal/cache"
	"github.com/flynowhq/flynow/internal/kafka"
	"github.com/flynowhq/flynow/internal/repository"
	"github.com/flynowhq/flynow/internal/service/booking"
	"github.com/flynowhq/flynow/internal/service/flights"
	"github.com/flynowhq/flynow/internal/service/passengers"
	"github.com/flynowhq/flynow/internal/shell"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := repository.InitSchema(ctx, pool); err != nil {
		logrus.Fatalf("init schema: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	passengerRepo := repository.NewPassengerRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	flightService := flights.NewFlightService(flightRepo, redisCache)
	passengerService := passengers.NewPassengerService(passengerRepo)
	bookingService := booking.NewBookingService(
		bookingRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	sh := shell.New(flightService, passengerService, bookingService, os.Stdin, os.Stdout)
	if err := sh.Run(ctx); err != nil {
		logrus.Fatalf("shell error: %v", err)
	}
}
