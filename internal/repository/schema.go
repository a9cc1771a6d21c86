package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// One statement per entry: pgx's extended query protocol does not accept
// multi-statement strings.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS flights (
		id BIGSERIAL PRIMARY KEY,
		flight_number TEXT NOT NULL UNIQUE,
		airline TEXT NOT NULL,
		departure_airport TEXT NOT NULL,
		arrival_airport TEXT NOT NULL,
		departure_time TIMESTAMPTZ NOT NULL,
		arrival_time TIMESTAMPTZ NOT NULL,
		total_seats INT NOT NULL CHECK (total_seats > 0),
		available_seats INT NOT NULL CHECK (available_seats >= 0 AND available_seats <= total_seats),
		price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		status TEXT NOT NULL DEFAULT 'Scheduled',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS passengers (
		id BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL,
		passport_number TEXT NOT NULL UNIQUE,
		date_of_birth DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGSERIAL PRIMARY KEY,
		booking_reference TEXT NOT NULL UNIQUE,
		flight_id BIGINT NOT NULL REFERENCES flights(id),
		passenger_id BIGINT NOT NULL REFERENCES passengers(id),
		seat_number TEXT NOT NULL,
		flight_class TEXT NOT NULL,
		booking_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		is_cancelled BOOLEAN NOT NULL DEFAULT FALSE
	)`,
}

// InitSchema creates the three tables if they do not exist yet.
func InitSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
