package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/flynowhq/flynow/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, airline, departure_airport, arrival_airport, departure_time, arrival_time, total_seats, available_seats, price, status, created_at`

func scanFlight(row pgx.Row, f *domain.Flight) error {
	var status string
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.Airline, &f.DepartureAirport, &f.ArrivalAirport, &f.DepartureTime, &f.ArrivalTime, &f.TotalSeats, &f.AvailableSeats, &f.Price, &status, &f.CreatedAt); err != nil {
		return err
	}

	// A row that fails the closed-set check is corrupt; surface it instead
	// of carrying an unknown status through the domain.
	parsed, err := domain.ParseFlightStatus(status)
	if err != nil {
		return err
	}
	f.Status = parsed
	return nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	row := r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, airline, departure_airport, arrival_airport, departure_time, arrival_time, total_seats, available_seats, price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		flight.FlightNumber, flight.Airline, flight.DepartureAirport, flight.ArrivalAirport,
		flight.DepartureTime, flight.ArrivalTime, flight.TotalSeats, flight.AvailableSeats,
		flight.Price, flight.Status)
	if err := row.Scan(&flight.ID, &flight.CreatedAt); err != nil {
		return fmt.Errorf("insert flight: %w", err)
	}
	return nil
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE 1=1`
	args := make([]any, 0, 4)

	if filter.DepartureAirport != "" {
		args = append(args, filter.DepartureAirport)
		query += fmt.Sprintf(" AND departure_airport = $%d", len(args))
	}
	if filter.ArrivalAirport != "" {
		args = append(args, filter.ArrivalAirport)
		query += fmt.Sprintf(" AND arrival_airport = $%d", len(args))
	}
	if filter.Date != nil {
		day := *filter.Date // midnight, set by the caller
		args = append(args, day)
		query += fmt.Sprintf(" AND departure_time >= $%d", len(args))
		args = append(args, day.AddDate(0, 0, 1))
		query += fmt.Sprintf(" AND departure_time < $%d", len(args))
	}
	query += ` ORDER BY departure_time`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
