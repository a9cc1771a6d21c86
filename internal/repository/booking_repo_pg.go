package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/flynowhq/flynow/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookParams carries everything the booking transaction needs. The passenger
// fields are only used when no passenger with that email exists yet.
type BookParams struct {
	FlightID       int64
	Class          domain.FlightClass
	Email          string
	FirstName      string
	LastName       string
	Phone          string
	PassportNumber string
	DateOfBirth    time.Time
}

type BookingRepository interface {
	Book(ctx context.Context, params BookParams) (*domain.BookingDetails, error)
	GetByReference(ctx context.Context, reference string) (*domain.BookingDetails, error)
	// Search matches the query against booking references and passenger
	// emails; an empty query returns all bookings.
	Search(ctx context.Context, query string) ([]domain.BookingDetails, error)
	Cancel(ctx context.Context, reference string) (*domain.BookingDetails, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func newBookingReference() string {
	buf := make([]byte, 8)
	for i := range buf {
		buf[i] = referenceAlphabet[rand.IntN(len(referenceAlphabet))]
	}
	return string(buf)
}

// Book runs the whole reservation as one transaction: lock the flight, reuse
// or create the passenger, take a seat, insert the booking. Any failure rolls
// everything back, so there is never a partial seat decrement or an orphan
// passenger row.
func (r *PGBookingRepository) Book(ctx context.Context, params BookParams) (*domain.BookingDetails, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var flight domain.Flight
	row := tx.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1 FOR UPDATE`, params.FlightID)
	if err := scanFlight(row, &flight); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	if flight.AvailableSeats <= 0 {
		return nil, ErrNoAvailableSeats
	}

	// Get-or-create by email: an existing passenger wins and any freshly
	// entered details for that email are ignored.
	var passenger domain.Passenger
	row = tx.QueryRow(ctx, `SELECT `+passengerColumns+` FROM passengers WHERE email=$1`, params.Email)
	err = row.Scan(&passenger.ID, &passenger.FirstName, &passenger.LastName, &passenger.Email, &passenger.Phone, &passenger.PassportNumber, &passenger.DateOfBirth, &passenger.CreatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		passenger = domain.Passenger{
			FirstName:      params.FirstName,
			LastName:       params.LastName,
			Email:          params.Email,
			Phone:          params.Phone,
			PassportNumber: params.PassportNumber,
			DateOfBirth:    params.DateOfBirth,
		}
		row := tx.QueryRow(ctx, `INSERT INTO passengers (first_name, last_name, email, phone, passport_number, date_of_birth)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at`,
			passenger.FirstName, passenger.LastName, passenger.Email, passenger.Phone, passenger.PassportNumber, passenger.DateOfBirth)
		if err := row.Scan(&passenger.ID, &passenger.CreatedAt); err != nil {
			return nil, fmt.Errorf("insert passenger: %w", err)
		}
	case err != nil:
		return nil, err
	}

	// Seat label: class initial + seats remaining before this booking. A
	// label can be reissued after a cancel/rebook cycle; it is a display
	// label, not a seat-map claim.
	seatNumber := fmt.Sprintf("%c%d", params.Class[0], flight.AvailableSeats)

	reference, err := r.uniqueReference(ctx, tx)
	if err != nil {
		return nil, err
	}

	res, err := tx.Exec(ctx, `UPDATE flights SET available_seats = available_seats - 1 WHERE id=$1 AND available_seats > 0`, flight.ID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, ErrNoAvailableSeats
	}

	booking := domain.Booking{
		Reference:   reference,
		FlightID:    flight.ID,
		PassengerID: passenger.ID,
		SeatNumber:  seatNumber,
		FlightClass: params.Class,
	}
	row = tx.QueryRow(ctx, `INSERT INTO bookings (booking_reference, flight_id, passenger_id, seat_number, flight_class)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, booking_date`,
		booking.Reference, booking.FlightID, booking.PassengerID, booking.SeatNumber, booking.FlightClass)
	if err := row.Scan(&booking.ID, &booking.BookingDate); err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	flight.AvailableSeats--
	return &domain.BookingDetails{Booking: booking, Flight: flight, Passenger: passenger}, nil
}

// uniqueReference re-rolls the 8-char reference on collision. The UNIQUE
// constraint on booking_reference backstops anything this probe misses.
func (r *PGBookingRepository) uniqueReference(ctx context.Context, tx pgx.Tx) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		reference := newBookingReference()
		var taken bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE booking_reference=$1)`, reference).Scan(&taken); err != nil {
			return "", err
		}
		if !taken {
			return reference, nil
		}
	}
	return "", errors.New("could not generate a unique booking reference")
}

const bookingJoinQuery = `SELECT
	b.id, b.booking_reference, b.flight_id, b.passenger_id, b.seat_number, b.flight_class, b.booking_date, b.is_cancelled,
	f.id, f.flight_number, f.airline, f.departure_airport, f.arrival_airport, f.departure_time, f.arrival_time, f.total_seats, f.available_seats, f.price, f.status, f.created_at,
	p.id, p.first_name, p.last_name, p.email, p.phone, p.passport_number, p.date_of_birth, p.created_at
FROM bookings b
JOIN flights f ON f.id = b.flight_id
JOIN passengers p ON p.id = b.passenger_id`

func scanBookingDetails(row pgx.Row, d *domain.BookingDetails) error {
	var status string
	if err := row.Scan(
		&d.Booking.ID, &d.Booking.Reference, &d.Booking.FlightID, &d.Booking.PassengerID, &d.Booking.SeatNumber, &d.Booking.FlightClass, &d.Booking.BookingDate, &d.Booking.IsCancelled,
		&d.Flight.ID, &d.Flight.FlightNumber, &d.Flight.Airline, &d.Flight.DepartureAirport, &d.Flight.ArrivalAirport, &d.Flight.DepartureTime, &d.Flight.ArrivalTime, &d.Flight.TotalSeats, &d.Flight.AvailableSeats, &d.Flight.Price, &status, &d.Flight.CreatedAt,
		&d.Passenger.ID, &d.Passenger.FirstName, &d.Passenger.LastName, &d.Passenger.Email, &d.Passenger.Phone, &d.Passenger.PassportNumber, &d.Passenger.DateOfBirth, &d.Passenger.CreatedAt,
	); err != nil {
		return err
	}

	parsed, err := domain.ParseFlightStatus(status)
	if err != nil {
		return err
	}
	d.Flight.Status = parsed
	return nil
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.BookingDetails, error) {
	row := r.db.QueryRow(ctx, bookingJoinQuery+` WHERE b.booking_reference=$1`, reference)
	var d domain.BookingDetails
	if err := scanBookingDetails(row, &d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *PGBookingRepository) Search(ctx context.Context, query string) ([]domain.BookingDetails, error) {
	sql := bookingJoinQuery
	args := make([]any, 0, 1)
	if query != "" {
		sql += ` WHERE b.booking_reference=$1 OR p.email=$1`
		args = append(args, query)
	}
	sql += ` ORDER BY b.id`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]domain.BookingDetails, 0)
	for rows.Next() {
		var d domain.BookingDetails
		if err := scanBookingDetails(rows, &d); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// Cancel flips is_cancelled and credits the seat back in one transaction.
// Cancelling twice is a reported no-op: the second call returns
// ErrAlreadyCancelled without touching available_seats.
func (r *PGBookingRepository) Cancel(ctx context.Context, reference string) (*domain.BookingDetails, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var booking domain.Booking
	row := tx.QueryRow(ctx, `SELECT id, booking_reference, flight_id, passenger_id, seat_number, flight_class, booking_date, is_cancelled FROM bookings WHERE booking_reference=$1 FOR UPDATE`, reference)
	if err := row.Scan(&booking.ID, &booking.Reference, &booking.FlightID, &booking.PassengerID, &booking.SeatNumber, &booking.FlightClass, &booking.BookingDate, &booking.IsCancelled); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.IsCancelled {
		return nil, ErrAlreadyCancelled
	}

	if _, err := tx.Exec(ctx, `UPDATE bookings SET is_cancelled = TRUE WHERE id=$1`, booking.ID); err != nil {
		return nil, err
	}
	res, err := tx.Exec(ctx, `UPDATE flights SET available_seats = available_seats + 1 WHERE id=$1 AND available_seats < total_seats`, booking.FlightID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, fmt.Errorf("seat credit for flight %d would exceed capacity", booking.FlightID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetByReference(ctx, reference)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
