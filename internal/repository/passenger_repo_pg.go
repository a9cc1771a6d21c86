package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/flynowhq/flynow/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PassengerRepository interface {
	Create(ctx context.Context, passenger *domain.Passenger) error
	// GetByEmail returns (nil, nil) when no passenger has that email.
	GetByEmail(ctx context.Context, email string) (*domain.Passenger, error)
}

type PGPassengerRepository struct {
	db *pgxpool.Pool
}

func NewPassengerRepository(db *pgxpool.Pool) PassengerRepository {
	return &PGPassengerRepository{db: db}
}

const passengerColumns = `id, first_name, last_name, email, phone, passport_number, date_of_birth, created_at`

func (r *PGPassengerRepository) Create(ctx context.Context, p *domain.Passenger) error {
	row := r.db.QueryRow(ctx, `INSERT INTO passengers (first_name, last_name, email, phone, passport_number, date_of_birth)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		p.FirstName, p.LastName, p.Email, p.Phone, p.PassportNumber, p.DateOfBirth)
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("insert passenger: %w", err)
	}
	return nil
}

func (r *PGPassengerRepository) GetByEmail(ctx context.Context, email string) (*domain.Passenger, error) {
	row := r.db.QueryRow(ctx, `SELECT `+passengerColumns+` FROM passengers WHERE email=$1`, email)
	var p domain.Passenger
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.PassportNumber, &p.DateOfBirth, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)
