package passengers

import (
	"context"
	"fmt"
	"time"

	"github.com/flynowhq/flynow/internal/domain"
	"github.com/flynowhq/flynow/internal/repository"
	"github.com/go-playground/validator/v10"
)

type PassengerUseCase interface {
	Create(ctx context.Context, input CreatePassengerInput) (*domain.Passenger, error)
	GetByEmail(ctx context.Context, email string) (*domain.Passenger, error)
}

type CreatePassengerInput struct {
	FirstName      string    `validate:"required"`
	LastName       string    `validate:"required"`
	Email          string    `validate:"required,email"`
	Phone          string    `validate:"required"`
	PassportNumber string    `validate:"required"`
	DateOfBirth    time.Time `validate:"required"`
}

type PassengerService struct {
	repo     repository.PassengerRepository
	validate *validator.Validate
}

func NewPassengerService(repo repository.PassengerRepository) *PassengerService {
	return &PassengerService{repo: repo, validate: validator.New()}
}

// Create always attempts a fresh insert; duplicate email or passport number
// surfaces as the store's constraint error.
func (s *PassengerService) Create(ctx context.Context, input CreatePassengerInput) (*domain.Passenger, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid passenger input: %w", err)
	}

	passenger := &domain.Passenger{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		PassportNumber: input.PassportNumber,
		DateOfBirth:    input.DateOfBirth,
	}
	if err := s.repo.Create(ctx, passenger); err != nil {
		return nil, err
	}
	return passenger, nil
}

func (s *PassengerService) GetByEmail(ctx context.Context, email string) (*domain.Passenger, error) {
	return s.repo.GetByEmail(ctx, email)
}

var _ PassengerUseCase = (*PassengerService)(nil)
