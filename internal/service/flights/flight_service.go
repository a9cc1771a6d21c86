package flights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flynowhq/flynow/internal/domain"
	"github.com/flynowhq/flynow/internal/repository"
	"github.com/go-playground/validator/v10"
)

type FlightUseCase interface {
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, input SearchInput) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type CreateFlightInput struct {
	FlightNumber     string    `validate:"required"`
	Airline          string    `validate:"required"`
	DepartureAirport string    `validate:"required,len=3,alpha"`
	ArrivalAirport   string    `validate:"required,len=3,alpha"`
	DepartureTime    time.Time `validate:"required"`
	ArrivalTime      time.Time `validate:"required"`
	TotalSeats       int       `validate:"required,gt=0"`
	Price            float64   `validate:"gte=0"`
}

type SearchInput struct {
	DepartureAirport string `validate:"omitempty,len=3,alpha"`
	ArrivalAirport   string `validate:"omitempty,len=3,alpha"`
	Date             *time.Time
}

type FlightService struct {
	repo     repository.FlightRepository
	cache    Cache
	validate *validator.Validate
}

func NewFlightService(repo repository.FlightRepository, cache Cache) *FlightService {
	return &FlightService{
		repo:     repo,
		cache:    cache,
		validate: validator.New(),
	}
}

// Create initializes available_seats to the full capacity and the status to
// Scheduled. Duplicate flight numbers surface as the store's constraint error.
func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	input.DepartureAirport = strings.ToUpper(input.DepartureAirport)
	input.ArrivalAirport = strings.ToUpper(input.ArrivalAirport)

	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid flight input: %w", err)
	}

	flight := &domain.Flight{
		FlightNumber:     input.FlightNumber,
		Airline:          input.Airline,
		DepartureAirport: input.DepartureAirport,
		ArrivalAirport:   input.ArrivalAirport,
		DepartureTime:    input.DepartureTime,
		ArrivalTime:      input.ArrivalTime,
		TotalSeats:       input.TotalSeats,
		AvailableSeats:   input.TotalSeats,
		Price:            input.Price,
		Status:           domain.FlightStatusScheduled,
	}

	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return flight, nil
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) Search(ctx context.Context, input SearchInput) ([]domain.Flight, error) {
	input.DepartureAirport = strings.ToUpper(input.DepartureAirport)
	input.ArrivalAirport = strings.ToUpper(input.ArrivalAirport)

	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid search input: %w", err)
	}

	return s.repo.Search(ctx, domain.FlightFilter{
		DepartureAirport: input.DepartureAirport,
		ArrivalAirport:   input.ArrivalAirport,
		Date:             input.Date,
	})
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

var _ FlightUseCase = (*FlightService)(nil)
