package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/flynowhq/flynow/internal/domain"
	"github.com/flynowhq/flynow/internal/kafka"
	"github.com/flynowhq/flynow/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	Book(ctx context.Context, input BookInput) (*domain.BookingDetails, error)
	Get(ctx context.Context, reference string) (*domain.BookingDetails, error)
	Find(ctx context.Context, query string) ([]domain.BookingDetails, error)
	Cancel(ctx context.Context, reference string) (*domain.BookingDetails, error)
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// BookInput: ClassChoice is the 1-based index into domain.FlightClasses().
// The passenger detail fields are only consulted when the email is new.
type BookInput struct {
	FlightID       int64  `validate:"required,gt=0"`
	ClassChoice    int    `validate:"required"`
	Email          string `validate:"required,email"`
	FirstName      string `validate:"required"`
	LastName       string `validate:"required"`
	Phone          string
	PassportNumber string
	DateOfBirth    time.Time
}

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	validate           *validator.Validate
}

type BookingServiceOption func(*BookingService)

// WithNotificationsTopic mirrors every event onto a second topic consumed
// by the notifications worker.
func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(bookings repository.BookingRepository, cache Cache, producer Producer, eventsTopic string, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		cache:       cache,
		producer:    producer,
		eventsTopic: eventsTopic,
		validate:    validator.New(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Book validates everything before the store is touched, then hands the whole
// reservation to the repository as one transaction. The event and the cache
// invalidation run after commit and never fail the booking.
func (s *BookingService) Book(ctx context.Context, input BookInput) (*domain.BookingDetails, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid booking input: %w", err)
	}
	class, err := domain.FlightClassByIndex(input.ClassChoice)
	if err != nil {
		return nil, err
	}

	details, err := s.bookings.Book(ctx, repository.BookParams{
		FlightID:       input.FlightID,
		Class:          class,
		Email:          input.Email,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Phone:          input.Phone,
		PassportNumber: input.PassportNumber,
		DateOfBirth:    input.DateOfBirth,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", details)
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return details, nil
}

func (s *BookingService) Get(ctx context.Context, reference string) (*domain.BookingDetails, error) {
	return s.bookings.GetByReference(ctx, reference)
}

func (s *BookingService) Find(ctx context.Context, query string) ([]domain.BookingDetails, error) {
	return s.bookings.Search(ctx, query)
}

// Cancel passes repository.ErrAlreadyCancelled through untouched so the
// caller can report the no-op; the seat is only credited once.
func (s *BookingService) Cancel(ctx context.Context, reference string) (*domain.BookingDetails, error) {
	details, err := s.bookings.Cancel(ctx, reference)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_cancelled", details)
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return details, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, details *domain.BookingDetails) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		EventID:        uuid.NewString(),
		Type:           eventType,
		Reference:      details.Booking.Reference,
		FlightID:       details.Flight.ID,
		FlightNumber:   details.Flight.FlightNumber,
		PassengerEmail: details.Passenger.Email,
		SeatNumber:     details.Booking.SeatNumber,
		FlightClass:    string(details.Booking.FlightClass),
		OccurredAt:     time.Now(),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, event.Reference, event); err != nil {
		logrus.WithError(err).Warnf("failed to publish %s event for booking %s", eventType, event.Reference)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.Reference, event); err != nil {
			logrus.WithError(err).Warnf("failed to publish %s notification for booking %s", eventType, event.Reference)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
