package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flynowhq/flynow/internal/domain"
	"github.com/flynowhq/flynow/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Book(ctx context.Context, params repository.BookParams) (*domain.BookingDetails, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDetails), args.Error(1)
}

func (m *MockBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.BookingDetails, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDetails), args.Error(1)
}

func (m *MockBookingRepository) Search(ctx context.Context, query string) ([]domain.BookingDetails, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingDetails), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, reference string) (*domain.BookingDetails, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDetails), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func bookingDetailsFixture() *domain.BookingDetails {
	return &domain.BookingDetails{
		Booking: domain.Booking{
			ID:          1,
			Reference:   "AB12CD34",
			FlightID:    4,
			PassengerID: 7,
			SeatNumber:  "B149",
			FlightClass: domain.FlightClassBusiness,
			BookingDate: time.Now(),
		},
		Flight: domain.Flight{
			ID:               4,
			FlightNumber:     "FS101",
			DepartureAirport: "DEL",
			ArrivalAirport:   "BOM",
			TotalSeats:       150,
			AvailableSeats:   149,
			Status:           domain.FlightStatusScheduled,
		},
		Passenger: domain.Passenger{
			ID:        7,
			FirstName: "Asha",
			LastName:  "Verma",
			Email:     "a@x.com",
		},
	}
}

func TestBookingService_Book_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockRepo, mockCache, mockProducer, "booking-events")

	ctx := context.Background()
	details := bookingDetailsFixture()

	mockRepo.On("Book", ctx, mock.MatchedBy(func(params repository.BookParams) bool {
		return params.FlightID == 4 && params.Class == domain.FlightClassBusiness && params.Email == "a@x.com"
	})).Return(details, nil).Once()
	mockProducer.On("Publish", ctx, "booking-events", "AB12CD34", mock.Anything).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	got, err := service.Book(ctx, BookInput{
		FlightID:    4,
		ClassChoice: 2,
		Email:       "a@x.com",
		FirstName:   "Asha",
		LastName:    "Verma",
	})

	assert.NoError(t, err)
	assert.Equal(t, details, got)
	assert.Equal(t, "AB12CD34", got.Booking.Reference)
	assert.False(t, got.Booking.IsCancelled)
	assert.Equal(t, 149, got.Flight.AvailableSeats)

	mockRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestBookingService_Book_ValidationErrors(t *testing.T) {
	service := NewBookingService(&MockBookingRepository{}, nil, nil, "")

	ctx := context.Background()

	testCases := []struct {
		name  string
		input BookInput
	}{
		{
			name:  "missing flight id",
			input: BookInput{ClassChoice: 1, Email: "a@x.com", FirstName: "A", LastName: "B"},
		},
		{
			name:  "bad email",
			input: BookInput{FlightID: 4, ClassChoice: 1, Email: "not-an-email", FirstName: "A", LastName: "B"},
		},
		{
			name:  "missing first name",
			input: BookInput{FlightID: 4, ClassChoice: 1, Email: "a@x.com", LastName: "B"},
		},
		{
			name:  "missing class choice",
			input: BookInput{FlightID: 4, Email: "a@x.com", FirstName: "A", LastName: "B"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.Book(ctx, tc.input)
			assert.Error(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestBookingService_Book_InvalidClassChoice(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	ctx := context.Background()

	for _, choice := range []int{-1, 4, 99} {
		got, err := service.Book(ctx, BookInput{
			FlightID:    4,
			ClassChoice: choice,
			Email:       "a@x.com",
			FirstName:   "A",
			LastName:    "B",
		})
		assert.Error(t, err)
		assert.Nil(t, got)
	}

	mockRepo.AssertNotCalled(t, "Book")
}

func TestBookingService_Book_NoSeats(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockRepo, mockCache, mockProducer, "booking-events")

	ctx := context.Background()

	mockRepo.On("Book", ctx, mock.Anything).Return(nil, repository.ErrNoAvailableSeats).Once()

	got, err := service.Book(ctx, BookInput{
		FlightID:    4,
		ClassChoice: 1,
		Email:       "a@x.com",
		FirstName:   "A",
		LastName:    "B",
	})

	assert.ErrorIs(t, err, repository.ErrNoAvailableSeats)
	assert.Nil(t, got)

	mockProducer.AssertNotCalled(t, "Publish")
	mockCache.AssertNotCalled(t, "InvalidateFlights")
	mockRepo.AssertExpectations(t)
}

func TestBookingService_Book_FlightNotFound(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	ctx := context.Background()

	mockRepo.On("Book", ctx, mock.Anything).Return(nil, repository.ErrFlightNotFound).Once()

	got, err := service.Book(ctx, BookInput{
		FlightID:    404,
		ClassChoice: 1,
		Email:       "a@x.com",
		FirstName:   "A",
		LastName:    "B",
	})

	assert.ErrorIs(t, err, repository.ErrFlightNotFound)
	assert.Nil(t, got)
	mockRepo.AssertExpectations(t)
}

func TestBookingService_Book_PublishFailureDoesNotFailBooking(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockRepo, mockCache, mockProducer, "booking-events")

	ctx := context.Background()
	details := bookingDetailsFixture()

	mockRepo.On("Book", ctx, mock.Anything).Return(details, nil).Once()
	mockProducer.On("Publish", ctx, "booking-events", "AB12CD34", mock.Anything).Return(errors.New("broker down")).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	got, err := service.Book(ctx, BookInput{
		FlightID:    4,
		ClassChoice: 2,
		Email:       "a@x.com",
		FirstName:   "Asha",
		LastName:    "Verma",
	})

	assert.NoError(t, err)
	assert.Equal(t, details, got)

	mockProducer.AssertExpectations(t)
}

func TestBookingService_Book_MirrorsEventToNotificationsTopic(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockRepo, mockCache, mockProducer, "booking-events",
		WithNotificationsTopic("booking-notifications"))

	ctx := context.Background()
	details := bookingDetailsFixture()

	mockRepo.On("Book", ctx, mock.Anything).Return(details, nil).Once()
	mockProducer.On("Publish", ctx, "booking-events", "AB12CD34", mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking-notifications", "AB12CD34", mock.Anything).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	got, err := service.Book(ctx, BookInput{
		FlightID:    4,
		ClassChoice: 2,
		Email:       "a@x.com",
		FirstName:   "Asha",
		LastName:    "Verma",
	})

	assert.NoError(t, err)
	assert.Equal(t, details, got)

	mockProducer.AssertExpectations(t)
}

func TestBookingService_Cancel_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockRepo, mockCache, mockProducer, "booking-events")

	ctx := context.Background()
	details := bookingDetailsFixture()
	details.Booking.IsCancelled = true
	details.Flight.AvailableSeats = 150

	mockRepo.On("Cancel", ctx, "AB12CD34").Return(details, nil).Once()
	mockProducer.On("Publish", ctx, "booking-events", "AB12CD34", mock.Anything).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	got, err := service.Cancel(ctx, "AB12CD34")

	assert.NoError(t, err)
	assert.True(t, got.Booking.IsCancelled)
	assert.Equal(t, 150, got.Flight.AvailableSeats)

	mockRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestBookingService_Cancel_AlreadyCancelled(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockRepo, mockCache, mockProducer, "booking-events")

	ctx := context.Background()

	mockRepo.On("Cancel", ctx, "AB12CD34").Return(nil, repository.ErrAlreadyCancelled).Once()

	got, err := service.Cancel(ctx, "AB12CD34")

	assert.ErrorIs(t, err, repository.ErrAlreadyCancelled)
	assert.Nil(t, got)

	mockProducer.AssertNotCalled(t, "Publish")
	mockCache.AssertNotCalled(t, "InvalidateFlights")
	mockRepo.AssertExpectations(t)
}

func TestBookingService_Cancel_NotFound(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	ctx := context.Background()

	mockRepo.On("Cancel", ctx, "ZZZZZZZZ").Return(nil, repository.ErrBookingNotFound).Once()

	got, err := service.Cancel(ctx, "ZZZZZZZZ")

	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
	assert.Nil(t, got)
	mockRepo.AssertExpectations(t)
}

func TestBookingService_Find(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	ctx := context.Background()
	all := []domain.BookingDetails{*bookingDetailsFixture()}

	mockRepo.On("Search", ctx, "").Return(all, nil).Once()
	mockRepo.On("Search", ctx, "a@x.com").Return(all, nil).Once()

	got, err := service.Find(ctx, "")
	assert.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = service.Find(ctx, "a@x.com")
	assert.NoError(t, err)
	assert.Len(t, got, 1)

	mockRepo.AssertExpectations(t)
}

func TestBookingService_Get(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	ctx := context.Background()
	details := bookingDetailsFixture()

	mockRepo.On("GetByReference", ctx, "AB12CD34").Return(details, nil).Once()

	got, err := service.Get(ctx, "AB12CD34")
	assert.NoError(t, err)
	assert.Equal(t, details, got)
	mockRepo.AssertExpectations(t)
}
