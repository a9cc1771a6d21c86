package repository

import "errors"

var (
	ErrFlightNotFound   = errors.New("flight not found")
	ErrNoAvailableSeats = errors.New("no available seats")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
)
