package domain

import (
	"fmt"
	"time"
)

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "Scheduled"
	FlightStatusDelayed   FlightStatus = "Delayed"
	FlightStatusCancelled FlightStatus = "Cancelled"
	FlightStatusDeparted  FlightStatus = "Departed"
	FlightStatusArrived   FlightStatus = "Arrived"
)

// ParseFlightStatus refuses values outside the closed status set at the
// boundary instead of letting them reach the store.
func ParseFlightStatus(s string) (FlightStatus, error) {
	switch FlightStatus(s) {
	case FlightStatusScheduled, FlightStatusDelayed, FlightStatusCancelled, FlightStatusDeparted, FlightStatusArrived:
		return FlightStatus(s), nil
	}
	return "", fmt.Errorf("unknown flight status %q", s)
}

type Flight struct {
	ID               int64
	FlightNumber     string
	Airline          string
	DepartureAirport string
	ArrivalAirport   string
	DepartureTime    time.Time
	ArrivalTime      time.Time
	TotalSeats       int
	AvailableSeats   int
	Price            float64
	Status           FlightStatus
	CreatedAt        time.Time
}

// FlightFilter combines the optional search criteria with logical AND.
// An empty airport code or nil Date skips that filter. Date matches any
// departure within [Date 00:00, Date+1 00:00).
type FlightFilter struct {
	DepartureAirport string
	ArrivalAirport   string
	Date             *time.Time
}
