package domain

import (
	"fmt"
	"time"
)

type FlightClass string

const (
	FlightClassEconomy  FlightClass = "Economy"
	FlightClassBusiness FlightClass = "Business"
	FlightClassFirst    FlightClass = "First Class"
)

// FlightClasses returns the closed class set in menu order.
func FlightClasses() []FlightClass {
	return []FlightClass{FlightClassEconomy, FlightClassBusiness, FlightClassFirst}
}

// FlightClassByIndex resolves a 1-based menu selection. Out-of-range
// choices are rejected before anything touches the store.
func FlightClassByIndex(i int) (FlightClass, error) {
	classes := FlightClasses()
	if i < 1 || i > len(classes) {
		return "", fmt.Errorf("invalid class selection %d", i)
	}
	return classes[i-1], nil
}

type Booking struct {
	ID          int64
	Reference   string
	FlightID    int64
	PassengerID int64
	SeatNumber  string
	FlightClass FlightClass
	BookingDate time.Time
	IsCancelled bool
}

// StatusLabel renders the cancellation flag the way the booking views show it.
func (b Booking) StatusLabel() string {
	if b.IsCancelled {
		return "Cancelled"
	}
	return "Confirmed"
}

// BookingDetails is a booking joined with its flight and passenger, as
// returned by the lookup and mutation paths for display.
type BookingDetails struct {
	Booking   Booking
	Flight    Flight
	Passenger Passenger
}
