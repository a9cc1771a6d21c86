package email

import (
	"context"
	"fmt"

	"github.com/flynowhq/flynow/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email to %s: %s for booking %s on flight %s, seat %s\n",
		event.PassengerEmail, event.Type, event.Reference, event.FlightNumber, event.SeatNumber)
	return nil
}
