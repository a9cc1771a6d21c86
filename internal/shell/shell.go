package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/flynowhq/flynow/internal/domain"
	"github.com/flynowhq/flynow/internal/repository"
	"github.com/flynowhq/flynow/internal/service/booking"
	"github.com/flynowhq/flynow/internal/service/flights"
	"github.com/flynowhq/flynow/internal/service/passengers"
)

const (
	timestampLayout = "02-01-2006 15:04"
	dateLayout      = "02-01-2006"
)

// Shell runs the numbered menu loop. It owns all console I/O: it collects
// raw text, parses it into primitives, calls the use-cases and renders the
// results. Every error is reported per iteration and the loop continues.
type Shell struct {
	flights    flights.FlightUseCase
	passengers passengers.PassengerUseCase
	bookings   booking.BookingUseCase
	in         *bufio.Reader
	out        io.Writer

	header  *color.Color
	success *color.Color
	warning *color.Color
	failure *color.Color
}

func New(flightSvc flights.FlightUseCase, passengerSvc passengers.PassengerUseCase, bookingSvc booking.BookingUseCase, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		flights:    flightSvc,
		passengers: passengerSvc,
		bookings:   bookingSvc,
		in:         bufio.NewReader(in),
		out:        out,
		header:     color.New(color.FgCyan),
		success:    color.New(color.FgGreen),
		warning:    color.New(color.FgYellow),
		failure:    color.New(color.FgRed),
	}
}

func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		choice, err := s.menu()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = s.addFlight(ctx)
		case "2":
			err = s.viewFlights(ctx)
		case "3":
			err = s.searchFlights(ctx)
		case "4":
			err = s.addPassenger(ctx)
		case "5":
			err = s.bookFlight(ctx)
		case "6":
			err = s.viewBookings(ctx)
		case "7":
			err = s.cancelBooking(ctx)
		case "8":
			fmt.Fprintln(s.out, "\nThank you for using FlyNow. Goodbye!")
			return nil
		default:
			s.failure.Fprintln(s.out, "Invalid choice. Please try again.")
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			s.failure.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

func (s *Shell) menu() (string, error) {
	s.header.Fprintln(s.out, "\n=== Flight Reservation System ===")
	fmt.Fprintln(s.out, "1. Add New Flight")
	fmt.Fprintln(s.out, "2. View All Flights")
	fmt.Fprintln(s.out, "3. Search Flights")
	fmt.Fprintln(s.out, "4. Add Passenger")
	fmt.Fprintln(s.out, "5. Book a Flight")
	fmt.Fprintln(s.out, "6. View Bookings")
	fmt.Fprintln(s.out, "7. Cancel Booking")
	fmt.Fprintln(s.out, "8. Exit")
	fmt.Fprintln(s.out, strings.Repeat("-", 30))
	return s.prompt("Enter your choice (1-8): ")
}

func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Shell) promptInt(label string) (int, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return n, nil
}

func (s *Shell) promptFloat(label string) (float64, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return f, nil
}

func (s *Shell) promptTime(label, layout string) (time.Time, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected format %s", raw, layout)
	}
	return t, nil
}

func (s *Shell) addFlight(ctx context.Context) error {
	s.warning.Fprintln(s.out, "\n=== Add New Flight ===")

	flightNumber, err := s.prompt("Enter flight number (e.g., AA123): ")
	if err != nil {
		return err
	}
	airline, err := s.prompt("Enter airline name: ")
	if err != nil {
		return err
	}
	departureAirport, err := s.prompt("Enter departure airport code (e.g., JFK): ")
	if err != nil {
		return err
	}
	arrivalAirport, err := s.prompt("Enter arrival airport code (e.g., LAX): ")
	if err != nil {
		return err
	}
	departureTime, err := s.promptTime("Enter departure time (DD-MM-YYYY HH:MM): ", timestampLayout)
	if err != nil {
		return err
	}
	arrivalTime, err := s.promptTime("Enter arrival time (DD-MM-YYYY HH:MM): ", timestampLayout)
	if err != nil {
		return err
	}
	totalSeats, err := s.promptInt("Enter total number of seats: ")
	if err != nil {
		return err
	}
	price, err := s.promptFloat("Enter ticket price: ")
	if err != nil {
		return err
	}

	flight, err := s.flights.Create(ctx, flights.CreateFlightInput{
		FlightNumber:     flightNumber,
		Airline:          airline,
		DepartureAirport: departureAirport,
		ArrivalAirport:   arrivalAirport,
		DepartureTime:    departureTime,
		ArrivalTime:      arrivalTime,
		TotalSeats:       totalSeats,
		Price:            price,
	})
	if err != nil {
		return err
	}

	s.success.Fprintf(s.out, "Flight %s added successfully (id %d).\n", flight.FlightNumber, flight.ID)
	return nil
}

func (s *Shell) viewFlights(ctx context.Context) error {
	s.warning.Fprintln(s.out, "\n=== Available Flights ===")

	list, err := s.flights.List(ctx)
	if err != nil {
		return err
	}
	s.renderFlights(list)
	return nil
}

func (s *Shell) searchFlights(ctx context.Context) error {
	s.warning.Fprintln(s.out, "\n=== Search Flights ===")

	departure, err := s.prompt("Enter departure airport (leave empty to skip): ")
	if err != nil {
		return err
	}
	arrival, err := s.prompt("Enter arrival airport (leave empty to skip): ")
	if err != nil {
		return err
	}
	rawDate, err := s.prompt("Enter date (DD-MM-YYYY, leave empty to skip): ")
	if err != nil {
		return err
	}

	input := flights.SearchInput{DepartureAirport: departure, ArrivalAirport: arrival}
	if rawDate != "" {
		// A malformed date aborts the whole search rather than silently
		// widening the result set.
		day, err := time.Parse(dateLayout, rawDate)
		if err != nil {
			return fmt.Errorf("invalid date %q, expected format %s", rawDate, dateLayout)
		}
		input.Date = &day
	}

	list, err := s.flights.Search(ctx, input)
	if err != nil {
		return err
	}
	s.renderFlights(list)
	return nil
}

func (s *Shell) addPassenger(ctx context.Context) error {
	s.warning.Fprintln(s.out, "\n=== Add New Passenger ===")

	firstName, err := s.prompt("Enter first name: ")
	if err != nil {
		return err
	}
	lastName, err := s.prompt("Enter last name: ")
	if err != nil {
		return err
	}
	email, err := s.prompt("Enter email: ")
	if err != nil {
		return err
	}
	phone, err := s.prompt("Enter phone number: ")
	if err != nil {
		return err
	}
	passport, err := s.prompt("Enter passport number: ")
	if err != nil {
		return err
	}
	dob, err := s.promptTime("Enter date of birth (DD-MM-YYYY): ", dateLayout)
	if err != nil {
		return err
	}

	passenger, err := s.passengers.Create(ctx, passengers.CreatePassengerInput{
		FirstName:      firstName,
		LastName:       lastName,
		Email:          email,
		Phone:          phone,
		PassportNumber: passport,
		DateOfBirth:    dob,
	})
	if err != nil {
		return err
	}

	s.success.Fprintf(s.out, "Passenger %s added successfully (id %d).\n", passenger.FullName(), passenger.ID)
	return nil
}

func (s *Shell) bookFlight(ctx context.Context) error {
	s.warning.Fprintln(s.out, "\n=== Book a Flight ===")

	all, err := s.flights.List(ctx)
	if err != nil {
		return err
	}
	bookable := make([]domain.Flight, 0, len(all))
	for _, f := range all {
		if f.AvailableSeats > 0 && f.Status == domain.FlightStatusScheduled {
			bookable = append(bookable, f)
		}
	}
	if len(bookable) == 0 {
		fmt.Fprintln(s.out, "No available flights found.")
		return nil
	}

	fmt.Fprintln(s.out, "\nAvailable Flights:")
	s.renderFlights(bookable)

	flightID, err := s.promptInt("\nEnter flight ID to book: ")
	if err != nil {
		return err
	}

	// Resolve the flight before collecting passenger details, so an unknown
	// id or a full flight is reported without wasted prompting. The booking
	// transaction re-checks both under its row lock.
	flight, err := s.flights.GetByID(ctx, int64(flightID))
	if err != nil {
		return err
	}
	if flight.AvailableSeats <= 0 {
		s.failure.Fprintln(s.out, "No available seats on this flight.")
		return nil
	}

	fmt.Fprintln(s.out, "\nPassenger Details:")
	firstName, err := s.prompt("First Name: ")
	if err != nil {
		return err
	}
	lastName, err := s.prompt("Last Name: ")
	if err != nil {
		return err
	}
	email, err := s.prompt("Email: ")
	if err != nil {
		return err
	}

	input := booking.BookInput{
		FlightID:  flight.ID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}

	existing, err := s.passengers.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing == nil {
		// New passenger: the remaining fields are created inside the same
		// booking transaction.
		if input.Phone, err = s.prompt("Phone: "); err != nil {
			return err
		}
		if input.PassportNumber, err = s.prompt("Passport Number: "); err != nil {
			return err
		}
		if input.DateOfBirth, err = s.promptTime("Date of Birth (DD-MM-YYYY): ", dateLayout); err != nil {
			return err
		}
	}

	fmt.Fprintln(s.out, "\nAvailable Classes:")
	for i, class := range domain.FlightClasses() {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, class)
	}
	input.ClassChoice, err = s.promptInt("Select class (1-3): ")
	if err != nil {
		return err
	}

	details, err := s.bookings.Book(ctx, input)
	if err != nil {
		return err
	}

	s.success.Fprintln(s.out, "\nBooking successful!")
	fmt.Fprintf(s.out, "Booking Reference: %s\n", details.Booking.Reference)
	fmt.Fprintf(s.out, "Flight: %s from %s to %s\n", details.Flight.FlightNumber, details.Flight.DepartureAirport, details.Flight.ArrivalAirport)
	fmt.Fprintf(s.out, "Passenger: %s\n", details.Passenger.FullName())
	fmt.Fprintf(s.out, "Seat: %s (%s)\n", details.Booking.SeatNumber, details.Booking.FlightClass)
	return nil
}

func (s *Shell) viewBookings(ctx context.Context) error {
	s.warning.Fprintln(s.out, "\n=== View Bookings ===")

	query, err := s.prompt("Enter booking reference or passenger email (leave empty to view all): ")
	if err != nil {
		return err
	}

	list, err := s.bookings.Find(ctx, query)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(s.out, "No bookings found.")
		return nil
	}

	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Ref\tPassenger\tFlight\tFrom\tTo\tDeparture\tSeat\tClass\tStatus")
	for _, d := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Booking.Reference, d.Passenger.FullName(), d.Flight.FlightNumber,
			d.Flight.DepartureAirport, d.Flight.ArrivalAirport,
			d.Flight.DepartureTime.Format(timestampLayout),
			d.Booking.SeatNumber, d.Booking.FlightClass, d.Booking.StatusLabel())
	}
	return w.Flush()
}

func (s *Shell) cancelBooking(ctx context.Context) error {
	s.warning.Fprintln(s.out, "\n=== Cancel Booking ===")

	reference, err := s.prompt("Enter booking reference to cancel: ")
	if err != nil {
		return err
	}
	if reference == "" {
		return errors.New("booking reference is required")
	}

	details, err := s.bookings.Get(ctx, reference)
	if err != nil {
		return err
	}
	if details.Booking.IsCancelled {
		s.warning.Fprintln(s.out, "This booking is already cancelled.")
		return nil
	}

	fmt.Fprintln(s.out, "\nBooking Details:")
	fmt.Fprintf(s.out, "Passenger: %s\n", details.Passenger.FullName())
	fmt.Fprintf(s.out, "Flight: %s from %s to %s\n", details.Flight.FlightNumber, details.Flight.DepartureAirport, details.Flight.ArrivalAirport)
	fmt.Fprintf(s.out, "Date: %s\n", details.Flight.DepartureTime.Format(timestampLayout))
	fmt.Fprintf(s.out, "Seat: %s (%s)\n", details.Booking.SeatNumber, details.Booking.FlightClass)

	confirm, err := s.prompt("\nAre you sure you want to cancel this booking? (y/n): ")
	if err != nil {
		return err
	}
	if strings.ToLower(confirm) != "y" {
		fmt.Fprintln(s.out, "Cancellation aborted.")
		return nil
	}

	if _, err := s.bookings.Cancel(ctx, reference); err != nil {
		if errors.Is(err, repository.ErrAlreadyCancelled) {
			s.warning.Fprintln(s.out, "This booking is already cancelled.")
			return nil
		}
		return err
	}

	s.success.Fprintln(s.out, "Booking has been cancelled successfully.")
	return nil
}

func (s *Shell) renderFlights(list []domain.Flight) {
	if len(list) == 0 {
		fmt.Fprintln(s.out, "No flights found.")
		return
	}

	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFlight\tFrom\tTo\tDeparture\tArrival\tSeats\tPrice\tStatus")
	for _, f := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d/%d\tRs.%.2f\t%s\n",
			f.ID, f.FlightNumber, f.DepartureAirport, f.ArrivalAirport,
			f.DepartureTime.Format(timestampLayout), f.ArrivalTime.Format(timestampLayout),
			f.AvailableSeats, f.TotalSeats, f.Price, f.Status)
	}
	w.Flush()
}
