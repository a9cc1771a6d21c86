package kafka

import (
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestNewConsumer(t *testing.T) {
	consumer := NewConsumer([]string{"localhost:9092"}, "flynow-worker", "booking-notifications")
	assert.NotNil(t, consumer)
	assert.NoError(t, consumer.Close())
}

func TestDecodeBookingEvent(t *testing.T) {
	msg := kafkaGo.Message{Value: []byte(`{
		"event_id": "8b9e6f1a-0000-0000-0000-000000000000",
		"type": "booking_created",
		"reference": "AB12CD34",
		"flight_id": 4,
		"flight_number": "FS101",
		"passenger_email": "a@x.com",
		"seat_number": "B149",
		"flight_class": "Business"
	}`)}

	event, err := decodeBookingEvent(msg)

	assert.NoError(t, err)
	assert.Equal(t, "booking_created", event.Type)
	assert.Equal(t, "AB12CD34", event.Reference)
	assert.Equal(t, int64(4), event.FlightID)
	assert.Equal(t, "Business", event.FlightClass)
}

func TestDecodeBookingEvent_BadPayload(t *testing.T) {
	msg := kafkaGo.Message{Value: []byte(`not json`)}

	_, err := decodeBookingEvent(msg)

	assert.Error(t, err)
}
