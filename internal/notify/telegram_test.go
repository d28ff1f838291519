package notify

import (
	"io"
	"testing"

	"noblejade/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func TestTelegramNotifier(t *testing.T) {
	logger := zerolog.New(io.Discard)
	sender := &fakeSender{}
	notifier := NewTelegramNotifier(sender, []int64{100, 200}, &logger)

	bus := events.NewEventBus()
	notifier.Register(bus)

	payload := events.BookingEventPayload{
		BookingID:     "bk123",
		CustomerName:  "Dana Riel",
		ServiceType:   "deep-cleaning",
		Status:        "pending_review",
		ScheduledDate: "2026-09-14",
		TimeSlot:      "morning",
		Total:         162,
		Note:          "gate code 4411",
	}
	require.NoError(t, bus.PublishJSON(events.EventBookingSubmitted, payload))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, int64(100), sender.sent[0].ChatID)
	assert.Equal(t, int64(200), sender.sent[1].ChatID)
	assert.Contains(t, sender.sent[0].Text, "New booking request")
	assert.Contains(t, sender.sent[0].Text, "Dana Riel")
	assert.Contains(t, sender.sent[0].Text, "$162.00")
	assert.Contains(t, sender.sent[0].Text, "gate code 4411")
}

func TestTelegramNotifierSendFailureIsSwallowed(t *testing.T) {
	logger := zerolog.New(io.Discard)
	sender := &fakeSender{err: assert.AnError}
	notifier := NewTelegramNotifier(sender, []int64{100}, &logger)

	bus := events.NewEventBus()
	notifier.Register(bus)

	// Publishing must not error even when delivery fails.
	err := bus.PublishJSON(events.EventBookingCancelled, events.BookingEventPayload{BookingID: "bk1"})
	assert.NoError(t, err)
}

func TestTelegramNotifierBadPayload(t *testing.T) {
	logger := zerolog.New(io.Discard)
	sender := &fakeSender{}
	notifier := NewTelegramNotifier(sender, []int64{100}, &logger)

	err := notifier.handle(&events.Event{Type: events.EventBookingPaid, Payload: []byte("{not json")})
	assert.NoError(t, err)
	assert.Empty(t, sender.sent)
}
