// Package notify pushes booking lifecycle updates to the admin
// Telegram channel. Delivery failures are logged and never bubble back
// into the operation that triggered the event.
package notify

import (
	"encoding/json"
	"fmt"

	"noblejade/internal/domain"
	"noblejade/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

var eventTitles = map[string]string{
	events.EventBookingSubmitted: "🆕 New booking request",
	events.EventBookingApproved:  "✅ Booking approved",
	events.EventBookingModified:  "✏️ Booking modified",
	events.EventBookingConfirmed: "👍 Customer confirmed changes",
	events.EventBookingRejected:  "↩️ Customer rejected changes",
	events.EventBookingPaid:      "💳 Booking paid",
	events.EventBookingAssigned:  "👷 Crew assigned",
	events.EventBookingStarted:   "🧹 Job started",
	events.EventBookingCompleted: "🏁 Job completed",
	events.EventBookingCancelled: "❌ Booking cancelled",
	events.EventProgressAdded:    "📸 Progress update",
}

// TelegramNotifier relays lifecycle events to a fixed set of admin
// chats.
type TelegramNotifier struct {
	sender  domain.TelegramSender
	chatIDs []int64
	logger  *zerolog.Logger
}

func NewTelegramNotifier(sender domain.TelegramSender, chatIDs []int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		sender:  sender,
		chatIDs: chatIDs,
		logger:  logger,
	}
}

// Register subscribes the notifier to every lifecycle event type.
func (n *TelegramNotifier) Register(bus *events.EventBus) {
	for eventType := range eventTitles {
		bus.Subscribe(eventType, n.handle)
	}
}

func (n *TelegramNotifier) handle(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Str("event_type", event.Type).Msg("decode event payload error")
		return nil
	}

	text := n.format(event.Type, payload)
	for _, chatID := range n.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.sender.Send(msg); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Str("event_type", event.Type).Msg("Failed to notify admin")
		}
	}
	return nil
}

func (n *TelegramNotifier) format(eventType string, p events.BookingEventPayload) string {
	title := eventTitles[eventType]
	if title == "" {
		title = eventType
	}

	text := fmt.Sprintf(`%s

👤 Customer: %s
🧽 Service: %s
📅 Date: %s %s
💰 Total: $%.2f
📌 Status: %s
🆔 Booking: %s`,
		title,
		p.CustomerName,
		p.ServiceType,
		p.ScheduledDate,
		p.TimeSlot,
		p.Total,
		p.Status,
		p.BookingID)

	if p.Note != "" {
		text += fmt.Sprintf("\n💬 Note: %s", p.Note)
	}
	return text
}
