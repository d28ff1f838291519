package domain

import (
	"context"

	"noblejade/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type SheetsWriter interface {
	ReplaceBookingsSheet(ctx context.Context, bookings []models.Booking) error
	AppendBooking(ctx context.Context, booking models.Booking) error
	UpsertBooking(ctx context.Context, booking models.Booking) error
	UpdateBookingStatus(ctx context.Context, bookingID string, status string) error
}

type SyncWorker interface {
	EnqueueTask(ctx context.Context, taskType string, bookingID string, booking *models.Booking, status string) error
}
