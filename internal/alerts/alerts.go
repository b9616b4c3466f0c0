// Package alerts pushes high priority bookings to the operations team
// over Telegram.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"digierge/internal/events"
	"digierge/internal/models"
)

// Notifier delivers one alert message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// TelegramNotifier sends alerts to a fixed ops chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier authenticates against the Bot API.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Send(_ context.Context, text string) error {
	_, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text))
	return err
}

// Alerter watches booking events and notifies on the ones worth waking
// someone up for. Sends are rate limited and never block the publisher.
type Alerter struct {
	notifier Notifier
	limiter  *rate.Limiter
	logger   *zerolog.Logger
}

// NewAlerter creates an alerter. With limiter nil, at most one alert per
// ten seconds goes out, with a burst of three.
func NewAlerter(notifier Notifier, limiter *rate.Limiter, logger *zerolog.Logger) *Alerter {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(10*time.Second), 3)
	}
	return &Alerter{notifier: notifier, limiter: limiter, logger: logger}
}

// Register subscribes the alerter on the bus.
func (a *Alerter) Register(bus *events.Bus) {
	bus.Subscribe(events.TopicBookingCreated, a.handleCreated)
}

func (a *Alerter) handleCreated(e events.Event) error {
	var ev events.BookingCreatedEvent
	if err := json.Unmarshal(e.Payload, &ev); err != nil {
		return fmt.Errorf("decode %s: %w", e.Type, err)
	}
	b := &ev.Booking

	if b.Priority != models.PriorityHigh {
		return nil
	}
	if !a.limiter.Allow() {
		a.logger.Warn().Str("booking_id", b.ID).Msg("alert suppressed by rate limit")
		return nil
	}

	text := fmt.Sprintf("High priority %s booking %s: %s, Room %s (%s)",
		b.ServiceType, b.ID, b.GuestName, b.RoomNumber, b.TenantID)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.notifier.Send(ctx, text); err != nil {
			a.logger.Error().Err(err).Str("booking_id", b.ID).Msg("failed to send alert")
		}
	}()
	return nil
}
