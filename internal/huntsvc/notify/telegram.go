package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// sender is the part of *tgbotapi.BotAPI the notifier needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier handles sending notifications to multiple chats
type TelegramNotifier struct {
	bot     sender
	chatIDs []int64
	wg      sync.WaitGroup
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(botToken string, chatIDs []int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &TelegramNotifier{
		bot:     bot,
		chatIDs: chatIDs,
	}, nil
}

// FromConfig returns nil, and logs why, when notifications are not configured.
func FromConfig(botToken string, chatIDs []int64) *TelegramNotifier {
	if botToken == "" {
		log.Warn("TELEGRAM_BOT_TOKEN not set, notifications disabled")
		return nil
	}
	if len(chatIDs) == 0 {
		log.Warn("No valid telegram chat IDs found, notifications disabled")
		return nil
	}

	notifier, err := NewTelegramNotifier(botToken, chatIDs)
	if err != nil {
		log.Errorf("Failed to initialize Telegram notifier: %v", err)
		return nil
	}

	log.Infof("Telegram notifier initialized with %d chat IDs", len(chatIDs))
	return notifier
}

// SendNotification sends a message to all configured chat IDs without blocking.
func (tn *TelegramNotifier) SendNotification(message string) {
	if tn == nil || tn.bot == nil {
		return
	}

	for _, chatID := range tn.chatIDs {
		msg := tgbotapi.NewMessage(chatID, message)
		msg.ParseMode = tgbotapi.ModeMarkdown

		tn.wg.Add(1)
		go func(cid int64) {
			defer tn.wg.Done()
			if _, err := tn.bot.Send(msg); err != nil {
				log.Errorf("Failed to send telegram message to chat %d: %v", cid, err)
			}
		}(chatID)
	}
}

// HuntCompleted reports a finished hunt.
func (tn *TelegramNotifier) HuntCompleted(h *models.Hunt, bonusCount int) {
	tn.SendNotification(completedMessage(h, bonusCount, time.Now()))
}

// Wait blocks until in-flight sends finish.
func (tn *TelegramNotifier) Wait() {
	if tn == nil {
		return
	}
	tn.wg.Wait()
}

func completedMessage(h *models.Hunt, bonusCount int, at time.Time) string {
	profit := h.TotalWon.Sub(h.StartBalance)
	return fmt.Sprintf(
		"*HUNT COMPLETED*\n\n"+
			"*Hunt:* %s\n"+
			"*Casino:* %s\n"+
			"*Bonuses:* %d\n"+
			"*Start:* %s %s\n"+
			"*Total won:* %s %s\n"+
			"*Result:* %s %s\n"+
			"*Time:* %s",
		tgbotapi.EscapeText(tgbotapi.ModeMarkdown, h.Title),
		tgbotapi.EscapeText(tgbotapi.ModeMarkdown, h.Casino),
		bonusCount,
		h.StartBalance.StringFixed(2), h.Currency,
		h.TotalWon.StringFixed(2), h.Currency,
		profit.StringFixed(2), h.Currency,
		at.Format("2006-01-02 15:04"),
	)
}
