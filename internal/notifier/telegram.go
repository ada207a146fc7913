package notifier

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/julianstephens/smallwins/internal/constants"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender delivers reminders as bot messages to a single chat.
// The bot client is created on first use since NewBotAPI calls the
// Telegram API to authorize.
type TelegramSender struct {
	token  string
	chatID int64

	mu  sync.Mutex
	api telegramAPI
	dial func(token string) (telegramAPI, error)
}

func NewTelegramSender(token string, chatID int64) *TelegramSender {
	return &TelegramSender{
		token:  token,
		chatID: chatID,
		dial: func(token string) (telegramAPI, error) {
			api, err := tgbotapi.NewBotAPI(token)
			if err != nil {
				return nil, err
			}
			return api, nil
		},
	}
}

func (t *TelegramSender) Name() string { return constants.ChannelTelegram }

// Available reports whether a token and chat are configured.
func (t *TelegramSender) Available(ctx context.Context) bool {
	return t.token != "" && t.chatID != 0
}

func (t *TelegramSender) Send(ctx context.Context, title, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	api, err := t.client()
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, fmt.Sprintf("%s\n%s", title, body))
	if _, err := api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

func (t *TelegramSender) client() (telegramAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.api != nil {
		return t.api, nil
	}
	if !t.Available(context.Background()) {
		return nil, fmt.Errorf("telegram token and chat id are required")
	}
	api, err := t.dial(t.token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	t.api = api
	return api, nil
}
