package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender отправляет готовое сообщение; реализуется tgbotapi.BotAPI
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot представляет Telegram бота для уведомлений администратора
type Bot struct {
	api    Sender
	chatID int64
}

// NewBot создает новый экземпляр бота
func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	api.Debug = false

	return NewBotWithSender(api, chatID), nil
}

// NewBotWithSender создает бота поверх произвольного отправителя
func NewBotWithSender(api Sender, chatID int64) *Bot {
	return &Bot{api: api, chatID: chatID}
}

// SendMessage отправляет HTML-сообщение в чат администратора
func (b *Bot) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	_, err := b.api.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// EnquiryNotice содержит поля заявки для уведомления
type EnquiryNotice struct {
	Name      string
	Email     string
	Phone     string
	College   string
	Program   string
	Message   string
	CreatedAt time.Time
}

// SendEnquiryNotification уведомляет администратора о новой заявке
func (b *Bot) SendEnquiryNotification(n EnquiryNotice) error {
	return b.SendMessage(FormatEnquiry(n))
}

// FormatEnquiry формирует текст уведомления о заявке
func FormatEnquiry(n EnquiryNotice) string {
	var sb strings.Builder

	sb.WriteString("🎓 <b>New enquiry received!</b>\n\n")
	fmt.Fprintf(&sb, "👤 <b>Name:</b> %s\n", html.EscapeString(n.Name))
	fmt.Fprintf(&sb, "📧 <b>Email:</b> %s\n", html.EscapeString(n.Email))
	fmt.Fprintf(&sb, "📱 <b>Phone:</b> %s\n", html.EscapeString(n.Phone))
	if n.College != "" {
		fmt.Fprintf(&sb, "🏫 <b>College:</b> %s\n", html.EscapeString(n.College))
	}
	if n.Program != "" {
		fmt.Fprintf(&sb, "📚 <b>Program:</b> %s\n", html.EscapeString(n.Program))
	}
	if n.Message != "" {
		fmt.Fprintf(&sb, "\n💬 <b>Message:</b>\n%s\n", html.EscapeString(n.Message))
	}
	fmt.Fprintf(&sb, "\n🕐 <b>Submitted:</b> %s", n.CreatedAt.Format("02.01.2006 15:04"))

	return sb.String()
}
