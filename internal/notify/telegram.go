package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"matchbot-backend/internal/domain"
	"matchbot-backend/internal/service"
)

// TelegramNotifier delivers matchmaking notices over the Telegram Bot API.
// State has already committed by the time any of these run, so delivery
// failures are reported but never roll anything back.
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return &TelegramNotifier{bot: bot}, nil
}

var _ service.Notifier = (*TelegramNotifier)(nil)

func (n *TelegramNotifier) send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := n.bot.Send(msg)
	return err
}

func (n *TelegramNotifier) JoinRequestReceived(ctx context.Context, creatorID int64, req *domain.JoinRequest) error {
	return n.send(creatorID, requestReceivedText(req))
}

func (n *TelegramNotifier) RequestAccepted(ctx context.Context, requesterID int64, eventTitle string) error {
	return n.send(requesterID, fmt.Sprintf("✅ Your request to join a group in <b>%s</b> was accepted!", eventTitle))
}

func (n *TelegramNotifier) RequestRejected(ctx context.Context, requesterID int64, eventTitle string) error {
	return n.send(requesterID, fmt.Sprintf("❌ Your request to join a group in <b>%s</b> was declined.", eventTitle))
}

func (n *TelegramNotifier) SlotDeleted(ctx context.Context, requesterID int64, eventTitle string) error {
	return n.send(requesterID, fmt.Sprintf("🗑 The group you asked to join in <b>%s</b> was disbanded.", eventTitle))
}

func (n *TelegramNotifier) GroupFormed(ctx context.Context, memberID int64, group *domain.Group, members []domain.SlotMember) error {
	return n.send(memberID, groupFormedText(group, members))
}

func requestReceivedText(req *domain.JoinRequest) string {
	name := "Someone"
	if req.RequesterName != nil {
		name = *req.RequesterName
	}
	rating := ""
	if req.RequesterScore != nil {
		rating = fmt.Sprintf(" (rating %.0f)", *req.RequesterScore)
	}
	title := ""
	if req.EventTitle != nil {
		title = *req.EventTitle
	}
	return fmt.Sprintf(
		"📨 <b>%s</b>%s wants to join your group in <b>%s</b>.\nAccept with /accept_%d or decline with /reject_%d.",
		name, rating, title, req.ID, req.ID)
}

// groupFormedText lists every member with their contact handle so the
// finished group can self-organize.
func groupFormedText(group *domain.Group, members []domain.SlotMember) string {
	var b strings.Builder
	title := ""
	if group.EventTitle != nil {
		title = *group.EventTitle
	}
	fmt.Fprintf(&b, "🎉 <b>Your group for %s is complete!</b>\n", title)
	fmt.Fprintf(&b, "⭐ Average rating: %.0f\n\nMembers:\n", group.RatingAvg)
	for _, m := range members {
		name := fmt.Sprintf("user %d", m.UserID)
		if m.Name != nil {
			name = *m.Name
		}
		contact := "no contact handle"
		if m.ContactHandle != nil {
			contact = "@" + *m.ContactHandle
		}
		if m.Rating != nil {
			fmt.Fprintf(&b, "• %s — %s, rating %.0f\n", name, contact, *m.Rating)
		} else {
			fmt.Fprintf(&b, "• %s — %s\n", name, contact)
		}
	}
	return b.String()
}
