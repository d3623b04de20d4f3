package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"etatcivil/internal/repositories"
)

var ErrTelegramDisabled = errors.New("notifications Telegram désactivées")

// TelegramService links staff accounts to Telegram chats and pushes
// transfer notifications to the agents of a centre. With no bot token the
// service stays disabled and every notification is a silent no-op.
type TelegramService struct {
	bot   *tgbotapi.BotAPI
	Links repositories.TelegramLinkRepository
	Users repositories.UtilisateurRepository
}

func NewTelegramService(token string, links repositories.TelegramLinkRepository, users repositories.UtilisateurRepository) (*TelegramService, error) {
	s := &TelegramService{Links: links, Users: users}
	if token == "" {
		log.Printf("[telegram] no token configured, notifications disabled")
		return s, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	s.bot = bot
	log.Printf("[telegram] bot authorized as @%s", bot.Self.UserName)
	return s, nil
}

func (s *TelegramService) Enabled() bool { return s.bot != nil }

// RequestLink issues a one-shot code the agent sends to the bot as
// "/start <code>" to attach their chat.
func (s *TelegramService) RequestLink(ctx context.Context, utilisateurID int) (string, error) {
	if !s.Enabled() {
		return "", ErrTelegramDisabled
	}
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := hex.EncodeToString(buf)
	if _, err := s.Links.Issue(ctx, utilisateurID, code); err != nil {
		return "", err
	}
	return code, nil
}

// Run consumes bot updates until the context is cancelled. Call in a
// goroutine.
func (s *TelegramService) Run(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := s.bot.GetUpdatesChan(cfg)
	for {
		select {
		case <-ctx.Done():
			s.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			s.handleUpdate(ctx, update)
		}
	}
}

func (s *TelegramService) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}
	fields := strings.Fields(msg.Text)
	if len(fields) != 2 || (fields[0] != "/start" && fields[0] != "/link") {
		s.reply(msg.Chat.ID, "Envoyez /start <code> pour lier votre compte.")
		return
	}

	link, err := s.Links.Consume(ctx, fields[1])
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.reply(msg.Chat.ID, "Code invalide ou expiré.")
			return
		}
		log.Printf("[telegram][link] %v", err)
		return
	}
	chatID := msg.Chat.ID
	if err := s.Users.UpdateTelegramChat(link.UtilisateurID, &chatID); err != nil {
		log.Printf("[telegram][link] enregistrement chat: %v", err)
		return
	}
	log.Printf("[telegram][link] user=%d chat=%d", link.UtilisateurID, chatID)
	s.reply(chatID, "Compte lié. Vous recevrez désormais les notifications de votre centre.")
}

// NotifyCentreAgents sends the message to every agent of the centre with a
// linked chat. Per-agent failures are logged, not fatal.
func (s *TelegramService) NotifyCentreAgents(centreID int, message string) error {
	if !s.Enabled() {
		return nil
	}
	agents, err := s.Users.ListByCentre(centreID)
	if err != nil {
		return err
	}
	for _, agent := range agents {
		if agent.TelegramChatID == nil {
			continue
		}
		if _, err := s.bot.Send(tgbotapi.NewMessage(*agent.TelegramChatID, message)); err != nil {
			log.Printf("[telegram][notify] user=%d: %v", agent.ID, err)
		}
	}
	return nil
}

func (s *TelegramService) reply(chatID int64, text string) {
	if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("[telegram][reply] %v", err)
	}
}
