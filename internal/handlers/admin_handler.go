package handlers

import (
	"fmt"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/wisdomlc/quiz_bot/internal/models"
	"github.com/wisdomlc/quiz_bot/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const broadcastConcurrency = 10

// HandleAdminStats reports the registered user count.
func (h *HandlerManager) HandleAdminStats(message *tgbotapi.Message, user *models.User, bot BotInterface) {
	chatID := message.Chat.ID
	if !h.Config.IsAdmin(chatID) {
		return
	}

	count, err := h.UserRepo.CountUsers()
	if err != nil {
		logger.Error("Failed to count users", "error", err)
		bot.SendMessage(chatID, T(user.LangID, "error_generic"), nil)
		return
	}

	bot.SendMessage(chatID, fmt.Sprintf(T(user.LangID, "total_users"), count), nil)
}

// HandleBroadcastPrompt asks the admin for the broadcast text.
func (h *HandlerManager) HandleBroadcastPrompt(message *tgbotapi.Message, user *models.User, session *UserSession, bot BotInterface) {
	chatID := message.Chat.ID
	if !h.Config.IsAdmin(chatID) {
		return
	}

	session.State = StateBroadcast
	bot.SendMessage(chatID, T(user.LangID, "ask_broadcast"), nil)
}

// HandleBroadcast fans the message out to every registered chat with
// bounded concurrency. Individual delivery failures are counted, not
// fatal.
func (h *HandlerManager) HandleBroadcast(message *tgbotapi.Message, user *models.User, session *UserSession, bot BotInterface) {
	chatID := message.Chat.ID
	if !h.Config.IsAdmin(chatID) {
		return
	}

	session.State = ""
	text := message.Text

	chatIDs, err := h.UserRepo.GetAllChatIDs()
	if err != nil {
		logger.Error("Failed to list broadcast targets", "error", err)
		bot.SendMessage(chatID, T(user.LangID, "error_generic"), nil)
		return
	}

	var sent, failed int64
	var g errgroup.Group
	g.SetLimit(broadcastConcurrency)

	for _, target := range chatIDs {
		if target == chatID {
			continue
		}
		target := target
		g.Go(func() error {
			if bot.SendMessage(target, text, nil) == 0 {
				atomic.AddInt64(&failed, 1)
			} else {
				atomic.AddInt64(&sent, 1)
			}
			return nil
		})
	}
	g.Wait()

	logger.Info("Broadcast finished", "sent", sent, "failed", failed, "admin_id", chatID)
	bot.SendMessage(chatID, fmt.Sprintf(T(user.LangID, "broadcast_done"), sent, failed), nil)
}
