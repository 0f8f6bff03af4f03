package handlers

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/wisdomlc/quiz_bot/internal/models"
	"github.com/wisdomlc/quiz_bot/internal/security"
	apperrors "github.com/wisdomlc/quiz_bot/pkg/errors"
	"github.com/wisdomlc/quiz_bot/pkg/logger"
)

// EnsureUser loads the sender's record, registering them on first
// contact with the profile data Telegram provides.
func (h *HandlerManager) EnsureUser(message *tgbotapi.Message) (*models.User, error) {
	chatID := message.Chat.ID

	user, err := h.UserRepo.GetUserByChatID(chatID)
	if err == nil {
		return user, nil
	}
	if apperrors.Code(err) != apperrors.ErrCodeNotFound {
		return nil, err
	}

	user = &models.User{
		ChatID:    chatID,
		FirstName: security.SanitizeDisplayName(message.From.FirstName),
		LastName:  security.SanitizeDisplayName(message.From.LastName),
	}
	if err := h.UserRepo.CreateUser(user); err != nil {
		return nil, err
	}

	logger.Info("New user registered", "chat_id", chatID)
	return user, nil
}

// HandleStart handles /start, with or without an invite payload.
func (h *HandlerManager) HandleStart(message *tgbotapi.Message, session *UserSession, bot BotInterface) {
	session.State = ""
	session.Data = make(map[string]interface{})

	user, err := h.EnsureUser(message)
	if err != nil {
		logger.Error("Failed to ensure user", "error", err, "chat_id", message.Chat.ID)
		bot.SendMessage(message.Chat.ID, T(0, "error_generic"), nil)
		return
	}

	if payload := message.CommandArguments(); payload != "" {
		h.HandleInviteStart(message, payload, user, session, bot)
		return
	}

	if user.LangID == 0 {
		bot.SendMessage(message.Chat.ID, T(0, "choose_lang"), LangKeyboard())
		return
	}

	bot.SendMessage(message.Chat.ID, T(user.LangID, "welcome"), nil)
	h.SendMainMenu(message.Chat.ID, user, bot)
}

func (h *HandlerManager) SendMainMenu(chatID int64, user *models.User, bot BotInterface) {
	isAdmin := h.Config.IsAdmin(chatID)
	bot.SendMessage(chatID, T(user.LangID, "main_menu"), MainMenuKeyboard(user.LangID, isAdmin))
}

// HandleLangCallback stores the language picked on first contact.
func (h *HandlerManager) HandleLangCallback(query *tgbotapi.CallbackQuery, cb Callback, bot BotInterface) {
	chatID := query.From.ID

	if cb.LangID != models.LangUzbek && cb.LangID != models.LangRussian {
		bot.AnswerCallbackQuery(query.ID, "", false)
		return
	}

	if err := h.UserRepo.UpdateLanguage(chatID, cb.LangID); err != nil {
		logger.Error("Failed to update language", "error", err, "chat_id", chatID)
		bot.AnswerCallbackQuery(query.ID, T(0, "error_generic"), true)
		return
	}

	bot.AnswerCallbackQuery(query.ID, "", false)
	bot.DeleteMessage(chatID, query.Message.MessageID)

	user, err := h.UserRepo.GetUserByChatID(chatID)
	if err != nil {
		logger.Error("Failed to reload user", "error", err, "chat_id", chatID)
		return
	}
	bot.SendMessage(chatID, T(user.LangID, "welcome"), nil)
	h.SendMainMenu(chatID, user, bot)
}

// HandleSettings starts the name-change flow.
func (h *HandlerManager) HandleSettings(message *tgbotapi.Message, user *models.User, session *UserSession, bot BotInterface) {
	session.State = StateEditName
	bot.SendMessage(message.Chat.ID, T(user.LangID, "ask_new_name"), nil)
}

// HandleEditName saves the new display name.
func (h *HandlerManager) HandleEditName(message *tgbotapi.Message, user *models.User, session *UserSession, bot BotInterface) {
	chatID := message.Chat.ID

	name := security.SanitizeDisplayName(message.Text)
	if name == "" {
		bot.SendMessage(chatID, T(user.LangID, "ask_new_name"), nil)
		return
	}

	firstName, lastName := splitName(name)
	if err := h.UserRepo.UpdateName(chatID, firstName, lastName); err != nil {
		logger.Error("Failed to update name", "error", err, "chat_id", chatID)
		bot.SendMessage(chatID, T(user.LangID, "error_generic"), nil)
		return
	}

	session.State = ""
	bot.SendMessage(chatID, fmt.Sprintf(T(user.LangID, "name_saved"), name), nil)
	h.SendMainMenu(chatID, user, bot)
}

func splitName(full string) (string, string) {
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
