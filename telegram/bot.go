package telegram

import (
	"errors"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/wisdomlc/quiz_bot/internal/config"
	"github.com/wisdomlc/quiz_bot/internal/handlers"
	"github.com/wisdomlc/quiz_bot/internal/middleware"
	"github.com/wisdomlc/quiz_bot/internal/models"
	"github.com/wisdomlc/quiz_bot/internal/quiz"
	"github.com/wisdomlc/quiz_bot/internal/repositories"
	apperrors "github.com/wisdomlc/quiz_bot/pkg/errors"
	"github.com/wisdomlc/quiz_bot/pkg/logger"
	"gorm.io/gorm"
)

const numWorkers = 10

type Bot struct {
	api      *tgbotapi.BotAPI
	config   *config.Config
	db       *gorm.DB
	handlers *handlers.HandlerManager
	store    quiz.Store
	limiter  *middleware.RateLimiter

	// User sessions for conversation state
	sessions map[int64]*handlers.UserSession
	mu       sync.RWMutex

	// Worker pool for parallel processing
	workerChans []chan tgbotapi.Update

	// Indirection over the Telegram API so the retry policy is testable
	send  func(c tgbotapi.Chattable) (tgbotapi.Message, error)
	sleep func(d time.Duration)
}

func InitBot(cfg *config.Config, db *gorm.DB) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	userRepo := repositories.NewUserRepository(db)
	battleRepo := repositories.NewBattleRepository(db)
	resultRepo := repositories.NewResultRepository(db)

	bot := &Bot{
		api:         api,
		config:      cfg,
		db:          db,
		limiter:     middleware.NewRateLimiter(cfg.RateLimitPerUser, time.Minute),
		sessions:    make(map[int64]*handlers.UserSession),
		workerChans: make([]chan tgbotapi.Update, numWorkers),
		send:        api.Send,
		sleep:       time.Sleep,
	}

	// The quiz engine sends through the bot itself; the store owns room
	// expiry.
	store := quiz.NewMemoryStore(cfg.GetRoomTTL())
	coordinator := quiz.NewCoordinator(
		store,
		quiz.NewScheduler(),
		repositories.NewQuizContentAdapter(battleRepo),
		repositories.NewQuizArchiveAdapter(resultRepo),
		bot,
		cfg.GetJoinWindow(),
	)

	bot.store = store
	bot.handlers = handlers.NewHandlerManager(cfg, db, userRepo, battleRepo, resultRepo, coordinator)

	for i := 0; i < numWorkers; i++ {
		bot.workerChans[i] = make(chan tgbotapi.Update, 100)
		go bot.startWorker(bot.workerChans[i])
	}

	go bot.startUpdateListener()

	return bot, nil
}

func (b *Bot) startUpdateListener() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	logger.Info("Starting update listener...")
	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		var userID int64
		if update.Message != nil {
			userID = update.Message.From.ID
		} else if update.CallbackQuery != nil {
			userID = update.CallbackQuery.From.ID
		}
		if userID == 0 {
			continue
		}

		// Hashed dispatch to workers to ensure per-user ordered processing
		workerIdx := userID % int64(len(b.workerChans))
		if workerIdx < 0 {
			workerIdx = -workerIdx
		}
		b.workerChans[workerIdx] <- update
	}
}

func (b *Bot) startWorker(ch chan tgbotapi.Update) {
	for update := range ch {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in update handler", "error", r)
		}
	}()

	if update.Message != nil {
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	userID := message.From.ID

	if !b.limiter.CheckUserLimit(userID) {
		logger.Warn("Rate limited", "user_id", userID)
		return
	}

	session := b.getSession(userID)

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			b.handlers.HandleStart(message, session, b)
		default:
			b.SendMessage(userID, handlers.T(0, "unknown_command"), nil)
		}
		return
	}

	user, err := b.handlers.EnsureUser(message)
	if err != nil {
		logger.Error("Failed to load user", "error", err, "user_id", userID)
		return
	}

	switch session.State {
	case handlers.StateJoinName:
		b.handlers.HandleJoinName(message, user, session, b)
	case handlers.StateQuizAnswer:
		b.handlers.HandleAnswer(message, user, session, b)
	case handlers.StateRoomQuestionCount:
		b.handlers.HandleQuestionCount(message, user, session, b)
	case handlers.StateRoomTimeLimit:
		b.handlers.HandleTimeLimit(message, user, session, b)
	case handlers.StateEditName:
		b.handlers.HandleEditName(message, user, session, b)
	case handlers.StateBroadcast:
		b.handlers.HandleBroadcast(message, user, session, b)
	default:
		b.handleMenuButton(message, user, session)
	}
}

func (b *Bot) handleMenuButton(message *tgbotapi.Message, user *models.User, session *handlers.UserSession) {
	switch menuKey(message.Text) {
	case "btn_new_quiz":
		b.handlers.HandleNewQuiz(message, user, session, b)
	case "btn_settings":
		b.handlers.HandleSettings(message, user, session, b)
	case "btn_admin_stats":
		b.handlers.HandleAdminStats(message, user, b)
	case "btn_admin_cast":
		b.handlers.HandleBroadcastPrompt(message, user, session, b)
	default:
		b.SendMessage(message.Chat.ID, handlers.T(user.LangID, "unknown_command"), nil)
	}
}

// menuKey matches reply-keyboard button text in any supported language.
func menuKey(text string) string {
	keys := []string{"btn_new_quiz", "btn_settings", "btn_admin_stats", "btn_admin_cast"}
	for _, key := range keys {
		if text == handlers.T(models.LangUzbek, key) || text == handlers.T(models.LangRussian, key) {
			return key
		}
	}
	return ""
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	userID := query.From.ID

	if !b.limiter.CheckUserLimit(userID) {
		b.AnswerCallbackQuery(query.ID, "", false)
		return
	}

	cb, err := handlers.DecodeCallback(query.Data)
	if err != nil {
		logger.Warn("Undecodable callback", "data", query.Data, "user_id", userID)
		b.AnswerCallbackQuery(query.ID, "", false)
		return
	}

	user, err := b.handlers.UserRepo.GetUserByChatID(userID)
	if err != nil {
		logger.Warn("Callback from unregistered user", "user_id", userID)
		b.AnswerCallbackQuery(query.ID, "", false)
		return
	}

	session := b.getSession(userID)

	switch cb.Kind {
	case handlers.CallbackLang:
		b.handlers.HandleLangCallback(query, cb, b)
	case handlers.CallbackBattleOpen:
		b.handlers.HandleBattleOpen(query, cb, user, session, b)
	case handlers.CallbackBattleSolo, handlers.CallbackBattleRoom:
		b.handlers.HandleBattleMode(query, cb, user, session, b)
	case handlers.CallbackRoomStart:
		b.handlers.HandleRoomStart(query, cb, user, b)
	case handlers.CallbackRoomEnd:
		b.handlers.HandleRoomEnd(query, cb, user, b)
	case handlers.CallbackRating:
		b.handlers.HandleRating(query, cb, user, b)
	}
}

func (b *Bot) getSession(userID int64) *handlers.UserSession {
	b.mu.Lock()
	defer b.mu.Unlock()

	if session, exists := b.sessions[userID]; exists {
		return session
	}

	session := &handlers.UserSession{
		Data: make(map[string]interface{}),
	}
	b.sessions[userID] = session
	return session
}

func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.InlineKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.ReplyKeyboardRemove:
		msg.ReplyMarkup = kb
	}

	const maxAttempts = 5
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		sentMsg, err := b.send(msg)
		if err == nil {
			return sentMsg.MessageID
		}

		wait, retry := retryDelay(attempt, err)
		if !retry {
			logger.Error("Failed to send message", "error", err, "chat_id", chatID, "code", apperrors.ErrCodeGatewaySend)
			return 0
		}
		if attempt == maxAttempts {
			break
		}

		logger.Warn("Retrying message send", "chat_id", chatID, "attempt", attempt, "wait", wait)
		b.sleep(wait)
	}

	logger.Error("Dropped message after retries", "chat_id", chatID, "code", apperrors.ErrCodeGatewaySend)
	return 0
}

// retryDelay doubles the wait on each attempt (1s, 2s, 4s, ...) unless
// Telegram sent an explicit retry_after. Only client errors that cannot
// succeed on a resend (blocked bot, unknown chat, bad markup) are
// terminal; anything else, including gateway 5xx and network failures,
// is assumed transient.
func retryDelay(attempt int, err error) (time.Duration, bool) {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		if tgErr.RetryAfter > 0 {
			return time.Duration(tgErr.RetryAfter) * time.Second, true
		}
		if tgErr.Code >= 400 && tgErr.Code < 500 && tgErr.Code != 429 {
			return 0, false
		}
	}
	return time.Duration(1<<(attempt-1)) * time.Second, true
}

func (b *Bot) SendMessage(chatID int64, text string, keyboard interface{}) int {
	return b.sendMessage(chatID, text, keyboard)
}

func (b *Bot) DeleteMessage(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	deleteMsg := tgbotapi.NewDeleteMessage(chatID, messageID)
	if _, err := b.api.Request(deleteMsg); err != nil {
		logger.Error("Failed to delete message", "chat_id", chatID, "msg_id", messageID, "error", err)
	}
}

func (b *Bot) EditMessage(chatID int64, messageID int, text string, keyboard interface{}) {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if keyboard != nil {
		if kb, ok := keyboard.(tgbotapi.InlineKeyboardMarkup); ok {
			msg.ReplyMarkup = &kb
		}
	}

	if _, err := b.api.Send(msg); err != nil {
		logger.Error("Failed to edit message", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}

func (b *Bot) AnswerCallbackQuery(queryID string, text string, showAlert bool) {
	callback := tgbotapi.NewCallback(queryID, text)
	callback.ShowAlert = showAlert
	if _, err := b.api.Request(callback); err != nil {
		logger.Error("Failed to answer callback query", "error", err, "query_id", queryID)
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	b.store.Close()
	logger.Info("Bot stopped receiving updates")
}
