package handlers

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/wisdomlc/quiz_bot/internal/models"
	"github.com/wisdomlc/quiz_bot/internal/quiz"
	apperrors "github.com/wisdomlc/quiz_bot/pkg/errors"
	"github.com/wisdomlc/quiz_bot/pkg/logger"
	"github.com/wisdomlc/quiz_bot/pkg/utils"
)

// HandleNewQuiz opens the battle browser at the root level.
func (h *HandlerManager) HandleNewQuiz(message *tgbotapi.Message, user *models.User, session *UserSession, bot BotInterface) {
	battles, err := h.BattleRepo.GetRootBattles()
	if err != nil {
		logger.Error("Failed to list battles", "error", err, "chat_id", message.Chat.ID)
		bot.SendMessage(message.Chat.ID, T(user.LangID, "error_generic"), nil)
		return
	}
	if len(battles) == 0 {
		bot.SendMessage(message.Chat.ID, T(user.LangID, "no_questions"), nil)
		return
	}

	session.State = ""
	bot.SendMessage(message.Chat.ID, T(user.LangID, "choose_battle"), BattleKeyboard(battles, user.LangID))
}

// HandleBattleOpen descends into a battle node. Non-leaf nodes show
// their children; a leaf asks whether to play alone or open a room.
func (h *HandlerManager) HandleBattleOpen(query *tgbotapi.CallbackQuery, cb Callback, user *models.User, session *UserSession, bot BotInterface) {
	chatID := query.From.ID
	bot.AnswerCallbackQuery(query.ID, "", false)

	children, err := h.BattleRepo.GetChildBattles(cb.BattleID)
	if err != nil {
		logger.Error("Failed to list sub-battles", "error", err, "battle_id", cb.BattleID)
		bot.SendMessage(chatID, T(user.LangID, "error_generic"), nil)
		return
	}

	if len(children) > 0 {
		bot.EditMessage(chatID, query.Message.MessageID, T(user.LangID, "choose_battle"), BattleKeyboard(children, user.LangID))
		return
	}

	count, err := h.BattleRepo.CountQuestions(cb.BattleID)
	if err != nil {
		logger.Error("Failed to count questions", "error", err, "battle_id", cb.BattleID)
		bot.SendMessage(chatID, T(user.LangID, "error_generic"), nil)
		return
	}
	if count == 0 {
		bot.SendMessage(chatID, T(user.LangID, "no_questions"), nil)
		return
	}

	bot.EditMessage(chatID, query.Message.MessageID, T(user.LangID, "choose_mode"), QuizModeKeyboard(user.LangID, cb.BattleID))
}

// HandleBattleMode records the chosen play mode and starts the shared
// setup dialog. Both modes ask for a question count and a time limit;
// the mode decides what happens after the last answer arrives.
func (h *HandlerManager) HandleBattleMode(query *tgbotapi.CallbackQuery, cb Callback, user *models.User, session *UserSession, bot BotInterface) {
	chatID := query.From.ID
	bot.AnswerCallbackQuery(query.ID, "", false)

	session.State = StateRoomQuestionCount
	session.Data["battle_id"] = cb.BattleID
	session.Data["solo"] = cb.Kind == CallbackBattleSolo
	bot.SendMessage(chatID, T(user.LangID, "ask_question_count"), nil)
}

// HandleQuestionCount validates the question count and asks for the
// per-question time limit. Bad input re-prompts without losing the flow.
func (h *HandlerManager) HandleQuestionCount(message *tgbotapi.Message, user *models.User, session *UserSession, bot BotInterface) {
	chatID := message.Chat.ID

	count, err := strconv.Atoi(utils.NormalizeDigits(message.Text))
	if err != nil || count <= 0 || count > quiz.MaxQuestionCount {
		bot.SendMessage(chatID, T(user.LangID, "bad_question_count"), nil)
		return
	}

	session.Data["question_count"] = count
	session.State = StateRoomTimeLimit
	bot.SendMessage(chatID, T(user.LangID, "ask_time_limit"), nil)
}

// HandleTimeLimit validates the time limit and finishes the setup
// dialog. A solo game starts immediately; a room game sends the invite
// link with the start button.
func (h *HandlerManager) HandleTimeLimit(message *tgbotapi.Message, user *models.User, session *UserSession, bot BotInterface) {
	chatID := message.Chat.ID

	seconds, err := strconv.Atoi(utils.NormalizeDigits(message.Text))
	if err != nil || seconds <= 0 {
		bot.SendMessage(chatID, T(user.LangID, "bad_time_limit"), nil)
		return
	}

	battleID, ok := session.Data["battle_id"].(uint)
	if !ok {
		session.State = ""
		bot.SendMessage(chatID, T(user.LangID, "error_generic"), nil)
		return
	}
	questionCount, _ := session.Data["question_count"].(int)

	if solo, _ := session.Data["solo"].(bool); solo {
		h.startSoloQuiz(chatID, user, session, bot, battleID, questionCount, seconds)
		return
	}

	room, err := h.Quiz.CreateRoom(chatID, battleID, questionCount, seconds)
	if err != nil {
		logger.Error("Failed to create room", "error", err, "chat_id", chatID)
		bot.SendMessage(chatID, T(user.LangID, "error_generic"), nil)
		return
	}

	invite := quiz.Invite{
		OwnerID:        chatID,
		BattleID:       battleID,
		RoomID:         room.ID,
		QuestionCount:  questionCount,
		TimeoutSeconds: seconds,
	}
	link := fmt.Sprintf("https://t.me/%s?start=%s", h.Config.BotUsername, invite.Encode())

	session.State = ""
	session.Data = make(map[string]interface{})
	bot.SendMessage(chatID, fmt.Sprintf(T(user.LangID, "room_created"), link), RoomControlKeyboard(user.LangID, room.ID))
}

// startSoloQuiz launches a single-player game. The coordinator sends
// the first question itself; the handler only routes answers to it.
func (h *HandlerManager) startSoloQuiz(chatID int64, user *models.User, session *UserSession, bot BotInterface, battleID uint, questionCount, seconds int) {
	room, err := h.Quiz.StartSolo(chatID, soloPlayerName(user), battleID, questionCount, seconds)
	if err != nil {
		logger.Error("Failed to start solo quiz", "error", err, "chat_id", chatID, "battle_id", battleID)
		key := "error_generic"
		if apperrors.Code(err) == apperrors.ErrCodeNotFound {
			key = "no_questions"
		}
		session.State = ""
		session.Data = make(map[string]interface{})
		bot.SendMessage(chatID, T(user.LangID, key), nil)
		return
	}

	session.State = StateQuizAnswer
	session.Data = map[string]interface{}{"room_id": room.ID}
}

// soloPlayerName labels the player in their own results. Profile names
// are already sanitized on registration.
func soloPlayerName(user *models.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = fmt.Sprintf("ID %d", user.ChatID)
	}
	return name
}
