package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/wisdomlc/quiz_bot/internal/models"
	"github.com/wisdomlc/quiz_bot/internal/quiz"
	"github.com/wisdomlc/quiz_bot/internal/security"
	apperrors "github.com/wisdomlc/quiz_bot/pkg/errors"
	"github.com/wisdomlc/quiz_bot/pkg/logger"
)

// HandleInviteStart processes /start with an invite payload and asks
// the participant for their display name.
func (h *HandlerManager) HandleInviteStart(message *tgbotapi.Message, payload string, user *models.User, session *UserSession, bot BotInterface) {
	chatID := message.Chat.ID

	invite, err := quiz.ParseInvite(payload)
	if err != nil {
		logger.Warn("Malformed invite payload", "payload", payload, "chat_id", chatID)
		bot.SendMessage(chatID, T(user.LangID, "room_not_found"), nil)
		return
	}

	session.State = StateJoinName
	session.Data["invite_room"] = invite.RoomID
	bot.SendMessage(chatID, T(user.LangID, "ask_join_name"), nil)
}

// HandleJoinName registers the participant in the room under the name
// they sent.
func (h *HandlerManager) HandleJoinName(message *tgbotapi.Message, user *models.User, session *UserSession, bot BotInterface) {
	chatID := message.Chat.ID

	name := security.SanitizeDisplayName(message.Text)
	if name == "" {
		bot.SendMessage(chatID, T(user.LangID, "ask_join_name"), nil)
		return
	}

	roomID, ok := session.Data["invite_room"].(string)
	if !ok {
		session.State = ""
		bot.SendMessage(chatID, T(user.LangID, "room_not_found"), nil)
		return
	}

	if _, err := h.Quiz.Join(roomID, chatID, name); err != nil {
		session.State = ""
		bot.SendMessage(chatID, T(user.LangID, joinErrorKey(err)), nil)
		return
	}

	// The coordinator already acknowledged the join; just arm answer
	// routing for when the quiz starts.
	session.State = StateQuizAnswer
	session.Data["room_id"] = roomID
}

func joinErrorKey(err error) string {
	switch apperrors.Code(err) {
	case apperrors.ErrCodeRoomExpired:
		return "room_expired"
	case apperrors.ErrCodeAlreadyStarted:
		return "room_started"
	default:
		return "room_not_found"
	}
}

// HandleRoomStart launches the quiz for everyone who joined.
func (h *HandlerManager) HandleRoomStart(query *tgbotapi.CallbackQuery, cb Callback, user *models.User, bot BotInterface) {
	chatID := query.From.ID

	count, err := h.Quiz.Start(cb.RoomID, chatID)
	if err != nil {
		bot.AnswerCallbackQuery(query.ID, T(user.LangID, startErrorKey(err)), true)
		return
	}

	bot.AnswerCallbackQuery(query.ID, "", false)
	bot.SendMessage(chatID, fmt.Sprintf(T(user.LangID, "quiz_started_owner"), count), nil)
}

func startErrorKey(err error) string {
	switch apperrors.Code(err) {
	case apperrors.ErrCodeUnauthorized:
		return "not_owner"
	case apperrors.ErrCodeNoParticipants:
		return "no_participants"
	case apperrors.ErrCodeAlreadyStarted:
		return "room_started"
	case apperrors.ErrCodeNotFound:
		return "no_questions"
	case apperrors.ErrCodeRoomNotFound:
		return "room_not_found"
	default:
		return "error_generic"
	}
}

// HandleRoomEnd closes the room on the owner's request.
func (h *HandlerManager) HandleRoomEnd(query *tgbotapi.CallbackQuery, cb Callback, user *models.User, bot BotInterface) {
	chatID := query.From.ID

	if err := h.Quiz.EndRoom(cb.RoomID, chatID); err != nil {
		key := "room_not_found"
		if apperrors.Code(err) == apperrors.ErrCodeUnauthorized {
			key = "not_owner"
		}
		bot.AnswerCallbackQuery(query.ID, T(user.LangID, key), true)
		return
	}

	bot.AnswerCallbackQuery(query.ID, "", false)
	bot.SendMessage(chatID, T(user.LangID, "room_ended"), nil)
}

// HandleAnswer routes a participant's text to their live session. Texts
// sent before the quiz starts or after it ends are dropped silently.
func (h *HandlerManager) HandleAnswer(message *tgbotapi.Message, user *models.User, session *UserSession, bot BotInterface) {
	roomID, ok := session.Data["room_id"].(string)
	if !ok {
		session.State = ""
		return
	}

	h.Quiz.SubmitAnswer(roomID, message.Chat.ID, message.Text)
}

// HandleRating renders the leaderboard. Rooms evicted from memory fall
// back to the archived scores.
func (h *HandlerManager) HandleRating(query *tgbotapi.CallbackQuery, cb Callback, user *models.User, bot BotInterface) {
	chatID := query.From.ID

	recs, err := h.Quiz.Ranking(cb.RoomID)
	if err != nil {
		switch apperrors.Code(err) {
		case apperrors.ErrCodeNoResults:
			bot.AnswerCallbackQuery(query.ID, T(user.LangID, "no_results"), true)
			return
		case apperrors.ErrCodeRoomNotFound:
			recs, err = h.archivedRanking(cb.RoomID)
			if err != nil {
				bot.AnswerCallbackQuery(query.ID, T(user.LangID, "no_results"), true)
				return
			}
		default:
			logger.Error("Failed to build ranking", "error", err, "room_id", cb.RoomID)
			bot.AnswerCallbackQuery(query.ID, T(user.LangID, "error_generic"), true)
			return
		}
	}

	bot.AnswerCallbackQuery(query.ID, "", false)
	bot.SendMessage(chatID, quiz.FormatRanking(recs), nil)
}

func (h *HandlerManager) archivedRanking(roomID string) ([]quiz.ResultRecord, error) {
	rows, err := h.ResultRepo.GetResultsByRoomCode(roomID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeNoResults, "no archived results")
	}

	recs := make([]quiz.ResultRecord, len(rows))
	for i, row := range rows {
		recs[i] = quiz.ResultRecord{
			RoomID:    row.RoomCode,
			UserID:    row.ChatID,
			Name:      row.UserName,
			Correct:   row.TrueAnswers,
			Incorrect: row.FalseAnswers,
		}
	}
	quiz.Rank(recs)
	return recs, nil
}
