package handlers

import (
	"github.com/wisdomlc/quiz_bot/internal/config"
	"github.com/wisdomlc/quiz_bot/internal/quiz"
	"github.com/wisdomlc/quiz_bot/internal/repositories"
	"gorm.io/gorm"
)

// Bot interface to avoid circular dependency
type BotInterface interface {
	SendMessage(chatID int64, text string, keyboard interface{}) int
	EditMessage(chatID int64, messageID int, text string, keyboard interface{})
	DeleteMessage(chatID int64, messageID int)
	AnswerCallbackQuery(queryID string, text string, showAlert bool)
}

type UserSession struct {
	State string
	Data  map[string]interface{}
}

const (
	StateJoinName          = "join_name"
	StateQuizAnswer        = "quiz_answer"
	StateRoomQuestionCount = "room_question_count"
	StateRoomTimeLimit     = "room_time_limit"
	StateEditName          = "edit_name"
	StateBroadcast         = "broadcast"
)

type HandlerManager struct {
	Config     *config.Config
	DB         *gorm.DB
	UserRepo   *repositories.UserRepository
	BattleRepo *repositories.BattleRepository
	ResultRepo *repositories.ResultRepository
	Quiz       *quiz.Coordinator
}

func NewHandlerManager(
	cfg *config.Config,
	db *gorm.DB,
	userRepo *repositories.UserRepository,
	battleRepo *repositories.BattleRepository,
	resultRepo *repositories.ResultRepository,
	coordinator *quiz.Coordinator,
) *HandlerManager {
	return &HandlerManager{
		Config:     cfg,
		DB:         db,
		UserRepo:   userRepo,
		BattleRepo: battleRepo,
		ResultRepo: resultRepo,
		Quiz:       coordinator,
	}
}
