package repositories

import (
	"github.com/wisdomlc/quiz_bot/internal/models"
	"github.com/wisdomlc/quiz_bot/internal/quiz"
)

// QuizContentAdapter exposes battle question pools to the quiz engine.
type QuizContentAdapter struct {
	battles *BattleRepository
}

func NewQuizContentAdapter(battles *BattleRepository) *QuizContentAdapter {
	return &QuizContentAdapter{battles: battles}
}

func (a *QuizContentAdapter) QuestionsByBattle(battleID uint) ([]quiz.Question, error) {
	rows, err := a.battles.GetQuestionsByBattle(battleID)
	if err != nil {
		return nil, err
	}

	questions := make([]quiz.Question, len(rows))
	for i, row := range rows {
		questions[i] = quiz.Question{
			Prompt: row.Prompt,
			Answer: row.CorrectAnswer,
		}
	}
	return questions, nil
}

// QuizArchiveAdapter persists room records and final scores through the
// result repository.
type QuizArchiveAdapter struct {
	results *ResultRepository
}

func NewQuizArchiveAdapter(results *ResultRepository) *QuizArchiveAdapter {
	return &QuizArchiveAdapter{results: results}
}

func (a *QuizArchiveAdapter) SaveRoom(id string, cfg quiz.RoomConfig) error {
	return a.results.CreateRoom(&models.QuizRoom{
		RoomCode:         id,
		OwnerChatID:      cfg.OwnerID,
		BattleID:         cfg.BattleID,
		QuestionCount:    cfg.QuestionCount,
		TimeLimitSeconds: int(cfg.Timeout.Seconds()),
	})
}

func (a *QuizArchiveAdapter) SaveResult(rec quiz.ResultRecord) error {
	return a.results.CreateResult(&models.QuizResult{
		RoomCode:     rec.RoomID,
		ChatID:       rec.UserID,
		UserName:     rec.Name,
		TrueAnswers:  rec.Correct,
		FalseAnswers: rec.Incorrect,
	})
}
