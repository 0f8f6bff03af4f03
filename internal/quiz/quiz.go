// Package quiz implements the quiz-room session engine: room lifecycle,
// per-participant question delivery with timeout auto-fail, and result
// aggregation. The Telegram gateway and the content tables are injected
// collaborators, so the engine is testable without a bot token or a
// database.
package quiz

import "time"

// MaxQuestionCount bounds how many questions a room may ask.
const MaxQuestionCount = 200

// Question is one prompt/answer pair drawn from a battle's pool.
type Question struct {
	Prompt string
	Answer string
}

// ResultRecord is one participant's final score in one room. Written
// exactly once when the session ends, immutable after that.
type ResultRecord struct {
	RoomID    string
	UserID    int64
	Name      string
	Correct   int
	Incorrect int
}

// Percentage returns the share of correct answers, 0.0 when the
// participant answered nothing.
func (r ResultRecord) Percentage() float64 {
	total := r.Correct + r.Incorrect
	if total == 0 {
		return 0.0
	}
	return float64(r.Correct) / float64(total) * 100
}

// RoomConfig is immutable once the room starts.
type RoomConfig struct {
	OwnerID       int64
	BattleID      uint
	QuestionCount int
	Timeout       time.Duration
	CreatedAt     time.Time
}

// Participant is one joined user, unique per room by UserID.
type Participant struct {
	UserID   int64
	Name     string
	JoinedAt time.Time
}

// ContentStore is the read-only question source.
type ContentStore interface {
	QuestionsByBattle(battleID uint) ([]Question, error)
}

// Archive persists room records and final scores.
type Archive interface {
	SaveRoom(id string, cfg RoomConfig) error
	SaveResult(rec ResultRecord) error
}

// Messenger delivers outbound chat messages. The gateway retries
// transient failures internally and returns 0 when a message is
// ultimately dropped.
type Messenger interface {
	SendMessage(chatID int64, text string, keyboard interface{}) int
}
