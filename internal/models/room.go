package models

import "time"

// QuizRoom is the persisted record of a created room. The live room state
// is held by the quiz session store; this row backs the invite-link
// expiry check and the admin's history.
type QuizRoom struct {
	ID               uint      `gorm:"primaryKey"`
	RoomCode         string    `gorm:"type:varchar(16);uniqueIndex;not null"`
	OwnerChatID      int64     `gorm:"not null;index"`
	BattleID         uint      `gorm:"not null;index"`
	QuestionCount    int       `gorm:"not null"`
	TimeLimitSeconds int       `gorm:"not null"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (QuizRoom) TableName() string {
	return "quiz_rooms"
}

// QuizResult is one participant's final score in one room, written exactly
// once when the session ends. Insertion order (id) is the tie-break order
// for the leaderboard.
type QuizResult struct {
	ID           uint      `gorm:"primaryKey"`
	RoomCode     string    `gorm:"type:varchar(16);index;not null"`
	ChatID       int64     `gorm:"not null"`
	UserName     string    `gorm:"type:varchar(100)"`
	TrueAnswers  int       `gorm:"not null"`
	FalseAnswers int       `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
