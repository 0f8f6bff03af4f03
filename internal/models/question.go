package models

import "time"

type Question struct {
	ID            uint      `gorm:"primaryKey"`
	BattleID      uint      `gorm:"not null;index"`
	Battle        Battle    `gorm:"foreignKey:BattleID;constraint:OnDelete:CASCADE"`
	Prompt        string    `gorm:"type:text;not null"`
	CorrectAnswer string    `gorm:"type:text;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Question) TableName() string {
	return "questions"
}
