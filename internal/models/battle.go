package models

import "time"

// Battle is a node in the question-pool hierarchy. Root battles have no
// parent; leaf battles (no children) carry the actual questions.
type Battle struct {
	ID        uint      `gorm:"primaryKey"`
	NameUz    string    `gorm:"type:varchar(150);not null"`
	NameRu    string    `gorm:"type:varchar(150);not null"`
	NameEn    string    `gorm:"type:varchar(150)"`
	ParentID  *uint     `gorm:"index"`
	Parent    *Battle   `gorm:"foreignKey:ParentID"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Battle) TableName() string {
	return "battles"
}

// Name returns the battle title for the given language id.
func (b *Battle) Name(langID int) string {
	if langID == LangRussian && b.NameRu != "" {
		return b.NameRu
	}
	return b.NameUz
}
