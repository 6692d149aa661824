package models

import "time"

// Content-side tables. The match engine only reads these; create,
// update and approval of content is owned by the content management
// service.

type Quiz struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Difficulty string     `gorm:"size:20" json:"difficulty,omitempty"`
	Questions  []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

type Question struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	QuizID     uint     `gorm:"not null;index" json:"quiz_id"`
	CategoryID *uint    `gorm:"index" json:"category_id,omitempty"`
	Text       string   `gorm:"type:text;not null" json:"text"`
	OrderNum   int      `gorm:"not null;default:0" json:"order_num"`
	BasePoints int      `gorm:"not null;default:100" json:"base_points"`
	TimeLimit  int      `gorm:"not null;default:10" json:"time_limit"`
	Options    []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

type Option struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"is_correct"`
}
