package models

import "time"

// MatchResult is the durable record of a finished match, written once
// from the engine's result snapshot.
type MatchResult struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	RoomID    string             `gorm:"size:64;uniqueIndex;not null" json:"room_id"`
	Mode      string             `gorm:"size:10;not null" json:"mode"`
	Reason    string             `gorm:"size:30;not null" json:"reason"`
	Entries   []MatchResultEntry `gorm:"foreignKey:MatchResultID" json:"entries,omitempty"`
	EndedAt   time.Time          `json:"ended_at"`
	CreatedAt time.Time          `json:"created_at"`
}

type MatchResultEntry struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	MatchResultID  uint       `gorm:"not null;index" json:"match_result_id"`
	PlayerID       string     `gorm:"size:64;not null;index" json:"player_id"`
	DisplayName    string     `gorm:"size:100;not null" json:"username"`
	Team           string     `gorm:"size:20" json:"team,omitempty"`
	Score          int        `gorm:"not null;default:0" json:"score"`
	CorrectAnswers int        `gorm:"not null;default:0" json:"correct_answers"`
	WrongAnswers   int        `gorm:"not null;default:0" json:"wrong_answers"`
	Rank           int        `gorm:"not null;default:0" json:"rank"`
	Winner         bool       `gorm:"not null;default:false" json:"winner"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}
