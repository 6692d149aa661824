package services

import (
	"errors"

	"github.com/ayusuf9/trivia-africa/internal/game"
	"github.com/ayusuf9/trivia-africa/internal/models"

	"gorm.io/gorm"
)

// HistoryService is the persistence bridge: it stores final match
// snapshots and serves match history and the leaderboard.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

func (s *HistoryService) RecordMatchResult(roomID string, snapshot *game.ResultSnapshot) error {
	record := models.MatchResult{
		RoomID:  roomID,
		Mode:    string(snapshot.Mode),
		Reason:  string(snapshot.Reason),
		EndedAt: snapshot.EndedAt,
	}
	for _, p := range snapshot.Players {
		entry := models.MatchResultEntry{
			PlayerID:       p.ID,
			DisplayName:    p.DisplayName,
			Team:           p.Team,
			Score:          p.Score,
			CorrectAnswers: p.Correct,
			WrongAnswers:   p.Wrong,
			Rank:           p.Rank,
			Winner:         p.Winner,
		}
		if !p.FinishedAt.IsZero() {
			finished := p.FinishedAt
			entry.FinishedAt = &finished
		}
		record.Entries = append(record.Entries, entry)
	}
	return s.db.Create(&record).Error
}

func (s *HistoryService) GetMatchResult(roomID string) (*models.MatchResult, error) {
	var record models.MatchResult
	if err := s.db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("rank ASC")
	}).Where("room_id = ?", roomID).First(&record).Error; err != nil {
		return nil, errors.New("match result not found")
	}
	return &record, nil
}

type LeaderboardRow struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"username"`
	TotalScore  int    `json:"total_score"`
	Wins        int    `json:"wins"`
	Matches     int    `json:"matches"`
}

// Leaderboard aggregates all recorded matches into a top-players list.
func (s *HistoryService) Leaderboard(limit int) ([]LeaderboardRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []LeaderboardRow
	err := s.db.Model(&models.MatchResultEntry{}).
		Select("player_id, MAX(display_name) AS display_name, SUM(score) AS total_score, " +
			"SUM(CASE WHEN winner THEN 1 ELSE 0 END) AS wins, COUNT(*) AS matches").
		Group("player_id").
		Order("total_score DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PlayerHistory lists a player's recorded matches, newest first.
func (s *HistoryService) PlayerHistory(playerID string, limit int) ([]models.MatchResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var ids []uint
	if err := s.db.Model(&models.MatchResultEntry{}).
		Where("player_id = ?", playerID).
		Pluck("match_result_id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.MatchResult{}, nil
	}

	var results []models.MatchResult
	if err := s.db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("rank ASC")
	}).Where("id IN ?", ids).
		Order("ended_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
