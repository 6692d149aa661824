package game

import (
	"sort"
	"time"
)

// Reason describes why a match terminated.
type Reason string

const (
	ReasonNormal           Reason = "normal"
	ReasonTimeout          Reason = "timeout"
	ReasonAbandoned        Reason = "abandoned"
	ReasonOpponentDeparted Reason = "opponent_departed"
)

type PlayerResult struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"username"`
	Team        string    `json:"team,omitempty"`
	Score       int       `json:"score"`
	Correct     int       `json:"correct_answers"`
	Wrong       int       `json:"wrong_answers"`
	Rank        int       `json:"rank"`
	Winner      bool      `json:"winner"`
	FinishedAt  time.Time `json:"finished_at,omitempty"`
}

type TeamResult struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
	Score   int      `json:"score"`
	Wrong   int      `json:"wrong_answers"`
	Rank    int      `json:"rank"`
	Winner  bool     `json:"winner"`
}

// ResultSnapshot is the immutable outcome of a finished match. It is
// built from copies of room state, so later mutation of the room does
// not affect an already-emitted snapshot.
type ResultSnapshot struct {
	RoomID  string         `json:"room_id"`
	Mode    Mode           `json:"mode"`
	Reason  Reason         `json:"reason"`
	Players []PlayerResult `json:"results"`
	Teams   []TeamResult   `json:"teams,omitempty"`
	EndedAt time.Time      `json:"ended_at"`
}

// Aggregate ranks the room's participants (and teams, in team mode)
// and produces the final snapshot. The caller must hold the room lock.
//
// Ranking is by score descending; ties break by fewer wrong answers,
// then earlier finish time, then stable roster order.
func Aggregate(r *Room, reason Reason) *ResultSnapshot {
	snap := &ResultSnapshot{
		RoomID:  r.ID,
		Mode:    r.Mode,
		Reason:  reason,
		EndedAt: time.Now(),
	}

	players := make([]PlayerResult, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, PlayerResult{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Team:        p.Team,
			Score:       r.Scores[p.ID],
			Correct:     p.Correct,
			Wrong:       p.Wrong,
			FinishedAt:  p.finishedAt,
		})
	}
	sort.SliceStable(players, func(i, j int) bool {
		return beats(players[i].Score, players[i].Wrong, players[i].FinishedAt,
			players[j].Score, players[j].Wrong, players[j].FinishedAt)
	})
	for i := range players {
		players[i].Rank = i + 1
		players[i].Winner = players[i].Score == players[0].Score && players[i].Wrong == players[0].Wrong
	}
	snap.Players = players

	if r.Mode == ModeTeam {
		byName := make(map[string]*TeamResult)
		order := []string{}
		for _, p := range snap.Players {
			if p.Team == "" {
				continue
			}
			t, ok := byName[p.Team]
			if !ok {
				t = &TeamResult{Name: p.Team, Score: r.TeamScores[p.Team]}
				byName[p.Team] = t
				order = append(order, p.Team)
			}
			t.Members = append(t.Members, p.ID)
			t.Wrong += p.Wrong
		}
		teams := make([]TeamResult, 0, len(order))
		for _, name := range order {
			teams = append(teams, *byName[name])
		}
		sort.SliceStable(teams, func(i, j int) bool {
			return beats(teams[i].Score, teams[i].Wrong, teamFinish(snap.Players, teams[i].Name),
				teams[j].Score, teams[j].Wrong, teamFinish(snap.Players, teams[j].Name))
		})
		for i := range teams {
			teams[i].Rank = i + 1
			teams[i].Winner = teams[i].Score == teams[0].Score && teams[i].Wrong == teams[0].Wrong
		}
		snap.Teams = teams
	}

	return snap
}

// beats implements the tie-break chain shared by player and team
// ranking: higher score, fewer wrong answers, earlier finish.
func beats(scoreA, wrongA int, finA time.Time, scoreB, wrongB int, finB time.Time) bool {
	if scoreA != scoreB {
		return scoreA > scoreB
	}
	if wrongA != wrongB {
		return wrongA < wrongB
	}
	return earlier(finA, finB)
}

// earlier treats a zero finish time (never answered) as later than any
// real one.
func earlier(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	if b.IsZero() {
		return true
	}
	return a.Before(b)
}

// teamFinish is the moment a team was done answering: the latest
// finish among its members.
func teamFinish(players []PlayerResult, team string) time.Time {
	var latest time.Time
	for _, p := range players {
		if p.Team == team && p.FinishedAt.After(latest) {
			latest = p.FinishedAt
		}
	}
	return latest
}
