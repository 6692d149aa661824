package game

import (
	"sync"
	"time"
)

// State is a room's lifecycle state. Transitions only move forward:
// waiting -> starting -> active -> ended.
type State string

const (
	StateWaiting  State = "waiting"
	StateStarting State = "starting"
	StateActive   State = "active"
	StateEnded    State = "ended"
)

type Mode string

const (
	ModeSolo Mode = "solo"
	ModeDuel Mode = "duel"
	ModeTeam Mode = "team"
)

// Team names for team-mode rooms. Joiners without an explicit team
// preference are assigned round-robin.
const (
	TeamRed  = "red"
	TeamBlue = "blue"
)

// Participant is a player's membership record within a room.
type Participant struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"username"`
	Avatar      string    `json:"avatar,omitempty"`
	Team        string    `json:"team,omitempty"`
	Ready       bool      `json:"ready"`
	Active      bool      `json:"active"`
	Correct     int       `json:"correct_answers"`
	Wrong       int       `json:"wrong_answers"`
	JoinedAt    time.Time `json:"joined_at"`

	// finishedAt is the time of the participant's latest scored
	// submission; zero until they answer something.
	finishedAt time.Time
}

// Room holds one live match's state. All fields are guarded by mu;
// the engine is the only mutator. Two events for the same room are
// never applied concurrently.
type Room struct {
	mu sync.Mutex

	ID         string
	Mode       Mode
	OwnerID    string
	QuizID     uint
	MaxPlayers int
	State      State
	Players    []*Participant
	Scores     map[string]int
	TeamScores map[string]int
	CreatedAt  time.Time
	StartedAt  time.Time

	questions   []QuestionInfo
	questionIdx int
	answered    map[string]bool

	startTimer *time.Timer
	matchTimer *time.Timer

	// destroyed is set when the room has been removed from the
	// registry; a late timer or event must not resurrect it.
	destroyed bool
}

func newRoom(id string, mode Mode, ownerID string, quizID uint, maxPlayers int) *Room {
	return &Room{
		ID:         id,
		Mode:       mode,
		OwnerID:    ownerID,
		QuizID:     quizID,
		MaxPlayers: maxPlayers,
		State:      StateWaiting,
		Scores:     make(map[string]int),
		TeamScores: make(map[string]int),
		answered:   make(map[string]bool),
		CreatedAt:  time.Now(),
	}
}

func (r *Room) participant(playerID string) *Participant {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (r *Room) allReady() bool {
	for _, p := range r.Players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// allAnswered reports whether every active participant has answered
// the current question.
func (r *Room) allAnswered() bool {
	for _, p := range r.Players {
		if p.Active && !r.answered[p.ID] {
			return false
		}
	}
	return true
}

func (r *Room) currentQuestion() *QuestionInfo {
	if r.questionIdx < 0 || r.questionIdx >= len(r.questions) {
		return nil
	}
	return &r.questions[r.questionIdx]
}

// stopTimers cancels any pending lifecycle timers. A timer that has
// already fired finds destroyed set and backs off.
func (r *Room) stopTimers() {
	if r.startTimer != nil {
		r.startTimer.Stop()
		r.startTimer = nil
	}
	if r.matchTimer != nil {
		r.matchTimer.Stop()
		r.matchTimer = nil
	}
}

// roster returns a copy of the player list safe to hand to broadcasts.
func (r *Room) roster() []Participant {
	out := make([]Participant, len(r.Players))
	for i, p := range r.Players {
		out[i] = *p
	}
	return out
}

func (r *Room) scoresCopy() map[string]int {
	out := make(map[string]int, len(r.Scores))
	for k, v := range r.Scores {
		out[k] = v
	}
	return out
}

func (r *Room) teamScoresCopy() map[string]int {
	if r.Mode != ModeTeam {
		return nil
	}
	out := make(map[string]int, len(r.TeamScores))
	for k, v := range r.TeamScores {
		out[k] = v
	}
	return out
}
