package game

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
)

// Engine errors. The gateway relays these to the offending connection
// only, never to the room.
var (
	ErrRoomNotFound = errors.New("room not found")
	ErrNotInRoom    = errors.New("player is not in this room")
	ErrRoomClosed   = errors.New("match is closed to new players")
	ErrRoomFull     = errors.New("room is full")
	ErrNotOwner     = errors.New("only the match owner can end it")
)

type Config struct {
	// CountdownSeconds is the gameStarting countdown before a match
	// goes active.
	CountdownSeconds int
	// MatchTimeLimit bounds a match's active phase; zero means no
	// limit.
	MatchTimeLimit time.Duration
	// DefaultMaxPlayers caps rooms created implicitly by a join.
	DefaultMaxPlayers int
}

// Engine applies inbound events to rooms. It is the sole mutator of
// room state: every operation locks the target room, so two events for
// the same room are never interleaved, while different rooms proceed
// independently.
type Engine struct {
	registry *Registry
	content  ContentSource
	recorder ResultRecorder
	bus      Broadcaster
	cfg      Config
}

func NewEngine(registry *Registry, content ContentSource, recorder ResultRecorder, bus Broadcaster, cfg Config) *Engine {
	if cfg.CountdownSeconds <= 0 {
		cfg.CountdownSeconds = 3
	}
	if cfg.DefaultMaxPlayers <= 0 {
		cfg.DefaultMaxPlayers = 8
	}
	return &Engine{
		registry: registry,
		content:  content,
		recorder: recorder,
		bus:      bus,
		cfg:      cfg,
	}
}

// RoomSummary is the lobby view of a room.
type RoomSummary struct {
	ID         string    `json:"room_id"`
	Mode       Mode      `json:"mode"`
	State      State     `json:"gameState"`
	OwnerID    string    `json:"owner_id"`
	QuizID     uint      `json:"quiz_id,omitempty"`
	Players    int       `json:"player_count"`
	MaxPlayers int       `json:"max_players"`
	CreatedAt  time.Time `json:"created_at"`
}

// JoinState is what a joining (or rejoining) connection gets back so
// it can render the room it just entered.
type JoinState struct {
	RoomID     string         `json:"room_id"`
	Mode       Mode           `json:"mode"`
	State      State          `json:"gameState"`
	Players    []Participant  `json:"players"`
	Scores     map[string]int `json:"scores"`
	TeamScores map[string]int `json:"teamScores,omitempty"`
	Question   *QuestionView  `json:"question,omitempty"`
	Rejoin     bool           `json:"rejoin"`
}

// CreateRoom registers a new waiting room owned by ownerID and returns
// its lobby summary. Used by the REST lobby; joining over the gateway
// can also create a room implicitly.
func (e *Engine) CreateRoom(ownerID string, mode Mode, quizID uint, maxPlayers int) RoomSummary {
	switch mode {
	case ModeSolo, ModeDuel, ModeTeam:
	default:
		mode = ModeDuel
	}
	if maxPlayers <= 0 {
		maxPlayers = e.cfg.DefaultMaxPlayers
	}
	id := uuid.NewString()
	room := e.registry.CreateOrGet(id, func() *Room {
		return newRoom(id, mode, ownerID, quizID, maxPlayers)
	})
	log.Printf("game: room %s created by %s (mode=%s)", id, ownerID, mode)
	return summarize(room)
}

// OpenRooms lists rooms still accepting players.
func (e *Engine) OpenRooms() []RoomSummary {
	out := []RoomSummary{}
	for _, room := range e.registry.Snapshot() {
		room.mu.Lock()
		if room.State == StateWaiting && !room.destroyed {
			out = append(out, summarizeLocked(room))
		}
		room.mu.Unlock()
	}
	return out
}

// RoomState returns the current view of a single room.
func (e *Engine) RoomState(roomID string) (*JoinState, error) {
	room, ok := e.registry.Get(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.destroyed {
		return nil, ErrRoomNotFound
	}
	return e.joinStateLocked(room, false), nil
}

// Join adds a player to a room, creating the room if it does not exist
// yet. A duplicate join by a player already in the room is an
// idempotent no-op that just returns the current state. Joins into a
// room past the waiting state are rejected.
func (e *Engine) Join(roomID, playerID, displayName, avatar, team string) (*JoinState, error) {
	var room *Room
	for {
		room = e.registry.CreateOrGet(roomID, func() *Room {
			return newRoom(roomID, ModeDuel, playerID, 0, e.cfg.DefaultMaxPlayers)
		})
		room.mu.Lock()
		if !room.destroyed {
			break
		}
		// Lost a race against teardown; the next CreateOrGet makes a
		// fresh room.
		room.mu.Unlock()
	}
	defer room.mu.Unlock()

	if room.participant(playerID) != nil {
		return e.joinStateLocked(room, true), nil
	}
	if room.State != StateWaiting {
		return nil, ErrRoomClosed
	}
	if room.MaxPlayers > 0 && len(room.Players) >= room.MaxPlayers {
		return nil, ErrRoomFull
	}

	p := &Participant{
		ID:          playerID,
		DisplayName: displayName,
		Avatar:      avatar,
		Active:      true,
		JoinedAt:    time.Now(),
	}
	if room.Mode == ModeTeam {
		p.Team = pickTeam(room, team)
	}
	room.Players = append(room.Players, p)
	room.Scores[playerID] = 0

	log.Printf("game: %s joined room %s", displayName, roomID)
	e.bus.Broadcast(roomID, EventPlayerJoined, PlayerJoinedPayload{
		Player:  *p,
		Players: room.roster(),
		State:   room.State,
	})
	return e.joinStateLocked(room, false), nil
}

// Ready marks a player ready. When that makes every participant ready
// and at least two are present, the room enters starting and schedules
// the deferred transition to active. Ready after the match has started
// is a no-op.
func (e *Engine) Ready(roomID, playerID string) error {
	room, ok := e.registry.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.destroyed {
		return ErrRoomNotFound
	}
	p := room.participant(playerID)
	if p == nil {
		return ErrNotInRoom
	}
	if room.State != StateWaiting {
		return nil
	}

	p.Ready = true
	if room.allReady() && len(room.Players) >= 2 {
		room.State = StateStarting
		e.bus.Broadcast(roomID, EventGameStarting, GameStartingPayload{Countdown: e.cfg.CountdownSeconds})
		room.startTimer = time.AfterFunc(time.Duration(e.cfg.CountdownSeconds)*time.Second, func() {
			e.activate(room)
		})
		return nil
	}
	e.bus.Broadcast(roomID, EventPlayerStatusUpdate, PlayerStatusPayload{
		Players:  room.roster(),
		AllReady: room.allReady(),
	})
	return nil
}

// activate fires when the countdown elapses. A fired timer for a room
// that was torn down in the meantime is a no-op.
func (e *Engine) activate(room *Room) {
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.destroyed || room.State != StateStarting {
		return
	}

	questions, err := e.content.QuestionSet(room.QuizID)
	if err != nil || len(questions) == 0 {
		if err != nil {
			log.Printf("game: room %s question load failed: %v", room.ID, err)
		}
		e.endLocked(room, ReasonAbandoned)
		return
	}

	room.questions = questions
	room.questionIdx = 0
	room.answered = make(map[string]bool)
	room.State = StateActive
	room.StartedAt = time.Now()

	if len(room.Players) < 2 {
		// Everyone else walked out during the countdown.
		e.endLocked(room, ReasonOpponentDeparted)
		return
	}

	e.bus.Broadcast(room.ID, EventGameStarted, GameStartedPayload{
		State:    room.State,
		Question: questionView(room.currentQuestion(), 1, len(room.questions)),
	})
	if e.cfg.MatchTimeLimit > 0 {
		room.matchTimer = time.AfterFunc(e.cfg.MatchTimeLimit, func() {
			e.expire(room)
		})
	}
}

func (e *Engine) expire(room *Room) {
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.destroyed || room.State != StateActive {
		return
	}
	e.endLocked(room, ReasonTimeout)
}

// SubmitAnswer scores a submission against the authoritative answer
// and broadcasts the result. Submissions outside the active state, for
// a stale question, or repeated for the same question are dropped.
func (e *Engine) SubmitAnswer(roomID, playerID string, questionID uint, answer string, timeRemaining int) error {
	room, ok := e.registry.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.destroyed {
		return ErrRoomNotFound
	}
	p := room.participant(playerID)
	if p == nil {
		return ErrNotInRoom
	}
	if room.State != StateActive {
		return nil
	}
	q := room.currentQuestion()
	if q == nil || q.ID != questionID || room.answered[playerID] {
		return nil
	}

	var correct bool
	var points int
	authoritative, basePoints, _, err := e.content.AuthoritativeAnswer(questionID)
	if err != nil {
		// Content collaborator unavailable: the submission stays
		// unscored rather than stalling the match.
		log.Printf("game: room %s answer lookup for question %d failed, scoring zero: %v", roomID, questionID, err)
	} else {
		correct = AnswersMatch(answer, authoritative)
		points = Score(answer, authoritative, timeRemaining, basePoints, room.Mode)
		if correct {
			p.Correct++
		} else {
			p.Wrong++
		}
	}

	room.Scores[playerID] += points
	if room.Mode == ModeTeam && p.Team != "" {
		room.TeamScores[p.Team] += points
	}
	p.finishedAt = time.Now()
	room.answered[playerID] = true

	e.bus.Broadcast(roomID, EventAnswerResult, AnswerResultPayload{
		PlayerID:   playerID,
		Correct:    correct,
		Points:     points,
		Scores:     room.scoresCopy(),
		TeamScores: room.teamScoresCopy(),
	})

	if room.allAnswered() {
		e.advanceLocked(room)
	}
	return nil
}

// EndGame forces an active match to end. Only the room owner may do
// this; outside the active state it is a no-op.
func (e *Engine) EndGame(roomID, requesterID string) error {
	room, ok := e.registry.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.destroyed {
		return ErrRoomNotFound
	}
	if requesterID != room.OwnerID {
		return ErrNotOwner
	}
	if room.State != StateActive {
		return nil
	}
	e.endLocked(room, ReasonNormal)
	return nil
}

// Leave removes a player from a room. An emptied room is torn down
// immediately; a duel reduced to one player mid-match ends with the
// survivor as sole winner.
func (e *Engine) Leave(roomID, playerID string) error {
	room, ok := e.registry.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.destroyed {
		return ErrRoomNotFound
	}
	if room.participant(playerID) == nil {
		return ErrNotInRoom
	}

	players := room.Players[:0]
	for _, p := range room.Players {
		if p.ID != playerID {
			players = append(players, p)
		}
	}
	room.Players = players
	delete(room.Scores, playerID)
	delete(room.answered, playerID)

	e.bus.Broadcast(roomID, EventPlayerLeft, PlayerLeftPayload{
		PlayerID: playerID,
		Players:  room.roster(),
	})

	if len(room.Players) == 0 {
		e.destroyLocked(room)
		return nil
	}
	if room.State == StateActive {
		if len(room.Players) == 1 {
			e.endLocked(room, ReasonOpponentDeparted)
		} else if room.allAnswered() {
			// The leaver was the last holdout on the current question.
			e.advanceLocked(room)
		}
	}
	return nil
}

// advanceLocked moves the room to the next question, or ends the match
// when the set is exhausted.
func (e *Engine) advanceLocked(room *Room) {
	room.questionIdx++
	if room.questionIdx >= len(room.questions) {
		e.endLocked(room, ReasonNormal)
		return
	}
	room.answered = make(map[string]bool)
	e.bus.Broadcast(room.ID, EventNextQuestion, NextQuestionPayload{
		Question: questionView(room.currentQuestion(), room.questionIdx+1, len(room.questions)),
		Scores:   room.scoresCopy(),
	})
}

// endLocked performs the terminal transition: aggregate results,
// broadcast them, hand the snapshot to the persistence bridge, and
// tear the room down. The snapshot is a deep copy, so teardown cannot
// touch it; persistence is fire-and-forget and never blocks teardown.
func (e *Engine) endLocked(room *Room, reason Reason) {
	snapshot := Aggregate(room, reason)
	room.State = StateEnded
	room.stopTimers()

	log.Printf("game: room %s ended (%s)", room.ID, reason)
	e.bus.Broadcast(room.ID, EventGameEnded, GameEndedPayload{Results: snapshot, Reason: reason})

	go func() {
		if err := e.recorder.RecordMatchResult(snapshot.RoomID, snapshot); err != nil {
			log.Printf("game: room %s result persistence failed: %v", snapshot.RoomID, err)
		}
	}()

	room.Players = nil
	room.Scores = make(map[string]int)
	room.TeamScores = make(map[string]int)
	e.destroyLocked(room)
}

func (e *Engine) destroyLocked(room *Room) {
	room.stopTimers()
	room.destroyed = true
	e.registry.Remove(room.ID)
	log.Printf("game: room %s removed", room.ID)
}

func (e *Engine) joinStateLocked(room *Room, rejoin bool) *JoinState {
	state := &JoinState{
		RoomID:     room.ID,
		Mode:       room.Mode,
		State:      room.State,
		Players:    room.roster(),
		Scores:     room.scoresCopy(),
		TeamScores: room.teamScoresCopy(),
		Rejoin:     rejoin,
	}
	if room.State == StateActive {
		state.Question = questionView(room.currentQuestion(), room.questionIdx+1, len(room.questions))
	}
	return state
}

func pickTeam(room *Room, requested string) string {
	if requested == TeamRed || requested == TeamBlue {
		return requested
	}
	if len(room.Players)%2 == 0 {
		return TeamRed
	}
	return TeamBlue
}

func summarize(room *Room) RoomSummary {
	room.mu.Lock()
	defer room.mu.Unlock()
	return summarizeLocked(room)
}

func summarizeLocked(room *Room) RoomSummary {
	return RoomSummary{
		ID:         room.ID,
		Mode:       room.Mode,
		State:      room.State,
		OwnerID:    room.OwnerID,
		QuizID:     room.QuizID,
		Players:    len(room.Players),
		MaxPlayers: room.MaxPlayers,
		CreatedAt:  room.CreatedAt,
	}
}
