package game

// Outbound broadcast event names. The gateway relays these to every
// connection subscribed to the room.
const (
	EventPlayerJoined       = "playerJoined"
	EventPlayerStatusUpdate = "playerStatusUpdate"
	EventGameStarting       = "gameStarting"
	EventGameStarted        = "gameStarted"
	EventNextQuestion       = "nextQuestion"
	EventAnswerResult       = "answerResult"
	EventGameEnded          = "gameEnded"
	EventPlayerLeft         = "playerLeft"
)

// Broadcaster delivers an event to every member of a room. The ws hub
// satisfies this; tests substitute a recorder.
type Broadcaster interface {
	Broadcast(roomID, event string, data interface{})
}

// ContentSource is the content collaborator: the owner of questions
// and authoritative answers. The engine never decides correctness on
// its own.
type ContentSource interface {
	QuestionSet(quizID uint) ([]QuestionInfo, error)
	AuthoritativeAnswer(questionID uint) (answer string, basePoints, timeLimit int, err error)
}

// ResultRecorder is the persistence collaborator. Recording is
// fire-and-forget: a failure is logged and never blocks room teardown.
type ResultRecorder interface {
	RecordMatchResult(roomID string, snapshot *ResultSnapshot) error
}

// QuestionInfo is a question as the engine sees it. Answer is the
// authoritative correct answer and is never sent to clients.
type QuestionInfo struct {
	ID         uint
	Text       string
	Options    []string
	Answer     string
	BasePoints int
	TimeLimit  int
}

// QuestionView is the client-safe projection of a question.
type QuestionView struct {
	ID        uint     `json:"id"`
	Text      string   `json:"text"`
	Options   []string `json:"options,omitempty"`
	TimeLimit int      `json:"time_limit"`
	Number    int      `json:"number"`
	Total     int      `json:"total"`
}

func questionView(q *QuestionInfo, number, total int) *QuestionView {
	if q == nil {
		return nil
	}
	return &QuestionView{
		ID:        q.ID,
		Text:      q.Text,
		Options:   append([]string(nil), q.Options...),
		TimeLimit: q.TimeLimit,
		Number:    number,
		Total:     total,
	}
}

type PlayerJoinedPayload struct {
	Player  Participant   `json:"player"`
	Players []Participant `json:"players"`
	State   State         `json:"gameState"`
}

type PlayerStatusPayload struct {
	Players  []Participant `json:"players"`
	AllReady bool          `json:"allReady"`
}

type GameStartingPayload struct {
	Countdown int `json:"countdown"`
}

type GameStartedPayload struct {
	State    State         `json:"gameState"`
	Question *QuestionView `json:"question,omitempty"`
}

type NextQuestionPayload struct {
	Question *QuestionView  `json:"question"`
	Scores   map[string]int `json:"scores"`
}

type AnswerResultPayload struct {
	PlayerID   string         `json:"userId"`
	Correct    bool           `json:"isCorrect"`
	Points     int            `json:"points"`
	Scores     map[string]int `json:"scores"`
	TeamScores map[string]int `json:"teamScores,omitempty"`
}

type GameEndedPayload struct {
	Results *ResultSnapshot `json:"results"`
	Reason  Reason          `json:"reason"`
}

type PlayerLeftPayload struct {
	PlayerID string        `json:"userId"`
	Players  []Participant `json:"players"`
}
