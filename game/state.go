// Package game implements the board generation, rule validation, and state
// machine for a two-player asymmetric word-guessing session.
//
// Each card carries one identifier per player. A player's clicks are scored
// against the opponent's identifier for that card: you are guessing which
// cards your partner was cluing toward, and the opponent's side of the card
// encodes the answer.
package game

const (
	// BoardSize is the total number of cards on a board.
	BoardSize = 25
	// OperativesPerPlayer is how many cards carry an Operative identifier
	// from each player's perspective.
	OperativesPerPlayer = 9
	// AssassinsPerPlayer is how many cards are fatal from each player's
	// perspective.
	AssassinsPerPlayer = 3
	// DoubleAgents is how many cards are Operative for both players at once.
	DoubleAgents = 3
	// WinTarget is the number of distinct correct identifications that wins
	// the game: 9 per player, minus the shared double agents counted once.
	WinTarget = 15

	// DefaultTurnLimit and DefaultMistakeLimit apply when the creator does
	// not choose limits.
	DefaultTurnLimit    = 9
	DefaultMistakeLimit = 9
)

// Identifier is a card's meaning from one player's perspective.
type Identifier string

const (
	Operative Identifier = "O"
	Innocent  Identifier = "I"
	Assassin  Identifier = "A"
)

// Code is the lowercase result of resolving a click, as recorded in the
// event log.
type Code string

const (
	CodeOperative Code = "o"
	CodeInnocent  Code = "i"
	CodeAssassin  Code = "a"
)

// Status is the lifecycle state of a game.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusWin        Status = "win"
	StatusLoss       Status = "loss"
)

// Terminal reports whether s can no longer change.
func (s Status) Terminal() bool {
	return s == StatusWin || s == StatusLoss
}

// Slot names one of the two player positions.
type Slot string

const (
	Player1 Slot = "player1"
	Player2 Slot = "player2"
)

// Other returns the opposing slot.
func (s Slot) Other() Slot {
	if s == Player1 {
		return Player2
	}
	return Player1
}

// Card is one of the 25 board cards.
type Card struct {
	Position     int        `json:"position"`
	Word         string     `json:"word"`
	P1Identifier Identifier `json:"p1_identifier"`
	P2Identifier Identifier `json:"p2_identifier"`
	P1Identified bool       `json:"p1_identified"`
	P2Identified bool       `json:"p2_identified"`
}

// LogEntry is one line of a game's append-only event log.
type LogEntry struct {
	Type   string `json:"type"` // "clue", "card", or "system"
	Text   string `json:"text"`
	Number int    `json:"number,omitempty"`
	Code   Code   `json:"code,omitempty"`
	Player Slot   `json:"player,omitempty"`
}

// Presence statuses, merged best-effort and never load-bearing for rules.
const (
	PresenceOnline  = "online"
	PresenceIdle    = "idle"
	PresenceOffline = "offline"
)

// PresenceInfo is one peer's last-known presence.
type PresenceInfo struct {
	Status string `json:"status"`
	Name   string `json:"name"`
}

// State is the complete in-memory state of one game session. The persisted
// record mirrors it field for field.
type State struct {
	ID            string                  `json:"id"`
	Player1ID     string                  `json:"player1_id"`
	Player2ID     string                  `json:"player2_id,omitempty"`
	Status        Status                  `json:"status"`
	TurnLimit     int                     `json:"turn_limit"`
	MistakeLimit  int                     `json:"mistake_limit"`
	TurnCount     int                     `json:"turn_count"`
	ClueCount     int                     `json:"clue_count"`
	MistakeCount  int                     `json:"mistake_count"`
	CorrectCount  int                     `json:"correct_count"`
	CurrentTurn   Slot                    `json:"current_turn"`
	TurnLock      Slot                    `json:"turn_lock,omitempty"`
	CardLock      bool                    `json:"card_lock"`
	Cards         []Card                  `json:"cards"`
	EventLog      []LogEntry              `json:"event_log"`
	PreviousWords []string                `json:"previous_words"`
	Presence      map[string]PresenceInfo `json:"presence,omitempty"`
}

// NewState returns the initial waiting-room state for a game created by
// player1. The board is generated later, when player2 joins.
func NewState(id, player1ID string, turnLimit, mistakeLimit int, previousWords []string) State {
	if turnLimit <= 0 {
		turnLimit = DefaultTurnLimit
	}
	if mistakeLimit <= 0 {
		mistakeLimit = DefaultMistakeLimit
	}

	return State{
		ID:            id,
		Player1ID:     player1ID,
		Status:        StatusWaiting,
		TurnLimit:     turnLimit,
		MistakeLimit:  mistakeLimit,
		CurrentTurn:   Player1,
		CardLock:      true,
		PreviousWords: append([]string(nil), previousWords...),
	}
}

// SlotOf maps a player id to its slot, or "" if the id occupies neither.
func (s State) SlotOf(playerID string) Slot {
	switch {
	case playerID != "" && playerID == s.Player1ID:
		return Player1
	case playerID != "" && playerID == s.Player2ID:
		return Player2
	default:
		return ""
	}
}

// CardAt returns the card at the given board position.
func (s State) CardAt(position int) (Card, bool) {
	for _, c := range s.Cards {
		if c.Position == position {
			return c, true
		}
	}
	return Card{}, false
}

// Words returns the 25 board words, used for clue validation and for the
// rematch exclusion list.
func (s State) Words() []string {
	words := make([]string, 0, len(s.Cards))
	for _, c := range s.Cards {
		words = append(words, c.Word)
	}
	return words
}

// Clone returns a deep copy sharing no slices or maps with s.
func (s State) Clone() State {
	out := s
	out.Cards = append([]Card(nil), s.Cards...)
	out.EventLog = append([]LogEntry(nil), s.EventLog...)
	out.PreviousWords = append([]string(nil), s.PreviousWords...)
	if s.Presence != nil {
		out.Presence = make(map[string]PresenceInfo, len(s.Presence))
		for k, v := range s.Presence {
			out.Presence[k] = v
		}
	}
	return out
}
