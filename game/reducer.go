package game

import "fmt"

// Action is the closed set of state transitions. Keeping the vocabulary a
// sum type means the reducer's switch is checked against every broadcast
// event the wire can carry, instead of fanning out on raw strings.
type Action interface {
	isAction()
}

// InitGame hydrates state wholesale from a persisted record. It is the only
// action that overwrites instead of folding, and the recovery path when a
// replica has diverged.
type InitGame struct {
	Record State
}

// CardClicked marks the acting player's guess at a board position.
type CardClicked struct {
	Position  int    `json:"position"`
	Actor     Slot   `json:"actor"`
	ActorName string `json:"actor_name"`
}

// ClueSubmitted ends the acting player's turn with a clue for their partner.
type ClueSubmitted struct {
	Clue string `json:"clue"`
}

// TurnSwapped flips the current turn without a clue. Manual override.
type TurnSwapped struct{}

// CardsUnlocked clears the board lock. Manual override.
type CardsUnlocked struct{}

// GuessingEnded lets a player stop guessing before using up their clue.
type GuessingEnded struct {
	ActorName string `json:"actor_name"`
}

// PlayerJoined fills the second seat and starts the game.
type PlayerJoined struct {
	Player2ID string `json:"player2_id"`
}

// GameEnded force-sets a terminal status, e.g. on forfeit.
type GameEnded struct {
	Status Status `json:"status"`
	Reason string `json:"reason"`
}

// PresenceUpdated merges a peer-id to presence map. Informational only.
type PresenceUpdated struct {
	Peers map[string]PresenceInfo `json:"peers"`
}

func (InitGame) isAction()        {}
func (CardClicked) isAction()     {}
func (ClueSubmitted) isAction()   {}
func (TurnSwapped) isAction()     {}
func (CardsUnlocked) isAction()   {}
func (GuessingEnded) isAction()   {}
func (PlayerJoined) isAction()    {}
func (GameEnded) isAction()       {}
func (PresenceUpdated) isAction() {}

// Reduce folds one action into a new state. Pure and total: the inputs are
// never mutated, and an unrecognized action returns the state unchanged.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case InitGame:
		record := a.Record.Clone()
		record.Presence = s.Presence
		return record

	case CardClicked:
		return reduceCardClick(s, a)

	case ClueSubmitted:
		out := s.Clone()
		out.ClueCount++
		out.TurnCount++
		out.CardLock = false
		out.EventLog = append(out.EventLog, LogEntry{
			Type:   "clue",
			Number: out.ClueCount,
			Text:   a.Clue,
			Player: s.CurrentTurn,
		})
		out.CurrentTurn = s.CurrentTurn.Other()
		return out

	case TurnSwapped:
		out := s.Clone()
		out.CurrentTurn = s.CurrentTurn.Other()
		return out

	case CardsUnlocked:
		out := s.Clone()
		out.CardLock = false
		return out

	case GuessingEnded:
		out := s.Clone()
		out.CardLock = true
		out.EventLog = append(out.EventLog, LogEntry{
			Type: "system",
			Text: fmt.Sprintf("%s ended guessing.", a.ActorName),
		})
		return out

	case PlayerJoined:
		out := s.Clone()
		out.Player2ID = a.Player2ID
		out.Status = StatusInProgress
		return out

	case GameEnded:
		out := s.Clone()
		out.Status = a.Status
		out.EventLog = append(out.EventLog, LogEntry{
			Type: "system",
			Text: a.Reason,
		})
		return out

	case PresenceUpdated:
		out := s.Clone()
		if out.Presence == nil {
			out.Presence = make(map[string]PresenceInfo, len(a.Peers))
		}
		for id, info := range a.Peers {
			out.Presence[id] = info
		}
		return out
	}

	return s
}

func reduceCardClick(s State, a CardClicked) State {
	out := s.Clone()

	idx := -1
	for i, c := range out.Cards {
		if c.Position == a.Position {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}

	if a.Actor == Player2 {
		out.Cards[idx].P2Identified = true
	} else {
		out.Cards[idx].P1Identified = true
	}

	card := out.Cards[idx]
	code := CardCode(card, a.Actor)

	switch code {
	case CodeOperative:
		out.CorrectCount++
	case CodeInnocent, CodeAssassin:
		out.MistakeCount++
		out.CardLock = true
	}

	// A player who has found all 9 of the opponent's Operatives must pass
	// their remaining turns via clue.
	p1Found, p2Found := 0, 0
	for _, c := range out.Cards {
		if c.P2Identifier == Operative && c.P1Identified {
			p1Found++
		}
		if c.P1Identifier == Operative && c.P2Identified {
			p2Found++
		}
	}
	if p1Found >= OperativesPerPlayer && out.TurnLock == "" {
		out.TurnLock = Player1
	}
	if p2Found >= OperativesPerPlayer && out.TurnLock == "" {
		out.TurnLock = Player2
	}

	out.EventLog = append(out.EventLog, LogEntry{
		Type:   "card",
		Text:   fmt.Sprintf("%s guessed %s.", a.ActorName, card.Word),
		Code:   code,
		Player: a.Actor,
	})

	if status, reason, over := Outcome(out, code); over {
		out.Status = status
		out.EventLog = append(out.EventLog, LogEntry{
			Type: "system",
			Text: reason,
		})
	}

	return out
}

// BroadcastEffect asks the synchronization layer to relay the action to the
// peer, tagged with the wire event name.
type BroadcastEffect struct {
	Event   string
	Payload Action
}

// PersistEffect asks the synchronization layer to write the reduced state to
// the authoritative store. The record is the reducer's output verbatim;
// persistence never re-derives anything.
type PersistEffect struct {
	Record State
}

// Effects are the side effects owed after a reduction. Either pointer may be
// nil. Execution is the caller's concern: both are fire-and-forget,
// broadcast before persist, with no transaction linking them.
type Effects struct {
	Broadcast *BroadcastEffect
	Persist   *PersistEffect
}

// Apply reduces the action and reports the effects it owes. Hydration and
// presence merges are local-only; every rule-bearing action is both relayed
// and persisted.
func Apply(s State, action Action) (State, Effects) {
	next := Reduce(s, action)

	var event string
	switch action.(type) {
	case CardClicked:
		event = "card_click"
	case ClueSubmitted:
		event = "clue_submitted"
	case TurnSwapped:
		event = "turn_swapped"
	case CardsUnlocked:
		event = "cards_unlocked"
	case GuessingEnded:
		event = "guessing_ended"
	case PlayerJoined:
		event = "player_joined"
	case GameEnded:
		event = "game_ended"
	default:
		return next, Effects{}
	}

	return next, Effects{
		Broadcast: &BroadcastEffect{Event: event, Payload: action},
		Persist:   &PersistEffect{Record: next},
	}
}
