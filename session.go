package main

import (
	"errors"
	"fmt"

	"github.com/Seednode/doubleagent/game"
	"github.com/google/uuid"
)

// Rejections raised by the session before any action reaches the reducer.
// Like the rule engine's messages, they are shown to the acting player only.
var (
	errNotAPlayer = errors.New("You are not a player in this game.")
	errGameOver   = errors.New("The game has already ended.")
	errNotStarted = errors.New("Waiting for a second player to join.")
)

// Session is the synchronization layer for one game: it validates incoming
// actions, applies the reducer, and reports the broadcast and persist
// effects owed. It performs no I/O itself; the hub executes the effects,
// broadcast first, then a fire-and-forget store write.
type Session struct {
	state game.State
}

// newSession wraps a hydrated record. Loading an existing record is the
// full-refresh recovery path, so it goes through InitGame like any other
// hydration.
func newSession(record game.State) *Session {
	s := &Session{}
	s.state = game.Reduce(s.state, game.InitGame{Record: record})
	return s
}

// State returns a snapshot safe for the caller to hold across actions.
func (s *Session) State() game.State {
	return s.state.Clone()
}

func (s *Session) apply(action game.Action) game.Effects {
	next, effects := game.Apply(s.state, action)
	s.state = next
	return effects
}

// Join seats playerID as player2 and deals the board. The board is generated
// lazily here, not at creation, so the creator never pays for a board nobody
// joins. Returns false if the session has no open seat for this player.
func (s *Session) Join(playerID string) (game.Effects, bool, error) {
	if s.state.Status != game.StatusWaiting {
		return game.Effects{}, false, nil
	}
	if playerID == "" || playerID == s.state.Player1ID || s.state.Player2ID != "" {
		return game.Effects{}, false, nil
	}

	cards, err := game.NewBoard(s.state.PreviousWords)
	if err != nil {
		return game.Effects{}, false, err
	}

	withBoard := s.state.Clone()
	withBoard.Cards = cards
	s.state = game.Reduce(s.state, game.InitGame{Record: withBoard})

	return s.apply(game.PlayerJoined{Player2ID: playerID}), true, nil
}

// CardClick validates and applies a guess at the given board position.
func (s *Session) CardClick(playerID, playerName string, position int) (game.Effects, error) {
	slot, err := s.actingSlot(playerID)
	if err != nil {
		return game.Effects{}, err
	}

	if !game.ValidateTurn(s.state, playerID) {
		return game.Effects{}, s.notYourTurn()
	}

	if err := game.ValidateCardClick(s.state, playerID, position); err != nil {
		return game.Effects{}, err
	}

	return s.apply(game.CardClicked{
		Position:  position,
		Actor:     slot,
		ActorName: playerName,
	}), nil
}

// Clue validates and applies a clue, passing the turn to the partner.
func (s *Session) Clue(playerID, clue string) (game.Effects, error) {
	if _, err := s.actingSlot(playerID); err != nil {
		return game.Effects{}, err
	}

	if !game.ValidateTurn(s.state, playerID) {
		return game.Effects{}, s.notYourTurn()
	}

	if err := game.ValidateClue(clue, s.state.Words()); err != nil {
		return game.Effects{}, err
	}

	return s.apply(game.ClueSubmitted{Clue: clue}), nil
}

// SwapTurn flips the turn without a clue.
func (s *Session) SwapTurn(playerID string) (game.Effects, error) {
	if _, err := s.actingSlot(playerID); err != nil {
		return game.Effects{}, err
	}

	return s.apply(game.TurnSwapped{}), nil
}

// UnlockCards clears the board lock.
func (s *Session) UnlockCards(playerID string) (game.Effects, error) {
	if _, err := s.actingSlot(playerID); err != nil {
		return game.Effects{}, err
	}

	return s.apply(game.CardsUnlocked{}), nil
}

// EndGuessing lets the acting player stop guessing early.
func (s *Session) EndGuessing(playerID, playerName string) (game.Effects, error) {
	if _, err := s.actingSlot(playerID); err != nil {
		return game.Effects{}, err
	}

	if !game.ValidateTurn(s.state, playerID) {
		return game.Effects{}, s.notYourTurn()
	}

	return s.apply(game.GuessingEnded{ActorName: playerName}), nil
}

// EndGame forfeits.
func (s *Session) EndGame(playerID string) (game.Effects, error) {
	if s.state.SlotOf(playerID) == "" {
		return game.Effects{}, errNotAPlayer
	}
	if s.state.Status.Terminal() {
		return game.Effects{}, errGameOver
	}

	return s.apply(game.GameEnded{
		Status: game.StatusLoss,
		Reason: game.ReasonForfeit,
	}), nil
}

// MergePresence folds a peer's presence signal into state. Best-effort and
// informational; it never gates gameplay and owes no effects.
func (s *Session) MergePresence(playerID string, info game.PresenceInfo) map[string]game.PresenceInfo {
	s.state = game.Reduce(s.state, game.PresenceUpdated{
		Peers: map[string]game.PresenceInfo{playerID: info},
	})

	// Copied, since the caller hands the map to a marshaling goroutine.
	peers := make(map[string]game.PresenceInfo, len(s.state.Presence))
	for id, p := range s.state.Presence {
		peers[id] = p
	}
	return peers
}

// PlayAgain spawns a fresh game from a finished one: same seats with the
// initiator as player1, same limits, and the 25 words just used carried into
// the exclusion list. The new record shares nothing else with the old game.
func (s *Session) PlayAgain(playerID string) (game.State, error) {
	slot := s.state.SlotOf(playerID)
	if slot == "" {
		return game.State{}, errNotAPlayer
	}
	if !s.state.Status.Terminal() {
		return game.State{}, errors.New("The game is still in progress.")
	}

	opponentID := s.state.Player2ID
	if slot == game.Player2 {
		opponentID = s.state.Player1ID
	}

	previous := s.state.Words()

	next := game.NewState(uuid.NewString(), playerID, s.state.TurnLimit, s.state.MistakeLimit, previous)
	cards, err := game.NewBoard(previous)
	if err != nil {
		return game.State{}, err
	}
	next.Cards = cards
	next.Player2ID = opponentID
	next.Status = game.StatusInProgress

	return next, nil
}

func (s *Session) actingSlot(playerID string) (game.Slot, error) {
	slot := s.state.SlotOf(playerID)
	switch {
	case slot == "":
		return "", errNotAPlayer
	case s.state.Status.Terminal():
		return "", errGameOver
	case s.state.Status == game.StatusWaiting:
		return "", errNotStarted
	}
	return slot, nil
}

func (s *Session) notYourTurn() error {
	return fmt.Errorf("Not your turn. Current player is: %s", s.state.CurrentTurn)
}
