package game

import (
	"errors"
	"strings"
)

// Validation rejections, surfaced verbatim to the acting player. They never
// reach the opponent and never change state.
var (
	errCardNotFound      = errors.New("Card not found.")
	errCardsLocked       = errors.New("Cards locked. Please enter a clue.")
	errTurnLocked        = errors.New("You have already identified all of your partner's cards. Please enter a clue.")
	errAlreadyIdentified = errors.New("Card has already been identified.")
	errEmptyClue         = errors.New("Please enter a clue.")
	errClueMatchesCard   = errors.New("Your clue matches one of the cards shown. Please enter a new clue.")
)

// ValidateTurn reports whether the acting player occupies the slot whose
// turn it is.
func ValidateTurn(s State, playerID string) bool {
	slot := s.SlotOf(playerID)
	return slot != "" && slot == s.CurrentTurn
}

// ValidateCardClick checks whether the acting player may guess the card at
// the given position. A nil return means the click is legal; otherwise the
// returned error carries the user-facing reason.
func ValidateCardClick(s State, playerID string, position int) error {
	card, ok := s.CardAt(position)
	if !ok {
		return errCardNotFound
	}

	// No guessing before the round's clue, or while the board is locked.
	if s.CardLock || s.ClueCount == 0 {
		return errCardsLocked
	}

	slot := s.SlotOf(playerID)
	if s.TurnLock != "" && s.TurnLock == slot {
		return errTurnLocked
	}

	identified := card.P1Identified
	if slot == Player2 {
		identified = card.P2Identified
	}
	if identified {
		return errAlreadyIdentified
	}

	return nil
}

// ValidateClue rejects empty clues and clues that name or hint a literal
// board word. The comparison covers the whole clue plus its prefix before
// the first space, comma, or hyphen, so "apple-pie" still collides with
// "apple".
func ValidateClue(clue string, boardWords []string) error {
	normalized := strings.ToLower(strings.TrimSpace(clue))
	if normalized == "" {
		return errEmptyClue
	}

	parts := []string{
		normalized,
		splitFirst(normalized, " "),
		splitFirst(normalized, ","),
		splitFirst(normalized, "-"),
	}

	for _, word := range boardWords {
		lower := strings.ToLower(word)
		for _, p := range parts {
			if p == lower {
				return errClueMatchesCard
			}
		}
	}

	return nil
}

func splitFirst(s, sep string) string {
	before, _, _ := strings.Cut(s, sep)
	return before
}

// CardCode resolves a click against the opponent's identifier for that card.
// Player1 is guessing what player2 was cluing toward, so player1's clicks
// are scored by p2_identifier, and vice versa.
func CardCode(card Card, actor Slot) Code {
	identifier := card.P2Identifier
	if actor == Player2 {
		identifier = card.P1Identifier
	}

	switch identifier {
	case Operative:
		return CodeOperative
	case Innocent:
		return CodeInnocent
	case Assassin:
		return CodeAssassin
	}
	return ""
}

// Outcome reasons, written to the event log as system entries.
const (
	ReasonWin        = "Congrats! You have identified all of the agents."
	ReasonAssassin   = "Assassin Identified."
	ReasonBothLimits = "Turn limit and mistake limit reached."
	ReasonTurnLimit  = "Turn limit reached."
	ReasonMistakes   = "Mistake limit reached."
	ReasonForfeit    = "Game ended by player."
)

// Outcome evaluates whether the game just ended, given the code of the most
// recent click. Checks run in a fixed order: win, then assassin, then both
// limits, then each limit alone. The win check runs first so reaching the
// target on a limit-tripping click still counts as a win.
func Outcome(s State, lastCode Code) (Status, string, bool) {
	switch {
	case s.CorrectCount >= WinTarget:
		return StatusWin, ReasonWin, true
	case lastCode == CodeAssassin:
		return StatusLoss, ReasonAssassin, true
	case s.TurnCount >= s.TurnLimit && s.MistakeCount >= s.MistakeLimit:
		return StatusLoss, ReasonBothLimits, true
	case s.TurnCount >= s.TurnLimit:
		return StatusLoss, ReasonTurnLimit, true
	case s.MistakeCount >= s.MistakeLimit:
		return StatusLoss, ReasonMistakes, true
	}
	return "", "", false
}
