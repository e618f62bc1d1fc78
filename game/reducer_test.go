package game

import (
	"testing"
)

func TestClueSubmitted(t *testing.T) {
	s := testState()

	next := Reduce(s, ClueSubmitted{Clue: "Fruit"})

	if next.ClueCount != 1 || next.TurnCount != 1 {
		t.Fatalf("counts = %d/%d, want 1/1", next.ClueCount, next.TurnCount)
	}
	if next.CurrentTurn != Player2 {
		t.Fatalf("turn = %q, want player2", next.CurrentTurn)
	}
	if next.CardLock {
		t.Fatal("card lock not cleared by clue")
	}

	if len(next.EventLog) != 1 {
		t.Fatalf("log has %d entries, want 1", len(next.EventLog))
	}
	entry := next.EventLog[0]
	if entry.Type != "clue" || entry.Number != 1 || entry.Text != "Fruit" {
		t.Fatalf("unexpected log entry %+v", entry)
	}
	// The clue is attributed to the giver, not the new turn holder.
	if entry.Player != Player1 {
		t.Fatalf("clue attributed to %q, want player1", entry.Player)
	}
}

func TestCardClickedOperative(t *testing.T) {
	s := testState()
	s = Reduce(s, ClueSubmitted{Clue: "Fruit"})

	// Position 15 is Operative from player2's perspective, so player1's
	// click scores it.
	next := Reduce(s, CardClicked{Position: 15, Actor: Player1, ActorName: "Alice"})

	if next.CorrectCount != 1 {
		t.Fatalf("correct count = %d, want 1", next.CorrectCount)
	}
	if next.MistakeCount != 0 {
		t.Fatalf("mistake count = %d, want 0", next.MistakeCount)
	}
	if next.CardLock {
		t.Fatal("correct guess locked the board")
	}
	if next.Status != StatusInProgress {
		t.Fatalf("status = %q, want in_progress", next.Status)
	}

	card, _ := next.CardAt(15)
	if !card.P1Identified || card.P2Identified {
		t.Fatalf("identified flags = %v/%v, want true/false", card.P1Identified, card.P2Identified)
	}

	entry := next.EventLog[len(next.EventLog)-1]
	if entry.Type != "card" || entry.Code != CodeOperative || entry.Player != Player1 {
		t.Fatalf("unexpected log entry %+v", entry)
	}
	if entry.Text != "Alice guessed word15." {
		t.Fatalf("log text = %q", entry.Text)
	}
}

func TestCardClickedAssassin(t *testing.T) {
	s := testState()
	s = Reduce(s, ClueSubmitted{Clue: "Fruit"})
	s.CurrentTurn = Player1

	// Position 6 is Assassin from player2's perspective.
	next := Reduce(s, CardClicked{Position: 6, Actor: Player1, ActorName: "Alice"})

	if next.MistakeCount != 1 {
		t.Fatalf("mistake count = %d, want 1", next.MistakeCount)
	}
	if !next.CardLock {
		t.Fatal("assassin guess left the board unlocked")
	}
	if next.Status != StatusLoss {
		t.Fatalf("status = %q, want loss", next.Status)
	}

	last := next.EventLog[len(next.EventLog)-1]
	if last.Type != "system" || last.Text != ReasonAssassin {
		t.Fatalf("unexpected system entry %+v", last)
	}
}

func TestCardClickedInnocent(t *testing.T) {
	s := testState()
	s = Reduce(s, ClueSubmitted{Clue: "Fruit"})

	// Position 9 reads Innocent for player1's clicks.
	next := Reduce(s, CardClicked{Position: 9, Actor: Player1, ActorName: "Alice"})

	if next.CorrectCount != 0 || next.MistakeCount != 1 {
		t.Fatalf("counts = %d/%d, want 0/1", next.CorrectCount, next.MistakeCount)
	}
	if !next.CardLock {
		t.Fatal("mistake did not lock the board")
	}
	if next.Status != StatusInProgress {
		t.Fatalf("status = %q, want in_progress", next.Status)
	}
}

func TestWinCheckedBeforeLimits(t *testing.T) {
	s := testState()
	s = Reduce(s, ClueSubmitted{Clue: "Fruit"})
	s.CorrectCount = WinTarget - 1
	s.TurnCount = s.TurnLimit
	s.MistakeCount = s.MistakeLimit - 1

	next := Reduce(s, CardClicked{Position: 15, Actor: Player1, ActorName: "Alice"})

	if next.Status != StatusWin {
		t.Fatalf("status = %q, want win despite tripped turn limit", next.Status)
	}
	last := next.EventLog[len(next.EventLog)-1]
	if last.Text != ReasonWin {
		t.Fatalf("reason = %q, want %q", last.Text, ReasonWin)
	}
}

func TestBothLimitsMessage(t *testing.T) {
	s := testState()
	s = Reduce(s, ClueSubmitted{Clue: "Fruit"})
	s.TurnCount = s.TurnLimit
	s.MistakeCount = s.MistakeLimit - 1

	next := Reduce(s, CardClicked{Position: 9, Actor: Player1, ActorName: "Alice"})

	if next.Status != StatusLoss {
		t.Fatalf("status = %q, want loss", next.Status)
	}
	last := next.EventLog[len(next.EventLog)-1]
	if last.Text != ReasonBothLimits {
		t.Fatalf("reason = %q, want %q", last.Text, ReasonBothLimits)
	}
}

func TestTurnLockDerived(t *testing.T) {
	s := testState()
	s.ClueCount = 1
	s.CardLock = false

	// Player1 has found 8 of player2's 9 Operatives.
	marked := 0
	for i := range s.Cards {
		if s.Cards[i].P2Identifier == Operative && marked < OperativesPerPlayer-1 {
			s.Cards[i].P1Identified = true
			marked++
		}
	}
	s.CorrectCount = marked

	if s.TurnLock != "" {
		t.Fatalf("turn lock = %q before the final find", s.TurnLock)
	}

	// Find the 9th.
	var lastPos int
	for _, c := range s.Cards {
		if c.P2Identifier == Operative && !c.P1Identified {
			lastPos = c.Position
			break
		}
	}

	next := Reduce(s, CardClicked{Position: lastPos, Actor: Player1, ActorName: "Alice"})
	if next.TurnLock != Player1 {
		t.Fatalf("turn lock = %q, want player1", next.TurnLock)
	}

	// Further clicks by the locked player are rejected upstream.
	if err := ValidateCardClick(next, "alice", 21); err == nil {
		t.Fatal("turn-locked player's click accepted")
	}
	if err := ValidateCardClick(next, "bob", 21); err != nil {
		t.Fatalf("partner's click rejected: %v", err)
	}
}

func TestGuessingEnded(t *testing.T) {
	s := testState()
	s.CardLock = false

	next := Reduce(s, GuessingEnded{ActorName: "Alice"})

	if !next.CardLock {
		t.Fatal("ending guessing did not lock the board")
	}
	last := next.EventLog[len(next.EventLog)-1]
	if last.Type != "system" || last.Text != "Alice ended guessing." {
		t.Fatalf("unexpected log entry %+v", last)
	}
}

func TestManualOverrides(t *testing.T) {
	s := testState()

	swapped := Reduce(s, TurnSwapped{})
	if swapped.CurrentTurn != Player2 {
		t.Fatalf("turn = %q after swap, want player2", swapped.CurrentTurn)
	}

	unlocked := Reduce(s, CardsUnlocked{})
	if unlocked.CardLock {
		t.Fatal("cards still locked after unlock")
	}
}

func TestPlayerJoined(t *testing.T) {
	s := NewState("g1", "alice", 9, 9, nil)

	next := Reduce(s, PlayerJoined{Player2ID: "bob"})

	if next.Player2ID != "bob" {
		t.Fatalf("player2 = %q, want bob", next.Player2ID)
	}
	if next.Status != StatusInProgress {
		t.Fatalf("status = %q, want in_progress", next.Status)
	}
}

func TestGameEnded(t *testing.T) {
	s := testState()

	next := Reduce(s, GameEnded{Status: StatusLoss, Reason: ReasonForfeit})

	if next.Status != StatusLoss {
		t.Fatalf("status = %q, want loss", next.Status)
	}
	last := next.EventLog[len(next.EventLog)-1]
	if last.Type != "system" || last.Text != ReasonForfeit {
		t.Fatalf("unexpected log entry %+v", last)
	}
}

func TestPresenceUpdated(t *testing.T) {
	s := testState()

	next := Reduce(s, PresenceUpdated{Peers: map[string]PresenceInfo{
		"alice": {Status: PresenceOnline, Name: "Alice"},
	}})
	next = Reduce(next, PresenceUpdated{Peers: map[string]PresenceInfo{
		"bob": {Status: PresenceIdle, Name: "Bob"},
	}})

	if len(next.Presence) != 2 {
		t.Fatalf("presence has %d peers, want 2", len(next.Presence))
	}
	if next.Presence["alice"].Status != PresenceOnline {
		t.Fatalf("alice status = %q", next.Presence["alice"].Status)
	}

	// Merges overwrite per key.
	next = Reduce(next, PresenceUpdated{Peers: map[string]PresenceInfo{
		"alice": {Status: PresenceOffline, Name: "Alice"},
	}})
	if next.Presence["alice"].Status != PresenceOffline {
		t.Fatalf("alice status = %q after merge", next.Presence["alice"].Status)
	}
}

func TestInitGameOverwrites(t *testing.T) {
	s := testState()
	s = Reduce(s, PresenceUpdated{Peers: map[string]PresenceInfo{
		"alice": {Status: PresenceOnline, Name: "Alice"},
	}})

	record := NewState("g2", "carol", 5, 3, []string{"apple"})
	next := Reduce(s, InitGame{Record: record})

	if next.ID != "g2" || next.Player1ID != "carol" || next.TurnLimit != 5 {
		t.Fatalf("record fields not overwritten: %+v", next)
	}
	// Presence is channel state, not record state; a reload keeps it.
	if next.Presence["alice"].Name != "Alice" {
		t.Fatal("reload dropped presence")
	}
}

type bogusAction struct{}

func (bogusAction) isAction() {}

func TestUnknownActionIsNoOp(t *testing.T) {
	s := testState()

	next := Reduce(s, bogusAction{})

	if next.ClueCount != s.ClueCount || next.Status != s.Status || len(next.EventLog) != len(s.EventLog) {
		t.Fatal("unknown action changed state")
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := testState()
	s.ClueCount = 1
	s.CardLock = false

	_ = Reduce(s, CardClicked{Position: 15, Actor: Player1, ActorName: "Alice"})

	card, _ := s.CardAt(15)
	if card.P1Identified {
		t.Fatal("Reduce mutated the input state's cards")
	}
	if len(s.EventLog) != 0 {
		t.Fatal("Reduce mutated the input state's log")
	}
}

func TestApplyEffects(t *testing.T) {
	s := testState()
	s = Reduce(s, ClueSubmitted{Clue: "Fruit"})

	next, effects := Apply(s, CardClicked{Position: 15, Actor: Player1, ActorName: "Alice"})

	if effects.Broadcast == nil || effects.Broadcast.Event != "card_click" {
		t.Fatalf("broadcast effect = %+v, want card_click", effects.Broadcast)
	}
	if effects.Persist == nil {
		t.Fatal("no persist effect for a card click")
	}
	// Persistence is a projection of the reducer output, never a second
	// derivation.
	if effects.Persist.Record.CorrectCount != next.CorrectCount {
		t.Fatal("persist record disagrees with reduced state")
	}

	_, effects = Apply(s, PresenceUpdated{Peers: nil})
	if effects.Broadcast != nil || effects.Persist != nil {
		t.Fatal("presence merge owes no effects")
	}

	_, effects = Apply(s, InitGame{Record: s})
	if effects.Broadcast != nil || effects.Persist != nil {
		t.Fatal("hydration owes no effects")
	}
}
