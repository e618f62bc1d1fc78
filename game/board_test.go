package game

import (
	"errors"
	"testing"
)

func TestBoardInvariants(t *testing.T) {
	for i := 0; i < 100; i++ {
		cards, err := NewBoard(nil)
		if err != nil {
			t.Fatalf("NewBoard failed: %v", err)
		}
		if len(cards) != BoardSize {
			t.Fatalf("board has %d cards, want %d", len(cards), BoardSize)
		}

		seenPositions := make(map[int]bool, BoardSize)
		seenWords := make(map[string]bool, BoardSize)
		p1Ops, p2Ops, p1Kill, p2Kill, double := 0, 0, 0, 0, 0

		for _, c := range cards {
			if c.Position < 0 || c.Position >= BoardSize {
				t.Fatalf("position %d out of range", c.Position)
			}
			if seenPositions[c.Position] {
				t.Fatalf("duplicate position %d", c.Position)
			}
			seenPositions[c.Position] = true

			if seenWords[c.Word] {
				t.Fatalf("duplicate word %q", c.Word)
			}
			seenWords[c.Word] = true

			if c.P1Identified || c.P2Identified {
				t.Fatalf("fresh card %q already identified", c.Word)
			}

			if c.P1Identifier == Operative {
				p1Ops++
			}
			if c.P2Identifier == Operative {
				p2Ops++
			}
			if c.P1Identifier == Assassin {
				p1Kill++
			}
			if c.P2Identifier == Assassin {
				p2Kill++
			}
			if c.P1Identifier == Operative && c.P2Identifier == Operative {
				double++
			}
		}

		if p1Ops != OperativesPerPlayer || p2Ops != OperativesPerPlayer {
			t.Fatalf("operative counts = %d/%d, want %d each", p1Ops, p2Ops, OperativesPerPlayer)
		}
		if p1Kill != AssassinsPerPlayer || p2Kill != AssassinsPerPlayer {
			t.Fatalf("assassin counts = %d/%d, want %d each", p1Kill, p2Kill, AssassinsPerPlayer)
		}
		if double != DoubleAgents {
			t.Fatalf("double agent count = %d, want %d", double, DoubleAgents)
		}
	}
}

func TestBoardExcludesPreviousWords(t *testing.T) {
	previous := nouns[:30]
	excluded := make(map[string]bool, len(previous))
	for _, w := range previous {
		excluded[w] = true
	}

	for i := 0; i < 20; i++ {
		cards, err := NewBoard(previous)
		if err != nil {
			t.Fatalf("NewBoard failed: %v", err)
		}
		for _, c := range cards {
			if excluded[c.Word] {
				t.Fatalf("board reused excluded word %q", c.Word)
			}
		}
	}
}

func TestBoardInsufficientVocabulary(t *testing.T) {
	// Leave only 24 candidates.
	previous := nouns[:len(nouns)-24]

	_, err := NewBoard(previous)
	if !errors.Is(err, ErrInsufficientVocabulary) {
		t.Fatalf("err = %v, want ErrInsufficientVocabulary", err)
	}
}
