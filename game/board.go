package game

import (
	"errors"
	"math/rand/v2"
)

// ErrInsufficientVocabulary means too few unused words remain to deal a full
// board. Fatal to game creation; the caller must not start the game.
var ErrInsufficientVocabulary = errors.New("not enough unused words to build a board")

// NewBoard deals a fresh 25-card board, excluding previously-used words.
//
// Every board satisfies: exactly 9 Operative identifiers per player, exactly
// 3 Assassin identifiers per player, exactly 3 cards Operative for both
// players, positions a permutation of 0..24, and unique words disjoint from
// the exclusion set.
func NewBoard(previousWords []string) ([]Card, error) {
	words, err := drawWords(previousWords)
	if err != nil {
		return nil, err
	}

	pairs := identifierPairs()

	positions := make([]int, BoardSize)
	for i := range positions {
		positions[i] = i
	}
	rand.Shuffle(len(positions), func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})

	cards := make([]Card, BoardSize)
	for i := range cards {
		cards[i] = Card{
			Position:     positions[i],
			Word:         words[i],
			P1Identifier: pairs[i][0],
			P2Identifier: pairs[i][1],
		}
	}

	return cards, nil
}

// drawWords shuffles the vocabulary minus the exclusion set and takes the
// first 25.
func drawWords(previousWords []string) ([]string, error) {
	used := make(map[string]bool, len(previousWords))
	for _, w := range previousWords {
		used[w] = true
	}

	available := make([]string, 0, len(nouns))
	for _, w := range nouns {
		if !used[w] {
			available = append(available, w)
		}
	}

	if len(available) < BoardSize {
		return nil, ErrInsufficientVocabulary
	}

	rand.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	return available[:BoardSize], nil
}

// identifierPairs builds the 25 (player1, player2) identifier pairs.
//
// The first 9 slots are fixed by category: 3 shared Operatives, 3 player1
// Assassins, 3 player2 Assassins, with the open half of each Assassin pair
// picked at random. The remaining 16 slots are filled left to right until
// each player holds exactly 9 Operatives; a slot never hands Operative to
// both players, otherwise the board would exceed 3 double agents.
func identifierPairs() [BoardSize][2]Identifier {
	pick := func() Identifier {
		if rand.IntN(2) == 0 {
			return Operative
		}
		return Innocent
	}

	var pairs [BoardSize][2]Identifier
	for i := 0; i < DoubleAgents; i++ {
		pairs[i] = [2]Identifier{Operative, Operative}
	}
	for i := 3; i < 3+AssassinsPerPlayer; i++ {
		pairs[i] = [2]Identifier{Assassin, pick()}
	}
	for i := 6; i < 6+AssassinsPerPlayer; i++ {
		pairs[i] = [2]Identifier{pick(), Assassin}
	}

	p1Ops, p2Ops := 0, 0
	for i := 0; i < 9; i++ {
		if pairs[i][0] == Operative {
			p1Ops++
		}
		if pairs[i][1] == Operative {
			p2Ops++
		}
	}

	for i := 9; i < BoardSize; i++ {
		if p1Ops < OperativesPerPlayer {
			pairs[i] = [2]Identifier{Operative, Innocent}
			p1Ops++
			continue
		}

		pairs[i][0] = Innocent
		if p2Ops < OperativesPerPlayer {
			pairs[i][1] = Operative
			p2Ops++
		} else {
			pairs[i][1] = Innocent
		}
	}

	return pairs
}
