package game

import (
	"fmt"
	"math/rand"

	"sketchparty/domain"
)

const wordChoicesPerTurn = 3

// StaticWords is the built-in word list, used directly or as a fallback when
// a database-backed provider comes up short.
type StaticWords struct{}

var staticWordLists = map[domain.Difficulty][]string{
	domain.DifficultyEasy: {
		"cat", "dog", "tree", "sun", "fish", "star", "ball", "hat",
		"book", "cup", "moon", "bird", "shoe", "door", "apple",
	},
	domain.DifficultyMedium: {
		"house", "car", "boat", "guitar", "bridge", "rocket", "candle",
		"ladder", "camera", "island", "pirate", "rainbow", "dragon",
		"wizard", "tractor",
	},
	domain.DifficultyHard: {
		"airplane", "mountain", "castle", "lighthouse", "submarine",
		"telescope", "waterfall", "scarecrow", "orchestra", "labyrinth",
		"parachute", "aqueduct", "hurricane", "microscope", "catapult",
	},
}

func (StaticWords) GetWordsFor(difficulty domain.Difficulty) ([]string, error) {
	words, ok := staticWordLists[difficulty]
	if !ok {
		return nil, fmt.Errorf("%w: difficulty %q", domain.ErrInvalidInput, difficulty)
	}
	out := make([]string, len(words))
	copy(out, words)
	return out, nil
}

// FallbackWords tries a primary provider and falls back to the static lists
// when the primary fails or returns fewer than three distinct words.
type FallbackWords struct {
	Primary WordProvider
}

func (f FallbackWords) GetWordsFor(difficulty domain.Difficulty) ([]string, error) {
	if f.Primary != nil {
		words, err := f.Primary.GetWordsFor(difficulty)
		if err == nil && len(distinct(words)) >= wordChoicesPerTurn {
			return words, nil
		}
	}
	return StaticWords{}.GetWordsFor(difficulty)
}

func distinct(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := words[:0:0]
	for _, w := range words {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// sampleWords picks n distinct words uniformly without replacement.
func sampleWords(words []string, n int, rng *rand.Rand) ([]string, error) {
	pool := distinct(words)
	if len(pool) < n {
		return nil, fmt.Errorf("%w: have %d, need %d", domain.ErrNotEnoughWords, len(pool), n)
	}
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool[:n], nil
}
