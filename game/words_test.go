package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchparty/domain"
)

func TestStaticWords(t *testing.T) {
	for _, difficulty := range []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard} {
		words, err := StaticWords{}.GetWordsFor(difficulty)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(words), wordChoicesPerTurn)
		assert.Equal(t, len(words), len(distinct(words)))
	}

	_, err := StaticWords{}.GetWordsFor("nightmare")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSampleWords(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	words := []string{"cat", "dog", "tree", "sun", "fish"}
	for i := 0; i < 50; i++ {
		sample, err := sampleWords(words, 3, rng)
		require.NoError(t, err)
		require.Len(t, sample, 3)
		assert.Len(t, distinct(sample), 3, "sample contains duplicates: %v", sample)
		for _, w := range sample {
			assert.Contains(t, words, w)
		}
	}
}

func TestSampleWords_NotEnough(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	_, err := sampleWords([]string{"cat", "cat", "cat", "dog"}, 3, rng)
	assert.ErrorIs(t, err, domain.ErrNotEnoughWords)
}

func TestFallbackWords(t *testing.T) {
	primary := &MockWordProvider{}
	primary.On("GetWordsFor", domain.DifficultyEasy).Return([]string{"only", "two"}, nil)

	words, err := FallbackWords{Primary: primary}.GetWordsFor(domain.DifficultyEasy)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(words), wordChoicesPerTurn, "short primary must fall back to static lists")
}
