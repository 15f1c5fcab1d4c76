package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexicalIndex_ScoresExactMatch(t *testing.T) {
	corpus := []string{
		"bánh mì thịt nướng",
		"cơm tấm sườn bì",
		"phở bò tái nạm",
	}
	idx := NewLexicalIndex(corpus, DefaultLexicalOptions())

	scores := idx.Scores("phở bò tái nạm")
	require.Len(t, scores, 3)

	// The identical document scores highest, at cosine 1
	assert.InDelta(t, 1.0, scores[2], 1e-9)
	assert.Greater(t, scores[2], scores[0])
	assert.Greater(t, scores[2], scores[1])

	for _, score := range scores {
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0+1e-9)
	}
}

func TestLexicalIndex_PartialOverlap(t *testing.T) {
	corpus := []string{
		"cà phê sữa đá ngon",
		"trà sữa trân châu",
	}
	idx := NewLexicalIndex(corpus, DefaultLexicalOptions())

	scores := idx.Scores("cà phê")
	assert.Greater(t, scores[0], 0.0)
	assert.Greater(t, scores[0], scores[1])
}

func TestLexicalIndex_BigramsDiscriminate(t *testing.T) {
	// Both docs share all unigrams; only word order differs
	corpus := []string{
		"gà nướng muối ớt",
		"ớt muối nướng gà",
	}
	idx := NewLexicalIndex(corpus, DefaultLexicalOptions())

	scores := idx.Scores("gà nướng")
	assert.Greater(t, scores[0], scores[1])
}

func TestLexicalIndex_MinDocCountPruning(t *testing.T) {
	corpus := []string{
		"shared unique1",
		"shared unique2",
	}

	full := NewLexicalIndex(corpus, DefaultLexicalOptions())
	pruned := NewLexicalIndex(corpus, LexicalOptions{MinDocCount: 2, MaxDocFraction: 1.0})

	assert.Greater(t, full.VocabularySize(), pruned.VocabularySize())

	// Only "shared" survives pruning
	scores := pruned.Scores("unique1")
	assert.Zero(t, scores[0])
	assert.Zero(t, scores[1])
}

func TestLexicalIndex_MaxDocFractionPruning(t *testing.T) {
	corpus := []string{
		"common rare1",
		"common rare2",
		"common rare3",
	}
	pruned := NewLexicalIndex(corpus, LexicalOptions{MinDocCount: 1, MaxDocFraction: 0.5})

	// "common" occurs in every document and is excluded
	scores := pruned.Scores("common")
	for _, score := range scores {
		assert.Zero(t, score)
	}

	scores = pruned.Scores("rare2")
	assert.Greater(t, scores[1], 0.0)
}

func TestLexicalIndex_EmptyCorpus(t *testing.T) {
	idx := NewLexicalIndex(nil, DefaultLexicalOptions())
	assert.Zero(t, idx.VocabularySize())
	assert.Empty(t, idx.Scores("anything"))
}

func TestLexicalIndex_UnknownQueryTerms(t *testing.T) {
	idx := NewLexicalIndex([]string{"bún chả hà nội"}, DefaultLexicalOptions())

	scores := idx.Scores("pizza margherita")
	require.Len(t, scores, 1)
	assert.Zero(t, scores[0])
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Phở Bò, Tái!", []string{"phở", "bò", "tái"}},
		{"a b c", []string{}},
		{"bánh-mì 24h", []string{"bánh", "mì", "24h"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		assert.ElementsMatch(t, tt.expected, tokenize(tt.input), "input %q", tt.input)
	}
}

func TestNgrams(t *testing.T) {
	terms := ngrams([]string{"cà", "phê", "đá"})
	assert.Equal(t, []string{"cà", "phê", "đá", "cà phê", "phê đá"}, terms)
}
