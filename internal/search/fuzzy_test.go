package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuzzyScoreExactBeatsPrefixBeatsSubstringBeatsSubsequence(t *testing.T) {
	exact := fuzzyScore("calc", "calc")
	prefix := fuzzyScore("calc", "calculator")
	substring := fuzzyScore("term", "macterminal")
	subsequence := fuzzyScore("cal", "compact list")

	assert.Greater(t, exact, prefix)
	assert.Greater(t, prefix, substring)
	assert.Greater(t, substring, subsequence)
	assert.Greater(t, subsequence, 0.0)
}

func TestFuzzyScoreIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, fuzzyScore("Calc", "calc"), fuzzyScore("calc", "Calc"))
}

func TestFuzzyScoreEmptyQueryScoresZero(t *testing.T) {
	assert.Equal(t, 0.0, fuzzyScore("", "anything"))
	assert.Equal(t, 0.0, fuzzyScore("   ", "anything"))
}

func TestFuzzyScoreNoMatchScoresZero(t *testing.T) {
	assert.Equal(t, 0.0, fuzzyScore("xyz", "abc"))
}

func TestFuzzyScoreEarlierSubstringScoresHigher(t *testing.T) {
	early := fuzzyScore("cat", "category tree")
	late := fuzzyScore("cat", "concatenate")
	assert.Greater(t, early, late)
}

func TestFuzzyScoreDenserSubsequenceScoresHigher(t *testing.T) {
	dense := fuzzyScore("abc", "axbxcxxxx")
	sparse := fuzzyScore("abc", "a----b----c----")
	assert.Greater(t, dense, sparse)
}

func TestBestFieldScorePrefersKeywordOverName(t *testing.T) {
	best := bestFieldScore("term", "My App", []string{"terminal", "shell"})
	assert.Greater(t, best, 0.0)
	assert.Equal(t, fuzzyScore("term", "terminal"), best)
}
