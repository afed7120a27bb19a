package epname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchConfidenceString(t *testing.T) {
	tests := []struct {
		conf     MatchConfidence
		expected string
	}{
		{ConfidenceHigh, "high"},
		{ConfidenceMedium, "medium"},
		{ConfidenceLow, "low"},
		{ConfidenceNone, "none"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.conf.String())
		})
	}
}

func TestMatchShow(t *testing.T) {
	candidates := []string{"Show Name", "Other Series", "Something Else"}

	t.Run("exact match", func(t *testing.T) {
		m := MatchShow("Show Name", candidates)
		assert.Equal(t, "Show Name", m.Title)
		assert.Equal(t, ConfidenceHigh, m.Confidence)
	})

	t.Run("separator variants", func(t *testing.T) {
		m := MatchShow("show name", candidates)
		assert.Equal(t, "Show Name", m.Title)
		assert.Equal(t, ConfidenceHigh, m.Confidence)
	})

	t.Run("no candidates", func(t *testing.T) {
		m := MatchShow("Show Name", nil)
		assert.Equal(t, ConfidenceNone, m.Confidence)
		assert.Empty(t, m.Title)
	})

	t.Run("unrelated name", func(t *testing.T) {
		m := MatchShow("zzzz qqqq", candidates)
		assert.Equal(t, ConfidenceNone, m.Confidence)
		assert.Empty(t, m.Title)
	})
}

func TestGrouperAssign(t *testing.T) {
	var g Grouper

	assert.Equal(t, "Show Name", g.Assign("Show Name"))
	// Same show, different spelling folds into the first-seen group.
	assert.Equal(t, "Show Name", g.Assign("show name"))
	// A different show starts a new group.
	assert.Equal(t, "Unrelated Series", g.Assign("Unrelated Series"))
	// Empty names never form a group.
	assert.Equal(t, "", g.Assign(""))

	assert.Equal(t, []string{"Show Name", "Unrelated Series"}, g.Titles())
}
