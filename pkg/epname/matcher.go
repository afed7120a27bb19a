package epname

import (
	"github.com/hbollon/go-edlib"
)

// MatchConfidence represents the confidence level of a show-name match.
type MatchConfidence int

const (
	ConfidenceNone   MatchConfidence = iota // Score < 0.70
	ConfidenceLow                           // Score >= 0.70
	ConfidenceMedium                        // Score >= 0.85
	ConfidenceHigh                          // Score >= 0.95
)

func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// MatchResult is the outcome of matching a parsed show name against
// candidates.
type MatchResult struct {
	Title      string  // the matched candidate, display form
	Score      float64 // Jaro-Winkler similarity (0.0-1.0)
	Confidence MatchConfidence
}

// MatchShow finds the best candidate for a parsed show name.
// Jaro-Winkler favors prefix agreement, which suits release-style
// names where trailing junk varies between files of the same show.
func MatchShow(parsed string, candidates []string) MatchResult {
	cleanParsed := CleanShowName(parsed)

	best := MatchResult{Confidence: ConfidenceNone}
	for _, candidate := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(cleanParsed, CleanShowName(candidate)))
		if score > best.Score {
			best.Title = candidate
			best.Score = score
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		best.Confidence = ConfidenceNone
		best.Title = ""
	}

	return best
}

// Grouper assigns parsed show names to canonical groups so one batch
// of files with slightly different spellings reports a single show.
type Grouper struct {
	titles []string
}

// Assign returns the canonical title for name, creating a new group
// when no existing group matches with at least medium confidence.
// The first spelling seen for a group becomes its canonical form.
func (g *Grouper) Assign(name string) string {
	if name == "" {
		return ""
	}
	if m := MatchShow(name, g.titles); m.Confidence >= ConfidenceMedium {
		return m.Title
	}
	g.titles = append(g.titles, name)
	return name
}

// Titles returns the canonical group titles in first-seen order.
func (g *Grouper) Titles() []string {
	return g.titles
}
