package epname

import (
	"regexp"
	"strconv"
)

// ruleKind tags an episode rule with how its capture groups are
// interpreted.
type ruleKind int

const (
	// kindSeasonEpisode captures season and episode explicitly.
	kindSeasonEpisode ruleKind = iota
	// kindEpisodeOnly captures only the episode; season defaults to 1.
	kindEpisodeOnly
)

// rule pairs a matcher with its extraction kind. Rules are evaluated
// in declaration order and the first match wins, so the slice below is
// the precedence order: explicit season+episode forms first, bare
// separator-delimited numbers last.
type rule struct {
	kind ruleKind
	re   *regexp.Regexp
}

// Boundaries are spelled out as [^a-z0-9] rather than \b because \b
// treats '_' as a word character, which would miss names like
// "show_S01E02" or "ep_E11".
var episodeRules = []rule{
	// S01E02, S1.E2, s01-e02
	{kindSeasonEpisode, regexp.MustCompile(`(?i)(?:^|[^a-z0-9])S(\d{1,2})[ ._-]?E(\d{1,3})(?:[^0-9]|$)`)},
	// Season 1 Episode 2
	{kindSeasonEpisode, regexp.MustCompile(`(?i)(?:^|[^a-z0-9])Season[ ._-]*(\d{1,2})[ ._-]*Episode[ ._-]*(\d{1,3})(?:[^0-9]|$)`)},
	// 1x02
	{kindSeasonEpisode, regexp.MustCompile(`(?i)(?:^|[^a-z0-9])(\d{1,2})x(\d{1,3})(?:[^0-9]|$)`)},
	// E02
	{kindEpisodeOnly, regexp.MustCompile(`(?i)(?:^|[^a-z0-9])E(\d{1,3})(?:[^a-z0-9]|$)`)},
	// Episode 2
	{kindEpisodeOnly, regexp.MustCompile(`(?i)(?:^|[^a-z0-9])Episode[ ._-]*(\d{1,3})(?:[^0-9]|$)`)},
	// [02]
	{kindEpisodeOnly, regexp.MustCompile(`\[(\d{1,3})\]`)},
	// - 02, _02_, .02.  Only 1-3 digit numbers directly adjacent to a
	// separator qualify, so resolution numbers like 1080 never match.
	{kindEpisodeOnly, regexp.MustCompile(`(?:^|[ ._-])(\d{1,3})(?:[ ._-]|$)`)},
}

// matchEpisode runs the rule cascade against name. It returns the
// detected season and episode plus the byte span of the match so the
// caller can strip it from the show name. ok is false when no rule
// matched a usable episode number.
func matchEpisode(name string) (season, episode int, span [2]int, ok bool) {
	for _, r := range episodeRules {
		m := r.re.FindStringSubmatchIndex(name)
		if m == nil {
			continue
		}
		switch r.kind {
		case kindSeasonEpisode:
			s, err1 := strconv.Atoi(name[m[2]:m[3]])
			e, err2 := strconv.Atoi(name[m[4]:m[5]])
			if err1 != nil || err2 != nil || e == 0 {
				continue
			}
			if s == 0 {
				s = 1
			}
			return s, e, [2]int{m[0], m[1]}, true
		case kindEpisodeOnly:
			e, err := strconv.Atoi(name[m[2]:m[3]])
			if err != nil || e == 0 {
				continue
			}
			return 1, e, [2]int{m[0], m[1]}, true
		}
	}
	return 0, 0, [2]int{}, false
}
