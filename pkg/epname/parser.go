// pkg/epname/parser.go
package epname

import (
	"path/filepath"
	"regexp"
	"strings"
)

// separatorRe matches separator and wrapper characters that are
// collapsed to spaces when deriving the show name.
var separatorRe = regexp.MustCompile(`[._\-\[\]()]+`)

// multiSpaceRe collapses whitespace runs.
var multiSpaceRe = regexp.MustCompile(`\s+`)

// Parse extracts episode information from a filename. It is total:
// unmatched fields are simply left at their zero value, and the same
// filename always produces the same ParsedName.
//
// Quality and audio tokens are vocabulary matches and are removed
// before the episode cascade runs, so an audio layout like "5.1" can
// never be misread as an episode number. Episode detection runs an
// ordered rule cascade (see rules.go) and stops at the first match.
func Parse(filename string) ParsedName {
	p := ParsedName{
		RawFilename: filename,
		Extension:   strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")),
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	var stripped string
	p.Quality, stripped = extractQuality(base)
	p.Audio, stripped = extractAudio(stripped)

	season, episode, span, ok := matchEpisode(stripped)
	if ok {
		p.Season = season
		p.Episode = episode
		stripped = stripped[:span[0]] + " " + stripped[span[1]:]
	}

	p.ShowName = deriveShowName(stripped)
	return p
}

// deriveShowName cleans the residual text after all recognized tokens
// have been stripped. An empty result is returned as-is; choosing a
// fallback is the caller's concern.
func deriveShowName(s string) string {
	// Looped because adjacent tokens share boundary characters and a
	// single ReplaceAll pass can leave the second token behind.
	for codecNoiseRe.MatchString(s) {
		s = codecNoiseRe.ReplaceAllString(s, " ")
	}
	s = separatorRe.ReplaceAllString(s, " ")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
