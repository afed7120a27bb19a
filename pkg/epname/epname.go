// Package epname parses media filenames to extract season, episode,
// quality, and audio information plus a residual show name.
package epname

// ParsedName contains the information extracted from one filename.
// Zero values mean the field was not present in the name. Season is
// always at least 1 when Episode is set: names that carry an episode
// number without an explicit season default to season 1.
type ParsedName struct {
	Season      int
	Episode     int
	Quality     string // canonical resolution token, or raw source token
	Audio       string // canonical audio token
	ShowName    string // residual text after stripping matched tokens
	RawFilename string
	Extension   string // lowercased, without leading dot
}

// HasEpisode reports whether an episode number was detected.
func (p ParsedName) HasEpisode() bool {
	return p.Episode > 0
}
