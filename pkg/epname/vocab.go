package epname

import (
	"regexp"
)

// vocabToken is one recognized quality/audio token. Tokens are tried
// in slice order, longest-first, so "1080p" can never be shadowed by a
// shorter overlapping token like "HD" appearing earlier in the name.
type vocabToken struct {
	re    *regexp.Regexp
	canon string
}

// tokenRe builds a matcher for one vocabulary token. Word boundaries
// are spelled out explicitly because \b treats '_' as a word character
// and underscore-separated names are common in archives.
func tokenRe(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^a-z0-9])(` + pattern + `)(?:[^a-z0-9]|$)`)
}

var resolutionTokens = []vocabToken{
	{tokenRe(`2160p`), "2160p"},
	{tokenRe(`1440p`), "1440p"},
	{tokenRe(`1080p`), "1080p"},
	{tokenRe(`720p`), "720p"},
	{tokenRe(`480p`), "480p"},
	{tokenRe(`4k`), "2160p"},
	{tokenRe(`8k`), "8K"},
	{tokenRe(`uhd`), "UHD"},
	{tokenRe(`fhd`), "FHD"},
	{tokenRe(`hd`), "HD"},
	{tokenRe(`sd`), "SD"},
}

// Source tokens are recognized and stripped; they only populate
// Quality when no resolution token is present.
var sourceTokens = []vocabToken{
	{tokenRe(`web[ ._-]?dl`), "WEB-DL"},
	{tokenRe(`webrip`), "WEBRip"},
	{tokenRe(`blu[ ._-]?ray`), "BluRay"},
	{tokenRe(`brrip`), "BRRip"},
	{tokenRe(`dvdrip`), "DVDRip"},
	{tokenRe(`hdtv`), "HDTV"},
	{tokenRe(`hdcam`), "HDCAM"},
}

var audioTokens = []vocabToken{
	{tokenRe(`multi[ ._-]?audio`), "MultiAudio"},
	{tokenRe(`dual[ ._-]?audio`), "Dual Audio"},
	{tokenRe(`truehd`), "TrueHD"},
	{tokenRe(`atmos`), "Atmos"},
	{tokenRe(`eac3`), "EAC3"},
	{tokenRe(`ddp`), "DDP"},
	{tokenRe(`dd\+`), "DDP"},
	{tokenRe(`dts[ ._-]?hd`), "DTS-HD"},
	{tokenRe(`dts`), "DTS"},
	{tokenRe(`flac`), "FLAC"},
	{tokenRe(`aac`), "AAC"},
	{tokenRe(`ac3`), "AC3"},
	{tokenRe(`mp3`), "MP3"},
	{tokenRe(`ogg`), "OGG"},
	{tokenRe(`pcm`), "PCM"},
	{tokenRe(`opus`), "Opus"},
	{tokenRe(`7\.1`), "7.1"},
	{tokenRe(`5\.1`), "5.1"},
	{tokenRe(`2\.0`), "2.0"},
}

// codecNoiseRe matches codec and encode markers that carry no metadata
// we keep but pollute the show name.
var codecNoiseRe = regexp.MustCompile(`(?i)(?:^|[^a-z0-9])(x264|x265|h264|h265|hevc|avc|10bit|8bit)(?:[^a-z0-9]|$)`)

// findToken returns the canonical form of the first vocabulary token
// present in name, honoring slice (priority) order over position.
func findToken(name string, tokens []vocabToken) string {
	for _, t := range tokens {
		if t.re.MatchString(name) {
			return t.canon
		}
	}
	return ""
}

// stripTokens removes every occurrence of the given tokens from name,
// replacing matches (boundaries included) with a single space.
func stripTokens(name string, tokens []vocabToken) string {
	for _, t := range tokens {
		for t.re.MatchString(name) {
			name = t.re.ReplaceAllString(name, " ")
		}
	}
	return name
}

// extractQuality returns the quality of name and name with all
// resolution and source tokens removed. A resolution wins; a source
// token is used as the quality only when no resolution is present.
func extractQuality(name string) (quality, stripped string) {
	quality = findToken(name, resolutionTokens)
	if quality == "" {
		quality = findToken(name, sourceTokens)
	}
	stripped = stripTokens(name, resolutionTokens)
	stripped = stripTokens(stripped, sourceTokens)
	return quality, stripped
}

// extractAudio returns the audio token of name and name with all audio
// tokens removed.
func extractAudio(name string) (audio, stripped string) {
	return findToken(name, audioTokens), stripTokens(name, audioTokens)
}
