// internal/renamer/renamer.go
package renamer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vmunix/unzipr/pkg/epname"
)

// DefaultTemplate is used when a session has not configured one.
const DefaultTemplate = "[S{Season} - E{Episode}] {ShowName} [{Quality}] [{Audio}] @{Channel}.{Extension}"

// Rendering defaults.
const (
	DefaultPadWidth     = 2
	DefaultMaxNameBytes = 200

	// Fallbacks keep the template structure visible when a field was
	// not detected; an empty substitution would collapse it to
	// something like "[S - E]".
	DefaultSeasonFallback  = "01"
	DefaultEpisodeFallback = "XX"
	unknownFallback        = "Unknown"
)

// Context carries everything available for substitution: the parsed
// name plus per-session configuration. It is read-only to Render.
type Context struct {
	Name    epname.ParsedName
	Channel string

	PadWidth        int    // zero-pad width for Season/Episode, 0 = default
	SeasonFallback  string // used when no season was detected
	EpisodeFallback string // used when no episode was detected
	MaxNameBytes    int    // output length cap, 0 = default
}

// placeholderPattern matches exactly the fixed placeholder vocabulary,
// case-sensitively. Anything else in braces is a typo the user should
// see, so it survives verbatim.
var placeholderPattern = regexp.MustCompile(`\{(Season|Episode|ShowName|Quality|Audio|Channel|Extension)\}`)

// Render substitutes the context values into template. It is total and
// pure: the same template and context always produce the same output,
// and output is always a filesystem-safe name no longer than
// MaxNameBytes.
func Render(template string, ctx Context) string {
	if template == "" {
		template = DefaultTemplate
	}

	pad := ctx.PadWidth
	if pad <= 0 {
		pad = DefaultPadWidth
	}

	values := map[string]string{
		"Season":    padded(ctx.Name.Season, pad, fallback(ctx.SeasonFallback, DefaultSeasonFallback)),
		"Episode":   padded(ctx.Name.Episode, pad, fallback(ctx.EpisodeFallback, DefaultEpisodeFallback)),
		"ShowName":  showName(ctx.Name),
		"Quality":   fallback(ctx.Name.Quality, unknownFallback),
		"Audio":     fallback(ctx.Name.Audio, unknownFallback),
		"Channel":   fallback(ctx.Channel, unknownFallback),
		"Extension": strings.ToLower(ctx.Name.Extension),
	}

	out := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		return values[match[1:len(match)-1]]
	})

	maxBytes := ctx.MaxNameBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxNameBytes
	}
	return truncate(SanitizeFilename(out), maxBytes)
}

// padded formats n zero-padded to width, or returns fb when the field
// was not detected.
func padded(n, width int, fb string) string {
	if n <= 0 {
		return fb
	}
	return fmt.Sprintf("%0*d", width, n)
}

func fallback(s, fb string) string {
	if s == "" {
		return fb
	}
	return s
}

// showName falls back to a sanitized form of the original filename
// (sans extension) when parsing stripped everything away.
func showName(name epname.ParsedName) string {
	if name.ShowName != "" {
		return name.ShowName
	}
	base := strings.TrimSuffix(filepath.Base(name.RawFilename), filepath.Ext(name.RawFilename))
	return SanitizeFilename(base)
}

// truncate caps name at maxBytes while preserving the extension.
// The cut point backs up to a rune boundary so the result stays valid
// UTF-8.
func truncate(name string, maxBytes int) string {
	if len(name) <= maxBytes {
		return name
	}

	ext := filepath.Ext(name)
	if len(ext) >= maxBytes {
		ext = ""
	}

	stem := name[:len(name)-len(ext)]
	keep := maxBytes - len(ext)
	if keep > len(stem) {
		keep = len(stem)
	}
	for keep > 0 && keep < len(stem) && stem[keep]&0xC0 == 0x80 {
		keep--
	}
	return strings.TrimRight(stem[:keep], " .") + ext
}
