// internal/renamer/sanitize.go
package renamer

import (
	"regexp"
	"strings"
)

// illegalChars are characters not allowed in filenames on common
// filesystems.
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00]`)

// multiSpace matches multiple consecutive spaces.
var multiSpace = regexp.MustCompile(`\s+`)

// multiUnderscore collapses runs of the substitute character left by
// consecutive illegal characters.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces characters that are unsafe for filenames
// with an underscore. This prevents path traversal and filesystem
// errors when the rendered name is written to disk.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\x00", "")
	name = illegalChars.ReplaceAllString(name, "_")
	name = multiUnderscore.ReplaceAllString(name, "_")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.Trim(name, " .")
}
