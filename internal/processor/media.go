// internal/processor/media.go
package processor

import (
	"path/filepath"
	"strings"
)

// MediaType classifies a file by extension. Classification is
// informational only; every file in a batch is processed regardless of
// type.
type MediaType string

const (
	MediaVideo    MediaType = "video"
	MediaAudio    MediaType = "audio"
	MediaSubtitle MediaType = "subtitle"
	MediaOther    MediaType = "other"
)

var videoExts = map[string]bool{
	".mkv": true, ".mp4": true, ".avi": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	".mpg": true, ".mpeg": true, ".ts": true,
}

var audioExts = map[string]bool{
	".mp3": true, ".flac": true, ".aac": true, ".ogg": true,
	".wav": true, ".m4a": true, ".opus": true, ".wma": true,
}

var subtitleExts = map[string]bool{
	".srt": true, ".ass": true, ".ssa": true, ".sub": true,
	".vtt": true, ".idx": true,
}

// MediaTypeOf returns the media type for a filename.
func MediaTypeOf(name string) MediaType {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case videoExts[ext]:
		return MediaVideo
	case audioExts[ext]:
		return MediaAudio
	case subtitleExts[ext]:
		return MediaSubtitle
	default:
		return MediaOther
	}
}
