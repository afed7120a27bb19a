// internal/progress/format.go
package progress

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatEvent renders a snapshot as a single status line, for example
// "45% • 1.2 MB/s • ETA 00:12". Unknown speed and ETA render as
// placeholders rather than zeros so a stalled transfer is visibly
// distinct from a fast one.
func FormatEvent(s Snapshot) string {
	percent := fmt.Sprintf("%d%%", int(s.Percent))

	speed := "--"
	if s.Speed > 0 {
		speed = humanize.Bytes(uint64(s.Speed)) + "/s"
	}

	eta := "--:--"
	if s.ETASeconds >= 0 {
		eta = FormatClock(time.Duration(s.ETASeconds) * time.Second)
	}

	return fmt.Sprintf("%s • %s • ETA %s", percent, speed, eta)
}

// FormatClock renders a duration as MM:SS, or H:MM:SS above an hour.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatDuration renders an elapsed duration compactly for summaries,
// e.g. "45s" or "2m 5s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	m := total / 60
	s := total % 60
	if m < 60 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%dh %dm", m/60, m%60)
}
