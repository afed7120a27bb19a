// internal/events/job.go
package events

// Entity types
const (
	EntityJob     = "job"
	EntitySession = "session"
)

// Event type constants
const (
	EventJobStarted      = "job.started"
	EventJobProgressed   = "job.progressed"
	EventJobStatus       = "job.status"
	EventJobCompleted    = "job.completed"
	EventJobFailed       = "job.failed"
	EventJobCancelled    = "job.cancelled"
	EventFetchStarted    = "fetch.started"
	EventFetchCompleted  = "fetch.completed"
	EventSettingsChanged = "settings.changed"
)

// Transfer stages that report byte progress.
const (
	StageDownload = "download"
	StageUpload   = "upload"
)

// JobStarted is emitted when a rename job begins.
type JobStarted struct {
	EventMeta
	SessionID  int64  `json:"session_id"`
	Source     string `json:"source"` // archive filename or URL
	TotalFiles int    `json:"total_files"`
	TotalBytes int64  `json:"total_bytes"`
}

// JobProgressed is emitted periodically while a job transfers bytes.
type JobProgressed struct {
	EventMeta
	Stage      string  `json:"stage"`
	Percent    float64 `json:"percent"`   // 0.0 - 100.0
	Speed      float64 `json:"speed_bps"` // bytes per second, 0 = unknown
	ETASeconds int     `json:"eta_seconds"`
	BytesDone  int64   `json:"bytes_done"`
	BytesTotal int64   `json:"bytes_total"`
}

// JobStatus is emitted at file-count milestones with per-file tallies.
type JobStatus struct {
	EventMeta
	Processed int `json:"processed"`
	Total     int `json:"total"`
	Renamed   int `json:"renamed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// JobCompleted is emitted when a job finishes, regardless of per-file
// failures.
type JobCompleted struct {
	EventMeta
	Renamed        int     `json:"renamed"`
	Failed         int     `json:"failed"`
	Skipped        int     `json:"skipped"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// JobFailed is emitted when a job cannot continue at all, such as a
// corrupt archive or an unreachable source.
type JobFailed struct {
	EventMeta
	Reason string `json:"reason"`
}

// JobCancelled is emitted when the user stops a job before it finishes.
type JobCancelled struct {
	EventMeta
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// FetchStarted is emitted when a remote archive download begins.
type FetchStarted struct {
	EventMeta
	URL        string `json:"url"`
	TotalBytes int64  `json:"total_bytes"` // 0 = unknown
}

// FetchCompleted is emitted when a remote archive has been downloaded.
type FetchCompleted struct {
	EventMeta
	Path       string `json:"path"`
	BytesTotal int64  `json:"bytes_total"`
}

// SettingsChanged is emitted when a session updates its configuration.
type SettingsChanged struct {
	EventMeta
	Key   string `json:"key"`
	Value string `json:"value"`
}
