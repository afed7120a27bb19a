// Package fetch downloads remote archives over HTTP, streaming bytes
// through a progress tracker so the caller can surface throttled
// updates.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/vmunix/unzipr/internal/progress"
)

var (
	// ErrBadStatus indicates the server answered with a non-2xx status.
	ErrBadStatus = errors.New("unexpected http status")

	// ErrTooLarge indicates the archive exceeds the size limit.
	ErrTooLarge = errors.New("archive exceeds size limit")
)

// DefaultMaxBytes caps archive downloads at 2 GiB.
const DefaultMaxBytes = 2 << 30

// ProgressFunc receives throttled progress snapshots during a
// download.
type ProgressFunc func(progress.Snapshot)

// Client downloads archives.
type Client struct {
	httpClient *http.Client
	maxBytes   int64
	interval   time.Duration
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxBytes overrides the download size limit.
func WithMaxBytes(n int64) Option {
	return func(c *Client) { c.maxBytes = n }
}

// WithUpdateInterval overrides the progress emission interval.
func WithUpdateInterval(d time.Duration) Option {
	return func(c *Client) { c.interval = d }
}

// NewClient creates a download client.
func NewClient(log *slog.Logger, opts ...Option) *Client {
	if log == nil {
		log = slog.Default()
	}
	c := &Client{
		// No overall timeout: large archives legitimately take a long
		// time. Cancellation comes from the request context.
		httpClient: &http.Client{},
		maxBytes:   DefaultMaxBytes,
		interval:   progress.DefaultUpdateInterval,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads url into destDir and returns the local path. onProgress
// may be nil; when set it is called with throttled snapshots plus one
// final snapshot.
func (c *Client) Fetch(ctx context.Context, url, destDir string, onProgress ProgressFunc) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}
	if resp.ContentLength > c.maxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}

	dest := filepath.Join(destDir, filenameFromURL(url))
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dest, err)
	}

	tracker := progress.NewTracker(c.interval)
	if err := tracker.Start(resp.ContentLength); err != nil {
		out.Close()
		return "", err
	}

	c.log.Info("download started", "url", url, "size", resp.ContentLength, "dest", dest)

	if err := c.copyTracked(ctx, out, resp.Body, tracker, onProgress); err != nil {
		out.Close()
		os.Remove(dest)
		if snap, ferr := tracker.Finish(finishState(err)); ferr == nil && onProgress != nil {
			onProgress(snap)
		}
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("close %s: %w", dest, err)
	}

	if snap, err := tracker.Finish(progress.StateCompleted); err == nil && onProgress != nil {
		onProgress(snap)
	}
	c.log.Info("download finished", "url", url, "dest", dest)
	return dest, nil
}

func (c *Client) copyTracked(ctx context.Context, dst io.Writer, src io.Reader, tracker *progress.Tracker, onProgress ProgressFunc) error {
	buf := make([]byte, 128<<10)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := src.Read(buf)
		if n > 0 {
			written += int64(n)
			if written > c.maxBytes {
				return fmt.Errorf("%w: over %d bytes", ErrTooLarge, c.maxBytes)
			}
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return fmt.Errorf("write archive: %w", werr)
			}
			if snap, emit := tracker.Advance(int64(n)); emit && onProgress != nil {
				onProgress(snap)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
	}
}

func finishState(err error) progress.State {
	if errors.Is(err, context.Canceled) {
		return progress.StateCancelled
	}
	return progress.StateFailed
}

// filenameFromURL derives a local filename from the URL path, falling
// back to a fixed name for bare hosts or query-only links.
func filenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "archive.zip"
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return "archive.zip"
	}
	return base
}
