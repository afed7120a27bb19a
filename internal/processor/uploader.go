// internal/processor/uploader.go
package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ProgressFunc receives transferred byte counts while an upload runs.
type ProgressFunc func(delta int64)

// Uploader delivers a renamed file to its destination.
type Uploader interface {
	// Upload sends the file at path to the destination under name,
	// reporting transferred bytes to report. report may be nil.
	Upload(ctx context.Context, path, name string, report ProgressFunc) error
}

// DirUploader moves files into a local output directory.
type DirUploader struct {
	Dir string
}

// NewDirUploader creates an uploader that writes into dir.
func NewDirUploader(dir string) *DirUploader {
	return &DirUploader{Dir: dir}
}

// Upload moves the file into the output directory under name.
// Returns ErrDestinationExists rather than overwriting.
func (u *DirUploader) Upload(ctx context.Context, path, name string, report ProgressFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dest := filepath.Join(u.Dir, name)
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dest)
	}

	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrUploadFailed, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: stat source: %v", ErrUploadFailed, err)
	}

	// Rename fails across filesystems; fall back to copy+remove.
	if err := os.Rename(path, dest); err != nil {
		if err := copyFile(path, dest, report); err != nil {
			return err
		}
		os.Remove(path)
		return nil
	}

	// A rename transfers the whole file in one step.
	if report != nil {
		report(info.Size())
	}
	return nil
}

func copyFile(src, dst string, report ProgressFunc) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: open source: %v", ErrUploadFailed, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create destination: %v", ErrUploadFailed, err)
	}

	buf := make([]byte, 128<<10)
	for {
		n, rerr := in.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				out.Close()
				os.Remove(dst)
				return fmt.Errorf("%w: copy content: %v", ErrUploadFailed, werr)
			}
			if report != nil {
				report(int64(n))
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			out.Close()
			os.Remove(dst)
			return fmt.Errorf("%w: copy content: %v", ErrUploadFailed, rerr)
		}
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: close destination: %v", ErrUploadFailed, err)
	}
	return nil
}
