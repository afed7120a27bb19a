// Package archive reads ZIP archives and extracts their file entries
// for renaming. Entry order is preserved from the archive's central
// directory so batches process deterministically.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileEntry is one extractable file from an archive.
type FileEntry struct {
	Name string // entry name inside the archive, directories stripped
	Path string // path on disk after extraction, empty for previews
	Size int64  // uncompressed size
}

// Preview lists an archive's file entries without extracting them.
// Directories are skipped; entry order matches the archive.
func Preview(path string) ([]FileEntry, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArchive, err)
	}
	defer r.Close()

	entries := make([]FileEntry, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if f.Flags&0x1 != 0 {
			return nil, fmt.Errorf("%w: %s", ErrEncrypted, f.Name)
		}
		entries = append(entries, FileEntry{
			Name: entryName(f.Name),
			Size: int64(f.UncompressedSize64),
		})
	}
	if len(entries) == 0 {
		return nil, ErrEmptyArchive
	}
	return entries, nil
}

// Extract unpacks all file entries of the archive at path into destDir
// and returns them in archive order. Nested directories inside the
// archive are flattened; only the base filename is kept. Entries whose
// names collide after flattening get a numeric suffix so nothing is
// silently overwritten.
func Extract(ctx context.Context, path, destDir string) ([]FileEntry, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArchive, err)
	}
	defer r.Close()

	seen := make(map[string]int)
	entries := make([]FileEntry, 0, len(r.File))
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if f.Flags&0x1 != 0 {
			return entries, fmt.Errorf("%w: %s", ErrEncrypted, f.Name)
		}

		name := entryName(f.Name)
		if name == "" {
			return entries, fmt.Errorf("%w: %q", ErrPathTraversal, f.Name)
		}
		name = uniqueName(seen, name)

		dest := filepath.Join(destDir, name)
		if !strings.HasPrefix(dest, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return entries, fmt.Errorf("%w: %q", ErrPathTraversal, f.Name)
		}

		if err := extractEntry(f, dest); err != nil {
			return entries, err
		}
		entries = append(entries, FileEntry{
			Name: name,
			Path: dest,
			Size: int64(f.UncompressedSize64),
		})
	}
	if len(entries) == 0 {
		return nil, ErrEmptyArchive
	}
	return entries, nil
}

func extractEntry(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: open entry %s: %v", ErrBadArchive, f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("%w: extract %s: %v", ErrBadArchive, f.Name, err)
	}
	return out.Close()
}

// entryName flattens an archive entry name to a safe base filename.
// Returns "" for names that resolve to nothing usable, such as "../"
// chains or bare directory markers.
func entryName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == ".." || base == "/" || base == "" {
		return ""
	}
	return base
}

// uniqueName disambiguates flattened names that repeat within one
// archive, e.g. "a/ep1.mkv" and "b/ep1.mkv".
func uniqueName(seen map[string]int, name string) string {
	n := seen[name]
	seen[name] = n + 1
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s (%d)%s", stem, n+1, ext)
}
