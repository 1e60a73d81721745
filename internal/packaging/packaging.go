// Package packaging builds the zip archive the KiCad Plugin and Content
// Manager consumes, along with the size and digest values its metadata.json
// wants.
package packaging

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/smart-cat-ai/smartcat-cli/internal/plugin"
)

// Result holds the archive location and the metadata.json values.
type Result struct {
	ArchivePath  string
	DownloadSize int64  // compressed archive size in bytes
	InstallSize  int64  // uncompressed size of the packaged files
	SHA256       string // hex digest of the archive
	DownloadURL  string
}

// Build packages the plugin manifest from sourceDir into a zip at outPath.
// Entry names are relative to the plugin root, matching what the content
// manager expects. All manifest files must be present.
func Build(sourceDir, outPath, releaseTag string) (*Result, error) {
	if missing := plugin.Missing(sourceDir); len(missing) > 0 {
		return nil, fmt.Errorf("%w: source tree is missing %s", plugin.ErrMissingFile, missing[0])
	}

	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	var installSize int64
	for _, name := range plugin.Files() {
		n, err := addEntry(zw, filepath.Join(sourceDir, name), name)
		if err != nil {
			zw.Close()
			return nil, err
		}
		installSize += n
	}

	for _, dir := range plugin.Dirs() {
		src := filepath.Join(sourceDir, dir)
		if info, err := os.Stat(src); err != nil || !info.IsDir() {
			continue
		}
		err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(sourceDir, path)
			if err != nil {
				return err
			}
			n, err := addEntry(zw, path, filepath.ToSlash(rel))
			installSize += n
			return err
		})
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to package %s: %w", dir, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize package: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize package: %w", err)
	}

	digest, size, err := hashFile(outPath)
	if err != nil {
		return nil, err
	}

	return &Result{
		ArchivePath:  outPath,
		DownloadSize: size,
		InstallSize:  installSize,
		SHA256:       digest,
		DownloadURL: fmt.Sprintf("https://github.com/%s/releases/download/%s/smart_cat_plugin.zip",
			plugin.DefaultRepository, releaseTag),
	}, nil
}

func addEntry(zw *zip.Writer, path, name string) (int64, error) {
	in, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", name, err)
	}
	defer in.Close()

	w, err := zw.Create(name)
	if err != nil {
		return 0, fmt.Errorf("failed to add %s: %w", name, err)
	}
	n, err := io.Copy(w, in)
	if err != nil {
		return n, fmt.Errorf("failed to add %s: %w", name, err)
	}
	return n, nil
}

func hashFile(path string) (digest string, size int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to hash package: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	size, err = io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("failed to hash package: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), size, nil
}
