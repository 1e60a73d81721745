// Package fetch downloads plugin source archives and extracts them into a
// scratch directory. GitHub serves both tar.gz and zip archives; the payload
// is sniffed rather than trusting the URL suffix.
package fetch

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smart-cat-ai/smartcat-cli/internal/plugin"
)

// ProgressFunc receives download progress. total is -1 when the server does
// not report a content length.
type ProgressFunc func(downloaded, total int64)

var httpClient = &http.Client{Timeout: 5 * time.Minute}

// ArchiveURL builds the archive download URL for a repository reference.
// A repo of the form "owner/name" maps to the GitHub codeload tarball for the
// branch; anything containing a scheme is treated as a complete URL.
func ArchiveURL(repo, branch string) string {
	if strings.Contains(repo, "://") {
		return repo
	}
	return fmt.Sprintf("https://github.com/%s/archive/refs/heads/%s.tar.gz", repo, branch)
}

// Fetch downloads the archive at url and extracts it beneath a scratch
// directory. It returns the extracted plugin source root and a cleanup
// function that removes the scratch directory; cleanup is non-nil even on
// error, and no scratch state survives a failed call.
func Fetch(ctx context.Context, url string, progress ProgressFunc, logger zerolog.Logger) (root string, cleanup func(), err error) {
	scratch, err := os.MkdirTemp("", "smartcat-")
	if err != nil {
		return "", func() {}, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	cleanup = func() { os.RemoveAll(scratch) }
	defer func() {
		if err != nil {
			cleanup()
		}
	}()

	logger.Debug().Str("url", url).Str("scratch", scratch).Msg("downloading archive")

	archivePath, err := download(ctx, url, scratch, progress)
	if err != nil {
		return "", cleanup, err
	}

	extractDir := filepath.Join(scratch, "src")
	if err := extract(archivePath, extractDir); err != nil {
		return "", cleanup, err
	}

	root, err = sourceRoot(extractDir)
	if err != nil {
		return "", cleanup, err
	}
	logger.Debug().Str("root", root).Msg("archive extracted")
	return root, cleanup, nil
}

func download(ctx context.Context, url, dir string, progress ProgressFunc) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: invalid URL %q: %v", plugin.ErrDownload, url, err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", plugin.ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: server returned %s for %s", plugin.ErrDownload, resp.Status, url)
	}

	archivePath := filepath.Join(dir, "archive")
	out, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", plugin.ErrDownload, err)
	}
	defer out.Close()

	reader := io.Reader(resp.Body)
	if progress != nil {
		reader = &progressReader{r: resp.Body, total: resp.ContentLength, fn: progress}
	}
	if _, err := io.Copy(out, reader); err != nil {
		return "", fmt.Errorf("%w: %v", plugin.ErrDownload, err)
	}
	return archivePath, nil
}

// extract unpacks archivePath into dest, dispatching on the gzip magic bytes.
func extract(archivePath, dest string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("%w: %v", plugin.ErrExtract, err)
	}
	defer f.Close()

	magic := make([]byte, 2)
	if _, err := io.ReadFull(f, magic); err != nil {
		return fmt.Errorf("%w: archive is empty or truncated", plugin.ErrExtract)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", plugin.ErrExtract, err)
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("%w: %v", plugin.ErrExtract, err)
	}

	if magic[0] == 0x1f && magic[1] == 0x8b {
		return extractTarGz(f, dest)
	}
	return extractZip(archivePath, dest)
}

func extractTarGz(r io.Reader, dest string) error {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("%w: %v", plugin.ErrExtract, err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", plugin.ErrExtract, err)
		}

		targetPath, err := safeJoin(dest, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return fmt.Errorf("%w: %v", plugin.ErrExtract, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
				return fmt.Errorf("%w: %v", plugin.ErrExtract, err)
			}
			if err := writeFile(targetPath, tarReader, os.FileMode(header.Mode)); err != nil {
				return err
			}
		}
	}
}

func extractZip(archivePath, dest string) error {
	zipReader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("%w: %v", plugin.ErrExtract, err)
	}
	defer zipReader.Close()

	for _, entry := range zipReader.File {
		targetPath, err := safeJoin(dest, entry.Name)
		if err != nil {
			return err
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return fmt.Errorf("%w: %v", plugin.ErrExtract, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return fmt.Errorf("%w: %v", plugin.ErrExtract, err)
		}
		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("%w: %v", plugin.ErrExtract, err)
		}
		err = writeFile(targetPath, rc, entry.Mode())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// safeJoin joins an archive entry name onto dest, rejecting entries that
// would escape it.
func safeJoin(dest, name string) (string, error) {
	targetPath := filepath.Join(dest, filepath.FromSlash(name))
	if !strings.HasPrefix(filepath.Clean(targetPath), filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: unsafe archive path %q", plugin.ErrExtract, name)
	}
	return targetPath, nil
}

func writeFile(path string, r io.Reader, mode os.FileMode) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("%w: %v", plugin.ErrExtract, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("%w: %v", plugin.ErrExtract, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %v", plugin.ErrExtract, err)
	}
	return nil
}

// sourceRoot resolves the plugin source root inside an extracted archive.
// GitHub archives nest everything under a single "<repo>-<ref>" directory;
// when exactly one directory and nothing else was extracted, that directory
// is the root.
func sourceRoot(extractDir string) (string, error) {
	entries, err := os.ReadDir(extractDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", plugin.ErrExtract, err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: archive contained no files", plugin.ErrExtract)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(extractDir, entries[0].Name()), nil
	}
	return extractDir, nil
}

type progressReader struct {
	r          io.Reader
	total      int64
	downloaded int64
	fn         ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.downloaded += int64(n)
		p.fn(p.downloaded, p.total)
	}
	return n, err
}
