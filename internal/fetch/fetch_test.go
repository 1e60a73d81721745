package fetch

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/smart-cat-ai/smartcat-cli/internal/plugin"
)

func tarGzArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for name, content := range files {
		if strings.HasSuffix(name, "/") {
			require.NoError(t, tw.WriteHeader(&tar.Header{
				Name:     name,
				Typeflag: tar.TypeDir,
				Mode:     0o755,
			}))
			continue
		}
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func serve(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// scratchRoot redirects temp allocation so tests can assert that no scratch
// directories survive.
func scratchRoot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)
	return dir
}

func assertNoResidue(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directories left behind")
}

func TestFetch_TarGzWithTopLevelDir(t *testing.T) {
	tmp := scratchRoot(t)
	body := tarGzArchive(t, map[string]string{
		"Smart-Cat-main/":            "",
		"Smart-Cat-main/__init__.py": "init",
		"Smart-Cat-main/main.py":     "main",
	})
	srv := serve(t, http.StatusOK, body)

	root, cleanup, err := Fetch(context.Background(), srv.URL, nil, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "Smart-Cat-main", filepath.Base(root))
	got, err := os.ReadFile(filepath.Join(root, "__init__.py"))
	require.NoError(t, err)
	assert.Equal(t, "init", string(got))

	cleanup()
	assertNoResidue(t, tmp)
}

func TestFetch_ZipArchive(t *testing.T) {
	tmp := scratchRoot(t)
	body := zipArchive(t, map[string]string{
		"Smart-Cat-main/__init__.py": "init",
		"Smart-Cat-main/ui.py":       "ui",
	})
	srv := serve(t, http.StatusOK, body)

	root, cleanup, err := Fetch(context.Background(), srv.URL, nil, zerolog.Nop())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "ui.py"))

	cleanup()
	assertNoResidue(t, tmp)
}

func TestFetch_FlatArchiveUsesExtractDir(t *testing.T) {
	tmp := scratchRoot(t)
	body := tarGzArchive(t, map[string]string{
		"__init__.py": "init",
		"main.py":     "main",
	})
	srv := serve(t, http.StatusOK, body)

	root, cleanup, err := Fetch(context.Background(), srv.URL, nil, zerolog.Nop())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "__init__.py"))
	assert.FileExists(t, filepath.Join(root, "main.py"))

	cleanup()
	assertNoResidue(t, tmp)
}

func TestFetch_ReportsProgress(t *testing.T) {
	scratchRoot(t)
	body := tarGzArchive(t, map[string]string{"Smart-Cat-main/__init__.py": "init"})
	srv := serve(t, http.StatusOK, body)

	var last int64
	_, cleanup, err := Fetch(context.Background(), srv.URL, func(downloaded, total int64) {
		last = downloaded
	}, zerolog.Nop())
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, int64(len(body)), last)
}

func TestFetch_NotFound(t *testing.T) {
	tmp := scratchRoot(t)
	srv := serve(t, http.StatusNotFound, []byte("no such ref"))

	_, _, err := Fetch(context.Background(), srv.URL, nil, zerolog.Nop())
	assert.ErrorIs(t, err, plugin.ErrDownload)
	assertNoResidue(t, tmp)
}

func TestFetch_UnreachableHost(t *testing.T) {
	tmp := scratchRoot(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, _, err := Fetch(context.Background(), url, nil, zerolog.Nop())
	assert.ErrorIs(t, err, plugin.ErrDownload)
	assertNoResidue(t, tmp)
}

func TestFetch_CorruptGzip(t *testing.T) {
	tmp := scratchRoot(t)
	srv := serve(t, http.StatusOK, []byte{0x1f, 0x8b, 0xde, 0xad, 0xbe, 0xef})

	_, _, err := Fetch(context.Background(), srv.URL, nil, zerolog.Nop())
	assert.ErrorIs(t, err, plugin.ErrExtract)
	assertNoResidue(t, tmp)
}

func TestFetch_MalformedZip(t *testing.T) {
	tmp := scratchRoot(t)
	srv := serve(t, http.StatusOK, []byte("this is not an archive"))

	_, _, err := Fetch(context.Background(), srv.URL, nil, zerolog.Nop())
	assert.ErrorIs(t, err, plugin.ErrExtract)
	assertNoResidue(t, tmp)
}

func TestFetch_RejectsPathTraversal(t *testing.T) {
	tmp := scratchRoot(t)
	body := tarGzArchive(t, map[string]string{
		"../../escape.py": "evil",
	})
	srv := serve(t, http.StatusOK, body)

	_, _, err := Fetch(context.Background(), srv.URL, nil, zerolog.Nop())
	assert.ErrorIs(t, err, plugin.ErrExtract)
	assertNoResidue(t, tmp)
}

func TestArchiveURL(t *testing.T) {
	tests := []struct {
		repo   string
		branch string
		want   string
	}{
		{"BWolf-16/Smart-Cat", "main", "https://github.com/BWolf-16/Smart-Cat/archive/refs/heads/main.tar.gz"},
		{"myfork/Smart-Cat", "dev", "https://github.com/myfork/Smart-Cat/archive/refs/heads/dev.tar.gz"},
		{"https://example.com/plugin.tar.gz", "ignored", "https://example.com/plugin.tar.gz"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ArchiveURL(tt.repo, tt.branch))
	}
}

// safeJoin either errors or produces a path inside dest, for any entry name.
func TestSafeJoin_PropertyBased(t *testing.T) {
	dest := t.TempDir()
	segment := rapid.SampledFrom([]string{"a", "b", "..", ".", "resources", "..."})

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(t, "segments")
		parts := make([]string, n)
		for i := range parts {
			parts[i] = segment.Draw(t, "segment")
		}
		name := strings.Join(parts, "/")

		joined, err := safeJoin(dest, name)
		if err != nil {
			return
		}
		if !strings.HasPrefix(joined, filepath.Clean(dest)+string(os.PathSeparator)) {
			t.Fatalf("safeJoin(%q) escaped dest: %q", name, joined)
		}
	})
}
