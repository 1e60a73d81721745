package installer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smart-cat-ai/smartcat-cli/internal/plugin"
)

func TestCheckPrerequisites_NoInterpreter(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := newTestInstaller().CheckPrerequisites(context.Background(), "")
	assert.ErrorIs(t, err, plugin.ErrMissingRuntime)
}

func TestCheckPrerequisites_FakeInterpreter(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script interpreter stub")
	}

	bin := t.TempDir()
	script := "#!/bin/sh\nif [ \"$1\" = \"--version\" ]; then echo \"Python 3.11.9\"; fi\nexit 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, "python3"), []byte(script), 0o755))
	t.Setenv("PATH", bin)

	base := t.TempDir()
	prereqs, err := newTestInstaller().CheckPrerequisites(context.Background(), base)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(bin, "python3"), prereqs.PythonPath)
	assert.Equal(t, "Python 3.11.9", prereqs.PythonVersion)
	// The stub exits 0 for any -c probe, so the first binding wins.
	assert.Equal(t, "PyQt5", prereqs.QtBinding)
	assert.True(t, prereqs.KicadFound)
}

func TestCheckPrerequisites_QtMissing(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script interpreter stub")
	}

	bin := t.TempDir()
	script := "#!/bin/sh\nif [ \"$1\" = \"--version\" ]; then echo \"Python 3.12.0\"; exit 0; fi\nexit 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, "python3"), []byte(script), 0o755))
	t.Setenv("PATH", bin)

	prereqs, err := newTestInstaller().CheckPrerequisites(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)

	assert.Empty(t, prereqs.QtBinding)
	assert.False(t, prereqs.KicadFound)
}
