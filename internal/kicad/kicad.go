// Package kicad locates KiCad configuration directories on the current
// machine: the per-OS base directory, the version subdirectories inside it,
// and the scripting plugins directory for each version.
package kicad

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

// BaseDir returns the KiCad configuration base directory for the current OS.
// Windows keeps it under %APPDATA%, macOS under Application Support, and
// everything else under ~/.local/share.
func BaseDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		appdata := os.Getenv("APPDATA")
		if appdata == "" {
			return "", fmt.Errorf("APPDATA is not set")
		}
		return filepath.Join(appdata, "kicad"), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", "kicad"), nil
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, ".local", "share", "kicad"), nil
	}
}

// DiscoverVersions scans base for version-numbered subdirectories ("7.0",
// "8.0", ...) and returns them sorted oldest to newest. A missing base
// directory yields an empty list, not an error: KiCad may simply never have
// been run.
func DiscoverVersions(base string) ([]string, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read KiCad directory: %w", err)
	}

	var versions []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, _, ok := parseVersion(entry.Name()); ok {
			versions = append(versions, entry.Name())
		}
	}

	sort.Slice(versions, func(i, j int) bool {
		return versionLess(versions[i], versions[j])
	})
	return versions, nil
}

// Newest returns the highest version from a DiscoverVersions result, or ""
// for an empty list.
func Newest(versions []string) string {
	if len(versions) == 0 {
		return ""
	}
	return versions[len(versions)-1]
}

// PluginDir returns the scripting plugins directory for a KiCad version.
func PluginDir(base, version string) string {
	return filepath.Join(base, version, "scripting", "plugins")
}

// parseVersion accepts names of the form "<major>" or "<major>.<minor>" where
// both parts are unsigned integers.
func parseVersion(name string) (major, minor int, ok bool) {
	parts := strings.SplitN(name, ".", 2)
	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 0 {
		return 0, 0, false
	}
	if len(parts) == 2 {
		minor, err = strconv.Atoi(parts[1])
		if err != nil || minor < 0 {
			return 0, 0, false
		}
	}
	return major, minor, true
}

func versionLess(a, b string) bool {
	aMajor, aMinor, _ := parseVersion(a)
	bMajor, bMinor, _ := parseVersion(b)
	if aMajor != bMajor {
		return aMajor < bMajor
	}
	return aMinor < bMinor
}
