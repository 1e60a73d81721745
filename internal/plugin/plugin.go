package plugin

import (
	"os"
	"path/filepath"
)

// DirName is the directory name the plugin is installed under inside the
// KiCad scripting plugins directory.
const DirName = "smart_cat"

// DefaultRepository is the GitHub repository the plugin is fetched from when
// installing in repository mode.
const DefaultRepository = "BWolf-16/Smart-Cat"

// DefaultBranch is the branch used when no ref is given.
const DefaultBranch = "main"

// Files returns the ordered list of files every working installation needs.
// The list mirrors the plugin source tree; keep it in sync when modules are
// added or removed there.
func Files() []string {
	return []string{
		"__init__.py",
		"main.py",
		"ui.py",
		"AI_API.py",
		"config.py",
		"enhanced_parser.py",
		"kicad_operations.py",
		"circuit_generator.py",
		"permissions.py",
		"parser.py",
	}
}

// Dirs returns directories that are copied when present. Unlike Files, a
// missing entry here does not fail an install.
func Dirs() []string {
	return []string{
		"resources",
	}
}

// Missing returns the manifest files absent from sourceDir, in manifest order.
func Missing(sourceDir string) []string {
	var missing []string
	for _, name := range Files() {
		info, err := os.Stat(filepath.Join(sourceDir, name))
		if err != nil || info.IsDir() {
			missing = append(missing, name)
		}
	}
	return missing
}
