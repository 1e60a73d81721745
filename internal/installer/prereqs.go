package installer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/smart-cat-ai/smartcat-cli/internal/plugin"
)

// pythonCandidates are tried in order when resolving an interpreter.
var pythonCandidates = []string{"python3", "python", "pythonw"}

// qtBindings are probed in order; KiCad ships PyQt5 on most platforms.
var qtBindings = []string{"PyQt5", "PyQt6"}

// Prereqs describes the runtime environment the plugin needs.
type Prereqs struct {
	PythonPath    string // resolved interpreter, absolute path
	PythonVersion string // output of --version, e.g. "Python 3.11.2"
	QtBinding     string // "PyQt5", "PyQt6", or "" when neither imports
	KicadBase     string // base directory that was probed
	KicadFound    bool   // whether the base directory exists
}

// CheckPrerequisites resolves a Python interpreter on PATH and probes the
// environment the plugin will run in. A missing interpreter returns
// plugin.ErrMissingRuntime; a missing Qt binding or KiCad directory is
// reported in the result but is not an error, since KiCad bundles its own
// interpreter on some platforms.
func (i *Installer) CheckPrerequisites(ctx context.Context, kicadBase string) (Prereqs, error) {
	p := Prereqs{KicadBase: kicadBase}

	for _, candidate := range pythonCandidates {
		path, err := exec.LookPath(candidate)
		if err != nil {
			continue
		}
		p.PythonPath = path
		break
	}
	if p.PythonPath == "" {
		return p, fmt.Errorf("%w: tried %s", plugin.ErrMissingRuntime, strings.Join(pythonCandidates, ", "))
	}

	if out, err := exec.CommandContext(ctx, p.PythonPath, "--version").CombinedOutput(); err == nil {
		p.PythonVersion = strings.TrimSpace(string(out))
	}

	for _, binding := range qtBindings {
		probe := exec.CommandContext(ctx, p.PythonPath, "-c", "import "+binding)
		if err := probe.Run(); err == nil {
			p.QtBinding = binding
			break
		}
	}

	if kicadBase != "" {
		if info, err := os.Stat(kicadBase); err == nil && info.IsDir() {
			p.KicadFound = true
		}
	}

	i.logger.Debug().
		Str("python", p.PythonPath).
		Str("qt", p.QtBinding).
		Bool("kicad", p.KicadFound).
		Msg("prerequisite check")
	return p, nil
}
