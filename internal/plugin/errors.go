package plugin

import "errors"

// Installer error kinds. Commands match on these with errors.Is and print the
// remediation hint from Hint alongside the error itself.
var (
	ErrMissingRuntime   = errors.New("python runtime not found")
	ErrMissingFile      = errors.New("missing plugin file")
	ErrPermissionDenied = errors.New("permission denied")
	ErrDownload         = errors.New("download failed")
	ErrExtract          = errors.New("archive extraction failed")
	ErrNotInstalled     = errors.New("plugin not installed")
)

// Hint returns a one-line remediation suggestion for a known error kind, or
// an empty string when there is nothing useful to suggest.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrMissingRuntime):
		return "Install Python 3 and make sure it is on your PATH, then retry."
	case errors.Is(err, ErrMissingFile):
		return "Run the installer from the plugin source tree, or use --repo to fetch it."
	case errors.Is(err, ErrPermissionDenied):
		return "Check that the KiCad plugins directory is writable by your user."
	case errors.Is(err, ErrDownload):
		return "Check your network connection and the repository URL, then retry."
	case errors.Is(err, ErrExtract):
		return "The downloaded archive appears corrupt; retry the download."
	default:
		return ""
	}
}
