package cmd

import (
	"context"

	"github.com/smart-cat-ai/smartcat-cli/internal/fetch"
	"github.com/smart-cat-ai/smartcat-cli/internal/installer"
	"github.com/smart-cat-ai/smartcat-cli/internal/tui"
)

// tuiInstall runs the repository install behind the progress display.
func tuiInstall(ctx context.Context, inst *installer.Installer, url, repo, branch string, targets []string) error {
	return tui.RunDownload(url, func(progress fetch.ProgressFunc) error {
		return inst.InstallFromRepository(ctx, repo, branch, targets, progress)
	})
}
