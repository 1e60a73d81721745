// Package installer copies the plugin's essential files into a KiCad
// scripting plugins directory and removes them again. Installs are not
// atomic: a failure mid-copy leaves the files written so far in place, and
// the next install replaces the target wholesale.
package installer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/smart-cat-ai/smartcat-cli/internal/fetch"
	"github.com/smart-cat-ai/smartcat-cli/internal/plugin"
)

// Installer performs one-shot install and uninstall operations.
type Installer struct {
	logger zerolog.Logger
}

// New creates an Installer that writes debug output to logger.
func New(logger zerolog.Logger) *Installer {
	return &Installer{logger: logger}
}

// InstallLocal copies the plugin manifest from sourceDir into target.
// An existing installation at target is replaced. The first absent manifest
// entry fails the install with plugin.ErrMissingFile naming it.
func (i *Installer) InstallLocal(ctx context.Context, sourceDir, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if missing := plugin.Missing(sourceDir); len(missing) > 0 {
		return fmt.Errorf("%w: source tree is missing %s", plugin.ErrMissingFile, missing[0])
	}

	if err := os.RemoveAll(target); err != nil {
		return wrapFsErr("failed to remove previous installation", err)
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return wrapFsErr("failed to create install target", err)
	}

	for _, name := range plugin.Files() {
		if err := copyFile(filepath.Join(sourceDir, name), filepath.Join(target, name)); err != nil {
			return err
		}
		i.logger.Debug().Str("file", name).Msg("copied")
	}

	for _, name := range plugin.Dirs() {
		src := filepath.Join(sourceDir, name)
		if info, err := os.Stat(src); err != nil || !info.IsDir() {
			continue
		}
		if err := copyTree(src, filepath.Join(target, name)); err != nil {
			return err
		}
		i.logger.Debug().Str("dir", name).Msg("copied")
	}

	return nil
}

// InstallFromRepository downloads an archive of the given repository ref,
// extracts it to a scratch location, and installs the extracted tree into
// each target. The scratch location is removed on return, success or failure.
func (i *Installer) InstallFromRepository(ctx context.Context, repo, branch string, targets []string, progress fetch.ProgressFunc) error {
	root, cleanup, err := fetch.Fetch(ctx, fetch.ArchiveURL(repo, branch), progress, i.logger)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, target := range targets {
		if err := i.InstallLocal(ctx, root, target); err != nil {
			return err
		}
	}
	return nil
}

// Uninstall removes the installation at target. A target that does not exist
// reports plugin.ErrNotInstalled.
func (i *Installer) Uninstall(target string) error {
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return fmt.Errorf("%w: nothing at %s", plugin.ErrNotInstalled, target)
	}
	if err := os.RemoveAll(target); err != nil {
		return wrapFsErr("failed to remove installation", err)
	}
	return nil
}

// Installed reports whether a plugin installation exists at target.
func (i *Installer) Installed(target string) bool {
	info, err := os.Stat(target)
	return err == nil && info.IsDir()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return wrapFsErr("failed to read plugin file", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return wrapFsErr("failed to stat plugin file", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return wrapFsErr("failed to create plugin file", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return wrapFsErr("failed to copy plugin file", err)
	}
	if err := out.Close(); err != nil {
		return wrapFsErr("failed to copy plugin file", err)
	}
	return nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return wrapFsErr("failed to walk resources", err)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		targetPath := filepath.Join(dst, rel)
		if d.IsDir() {
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return wrapFsErr("failed to create directory", err)
			}
			return nil
		}
		return copyFile(path, targetPath)
	})
}

// wrapFsErr maps permission failures onto plugin.ErrPermissionDenied so
// callers can match the kind; everything else is wrapped as-is.
func wrapFsErr(msg string, err error) error {
	if os.IsPermission(err) {
		return fmt.Errorf("%w: %s: %v", plugin.ErrPermissionDenied, msg, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
