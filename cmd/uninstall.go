package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/smart-cat-ai/smartcat-cli/internal/installer"
	"github.com/smart-cat-ai/smartcat-cli/internal/kicad"
	"github.com/smart-cat-ai/smartcat-cli/internal/plugin"
)

type uninstallFlags struct {
	kicadVersion string
	allVersions  bool
}

func newUninstallCommand() *cobra.Command {
	flags := &uninstallFlags{}

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the plugin from KiCad",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUninstall(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.kicadVersion, "kicad-version", "", "Uninstall only from this KiCad version")
	cmd.Flags().BoolVar(&flags.allVersions, "all-versions", true, "Uninstall from every detected KiCad version")

	return cmd
}

func runUninstall(cmd *cobra.Command, flags *uninstallFlags) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	var versions []string
	if flags.kicadVersion != "" {
		versions = []string{flags.kicadVersion}
	} else {
		versions, err = kicad.DiscoverVersions(env.base)
		if err != nil {
			return err
		}
		if !flags.allVersions && len(versions) > 0 {
			versions = []string{kicad.Newest(versions)}
		}
	}
	if len(versions) == 0 {
		fmt.Println("Plugin not found - nothing to uninstall.")
		return nil
	}

	inst := installer.New(env.logger)

	removed := 0
	for _, v := range versions {
		target := filepath.Join(kicad.PluginDir(env.base, v), plugin.DirName)
		err := inst.Uninstall(target)
		switch {
		case errors.Is(err, plugin.ErrNotInstalled):
			fmt.Printf("KiCad %s: not installed\n", v)
		case err != nil:
			return err
		default:
			fmt.Printf("%s KiCad %s: removed %s\n", okMark, v, target)
			removed++
		}
	}

	if removed > 0 {
		fmt.Println("\nPlease restart KiCad to complete the removal.")
	}
	return nil
}
