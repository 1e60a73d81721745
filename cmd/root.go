package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "smartcat",
		Short: "Smart Cat AI Assistant - KiCad plugin installer",
		Long: `smartcat installs the Smart Cat AI Assistant plugin into KiCad's
scripting plugins directory.

It can copy the plugin from a local source tree, fetch it from the plugin's
GitHub repository, remove an installation, and build the zip package the
KiCad Plugin and Content Manager consumes.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to the smartcat config file")
	rootCmd.PersistentFlags().String("kicad-dir", "", "KiCad configuration directory (overrides auto-detection)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newInstallCommand())
	rootCmd.AddCommand(newUninstallCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newPackageCommand())

	return rootCmd
}
