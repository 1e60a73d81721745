package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smart-cat-ai/smartcat-cli/internal/installer"
	"github.com/smart-cat-ai/smartcat-cli/internal/kicad"
	"github.com/smart-cat-ai/smartcat-cli/internal/plugin"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List detected KiCad versions and install state",
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	versions, err := kicad.DiscoverVersions(env.base)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Printf("No KiCad installations found under %s\n", env.base)
		return nil
	}

	inst := installer.New(env.logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tPLUGIN DIR\tSTATUS")
	fmt.Fprintln(w, "-------\t----------\t------")

	for _, v := range versions {
		target := filepath.Join(kicad.PluginDir(env.base, v), plugin.DirName)
		status := "Not installed"
		if inst.Installed(target) {
			status = "Installed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", v, target, status)
	}

	w.Flush()
	return nil
}
