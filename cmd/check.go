package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smart-cat-ai/smartcat-cli/internal/installer"
	"github.com/smart-cat-ai/smartcat-cli/internal/kicad"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the system can run the plugin",
		Long: `Check verifies the plugin's runtime prerequisites: a Python interpreter
on PATH, a usable Qt binding, and the KiCad configuration directory.`,
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Checking system requirements..."))

	inst := installer.New(env.logger)
	prereqs, err := inst.CheckPrerequisites(cmd.Context(), env.base)
	if err != nil {
		fmt.Printf("%s No Python interpreter found on PATH\n", failMark)
		return err
	}

	fmt.Printf("%s %s (%s)\n", okMark, prereqs.PythonVersion, prereqs.PythonPath)

	if prereqs.QtBinding != "" {
		fmt.Printf("%s %s available\n", okMark, prereqs.QtBinding)
	} else {
		fmt.Printf("%s PyQt5/PyQt6 not importable - the plugin UI needs one,\n", warnMark)
		fmt.Println("  though KiCad may bundle its own interpreter with Qt included.")
	}

	if prereqs.KicadFound {
		fmt.Printf("%s KiCad directory found: %s\n", okMark, env.base)
	} else {
		fmt.Printf("%s KiCad directory not found: %s\n", warnMark, env.base)
		fmt.Println("  This might be normal if KiCad hasn't been run yet.")
	}

	versions, err := kicad.DiscoverVersions(env.base)
	if err != nil {
		return err
	}
	if len(versions) > 0 {
		fmt.Printf("%s Detected KiCad versions: %s\n", okMark, strings.Join(versions, ", "))
	}

	fmt.Println("System requirements check complete.")
	return nil
}
