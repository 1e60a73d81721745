package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/smart-cat-ai/smartcat-cli/internal/fetch"
	"github.com/smart-cat-ai/smartcat-cli/internal/installer"
	"github.com/smart-cat-ai/smartcat-cli/internal/kicad"
	"github.com/smart-cat-ai/smartcat-cli/internal/plugin"
)

type installFlags struct {
	source       string
	repo         string
	branch       string
	kicadVersion string
	allVersions  bool
	skipCheck    bool
}

func newInstallCommand() *cobra.Command {
	flags := &installFlags{}

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the plugin into KiCad",
		Long: `Install copies the plugin's essential files into KiCad's scripting
plugins directory. By default the current directory is used as the plugin
source; with --repo the source is downloaded from a repository instead.

The newest detected KiCad version is targeted unless --kicad-version or
--all-versions says otherwise.`,
		Example: `  # Install from the current source tree
  smartcat install

  # Fetch the plugin from its GitHub repository
  smartcat install --repo

  # Install a branch of a fork into every detected KiCad version
  smartcat install --repo=myfork/Smart-Cat --branch dev --all-versions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.source, "source", ".", "Plugin source directory for local installs")
	cmd.Flags().StringVar(&flags.repo, "repo", "", "Install from a repository (owner/name or full archive URL)")
	cmd.Flags().Lookup("repo").NoOptDefVal = plugin.DefaultRepository
	cmd.Flags().StringVar(&flags.branch, "branch", "", "Branch or ref to fetch in repository mode")
	cmd.Flags().StringVar(&flags.kicadVersion, "kicad-version", "", "Install only into this KiCad version")
	cmd.Flags().BoolVar(&flags.allVersions, "all-versions", false, "Install into every detected KiCad version")
	cmd.Flags().BoolVar(&flags.skipCheck, "skip-check", false, "Skip the prerequisite check")

	return cmd
}

func runInstall(cmd *cobra.Command, flags *installFlags) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted.")
		cancel()
	}()

	inst := installer.New(env.logger)

	if !flags.skipCheck {
		if _, err := inst.CheckPrerequisites(ctx, env.base); err != nil {
			return err
		}
	}

	versions, err := selectVersions(env.base, flags.kicadVersion, flags.allVersions)
	if err != nil {
		return err
	}

	targets := make([]string, 0, len(versions))
	for _, v := range versions {
		targets = append(targets, filepath.Join(kicad.PluginDir(env.base, v), plugin.DirName))
	}

	if cmd.Flags().Changed("repo") {
		if err := installFromRepo(ctx, inst, env, flags, targets); err != nil {
			return err
		}
	} else {
		source, err := filepath.Abs(flags.source)
		if err != nil {
			return err
		}
		for n, target := range targets {
			if err := inst.InstallLocal(ctx, source, target); err != nil {
				return err
			}
			fmt.Printf("%s KiCad %s: %s\n", okMark, versions[n], target)
		}
	}

	fmt.Printf("\n%s Plugin installed for KiCad %s\n", okMark, strings.Join(versions, ", "))
	fmt.Println("\nNext steps:")
	fmt.Println("1. Restart KiCad PCB Editor")
	fmt.Println("2. Look for 'Smart Cat AI Assistant' in the toolbar or Tools menu")
	fmt.Println("3. Configure your API key in the plugin settings")
	return nil
}

func installFromRepo(ctx context.Context, inst *installer.Installer, env *cmdEnv, flags *installFlags, targets []string) error {
	repo := flags.repo
	if repo == "" {
		repo = env.cfg.Repository
	}
	branch := flags.branch
	if branch == "" {
		branch = env.cfg.Branch
	}

	url := fetch.ArchiveURL(repo, branch)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return tuiInstall(ctx, inst, url, repo, branch, targets)
	}

	fmt.Printf("Downloading %s...\n", url)
	return inst.InstallFromRepository(ctx, repo, branch, targets, nil)
}
