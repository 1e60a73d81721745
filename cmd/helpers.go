package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smart-cat-ai/smartcat-cli/internal/config"
	"github.com/smart-cat-ai/smartcat-cli/internal/kicad"
)

var (
	okMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("✓")
	warnMark = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("⚠")
	failMark = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")

	headerStyle = lipgloss.NewStyle().Bold(true)
)

// cmdEnv bundles the resolved configuration, logger, and KiCad base directory
// shared by every subcommand.
type cmdEnv struct {
	cfg    *config.Config
	logger zerolog.Logger
	base   string
}

func loadEnv(cmd *cobra.Command) (*cmdEnv, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	if dir, _ := cmd.Flags().GetString("kicad-dir"); dir != "" {
		cfg.KicadDir = dir
	}

	base := cfg.KicadDir
	if base == "" {
		base, err = kicad.BaseDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate KiCad directory: %w", err)
		}
	}

	return &cmdEnv{
		cfg:    cfg,
		logger: newLogger(cfg.Debug),
		base:   base,
	}, nil
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// selectVersions resolves which KiCad versions an operation targets: an
// explicitly requested version wins, otherwise the newest detected one, or
// every detected one with all set.
func selectVersions(base, requested string, all bool) ([]string, error) {
	if requested != "" {
		return []string{requested}, nil
	}

	versions, err := kicad.DiscoverVersions(base)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("no KiCad installations found under %s (use --kicad-version to target one anyway)", base)
	}
	if all {
		return versions, nil
	}
	return []string{kicad.Newest(versions)}, nil
}
