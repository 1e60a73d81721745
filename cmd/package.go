package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/smart-cat-ai/smartcat-cli/internal/packaging"
	"github.com/smart-cat-ai/smartcat-cli/internal/tui"
)

type packageFlags struct {
	source     string
	output     string
	releaseTag string
}

func newPackageCommand() *cobra.Command {
	flags := &packageFlags{}

	cmd := &cobra.Command{
		Use:   "package",
		Short: "Build the Plugin and Content Manager zip package",
		Long: `Package stages the plugin's essential files into a zip archive and prints
the size and digest values its metadata.json entry needs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackage(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.source, "source", ".", "Plugin source directory")
	cmd.Flags().StringVar(&flags.output, "output", "smart_cat_plugin.zip", "Output archive path")
	cmd.Flags().StringVar(&flags.releaseTag, "release-tag", "v1.0.0", "Release tag used in the download URL")

	return cmd
}

func runPackage(cmd *cobra.Command, flags *packageFlags) error {
	source, err := filepath.Abs(flags.source)
	if err != nil {
		return err
	}

	result, err := packaging.Build(source, flags.output, flags.releaseTag)
	if err != nil {
		return err
	}

	fmt.Printf("%s Package created: %s\n", okMark, result.ArchivePath)
	fmt.Printf("  Uncompressed size: %s\n", tui.FormatSize(result.InstallSize))
	fmt.Printf("  Package size: %s\n", tui.FormatSize(result.DownloadSize))
	fmt.Printf("  SHA256: %s\n", result.SHA256)

	fmt.Println(headerStyle.Render("\nUpdate metadata.json with these values:"))
	fmt.Printf("\"download_size\": %d,\n", result.DownloadSize)
	fmt.Printf("\"install_size\": %d,\n", result.InstallSize)
	fmt.Printf("\"download_sha256\": %q,\n", result.SHA256)
	fmt.Printf("\"download_url\": %q\n", result.DownloadURL)
	return nil
}
