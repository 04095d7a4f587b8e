package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kelas-internasional/kelas/internal/version"
)

var (
	versionFormat string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for kelas including the version, git
commit, build time, Go version and platform.

Examples:
  kelas version                  # Show version
  kelas version --short          # Version only
  kelas version --format json    # Output as JSON`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	return writeVersion(cmd.OutOrStdout(), versionFormat, versionShort)
}

func writeVersion(w io.Writer, format string, short bool) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(version.GetBuildInfo())
	case "text":
		if short {
			_, err := fmt.Fprintln(w, version.GetShortVersion())
			return err
		}
		info := version.GetBuildInfo()
		fmt.Fprintf(w, "kelas %s\n", version.GetShortVersion())
		if !info.BuildTime.IsZero() {
			fmt.Fprintf(w, "Built: %s\n", info.BuildTime.Format("2006-01-02 15:04:05 UTC"))
		}
		fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
		fmt.Fprintf(w, "Platform: %s\n", info.Platform)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
	}
}
