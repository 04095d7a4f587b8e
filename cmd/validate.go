package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:     "validate",
	Aliases: []string{"v"},
	Short:   "Validate and compile every document without writing output",
	Long: `Validate every document against its collection schema and compile
every body, reporting all errors at once. Nothing is written.

Checks:
- Required frontmatter fields and field constraints
- Malformed markup and undeclared components
- Duplicate slugs within a collection

Examples:
  kelas validate
  kelas validate --config site.yml`,
	RunE: runValidateCommand,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidateCommand(cmd *cobra.Command, args []string) error {
	p, err := loadPipeline()
	if err != nil {
		return err
	}
	return validateSite(cmd.Context(), p, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func validateSite(ctx context.Context, p *pipeline, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out, err := p.build(ctx)
	if err != nil {
		n := printBuildErrors(stderr, err)
		return fmt.Errorf("validation failed with %d error(s)", n)
	}
	fmt.Fprintf(stdout, "✓ %d documents are valid\n", out.Count())
	return nil
}
