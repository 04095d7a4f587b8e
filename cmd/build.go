package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kelas-internasional/kelas/internal/content"
	"github.com/kelas-internasional/kelas/internal/server"
	"github.com/kelas-internasional/kelas/internal/store"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Compile content into bundles",
	Long: `Validate and compile every document, then write one JSON bundle per
collection and copy the images the documents reference.

Nothing is written when any document fails; every error is listed.

Examples:
  kelas build                     # Write bundles to .kelas/
  kelas build --output build/data # Write bundles elsewhere
  kelas build --html              # Also export static HTML to dist/
  kelas build --no-clean          # Keep stale bundles`,
	RunE: runBuild,
}

type buildOptions struct {
	html bool
}

var buildHTML bool

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringP("output", "o", "", "bundle directory (default output.data)")
	buildCmd.Flags().Bool("no-clean", false, "keep the bundle directory contents")
	buildCmd.Flags().BoolVar(&buildHTML, "html", false, "export static HTML to output.html")
	buildCmd.Flags().String("html-dir", "", "static export directory (default output.html)")

	_ = viper.BindPFlag("output.data", buildCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("output.html", buildCmd.Flags().Lookup("html-dir"))
}

func runBuild(cmd *cobra.Command, args []string) error {
	p, err := loadPipeline()
	if err != nil {
		return err
	}
	if noClean, _ := cmd.Flags().GetBool("no-clean"); noClean {
		p.cfg.Output.Clean = false
	}
	return buildSite(cmd.Context(), p, buildOptions{html: buildHTML}, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// buildSite compiles the content, writes the bundles and assets, and
// optionally exports the pages.
func buildSite(ctx context.Context, p *pipeline, opts buildOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	out, err := p.build(ctx)
	if err != nil {
		n := printBuildErrors(stderr, err)
		return fmt.Errorf("build failed with %d error(s)", n)
	}

	defs := p.builder.Definitions()
	if p.cfg.Output.Clean {
		if err := os.RemoveAll(p.cfg.Output.Data); err != nil {
			return fmt.Errorf("clean %s: %w", p.cfg.Output.Data, err)
		}
	}
	if err := content.WriteBundles(p.cfg.Output.Data, out, defs); err != nil {
		return err
	}
	if err := content.CopyAssets(p.cfg.Output.Assets, out.Assets); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "✓ Built %d posts and %d members (%d assets) in %s\n",
		len(out.Posts()), len(out.Members()), len(out.Assets), time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(stdout, "  Bundles: %s\n", p.cfg.Output.Data)

	if !opts.html {
		return nil
	}

	st, err := store.FromOutput(out, defs)
	if err != nil {
		return err
	}
	srv := server.New(p.cfg, store.NewHolder(st), p.renderer, server.WithLogger(p.logger))
	if err := os.RemoveAll(p.cfg.Output.HTML); err != nil {
		return fmt.Errorf("clean %s: %w", p.cfg.Output.HTML, err)
	}
	pages, err := srv.Export(ctx, p.cfg.Output.HTML)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "  HTML: %d pages in %s\n", pages, p.cfg.Output.HTML)
	return nil
}
