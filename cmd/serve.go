package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kelas-internasional/kelas/internal/content"
	"github.com/kelas-internasional/kelas/internal/server"
	"github.com/kelas-internasional/kelas/internal/store"
	"github.com/kelas-internasional/kelas/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Serve the site with live reload",
	Long: `Compile the content and serve the site. With --watch (the default)
every change under the content root triggers a rebuild; a successful
rebuild replaces the served documents and reloads open browsers, a failed
one keeps the previous documents and prints the errors.

Examples:
  kelas serve                     # http://localhost:3000
  kelas serve -p 8080 --host 0.0.0.0
  kelas serve --watch=false       # Serve one build only`,
	RunE: runServe,
}

var serveFlags *StandardFlags

func init() {
	rootCmd.AddCommand(serveCmd)

	serveFlags = AddStandardFlags(serveCmd, "server")
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
}

func runServe(cmd *cobra.Command, args []string) error {
	p, err := loadPipeline()
	if err != nil {
		return err
	}
	if !serveFlags.Watch {
		p.cfg.Server.LiveReload = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := newDevSession(ctx, p, serveFlags.Watch)
	if err != nil {
		return err
	}

	if serveFlags.Watch {
		fw, err := watcher.NewFileWatcher(p.cfg.Server.Debounce, p.logger)
		if err != nil {
			return err
		}
		defer fw.Stop()

		fw.AddFilter(watcher.ContentFilter)
		fw.AddFilter(watcher.NoHiddenFilter)
		fw.AddHandler(session.rebuild)
		if err := fw.AddRecursive(p.cfg.Content.Root); err != nil {
			return fmt.Errorf("watch %s: %w", p.cfg.Content.Root, err)
		}
		fw.Start(ctx)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", p.cfg.Server.Addr())
	return session.server.Start(ctx)
}

// devSession owns the served snapshot and replaces it on rebuild.
type devSession struct {
	pipeline *pipeline
	holder   *store.Holder
	server   *server.Server
}

// newDevSession runs the first build. When tolerant, a failed first build
// serves an empty site so the author can fix the content while watching.
func newDevSession(ctx context.Context, p *pipeline, tolerant bool) (*devSession, error) {
	d := &devSession{pipeline: p, holder: store.NewHolder(store.Empty())}
	d.server = server.New(p.cfg, d.holder, p.renderer, server.WithLogger(p.logger))

	st, err := d.buildStore(ctx)
	if err != nil {
		n := printBuildErrors(os.Stderr, err)
		if !tolerant {
			return nil, fmt.Errorf("build failed with %d error(s)", n)
		}
		p.logger.Warn(ctx, err, "Initial build failed, serving an empty site until the content is fixed")
		return d, nil
	}
	d.holder.Swap(st)
	return d, nil
}

// rebuild is the watcher handler.
func (d *devSession) rebuild(ctx context.Context, events []watcher.ChangeEvent) error {
	paths := make([]string, len(events))
	for i, e := range events {
		paths[i] = e.Path
	}
	d.pipeline.logger.Info(ctx, "Content changed, rebuilding", "files", paths)

	st, err := d.buildStore(ctx)
	if err != nil {
		printBuildErrors(os.Stderr, err)
		d.server.ReportBuildError(err)
		return nil
	}
	d.holder.Swap(st)
	d.server.Reload()
	return nil
}

// buildStore builds the content, refreshes the bundles and assets on disk
// and returns the new snapshot.
func (d *devSession) buildStore(ctx context.Context) (*store.Store, error) {
	p := d.pipeline
	out, err := p.build(ctx)
	if err != nil {
		return nil, err
	}
	defs := p.builder.Definitions()
	st, err := store.FromOutput(out, defs)
	if err != nil {
		return nil, err
	}
	if err := content.WriteBundles(p.cfg.Output.Data, out, defs); err != nil {
		return nil, err
	}
	if err := content.CopyAssets(p.cfg.Output.Assets, out.Assets); err != nil {
		return nil, err
	}
	return st, nil
}
