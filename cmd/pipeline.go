package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/kelas-internasional/kelas/internal/config"
	"github.com/kelas-internasional/kelas/internal/content"
	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
	"github.com/kelas-internasional/kelas/internal/logging"
	"github.com/kelas-internasional/kelas/internal/renderer"
	"github.com/kelas-internasional/kelas/internal/richtext"
)

// pipeline wires the content build to one configuration.
type pipeline struct {
	cfg      *config.Config
	logger   logging.Logger
	renderer *renderer.Renderer
	builder  *content.Builder
}

// loadPipeline loads the configuration and builds a pipeline from it.
func loadPipeline() (*pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return newPipeline(cfg, logger), nil
}

// newPipeline builds the compiler and builder described by cfg. The
// compiler accepts exactly the components the renderer registers.
func newPipeline(cfg *config.Config, logger logging.Logger) *pipeline {
	rend := renderer.NewRenderer(renderer.Standard())
	compiler := richtext.New(richtext.Options{
		Components:     rend.Registry().ComponentNames(),
		Theme:          cfg.Markdown.Theme,
		AnchorClass:    cfg.Markdown.AnchorClass,
		AnchorLabel:    cfg.Markdown.AnchorLabel,
		AssetBase:      cfg.Output.Base,
		WordsPerMinute: cfg.Markdown.WordsPerMinute,
	})
	builder := content.NewBuilder(compiler,
		content.WithDefinitions(content.WithDirs(content.Definitions(), cfg.Content.Collections)),
		content.WithLogger(logger),
		content.WithWorkers(cfg.Markdown.Workers),
	)
	return &pipeline{cfg: cfg, logger: logger, renderer: rend, builder: builder}
}

// build runs one content build.
func (p *pipeline) build(ctx context.Context) (*content.Output, error) {
	return p.builder.Build(ctx, p.cfg.Content.Root)
}

// printBuildErrors writes every error of a failed build, one per line,
// sorted by file. Validation errors list each field.
func printBuildErrors(w io.Writer, err error) int {
	var failure *siteerrors.BuildFailure
	errs := []error{err}
	if errors.As(err, &failure) {
		errs = failure.Errors
	}

	type line struct{ file, text string }
	var lines []line
	for _, e := range errs {
		var ve *siteerrors.ValidationErrors
		var se *siteerrors.SiteError
		switch {
		case errors.As(e, &ve):
			for _, fe := range ve.Fields {
				lines = append(lines, line{ve.Document, fmt.Sprintf("%s: %s (%s)", ve.Document, fe.Message, fe.Path)})
			}
		case errors.As(e, &se):
			loc := se.FilePath
			if se.Line > 0 {
				loc = fmt.Sprintf("%s:%d", se.FilePath, se.Line)
			}
			text := se.Message
			if se.Cause != nil {
				text += ": " + se.Cause.Error()
			}
			if loc != "" {
				text = loc + ": " + text
			}
			lines = append(lines, line{se.FilePath, fmt.Sprintf("%s [%s]", text, se.Code)})
		default:
			lines = append(lines, line{"", e.Error()})
		}
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].file < lines[j].file })
	for _, l := range lines {
		fmt.Fprintln(w, "  ✗", filepath.ToSlash(l.text))
	}
	return len(lines)
}
