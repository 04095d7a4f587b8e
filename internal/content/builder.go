package content

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/iter"

	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
	"github.com/kelas-internasional/kelas/internal/logging"
	"github.com/kelas-internasional/kelas/internal/richtext"
	"github.com/kelas-internasional/kelas/internal/schema"
)

// Builder runs one content build: load, validate, derive, compile and
// check uniqueness.
type Builder struct {
	defs     []Definition
	compiler *richtext.Compiler
	logger   logging.Logger
	workers  int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithDefinitions overrides the collection definitions.
func WithDefinitions(defs []Definition) BuilderOption {
	return func(b *Builder) { b.defs = defs }
}

// WithLogger sets the build logger.
func WithLogger(l logging.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l.WithComponent("content") }
}

// WithWorkers bounds the number of documents compiled at once.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// NewBuilder creates a builder around compiler.
func NewBuilder(compiler *richtext.Compiler, opts ...BuilderOption) *Builder {
	b := &Builder{
		defs:     Definitions(),
		compiler: compiler,
		logger:   logging.Nop(),
		workers:  runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Definitions returns the collections this builder reads.
func (b *Builder) Definitions() []Definition {
	return b.defs
}

// Output is the result of a successful build.
type Output struct {
	documents map[Collection][]Document
	Assets    []richtext.Asset
}

// Documents returns a collection in source order.
func (o *Output) Documents(c Collection) []Document {
	return o.documents[c]
}

// Posts returns the posts collection.
func (o *Output) Posts() []*Post {
	docs := o.documents[CollectionPosts]
	out := make([]*Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.(*Post))
	}
	return out
}

// Members returns the member collection.
func (o *Output) Members() []*Member {
	docs := o.documents[CollectionMember]
	out := make([]*Member, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.(*Member))
	}
	return out
}

// Count returns the number of documents across collections.
func (o *Output) Count() int {
	n := 0
	for _, docs := range o.documents {
		n += len(docs)
	}
	return n
}

// Build loads every collection under root and builds it. Any error in any
// document fails the whole build; the returned error then lists them all.
func (b *Builder) Build(ctx context.Context, root string) (*Output, error) {
	op := logging.StartOperation(b.logger, "load")
	collector := siteerrors.NewCollector()

	var sources []*Source
	for _, def := range b.defs {
		files, err := Discover(root, def)
		if err != nil {
			collector.Add(err)
			continue
		}
		for _, file := range files {
			src, err := ReadSource(root, file, def.Name)
			if err != nil {
				collector.Add(err)
				continue
			}
			sources = append(sources, src)
		}
	}
	op.End(ctx, "files", len(sources))

	if collector.HasErrors() {
		return nil, collector.Err()
	}
	return b.BuildSources(ctx, sources)
}

type compiled struct {
	doc    Document
	assets []richtext.Asset
	errs   []error
}

// BuildSources builds already-read sources. Sources are compiled in
// parallel; results keep the order of sources.
func (b *Builder) BuildSources(ctx context.Context, sources []*Source) (*Output, error) {
	op := logging.StartOperation(b.logger, "compile")

	mapper := iter.Mapper[*Source, compiled]{MaxGoroutines: b.workers}
	results := mapper.Map(sources, func(src **Source) compiled {
		if err := ctx.Err(); err != nil {
			return compiled{errs: []error{err}}
		}
		return b.document(*src)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collector := siteerrors.NewCollector()
	out := &Output{documents: make(map[Collection][]Document)}
	seenAssets := make(map[string]bool)
	for _, r := range results {
		for _, err := range r.errs {
			collector.Add(err)
		}
		if r.doc == nil {
			continue
		}
		out.documents[r.doc.Collection()] = append(out.documents[r.doc.Collection()], r.doc)
		for _, a := range r.assets {
			if !seenAssets[a.Name] {
				seenAssets[a.Name] = true
				out.Assets = append(out.Assets, a)
			}
		}
	}

	for _, def := range b.defs {
		checkUnique(collector, def.Name, out.documents[def.Name])
	}

	if err := collector.Err(); err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}
	op.End(ctx, "documents", out.Count(), "assets", len(out.Assets))
	return out, nil
}

// document validates, derives and compiles one source. Validation and
// compilation both run so that one pass reports every problem.
func (b *Builder) document(src *Source) compiled {
	def, ok := Lookup(b.defs, src.Collection)
	if !ok {
		return compiled{errs: []error{siteerrors.NewValidationError(siteerrors.ErrCodeUnknownCollection,
			fmt.Sprintf("unknown collection %q", src.Collection)).WithLocation(src.Path, 0)}}
	}

	var errs []error
	record, err := schema.Validate(def.Schema, src.Data)
	if err != nil {
		var ve *siteerrors.ValidationErrors
		if errors.As(err, &ve) {
			ve.Document = src.Path
		}
		errs = append(errs, err)
	}

	res, err := b.compiler.Compile(src.Body, src.Path)
	if err != nil {
		errs = append(errs, shiftLine(err, src.BodyLine))
	}
	if len(errs) > 0 {
		return compiled{errs: errs}
	}

	doc, err := def.decode(Derive(record))
	if err != nil {
		return compiled{errs: []error{siteerrors.NewInternalError(siteerrors.ErrCodeInternalError,
			"decode document", err).WithLocation(src.Path, 0)}}
	}

	meta := doc.Meta()
	meta.Body = res.Body
	meta.TOC = res.TOC
	meta.Words = res.Words
	meta.ReadingTime = res.ReadingTime
	meta.Source = src.Rel
	return compiled{doc: doc, assets: res.Assets}
}

// shiftLine turns a body line into a file line.
func shiftLine(err error, offset int) error {
	var se *siteerrors.SiteError
	if errors.As(err, &se) && se.Line > 0 {
		se.Line += offset
	}
	return err
}

// checkUnique reports every document whose slug, or whose route key, was
// already taken by an earlier document of the same collection.
func checkUnique(collector *siteerrors.Collector, collection Collection, docs []Document) {
	slugs := make(map[string]string, len(docs))
	params := make(map[string]string, len(docs))
	for _, d := range docs {
		m := d.Meta()
		if first, ok := slugs[m.Slug]; ok {
			collector.Add(siteerrors.NewValidationError(siteerrors.ErrCodeDuplicateSlug,
				fmt.Sprintf("duplicate slug %q in %s: %s and %s", m.Slug, collection, first, m.Source)).
				WithLocation(m.Source, 0).
				WithContext("files", []string{first, m.Source}))
			continue
		}
		slugs[m.Slug] = m.Source

		if first, ok := params[m.SlugAsParams]; ok {
			collector.Add(siteerrors.NewValidationError(siteerrors.ErrCodeDuplicateSlug,
				fmt.Sprintf("duplicate route %q in %s: %s and %s", m.SlugAsParams, collection, first, m.Source)).
				WithLocation(m.Source, 0).
				WithContext("files", []string{first, m.Source}))
			continue
		}
		params[m.SlugAsParams] = m.Source
	}
}
