package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kelas-internasional/kelas/internal/content"
	"github.com/kelas-internasional/kelas/internal/store"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List documents",
	Long: `List the documents of every collection with their routes.
Posts are listed newest first and members in hierarchy order.

Examples:
  kelas list                      # Table of every document
  kelas list -c member            # Members only
  kelas list -o json              # Output as JSON
  kelas list -o yaml --drafts     # Include unpublished posts`,
	RunE: runList,
}

var listFlags *StandardFlags

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddStandardFlags(listCmd, "output")
	listCmd.Flags().StringP("collection", "c", "", "only list this collection (posts, member)")
	listCmd.Flags().Bool("drafts", false, "include unpublished posts")

	AddFlagValidation(listCmd, "output", func(format string) error {
		return ValidateFormat(format, []string{"table", "json", "yaml"})
	})
}

// listItem is one row of the listing.
type listItem struct {
	Collection   string   `json:"collection" yaml:"collection"`
	Slug         string   `json:"slug" yaml:"slug"`
	SlugAsParams string   `json:"slugAsParams" yaml:"slugAsParams"`
	Title        string   `json:"title" yaml:"title"`
	Date         string   `json:"date,omitempty" yaml:"date,omitempty"`
	Position     string   `json:"position,omitempty" yaml:"position,omitempty"`
	Tags         []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Published    *bool    `json:"published,omitempty" yaml:"published,omitempty"`
	ReadingTime  int      `json:"readingTime" yaml:"readingTime"`
	Source       string   `json:"source" yaml:"source"`
}

func runList(cmd *cobra.Command, args []string) error {
	if err := listFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	p, err := loadPipeline()
	if err != nil {
		return err
	}
	collection, _ := cmd.Flags().GetString("collection")
	drafts, _ := cmd.Flags().GetBool("drafts")
	return listDocuments(cmd.Context(), p, collection, drafts, listFlags.OutputFormat, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func listDocuments(ctx context.Context, p *pipeline, collection string, drafts bool, format string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if collection != "" {
		if _, ok := content.Lookup(p.builder.Definitions(), content.Collection(collection)); !ok {
			return fmt.Errorf("unknown collection %q", collection)
		}
	}

	out, err := p.build(ctx)
	if err != nil {
		n := printBuildErrors(stderr, err)
		return fmt.Errorf("build failed with %d error(s)", n)
	}

	items := collectItems(out, content.Collection(collection), drafts)
	switch strings.ToLower(format) {
	case "json":
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(items)
	case "yaml":
		encoder := yaml.NewEncoder(stdout)
		defer encoder.Close()
		return encoder.Encode(items)
	case "", "table":
		return outputTable(stdout, items)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func collectItems(out *content.Output, only content.Collection, drafts bool) []listItem {
	items := []listItem{}
	if only == "" || only == content.CollectionPosts {
		var posts []*content.Post
		if drafts {
			posts = newestFirst(out.Posts())
		} else {
			posts = store.PublishedPosts(out.Posts())
		}
		for _, p := range posts {
			published := p.Published
			items = append(items, listItem{
				Collection:   string(content.CollectionPosts),
				Slug:         p.Slug,
				SlugAsParams: p.SlugAsParams,
				Title:        p.Title,
				Date:         p.Date,
				Tags:         p.Tags,
				Published:    &published,
				ReadingTime:  p.ReadingTime,
				Source:       p.Source,
			})
		}
	}
	if only == "" || only == content.CollectionMember {
		for _, m := range store.SortMembersByHierarchy(out.Members()) {
			items = append(items, listItem{
				Collection:   string(content.CollectionMember),
				Slug:         m.Slug,
				SlugAsParams: m.SlugAsParams,
				Title:        m.DisplayName(),
				Position:     m.Position,
				ReadingTime:  m.ReadingTime,
				Source:       m.Source,
			})
		}
	}
	return items
}

func newestFirst(posts []*content.Post) []*content.Post {
	out := append([]*content.Post(nil), posts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time().After(out[j].Time())
	})
	return out
}

func outputTable(w io.Writer, items []listItem) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No documents found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLLECTION\tROUTE\tTITLE\tDETAIL\tSOURCE")
	for _, it := range items {
		route := "/blog/" + it.SlugAsParams
		detail := it.Date
		if it.Collection == string(content.CollectionMember) {
			route = "/member/" + it.SlugAsParams
			detail = it.Position
		} else if it.Published != nil && !*it.Published {
			detail += " (draft)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", it.Collection, route, it.Title, detail, it.Source)
	}
	return tw.Flush()
}
