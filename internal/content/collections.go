package content

import (
	"sort"

	"github.com/kelas-internasional/kelas/internal/schema"
)

// Definition describes where a collection's documents live and what shape
// they must have.
type Definition struct {
	Name Collection
	// Dir is the collection directory relative to the content root. It is
	// also the first segment of every derived slug.
	Dir    string
	Schema *schema.Type
	decode func(record map[string]interface{}) (Document, error)
}

// PostSchema is the frontmatter shape of a blog post.
var PostSchema = schema.Object(
	schema.Required("slug", schema.Path()),
	schema.Required("title", schema.String().Rules("min=1")),
	schema.Optional("description", schema.String()),
	schema.Required("date", schema.ISODate()),
	schema.Default("published", schema.Boolean(), true),
	schema.Optional("tags", schema.Array(schema.String())),
)

// MemberSchema is the frontmatter shape of a member profile.
var MemberSchema = schema.Object(
	schema.Required("slug", schema.Path()),
	schema.Required("firstName", schema.String()),
	schema.Required("lastName", schema.String()),
	schema.Required("imageUrl", schema.String()),
	schema.Required("studentId", schema.String()),
	schema.Optional("nickname", schema.String()),
	schema.Optional("position", schema.String()),
	schema.Optional("department", schema.String()),
	schema.Optional("semester", schema.Integer().Rules("gte=1")),
	schema.Optional("birthDate", schema.ISODate()),
	schema.Optional("birthPlace", schema.String()),
	schema.Optional("address", schema.String()),
	schema.Optional("phone", schema.String()),
	schema.Optional("email", schema.String().Rules("email")),
	schema.Optional("bio", schema.String()),
	schema.Optional("hobbies", schema.Array(schema.String())),
	schema.Optional("skills", schema.Array(schema.Object(
		schema.Required("name", schema.String()),
		schema.Required("level", schema.Number().Rules("gte=0,lte=100")),
	))),
	schema.Optional("achievements", schema.Array(schema.String())),
	schema.Optional("socialNetworks", schema.Array(schema.Object(
		schema.Required("name", schema.String()),
		schema.Required("url", schema.String()),
	))),
	schema.Optional("activities", schema.Array(schema.Object(
		schema.Required("title", schema.String()),
		schema.Optional("description", schema.String()),
		schema.Required("date", schema.ISODate()),
	))),
	schema.Optional("order", schema.Integer()),
	schema.Default("isActive", schema.Boolean(), true),
	schema.Optional("joinDate", schema.ISODate()),
)

// Definitions returns the site's collections with their default
// directories.
func Definitions() []Definition {
	return []Definition{
		{
			Name:   CollectionPosts,
			Dir:    "blog",
			Schema: PostSchema,
			decode: func(r map[string]interface{}) (Document, error) {
				p := &Post{}
				return p, decodeRecord(r, p)
			},
		},
		{
			Name:   CollectionMember,
			Dir:    "member",
			Schema: MemberSchema,
			decode: func(r map[string]interface{}) (Document, error) {
				m := &Member{}
				return m, decodeRecord(r, m)
			},
		},
	}
}

// WithDirs returns a copy of defs with the directories named in dirs,
// keyed by collection name.
func WithDirs(defs []Definition, dirs map[string]string) []Definition {
	out := make([]Definition, len(defs))
	copy(out, defs)
	for i := range out {
		if dir, ok := dirs[string(out[i].Name)]; ok && dir != "" {
			out[i].Dir = dir
		}
	}
	return out
}

// Lookup finds a definition by collection name.
func Lookup(defs []Definition, name Collection) (Definition, bool) {
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Entry schemas back the admin forms. Entries are validated only; nothing
// is stored.
var entrySchemas = map[string]*schema.Type{
	"achievement": schema.Object(
		schema.Required("title", schema.String().Rules("min=3")),
		schema.Required("description", schema.String().Rules("min=10")),
		schema.Required("number", schema.String().Rules("min=1")),
		schema.Required("icon", schema.String().Rules("min=1")),
		schema.Required("status", schema.String().Rules("oneof=excellent good average")),
		schema.Required("progress", schema.Number().Rules("gte=0,lte=100")),
		schema.Required("category", schema.String().Rules("min=1")),
		schema.Optional("image", schema.String()),
	),
	"activity": schema.Object(
		schema.Required("title", schema.String().Rules("min=3")),
		schema.Required("description", schema.String().Rules("min=10")),
		schema.Required("icon", schema.String().Rules("min=1")),
	),
	"community": schema.Object(
		schema.Required("name", schema.String().Rules("min=3")),
		schema.Required("description", schema.String().Rules("min=10")),
		schema.Required("link", schema.String()),
		schema.Required("icon", schema.String().Rules("min=1")),
	),
}

// EntrySchema returns the schema of an admin entry kind.
func EntrySchema(kind string) (*schema.Type, bool) {
	t, ok := entrySchemas[kind]
	return t, ok
}

// EntryKinds lists the admin entry kinds, sorted.
func EntryKinds() []string {
	kinds := make([]string, 0, len(entrySchemas))
	for k := range entrySchemas {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
