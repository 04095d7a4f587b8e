// Package store serves built documents to the pages.
//
// A Store is an immutable snapshot: it is built once from a content build
// or a bundle directory and never changes. The dev server publishes a new
// snapshot after every successful rebuild through a Holder; requests keep
// the snapshot they started with.
package store

import (
	"fmt"
	"sync/atomic"

	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
	"github.com/kelas-internasional/kelas/internal/content"
)

// ErrNotFound is matched by errors.Is for every lookup miss.
var ErrNotFound = siteerrors.NewNotFoundError(siteerrors.ErrCodeDocumentNotFound, "document not found")

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	return siteerrors.IsNotFound(err)
}

type collection struct {
	docs  []content.Document
	index map[string]content.Document
}

// Store holds every collection of one build.
type Store struct {
	collections map[content.Collection]*collection
}

// New creates a store from documents grouped by collection. Documents keep
// the order given. A repeated slugAsParams is an error.
func New(docs map[content.Collection][]content.Document) (*Store, error) {
	s := &Store{collections: make(map[content.Collection]*collection, len(docs))}
	for name, list := range docs {
		c := &collection{
			docs:  append([]content.Document(nil), list...),
			index: make(map[string]content.Document, len(list)),
		}
		for _, d := range list {
			key := d.Meta().SlugAsParams
			if prev, ok := c.index[key]; ok {
				return nil, siteerrors.NewValidationError(siteerrors.ErrCodeDuplicateSlug,
					fmt.Sprintf("duplicate route %q in %s: %s and %s", key, name, prev.Meta().Source, d.Meta().Source))
			}
			c.index[key] = d
		}
		s.collections[name] = c
	}
	return s, nil
}

// FromOutput creates a store from a successful build.
func FromOutput(out *content.Output, defs []content.Definition) (*Store, error) {
	docs := make(map[content.Collection][]content.Document, len(defs))
	for _, def := range defs {
		docs[def.Name] = out.Documents(def.Name)
	}
	return New(docs)
}

// Load creates a store from the bundles in dir.
func Load(dir string, defs []content.Definition) (*Store, error) {
	docs := make(map[content.Collection][]content.Document, len(defs))
	for _, def := range defs {
		list, err := content.ReadBundle(dir, def.Name)
		if err != nil {
			return nil, err
		}
		docs[def.Name] = list
	}
	return New(docs)
}

// Empty returns a store without documents.
func Empty() *Store {
	return &Store{collections: map[content.Collection]*collection{}}
}

// All returns a collection in source order. The slice is a copy.
func (s *Store) All(name content.Collection) ([]content.Document, error) {
	c, ok := s.collections[name]
	if !ok {
		return nil, siteerrors.NewNotFoundError(siteerrors.ErrCodeUnknownCollection,
			fmt.Sprintf("unknown collection %q", name))
	}
	return append([]content.Document(nil), c.docs...), nil
}

// FindBySlugAsParams looks up one document by its route key. A miss
// satisfies errors.Is(err, ErrNotFound).
func (s *Store) FindBySlugAsParams(name content.Collection, key string) (content.Document, error) {
	c, ok := s.collections[name]
	if !ok {
		return nil, siteerrors.NewNotFoundError(siteerrors.ErrCodeUnknownCollection,
			fmt.Sprintf("unknown collection %q", name))
	}
	d, ok := c.index[key]
	if !ok {
		return nil, siteerrors.NewNotFoundError(siteerrors.ErrCodeDocumentNotFound,
			fmt.Sprintf("no %s document at %q", name, key)).
			WithContext("collection", string(name)).
			WithContext("key", key)
	}
	return d, nil
}

// Count returns the number of documents in a collection.
func (s *Store) Count(name content.Collection) int {
	if c, ok := s.collections[name]; ok {
		return len(c.docs)
	}
	return 0
}

// Posts returns every post in source order.
func (s *Store) Posts() []*content.Post {
	c, ok := s.collections[content.CollectionPosts]
	if !ok {
		return nil
	}
	out := make([]*content.Post, 0, len(c.docs))
	for _, d := range c.docs {
		out = append(out, d.(*content.Post))
	}
	return out
}

// Members returns every member in source order.
func (s *Store) Members() []*content.Member {
	c, ok := s.collections[content.CollectionMember]
	if !ok {
		return nil
	}
	out := make([]*content.Member, 0, len(c.docs))
	for _, d := range c.docs {
		out = append(out, d.(*content.Member))
	}
	return out
}

// Post finds a post by route key.
func (s *Store) Post(key string) (*content.Post, error) {
	d, err := s.FindBySlugAsParams(content.CollectionPosts, key)
	if err != nil {
		return nil, err
	}
	return d.(*content.Post), nil
}

// Member finds a member by route key.
func (s *Store) Member(key string) (*content.Member, error) {
	d, err := s.FindBySlugAsParams(content.CollectionMember, key)
	if err != nil {
		return nil, err
	}
	return d.(*content.Member), nil
}

// Holder publishes the current snapshot.
type Holder struct {
	current atomic.Pointer[Store]
}

// NewHolder creates a holder serving s.
func NewHolder(s *Store) *Holder {
	h := &Holder{}
	h.Swap(s)
	return h
}

// Load returns the current snapshot.
func (h *Holder) Load() *Store {
	return h.current.Load()
}

// Swap replaces the snapshot and returns the previous one.
func (h *Holder) Swap(s *Store) *Store {
	if s == nil {
		s = Empty()
	}
	return h.current.Swap(s)
}
