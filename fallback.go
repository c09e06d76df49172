package rudimedia

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

// fallbackData is the build-time copy of the blog content, shipped with the
// binary so the public blog stays readable while the backend is down.
//
//go:embed fallback/posts.json
var fallbackData []byte

// FallbackSet is the immutable embedded dataset the Resolver degrades to.
// Its slug set is fixed at build time and it is never written to.
type FallbackSet struct {
	posts  []BlogPost
	bySlug map[string]BlogPost
}

// LoadFallback decodes the embedded dataset. It fails only on a malformed
// build artifact, which is a programming error, so callers treat an error
// here as fatal at startup.
func LoadFallback() (*FallbackSet, error) {
	return newFallbackSet(fallbackData)
}

func newFallbackSet(raw []byte) (*FallbackSet, error) {
	var posts []BlogPost
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("decode fallback dataset: %w", err)
	}
	f := &FallbackSet{
		posts:  posts,
		bySlug: make(map[string]BlogPost, len(posts)),
	}
	for _, p := range posts {
		if p.Slug == "" {
			return nil, fmt.Errorf("fallback dataset: post %q has no slug", p.Title)
		}
		if _, dup := f.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("fallback dataset: duplicate slug %q", p.Slug)
		}
		f.bySlug[p.Slug] = p
	}
	sort.Slice(f.posts, func(i, j int) bool {
		return f.posts[i].CreatedAt.After(f.posts[j].CreatedAt)
	})
	return f, nil
}

// Posts returns the dataset newest-first. The returned slice is a copy so
// callers cannot mutate the embedded data.
func (f *FallbackSet) Posts() []BlogPost {
	out := make([]BlogPost, len(f.posts))
	copy(out, f.posts)
	return out
}

// BySlug looks a post up by slug.
func (f *FallbackSet) BySlug(slug string) (BlogPost, bool) {
	p, ok := f.bySlug[slug]
	return p, ok
}

// Slugs returns the fixed slug set, sorted.
func (f *FallbackSet) Slugs() []string {
	slugs := make([]string, 0, len(f.bySlug))
	for s := range f.bySlug {
		slugs = append(slugs, s)
	}
	sort.Strings(slugs)
	return slugs
}
