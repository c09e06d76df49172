package rudimedia

import (
	"context"
	"errors"
)

// Source identifies where resolved content came from.
type Source int

const (
	SourcePrimary Source = iota
	SourceFallback
)

func (s Source) String() string {
	if s == SourceFallback {
		return "fallback"
	}
	return "primary"
}

// LookupStatus is the outcome of a single-post resolution.
type LookupStatus int

const (
	// LookupFound means the post was resolved, from either source.
	LookupFound LookupStatus = iota
	// LookupNotFound means the slug exists in neither the primary source
	// nor the fallback dataset: the content genuinely does not exist.
	LookupNotFound
	// LookupUnavailable means the primary source could not answer and the
	// fallback has no copy. The content may exist; we cannot tell.
	LookupUnavailable
)

// Lookup is the tagged result of GetBySlug. Post and Source are meaningful
// only when Status is LookupFound.
type Lookup struct {
	Status LookupStatus
	Post   BlogPost
	Source Source
}

// Resolver reads blog content from the backend, degrading to the embedded
// fallback dataset when the backend is unreachable or answers with a
// non-success status. Degraded reads are normal operation, not errors.
// Reads always go to the primary first; nothing is cached between calls.
type Resolver struct {
	client   *Client
	fallback *FallbackSet
}

// NewResolver creates a Resolver over the given client and fallback dataset.
func NewResolver(client *Client, fallback *FallbackSet) *Resolver {
	return &Resolver{client: client, fallback: fallback}
}

// List returns the published posts and the source that produced them. It has
// no failure mode: any primary failure yields the fallback dataset.
func (r *Resolver) List(ctx context.Context) ([]BlogPost, Source) {
	posts, err := r.client.Posts(ctx)
	if err != nil {
		return r.fallback.Posts(), SourceFallback
	}
	return posts, SourcePrimary
}

// GetBySlug resolves a single post. A primary 404 still consults the
// fallback, so fallback-only slugs stay reachable; a primary that cannot
// answer at all is reported as unavailable rather than masked as not-found.
func (r *Resolver) GetBySlug(ctx context.Context, slug string) Lookup {
	post, err := r.client.PostBySlug(ctx, slug)
	if err == nil {
		return Lookup{Status: LookupFound, Post: post, Source: SourcePrimary}
	}
	if fb, ok := r.fallback.BySlug(slug); ok {
		return Lookup{Status: LookupFound, Post: fb, Source: SourceFallback}
	}
	if errors.Is(err, ErrNotFound) {
		return Lookup{Status: LookupNotFound}
	}
	return Lookup{Status: LookupUnavailable}
}
