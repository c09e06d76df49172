package rudimedia

import (
	"context"
	"strings"
)

// Draft is the locally held working copy of a post being created or edited.
// It mirrors BlogPost's editable fields and is never shared: each editor
// request binds its own Draft, edits it, and either submits it whole or
// discards it. A failed submit leaves the draft exactly as it was.
type Draft struct {
	ID              string
	Title           string
	Content         string
	Excerpt         string
	Tags            []string
	Published       bool
	MetaDescription string
	MetaKeywords    string
	FeaturedImage   string
}

// NewDraft returns an empty draft for a new post. New posts default to
// published.
func NewDraft() Draft {
	return Draft{Published: true}
}

// DraftFromPost seeds a draft from an existing post for editing.
func DraftFromPost(p BlogPost) Draft {
	tags := make([]string, len(p.Tags))
	copy(tags, p.Tags)
	return Draft{
		ID:              p.ID,
		Title:           p.Title,
		Content:         p.Content,
		Excerpt:         p.Excerpt,
		Tags:            tags,
		Published:       p.Published,
		MetaDescription: p.MetaDescription,
		MetaKeywords:    p.MetaKeywords,
		FeaturedImage:   p.FeaturedImage,
	}
}

// IsNew reports whether the draft is bound to an existing post. Submit uses
// this to choose between create and update.
func (d *Draft) IsNew() bool {
	return d.ID == ""
}

// AddTag trims raw and inserts it into the tag set. Empty results and
// case-sensitive exact duplicates are rejected. Reports whether the tag was
// added.
func (d *Draft) AddTag(raw string) bool {
	tag := strings.TrimSpace(raw)
	if tag == "" {
		return false
	}
	for _, t := range d.Tags {
		if t == tag {
			return false
		}
	}
	d.Tags = append(d.Tags, tag)
	return true
}

// RemoveTag removes a tag by exact match. Reports whether it was present.
func (d *Draft) RemoveTag(tag string) bool {
	for i, t := range d.Tags {
		if t == tag {
			d.Tags = append(d.Tags[:i], d.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// SetTags replaces the tag set with the given raw values, applying the same
// trim/dedupe rules as AddTag. Used when binding the submitted form.
func (d *Draft) SetTags(raw []string) {
	d.Tags = nil
	for _, r := range raw {
		d.AddTag(r)
	}
}

// Validate checks the required fields before submission. It returns a
// *ValidationError naming the first missing field, or nil.
func (d *Draft) Validate() error {
	for _, f := range []struct {
		name  string
		value string
	}{
		{"title", d.Title},
		{"content", d.Content},
		{"excerpt", d.Excerpt},
	} {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name}
		}
	}
	return nil
}

func (d *Draft) payload() PostPayload {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostPayload{
		Title:           d.Title,
		Content:         d.Content,
		Excerpt:         d.Excerpt,
		Tags:            tags,
		Published:       d.Published,
		MetaDescription: d.MetaDescription,
		MetaKeywords:    d.MetaKeywords,
		FeaturedImage:   d.FeaturedImage,
	}
}

// Editor orchestrates draft loading, submission and the image upload
// side-channel against the backend.
type Editor struct {
	client *Client
}

// NewEditor creates an Editor over the given API client.
func NewEditor(client *Client) *Editor {
	return &Editor{client: client}
}

// Load fetches the post identified by id and seeds a draft from it.
func (e *Editor) Load(ctx context.Context, id string) (Draft, error) {
	post, err := e.client.PostByID(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	return DraftFromPost(post), nil
}

// Submit validates the draft and sends it whole: create when no id is bound,
// update otherwise. The draft is never mutated, so a failed submit leaves the
// caller free to re-render and retry it unchanged.
func (e *Editor) Submit(ctx context.Context, token string, d Draft) (BlogPost, error) {
	if err := d.Validate(); err != nil {
		return BlogPost{}, err
	}
	if d.IsNew() {
		return e.client.CreatePost(ctx, token, d.payload())
	}
	return e.client.UpdatePost(ctx, token, d.ID, d.payload())
}

// Upload pushes image bytes through the backend's upload endpoint and
// returns the assigned URL. It is independent of Submit: it may run, succeed
// or fail at any time without touching any draft, and a failure is simply
// retryable.
func (e *Editor) Upload(ctx context.Context, token, filename string, data []byte) (string, error) {
	return e.client.UploadImage(ctx, token, filename, data)
}
