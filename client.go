package rudimedia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client talks to the backend HTTP API. All content state lives behind it;
// the frontend holds no database of its own for posts.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a backend API client. base is the backend root URL
// without the /api prefix.
func NewClient(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		base: strings.TrimSuffix(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// PostPayload is the body sent on create and update. It always carries the
// full draft; the backend fills in id, slug, author and timestamps.
type PostPayload struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Excerpt         string   `json:"excerpt"`
	Tags            []string `json:"tags"`
	Published       bool     `json:"published"`
	MetaDescription string   `json:"meta_description"`
	MetaKeywords    string   `json:"meta_keywords"`
	FeaturedImage   string   `json:"featured_image,omitempty"`
}

// Login exchanges credentials for a bearer token. A 401 maps to
// ErrInvalidCredentials; transport failures are returned wrapped.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", creds)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", ErrInvalidCredentials
	case resp.StatusCode != http.StatusOK:
		return "", apiError(resp)
	}
	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("login response missing access_token")
	}
	return out.AccessToken, nil
}

// Me validates a bearer token against the identity-check endpoint.
func (c *Client) Me(ctx context.Context, token string) (User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil)
	if err != nil {
		return User{}, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return User{}, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return User{}, apiError(resp)
	}
	var u User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

// Posts fetches the published posts from the public endpoint.
func (c *Client) Posts(ctx context.Context) ([]BlogPost, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/blog/posts", "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}
	return decodePosts(resp.Body)
}

// PostBySlug fetches a single published post by its slug.
func (c *Client) PostBySlug(ctx context.Context, slug string) (BlogPost, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/blog/posts/slug/"+pathEscape(slug), "", nil)
	if err != nil {
		return BlogPost{}, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return BlogPost{}, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return BlogPost{}, apiError(resp)
	}
	return decodePost(resp.Body)
}

// PostByID fetches a single post by its storage identifier. Used to seed the
// draft editor.
func (c *Client) PostByID(ctx context.Context, id string) (BlogPost, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/blog/posts/"+pathEscape(id), "", nil)
	if err != nil {
		return BlogPost{}, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return BlogPost{}, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return BlogPost{}, apiError(resp)
	}
	return decodePost(resp.Body)
}

// AdminPosts fetches all posts, including unpublished drafts.
func (c *Client) AdminPosts(ctx context.Context, token string) ([]BlogPost, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/admin/blog/posts", token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, apiError(resp)
	}
	return decodePosts(resp.Body)
}

// CreatePost creates a new post from the full draft payload.
func (c *Client) CreatePost(ctx context.Context, token string, p PostPayload) (BlogPost, error) {
	return c.writePost(ctx, http.MethodPost, "/api/admin/blog/posts", token, p)
}

// UpdatePost replaces the post identified by id with the full draft payload.
func (c *Client) UpdatePost(ctx context.Context, token, id string, p PostPayload) (BlogPost, error) {
	return c.writePost(ctx, http.MethodPut, "/api/admin/blog/posts/"+pathEscape(id), token, p)
}

func (c *Client) writePost(ctx context.Context, method, path, token string, p PostPayload) (BlogPost, error) {
	resp, err := c.do(ctx, method, path, token, p)
	if err != nil {
		return BlogPost{}, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return BlogPost{}, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return BlogPost{}, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return BlogPost{}, apiError(resp)
	}
	return decodePost(resp.Body)
}

// DeletePost deletes the post identified by id.
func (c *Client) DeletePost(ctx context.Context, token, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/admin/blog/posts/"+pathEscape(id), token, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return apiError(resp)
	}
	return nil
}

// UploadImage forwards an image as multipart form data and returns the URL
// the backend assigned to it.
func (c *Client) UploadImage(ctx context.Context, token, filename string, data []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/admin/upload/image", &buf)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", apiError(resp)
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("upload response missing url")
	}
	return out.URL, nil
}

// SubmitContact forwards a contact form submission. Fire and forget: callers
// only distinguish success from failure.
func (c *Client) SubmitContact(ctx context.Context, msg ContactMessage) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/contact", "", msg)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	return nil
}

// do issues a request with an optional JSON body and bearer token. Transport
// failures come back wrapped; status handling is left to the caller.
func (c *Client) do(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, r)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request: %w", err)
	}
	return resp, nil
}

func apiError(resp *http.Response) error {
	var detail struct {
		Detail string `json:"detail"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(body, &detail)
	return &APIError{Status: resp.StatusCode, Detail: detail.Detail}
}

func decodePost(r io.Reader) (BlogPost, error) {
	var p BlogPost
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return BlogPost{}, fmt.Errorf("decode post: %w", err)
	}
	return p, nil
}

func decodePosts(r io.Reader) ([]BlogPost, error) {
	var posts []BlogPost
	if err := json.NewDecoder(r).Decode(&posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}
