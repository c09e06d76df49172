package rudimedia

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newPublicApp(t *testing.T, backendURL string) *App {
	t.Helper()
	a, _ := newTestApp(t, backendURL)
	fb, err := LoadFallback()
	if err != nil {
		t.Fatalf("LoadFallback failed: %v", err)
	}
	a.Resolver = NewResolver(a.Client, fb)
	return a
}

func TestHandlePostRendersFoundPost(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/blog/posts/slug/") {
			json.NewEncoder(w).Encode(BlogPost{Slug: "mein-post", Title: "Mein Post", Content: "<p>Inhalt</p>"})
			return
		}
		json.NewEncoder(w).Encode([]BlogPost{})
	}))
	defer backend.Close()

	a := newPublicApp(t, backend.URL)
	req := httptest.NewRequest(http.MethodGet, "/blog/mein-post/", nil)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	c.SetParamNames("slug")
	c.SetParamValues("mein-post")

	if err := a.handlePost(c); err != nil {
		t.Fatalf("handlePost failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Mein Post") {
		t.Error("page should contain the post title")
	}
}

func TestHandlePostNotFoundRenders404(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer backend.Close()

	a := newPublicApp(t, backend.URL)
	req := httptest.NewRequest(http.MethodGet, "/blog/gibt-es-nicht/", nil)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	c.SetParamNames("slug")
	c.SetParamValues("gibt-es-nicht")

	if err := a.handlePost(c); err != nil {
		t.Fatalf("handlePost failed: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlePostUnavailableRenders503(t *testing.T) {
	backend := httptest.NewServer(nil)
	backend.Close()

	a := newPublicApp(t, backend.URL)
	req := httptest.NewRequest(http.MethodGet, "/blog/nur-im-backend/", nil)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	c.SetParamNames("slug")
	c.SetParamValues("nur-im-backend")

	if err := a.handlePost(c); err != nil {
		t.Fatalf("handlePost failed: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 (distinct from 404)", rec.Code)
	}
}

func TestHandleBlogDegradedNotice(t *testing.T) {
	backend := httptest.NewServer(nil)
	backend.Close()

	a := newPublicApp(t, backend.URL)
	req := httptest.NewRequest(http.MethodGet, "/blog/", nil)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)

	if err := a.handleBlog(c); err != nil {
		t.Fatalf("handleBlog failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: fallback reads are normal operation", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "seo-trends-2025") {
		t.Error("degraded blog page should list the fallback posts")
	}
}

func TestHandleContactRedirects(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/contact" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	a := newPublicApp(t, backend.URL)
	form := strings.NewReader("name=Max&email=max%40example.com&message=Hallo")
	req := httptest.NewRequest(http.MethodPost, "/contact/", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	if err := a.handleContact(a.Echo.NewContext(req, rec)); err != nil {
		t.Fatalf("handleContact failed: %v", err)
	}
	if loc := rec.Header().Get("Location"); loc != "/?sent=1#contact" {
		t.Errorf("redirect = %q, want /?sent=1#contact", loc)
	}
}

func TestHandleContactRejectsIncompleteForm(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("incomplete form must not reach the backend")
	}))
	defer backend.Close()

	a := newPublicApp(t, backend.URL)
	form := strings.NewReader("name=Max&email=&message=")
	req := httptest.NewRequest(http.MethodPost, "/contact/", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	if err := a.handleContact(a.Echo.NewContext(req, rec)); err != nil {
		t.Fatalf("handleContact failed: %v", err)
	}
	if loc := rec.Header().Get("Location"); loc != "/?sent=0#contact" {
		t.Errorf("redirect = %q, want /?sent=0#contact", loc)
	}
}

func TestHandleRobots(t *testing.T) {
	a := newPublicApp(t, "http://127.0.0.1:0")
	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	rec := httptest.NewRecorder()

	if err := a.handleRobots(a.Echo.NewContext(req, rec)); err != nil {
		t.Fatalf("handleRobots failed: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Disallow: /admin/") {
		t.Error("robots.txt should exclude the admin area")
	}
	if !strings.Contains(body, "Sitemap: http://localhost:3000/sitemap.xml") {
		t.Errorf("robots.txt should point at the sitemap, got:\n%s", body)
	}
}
