package rudimedia

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/nitikillua/rudi-media/views"
)

// newTestApp wires an App against the given backend with templates loaded,
// skipping the full middleware stack so handlers can be called directly.
func newTestApp(t *testing.T, backendURL string) (*App, *echo.Echo) {
	t.Helper()
	renderer, err := views.NewRenderer()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	e := echo.New()
	e.Renderer = renderer

	client := NewClient(backendURL, 0)
	a := &App{
		Config:   SiteConfig{Name: "Rudi-Media", URL: "http://localhost:3000"},
		Echo:     e,
		Client:   client,
		Sessions: NewSessionStore(client),
		Editor:   NewEditor(client),
	}
	return a, e
}

func signedInContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	c := e.NewContext(req, rec)
	c.Set(sessionContextKey, Session{Token: "tok", User: &User{ID: "1", Username: "admin"}})
	return c
}

func TestDeleteConfirmShowsPostBeforeAnyDeletion(t *testing.T) {
	deleted := false
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = true
		}
		json.NewEncoder(w).Encode(BlogPost{ID: "5", Title: "Zu löschender Beitrag"})
	}))
	defer backend.Close()

	a, e := newTestApp(t, backend.URL)
	req := httptest.NewRequest(http.MethodGet, "/admin/posts/5/delete/", nil)
	rec := httptest.NewRecorder()
	c := signedInContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5")

	if err := a.handleDeleteConfirm(c); err != nil {
		t.Fatalf("handleDeleteConfirm failed: %v", err)
	}
	if deleted {
		t.Error("confirmation page must not delete anything")
	}
	if !strings.Contains(rec.Body.String(), "Zu löschender Beitrag") {
		t.Error("confirmation page should name the post")
	}
}

func TestDeleteSuccessRedirectsToDashboard(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected %s request", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer backend.Close()

	a, e := newTestApp(t, backend.URL)
	req := httptest.NewRequest(http.MethodPost, "/admin/posts/5/delete/", nil)
	rec := httptest.NewRecorder()
	c := signedInContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5")

	if err := a.handleDeletePost(c); err != nil {
		t.Fatalf("handleDeletePost failed: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/?msg=deleted" {
		t.Errorf("redirect = %q", loc)
	}
}

func TestDeleteFailureKeepsPostInList(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// Apology list still contains the post the delete did not remove.
		json.NewEncoder(w).Encode([]BlogPost{{ID: "5", Title: "Überlebender Beitrag"}})
	}))
	defer backend.Close()

	a, e := newTestApp(t, backend.URL)
	req := httptest.NewRequest(http.MethodPost, "/admin/posts/5/delete/", nil)
	rec := httptest.NewRecorder()
	c := signedInContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5")

	if err := a.handleDeletePost(c); err != nil {
		t.Fatalf("handleDeletePost failed: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Überlebender Beitrag") {
		t.Error("failed delete must keep the post visible in the list")
	}
	if !strings.Contains(body, "Löschen fehlgeschlagen") {
		t.Error("failed delete should surface a retryable error message")
	}
}

func TestSavePostValidationRerendersDraft(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid draft must not reach the backend")
	}))
	defer backend.Close()

	a, e := newTestApp(t, backend.URL)
	form := strings.NewReader("title=Nur+Titel&content=&excerpt=&tags=SEO,+SEO&draft_session=abc")
	req := httptest.NewRequest(http.MethodPost, "/admin/posts/save/", form)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := signedInContext(e, req, rec)

	if err := a.handleSavePost(c); err != nil {
		t.Fatalf("handleSavePost failed: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Nur Titel") {
		t.Error("re-rendered editor should keep the typed title")
	}
	if !strings.Contains(body, `value="abc"`) {
		t.Error("re-rendered editor should keep the draft session nonce")
	}
}

func TestImageUploadEchoesDraftSession(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"url": "/uploads/bild.jpg"})
	}))
	defer backend.Close()

	a, e := newTestApp(t, backend.URL)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("draft_session", "session-xyz")
	fw, err := mw.CreateFormFile("image", "bild.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(encodePNG(t, 100, 100).Bytes())
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/upload/", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := signedInContext(e, req, rec)

	if err := a.handleImageUpload(c); err != nil {
		t.Fatalf("handleImageUpload failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var out map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["url"] != "/uploads/bild.jpg" {
		t.Errorf("url = %q", out["url"])
	}
	if out["draft_session"] != "session-xyz" {
		t.Errorf("draft_session = %q, the nonce must be echoed untouched", out["draft_session"])
	}
}

func TestImageUploadFailureIsRetryable(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()

	a, e := newTestApp(t, backend.URL)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("draft_session", "session-xyz")
	fw, _ := mw.CreateFormFile("image", "bild.png")
	fw.Write(encodePNG(t, 100, 100).Bytes())
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/upload/", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := signedInContext(e, req, rec)

	if err := a.handleImageUpload(c); err != nil {
		t.Fatalf("handleImageUpload failed: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	var out map[string]string
	json.Unmarshal(rec.Body.Bytes(), &out)
	if out["error"] == "" {
		t.Error("failure response should carry an error message")
	}
	if out["draft_session"] != "session-xyz" {
		t.Error("failure response must still echo the nonce")
	}
}

func TestNewDraftSessionIsUnique(t *testing.T) {
	a, b := newDraftSession(), newDraftSession()
	if a == "" || a == b {
		t.Errorf("nonces must be non-empty and unique, got %q and %q", a, b)
	}
}
