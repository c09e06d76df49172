package rudimedia

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAdminLoginPage(c echo.Context) error {
	if a.Sessions.Initialize(c).SignedIn() {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return a.render(c, "admin_login.html", nil)
}

func (a *App) handleAdminLoginSubmit(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Zu viele Anmeldeversuche. Bitte später erneut versuchen.")
	}
	creds := Credentials{
		Username: strings.TrimSpace(c.FormValue("username")),
		Password: c.FormValue("password"),
	}
	_, err := a.Sessions.Login(c, creds)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return a.renderStatus(c, http.StatusUnauthorized, "admin_login.html", echo.Map{
				"LoginError": true,
			})
		}
		c.Logger().Errorf("login: %v", err)
		return a.renderStatus(c, http.StatusBadGateway, "admin_login.html", echo.Map{
			"TransportError": true,
		})
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminLogout(c echo.Context) error {
	a.Sessions.Logout(c)
	return c.Redirect(http.StatusSeeOther, "/admin/login/")
}

func (a *App) handleDashboard(c echo.Context) error {
	sess := currentSession(c)
	posts, err := a.Client.AdminPosts(c.Request().Context(), sess.Token)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			a.Sessions.Logout(c)
			return c.Redirect(http.StatusSeeOther, "/admin/login/")
		}
		c.Logger().Errorf("admin posts: %v", err)
		return a.render(c, "admin_dashboard.html", echo.Map{
			"Username": sess.User.Username,
			"Error":    "Beiträge konnten nicht geladen werden. Bitte erneut versuchen.",
		})
	}
	data := echo.Map{
		"Username": sess.User.Username,
		"Posts":    posts,
	}
	switch c.QueryParam("msg") {
	case "saved":
		data["Message"] = "Beitrag gespeichert."
	case "deleted":
		data["Message"] = "Beitrag gelöscht."
	}
	return a.render(c, "admin_dashboard.html", data)
}

func (a *App) handleNewPost(c echo.Context) error {
	return a.render(c, "admin_editor.html", echo.Map{
		"Draft":        NewDraft(),
		"DraftSession": newDraftSession(),
	})
}

func (a *App) handleEditPost(c echo.Context) error {
	draft, err := a.Editor.Load(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return a.renderStatus(c, http.StatusNotFound, "notfound.html", nil)
		}
		c.Logger().Errorf("load post: %v", err)
		return a.renderStatus(c, http.StatusBadGateway, "admin_dashboard.html", echo.Map{
			"Username": currentSession(c).User.Username,
			"Error":    "Beitrag konnte nicht geladen werden. Bitte erneut versuchen.",
		})
	}
	return a.render(c, "admin_editor.html", echo.Map{
		"Draft":        draft,
		"DraftSession": newDraftSession(),
	})
}

func (a *App) handleSavePost(c echo.Context) error {
	draft := draftFromForm(c)
	editorData := echo.Map{
		"Draft":        draft,
		"DraftSession": c.FormValue("draft_session"),
	}

	var vErr *ValidationError
	if err := draft.Validate(); errors.As(err, &vErr) {
		editorData["FieldError"] = vErr.Field
		return a.renderStatus(c, http.StatusUnprocessableEntity, "admin_editor.html", editorData)
	}

	sess := currentSession(c)
	_, err := a.Editor.Submit(c.Request().Context(), sess.Token, draft)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			a.Sessions.Logout(c)
			return c.Redirect(http.StatusSeeOther, "/admin/login/")
		}
		c.Logger().Errorf("save post: %v", err)
		editorData["Error"] = "Speichern fehlgeschlagen. Ihre Eingaben sind unverändert, bitte erneut versuchen."
		return a.renderStatus(c, http.StatusBadGateway, "admin_editor.html", editorData)
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=saved")
}

// draftFromForm rebuilds the draft from the submitted editor form so a failed
// save re-renders with exactly what the author typed.
func draftFromForm(c echo.Context) Draft {
	d := Draft{
		ID:              c.FormValue("id"),
		Title:           c.FormValue("title"),
		Content:         c.FormValue("content"),
		Excerpt:         c.FormValue("excerpt"),
		MetaDescription: c.FormValue("meta_description"),
		MetaKeywords:    c.FormValue("meta_keywords"),
		FeaturedImage:   c.FormValue("featured_image"),
		Published:       c.FormValue("published") != "",
	}
	d.SetTags(strings.Split(c.FormValue("tags"), ","))
	return d
}

func (a *App) handleDeleteConfirm(c echo.Context) error {
	post, err := a.Client.PostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return a.renderStatus(c, http.StatusNotFound, "notfound.html", nil)
		}
		c.Logger().Errorf("load post: %v", err)
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return a.render(c, "admin_delete.html", echo.Map{"Post": post})
}

func (a *App) handleDeletePost(c echo.Context) error {
	sess := currentSession(c)
	id := c.Param("id")
	if err := a.Client.DeletePost(c.Request().Context(), sess.Token, id); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			a.Sessions.Logout(c)
			return c.Redirect(http.StatusSeeOther, "/admin/login/")
		}
		c.Logger().Errorf("delete post: %v", err)
		// Re-fetch so the list still shows the post that was not removed.
		posts, listErr := a.Client.AdminPosts(c.Request().Context(), sess.Token)
		if listErr != nil {
			posts = nil
		}
		return a.renderStatus(c, http.StatusBadGateway, "admin_dashboard.html", echo.Map{
			"Username": sess.User.Username,
			"Posts":    posts,
			"Error":    "Löschen fehlgeschlagen. Bitte erneut versuchen.",
		})
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=deleted")
}

func (a *App) handleStats(c echo.Context) error {
	if a.Analytics == nil {
		return a.render(c, "admin_stats.html", echo.Map{"Enabled": false})
	}
	since := time.Now().AddDate(0, 0, -30)
	counts, err := a.Analytics.CountByPath(since)
	if err != nil {
		c.Logger().Errorf("stats counts: %v", err)
	}
	total, err := a.Analytics.TotalViews(since)
	if err != nil {
		c.Logger().Errorf("stats total: %v", err)
	}
	return a.render(c, "admin_stats.html", echo.Map{
		"Enabled": true,
		"Total":   total,
		"Counts":  counts,
	})
}

// newDraftSession mints the nonce that ties async upload responses to the
// editor form they were started from.
func newDraftSession() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(b)
}
