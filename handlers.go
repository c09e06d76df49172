package rudimedia

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nitikillua/rudi-media/analytics"
)

// Service is one entry in the services grid on the home page.
type Service struct {
	Title       string
	Description string
	Features    []string
}

var services = []Service{
	{
		Title:       "Social Media Marketing",
		Description: "Professionelle Betreuung Ihrer Social-Media-Kanäle mit zielgerichteten Kampagnen.",
		Features:    []string{"Content-Erstellung", "Community Management", "Paid Social Kampagnen"},
	},
	{
		Title:       "Google Ads",
		Description: "Maximale Sichtbarkeit in der Google-Suche durch datengetriebene Anzeigenkampagnen.",
		Features:    []string{"Suchkampagnen", "Display-Werbung", "Conversion-Optimierung"},
	},
	{
		Title:       "SEO-Optimierung",
		Description: "Nachhaltig bessere Rankings und mehr organischer Traffic für Ihre Website.",
		Features:    []string{"OnPage-Optimierung", "Technisches SEO", "Content-Strategie"},
	},
	{
		Title:       "Webdesign",
		Description: "Moderne, schnelle Websites, die Besucher in Kunden verwandeln.",
		Features:    []string{"Responsive Design", "Performance-Optimierung", "Conversion-Fokus"},
	},
}

const homePostCount = 3

func (a *App) handleHome(c echo.Context) error {
	posts, _ := a.Resolver.List(c.Request().Context())
	if len(posts) > homePostCount {
		posts = posts[:homePostCount]
	}
	return a.render(c, "home.html", echo.Map{
		"Services":      services,
		"Posts":         posts,
		"ContactSent":   c.QueryParam("sent") == "1",
		"ContactFailed": c.QueryParam("sent") == "0",
		"WebsiteJsonLD": a.websiteJsonLD(),
	})
}

func (a *App) handleBlog(c echo.Context) error {
	posts, source := a.Resolver.List(c.Request().Context())
	return a.render(c, "blog.html", echo.Map{
		"Posts":    posts,
		"Degraded": source == SourceFallback,
	})
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	lookup := a.Resolver.GetBySlug(c.Request().Context(), slug)
	switch lookup.Status {
	case LookupFound:
		related, _ := a.Resolver.List(c.Request().Context())
		return a.render(c, "post.html", echo.Map{
			"Post":       lookup.Post,
			"Related":    FilterRelatedPosts(lookup.Post, related),
			"Degraded":   lookup.Source == SourceFallback,
			"PostJsonLD": a.postJsonLD(lookup.Post),
		})
	case LookupUnavailable:
		return a.renderStatus(c, http.StatusServiceUnavailable, "unavailable.html", nil)
	default:
		return a.renderStatus(c, http.StatusNotFound, "notfound.html", nil)
	}
}

func (a *App) handleContact(c echo.Context) error {
	msg := ContactMessage{
		Name:    strings.TrimSpace(c.FormValue("name")),
		Email:   strings.TrimSpace(c.FormValue("email")),
		Phone:   strings.TrimSpace(c.FormValue("phone")),
		Message: strings.TrimSpace(c.FormValue("message")),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return c.Redirect(http.StatusSeeOther, "/?sent=0#contact")
	}
	if err := a.Client.SubmitContact(c.Request().Context(), msg); err != nil {
		c.Logger().Errorf("contact submit: %v", err)
		return c.Redirect(http.StatusSeeOther, "/?sent=0#contact")
	}
	return c.Redirect(http.StatusSeeOther, "/?sent=1#contact")
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nDisallow: /admin/\nAllow: /\n\nSitemap: %s/sitemap.xml\n",
		strings.TrimSuffix(a.Config.URL, "/"))
	return c.String(http.StatusOK, body)
}

// recordPageViews counts successful GET page loads when the visitor has
// consented to analytics. Admin and asset paths are never recorded, and a
// storage failure never affects the response.
func (a *App) recordPageViews(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if a.Analytics == nil || err != nil {
			return err
		}
		req := c.Request()
		path := req.URL.Path
		if req.Method != http.MethodGet ||
			strings.HasPrefix(path, "/admin") ||
			strings.HasPrefix(path, "/public") ||
			path == "/sitemap.xml" || path == "/feed.xml" ||
			path == "/robots.txt" || path == "/favicon.ico" {
			return nil
		}
		consent, ok := readConsent(c)
		if !ok || !consent.Analytics {
			return nil
		}
		view := analytics.View{
			Path:      path,
			Referrer:  req.Referer(),
			IPHash:    analytics.HashIP(c.RealIP()),
			Timestamp: time.Now().UTC(),
		}
		if err := a.Analytics.RecordView(view); err != nil {
			c.Logger().Errorf("record view: %v", err)
		}
		return nil
	}
}
