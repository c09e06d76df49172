package rudimedia

import (
	"html/template"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nitikillua/rudi-media/views"
)

// render executes a page template with the site-wide values every template
// expects merged into the data map.
func (a *App) render(c echo.Context, name string, data echo.Map) error {
	return a.renderStatus(c, http.StatusOK, name, data)
}

func (a *App) renderStatus(c echo.Context, code int, name string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	data["Site"] = a.siteConfig()
	data["CSRF"] = CsrfToken(c)
	_, known := readConsent(c)
	data["ConsentKnown"] = known
	data["Path"] = c.Request().URL.Path
	return c.Render(code, name, data)
}

func (a *App) siteConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

func (a *App) websiteJsonLD() template.HTML {
	return views.WebsiteJsonLD(a.siteConfig())
}

func (a *App) postJsonLD(p BlogPost) template.HTML {
	published := ""
	if !p.CreatedAt.IsZero() {
		published = p.CreatedAt.Format(time.RFC3339)
	}
	description := p.MetaDescription
	if description == "" {
		description = p.Excerpt
	}
	return views.BlogPostingJsonLD(a.siteConfig(), p.Title, description,
		BuildURL(a.Config.URL, "blog", p.Slug), published, p.Tags)
}
