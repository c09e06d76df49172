package rudimedia

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const consentCookieName = "cookie_consent"

// Consent is the visitor's cookie choice, persisted independently of the
// auth session. Necessary is always true; only analytics and marketing are
// actual choices.
type Consent struct {
	Necessary bool      `json:"necessary"`
	Analytics bool      `json:"analytics"`
	Marketing bool      `json:"marketing"`
	Timestamp time.Time `json:"timestamp"`
}

// readConsent returns the stored consent record and whether one exists.
func readConsent(c echo.Context) (Consent, bool) {
	cookie, err := c.Cookie(consentCookieName)
	if err != nil {
		return Consent{}, false
	}
	raw, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return Consent{}, false
	}
	var consent Consent
	if err := json.Unmarshal(raw, &consent); err != nil {
		return Consent{}, false
	}
	return consent, true
}

func (a *App) writeConsent(c echo.Context, consent Consent) error {
	raw, err := json.Marshal(consent)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     consentCookieName,
		Value:    base64.URLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 365,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	})
	return nil
}

// handleConsent stores the banner choice and sends the visitor back to the
// page they were on.
func (a *App) handleConsent(c echo.Context) error {
	all := c.FormValue("choice") == "all"
	consent := Consent{
		Necessary: true,
		Analytics: all || c.FormValue("analytics") != "",
		Marketing: all || c.FormValue("marketing") != "",
		Timestamp: time.Now().UTC(),
	}
	if err := a.writeConsent(c, consent); err != nil {
		return err
	}
	returnTo := c.FormValue("return_to")
	if !strings.HasPrefix(returnTo, "/") || strings.HasPrefix(returnTo, "//") {
		returnTo = "/"
	}
	return c.Redirect(http.StatusSeeOther, returnTo)
}
