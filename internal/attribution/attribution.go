package attribution

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// UTMParams carries last-touch marketing attribution. Values come from the
// page URL at submission time, not from when the funnel was opened.
type UTMParams struct {
	Source   string `json:"utm_source,omitempty"`
	Medium   string `json:"utm_medium,omitempty"`
	Campaign string `json:"utm_campaign,omitempty"`
}

// IsZero reports whether no UTM parameter is set.
func (u UTMParams) IsZero() bool {
	return u.Source == "" && u.Medium == "" && u.Campaign == ""
}

// UTMFromPageURL extracts utm_* query parameters from a page URL. A malformed
// URL yields empty params; attribution is never worth failing a booking over.
func UTMFromPageURL(pageURL string) UTMParams {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return UTMParams{}
	}
	q := parsed.Query()
	return UTMParams{
		Source:   strings.TrimSpace(q.Get("utm_source")),
		Medium:   strings.TrimSpace(q.Get("utm_medium")),
		Campaign: strings.TrimSpace(q.Get("utm_campaign")),
	}
}

// First-party cookie names set by the browser pixel.
const (
	ClickCookie   = "_fbc"
	BrowserCookie = "_fbp"
)

// ClickIDs holds the identifiers the ad platform uses to attribute a
// purchase back to a click.
type ClickIDs struct {
	ClickID   string `json:"click_id,omitempty"`
	BrowserID string `json:"browser_id,omitempty"`
}

// FromRequest reads attribution cookies, falling back to deriving a click id
// from the fbclid URL parameter on the submitted page URL.
func FromRequest(r *http.Request, pageURL string) ClickIDs {
	var ids ClickIDs
	if c, err := r.Cookie(ClickCookie); err == nil {
		ids.ClickID = c.Value
	}
	if c, err := r.Cookie(BrowserCookie); err == nil {
		ids.BrowserID = c.Value
	}
	if ids.ClickID == "" {
		if clickID := clickIDFromURL(pageURL, time.Now()); clickID != "" {
			ids.ClickID = clickID
		}
	}
	return ids
}

// clickIDFromURL rebuilds the cookie format from a raw fbclid parameter.
func clickIDFromURL(pageURL string, now time.Time) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	fbclid := strings.TrimSpace(parsed.Query().Get("fbclid"))
	if fbclid == "" {
		return ""
	}
	return fmt.Sprintf("fb.1.%d.%s", now.UnixMilli(), fbclid)
}
