package tracking

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Standard event names reported to the ad platform.
const (
	EventLead             = "Lead"
	EventInitiateCheckout = "InitiateCheckout"
	EventSchedule         = "Schedule"
	EventPurchase         = "Purchase"
)

// UserData identifies the acting user for attribution. Contact fields are
// hashed by the server-side sink before leaving the process.
type UserData struct {
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	ClickID   string `json:"click_id,omitempty"`
	BrowserID string `json:"browser_id,omitempty"`
}

// Event is one conversion event. The same ID is delivered to every sink so
// the receiving platform can deduplicate the browser and server reports.
type Event struct {
	Name       string            `json:"name"`
	ID         string            `json:"id"`
	SourceURL  string            `json:"source_url,omitempty"`
	Value      float64           `json:"value"`
	Currency   string            `json:"currency,omitempty"`
	UserData   UserData          `json:"user_data,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewEventID builds a deduplication id: millisecond timestamp plus a random
// hex suffix. Generated once per logical action and reused across sinks and
// retries.
func NewEventID(now time.Time) string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// math-free fallback keeps ids unique enough within a process
		return fmt.Sprintf("%d-%08x", now.UnixMilli(), now.UnixNano()&0xffffffff)
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), hex.EncodeToString(suffix))
}
