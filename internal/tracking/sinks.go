package tracking

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aukawellness/studio-api/pkg/logging"
)

// PixelSink reports events to the in-browser pixel's collect endpoint. When
// the endpoint is not configured (the anti-tracking case: the pixel script
// never loaded), every call is silently dropped.
type PixelSink struct {
	endpoint string
	pixelID  string
	client   *http.Client
	logger   *logging.Logger
}

// NewPixelSink creates a pixel sink. An empty endpoint yields a sink that
// drops everything without error.
func NewPixelSink(endpoint, pixelID string, client *http.Client, logger *logging.Logger) *PixelSink {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PixelSink{
		endpoint: strings.TrimRight(endpoint, "/"),
		pixelID:  pixelID,
		client:   client,
		logger:   logger,
	}
}

func (s *PixelSink) Name() string { return "pixel" }

func (s *PixelSink) Send(ctx context.Context, ev Event) error {
	if s.endpoint == "" {
		s.logger.Debug("pixel endpoint not configured, dropping event", "event", ev.Name, "event_id", ev.ID)
		return nil
	}

	payload := map[string]any{
		"id":         s.pixelID,
		"ev":         ev.Name,
		"eid":        ev.ID,
		"dl":         ev.SourceURL,
		"value":      ev.Value,
		"currency":   ev.Currency,
		"attributes": ev.Attributes,
	}
	return postJSON(ctx, s.client, s.endpoint+"/collect", payload)
}

// ConversionsAPISink reports events server-side to the ad platform's
// conversions API. Contact fields are SHA-256 hashed before sending.
type ConversionsAPISink struct {
	url      string
	token    string
	testCode string
	client   *http.Client
	logger   *logging.Logger
}

// NewConversionsAPISink creates the server-side sink.
func NewConversionsAPISink(url, token, testCode string, client *http.Client, logger *logging.Logger) *ConversionsAPISink {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ConversionsAPISink{
		url:      url,
		token:    token,
		testCode: testCode,
		client:   client,
		logger:   logger,
	}
}

func (s *ConversionsAPISink) Name() string { return "conversions_api" }

func (s *ConversionsAPISink) Send(ctx context.Context, ev Event) error {
	if s.url == "" {
		return fmt.Errorf("tracking: conversions API not configured")
	}

	userData := map[string]any{}
	if ev.UserData.Email != "" {
		userData["em"] = []string{hashIdentifier(ev.UserData.Email)}
	}
	if ev.UserData.Phone != "" {
		userData["ph"] = []string{hashIdentifier(ev.UserData.Phone)}
	}
	if ev.UserData.ClickID != "" {
		userData["fbc"] = ev.UserData.ClickID
	}
	if ev.UserData.BrowserID != "" {
		userData["fbp"] = ev.UserData.BrowserID
	}

	body := map[string]any{
		"access_token": s.token,
		"data": []map[string]any{{
			"event_name":       ev.Name,
			"event_id":         ev.ID,
			"event_time":       ev.OccurredAt.Unix(),
			"event_source_url": ev.SourceURL,
			"action_source":    "website",
			"user_data":        userData,
			"custom_data": map[string]any{
				"value":    ev.Value,
				"currency": ev.Currency,
			},
		}},
	}
	if s.testCode != "" {
		body["test_event_code"] = s.testCode
	}
	return postJSON(ctx, s.client, s.url, body)
}

func postJSON(ctx context.Context, client *http.Client, url string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("tracking: marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("tracking: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("tracking: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("tracking: endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// hashIdentifier normalizes then hashes a contact field the way the ad
// platform expects: lowercase, trimmed, SHA-256 hex.
func hashIdentifier(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
