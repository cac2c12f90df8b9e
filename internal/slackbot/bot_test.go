package slackbot

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockyardhq/stockyard/internal/store"
	"github.com/stockyardhq/stockyard/pkg/inventory"
	"github.com/stockyardhq/stockyard/pkg/logging"
)

const testSecret = "8f742231b10e8888abcd99yyyzzz85a5"

func newTestBot(t *testing.T) *Bot {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	_, err = st.UpsertItems(context.Background(), []inventory.Item{
		{PartNumber: "FX5U-32M", Description: "PLC CPU", Brand: "Mitsubishi", Category: "PLC & Control Systems", ListPrice: 45000, Quantity: 2, MinStock: 1},
		{PartNumber: "OLFLEX-110", Description: "Control cable", Brand: "LAPP", Category: "Cables & Connectors", ListPrice: 85, Quantity: 400, MinStock: 100},
	})
	require.NoError(t, err)

	logger := logging.Default()
	return New(st, Config{SigningSecret: testSecret}, logger)
}

// sign adds a valid Slack signature for body to the request headers.
func sign(r *http.Request, body string) {
	ts := fmt.Sprintf("%d", time.Now().Unix())
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte("v0:" + ts + ":" + body))
	r.Header.Set("X-Slack-Request-Timestamp", ts)
	r.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
}

func TestEventsURLVerification(t *testing.T) {
	bot := newTestBot(t)

	body := `{"type":"url_verification","challenge":"abc123xyz"}`
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	sign(req, body)

	rec := httptest.NewRecorder()
	bot.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc123xyz", rec.Body.String())
}

func TestEventsRejectsBadSignature(t *testing.T) {
	bot := newTestBot(t)

	body := `{"type":"url_verification","challenge":"abc"}`
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	req.Header.Set("X-Slack-Request-Timestamp", fmt.Sprintf("%d", time.Now().Unix()))
	req.Header.Set("X-Slack-Signature", "v0=deadbeef")

	rec := httptest.NewRecorder()
	bot.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEventsRejectsGet(t *testing.T) {
	bot := newTestBot(t)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	bot.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCommandAnswersQuery(t *testing.T) {
	bot := newTestBot(t)

	form := url.Values{}
	form.Set("command", "/inventory")
	form.Set("text", "mitsubishi")
	body := form.Encode()

	req := httptest.NewRequest(http.MethodPost, "/commands", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	sign(req, body)

	rec := httptest.NewRecorder()
	bot.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ResponseType string            `json:"response_type"`
		Text         string            `json:"text"`
		Blocks       []json.RawMessage `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "in_channel", resp.ResponseType)
	assert.Contains(t, resp.Text, "Mitsubishi")
	assert.NotEmpty(t, resp.Blocks)
}

func TestCommandSummary(t *testing.T) {
	bot := newTestBot(t)

	form := url.Values{}
	form.Set("command", "/inventory")
	form.Set("text", "summary")
	body := form.Encode()

	req := httptest.NewRequest(http.MethodPost, "/commands", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	sign(req, body)

	rec := httptest.NewRecorder()
	bot.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Inventory Summary")
}
