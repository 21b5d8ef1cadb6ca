package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func postCorrection(t *testing.T, handler http.Handler, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/leaderboard/corrections",
		strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Admin-Token", token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCorrectionEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.AdminToken = "sekrit"
	clock := &testClock{now: time.Date(2015, 3, 14, 12, 0, 0, 0, time.UTC)}
	b, client, _ := newTestBot(t, cfg, clock)
	handler := b.Handler()

	ctx := context.Background()
	if err := b.Leaderboard().Add(ctx, "alice", 12); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := postCorrection(t, handler, "sekrit", `{"username":"alice","round":12}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp["removed"] {
		t.Fatalf("unexpected response %s", rec.Body.String())
	}
	if len(client.wikiEdits) != 1 {
		t.Fatalf("expected one wiki edit, got %d", len(client.wikiEdits))
	}
	edit := client.wikiEdits[0]
	if edit.Page != cfg.LeaderboardPage || edit.Reason != "Discredit Round 12 from alice." {
		t.Fatalf("unexpected edit %+v", edit)
	}
	if strings.Contains(edit.Content, "alice") {
		t.Fatalf("alice should drop off the table:\n%s", edit.Content)
	}
}

func TestCorrectionEndpointConflicts(t *testing.T) {
	cfg := testConfig()
	cfg.AdminToken = "sekrit"
	clock := &testClock{now: time.Date(2015, 3, 14, 12, 0, 0, 0, time.UTC)}
	b, client, _ := newTestBot(t, cfg, clock)
	handler := b.Handler()

	rec := postCorrection(t, handler, "sekrit", `{"username":"nobody","round":12}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for unknown user, got %d", rec.Code)
	}
	if len(client.wikiEdits) != 0 {
		t.Fatal("failed correction must not touch the wiki")
	}
}

func TestCorrectionEndpointAuth(t *testing.T) {
	clock := &testClock{now: time.Date(2015, 3, 14, 12, 0, 0, 0, time.UTC)}

	cfg := testConfig()
	cfg.AdminToken = "sekrit"
	b, _, _ := newTestBot(t, cfg, clock)
	handler := b.Handler()

	rec := postCorrection(t, handler, "", `{"username":"alice","round":12}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	rec = postCorrection(t, handler, "wrong", `{"username":"alice","round":12}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", rec.Code)
	}

	// No token configured means the admin API is disabled outright.
	disabled, _, _ := newTestBot(t, testConfig(), clock)
	rec = postCorrection(t, disabled.Handler(), "anything", `{"username":"alice","round":12}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when disabled, got %d", rec.Code)
	}
}

func TestCorrectionEndpointValidation(t *testing.T) {
	cfg := testConfig()
	cfg.AdminToken = "sekrit"
	clock := &testClock{now: time.Date(2015, 3, 14, 12, 0, 0, 0, time.UTC)}
	b, _, _ := newTestBot(t, cfg, clock)
	handler := b.Handler()

	rec := postCorrection(t, handler, "sekrit", `{"round":12}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing username, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "username is required") {
		t.Fatalf("expected field message, got %s", rec.Body.String())
	}
}

func TestStateEndpoint(t *testing.T) {
	clock := &testClock{now: time.Date(2015, 3, 14, 12, 0, 0, 0, time.UTC)}
	b, client, _ := newTestBot(t, testConfig(), clock)
	client.round = testRound(12, "", clock.now.Add(-time.Minute))
	if _, err := b.Tick(context.Background(), TickState{}); err != nil {
		t.Fatalf("tick: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var snap Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.RoundNumber != 12 || snap.State != "unsolved" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}
