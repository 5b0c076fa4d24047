package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/vovakirdan/hangrelay/internal/config"
	"github.com/vovakirdan/hangrelay/internal/core"
)

func getJSON(t *testing.T, ts *testServer, path string, wantStatus int, v any) {
	t.Helper()

	resp, err := ts.Client().Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status %d, want %d", path, resp.StatusCode, wantStatus)
	}
	if v == nil {
		return
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("GET %s: decode: %v", path, err)
	}
}

func TestListContexts(t *testing.T) {
	ts := startTestServer(t, nil)

	var contexts []core.WorkContext
	getJSON(t, ts, "/api/contexts", http.StatusOK, &contexts)

	if len(contexts) != 4 {
		t.Fatalf("expected 4 contexts, got %d", len(contexts))
	}
	if contexts[0].Key != "school" || contexts[3].Key != "personal" {
		t.Fatalf("unexpected order: %+v", contexts)
	}
	if contexts[2].Label != "💼 Office" {
		t.Fatalf("unexpected label %q", contexts[2].Label)
	}
}

func TestListRoomsAndMembers(t *testing.T) {
	ts := startTestServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var empty RoomsResponse
	getJSON(t, ts, "/api/rooms", http.StatusOK, &empty)
	if len(empty.Community) != 0 || len(empty.Work) != 0 {
		t.Fatalf("expected no rooms, got %+v", empty)
	}

	ann := ts.dial(t, ctx, "/ws/work/team_college/7?username=Ann")
	expectSystem(t, ctx, ann, "Ann joined the 🎓 College workspace")
	lobby := ts.dial(t, ctx, "/ws/community/lobby/1")
	expectSystem(t, ctx, lobby, "User #1 joined lobby")

	var rooms RoomsResponse
	getJSON(t, ts, "/api/rooms", http.StatusOK, &rooms)
	if len(rooms.Work) != 1 || rooms.Work[0].Name != "team_college" || rooms.Work[0].Members != 1 {
		t.Fatalf("unexpected work rooms %+v", rooms.Work)
	}
	if len(rooms.Community) != 1 || rooms.Community[0].Name != "lobby" {
		t.Fatalf("unexpected community rooms %+v", rooms.Community)
	}

	var members MembersResponse
	getJSON(t, ts, "/api/rooms/team_college/members", http.StatusOK, &members)
	if members.Scope != "work" || members.Members["7"] != "Ann" || len(members.Members) != 1 {
		t.Fatalf("unexpected members %+v", members)
	}

	var lobbyMembers MembersResponse
	getJSON(t, ts, "/api/rooms/lobby/members?scope=community", http.StatusOK, &lobbyMembers)
	if lobbyMembers.Scope != "community" || len(lobbyMembers.Members) != 1 {
		t.Fatalf("unexpected community members %+v", lobbyMembers)
	}
	if _, ok := lobbyMembers.Members["1"]; !ok {
		t.Fatalf("client 1 missing from %+v", lobbyMembers.Members)
	}

	var errResp ErrorResponse
	getJSON(t, ts, "/api/rooms/team_school/members", http.StatusNotFound, &errResp)
	if errResp.Error == "" {
		t.Fatalf("expected error message")
	}
	getJSON(t, ts, "/api/rooms/lobby/members?scope=nope", http.StatusBadRequest, &errResp)
}

func TestListActivity(t *testing.T) {
	ts := startTestServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := ts.dial(t, ctx, "/ws/work/team_office/7?username=Ann")
	expectSystem(t, ctx, conn, "Ann joined the 💼 Office workspace")

	rejected := ts.dial(t, ctx, "/ws/work/team_gaming/8")
	readOutbound(t, ctx, rejected)

	// Activity is recorded after the notices go out.
	var entries []ActivityResponse
	deadline := time.Now().Add(2 * time.Second)
	for {
		entries = nil
		getJSON(t, ts, "/api/activity?limit=10", http.StatusOK, &entries)
		if len(entries) >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 2 activity entries, got %+v", entries)
		}
		time.Sleep(10 * time.Millisecond)
	}

	kinds := map[string]ActivityResponse{}
	for _, e := range entries {
		kinds[e.Kind] = e
	}
	joined, ok := kinds["joined"]
	if !ok || joined.Scope != "work" || joined.ClientID != "7" || joined.Name != "Ann" || joined.Room != "team_office" {
		t.Fatalf("unexpected joined entry %+v", joined)
	}
	rej, ok := kinds["rejected"]
	if !ok || rej.Reason != core.ErrCodeInvalidContext || rej.Room != "team_gaming" {
		t.Fatalf("unexpected rejected entry %+v", rej)
	}

	var filtered []ActivityResponse
	getJSON(t, ts, "/api/activity?room=team_office", http.StatusOK, &filtered)
	for _, e := range filtered {
		if e.Room != "team_office" {
			t.Fatalf("room filter leaked %+v", e)
		}
	}

	getJSON(t, ts, "/api/activity?limit=abc", http.StatusBadRequest, nil)
	getJSON(t, ts, "/api/activity?limit=0", http.StatusBadRequest, nil)
}

func TestCORSPreflight(t *testing.T) {
	ts := startTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/rooms", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Origin", "http://example.com")

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestCORSRestrictedOrigins(t *testing.T) {
	ts := startTestServer(t, func(cfg *config.Config) {
		cfg.AllowedOrigins = []string{"http://allowed.example"}
	})

	preflight := func(origin string) *http.Response {
		t.Helper()
		req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/rooms", nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		resp, err := ts.Client().Do(req)
		if err != nil {
			t.Fatalf("preflight: %v", err)
		}
		resp.Body.Close()
		return resp
	}

	ok := preflight("http://allowed.example")
	if ok.StatusCode != http.StatusNoContent {
		t.Fatalf("allowed origin status = %d", ok.StatusCode)
	}
	if got := ok.Header.Get("Access-Control-Allow-Origin"); got != "http://allowed.example" {
		t.Fatalf("allow origin = %q", got)
	}

	denied := preflight("http://other.example")
	if denied.StatusCode != http.StatusForbidden {
		t.Fatalf("denied origin status = %d", denied.StatusCode)
	}
	if got := denied.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("denied origin got allow header %q", got)
	}
}
