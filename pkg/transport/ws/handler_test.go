package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayyushutup/boxbox/pkg/catalog/baseline"
	"github.com/ayyushutup/boxbox/pkg/catalog/driver"
	"github.com/ayyushutup/boxbox/pkg/catalog/scenario"
	"github.com/ayyushutup/boxbox/pkg/catalog/track"
	"github.com/ayyushutup/boxbox/pkg/scheduler"
	"github.com/ayyushutup/boxbox/testsupport/basedata"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	tracks := track.NewRepository(nil)
	drivers := driver.NewRepository(nil)
	scenarios := scenario.NewRepository(nil)
	if err := tracks.Create(ctx, basedata.SampleTrackMonza()); err != nil {
		t.Fatalf("seed track: %v", err)
	}
	for _, d := range basedata.SampleDrivers() {
		if err := drivers.Create(ctx, d); err != nil {
			t.Fatalf("seed driver: %v", err)
		}
	}
	if err := scenarios.Create(ctx, basedata.ScenarioMonzaSprint()); err != nil {
		t.Fatalf("seed scenario: %v", err)
	}

	registry := scheduler.NewRegistry(baseline.Catalogs{Tracks: tracks, Drivers: drivers}, scenarios, nil, nil)
	handler := NewHandler(registry)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}
	u.Scheme = "ws"

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestInitScenarioRoundTripsAnInitSnapshot(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	if err := conn.WriteJSON(scheduler.Command{Command: scheduler.CmdInitScenario, ScenarioID: "monza_sprint"}); err != nil {
		t.Fatalf("write init_scenario: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	var snap scheduler.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Type != scheduler.SnapshotInit {
		t.Fatalf("expected init snapshot, got %q", snap.Type)
	}
	if snap.Scenario == nil || snap.Scenario.ID != "monza_sprint" {
		t.Fatalf("expected scenario summary for monza_sprint, got %+v", snap.Scenario)
	}
}

func TestUnknownScenarioReturnsErrorMessageNotDisconnect(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	if err := conn.WriteJSON(scheduler.Command{Command: scheduler.CmdInitScenario, ScenarioID: "nope"}); err != nil {
		t.Fatalf("write init_scenario: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error message: %v", err)
	}

	var msg errorMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("decode error message: %v", err)
	}
	if msg.Type != "error" || msg.Error == "" {
		t.Fatalf("expected populated error message, got %+v", msg)
	}

	// the connection should still be usable after a rejected command.
	if err := conn.WriteJSON(scheduler.Command{Command: scheduler.CmdInitScenario, ScenarioID: "monza_sprint"}); err != nil {
		t.Fatalf("write follow-up init_scenario: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("expected follow-up snapshot, connection closed instead: %v", err)
	}
}

func TestMalformedFrameIsDiscardedSilently(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write malformed frame: %v", err)
	}
	if err := conn.WriteJSON(scheduler.Command{Command: scheduler.CmdInitScenario, ScenarioID: "monza_sprint"}); err != nil {
		t.Fatalf("write init_scenario: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("expected snapshot after malformed frame, got error: %v", err)
	}
}

var _ http.Handler = (*Handler)(nil)
