package room

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newTestApp() (*fiber.App, *RoomManager) {
	rm := NewRoomManager()
	app := fiber.New()
	app.Get("/api/health", rm.HealthHandler)
	app.Post("/api/create-room", rm.CreateRoomHandler)
	app.Get("/api/room/:id", rm.RoomStatusHandler)
	return app, rm
}

func TestHealthHandler(t *testing.T) {
	app, _ := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestCreateRoomHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMax    int
	}{
		{name: "default is 2 players", body: "", wantStatus: 200, wantMax: 2},
		{name: "explicit 2", body: `{"max_players": 2}`, wantStatus: 200, wantMax: 2},
		{name: "explicit 4", body: `{"max_players": 4}`, wantStatus: 200, wantMax: 4},
		{name: "3 rejected", body: `{"max_players": 3}`, wantStatus: 400},
		{name: "garbage rejected", body: `{"max_players": `, wantStatus: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, rm := newTestApp()

			req := httptest.NewRequest("POST", "/api/create-room", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if tt.wantStatus != 200 {
				return
			}

			var body struct {
				RoomID     string `json:"room_id"`
				MaxPlayers int    `json:"max_players"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("invalid response body: %v", err)
			}
			if body.RoomID == "" {
				t.Error("expected a room id")
			}
			if body.MaxPlayers != tt.wantMax {
				t.Errorf("expected max_players %d, got %d", tt.wantMax, body.MaxPlayers)
			}

			r, ok := rm.GetRoom(body.RoomID)
			if !ok {
				t.Fatal("created room not in registry")
			}
			if r.Status != StatusWaiting {
				t.Errorf("expected new room waiting, got %s", r.Status)
			}
		})
	}
}

func TestRoomStatusHandler(t *testing.T) {
	app, rm := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/room/nope", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404 for unknown room, got %d", resp.StatusCode)
	}

	r := New("statusroom", 2)
	rm.Lock()
	rm.Rooms[r.ID] = r
	rm.Unlock()

	resp, err = app.Test(httptest.NewRequest("GET", "/api/room/statusroom", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		RoomID        string `json:"room_id"`
		Players       int    `json:"players"`
		MaxPlayers    int    `json:"max_players"`
		Status        string `json:"status"`
		CurrentPlayer int    `json:"current_player"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.RoomID != "statusroom" || body.Players != 0 || body.MaxPlayers != 2 || body.Status != StatusWaiting {
		t.Errorf("unexpected status payload: %+v", body)
	}
	if body.CurrentPlayer != 0 {
		t.Errorf("expected current_player 0 before start, got %d", body.CurrentPlayer)
	}
}
