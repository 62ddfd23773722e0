package room

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sakshamg567/blokz/backend/internal/game"
)

func newTestPlayer(id, name string) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		ID:     id,
		Name:   name,
		send:   make(chan []byte, 64),
		ctx:    ctx,
		cancel: cancel,
	}
}

// readEvent pulls messages off a player's send queue until one of the
// wanted type arrives.
func readEvent(t *testing.T, p *Player, wantType string) json.RawMessage {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-p.send:
			var ws WSMessage
			if err := json.Unmarshal(msg, &ws); err != nil {
				t.Fatalf("invalid envelope: %v", err)
			}
			if ws.Type == wantType {
				return ws.Data
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event for %s", wantType, p.ID)
		}
	}
}

// fillRoom registers players through the Run loop and waits for the
// game to start.
func fillRoom(t *testing.T, rm *RoomManager, r *Room, names ...string) []*Player {
	t.Helper()
	players := make([]*Player, len(names))
	for i, name := range names {
		players[i] = newTestPlayer(name+"-session", name)
		r.Register <- players[i]
		readEvent(t, players[i], TypeJoinedRoom)
	}
	for _, p := range players {
		readEvent(t, p, TypeGameStarted)
	}
	return players
}

func newTestRoom(maxPlayers int) (*RoomManager, *Room) {
	rm := NewRoomManager()
	r := New("testroom", maxPlayers)
	rm.Lock()
	rm.Rooms[r.ID] = r
	rm.Unlock()
	go r.Run(rm)
	return rm, r
}

func TestJoinAssignsSequentialSlots(t *testing.T) {
	rm, r := newTestRoom(4)
	players := fillRoom(t, rm, r, "a", "b", "c", "d")

	for i, p := range players {
		if p.Num != i+1 {
			t.Errorf("player %s: expected slot %d, got %d", p.Name, i+1, p.Num)
		}
	}

	r.Mu.RLock()
	defer r.Mu.RUnlock()
	if r.Status != StatusPlaying {
		t.Errorf("expected room to auto-start, status is %s", r.Status)
	}
	if r.Game == nil || r.Game.MaxPlayers != 4 {
		t.Error("expected a 4-player game engine")
	}
}

func TestJoinRejectedWhenFull(t *testing.T) {
	rm, r := newTestRoom(2)
	fillRoom(t, rm, r, "a", "b")

	late := newTestPlayer("late-session", "late")
	r.Register <- late
	data := readEvent(t, late, TypeError)

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("invalid error payload: %v", err)
	}
	if payload.Code != string(CodeRoomFull) {
		t.Errorf("expected code %s, got %s", CodeRoomFull, payload.Code)
	}
}

func TestPlaceBeforeStart(t *testing.T) {
	_, r := newTestRoom(2)
	p := newTestPlayer("solo-session", "solo")
	r.Register <- p
	readEvent(t, p, TypeJoinedRoom)

	out := r.PlacePiece(p.ID, "piece_1", 0, 0, 0, false)
	if out.result.Success {
		t.Fatal("expected rejection before the game starts")
	}
	if out.result.Code != CodeGameNotStarted {
		t.Errorf("expected code %s, got %s", CodeGameNotStarted, out.result.Code)
	}
}

func TestPlaceUnknownSession(t *testing.T) {
	rm, r := newTestRoom(2)
	fillRoom(t, rm, r, "a", "b")

	out := r.PlacePiece("ghost-session", "piece_1", 0, 0, 0, false)
	if out.result.Success || out.result.Code != CodeNotInRoom {
		t.Errorf("expected %s, got %+v", CodeNotInRoom, out.result)
	}
}

func TestPlaceThroughRoom(t *testing.T) {
	rm, r := newTestRoom(2)
	players := fillRoom(t, rm, r, "a", "b")

	out := r.PlacePiece(players[0].ID, "piece_1", 0, 0, 0, false)
	if !out.result.Success {
		t.Fatalf("opening move rejected: %s", out.result.Message)
	}
	if out.snapshot == nil {
		t.Fatal("expected a snapshot with a successful move")
	}
	if out.snapshot.Board[0][0] != 1 {
		t.Errorf("expected board[0][0] == 1, got %d", out.snapshot.Board[0][0])
	}
	if out.snapshot.CurrentPlayer != 2 {
		t.Errorf("expected current player 2, got %d", out.snapshot.CurrentPlayer)
	}
	if out.gameOver {
		t.Error("game cannot be over after one move")
	}

	// Same session again: engine rejects out of turn, room untouched.
	out = r.PlacePiece(players[0].ID, "piece_2", 1, 1, 0, false)
	if out.result.Success || out.result.Code != game.CodeNotYourTurn {
		t.Errorf("expected not_your_turn, got %+v", out.result)
	}
}

func TestValidPositionsThroughRoom(t *testing.T) {
	rm, r := newTestRoom(2)
	players := fillRoom(t, rm, r, "a", "b")

	got := r.ValidPositions(players[0].ID, "piece_1", 0, false)
	if len(got) != 1 || got[0].X != 0 || got[0].Y != 0 {
		t.Errorf("expected exactly [(0,0)], got %v", got)
	}

	if got := r.ValidPositions("ghost-session", "piece_1", 0, false); len(got) != 0 {
		t.Errorf("expected empty list for unknown session, got %v", got)
	}
}

func TestValidPositionsBeforeStart(t *testing.T) {
	_, r := newTestRoom(2)
	p := newTestPlayer("solo-session", "solo")
	r.Register <- p
	readEvent(t, p, TypeJoinedRoom)

	if got := r.ValidPositions(p.ID, "piece_1", 0, false); len(got) != 0 {
		t.Errorf("expected empty list before start, got %v", got)
	}
}

func TestGameStateNilBeforeStart(t *testing.T) {
	_, r := newTestRoom(2)
	if snap := r.GameState(); snap != nil {
		t.Error("expected nil snapshot before the game starts")
	}
}

func TestGameStateCarriesRoomOverlay(t *testing.T) {
	rm, r := newTestRoom(2)
	fillRoom(t, rm, r, "a", "b")

	snap := r.GameState()
	if snap == nil {
		t.Fatal("expected a snapshot once playing")
	}
	if snap.RoomID != r.ID {
		t.Errorf("expected room id %s, got %s", r.ID, snap.RoomID)
	}
	if snap.PlayersInfo["1"].Name != "a" || snap.PlayersInfo["2"].Name != "b" {
		t.Errorf("unexpected players info: %+v", snap.PlayersInfo)
	}
}

func TestLeaveDeletesEmptyRoom(t *testing.T) {
	rm, r := newTestRoom(2)
	p := newTestPlayer("solo-session", "solo")
	r.Register <- p
	readEvent(t, p, TypeJoinedRoom)

	r.Unregister <- p

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := rm.GetRoom(r.ID); !ok {
			return
		}
		select {
		case <-deadline:
			t.Fatal("empty room was not removed from the registry")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestLeaveUnknownSessionIsNoop(t *testing.T) {
	rm, r := newTestRoom(2)
	p := newTestPlayer("solo-session", "solo")
	r.Register <- p
	readEvent(t, p, TypeJoinedRoom)

	// A session the room never seated must not disturb anyone.
	r.Unregister <- newTestPlayer("ghost-session", "ghost")

	time.Sleep(50 * time.Millisecond)
	if _, ok := rm.GetRoom(r.ID); !ok {
		t.Fatal("room vanished after unknown session left")
	}
	r.Mu.RLock()
	defer r.Mu.RUnlock()
	if len(r.Players) != 1 {
		t.Errorf("expected 1 seated player, got %d", len(r.Players))
	}
}

func TestPlayerJoinedBroadcast(t *testing.T) {
	_, r := newTestRoom(2)

	first := newTestPlayer("first-session", "first")
	r.Register <- first
	readEvent(t, first, TypeJoinedRoom)

	second := newTestPlayer("second-session", "second")
	r.Register <- second

	data := readEvent(t, first, TypePlayerJoined)
	var payload struct {
		PlayerName   string `json:"player_name"`
		PlayersCount int    `json:"players_count"`
		CanStart     bool   `json:"can_start"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("invalid player_joined payload: %v", err)
	}
	if payload.PlayerName != "second" || payload.PlayersCount != 2 || !payload.CanStart {
		t.Errorf("unexpected player_joined payload: %+v", payload)
	}
}

func TestBroadcastAfterConnectionDrop(t *testing.T) {
	rm, r := newTestRoom(2)
	players := fillRoom(t, rm, r, "a", "b")
	a, b := players[0], players[1]

	// A dropped connection tears itself down before its Unregister is
	// consumed, so the session briefly stays in the room map. Fan-out
	// in that window must not take the Run goroutine down.
	b.cleanup()
	for i := 0; i < 5; i++ {
		r.BroadcastWS(TypeGameUpdated, map[string]any{"seq": i})
	}
	r.sendTo(b, TypeError, map[string]any{"message": "late direct send"})

	r.Unregister <- b
	readEvent(t, a, TypePlayerLeft)

	// The room is still live for the remaining player.
	out := r.PlacePiece(a.ID, "piece_1", 0, 0, 0, false)
	if !out.result.Success {
		t.Fatalf("room unusable after disconnect: %s", out.result.Message)
	}
}

func TestErrorMessageEnvelope(t *testing.T) {
	payload := ErrorMessage("room not found")
	if payload == nil {
		t.Fatal("expected an envelope")
	}

	var ws WSMessage
	if err := json.Unmarshal(payload, &ws); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if ws.Type != TypeError {
		t.Errorf("expected type %s, got %s", TypeError, ws.Type)
	}
	var data struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(ws.Data, &data); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if data.Message != "room not found" {
		t.Errorf("unexpected message %q", data.Message)
	}
}

func TestSlotReuseAfterLeaveBeforeStart(t *testing.T) {
	_, r := newTestRoom(4)

	a := newTestPlayer("a-session", "a")
	b := newTestPlayer("b-session", "b")
	r.Register <- a
	readEvent(t, a, TypeJoinedRoom)
	r.Register <- b
	readEvent(t, b, TypeJoinedRoom)

	r.Unregister <- a
	readEvent(t, b, TypePlayerLeft)

	c := newTestPlayer("c-session", "c")
	r.Register <- c
	readEvent(t, c, TypeJoinedRoom)

	// Slot 1 freed by a; b keeps slot 2; c takes the lowest free slot.
	if b.Num != 2 {
		t.Errorf("expected b to keep slot 2, got %d", b.Num)
	}
	if c.Num != 1 {
		t.Errorf("expected c seated in freed slot 1, got %d", c.Num)
	}
}
