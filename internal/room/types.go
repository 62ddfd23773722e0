package room

import (
	"encoding/json"

	"github.com/sakshamg567/blokz/backend/internal/game"
)

// WSMessage is the envelope for everything crossing the socket, in
// both directions.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound message types.
const (
	TypePlacePiece        = "place_piece"
	TypeGetValidPositions = "get_valid_positions"
	TypeChat              = "chat"
)

// Outbound event types.
const (
	TypeJoinedRoom     = "joined_room"
	TypePlayerJoined   = "player_joined"
	TypePlayerLeft     = "player_left"
	TypeGameStarted    = "game_started"
	TypeGameUpdated    = "game_updated"
	TypeGameOver       = "game_over"
	TypeMoveError      = "move_error"
	TypeValidPositions = "valid_positions"
	TypeError          = "error"
)

// PlacePayload is the client request to place a piece.
type PlacePayload struct {
	PieceID  string `json:"piece_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Rotation int    `json:"rotation"`
	Flip     bool   `json:"flip"`
}

// ValidPositionsPayload asks where a piece orientation may be placed.
type ValidPositionsPayload struct {
	PieceID  string `json:"piece_id"`
	Rotation int    `json:"rotation"`
	Flip     bool   `json:"flip"`
}

// PlayerInfo is the per-slot metadata attached to game snapshots.
type PlayerInfo struct {
	Name string `json:"name"`
}

// RoomSnapshot is a game snapshot plus the room overlay: who sits in
// which slot.
type RoomSnapshot struct {
	game.Snapshot
	RoomID      string                `json:"room_id"`
	PlayersInfo map[string]PlayerInfo `json:"players_info"`
}

// LastMove echoes the accepted move alongside a game_updated event.
type LastMove struct {
	PlayerNum int    `json:"player_num"`
	PieceID   string `json:"piece_id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

// ErrorMessage builds a TypeError envelope for one-off delivery on a
// bare connection, before any room owns it (e.g. refusing a connect to
// an unknown room).
func ErrorMessage(msg string) []byte {
	data, err := json.Marshal(map[string]string{"message": msg})
	if err != nil {
		return nil
	}
	payload, err := json.Marshal(WSMessage{Type: TypeError, Data: data})
	if err != nil {
		return nil
	}
	return payload
}
