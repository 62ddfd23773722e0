package room

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/sakshamg567/blokz/backend/config"
	"github.com/sakshamg567/blokz/backend/pkg/utils"
)

// RoomManager is the registry mapping room ids to live rooms. Its lock
// only guards the map; each room serializes its own state, so churn in
// one room never blocks another.
type RoomManager struct {
	Rooms map[string]*Room
	sync.RWMutex
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		Rooms: make(map[string]*Room),
	}
}

// CreateRoomHandler creates a room for 2 (default) or 4 players and
// starts its Run goroutine.
func (rm *RoomManager) CreateRoomHandler(c *fiber.Ctx) error {
	var body struct {
		MaxPlayers int `json:"max_players"`
	}
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}
	if body.MaxPlayers == 0 {
		body.MaxPlayers = 2
	}
	if body.MaxPlayers != 2 && body.MaxPlayers != 4 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "max_players must be 2 or 4"})
	}

	roomID := utils.GenShortID(config.Envs.RoomIDBytes)
	r := New(roomID, body.MaxPlayers)

	rm.Lock()
	rm.Rooms[roomID] = r
	rm.Unlock()

	go r.Run(rm)

	return c.JSON(fiber.Map{
		"room_id":     roomID,
		"max_players": body.MaxPlayers,
	})
}

// RoomStatusHandler reports occupancy and lifecycle status for one
// room.
func (rm *RoomManager) RoomStatusHandler(c *fiber.Ctx) error {
	r, ok := rm.GetRoom(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "room not found"})
	}

	r.Mu.RLock()
	count := len(r.Players)
	status := r.Status
	r.Mu.RUnlock()

	return c.JSON(fiber.Map{
		"room_id":        r.ID,
		"players":        count,
		"max_players":    r.MaxPlayers,
		"status":         status,
		"current_player": r.CurrentPlayer(),
	})
}

// HealthHandler is the liveness probe.
func (rm *RoomManager) HealthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (rm *RoomManager) GetRoom(id string) (*Room, bool) {
	rm.RLock()
	defer rm.RUnlock()
	r, ok := rm.Rooms[id]
	return r, ok
}
