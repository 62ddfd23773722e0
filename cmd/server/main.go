package main

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"

	"github.com/sakshamg567/blokz/backend/config"
	"github.com/sakshamg567/blokz/backend/internal/room"
	"github.com/sakshamg567/blokz/backend/logger"
)

func main() {
	rm := room.NewRoomManager()
	app := fiber.New()
	app.Use(cors.New(cors.Config{AllowOrigins: config.Envs.CORSOrigins}))

	app.Get("/api/health", rm.HealthHandler)
	app.Post("/api/create-room", rm.CreateRoomHandler)
	app.Get("/api/room/:id", rm.RoomStatusHandler)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/:roomId", websocket.New(func(c *websocket.Conn) {
		roomID := c.Params("roomId")

		r, ok := rm.GetRoom(roomID)
		if !ok {
			logger.Error("ws connect to unknown room %s", roomID)
			c.WriteMessage(websocket.TextMessage, room.ErrorMessage("room not found"))
			c.Close()
			return
		}

		// Sessions are opaque per-connection handles; clients never
		// pick their own.
		sessionID := uuid.NewString()
		name := c.Query("name")
		if name == "" {
			name = "player-" + sessionID[:6]
		}

		pl := room.NewPlayer(sessionID, name, c)
		r.Register <- pl
		go pl.ReadPump(r)
		pl.WritePump()
	}))

	logger.Info("server listening on %s", config.Envs.ListenAddr)
	if err := app.Listen(config.Envs.ListenAddr); err != nil {
		logger.Error("server exited: %v", err)
	}
}
