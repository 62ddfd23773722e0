package room

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/sakshamg567/blokz/backend/logger"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
)

// Player is one connected session. ID is the opaque session handle the
// transport assigned; Num is the 1-based game slot the room assigned,
// 0 until seated.
type Player struct {
	ID   string `json:"session_id"`
	Num  int    `json:"player_num"`
	Name string `json:"name"`

	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewPlayer wraps a websocket connection as an unseated player.
func NewPlayer(sessionID, name string, c *websocket.Conn) *Player {
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		ID:     sessionID,
		Name:   name,
		conn:   c,
		send:   make(chan []byte, 256),
		ctx:    ctx,
		cancel: cancel,
	}
}

// cleanup tears down the connection. The send channel is deliberately
// never closed: the room may still fan broadcasts into it until the
// Unregister is processed, and a send raced against close would panic
// the Run goroutine. WritePump stops via ctx instead, and the channel
// is garbage collected with the player.
func (p *Player) cleanup() {
	p.once.Do(func() {
		p.cancel()
		if p.conn != nil {
			p.conn.Close()
		}
	})
}

// ReadPump consumes inbound messages until the connection drops, then
// unregisters the player. A recover guard keeps an unexpected failure
// in a handler from taking the process down or skipping the
// unregister.
func (p *Player) ReadPump(r *Room) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("player %s readPump panic: %v", p.ID, rec)
		}
		p.cleanup()
		r.Unregister <- p
	}()

	for {
		select {
		case <-p.ctx.Done():
			return
		default:
			_, msg, err := p.conn.ReadMessage()
			if err != nil {
				return
			}

			var wsMsg WSMessage
			if err := json.Unmarshal(msg, &wsMsg); err != nil {
				logger.Error("invalid ws message from player %s: %v", p.ID, err)
				continue
			}

			switch wsMsg.Type {
			case TypePlacePiece:
				p.handlePlacePiece(r, wsMsg.Data)

			case TypeGetValidPositions:
				p.handleValidPositions(r, wsMsg.Data)

			case TypeChat:
				// plain relay, the room keeps no chat state
				r.broadcast(msg)

			default:
				logger.Info("player %s sent unknown message type %q", p.ID, wsMsg.Type)
				r.sendTo(p, TypeError, map[string]any{"message": "unknown message type: " + wsMsg.Type})
			}
		}
	}
}

func (p *Player) handlePlacePiece(r *Room, data json.RawMessage) {
	var payload PlacePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		r.sendTo(p, TypeError, map[string]any{"message": "invalid place_piece payload"})
		return
	}

	out := r.PlacePiece(p.ID, payload.PieceID, payload.X, payload.Y, payload.Rotation, payload.Flip)
	if !out.result.Success {
		r.sendTo(p, TypeMoveError, out.result)
		return
	}

	r.BroadcastWS(TypeGameUpdated, map[string]any{
		"game_state": out.snapshot,
		"last_move": LastMove{
			PlayerNum: out.playerNum,
			PieceID:   payload.PieceID,
			X:         payload.X,
			Y:         payload.Y,
		},
	})

	if out.gameOver {
		logger.Info("room %s game over, winner=%s", r.ID, out.winner)
		r.BroadcastWS(TypeGameOver, map[string]any{
			"winner":       out.winner,
			"final_scores": out.scores,
		})
	}
}

func (p *Player) handleValidPositions(r *Room, data json.RawMessage) {
	var payload ValidPositionsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		r.sendTo(p, TypeError, map[string]any{"message": "invalid get_valid_positions payload"})
		return
	}

	positions := r.ValidPositions(p.ID, payload.PieceID, payload.Rotation, payload.Flip)
	r.sendTo(p, TypeValidPositions, map[string]any{
		"piece_id":  payload.PieceID,
		"positions": positions,
	})
}

// WritePump drains the send channel onto the socket and keeps the
// connection alive with pings.
func (p *Player) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.cleanup()
	}()

	for {
		select {
		case <-p.ctx.Done():
			return

		case msg := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Error("write error for player %s: %v", p.ID, err)
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
