// Package room manages the lifecycle of one match: session slots,
// the owned game engine, and fan-out of game events to connected
// players. A RoomManager keeps unrelated rooms independent.
package room

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/sakshamg567/blokz/backend/internal/game"
	"github.com/sakshamg567/blokz/backend/internal/pieces"
	"github.com/sakshamg567/blokz/backend/logger"
)

// Room status values. A room moves waiting -> playing exactly once,
// when it fills, and playing -> finished exactly once, when the game
// ends.
const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// Room-level rejection codes, alongside the engine's rule codes.
const (
	CodeGameNotStarted game.Code = "game_not_started"
	CodeNotInRoom      game.Code = "player_not_in_room"
	CodeRoomFull       game.Code = "room_full"
)

// ErrRoomFull is returned when a session tries to join a room whose
// slots are all taken or whose game already started.
var ErrRoomFull = errors.New("room is full")

// Room is one match. All state behind Mu is mutated only while the
// lock is held; the Run goroutine owns registration and broadcast
// fan-out so that joins, leaves and moves never interleave.
type Room struct {
	ID         string
	MaxPlayers int
	Players    map[string]*Player // keyed by opaque session id
	Game       *game.Game
	Status     string

	Register   chan *Player
	Unregister chan *Player
	Broadcast  chan []byte
	done       chan struct{}
	Mu         sync.RWMutex
}

// New creates a waiting room for maxPlayers (validated by the
// manager's create handler).
func New(id string, maxPlayers int) *Room {
	return &Room{
		ID:         id,
		MaxPlayers: maxPlayers,
		Players:    make(map[string]*Player),
		Status:     StatusWaiting,
		Register:   make(chan *Player, 10),
		Unregister: make(chan *Player, 10),
		Broadcast:  make(chan []byte, 100),
		done:       make(chan struct{}),
	}
}

// Run owns the room's register/unregister/broadcast loop. It exits,
// removing the room from the manager, when the last player leaves.
func (r *Room) Run(rm *RoomManager) {
	defer close(r.done)

	for {
		select {
		case p := <-r.Register:
			r.Mu.Lock()
			num, err := r.addPlayerLocked(p)
			count := len(r.Players)
			start := r.canStartLocked()
			r.Mu.Unlock()

			if err != nil {
				r.sendTo(p, TypeError, map[string]any{"code": CodeRoomFull, "message": "room is full"})
				p.cleanup()
				continue
			}

			logger.Info("player %s (%s) joined room %s as #%d", p.Name, p.ID, r.ID, num)

			r.sendTo(p, TypeJoinedRoom, map[string]any{
				"room_id":       r.ID,
				"player_num":    num,
				"player_name":   p.Name,
				"players_count": count,
				"max_players":   r.MaxPlayers,
			})
			r.BroadcastWSExcept(p, TypePlayerJoined, map[string]any{
				"player_name":   p.Name,
				"players_count": count,
				"max_players":   r.MaxPlayers,
				"can_start":     start,
			})

			if start {
				r.Mu.Lock()
				err := r.startGameLocked()
				var snap RoomSnapshot
				if err == nil {
					snap = r.snapshotLocked()
				}
				r.Mu.Unlock()

				if err != nil {
					logger.Error("room %s failed to start game: %v", r.ID, err)
					continue
				}
				logger.Info("room %s started a %d-player game", r.ID, r.MaxPlayers)
				r.BroadcastWS(TypeGameStarted, map[string]any{
					"game_state": snap,
					"message":    "game started",
				})
			}

		case p := <-r.Unregister:
			r.Mu.Lock()
			if _, exists := r.Players[p.ID]; !exists {
				r.Mu.Unlock()
				continue
			}
			delete(r.Players, p.ID)
			count := len(r.Players)
			r.Mu.Unlock()

			logger.Info("player %s (%s) left room %s", p.Name, p.ID, r.ID)

			if count == 0 {
				rm.Lock()
				delete(rm.Rooms, r.ID)
				rm.Unlock()
				logger.Info("room %s deleted (empty)", r.ID)
				return
			}

			r.BroadcastWS(TypePlayerLeft, map[string]any{
				"player_name":   p.Name,
				"players_count": count,
				"max_players":   r.MaxPlayers,
			})

		case msg := <-r.Broadcast:
			r.Mu.RLock()
			for _, p := range r.Players {
				select {
				case p.send <- msg:
				case <-p.ctx.Done():
				default:
				}
			}
			r.Mu.RUnlock()
		}
	}
}

// addPlayerLocked seats a session in the lowest free slot. Sessions
// keep their slot numbers when someone else leaves; slots are never
// renumbered.
func (r *Room) addPlayerLocked(p *Player) (int, error) {
	if r.Status != StatusWaiting || len(r.Players) >= r.MaxPlayers {
		return 0, ErrRoomFull
	}
	taken := make(map[int]bool, len(r.Players))
	for _, pl := range r.Players {
		taken[pl.Num] = true
	}
	for num := 1; num <= r.MaxPlayers; num++ {
		if !taken[num] {
			p.Num = num
			r.Players[p.ID] = p
			return num, nil
		}
	}
	return 0, ErrRoomFull
}

func (r *Room) canStartLocked() bool {
	return r.Status == StatusWaiting && len(r.Players) == r.MaxPlayers
}

// startGameLocked builds the engine, seats every session's slot in it
// and flips the room to playing.
func (r *Room) startGameLocked() error {
	g, err := game.New(r.MaxPlayers)
	if err != nil {
		return err
	}
	for _, p := range r.Players {
		g.AddPlayer(p.Num)
	}
	r.Game = g
	r.Status = StatusPlaying
	return nil
}

// moveOutcome bundles everything the read pump needs to report a move
// without re-acquiring the room lock.
type moveOutcome struct {
	result    game.Result
	playerNum int
	snapshot  *RoomSnapshot
	gameOver  bool
	winner    string
	scores    map[int]int
}

// PlacePiece resolves the session to its slot and delegates to the
// engine under the room's write lock. On success the room status
// mirrors the engine's over flag.
func (r *Room) PlacePiece(sessionID, pieceID string, x, y, rotation int, flip bool) moveOutcome {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Game == nil {
		return moveOutcome{result: game.Result{Code: CodeGameNotStarted, Message: "game has not started"}}
	}
	p, ok := r.Players[sessionID]
	if !ok {
		return moveOutcome{result: game.Result{Code: CodeNotInRoom, Message: "player is not in this room"}}
	}

	res := r.Game.PlacePiece(p.Num, pieceID, x, y, rotation, flip)
	out := moveOutcome{result: res, playerNum: p.Num}
	if !res.Success {
		return out
	}

	if r.Game.Over {
		r.Status = StatusFinished
		out.gameOver = true
		out.winner = r.Game.Winner
		out.scores = r.Game.Scores()
	}
	snap := r.snapshotLocked()
	out.snapshot = &snap
	return out
}

// ValidPositions answers a position query for a session. Queries are
// read-only and may run concurrently with each other; an unknown
// session or an unstarted game yields an empty list.
func (r *Room) ValidPositions(sessionID, pieceID string, rotation int, flip bool) []pieces.Cell {
	r.Mu.RLock()
	defer r.Mu.RUnlock()

	if r.Game == nil {
		return []pieces.Cell{}
	}
	p, ok := r.Players[sessionID]
	if !ok {
		return []pieces.Cell{}
	}
	return r.Game.ValidPositions(p.Num, pieceID, rotation, flip)
}

// GameState returns a full snapshot, or nil before the game starts.
func (r *Room) GameState() *RoomSnapshot {
	r.Mu.RLock()
	defer r.Mu.RUnlock()
	if r.Game == nil {
		return nil
	}
	snap := r.snapshotLocked()
	return &snap
}

func (r *Room) snapshotLocked() RoomSnapshot {
	info := make(map[string]PlayerInfo, len(r.Players))
	for _, p := range r.Players {
		info[strconv.Itoa(p.Num)] = PlayerInfo{Name: p.Name}
	}
	return RoomSnapshot{
		Snapshot:    r.Game.Snapshot(),
		RoomID:      r.ID,
		PlayersInfo: info,
	}
}

// CurrentPlayer reports the engine's current turn, 0 when no game is
// running.
func (r *Room) CurrentPlayer() int {
	r.Mu.RLock()
	defer r.Mu.RUnlock()
	if r.Game == nil {
		return 0
	}
	return r.Game.CurrentPlayer
}

func (r *Room) broadcast(msg []byte) {
	r.Broadcast <- msg
}

func (r *Room) broadcastExcept(sender *Player, msg []byte) {
	r.Mu.RLock()
	for _, pl := range r.Players {
		if pl == sender {
			continue
		}
		select {
		case pl.send <- msg:
		default:
		}
	}
	r.Mu.RUnlock()
}

// BroadcastWS marshals d into a typed envelope and fans it out to the
// whole room.
func (r *Room) BroadcastWS(t string, d any) {
	data, err := json.Marshal(d)
	if err != nil {
		logger.Error("room %s: marshal %s payload: %v", r.ID, t, err)
		return
	}
	payload, err := json.Marshal(WSMessage{Type: t, Data: data})
	if err != nil {
		return
	}
	r.broadcast(payload)
}

// BroadcastWSExcept is BroadcastWS minus the sender.
func (r *Room) BroadcastWSExcept(s *Player, t string, d any) {
	data, err := json.Marshal(d)
	if err != nil {
		logger.Error("room %s: marshal %s payload: %v", r.ID, t, err)
		return
	}
	payload, err := json.Marshal(WSMessage{Type: t, Data: data})
	if err != nil {
		return
	}
	r.broadcastExcept(s, payload)
}

// sendTo queues a typed envelope for a single player, dropping it if
// the player's send buffer is full.
func (r *Room) sendTo(p *Player, t string, d any) {
	data, err := json.Marshal(d)
	if err != nil {
		logger.Error("room %s: marshal %s payload for %s: %v", r.ID, t, p.ID, err)
		return
	}
	payload, err := json.Marshal(WSMessage{Type: t, Data: data})
	if err != nil {
		return
	}
	select {
	case p.send <- payload:
	default:
		logger.Error("player %s send channel full, dropping %s", p.ID, t)
	}
}

func (r *Room) String() string {
	return fmt.Sprintf("room(%s %d/%d %s)", r.ID, len(r.Players), r.MaxPlayers, r.Status)
}
