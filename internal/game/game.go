// Package game implements the board engine for a Blokus-style match:
// placement legality, turn progression and end-of-game scoring. It is
// transport-agnostic and not safe for concurrent use; the owning room
// serializes access.
package game

import (
	"fmt"
	"sort"

	"github.com/sakshamg567/blokz/backend/internal/pieces"
)

// WinnerTie marks a drawn game in Game.Winner. Otherwise Winner holds
// the winning player number as a string ("1".."4"), or "" while the
// game is still running.
const WinnerTie = "tie"

// Placement records one accepted move.
type Placement struct {
	PieceID  string        `json:"piece_id"`
	X        int           `json:"x"`
	Y        int           `json:"y"`
	Rotation int           `json:"rotation"`
	Flip     bool          `json:"flip"`
	Cells    []pieces.Cell `json:"cells"`
}

// PlayerState tracks a single player's pieces within one game.
type PlayerState struct {
	Num       int
	Unused    map[string]bool
	Placed    []Placement
	FirstMove bool
}

// Game is one match: a square board plus per-player piece state.
// Board is indexed [y][x]; 0 is empty, otherwise the owning player
// number. Cells never revert to 0.
type Game struct {
	BoardSize     int
	MaxPlayers    int
	Board         [][]int
	Players       map[int]*PlayerState
	CurrentPlayer int
	Over          bool
	Winner        string
}

// Result is the outcome of a place attempt. Code is empty on success.
type Result struct {
	Success bool   `json:"success"`
	Code    Code   `json:"code,omitempty"`
	Message string `json:"message"`
}

// New creates a game for 2 or 4 players. 2 players play on a 14x14
// board, 4 players on the full 20x20.
func New(maxPlayers int) (*Game, error) {
	if maxPlayers != 2 && maxPlayers != 4 {
		return nil, ruleErr(CodeInvalidConfig, fmt.Sprintf("max players must be 2 or 4, got %d", maxPlayers))
	}
	size := 14
	if maxPlayers == 4 {
		size = 20
	}
	board := make([][]int, size)
	for y := range board {
		board[y] = make([]int, size)
	}
	return &Game{
		BoardSize:     size,
		MaxPlayers:    maxPlayers,
		Board:         board,
		Players:       make(map[int]*PlayerState),
		CurrentPlayer: 1,
	}, nil
}

// AddPlayer registers player playerNum with the full catalog as unused
// pieces. Call once per player number before play starts.
func (g *Game) AddPlayer(playerNum int) {
	unused := make(map[string]bool, len(pieces.Pieces))
	for _, id := range pieces.AllIDs() {
		unused[id] = true
	}
	g.Players[playerNum] = &PlayerState{
		Num:       playerNum,
		Unused:    unused,
		Placed:    []Placement{},
		FirstMove: true,
	}
}

// PlacePiece attempts to place pieceID for playerNum with its anchor at
// (x, y). All preconditions and rule checks run before any mutation;
// a failure leaves the game untouched.
func (g *Game) PlacePiece(playerNum int, pieceID string, x, y, rotation int, flip bool) Result {
	if g.Over {
		return reject(ruleErr(CodeGameOver, "game is already over"))
	}
	if g.CurrentPlayer != playerNum {
		return reject(ruleErr(CodeNotYourTurn, "not your turn"))
	}
	ps, ok := g.Players[playerNum]
	if !ok {
		return reject(ruleErr(CodeUnknownPlayer, "player is not part of this game"))
	}
	if !ps.Unused[pieceID] {
		return reject(ruleErr(CodePieceUnavailable, "piece already used or unknown"))
	}

	shape, err := pieces.Transformed(pieceID, rotation, flip)
	if err != nil {
		return reject(ruleErr(CodeUnknownPiece, "invalid piece"))
	}

	if rerr := g.ValidatePlacement(shape, x, y, playerNum); rerr != nil {
		return reject(rerr)
	}

	cells := make([]pieces.Cell, len(shape))
	for i, c := range shape {
		cells[i] = pieces.Cell{X: x + c.X, Y: y + c.Y}
		g.Board[cells[i].Y][cells[i].X] = playerNum
	}

	delete(ps.Unused, pieceID)
	ps.Placed = append(ps.Placed, Placement{
		PieceID:  pieceID,
		X:        x,
		Y:        y,
		Rotation: rotation,
		Flip:     flip,
		Cells:    cells,
	})
	ps.FirstMove = false

	g.SwitchPlayer()
	g.evaluateEndState()

	return Result{Success: true, Message: "piece placed"}
}

func reject(err *RuleError) Result {
	return Result{Success: false, Code: err.Code, Message: err.Message}
}

// SwitchPlayer advances the turn to the next player number, cyclically.
func (g *Game) SwitchPlayer() {
	g.CurrentPlayer = g.CurrentPlayer%g.MaxPlayers + 1
}

// evaluateEndState finishes the game if nobody can move, or skips
// CurrentPlayer forward past players with no legal move left.
func (g *Game) evaluateEndState() {
	canMove := make(map[int]bool, len(g.Players))
	anyone := false
	for num := range g.Players {
		canMove[num] = g.CanPlayerMove(num)
		if canMove[num] {
			anyone = true
		}
	}

	if !anyone {
		g.Over = true
		g.determineWinner()
		return
	}

	if !canMove[g.CurrentPlayer] {
		for attempts := 0; attempts < g.MaxPlayers; attempts++ {
			g.SwitchPlayer()
			if canMove[g.CurrentPlayer] {
				return
			}
		}
		g.Over = true
		g.determineWinner()
	}
}

// determineWinner awards the game to the player with the fewest
// remaining unplaced cells, or WinnerTie on a shared minimum.
func (g *Game) determineWinner() {
	minRemaining := -1
	var winners []int
	for num, ps := range g.Players {
		remaining := 0
		for id := range ps.Unused {
			remaining += pieces.Size(id)
		}
		switch {
		case minRemaining < 0 || remaining < minRemaining:
			minRemaining = remaining
			winners = winners[:0]
			winners = append(winners, num)
		case remaining == minRemaining:
			winners = append(winners, num)
		}
	}
	if len(winners) == 1 {
		g.Winner = fmt.Sprintf("%d", winners[0])
	} else {
		g.Winner = WinnerTie
	}
}

// Scores returns each player's remaining unplaced cell count (lower is
// better).
func (g *Game) Scores() map[int]int {
	scores := make(map[int]int, len(g.Players))
	for num, ps := range g.Players {
		remaining := 0
		for id := range ps.Unused {
			remaining += pieces.Size(id)
		}
		scores[num] = remaining
	}
	return scores
}

// PlayerSnapshot is the wire view of one player's piece state.
type PlayerSnapshot struct {
	Pieces       []string    `json:"pieces"`
	PlacedPieces []Placement `json:"placed_pieces"`
	Score        int         `json:"score"`
}

// Snapshot is a copy of everything a client needs to render the game.
type Snapshot struct {
	Board         [][]int                   `json:"board"`
	BoardSize     int                       `json:"board_size"`
	MaxPlayers    int                       `json:"max_players"`
	CurrentPlayer int                       `json:"current_player"`
	Players       map[string]PlayerSnapshot `json:"players"`
	GameOver      bool                      `json:"game_over"`
	Winner        string                    `json:"winner,omitempty"`
}

// Snapshot copies the full game state. The returned value shares
// nothing with the live game, so it is safe to hand to an encoder
// outside the room lock.
func (g *Game) Snapshot() Snapshot {
	board := make([][]int, len(g.Board))
	for y, row := range g.Board {
		board[y] = append([]int(nil), row...)
	}

	players := make(map[string]PlayerSnapshot, len(g.Players))
	for num, ps := range g.Players {
		unused := make([]string, 0, len(ps.Unused))
		for id := range ps.Unused {
			unused = append(unused, id)
		}
		sort.Strings(unused)
		placed := append([]Placement(nil), ps.Placed...)
		players[fmt.Sprintf("%d", num)] = PlayerSnapshot{
			Pieces:       unused,
			PlacedPieces: placed,
			Score:        len(placed),
		}
	}

	return Snapshot{
		Board:         board,
		BoardSize:     g.BoardSize,
		MaxPlayers:    g.MaxPlayers,
		CurrentPlayer: g.CurrentPlayer,
		Players:       players,
		GameOver:      g.Over,
		Winner:        g.Winner,
	}
}
