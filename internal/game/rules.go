package game

import "github.com/sakshamg567/blokz/backend/internal/pieces"

var rotations = [4]int{0, 90, 180, 270}

// startCorner returns the board cell a player's first piece must cover.
// Two-player games use opposite corners; four-player games assign the
// four corners clockwise from the top-left, in player order.
func (g *Game) startCorner(playerNum int) pieces.Cell {
	n := g.BoardSize - 1
	if g.MaxPlayers == 2 {
		if playerNum == 1 {
			return pieces.Cell{X: 0, Y: 0}
		}
		return pieces.Cell{X: n, Y: n}
	}
	switch playerNum {
	case 1:
		return pieces.Cell{X: 0, Y: 0}
	case 2:
		return pieces.Cell{X: n, Y: 0}
	case 3:
		return pieces.Cell{X: n, Y: n}
	default:
		return pieces.Cell{X: 0, Y: n}
	}
}

// ValidatePlacement checks whether shape anchored at (x, y) is a legal
// move for playerNum. Read-only; checks run in a fixed order and the
// first violation is returned. A nil result means the move is legal.
func (g *Game) ValidatePlacement(shape []pieces.Cell, x, y, playerNum int) *RuleError {
	target := make([]pieces.Cell, len(shape))
	for i, c := range shape {
		cx, cy := x+c.X, y+c.Y
		if cx < 0 || cx >= g.BoardSize || cy < 0 || cy >= g.BoardSize {
			return ruleErr(CodeOutOfBounds, "piece does not fit on the board")
		}
		if g.Board[cy][cx] != 0 {
			return ruleErr(CodeCellOccupied, "cell is already occupied")
		}
		target[i] = pieces.Cell{X: cx, Y: cy}
	}

	for _, c := range target {
		for _, n := range [4]pieces.Cell{{X: c.X - 1, Y: c.Y}, {X: c.X + 1, Y: c.Y}, {X: c.X, Y: c.Y - 1}, {X: c.X, Y: c.Y + 1}} {
			if n.X >= 0 && n.X < g.BoardSize && n.Y >= 0 && n.Y < g.BoardSize && g.Board[n.Y][n.X] == playerNum {
				return ruleErr(CodeEdgeTouchForbidden, "own pieces may not touch edge to edge")
			}
		}
	}

	ps, ok := g.Players[playerNum]
	if !ok {
		return ruleErr(CodeUnknownPlayer, "player is not part of this game")
	}

	if ps.FirstMove {
		corner := g.startCorner(playerNum)
		for _, c := range target {
			if c == corner {
				return nil
			}
		}
		return ruleErr(CodeMissingStartCorner, "first piece must cover your starting corner")
	}

	for _, c := range target {
		for _, n := range [4]pieces.Cell{{X: c.X - 1, Y: c.Y - 1}, {X: c.X - 1, Y: c.Y + 1}, {X: c.X + 1, Y: c.Y - 1}, {X: c.X + 1, Y: c.Y + 1}} {
			if n.X >= 0 && n.X < g.BoardSize && n.Y >= 0 && n.Y < g.BoardSize && g.Board[n.Y][n.X] == playerNum {
				return nil
			}
		}
	}
	return ruleErr(CodeMissingCornerTouch, "piece must touch one of your pieces corner to corner")
}

// CanPlayerMove reports whether playerNum has any legal move left. It
// brute-forces every unused piece, orientation and anchor cell, which
// is O(pieces * 8 * N^2); fine at N <= 20 but the dominant cost of
// end-state evaluation.
func (g *Game) CanPlayerMove(playerNum int) bool {
	ps, ok := g.Players[playerNum]
	if !ok {
		return false
	}
	for pieceID := range ps.Unused {
		for _, rotation := range rotations {
			for _, flip := range [2]bool{false, true} {
				shape, err := pieces.Transformed(pieceID, rotation, flip)
				if err != nil {
					continue
				}
				for x := 0; x < g.BoardSize; x++ {
					for y := 0; y < g.BoardSize; y++ {
						if g.ValidatePlacement(shape, x, y, playerNum) == nil {
							return true
						}
					}
				}
			}
		}
	}
	return false
}

// ValidPositions lists every anchor at which the given piece
// orientation could legally be placed, scanning columns left to right.
// Unknown pieces yield an empty list.
func (g *Game) ValidPositions(playerNum int, pieceID string, rotation int, flip bool) []pieces.Cell {
	positions := []pieces.Cell{}

	shape, err := pieces.Transformed(pieceID, rotation, flip)
	if err != nil {
		return positions
	}
	if _, ok := g.Players[playerNum]; !ok {
		return positions
	}

	for x := 0; x < g.BoardSize; x++ {
		for y := 0; y < g.BoardSize; y++ {
			if g.ValidatePlacement(shape, x, y, playerNum) == nil {
				positions = append(positions, pieces.Cell{X: x, Y: y})
			}
		}
	}
	return positions
}
