package pieces

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownPiece is returned for piece ids not present in the catalog.
var ErrUnknownPiece = errors.New("unknown piece")

// Rotate rotates a shape by deg degrees counter-clockwise around the
// origin. Only 90/180/270 change anything; any other value is treated
// as 0.
func Rotate(shape []Cell, deg int) []Cell {
	out := make([]Cell, len(shape))
	switch deg {
	case 90:
		for i, c := range shape {
			out[i] = Cell{X: -c.Y, Y: c.X}
		}
	case 180:
		for i, c := range shape {
			out[i] = Cell{X: -c.X, Y: -c.Y}
		}
	case 270:
		for i, c := range shape {
			out[i] = Cell{X: c.Y, Y: -c.X}
		}
	default:
		copy(out, shape)
	}
	return out
}

// Flip mirrors a shape. horizontal=true mirrors across the y axis
// (x -> -x), otherwise across the x axis (y -> -y).
func Flip(shape []Cell, horizontal bool) []Cell {
	out := make([]Cell, len(shape))
	for i, c := range shape {
		if horizontal {
			out[i] = Cell{X: -c.X, Y: c.Y}
		} else {
			out[i] = Cell{X: c.X, Y: -c.Y}
		}
	}
	return out
}

// Normalize translates a shape so that min x and min y are both 0.
// Idempotent.
func Normalize(shape []Cell) []Cell {
	if len(shape) == 0 {
		return []Cell{}
	}
	minX, minY := shape[0].X, shape[0].Y
	for _, c := range shape[1:] {
		if c.X < minX {
			minX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
	}
	out := make([]Cell, len(shape))
	for i, c := range shape {
		out[i] = Cell{X: c.X - minX, Y: c.Y - minY}
	}
	return out
}

type transformKey struct {
	id       string
	rotation int
	flip     bool
}

var (
	transformMu    sync.RWMutex
	transformCache = make(map[transformKey][]Cell)
)

// Transformed returns a piece's shape after flip (if requested), then
// rotation, then normalization. Flip-before-rotate is part of the wire
// contract with clients; swapping the order produces a different
// orientation. Results are memoized, so callers must not mutate the
// returned slice.
func Transformed(pieceID string, rotation int, flip bool) ([]Cell, error) {
	key := transformKey{id: pieceID, rotation: rotation, flip: flip}

	transformMu.RLock()
	cached, ok := transformCache[key]
	transformMu.RUnlock()
	if ok {
		return cached, nil
	}

	p, ok := Pieces[pieceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPiece, pieceID)
	}

	shape := p.Shape
	if flip {
		shape = Flip(shape, true)
	}
	shape = Normalize(Rotate(shape, rotation))

	transformMu.Lock()
	transformCache[key] = shape
	transformMu.Unlock()

	return shape, nil
}
