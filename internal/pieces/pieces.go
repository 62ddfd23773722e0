// Package pieces holds the fixed polyomino catalog and the geometric
// transforms applied to shapes before placement.
package pieces

// Cell is a single grid offset within a shape, relative to the shape's
// anchor at (0,0).
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Piece is one catalog entry. Shape is the canonical orientation;
// rotated/flipped variants are derived, never stored.
type Piece struct {
	Name  string
	Size  int
	Shape []Cell
}

// Pieces is the full 21-piece catalog. Cell counts sum to 89, which the
// scoring and exhaustion logic rely on.
var Pieces = map[string]Piece{
	"piece_1": {Name: "mono", Size: 1, Shape: []Cell{{0, 0}}},

	"piece_2": {Name: "domino", Size: 2, Shape: []Cell{{0, 0}, {1, 0}}},

	"piece_3_line": {Name: "tromino I", Size: 3, Shape: []Cell{{0, 0}, {1, 0}, {2, 0}}},
	"piece_3_l":    {Name: "tromino L", Size: 3, Shape: []Cell{{0, 0}, {1, 0}, {0, 1}}},

	"piece_4_line":   {Name: "tetromino I", Size: 4, Shape: []Cell{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
	"piece_4_square": {Name: "tetromino O", Size: 4, Shape: []Cell{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
	"piece_4_l":      {Name: "tetromino L", Size: 4, Shape: []Cell{{0, 0}, {1, 0}, {2, 0}, {0, 1}}},
	"piece_4_t":      {Name: "tetromino T", Size: 4, Shape: []Cell{{0, 0}, {1, 0}, {2, 0}, {1, 1}}},
	"piece_4_z":      {Name: "tetromino Z", Size: 4, Shape: []Cell{{0, 0}, {1, 0}, {1, 1}, {2, 1}}},

	"piece_5_line": {Name: "pentomino I", Size: 5, Shape: []Cell{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}},
	"piece_5_l":    {Name: "pentomino L", Size: 5, Shape: []Cell{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {0, 1}}},
	"piece_5_t":    {Name: "pentomino T", Size: 5, Shape: []Cell{{0, 0}, {1, 0}, {2, 0}, {1, 1}, {1, 2}}},
	"piece_5_plus": {Name: "pentomino X", Size: 5, Shape: []Cell{{1, 0}, {0, 1}, {1, 1}, {2, 1}, {1, 2}}},
	"piece_5_u":    {Name: "pentomino U", Size: 5, Shape: []Cell{{0, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}},
	"piece_5_n":    {Name: "pentomino N", Size: 5, Shape: []Cell{{0, 1}, {1, 1}, {1, 0}, {2, 0}, {3, 0}}},
	"piece_5_y":    {Name: "pentomino Y", Size: 5, Shape: []Cell{{0, 1}, {1, 0}, {1, 1}, {2, 1}, {3, 1}}},
	"piece_5_p":    {Name: "pentomino P", Size: 5, Shape: []Cell{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}}},
	"piece_5_w":    {Name: "pentomino W", Size: 5, Shape: []Cell{{0, 0}, {0, 1}, {1, 1}, {1, 2}, {2, 2}}},
	"piece_5_z":    {Name: "pentomino Z", Size: 5, Shape: []Cell{{0, 0}, {1, 0}, {1, 1}, {1, 2}, {2, 2}}},
	"piece_5_v":    {Name: "pentomino V", Size: 5, Shape: []Cell{{0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 2}}},
	"piece_5_f":    {Name: "pentomino F", Size: 5, Shape: []Cell{{1, 0}, {2, 0}, {0, 1}, {1, 1}, {1, 2}}},
}

// TotalCells is the cell count of the whole catalog (89).
var TotalCells = func() int {
	n := 0
	for _, p := range Pieces {
		n += p.Size
	}
	return n
}()

// AllIDs returns every catalog piece id as a fresh slice, suitable for
// seeding a player's unused set.
func AllIDs() []string {
	ids := make([]string, 0, len(Pieces))
	for id := range Pieces {
		ids = append(ids, id)
	}
	return ids
}

// Size reports the cell count of a piece, 0 for unknown ids.
func Size(pieceID string) int {
	return Pieces[pieceID].Size
}
