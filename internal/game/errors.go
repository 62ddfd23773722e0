package game

// Code identifies why a move or request was rejected. Codes cross the
// wire, so values are stable strings.
type Code string

const (
	CodeOutOfBounds        Code = "out_of_bounds"
	CodeCellOccupied       Code = "cell_occupied"
	CodeEdgeTouchForbidden Code = "edge_touch_forbidden"
	CodeMissingStartCorner Code = "missing_start_corner"
	CodeMissingCornerTouch Code = "missing_corner_touch"
	CodeGameOver           Code = "game_over"
	CodeNotYourTurn        Code = "not_your_turn"
	CodeUnknownPlayer      Code = "unknown_player"
	CodePieceUnavailable   Code = "piece_unavailable"
	CodeUnknownPiece       Code = "unknown_piece"
	CodeInvalidConfig      Code = "invalid_config"
)

// RuleError is a rejected action. It is a normal outcome, not a fault:
// the board is untouched whenever one is returned.
type RuleError struct {
	Code    Code
	Message string
}

func (e *RuleError) Error() string { return e.Message }

func ruleErr(code Code, msg string) *RuleError {
	return &RuleError{Code: code, Message: msg}
}
