package entity

const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusDraw       = "draw"
)

// WinLines - the 8 fixed winning combinations: 3 rows, 3 columns, 2 diagonals.
// Checks iterate in this order, so the lowest-indexed line is always reported
// first.
var WinLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is a 3x3 grid stored row-major: cells 0-2 are the top row.
type Board [9]Mark

// IsFull - reports whether every cell holds a mark.
func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

// Count - returns how many cells hold the given mark.
func (that Board) Count(mark Mark) int {
	var n int
	for _, cell := range that {
		if cell == mark {
			n++
		}
	}
	return n
}

// Round is one playthrough from empty board to a terminal outcome.
// Winner and Line are set only when Status is StatusWon; Turn is cleared
// once the round leaves StatusInProgress.
type Round struct {
	Board  Board  `json:"board"`
	Turn   Mark   `json:"turn,omitempty"`
	Status string `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
	Line   []int  `json:"winning_line,omitempty"`
}

// NewRound - returns a fresh round with an empty board; X always opens.
func NewRound() *Round {
	return &Round{
		Board:  Board{},
		Turn:   PlayerX,
		Status: StatusInProgress,
	}
}

func (that *Round) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that *Round) IsWon() bool {
	return that.Status == StatusWon
}

func (that *Round) IsDraw() bool {
	return that.Status == StatusDraw
}
