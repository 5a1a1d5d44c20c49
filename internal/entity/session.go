package entity

// Score holds per-mark win counters. It survives round resets and is
// discarded with the session.
type Score struct {
	X int `json:"x"`
	O int `json:"o"`
}

// Increment - bumps the counter of the winning mark.
func (that *Score) Increment(mark Mark) {
	switch mark {
	case PlayerX:
		that.X++
	case PlayerO:
		that.O++
	}
}

// Reset - zeroes both counters.
func (that *Score) Reset() {
	that.X = 0
	that.O = 0
}

// Session is one browser session: the current round plus the accumulated
// score. It is the unit of storage in the session repository.
type Session struct {
	ID    string `json:"id"`
	Round *Round `json:"round"`
	Score Score  `json:"score"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:    id,
		Round: NewRound(),
	}
}

// Snapshot is the render-ready copy of engine state handed to transports.
// Mutating a snapshot never affects the session it was taken from.
type Snapshot struct {
	Board  Board  `json:"board"`
	Turn   Mark   `json:"turn,omitempty"`
	Status string `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
	Line   []int  `json:"winning_line,omitempty"`
	Score  Score  `json:"score"`
}
