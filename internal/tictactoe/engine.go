package tictactoe

import (
	"fmt"

	"github.com/gridsquare/tictactoe-backend/internal/apperror"
	"github.com/gridsquare/tictactoe-backend/internal/entity"
)

// Engine owns the rules state of one session: the current round and the
// score. It is not safe for concurrent use; every session gets its own
// instance and commands run to completion one at a time.
type Engine struct {
	session *entity.Session
}

func New(session *entity.Session) *Engine {
	if session.Round == nil {
		session.Round = entity.NewRound()
	}

	return &Engine{session: session}
}

// MakeMove - places the current mover's mark in the given cell.
//
// Preconditions are checked in order: cell in range, round still in
// progress, cell empty. A violated precondition returns the matching
// sentinel error and leaves the round and score untouched.
func (that *Engine) MakeMove(cell int) (entity.Snapshot, error) {
	round := that.session.Round

	if cell < 0 || cell >= len(round.Board) {
		return that.CurrentState(), fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if !round.IsInProgress() {
		return that.CurrentState(), apperror.ErrGameFinished
	}

	if round.Board[cell] != entity.EmptyCell {
		return that.CurrentState(), fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	mark := round.Turn
	round.Board[cell] = mark

	switch line, ok := winningLine(round.Board); {
	case ok:
		round.Status = entity.StatusWon
		round.Winner = mark
		round.Line = []int{line[0], line[1], line[2]}
		round.Turn = entity.EmptyCell
		that.session.Score.Increment(mark)
	case round.Board.IsFull():
		round.Status = entity.StatusDraw
		round.Turn = entity.EmptyCell
	default:
		round.Turn = mark.Opponent()
	}

	return that.CurrentState(), nil
}

// ResetRound - discards the current round and starts a fresh one with X to
// move. The score is kept.
func (that *Engine) ResetRound() entity.Snapshot {
	that.session.Round = entity.NewRound()
	return that.CurrentState()
}

// ResetScore - zeroes both counters without touching the round in progress.
func (that *Engine) ResetScore() entity.Snapshot {
	that.session.Score.Reset()
	return that.CurrentState()
}

// CurrentState - returns a copy of the full engine state with no side
// effects.
func (that *Engine) CurrentState() entity.Snapshot {
	round := that.session.Round

	snapshot := entity.Snapshot{
		Board:  round.Board,
		Turn:   round.Turn,
		Status: round.Status,
		Winner: round.Winner,
		Score:  that.session.Score,
	}

	if round.Line != nil {
		snapshot.Line = append([]int(nil), round.Line...)
	}

	return snapshot
}

// winningLine - scans the fixed line table in enumeration order and returns
// the first fully occupied same-mark line. A single move can only ever
// complete one line, but if the board somehow holds several the lowest one
// wins.
func winningLine(board entity.Board) ([3]int, bool) {
	for _, line := range entity.WinLines {
		a := board[line[0]]
		if a != entity.EmptyCell && a == board[line[1]] && a == board[line[2]] {
			return line, true
		}
	}

	return [3]int{}, false
}
