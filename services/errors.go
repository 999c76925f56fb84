package services

import "errors"

// Session-level usage errors. These are caller mistakes, reported
// immediately with no retry; pairing failures propagate from the pairing
// package unchanged, and commit failures from the repositories package.
var (
	ErrAlreadyStarted     = errors.New("tournament has already started")
	ErrNotStarted         = errors.New("tournament has not been started")
	ErrRoundInProgress    = errors.New("a round is already in progress")
	ErrRoundNotInProgress = errors.New("no round is currently in progress")
	ErrNoRoundsRemaining  = errors.New("all configured rounds have been played")
	ErrTournamentFinished = errors.New("tournament has already been committed")

	ErrUnexpectedPair  = errors.New("reported pair is not part of the current round")
	ErrDuplicateReport = errors.New("result for this pairing has already been reported")
	ErrNoByeExpected   = errors.New("current round has no bye for this player")

	ErrTournamentIncomplete = errors.New("tournament still has unplayed rounds")

	ErrSessionNotFound = errors.New("tournament session not found")
)
