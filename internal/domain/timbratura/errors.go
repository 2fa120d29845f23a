package timbratura

import "errors"

// Every rejection names the violated invariant so UIs can render an
// actionable message instead of a generic failure.
var (
	// Punch state machine errors
	ErrAlreadyClockedIn    = errors.New("already clocked in today")
	ErrNotClockedIn        = errors.New("not clocked in today")
	ErrAlreadyClockedOut   = errors.New("already clocked out today")
	ErrBreakAlreadyOpen    = errors.New("a break is already in progress")
	ErrBreakNotOpen        = errors.New("no break in progress")
	ErrBreakAlreadyTaken   = errors.New("today's break has already been recorded")
	ErrBreakEndNotAfter    = errors.New("break end must be after break start")
	ErrUscitaBeforeEntrata = errors.New("clock-out must be after clock-in")

	// Concurrency
	ErrOpenRecordConflict = errors.New("another punch for today is already in progress")

	// General errors
	ErrTimbraturaNotFound = errors.New("attendance record not found")
	ErrOwnRecord          = errors.New("cannot approve your own attendance record")
	ErrAlreadyApproved    = errors.New("attendance record has already been approved")
	ErrNotCompleted       = errors.New("attendance record is not completed yet")
)
