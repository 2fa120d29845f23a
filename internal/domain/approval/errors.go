package approval

import "errors"

var (
	ErrRequestNotFound  = errors.New("approval request not found")
	ErrAlreadyDecided   = errors.New("request has already been approved or rejected")
	ErrDecisionConflict = errors.New("request was decided by someone else first")
	ErrNotApprover      = errors.New("only managers and admins can decide requests")
	ErrCannotSubmit     = errors.New("role cannot submit requests")
	ErrOwnRequest       = errors.New("cannot decide your own request")
)
