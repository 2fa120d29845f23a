package response

import (
	"errors"
	"net/http"

	"github.com/presenzelab/presenze-backend-go/internal/domain/approval"
	"github.com/presenzelab/presenze-backend-go/internal/domain/punchtoken"
	"github.com/presenzelab/presenze-backend-go/internal/domain/timbratura"
	"github.com/presenzelab/presenze-backend-go/internal/domain/user"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/identity"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Business-rule
// rejections keep their own message so UIs can show the violated
// invariant; anything unrecognized is an infrastructure failure.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Punch state machine: invalid transitions
	case errors.Is(err, timbratura.ErrAlreadyClockedIn),
		errors.Is(err, timbratura.ErrNotClockedIn),
		errors.Is(err, timbratura.ErrAlreadyClockedOut),
		errors.Is(err, timbratura.ErrBreakAlreadyOpen),
		errors.Is(err, timbratura.ErrBreakNotOpen),
		errors.Is(err, timbratura.ErrBreakAlreadyTaken),
		errors.Is(err, timbratura.ErrAlreadyApproved),
		errors.Is(err, timbratura.ErrNotCompleted):
		Conflict(w, err.Error())

	case errors.Is(err, timbratura.ErrBreakEndNotAfter),
		errors.Is(err, timbratura.ErrUscitaBeforeEntrata):
		ValidationError(w, map[string]string{"time": err.Error()})

	case errors.Is(err, timbratura.ErrOpenRecordConflict):
		Conflict(w, err.Error())

	case errors.Is(err, timbratura.ErrTimbraturaNotFound):
		NotFound(w, err.Error())

	case errors.Is(err, timbratura.ErrOwnRecord):
		Forbidden(w, err.Error())

	// Punch tokens
	case errors.Is(err, punchtoken.ErrTokenNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, punchtoken.ErrTokenExpired):
		Gone(w, err.Error())
	case errors.Is(err, punchtoken.ErrTokenAlreadyUsed):
		Conflict(w, err.Error())

	// Approval workflow
	case errors.Is(err, approval.ErrRequestNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, approval.ErrAlreadyDecided),
		errors.Is(err, approval.ErrDecisionConflict):
		Conflict(w, err.Error())
	case errors.Is(err, approval.ErrNotApprover),
		errors.Is(err, approval.ErrCannotSubmit),
		errors.Is(err, approval.ErrOwnRequest):
		Forbidden(w, err.Error())

	// Roles and identity
	case errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, identity.ErrMissingClaims):
		Unauthorized(w, err.Error())

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
