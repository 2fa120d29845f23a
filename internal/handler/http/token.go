package http

import (
	"net/http"

	"github.com/presenzelab/presenze-backend-go/internal/domain/punchtoken"
	"github.com/presenzelab/presenze-backend-go/internal/handler/http/response"
)

type TokenHandler interface {
	Issue(w http.ResponseWriter, r *http.Request)
	PurgeExpired(w http.ResponseWriter, r *http.Request)
}

type tokenHandlerImpl struct {
	tokenService punchtoken.TokenService
}

func NewTokenHandler(tokenService punchtoken.TokenService) TokenHandler {
	return &tokenHandlerImpl{
		tokenService: tokenService,
	}
}

// Issue implements TokenHandler. The payload is what the kiosk renders
// as a QR code.
func (h *tokenHandlerImpl) Issue(w http.ResponseWriter, r *http.Request) {
	payload, err := h.tokenService.Issue(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch token issued", payload)
}

// PurgeExpired implements TokenHandler.
func (h *tokenHandlerImpl) PurgeExpired(w http.ResponseWriter, r *http.Request) {
	purged, err := h.tokenService.PurgeExpired(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int{"purged": purged})
}
