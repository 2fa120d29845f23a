package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/presenzelab/presenze-backend-go/internal/domain/timbratura"
	"github.com/presenzelab/presenze-backend-go/internal/handler/http/response"
)

type TimbraturaHandler interface {
	PunchIn(w http.ResponseWriter, r *http.Request)
	PunchBreakStart(w http.ResponseWriter, r *http.Request)
	PunchBreakEnd(w http.ResponseWriter, r *http.Request)
	PunchOut(w http.ResponseWriter, r *http.Request)
	GetMyTimbrature(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type timbraturaHandlerImpl struct {
	timbraturaService timbratura.TimbraturaService
}

func NewTimbraturaHandler(timbraturaService timbratura.TimbraturaService) TimbraturaHandler {
	return &timbraturaHandlerImpl{
		timbraturaService: timbraturaService,
	}
}

// PunchIn implements TimbraturaHandler.
func (h *timbraturaHandlerImpl) PunchIn(w http.ResponseWriter, r *http.Request) {
	var req timbratura.PunchInRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	result, err := h.timbraturaService.PunchIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in", result)
}

// PunchBreakStart implements TimbraturaHandler.
func (h *timbraturaHandlerImpl) PunchBreakStart(w http.ResponseWriter, r *http.Request) {
	result, err := h.timbraturaService.PunchBreakStart(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// PunchBreakEnd implements TimbraturaHandler.
func (h *timbraturaHandlerImpl) PunchBreakEnd(w http.ResponseWriter, r *http.Request) {
	result, err := h.timbraturaService.PunchBreakEnd(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// PunchOut implements TimbraturaHandler.
func (h *timbraturaHandlerImpl) PunchOut(w http.ResponseWriter, r *http.Request) {
	result, err := h.timbraturaService.PunchOut(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyTimbrature implements TimbraturaHandler.
func (h *timbraturaHandlerImpl) GetMyTimbrature(w http.ResponseWriter, r *http.Request) {
	filter := timbratura.ListFilter{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	result, err := h.timbraturaService.GetMyTimbrature(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements TimbraturaHandler.
func (h *timbraturaHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	result, err := h.timbraturaService.Approve(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Delete implements TimbraturaHandler.
func (h *timbraturaHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	if err := h.timbraturaService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{"id": id})
}
