package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/presenzelab/presenze-backend-go/internal/domain/approval"
	"github.com/presenzelab/presenze-backend-go/internal/handler/http/response"
)

type ApprovalHandler interface {
	SubmitFerie(w http.ResponseWriter, r *http.Request)
	SubmitGiustificazione(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetPendingRequests(w http.ResponseWriter, r *http.Request)
}

type approvalHandlerImpl struct {
	approvalService approval.ApprovalService
}

func NewApprovalHandler(approvalService approval.ApprovalService) ApprovalHandler {
	return &approvalHandlerImpl{
		approvalService: approvalService,
	}
}

// SubmitFerie implements ApprovalHandler.
func (h *approvalHandlerImpl) SubmitFerie(w http.ResponseWriter, r *http.Request) {
	var req approval.SubmitFerieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.approvalService.SubmitFerie(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

// SubmitGiustificazione implements ApprovalHandler.
func (h *approvalHandlerImpl) SubmitGiustificazione(w http.ResponseWriter, r *http.Request) {
	var req approval.SubmitGiustificazioneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.approvalService.SubmitGiustificazione(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Justification submitted", result)
}

// Decide implements ApprovalHandler.
func (h *approvalHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var req approval.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestID = chi.URLParam(r, "id")

	result, err := h.approvalService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyRequests implements ApprovalHandler.
func (h *approvalHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	result, err := h.approvalService.GetMyRequests(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetPendingRequests implements ApprovalHandler.
func (h *approvalHandlerImpl) GetPendingRequests(w http.ResponseWriter, r *http.Request) {
	result, err := h.approvalService.GetPendingRequests(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
