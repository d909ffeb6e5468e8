package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	internal "github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/transport"
)

type ServiceAPI interface {
	CheckIn(ctx context.Context, actor *access.Identity, dto CheckInDTO) (*Record, error)
	CheckOut(ctx context.Context, actor *access.Identity, dto CheckOutDTO) (*Record, error)
	List(ctx context.Context, actor *access.Identity, filter ListFilter) (*RecordsResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (*access.Identity, bool) {
	identity, ok := access.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrAuthenticationRequired)
		return nil, false
	}
	return identity, true
}

func (h *Handler) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		h.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyCheckedIn),
		errors.Is(err, ErrNotCheckedIn),
		errors.Is(err, ErrAlreadyCheckedOut):
		h.WriteError(w, http.StatusConflict, err.Error())
	default:
		h.HandleServiceError(w, err)
	}
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto CheckInDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.Service.CheckIn(r.Context(), identity, dto)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto CheckOutDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.Service.CheckOut(r.Context(), identity, dto)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	resp, err := h.Service.List(r.Context(), identity, listFilterFromQuery(r))
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func listFilterFromQuery(r *http.Request) ListFilter {
	filter := ListFilter{Limit: 20}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			filter.Limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filter.Offset = o
		}
	}
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		if t, err := time.Parse("2006-01-02", fromStr); err == nil {
			filter.From = t
		}
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		if t, err := time.Parse("2006-01-02", toStr); err == nil {
			filter.To = t
		}
	}

	return filter
}
