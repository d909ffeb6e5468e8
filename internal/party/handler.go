package party

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	internal "github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *access.Identity, dto CreatePartyDTO) (*Party, error)
	List(ctx context.Context, actor *access.Identity, filter ListFilter) (*PartiesResponse, error)
	Get(ctx context.Context, actor *access.Identity, id int64) (*Party, error)
	Update(ctx context.Context, actor *access.Identity, id int64, dto UpdatePartyDTO) (*Party, error)
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

func (h *Handler) partyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid party id")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		h.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateName):
		h.WriteError(w, http.StatusConflict, err.Error())
	default:
		h.HandleServiceError(w, err)
	}
}

func (h *Handler) CreateParty(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto CreatePartyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.Service.Create(r.Context(), identity, dto)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) ListParties(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) GetParty(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.partyID(w, r)
	if !ok {
		return
	}

	record, err := h.Service.Get(r.Context(), identity, id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) UpdateParty(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.partyID(w, r)
	if !ok {
		return
	}

	var dto UpdatePartyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.Service.Update(r.Context(), identity, id, dto)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record)
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
	filter.PartyType = r.URL.Query().Get("party_type")
	filter.Search = r.URL.Query().Get("search")

	return filter
}
