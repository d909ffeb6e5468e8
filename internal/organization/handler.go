package organization

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/transport"
)

type ServiceAPI interface {
	GetProfile(ctx context.Context, organizationID int64) (*OrganizationResponse, error)
	UpdateProfile(ctx context.Context, organizationID int64, dto UpdateOrganizationDTO) (*OrganizationResponse, error)
	ListPlans(ctx context.Context) ([]PlanResponse, error)
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

// resolveOrganizationID picks the tenant a profile request is about. Regular
// users always operate on their own organization; the super role may target
// any tenant via the organization_id query parameter.
func (h *Handler) resolveOrganizationID(r *http.Request) (int64, bool) {
	identity, ok := access.IdentityFromContext(r.Context())
	if !ok {
		return 0, false
	}
	if identity.IsSuperRole() {
		if raw := r.URL.Query().Get("organization_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err == nil && id > 0 {
				return id, true
			}
			return 0, false
		}
	}
	if identity.OrganizationID <= 0 {
		return 0, false
	}
	return identity.OrganizationID, true
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := h.resolveOrganizationID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "no organization in scope")
		return
	}

	profile, err := h.Service.GetProfile(r.Context(), organizationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, "organization not found")
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := h.resolveOrganizationID(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "no organization in scope")
		return
	}

	var dto UpdateOrganizationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.Service.UpdateProfile(r.Context(), organizationID, dto)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, "organization not found")
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Service.ListPlans(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"plans": plans})
}
