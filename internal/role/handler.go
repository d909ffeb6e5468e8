package role

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
	List(ctx context.Context, organizationID int64) ([]RoleResponse, error)
	Get(ctx context.Context, organizationID, id int64) (*RoleResponse, error)
	Create(ctx context.Context, organizationID int64, dto CreateRoleDTO) (*RoleResponse, error)
	Update(ctx context.Context, organizationID, id int64, dto UpdateRoleDTO) (*RoleResponse, error)
	Delete(ctx context.Context, organizationID, id int64) error
	FeatureCatalog(ctx context.Context) FeatureCatalogResponse
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

func (h *Handler) organizationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	identity, ok := access.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrAuthenticationRequired)
		return 0, false
	}
	if identity.OrganizationID <= 0 {
		h.WriteError(w, http.StatusBadRequest, "no organization in scope")
		return 0, false
	}
	return identity.OrganizationID, true
}

func (h *Handler) roleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid role id")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		h.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNameTaken), errors.Is(err, ErrRoleInUse):
		h.WriteError(w, http.StatusConflict, err.Error())
	default:
		h.HandleServiceError(w, err)
	}
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := h.organizationID(w, r)
	if !ok {
		return
	}

	roles, err := h.Service.List(r.Context(), organizationID)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RolesResponse{Roles: roles})
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := h.organizationID(w, r)
	if !ok {
		return
	}
	id, ok := h.roleID(w, r)
	if !ok {
		return
	}

	resp, err := h.Service.Get(r.Context(), organizationID, id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := h.organizationID(w, r)
	if !ok {
		return
	}

	var dto CreateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Create(r.Context(), organizationID, dto)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := h.organizationID(w, r)
	if !ok {
		return
	}
	id, ok := h.roleID(w, r)
	if !ok {
		return
	}

	var dto UpdateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Update(r.Context(), organizationID, id, dto)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := h.organizationID(w, r)
	if !ok {
		return
	}
	id, ok := h.roleID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), organizationID, id); err != nil {
		h.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FeatureCatalog serves the static capability vocabulary the role builder
// renders its permission grid from.
func (h *Handler) FeatureCatalog(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.FeatureCatalog(r.Context()))
}
