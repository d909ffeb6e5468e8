package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	internal "github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/access"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/transport"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/pkg/logger"
)

// PlatformHeader names the client channel. Custom roles can be restricted to
// the web portal or the mobile app; requests without the header are treated
// as web.
const PlatformHeader = "X-Client-Platform"

const (
	PlatformWeb    = "web"
	PlatformMobile = "mobile"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	IdentityForUser(ctx context.Context, userID int64) (*access.Identity, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout is stateless: tokens are not persisted server-side, so the handler
// only confirms the token was valid. Clients discard the pair.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.HandleServiceError(w, internal.ErrAuthenticationRequired)
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware authenticates the request and attaches the caller's
// identity to the context. The identity is loaded from the database on every
// request so role changes and deactivation do not wait for token expiry.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, internal.ErrAuthenticationRequired)
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		identity, err := h.Service.IdentityForUser(r.Context(), claims.UserID)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		if err := checkChannel(identity, r.Header.Get(PlatformHeader)); err != nil {
			h.Logger.Warn("channel access denied",
				"user_id", identity.UserID,
				"role", identity.RoleName(),
				"platform", r.Header.Get(PlatformHeader))
			h.HandleServiceError(w, err)
			return
		}

		ctx := access.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// checkChannel enforces per-channel access flags on custom roles. Built-in
// roles carry no channel restrictions.
func checkChannel(identity *access.Identity, platform string) error {
	if identity.CustomRole == nil {
		return nil
	}
	switch platform {
	case PlatformMobile:
		if !identity.CustomRole.AllowMobileAccess {
			return internal.ErrMobileAccessDenied
		}
	default:
		if !identity.CustomRole.AllowWebAccess {
			return internal.ErrWebAccessDenied
		}
	}
	return nil
}
