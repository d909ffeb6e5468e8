package access

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal"
)

// Guard adapts the composite checker to chi middleware. Routes behind a
// guard can assume both gates already passed for the named capability.
type Guard struct {
	checker *Checker
	logger  *slog.Logger
}

func NewGuard(checker *Checker, logger *slog.Logger) *Guard {
	return &Guard{checker: checker, logger: logger}
}

// RequestCache arms the per-request organization snapshot cache so several
// capability checks within one request share a single plan read. Install it
// once on the authenticated route group.
func RequestCache() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithRequestCache(r.Context())))
		})
	}
}

func (g *Guard) RequireFeature(module, feature string) func(http.Handler) http.Handler {
	return g.require(func(r *http.Request, id *Identity) (Decision, error) {
		return g.checker.CheckAccess(r.Context(), id, module, feature)
	})
}

func (g *Guard) RequireAnyFeature(pairs ...FeaturePair) func(http.Handler) http.Handler {
	return g.require(func(r *http.Request, id *Identity) (Decision, error) {
		return g.checker.CheckAnyAccess(r.Context(), id, pairs)
	})
}

func (g *Guard) RequireAllFeatures(pairs ...FeaturePair) func(http.Handler) http.Handler {
	return g.require(func(r *http.Request, id *Identity) (Decision, error) {
		return g.checker.CheckAllAccess(r.Context(), id, pairs)
	})
}

func (g *Guard) RequireModule(module string) func(http.Handler) http.Handler {
	return g.require(func(r *http.Request, id *Identity) (Decision, error) {
		return g.checker.CheckModuleAccess(r.Context(), id, module)
	})
}

func (g *Guard) require(check func(*http.Request, *Identity) (Decision, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				g.logger.Warn("access guard: no identity in context", "path", r.URL.Path)
				writeAppError(w, internal.ErrAuthenticationRequired)
				return
			}

			dec, err := check(r, id)
			if err != nil {
				g.logger.ErrorContext(r.Context(), "access guard: check failed",
					"user_id", id.UserID,
					"path", r.URL.Path,
					"error", err)
				writeError(w, err)
				return
			}
			if !dec.Allowed {
				g.logger.WarnContext(r.Context(), "access denied",
					"user_id", id.UserID,
					"role", id.RoleName(),
					"module", dec.Module,
					"feature", dec.Feature,
					"source", string(dec.Source),
					"code", string(dec.Code))
				writeError(w, dec.Err())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		writeAppError(w, appErr)
		return
	}
	writeAppError(w, internal.NewInternalError("internal server error", err))
}

func writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
