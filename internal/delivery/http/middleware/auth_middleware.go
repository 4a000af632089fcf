package middleware

import (
	"context"
	"net/http"

	"medtrack/internal/delivery/http/render"
	"medtrack/internal/session"
	"medtrack/pkg/token"

	"github.com/google/uuid"
)

// SessionCookieName carries the signed session token.
const SessionCookieName = "medtrack_session"

type contextKey string

const identityKey contextKey = "identity"

// Identity is the per-request identity/role pair populated by the
// authentication middleware. Handlers receive it through the request context;
// there is no process-wide session state.
type Identity struct {
	UserID  uuid.UUID
	Email   string
	Role    string
	TokenID string
}

type AuthMiddleware struct {
	tokenService *token.Service
	sessions     session.Store
	renderer     *render.Renderer
}

func NewAuthMiddleware(tokenService *token.Service, sessions session.Store, renderer *render.Renderer) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		sessions:     sessions,
		renderer:     renderer,
	}
}

// Authenticate resolves the session cookie into an Identity. Requests without
// a valid, unrevoked session are redirected to the login page with a flash.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			m.redirectToLogin(w, r)
			return
		}

		claims, err := m.tokenService.Validate(cookie.Value)
		if err != nil {
			m.redirectToLogin(w, r)
			return
		}

		// Check the session has not been revoked by logout.
		valid, err := m.sessions.Exists(r.Context(), claims.UserID, claims.TokenID)
		if err != nil || !valid {
			m.redirectToLogin(w, r)
			return
		}

		identity := Identity{
			UserID:  claims.UserID,
			Email:   claims.Email,
			Role:    claims.Role,
			TokenID: claims.TokenID,
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route on the authenticated role.
func (m *AuthMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok {
				m.redirectToLogin(w, r)
				return
			}
			if identity.Role != role {
				m.renderer.Flash(w, r, "danger", "Please log in as a "+role+".")
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *AuthMiddleware) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	m.renderer.Flash(w, r, "danger", "Please log in to continue.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// GetIdentity extracts the authenticated identity from the request context.
func GetIdentity(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// WithIdentity returns a context carrying the given identity. Used by tests.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
