package middleware

import (
	"net/http"

	"medtrack/internal/delivery/http/render"

	"github.com/sirupsen/logrus"
)

type RecoverMiddleware struct {
	renderer *render.Renderer
}

func NewRecoverMiddleware(renderer *render.Renderer) *RecoverMiddleware {
	return &RecoverMiddleware{renderer: renderer}
}

// Handle converts route panics into the dedicated 500 page.
func (m *RecoverMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logrus.Errorf("Panic on %s %s: %+v", r.Method, r.URL.Path, rec)
				m.renderer.HTML(w, r, http.StatusInternalServerError, "500.html", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
