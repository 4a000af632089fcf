package handler

import (
	"net/http"

	"medtrack/internal/delivery/http/render"
)

type PagesHandler struct {
	renderer *render.Renderer
}

func NewPagesHandler(renderer *render.Renderer) *PagesHandler {
	return &PagesHandler{renderer: renderer}
}

func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, r, http.StatusOK, "index.html", nil)
}

func (h *PagesHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, r, http.StatusNotFound, "404.html", nil)
}
