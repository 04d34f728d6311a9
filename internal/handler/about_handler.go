package handlers

import "net/http"

func (h *Handlers) AboutAuthor(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about_author.html", nil)
}

func (h *Handlers) AboutTech(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about_tech.html", nil)
}
