package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"yatube/internal/middleware"
	"yatube/internal/paginate"
)

func pageNumber(r *http.Request) int {
	return paginate.ParseNumber(r.URL.Query().Get("page"))
}

func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	page, err := h.FeedService.Index(r.Context(), pageNumber(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "index.html", ViewData{"Page": page})
}

func (h *Handlers) GroupPosts(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	group, page, err := h.FeedService.Group(r.Context(), slug, pageNumber(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "group_list.html", ViewData{
		"Group": group,
		"Page":  page,
	})
}

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	viewer := middleware.UserFromContext(r.Context())

	profile, err := h.FeedService.Profile(r.Context(), username, viewer, pageNumber(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "profile.html", ViewData{"Profile": profile})
}

func (h *Handlers) FollowIndex(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.UserFromContext(r.Context())

	page, err := h.FeedService.Follow(r.Context(), viewer, pageNumber(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "follow.html", ViewData{"Page": page})
}

func (h *Handlers) ProfileFollow(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	err := h.FollowService.Follow(r.Context(), middleware.UserFromContext(r.Context()), username)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	http.Redirect(w, r, "/profile/"+username+"/", http.StatusFound)
}

func (h *Handlers) ProfileUnfollow(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	err := h.FollowService.Unfollow(r.Context(), middleware.UserFromContext(r.Context()), username)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	http.Redirect(w, r, "/profile/"+username+"/", http.StatusFound)
}
