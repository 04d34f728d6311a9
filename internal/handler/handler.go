package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"yatube/internal/config"
	"yatube/internal/middleware"
	"yatube/internal/service"
)

type Handlers struct {
	AuthService   service.AuthService
	FeedService   service.FeedService
	PostService   service.PostService
	FollowService service.FollowService
	GroupService  service.GroupService
	TablesService service.TablesService
	Cfg           *config.Config
	Templates     *Templates
}

func NewHandlers(service *service.Service, config *config.Config) (*Handlers, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	return &Handlers{
		AuthService:   service.Auth,
		FeedService:   service.Feed,
		PostService:   service.Post,
		FollowService: service.Follow,
		GroupService:  service.Group,
		TablesService: service.Tables,
		Cfg:           config,
		Templates:     templates,
	}, nil
}

// Routes builds the router. Session loading wraps everything, so even the
// 404 page knows who is logged in, and the request log sees the user too.
func (h *Handlers) Routes() http.Handler {
	r := mux.NewRouter()
	loginRequired := middleware.LoginRequired(h.loginURL())

	private := func(fn http.HandlerFunc) http.Handler {
		return loginRequired(fn)
	}

	// public pages
	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/group/{slug}/", h.GroupPosts).Methods(http.MethodGet)
	r.HandleFunc("/profile/{username}/", h.Profile).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id:[0-9]+}/", h.PostDetail).Methods(http.MethodGet)

	// authenticated pages
	r.Handle("/create/", private(h.PostCreate)).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/posts/{id:[0-9]+}/edit/", private(h.PostEdit)).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/posts/{id:[0-9]+}/delete/", private(h.PostDelete)).Methods(http.MethodGet)
	r.Handle("/posts/{id:[0-9]+}/comment/", private(h.AddComment)).Methods(http.MethodPost)
	r.Handle("/follow/", private(h.FollowIndex)).Methods(http.MethodGet)
	r.Handle("/profile/{username}/follow/", private(h.ProfileFollow)).Methods(http.MethodGet)
	r.Handle("/profile/{username}/unfollow/", private(h.ProfileUnfollow)).Methods(http.MethodGet)

	// accounts
	r.HandleFunc("/auth/signup/", h.Signup).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/auth/login/", h.Login).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/auth/logout/", h.Logout).Methods(http.MethodGet, http.MethodPost)

	// static pages
	r.HandleFunc("/about/author/", h.AboutAuthor).Methods(http.MethodGet)
	r.HandleFunc("/about/tech/", h.AboutTech).Methods(http.MethodGet)

	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(h.NotFound)

	return middleware.Chain(r,
		middleware.LoggingMiddleware,
		middleware.SessionMiddleware(h.AuthService),
	)
}

func (h *Handlers) loginURL() string {
	if h.Cfg == nil || h.Cfg.LoginURL == "" {
		return config.DefaultLoginURL
	}
	return h.Cfg.LoginURL
}
