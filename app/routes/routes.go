package routes

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/zidan444/blog-app/app/auth"
	"github.com/zidan444/blog-app/app/config"
	"github.com/zidan444/blog-app/app/controllers"
	"github.com/zidan444/blog-app/app/middleware"
	"github.com/zidan444/blog-app/app/repositories"
	"github.com/zidan444/blog-app/app/services"
	"github.com/zidan444/blog-app/app/uploads"
	"github.com/zidan444/blog-app/app/views"

	"github.com/gorilla/mux"
)

// SetupMVCRoutes wires the store into services and controllers and returns
// the fully wrapped application handler.
func SetupMVCRoutes(store *repositories.Store, cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	templateFS := views.Templates()
	if cfg.Views.Dir != "" {
		templateFS = os.DirFS(cfg.Views.Dir)
	}
	templates, err := controllers.LoadTemplates(templateFS)
	if err != nil {
		return nil, err
	}

	var staticFS fs.FS = views.Static()
	if cfg.Static.Dir != "" {
		staticFS = os.DirFS(cfg.Static.Dir)
	}

	uploadStore, err := uploads.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to open uploads: %w", err)
	}

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, auth.TokenLifetime, store.Revocations)
	authService := services.NewAuthService(store.Users, tokens)
	postService := services.NewPostService(store.Posts, store.Users)
	commentService := services.NewCommentService(store.Posts, store.Users)

	authController := controllers.NewAuthController(authService, templates, logger, cfg.Auth.SecureCookie)
	postController := controllers.NewPostController(postService, uploadStore, templates, logger)
	commentController := controllers.NewCommentController(commentService, logger)

	metrics := middleware.NewMetrics()
	authenticator := middleware.NewAuthenticator(tokens, logger)

	router := mux.NewRouter()
	router.Use(metrics.Middleware)
	router.Use(authenticator.AttachIfPresent)

	// Assets and operational endpoints
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	router.PathPrefix(uploads.URLPrefix).Handler(uploadStore.Handler())
	router.Handle("/metrics", metrics.Handler()).Methods("GET")
	router.HandleFunc("/healthz", healthz(store)).Methods("GET")

	// Account endpoints
	router.HandleFunc("/signup", authController.SignupForm).Methods("GET")
	router.HandleFunc("/signup", authController.Signup).Methods("POST")
	router.HandleFunc("/login", authController.LoginForm).Methods("GET")
	router.HandleFunc("/login", authController.Login).Methods("POST")
	router.HandleFunc("/logout", authController.Logout).Methods("POST")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)
	api.HandleFunc("/posts", postController.Index).Methods("GET")
	api.HandleFunc("/posts/{id:[0-9]+}", postController.Show).Methods("GET")
	api.HandleFunc("/posts/{id:[0-9]+}/comments", commentController.Index).Methods("GET")

	// Post web endpoints; fixed paths are registered before /{id}
	router.HandleFunc("/", postController.Index).Methods("GET")
	router.HandleFunc("/", middleware.RequireAuth(postController.Create)).Methods("POST")
	router.HandleFunc("/new", middleware.RequireAuth(postController.New)).Methods("GET")
	router.HandleFunc("/{id:[0-9]+}", postController.Show).Methods("GET")
	router.HandleFunc("/{id:[0-9]+}", middleware.RequireAuth(postController.Update)).Methods("PUT", "PATCH")
	router.HandleFunc("/{id:[0-9]+}", middleware.RequireAuth(postController.Delete)).Methods("DELETE")
	router.HandleFunc("/{id:[0-9]+}/edit", middleware.RequireAuth(postController.Edit)).Methods("GET")
	router.HandleFunc("/{id:[0-9]+}/like", middleware.RequireAuth(postController.Like)).Methods("POST")
	router.HandleFunc("/{id:[0-9]+}/comment", middleware.RequireAuth(commentController.Create)).Methods("POST")

	var handler http.Handler = router
	handler = middleware.MethodOverride(handler)
	handler = middleware.Recoverer(logger)(handler)
	handler = middleware.Logger(logger)(handler)
	return handler, nil
}

func healthz(store *repositories.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store.DB().IsClosed() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	}
}
