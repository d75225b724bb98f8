package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/zidan444/blog-app/app/auth"
	"github.com/zidan444/blog-app/app/middleware"
	"github.com/zidan444/blog-app/app/repositories"
	"github.com/zidan444/blog-app/app/services"

	"github.com/gorilla/mux"
)

// Templates maps a page name to its parsed layout set.
type Templates map[string]*template.Template

var pages = map[string][]string{
	"index":  {"posts/index.html"},
	"show":   {"posts/show.html", "shared/comments.html"},
	"new":    {"posts/new.html"},
	"edit":   {"posts/edit.html"},
	"signup": {"auth/signup.html"},
	"login":  {"auth/login.html"},
}

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"join":       strings.Join,
}

// LoadTemplates parses every page against layout.html from fsys
func LoadTemplates(fsys fs.FS) (Templates, error) {
	templates := make(Templates, len(pages))
	for name, files := range pages {
		patterns := append([]string{"layout.html"}, files...)
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(fsys, patterns...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// viewContext is embedded in every page's data.
type viewContext struct {
	CurrentUser *auth.Identity
}

func newViewContext(r *http.Request) viewContext {
	if id, ok := auth.FromContext(r.Context()); ok {
		return viewContext{CurrentUser: &id}
	}
	return viewContext{}
}

// responder holds what every controller needs to write responses.
type responder struct {
	templates Templates
	logger    *slog.Logger
}

func (rs responder) render(w http.ResponseWriter, r *http.Request, name string, status int, data interface{}) {
	tmpl, ok := rs.templates[name]
	if !ok {
		rs.serverError(w, r, fmt.Errorf("template %q not loaded", name))
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		rs.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (rs responder) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (rs responder) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if middleware.WantsJSON(r) {
		rs.sendJSON(w, status, map[string]string{"error": message})
		return
	}
	http.Error(w, message, status)
}

func (rs responder) serverError(w http.ResponseWriter, r *http.Request, err error) {
	rs.logger.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	rs.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
}

// respondError maps service and repository errors onto HTTP statuses.
func (rs responder) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		rs.sendError(w, r, "Post not found", http.StatusNotFound)
	case errors.Is(err, services.ErrNotAuthorized):
		rs.sendError(w, r, "You are not allowed to do that", http.StatusForbidden)
	case errors.As(err, &verr):
		rs.sendError(w, r, verr.Message, http.StatusUnprocessableEntity)
	default:
		rs.serverError(w, r, err)
	}
}

func (rs responder) redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// postID parses the {id} route variable. Unparseable values are reported as
// not found since no post can have them.
func postID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, repositories.ErrNotFound
	}
	return id, nil
}

func currentUserID(r *http.Request) int {
	id, _ := auth.FromContext(r.Context())
	return id.UserID
}
