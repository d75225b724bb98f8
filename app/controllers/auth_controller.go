package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/zidan444/blog-app/app/auth"
	"github.com/zidan444/blog-app/app/repositories"
	"github.com/zidan444/blog-app/app/services"
)

// AuthController handles signup, login and logout
type AuthController struct {
	responder
	authService  *services.AuthService
	secureCookie bool
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, templates Templates, logger *slog.Logger, secureCookie bool) *AuthController {
	return &AuthController{
		responder:    responder{templates: templates, logger: logger},
		authService:  authService,
		secureCookie: secureCookie,
	}
}

type authForm struct {
	viewContext
	Username string
	Email    string
	Error    string
}

func signedIn(r *http.Request) bool {
	_, ok := auth.FromContext(r.Context())
	return ok
}

// SignupForm displays the signup page
func (ac *AuthController) SignupForm(w http.ResponseWriter, r *http.Request) {
	if signedIn(r) {
		ac.redirect(w, r, "/")
		return
	}
	ac.render(w, r, "signup", http.StatusOK, authForm{viewContext: newViewContext(r)})
}

// Signup creates an account and logs it in
func (ac *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ac.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := authForm{
		viewContext: newViewContext(r),
		Username:    r.FormValue("username"),
		Email:       r.FormValue("email"),
	}
	session, err := ac.authService.Signup(services.SignupInput{
		Username: form.Username,
		Email:    form.Email,
		Password: r.FormValue("password"),
	})

	var (
		verr *services.ValidationError
		dup  *repositories.DuplicateError
	)
	switch {
	case err == nil:
	case errors.As(err, &verr):
		form.Error = verr.Message
		ac.render(w, r, "signup", http.StatusUnprocessableEntity, form)
		return
	case errors.As(err, &dup):
		form.Error = duplicateMessage(dup.Field)
		ac.render(w, r, "signup", http.StatusConflict, form)
		return
	default:
		ac.serverError(w, r, err)
		return
	}

	auth.SetCookie(w, session.Token, session.ExpiresAt, ac.secureCookie)
	ac.redirect(w, r, "/")
}

func duplicateMessage(field string) string {
	if field == "username" {
		return "Username already taken. Try another."
	}
	return "Email already in use. Try another."
}

// LoginForm displays the login page
func (ac *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	if signedIn(r) {
		ac.redirect(w, r, "/")
		return
	}
	ac.render(w, r, "login", http.StatusOK, authForm{viewContext: newViewContext(r)})
}

// Login verifies credentials and sets the token cookie
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ac.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := authForm{viewContext: newViewContext(r), Email: r.FormValue("email")}
	session, err := ac.authService.Login(services.LoginInput{
		Email:    form.Email,
		Password: r.FormValue("password"),
	})
	if errors.Is(err, services.ErrInvalidCredentials) {
		form.Error = "Invalid email or password."
		ac.render(w, r, "login", http.StatusUnauthorized, form)
		return
	}
	if err != nil {
		ac.serverError(w, r, err)
		return
	}

	auth.SetCookie(w, session.Token, session.ExpiresAt, ac.secureCookie)
	ac.redirect(w, r, "/")
}

// Logout revokes the caller's token and clears the cookie
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := ac.authService.Logout(auth.TokenFromRequest(r)); err != nil {
		ac.logger.Error("failed to revoke token", slog.String("error", err.Error()))
	}
	auth.ClearCookie(w, ac.secureCookie)
	ac.redirect(w, r, "/login")
}
