package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/domain"
)

// CredentialsRequest is the request body for POST /auth/signup and POST /auth/signin
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (c CredentialsRequest) Validate() []string {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return []string{"Email and password are required"}
	}
	return nil
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthResponse is the response body for signup and signin.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// MeResponse is the response body for GET /auth/me
type MeResponse struct {
	User UserResponse `json:"user"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// SignUp godoc
// @Summary Sign up a new user
// @Description Create an account and return a session token. The email is stored trimmed and lower-cased.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body CredentialsRequest true "Sign-up data"
// @Success 201 {object} controllers.AuthResponse
// @Failure 400 {object} helpers.ErrorResponse "missing fields or user already exists"
// @Failure 429 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, c.Logger, err, failure{internal: "Signup failed"})
		return
	}
	h.WriteJSON(w, http.StatusCreated, AuthResponse{
		User:  UserResponse{ID: user.ID, Email: user.Email},
		Token: token,
	})
}

// SignIn godoc
// @Summary Sign in
// @Description Authenticate with email and password. Returns a JWT carrying the user id and email.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body CredentialsRequest true "Login credentials"
// @Success 200 {object} controllers.AuthResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse "Invalid credentials"
// @Failure 429 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /auth/signin [post]
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, c.Logger, err, failure{internal: "Signin failed"})
		return
	}
	h.WriteJSON(w, http.StatusOK, AuthResponse{
		User:  UserResponse{ID: user.ID, Email: user.Email},
		Token: token,
	})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MeResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	h.WriteJSON(w, http.StatusOK, MeResponse{User: UserResponse{ID: id.ID, Email: id.Email}})
}

// SignOut godoc
// @Summary Sign out
// @Description Tokens are stateless; the client discards its token.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.MessageResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /auth/signout [post]
func (c *AuthController) SignOut(w http.ResponseWriter, r *http.Request) {
	h.WriteMessage(w, http.StatusOK, "Signed out successfully")
}
