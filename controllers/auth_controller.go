package controllers

import (
	"net/http"

	"amora_server/apperrors"
	"amora_server/middleware"
	"amora_server/services"
)

// AuthController handles registration, login, and account updates.
type AuthController struct {
	Accounts *services.AccountService
}

func NewAuthController(accounts *services.AccountService) *AuthController {
	return &AuthController{Accounts: accounts}
}

// HandleRegister creates an account plus its matching profile and returns a
// session token.
func (c *AuthController) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := c.Accounts.Register(r.Context(), req)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// HandleLogin authenticates and returns a session token.
func (c *AuthController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := c.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdateProfile applies a partial account update for the caller.
func (c *AuthController) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		apperrors.Write(w, apperrors.Unauthorized("NO_TOKEN", "not authenticated"))
		return
	}

	var req services.UpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	account, err := c.Accounts.Update(r.Context(), userID, req)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": account})
}
