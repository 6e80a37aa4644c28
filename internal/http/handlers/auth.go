package handlers

import (
	"errors"
	"net/http"

	"github.com/HaBsawy/creiden-task/internal/apperr"
	"github.com/HaBsawy/creiden-task/internal/http/response"
	"github.com/HaBsawy/creiden-task/internal/security"
	"github.com/HaBsawy/creiden-task/internal/service"
)

// AuthHandler serves register, login and logout for one realm.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	creds, err := h.auth.Register(r.Context(), readInput(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, "The "+string(h.auth.Realm())+" registered successfully", creds)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds, err := h.auth.Login(r.Context(), readInput(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Accepted(w, "Login Successfully", creds)
}

// Logout revokes only the token used for this request.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := security.PrincipalFrom(r.Context())
	if !ok {
		response.Error(w, r, apperr.Unauthenticated(errors.New("no principal in context")))
		return
	}
	if err := h.auth.Logout(r.Context(), principal); err != nil {
		response.Error(w, r, err)
		return
	}
	response.Accepted(w, "Logout Successfully", nil)
}
