package handlers

import (
	"net/http"

	"github.com/HaBsawy/creiden-task/internal/http/response"
	"github.com/HaBsawy/creiden-task/internal/service"
)

// AdminHandler is the admin-only user management surface.
type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.users.List(r.Context(), pageRequest(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, withLinks(r, page))
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Create(r.Context(), readInput(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, createdMsg("user"), user)
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, user)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.users.Update(r.Context(), id, readInput(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Accepted(w, updatedMsg("user"), user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.Accepted(w, deletedMsg("user"), nil)
}
