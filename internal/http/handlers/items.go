package handlers

import (
	"errors"
	"net/http"

	"github.com/HaBsawy/creiden-task/internal/apperr"
	"github.com/HaBsawy/creiden-task/internal/http/response"
	"github.com/HaBsawy/creiden-task/internal/security"
	"github.com/HaBsawy/creiden-task/internal/service"
)

type ItemHandler struct {
	items *service.ItemService
}

func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.items.List(r.Context(), pageRequest(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, withLinks(r, page))
}

// Create serves both the admin route and the user route. The principal
// decides whether storage_id is taken from the body or from the caller.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := security.PrincipalFrom(r.Context())
	if !ok {
		response.Error(w, r, apperr.Unauthenticated(errors.New("no principal in context")))
		return
	}
	item, err := h.items.Create(r.Context(), principal, readInput(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, createdMsg("item"), item)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.items.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.items.Update(r.Context(), id, readInput(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Accepted(w, updatedMsg("item"), item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.items.Delete(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.Accepted(w, deletedMsg("item"), nil)
}
