package handlers

import (
	"net/http"

	"github.com/HaBsawy/creiden-task/internal/http/response"
	"github.com/HaBsawy/creiden-task/internal/service"
)

type StorageHandler struct {
	storages *service.StorageService
}

func NewStorageHandler(storages *service.StorageService) *StorageHandler {
	return &StorageHandler{storages: storages}
}

func (h *StorageHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.storages.List(r.Context(), pageRequest(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, withLinks(r, page))
}

func (h *StorageHandler) Create(w http.ResponseWriter, r *http.Request) {
	storage, err := h.storages.Create(r.Context(), readInput(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, createdMsg("storage"), storage)
}

func (h *StorageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	storage, err := h.storages.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, storage)
}

func (h *StorageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	storage, err := h.storages.Update(r.Context(), id, readInput(r))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Accepted(w, updatedMsg("storage"), storage)
}

func (h *StorageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.storages.Delete(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.Accepted(w, deletedMsg("storage"), nil)
}
