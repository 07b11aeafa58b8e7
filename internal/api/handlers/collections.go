package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptlab/promptlab/internal/collection"
	"github.com/promptlab/promptlab/internal/models"
)

type CollectionHandler struct {
	svc *collection.Service
}

func NewCollectionHandler(svc *collection.Service) *CollectionHandler {
	return &CollectionHandler{svc: svc}
}

func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req collection.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.svc.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, collection.ErrDuplicateName):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, models.ErrCollectionName), errors.Is(err, models.ErrDescriptionLen):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	colls, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"collections": colls, "total": len(colls)})
}

func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Collection not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Collection not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
