package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptlab/promptlab/internal/models"
	"github.com/promptlab/promptlab/internal/prompt"
)

type PromptHandler struct {
	svc *prompt.Service
}

func NewPromptHandler(svc *prompt.Service) *PromptHandler {
	return &PromptHandler{svc: svc}
}

func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req prompt.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.svc.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, prompt.ErrCollectionNotFound):
			writeError(w, http.StatusBadRequest, "Collection not found")
		case errors.Is(err, prompt.ErrDuplicateTitle):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, models.ErrTitleRequired),
			errors.Is(err, models.ErrContentRequired),
			errors.Is(err, models.ErrDescriptionLen):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	collectionID := r.URL.Query().Get("collection_id")
	search := r.URL.Query().Get("search")

	prompts, err := h.svc.List(r.Context(), collectionID, search)
	if err != nil {
		if errors.Is(err, prompt.ErrCollectionNotFound) {
			writeError(w, http.StatusBadRequest, "Collection not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"prompts": prompts, "total": len(prompts)})
}

func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := models.ValidatePromptID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, prompt.ErrPromptNotFound) {
			writeError(w, http.StatusNotFound, "Prompt not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *PromptHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req prompt.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeUpdateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PromptHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var req prompt.PatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.svc.Patch(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeUpdateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PromptHandler) writeUpdateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, prompt.ErrPromptNotFound):
		writeError(w, http.StatusNotFound, "Prompt not found")
	case errors.Is(err, prompt.ErrCollectionNotFound):
		writeError(w, http.StatusBadRequest, "Collection not found")
	case errors.Is(err, models.ErrTitleRequired),
		errors.Is(err, models.ErrContentRequired),
		errors.Is(err, models.ErrDescriptionLen):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, prompt.ErrPromptNotFound) {
			writeError(w, http.StatusNotFound, "Prompt not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type renderRequest struct {
	Variables map[string]string `json:"variables"`
}

func (h *PromptHandler) Render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.RenderPrompt(r.Context(), chi.URLParam(r, "id"), req.Variables)
	if err != nil {
		if errors.Is(err, prompt.ErrPromptNotFound) {
			writeError(w, http.StatusNotFound, "Prompt not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}
