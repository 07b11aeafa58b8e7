package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptlab/promptlab/internal/prompt"
	"github.com/promptlab/promptlab/internal/version"
)

// VersionHandler exposes the versioning operations of the lifecycle
// coordinator: create version, list history, revert, diff.
type VersionHandler struct {
	svc *prompt.Service
}

func NewVersionHandler(svc *prompt.Service) *VersionHandler {
	return &VersionHandler{svc: svc}
}

// writeScopeError maps resolution failures shared by every versioning
// endpoint: on these routes a missing collection is a 404, unlike the prompt
// CRUD routes where a bad collection reference is a 400.
func writeScopeError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, prompt.ErrCollectionNotFound):
		writeError(w, http.StatusNotFound, "Collection not found")
	case errors.Is(err, prompt.ErrPromptNotFound):
		writeError(w, http.StatusNotFound, "Prompt not found")
	case errors.Is(err, version.ErrVersionNotFound):
		writeError(w, http.StatusNotFound, "Version not found")
	default:
		return false
	}
	return true
}

type createVersionRequest struct {
	UpdatedContent *string `json:"updated_content"`
	ChangesSummary string  `json:"changes_summary"`
}

func (h *VersionHandler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	var req createVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UpdatedContent == nil {
		writeError(w, http.StatusUnprocessableEntity, "updated_content is required")
		return
	}

	ref, err := h.svc.CreateVersion(r.Context(),
		chi.URLParam(r, "cid"), chi.URLParam(r, "pid"), *req.UpdatedContent, req.ChangesSummary)
	if err != nil {
		if writeScopeError(w, err) {
			return
		}
		if errors.Is(err, prompt.ErrNoContentChange) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, ref)
}

func (h *VersionHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.svc.ListVersions(r.Context(), chi.URLParam(r, "cid"), chi.URLParam(r, "pid"))
	if err != nil {
		if writeScopeError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

type revertRequest struct {
	TargetVersionID *string `json:"target_version_id"`
}

func (h *VersionHandler) Revert(w http.ResponseWriter, r *http.Request) {
	var req revertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TargetVersionID == nil || *req.TargetVersionID == "" {
		writeError(w, http.StatusUnprocessableEntity, "target_version_id is required")
		return
	}

	res, err := h.svc.RevertToVersion(r.Context(),
		chi.URLParam(r, "cid"), chi.URLParam(r, "pid"), *req.TargetVersionID)
	if err != nil {
		if writeScopeError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if res.NoChange {
		writeJSON(w, http.StatusOK, map[string]string{
			"detail": "Target version is the current version; no changes made.",
		})
		return
	}
	writeJSON(w, http.StatusOK, res.Version)
}

func (h *VersionHandler) DiffVersions(w http.ResponseWriter, r *http.Request) {
	first := r.URL.Query().Get("first_version_id")
	second := r.URL.Query().Get("second_version_id")
	if first == "" || second == "" {
		writeError(w, http.StatusUnprocessableEntity, "first_version_id and second_version_id are required")
		return
	}

	diffs, err := h.svc.DiffVersions(r.Context(),
		chi.URLParam(r, "cid"), chi.URLParam(r, "pid"), first, second)
	if err != nil {
		if writeScopeError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"differences": diffs})
}
