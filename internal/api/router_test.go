package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/promptlab/promptlab/internal/config"
)

func newTestHandler() http.Handler {
	cfg := &config.Config{Version: config.Version}
	// nil pool and nil redis client: in-memory store, no-op cache
	return NewRouter(nil, nil, cfg).Setup()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	h := newTestHandler()
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["status"] != "healthy" || body["version"] != config.Version {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestCollectionEndpoints(t *testing.T) {
	h := newTestHandler()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/collections", map[string]string{"name": "Writing"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	collID := decode(t, rec)["id"].(string)

	if rec := doJSON(t, h, http.MethodPost, "/api/v1/collections", map[string]string{"name": "Writing"}); rec.Code != http.StatusConflict {
		t.Errorf("duplicate name: expected 409, got %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodPost, "/api/v1/collections", map[string]string{"name": "no/slashes"}); rec.Code != http.StatusBadRequest {
		t.Errorf("bad charset: expected 400, got %d", rec.Code)
	}

	if rec := doJSON(t, h, http.MethodGet, "/api/v1/collections/"+collID, nil); rec.Code != http.StatusOK {
		t.Errorf("get: expected 200, got %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodGet, "/api/v1/collections/missing", nil); rec.Code != http.StatusNotFound {
		t.Errorf("get missing: expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/collections", nil)
	body := decode(t, rec)
	if body["total"].(float64) != 1 {
		t.Errorf("expected total 1, got %v", body["total"])
	}

	if rec := doJSON(t, h, http.MethodDelete, "/api/v1/collections/"+collID, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodDelete, "/api/v1/collections/"+collID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("delete again: expected 404, got %d", rec.Code)
	}
}

func TestPromptCRUD(t *testing.T) {
	h := newTestHandler()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/collections", map[string]string{"name": "CRUD"})
	collID := decode(t, rec)["id"].(string)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/prompts", map[string]string{
		"title": "Greeter", "content": "Hello {{name}}", "collection_id": collID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create prompt: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	promptID := decode(t, rec)["id"].(string)

	if rec := doJSON(t, h, http.MethodPost, "/api/v1/prompts", map[string]string{
		"title": "Greeter", "content": "x", "collection_id": collID,
	}); rec.Code != http.StatusConflict {
		t.Errorf("duplicate title: expected 409, got %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodPost, "/api/v1/prompts", map[string]string{
		"title": "Other", "content": "x", "collection_id": "missing",
	}); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown collection: expected 400, got %d", rec.Code)
	}

	if rec := doJSON(t, h, http.MethodGet, "/api/v1/prompts/bad%20id", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed id: expected 400, got %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodGet, "/api/v1/prompts/"+promptID, nil); rec.Code != http.StatusOK {
		t.Errorf("get: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPatch, "/api/v1/prompts/"+promptID, map[string]string{"description": "says hi"})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if decode(t, rec)["description"] != "says hi" {
		t.Error("patch did not apply description")
	}

	rec = doJSON(t, h, http.MethodPut, "/api/v1/prompts/"+promptID, map[string]string{
		"title": "Greeter v2", "content": "Hi there", "collection_id": collID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if decode(t, rec)["title"] != "Greeter v2" {
		t.Error("put did not replace title")
	}

	rec = doJSON(t, h, http.MethodPost, "/api/v1/prompts/"+promptID+"/render", map[string]interface{}{
		"variables": map[string]string{},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("render: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if decode(t, rec)["content"] != "Hi there" {
		t.Errorf("render mismatch: %s", rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/prompts?collection_id="+collID+"&search=greeter", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	if decode(t, rec)["total"].(float64) != 1 {
		t.Errorf("list: unexpected total: %s", rec.Body.String())
	}
	if rec := doJSON(t, h, http.MethodGet, "/api/v1/prompts?collection_id=missing", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("list unknown collection: expected 400, got %d", rec.Code)
	}

	if rec := doJSON(t, h, http.MethodDelete, "/api/v1/prompts/"+promptID, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodGet, "/api/v1/prompts/"+promptID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted: expected 404, got %d", rec.Code)
	}
}

func TestVersionEndpoints(t *testing.T) {
	h := newTestHandler()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/collections", map[string]string{"name": "Versioned"})
	collID := decode(t, rec)["id"].(string)
	rec = doJSON(t, h, http.MethodPost, "/api/v1/prompts", map[string]string{
		"title": "P1", "content": "Hello", "collection_id": collID,
	})
	promptID := decode(t, rec)["id"].(string)
	base := "/api/v1/collections/" + collID + "/prompts/" + promptID

	// Versions start empty.
	rec = doJSON(t, h, http.MethodGet, base+"/versions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list versions: expected 200, got %d", rec.Code)
	}
	var list []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %s (err %v)", rec.Body.String(), err)
	}

	// No content change → 400.
	rec = doJSON(t, h, http.MethodPost, base+"/version", map[string]string{
		"updated_content": "  Hello  ", "changes_summary": "noop",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("no change: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	// Missing updated_content → 422.
	rec = doJSON(t, h, http.MethodPost, base+"/version", map[string]string{"changes_summary": "x"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("missing field: expected 422, got %d", rec.Code)
	}

	// Create two versions.
	rec = doJSON(t, h, http.MethodPost, base+"/version", map[string]string{
		"updated_content": "Hello World", "changes_summary": "greet",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create version: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	v1 := decode(t, rec)
	if v1["version_number"].(float64) != 1 {
		t.Errorf("expected version_number 1, got %v", v1["version_number"])
	}
	if v1["prompt_id"] != promptID || v1["collection_id"] != collID {
		t.Errorf("unexpected identifying fields: %v", v1)
	}

	rec = doJSON(t, h, http.MethodPost, base+"/version", map[string]string{
		"updated_content": "Bye", "changes_summary": "farewell",
	})
	v2 := decode(t, rec)
	if v2["version_number"].(float64) != 2 {
		t.Errorf("expected version_number 2, got %v", v2["version_number"])
	}

	// Diff: differing and identical.
	rec = doJSON(t, h, http.MethodGet,
		base+"/versions/diff?first_version_id="+v1["version_id"].(string)+"&second_version_id="+v2["version_id"].(string), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("diff: expected 200, got %d", rec.Code)
	}
	diffs := decode(t, rec)["differences"].([]interface{})
	if len(diffs) != 1 {
		t.Errorf("expected one difference, got %v", diffs)
	}
	rec = doJSON(t, h, http.MethodGet,
		base+"/versions/diff?first_version_id="+v1["version_id"].(string)+"&second_version_id="+v1["version_id"].(string), nil)
	if d := decode(t, rec)["differences"].([]interface{}); len(d) != 0 {
		t.Errorf("self diff: expected no differences, got %v", d)
	}
	rec = doJSON(t, h, http.MethodGet,
		base+"/versions/diff?first_version_id=missing&second_version_id="+v1["version_id"].(string), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("diff missing version: expected 404, got %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, base+"/versions/diff?first_version_id=only", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("diff missing param: expected 422, got %d", rec.Code)
	}

	// Revert: missing body field → 422, unknown version → 404.
	if rec := doJSON(t, h, http.MethodPost, base+"/revert", map[string]string{}); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("revert missing field: expected 422, got %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodPost, base+"/revert", map[string]string{"target_version_id": "missing"}); rec.Code != http.StatusNotFound {
		t.Errorf("revert missing version: expected 404, got %d", rec.Code)
	}

	// Effective revert: live content is "Hello", v2 is "Bye".
	rec = doJSON(t, h, http.MethodPost, base+"/revert", map[string]string{
		"target_version_id": v2["version_id"].(string),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("revert: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	reverted := decode(t, rec)
	if reverted["version_number"].(float64) != 3 {
		t.Errorf("expected new record number 3, got %v", reverted["version_number"])
	}

	// Reverting to the same version again is a no-op with a detail body.
	rec = doJSON(t, h, http.MethodPost, base+"/revert", map[string]string{
		"target_version_id": v2["version_id"].(string),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("no-op revert: expected 200, got %d", rec.Code)
	}
	if decode(t, rec)["detail"] != "Target version is the current version; no changes made." {
		t.Errorf("unexpected no-op body: %s", rec.Body.String())
	}

	// Live content reflects the revert.
	rec = doJSON(t, h, http.MethodGet, "/api/v1/prompts/"+promptID, nil)
	if decode(t, rec)["content"] != "Bye" {
		t.Errorf("expected live content Bye, got %s", rec.Body.String())
	}

	// Scoping: version routes 404 on unknown collection or prompt.
	if rec := doJSON(t, h, http.MethodGet, "/api/v1/collections/missing/prompts/"+promptID+"/versions", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown collection: expected 404, got %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodGet, "/api/v1/collections/"+collID+"/prompts/missing/versions", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown prompt: expected 404, got %d", rec.Code)
	}
}

func TestCascadeDeleteOverHTTP(t *testing.T) {
	h := newTestHandler()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/collections", map[string]string{"name": "Doomed"})
	collID := decode(t, rec)["id"].(string)
	rec = doJSON(t, h, http.MethodPost, "/api/v1/prompts", map[string]string{
		"title": "P", "content": "c", "collection_id": collID,
	})
	promptID := decode(t, rec)["id"].(string)

	if rec := doJSON(t, h, http.MethodDelete, "/api/v1/collections/"+collID, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete collection: expected 204, got %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodGet, "/api/v1/prompts/"+promptID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("cascaded prompt: expected 404, got %d", rec.Code)
	}
}
