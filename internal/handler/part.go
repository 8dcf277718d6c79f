package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/domain"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/ports"
	"github.com/isabella232/azure-intelligent-edge-patterns/internal/repository"
)

type PartHandler struct {
	Repo ports.PartStore
}

// RegisterRoutes mounts the read-only part routes.
func (h PartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/parts", h.list)
	r.Get("/parts/export", h.export)
	r.Get("/parts/{id}", h.get)
}

// RegisterAdminRoutes mounts the part write routes.
func (h PartHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/parts", h.upsert)
	r.Delete("/parts/{id}", h.delete)
}

func partResponse(p domain.Part) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"isDemo":      p.IsDemo,
		"createdAt":   p.CreatedAt,
		"updatedAt":   p.UpdatedAt,
	}
}

func parseDemoFilter(r *http.Request) (ports.PartFilter, error) {
	var filter ports.PartFilter
	raw := r.URL.Query().Get("is_demo")
	if raw == "" {
		return filter, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return filter, err
	}
	filter.IsDemo = &v
	return filter, nil
}

func (h PartHandler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseDemoFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid is_demo")
		return
	}
	items, err := h.Repo.List(r.Context(), filter)
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "list parts", err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, p := range items {
		resp = append(resp, partResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h PartHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	p, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, partResponse(*p))
}

func (h PartHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          *int64 `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	var (
		p   *domain.Part
		err error
	)
	if req.ID != nil {
		p, err = h.Repo.Update(r.Context(), *req.ID, req.Name, req.Description)
	} else {
		p, err = h.Repo.Create(r.Context(), req.Name, req.Description)
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, partResponse(*p))
}

func (h PartHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "part not found")
	case errors.Is(err, repository.ErrDemoPart), errors.Is(err, repository.ErrDuplicateName):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeErrorWithErr(w, http.StatusInternalServerError, "", err)
	}
}
