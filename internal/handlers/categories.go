package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Totarae/EasyLink/internal/apperrors"
	"github.com/Totarae/EasyLink/internal/model"
)

// ListCategories обрабатывает GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Categories.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, cats)
}

// GetCategory обрабатывает GET /api/categories/{id}.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	cat, err := h.Categories.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, cat)
}

// CreateCategory обрабатывает POST /api/categories. Повтор имени
// возвращает существующую категорию, а не ошибку.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	name, err := parseCategoryName(r.Body)
	if err != nil {
		h.writeError(w, err)
		return
	}

	cat, err := h.Categories.Create(r.Context(), name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusCreated, cat)
}

// UpdateCategory обрабатывает PUT /api/categories/{id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	name, err := parseCategoryName(r.Body)
	if err != nil {
		h.writeError(w, err)
		return
	}

	cat, err := h.Categories.Rename(r.Context(), id, name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, cat)
}

// DeleteCategory обрабатывает DELETE /api/categories/{id}.
// Тело запроса необязательно и может содержать reassignTo.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req model.DeleteCategoryRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		h.writeError(w, apperrors.NewValidation("invalid JSON body"))
		return
	}

	if err := h.Categories.Delete(r.Context(), id, req.ReassignTo); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeMessage(w, "category deleted")
}

func parseCategoryName(body io.Reader) (string, error) {
	var req model.CategoryRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return "", apperrors.NewValidation("invalid JSON body")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", apperrors.NewValidation("category name is required")
	}
	if len([]rune(name)) > maxCategoryNameLen {
		return "", apperrors.NewValidation("category name is too long")
	}
	return name, nil
}
