package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Totarae/EasyLink/internal/apperrors"
	"github.com/Totarae/EasyLink/internal/model"
	"github.com/Totarae/EasyLink/internal/util"
)

const (
	maxLinkNameLen     = 200
	maxCategoryNameLen = 100
)

// ListLinks обрабатывает GET /api/links.
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	filters, err := parseLinkFilters(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	links, err := h.Links.List(r.Context(), filters)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, links)
}

// GetLink обрабатывает GET /api/links/{id}.
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	link, err := h.Links.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, link)
}

// CreateLink обрабатывает POST /api/links.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req model.CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.NewValidation("invalid JSON body"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validateLinkName(req.Name); err != nil {
		h.writeError(w, err)
		return
	}
	if err := validateLinkURL(req.URL); err != nil {
		h.writeError(w, err)
		return
	}
	// Неположительный categoryId приравнивается к отсутствию категории.
	if req.CategoryID != nil && *req.CategoryID <= 0 {
		req.CategoryID = nil
	}

	link, err := h.Links.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusCreated, link)
}

// UpdateLink обрабатывает PUT /api/links/{id}. Обновление частичное:
// применяются только ключи, присутствовавшие в теле запроса.
func (h *Handler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	req, err := parseUpdateLink(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if req.Empty() {
		// Нечего менять: возвращаем текущее состояние.
		link, err := h.Links.Get(r.Context(), id)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeData(w, http.StatusOK, link)
		return
	}

	link, err := h.Links.Update(r.Context(), id, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, link)
}

// DeleteLink обрабатывает DELETE /api/links/{id}.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.Links.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeMessage(w, "link deleted")
}

func validateLinkName(name string) error {
	if name == "" {
		return apperrors.NewValidation("name is required")
	}
	if len([]rune(name)) > maxLinkNameLen {
		return apperrors.NewValidation("name is too long")
	}
	return nil
}

func validateLinkURL(raw string) error {
	if raw == "" {
		return apperrors.NewValidation("url is required")
	}
	if !util.IsAbsoluteURL(raw) {
		return apperrors.NewValidation("url is invalid")
	}
	return nil
}

func parseLinkFilters(r *http.Request) (*model.LinkFilters, error) {
	q := r.URL.Query()
	filters := &model.LinkFilters{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
	}

	if raw := q.Get("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperrors.NewValidation("categoryId must be an integer")
		}
		filters.CategoryID = &id
	}
	if raw := q.Get("favorite"); raw != "" {
		fav := raw == "true"
		filters.Favorite = &fav
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, apperrors.NewValidation("page must be a positive integer")
		}
		filters.Page = page
	}
	if raw := q.Get("perPage"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 {
			return nil, apperrors.NewValidation("perPage must be a positive integer")
		}
		filters.PerPage = perPage
	}

	return filters, nil
}

// parseUpdateLink различает отсутствующие ключи и явный null:
// "categoryId": null снимает категорию, отсутствие ключа её не трогает.
func parseUpdateLink(r *http.Request) (*model.UpdateLinkRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, apperrors.NewValidation("invalid JSON body")
	}

	req := &model.UpdateLinkRequest{}

	if v, ok := raw["name"]; ok {
		var name string
		if err := json.Unmarshal(v, &name); err != nil {
			return nil, apperrors.NewValidation("name must be a string")
		}
		name = strings.TrimSpace(name)
		if err := validateLinkName(name); err != nil {
			return nil, err
		}
		req.Name = &name
	}
	if v, ok := raw["url"]; ok {
		var u string
		if err := json.Unmarshal(v, &u); err != nil {
			return nil, apperrors.NewValidation("url must be a string")
		}
		if err := validateLinkURL(u); err != nil {
			return nil, err
		}
		req.URL = &u
	}
	if v, ok := raw["categoryId"]; ok {
		req.CategorySet = true
		if string(v) != "null" {
			var id int64
			if err := json.Unmarshal(v, &id); err != nil {
				return nil, apperrors.NewValidation("categoryId must be an integer or null")
			}
			if id > 0 {
				req.CategoryID = &id
			}
		}
	}
	if v, ok := raw["favorite"]; ok {
		var fav bool
		if err := json.Unmarshal(v, &fav); err != nil {
			return nil, apperrors.NewValidation("favorite must be a boolean")
		}
		req.Favorite = &fav
	}

	return req, nil
}
