package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Totarae/EasyLink/internal/apperrors"
	"github.com/Totarae/EasyLink/internal/model"
)

// Export обрабатывает GET /api/export.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.Transfer.Export(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, data)
}

// Import обрабатывает POST /api/import.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req model.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.NewValidation("invalid JSON body"))
		return
	}

	res, err := h.Transfer.Import(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, model.Envelope{
		Success: true,
		Data:    res,
		Message: fmt.Sprintf("import finished: %d imported, %d skipped", res.Imported, res.Skipped),
	})
}

// Clear обрабатывает DELETE /api/clear.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Transfer.Clear(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeMessage(w, "all data has been cleared")
}

// Health обрабатывает GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Transfer.Ping(r.Context()); err != nil {
		h.writeError(w, apperrors.NewInternal(err))
		return
	}
	h.writeData(w, http.StatusOK, model.HealthStatus{
		Message:   "API is up",
		Timestamp: time.Now().UTC(),
	})
}
