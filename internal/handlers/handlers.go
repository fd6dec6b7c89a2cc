// Package handlers содержит HTTP-обработчики REST API.
// Обработчики разбирают и проверяют вход, делегируют сервисам
// и упаковывают ответ в единый конверт {success, data|error|message}.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Totarae/EasyLink/internal/apperrors"
	"github.com/Totarae/EasyLink/internal/model"
	"github.com/Totarae/EasyLink/internal/service"
)

// Handler объединяет обработчики всех маршрутов.
type Handler struct {
	Links      *service.LinkService
	Categories *service.CategoryService
	Transfer   *service.TransferService
	Logger     *zap.Logger
}

// NewHandler создаёт новый экземпляр Handler.
func NewHandler(links *service.LinkService, categories *service.CategoryService, transfer *service.TransferService, logger *zap.Logger) *Handler {
	return &Handler{Links: links, Categories: categories, Transfer: transfer, Logger: logger}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, env model.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data any) {
	h.writeJSON(w, status, model.Envelope{Success: true, Data: data})
}

func (h *Handler) writeMessage(w http.ResponseWriter, message string) {
	h.writeJSON(w, http.StatusOK, model.Envelope{Success: true, Message: message})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, message := apperrors.Handle(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, model.Envelope{Success: false, Error: message})
}

// parseID разбирает позиционный параметр идентификатора.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidation("invalid id")
	}
	return id, nil
}
