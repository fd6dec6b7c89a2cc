package model

import "encoding/json"

// Envelope представляет единый формат ответа API: {success, data|error|message}.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// RawEnvelope — вариант конверта с отложенным разбором data,
// используется клиентом для декодирования в конкретный тип.
type RawEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}
