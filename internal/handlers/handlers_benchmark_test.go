package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
)

// BenchmarkCreateLink измеряет стоимость полного цикла создания ссылки.
func BenchmarkCreateLink(b *testing.B) {
	ts := newTestServer(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		status, _ := do(b, ts, http.MethodPost, "/api/links", map[string]any{
			"name": "bench",
			"url":  fmt.Sprintf("https://bench.example/%d", i),
		})
		if status != http.StatusCreated {
			b.Fatalf("unexpected status %d", status)
		}
	}
}

// BenchmarkListLinks измеряет выборку списка при заполненной базе.
func BenchmarkListLinks(b *testing.B) {
	ts := newTestServer(b)
	for i := 0; i < 100; i++ {
		do(b, ts, http.MethodPost, "/api/links", map[string]any{
			"name": "seed",
			"url":  fmt.Sprintf("https://seed.example/%d", i),
		})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		status, _ := do(b, ts, http.MethodGet, "/api/links", nil)
		if status != http.StatusOK {
			b.Fatalf("unexpected status %d", status)
		}
	}
}
