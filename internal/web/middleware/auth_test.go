package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/materials/internal/config"
)

func TestAPIKeyAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		cfg      config.SecurityConfig
		key      string
		want     int
		wantCode string
	}{
		{"disabled", config.SecurityConfig{}, "", http.StatusOK, ""},
		{"missing", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"a"}}, "", http.StatusUnauthorized, "AUTH001"},
		{"invalid", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"a"}}, "b", http.StatusForbidden, "AUTH002"},
		{"valid", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"a", "b"}}, "b", http.StatusOK, ""},
		{"no keys configured", config.SecurityConfig{RequireAPIKey: true}, "a", http.StatusForbidden, "AUTH002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/kinds", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			rec := httptest.NewRecorder()
			APIKeyAuth(&tt.cfg)(ok).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.wantCode == "" {
				return
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["code"] != tt.wantCode {
				t.Errorf("code = %q, want %q", body["code"], tt.wantCode)
			}
		})
	}
}

func TestLogger_CapturesStatus(t *testing.T) {
	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("short"))
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if rec.Body.String() != "short" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
