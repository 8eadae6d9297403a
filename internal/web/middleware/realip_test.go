package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrustedRealIP(t *testing.T) {
	handler := TrustedRealIP([]string{"10.0.0.0/8", "192.168.1.5", "not-an-ip"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(r.RemoteAddr))
		}))

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"trusted cidr uses X-Real-IP", "10.1.2.3:5000", map[string]string{"X-Real-IP": "203.0.113.7"}, "203.0.113.7"},
		{"trusted single ip uses first XFF", "192.168.1.5:80", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, "198.51.100.1"},
		{"untrusted peer keeps address", "203.0.113.9:4000", map[string]string{"X-Real-IP": "1.2.3.4"}, "203.0.113.9:4000"},
		{"garbage header ignored", "10.0.0.1:80", map[string]string{"X-Real-IP": "nope"}, "10.0.0.1:80"},
		{"no headers", "10.0.0.1:80", nil, "10.0.0.1:80"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTrusted(t *testing.T) {
	nets := parseTrusted([]string{" 10.0.0.0/8 ", "", "::1", "bad"})
	if len(nets) != 2 {
		t.Fatalf("parseTrusted() = %d networks, want 2", len(nets))
	}
	if !isTrusted(extractIP("[::1]:443"), nets) {
		t.Error("::1 should be trusted")
	}
	if isTrusted(extractIP("11.0.0.1"), nets) {
		t.Error("11.0.0.1 should not be trusted")
	}
}
