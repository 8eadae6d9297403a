package web

import (
	"context"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/materials/internal/core"
)

// UserNameHeader carries the display name of the acting user.
const UserNameHeader = "X-User-Name"

const maxUserNameLength = 100

// WithRequestMetadata adds IP, User-Agent and acting user to context for
// the activity trail.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, clientIP(r))
	ctx = core.ContextWithUserAgent(ctx, r.Header.Get("User-Agent"))
	if name := userName(r); name != "" {
		ctx = core.ContextWithUserName(ctx, name)
	}
	return ctx
}

// requestMetadata is middleware applying WithRequestMetadata to every request.
func requestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithRequestMetadata(r.Context(), r)))
	})
}

// userName returns the trimmed X-User-Name header, cut to a sane length.
func userName(r *http.Request) string {
	name := strings.TrimSpace(r.Header.Get(UserNameHeader))
	if utf8.RuneCountInString(name) > maxUserNameLength {
		name = string([]rune(name)[:maxUserNameLength])
	}
	return name
}

// clientIP returns the host part of RemoteAddr. TrustedRealIP has already
// replaced it with the forwarded address when the peer is a trusted proxy.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
