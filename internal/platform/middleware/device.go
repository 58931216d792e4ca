package middleware

import (
	"net"
	"net/http"

	"github.com/mssola/useragent"

	"fieldgate/pkg/requestcontext"
)

// Device enriches the request context with client IP and a parsed device
// description so audit events can record where an action came from.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				clientIP = host
			} else {
				clientIP = r.RemoteAddr
			}
		}

		rawUA := r.UserAgent()
		deviceName := ""
		if rawUA != "" {
			ua := useragent.New(rawUA)
			name, version := ua.Browser()
			deviceName = name + " " + version + " on " + ua.OS()
		}

		ctx := requestcontext.WithClientMetadata(r.Context(), clientIP, rawUA, deviceName)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
