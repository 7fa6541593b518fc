package middleware

import (
	"fmt"
	"net/http"

	"github.com/lcdc-construction/projects-api/internal/config"
)

// hstsValue renders the Strict-Transport-Security header from config.
func hstsValue(cfg *config.SecurityConfig) string {
	v := fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
	if cfg.HSTSIncludeSubdomains {
		v += "; includeSubDomains"
	}
	if cfg.HSTSPreload {
		v += "; preload"
	}
	return v
}

// SecurityHeaders sets browser hardening headers on every response. Each
// header is driven by configuration so environments can relax them
// individually (HSTS stays off for local HTTP, for instance).
func SecurityHeaders(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := map[string]string{
				"X-Frame-Options":         cfg.FrameOptions,
				"X-XSS-Protection":        cfg.XSSProtection,
				"Content-Security-Policy": cfg.ContentSecurityPolicy,
				"Referrer-Policy":         cfg.ReferrerPolicy,
				"Permissions-Policy":      cfg.PermissionsPolicy,
			}
			for name, value := range headers {
				if value != "" {
					w.Header().Set(name, value)
				}
			}

			if cfg.ContentTypeNosniff {
				w.Header().Set("X-Content-Type-Options", "nosniff")
			}
			if cfg.EnableHSTS {
				w.Header().Set("Strict-Transport-Security", hstsValue(cfg))
			}

			// Don't advertise the server stack
			w.Header().Del("X-Powered-By")
			w.Header().Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}
