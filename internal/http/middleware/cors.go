package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
	"github.com/lcdc-construction/projects-api/internal/config"
	"go.uber.org/zap"
)

// CORS builds the cross-origin policy for the portal frontends. Origins come
// from configuration; with no origins set, development allows everything and
// production denies everything.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	allowAny := func(r *http.Request, origin string) bool { return origin != "" }
	isDev := environment == "development" || environment == "local"

	switch {
	case slices.Contains(cfg.AllowedOrigins, "*"):
		if !isDev {
			logger.Warn("CORS configured with wildcard origin outside development",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = allowAny

	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins",
			zap.Strings("origins", cfg.AllowedOrigins))

	case isDev || environment == "":
		options.AllowOriginFunc = allowAny
		logger.Info("CORS allowing all origins in development mode")

	default:
		// An empty AllowedOrigins list would default to "*" inside the cors
		// package, so denial has to go through AllowOriginFunc.
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("CORS has no allowed origins; all cross-origin requests will be denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}
