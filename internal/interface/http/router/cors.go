package router

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/xiebiao/booklibrary/internal/infrastructure/config"
	"github.com/xiebiao/booklibrary/internal/interface/http/middleware"
)

// WithCORS 按配置给handler包一层CORS
// 未启用时原样返回;允许列表为空等同于"*"
func WithCORS(cfg config.CORSConfig, h http.Handler) http.Handler {
	if !cfg.Enabled {
		return h
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}).Handler(h)
}
