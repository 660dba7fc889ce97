package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterOptions — настройки транспортного слоя.
type RouterOptions struct {
	Environment    string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter собирает роутер: CORS, ограничение частоты запросов и
// маршруты сервиса бронирования.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	if opts.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: opts.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	if opts.RateLimitRPS > 0 {
		r.Use(RateLimit(NewLimiterStore(opts.RateLimitRPS, opts.RateLimitBurst)))
	}

	r.GET("/", h.Health)
	r.GET("/bookings", h.List)
	r.POST("/book", h.Book)
	r.DELETE("/bookings/:id", h.Cancel)
	r.GET("/export", h.Export)

	return r
}
