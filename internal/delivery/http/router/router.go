package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/scrapeflow/internal/delivery/http/handler"
	"github.com/user/scrapeflow/internal/delivery/http/middleware"
)

func New(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HandleHealthCheck)
	mux.HandleFunc("POST /api/pipeline", h.HandleRunPipeline)
	mux.HandleFunc("GET /api/quota", h.HandleQuotaStatus)
	mux.HandleFunc("GET /api/runs", h.HandleRecentRuns)
	mux.HandleFunc("POST /api/export", h.HandleExport)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Apply middlewares
	var chainedHandler http.Handler = mux
	chainedHandler = middleware.Metrics(chainedHandler)
	chainedHandler = middleware.Logging(chainedHandler)

	return chainedHandler
}
