package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/metrics"
	"github.com/hightower888/kennymint-intelligence-sub005/internal/service"
	"go.uber.org/zap"
)

func newRouter(logger *zap.Logger, svc *service.Service, sampler *metrics.Sampler) http.Handler {
	h := &handler{
		svc:     svc,
		metrics: sampler,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(zapRequestLogger(logger))

	r.Get("/health", h.handleHealth)

	r.Route("/members", func(r chi.Router) {
		r.Post("/", h.handleMemberAdd)
		r.Get("/", h.handleMemberList)
		r.Get("/{id}", h.handleMemberGet)
		r.Delete("/{id}", h.handleMemberRemove)
		r.Post("/{id}/workload", h.handleMemberWorkload)
		r.Post("/{id}/availability", h.handleMemberAvailability)
	})

	r.Route("/conflicts", func(r chi.Router) {
		r.Post("/detect", h.handleConflictDetect)
		r.Post("/priority", h.handleConflictPriority)
		r.Get("/", h.handleConflictList)
		r.Get("/{id}", h.handleConflictGet)
		r.Post("/{id}/status", h.handleConflictTransition)
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Post("/", h.handleReviewAssign)
		r.Get("/{id}", h.handleReviewGet)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", h.handleTaskCoordinate)
		r.Get("/{id}", h.handleTaskGet)
		r.Post("/{id}/status", h.handleTaskTransition)
	})

	r.Route("/knowledge", func(r chi.Router) {
		r.Post("/analyze", h.handleKnowledgeAnalyze)
		r.Get("/transfers", h.handleTransferList)
	})

	r.Get("/metrics/history", h.handleMetricsHistory)

	return r
}

func zapRequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info(
				"http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
