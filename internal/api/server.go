package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"primeburn/internal/engine"
	"primeburn/internal/metrics"
	"primeburn/internal/stats"
)

// Server is the HTTP control and query surface over the stress controller.
// It is a thin adapter: request parsing and status codes live here, all
// semantics live in the engine.
type Server struct {
	ctrl      *engine.Controller
	collector *stats.Collector
	metrics   *metrics.Metrics
	log       zerolog.Logger
	router    *gin.Engine
	started   time.Time
}

func New(ctrl *engine.Controller, collector *stats.Collector, m *metrics.Metrics, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		ctrl:      ctrl,
		collector: collector,
		metrics:   m,
		log:       log.With().Str("component", "api").Logger(),
		started:   time.Now(),
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestMetrics())

	r.POST("/start-cpu", s.handleStartCPU)
	r.POST("/end-cpu", s.handleEndCPU)
	r.GET("/cpu-perf", s.handleCPUPerf)
	r.GET("/burst-perf", s.handleBurstPerf)
	r.GET("/status", s.handleStatus)
	r.GET("/perf-report", s.handlePerfReport)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	s.router = r
	return s
}

// Router exposes the handler for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, listen string) error {
	srv := &http.Server{Addr: listen, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info().Str("listen", listen).Msg("control api listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serve control api")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		s.metrics.HTTPRequests.WithLabelValues(path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
