package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"primeburn/internal/engine"
	"primeburn/internal/stats"
)

// StartRequest selects the load mode for POST /start-cpu. Utilization is a
// pointer so "absent" and "0" stay distinguishable for bursty mode.
type StartRequest struct {
	Mode        string `json:"mode" binding:"required"`
	Utilization *int   `json:"utilization"`
}

// StatusResponse is the GET /status payload.
type StatusResponse struct {
	engine.Status
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// PerfReport is the GET /perf-report payload.
type PerfReport struct {
	Throughput      stats.PerfSample    `json:"throughput"`
	BurstThroughput stats.PerfSample    `json:"burst_throughput"`
	UnitDurations   stats.UnitDurations `json:"unit_durations"`
	Status          engine.Status       `json:"status"`
}

func (s *Server) handleStartCPU(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode, err := engine.ModeFromRequest(req.Mode, req.Utilization)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.ctrl.StartCPU(mode); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrUnknownMode) || errors.Is(err, engine.ErrInvalidUtilization) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, s.ctrl.Status())
}

func (s *Server) handleEndCPU(c *gin.Context) {
	if err := s.ctrl.EndCPU(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.ctrl.Status())
}

// handleCPUPerf keeps the original plain-integer wire format.
func (s *Server) handleCPUPerf(c *gin.Context) {
	c.String(http.StatusOK, "%d\n", s.collector.Sample().OpsPerSecond)
}

func (s *Server) handleBurstPerf(c *gin.Context) {
	c.String(http.StatusOK, "%d\n", s.collector.BurstSample().OpsPerSecond)
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status:        s.ctrl.Status(),
		UptimeSeconds: int64(time.Since(s.started) / time.Second),
	})
}

func (s *Server) handlePerfReport(c *gin.Context) {
	c.JSON(http.StatusOK, PerfReport{
		Throughput:      s.collector.Sample(),
		BurstThroughput: s.collector.BurstSample(),
		UnitDurations:   s.collector.Histogram().Summary(),
		Status:          s.ctrl.Status(),
	})
}
