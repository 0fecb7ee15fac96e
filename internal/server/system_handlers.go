package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/moatwatch/internal/database"
	"github.com/aristath/moatwatch/internal/services/analysis"
)

// SystemStatusResponse is returned by GET /api/system/status
type SystemStatusResponse struct {
	CPUPercent  float64           `json:"cpu_percent"`
	MemPercent  float64           `json:"mem_percent"`
	Goroutines  int               `json:"goroutines"`
	Uptime      string            `json:"uptime"`
	AuditDB     *database.Stats   `json:"audit_db,omitempty"`
	LastRun     *analysis.Summary `json:"last_run,omitempty"`
	NextRun     *time.Time        `json:"next_run,omitempty"`
	Subscribers int               `json:"event_subscribers"`
}

// handleSystemStatus handles GET /api/system/status
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := s.getSystemStats()

	response := SystemStatusResponse{
		CPUPercent: cpuPercent,
		MemPercent: memPercent,
		Goroutines: runtime.NumGoroutine(),
		Uptime:     time.Since(s.startedAt).Round(time.Second).String(),
	}

	if s.auditDB != nil {
		stats, err := s.auditDB.GetStats()
		if err != nil {
			s.log.Warn().Err(err).Msg("Failed to get audit database stats")
		} else {
			response.AuditDB = stats
		}
	}
	if s.analysis != nil {
		response.LastRun = s.analysis.Last()
	}
	if s.scheduler != nil {
		if next := s.scheduler.NextRun(); !next.IsZero() {
			response.NextRun = &next
		}
	}
	if s.events != nil {
		response.Subscribers = s.events.Subscribers()
	}

	s.writeJSON(w, http.StatusOK, response)
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a short interval (100ms) so the endpoint stays responsive
func (s *Server) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
