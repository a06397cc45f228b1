package server

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/tradedesk/internal/modules/timing"
	"github.com/aristath/tradedesk/internal/scheduler"
)

// DatabaseChecker verifies the calendar database.
type DatabaseChecker interface {
	QuickCheck(ctx context.Context) error
}

// SnapshotProvider exposes the poller state.
type SnapshotProvider interface {
	Latest() (timing.Snapshot, bool)
	LastError() error
}

// JobRunner runs a registered job outside its schedule.
type JobRunner interface {
	RunNow(job scheduler.Job) error
}

// SubscriberCounter reports active event bus subscriptions.
type SubscriberCounter interface {
	SubscriberCount() int
}

// SystemHandlers serves health and job endpoints
type SystemHandlers struct {
	db          DatabaseChecker
	snapshots   SnapshotProvider
	runner      JobRunner
	subscribers SubscriberCounter
	jobs        map[string]scheduler.Job
	startedAt   time.Time
	version     string
	log         zerolog.Logger

	// replaceable in tests
	systemStats func() (float64, float64)
}

// SystemConfig holds SystemHandlers dependencies. Nil fields are reported as absent.
type SystemConfig struct {
	DB          DatabaseChecker
	Snapshots   SnapshotProvider
	Runner      JobRunner
	Subscribers SubscriberCounter
	Jobs        []scheduler.Job
	Version     string
	Log         zerolog.Logger
}

// NewSystemHandlers creates system handlers
func NewSystemHandlers(cfg SystemConfig) *SystemHandlers {
	jobs := make(map[string]scheduler.Job, len(cfg.Jobs))
	for _, j := range cfg.Jobs {
		jobs[j.Name()] = j
	}
	h := &SystemHandlers{
		db:          cfg.DB,
		snapshots:   cfg.Snapshots,
		runner:      cfg.Runner,
		subscribers: cfg.Subscribers,
		jobs:        jobs,
		startedAt:   time.Now(),
		version:     cfg.Version,
		log:         cfg.Log.With().Str("handler", "system").Logger(),
	}
	h.systemStats = h.getSystemStats
	return h
}

// HandleHealth handles GET /health
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": h.version,
		"service": "tradedesk",
	})
}

// HandleSystemStatus handles GET /api/health
// Reports the calendar database, the poller and process CPU/RAM. A failed database
// check or a poller without any snapshot answers 503.
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK

	database := "ok"
	if h.db != nil {
		if err := h.db.QuickCheck(r.Context()); err != nil {
			h.log.Error().Err(err).Msg("Calendar database check failed")
			database = err.Error()
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
	}

	timingState := map[string]interface{}{"state": "disabled"}
	if h.snapshots != nil {
		snap, ok := h.snapshots.Latest()
		lastErr := h.snapshots.LastError()
		switch {
		case !ok:
			timingState["state"] = "unavailable"
			status, code = "unhealthy", http.StatusServiceUnavailable
		case lastErr != nil:
			timingState["state"] = "stale"
			timingState["generated_at"] = snap.GeneratedAt.Format(time.RFC3339)
			if status == "healthy" {
				status = "degraded"
			}
		default:
			timingState["state"] = "ok"
			timingState["generated_at"] = snap.GeneratedAt.Format(time.RFC3339)
			timingState["session"] = snap.Status.Current
		}
		if lastErr != nil {
			timingState["error"] = lastErr.Error()
		}
	}

	cpuPercent, ramPercent := h.systemStats()

	subscribers := 0
	if h.subscribers != nil {
		subscribers = h.subscribers.SubscriberCount()
	}

	writeJSON(w, h.log, code, envelope(map[string]interface{}{
		"status":         status,
		"version":        h.version,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"database":       database,
		"timing":         timingState,
		"subscriptions":  subscribers,
		"cpu_percent":    cpuPercent,
		"ram_percent":    ramPercent,
	}))
}

// HandleJobsStatus handles GET /api/system/jobs
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.jobs))
	for name := range h.jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	writeJSON(w, h.log, http.StatusOK, envelope(map[string]interface{}{
		"jobs":  names,
		"count": len(names),
	}))
}

// HandleRunJob handles POST /api/system/jobs/{name}/run
func (h *SystemHandlers) HandleRunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	job, ok := h.jobs[name]
	if !ok || h.runner == nil {
		writeJSON(w, h.log, http.StatusNotFound, map[string]string{
			"status":  "error",
			"message": "Unknown job: " + name,
		})
		return
	}

	if err := h.runner.RunNow(job); err != nil {
		h.log.Error().Err(err).Str("job", name).Msg("Manual job run failed")
		writeJSON(w, h.log, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	h.log.Info().Str("job", name).Msg("Job triggered manually")
	writeJSON(w, h.log, http.StatusOK, map[string]string{
		"status":  "success",
		"message": name + " completed",
	})
}

// getSystemStats calculates CPU and RAM usage percentages over a short interval
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
