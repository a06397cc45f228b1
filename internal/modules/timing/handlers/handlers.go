// Package handlers provides HTTP handlers for market timing queries.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/aristath/tradedesk/internal/events"
	"github.com/aristath/tradedesk/internal/modules/calendar"
	"github.com/aristath/tradedesk/internal/modules/timing"
)

var validate = validator.New()

// SnapshotProvider exposes the poller's last-known-good snapshot.
type SnapshotProvider interface {
	Latest() (timing.Snapshot, bool)
	LastError() error
}

// StreamRecorder tracks connected stream clients.
type StreamRecorder interface {
	StreamConnected()
	StreamDisconnected()
}

type nopStreamRecorder struct{}

func (nopStreamRecorder) StreamConnected()    {}
func (nopStreamRecorder) StreamDisconnected() {}

// Handler handles market timing HTTP requests
type Handler struct {
	service   *timing.Service
	snapshots SnapshotProvider
	bus       *events.Bus
	recorder  StreamRecorder
	origins   []string
	log       zerolog.Logger
}

// Config holds the handler dependencies. Bus and Snapshots may be nil, which
// disables the stream and snapshot endpoints.
type Config struct {
	Service        *timing.Service
	Snapshots      SnapshotProvider
	Bus            *events.Bus
	Recorder       StreamRecorder
	AllowedOrigins []string
	Log            zerolog.Logger
}

// NewHandler creates a new market timing handler
func NewHandler(cfg Config) *Handler {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopStreamRecorder{}
	}
	return &Handler{
		service:   cfg.Service,
		snapshots: cfg.Snapshots,
		bus:       cfg.Bus,
		recorder:  recorder,
		origins:   cfg.AllowedOrigins,
		log:       cfg.Log.With().Str("handler", "market_timing").Logger(),
	}
}

// HandleGetStatus handles GET /api/market-timing/status
func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.GetSessionStatus(r.URL.Query().Get("timezone"))
	if err != nil {
		h.writeError(w, err, "Failed to get session status")
		return
	}
	h.writeData(w, http.StatusOK, status)
}

// HandleGetSessions handles GET /api/market-timing/sessions
func (h *Handler) HandleGetSessions(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.GetSessions(r.URL.Query().Get("timezone"))
	if err != nil {
		h.writeError(w, err, "Failed to get sessions")
		return
	}
	h.writeData(w, http.StatusOK, board)
}

// HandleGetEvents handles GET /api/market-timing/events
func (h *Handler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	horizon := h.service.Settings().HorizonDays
	if raw := r.URL.Query().Get("horizon_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "horizon_days must be an integer", http.StatusBadRequest)
			return
		}
		horizon = parsed
	}

	list, err := h.service.GetUpcomingEvents(horizon)
	if err != nil {
		h.writeError(w, err, "Failed to get upcoming events")
		return
	}
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"horizon_days": horizon,
		"events":       list,
		"count":        len(list),
	})
}

// HandleGetAlerts handles GET /api/market-timing/alerts
func (h *Handler) HandleGetAlerts(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.GetAlerts(r.URL.Query().Get("timezone"))
	if err != nil {
		h.writeError(w, err, "Failed to get alerts")
		return
	}
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"alerts": records,
		"count":  len(records),
	})
}

// HandleGetHolidays handles GET /api/market-timing/holidays
// Returns the listed holidays for ?year=, default the current year
func (h *Handler) HandleGetHolidays(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || validate.Var(parsed, "min=1900,max=2200") != nil {
			http.Error(w, "year must be between 1900 and 2200", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	holidays := h.service.Holidays(year)
	list := make([]map[string]string, 0, len(holidays))
	for _, hol := range holidays {
		list = append(list, map[string]string{
			"date": hol.Date.String(),
			"name": hol.Name,
		})
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"year":     year,
		"listed":   h.service.Calendar().HasYear(year),
		"holidays": list,
	})
}

// HandleGetSnapshot handles GET /api/market-timing/snapshot
// Returns the poller's last-known-good snapshot
func (h *Handler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		http.Error(w, "Snapshot polling is disabled", http.StatusNotFound)
		return
	}

	snap, ok := h.snapshots.Latest()
	lastErr := h.snapshots.LastError()
	if !ok {
		body := map[string]interface{}{"status": "unavailable"}
		if lastErr != nil {
			body["error"] = lastErr.Error()
		}
		h.writeJSON(w, http.StatusServiceUnavailable, body)
		return
	}

	metadata := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
		"stale":     lastErr != nil,
	}
	if lastErr != nil {
		metadata["error"] = lastErr.Error()
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":     snap,
		"metadata": metadata,
	})
}

// writeData writes data in the standard envelope
func (h *Handler) writeData(w http.ResponseWriter, status int, data interface{}) {
	h.writeJSON(w, status, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeError maps timing error kinds to status codes
func (h *Handler) writeError(w http.ResponseWriter, err error, msg string) {
	status := http.StatusInternalServerError
	kind := "internal"
	switch {
	case errors.Is(err, calendar.ErrConfiguration):
		status, kind = http.StatusBadRequest, "configuration"
	case errors.Is(err, calendar.ErrRange):
		status, kind = http.StatusBadRequest, "range"
	case errors.Is(err, calendar.ErrData):
		kind = "data"
	}

	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Msg(msg)
	} else {
		h.log.Debug().Err(err).Msg(msg)
	}

	h.writeJSON(w, status, map[string]interface{}{
		"error": err.Error(),
		"kind":  kind,
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
