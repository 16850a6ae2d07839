package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/navbuilder/internal/build"
	"git.home.luguber.info/inful/navbuilder/internal/version"
)

// HealthResponse is served on /healthz.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
}

// RunStatus summarizes one resolve run.
type RunStatus struct {
	RunID      string    `json:"run_id"`
	Status     string    `json:"status"`
	Entries    int       `json:"entries"`
	Errors     int       `json:"errors"`
	Warnings   int       `json:"warnings"`
	Written    bool      `json:"written"`
	DurationMS int64     `json:"duration_ms"`
	FinishedAt time.Time `json:"finished_at"`
}

// StatusResponse is served on /status.
type StatusResponse struct {
	Runs    int        `json:"runs"`
	LastRun *RunStatus `json:"last_run,omitempty"`
}

// Tracker remembers the most recent run.
type Tracker struct {
	mu      sync.Mutex
	started time.Time
	runs    int
	last    *RunStatus
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{started: time.Now()}
}

// Record stores the outcome of result.
func (t *Tracker) Record(result *build.Result) {
	if result == nil {
		return
	}
	rs := &RunStatus{
		RunID:      result.RunID,
		Status:     string(result.Status),
		Entries:    result.Report.EntriesTotal,
		Errors:     result.Report.ErrorCount(),
		Warnings:   result.Report.WarningCount(),
		Written:    result.Written,
		DurationMS: result.Duration.Milliseconds(),
		FinishedAt: result.EndTime.UTC(),
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runs++
	t.last = rs
}

// Snapshot returns the current status.
func (t *Tracker) Snapshot() StatusResponse {
	t.mu.Lock()
	defer t.mu.Unlock()
	resp := StatusResponse{Runs: t.runs}
	if t.last != nil {
		last := *t.last
		resp.LastRun = &last
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(s.tracker.started).Seconds(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := s.tracker.Snapshot()
	code := http.StatusOK
	if snap.LastRun != nil && snap.LastRun.Status == string(build.StatusFailed) {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, snap)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
