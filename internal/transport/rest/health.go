package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

const probeTimeout = 3 * time.Second

// pinger is a dependency the readiness probe checks: the pool, the artifact store.
type pinger interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	pinger
	optional bool
}

// HealthHandler serves liveness, readiness and the detailed health report.
type HealthHandler struct {
	version string
	names   []string
	deps    map[string]dependency
}

// NewHealthHandler creates a HealthHandler with no dependencies registered.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version, deps: make(map[string]dependency)}
}

// Register adds a dependency the service cannot work without. Its failure
// makes both /ready and /health report down.
func (h *HealthHandler) Register(name string, dep pinger) *HealthHandler {
	return h.add(name, dependency{pinger: dep})
}

// RegisterOptional adds a dependency that only shows up in /health. Its
// failure degrades the report but never fails readiness.
func (h *HealthHandler) RegisterOptional(name string, dep pinger) *HealthHandler {
	return h.add(name, dependency{pinger: dep, optional: true})
}

func (h *HealthHandler) add(name string, dep dependency) *HealthHandler {
	if _, ok := h.deps[name]; !ok {
		h.names = append(h.names, name)
	}
	h.deps[name] = dep
	return h
}

type healthResponse struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]componentStatus `json:"components,omitempty"`
	Timestamp  time.Time                  `json:"timestamp"`
}

type componentStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Live always returns 200 while the process serves requests.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready returns 503 when a required dependency fails its ping.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	components, ok, _ := h.probe(r.Context(), false)

	resp := healthResponse{Status: "ok", Timestamp: time.Now()}
	status := http.StatusOK
	if !ok {
		resp.Status = "down"
		resp.Components = make(map[string]componentStatus, len(components))
		for name, c := range components {
			resp.Components[name] = componentStatus{Status: c.Status}
		}
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// Health reports every dependency with its latency and the build version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components, ok, degraded := h.probe(r.Context(), true)

	resp := healthResponse{
		Status:     "ok",
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	}
	status := http.StatusOK
	switch {
	case !ok:
		resp.Status = "down"
		status = http.StatusServiceUnavailable
	case degraded:
		resp.Status = "degraded"
	}
	writeJSON(w, status, resp)
}

// probe pings the dependencies concurrently under a shared timeout. ok is
// false when a required dependency failed, degraded when an optional one did.
func (h *HealthHandler) probe(ctx context.Context, withOptional bool) (out map[string]componentStatus, ok, degraded bool) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	out = make(map[string]componentStatus, len(h.names))
	ok = true
	for _, name := range h.names {
		dep := h.deps[name]
		if dep.optional && !withOptional {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := dep.Ping(ctx)
			c := componentStatus{Status: "ok", Latency: time.Since(start).String()}
			if err != nil {
				c = componentStatus{Status: "down", Error: err.Error()}
			}

			mu.Lock()
			defer mu.Unlock()
			out[name] = c
			switch {
			case err == nil:
			case dep.optional:
				degraded = true
			default:
				ok = false
			}
		}()
	}
	wg.Wait()
	return out, ok, degraded
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
