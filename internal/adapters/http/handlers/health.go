// Package handlers provides the HTTP handlers of the quotes web UI and its
// operational endpoints.
package handlers

import (
	"net/http"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/quote-keeper/internal/ports"
)

// BuildInfo is served on /-/build. Version, Commit and BuildTime are set
// through ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo fills the Go version, and the commit from the embedded VCS
// stamp when ldflags left it unset.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	if commit == "" || commit == "unknown" {
		if rev := vcsRevision(); rev != "" {
			commit = rev
		}
	}

	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}

	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}

	return ""
}

// HealthHandler serves the /-/ operational endpoints.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
	metrics   http.Handler
	started   time.Time
}

// NewHealthHandler creates the handler. A nil gatherer serves the default
// Prometheus registry.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo, gatherer prometheus.Gatherer) *HealthHandler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return &HealthHandler{
		registry:  registry,
		buildInfo: buildInfo,
		metrics:   promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		started:   time.Now(),
	}
}

type livenessResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

// Liveness answers 200 while the process runs. It checks no dependency.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, livenessResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	})
}

// Readiness answers 200 when every registered check passes and 503
// otherwise. The UI is useless without the quotes API, so its check decides.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	status := http.StatusOK
	if result.Status != ports.HealthStatusHealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, result)
}

// BuildInfoHandler serves the build stamp.
func (h *HealthHandler) BuildInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// MetricsHandler serves the Prometheus exposition format.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return h.metrics
}

// RegisterRoutes mounts live, ready, build and metrics on rg, which the
// router roots at /-.
func (h *HealthHandler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/live", h.Liveness)
	rg.GET("/ready", h.Readiness)
	rg.GET("/build", h.BuildInfoHandler)
	rg.GET("/metrics", gin.WrapH(h.metrics))
}
