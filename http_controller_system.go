package content

import (
	"net/http"
	"time"

	"github.com/goliatone/go-router"
)

// SystemController serves health and aggregate stats.
type SystemController struct {
	Logger  Logger
	Repo    RepositoryManager
	started time.Time
}

func NewSystemController(repo RepositoryManager, logger Logger) *SystemController {
	if logger == nil {
		logger = defLogger{}
	}
	return &SystemController{
		Logger:  logger,
		Repo:    repo,
		started: time.Now(),
	}
}

// RegisterSystemRoutes mounts the health and stats endpoints. Both are
// public: stats exposes aggregate counts only.
func RegisterSystemRoutes[T any](app router.Router[T], controller *SystemController) {
	app.Get("/health", controller.Health).SetName("system.health")
	app.Get("/stats", controller.Stats).SetName("system.stats")
}

func (s *SystemController) Health(ctx router.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    time.Since(s.started).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *SystemController) Stats(ctx router.Context) error {
	stats, err := s.Repo.Stats(ctx.Context())
	if err != nil {
		s.Logger.Error("stats query failed: %s", err)
		return RenderError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, stats)
}
