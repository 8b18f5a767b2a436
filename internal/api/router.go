package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nba-lineup/internal/api/handlers"
	"github.com/stitts-dev/nba-lineup/internal/api/middleware"
	"github.com/stitts-dev/nba-lineup/internal/optimizer"
	"github.com/stitts-dev/nba-lineup/internal/projection"
)

type RouterOptions struct {
	Rules   optimizer.Rules
	Solver  optimizer.SolverOptions
	Model   *projection.Model
	Timeout time.Duration
	// Directory is optional; its routes are only mounted when set.
	Directory handlers.DirectoryReader
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(opts RouterOptions, logger *logrus.Entry) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))

	health := handlers.NewHealthHandler()
	router.GET("/health", health.GetHealth)

	SetupRoutes(router.Group("/api/v1"), opts, logger)
	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, opts RouterOptions, logger *logrus.Entry) {
	model := opts.Model
	if model == nil {
		model = projection.NewModel(nil, 10)
	}

	optimizerHandler := handlers.NewOptimizerHandler(opts.Rules, opts.Solver, opts.Timeout, logger.WithField("handler", "optimizer"))
	projectionHandler := handlers.NewProjectionHandler(model)

	group.POST("/optimize", optimizerHandler.OptimizeLineup)
	group.POST("/project", projectionHandler.Project)

	if opts.Directory != nil {
		directoryHandler := handlers.NewDirectoryHandler(opts.Directory)
		group.GET("/directory", directoryHandler.ListEntries)
		group.GET("/directory/:nickname", directoryHandler.GetEntry)
	}
}
