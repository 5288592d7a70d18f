// Package server exposes the review API over a persisted pipeline run:
// browsing organisations, inspecting audit history and resolving flagged
// conflicts. It reads from the store only; the pipeline itself never
// depends on this package.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"ukorgs/config"
	"ukorgs/models"
	"ukorgs/server/middleware"
	"ukorgs/store"
)

// Server is the review HTTP server.
type Server struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
	router *gin.Engine
}

// New creates a review server over the given store.
func New(cfg *config.Config, st *store.Store) *Server {
	logger := slog.Default().With("component", "review_server")

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	s := &Server{
		cfg:    cfg,
		store:  st,
		logger: logger,
		router: router,
	}
	s.registerRoutes()
	return s
}

// Run starts the server on the configured port and blocks.
func (s *Server) Run() error {
	addr := ":" + s.cfg.Port
	s.logger.Info("review server listening", "addr", addr)
	return s.router.Run(addr)
}

// Router exposes the underlying engine, mainly for tests.
func (s *Server) Router() *gin.Engine { return s.router }

func (s *Server) registerRoutes() {
	api := s.router.Group("/api")

	api.GET("/health", s.handleHealth)
	api.GET("/organisations", s.handleListOrganisations)
	api.GET("/organisations/:id", s.handleGetOrganisation)
	api.GET("/organisations/:id/audit", s.handleOrganisationAudit)
	api.GET("/conflicts", s.handleListConflicts)
	api.POST("/conflicts/:id/resolution", s.handleResolveConflict)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// latestRun resolves the run every read handler operates on. The review API
// always serves the most recent run.
func (s *Server) latestRun(c *gin.Context) (int64, bool) {
	runID, err := s.store.LatestRunID()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pipeline run available"})
		return 0, false
	}
	return runID, true
}

func (s *Server) handleListOrganisations(c *gin.Context) {
	runID, ok := s.latestRun(c)
	if !ok {
		return
	}

	reviewOnly := c.Query("review") == "true"
	organisations, err := s.store.Organisations(runID, reviewOnly)
	if err != nil {
		s.logger.Error("failed to load organisations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load organisations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run":           runID,
		"total":         len(organisations),
		"organisations": organisations,
	})
}

func (s *Server) handleGetOrganisation(c *gin.Context) {
	runID, ok := s.latestRun(c)
	if !ok {
		return
	}

	org, err := s.store.Organisation(runID, c.Param("id"))
	if err != nil {
		s.logger.Error("failed to load organisation", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load organisation"})
		return
	}
	if org == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("organisation %s not found", c.Param("id"))})
		return
	}

	c.JSON(http.StatusOK, org)
}

func (s *Server) handleOrganisationAudit(c *gin.Context) {
	runID, ok := s.latestRun(c)
	if !ok {
		return
	}

	records, err := s.store.AuditByOrganisation(runID, c.Param("id"))
	if err != nil {
		s.logger.Error("failed to load audit history", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load audit history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"organisationId": c.Param("id"),
		"records":        records,
	})
}

func (s *Server) handleListConflicts(c *gin.Context) {
	runID, ok := s.latestRun(c)
	if !ok {
		return
	}

	unresolvedOnly := c.Query("unresolved") == "true"
	conflicts, err := s.store.Conflicts(runID, unresolvedOnly)
	if err != nil {
		s.logger.Error("failed to load conflicts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conflicts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run":       runID,
		"total":     len(conflicts),
		"conflicts": conflicts,
	})
}

// resolveRequest is the body of a conflict resolution call.
type resolveRequest struct {
	ResolvedValue any    `json:"resolvedValue" binding:"required"`
	ResolvedBy    string `json:"resolvedBy"`
	Reason        string `json:"reason"`
}

func (s *Server) handleResolveConflict(c *gin.Context) {
	runID, ok := s.latestRun(c)
	if !ok {
		return
	}

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid resolution body: %v", err)})
		return
	}

	resolution := models.ConflictResolution{
		ResolvedValue: req.ResolvedValue,
		ResolvedBy:    req.ResolvedBy,
		Reason:        req.Reason,
	}
	if err := s.store.ResolveConflict(runID, c.Param("id"), resolution); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	s.logger.Info("conflict resolved",
		"conflict", c.Param("id"),
		"resolved_by", req.ResolvedBy)
	c.JSON(http.StatusOK, gin.H{"status": "resolved"})
}
