// Package server exposes the orchestrator's operational state over HTTP:
// a provider status page and a debug snapshot of internal state.
package server

import (
	"net/http"

	"github.com/arqlabs/aimanager/aimanager"
	"github.com/gin-gonic/gin"
)

// StatusServer serves read-only diagnostics for one orchestrator.
type StatusServer struct {
	orchestrator *aimanager.Orchestrator
}

// NewStatusServer creates a status server for the given orchestrator.
func NewStatusServer(orchestrator *aimanager.Orchestrator) *StatusServer {
	return &StatusServer{orchestrator: orchestrator}
}

// Router builds the gin engine with all diagnostic routes registered.
func (s *StatusServer) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	s.RegisterRoutes(router)
	return router
}

// RegisterRoutes attaches the diagnostic endpoints to an existing engine.
func (s *StatusServer) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.GET("/status", s.handleStatus)
	api.GET("/debug/state", s.handleDebugState)
}

func (s *StatusServer) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"providers":      s.orchestrator.ProviderStatus(),
		"fallback_chain": s.orchestrator.FallbackChain(),
	})
}

func (s *StatusServer) handleDebugState(c *gin.Context) {
	c.JSON(http.StatusOK, s.orchestrator.DebugState())
}
