package server

import (
	"net/http"
	"net/http/pprof"

	"github.com/gin-gonic/gin"

	"github.com/ACCESS-NRI/access-profiling/internal/parser"
	"github.com/ACCESS-NRI/access-profiling/internal/stats"
)

// Server exposes normalized profiling tables over HTTP so plotting clients
// can consume them without knowing anything about the original log formats.
type Server struct {
	engine *gin.Engine
	store  *Store
	stats  *stats.Stats
	addr   string
}

// New creates a server over the given table store.
func New(store *Store, st *stats.Stats, addr string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	// Disable automatic redirects that cause 301 issues.
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine: engine,
		store:  store,
		stats:  st,
		addr:   addr,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check.
	s.engine.GET("/healthz", func(c *gin.Context) {
		snap := s.stats.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"uptime":     snap.Uptime,
			"components": snap.Components,
		})
	})

	// Table API consumed by plotting clients.
	s.engine.GET("/api/components", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"components": s.store.Components()})
	})
	s.engine.GET("/api/tables/:component", func(c *gin.Context) {
		table, ok := s.store.Get(c.Param("component"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown component"})
			return
		}
		c.JSON(http.StatusOK, table)
	})
	s.engine.GET("/api/formats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"formats": parser.Names()})
	})
	s.engine.GET("/api/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.stats.Snapshot())
	})

	// WebSocket refresh feed.
	s.engine.GET("/ws", s.handleWebSocket)

	// pprof profiling endpoints.
	s.engine.GET("/debug/pprof/", gin.WrapF(pprof.Index))
	s.engine.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
	s.engine.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
	s.engine.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
	s.engine.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	s.engine.GET("/debug/pprof/allocs", gin.WrapH(pprof.Handler("allocs")))
	s.engine.GET("/debug/pprof/heap", gin.WrapH(pprof.Handler("heap")))
	s.engine.GET("/debug/pprof/goroutine", gin.WrapH(pprof.Handler("goroutine")))
}

// Start runs the server. Blocks until the server is stopped.
func (s *Server) Start() error {
	return s.engine.Run(s.addr)
}
