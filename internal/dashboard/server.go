// Package dashboard serves the analytics API and the single-page view
// over the loaded snapshot. It reads through the analyzer only; reload
// is the one mutating endpoint and swaps the snapshot wholesale.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fasowatch/mediascan/internal/analysis"
	"github.com/fasowatch/mediascan/internal/config"
	"github.com/fasowatch/mediascan/internal/store"
	"github.com/fasowatch/mediascan/internal/types"
)

// Server is the dashboard HTTP server.
type Server struct {
	cfg      config.DashboardConfig
	analyzer *analysis.Analyzer
	store    store.Store
	logger   *slog.Logger
}

// New creates a Server. store may be nil, in which case /api/reload is
// disabled.
func New(cfg config.DashboardConfig, a *analysis.Analyzer, st store.Store, logger *slog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		analyzer: a,
		store:    st,
		logger:   logger.With("component", "dashboard"),
	}
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Mode != "" {
		gin.SetMode(s.cfg.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.index)
	r.GET("/healthz", s.health)

	api := r.Group("/api")
	api.GET("/stats", s.stats)
	api.GET("/categories", s.categories)
	api.GET("/medias", s.medias)
	api.GET("/engagement", s.engagement)
	api.GET("/ranking", s.ranking)
	api.GET("/timeline", s.timeline)
	api.GET("/top", s.top)
	api.GET("/sensitive", s.sensitive)
	api.GET("/alerts", s.alerts)
	api.GET("/articles", s.articles)
	api.GET("/keywords", s.keywords)
	api.POST("/reload", s.reload)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.Router(),
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			return fmt.Errorf("dashboard shutdown: %w", err)
		}
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dashboard serve: %w", err)
	}
}

// fail maps analyzer errors onto HTTP statuses. A missing snapshot is a
// client-visible state, not a server fault.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, types.ErrNoSnapshot) {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "loaded": s.analyzer.Loaded()})
}

func (s *Server) stats(c *gin.Context) {
	out, err := s.analyzer.GlobalStats()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) categories(c *gin.Context) {
	out, err := s.analyzer.ArticlesByCategory()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) medias(c *gin.Context) {
	out, err := s.analyzer.ArticlesByMedia()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) engagement(c *gin.Context) {
	out, err := s.analyzer.EngagementByCategory()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) ranking(c *gin.Context) {
	out, err := s.analyzer.MediaRanking()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) timeline(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
		return
	}
	medias := c.QueryArray("media")

	out, err := s.analyzer.Timeline(days, medias)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "data": out})
}

func (s *Server) top(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("n", "10"))
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
		return
	}
	metric := c.DefaultQuery("metric", "engagement")

	out, err := s.analyzer.TopArticles(n, metric)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"metric": metric, "data": out})
}

func (s *Server) sensitive(c *gin.Context) {
	threshold := -1.0
	if v := c.Query("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be between 0 and 1"})
			return
		}
		threshold = f
	}

	out, err := s.analyzer.SensitiveArticles(threshold)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "data": out})
}

func (s *Server) alerts(c *gin.Context) {
	out, err := s.analyzer.CommentAlerts()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "data": out})
}

func (s *Server) articles(c *gin.Context) {
	snap, err := s.analyzer.Snapshot()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(snap.Articles), "data": snap.Articles})
}

func (s *Server) keywords(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("n", "20"))
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
		return
	}

	out, err := s.analyzer.Keywords(n)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) reload(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "no storage backend configured"})
		return
	}

	snap, err := s.store.Load(c.Request.Context())
	if err != nil {
		if errors.Is(err, types.ErrSnapshotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.analyzer.Load(*snap)
	s.logger.Info("snapshot reloaded", "articles", len(snap.Articles))
	c.JSON(http.StatusOK, gin.H{"articles": len(snap.Articles), "medias": len(snap.Medias)})
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}
