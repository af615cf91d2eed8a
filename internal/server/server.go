// Package server exposes the planner over a local JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/weekwise/internal/config"
	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/slotstore"
)

// Handler serves the slot and statistics endpoints for one store.
type Handler struct {
	store    *slotstore.Store
	timezone string
	now      func() time.Time
}

func NewHandler(store *slotstore.Store, timezone string) *Handler {
	return &Handler{store: store, timezone: timezone, now: time.Now}
}

// NewRouter wires the API routes onto a fresh gin engine.
func NewRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(),
	)

	router.GET("/health", h.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/slots", h.ListSlots)
		api.DELETE("/slots", h.ClearSlots)
		api.GET("/slots/:day/:hour", h.GetSlot)
		api.PUT("/slots/:day/:hour", h.PutSlot)
		api.DELETE("/slots/:day/:hour", h.DeleteSlot)

		api.GET("/stats/week", h.WeekStats)
		api.GET("/stats/days/:day", h.DayStats)
		api.GET("/now", h.Now)

		api.GET("/export/ics", h.ExportICS)
		api.GET("/export/json", h.ExportJSON)
	}

	router.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "route not found")
	})
	return router
}

// New returns an http.Server for cfg.HTTP serving h.
func New(cfg *config.Config, h *Handler) *http.Server {
	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        NewRouter(h),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}
