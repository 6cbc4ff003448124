// Package httpapi exposes the issuance and upload services over HTTP.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/certbatch/internal/ports/primary"
)

// maxUploadMemory bounds the multipart form held in memory; larger parts
// spill to temporary files.
const maxUploadMemory = 32 << 20

// Server is the certbatch HTTP server.
type Server struct {
	issuance primary.IssuanceService
	blobs    primary.BlobService
	logger   *slog.Logger
	router   *gin.Engine
}

// NewServer creates a server and registers its routes. blobs may be nil.
func NewServer(issuance primary.IssuanceService, blobs primary.BlobService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	router.MaxMultipartMemory = maxUploadMemory

	s := &Server{
		issuance: issuance,
		blobs:    blobs,
		logger:   logger,
		router:   router,
	}

	api := router.Group("/api")
	{
		api.POST("", s.handleIssue)
		api.GET("/templates", s.handleTemplates)
	}

	// The upload routes exist only when a transient store is configured.
	if blobs != nil {
		api.POST("/uploads", s.handleUpload)

		admin := api.Group("/admin")
		admin.GET("/blobs", s.handleListBlobs)
		admin.DELETE("/blobs", s.handleDeleteBlobs)
	}

	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
