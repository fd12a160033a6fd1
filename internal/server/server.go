package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"pixhost/internal/config"
	"pixhost/internal/handler"
	"pixhost/internal/metrics"
	"pixhost/internal/preview"
	"pixhost/internal/repository"
	"pixhost/internal/service"
	"pixhost/pkg/transcode"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(corsMiddleware(cfg))
	router.MaxMultipartMemory = cfg.App.MaxUploadSize

	router.LoadHTMLGlob(filepath.Join(cfg.App.TemplatesDir, "index.html"))

	repo, err := repository.NewS3Repository(&cfg.S3, log)
	if err != nil {
		return nil, fmt.Errorf("create object repository: %w", err)
	}

	rewriter, err := preview.NewRewriterFromFile(filepath.Join(cfg.App.TemplatesDir, "viewer.html"))
	if err != nil {
		return nil, fmt.Errorf("load viewer template: %w", err)
	}

	observer := metrics.NewPrometheusObserver(prometheus.DefaultRegisterer)
	transcoder := transcode.NewWebP(cfg.App.MaxDimension)
	uploadService := service.NewUploadService(repo, transcoder, cfg, observer, log)

	h := handler.NewHandler(uploadService, rewriter, log)

	router.GET("/", h.GetUI)
	router.GET("/i/:id", h.ViewImage)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.POST("/upload", bodyLimit(cfg.App.MaxUploadSize), h.UploadImage)
		api.GET("/images/:id", h.CheckImage)
		api.DELETE("/images/:id", h.DeleteImage)
	}

	server := &Server{
		httpServer: &http.Server{
			Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
			Handler: router,
			// Uploads can take a while at the 10 MiB cap; keep the
			// read timeout above worst-case transfer time.
			ReadTimeout:    60 * time.Second,
			WriteTimeout:   60 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		cfg: cfg,
		log: log,
	}

	log.Info("Server created",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("bucket", cfg.S3.BucketName))

	return server, nil
}

func (s *Server) Run() error {
	s.log.Info("Server is running", zap.String("address", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
