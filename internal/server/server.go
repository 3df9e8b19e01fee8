package server

import (
	"context"
	"log"
	"time"

	"backend-stridelog/internal/analysis"
	"backend-stridelog/internal/archive"
	"backend-stridelog/internal/auth"
	"backend-stridelog/internal/config"
	"backend-stridelog/internal/observability"
	"backend-stridelog/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Stream   *stream.Hub
	Analysis *analysis.Service
	Archive  *archive.Service
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) (*Server, error) {
	app := fiber.New(fiber.Config{
		BodyLimit: uploadLimit(cfg.MaxUploadMB),
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	opts := analysis.Options{
		Params:       cfg.PipelineParams(),
		MapZoom:      cfg.MapZoom,
		MapCacheSize: cfg.MapCacheSize,
		Events:       s.Stream,
		Metrics:      observability.DefaultMetrics,
	}
	if db != nil {
		s.Archive = archive.NewService(db)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.Archive.EnsureSchema(ctx); err != nil {
			log.Printf("archive schema error: %v", err)
		}
		cancel()
		opts.Store = s.Archive
	}

	svc, err := analysis.NewService(opts)
	if err != nil {
		s.Stream.Close()
		return nil, err
	}
	s.Analysis = svc

	registerRoutes(s)
	return s, nil
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"archive": s.Archive != nil,
			"redis":   s.Redis != nil,
		})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(observability.Handler()))

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), s.Cfg.JWTSecret)
	analysis.RegisterRoutes(s.App.Group("/analyses"), s.Analysis)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
	if s.Archive != nil {
		archive.RegisterRoutes(s.App.Group("/archive"), s.Archive, jwtMiddleware)
	}
}

func uploadLimit(mb int64) int {
	if mb <= 0 {
		return fiber.DefaultBodyLimit
	}
	return int(mb * 1024 * 1024)
}
