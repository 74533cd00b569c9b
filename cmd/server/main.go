package main // Entry point package

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/phenikaa/helpdesk/internal/config"
	"github.com/phenikaa/helpdesk/internal/database"
	"github.com/phenikaa/helpdesk/internal/handler"
	"github.com/phenikaa/helpdesk/internal/middleware"
	"github.com/phenikaa/helpdesk/internal/queue"
	"github.com/phenikaa/helpdesk/internal/repository"
	"github.com/phenikaa/helpdesk/internal/router"
	"github.com/phenikaa/helpdesk/internal/view"
	"github.com/phenikaa/helpdesk/internal/workflow"
)

func main() {
	// .env is optional; real deployments set the variables directly.
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on the environment")
	}

	cfg := config.Load()
	if cfg.Env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := database.Open(database.Params{
		User:            cfg.DBUser,
		Pass:            cfg.DBPass,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpen,
		MaxIdleConns:    cfg.DBMaxIdle,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	// Redis is optional ambient infrastructure; a nil client disables
	// rate limiting and caching without affecting the workflow itself.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable; rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	explanations := repository.NewExplanationRepo(db)
	engine := workflow.NewEngine(users, explanations, cfg.BcryptCost, log.Logger)

	renderer, err := view.New("web/templates")
	if err != nil {
		log.Fatal().Err(err).Msg("parse templates")
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Static("/static", "web/static")
	e.Use(middleware.ResolveIdentity(users))

	router.RegisterRoutes(e, router.Handlers{
		Auth:        handler.NewAuthHandler(engine),
		Explanation: handler.NewExplanationHandler(engine),
		Admin:       handler.NewAdminHandler(engine),
		API:         handler.NewAPIHandler(engine),
	},
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)

	// Audit trail consumer; reconnects on its own.
	go queue.StartEventConsumer()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
