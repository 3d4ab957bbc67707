package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"chat-server/internal/config"
	"chat-server/internal/domain/chat"
	"chat-server/internal/domain/conversation"
	"chat-server/internal/infrastructure/auth"
	"chat-server/internal/infrastructure/database"
	"chat-server/internal/infrastructure/generator"
	"chat-server/internal/infrastructure/logger"
	"chat-server/internal/infrastructure/observability"
	conversationrepo "chat-server/internal/infrastructure/repository/conversation"
	"chat-server/internal/interfaces/httpserver"
)

// @title Chat Server
// @version 1.0
// @description Persists user conversations and routes chat turns to a pluggable response generator.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		URL:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogQueries:      cfg.LogLevel == "debug",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.Migrate(db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	conversationRepository := conversationrepo.NewRepository(db)
	conversationService := conversation.NewService(conversationRepository, log)

	var responseGenerator chat.Generator
	if cfg.GeneratorURL != "" {
		responseGenerator = generator.NewHTTP(cfg.GeneratorURL, cfg.GenerationTimeout, log)
	} else {
		responseGenerator = generator.NewEcho()
	}

	chatService := chat.NewService(conversationRepository, responseGenerator, log)

	httpServer := httpserver.New(cfg, log, conversationService, chatService, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
