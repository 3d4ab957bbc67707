//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"chat-server/internal/config"
	"chat-server/internal/domain/chat"
	"chat-server/internal/domain/conversation"
	"chat-server/internal/infrastructure/auth"
	"chat-server/internal/infrastructure/database"
	"chat-server/internal/infrastructure/generator"
	"chat-server/internal/infrastructure/logger"
	conversationrepo "chat-server/internal/infrastructure/repository/conversation"
	"chat-server/internal/interfaces/httpserver"
)

var chatSet = wire.NewSet(
	conversationrepo.NewRepository,
	wire.Bind(new(conversation.Repository), new(*conversationrepo.Repository)),
	conversation.NewService,
	newGenerator,
	chat.NewService,
)

// BuildApplication demonstrates how to assemble the chat service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		chatSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		URL:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogQueries:      cfg.LogLevel == "debug",
	}
}

func newGormDB(cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newGenerator(cfg *config.Config, log zerolog.Logger) chat.Generator {
	if cfg.GeneratorURL != "" {
		return generator.NewHTTP(cfg.GeneratorURL, cfg.GenerationTimeout, log)
	}
	return generator.NewEcho()
}
