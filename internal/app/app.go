package app

import (
	"context"
	"errors"
	"fmt"

	"insurebot/internal/config"
	"insurebot/internal/model"
	"insurebot/internal/repository"
	"insurebot/internal/service"

	"go.uber.org/zap"
)

// App holds the wired services shared by the server and the catalog CLI
type App struct {
	Catalog   *service.CatalogService
	Ranker    *service.Ranker
	Plans     *service.PlanService
	Users     *service.UserPlanService
	Chat      *service.ChatService
	AIClient  *service.OpenAIClient
	Dimension int

	closers []func() error
	logger  *zap.Logger
}

// New connects the configured backends and builds every service
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger, Dimension: cfg.PostgreSQL.EmbeddingDimension}

	aiClient := service.NewOpenAIClient(&cfg.OpenAI, logger)
	if cfg.OpenAI.Enabled {
		logger.Info("OpenAI client initialized",
			zap.String("api_base", cfg.OpenAI.APIBase),
			zap.String("chat_model", cfg.OpenAI.ChatModel),
			zap.String("embedding_model", cfg.OpenAI.EmbeddingModel),
			zap.Float64("chat_temperature", cfg.OpenAI.ChatTemperature),
			zap.Int("chat_max_tokens", cfg.OpenAI.ChatMaxTokens))
	} else {
		logger.Warn("OpenAI is disabled, chat answers come from keyword rules only",
			zap.String("hint", "set OPENAI_API_KEY or GITHUB_TOKEN to enable the advisor"))
	}
	a.AIClient = aiClient

	catalogRepo, vectors, err := a.openCatalog(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	sessions, err := a.openSessions(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	normalizer := service.NewNormalizer(logger)
	a.Catalog = service.NewCatalogService(catalogRepo, normalizer, cfg.Storage.SourceCSV, logger)
	a.Ranker = service.NewRanker()
	a.Plans = service.NewPlanService(a.Catalog, a.Ranker, vectors, aiClient, logger)

	saved := repository.NewJSONStore[[]model.SavedPlan](cfg.Storage.SavedPlansFile, logger)
	profiles := repository.NewJSONStore[model.Profile](cfg.Storage.ProfilesFile, logger)
	a.Users = service.NewUserPlanService(a.Catalog, saved, profiles, cfg.Storage.DefaultUserID, logger)

	template := service.LoadPromptTemplate(cfg.OpenAI.PromptTemplateFile, logger)
	advisor := service.NewOpenAIAdvisor(aiClient, cfg.OpenAI.SystemPrompt, template, logger)
	engine := service.NewEngine(advisor, logger)
	a.Chat = service.NewChatService(sessions, engine, a.Catalog, a.Ranker, a.Users, cfg.Search.ChatTopN, logger)

	logger.Info("Services initialized",
		zap.String("catalog_backend", cfg.Storage.CatalogBackend),
		zap.String("session_backend", cfg.Session.Backend))
	return a, nil
}

// openCatalog returns the catalog repository and, for postgres, the vector repository
func (a *App) openCatalog(cfg *config.Config) (service.CatalogRepository, service.VectorRepository, error) {
	switch cfg.Storage.CatalogBackend {
	case "postgres":
		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
			cfg.PostgreSQL.EmbeddingDimension,
			a.logger,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, repo.Close)

		if err := repo.Migrate(); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		a.logger.Info("Connected to PostgreSQL catalog",
			zap.String("host", cfg.PostgreSQL.Host),
			zap.String("database", cfg.PostgreSQL.Database))
		return repo, repo, nil
	default:
		a.logger.Info("Using file catalog", zap.String("path", cfg.Storage.CatalogFile))
		return repository.NewFileCatalogRepository(cfg.Storage.CatalogFile), nil, nil
	}
}

func (a *App) openSessions(ctx context.Context, cfg *config.Config) (service.SessionStore, error) {
	switch cfg.Session.Backend {
	case "redis":
		store, err := repository.NewRedisSessionStore(ctx, cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB, cfg.Session.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		a.logger.Info("Connected to Redis session store", zap.String("addr", cfg.GetRedisAddr()))
		return store, nil
	default:
		return repository.NewMemorySessionStore(cfg.Session.TTL), nil
	}
}

// Close releases backend connections in reverse order of opening
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
