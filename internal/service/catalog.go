package service

import (
	"context"
	"fmt"

	"insurebot/internal/model"

	"go.uber.org/zap"
)

// CatalogRepository persists the canonical plan catalog
type CatalogRepository interface {
	Exists(ctx context.Context) (bool, error)
	LoadPlans(ctx context.Context) ([]model.Plan, error)
	ReplacePlans(ctx context.Context, plans []model.Plan) error
	Close() error
}

// CatalogService owns the canonical catalog and rebuilds it from the raw source on demand
type CatalogService struct {
	repo       CatalogRepository
	normalizer *Normalizer
	sourcePath string
	logger     *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo CatalogRepository, normalizer *Normalizer, sourcePath string, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		repo:       repo,
		normalizer: normalizer,
		sourcePath: sourcePath,
		logger:     logger,
	}
}

// Ingest reads the raw source, normalizes it and replaces the canonical catalog.
// It returns the number of plans written.
func (s *CatalogService) Ingest(ctx context.Context) (int, error) {
	rows, err := s.normalizer.ReadSource(s.sourcePath)
	if err != nil {
		return 0, err
	}

	plans := s.normalizer.Normalize(rows)
	if err := s.repo.ReplacePlans(ctx, plans); err != nil {
		return 0, fmt.Errorf("failed to store catalog: %w", err)
	}

	s.logger.Info("Catalog ingested",
		zap.String("source", s.sourcePath),
		zap.Int("plans", len(plans)))
	return len(plans), nil
}

// Load returns every plan in stored order. The catalog is ingested first when it
// does not exist yet. Failures are logged and yield an empty catalog.
func (s *CatalogService) Load(ctx context.Context) []model.Plan {
	exists, err := s.repo.Exists(ctx)
	if err != nil {
		s.logger.Error("Failed to check catalog", zap.Error(err))
		return []model.Plan{}
	}

	if !exists {
		s.logger.Info("Catalog not found, ingesting from source", zap.String("source", s.sourcePath))
		if _, err := s.Ingest(ctx); err != nil {
			s.logger.Error("Failed to ingest catalog", zap.Error(err))
			return []model.Plan{}
		}
	}

	plans, err := s.repo.LoadPlans(ctx)
	if err != nil {
		s.logger.Error("Failed to load catalog", zap.Error(err))
		return []model.Plan{}
	}
	if plans == nil {
		plans = []model.Plan{}
	}
	return plans
}

// Get returns the plan with the exact id
func (s *CatalogService) Get(ctx context.Context, id string) (*model.Plan, bool) {
	for _, plan := range s.Load(ctx) {
		if plan.ID == id {
			p := plan
			return &p, true
		}
	}
	return nil, false
}
