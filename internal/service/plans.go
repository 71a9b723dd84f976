package service

import (
	"context"
	"fmt"
	"strings"

	"insurebot/internal/model"
	"insurebot/internal/utils"

	"go.uber.org/zap"
)

// VectorRepository stores plan embeddings and answers similarity queries
type VectorRepository interface {
	BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string)
	SimilarPlans(ctx context.Context, planID string, limit int) ([]model.SimilarPlan, error)
}

// PlanService exposes catalog listing, lookup, filtering and similarity search
type PlanService struct {
	catalog *CatalogService
	ranker  *Ranker
	vectors VectorRepository // nil unless the catalog lives in postgres
	ai      AIClient
	logger  *zap.Logger
}

// NewPlanService creates a new plan service. vectors and ai may be nil.
func NewPlanService(catalog *CatalogService, ranker *Ranker, vectors VectorRepository, ai AIClient, logger *zap.Logger) *PlanService {
	return &PlanService{
		catalog: catalog,
		ranker:  ranker,
		vectors: vectors,
		ai:      ai,
		logger:  logger,
	}
}

// List returns the whole catalog in stored order
func (s *PlanService) List(ctx context.Context) []model.Plan {
	return s.catalog.Load(ctx)
}

// Get returns one plan by id
func (s *PlanService) Get(ctx context.Context, id string) (*model.Plan, bool) {
	return s.catalog.Get(ctx, id)
}

// Filter returns the filtered, deduplicated catalog ordered by whole-life score
func (s *PlanService) Filter(ctx context.Context, criteria model.FilterCriteria) []model.Plan {
	return s.ranker.Rank(s.catalog.Load(ctx), criteria)
}

// Ingest rebuilds the catalog from the raw source
func (s *PlanService) Ingest(ctx context.Context) (int, error) {
	return s.catalog.Ingest(ctx)
}

// Similar returns the plans nearest to id in embedding space
func (s *PlanService) Similar(ctx context.Context, id string, limit int) ([]model.SimilarPlan, error) {
	if s.vectors == nil {
		return nil, ErrVectorSearchUnavailable
	}
	plans, err := s.vectors.SimilarPlans(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []model.SimilarPlan{}
	}
	return plans, nil
}

// BatchUpdateEmbeddings stores precomputed plan embeddings
func (s *PlanService) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (*model.EmbeddingBatchResponse, error) {
	if s.vectors == nil {
		return nil, ErrVectorSearchUnavailable
	}
	success, errs := s.vectors.BatchUpdateEmbeddings(ctx, items)
	return &model.EmbeddingBatchResponse{
		Success: success,
		Failed:  len(items) - success,
		Errors:  errs,
	}, nil
}

// EmbedCatalog computes an embedding for every catalog plan and stores it
func (s *PlanService) EmbedCatalog(ctx context.Context) (*model.EmbeddingBatchResponse, error) {
	if s.vectors == nil {
		return nil, ErrVectorSearchUnavailable
	}
	if s.ai == nil || !s.ai.IsEnabled() {
		return nil, ErrAIDisabled
	}

	plans := s.catalog.Load(ctx)
	if len(plans) == 0 {
		return &model.EmbeddingBatchResponse{}, nil
	}

	texts := make([]string, len(plans))
	for i, plan := range plans {
		texts[i] = PlanEmbeddingText(plan)
	}

	vectors, err := s.ai.CreateEmbeddings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed catalog: %w", err)
	}

	items := make([]model.EmbeddingItem, len(plans))
	for i, plan := range plans {
		items[i] = model.EmbeddingItem{PlanID: plan.ID, Embedding: vectors[i], Text: texts[i]}
	}

	s.logger.Info("Storing catalog embeddings", zap.Int("plans", len(items)))
	return s.BatchUpdateEmbeddings(ctx, items)
}

// PlanEmbeddingText describes a plan in one line for embedding
func PlanEmbeddingText(plan model.Plan) string {
	parts := []string{
		plan.Title,
		utils.CompanyDisplayName(plan.Company),
		strings.Join(plan.Features, ", "),
		fmt.Sprintf("%s, age %s, %s", plan.Details.Gender, plan.Details.Age, plan.Details.SmokerStatus),
		fmt.Sprintf("waiting period %s, issue age %s", plan.Details.WaitingPeriod, plan.Details.IssueAge),
	}
	return strings.Join(parts, " | ")
}
