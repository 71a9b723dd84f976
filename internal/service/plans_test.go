package service

import (
	"context"
	"testing"

	"insurebot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVectors struct {
	stored []model.EmbeddingItem
}

func (v *fakeVectors) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	v.stored = append(v.stored, items...)
	return len(items), nil
}

func (v *fakeVectors) SimilarPlans(ctx context.Context, planID string, limit int) ([]model.SimilarPlan, error) {
	return nil, nil
}

type fakeAIClient struct {
	enabled bool
}

func (c *fakeAIClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	return nil, ErrAIDisabled
}

func (c *fakeAIClient) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i)}
	}
	return out, nil
}

func (c *fakeAIClient) IsEnabled() bool {
	return c.enabled
}

func TestPlanService_Filter(t *testing.T) {
	ctx := context.Background()
	catalog, _ := newTestCatalog(t, sourceRows...)
	plans := NewPlanService(catalog, NewRanker(), nil, nil, zap.NewNop())

	assert.Len(t, plans.List(ctx), len(sourceRows))

	male := "Male"
	out := plans.Filter(ctx, model.FilterCriteria{Gender: &male})
	assert.Equal(t, []string{"whole_life_0", "whole_life_1"}, ids(out))
}

func TestPlanService_VectorSearchNeedsBackend(t *testing.T) {
	ctx := context.Background()
	catalog, _ := newTestCatalog(t, sourceRows...)
	plans := NewPlanService(catalog, NewRanker(), nil, nil, zap.NewNop())

	_, err := plans.Similar(ctx, "whole_life_0", 5)
	assert.ErrorIs(t, err, ErrVectorSearchUnavailable)

	_, err = plans.EmbedCatalog(ctx)
	assert.ErrorIs(t, err, ErrVectorSearchUnavailable)
}

func TestPlanService_EmbedCatalog(t *testing.T) {
	ctx := context.Background()
	catalog, _ := newTestCatalog(t, sourceRows...)
	vectors := &fakeVectors{}

	disabled := NewPlanService(catalog, NewRanker(), vectors, &fakeAIClient{}, zap.NewNop())
	_, err := disabled.EmbedCatalog(ctx)
	assert.ErrorIs(t, err, ErrAIDisabled)

	plans := NewPlanService(catalog, NewRanker(), vectors, &fakeAIClient{enabled: true}, zap.NewNop())
	resp, err := plans.EmbedCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(sourceRows), resp.Success)
	assert.Zero(t, resp.Failed)

	require.Len(t, vectors.stored, len(sourceRows))
	assert.Equal(t, "whole_life_1", vectors.stored[1].PlanID)
	assert.Contains(t, vectors.stored[1].Text, "Legacy Plus")
	assert.Contains(t, vectors.stored[1].Text, "FWD")

	similar, err := plans.Similar(ctx, "whole_life_0", 5)
	require.NoError(t, err)
	assert.NotNil(t, similar)
}
