package service

import (
	"context"
	"testing"
	"time"

	"insurebot/internal/model"
	"insurebot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestChat(t *testing.T, advisor Advisor) (*ChatService, *UserPlanService) {
	t.Helper()
	catalog, _ := newTestCatalog(t, sourceRows...)
	return newTestChatWithCatalog(t, advisor, catalog)
}

func newTestChatWithCatalog(t *testing.T, advisor Advisor, catalog *CatalogService) (*ChatService, *UserPlanService) {
	t.Helper()
	users := newTestUserPlans(t, catalog)
	chat := NewChatService(
		repository.NewMemorySessionStore(time.Hour),
		newTestEngine(advisor),
		catalog,
		NewRanker(),
		users,
		3,
		zap.NewNop(),
	)
	return chat, users
}

func TestChatService_CreateSession(t *testing.T) {
	ctx := context.Background()
	chat, users := newTestChat(t, nil)

	require.NoError(t, users.SaveProfile("alice", model.Profile{
		model.ProfileFirstName: "Alice",
		model.ProfileGender:    "Female",
	}))

	session, err := chat.CreateSession(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, session.Messages, 1)
	assert.Equal(t, WelcomeMessage, session.Messages[0].Content)
	assert.Equal(t, model.RoleBot, session.Messages[0].Role)
	assert.Equal(t, "Alice", session.Context[model.CtxUserName])
	assert.Equal(t, "Female", session.Context[model.CtxGender])

	stored, err := chat.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, stored.ID)

	anon, err := chat.CreateSession(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "default", anon.UserID)
	assert.Empty(t, anon.Context)
}

func TestChatService_SendMessageWithCriteria(t *testing.T) {
	ctx := context.Background()
	advisor := &fakeAdvisor{reply: `{"response": "Let me find some plans.", "insurance_criteria": {"coverage_type": "life"}}`}
	chat, _ := newTestChat(t, advisor)

	session, err := chat.CreateSession(ctx, "")
	require.NoError(t, err)

	updated, result, err := chat.SendMessage(ctx, session.ID, "find me a whole life plan")
	require.NoError(t, err)

	assert.True(t, result.HasSearchCriteria)
	assert.Equal(t, "Let me find some plans.", result.Text)
	assert.Equal(t, []string{"whole_life_0", "whole_life_1", "whole_life_2"}, ids(updated.CurrentRecommendations))

	require.Len(t, updated.Messages, 4)
	assert.Equal(t, model.RoleUser, updated.Messages[1].Role)
	assert.Equal(t, "find me a whole life plan", updated.Messages[1].Content)
	assert.Equal(t, "Let me find some plans.", updated.Messages[2].Content)
	assert.Equal(t, model.MessagePlans, updated.Messages[3].Type)
	assert.Equal(t, "Here are the top 3 insurance plans for you:", updated.Messages[3].Content)

	stored, err := chat.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Messages, 4)
	assert.Equal(t, "life", stored.Context[model.CtxLastTopic])
}

func TestChatService_SendMessageWithCriteriaEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	advisor := &fakeAdvisor{reply: `{"response": "Let me find some plans.", "insurance_criteria": {"coverage_type": "life"}}`}
	catalog, _ := newTestCatalog(t)
	chat, _ := newTestChatWithCatalog(t, advisor, catalog)

	session, err := chat.CreateSession(ctx, "")
	require.NoError(t, err)

	updated, result, err := chat.SendMessage(ctx, session.ID, "find me a whole life plan")
	require.NoError(t, err)

	assert.True(t, result.HasSearchCriteria)
	assert.Empty(t, updated.CurrentRecommendations)
	require.Len(t, updated.Messages, 3)
	assert.Equal(t, "Let me find some plans.", updated.Messages[2].Content)
	assert.Equal(t, model.MessageText, updated.Messages[2].Type)
}

func TestChatService_SendMessageWithoutCriteria(t *testing.T) {
	ctx := context.Background()
	chat, _ := newTestChat(t, &fakeAdvisor{err: errAdvisorDown})

	session, err := chat.CreateSession(ctx, "")
	require.NoError(t, err)

	updated, result, err := chat.SendMessage(ctx, session.ID, "what is a deductible")
	require.NoError(t, err)

	assert.False(t, result.HasSearchCriteria)
	assert.NotEmpty(t, result.Text)
	assert.Empty(t, updated.CurrentRecommendations)
	assert.Len(t, updated.Messages, 3)
}

func TestChatService_UnknownSession(t *testing.T) {
	ctx := context.Background()
	chat, _ := newTestChat(t, nil)

	_, _, err := chat.SendMessage(ctx, "missing", "hello")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = chat.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, chat.DeleteSession(ctx, "missing"), ErrSessionNotFound)
}

func TestChatService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	chat, users := newTestChat(t, nil)

	session, err := chat.CreateSession(ctx, "bob")
	require.NoError(t, err)

	updated, err := chat.UpdateProfile(ctx, session.ID, model.Profile{
		model.ProfileFirstName:    "Bob",
		model.ProfileSmokerStatus: "Smoker",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bob", updated.Context[model.CtxUserName])
	assert.Equal(t, "Smoker", updated.Context[model.CtxSmokerStatus])
	assert.Equal(t, "Bob", users.GetProfile("bob")[model.ProfileFirstName])
}

func TestChatService_Comparison(t *testing.T) {
	ctx := context.Background()
	chat, _ := newTestChat(t, nil)

	session, err := chat.CreateSession(ctx, "")
	require.NoError(t, err)

	updated, added, err := chat.AddToComparison(ctx, session.ID, "whole_life_0")
	require.NoError(t, err)
	assert.True(t, added)
	assert.False(t, updated.ShowComparison)

	updated, added, err = chat.AddToComparison(ctx, session.ID, "whole_life_3")
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, updated.ShowComparison)

	_, added, err = chat.AddToComparison(ctx, session.ID, "whole_life_3")
	require.NoError(t, err)
	assert.False(t, added)

	updated, err = chat.RemoveFromComparison(ctx, session.ID, "whole_life_0")
	require.NoError(t, err)
	assert.Equal(t, []string{"whole_life_3"}, ids(updated.ComparisonPlans))
	assert.False(t, updated.ShowComparison)
}

func TestChatService_SaveComparison(t *testing.T) {
	ctx := context.Background()
	chat, users := newTestChat(t, nil)

	session, err := chat.CreateSession(ctx, "carol")
	require.NoError(t, err)

	saved, err := chat.SaveComparison(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, saved)

	for _, id := range []string{"whole_life_2", "whole_life_3"} {
		_, added, err := chat.AddToComparison(ctx, session.ID, id)
		require.NoError(t, err)
		require.True(t, added)
	}

	saved, err = chat.SaveComparison(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"whole_life_2", "whole_life_3"}, saved)

	_, err = chat.SaveComparison(ctx, session.ID)
	require.NoError(t, err)

	list := users.ListSaved("carol")
	require.Len(t, list, 2)
	assert.Equal(t, "Family Shield", list[0].Title)
	assert.Equal(t, "Golden Years", list[1].Title)
	assert.Empty(t, users.ListSaved("default"))

	_, err = chat.SaveComparison(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestChatService_DeleteSession(t *testing.T) {
	ctx := context.Background()
	chat, _ := newTestChat(t, nil)

	session, err := chat.CreateSession(ctx, "")
	require.NoError(t, err)
	require.NoError(t, chat.DeleteSession(ctx, session.ID))

	_, err = chat.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
