package service

import (
	"context"
	"fmt"
	"time"

	"insurebot/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WelcomeMessage opens every chat transcript
const WelcomeMessage = "Hi there! I'm InsureBot, your Hong Kong whole life insurance assistant. How can I help you today?"

// SessionStore persists chat sessions
type SessionStore interface {
	Get(ctx context.Context, id string) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id string) error
}

// ChatService runs chat sessions: transcript, context, recommendations and comparison
type ChatService struct {
	sessions SessionStore
	engine   *Engine
	catalog  *CatalogService
	ranker   *Ranker
	users    *UserPlanService
	topN     int
	now      func() time.Time
	logger   *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(sessions SessionStore, engine *Engine, catalog *CatalogService, ranker *Ranker, users *UserPlanService, topN int, logger *zap.Logger) *ChatService {
	return &ChatService{
		sessions: sessions,
		engine:   engine,
		catalog:  catalog,
		ranker:   ranker,
		users:    users,
		topN:     topN,
		now:      time.Now,
		logger:   logger,
	}
}

// CreateSession starts a transcript with the welcome message. A stored profile for
// the user seeds the conversation context.
func (s *ChatService) CreateSession(ctx context.Context, userID string) (*model.Session, error) {
	userID = s.users.userOrDefault(userID)
	now := s.now()

	session := &model.Session{
		ID:              uuid.New().String(),
		UserID:          userID,
		Messages:        []model.ChatMessage{s.message(model.RoleBot, WelcomeMessage, model.MessageText)},
		Context:         model.ConversationContext{},
		ComparisonPlans: []model.Plan{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if profile := s.users.GetProfile(userID); len(profile) > 0 {
		for k, v := range ProfileContext(profile, now) {
			session.Context[k] = v
		}
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("Chat session created",
		zap.String("session_id", session.ID),
		zap.String("user_id", userID))
	return session, nil
}

// GetSession returns the session or ErrSessionNotFound
func (s *ChatService) GetSession(ctx context.Context, id string) (*model.Session, error) {
	return s.sessions.Get(ctx, id)
}

// DeleteSession ends a session
func (s *ChatService) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.sessions.Get(ctx, id); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, id)
}

// SendMessage runs one chat turn. When the turn carries search criteria the top plans
// by score become the session's current recommendations.
func (s *ChatService) SendMessage(ctx context.Context, id, text string) (*model.Session, model.TurnResult, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, model.TurnResult{}, err
	}

	session.Messages = append(session.Messages, s.message(model.RoleUser, text, model.MessageText))

	result := s.engine.Respond(ctx, text, session.Context)
	session.Messages = append(session.Messages, s.message(model.RoleBot, result.Text, model.MessageText))

	if result.HasSearchCriteria {
		if plans := s.catalog.Load(ctx); len(plans) > 0 {
			session.CurrentRecommendations = s.ranker.TopByScore(plans, s.topN)
			session.Messages = append(session.Messages, s.message(model.RoleBot,
				fmt.Sprintf("Here are the top %d insurance plans for you:", s.topN), model.MessagePlans))

			s.logger.Debug("Recommendations refreshed",
				zap.String("session_id", id),
				zap.Int("plans", len(session.CurrentRecommendations)))
		}
	}

	if err := s.save(ctx, session); err != nil {
		return nil, model.TurnResult{}, err
	}
	return session, result, nil
}

// UpdateProfile stores the profile for the session's user and merges the derived
// entries into the chat context.
func (s *ChatService) UpdateProfile(ctx context.Context, id string, profile model.Profile) (*model.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.users.SaveProfile(session.UserID, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	for k, v := range ProfileContext(profile, s.now()) {
		session.Context[k] = v
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// AddToComparison adds a plan to the session's comparison set. The comparison view
// is shown once the set is full.
func (s *ChatService) AddToComparison(ctx context.Context, id, planID string) (*model.Session, bool, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}

	added := s.users.AddToComparison(ctx, session, planID)
	if !added {
		return session, false, nil
	}
	if len(session.ComparisonPlans) >= model.ComparisonCapacity {
		session.ShowComparison = true
	}

	if err := s.save(ctx, session); err != nil {
		return nil, false, err
	}
	return session, true, nil
}

// RemoveFromComparison drops a plan from the session's comparison set
func (s *ChatService) RemoveFromComparison(ctx context.Context, id, planID string) (*model.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.users.RemoveFromComparison(session, planID)

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SaveComparison saves every plan in the session's comparison set to the session
// user's saved list and returns the ids that were saved.
func (s *ChatService) SaveComparison(ctx context.Context, id string) ([]string, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	saved := make([]string, 0, len(session.ComparisonPlans))
	for _, p := range session.ComparisonPlans {
		if s.users.SavePlan(ctx, p.ID, session.UserID) {
			saved = append(saved, p.ID)
		}
	}

	s.logger.Info("Comparison plans saved",
		zap.String("session_id", id),
		zap.String("user_id", session.UserID),
		zap.Strings("plan_ids", saved))
	return saved, nil
}

func (s *ChatService) save(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *ChatService) message(role, content, kind string) model.ChatMessage {
	return model.ChatMessage{
		Role:      role,
		Content:   content,
		Type:      kind,
		CreatedAt: s.now(),
	}
}
