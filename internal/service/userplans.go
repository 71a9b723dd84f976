package service

import (
	"context"
	"time"

	"insurebot/internal/model"

	"go.uber.org/zap"
)

// SavedPlanStore persists saved-plan lists keyed by user id
type SavedPlanStore interface {
	Load() (map[string][]model.SavedPlan, error)
	Update(fn func(data map[string][]model.SavedPlan) bool) (bool, error)
}

// ProfileStore persists profiles keyed by user id
type ProfileStore interface {
	Load() (map[string]model.Profile, error)
	Update(fn func(data map[string]model.Profile) bool) (bool, error)
}

// PlanLookup resolves a plan id against the catalog
type PlanLookup interface {
	Get(ctx context.Context, id string) (*model.Plan, bool)
}

// UserPlanService manages saved plans, profiles and comparison sets
type UserPlanService struct {
	catalog     PlanLookup
	saved       SavedPlanStore
	profiles    ProfileStore
	defaultUser string
	now         func() time.Time
	logger      *zap.Logger
}

// NewUserPlanService creates a new user plan service
func NewUserPlanService(catalog PlanLookup, saved SavedPlanStore, profiles ProfileStore, defaultUser string, logger *zap.Logger) *UserPlanService {
	return &UserPlanService{
		catalog:     catalog,
		saved:       saved,
		profiles:    profiles,
		defaultUser: defaultUser,
		now:         time.Now,
		logger:      logger,
	}
}

func (s *UserPlanService) userOrDefault(userID string) string {
	if userID == "" {
		return s.defaultUser
	}
	return userID
}

// SavePlan snapshots the plan into the user's saved list.
// Saving an already saved plan succeeds without writing; an unknown plan returns false.
func (s *UserPlanService) SavePlan(ctx context.Context, planID, userID string) bool {
	userID = s.userOrDefault(userID)

	plan, ok := s.catalog.Get(ctx, planID)
	if !ok {
		return false
	}

	_, err := s.saved.Update(func(data map[string][]model.SavedPlan) bool {
		for _, saved := range data[userID] {
			if saved.ID == planID {
				return false
			}
		}
		data[userID] = append(data[userID], model.NewSavedPlan(*plan, s.now()))
		return true
	})
	if err != nil {
		s.logger.Error("Failed to save plan",
			zap.String("user_id", userID),
			zap.String("plan_id", planID),
			zap.Error(err))
		return false
	}
	return true
}

// RemoveSavedPlan drops planID from the user's saved list. It returns false when
// the user has no saved list; removing an absent plan still rewrites the list.
func (s *UserPlanService) RemoveSavedPlan(ctx context.Context, planID, userID string) bool {
	userID = s.userOrDefault(userID)

	written, err := s.saved.Update(func(data map[string][]model.SavedPlan) bool {
		list, ok := data[userID]
		if !ok {
			return false
		}
		kept := make([]model.SavedPlan, 0, len(list))
		for _, saved := range list {
			if saved.ID != planID {
				kept = append(kept, saved)
			}
		}
		data[userID] = kept
		return true
	})
	if err != nil {
		s.logger.Error("Failed to remove saved plan",
			zap.String("user_id", userID),
			zap.String("plan_id", planID),
			zap.Error(err))
		return false
	}
	return written
}

// ListSaved returns a copy of the user's saved plans
func (s *UserPlanService) ListSaved(userID string) []model.SavedPlan {
	userID = s.userOrDefault(userID)

	data, err := s.saved.Load()
	if err != nil {
		s.logger.Error("Failed to load saved plans", zap.String("user_id", userID), zap.Error(err))
		return []model.SavedPlan{}
	}

	list := data[userID]
	out := make([]model.SavedPlan, len(list))
	copy(out, list)
	return out
}

// SaveProfile replaces the user's profile
func (s *UserPlanService) SaveProfile(userID string, profile model.Profile) error {
	userID = s.userOrDefault(userID)

	stored := make(model.Profile, len(profile))
	for k, v := range profile {
		stored[k] = v
	}
	_, err := s.profiles.Update(func(data map[string]model.Profile) bool {
		data[userID] = stored
		return true
	})
	return err
}

// GetProfile returns the user's profile, empty when none is stored
func (s *UserPlanService) GetProfile(userID string) model.Profile {
	userID = s.userOrDefault(userID)

	data, err := s.profiles.Load()
	if err != nil {
		s.logger.Error("Failed to load profiles", zap.String("user_id", userID), zap.Error(err))
		return model.Profile{}
	}

	out := model.Profile{}
	for k, v := range data[userID] {
		out[k] = v
	}
	return out
}

// AddToComparison appends the plan to the session's comparison set, evicting the
// oldest entry when the set is full. Unknown or already present plans return false.
func (s *UserPlanService) AddToComparison(ctx context.Context, session *model.Session, planID string) bool {
	for _, p := range session.ComparisonPlans {
		if p.ID == planID {
			return false
		}
	}

	plan, ok := s.catalog.Get(ctx, planID)
	if !ok {
		return false
	}

	if len(session.ComparisonPlans) >= model.ComparisonCapacity {
		session.ComparisonPlans = session.ComparisonPlans[1:]
	}
	session.ComparisonPlans = append(append([]model.Plan(nil), session.ComparisonPlans...), *plan)
	return true
}

// RemoveFromComparison drops the plan from the comparison set and hides the
// comparison view once fewer than two plans remain.
func (s *UserPlanService) RemoveFromComparison(session *model.Session, planID string) {
	kept := make([]model.Plan, 0, len(session.ComparisonPlans))
	for _, p := range session.ComparisonPlans {
		if p.ID != planID {
			kept = append(kept, p)
		}
	}
	session.ComparisonPlans = kept
	if len(kept) < model.ComparisonCapacity {
		session.ShowComparison = false
	}
}

// ProfileContext derives chat context entries from a profile
func ProfileContext(profile model.Profile, now time.Time) model.ConversationContext {
	ctx := model.ConversationContext{
		model.CtxGender:       profileValue(profile, model.ProfileGender, model.DefaultGender),
		model.CtxSmokerStatus: profileValue(profile, model.ProfileSmokerStatus, model.DefaultSmokerStatus),
	}
	if name := profile[model.ProfileFirstName]; name != "" {
		ctx[model.CtxUserName] = name
	}
	if age, ok := ProfileAge(profile, now); ok {
		ctx[model.CtxAge] = age
	}
	return ctx
}

// ProfileCriteria derives catalog filters from a profile
func ProfileCriteria(profile model.Profile, now time.Time) model.FilterCriteria {
	gender := profileValue(profile, model.ProfileGender, model.DefaultGender)
	smoker := profileValue(profile, model.ProfileSmokerStatus, model.DefaultSmokerStatus)
	criteria := model.FilterCriteria{Gender: &gender, SmokerStatus: &smoker}
	if age, ok := ProfileAge(profile, now); ok {
		criteria.Age = &age
	}
	return criteria
}

// ProfileAge computes the age in whole years from the dob attribute
func ProfileAge(profile model.Profile, now time.Time) (int, bool) {
	raw := profile[model.ProfileDOB]
	if raw == "" {
		return 0, false
	}
	if len(raw) > len(model.ProfileDOBLayout) {
		raw = raw[:len(model.ProfileDOBLayout)]
	}
	dob, err := time.Parse(model.ProfileDOBLayout, raw)
	if err != nil {
		return 0, false
	}

	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}

func profileValue(profile model.Profile, key, fallback string) string {
	if v := profile[key]; v != "" {
		return v
	}
	return fallback
}
