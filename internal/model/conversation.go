package model

import "time"

// ConversationContext is the per-session key/value memory of the chat engine.
// Well-known keys are listed below; advisory criteria may add arbitrary keys.
type ConversationContext map[string]any

// Well-known conversation context keys
const (
	CtxUserName       = "user_name"
	CtxInsuranceTypes = "insurance_types"
	CtxMonthlyBudget  = "monthly_budget"
	CtxBudget         = "budget"
	CtxLastTopic      = "last_topic"
	CtxAge            = "age"
	CtxSmokerStatus   = "smoker_status"
	CtxGender         = "gender"
	CtxCoverageType   = "coverage_type"
)

// PromptContextKeys is the order in which known keys are rendered into the advisory prompt
var PromptContextKeys = []string{
	CtxUserName,
	CtxInsuranceTypes,
	CtxMonthlyBudget,
	CtxBudget,
	CtxLastTopic,
	CtxAge,
	CtxSmokerStatus,
	CtxGender,
}

// TurnResult is the outcome of one conversation turn
type TurnResult struct {
	Text              string `json:"text"`
	HasSearchCriteria bool   `json:"has_search_criteria"`
}

// AdvisoryReply is the structured answer requested from the advisory model
type AdvisoryReply struct {
	Response          string         `json:"response"`
	InsuranceCriteria map[string]any `json:"insurance_criteria,omitempty"`
}

// Message roles and kinds
const (
	RoleUser = "user"
	RoleBot  = "bot"

	MessageText  = "text"
	MessagePlans = "plans"
)

// ChatMessage is one transcript entry
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// ComparisonCapacity is the maximum number of plans in a comparison set
const ComparisonCapacity = 2

// Session holds the state of one chat conversation
type Session struct {
	ID                     string              `json:"id"`
	UserID                 string              `json:"user_id"`
	Messages               []ChatMessage       `json:"messages"`
	Context                ConversationContext `json:"context"`
	ComparisonPlans        []Plan              `json:"comparison_plans"`
	ShowComparison         bool                `json:"show_comparison"`
	CurrentRecommendations []Plan              `json:"current_recommendations"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`
}
