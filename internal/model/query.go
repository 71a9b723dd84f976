package model

// FilterCriteria represents optional plan filters.
// A nil field, an empty string or a non-positive number means no constraint.
type FilterCriteria struct {
	Gender       *string  `json:"gender,omitempty" form:"gender"`
	Age          *int     `json:"age,omitempty" form:"age"`
	SmokerStatus *string  `json:"smoker_status,omitempty" form:"smoker_status"`
	MaxPrice     *float64 `json:"max_price,omitempty" form:"max_price"`
	MinScore     *float64 `json:"min_score,omitempty" form:"min_score"`
	Company      *string  `json:"company,omitempty" form:"company"`
}

// GenderValue returns the gender constraint and whether it is set
func (c FilterCriteria) GenderValue() (string, bool) {
	return stringValue(c.Gender)
}

// SmokerStatusValue returns the smoker status constraint and whether it is set
func (c FilterCriteria) SmokerStatusValue() (string, bool) {
	return stringValue(c.SmokerStatus)
}

// CompanyValue returns the company constraint and whether it is set
func (c FilterCriteria) CompanyValue() (string, bool) {
	return stringValue(c.Company)
}

// AgeValue returns the caller age and whether it is set
func (c FilterCriteria) AgeValue() (int, bool) {
	if c.Age == nil || *c.Age <= 0 {
		return 0, false
	}
	return *c.Age, true
}

// MaxPriceValue returns the monthly price ceiling and whether it is set
func (c FilterCriteria) MaxPriceValue() (float64, bool) {
	return floatValue(c.MaxPrice)
}

// MinScoreValue returns the total score floor and whether it is set
func (c FilterCriteria) MinScoreValue() (float64, bool) {
	return floatValue(c.MinScore)
}

func stringValue(p *string) (string, bool) {
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}

func floatValue(p *float64) (float64, bool) {
	if p == nil || *p <= 0 {
		return 0, false
	}
	return *p, true
}

// PlanListResponse represents a list of plans
type PlanListResponse struct {
	Plans []Plan `json:"plans"`
	Total int    `json:"total"`
	Took  int64  `json:"took_ms"` // Response time in milliseconds
}

// IngestResponse reports the outcome of a catalog rebuild
type IngestResponse struct {
	Ingested int   `json:"ingested"`
	Took     int64 `json:"took_ms"`
}

// SimilarPlan is a plan returned by vector similarity search
type SimilarPlan struct {
	Plan
	Distance float64 `json:"distance" db:"distance"`
}

// SavePlanRequest represents a request to save a plan for a user
type SavePlanRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// SavedPlansResponse lists a user's saved plans
type SavedPlansResponse struct {
	UserID string      `json:"user_id"`
	Plans  []SavedPlan `json:"plans"`
}

// CreateSessionRequest starts a chat session
type CreateSessionRequest struct {
	UserID string `json:"user_id"`
}

// SendMessageRequest represents one user chat turn
type SendMessageRequest struct {
	Message string `json:"message"`
}

// SendMessageResponse represents the outcome of one chat turn
type SendMessageResponse struct {
	Reply           string        `json:"reply"`
	Messages        []ChatMessage `json:"messages"`
	Recommendations []Plan        `json:"recommendations,omitempty"`
}

// ComparisonRequest adds a plan to a session's comparison set
type ComparisonRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// ComparisonResponse reports the state of a comparison set
type ComparisonResponse struct {
	Added          bool   `json:"added"`
	Plans          []Plan `json:"plans"`
	ShowComparison bool   `json:"show_comparison"`
}

// SaveComparisonResponse lists the comparison plans added to the user's saved list
type SaveComparisonResponse struct {
	Saved []string `json:"saved"`
}

// EmbeddingBatchRequest represents a batch embedding update request
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem represents a single embedding with plan info
type EmbeddingItem struct {
	PlanID    string    `json:"plan_id" binding:"required"`
	Embedding []float32 `json:"embedding" binding:"required"`
	Text      string    `json:"text,omitempty"` // The text used to generate embedding
}

// EmbeddingBatchResponse represents the response for batch embedding update
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
