package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PlanTypeWholeLife is the only plan type produced by ingestion
const PlanTypeWholeLife = "whole_life"

// Plan represents one normalized whole-life insurance product
type Plan struct {
	ID       string      `json:"id" db:"id"`
	Title    string      `json:"title" db:"title"`
	Company  string      `json:"company" db:"company"`
	Type     string      `json:"type" db:"type"`
	Price    float64     `json:"price" db:"price"` // monthly, annual premium / 12
	Score    float64     `json:"score,omitempty" db:"score"`
	Features JSONArray   `json:"features" db:"features"`
	Details  PlanDetails `json:"details" db:"details"`
	Starred  bool        `json:"starred" db:"starred"`
}

// PlanDetails carries the cleaned scores plus the display strings of the source row
type PlanDetails struct {
	WholeLifeScore         float64 `json:"whole_life_score"`
	TermsScore             float64 `json:"terms_score"`
	TotalScore             float64 `json:"total_score"`
	OriginalWholeLifeScore string  `json:"original_whole_life_score"`
	OriginalTermsScore     string  `json:"original_terms_score"`
	OriginalTotalScore     string  `json:"original_total_score"`
	Gender                 string  `json:"gender"`
	Age                    string  `json:"age"`
	SmokerStatus           string  `json:"smoker_status"`
	PremiumTermYears       string  `json:"premium_term_years"`
	AnnualPremium          string  `json:"annual_premium"`
	AnnualPremiumValue     float64 `json:"annual_premium_value"`
	MajorIllnesses         string  `json:"major_illnesses"`
	EarlyIllnesses         string  `json:"early_illnesses"`
	MaximumPayout          string  `json:"maximum_payout"`
	WaitingPeriod          string  `json:"waiting_period"`
	IssueAge               string  `json:"issue_age"`
}

// Value implements driver.Valuer interface
func (d PlanDetails) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface
func (d *PlanDetails) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = PlanDetails{}
		return nil
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported type for plan details: %T", value)
	}
}

// SavedPlan is a snapshot of a plan at the moment a user saved it
type SavedPlan struct {
	Plan
	DateSaved string `json:"date_saved"`
}

// SavedPlanDateLayout formats SavedPlan.DateSaved, e.g. "March 05, 2025"
const SavedPlanDateLayout = "January 02, 2006"

// NewSavedPlan snapshots plan with the given save time
func NewSavedPlan(plan Plan, at time.Time) SavedPlan {
	snapshot := plan
	snapshot.Features = append(JSONArray(nil), plan.Features...)
	return SavedPlan{Plan: snapshot, DateSaved: at.Format(SavedPlanDateLayout)}
}

// Profile is a flat attribute mapping for one user (first_name, dob, gender, smoker_status, ...)
type Profile map[string]string

// Profile attribute keys
const (
	ProfileFirstName    = "first_name"
	ProfileLastName     = "last_name"
	ProfileDOB          = "dob" // YYYY-MM-DD
	ProfileGender       = "gender"
	ProfileSmokerStatus = "smoker_status"
)

// ProfileDOBLayout is the date layout of the dob attribute
const ProfileDOBLayout = "2006-01-02"

// Profile defaults applied when an attribute is absent
const (
	DefaultGender       = "Male"
	DefaultSmokerStatus = "Non Smoker"
)

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return "[]", nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported type for json array: %T", value)
	}
}
