package service

import (
	"sort"
	"strconv"
	"strings"

	"insurebot/internal/model"
	"insurebot/internal/utils"
)

// Ranker filters, deduplicates and orders catalog plans.
// Every method returns a new slice and leaves its input untouched.
type Ranker struct{}

// NewRanker creates a new ranker
func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank applies Filter, Dedupe and SortByWholeLifeScore in that order
func (r *Ranker) Rank(plans []model.Plan, criteria model.FilterCriteria) []model.Plan {
	return r.SortByWholeLifeScore(r.Dedupe(r.Filter(plans, criteria)))
}

// Filter keeps the plans that satisfy every set criterion
func (r *Ranker) Filter(plans []model.Plan, criteria model.FilterCriteria) []model.Plan {
	out := make([]model.Plan, 0, len(plans))
	for _, plan := range plans {
		if r.matches(plan, criteria) {
			out = append(out, plan)
		}
	}
	return out
}

func (r *Ranker) matches(plan model.Plan, criteria model.FilterCriteria) bool {
	if gender, ok := criteria.GenderValue(); ok && plan.Details.Gender != gender {
		return false
	}

	// The plan age is a floor: the caller must be at least that old.
	// A plan age that does not parse imposes no constraint.
	if age, ok := criteria.AgeValue(); ok {
		if planAge, err := strconv.ParseFloat(strings.TrimSpace(plan.Details.Age), 64); err == nil && float64(age) < planAge {
			return false
		}
	}

	if smoker, ok := criteria.SmokerStatusValue(); ok && plan.Details.SmokerStatus != smoker {
		return false
	}

	if maxPrice, ok := criteria.MaxPriceValue(); ok && plan.Price > maxPrice {
		return false
	}

	if minScore, ok := criteria.MinScoreValue(); ok && plan.Details.TotalScore < minScore {
		return false
	}

	if company, ok := criteria.CompanyValue(); ok && !utils.MatchCompany(company, plan.Company) {
		return false
	}

	return true
}

type dedupeKey struct {
	company string
	title   string
}

// Dedupe keeps one plan per (company, title). A later plan with a strictly higher
// total score replaces the kept one in its original position; ties keep the first.
func (r *Ranker) Dedupe(plans []model.Plan) []model.Plan {
	out := make([]model.Plan, 0, len(plans))
	index := make(map[dedupeKey]int, len(plans))

	for _, plan := range plans {
		key := dedupeKey{company: plan.Company, title: plan.Title}
		if i, seen := index[key]; seen {
			if plan.Details.TotalScore > out[i].Details.TotalScore {
				out[i] = plan
			}
			continue
		}
		index[key] = len(out)
		out = append(out, plan)
	}
	return out
}

// SortByWholeLifeScore orders plans by whole-life score, highest first.
// Equal scores keep their relative order.
func (r *Ranker) SortByWholeLifeScore(plans []model.Plan) []model.Plan {
	out := make([]model.Plan, len(plans))
	copy(out, plans)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Details.WholeLifeScore > out[j].Details.WholeLifeScore
	})
	return out
}

// TopByScore returns the first n plans by the generic score field, highest first.
// This is the chat recommendation order and differs from SortByWholeLifeScore.
func (r *Ranker) TopByScore(plans []model.Plan, n int) []model.Plan {
	out := make([]model.Plan, len(plans))
	copy(out, plans)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
