package service

import (
	"testing"

	"insurebot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func ids(plans []model.Plan) []string {
	out := make([]string, len(plans))
	for i, p := range plans {
		out[i] = p.ID
	}
	return out
}

func TestRanker_Dedupe(t *testing.T) {
	r := NewRanker()
	plans := []model.Plan{
		testPlan("a", "AIA", "Wealth", 8, 7.0),
		testPlan("b", "FWD", "Legacy", 6, 5.0),
		testPlan("c", "AIA", "Wealth", 9, 9.0),
		testPlan("d", "AIA", "Wealth", 9, 9.0),
	}

	out := r.Dedupe(plans)
	require.Len(t, out, 2)
	assert.Equal(t, []string{"c", "b"}, ids(out))
	assert.Equal(t, "a", plans[0].ID, "input must not be modified")
}

func TestRanker_SortByWholeLifeScore(t *testing.T) {
	r := NewRanker()
	plans := []model.Plan{
		testPlan("a", "AIA", "A", 7, 0),
		testPlan("b", "FWD", "B", 9, 0),
		testPlan("c", "BOC", "C", 7, 0),
		testPlan("d", "YF", "D", 8, 0),
	}

	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(r.SortByWholeLifeScore(plans)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(plans))
}

func TestRanker_Filter(t *testing.T) {
	r := NewRanker()

	base := func(id string) model.Plan {
		p := testPlan(id, "AIA|友邦", "Plan "+id, 8, 8)
		p.Price = 1000
		p.Details.Gender = "Male"
		p.Details.Age = "30"
		p.Details.SmokerStatus = "Non Smoker"
		return p
	}
	female := base("female")
	female.Details.Gender = "Female"
	older := base("older")
	older.Details.Age = "45"
	smoker := base("smoker")
	smoker.Details.SmokerStatus = "Smoker"
	pricey := base("pricey")
	pricey.Price = 3000
	weak := base("weak")
	weak.Details.TotalScore = 5
	fwd := base("fwd")
	fwd.Company = "FWD|富衛"
	unparsed := base("unparsed")
	unparsed.Details.Age = "N/A"

	plans := []model.Plan{base("match"), female, older, smoker, pricey, weak, fwd, unparsed}

	tests := []struct {
		name     string
		criteria model.FilterCriteria
		want     []string
	}{
		{
			name:     "no criteria keeps everything",
			criteria: model.FilterCriteria{},
			want:     ids(plans),
		},
		{
			name:     "gender",
			criteria: model.FilterCriteria{Gender: ptr("Female")},
			want:     []string{"female"},
		},
		{
			name:     "age is a floor and unparsable ages pass",
			criteria: model.FilterCriteria{Age: ptr(35)},
			want:     []string{"match", "female", "smoker", "pricey", "weak", "fwd", "unparsed"},
		},
		{
			name:     "smoker status",
			criteria: model.FilterCriteria{SmokerStatus: ptr("Smoker")},
			want:     []string{"smoker"},
		},
		{
			name:     "max price",
			criteria: model.FilterCriteria{MaxPrice: ptr(2000.0)},
			want:     []string{"match", "female", "older", "smoker", "weak", "fwd", "unparsed"},
		},
		{
			name:     "min score",
			criteria: model.FilterCriteria{MinScore: ptr(6.0)},
			want:     []string{"match", "female", "older", "smoker", "pricey", "fwd", "unparsed"},
		},
		{
			name:     "company alias",
			criteria: model.FilterCriteria{Company: ptr("fwd")},
			want:     []string{"fwd"},
		},
		{
			name:     "empty string criterion is unset",
			criteria: model.FilterCriteria{Gender: ptr("")},
			want:     ids(plans),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(r.Filter(plans, tt.criteria)))
		})
	}
}

func TestRanker_RankIsSubsetOfCatalog(t *testing.T) {
	r := NewRanker()
	plans := []model.Plan{
		testPlan("a", "AIA", "Wealth", 8, 7.0),
		testPlan("b", "AIA", "Wealth", 6, 9.0),
		testPlan("c", "FWD", "Legacy", 9, 8.0),
	}

	out := r.Rank(plans, model.FilterCriteria{})
	assert.Equal(t, []string{"c", "b"}, ids(out))
	for _, p := range out {
		assert.Contains(t, plans, p)
	}
}

func TestRanker_TopByScore(t *testing.T) {
	r := NewRanker()
	plans := []model.Plan{
		{ID: "a", Score: 1},
		{ID: "b", Score: 5},
		{ID: "c"},
		{ID: "d", Score: 5},
	}

	assert.Equal(t, []string{"b", "d", "a"}, ids(r.TopByScore(plans, 3)))
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(r.TopByScore(plans, 10)))
	assert.Empty(t, r.TopByScore(nil, 3))
	assert.NotNil(t, r.TopByScore(nil, 3))
}
