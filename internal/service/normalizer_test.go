package service

import (
	"strings"
	"testing"

	"insurebot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizeRow(t *testing.T) {
	row := SourceRow{
		FieldName:           "Wealth Protector",
		FieldCompany:        "AIA",
		FieldAnnualPremium:  "HK$12,000",
		FieldWholeLifeScore: "9.5 / 10",
		FieldTermsScore:     "8.0",
		FieldTotalScore:     "8.0/10",
		FieldGender:         "Male",
		FieldAge:            "30",
		FieldSmokerStatus:   "Non Smoker",
		FieldPremiumTerm:    "10",
		FieldMajorIllnesses: "100",
		FieldEarlyIllnesses: "50",
		FieldMaximumPayout:  "HK$1,000,000",
		FieldWaitingPeriod:  "90 days",
		FieldIssueAge:       "0-65",
	}

	plan, err := NormalizeRow(row, 7)
	require.NoError(t, err)

	assert.Equal(t, "whole_life_7", plan.ID)
	assert.Equal(t, model.PlanTypeWholeLife, plan.Type)
	assert.Equal(t, "Wealth Protector", plan.Title)
	assert.InDelta(t, 1000.0, plan.Price, 1e-9)
	assert.False(t, plan.Starred)
	assert.Equal(t, model.JSONArray{
		"100 Major Illnesses",
		"50 Early Stage Illnesses",
		"Maximum Payout: HK$1,000,000",
		"Premium Term: 10 years",
	}, plan.Features)

	assert.InDelta(t, 9.5, plan.Details.WholeLifeScore, 1e-9)
	assert.InDelta(t, 8.0, plan.Details.TermsScore, 1e-9)
	assert.InDelta(t, 8.0, plan.Details.TotalScore, 1e-9)
	assert.Equal(t, "9.5 / 10", plan.Details.OriginalWholeLifeScore)
	assert.Equal(t, "8.0/10", plan.Details.OriginalTotalScore)
	assert.Equal(t, "HK$12,000", plan.Details.AnnualPremium)
	assert.InDelta(t, 12000.0, plan.Details.AnnualPremiumValue, 1e-9)
	assert.Equal(t, "Non Smoker", plan.Details.SmokerStatus)
}

func TestNormalizeRow_MissingField(t *testing.T) {
	_, err := NormalizeRow(SourceRow{FieldName: "Broken", FieldCompany: "AIA"}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), FieldAnnualPremium)
}

func TestNormalizer_SkipsBadRowsAndKeepsIDsDense(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	input := sourceHeader + "\n" +
		sourceRows[0] + "\n" +
		"Broken;AIA\n" +
		sourceRows[1] + "\n"

	rows, err := n.ParseSource(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	plans := n.Normalize(rows)
	require.Len(t, plans, 2)
	assert.Equal(t, "whole_life_0", plans[0].ID)
	assert.Equal(t, "whole_life_1", plans[1].ID)
	assert.Equal(t, "Legacy Plus", plans[1].Title)
}

func TestNormalizer_ParseSourceTrimsBOM(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	rows, err := n.ParseSource(strings.NewReader("\ufeff" + sourceHeader + "\n" + sourceRows[0] + "\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Wealth Protector", rows[0][FieldName])
}

func TestNormalizer_EmptySource(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	_, err := n.ParseSource(strings.NewReader(""))
	assert.Error(t, err)

	rows, err := n.ParseSource(strings.NewReader(sourceHeader + "\n"))
	require.NoError(t, err)
	assert.Empty(t, n.Normalize(rows))
}
