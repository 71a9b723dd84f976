package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"insurebot/internal/model"
	"insurebot/internal/utils"

	"go.uber.org/zap"
)

// Source column names of the whole-life comparison export
const (
	FieldName           = "Name"
	FieldCompany        = "Company"
	FieldAnnualPremium  = "AnnualPremium"
	FieldWholeLifeScore = "WholeLifeScore"
	FieldTermsScore     = "TermsScore"
	FieldTotalScore     = "TotalScore"
	FieldGender         = "Gender"
	FieldAge            = "Age"
	FieldSmokerStatus   = "Smoker_Status"
	FieldPremiumTerm    = "PremiumTerm_Years"
	FieldMajorIllnesses = "Number_of_Covered_Major_Illnesses"
	FieldEarlyIllnesses = "Number_of_Covered_Early_Illnesses"
	FieldMaximumPayout  = "Maximum_Payout"
	FieldWaitingPeriod  = "Waiting_Period"
	FieldIssueAge       = "Issue_Age"
)

// SourceFields lists every column a source row must carry
var SourceFields = []string{
	FieldName, FieldCompany, FieldAnnualPremium, FieldWholeLifeScore, FieldTermsScore,
	FieldTotalScore, FieldGender, FieldAge, FieldSmokerStatus, FieldPremiumTerm,
	FieldMajorIllnesses, FieldEarlyIllnesses, FieldMaximumPayout, FieldWaitingPeriod,
	FieldIssueAge,
}

// SourceRow is one raw record keyed by source column name
type SourceRow map[string]string

// Normalizer turns raw comparison-export rows into canonical plans
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a new normalizer
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// ReadSource reads a semicolon-delimited CSV file with a header row
func (n *Normalizer) ReadSource(path string) ([]SourceRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source %s: %w", path, err)
	}
	defer f.Close()

	return n.ParseSource(f)
}

// ParseSource reads semicolon-delimited CSV rows from r. Malformed records are logged and skipped.
func (n *Normalizer) ParseSource(r io.Reader) ([]SourceRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read source header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows []SourceRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				n.logger.Warn("Skipping malformed source record",
					zap.Int("line", parseErr.Line),
					zap.Error(err))
				continue
			}
			return nil, fmt.Errorf("failed to read source: %w", err)
		}

		row := make(SourceRow, len(header))
		for i, value := range record {
			if i < len(header) {
				row[header[i]] = value
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Normalize converts rows into plans. Rows missing a source field are logged and skipped;
// plan ids count only the rows that were kept.
func (n *Normalizer) Normalize(rows []SourceRow) []model.Plan {
	plans := make([]model.Plan, 0, len(rows))
	for i, row := range rows {
		plan, err := NormalizeRow(row, len(plans))
		if err != nil {
			n.logger.Warn("Skipping source row",
				zap.Int("row", i+1),
				zap.Error(err))
			continue
		}
		plans = append(plans, plan)
	}

	n.logger.Info("Normalized source rows",
		zap.Int("rows", len(rows)),
		zap.Int("plans", len(plans)))
	return plans
}

// NormalizeRow builds the plan at ingestion index from one source row
func NormalizeRow(row SourceRow, index int) (model.Plan, error) {
	for _, field := range SourceFields {
		if _, ok := row[field]; !ok {
			return model.Plan{}, fmt.Errorf("missing field %q", field)
		}
	}

	annual := utils.CleanCurrency(row[FieldAnnualPremium])

	return model.Plan{
		ID:      fmt.Sprintf("%s_%d", model.PlanTypeWholeLife, index),
		Title:   row[FieldName],
		Company: row[FieldCompany],
		Type:    model.PlanTypeWholeLife,
		Price:   annual / 12,
		Features: model.JSONArray{
			fmt.Sprintf("%s Major Illnesses", row[FieldMajorIllnesses]),
			fmt.Sprintf("%s Early Stage Illnesses", row[FieldEarlyIllnesses]),
			fmt.Sprintf("Maximum Payout: %s", row[FieldMaximumPayout]),
			fmt.Sprintf("Premium Term: %s years", row[FieldPremiumTerm]),
		},
		Details: model.PlanDetails{
			WholeLifeScore:         utils.CleanScore(row[FieldWholeLifeScore]),
			TermsScore:             utils.CleanScore(row[FieldTermsScore]),
			TotalScore:             utils.CleanScore(row[FieldTotalScore]),
			OriginalWholeLifeScore: row[FieldWholeLifeScore],
			OriginalTermsScore:     row[FieldTermsScore],
			OriginalTotalScore:     row[FieldTotalScore],
			Gender:                 row[FieldGender],
			Age:                    row[FieldAge],
			SmokerStatus:           row[FieldSmokerStatus],
			PremiumTermYears:       row[FieldPremiumTerm],
			AnnualPremium:          row[FieldAnnualPremium],
			AnnualPremiumValue:     annual,
			MajorIllnesses:         row[FieldMajorIllnesses],
			EarlyIllnesses:         row[FieldEarlyIllnesses],
			MaximumPayout:          row[FieldMaximumPayout],
			WaitingPeriod:          row[FieldWaitingPeriod],
			IssueAge:               row[FieldIssueAge],
		},
		Starred: false,
	}, nil
}
