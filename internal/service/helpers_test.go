package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"insurebot/internal/model"
	"insurebot/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sourceHeader = "Name;Company;AnnualPremium;WholeLifeScore;TermsScore;TotalScore;Gender;Age;Smoker_Status;PremiumTerm_Years;Number_of_Covered_Major_Illnesses;Number_of_Covered_Early_Illnesses;Maximum_Payout;Waiting_Period;Issue_Age"

var sourceRows = []string{
	"Wealth Protector;AIA;HK$12,000;9.5 / 10;8.0;8.0;Male;30;Non Smoker;10;100;50;HK$1,000,000;90 days;0-65",
	"Legacy Plus;FWD|富衛;HK$18,000;8.0;7.5;7.0;Male;40;Non Smoker;20;120;60;HK$2,000,000;90 days;15-70",
	"Family Shield;Manulife|宏利;HK$9,600;9.0;9.0;9.0;Female;30;Smoker;25;110;45;HK$1,500,000;60 days;0-60",
	"Golden Years;Prudential;HK$24,000;7.0;6.5;6.0;Female;50;Non Smoker;15;90;30;HK$800,000;120 days;18-65",
}

func writeSource(t *testing.T, dir string, rows ...string) string {
	t.Helper()
	path := filepath.Join(dir, "source.csv")
	content := sourceHeader + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newTestCatalog builds a file-backed catalog whose source holds rows
func newTestCatalog(t *testing.T, rows ...string) (*CatalogService, string) {
	t.Helper()
	dir := t.TempDir()
	source := writeSource(t, dir, rows...)
	catalogPath := filepath.Join(dir, "catalog.json")

	logger := zap.NewNop()
	repo := repository.NewFileCatalogRepository(catalogPath)
	return NewCatalogService(repo, NewNormalizer(logger), source, logger), catalogPath
}

func newTestUserPlans(t *testing.T, catalog PlanLookup) *UserPlanService {
	t.Helper()
	dir := t.TempDir()
	logger := zap.NewNop()
	saved := repository.NewJSONStore[[]model.SavedPlan](filepath.Join(dir, "saved_plans.json"), logger)
	profiles := repository.NewJSONStore[model.Profile](filepath.Join(dir, "user_profiles.json"), logger)
	return NewUserPlanService(catalog, saved, profiles, "default", logger)
}

type fakeAdvisor struct {
	reply   string
	err     error
	prompts []string
}

func (a *fakeAdvisor) Advise(ctx context.Context, prompt string) (string, error) {
	a.prompts = append(a.prompts, prompt)
	return a.reply, a.err
}

func newTestEngine(advisor Advisor) *Engine {
	engine := NewEngine(advisor, zap.NewNop())
	engine.pick = func(int) int { return 0 }
	return engine
}

func testPlan(id, company, title string, wholeLife, total float64) model.Plan {
	return model.Plan{
		ID:      id,
		Title:   title,
		Company: company,
		Type:    model.PlanTypeWholeLife,
		Details: model.PlanDetails{
			WholeLifeScore: wholeLife,
			TotalScore:     total,
		},
	}
}
