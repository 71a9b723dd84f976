package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"insurebot/internal/model"
	"insurebot/internal/utils"

	"go.uber.org/zap"
)

// Engine turns one user message plus the session context into a reply.
// It answers canned small talk locally, consults the advisor for everything
// else and falls back to keyword rules when the advisor fails.
type Engine struct {
	advisor Advisor
	logger  *zap.Logger
	pick    func(n int) int
}

// NewEngine creates a conversation engine. advisor may be nil, in which case
// every free-text turn is answered by the keyword rules.
func NewEngine(advisor Advisor, logger *zap.Logger) *Engine {
	return &Engine{
		advisor: advisor,
		logger:  logger,
		pick:    rand.Intn,
	}
}

// Respond produces the reply for input and updates convCtx in place.
// A nil convCtx is treated as empty and its updates are discarded.
func (e *Engine) Respond(ctx context.Context, input string, convCtx model.ConversationContext) model.TurnResult {
	if convCtx == nil {
		convCtx = model.ConversationContext{}
	}

	text := strings.TrimSpace(input)
	if text == "" {
		return model.TurnResult{Text: e.choose(greetingResponses)}
	}
	lower := strings.ToLower(text)

	if reply, ok := e.canned(lower); ok {
		return model.TurnResult{Text: reply}
	}

	if e.advisor != nil {
		raw, err := e.advisor.Advise(ctx, BuildContextPrompt(text, convCtx))
		if err == nil {
			return e.interpret(raw, lower, convCtx)
		}
		e.logger.Warn("Advisory responder failed, using keyword fallback", zap.Error(err))
	}

	return model.TurnResult{Text: e.fallback(lower, convCtx)}
}

func (e *Engine) canned(lower string) (string, bool) {
	switch {
	case greetingPattern.re.MatchString(lower):
		return e.choose(greetingResponses), true
	case farewellPattern.re.MatchString(lower):
		return e.choose(farewellResponses), true
	case thanksPattern.re.MatchString(lower):
		return e.choose(thanksResponses), true
	}
	return "", false
}

// interpret applies an advisory reply to the context and picks the text to show
func (e *Engine) interpret(raw, lower string, convCtx model.ConversationContext) model.TurnResult {
	var reply model.AdvisoryReply
	if err := utils.ParseAIJSON(raw, &reply); err != nil {
		e.logger.Debug("Advisory reply is not structured, showing it as text", zap.Error(err))
		if topic, ok := firstMatch(insuranceTypePatterns, lower); ok {
			convCtx[model.CtxLastTopic] = topic
		}
		return model.TurnResult{Text: raw}
	}

	result := model.TurnResult{Text: reply.Response}
	if strings.TrimSpace(reply.Response) == "" {
		result.Text = raw
	}

	if len(reply.InsuranceCriteria) > 0 {
		result.HasSearchCriteria = true
		for k, v := range reply.InsuranceCriteria {
			convCtx[k] = v
		}
		if coverage, ok := reply.InsuranceCriteria[model.CtxCoverageType]; ok && formatValue(coverage) != "" {
			convCtx[model.CtxLastTopic] = coverage
		}
	}

	return result
}

// fallback answers from the keyword rules, first matching category wins
func (e *Engine) fallback(lower string, convCtx model.ConversationContext) string {
	if kind, ok := firstMatch(insuranceTypePatterns, lower); ok {
		convCtx[model.CtxLastTopic] = kind
		addInsuranceType(convCtx, kind)
		return insuranceTypeAnswers[kind]
	}

	if term, ok := firstMatch(coverageTermPatterns, lower); ok {
		convCtx[model.CtxLastTopic] = term
		return coverageTermAnswers[term]
	}

	if prescriptionPattern.re.MatchString(lower) {
		convCtx[model.CtxLastTopic] = prescriptionPattern.key
		return prescriptionAnswer
	}

	if budgetPattern.re.MatchString(lower) {
		convCtx[model.CtxLastTopic] = budgetPattern.key
		if m := budgetAmountRe.FindStringSubmatch(lower); m != nil {
			if amount, err := strconv.Atoi(m[1]); err == nil {
				convCtx[model.CtxBudget] = amount
				return fmt.Sprintf(budgetFoundFormat, amount)
			}
		}
		return budgetAskAnswer
	}

	if comparisonPattern.re.MatchString(lower) {
		life := interestedIn(convCtx, "life")
		convCtx[model.CtxLastTopic] = comparisonPattern.key
		if life {
			return compareLifeAnswer
		}
		return compareGenericAnswer
	}

	if hospitalPattern.re.MatchString(lower) {
		convCtx[model.CtxLastTopic] = hospitalPattern.key
		return hospitalAnswer
	}

	if helpPattern.re.MatchString(lower) {
		return helpAnswer(lower)
	}

	switch topic := formatValue(convCtx[model.CtxLastTopic]); topic {
	case "":
		return genericAnswer
	case "life":
		return topicLifeAnswer
	case "health":
		return topicHealthAnswer
	default:
		return fmt.Sprintf(topicOtherFormat, strings.ReplaceAll(topic, "_", " "))
	}
}

func helpAnswer(lower string) string {
	switch {
	case strings.Contains(lower, "health insurance"):
		return helpHealthAnswer
	case strings.Contains(lower, "plan"), strings.Contains(lower, "insurance"):
		return helpPlanAnswer
	case strings.Contains(lower, "premium"), strings.Contains(lower, "cost"), strings.Contains(lower, "price"):
		return helpPremiumAnswer
	case strings.Contains(lower, "deductible"):
		return coverageTermAnswers["deductible"]
	case strings.Contains(lower, "coverage"):
		return helpCoverageAnswer
	default:
		return helpGeneralAnswer
	}
}

func (e *Engine) choose(options []string) string {
	return options[e.pick(len(options))]
}

func firstMatch(patterns []pattern, lower string) (string, bool) {
	for _, p := range patterns {
		if p.re.MatchString(lower) {
			return p.key, true
		}
	}
	return "", false
}

// addInsuranceType records kind in the insurance_types list without duplicates.
// The list may hold []string or, after a JSON round trip, []any.
func addInsuranceType(convCtx model.ConversationContext, kind string) {
	types := contextStrings(convCtx[model.CtxInsuranceTypes])
	for _, t := range types {
		if t == kind {
			return
		}
	}
	convCtx[model.CtxInsuranceTypes] = append(types, kind)
}

func interestedIn(convCtx model.ConversationContext, kind string) bool {
	if formatValue(convCtx[model.CtxLastTopic]) == kind {
		return true
	}
	for _, t := range contextStrings(convCtx[model.CtxInsuranceTypes]) {
		if t == kind {
			return true
		}
	}
	return false
}

func contextStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, formatValue(item))
		}
		return out
	case string:
		if list == "" {
			return nil
		}
		return []string{list}
	}
	return nil
}

// BuildContextPrompt renders the user query and the known context keys into the
// advisory prompt.
func BuildContextPrompt(input string, convCtx model.ConversationContext) string {
	var b strings.Builder
	b.WriteString("User query: ")
	b.WriteString(input)
	b.WriteString("\n\n")

	var lines []string
	for _, key := range model.PromptContextKeys {
		v, ok := convCtx[key]
		if !ok || v == nil {
			continue
		}
		switch key {
		case model.CtxUserName:
			lines = append(lines, "- User's name: "+formatValue(v))
		case model.CtxInsuranceTypes:
			lines = append(lines, "- User is interested in: "+strings.Join(contextStrings(v), ", "))
		case model.CtxMonthlyBudget:
			lines = append(lines, "- User's monthly budget: $"+formatBudget(v))
		case model.CtxBudget:
			lines = append(lines, "- User's budget: $"+formatBudget(v))
		case model.CtxLastTopic:
			lines = append(lines, "- Last discussed topic: "+formatValue(v))
		case model.CtxAge:
			lines = append(lines, "- User's age: "+formatValue(v))
		case model.CtxSmokerStatus:
			lines = append(lines, "- Smoking status: "+formatValue(v))
		case model.CtxGender:
			lines = append(lines, "- Gender: "+formatValue(v))
		}
	}
	if len(lines) > 0 {
		b.WriteString("Context:\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\nRemember to respond with valid JSON as specified in your instructions.")
	return b.String()
}

// formatBudget renders a budget amount without a trailing ".00" for whole numbers
func formatBudget(v any) string {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'f', 2, 64)
	case string:
		return strings.TrimPrefix(strings.TrimSpace(n), "$")
	}
	return formatValue(v)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	}
	return fmt.Sprint(v)
}
