package service

import "regexp"

// pattern is one named regex category of the conversation engine
type pattern struct {
	key string
	re  *regexp.Regexp
}

// wordPattern matches any alternative as a whole word. \b is ASCII only, so a
// keyword directly followed by CJK text still matches.
func wordPattern(key, alternatives string) pattern {
	return pattern{key: key, re: regexp.MustCompile(`\b(` + alternatives + `)\b`)}
}

// Canned short-circuit categories, checked in order
var (
	greetingPattern = wordPattern("greeting", "hi|hello|hey|greetings|howdy")
	farewellPattern = wordPattern("farewell", "bye|goodbye|see you|farewell|exit|quit")
	thanksPattern   = wordPattern("thanks", "thanks|thank you|appreciate|grateful")
)

// insuranceTypePatterns map user wording to a topic key, checked in order
var insuranceTypePatterns = []pattern{
	wordPattern("health", "health insurance|medical|healthcare|doctor|hospital|prescription|medicine"),
	wordPattern("auto", "auto insurance|car insurance|vehicle|driving|automobile|car|truck|motorcycle"),
	wordPattern("home", "home insurance|house|property|dwelling|homeowner"),
	wordPattern("life", "life insurance|death benefit|beneficiary|term life|whole life"),
	wordPattern("disability", "disability|unable to work|income protection|sick leave"),
	wordPattern("renters", "renters insurance|apartment|tenant|landlord"),
}

// coverageTermPatterns map user wording to a glossary term, checked in order
var coverageTermPatterns = []pattern{
	wordPattern("deductible", "deductible|out of pocket|before insurance pays"),
	wordPattern("premium", "premium|monthly cost|monthly payment|insurance cost|price|pricing"),
	wordPattern("copay", "copay|copayment|pay for visit|doctor visit cost"),
	wordPattern("coinsurance", "coinsurance|percentage|cost sharing"),
	wordPattern("out_of_pocket_maximum", "out of pocket maximum|maximum out of pocket|oop max"),
	wordPattern("network", "network|in-network|out-of-network|provider network|doctors in network"),
	wordPattern("claim", "claim|file a claim|insurance claim|make a claim"),
	wordPattern("liability", "liability|liable|legally responsible|at fault"),
}

var (
	prescriptionPattern = wordPattern("prescription", "prescription|medicine|medication|drug|pharmacy|prescription drug")
	budgetPattern       = wordPattern("budget", "budget|afford|cost|price|monthly payment|payment")
	comparisonPattern   = wordPattern("comparison", "compare|comparison|difference|versus|vs|better|best|recommend|recommendation")
	hospitalPattern     = wordPattern("hospital", "hospital|medical center|emergency room|er|urgent care|clinic")
	helpPattern         = wordPattern("help", "help|confused|explain|understand|how does|what is|tell me about")

	budgetAmountRe = regexp.MustCompile(`\$?(\d+)`)
)

var greetingResponses = []string{
	"Hello! How can I help you with your whole life insurance questions today?",
	"Hi there! I'm InsureBot, your Hong Kong whole life insurance assistant. What would you like to know?",
	"Welcome! I can help you compare whole life plans and find cover that suits you. Where shall we start?",
}

var farewellResponses = []string{
	"Thanks for chatting today. Come back any time you have more insurance questions!",
	"Have a great day! I'm here whenever you want to look at plans again.",
	"Goodbye! Your saved plans will be waiting for you next time.",
}

var thanksResponses = []string{
	"You're welcome! Happy to help with your insurance planning.",
	"Glad I could help. Let me know if there's anything else you'd like to check.",
	"No problem at all, that's what I'm here for.",
}

var insuranceTypeAnswers = map[string]string{
	"health":     "Health insurance pays for medical expenses such as doctor visits, hospital stays and treatment. Many whole life plans in Hong Kong bundle critical illness cover, which pays a lump sum when a covered illness is diagnosed.",
	"auto":       "Auto insurance protects you against damage, theft and liability arising from driving. I specialise in whole life cover, but I'm happy to explain how it fits alongside your other policies.",
	"home":       "Home insurance protects your property and belongings against damage or theft and usually includes liability cover for accidents at home.",
	"life":       "Whole life insurance covers you for your entire life and pays a benefit to your beneficiaries. Plans differ in premium term, the number of major and early-stage illnesses covered, and the maximum payout.",
	"disability": "Disability insurance replaces part of your income if illness or injury stops you from working. Critical illness riders on whole life plans can complement it with a lump-sum payout.",
	"renters":    "Renters insurance protects your belongings in a rented home and provides liability cover, without insuring the building itself.",
}

var coverageTermAnswers = map[string]string{
	"deductible":            "A deductible is the amount you pay yourself before the insurer starts paying. Whole life critical illness plans usually pay a lump sum instead, so deductibles are uncommon there.",
	"premium":               "The premium is what you pay to keep the policy in force. The catalog shows a monthly figure derived from the annual premium, and the premium term tells you for how many years you pay.",
	"copay":                 "A copay is a fixed amount you pay for a covered service, for example a set fee per doctor visit.",
	"coinsurance":           "Coinsurance is the share of costs you pay after any deductible, for example 20% while the insurer pays 80%.",
	"out_of_pocket_maximum": "The out-of-pocket maximum caps what you pay for covered services in a policy period. After that the insurer pays in full.",
	"network":               "A network is the group of providers your insurer has agreements with. Using in-network providers usually costs less.",
	"claim":                 "A claim is your formal request for the insurer to pay a benefit. For critical illness cover you normally submit a diagnosis report after any waiting period has passed.",
	"liability":             "Liability cover protects you when you are legally responsible for injury to others or damage to their property.",
}

const (
	prescriptionAnswer = "Prescription costs are normally covered by medical plans rather than whole life policies. A critical illness payout from a whole life plan can still help with treatment costs. Would you like to see plans with strong illness coverage?"
	budgetAskAnswer    = "What monthly budget do you have in mind? I can narrow the catalog to plans within that premium."
	budgetFoundFormat  = "I'll look for whole life plans within your $%d monthly budget. Use the price filter to see every plan at or below that premium, or tell me your age and smoking status for a closer match."

	compareLifeAnswer    = "When comparing whole life plans, look at the whole life score first, then the terms score, the number of major and early-stage illnesses covered, and the premium term. Add two plans to your comparison to see them side by side."
	compareGenericAnswer = "I can help you compare plans. Add up to two plans to your comparison, or tell me what matters most to you: price, coverage or overall score."

	hospitalAnswer = "Whole life critical illness plans pay a lump sum on diagnosis, so you are free to choose any hospital or clinic. Check the waiting period and the list of covered illnesses for each plan."

	helpHealthAnswer   = "Health cover pays for treatment, while critical illness cover in a whole life plan pays a lump sum on diagnosis. I can show you plans with the broadest illness coverage."
	helpPlanAnswer     = "I can explain how whole life plans work, filter the catalog by age, gender, smoking status, price and score, and compare plans side by side. What would you like to look at?"
	helpPremiumAnswer  = "Premiums depend on your age, gender, smoking status and the premium term. The catalog shows monthly premiums so you can compare plans directly."
	helpCoverageAnswer = "Coverage describes what a policy pays for. For whole life plans, compare the number of major and early-stage illnesses covered and the maximum payout."
	helpGeneralAnswer  = "I'm InsureBot, your whole life insurance assistant. Ask me about plans, premiums, scores or coverage terms, or tell me about yourself and I'll suggest plans."

	topicLifeAnswer   = "Based on our conversation about life cover, I'd start with the plans that have the highest whole life score. Would you like me to show the top plans for your profile?"
	topicHealthAnswer = "Since we were talking about health cover, plans with more major and early-stage illnesses covered are worth a look. Shall I show some options?"
	topicOtherFormat  = "We were talking about %s. Would you like me to explain more, or shall we look at whole life plans that suit you?"

	genericAnswer = "I can help with whole life insurance plans, premiums, scores and coverage terms. Could you tell me a bit more about what you're looking for?"
)
