package utils

import (
	"strings"
)

// KnownInsurers lists the canonical English names of insurers in the catalog source
var KnownInsurers = []string{
	"AIA",
	"AXA",
	"BOC Life",
	"Chubb",
	"China Life",
	"FT Life",
	"FWD",
	"Generali",
	"Manulife",
	"Prudential",
	"Sun Life",
	"Well Link",
	"YF Life",
}

// insurerAliases maps informal search terms to a canonical insurer name
var insurerAliases = map[string]string{
	"bank of china": "BOC Life",
	"boc":           "BOC Life",
	"bocl":          "BOC Life",
	"china life":    "China Life",
	"ftlife":        "FT Life",
	"ft":            "FT Life",
	"sunlife":       "Sun Life",
	"sun life":      "Sun Life",
	"manu":          "Manulife",
	"pru":           "Prudential",
	"prudential hk": "Prudential",
	"yf":            "YF Life",
	"massmutual":    "YF Life",
	"welllink":      "Well Link",
	"well link":     "Well Link",
}

// CompanyDisplayName returns the English part of a bilingual company name,
// e.g. "AIA | 友邦" -> "AIA". Names without "|" are returned trimmed.
func CompanyDisplayName(company string) string {
	if before, _, found := strings.Cut(company, "|"); found {
		return strings.TrimSpace(before)
	}
	return strings.TrimSpace(company)
}

// CanonicalInsurer resolves a company name to one of KnownInsurers.
// It tries the full name, then the English part, then the first known
// insurer contained in the name.
func CanonicalInsurer(company string) (string, bool) {
	full := strings.TrimSpace(company)
	english := CompanyDisplayName(company)
	for _, name := range KnownInsurers {
		if name == full || name == english {
			return name, true
		}
	}
	for _, name := range KnownInsurers {
		if strings.Contains(full, name) {
			return name, true
		}
	}
	return "", false
}

// MatchCompany performs fuzzy matching of a search term against a company name.
// Returns true if the term names the same insurer.
func MatchCompany(term, company string) bool {
	termLower := strings.ToLower(strings.TrimSpace(term))
	if termLower == "" {
		return true
	}
	companyLower := strings.ToLower(strings.TrimSpace(company))
	displayLower := strings.ToLower(CompanyDisplayName(company))

	// Exact match
	if termLower == companyLower || termLower == displayLower {
		return true
	}

	// Contains match
	if strings.Contains(companyLower, termLower) {
		return true
	}

	// Alias match
	canonical, ok := CanonicalInsurer(company)
	if !ok {
		return false
	}
	if alias, ok := insurerAliases[termLower]; ok {
		return alias == canonical
	}
	return strings.EqualFold(strings.ReplaceAll(termLower, " ", ""), strings.ReplaceAll(canonical, " ", ""))
}
