// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

// ExpandQuery scopes a free-text query to the subject-term allow-list by
// AND-ing an OR-group of MeSH clauses onto it. A query that already carries
// an explicit "[MeSH" clause is returned unchanged, as is any query when the
// allow-list is empty.
func ExpandQuery(query string, meshTerms []string) string {
	if strings.Contains(query, "[MeSH") || len(meshTerms) == 0 {
		return query
	}

	clauses := make([]string, 0, len(meshTerms))
	for _, term := range meshTerms {
		clauses = append(clauses, fmt.Sprintf("%q[MeSH]", term))
	}
	return fmt.Sprintf("(%s) AND (%s)", query, strings.Join(clauses, " OR "))
}

// dateRangeClauses maps each named range to its publication-date filter.
var dateRangeClauses = map[types.DateRange]string{
	types.Range7Days:   `"last 7 days"[PDat]`,
	types.Range30Days:  `"last 30 days"[PDat]`,
	types.Range60Days:  `"last 60 days"[PDat]`,
	types.Range90Days:  `"last 90 days"[PDat]`,
	types.Range180Days: `"last 180 days"[PDat]`,
	types.Range1Year:   `"last 1 year"[PDat]`,
}

// AddDateRange appends a publication-date filter for the named range.
// Unknown or empty ranges leave the query untouched.
func AddDateRange(query string, r types.DateRange) string {
	clause, ok := dateRangeClauses[r]
	if !ok {
		return query
	}
	return query + " AND (" + clause + ")"
}

// monthNumbers maps English month abbreviations to zero-padded numbers.
var monthNumbers = map[string]string{
	"Jan": "01", "Feb": "02", "Mar": "03", "Apr": "04",
	"May": "05", "Jun": "06", "Jul": "07", "Aug": "08",
	"Sep": "09", "Oct": "10", "Nov": "11", "Dec": "12",
}

// formatMonth normalizes a month token from a publication date to a
// two-digit number. Numeric tokens are zero-padded; unrecognized names
// default to January.
func formatMonth(month string) string {
	if m, ok := monthNumbers[month]; ok {
		return m
	}
	if n, err := strconv.Atoi(month); err == nil && n >= 1 && n <= 12 {
		return fmt.Sprintf("%02d", n)
	}
	return "01"
}

// formatDate assembles a YYYY[-MM[-DD]] date from efetch date parts. The
// year is required; month and day extend it when present.
func formatDate(year, month, day string) string {
	if year == "" {
		return ""
	}
	date := year
	if month != "" {
		date += "-" + formatMonth(month)
		if day != "" {
			if n, err := strconv.Atoi(day); err == nil {
				date += fmt.Sprintf("-%02d", n)
			}
		}
	}
	return date
}
