package usecase

import (
	"strings"
	"time"

	"vacancyboard/internal/core/model"
)

// FilterVacancies computes the subsequence of vacancies satisfying every
// active facet of the selection. Facet categories are combined with AND; the
// selected values inside one facet are combined with OR. An empty selected
// set deactivates its facet, so an all-empty selection returns the input
// unchanged. The input order is preserved; the engine never resorts.
func FilterVacancies(vacancies []model.Vacancy, selection model.FacetSelection) []model.Vacancy {
	filtered := make([]model.Vacancy, 0, len(vacancies))
	for _, vacancy := range vacancies {
		if MatchesSelection(vacancy, selection) {
			filtered = append(filtered, vacancy)
		}
	}
	return filtered
}

// MatchesSelection reports whether a single vacancy satisfies every active
// facet of the selection.
func MatchesSelection(vacancy model.Vacancy, selection model.FacetSelection) bool {
	if !matchesValue(vacancy.EmployerName, selection.Employers) {
		return false
	}
	if !matchesValue(vacancy.Type, selection.Types) {
		return false
	}
	if !matchesAny(vacancy.Locations, selection.Locations) {
		return false
	}
	if !matchesAny(vacancy.Skills, selection.Skills) {
		return false
	}
	if !matchesDeadline(vacancy.Deadline, selection.DeadlineFrom, selection.DeadlineTo) {
		return false
	}
	return matchesQuery(vacancy, selection.Query)
}

// matchesValue implements the scalar facet rule: the value must be a member
// of the selected set, unless the set is empty (facet inactive).
func matchesValue(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == value {
			return true
		}
	}
	return false
}

// matchesAny implements the set-valued facet rule: the vacancy's own set must
// intersect the selected set, unless the selected set is empty. A vacancy
// with an empty own set never matches an active selection.
func matchesAny(own []string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, o := range own {
		for _, s := range selected {
			if s == o {
				return true
			}
		}
	}
	return false
}

// matchesDeadline implements the range facet rule: from <= deadline <= to,
// bounds inclusive. A nil deadline never matches an active range; with no
// range supplied every posting passes, nil deadlines included.
func matchesDeadline(deadline *time.Time, from, to time.Time) bool {
	if from.IsZero() && to.IsZero() {
		return true
	}
	if deadline == nil {
		return false
	}
	if !from.IsZero() && deadline.Before(from) {
		return false
	}
	if !to.IsZero() && deadline.After(to) {
		return false
	}
	return true
}

// matchesQuery matches the free-text keyword case-insensitively against
// title and body.
func matchesQuery(vacancy model.Vacancy, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	query = strings.ToLower(query)
	return strings.Contains(strings.ToLower(vacancy.Title), query) ||
		strings.Contains(strings.ToLower(vacancy.Body), query)
}
